package schema

// Custom string types for type safety.
type (
	// Engine identifies the level a variant was called at.
	Engine string

	// OutputMode represents the format of the output.
	OutputMode string

	// ExportFormat represents an extra file format written next to the ratio tables.
	ExportFormat string

	// DatabaseBackend represents the database backend for the gene and run stores.
	DatabaseBackend string
)

// All variant engines supported.
const (
	AAEngine  Engine = "AA"  // amino acid level
	CDNEngine Engine = "CDN" // codon level
)

// All output modes supported.
const (
	CSVOut  OutputMode = "csv"
	TextOut OutputMode = "text" // default
	JSONOut OutputMode = "json"
)

// All export formats supported.
const (
	XLSXExport    ExportFormat = "xlsx"
	ParquetExport ExportFormat = "parquet"
	JSONExport    ExportFormat = "json"
)

// All database backends supported.
const (
	SQLiteBackend     DatabaseBackend = "sqlite" // default
	MySQLBackend      DatabaseBackend = "mysql"
	PostgreSQLBackend DatabaseBackend = "postgresql"
	NoneBackend       DatabaseBackend = "none"
)

// Names of the ratio tables written to the output directory.
const (
	PNPSFileName = "pN_pS_ratio.txt"
	SSCVFileName = "sSCV_counts.txt"
	SAAVFileName = "SAAV_counts.txt"
)

// Names of the optional export files written to the output directory.
const (
	WorkbookFileName    = "pN_pS.xlsx"
	LongParquetFileName = "pN_pS_long.parquet"
	JSONFileName        = "pN_pS.json"
)

// GeneColumn is the index column shared by the variability tables and the ratio tables.
const GeneColumn = "corresponding_gene_call"

// ValidOutputModes lists all valid output modes.
var ValidOutputModes = map[OutputMode]struct{}{
	CSVOut:  {},
	TextOut: {},
	JSONOut: {},
}

// ValidExportFormats lists all valid export formats.
var ValidExportFormats = map[ExportFormat]struct{}{
	XLSXExport:    {},
	ParquetExport: {},
	JSONExport:    {},
}

// ValidDatabaseBackends lists all valid database backends.
var ValidDatabaseBackends = map[DatabaseBackend]struct{}{
	SQLiteBackend:     {},
	MySQLBackend:      {},
	PostgreSQLBackend: {},
	NoneBackend:       {},
}
