package contract

import (
	"fmt"
	"slices"
	"strings"

	"github.com/huangsam/pnps/schema"
	"github.com/samber/lo"
	"go.uber.org/zap/zapcore"
)

// Default values for configuration.
const (
	DefaultMinCoverage    = 30
	DefaultMinDeparture   = 0.10
	DefaultMinNumVariants = 10
	DefaultPrecision      = 3
	MaxPrecision          = 8
)

// Config holds the runtime configuration for a pnps run.
// This struct remains the "final, validated" config.
type Config struct {
	AATable   string
	CDNTable  string
	OutputDir string

	MinCoverage    int
	MinDeparture   float64
	MinNumVariants int

	// GeneFilter restricts the potential command to these genes when non-empty.
	GeneFilter []schema.GeneID

	Precision  int
	Output     schema.OutputMode
	OutputFile string
	Exports    []schema.ExportFormat
	Width      int // Terminal width override (0 = auto-detect)
	UseColors  bool
	LogLevel   zapcore.Level

	GenesBackend   schema.DatabaseBackend
	GenesDBConnect string // Please use env var as this is plaintext

	RunsBackend   schema.DatabaseBackend
	RunsDBConnect string // Please use env var as this is plaintext
}

// ConfigRawInput holds the raw inputs from all sources (flags, env, config file).
// Viper unmarshals into this struct.
type ConfigRawInput struct {
	// --- Fields from rootCmd.PersistentFlags() ---
	Output         string `mapstructure:"output"`
	OutputFile     string `mapstructure:"output-file"`
	Precision      int    `mapstructure:"precision"`
	Width          int    `mapstructure:"width"`
	Color          string `mapstructure:"color"`
	LogLevel       string `mapstructure:"log-level"`
	GenesBackend   string `mapstructure:"genes-backend"`
	GenesDBConnect string `mapstructure:"genes-db-connect"`
	RunsBackend    string `mapstructure:"runs-backend"`
	RunsDBConnect  string `mapstructure:"runs-db-connect"`

	// --- Fields from ratioCmd.Flags() ---
	AATable        string  `mapstructure:"aa-table"`
	CDNTable       string  `mapstructure:"cdn-table"`
	OutputDir      string  `mapstructure:"output-dir"`
	MinCoverage    int     `mapstructure:"min-coverage"`
	MinDeparture   float64 `mapstructure:"min-departure-from-consensus"`
	MinNumVariants int     `mapstructure:"minimum-num-variants"`
	Export         string  `mapstructure:"export"`

	// --- Fields from potentialCmd.Flags() ---
	Genes string `mapstructure:"genes"`
}

// Clone returns a deep copy of the Config struct.
func (c *Config) Clone() *Config {
	clone := *c
	clone.GeneFilter = slices.Clone(c.GeneFilter)
	clone.Exports = slices.Clone(c.Exports)
	return &clone
}

// HasExport reports whether an extra export format was requested.
func (c *Config) HasExport(format schema.ExportFormat) bool {
	return slices.Contains(c.Exports, format)
}

// ProcessAndValidate performs all parsing and validation on the raw inputs
// and updates the final Config struct.
func ProcessAndValidate(cfg *Config, input *ConfigRawInput) error {
	if err := validateSimpleInputs(cfg, input); err != nil {
		return err
	}
	if err := ValidateThresholds(input.MinCoverage, input.MinDeparture, input.MinNumVariants); err != nil {
		return err
	}
	cfg.MinCoverage = input.MinCoverage
	cfg.MinDeparture = input.MinDeparture
	cfg.MinNumVariants = input.MinNumVariants
	cfg.AATable = input.AATable
	cfg.CDNTable = input.CDNTable
	cfg.OutputDir = input.OutputDir

	if err := processExports(cfg, input); err != nil {
		return err
	}
	if err := processGeneFilter(cfg, input); err != nil {
		return err
	}
	return validateBackendConfigs(cfg, input)
}

// ValidateRatioInputs checks the inputs only the ratio command needs.
func ValidateRatioInputs(cfg *Config) error {
	if cfg.OutputDir == "" {
		return ConfigErrorf("--output-dir is required")
	}
	return ValidateVariabilityTables(cfg)
}

// ValidateVariabilityTables checks that both variability tables are given,
// distinct and readable.
func ValidateVariabilityTables(cfg *Config) error {
	if cfg.AATable == "" {
		return ConfigErrorf("--aa-table is required")
	}
	if cfg.CDNTable == "" {
		return ConfigErrorf("--cdn-table is required")
	}
	if cfg.AATable == cfg.CDNTable {
		return ConfigErrorf("--aa-table and --cdn-table must be different files (both are %q)", cfg.AATable)
	}
	if err := CheckReadableFile(cfg.AATable); err != nil {
		return err
	}
	return CheckReadableFile(cfg.CDNTable)
}

// ValidateThresholds validates the numeric thresholds of a ratio run.
func ValidateThresholds(minCoverage int, minDeparture float64, minNumVariants int) error {
	if minCoverage < 0 {
		return ConfigErrorf("min-coverage cannot be negative (received %d)", minCoverage)
	}
	if minDeparture < 0 || minDeparture > 1 {
		return ConfigErrorf("min-departure-from-consensus must be between 0 and 1 (received %g)", minDeparture)
	}
	if minNumVariants < 0 {
		return ConfigErrorf("minimum-num-variants cannot be negative (received %d)", minNumVariants)
	}
	return nil
}

// ValidateDatabaseConnectionString validates the format of database connection strings
// for MySQL and PostgreSQL backends.
func ValidateDatabaseConnectionString(backend schema.DatabaseBackend, connStr string) error {
	switch backend {
	case schema.SQLiteBackend, schema.NoneBackend:
		return nil
	case schema.MySQLBackend:
		if connStr == "" {
			return ConfigErrorf("a connection string is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "@tcp(") {
			return ConfigErrorf("MySQL connection string must contain '@tcp(' for host:port specification")
		}
		if !strings.Contains(connStr, "/") {
			return ConfigErrorf("MySQL connection string must contain '/' followed by database name")
		}
	case schema.PostgreSQLBackend:
		if connStr == "" {
			return ConfigErrorf("a connection string is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "host=") {
			return ConfigErrorf("PostgreSQL connection string must contain 'host=' parameter")
		}
		if !strings.Contains(connStr, "dbname=") {
			return ConfigErrorf("PostgreSQL connection string must contain 'dbname=' parameter")
		}
	}
	return nil
}

// ParseBackend lowercases and validates a backend name. Empty maps to fallback.
func ParseBackend(raw string, fallback schema.DatabaseBackend) (schema.DatabaseBackend, error) {
	if raw == "" {
		return fallback, nil
	}
	backend := schema.DatabaseBackend(strings.ToLower(raw))
	if _, ok := schema.ValidDatabaseBackends[backend]; !ok {
		return "", ConfigErrorf("invalid backend '%s'. must be sqlite, mysql, postgresql, none", raw)
	}
	return backend, nil
}

// validateBackendConfigs validates gene and run store configurations.
func validateBackendConfigs(cfg *Config, input *ConfigRawInput) error {
	// --- Gene Store Validation ---
	backend, err := ParseBackend(input.GenesBackend, schema.SQLiteBackend)
	if err != nil {
		return err
	}
	cfg.GenesBackend = backend
	cfg.GenesDBConnect = input.GenesDBConnect
	if err := ValidateDatabaseConnectionString(cfg.GenesBackend, cfg.GenesDBConnect); err != nil {
		return err
	}

	// --- Run Store Validation ---
	backend, err = ParseBackend(input.RunsBackend, schema.NoneBackend)
	if err != nil {
		return err
	}
	cfg.RunsBackend = backend
	cfg.RunsDBConnect = input.RunsDBConnect
	if err := ValidateDatabaseConnectionString(cfg.RunsBackend, cfg.RunsDBConnect); err != nil {
		return err
	}

	// Both stores track their own migrations, so an SQLite file cannot be shared.
	if cfg.GenesBackend == schema.SQLiteBackend && cfg.RunsBackend == schema.SQLiteBackend {
		genesPath := lo.Ternary(cfg.GenesDBConnect != "", cfg.GenesDBConnect, GetGenesDBFilePath())
		runsPath := lo.Ternary(cfg.RunsDBConnect != "", cfg.RunsDBConnect, GetRunsDBFilePath())
		if genesPath == runsPath && genesPath != ":memory:" {
			return ConfigErrorf("gene and run stores must use different SQLite database files. Both resolve to %q", genesPath)
		}
	}
	return nil
}

// validateSimpleInputs processes and validates the presentation fields.
func validateSimpleInputs(cfg *Config, input *ConfigRawInput) error {
	cfg.OutputFile = input.OutputFile
	cfg.Width = input.Width

	colors, err := ParseBoolString(input.Color)
	if err != nil {
		return ConfigErrorf("invalid --color value: %v", err)
	}
	cfg.UseColors = colors

	if input.Precision < 1 || input.Precision > MaxPrecision {
		return ConfigErrorf("precision must be between 1 and %d (received %d)", MaxPrecision, input.Precision)
	}
	cfg.Precision = input.Precision

	cfg.Output = schema.OutputMode(strings.ToLower(input.Output))
	if _, ok := schema.ValidOutputModes[cfg.Output]; !ok {
		return ConfigErrorf("invalid output format '%s'. must be text, csv, json", input.Output)
	}

	level := input.LogLevel
	if level == "" {
		level = "warn"
	}
	parsed, err := zapcore.ParseLevel(level)
	if err != nil {
		return ConfigErrorf("invalid --log-level value: %v", err)
	}
	cfg.LogLevel = parsed
	return nil
}

// processExports parses the comma-separated export list.
func processExports(cfg *Config, input *ConfigRawInput) error {
	cfg.Exports = nil
	for _, part := range SplitList(input.Export) {
		format := schema.ExportFormat(strings.ToLower(part))
		if _, ok := schema.ValidExportFormats[format]; !ok {
			return ConfigErrorf("invalid export format '%s'. must be xlsx, parquet, json", part)
		}
		cfg.Exports = append(cfg.Exports, format)
	}
	cfg.Exports = lo.Uniq(cfg.Exports)
	return nil
}

// processGeneFilter parses the comma-separated gene list.
func processGeneFilter(cfg *Config, input *ConfigRawInput) error {
	cfg.GeneFilter = nil
	for _, part := range SplitList(input.Genes) {
		id, err := schema.ParseGeneID(part)
		if err != nil {
			return ConfigErrorf("invalid gene id '%s' in --genes", part)
		}
		cfg.GeneFilter = append(cfg.GeneFilter, id)
	}
	cfg.GeneFilter = lo.Uniq(cfg.GeneFilter)
	return nil
}

// String renders the thresholds for run headers.
func (c *Config) String() string {
	return fmt.Sprintf("min-coverage=%d min-departure=%g min-variants=%d", c.MinCoverage, c.MinDeparture, c.MinNumVariants)
}
