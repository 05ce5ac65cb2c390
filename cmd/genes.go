package cmd

import (
	"fmt"
	"os"

	"github.com/huangsam/pnps/internal/contract"
	"github.com/huangsam/pnps/internal/importer"
	"github.com/huangsam/pnps/internal/store"
	"github.com/huangsam/pnps/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap/zapcore"
)

// genesConfigSetup resolves the gene store backend without opening it.
func genesConfigSetup() error {
	if err := loadConfigFile(); err != nil {
		return err
	}
	backend, connStr, err := storeBackend("genes-backend", "genes-db-connect", schema.SQLiteBackend)
	if err != nil {
		return err
	}
	cfg.GenesBackend = backend
	cfg.GenesDBConnect = connStr
	return nil
}

// genesSetup loads minimal configuration needed for gene store operations.
// This is used by commands that need the gene store without full shared setup.
func genesSetup(_ *cobra.Command, _ []string) error {
	if err := genesConfigSetup(); err != nil {
		return err
	}
	if err := setupReporter(logLevel()); err != nil {
		return err
	}
	// No run tracking for gene store commands
	if err := store.InitStores(cfg.GenesBackend, cfg.GenesDBConnect, schema.NoneBackend, ""); err != nil {
		return fmt.Errorf("failed to initialize gene store: %w", err)
	}
	if storeManager.GetGeneStore() == nil {
		return contract.ConfigErrorf("the gene store is disabled. Set --genes-backend to sqlite, mysql or postgresql")
	}
	return nil
}

// genesConfigSetupWrapper wraps genesConfigSetup for commands that must not
// open the store, such as clear and migrate.
func genesConfigSetupWrapper(_ *cobra.Command, _ []string) error {
	return genesConfigSetup()
}

// logLevel parses the configured log level, falling back to warn.
func logLevel() zapcore.Level {
	level, err := zapcore.ParseLevel(viper.GetString("log-level"))
	if err != nil {
		return zapcore.WarnLevel
	}
	return level
}

// sqlitePath returns the database file of an SQLite store.
func sqlitePath(connStr, defaultPath string) string {
	if connStr != "" {
		return connStr
	}
	return defaultPath
}

// genesCmd focused on gene store management.
var genesCmd = &cobra.Command{
	Use:   "genes",
	Short: "Manage the contig and gene call store",
	Long: `Manage the store of contig sequences and gene calls that substitution
potential is computed from.

Supported backends: SQLite (default), MySQL, PostgreSQL

Subcommands:
  import  - Load contigs from FASTA and gene calls from a table
  status  - Show store statistics and connection info
  clear   - Remove all contigs and gene calls
  migrate - Run database schema migrations

Examples:
  # Populate the default SQLite store
  pnps genes import --contigs-fasta contigs.fa --gene-calls gene_calls.txt

  # Check what is stored
  pnps genes status`,
}

// genesImportCmd imports contigs and gene calls.
var genesImportCmd = &cobra.Command{
	Use:   "import",
	Short: "Import contig sequences and gene calls",
	Long: `Load contig sequences from a FASTA file and gene calls from a tab
separated table into the gene store.

The gene calls table needs the columns gene_callers_id, contig, start, stop
and direction. The columns partial, call_type, source and version are
optional. Start is zero-based and inclusive; stop is exclusive.

Existing contigs and gene calls with the same names or ids are replaced.
Gene calls may reference contigs imported earlier.

Examples:
  pnps genes import --contigs-fasta contigs.fa --gene-calls gene_calls.txt`,
	PreRunE: genesSetup,
	Run: func(_ *cobra.Command, _ []string) {
		fastaPath := viper.GetString("contigs-fasta")
		callsPath := viper.GetString("gene-calls")
		if fastaPath == "" || callsPath == "" {
			contract.LogFatal("Failed to import genes", contract.ConfigErrorf("--contigs-fasta and --gene-calls are required"))
		}
		summary, err := importer.Import(rootCtx, storeManager.GetGeneStore(), fastaPath, callsPath, rep)
		rep.End()
		if err != nil {
			contract.LogFatal("Failed to import genes", err)
		}
		fmt.Printf("Imported %d contigs (%d bases) and %d gene calls.\n", summary.Contigs, summary.Bases, summary.GeneCalls)
	},
}

// genesStatusCmd shows gene store status.
var genesStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Display gene store statistics and connection details",
	Long: `Show detailed information about the gene store.

Displays:
- Backend type and connection status
- Number of contigs and total bases
- Number of gene calls and how many are partial
- Time of the last import

Examples:
  pnps genes status`,
	PreRunE: genesSetup,
	Run: func(_ *cobra.Command, _ []string) {
		status, err := storeManager.GetGeneStore().GetStatus()
		if err != nil {
			contract.LogFatal("Failed to get gene store status", err)
		}
		store.PrintGeneStatus(os.Stdout, status)
	},
}

// genesClearCmd clears the gene store.
var genesClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove all contigs and gene calls",
	Long: `Delete all contigs and gene calls from the configured backend.

For SQLite: Deletes the database file
For MySQL/PostgreSQL: Drops the gene store tables

WARNING: This action cannot be undone.

Examples:
  pnps genes clear`,
	PreRunE: genesConfigSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		dbPath := sqlitePath(cfg.GenesDBConnect, contract.GetGenesDBFilePath())
		if err := store.ClearGenes(cfg.GenesBackend, dbPath, cfg.GenesDBConnect); err != nil {
			contract.LogFatal("Failed to clear gene store", err)
		}
		fmt.Println("Gene store cleared successfully.")
	},
}

// genesMigrateCmd runs database migrations for the gene store.
var genesMigrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run gene store schema migrations (upgrades/downgrades)",
	Long: `Manage database schema versions for the gene store.

By default, migrates to the latest version. Use --target-version for specific versions.

Examples:
  # Migrate to latest version (default)
  pnps genes migrate

  # Rollback to initial state
  pnps genes migrate --target-version 0`,
	PreRunE: genesConfigSetupWrapper,
	Run: func(cmd *cobra.Command, _ []string) {
		targetVersion, _ := cmd.Flags().GetInt("target-version")
		connStr := cfg.GenesDBConnect
		if cfg.GenesBackend == schema.SQLiteBackend {
			connStr = sqlitePath(connStr, contract.GetGenesDBFilePath())
		}
		if err := store.MigrateGenes(cfg.GenesBackend, connStr, targetVersion); err != nil {
			contract.LogFatal("Failed to run migrations", err)
		}
	},
}
