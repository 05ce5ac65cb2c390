package cmd

import (
	"fmt"
	"os"

	"github.com/huangsam/pnps/internal/contract"
	"github.com/huangsam/pnps/internal/store"
	"github.com/huangsam/pnps/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// runsConfigSetup resolves the run store backend without opening it.
func runsConfigSetup() error {
	if err := loadConfigFile(); err != nil {
		return err
	}
	backend, connStr, err := storeBackend("runs-backend", "runs-db-connect", schema.NoneBackend)
	if err != nil {
		return err
	}
	cfg.RunsBackend = backend
	cfg.RunsDBConnect = connStr
	cfg.OutputFile = viper.GetString("output-file")
	return nil
}

// runsSetup loads minimal configuration needed for run store operations.
func runsSetup(_ *cobra.Command, _ []string) error {
	if err := runsConfigSetup(); err != nil {
		return err
	}
	// No gene store for run commands
	if err := store.InitStores(schema.NoneBackend, "", cfg.RunsBackend, cfg.RunsDBConnect); err != nil {
		return fmt.Errorf("failed to initialize run store: %w", err)
	}
	return nil
}

// runsConfigSetupWrapper wraps runsConfigSetup for clear and migrate.
func runsConfigSetupWrapper(_ *cobra.Command, _ []string) error {
	return runsConfigSetup()
}

// runsCmd focused on run history management.
var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "Manage pN/pS run history and exports",
	Long: `Manage the history of recorded ratio runs.

When --runs-backend is set, every ratio run stores:
- Run metadata (timestamp, thresholds, duration)
- SAAV, sSCV, raw ratio and pN/pS of every gene and sample

Supported backends: SQLite, MySQL, PostgreSQL, or None (default, disabled)

Subcommands:
  status  - Show run history statistics
  export  - Export runs to Parquet
  clear   - Remove all run history
  migrate - Run database schema migrations

Examples:
  pnps runs status --runs-backend sqlite
  pnps runs export --runs-backend sqlite --output-file history`,
}

// runsStatusCmd shows run store status.
var runsStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Display run history statistics and connection details",
	Long: `Show detailed information about recorded ratio runs.

Displays:
- Backend type and connection status
- Total number of runs stored
- Last and oldest run timestamps
- Database table sizes

Examples:
  pnps runs status --runs-backend sqlite`,
	PreRunE: runsSetup,
	Run: func(_ *cobra.Command, _ []string) {
		runs := storeManager.GetRunStore()
		if runs == nil {
			fmt.Println("Run tracking is disabled. Set --runs-backend to sqlite, mysql or postgresql.")
			return
		}
		status, err := runs.GetStatus()
		if err != nil {
			contract.LogFatal("Failed to get run store status", err)
		}
		store.PrintRunStatus(os.Stdout, status)
	},
}

// runsExportCmd exports run history to Parquet files.
var runsExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export run history to Parquet for analytics",
	Long: `Export all recorded runs to Parquet format.

Writes two files named after --output-file:
- <output-file>.runs.parquet   - one row per run
- <output-file>.ratios.parquet - one row per run, gene and sample

Requires: --output-file parameter

Examples:
  pnps runs export --runs-backend sqlite --output-file history
  duckdb -c "SELECT * FROM read_parquet('history.ratios.parquet') LIMIT 10"`,
	PreRunE: runsSetup,
	Run: func(_ *cobra.Command, _ []string) {
		if err := store.ExportRuns(os.Stdout, storeManager.GetRunStore(), cfg.OutputFile); err != nil {
			contract.LogFatal("Failed to export runs", err)
		}
	},
}

// runsClearCmd clears the run history.
var runsClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove all recorded runs",
	Long: `Delete all recorded runs and their ratio rows.

WARNING: This action cannot be undone. Consider exporting data first.

Examples:
  pnps runs export --runs-backend sqlite --output-file backup
  pnps runs clear --runs-backend sqlite`,
	PreRunE: runsConfigSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		dbPath := sqlitePath(cfg.RunsDBConnect, contract.GetRunsDBFilePath())
		if err := store.ClearRuns(cfg.RunsBackend, dbPath, cfg.RunsDBConnect); err != nil {
			contract.LogFatal("Failed to clear run history", err)
		}
		fmt.Println("Run history cleared successfully.")
	},
}

// runsMigrateCmd runs database migrations for the run store.
var runsMigrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run run store schema migrations (upgrades/downgrades)",
	Long: `Manage database schema versions for the run store.

By default, migrates to the latest version. Use --target-version for specific versions.

Examples:
  pnps runs migrate --runs-backend sqlite
  pnps runs migrate --runs-backend sqlite --target-version 0`,
	PreRunE: runsConfigSetupWrapper,
	Run: func(cmd *cobra.Command, _ []string) {
		targetVersion, _ := cmd.Flags().GetInt("target-version")
		connStr := cfg.RunsDBConnect
		if cfg.RunsBackend == schema.SQLiteBackend {
			connStr = sqlitePath(connStr, contract.GetRunsDBFilePath())
		}
		if err := store.MigrateRuns(cfg.RunsBackend, connStr, targetVersion); err != nil {
			contract.LogFatal("Failed to run migrations", err)
		}
	},
}
