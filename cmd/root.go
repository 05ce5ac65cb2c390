package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/huangsam/pnps/internal/contract"
	"github.com/huangsam/pnps/internal/report"
	"github.com/huangsam/pnps/internal/store"
	"github.com/huangsam/pnps/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap/zapcore"
	"golang.org/x/term"
)

// All linker flags will be set by goreleaser infra at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// rootCtx is the root context for all operations.
var rootCtx = context.Background()

// cfg will hold the validated, final configuration.
var cfg = &contract.Config{}

// input holds the raw, unvalidated configuration from all sources (file, env, flags).
// Viper will unmarshal into this struct.
var input = &contract.ConfigRawInput{}

// storeManager is the global persistence manager instance.
var storeManager contract.StoreManager

// rep receives progress and warnings of the running command.
var rep contract.Reporter = report.Nop()

// rootCmd is the command-line entrypoint for all other commands.
var rootCmd = &cobra.Command{
	Use:                "pnps",
	Short:              "Compute pN/pS ratios from metagenomic variability tables.",
	Long:               `pnps normalizes non-synonymous and synonymous variant counts by the substitution potential of every gene.`,
	Version:            version,
	SilenceErrors:      true,
	SilenceUsage:       true,
	DisableSuggestions: true,
	Run: func(cmd *cobra.Command, _ []string) {
		_ = cmd.Help()
	},
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	// Check if a specific config file is provided
	if configFile := viper.GetString("config"); configFile != "" {
		viper.SetConfigFile(configFile)
	} else {
		// Set config file name and paths
		viper.SetConfigName(".pnps") // Name of config file (without extension)
		viper.SetConfigType("yaml")  // We'll use YAML format
		viper.AddConfigPath(".")     // Look in the current directory
		viper.AddConfigPath("$HOME") // Look in the home directory
	}

	// Set environment variable prefix
	viper.SetEnvPrefix("PNPS")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv() // Read in environment variables that match

	// Set defaults in Viper
	viper.SetDefault("min-coverage", contract.DefaultMinCoverage)
	viper.SetDefault("min-departure-from-consensus", contract.DefaultMinDeparture)
	viper.SetDefault("minimum-num-variants", contract.DefaultMinNumVariants)
	viper.SetDefault("precision", contract.DefaultPrecision)
	viper.SetDefault("output", schema.TextOut)
	viper.SetDefault("genes-backend", schema.SQLiteBackend)
	viper.SetDefault("genes-db-connect", "")
	viper.SetDefault("runs-backend", schema.NoneBackend)
	viper.SetDefault("runs-db-connect", "")
	viper.SetDefault("color", "yes")
	viper.SetDefault("log-level", "warn")
}

// sharedSetup unmarshals config and runs validation.
func sharedSetup(_ context.Context, _ *cobra.Command, _ []string) error {
	// 1. Read config file. This merges defaults, file, env, and flags.
	if err := loadConfigFile(); err != nil {
		return err
	}

	// 2. Unmarshal all resolved values from Viper into our raw input struct.
	if err := viper.Unmarshal(input); err != nil {
		return fmt.Errorf("unable to unmarshal config: %w", err)
	}

	// 3. Run all validation and complex parsing.
	// This function populates the global 'cfg' from 'input'.
	if err := contract.ProcessAndValidate(cfg, input); err != nil {
		return err
	}

	// 4. Build the reporter before any store work so warnings are visible
	if err := setupReporter(cfg.LogLevel); err != nil {
		return err
	}

	// 5. Initialize persistence layer with validated config
	if err := store.InitStores(cfg.GenesBackend, cfg.GenesDBConnect, cfg.RunsBackend, cfg.RunsDBConnect); err != nil {
		return fmt.Errorf("failed to initialize persistence: %w", err)
	}

	return nil
}

// sharedSetupWrapper wraps sharedSetup to provide context for Cobra's PreRunE.
func sharedSetupWrapper(cmd *cobra.Command, args []string) error {
	return sharedSetup(rootCtx, cmd, args)
}

// setupReporter replaces the global reporter. The progress line is only
// drawn when stderr is a terminal.
func setupReporter(level zapcore.Level) error {
	var progress io.Writer
	if term.IsTerminal(int(os.Stderr.Fd())) {
		progress = os.Stderr
	}
	r, err := report.New(level, progress)
	if err != nil {
		return err
	}
	rep = r
	return nil
}

// loadConfigFile handles config file loading logic common to all setup functions.
func loadConfigFile() error {
	// Handle config file
	if configFile := viper.GetString("config"); configFile != "" {
		viper.SetConfigFile(configFile)
	} else {
		viper.SetConfigName(".pnps")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")
		viper.AddConfigPath("$HOME")
	}

	// Load config file if present
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return fmt.Errorf("error reading config file: %w", err)
		}
	}

	return nil
}

// storeBackend reads a backend and its connection string from viper and validates both.
func storeBackend(backendKey, connKey string, fallback schema.DatabaseBackend) (schema.DatabaseBackend, string, error) {
	backend, err := contract.ParseBackend(viper.GetString(backendKey), fallback)
	if err != nil {
		return "", "", err
	}
	connStr := viper.GetString(connKey)
	if err := contract.ValidateDatabaseConnectionString(backend, connStr); err != nil {
		return "", "", err
	}
	return backend, connStr, nil
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// SetStoreManager sets the global store manager.
func SetStoreManager(mgr contract.StoreManager) {
	storeManager = mgr
}

// SyncReporter flushes buffered log entries of the command reporter.
func SyncReporter() {
	if r, ok := rep.(*report.Reporter); ok {
		_ = r.Sync()
	}
}
