// Package cmd defines the command-line interface for pnps.
package cmd

import (
	"github.com/huangsam/pnps/internal/contract"
	"github.com/huangsam/pnps/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	// Call initConfig on Cobra's initialization
	cobra.OnInitialize(initConfig)

	// Add primary subcommands to the root command
	rootCmd.AddCommand(ratioCmd)
	rootCmd.AddCommand(potentialCmd)
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(genesCmd)
	rootCmd.AddCommand(runsCmd)
	rootCmd.AddCommand(mcpCmd)

	// Add the genes subcommands to the parent genes command
	genesCmd.AddCommand(genesImportCmd)
	genesCmd.AddCommand(genesStatusCmd)
	genesCmd.AddCommand(genesClearCmd)
	genesCmd.AddCommand(genesMigrateCmd)

	// Add the runs subcommands to the parent runs command
	runsCmd.AddCommand(runsStatusCmd)
	runsCmd.AddCommand(runsExportCmd)
	runsCmd.AddCommand(runsClearCmd)
	runsCmd.AddCommand(runsMigrateCmd)

	// Bind all persistent flags of rootCmd to Viper
	rootCmd.PersistentFlags().String("output", string(schema.TextOut), "Output format: text or csv or json")
	rootCmd.PersistentFlags().String("output-file", "", "Optional path to write output to")
	rootCmd.PersistentFlags().Int("precision", contract.DefaultPrecision, "Decimal precision for numeric columns")
	rootCmd.PersistentFlags().Int("width", 0, "Terminal width override (0 = auto-detect)")
	rootCmd.PersistentFlags().String("color", "yes", "Enable colored labels in output (yes/no/true/false/1/0)")
	rootCmd.PersistentFlags().String("log-level", "warn", "Log level: debug or info or warn or error")
	rootCmd.PersistentFlags().String("genes-backend", string(schema.SQLiteBackend), "Gene store backend: sqlite or mysql or postgresql or none")
	rootCmd.PersistentFlags().String("genes-db-connect", "", "Database connection string for the gene store (e.g., user:pass@tcp(host:port)/dbname)")
	rootCmd.PersistentFlags().String("runs-backend", string(schema.NoneBackend), "Run tracking backend: sqlite or mysql or postgresql or none")
	rootCmd.PersistentFlags().String("runs-db-connect", "", "Database connection string for run tracking")
	rootCmd.PersistentFlags().String("config", "", "Path to config file")
	if err := viper.BindPFlags(rootCmd.PersistentFlags()); err != nil {
		contract.LogFatal("Error binding root flags", err)
	}

	// Bind all flags of ratioCmd to Viper
	ratioCmd.Flags().String("aa-table", "", "Amino acid (AA) variability table")
	ratioCmd.Flags().String("cdn-table", "", "Codon (CDN) variability table")
	ratioCmd.Flags().StringP("output-dir", "O", "", "Directory for the pN/pS, sSCV and SAAV tables")
	ratioCmd.Flags().Int("min-coverage", contract.DefaultMinCoverage, "Minimum coverage of a variant position")
	ratioCmd.Flags().Float64("min-departure-from-consensus", contract.DefaultMinDeparture, "Minimum departure from consensus of a variant position")
	ratioCmd.Flags().Int("minimum-num-variants", contract.DefaultMinNumVariants, "Minimum codon variants of a gene and sample for a defined pN/pS")
	ratioCmd.Flags().String("export", "", "Comma-separated extra exports: xlsx or parquet or json")
	if err := viper.BindPFlags(ratioCmd.Flags()); err != nil {
		contract.LogFatal("Error binding ratio flags", err)
	}

	// Bind all flags of potentialCmd to Viper
	potentialCmd.Flags().String("genes", "", "Comma-separated gene callers ids (default: every stored gene)")
	if err := viper.BindPFlags(potentialCmd.Flags()); err != nil {
		contract.LogFatal("Error binding potential flags", err)
	}

	// Bind all flags of genesImportCmd to Viper
	genesImportCmd.Flags().String("contigs-fasta", "", "FASTA file of contig sequences")
	genesImportCmd.Flags().String("gene-calls", "", "Tab separated gene calls table")
	if err := viper.BindPFlags(genesImportCmd.Flags()); err != nil {
		contract.LogFatal("Error binding genes import flags", err)
	}

	// Both migrate commands read their own flag, so it is not bound to Viper
	for _, c := range []*cobra.Command{genesMigrateCmd, runsMigrateCmd} {
		c.Flags().Int("target-version", -1, "Target migration version (-1 means latest, 0 means rollback to initial state)")
	}
}
