package cmd

import (
	"github.com/huangsam/pnps/core"
	"github.com/huangsam/pnps/internal/contract"
	"github.com/spf13/cobra"
)

// potentialCmd prints the substitution potential of stored genes.
var potentialCmd = &cobra.Command{
	Use:   "potential",
	Short: "Show the synonymous substitution potential of stored genes.",
	Long: `Compute the synonymous and non-synonymous substitution potential of genes
in the gene store, the denominator pN/pS is normalized by.

Codons with ambiguous bases are skipped. A gene without any non-synonymous
potential has no ratio.

Examples:
  # Every stored gene
  pnps potential

  # A few genes as CSV
  pnps potential --genes 12,40,41 --output csv`,
	Args:    cobra.NoArgs,
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecutePotential(rootCtx, cfg, storeManager, rep); err != nil {
			contract.LogFatal("Cannot compute substitution potential", err)
		}
	},
}
