package cmd

import (
	"github.com/huangsam/pnps/core"
	"github.com/huangsam/pnps/internal/contract"
	"github.com/spf13/cobra"
)

// ratioCmd computes pN/pS for every gene and sample.
var ratioCmd = &cobra.Command{
	Use:   "ratio",
	Short: "Compute pN/pS per gene and sample.",
	Long: `Compute the ratio of non-synonymous to synonymous polymorphism rates.

Reads an amino acid (AA) and a codon (CDN) variability table, keeps the
positions that pass the coverage and departure thresholds, and counts
variants per gene and sample:
- SAAV: single amino acid variants (AA records)
- sSCV: strictly synonymous codon variants (CDN minus AA records)

The raw SAAV/sSCV ratio is normalized by the synonymous to non-synonymous
substitution potential of each gene, computed from its sequence in the gene
store. Pairs with fewer codon variants than --minimum-num-variants are left
empty.

Writes pN_pS_ratio.txt, sSCV_counts.txt and SAAV_counts.txt into the output
directory and prints a summary.

Examples:
  # Compute with default thresholds
  pnps ratio --aa-table AA.txt --cdn-table CDN.txt -O results

  # Relax the variant minimum and also write a workbook
  pnps ratio --aa-table AA.txt --cdn-table CDN.txt -O results --minimum-num-variants 4 --export xlsx

  # Record the run for later export
  pnps ratio --aa-table AA.txt --cdn-table CDN.txt -O results --runs-backend sqlite`,
	Args: cobra.NoArgs,
	PreRunE: func(cmd *cobra.Command, args []string) error {
		if err := sharedSetup(rootCtx, cmd, args); err != nil {
			return err
		}
		return contract.ValidateRatioInputs(cfg)
	},
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteRatio(rootCtx, cfg, storeManager, rep); err != nil {
			contract.LogFatal("Cannot compute pN/pS", err)
		}
	},
}
