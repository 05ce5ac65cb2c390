// Package core has the pN/pS pipeline: loading, counting, potential and normalization.
package core

import (
	"context"
	"errors"
	"time"

	"github.com/huangsam/pnps/internal/contract"
	"github.com/huangsam/pnps/internal/outwriter"
	"github.com/huangsam/pnps/schema"
)

// ExecutorFunc defines the function signature for executing different commands.
type ExecutorFunc func(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager, rep contract.Reporter) error

// errNoGeneStore is returned when the gene store was never initialized.
var errNoGeneStore = errors.New("gene store is not initialized")

// ExecuteRatio computes pN/pS, writes the three ratio tables and any extra
// exports into the output directory, and prints a summary.
// It serves as the main entry point for the 'ratio' command.
func ExecuteRatio(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager, rep contract.Reporter) error {
	start := time.Now()

	// Fail on an unusable output directory before any work is done
	if err := contract.PrepareOutputDir(cfg.OutputDir); err != nil {
		return err
	}

	result, err := GetRatioResults(ctx, cfg, mgr, rep)
	if err != nil {
		return err
	}

	rep.Update("Writing ratio tables")
	if err := outwriter.WriteRatioTables(cfg.OutputDir, result); err != nil {
		return err
	}

	summary := Summarize(result)
	if err := outwriter.WriteExports(cfg, result, summary); err != nil {
		return err
	}
	rep.End()

	return outwriter.PrintRatioSummary(summary, cfg, time.Since(start))
}

// ExecutePotential prints the substitution potential of the stored genes.
// It serves as the main entry point for the 'potential' command.
func ExecutePotential(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager, rep contract.Reporter) error {
	start := time.Now()
	rows, err := GetPotentialResults(ctx, cfg, mgr, rep)
	if err != nil {
		return err
	}
	rep.End()
	return outwriter.PrintPotentials(rows, cfg, time.Since(start))
}

// geneStore returns the gene store of mgr or an error when there is none.
func geneStore(mgr contract.StoreManager) (contract.GeneStore, error) {
	if mgr == nil {
		return nil, errNoGeneStore
	}
	genes := mgr.GetGeneStore()
	if genes == nil {
		return nil, errNoGeneStore
	}
	return genes, nil
}

// ratioCells counts the defined cells of a result.
func ratioCells(result *schema.RatioResult) int {
	return len(result.PNPS.Defined())
}
