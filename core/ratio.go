package core

import (
	"context"
	"fmt"
	"slices"

	"github.com/huangsam/pnps/core/agg"
	"github.com/huangsam/pnps/core/algo"
	"github.com/huangsam/pnps/internal/contract"
	"github.com/huangsam/pnps/internal/variability"
	"github.com/huangsam/pnps/schema"
	"github.com/samber/lo"
)

// GetRatioResults runs the pN/pS pipeline and returns its tables without
// writing anything. Runs are recorded when a run store is configured.
func GetRatioResults(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager, rep contract.Reporter) (*schema.RatioResult, error) {
	genes, err := geneStore(mgr)
	if err != nil {
		return nil, err
	}

	// --- 0. Begin Run Tracking (if configured) ---
	tracker := beginRunTracking(cfg, mgr)

	// --- 1. Load and filter the variability tables ---
	tables, err := variability.Load(ctx, cfg, genes, rep)
	if err != nil {
		return nil, err
	}

	// --- 2. Count variants and compute raw ratios ---
	rep.Update("Counting variants per gene and sample")
	counts := agg.CountVariants(tables.Records)
	raw, anomalies := agg.RawRatios(counts, cfg.MinNumVariants)

	// --- 3. Substitution potential per gene ---
	potentials, ambiguous, err := computePotentials(ctx, genes, tables.Calls, rep)
	if err != nil {
		return nil, err
	}

	// --- 4. Normalize by potential ---
	rep.Update("Normalizing by substitution potential")
	pnps, undefined := agg.NormalizeRatios(raw, potentials)

	result := &schema.RatioResult{
		Stats:              tables.Stats,
		Counts:             counts,
		Raw:                raw,
		PNPS:               pnps,
		Potentials:         potentials,
		NegativeSSCV:       anomalies.NegativeSSCV,
		ZeroSSCV:           anomalies.ZeroSSCV,
		UndefinedPotential: undefined,
		AmbiguousCodons:    ambiguous,
	}
	reportAnomalies(result, rep)

	rep.Info("Genes", len(counts.Genes))
	rep.Info("Samples", len(counts.Samples))
	rep.Info("Defined pN/pS values", ratioCells(result))

	// --- 5. End Run Tracking ---
	tracker.finish(result)

	return result, nil
}

// computePotentials extracts the sequence of every gene in calls and computes
// its substitution potential. It returns the total number of ambiguous codons.
func computePotentials(ctx context.Context, genes contract.GeneStore, calls map[schema.GeneID]schema.GeneCall, rep contract.Reporter) (map[schema.GeneID]schema.Potential, int, error) {
	rep.Update("Computing substitution potential")

	contigNames := lo.Uniq(lo.MapToSlice(calls, func(_ schema.GeneID, c schema.GeneCall) string {
		return c.Contig
	}))
	slices.Sort(contigNames)
	contigs, err := genes.GetContigSequences(ctx, contigNames)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to read contig sequences: %w", err)
	}

	sequences, err := algo.GeneSequences(calls, contigs)
	if err != nil {
		return nil, 0, contract.PathErrorf("gene store", "%w", err)
	}

	potentials, ambiguous := algo.PotentialTable(sequences)
	return potentials, ambiguous, nil
}

// reportAnomalies emits one aggregate warning per kind of data problem.
func reportAnomalies(result *schema.RatioResult, rep contract.Reporter) {
	if result.AmbiguousCodons > 0 {
		rep.Warn(fmt.Sprintf("%d codons with ambiguous bases were skipped while computing substitution potential",
			result.AmbiguousCodons))
	}
	if n := len(result.NegativeSSCV); n > 0 {
		first := result.NegativeSSCV[0]
		rep.Warn(fmt.Sprintf("%d gene/sample pairs have more AA than CDN variants and a negative sSCV count (first: gene %s in %s)",
			n, first.Gene, first.Sample))
	}
	if n := len(result.ZeroSSCV); n > 0 {
		rep.Warn(fmt.Sprintf("%d gene/sample pairs have no strictly synonymous codon variants; their ratios are null", n))
	}
	if n := len(result.UndefinedPotential); n > 0 {
		rep.Warn(fmt.Sprintf("%d genes have an undefined substitution potential; their pN/pS values are null", n))
	}
}
