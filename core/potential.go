package core

import (
	"context"
	"fmt"

	"github.com/huangsam/pnps/internal/contract"
	"github.com/huangsam/pnps/schema"
)

// GetPotentialResults computes the substitution potential of the genes in
// cfg.GeneFilter, or of every stored gene when the filter is empty.
func GetPotentialResults(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager, rep contract.Reporter) ([]schema.GenePotential, error) {
	genes, err := geneStore(mgr)
	if err != nil {
		return nil, err
	}

	ids := cfg.GeneFilter
	if len(ids) == 0 {
		rep.Update("Listing stored genes")
		if ids, err = genes.ListGeneIDs(ctx); err != nil {
			return nil, fmt.Errorf("failed to list genes: %w", err)
		}
	}

	rep.Update("Looking up gene calls")
	calls, err := genes.GetGeneCalls(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to read gene calls: %w", err)
	}
	for _, id := range ids {
		if _, ok := calls[id]; !ok {
			return nil, contract.PathErrorf("gene store", "gene call %s is not in the gene store", id)
		}
	}

	potentials, ambiguous, err := computePotentials(ctx, genes, calls, rep)
	if err != nil {
		return nil, err
	}
	if ambiguous > 0 {
		rep.Warn(fmt.Sprintf("%d codons with ambiguous bases were skipped while computing substitution potential", ambiguous))
	}

	rows := make([]schema.GenePotential, 0, len(potentials))
	for _, id := range schema.SortedGenes(potentials) {
		p := potentials[id]
		ratio := schema.NullRatio
		if v, ok := p.Ratio(); ok {
			ratio = schema.ValidRatio(v)
		}
		rows = append(rows, schema.GenePotential{Gene: id, Potential: p, Ratio: ratio})
	}
	rep.Info("Genes", len(rows))
	return rows, nil
}
