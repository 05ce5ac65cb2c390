package outwriter

import (
	"github.com/huangsam/pnps/schema"
)

// newTestResult builds a small result over genes 1 and 3 and samples s1 and s2.
// Only gene 1 in s1 has a defined pN/pS (2.0). Gene 3 has an undefined potential.
func newTestResult() *schema.RatioResult {
	counts := schema.NewCountTable(map[schema.GeneSample]schema.VariantCounts{
		{Gene: 1, Sample: "s1"}: {AA: 2, CDN: 5},
		{Gene: 1, Sample: "s2"}: {CDN: 1},
		{Gene: 3, Sample: "s1"}: {AA: 1},
	})

	raw := schema.NewRatioTable(counts.Genes, counts.Samples)
	raw.Set(1, "s1", schema.ValidRatio(2.0/3))

	pnps := schema.NewRatioTable(counts.Genes, counts.Samples)
	pnps.Set(1, "s1", schema.ValidRatio(2))

	return &schema.RatioResult{
		Stats:  schema.LoadStats{AARecords: 3, CDNRecords: 6, Kept: 9},
		Counts: counts,
		Raw:    raw,
		PNPS:   pnps,
		Potentials: map[schema.GeneID]schema.Potential{
			1: {Synonymous: 3, NonSynonymous: 1, Codons: 2},
			3: {Codons: 1, Ambiguous: 1},
		},
		NegativeSSCV:       []schema.GeneSample{{Gene: 3, Sample: "s1"}},
		UndefinedPotential: []schema.GeneID{3},
		AmbiguousCodons:    1,
	}
}

// newTestSummary mirrors newTestResult.
func newTestSummary() schema.RatioSummary {
	top := schema.GeneID(1)
	return schema.RatioSummary{
		Genes:        2,
		Samples:      2,
		DefinedCells: 1,
		NullCells:    3,
		Median:       schema.ValidRatio(2),
		Mean:         schema.ValidRatio(2),
		NegativeSSCV: 1,
		Ambiguous:    1,
		Stats:        schema.LoadStats{AARecords: 3, CDNRecords: 6, Kept: 9},
		PerSample: []schema.SampleSummary{
			{Sample: "s1", Defined: 1, Null: 1, Median: schema.ValidRatio(2), Mean: schema.ValidRatio(2), MaxGene: &top},
			{Sample: "s2", Defined: 0, Null: 2},
		},
	}
}
