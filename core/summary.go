package core

import (
	"github.com/huangsam/pnps/schema"
	"github.com/montanaflynn/stats"
)

// Summarize condenses a ratio result into overall and per sample statistics
// of the defined pN/pS values.
func Summarize(result *schema.RatioResult) schema.RatioSummary {
	defined := result.PNPS.Defined()
	total := len(result.PNPS.Genes) * len(result.PNPS.Samples)

	summary := schema.RatioSummary{
		Genes:        len(result.PNPS.Genes),
		Samples:      len(result.PNPS.Samples),
		DefinedCells: len(defined),
		NullCells:    total - len(defined),
		Median:       median(defined),
		Mean:         mean(defined),
		NegativeSSCV: len(result.NegativeSSCV),
		Ambiguous:    result.AmbiguousCodons,
		Stats:        result.Stats,
		PerSample:    make([]schema.SampleSummary, 0, len(result.PNPS.Samples)),
	}

	for _, s := range result.PNPS.Samples {
		summary.PerSample = append(summary.PerSample, summarizeSample(result.PNPS, s))
	}
	return summary
}

// summarizeSample summarizes one column of the pN/pS table.
func summarizeSample(table *schema.RatioTable, sample string) schema.SampleSummary {
	out := schema.SampleSummary{Sample: sample}
	var values []float64
	var best float64

	for _, g := range table.Genes {
		r := table.Get(g, sample)
		if !r.Valid {
			out.Null++
			continue
		}
		values = append(values, r.Value)
		if out.MaxGene == nil || r.Value > best {
			gene := g
			out.MaxGene = &gene
			best = r.Value
		}
	}

	out.Defined = len(values)
	out.Median = median(values)
	out.Mean = mean(values)
	return out
}

func median(values []float64) schema.Ratio {
	v, err := stats.Median(values)
	if err != nil {
		return schema.NullRatio
	}
	return schema.ValidRatio(v)
}

func mean(values []float64) schema.Ratio {
	v, err := stats.Mean(values)
	if err != nil {
		return schema.NullRatio
	}
	return schema.ValidRatio(v)
}
