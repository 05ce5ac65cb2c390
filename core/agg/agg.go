// Package agg has aggregation logic for variability records.
package agg

import (
	"github.com/huangsam/pnps/schema"
)

// Anomalies lists gene and sample pairs whose counts deserve a warning.
type Anomalies struct {
	// NegativeSSCV has more AA than CDN variants. The arithmetic is kept.
	NegativeSSCV []schema.GeneSample
	// ZeroSSCV reached the variant minimum but has no synonymous variant.
	ZeroSSCV []schema.GeneSample
}

// CountVariants counts AA and CDN records per gene and sample. The returned
// table is square over every gene and sample seen in records.
func CountVariants(records []schema.VariantRecord) *schema.CountTable {
	counts := make(map[schema.GeneSample]schema.VariantCounts)
	for _, r := range records {
		key := schema.GeneSample{Gene: r.GeneID, Sample: r.SampleID}
		c := counts[key]
		switch r.Engine {
		case schema.AAEngine:
			c.AA++
		case schema.CDNEngine:
			c.CDN++
		}
		counts[key] = c
	}
	return schema.NewCountTable(counts)
}

// RawRatios computes SAAV over sSCV for every cell of counts. A cell is null
// when its CDN count is below minNumVariants or when sSCV is zero.
func RawRatios(counts *schema.CountTable, minNumVariants int) (*schema.RatioTable, Anomalies) {
	raw := schema.NewRatioTable(counts.Genes, counts.Samples)
	var anomalies Anomalies

	for _, g := range counts.Genes {
		for _, s := range counts.Samples {
			c := counts.Get(g, s)
			key := schema.GeneSample{Gene: g, Sample: s}
			sscv := c.SSCV()
			if sscv < 0 {
				anomalies.NegativeSSCV = append(anomalies.NegativeSSCV, key)
			}

			switch {
			case c.CDN < minNumVariants:
				raw.Set(g, s, schema.NullRatio)
			case sscv == 0:
				anomalies.ZeroSSCV = append(anomalies.ZeroSSCV, key)
				raw.Set(g, s, schema.NullRatio)
			default:
				raw.Set(g, s, schema.ValidRatio(float64(c.AA)/float64(sscv)))
			}
		}
	}
	return raw, anomalies
}

// NormalizeRatios multiplies every raw ratio by the potential ratio of its
// gene. Genes without a defined potential get all null cells and are returned.
func NormalizeRatios(raw *schema.RatioTable, potentials map[schema.GeneID]schema.Potential) (*schema.RatioTable, []schema.GeneID) {
	out := schema.NewRatioTable(raw.Genes, raw.Samples)
	var undefined []schema.GeneID

	for _, g := range raw.Genes {
		factor, ok := potentials[g].Ratio()
		if !ok {
			undefined = append(undefined, g)
		}
		for _, s := range raw.Samples {
			r := raw.Get(g, s)
			if !ok || !r.Valid {
				out.Set(g, s, schema.NullRatio)
				continue
			}
			out.Set(g, s, schema.ValidRatio(r.Value*factor))
		}
	}
	return out, undefined
}
