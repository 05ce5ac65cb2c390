package schema

import "slices"

// CountTable holds per gene and per sample variant counts. Genes and Samples
// are sorted and span every pair seen in the filtered data.
type CountTable struct {
	Genes   []GeneID
	Samples []string
	Counts  map[GeneSample]VariantCounts
}

// NewCountTable builds a table and derives its sorted axes from counts.
func NewCountTable(counts map[GeneSample]VariantCounts) *CountTable {
	genes := make(map[GeneID]struct{})
	samples := make(map[string]struct{})
	for k := range counts {
		genes[k.Gene] = struct{}{}
		samples[k.Sample] = struct{}{}
	}
	sampleList := make([]string, 0, len(samples))
	for s := range samples {
		sampleList = append(sampleList, s)
	}
	slices.Sort(sampleList)
	return &CountTable{
		Genes:   SortedGenes(genes),
		Samples: sampleList,
		Counts:  counts,
	}
}

// Get returns the counts of a pair. Absent pairs count zero.
func (t *CountTable) Get(gene GeneID, sample string) VariantCounts {
	return t.Counts[GeneSample{Gene: gene, Sample: sample}]
}

// RatioTable is a gene by sample table of nullable values.
type RatioTable struct {
	Genes   []GeneID
	Samples []string
	Cells   map[GeneSample]Ratio
}

// NewRatioTable creates an empty table over the given axes.
func NewRatioTable(genes []GeneID, samples []string) *RatioTable {
	return &RatioTable{
		Genes:   genes,
		Samples: samples,
		Cells:   make(map[GeneSample]Ratio, len(genes)*len(samples)),
	}
}

// Get returns the cell of a pair. Absent pairs are null.
func (t *RatioTable) Get(gene GeneID, sample string) Ratio {
	return t.Cells[GeneSample{Gene: gene, Sample: sample}]
}

// Set stores a cell.
func (t *RatioTable) Set(gene GeneID, sample string, r Ratio) {
	t.Cells[GeneSample{Gene: gene, Sample: sample}] = r
}

// Defined returns every defined value in gene then sample order.
func (t *RatioTable) Defined() []float64 {
	var out []float64
	for _, g := range t.Genes {
		for _, s := range t.Samples {
			if r := t.Get(g, s); r.Valid {
				out = append(out, r.Value)
			}
		}
	}
	return out
}
