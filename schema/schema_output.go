package schema

// LoadStats describes how many variability records survived each loading step.
type LoadStats struct {
	AARecords      int `json:"aa_records"`
	CDNRecords     int `json:"cdn_records"`
	BelowThreshold int `json:"below_threshold"`
	PartialRemoved int `json:"partial_removed"`
	Kept           int `json:"kept"`
}

// GenePotential pairs a gene with its substitution potential.
type GenePotential struct {
	Gene GeneID `json:"gene_callers_id"`
	Potential
	Ratio Ratio `json:"potential_ratio"`
}

// RatioResult is everything one pN/pS run produces.
type RatioResult struct {
	Stats      LoadStats
	Counts     *CountTable
	Raw        *RatioTable
	PNPS       *RatioTable
	Potentials map[GeneID]Potential

	// NegativeSSCV lists pairs where more AA than CDN variants were called.
	NegativeSSCV []GeneSample
	// ZeroSSCV lists pairs that passed the variant minimum but have no synonymous variants.
	ZeroSSCV []GeneSample
	// UndefinedPotential lists genes whose potential ratio could not be computed.
	UndefinedPotential []GeneID
	// AmbiguousCodons is the total number of codons skipped across all genes.
	AmbiguousCodons int
}

// SampleSummary summarizes the defined pN/pS values of one sample.
type SampleSummary struct {
	Sample  string  `json:"sample_id"`
	Defined int     `json:"defined"`
	Null    int     `json:"null"`
	Median  Ratio   `json:"median"`
	Mean    Ratio   `json:"mean"`
	MaxGene *GeneID `json:"max_gene,omitempty"`
}

// RatioSummary summarizes a RatioResult for the terminal and for JSON output.
type RatioSummary struct {
	Genes        int             `json:"genes"`
	Samples      int             `json:"samples"`
	DefinedCells int             `json:"defined_cells"`
	NullCells    int             `json:"null_cells"`
	Median       Ratio           `json:"median"`
	Mean         Ratio           `json:"mean"`
	NegativeSSCV int             `json:"negative_sscv"`
	Ambiguous    int             `json:"ambiguous_codons"`
	Stats        LoadStats       `json:"load_stats"`
	PerSample    []SampleSummary `json:"per_sample"`
}

// LongRatioRow is one gene and sample row of the long export format.
type LongRatioRow struct {
	Gene      GeneID `json:"gene_callers_id"`
	Sample    string `json:"sample_id"`
	SAAV      int    `json:"saav"`
	SSCV      int    `json:"sscv"`
	CDN       int    `json:"scv"`
	RawRatio  Ratio  `json:"raw_ratio"`
	PNPS      Ratio  `json:"pn_ps"`
	Potential Ratio  `json:"potential_ratio"`
}

// LongRows flattens the result into one row per gene and sample, in table order.
func (r *RatioResult) LongRows() []LongRatioRow {
	rows := make([]LongRatioRow, 0, len(r.Counts.Genes)*len(r.Counts.Samples))
	for _, g := range r.Counts.Genes {
		potential := NullRatio
		if v, ok := r.Potentials[g].Ratio(); ok {
			potential = ValidRatio(v)
		}
		for _, s := range r.Counts.Samples {
			c := r.Counts.Get(g, s)
			rows = append(rows, LongRatioRow{
				Gene:      g,
				Sample:    s,
				SAAV:      c.AA,
				SSCV:      c.SSCV(),
				CDN:       c.CDN,
				RawRatio:  r.Raw.Get(g, s),
				PNPS:      r.PNPS.Get(g, s),
				Potential: potential,
			})
		}
	}
	return rows
}
