// Package schema holds the data types shared across pnps packages.
package schema

import (
	"encoding/json"
	"slices"
	"strconv"
)

// GeneID is the gene callers id assigned by the gene store.
type GeneID int64

// String returns the decimal form used in table headers and cells.
func (g GeneID) String() string {
	return strconv.FormatInt(int64(g), 10)
}

// ParseGeneID parses a decimal gene callers id. Values like "12.0" written by
// dataframe tools are accepted as long as they are integral.
func ParseGeneID(s string) (GeneID, error) {
	if v, err := strconv.ParseInt(s, 10, 64); err == nil {
		return GeneID(v), nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	if f != float64(int64(f)) {
		return 0, strconv.ErrSyntax
	}
	return GeneID(int64(f)), nil
}

// VariantRecord is one row of a variability table after engine tagging.
type VariantRecord struct {
	GeneID                 GeneID
	SampleID               string
	Engine                 Engine
	Coverage               float64
	DepartureFromConsensus float64
}

// GeneCall is a gene called on a contig. Start is inclusive and Stop is exclusive.
type GeneCall struct {
	ID        GeneID `json:"gene_callers_id"`
	Contig    string `json:"contig"`
	Start     int    `json:"start"`
	Stop      int    `json:"stop"`
	Direction string `json:"direction"`
	Partial   bool   `json:"partial"`
	CallType  int    `json:"call_type"`
	Source    string `json:"source"`
	Version   string `json:"version"`
}

// Length returns the number of nucleotides covered by the call.
func (g GeneCall) Length() int {
	return g.Stop - g.Start
}

// Contig is a named nucleotide sequence.
type Contig struct {
	Name     string
	Sequence string
}

// GeneSample keys every per gene and per sample table.
type GeneSample struct {
	Gene   GeneID
	Sample string
}

// VariantCounts holds the AA and CDN record counts for one gene and sample.
type VariantCounts struct {
	AA  int `json:"saav"`
	CDN int `json:"scv"`
}

// SSCV returns the strictly synonymous codon variant count. It is negative
// when more amino acid variants than codon variants were called.
func (c VariantCounts) SSCV() int {
	return c.CDN - c.AA
}

// Potential is the theoretical substitution potential of one gene.
type Potential struct {
	Synonymous    float64 `json:"synonymous_potential"`
	NonSynonymous float64 `json:"non_synonymous_potential"`
	Codons        int     `json:"codon_count"`
	Ambiguous     int     `json:"ambiguous_codon_count"`
}

// Ratio returns synonymous over non-synonymous potential. The second value is
// false when the ratio is undefined.
func (p Potential) Ratio() (float64, bool) {
	if p.NonSynonymous <= 0 {
		return 0, false
	}
	return p.Synonymous / p.NonSynonymous, true
}

// Ratio is a nullable table cell.
type Ratio struct {
	Value float64
	Valid bool
}

// NullRatio is the undefined cell.
var NullRatio = Ratio{}

// ValidRatio wraps a defined value.
func ValidRatio(v float64) Ratio {
	return Ratio{Value: v, Valid: true}
}

// MarshalJSON writes null for undefined cells.
func (r Ratio) MarshalJSON() ([]byte, error) {
	if !r.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(r.Value)
}

// Ptr returns nil for undefined cells.
func (r Ratio) Ptr() *float64 {
	if !r.Valid {
		return nil
	}
	v := r.Value
	return &v
}

// SortedGenes returns the keys of a gene keyed map in ascending order.
func SortedGenes[V any](m map[GeneID]V) []GeneID {
	genes := make([]GeneID, 0, len(m))
	for g := range m {
		genes = append(genes, g)
	}
	slices.Sort(genes)
	return genes
}
