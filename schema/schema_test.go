package schema

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseGeneID(t *testing.T) {
	tests := []struct {
		in      string
		want    GeneID
		wantErr bool
	}{
		{"0", 0, false},
		{"42", 42, false},
		{"42.0", 42, false}, // written by dataframe tools
		{"42.5", 0, true},
		{"gene_1", 0, true},
		{"", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseGeneID(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestVariantCountsSSCV(t *testing.T) {
	assert.Equal(t, 3, VariantCounts{AA: 2, CDN: 5}.SSCV())
	assert.Equal(t, 0, VariantCounts{}.SSCV())
	assert.Equal(t, -2, VariantCounts{AA: 4, CDN: 2}.SSCV(), "negative values are kept")
}

func TestPotentialRatio(t *testing.T) {
	v, ok := Potential{Synonymous: 3, NonSynonymous: 1}.Ratio()
	assert.True(t, ok)
	assert.Equal(t, 3.0, v)

	v, ok = Potential{Synonymous: 0, NonSynonymous: 6}.Ratio()
	assert.True(t, ok)
	assert.Equal(t, 0.0, v)

	_, ok = Potential{Codons: 4, Ambiguous: 4}.Ratio()
	assert.False(t, ok, "all ambiguous genes have no potential")
}

func TestRatioJSON(t *testing.T) {
	data, err := json.Marshal(map[string]Ratio{"a": ValidRatio(0.5), "b": NullRatio})
	require.NoError(t, err)
	assert.JSONEq(t, `{"a":0.5,"b":null}`, string(data))

	assert.Nil(t, NullRatio.Ptr())
	require.NotNil(t, ValidRatio(2).Ptr())
	assert.Equal(t, 2.0, *ValidRatio(2).Ptr())
}

func TestNewCountTableAxes(t *testing.T) {
	table := NewCountTable(map[GeneSample]VariantCounts{
		{Gene: 7, Sample: "s2"}: {AA: 1, CDN: 2},
		{Gene: 3, Sample: "s1"}: {AA: 0, CDN: 4},
		{Gene: 7, Sample: "s1"}: {AA: 2, CDN: 2},
	})

	assert.Equal(t, []GeneID{3, 7}, table.Genes)
	assert.Equal(t, []string{"s1", "s2"}, table.Samples)
	assert.Equal(t, VariantCounts{}, table.Get(3, "s2"), "absent pairs count zero")
	assert.Equal(t, VariantCounts{AA: 1, CDN: 2}, table.Get(7, "s2"))
}

func TestRatioTableDefined(t *testing.T) {
	table := NewRatioTable([]GeneID{1, 2}, []string{"a", "b"})
	table.Set(1, "a", ValidRatio(1.5))
	table.Set(2, "b", ValidRatio(0.5))
	table.Set(2, "a", NullRatio)

	assert.Equal(t, []float64{1.5, 0.5}, table.Defined())
	assert.False(t, table.Get(1, "b").Valid)
}

func TestLongRows(t *testing.T) {
	counts := NewCountTable(map[GeneSample]VariantCounts{
		{Gene: 1, Sample: "s1"}: {AA: 2, CDN: 5},
	})
	raw := NewRatioTable(counts.Genes, counts.Samples)
	raw.Set(1, "s1", ValidRatio(2.0/3.0))
	pnps := NewRatioTable(counts.Genes, counts.Samples)
	pnps.Set(1, "s1", ValidRatio(2))

	res := &RatioResult{
		Counts:     counts,
		Raw:        raw,
		PNPS:       pnps,
		Potentials: map[GeneID]Potential{1: {Synonymous: 3, NonSynonymous: 1, Codons: 2}},
	}

	rows := res.LongRows()
	require.Len(t, rows, 1)
	assert.Equal(t, 3, rows[0].SSCV)
	assert.Equal(t, 2, rows[0].SAAV)
	assert.Equal(t, ValidRatio(3), rows[0].Potential)
	assert.Equal(t, ValidRatio(2), rows[0].PNPS)

	records := RatioRecordsFromRows(9, rows)
	require.Len(t, records, 1)
	assert.Equal(t, int64(9), records[0].RunID)
	require.NotNil(t, records[0].PNPS)
	assert.Equal(t, 2.0, *records[0].PNPS)
}
