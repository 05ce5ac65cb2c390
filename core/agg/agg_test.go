package agg

import (
	"testing"

	"github.com/huangsam/pnps/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func records(gene schema.GeneID, sample string, engine schema.Engine, n int) []schema.VariantRecord {
	out := make([]schema.VariantRecord, n)
	for i := range out {
		out[i] = schema.VariantRecord{GeneID: gene, SampleID: sample, Engine: engine, Coverage: 50, DepartureFromConsensus: 0.5}
	}
	return out
}

func join(parts ...[]schema.VariantRecord) []schema.VariantRecord {
	var out []schema.VariantRecord
	for _, p := range parts {
		out = append(out, p...)
	}
	return out
}

func TestCountVariants(t *testing.T) {
	table := CountVariants(join(
		records(2, "s1", schema.AAEngine, 2),
		records(2, "s1", schema.CDNEngine, 5),
		records(1, "s2", schema.CDNEngine, 1),
	))

	assert.Equal(t, []schema.GeneID{1, 2}, table.Genes)
	assert.Equal(t, []string{"s1", "s2"}, table.Samples)
	assert.Equal(t, schema.VariantCounts{AA: 2, CDN: 5}, table.Get(2, "s1"))
	assert.Equal(t, schema.VariantCounts{CDN: 1}, table.Get(1, "s2"))
	assert.Equal(t, schema.VariantCounts{}, table.Get(1, "s1"), "square table fills absent pairs")

	for _, g := range table.Genes {
		for _, s := range table.Samples {
			c := table.Get(g, s)
			assert.Equal(t, c.CDN-c.AA, c.SSCV())
		}
	}
}

func TestRawRatios(t *testing.T) {
	table := CountVariants(join(
		records(1, "s1", schema.AAEngine, 2),
		records(1, "s1", schema.CDNEngine, 5),
		records(1, "s2", schema.AAEngine, 1),
		records(1, "s2", schema.CDNEngine, 2), // below the minimum
		records(2, "s1", schema.AAEngine, 4),
		records(2, "s1", schema.CDNEngine, 4), // sSCV is zero
		records(2, "s2", schema.AAEngine, 6),
		records(2, "s2", schema.CDNEngine, 4), // more AA than CDN
	))

	raw, anomalies := RawRatios(table, 3)

	r := raw.Get(1, "s1")
	require.True(t, r.Valid)
	assert.InDelta(t, 2.0/3, r.Value, 1e-12)

	assert.False(t, raw.Get(1, "s2").Valid)
	assert.False(t, raw.Get(2, "s1").Valid)

	r = raw.Get(2, "s2")
	require.True(t, r.Valid)
	assert.InDelta(t, -3.0, r.Value, 1e-12)

	assert.Equal(t, []schema.GeneSample{{Gene: 2, Sample: "s1"}}, anomalies.ZeroSSCV)
	assert.Equal(t, []schema.GeneSample{{Gene: 2, Sample: "s2"}}, anomalies.NegativeSSCV)
}

func TestRawRatiosNullBelowMinimum(t *testing.T) {
	table := CountVariants(join(
		records(1, "s1", schema.AAEngine, 1),
		records(1, "s1", schema.CDNEngine, 9),
		records(1, "s2", schema.CDNEngine, 10),
	))

	raw, _ := RawRatios(table, 10)
	assert.False(t, raw.Get(1, "s1").Valid)
	assert.True(t, raw.Get(1, "s2").Valid)
	assert.Zero(t, raw.Get(1, "s2").Value)
}

func TestNormalizeRatios(t *testing.T) {
	table := CountVariants(join(
		records(1, "s1", schema.AAEngine, 2),
		records(1, "s1", schema.CDNEngine, 5),
		records(2, "s1", schema.AAEngine, 1),
		records(2, "s1", schema.CDNEngine, 5),
	))
	raw, _ := RawRatios(table, 1)

	potentials := map[schema.GeneID]schema.Potential{
		1: {Synonymous: 3, NonSynonymous: 1, Codons: 2},
		2: {Codons: 2, Ambiguous: 2},
	}

	pnps, undefined := NormalizeRatios(raw, potentials)

	r := pnps.Get(1, "s1")
	require.True(t, r.Valid)
	assert.InDelta(t, 2.0, r.Value, 1e-12)

	assert.True(t, raw.Get(2, "s1").Valid)
	assert.False(t, pnps.Get(2, "s1").Valid)
	assert.Equal(t, []schema.GeneID{2}, undefined)
	assert.Equal(t, raw.Genes, pnps.Genes, "genes with undefined potential keep their rows")
}
