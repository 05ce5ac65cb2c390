package core

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/huangsam/pnps/internal/contract"
	"github.com/huangsam/pnps/internal/report"
	"github.com/huangsam/pnps/internal/store"
	"github.com/huangsam/pnps/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

const tableHeader = "entry_id\tsample_id\tcorresponding_gene_call\tcoverage\tdeparture_from_consensus\n"

// Contig c1 holds gene 1 (GGGGGG, forward) and gene 2 (NNN, reverse).
// Gene 1 has a synonymous potential of 2 over 4 non-synonymous sites.
var testContigs = map[string]string{"c1": "GGGGGGNNN"}

var testCalls = map[schema.GeneID]schema.GeneCall{
	1: {ID: 1, Contig: "c1", Start: 0, Stop: 6, Direction: "f"},
	2: {ID: 2, Contig: "c1", Start: 6, Stop: 9, Direction: "r"},
}

func writeVariability(t *testing.T, dir, name string, rows ...string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	var b strings.Builder
	b.WriteString(tableHeader)
	for i, r := range rows {
		b.WriteString(strings.Join([]string{string(rune('0' + i)), r}, "\t"))
		b.WriteString("\n")
	}
	require.NoError(t, os.WriteFile(path, []byte(b.String()), 0o644))
	return path
}

// newTestConfig writes two AA and four CDN records for gene 1 in s1 and one
// CDN record for gene 2 in s2.
func newTestConfig(t *testing.T) *contract.Config {
	dir := t.TempDir()
	return &contract.Config{
		AATable: writeVariability(t, dir, "aa.txt",
			"s1\t1\t50\t0.4",
			"s1\t1\t50\t0.4"),
		CDNTable: writeVariability(t, dir, "cdn.txt",
			"s1\t1\t50\t0.4",
			"s1\t1\t50\t0.4",
			"s1\t1\t50\t0.4",
			"s1\t1\t50\t0.4",
			"s2\t2\t50\t0.4"),
		OutputDir:      filepath.Join(dir, "out"),
		OutputFile:     filepath.Join(dir, "summary.txt"),
		MinCoverage:    30,
		MinDeparture:   0.1,
		MinNumVariants: 1,
		Precision:      3,
		Width:          100,
	}
}

func newGeneStore() *store.MockGeneStore {
	genes := &store.MockGeneStore{}
	genes.On("GetGeneCalls", mock.Anything, []schema.GeneID{1, 2}).Return(testCalls, nil)
	genes.On("GetContigSequences", mock.Anything, []string{"c1"}).Return(testContigs, nil)
	return genes
}

func newManager(genes contract.GeneStore, runs contract.RunStore) *store.MockStoreManager {
	mgr := &store.MockStoreManager{}
	mgr.On("GetGeneStore").Return(genes)
	mgr.On("GetRunStore").Return(runs)
	return mgr
}

func TestGetRatioResults(t *testing.T) {
	cfg := newTestConfig(t)
	genes := newGeneStore()

	obs, logs := observer.New(zapcore.InfoLevel)
	rep := report.NewWithLogger(zap.New(obs), nil)

	result, err := GetRatioResults(context.Background(), cfg, newManager(genes, nil), rep)
	require.NoError(t, err)
	genes.AssertExpectations(t)

	assert.Equal(t, []schema.GeneID{1, 2}, result.PNPS.Genes)
	assert.Equal(t, []string{"s1", "s2"}, result.PNPS.Samples)

	assert.Equal(t, schema.ValidRatio(1), result.Raw.Get(1, "s1"))
	pnps := result.PNPS.Get(1, "s1")
	require.True(t, pnps.Valid)
	assert.InDelta(t, 0.5, pnps.Value, 1e-9)

	assert.False(t, result.Raw.Get(1, "s2").Valid, "below the variant minimum")
	assert.Equal(t, schema.ValidRatio(0), result.Raw.Get(2, "s2"))
	assert.False(t, result.PNPS.Get(2, "s2").Valid, "undefined potential")

	assert.Equal(t, []schema.GeneID{2}, result.UndefinedPotential)
	assert.Equal(t, 1, result.AmbiguousCodons)
	assert.Empty(t, result.NegativeSSCV)
	assert.Equal(t, 7, result.Stats.Kept)

	warnings := logs.FilterLevelExact(zapcore.WarnLevel).All()
	require.Len(t, warnings, 2)
	assert.Contains(t, warnings[0].Message, "1 codons with ambiguous bases")
	assert.Contains(t, warnings[1].Message, "1 genes have an undefined substitution potential")
}

func TestGetRatioResultsRecordsRun(t *testing.T) {
	cfg := newTestConfig(t)

	runs := &store.MockRunStore{}
	runs.On("BeginRun", mock.AnythingOfType("string"), mock.Anything, mock.Anything).Return(int64(7), nil)
	runs.On("RecordRatios", int64(7), mock.MatchedBy(func(records []schema.RatioRecord) bool {
		return len(records) == 4 && records[0].RunID == 7
	})).Return(nil)
	runs.On("EndRun", int64(7), mock.Anything, 2, 2, 1).Return(nil)

	_, err := GetRatioResults(context.Background(), cfg, newManager(newGeneStore(), runs), report.Nop())
	require.NoError(t, err)
	runs.AssertExpectations(t)
}

func TestGetRatioResultsNoGeneStore(t *testing.T) {
	_, err := GetRatioResults(context.Background(), newTestConfig(t), newManager(nil, nil), report.Nop())
	require.ErrorIs(t, err, errNoGeneStore)

	_, err = GetRatioResults(context.Background(), newTestConfig(t), nil, report.Nop())
	require.ErrorIs(t, err, errNoGeneStore)
}

func TestGetRatioResultsMissingContig(t *testing.T) {
	genes := &store.MockGeneStore{}
	genes.On("GetGeneCalls", mock.Anything, mock.Anything).Return(testCalls, nil)
	genes.On("GetContigSequences", mock.Anything, mock.Anything).Return(map[string]string{}, nil)

	_, err := GetRatioResults(context.Background(), newTestConfig(t), newManager(genes, nil), report.Nop())
	require.Error(t, err)
	assert.True(t, contract.IsPathError(err))
	assert.Contains(t, err.Error(), `contig "c1"`)
}

func TestExecuteRatio(t *testing.T) {
	cfg := newTestConfig(t)
	cfg.Exports = []schema.ExportFormat{schema.JSONExport}

	require.NoError(t, ExecuteRatio(context.Background(), cfg, newManager(newGeneStore(), nil), report.Nop()))

	for _, name := range []string{schema.PNPSFileName, schema.SSCVFileName, schema.SAAVFileName, schema.JSONFileName} {
		assert.FileExists(t, filepath.Join(cfg.OutputDir, name))
	}

	b, err := os.ReadFile(filepath.Join(cfg.OutputDir, schema.PNPSFileName))
	require.NoError(t, err)
	assert.Equal(t, "corresponding_gene_call\ts1\ts2\n1\t0.5\t\n2\t\t\n", string(b))

	summary, err := os.ReadFile(cfg.OutputFile)
	require.NoError(t, err)
	assert.Contains(t, string(summary), "defined pN/pS: 1, null: 3")
}

func TestExecuteRatioBadOutputDir(t *testing.T) {
	cfg := newTestConfig(t)
	blocker := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(blocker, nil, 0o644))
	cfg.OutputDir = filepath.Join(blocker, "out")

	mgr := newManager(newGeneStore(), nil)
	err := ExecuteRatio(context.Background(), cfg, mgr, report.Nop())
	require.Error(t, err)
	mgr.AssertNotCalled(t, "GetGeneStore")
}
