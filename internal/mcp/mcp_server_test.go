package mcp_test

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/huangsam/pnps/internal/contract"
	mcp_internal "github.com/huangsam/pnps/internal/mcp"
	"github.com/huangsam/pnps/internal/store"
	"github.com/huangsam/pnps/schema"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const tableHeader = "entry_id\tsample_id\tcorresponding_gene_call\tcoverage\tdeparture_from_consensus\n"

var testCalls = map[schema.GeneID]schema.GeneCall{
	1: {ID: 1, Contig: "c1", Start: 0, Stop: 6, Direction: "f"},
}

func baseConfig() *contract.Config {
	return &contract.Config{
		MinCoverage:    contract.DefaultMinCoverage,
		MinDeparture:   contract.DefaultMinDeparture,
		MinNumVariants: contract.DefaultMinNumVariants,
		Precision:      contract.DefaultPrecision,
	}
}

func newManager() *store.MockStoreManager {
	genes := &store.MockGeneStore{}
	genes.On("GetGeneCalls", mock.Anything, []schema.GeneID{1}).Return(testCalls, nil)
	genes.On("ListGeneIDs", mock.Anything).Return([]schema.GeneID{1}, nil)
	genes.On("GetContigSequences", mock.Anything, []string{"c1"}).Return(map[string]string{"c1": "GGGGGG"}, nil)

	mgr := &store.MockStoreManager{}
	mgr.On("GetGeneStore").Return(genes)
	mgr.On("GetRunStore").Return(nil)
	return mgr
}

func writeTables(t *testing.T) (string, string) {
	t.Helper()
	dir := t.TempDir()
	aa := filepath.Join(dir, "aa.txt")
	cdn := filepath.Join(dir, "cdn.txt")
	require.NoError(t, os.WriteFile(aa, []byte(tableHeader+"0\ts1\t1\t50\t0.4\n"), 0o644))
	require.NoError(t, os.WriteFile(cdn, []byte(tableHeader+"0\ts1\t1\t50\t0.4\n1\ts1\t1\t50\t0.4\n"), 0o644))
	return aa, cdn
}

func callTool(t *testing.T, mgr contract.StoreManager, name string, args map[string]any) *mcp.CallToolResult {
	t.Helper()
	s := mcp_internal.NewMCPServer(baseConfig(), mgr)
	tool := s.GetTool(name)
	require.NotNil(t, tool, "Tool %s should exist", name)

	res, err := tool.Handler(context.Background(), mcp.CallToolRequest{
		Params: mcp.CallToolParams{Name: name, Arguments: args},
	})
	require.NoError(t, err, "The MCP handler should not return a raw error for tool logic failures")
	return res
}

func resultText(res *mcp.CallToolResult) string {
	return res.Content[0].(mcp.TextContent).Text
}

func TestMCPServerHandlers_ValidationErrors(t *testing.T) {
	aa, cdn := writeTables(t)

	t.Run("compute_pn_ps missing aa_table", func(t *testing.T) {
		res := callTool(t, nil, "compute_pn_ps", map[string]any{"cdn_table": cdn})
		assert.True(t, res.IsError, "The response should indicate an error state")
		assert.Contains(t, resultText(res), "--aa-table is required")
	})

	t.Run("compute_pn_ps departure out of range", func(t *testing.T) {
		res := callTool(t, nil, "compute_pn_ps", map[string]any{
			"aa_table":                     aa,
			"cdn_table":                    cdn,
			"min_departure_from_consensus": 1.5,
		})
		assert.True(t, res.IsError)
		assert.Contains(t, resultText(res), "between 0 and 1")
	})

	t.Run("compute_pn_ps without gene store", func(t *testing.T) {
		res := callTool(t, nil, "compute_pn_ps", map[string]any{"aa_table": aa, "cdn_table": cdn})
		assert.True(t, res.IsError)
		assert.Contains(t, resultText(res), "gene store is not initialized")
	})

	t.Run("get_synonymous_potential bad gene id", func(t *testing.T) {
		res := callTool(t, nil, "get_synonymous_potential", map[string]any{"genes": "1,abc"})
		assert.True(t, res.IsError)
		assert.Contains(t, resultText(res), `invalid gene id "abc"`)
	})
}

func TestComputePNPS(t *testing.T) {
	aa, cdn := writeTables(t)
	outDir := filepath.Join(t.TempDir(), "out")

	res := callTool(t, newManager(), "compute_pn_ps", map[string]any{
		"aa_table":             aa,
		"cdn_table":            cdn,
		"output_dir":           outDir,
		"minimum_num_variants": 1.0,
	})
	require.False(t, res.IsError, resultText(res))

	var payload struct {
		Summary struct {
			Genes        int `json:"genes"`
			DefinedCells int `json:"defined_cells"`
		} `json:"summary"`
		Rows []struct {
			Gene   int      `json:"gene_callers_id"`
			Sample string   `json:"sample_id"`
			SAAV   int      `json:"saav"`
			SSCV   int      `json:"sscv"`
			PNPS   *float64 `json:"pn_ps"`
		} `json:"rows"`
	}
	require.NoError(t, json.Unmarshal([]byte(resultText(res)), &payload))
	assert.Equal(t, 1, payload.Summary.Genes)
	assert.Equal(t, 1, payload.Summary.DefinedCells)
	require.Len(t, payload.Rows, 1)
	assert.Equal(t, 1, payload.Rows[0].SAAV)
	assert.Equal(t, 1, payload.Rows[0].SSCV)
	require.NotNil(t, payload.Rows[0].PNPS)
	assert.InDelta(t, 0.5, *payload.Rows[0].PNPS, 1e-9)

	assert.FileExists(t, filepath.Join(outDir, schema.PNPSFileName))
}

func TestGetSynonymousPotential(t *testing.T) {
	res := callTool(t, newManager(), "get_synonymous_potential", map[string]any{})
	require.False(t, res.IsError, resultText(res))

	var payload struct {
		Genes []struct {
			Gene          int      `json:"gene_callers_id"`
			Synonymous    float64  `json:"synonymous_potential"`
			NonSynonymous float64  `json:"non_synonymous_potential"`
			Ratio         *float64 `json:"potential_ratio"`
		} `json:"genes"`
	}
	require.NoError(t, json.Unmarshal([]byte(resultText(res)), &payload))
	require.Len(t, payload.Genes, 1)
	assert.Equal(t, 1, payload.Genes[0].Gene)
	assert.InDelta(t, 2.0, payload.Genes[0].Synonymous, 1e-9)
	assert.InDelta(t, 4.0, payload.Genes[0].NonSynonymous, 1e-9)
	require.NotNil(t, payload.Genes[0].Ratio)
	assert.InDelta(t, 0.5, *payload.Genes[0].Ratio, 1e-9)
}
