package outwriter

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/huangsam/pnps/internal/contract"
	"github.com/huangsam/pnps/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteSummaryCSV(t *testing.T) {
	fmtFloat, _ := createFormatters(2)

	var buf bytes.Buffer
	require.NoError(t, writeSummaryCSV(&buf, newTestSummary(), fmtFloat))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "sample_id,defined,null,median,mean,label,max_gene", lines[0])
	assert.Equal(t, "s1,1,1,2.00,2.00,Diversifying,1", lines[1])
	assert.Equal(t, "s2,0,2,,,Undefined,", lines[2])
}

func TestWriteSummaryTable(t *testing.T) {
	cfg := &contract.Config{Precision: 2, Width: 120, OutputDir: "out", GenesBackend: schema.SQLiteBackend}
	_, fmtRatio := createFormatters(cfg.Precision)

	var buf bytes.Buffer
	require.NoError(t, writeSummaryTable(&buf, newTestSummary(), cfg, fmtRatio, 1500*time.Millisecond))

	out := buf.String()
	assert.Contains(t, out, "s1")
	assert.Contains(t, out, "Diversifying")
	assert.Contains(t, out, "Undefined")
	assert.Contains(t, out, "Genes: 2, samples: 2, defined pN/pS: 1, null: 3")
	assert.Contains(t, out, "Overall median pN/pS: 2.00 (Diversifying), mean: 2.00")
	assert.Contains(t, out, "Records: 3 AA, 6 CDN, 0 below thresholds, 0 on partial genes, 9 kept")
	assert.Contains(t, out, "Ratio tables written to out in 1.5s. Gene store: sqlite")
}

func TestPrintRatioSummaryJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "summary.json")
	cfg := &contract.Config{Output: schema.JSONOut, OutputFile: path, Precision: 3}

	require.NoError(t, PrintRatioSummary(newTestSummary(), cfg, time.Second))

	var got map[string]any
	require.NoError(t, json.Unmarshal([]byte(readFile(t, path)), &got))
	assert.EqualValues(t, 2, got["genes"])
	assert.EqualValues(t, 2, got["median"])

	perSample, ok := got["per_sample"].([]any)
	require.True(t, ok)
	require.Len(t, perSample, 2)
	second, _ := perSample[1].(map[string]any)
	assert.Nil(t, second["median"], "undefined ratios are JSON null")
	assert.NotContains(t, second, "max_gene")
}

func TestCreateFormatters(t *testing.T) {
	fmtFloat, fmtRatio := createFormatters(1)
	assert.Equal(t, "0.3", fmtFloat(0.25+0.01))
	assert.Equal(t, "-", fmtRatio(schema.NullRatio))
	assert.Equal(t, "1.5", fmtRatio(schema.ValidRatio(1.5)))
}

func TestGetMaxSampleLabelWidth(t *testing.T) {
	assert.Equal(t, 12, getMaxSampleLabelWidth(&contract.Config{Width: 60}))
	assert.Equal(t, 25, getMaxSampleLabelWidth(&contract.Config{Width: 100}))
	assert.Equal(t, 60, getMaxSampleLabelWidth(&contract.Config{Width: 400}))
}
