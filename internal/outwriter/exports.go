package outwriter

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/huangsam/pnps/internal/contract"
	"github.com/huangsam/pnps/internal/parquet"
	"github.com/huangsam/pnps/schema"
	"github.com/samber/lo"
	"github.com/xuri/excelize/v2"
)

// Sheet names of the workbook export.
const (
	pnpsSheet = "pN_pS"
	sscvSheet = "sSCV"
	saavSheet = "SAAV"
	longSheet = "long"
)

// ratioExport is the document written by the JSON export.
type ratioExport struct {
	Summary schema.RatioSummary   `json:"summary"`
	Rows    []schema.LongRatioRow `json:"rows"`
}

// WriteExports writes every export format requested in cfg next to the ratio tables.
func WriteExports(cfg *contract.Config, result *schema.RatioResult, summary schema.RatioSummary) error {
	if cfg.HasExport(schema.XLSXExport) {
		path := filepath.Join(cfg.OutputDir, schema.WorkbookFileName)
		if err := WriteWorkbook(path, result); err != nil {
			return fmt.Errorf("error writing workbook: %w", err)
		}
		_, _ = fmt.Fprintf(os.Stderr, "💾 Wrote workbook to %s\n", path)
	}

	if cfg.HasExport(schema.ParquetExport) {
		path := filepath.Join(cfg.OutputDir, schema.LongParquetFileName)
		if err := parquet.WriteLongRatiosParquet(parquet.ConvertLongRows(result.LongRows()), path); err != nil {
			return fmt.Errorf("error writing parquet export: %w", err)
		}
		_, _ = fmt.Fprintf(os.Stderr, "💾 Wrote parquet to %s\n", path)
	}

	if cfg.HasExport(schema.JSONExport) {
		path := filepath.Join(cfg.OutputDir, schema.JSONFileName)
		doc := ratioExport{Summary: summary, Rows: result.LongRows()}
		if err := writeWithFile(path, func(w io.Writer) error { return writeJSON(w, doc) }, "Wrote JSON"); err != nil {
			return fmt.Errorf("error writing JSON export: %w", err)
		}
	}
	return nil
}

// WriteWorkbook writes the three ratio tables and the long format rows as
// sheets of one xlsx workbook. Null cells are left blank.
func WriteWorkbook(path string, result *schema.RatioResult) error {
	xlsx := excelize.NewFile()
	defer func() { _ = xlsx.Close() }()

	counts := result.Counts
	sheets := []struct {
		name string
		cell func(schema.GeneID, string) any
	}{
		{pnpsSheet, func(g schema.GeneID, s string) any { return ratioValue(result.PNPS.Get(g, s)) }},
		{sscvSheet, func(g schema.GeneID, s string) any { return counts.Get(g, s).SSCV() }},
		{saavSheet, func(g schema.GeneID, s string) any { return counts.Get(g, s).AA }},
	}

	for _, sh := range sheets {
		if _, err := xlsx.NewSheet(sh.name); err != nil {
			return err
		}
		header := append([]any{schema.GeneColumn}, lo.ToAnySlice(counts.Samples)...)
		if err := xlsx.SetSheetRow(sh.name, "A1", &header); err != nil {
			return err
		}
		for i, g := range counts.Genes {
			row := make([]any, 0, len(counts.Samples)+1)
			row = append(row, int64(g))
			for _, s := range counts.Samples {
				row = append(row, sh.cell(g, s))
			}
			if err := setRow(xlsx, sh.name, i+2, row); err != nil {
				return err
			}
		}
	}

	if err := writeLongSheet(xlsx, result.LongRows()); err != nil {
		return err
	}

	if err := xlsx.DeleteSheet("Sheet1"); err != nil {
		return err
	}
	if idx, err := xlsx.GetSheetIndex(pnpsSheet); err == nil {
		xlsx.SetActiveSheet(idx)
	}
	return xlsx.SaveAs(path)
}

// writeLongSheet writes one row per gene and sample.
func writeLongSheet(xlsx *excelize.File, rows []schema.LongRatioRow) error {
	if _, err := xlsx.NewSheet(longSheet); err != nil {
		return err
	}
	header := []any{schema.GeneColumn, "sample_id", "saav", "scv", "sscv", "raw_ratio", "potential_ratio", "pn_ps"}
	if err := xlsx.SetSheetRow(longSheet, "A1", &header); err != nil {
		return err
	}
	for i, r := range rows {
		row := []any{int64(r.Gene), r.Sample, r.SAAV, r.CDN, r.SSCV, ratioValue(r.RawRatio), ratioValue(r.Potential), ratioValue(r.PNPS)}
		if err := setRow(xlsx, longSheet, i+2, row); err != nil {
			return err
		}
	}
	return nil
}

// setRow writes values starting at column A of the given one-based row.
func setRow(xlsx *excelize.File, sheet string, row int, values []any) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	return xlsx.SetSheetRow(sheet, cell, &values)
}

// ratioValue returns nil for null cells so the spreadsheet cell stays blank.
func ratioValue(r schema.Ratio) any {
	if !r.Valid {
		return nil
	}
	return r.Value
}
