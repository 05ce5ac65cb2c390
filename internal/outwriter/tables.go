package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/huangsam/pnps/internal/contract"
	"github.com/huangsam/pnps/schema"
)

// WriteRatioTables writes the pN/pS, sSCV and SAAV tables into dir. Every
// table has one row per gene, sorted by gene id, and one column per sample.
func WriteRatioTables(dir string, result *schema.RatioResult) error {
	counts := result.Counts

	tables := []struct {
		name string
		cell func(schema.GeneID, string) string
	}{
		{schema.PNPSFileName, func(g schema.GeneID, s string) string {
			return formatRatioCell(result.PNPS.Get(g, s))
		}},
		{schema.SSCVFileName, func(g schema.GeneID, s string) string {
			return strconv.Itoa(counts.Get(g, s).SSCV())
		}},
		{schema.SAAVFileName, func(g schema.GeneID, s string) string {
			return strconv.Itoa(counts.Get(g, s).AA)
		}},
	}

	for _, t := range tables {
		path := filepath.Join(dir, t.name)
		if err := writeGeneTableFile(path, counts.Genes, counts.Samples, t.cell); err != nil {
			return err
		}
	}
	return nil
}

// writeGeneTableFile writes one gene by sample table to path.
func writeGeneTableFile(path string, genes []schema.GeneID, samples []string, cell func(schema.GeneID, string) string) error {
	file, err := os.Create(path)
	if err != nil {
		return contract.PathErrorf(path, "cannot create table: %w", err)
	}
	defer func() { _ = file.Close() }()

	if err := writeGeneTable(file, genes, samples, cell); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return file.Close()
}

// writeGeneTable writes a tab separated gene by sample table to w.
func writeGeneTable(w io.Writer, genes []schema.GeneID, samples []string, cell func(schema.GeneID, string) string) error {
	header := append([]string{schema.GeneColumn}, samples...)
	return writeCSVWithHeader(w, '\t', header, func(cw *csv.Writer) error {
		row := make([]string, len(header))
		for _, g := range genes {
			row[0] = g.String()
			for i, s := range samples {
				row[i+1] = cell(g, s)
			}
			if err := cw.Write(row); err != nil {
				return err
			}
		}
		return nil
	})
}

// formatRatioCell renders a ratio for the ratio tables. Null cells are empty.
func formatRatioCell(r schema.Ratio) string {
	if !r.Valid {
		return ""
	}
	return strconv.FormatFloat(r.Value, 'f', -1, 64)
}
