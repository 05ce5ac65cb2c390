package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/huangsam/pnps/internal/contract"
	"github.com/huangsam/pnps/schema"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// PrintPotentials outputs per gene substitution potential, dispatching based on the output format configured.
func PrintPotentials(rows []schema.GenePotential, cfg *contract.Config, duration time.Duration) error {
	fmtFloat, fmtRatio := createFormatters(cfg.Precision)

	switch cfg.Output {
	case schema.JSONOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, rows)
		}, "Wrote JSON")
	case schema.CSVOut:
		header := []string{"gene_callers_id", "codons", "ambiguous_codons", "synonymous_potential", "non_synonymous_potential", "potential_ratio"}
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeCSVWithHeader(w, 0, header, func(cw *csv.Writer) error {
				for _, r := range rows {
					rec := []string{
						r.Gene.String(),
						strconv.Itoa(r.Codons),
						strconv.Itoa(r.Ambiguous),
						fmtFloat(r.Synonymous),
						fmtFloat(r.NonSynonymous),
						csvRatio(r.Ratio, fmtFloat),
					}
					if err := cw.Write(rec); err != nil {
						return err
					}
				}
				return nil
			})
		}, "Wrote CSV")
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writePotentialTable(w, rows, fmtFloat, fmtRatio, duration)
		}, "Wrote table")
	}
}

// writePotentialTable generates and writes the human-readable potential table.
func writePotentialTable(w io.Writer, rows []schema.GenePotential, fmtFloat func(float64) string, fmtRatio func(schema.Ratio) string, duration time.Duration) error {
	table := tablewriter.NewWriter(w)
	table.Header([]string{"Gene", "Codons", "Ambiguous", "Syn", "Non-Syn", "Syn/Non-Syn"})
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})

	data := make([][]string, 0, len(rows))
	ambiguous := 0
	for _, r := range rows {
		ambiguous += r.Ambiguous
		data = append(data, []string{
			r.Gene.String(),
			strconv.Itoa(r.Codons),
			strconv.Itoa(r.Ambiguous),
			fmtFloat(r.Synonymous),
			fmtFloat(r.NonSynonymous),
			fmtRatio(r.Ratio),
		})
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "Showing %d genes (%d ambiguous codons skipped) in %v\n",
		len(rows), ambiguous, duration.Round(time.Millisecond))
	return err
}
