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

// PrintRatioSummary outputs the run summary, dispatching based on the output format configured.
func PrintRatioSummary(summary schema.RatioSummary, cfg *contract.Config, duration time.Duration) error {
	fmtFloat, fmtRatio := createFormatters(cfg.Precision)

	switch cfg.Output {
	case schema.JSONOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, summary)
		}, "Wrote JSON")
	case schema.CSVOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeSummaryCSV(w, summary, fmtFloat)
		}, "Wrote CSV")
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeSummaryTable(w, summary, cfg, fmtRatio, duration)
		}, "Wrote table")
	}
}

// labelFor picks the colored or plain regime label.
func labelFor(cfg *contract.Config, r schema.Ratio) string {
	if cfg.UseColors {
		return contract.GetColorLabel(r.Value, r.Valid)
	}
	return contract.GetPlainLabel(r.Value, r.Valid)
}

// writeSummaryTable generates and writes the human-readable summary.
func writeSummaryTable(w io.Writer, summary schema.RatioSummary, cfg *contract.Config, fmtRatio func(schema.Ratio) string, duration time.Duration) error {
	table := tablewriter.NewWriter(w)
	table.Header([]string{"Sample", "Defined", "Null", "Median", "Mean", "Label", "Top Gene"})
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})

	labelWidth := getMaxSampleLabelWidth(cfg)
	data := make([][]string, 0, len(summary.PerSample))
	for _, s := range summary.PerSample {
		top := "-"
		if s.MaxGene != nil {
			top = s.MaxGene.String()
		}
		data = append(data, []string{
			contract.TruncateLabel(s.Sample, labelWidth),
			strconv.Itoa(s.Defined),
			strconv.Itoa(s.Null),
			fmtRatio(s.Median),
			fmtRatio(s.Mean),
			labelFor(cfg, s.Median),
			top,
		})
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}

	st := summary.Stats
	lines := []string{
		fmt.Sprintf("Genes: %d, samples: %d, defined pN/pS: %d, null: %d",
			summary.Genes, summary.Samples, summary.DefinedCells, summary.NullCells),
		fmt.Sprintf("Overall median pN/pS: %s (%s), mean: %s",
			fmtRatio(summary.Median), labelFor(cfg, summary.Median), fmtRatio(summary.Mean)),
		fmt.Sprintf("Records: %d AA, %d CDN, %d below thresholds, %d on partial genes, %d kept",
			st.AARecords, st.CDNRecords, st.BelowThreshold, st.PartialRemoved, st.Kept),
		fmt.Sprintf("Ratio tables written to %s in %v. Gene store: %s",
			cfg.OutputDir, duration.Round(time.Millisecond), cfg.GenesBackend),
	}
	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

// writeSummaryCSV writes one row per sample.
func writeSummaryCSV(w io.Writer, summary schema.RatioSummary, fmtFloat func(float64) string) error {
	header := []string{"sample_id", "defined", "null", "median", "mean", "label", "max_gene"}
	return writeCSVWithHeader(w, 0, header, func(cw *csv.Writer) error {
		for _, s := range summary.PerSample {
			maxGene := ""
			if s.MaxGene != nil {
				maxGene = s.MaxGene.String()
			}
			rec := []string{
				s.Sample,
				strconv.Itoa(s.Defined),
				strconv.Itoa(s.Null),
				csvRatio(s.Median, fmtFloat),
				csvRatio(s.Mean, fmtFloat),
				contract.GetPlainLabel(s.Median.Value, s.Median.Valid),
				maxGene,
			}
			if err := cw.Write(rec); err != nil {
				return err
			}
		}
		return nil
	})
}

// csvRatio renders undefined ratios as empty CSV cells.
func csvRatio(r schema.Ratio, fmtFloat func(float64) string) string {
	if !r.Valid {
		return ""
	}
	return fmtFloat(r.Value)
}
