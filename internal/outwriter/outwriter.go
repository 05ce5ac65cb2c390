// Package outwriter has output and writer logic.
package outwriter

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/huangsam/pnps/internal/contract"
	"github.com/huangsam/pnps/schema"
	"golang.org/x/term"
)

// writeWithFile handles the common pattern of opening a file, writing to it, and cleaning up.
// It accepts a writer function that takes an io.Writer and returns an error.
func writeWithFile(outputFile string, writer func(io.Writer) error, successMsg string) error {
	file, err := contract.SelectOutputFile(outputFile)
	if err != nil {
		return err
	}
	// Only close if it's not stdout
	if file != os.Stdout {
		defer func() { _ = file.Close() }()
	}

	if err := writer(file); err != nil {
		return err
	}

	if file != os.Stdout {
		_, _ = fmt.Fprintf(os.Stderr, "💾 %s to %s\n", successMsg, outputFile)
	}
	return nil
}

// writeJSON is a generic JSON encoder that handles indentation consistently.
func writeJSON(w io.Writer, data any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(data); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}
	return nil
}

// writeCSVWithHeader handles the common pattern of creating a CSV writer,
// writing a header, and writing data rows. A zero comma keeps the default.
func writeCSVWithHeader(w io.Writer, comma rune, header []string, writeRows func(*csv.Writer) error) error {
	csvWriter := csv.NewWriter(w)
	if comma != 0 {
		csvWriter.Comma = comma
	}

	if err := csvWriter.Write(header); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}
	if err := writeRows(csvWriter); err != nil {
		return err
	}

	csvWriter.Flush()
	return csvWriter.Error()
}

// createFormatters creates the common formatter closures used across multiple output types.
// Undefined ratios render as "-".
func createFormatters(precision int) (fmtFloat func(float64) string, fmtRatio func(schema.Ratio) string) {
	fmtFloat = func(v float64) string {
		return fmt.Sprintf("%.*f", precision, v)
	}
	fmtRatio = func(r schema.Ratio) string {
		if !r.Valid {
			return "-"
		}
		return fmtFloat(r.Value)
	}
	return fmtFloat, fmtRatio
}

// getTerminalWidth returns the width override of cfg or the detected terminal width.
func getTerminalWidth(cfg *contract.Config) int {
	if cfg.Width > 0 {
		return cfg.Width
	}
	detectedWidth, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || detectedWidth <= 0 {
		return 80 // Conservative default for narrow terminals and CI
	}
	return detectedWidth
}

// getMaxSampleLabelWidth calculates the maximum width for sample ids in the
// per sample summary table.
func getMaxSampleLabelWidth(cfg *contract.Config) int {
	// Defined + Null + Median + Mean + Label + Top gene columns with borders/padding
	baseWidth := 75
	available := getTerminalWidth(cfg) - baseWidth
	if available < 12 {
		return 12
	}
	if available > 60 {
		return 60
	}
	return available
}
