package store

import (
	"errors"
	"fmt"
	"io"

	"github.com/huangsam/pnps/internal/contract"
	"github.com/huangsam/pnps/internal/parquet"
)

// ExportRuns writes the runs and ratio rows of runs to two Parquet files
// named after outputFile.
func ExportRuns(w io.Writer, runs contract.RunStore, outputFile string) error {
	if outputFile == "" {
		return errors.New("--output-file is required for export command")
	}
	if runs == nil {
		return errors.New("run tracking is disabled. Set --runs-backend to export runs")
	}

	status, err := runs.GetStatus()
	if err != nil {
		return fmt.Errorf("failed to get run store status: %w", err)
	}
	if status.TotalRuns == 0 {
		return errors.New("no runs found to export")
	}

	_, _ = fmt.Fprintf(w, "Exporting data from %s backend...\n", status.Backend)
	_, _ = fmt.Fprintf(w, "Total runs: %d\n", status.TotalRuns)
	_, _ = fmt.Fprintf(w, "Total ratio records: %d\n", status.TableSizes[ratiosTable])

	runRecords, err := runs.GetAllRuns()
	if err != nil {
		return fmt.Errorf("failed to retrieve runs: %w", err)
	}
	ratioRecords, err := runs.GetAllRatios()
	if err != nil {
		return fmt.Errorf("failed to retrieve ratios: %w", err)
	}

	runsFile := outputFile + ".runs.parquet"
	parquetRuns := parquet.ConvertRunRecords(runRecords)
	if err := parquet.WriteRatioRunsParquet(parquetRuns, runsFile); err != nil {
		return fmt.Errorf("failed to write runs: %w", err)
	}
	_, _ = fmt.Fprintf(w, "Exported %d runs to: %s\n", len(parquetRuns), runsFile)

	ratiosFile := outputFile + ".ratios.parquet"
	parquetRatios := parquet.ConvertRatioRecords(ratioRecords)
	if err := parquet.WriteRunRatiosParquet(parquetRatios, ratiosFile); err != nil {
		return fmt.Errorf("failed to write ratios: %w", err)
	}
	_, _ = fmt.Fprintf(w, "Exported %d ratio records to: %s\n", len(parquetRatios), ratiosFile)
	return nil
}
