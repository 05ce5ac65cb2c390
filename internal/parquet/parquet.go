// Package parquet provides data structures and functions for exporting pnps
// results and run history to Parquet files using github.com/parquet-go/parquet-go.
package parquet

import (
	"fmt"
	"os"
	"time"

	"github.com/huangsam/pnps/schema"
	"github.com/parquet-go/parquet-go"
)

// RatioRun represents a single pN/pS run with metadata.
// This struct maps to the pnps_runs database table.
type RatioRun struct {
	// RunID is the unique identifier for this run
	RunID int64 `parquet:"run_id,snappy"`

	// RunUUID is the globally unique id of the run
	RunUUID string `parquet:"run_uuid,snappy"`

	// StartTime is when the run began (stored as TIMESTAMP with nanosecond precision)
	StartTime time.Time `parquet:"start_time,snappy"`

	// EndTime is when the run completed (nullable)
	EndTime *time.Time `parquet:"end_time,optional,snappy"`

	// RunDurationMs is the duration of the run in milliseconds (nullable)
	RunDurationMs *int32 `parquet:"run_duration_ms,optional,snappy"`

	TotalGenes    int32 `parquet:"total_genes,snappy"`
	TotalSamples  int32 `parquet:"total_samples,snappy"`
	DefinedRatios int32 `parquet:"defined_ratios,snappy"`

	// ConfigParams contains the JSON-encoded configuration parameters (nullable)
	ConfigParams *string `parquet:"config_params,optional,snappy"`
}

// RunRatio is one stored gene and sample row of a run.
// This struct maps to the pnps_ratios database table.
type RunRatio struct {
	RunID    int64    `parquet:"run_id,snappy"`
	Gene     int64    `parquet:"gene_callers_id,snappy"`
	Sample   string   `parquet:"sample_id,dict,snappy"`
	SAAV     int32    `parquet:"saav,snappy"`
	SSCV     int32    `parquet:"sscv,snappy"`
	RawRatio *float64 `parquet:"raw_ratio,optional,snappy"`
	PNPS     *float64 `parquet:"pn_ps,optional,snappy"`
}

// LongRatio is one gene and sample row of the long ratio export.
type LongRatio struct {
	Gene           int64    `parquet:"gene_callers_id,snappy"`
	Sample         string   `parquet:"sample_id,dict,snappy"`
	SAAV           int32    `parquet:"saav,snappy"`
	SCV            int32    `parquet:"scv,snappy"`
	SSCV           int32    `parquet:"sscv,snappy"`
	RawRatio       *float64 `parquet:"raw_ratio,optional,snappy"`
	PotentialRatio *float64 `parquet:"potential_ratio,optional,snappy"`
	PNPS           *float64 `parquet:"pn_ps,optional,snappy"`
}

// writeParquet writes rows to a new Parquet file at outputPath.
// The schema is derived from the struct tags of T.
func writeParquet[T any](data []T, outputPath string) error {
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() { _ = file.Close() }()

	writer := parquet.NewGenericWriter[T](file)
	if _, err := writer.Write(data); err != nil {
		_ = writer.Close()
		return fmt.Errorf("failed to write data to parquet file: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to finalize parquet file: %w", err)
	}
	return nil
}

// WriteRatioRunsParquet writes a slice of RatioRun structs to a Parquet file.
func WriteRatioRunsParquet(data []RatioRun, outputPath string) error {
	return writeParquet(data, outputPath)
}

// WriteRunRatiosParquet writes a slice of RunRatio structs to a Parquet file.
func WriteRunRatiosParquet(data []RunRatio, outputPath string) error {
	return writeParquet(data, outputPath)
}

// WriteLongRatiosParquet writes a slice of LongRatio structs to a Parquet file.
func WriteLongRatiosParquet(data []LongRatio, outputPath string) error {
	return writeParquet(data, outputPath)
}

// ReadLongRatiosParquet reads a long ratio export back into memory.
func ReadLongRatiosParquet(inputPath string) ([]LongRatio, error) {
	rows, err := parquet.ReadFile[LongRatio](inputPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read parquet file: %w", err)
	}
	return rows, nil
}

// ConvertRunRecords converts schema.RunRecord to RatioRun for Parquet export.
func ConvertRunRecords(records []schema.RunRecord) []RatioRun {
	result := make([]RatioRun, len(records))
	for i, record := range records {
		result[i] = RatioRun{
			RunID:         record.RunID,
			RunUUID:       record.RunUUID,
			StartTime:     record.StartTime,
			EndTime:       record.EndTime,
			RunDurationMs: record.RunDurationMs,
			TotalGenes:    record.TotalGenes,
			TotalSamples:  record.TotalSamples,
			DefinedRatios: record.DefinedRatios,
			ConfigParams:  record.ConfigParams,
		}
	}
	return result
}

// ConvertRatioRecords converts schema.RatioRecord to RunRatio for Parquet export.
func ConvertRatioRecords(records []schema.RatioRecord) []RunRatio {
	result := make([]RunRatio, len(records))
	for i, record := range records {
		result[i] = RunRatio{
			RunID:    record.RunID,
			Gene:     int64(record.Gene),
			Sample:   record.Sample,
			SAAV:     record.SAAV,
			SSCV:     record.SSCV,
			RawRatio: record.RawRatio,
			PNPS:     record.PNPS,
		}
	}
	return result
}

// ConvertLongRows converts schema.LongRatioRow to LongRatio for Parquet export.
func ConvertLongRows(rows []schema.LongRatioRow) []LongRatio {
	result := make([]LongRatio, len(rows))
	for i, row := range rows {
		result[i] = LongRatio{
			Gene:           int64(row.Gene),
			Sample:         row.Sample,
			SAAV:           int32(row.SAAV),
			SCV:            int32(row.CDN),
			SSCV:           int32(row.SSCV),
			RawRatio:       row.RawRatio.Ptr(),
			PotentialRatio: row.Potential.Ptr(),
			PNPS:           row.PNPS.Ptr(),
		}
	}
	return result
}
