package schema

import "time"

// RunRecord represents a row from the pnps_runs table.
type RunRecord struct {
	RunID         int64
	RunUUID       string
	StartTime     time.Time
	EndTime       *time.Time
	RunDurationMs *int32
	TotalGenes    int32
	TotalSamples  int32
	DefinedRatios int32
	ConfigParams  *string
}

// RatioRecord represents a row from the pnps_ratios table.
type RatioRecord struct {
	RunID    int64
	Gene     GeneID
	Sample   string
	SAAV     int32
	SSCV     int32
	RawRatio *float64
	PNPS     *float64
}

// RatioRecordsFromRows converts long rows into storable records for a run.
func RatioRecordsFromRows(runID int64, rows []LongRatioRow) []RatioRecord {
	out := make([]RatioRecord, len(rows))
	for i, row := range rows {
		out[i] = RatioRecord{
			RunID:    runID,
			Gene:     row.Gene,
			Sample:   row.Sample,
			SAAV:     int32(row.SAAV),
			SSCV:     int32(row.SSCV),
			RawRatio: row.RawRatio.Ptr(),
			PNPS:     row.PNPS.Ptr(),
		}
	}
	return out
}
