package core

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/huangsam/pnps/internal/contract"
	"github.com/huangsam/pnps/schema"
)

// runTracker records one ratio run in the run store. The zero value is a no-op.
type runTracker struct {
	store contract.RunStore
	runID int64
}

// beginRunTracking starts a run when a run store is configured.
// Tracking failures only produce warnings.
func beginRunTracking(cfg *contract.Config, mgr contract.StoreManager) *runTracker {
	if mgr == nil {
		return &runTracker{}
	}
	runs := mgr.GetRunStore()
	if runs == nil {
		return &runTracker{}
	}

	configParams := map[string]any{
		"aa_table":                     cfg.AATable,
		"cdn_table":                    cfg.CDNTable,
		"output_dir":                   cfg.OutputDir,
		"min_coverage":                 cfg.MinCoverage,
		"min_departure_from_consensus": cfg.MinDeparture,
		"minimum_num_variants":         cfg.MinNumVariants,
		"genes_backend":                string(cfg.GenesBackend),
	}
	runID, err := runs.BeginRun(uuid.NewString(), time.Now(), configParams)
	if err != nil {
		contract.LogWarn("Run tracking initialization failed", err)
		return &runTracker{}
	}
	return &runTracker{store: runs, runID: runID}
}

// finish stores the gene and sample rows of result and closes the run.
func (t *runTracker) finish(result *schema.RatioResult) {
	if t.store == nil || t.runID <= 0 {
		return
	}

	records := schema.RatioRecordsFromRows(t.runID, result.LongRows())
	if err := t.store.RecordRatios(t.runID, records); err != nil {
		logTrackingError("RecordRatios", t.runID, err)
	}

	err := t.store.EndRun(t.runID, time.Now(), len(result.Counts.Genes), len(result.Counts.Samples), ratioCells(result))
	if err != nil {
		logTrackingError("EndRun", t.runID, err)
	}
}

// logTrackingError logs run tracking errors without failing the computation.
func logTrackingError(operation string, runID int64, err error) {
	contract.LogWarn(fmt.Sprintf("Run tracking failed for %s on run %d", operation, runID), err)
}
