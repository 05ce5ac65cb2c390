package schema

import "time"

// GeneStoreStatus represents the status of the gene store.
type GeneStoreStatus struct {
	Backend        string    `json:"backend"`
	Connected      bool      `json:"connected"`
	TotalContigs   int       `json:"total_contigs"`
	TotalGenes     int       `json:"total_genes"`
	PartialGenes   int       `json:"partial_genes"`
	TotalBases     int64     `json:"total_bases"`
	LastImportTime time.Time `json:"last_import_time"`
}

// RunStoreStatus represents the status of the run history store.
type RunStoreStatus struct {
	Backend       string           `json:"backend"`
	Connected     bool             `json:"connected"`
	TotalRuns     int              `json:"total_runs"`
	LastRunID     int64            `json:"last_run_id"`
	LastRunUUID   string           `json:"last_run_uuid"`
	LastRunTime   time.Time        `json:"last_run_time"`
	OldestRunTime time.Time        `json:"oldest_run_time"`
	TableSizes    map[string]int64 `json:"table_sizes"`
}
