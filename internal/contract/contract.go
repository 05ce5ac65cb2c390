// Package contract provides interfaces and shared utilities for internal architecture.
package contract

import (
	"context"
	"time"

	"github.com/huangsam/pnps/schema"
)

// Reporter receives progress and diagnostics from long running operations.
// Implementations are passed explicitly to every operation that reports.
type Reporter interface {
	// Info records a key/value fact about the run.
	Info(key string, value any)

	// Warn records a problem that does not stop the run.
	Warn(msg string)

	// Update replaces the current progress line.
	Update(msg string)

	// End clears the progress line.
	End()
}

// StoreManager defines the interface for managing the gene and run stores.
// This allows the persistence layer to be mocked for testing.
type StoreManager interface {
	GetGeneStore() GeneStore
	GetRunStore() RunStore
}

// GeneStore defines the interface for the contig and gene call database.
type GeneStore interface {
	// GetGeneCalls returns the calls for the requested ids. Unknown ids are absent from the map.
	GetGeneCalls(ctx context.Context, ids []schema.GeneID) (map[schema.GeneID]schema.GeneCall, error)

	// ListGeneIDs returns every gene id in ascending order.
	ListGeneIDs(ctx context.Context) ([]schema.GeneID, error)

	// GetContigSequences returns the sequences of the requested contigs.
	GetContigSequences(ctx context.Context, names []string) (map[string]string, error)

	// ImportContigs upserts contig sequences.
	ImportContigs(ctx context.Context, contigs []schema.Contig) error

	// ImportGeneCalls upserts gene calls.
	ImportGeneCalls(ctx context.Context, calls []schema.GeneCall) error

	// GetStatus returns status information about the gene store
	GetStatus() (schema.GeneStoreStatus, error)

	// Close closes the underlying connection
	Close() error
}

// RunStore defines the interface for tracking ratio runs and their results.
type RunStore interface {
	// BeginRun creates a new run and returns its unique ID
	BeginRun(runUUID string, startTime time.Time, configParams map[string]any) (int64, error)

	// EndRun updates the run with completion data
	EndRun(runID int64, endTime time.Time, totalGenes, totalSamples, definedRatios int) error

	// RecordRatios stores the gene and sample rows of a run
	RecordRatios(runID int64, records []schema.RatioRecord) error

	// GetAllRuns returns every run in id order
	GetAllRuns() ([]schema.RunRecord, error)

	// GetAllRatios returns every stored ratio row in run, gene, sample order
	GetAllRatios() ([]schema.RatioRecord, error)

	// GetStatus returns status information about the run store
	GetStatus() (schema.RunStoreStatus, error)

	// Close closes the underlying connection
	Close() error
}
