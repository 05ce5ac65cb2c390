package store

import (
	"context"
	"time"

	"github.com/huangsam/pnps/internal/contract"
	"github.com/huangsam/pnps/schema"
	"github.com/stretchr/testify/mock"
)

// MockStoreManager is a mock implementation of StoreManager for testing.
type MockStoreManager struct {
	mock.Mock
}

var _ contract.StoreManager = &MockStoreManager{} // Compile-time check

// GetGeneStore implements the StoreManager interface.
func (m *MockStoreManager) GetGeneStore() contract.GeneStore {
	ret := m.Called()
	store, _ := ret.Get(0).(contract.GeneStore)
	return store
}

// GetRunStore implements the StoreManager interface.
func (m *MockStoreManager) GetRunStore() contract.RunStore {
	ret := m.Called()
	store, _ := ret.Get(0).(contract.RunStore)
	return store
}

// MockGeneStore is a mock implementation of GeneStore for testing.
type MockGeneStore struct {
	mock.Mock
}

var _ contract.GeneStore = &MockGeneStore{} // Compile-time check

// GetGeneCalls implements the GeneStore interface.
func (m *MockGeneStore) GetGeneCalls(ctx context.Context, ids []schema.GeneID) (map[schema.GeneID]schema.GeneCall, error) {
	args := m.Called(ctx, ids)
	calls, _ := args.Get(0).(map[schema.GeneID]schema.GeneCall)
	return calls, args.Error(1)
}

// ListGeneIDs implements the GeneStore interface.
func (m *MockGeneStore) ListGeneIDs(ctx context.Context) ([]schema.GeneID, error) {
	args := m.Called(ctx)
	ids, _ := args.Get(0).([]schema.GeneID)
	return ids, args.Error(1)
}

// GetContigSequences implements the GeneStore interface.
func (m *MockGeneStore) GetContigSequences(ctx context.Context, names []string) (map[string]string, error) {
	args := m.Called(ctx, names)
	seqs, _ := args.Get(0).(map[string]string)
	return seqs, args.Error(1)
}

// ImportContigs implements the GeneStore interface.
func (m *MockGeneStore) ImportContigs(ctx context.Context, contigs []schema.Contig) error {
	args := m.Called(ctx, contigs)
	return args.Error(0)
}

// ImportGeneCalls implements the GeneStore interface.
func (m *MockGeneStore) ImportGeneCalls(ctx context.Context, calls []schema.GeneCall) error {
	args := m.Called(ctx, calls)
	return args.Error(0)
}

// GetStatus implements the GeneStore interface.
func (m *MockGeneStore) GetStatus() (schema.GeneStoreStatus, error) {
	args := m.Called()
	return args.Get(0).(schema.GeneStoreStatus), args.Error(1)
}

// Close implements the GeneStore interface.
func (m *MockGeneStore) Close() error {
	args := m.Called()
	return args.Error(0)
}

// MockRunStore is a mock implementation of RunStore for testing.
type MockRunStore struct {
	mock.Mock
}

var _ contract.RunStore = &MockRunStore{} // Compile-time check

// BeginRun implements the RunStore interface.
func (m *MockRunStore) BeginRun(runUUID string, startTime time.Time, configParams map[string]any) (int64, error) {
	args := m.Called(runUUID, startTime, configParams)
	return args.Get(0).(int64), args.Error(1)
}

// EndRun implements the RunStore interface.
func (m *MockRunStore) EndRun(runID int64, endTime time.Time, totalGenes, totalSamples, definedRatios int) error {
	args := m.Called(runID, endTime, totalGenes, totalSamples, definedRatios)
	return args.Error(0)
}

// RecordRatios implements the RunStore interface.
func (m *MockRunStore) RecordRatios(runID int64, records []schema.RatioRecord) error {
	args := m.Called(runID, records)
	return args.Error(0)
}

// GetAllRuns implements the RunStore interface.
func (m *MockRunStore) GetAllRuns() ([]schema.RunRecord, error) {
	args := m.Called()
	runs, _ := args.Get(0).([]schema.RunRecord)
	return runs, args.Error(1)
}

// GetAllRatios implements the RunStore interface.
func (m *MockRunStore) GetAllRatios() ([]schema.RatioRecord, error) {
	args := m.Called()
	ratios, _ := args.Get(0).([]schema.RatioRecord)
	return ratios, args.Error(1)
}

// GetStatus implements the RunStore interface.
func (m *MockRunStore) GetStatus() (schema.RunStoreStatus, error) {
	args := m.Called()
	return args.Get(0).(schema.RunStoreStatus), args.Error(1)
}

// Close implements the RunStore interface.
func (m *MockRunStore) Close() error {
	args := m.Called()
	return args.Error(0)
}
