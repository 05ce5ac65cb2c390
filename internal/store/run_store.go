package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/huangsam/pnps/internal/contract"
	"github.com/huangsam/pnps/schema"
)

// Table names for run tracking.
const (
	runsTable   = "pnps_runs"
	ratiosTable = "pnps_ratios"
)

var ratioColumns = []string{"run_id", "gene_callers_id", "sample_id", "saav", "sscv", "raw_ratio", "pn_ps"}

// RunStoreImpl implements the RunStore interface on a SQL database.
type RunStoreImpl struct {
	db      *sql.DB
	backend schema.DatabaseBackend
}

var _ contract.RunStore = &RunStoreImpl{} // Compile-time check

// NewRunStore opens the run store of backend and creates its tables.
func NewRunStore(backend schema.DatabaseBackend, connStr string) (*RunStoreImpl, error) {
	for _, table := range []string{runsTable, ratiosTable} {
		if err := validateTableName(table); err != nil {
			return nil, err
		}
	}

	db, err := openDB(backend, connStr, contract.GetRunsDBFilePath(), false)
	if err != nil {
		return nil, err
	}
	if err := createTables(context.Background(), db, backend, runsKind); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create run store tables: %w", err)
	}

	return &RunStoreImpl{db: db, backend: backend}, nil
}

// BeginRun creates a new run and returns its unique ID.
func (rs *RunStoreImpl) BeginRun(runUUID string, startTime time.Time, configParams map[string]any) (int64, error) {
	configJSON, err := json.Marshal(configParams)
	if err != nil {
		return 0, fmt.Errorf("failed to marshal config params: %w", err)
	}

	quotedTableName := quoteTableName(runsTable, rs.backend)

	var runID int64
	switch rs.backend {
	case schema.PostgreSQLBackend:
		query := fmt.Sprintf(`INSERT INTO %s (run_uuid, start_time, config_params) VALUES ($1, $2, $3) RETURNING run_id`, quotedTableName)
		err = rs.db.QueryRow(query, runUUID, startTime, string(configJSON)).Scan(&runID)
	default: // SQLite and MySQL
		query := fmt.Sprintf(`INSERT INTO %s (run_uuid, start_time, config_params) VALUES (?, ?, ?)`, quotedTableName)
		var result sql.Result
		result, err = rs.db.Exec(query, runUUID, formatTime(startTime, rs.backend), string(configJSON))
		if err != nil {
			return 0, fmt.Errorf("failed to insert run: %w", err)
		}
		runID, err = result.LastInsertId()
	}

	if err != nil {
		return 0, fmt.Errorf("failed to insert run: %w", err)
	}
	return runID, nil
}

// EndRun updates the run with completion data.
func (rs *RunStoreImpl) EndRun(runID int64, endTime time.Time, totalGenes, totalSamples, definedRatios int) error {
	quotedTableName := quoteTableName(runsTable, rs.backend)

	var start timeScanner
	query := fmt.Sprintf(`SELECT start_time FROM %s WHERE run_id = %s`, quotedTableName, placeholder(rs.backend, 1))
	if err := rs.db.QueryRow(query, runID).Scan(&start); err != nil {
		return fmt.Errorf("failed to get start_time for run %d: %w", runID, err)
	}
	durationMs := endTime.Sub(start.Time).Milliseconds()

	update := fmt.Sprintf(`UPDATE %s SET end_time = %s, run_duration_ms = %s, total_genes = %s, total_samples = %s, defined_ratios = %s WHERE run_id = %s`,
		quotedTableName,
		placeholder(rs.backend, 1), placeholder(rs.backend, 2), placeholder(rs.backend, 3),
		placeholder(rs.backend, 4), placeholder(rs.backend, 5), placeholder(rs.backend, 6))
	if _, err := rs.db.Exec(update, formatTime(endTime, rs.backend), durationMs, totalGenes, totalSamples, definedRatios, runID); err != nil {
		return fmt.Errorf("failed to update run: %w", err)
	}
	return nil
}

// RecordRatios stores the gene and sample rows of a run in one transaction.
func (rs *RunStoreImpl) RecordRatios(runID int64, records []schema.RatioRecord) error {
	tx, err := rs.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.Prepare(upsertQuery(ratiosTable, rs.backend, ratioColumns, ratioColumns[:3]))
	if err != nil {
		return fmt.Errorf("failed to prepare ratio insert: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for _, r := range records {
		if _, err := stmt.Exec(runID, int64(r.Gene), r.Sample, r.SAAV, r.SSCV, r.RawRatio, r.PNPS); err != nil {
			return fmt.Errorf("failed to insert ratio for gene %s in %s: %w", r.Gene, r.Sample, err)
		}
	}
	return tx.Commit()
}

// GetAllRuns returns every run in id order.
func (rs *RunStoreImpl) GetAllRuns() ([]schema.RunRecord, error) {
	query := fmt.Sprintf(`SELECT run_id, run_uuid, start_time, end_time, run_duration_ms, total_genes, total_samples, defined_ratios, config_params
		FROM %s ORDER BY run_id`, quoteTableName(runsTable, rs.backend))

	rows, err := rs.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var results []schema.RunRecord
	for rows.Next() {
		var record schema.RunRecord
		var start, end timeScanner
		if err := rows.Scan(&record.RunID, &record.RunUUID, &start, &end, &record.RunDurationMs,
			&record.TotalGenes, &record.TotalSamples, &record.DefinedRatios, &record.ConfigParams); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		record.StartTime = start.Time
		record.EndTime = end.Ptr()
		results = append(results, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating runs: %w", err)
	}
	return results, nil
}

// GetAllRatios returns every stored ratio row in run, gene, sample order.
func (rs *RunStoreImpl) GetAllRatios() ([]schema.RatioRecord, error) {
	query := fmt.Sprintf(`SELECT run_id, gene_callers_id, sample_id, saav, sscv, raw_ratio, pn_ps
		FROM %s ORDER BY run_id, gene_callers_id, sample_id`, quoteTableName(ratiosTable, rs.backend))

	rows, err := rs.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query ratios: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var results []schema.RatioRecord
	for rows.Next() {
		var record schema.RatioRecord
		var gene int64
		if err := rows.Scan(&record.RunID, &gene, &record.Sample, &record.SAAV, &record.SSCV, &record.RawRatio, &record.PNPS); err != nil {
			return nil, fmt.Errorf("failed to scan ratio: %w", err)
		}
		record.Gene = schema.GeneID(gene)
		results = append(results, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating ratios: %w", err)
	}
	return results, nil
}

// GetStatus returns status information about the run store.
func (rs *RunStoreImpl) GetStatus() (schema.RunStoreStatus, error) {
	status := schema.RunStoreStatus{
		Backend:    string(rs.backend),
		Connected:  rs.db != nil,
		TableSizes: make(map[string]int64),
	}
	if rs.db == nil {
		return status, nil
	}

	runs := quoteTableName(runsTable, rs.backend)
	if err := rs.db.QueryRow(fmt.Sprintf("SELECT COUNT(*) FROM %s", runs)).Scan(&status.TotalRuns); err != nil {
		return status, fmt.Errorf("failed to get total runs: %w", err)
	}

	if status.TotalRuns > 0 {
		var last, oldest timeScanner
		row := rs.db.QueryRow(fmt.Sprintf("SELECT run_id, run_uuid, start_time FROM %s ORDER BY run_id DESC LIMIT 1", runs))
		if err := row.Scan(&status.LastRunID, &status.LastRunUUID, &last); err != nil {
			return status, fmt.Errorf("failed to get last run info: %w", err)
		}
		status.LastRunTime = last.Time

		row = rs.db.QueryRow(fmt.Sprintf("SELECT start_time FROM %s ORDER BY run_id ASC LIMIT 1", runs))
		if err := row.Scan(&oldest); err != nil {
			return status, fmt.Errorf("failed to get oldest run time: %w", err)
		}
		status.OldestRunTime = oldest.Time
	}

	for _, table := range []string{runsTable, ratiosTable} {
		var count int64
		query := fmt.Sprintf("SELECT COUNT(*) FROM %s", quoteTableName(table, rs.backend))
		if err := rs.db.QueryRow(query).Scan(&count); err != nil {
			return status, fmt.Errorf("failed to get count for table %s: %w", table, err)
		}
		status.TableSizes[table] = count
	}
	return status, nil
}

// Close closes the underlying connection.
func (rs *RunStoreImpl) Close() error {
	if rs.db != nil {
		return rs.db.Close()
	}
	return nil
}
