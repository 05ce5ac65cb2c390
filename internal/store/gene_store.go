package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/huangsam/pnps/internal/contract"
	"github.com/huangsam/pnps/schema"
	"github.com/samber/lo"
)

// Table names for the gene store.
const (
	contigsTable   = "pnps_contigs"
	geneCallsTable = "pnps_gene_calls"
)

var (
	contigColumns   = []string{"contig_name", "sequence", "length", "imported_at"}
	geneCallColumns = []string{
		"gene_callers_id", "contig_name", "start_pos", "stop_pos", "direction",
		"partial", "call_type", "source", "version", "imported_at",
	}
)

// GeneStoreImpl implements the GeneStore interface on a SQL database.
type GeneStoreImpl struct {
	db      *sql.DB
	backend schema.DatabaseBackend
}

var _ contract.GeneStore = &GeneStoreImpl{} // Compile-time check

// NewGeneStore opens the gene store of backend and creates its tables.
func NewGeneStore(backend schema.DatabaseBackend, connStr string) (*GeneStoreImpl, error) {
	for _, table := range []string{contigsTable, geneCallsTable} {
		if err := validateTableName(table); err != nil {
			return nil, err
		}
	}

	db, err := openDB(backend, connStr, contract.GetGenesDBFilePath(), false)
	if err != nil {
		return nil, err
	}
	if err := createTables(context.Background(), db, backend, genesKind); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create gene store tables: %w", err)
	}

	return &GeneStoreImpl{db: db, backend: backend}, nil
}

// ImportContigs upserts contig sequences in one transaction.
func (gs *GeneStoreImpl) ImportContigs(ctx context.Context, contigs []schema.Contig) error {
	now := formatTime(time.Now(), gs.backend)
	query := upsertQuery(contigsTable, gs.backend, contigColumns, contigColumns[:1])
	return gs.inTx(ctx, query, len(contigs), func(stmt *sql.Stmt, i int) error {
		c := contigs[i]
		_, err := stmt.ExecContext(ctx, c.Name, strings.ToUpper(c.Sequence), len(c.Sequence), now)
		return err
	})
}

// ImportGeneCalls upserts gene calls in one transaction.
func (gs *GeneStoreImpl) ImportGeneCalls(ctx context.Context, calls []schema.GeneCall) error {
	now := formatTime(time.Now(), gs.backend)
	query := upsertQuery(geneCallsTable, gs.backend, geneCallColumns, geneCallColumns[:1])
	return gs.inTx(ctx, query, len(calls), func(stmt *sql.Stmt, i int) error {
		c := calls[i]
		_, err := stmt.ExecContext(ctx, int64(c.ID), c.Contig, c.Start, c.Stop, c.Direction,
			c.Partial, c.CallType, c.Source, c.Version, now)
		return err
	})
}

// inTx prepares query once and runs exec for every index in [0, n).
func (gs *GeneStoreImpl) inTx(ctx context.Context, query string, n int, exec func(*sql.Stmt, int) error) error {
	tx, err := gs.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, query)
	if err != nil {
		return fmt.Errorf("failed to prepare import: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for i := range n {
		if err := exec(stmt, i); err != nil {
			return fmt.Errorf("failed to import row %d: %w", i+1, err)
		}
	}
	return tx.Commit()
}

// GetGeneCalls returns the calls for the requested ids. Unknown ids are absent from the map.
func (gs *GeneStoreImpl) GetGeneCalls(ctx context.Context, ids []schema.GeneID) (map[schema.GeneID]schema.GeneCall, error) {
	out := make(map[schema.GeneID]schema.GeneCall, len(ids))
	for _, chunk := range lo.Chunk(lo.Uniq(ids), maxInParams) {
		args := lo.Map(chunk, func(id schema.GeneID, _ int) any { return int64(id) })
		query := fmt.Sprintf(`SELECT gene_callers_id, contig_name, start_pos, stop_pos, direction, partial, call_type, source, version
			FROM %s WHERE gene_callers_id IN (%s)`,
			quoteTableName(geneCallsTable, gs.backend), placeholders(gs.backend, 1, len(chunk)))

		rows, err := gs.db.QueryContext(ctx, query, args...)
		if err != nil {
			return nil, fmt.Errorf("failed to query gene calls: %w", err)
		}
		for rows.Next() {
			var c schema.GeneCall
			var id int64
			if err := rows.Scan(&id, &c.Contig, &c.Start, &c.Stop, &c.Direction, &c.Partial, &c.CallType, &c.Source, &c.Version); err != nil {
				_ = rows.Close()
				return nil, fmt.Errorf("failed to scan gene call: %w", err)
			}
			c.ID = schema.GeneID(id)
			out[c.ID] = c
		}
		if err := rows.Err(); err != nil {
			_ = rows.Close()
			return nil, fmt.Errorf("error iterating gene calls: %w", err)
		}
		_ = rows.Close()
	}
	return out, nil
}

// ListGeneIDs returns every gene id in ascending order.
func (gs *GeneStoreImpl) ListGeneIDs(ctx context.Context) ([]schema.GeneID, error) {
	query := fmt.Sprintf("SELECT gene_callers_id FROM %s ORDER BY gene_callers_id", quoteTableName(geneCallsTable, gs.backend))
	rows, err := gs.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list genes: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var ids []schema.GeneID
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan gene id: %w", err)
		}
		ids = append(ids, schema.GeneID(id))
	}
	return ids, rows.Err()
}

// GetContigSequences returns the sequences of the requested contigs.
func (gs *GeneStoreImpl) GetContigSequences(ctx context.Context, names []string) (map[string]string, error) {
	out := make(map[string]string, len(names))
	for _, chunk := range lo.Chunk(lo.Uniq(names), maxInParams) {
		query := fmt.Sprintf("SELECT contig_name, sequence FROM %s WHERE contig_name IN (%s)",
			quoteTableName(contigsTable, gs.backend), placeholders(gs.backend, 1, len(chunk)))

		rows, err := gs.db.QueryContext(ctx, query, lo.ToAnySlice(chunk)...)
		if err != nil {
			return nil, fmt.Errorf("failed to query contigs: %w", err)
		}
		for rows.Next() {
			var name, seq string
			if err := rows.Scan(&name, &seq); err != nil {
				_ = rows.Close()
				return nil, fmt.Errorf("failed to scan contig: %w", err)
			}
			out[name] = seq
		}
		if err := rows.Err(); err != nil {
			_ = rows.Close()
			return nil, fmt.Errorf("error iterating contigs: %w", err)
		}
		_ = rows.Close()
	}
	return out, nil
}

// GetStatus returns status information about the gene store.
func (gs *GeneStoreImpl) GetStatus() (schema.GeneStoreStatus, error) {
	status := schema.GeneStoreStatus{
		Backend:   string(gs.backend),
		Connected: gs.db != nil,
	}
	if gs.db == nil {
		return status, nil
	}

	contigs := quoteTableName(contigsTable, gs.backend)
	calls := quoteTableName(geneCallsTable, gs.backend)

	row := gs.db.QueryRow(fmt.Sprintf("SELECT COUNT(*), COALESCE(SUM(length), 0) FROM %s", contigs))
	if err := row.Scan(&status.TotalContigs, &status.TotalBases); err != nil {
		return status, fmt.Errorf("failed to count contigs: %w", err)
	}

	row = gs.db.QueryRow(fmt.Sprintf("SELECT COUNT(*) FROM %s", calls))
	if err := row.Scan(&status.TotalGenes); err != nil {
		return status, fmt.Errorf("failed to count gene calls: %w", err)
	}

	row = gs.db.QueryRow(fmt.Sprintf("SELECT COUNT(*) FROM %s WHERE partial = %s", calls, placeholder(gs.backend, 1)), true)
	if err := row.Scan(&status.PartialGenes); err != nil {
		return status, fmt.Errorf("failed to count partial gene calls: %w", err)
	}

	if status.TotalGenes > 0 {
		var last timeScanner
		row = gs.db.QueryRow(fmt.Sprintf("SELECT MAX(imported_at) FROM %s", calls))
		if err := row.Scan(&last); err != nil {
			return status, fmt.Errorf("failed to get last import time: %w", err)
		}
		status.LastImportTime = last.Time
	}
	return status, nil
}

// Close closes the underlying connection.
func (gs *GeneStoreImpl) Close() error {
	if gs.db != nil {
		return gs.db.Close()
	}
	return nil
}
