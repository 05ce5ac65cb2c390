// Package store persists contig sequences, gene calls and ratio runs.
package store

import (
	"database/sql"
	"fmt"
	"os"
	"sync"

	"github.com/huangsam/pnps/internal/contract"
	"github.com/huangsam/pnps/schema"
)

// StoreManager owns the gene store and the optional run store.
type StoreManager struct {
	sync.RWMutex // Protects the store pointers during initialization
	genes        *GeneStoreImpl
	runs         *RunStoreImpl
}

var _ contract.StoreManager = &StoreManager{} // Compile-time check

// Global Manager instance for main logic.
var (
	Manager   = &StoreManager{}
	initOnce  sync.Once
	closeOnce sync.Once
)

// GetGeneStore returns the gene store or nil when it is disabled.
func (mgr *StoreManager) GetGeneStore() contract.GeneStore {
	mgr.RLock()
	defer mgr.RUnlock()
	if mgr.genes == nil {
		return nil
	}
	return mgr.genes
}

// GetRunStore returns the run store or nil when run tracking is disabled.
func (mgr *StoreManager) GetRunStore() contract.RunStore {
	mgr.RLock()
	defer mgr.RUnlock()
	if mgr.runs == nil {
		return nil
	}
	return mgr.runs
}

// Open initializes the stores of mgr. An empty or none backend leaves the
// corresponding store disabled.
func (mgr *StoreManager) Open(genesBackend schema.DatabaseBackend, genesConnStr string, runsBackend schema.DatabaseBackend, runsConnStr string) error {
	var genes *GeneStoreImpl
	if enabled(genesBackend) {
		var err error
		if genes, err = NewGeneStore(genesBackend, genesConnStr); err != nil {
			return fmt.Errorf("failed to initialize gene store: %w", err)
		}
	}

	var runs *RunStoreImpl
	if enabled(runsBackend) {
		var err error
		if runs, err = NewRunStore(runsBackend, runsConnStr); err != nil {
			if genes != nil {
				_ = genes.Close()
			}
			return fmt.Errorf("failed to initialize run store: %w", err)
		}
	}

	mgr.Lock()
	defer mgr.Unlock()
	mgr.genes = genes
	mgr.runs = runs
	return nil
}

// Close closes every open store.
func (mgr *StoreManager) Close() {
	mgr.Lock()
	defer mgr.Unlock()
	if mgr.genes != nil {
		_ = mgr.genes.Close()
		mgr.genes = nil
	}
	if mgr.runs != nil {
		_ = mgr.runs.Close()
		mgr.runs = nil
	}
}

func enabled(backend schema.DatabaseBackend) bool {
	return backend != "" && backend != schema.NoneBackend
}

// InitStores initializes the global manager exactly once.
func InitStores(genesBackend schema.DatabaseBackend, genesConnStr string, runsBackend schema.DatabaseBackend, runsConnStr string) error {
	var initErr error
	initOnce.Do(func() {
		initErr = Manager.Open(genesBackend, genesConnStr, runsBackend, runsConnStr)
	})
	return initErr
}

// CloseStores should be called on application shutdown.
func CloseStores() { // called in main defer
	closeOnce.Do(Manager.Close)
}

// ClearGenes removes all gene store data for the specified backend.
// For SQLite, it deletes the database file.
// For SQL backends (MySQL/PostgreSQL), it drops the tables.
// For NoneBackend, it does nothing.
func ClearGenes(backend schema.DatabaseBackend, dbFilePath, connStr string) error {
	return clearStore(backend, dbFilePath, connStr, geneCallsTable, contigsTable, migrationsTable(genesKind))
}

// ClearRuns removes all run history for the specified backend.
func ClearRuns(backend schema.DatabaseBackend, dbFilePath, connStr string) error {
	return clearStore(backend, dbFilePath, connStr, ratiosTable, runsTable, migrationsTable(runsKind))
}

func clearStore(backend schema.DatabaseBackend, dbFilePath, connStr string, tables ...string) error {
	switch backend {
	case schema.SQLiteBackend:
		if dbFilePath == "" {
			return fmt.Errorf("dbFilePath cannot be empty for SQLite backend")
		}
		// Remove the file; ignore if it doesn't exist
		if err := os.Remove(dbFilePath); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("failed to remove SQLite database file %s: %w", dbFilePath, err)
		}
		return nil

	case schema.MySQLBackend, schema.PostgreSQLBackend:
		return dropSQLTables(backend, connStr, tables)

	case schema.NoneBackend:
		return nil

	default:
		return fmt.Errorf("unsupported backend for clearing: %s", backend)
	}
}

// dropSQLTables connects to the SQL database and drops the tables if they exist.
func dropSQLTables(backend schema.DatabaseBackend, connStr string, tables []string) error {
	dsn := connStr
	if backend == schema.MySQLBackend {
		var err error
		if dsn, err = mysqlDSN(connStr, false); err != nil {
			return err
		}
	}

	db, err := sql.Open(driverName(backend), dsn)
	if err != nil {
		return fmt.Errorf("failed to connect to %s database: %w", backend, err)
	}
	defer func() { _ = db.Close() }()

	if err := db.Ping(); err != nil {
		return fmt.Errorf("failed to ping %s database: %w", backend, err)
	}

	for _, table := range tables {
		if err := validateTableName(table); err != nil {
			return err
		}
		query := fmt.Sprintf("DROP TABLE IF EXISTS %s", quoteTableName(table, backend))
		if _, err := db.Exec(query); err != nil {
			return fmt.Errorf("failed to drop table %s: %w", table, err)
		}
	}
	return nil
}
