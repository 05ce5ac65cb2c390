package store

import (
	"errors"
	"fmt"
	"io/fs"
	"path"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database"
	"github.com/golang-migrate/migrate/v4/database/mysql"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/huangsam/pnps/internal/contract"
	"github.com/huangsam/pnps/schema"
)

// migrationsTable returns the version table of a store kind. Each store
// tracks its own version so both can share one MySQL or PostgreSQL database.
func migrationsTable(kind string) string {
	return "pnps_" + kind + "_migrations"
}

// MigrateGenes runs database migrations for the gene store.
func MigrateGenes(backend schema.DatabaseBackend, connStr string, targetVersion int) error {
	return runMigrations(genesKind, backend, connStr, contract.GetGenesDBFilePath(), targetVersion)
}

// MigrateRuns runs database migrations for the run store.
func MigrateRuns(backend schema.DatabaseBackend, connStr string, targetVersion int) error {
	return runMigrations(runsKind, backend, connStr, contract.GetRunsDBFilePath(), targetVersion)
}

// runMigrations migrates one store.
// - If targetVersion < 0, it migrates to the latest version.
// - If targetVersion == 0, it rolls back all migrations (to initial state).
// - If targetVersion > 0, it migrates to the specified version.
func runMigrations(kind string, backend schema.DatabaseBackend, connStr, defaultPath string, targetVersion int) error {
	if !enabled(backend) {
		return fmt.Errorf("migrations are not supported for the %q backend", backend)
	}

	db, err := openDB(backend, connStr, defaultPath, true)
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	// Create a migrate driver instance
	var driver database.Driver
	table := migrationsTable(kind)
	switch backend {
	case schema.SQLiteBackend:
		driver, err = sqlite.WithInstance(db, &sqlite.Config{MigrationsTable: table})
	case schema.MySQLBackend:
		driver, err = mysql.WithInstance(db, &mysql.Config{MigrationsTable: table})
	case schema.PostgreSQLBackend:
		driver, err = postgres.WithInstance(db, &postgres.Config{MigrationsTable: table})
	}
	if err != nil {
		return fmt.Errorf("failed to create %s migrate driver: %w", backend, err)
	}

	// Get the migrations subdirectory of this store and backend
	migrationFS, err := fs.Sub(migrationsFS, path.Join("migrations", kind, string(backend)))
	if err != nil {
		return fmt.Errorf("failed to access migrations directory: %w", err)
	}

	sourceDriver, err := iofs.New(migrationFS, ".")
	if err != nil {
		return fmt.Errorf("failed to create migration source: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", sourceDriver, "pnps", driver)
	if err != nil {
		return fmt.Errorf("failed to create migrate instance: %w", err)
	}

	currentVersion, dirty, err := m.Version()
	if err != nil && !errors.Is(err, migrate.ErrNilVersion) {
		return fmt.Errorf("failed to get current migration version: %w", err)
	}
	if dirty {
		return fmt.Errorf("%s store is in a dirty state at version %d. Please fix manually or force version", kind, currentVersion)
	}

	switch {
	case targetVersion < 0:
		err = m.Up()
		if err != nil && !errors.Is(err, migrate.ErrNoChange) {
			return fmt.Errorf("failed to migrate to latest version: %w", err)
		}
		if errors.Is(err, migrate.ErrNoChange) {
			fmt.Printf("No migration needed. The %s store is already at the latest version.\n", kind)
		} else {
			newVersion, _, _ := m.Version()
			fmt.Printf("Successfully migrated the %s store from version %d to version %d\n", kind, currentVersion, newVersion)
		}

	case targetVersion == 0:
		err = m.Down()
		if err != nil && !errors.Is(err, migrate.ErrNoChange) {
			return fmt.Errorf("failed to roll back to version 0: %w", err)
		}
		if errors.Is(err, migrate.ErrNoChange) {
			fmt.Printf("No migration needed. The %s store is already at version 0\n", kind)
		} else {
			fmt.Printf("Successfully rolled back the %s store from version %d to version 0\n", kind, currentVersion)
		}

	default:
		err = m.Migrate(uint(targetVersion))
		if err != nil && !errors.Is(err, migrate.ErrNoChange) {
			return fmt.Errorf("failed to migrate to version %d: %w", targetVersion, err)
		}
		if errors.Is(err, migrate.ErrNoChange) {
			fmt.Printf("No migration needed. The %s store is already at version %d\n", kind, targetVersion)
		} else {
			fmt.Printf("Successfully migrated the %s store from version %d to version %d\n", kind, currentVersion, targetVersion)
		}
	}
	return nil
}
