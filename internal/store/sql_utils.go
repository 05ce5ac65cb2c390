package store

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"path"
	"regexp"
	"slices"
	"strings"
	"time"

	"github.com/go-sql-driver/mysql" // MySQL driver
	"github.com/huangsam/pnps/schema"
	_ "github.com/jackc/pgx/v5/stdlib" // PostgreSQL driver
	_ "modernc.org/sqlite"             // SQLite driver
)

//go:embed migrations/*/*/*.sql
var migrationsFS embed.FS

// Store kinds. Each kind has its own migration directory and migrations table.
const (
	genesKind = "genes"
	runsKind  = "runs"
)

// maxInParams bounds the number of placeholders of one IN clause.
const maxInParams = 500

var tableNamePattern = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*$`)

// validateTableName validates that the table name is a safe SQL identifier.
// It ensures the name consists only of alphanumeric characters and underscores,
// starting with a letter or underscore, to prevent SQL injection.
func validateTableName(name string) error {
	if name == "" {
		return fmt.Errorf("table name cannot be empty")
	}
	if !tableNamePattern.MatchString(name) {
		return fmt.Errorf("invalid table name: %s (must match pattern ^[a-zA-Z_][a-zA-Z0-9_]*$)", name)
	}
	return nil
}

// quoteTableName returns the properly quoted table name for the given backend.
func quoteTableName(name string, backend schema.DatabaseBackend) string {
	switch backend {
	case schema.MySQLBackend:
		return fmt.Sprintf("`%s`", name)
	default: // SQLite and PostgreSQL
		return fmt.Sprintf("\"%s\"", name)
	}
}

// driverName returns the database/sql driver registered for backend.
func driverName(backend schema.DatabaseBackend) string {
	switch backend {
	case schema.MySQLBackend:
		return "mysql"
	case schema.PostgreSQLBackend:
		return "pgx"
	default:
		return "sqlite"
	}
}

// openDB opens and pings a connection for backend. An empty SQLite
// connection string falls back to defaultPath. multiStatements lets one MySQL
// Exec run a whole migration file.
func openDB(backend schema.DatabaseBackend, connStr, defaultPath string, multiStatements bool) (*sql.DB, error) {
	var db *sql.DB
	var err error

	switch backend {
	case schema.SQLiteBackend:
		dbPath := connStr
		if dbPath == "" {
			dbPath = defaultPath
		}
		db, err = sql.Open(driverName(backend), dbPath)
		if err != nil {
			return nil, fmt.Errorf("failed to open SQLite database at %q: %w. Check that the directory is writable", dbPath, err)
		}
		// Limit SQLite to a single open connection to avoid "database is locked" errors
		db.SetMaxOpenConns(1)

	case schema.MySQLBackend:
		dsn, err := mysqlDSN(connStr, multiStatements)
		if err != nil {
			return nil, err
		}
		db, err = sql.Open(driverName(backend), dsn)
		if err != nil {
			return nil, fmt.Errorf("failed to open MySQL database: %w. Check connection string format: user:password@tcp(host:port)/dbname", err)
		}

	case schema.PostgreSQLBackend:
		db, err = sql.Open(driverName(backend), connStr)
		if err != nil {
			return nil, fmt.Errorf("failed to open PostgreSQL database: %w. Check connection string format: host=localhost port=5432 user=postgres dbname=mydb", err)
		}

	default:
		return nil, fmt.Errorf("unsupported backend: %s. Must be sqlite, mysql, postgresql, or none", backend)
	}

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to connect to %s database. Check that the server is running and connection parameters are valid: %w", backend, err)
	}
	return db, nil
}

// mysqlDSN enables time parsing so DATETIME columns scan into time.Time.
func mysqlDSN(connStr string, multiStatements bool) (string, error) {
	cfg, err := mysql.ParseDSN(connStr)
	if err != nil {
		return "", fmt.Errorf("invalid MySQL connection string: %w", err)
	}
	cfg.ParseTime = true
	cfg.MultiStatements = multiStatements
	return cfg.FormatDSN(), nil
}

// createTables applies the initial migration of kind. Every statement is
// idempotent, so this is safe on databases managed by the migrate command.
func createTables(ctx context.Context, db *sql.DB, backend schema.DatabaseBackend, kind string) error {
	file := path.Join("migrations", kind, string(backend), "000001_init.up.sql")
	ddl, err := migrationsFS.ReadFile(file)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", file, err)
	}
	for _, stmt := range splitStatements(string(ddl)) {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to apply %s: %w", file, err)
		}
	}
	return nil
}

// splitStatements splits a migration file on semicolons. The MySQL driver
// runs one statement per Exec.
func splitStatements(ddl string) []string {
	var out []string
	for stmt := range strings.SplitSeq(ddl, ";") {
		if s := strings.TrimSpace(stmt); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// placeholder returns the n-th (one-based) parameter placeholder for the backend.
func placeholder(backend schema.DatabaseBackend, n int) string {
	if backend == schema.PostgreSQLBackend {
		return fmt.Sprintf("$%d", n)
	}
	return "?"
}

// placeholders returns count comma separated placeholders starting at start.
func placeholders(backend schema.DatabaseBackend, start, count int) string {
	parts := make([]string, count)
	for i := range parts {
		parts[i] = placeholder(backend, start+i)
	}
	return strings.Join(parts, ", ")
}

// upsertQuery builds an insert that replaces the row sharing key columns.
func upsertQuery(table string, backend schema.DatabaseBackend, columns, keys []string) string {
	quoted := quoteTableName(table, backend)
	cols := strings.Join(columns, ", ")
	values := placeholders(backend, 1, len(columns))

	var updates []string
	for _, c := range columns {
		if slices.Contains(keys, c) {
			continue
		}
		switch backend {
		case schema.MySQLBackend:
			updates = append(updates, fmt.Sprintf("%s = new.%s", c, c))
		case schema.PostgreSQLBackend:
			updates = append(updates, fmt.Sprintf("%s = EXCLUDED.%s", c, c))
		}
	}

	switch backend {
	case schema.MySQLBackend:
		return fmt.Sprintf(`INSERT INTO %s (%s) VALUES (%s) AS new ON DUPLICATE KEY UPDATE %s`,
			quoted, cols, values, strings.Join(updates, ", "))
	case schema.PostgreSQLBackend:
		return fmt.Sprintf(`INSERT INTO %s (%s) VALUES (%s) ON CONFLICT (%s) DO UPDATE SET %s`,
			quoted, cols, values, strings.Join(keys, ", "), strings.Join(updates, ", "))
	default: // SQLite
		return fmt.Sprintf(`INSERT OR REPLACE INTO %s (%s) VALUES (%s)`, quoted, cols, values)
	}
}

// formatTime converts a time.Time to the appropriate format for the backend.
func formatTime(t time.Time, backend schema.DatabaseBackend) any {
	switch backend {
	case schema.SQLiteBackend:
		return t.UTC().Format(time.RFC3339Nano)
	default:
		return t
	}
}

// timeScanner receives a time column from any backend. SQLite stores
// RFC 3339 text while MySQL and PostgreSQL return native times.
type timeScanner struct {
	Time  time.Time
	Valid bool
}

// Scan implements sql.Scanner.
func (ts *timeScanner) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		ts.Time, ts.Valid = time.Time{}, false
		return nil
	case time.Time:
		ts.Time, ts.Valid = v, true
		return nil
	case string:
		return ts.parse(v)
	case []byte:
		return ts.parse(string(v))
	default:
		return fmt.Errorf("cannot scan %T into a time", src)
	}
}

func (ts *timeScanner) parse(s string) error {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return fmt.Errorf("failed to parse time %q: %w", s, err)
	}
	ts.Time, ts.Valid = t, true
	return nil
}

// Ptr returns nil for NULL columns.
func (ts timeScanner) Ptr() *time.Time {
	if !ts.Valid {
		return nil
	}
	t := ts.Time
	return &t
}
