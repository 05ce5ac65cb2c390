//go:build database

package integration

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

// TestPnpsWithMySQL tests the pnps CLI with a MySQL backend.
func TestPnpsWithMySQL(t *testing.T) {
	ctx := context.Background()

	// Start MySQL container
	req := testcontainers.ContainerRequest{
		Image:        "mysql:8",
		ExposedPorts: []string{"3306:3306/tcp"},
		Env: map[string]string{
			"MYSQL_ROOT_PASSWORD": "secret123",
			"MYSQL_DATABASE":      "pnps",
		},
		WaitingFor: wait.ForLog("port: 3306  MySQL Community Server").WithStartupTimeout(30 * time.Second),
	}
	mysqlC, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)
	defer func() { _ = mysqlC.Terminate(ctx) }()

	// Get connection details
	host, err := mysqlC.Host(ctx)
	require.NoError(t, err)
	port, err := mysqlC.MappedPort(ctx, "3306")
	require.NoError(t, err)

	connStr := fmt.Sprintf("root:secret123@tcp(%s:%s)/pnps", host, port.Port())
	runStoreWorkflow(t, "mysql", connStr)
}

// TestPnpsWithPostgres tests the pnps CLI with a PostgreSQL backend.
func TestPnpsWithPostgres(t *testing.T) {
	ctx := context.Background()

	// Start Postgres container
	req := testcontainers.ContainerRequest{
		Image:        "postgres:18-alpine",
		ExposedPorts: []string{"5432:5432/tcp"},
		Env: map[string]string{
			"POSTGRES_HOST_AUTH_METHOD": "trust",
		},
		WaitingFor: wait.ForLog("database system is ready to accept connections").WithStartupTimeout(30 * time.Second),
	}
	pgC, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)
	defer func() { _ = pgC.Terminate(ctx) }()
	time.Sleep(5 * time.Second)

	// Get connection details
	host, err := pgC.Host(ctx)
	require.NoError(t, err)
	port, err := pgC.MappedPort(ctx, "5432")
	require.NoError(t, err)

	connStr := fmt.Sprintf("host=%s port=%s user=postgres dbname=postgres", host, port.Port())
	runStoreWorkflow(t, "postgresql", connStr)
}

// runStoreWorkflow migrates both stores, imports the fixture, computes
// pN/pS with run tracking and clears everything again. Both stores share
// one database.
func runStoreWorkflow(t *testing.T, backend, connStr string) {
	dir := t.TempDir()
	writeFixture(t, dir)

	t.Setenv("PNPS_GENES_BACKEND", backend)
	t.Setenv("PNPS_GENES_DB_CONNECT", connStr)
	t.Setenv("PNPS_RUNS_BACKEND", backend)
	t.Setenv("PNPS_RUNS_DB_CONNECT", connStr)

	// Start from a clean database
	_, err := runPnps(t, dir, "genes", "clear")
	require.NoError(t, err)
	_, err = runPnps(t, dir, "runs", "clear")
	require.NoError(t, err)

	out, err := runPnps(t, dir, "genes", "migrate")
	require.NoError(t, err)
	assert.Contains(t, out, "Successfully migrated the genes store")
	out, err = runPnps(t, dir, "runs", "migrate")
	require.NoError(t, err)
	assert.Contains(t, out, "Successfully migrated the runs store")

	_, err = runPnps(t, dir, "genes", "import", "--contigs-fasta", "contigs.fa", "--gene-calls", "gene_calls.txt")
	require.NoError(t, err)

	_, err = runPnps(t, dir, "ratio", "--aa-table", "AA.txt", "--cdn-table", "CDN.txt", "-O", "out", "--minimum-num-variants", "1")
	require.NoError(t, err)

	pnps, err := os.ReadFile(filepath.Join(dir, "out", "pN_pS_ratio.txt"))
	require.NoError(t, err)
	assert.Equal(t, expectedPNPS, string(pnps))

	out, err = runPnps(t, dir, "genes", "status")
	require.NoError(t, err)
	assert.Contains(t, out, backend)

	_, err = runPnps(t, dir, "runs", "status")
	require.NoError(t, err)

	_, err = runPnps(t, dir, "runs", "export", "--output-file", "history")
	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(dir, "history.ratios.parquet"))

	out, err = runPnps(t, dir, "runs", "migrate", "--target-version", "0")
	require.NoError(t, err)
	assert.Contains(t, out, "rolled back the runs store")
}
