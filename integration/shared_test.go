//go:build basic || database

package integration

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

var (
	// sharedPnpsPath holds the path to a shared pnps binary built once for all tests.
	sharedPnpsPath string

	// buildOnce ensures we only build the binary once.
	buildOnce sync.Once

	// buildMutex protects the shared binary path.
	buildMutex sync.Mutex

	// tempDir holds the temp directory for cleanup.
	tempDir string
)

// TestMain handles setup and cleanup for all integration tests.
func TestMain(m *testing.M) {
	// Run all tests
	code := m.Run()

	// Cleanup the shared binary after all tests
	if tempDir != "" {
		_ = os.RemoveAll(tempDir)
	}

	os.Exit(code)
}

// getPnpsBinary returns the path to the pnps binary, building it once if needed.
func getPnpsBinary() string {
	buildMutex.Lock()
	defer buildMutex.Unlock()

	buildOnce.Do(func() {
		// Create a temp directory for the binary
		var err error
		tempDir, err = os.MkdirTemp("", "pnps-integration-*")
		if err != nil {
			panic(fmt.Sprintf("failed to create temp dir: %v", err))
		}

		pnpsPath := filepath.Join(tempDir, "pnps")
		buildCmd := exec.Command("go", "build", "-o", pnpsPath, ".")
		buildCmd.Dir = ".." // Build from parent directory (project root)
		if err := buildCmd.Run(); err != nil {
			panic(fmt.Sprintf("failed to build pnps: %v", err))
		}

		sharedPnpsPath = pnpsPath
	})

	return sharedPnpsPath
}

// runPnps runs the pnps binary in dir and returns its combined output.
func runPnps(t *testing.T, dir string, args ...string) (string, error) {
	t.Helper()
	cmd := exec.Command(getPnpsBinary(), args...)
	cmd.Dir = dir
	output, err := cmd.CombinedOutput()
	if err != nil {
		t.Logf("Command failed: %s\nOutput: %s", cmd.String(), string(output))
	}
	return string(output), err
}

const variabilityHeader = "entry_id\tsample_id\tcorresponding_gene_call\tcoverage\tdeparture_from_consensus\n"

// Gene 1 (GGGGGG, forward) has a potential ratio of 0.5. Gene 2 (NNN,
// reverse) has no defined potential.
const (
	fixtureFASTA = ">c1\nGGGGGGNNN\n"
	fixtureCalls = "gene_callers_id\tcontig\tstart\tstop\tdirection\tpartial\tcall_type\tsource\tversion\n" +
		"1\tc1\t0\t6\tf\t0\t1\tprodigal\tv2.6.3\n" +
		"2\tc1\t6\t9\tr\t0\t1\tprodigal\tv2.6.3\n"

	// expectedPNPS is the pN/pS table for the fixture with --minimum-num-variants 1.
	expectedPNPS = "corresponding_gene_call\ts1\ts2\n1\t0.5\t\n2\t\t\n"
)

// writeFixture writes the contigs, gene calls and both variability tables into dir.
func writeFixture(t *testing.T, dir string) {
	t.Helper()
	variability := func(rows ...string) string {
		var b strings.Builder
		b.WriteString(variabilityHeader)
		for i, r := range rows {
			fmt.Fprintf(&b, "%d\t%s\n", i, r)
		}
		return b.String()
	}

	files := map[string]string{
		"contigs.fa":     fixtureFASTA,
		"gene_calls.txt": fixtureCalls,
		"AA.txt": variability(
			"s1\t1\t50\t0.4",
			"s1\t1\t50\t0.4"),
		"CDN.txt": variability(
			"s1\t1\t50\t0.4",
			"s1\t1\t50\t0.4",
			"s1\t1\t50\t0.4",
			"s1\t1\t50\t0.4",
			"s2\t2\t50\t0.4"),
	}
	for name, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
	}
}
