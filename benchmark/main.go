// Package main provides a performance benchmarking tool for the pnps CLI.
// It generates synthetic datasets of increasing size, imports each into a
// fresh gene store, and times repeated ratio runs with and without run
// tracking, generating CSV output for performance analysis and documentation.
//
// Prerequisites:
// - pnps binary installed and available in PATH
//
// Usage: go run benchmark/main.go [work-dir]
//
//	work-dir: Directory where datasets and stores are generated
package main

import (
	"context"
	"encoding/csv"
	"fmt"
	"math/rand/v2"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"
)

// BenchmarkResult holds the average ratio time of one dataset with and without run tracking.
type BenchmarkResult struct {
	Dataset     string
	ImportTime  string
	PlainTime   string
	TrackedTime string
}

// Dataset describes one synthetic input.
type Dataset struct {
	Name    string
	Genes   int
	Samples int
}

// BenchmarkConfig holds configuration for the benchmark run.
type BenchmarkConfig struct {
	WorkDir  string
	Timeout  time.Duration
	Runs     int
	GeneLen  int
	Datasets []Dataset
}

func main() {
	// Parse command line arguments
	if len(os.Args) != 2 {
		fmt.Printf("Usage: %s [work-dir]\n", os.Args[0])
		os.Exit(1)
	}

	config := BenchmarkConfig{
		WorkDir: os.Args[1],
		Timeout: 5 * time.Minute,
		Runs:    3,
		GeneLen: 900,
		Datasets: []Dataset{
			{Name: "small", Genes: 100, Samples: 4},
			{Name: "medium", Genes: 1000, Samples: 8},
			{Name: "large", Genes: 5000, Samples: 16},
		},
	}

	if err := checkPrerequisites(config); err != nil {
		fmt.Printf("Prerequisites check failed: %v\n", err)
		os.Exit(1)
	}

	results := runBenchmarks(config)

	if err := saveResults(results); err != nil {
		fmt.Printf("Failed to save results: %v\n", err)
		os.Exit(1)
	}

	printSummary(results)
}

// checkPrerequisites verifies that the pnps binary exists and the work dir is usable
func checkPrerequisites(config BenchmarkConfig) error {
	if _, err := exec.LookPath("pnps"); err != nil {
		return fmt.Errorf("pnps binary not found in PATH")
	}
	return os.MkdirAll(config.WorkDir, 0o755)
}

// runBenchmarks generates and benchmarks every configured dataset
func runBenchmarks(config BenchmarkConfig) []BenchmarkResult {
	var results []BenchmarkResult

	fmt.Printf("Starting benchmark: %d datasets, %v timeout, %d runs each\n",
		len(config.Datasets), config.Timeout, config.Runs)

	for _, ds := range config.Datasets {
		dir := filepath.Join(config.WorkDir, ds.Name)
		fmt.Printf("Generating %s (%d genes x %d samples)\n", ds.Name, ds.Genes, ds.Samples)
		if err := generateDataset(dir, ds, config.GeneLen); err != nil {
			fmt.Printf("  Failed to generate dataset: %v\n", err)
			continue
		}
		results = append(results, runBenchmarkSuite(config, ds, dir))
	}

	return results
}

// runBenchmarkSuite imports a dataset and times ratio runs with and without tracking
func runBenchmarkSuite(config BenchmarkConfig, ds Dataset, dir string) BenchmarkResult {
	env := []string{
		"PNPS_GENES_BACKEND=sqlite",
		"PNPS_GENES_DB_CONNECT=" + filepath.Join(dir, "genes.db"),
		"PNPS_RUNS_DB_CONNECT=" + filepath.Join(dir, "runs.db"),
	}
	_ = os.Remove(filepath.Join(dir, "genes.db"))
	_ = os.Remove(filepath.Join(dir, "runs.db"))

	importTime := formatTimes(runBenchmark(config, dir, env, 1,
		"genes", "import", "--contigs-fasta", "contigs.fa", "--gene-calls", "gene_calls.txt"))

	ratioArgs := []string{"ratio", "--aa-table", "AA.txt", "--cdn-table", "CDN.txt", "-O", "out"}

	// Helper to run a benchmark phase
	runPhase := func(runsBackend, phaseName string) string {
		fmt.Printf("  %s phase (%d runs)\n", phaseName, config.Runs)
		args := append(append([]string{}, ratioArgs...), "--runs-backend", runsBackend)
		return formatTimes(runBenchmark(config, dir, env, config.Runs, args...))
	}

	plain := runPhase("none", "Untracked")
	tracked := runPhase("sqlite", "Tracked")

	fmt.Printf("  Import: %s, Untracked average: %s, Tracked average: %s\n", importTime, plain, tracked)

	return BenchmarkResult{
		Dataset:     ds.Name,
		ImportTime:  importTime,
		PlainTime:   plain,
		TrackedTime: tracked,
	}
}

// runBenchmark executes a pnps command numRuns times and returns the successful durations
func runBenchmark(config BenchmarkConfig, dir string, env []string, numRuns int, args ...string) []float64 {
	var times []float64
	for range numRuns {
		ctx, cancel := context.WithTimeout(context.Background(), config.Timeout)
		cmd := exec.CommandContext(ctx, "pnps", args...)
		cmd.Dir = dir
		cmd.Env = append(os.Environ(), env...)

		start := time.Now()
		output, err := cmd.CombinedOutput()
		elapsed := time.Since(start).Seconds()
		cancel()

		if err != nil {
			fmt.Printf("  pnps %s failed: %v\n%s\n", strings.Join(args, " "), err, string(output))
			continue
		}
		times = append(times, elapsed)
	}
	return times
}

// formatTimes averages durations, reporting FAILED when none succeeded
func formatTimes(times []float64) string {
	if len(times) == 0 {
		return "FAILED"
	}
	var sum float64
	for _, t := range times {
		sum += t
	}
	return fmt.Sprintf("%.3fs", sum/float64(len(times)))
}

// generateDataset writes contigs, gene calls and variability tables for ds into dir.
// Every gene sits on its own contig. Variant counts are random but reproducible.
func generateDataset(dir string, ds Dataset, geneLen int) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	rng := rand.New(rand.NewPCG(uint64(ds.Genes), uint64(ds.Samples)))
	bases := "ACGT"

	var fasta, calls strings.Builder
	calls.WriteString("gene_callers_id\tcontig\tstart\tstop\tdirection\tpartial\tcall_type\tsource\tversion\n")
	for g := range ds.Genes {
		fmt.Fprintf(&fasta, ">contig_%d\n", g)
		for range geneLen {
			fasta.WriteByte(bases[rng.IntN(len(bases))])
		}
		fasta.WriteByte('\n')
		direction := "f"
		if g%2 == 1 {
			direction = "r"
		}
		fmt.Fprintf(&calls, "%d\tcontig_%d\t0\t%d\t%s\t0\t1\tbenchmark\tv1\n", g, g, geneLen, direction)
	}

	header := "entry_id\tsample_id\tcorresponding_gene_call\tcoverage\tdeparture_from_consensus\n"
	var aa, cdn strings.Builder
	aa.WriteString(header)
	cdn.WriteString(header)
	aaID, cdnID := 0, 0
	for g := range ds.Genes {
		for s := range ds.Samples {
			nCDN := rng.IntN(40)
			nAA := rng.IntN(nCDN + 1)
			for range nCDN {
				fmt.Fprintf(&cdn, "%d\tsample_%02d\t%d\t%d\t%.3f\n", cdnID, s, g, 20+rng.IntN(80), rng.Float64())
				cdnID++
			}
			for range nAA {
				fmt.Fprintf(&aa, "%d\tsample_%02d\t%d\t%d\t%.3f\n", aaID, s, g, 20+rng.IntN(80), rng.Float64())
				aaID++
			}
		}
	}

	files := map[string]string{
		"contigs.fa":     fasta.String(),
		"gene_calls.txt": calls.String(),
		"AA.txt":         aa.String(),
		"CDN.txt":        cdn.String(),
	}
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
			return err
		}
	}
	return nil
}

// saveResults writes benchmark results to a timestamped CSV file
func saveResults(results []BenchmarkResult) error {
	timestamp := time.Now().Format("20060102_150405")
	filename := fmt.Sprintf("/tmp/pnps_benchmark_%s.csv", timestamp)

	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil {
			fmt.Printf("Warning: failed to close file %s: %v\n", filename, closeErr)
		}
	}()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	// Write header
	if err := writer.Write([]string{"dataset", "import_time", "untracked_avg", "tracked_avg"}); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	// Write results
	for _, result := range results {
		if err := writer.Write([]string{result.Dataset, result.ImportTime, result.PlainTime, result.TrackedTime}); err != nil {
			return fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	fmt.Printf("Results saved to %s\n", filename)
	return nil
}

// printSummary displays the final benchmark results summary
func printSummary(results []BenchmarkResult) {
	fmt.Printf("Benchmark complete\n")
	for _, result := range results {
		fmt.Printf("  %-8s: Import: %s, Untracked: %s, Tracked: %s\n", result.Dataset, result.ImportTime, result.PlainTime, result.TrackedTime)
	}
}
