// Package importer loads contig sequences and gene calls into the gene store.
package importer

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
	"strconv"
	"strings"

	"github.com/biogo/biogo/alphabet"
	"github.com/biogo/biogo/io/seqio"
	"github.com/biogo/biogo/io/seqio/fasta"
	"github.com/biogo/biogo/seq/linear"
	"github.com/huangsam/pnps/internal/contract"
	"github.com/huangsam/pnps/schema"
	"github.com/samber/lo"
)

// Columns of a gene calls table. The last four are optional.
const (
	colGene      = "gene_callers_id"
	colContig    = "contig"
	colStart     = "start"
	colStop      = "stop"
	colDirection = "direction"
	colPartial   = "partial"
	colCallType  = "call_type"
	colSource    = "source"
	colVersion   = "version"
)

var requiredColumns = []string{colGene, colContig, colStart, colStop, colDirection}

// Summary counts what one import stored.
type Summary struct {
	Contigs      int   `json:"contigs"`
	Bases        int64 `json:"bases"`
	GeneCalls    int   `json:"gene_calls"`
	PartialCalls int   `json:"partial_calls"`
}

// ReadContigsFile reads every record of a FASTA file.
func ReadContigsFile(path string) ([]schema.Contig, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, contract.PathErrorf(path, "cannot open contigs FASTA: %w", err)
	}
	defer func() { _ = f.Close() }()

	contigs, err := ReadContigs(f)
	if err != nil {
		return nil, contract.PathErrorf(path, "%w", err)
	}
	return contigs, nil
}

// ReadContigs reads FASTA records from r. Names stop at the first space and
// sequences are upper-cased.
func ReadContigs(r io.Reader) ([]schema.Contig, error) {
	sc := seqio.NewScanner(fasta.NewReader(r, linear.NewSeq("", nil, alphabet.DNA)))

	var contigs []schema.Contig
	seen := make(map[string]struct{})
	for sc.Next() {
		s, ok := sc.Seq().(*linear.Seq)
		if !ok {
			return nil, fmt.Errorf("unexpected sequence type %T", sc.Seq())
		}
		name := s.Name()
		if name == "" {
			return nil, fmt.Errorf("record %d has no name", len(contigs)+1)
		}
		if _, dup := seen[name]; dup {
			return nil, fmt.Errorf("contig %q appears more than once", name)
		}
		seen[name] = struct{}{}
		contigs = append(contigs, schema.Contig{
			Name:     name,
			Sequence: strings.ToUpper(string(alphabet.LettersToBytes(s.Seq))),
		})
	}
	if err := sc.Error(); err != nil {
		return nil, fmt.Errorf("failed to read FASTA: %w", err)
	}
	if len(contigs) == 0 {
		return nil, errors.New("no FASTA records found")
	}
	return contigs, nil
}

// ReadGeneCallsFile reads a tab separated gene calls table.
func ReadGeneCallsFile(path string) ([]schema.GeneCall, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, contract.PathErrorf(path, "cannot open gene calls table: %w", err)
	}
	defer func() { _ = f.Close() }()
	return ReadGeneCalls(f, path)
}

// ReadGeneCalls parses a tab separated gene calls table from r. name is used
// in error messages.
func ReadGeneCalls(r io.Reader, name string) ([]schema.GeneCall, error) {
	reader := csv.NewReader(r)
	reader.Comma = '\t'
	reader.FieldsPerRecord = -1
	reader.ReuseRecord = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, contract.ConfigErrorf("%s: empty gene calls table", name)
	}
	if err != nil {
		return nil, contract.ConfigErrorf("%s: cannot read header: %w", name, err)
	}

	index := make(map[string]int, len(header))
	for i, col := range header {
		index[col] = i
	}
	missing := lo.Filter(requiredColumns, func(col string, _ int) bool {
		_, ok := index[col]
		return !ok
	})
	if len(missing) > 0 {
		return nil, contract.ConfigErrorf("%s: missing required columns %v", name, missing)
	}

	var calls []schema.GeneCall
	seen := make(map[schema.GeneID]struct{})
	line := 1
	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line++
		if err != nil {
			return nil, contract.ConfigErrorf("%s: line %d: %w", name, line, err)
		}
		call, err := parseCall(row, index)
		if err != nil {
			return nil, contract.ConfigErrorf("%s: line %d: %w", name, line, err)
		}
		if _, dup := seen[call.ID]; dup {
			return nil, contract.ConfigErrorf("%s: line %d: gene call %s appears more than once", name, line, call.ID)
		}
		seen[call.ID] = struct{}{}
		calls = append(calls, call)
	}
	return calls, nil
}

func parseCall(row []string, index map[string]int) (schema.GeneCall, error) {
	// Optional columns read as empty when absent from the header or the row.
	cell := func(col string) string {
		i, ok := index[col]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}
	integer := func(col string) (int, error) {
		v, err := strconv.Atoi(cell(col))
		if err != nil {
			return 0, fmt.Errorf("column %s: invalid integer %q", col, cell(col))
		}
		return v, nil
	}

	var call schema.GeneCall
	var err error

	if call.ID, err = schema.ParseGeneID(cell(colGene)); err != nil {
		return call, fmt.Errorf("column %s: invalid gene id %q", colGene, cell(colGene))
	}
	if call.Contig = cell(colContig); call.Contig == "" {
		return call, fmt.Errorf("column %s is empty", colContig)
	}
	if call.Start, err = integer(colStart); err != nil {
		return call, err
	}
	if call.Stop, err = integer(colStop); err != nil {
		return call, err
	}
	if call.Start < 0 || call.Start >= call.Stop {
		return call, fmt.Errorf("invalid coordinates start=%d stop=%d", call.Start, call.Stop)
	}

	call.Direction = strings.ToLower(cell(colDirection))
	if call.Direction != "f" && call.Direction != "r" {
		return call, fmt.Errorf("column %s: expected f or r, got %q", colDirection, cell(colDirection))
	}

	if raw := cell(colPartial); raw != "" {
		if call.Partial, err = contract.ParseBoolString(raw); err != nil {
			return call, fmt.Errorf("column %s: %w", colPartial, err)
		}
	}
	if cell(colCallType) != "" {
		if call.CallType, err = integer(colCallType); err != nil {
			return call, err
		}
	}
	call.Source = cell(colSource)
	call.Version = cell(colVersion)
	return call, nil
}

// CheckCalls verifies that every call lies within a known contig. lengths maps
// contig names to sequence lengths.
func CheckCalls(calls []schema.GeneCall, lengths map[string]int, path string) error {
	for _, c := range calls {
		n, ok := lengths[c.Contig]
		if !ok {
			return contract.PathErrorf(path, "contig %q of gene call %s is neither in the FASTA nor in the gene store", c.Contig, c.ID)
		}
		if c.Stop > n {
			return contract.ConfigErrorf("%s: gene call %s ends at %d past the end of contig %q (%d bases)", path, c.ID, c.Stop, c.Contig, n)
		}
	}
	return nil
}

// Import reads the FASTA and gene calls files and stores both. Gene calls may
// reference contigs stored by an earlier import.
func Import(ctx context.Context, genes contract.GeneStore, fastaPath, callsPath string, rep contract.Reporter) (Summary, error) {
	var summary Summary

	rep.Update("Reading contigs")
	contigs, err := ReadContigsFile(fastaPath)
	if err != nil {
		return summary, err
	}

	rep.Update("Reading gene calls")
	calls, err := ReadGeneCallsFile(callsPath)
	if err != nil {
		return summary, err
	}

	lengths := make(map[string]int, len(contigs))
	for _, c := range contigs {
		lengths[c.Name] = len(c.Sequence)
	}
	unknown := lo.Uniq(lo.FilterMap(calls, func(c schema.GeneCall, _ int) (string, bool) {
		_, ok := lengths[c.Contig]
		return c.Contig, !ok
	}))
	if len(unknown) > 0 {
		slices.Sort(unknown)
		stored, err := genes.GetContigSequences(ctx, unknown)
		if err != nil {
			return summary, fmt.Errorf("failed to read stored contigs: %w", err)
		}
		for name, seq := range stored {
			lengths[name] = len(seq)
		}
	}
	if err := CheckCalls(calls, lengths, callsPath); err != nil {
		return summary, err
	}

	rep.Update("Storing contigs")
	if err := genes.ImportContigs(ctx, contigs); err != nil {
		return summary, fmt.Errorf("failed to store contigs: %w", err)
	}
	rep.Update("Storing gene calls")
	if err := genes.ImportGeneCalls(ctx, calls); err != nil {
		return summary, fmt.Errorf("failed to store gene calls: %w", err)
	}

	summary.Contigs = len(contigs)
	summary.Bases = lo.SumBy(contigs, func(c schema.Contig) int64 { return int64(len(c.Sequence)) })
	summary.GeneCalls = len(calls)
	summary.PartialCalls = lo.CountBy(calls, func(c schema.GeneCall) bool { return c.Partial })

	rep.Info("Contigs", summary.Contigs)
	rep.Info("Bases", summary.Bases)
	rep.Info("Gene calls", summary.GeneCalls)
	if summary.PartialCalls > 0 {
		rep.Warn(fmt.Sprintf("%d of %d gene calls are partial and will be excluded from pN/pS", summary.PartialCalls, summary.GeneCalls))
	}
	return summary, nil
}
