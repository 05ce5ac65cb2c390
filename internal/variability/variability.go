// Package variability loads AA and CDN variability tables into engine tagged
// variant records.
package variability

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
	"strconv"

	"github.com/huangsam/pnps/internal/contract"
	"github.com/huangsam/pnps/schema"
	"github.com/samber/lo"
)

// Required columns of a variability table.
const (
	colGene      = schema.GeneColumn
	colSample    = "sample_id"
	colCoverage  = "coverage"
	colDeparture = "departure_from_consensus"
)

var requiredColumns = []string{colGene, colSample, colCoverage, colDeparture}

// Tables is the loaded and filtered content of both variability tables.
type Tables struct {
	Records []schema.VariantRecord
	Calls   map[schema.GeneID]schema.GeneCall
	Stats   schema.LoadStats
}

// ReadFile reads one variability table and tags every record with engine.
func ReadFile(path string, engine schema.Engine) ([]schema.VariantRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, contract.PathErrorf(path, "cannot open %s table: %w", engine, err)
	}
	defer func() { _ = f.Close() }()

	return Read(f, path, engine)
}

// Read parses a tab separated variability table from r. name is used in
// error messages. Columns other than the required ones are ignored.
func Read(r io.Reader, name string, engine schema.Engine) ([]schema.VariantRecord, error) {
	reader := csv.NewReader(r)
	reader.Comma = '\t'
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1
	reader.ReuseRecord = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, contract.ConfigErrorf("%s: empty %s table", name, engine)
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

	var records []schema.VariantRecord
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
		rec, err := parseRow(row, index, engine)
		if err != nil {
			return nil, contract.ConfigErrorf("%s: line %d: %w", name, line, err)
		}
		records = append(records, rec)
	}
	return records, nil
}

func parseRow(row []string, index map[string]int, engine schema.Engine) (schema.VariantRecord, error) {
	cell := func(col string) (string, error) {
		i := index[col]
		if i >= len(row) {
			return "", fmt.Errorf("column %s is missing", col)
		}
		return row[i], nil
	}

	rec := schema.VariantRecord{Engine: engine}

	raw, err := cell(colGene)
	if err != nil {
		return rec, err
	}
	if rec.GeneID, err = schema.ParseGeneID(raw); err != nil {
		return rec, fmt.Errorf("column %s: invalid gene id %q", colGene, raw)
	}

	if rec.SampleID, err = cell(colSample); err != nil {
		return rec, err
	}

	if raw, err = cell(colCoverage); err != nil {
		return rec, err
	}
	if rec.Coverage, err = strconv.ParseFloat(raw, 64); err != nil {
		return rec, fmt.Errorf("column %s: invalid number %q", colCoverage, raw)
	}

	if raw, err = cell(colDeparture); err != nil {
		return rec, err
	}
	if rec.DepartureFromConsensus, err = strconv.ParseFloat(raw, 64); err != nil {
		return rec, fmt.Errorf("column %s: invalid number %q", colDeparture, raw)
	}
	return rec, nil
}

// Filter keeps records whose departure from consensus and coverage both reach
// the thresholds. It returns the kept records and how many were dropped.
func Filter(records []schema.VariantRecord, minCoverage int, minDeparture float64) ([]schema.VariantRecord, int) {
	kept := lo.Filter(records, func(r schema.VariantRecord, _ int) bool {
		return r.DepartureFromConsensus >= minDeparture && r.Coverage >= float64(minCoverage)
	})
	return kept, len(records) - len(kept)
}

// GeneIDs returns the distinct gene ids referenced by records, in first seen order.
func GeneIDs(records []schema.VariantRecord) []schema.GeneID {
	return lo.Uniq(lo.Map(records, func(r schema.VariantRecord, _ int) schema.GeneID {
		return r.GeneID
	}))
}

// CheckGenes fails with a PathError naming path when a record references a
// gene that calls does not contain.
func CheckGenes(records []schema.VariantRecord, calls map[schema.GeneID]schema.GeneCall, path string) error {
	for _, r := range records {
		if _, ok := calls[r.GeneID]; !ok {
			return contract.PathErrorf(path, "gene call %s is not in the gene store", r.GeneID)
		}
	}
	return nil
}

// RemovePartial drops records of partial gene calls and returns how many were dropped.
func RemovePartial(records []schema.VariantRecord, calls map[schema.GeneID]schema.GeneCall) ([]schema.VariantRecord, int) {
	kept := lo.Reject(records, func(r schema.VariantRecord, _ int) bool {
		return calls[r.GeneID].Partial
	})
	return kept, len(records) - len(kept)
}

// Load reads both tables of cfg, applies the thresholds, checks every gene
// against the gene store and removes partial gene calls.
func Load(ctx context.Context, cfg *contract.Config, genes contract.GeneStore, rep contract.Reporter) (*Tables, error) {
	var stats schema.LoadStats

	rep.Update("Reading AA table")
	aa, err := ReadFile(cfg.AATable, schema.AAEngine)
	if err != nil {
		return nil, err
	}
	stats.AARecords = len(aa)

	rep.Update("Reading CDN table")
	cdn, err := ReadFile(cfg.CDNTable, schema.CDNEngine)
	if err != nil {
		return nil, err
	}
	stats.CDNRecords = len(cdn)

	rep.Update("Applying coverage and departure thresholds")
	aa, droppedAA := Filter(aa, cfg.MinCoverage, cfg.MinDeparture)
	cdn, droppedCDN := Filter(cdn, cfg.MinCoverage, cfg.MinDeparture)
	stats.BelowThreshold = droppedAA + droppedCDN

	rep.Update("Looking up gene calls")
	ids := lo.Uniq(slices.Concat(GeneIDs(aa), GeneIDs(cdn)))
	calls, err := genes.GetGeneCalls(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to read gene calls: %w", err)
	}
	if err := CheckGenes(aa, calls, cfg.AATable); err != nil {
		return nil, err
	}
	if err := CheckGenes(cdn, calls, cfg.CDNTable); err != nil {
		return nil, err
	}

	records := slices.Concat(aa, cdn)
	records, partial := RemovePartial(records, calls)
	stats.PartialRemoved = partial
	stats.Kept = len(records)
	if partial > 0 {
		rep.Warn(fmt.Sprintf("%d variability records of partial gene calls were removed", partial))
	}

	rep.Info("AA records", stats.AARecords)
	rep.Info("CDN records", stats.CDNRecords)
	rep.Info("Records below thresholds", stats.BelowThreshold)
	rep.Info("Records kept", stats.Kept)

	used := make(map[schema.GeneID]schema.GeneCall)
	for _, id := range GeneIDs(records) {
		used[id] = calls[id]
	}
	return &Tables{Records: records, Calls: used, Stats: stats}, nil
}
