package store

import (
	"fmt"
	"io"
	"slices"

	"github.com/huangsam/pnps/schema"
	"github.com/samber/lo"
)

const statusTimeLayout = "2006-01-02 15:04:05"

// PrintGeneStatus prints gene store status information.
func PrintGeneStatus(w io.Writer, status schema.GeneStoreStatus) {
	_, _ = fmt.Fprintf(w, "Gene Store Backend: %s\n", status.Backend)
	_, _ = fmt.Fprintf(w, "Connected: %t\n", status.Connected)
	if !status.Connected {
		return
	}
	_, _ = fmt.Fprintf(w, "Contigs: %d (%d bases)\n", status.TotalContigs, status.TotalBases)
	_, _ = fmt.Fprintf(w, "Gene Calls: %d (%d partial)\n", status.TotalGenes, status.PartialGenes)
	if status.TotalGenes > 0 {
		_, _ = fmt.Fprintf(w, "Last Import: %s\n", status.LastImportTime.Format(statusTimeLayout))
	}
}

// PrintRunStatus prints run store status information.
func PrintRunStatus(w io.Writer, status schema.RunStoreStatus) {
	_, _ = fmt.Fprintf(w, "Run Store Backend: %s\n", status.Backend)
	_, _ = fmt.Fprintf(w, "Connected: %t\n", status.Connected)
	if !status.Connected {
		return
	}
	_, _ = fmt.Fprintf(w, "Total Runs: %d\n", status.TotalRuns)
	if status.TotalRuns > 0 {
		_, _ = fmt.Fprintf(w, "Last Run ID: %d (%s)\n", status.LastRunID, status.LastRunUUID)
		_, _ = fmt.Fprintf(w, "Last Run: %s\n", status.LastRunTime.Format(statusTimeLayout))
		_, _ = fmt.Fprintf(w, "Oldest Run: %s\n", status.OldestRunTime.Format(statusTimeLayout))
	}
	_, _ = fmt.Fprintln(w, "Table Sizes:")
	tables := lo.Keys(status.TableSizes)
	slices.Sort(tables)
	for _, table := range tables {
		_, _ = fmt.Fprintf(w, "  %s: %d rows\n", table, status.TableSizes[table])
	}
}
