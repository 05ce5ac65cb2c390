package contract

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
)

// Selection label constants.
const (
	DiversifyingValue = "Diversifying" // Diversifying value
	NeutralValue      = "Neutral"      // Neutral value
	PurifyingValue    = "Purifying"    // Purifying value
	UndefinedValue    = "Undefined"    // Undefined value
)

// Label boundaries around neutral evolution (pN/pS = 1).
const (
	purifyingBelow    = 0.8
	diversifyingAbove = 1.2
)

// Color variables for console output.
var (
	DiversifyingColor = color.New(color.FgRed, color.Bold) // pN/pS well above one.
	NeutralColor      = color.New(color.FgYellow)          // close to one.
	PurifyingColor    = color.New(color.FgCyan)            // well below one.
	UndefinedColor    = color.New(color.FgHiBlack)         // no defined value.
)

// GetPlainLabel returns a plain text label describing the selection regime
// suggested by a pN/pS value. This is the core logic used for CSV, JSON, and
// table printing.
func GetPlainLabel(value float64, valid bool) string {
	switch {
	case !valid:
		return UndefinedValue
	case value > diversifyingAbove:
		return DiversifyingValue
	case value >= purifyingBelow:
		return NeutralValue
	default:
		return PurifyingValue
	}
}

// GetColorLabel returns a colored text label for console output (table).
func GetColorLabel(value float64, valid bool) string {
	text := GetPlainLabel(value, valid)

	switch text {
	case DiversifyingValue:
		return DiversifyingColor.Sprint(text)
	case NeutralValue:
		return NeutralColor.Sprint(text)
	case PurifyingValue:
		return PurifyingColor.Sprint(text)
	default:
		return UndefinedColor.Sprint(text)
	}
}

// SelectOutputFile returns the appropriate file handle for output, based on the provided
// file path. An empty path selects os.Stdout.
func SelectOutputFile(filePath string) (*os.File, error) {
	if filePath == "" {
		return os.Stdout, nil
	}
	return os.Create(filePath)
}

// CheckReadableFile verifies that path names an existing regular file.
func CheckReadableFile(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return PathErrorf(path, "file does not exist")
		}
		return &PathError{Path: path, Err: err}
	}
	if info.IsDir() {
		return PathErrorf(path, "expected a file but found a directory")
	}
	return nil
}

// PrepareOutputDir creates dir when missing and verifies it can be written to.
// It writes nothing that outlives the call.
func PrepareOutputDir(dir string) error {
	info, err := os.Stat(dir)
	switch {
	case err == nil && !info.IsDir():
		return PathErrorf(dir, "output path exists and is not a directory")
	case os.IsNotExist(err):
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return &PathError{Path: dir, Err: err}
		}
	case err != nil:
		return &PathError{Path: dir, Err: err}
	}

	probe, err := os.CreateTemp(dir, ".pnps-write-check-*")
	if err != nil {
		return PathErrorf(dir, "output directory is not writable: %v", err)
	}
	name := probe.Name()
	_ = probe.Close()
	_ = os.Remove(name)
	return nil
}

// LogFatal logs an error and exits the program.
func LogFatal(msg string, err error) {
	_, _ = fmt.Fprintf(os.Stderr, "Fatal %s: %v\n", msg, err)
	os.Exit(1)
}

// LogWarn logs a warning message to stderr.
func LogWarn(msg string, err error) {
	_, _ = fmt.Fprintf(os.Stderr, "Warn %s: %v\n", msg, err)
}

// GetGenesDBFilePath returns the path to the SQLite DB file for the gene store.
func GetGenesDBFilePath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ".pnps_genes.db"
	}
	return filepath.Join(homeDir, ".pnps_genes.db")
}

// GetRunsDBFilePath returns the path to the SQLite DB file for the run store.
func GetRunsDBFilePath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ".pnps_runs.db"
	}
	return filepath.Join(homeDir, ".pnps_runs.db")
}

// TruncateLabel truncates a label to a maximum width with an ellipsis suffix.
// Requires maxWidth > 3 so there is room for the ellipsis and one character.
func TruncateLabel(label string, maxWidth int) string {
	runes := []rune(label)
	if len(runes) > maxWidth && maxWidth > 3 {
		return string(runes[:maxWidth-3]) + "..."
	}
	return label
}

// SplitList splits a comma-separated flag value, dropping blanks.
func SplitList(s string) []string {
	var out []string
	for part := range strings.SplitSeq(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// ParseBoolString parses a string value into a boolean.
// Accepts "yes", "no", "true", "false", "1", "0" (case-insensitive).
// Returns an error for invalid values.
func ParseBoolString(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "yes", "true", "1":
		return true, nil
	case "no", "false", "0":
		return false, nil
	default:
		return false, fmt.Errorf("invalid boolean string: %s (expected yes/no/true/false/1/0)", s)
	}
}
