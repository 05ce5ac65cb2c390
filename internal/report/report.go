// Package report provides the zap backed Reporter used by every pnps operation.
package report

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/fatih/color"
	"github.com/huangsam/pnps/internal/contract"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// progressColor highlights the progress line.
var progressColor = color.New(color.FgGreen)

// Reporter writes facts and warnings to a zap logger and keeps a single
// progress line on a terminal stream.
type Reporter struct {
	mu       sync.Mutex
	log      *zap.Logger
	progress io.Writer
	lastLen  int
	warnings []string
}

var _ contract.Reporter = &Reporter{} // Compile-time check

// NewLogger builds the development logger used by the CLI.
func NewLogger(level zapcore.Level) (*zap.Logger, error) {
	config := zap.NewDevelopmentConfig()
	config.Level = zap.NewAtomicLevelAt(level)

	encoderConfig := zap.NewDevelopmentEncoderConfig()
	encoderConfig.TimeKey = "time"
	encoderConfig.EncodeTime = zapcore.TimeEncoderOfLayout("Jan _2 15:04:05.000")
	encoderConfig.StacktraceKey = "" // to hide stacktrace info
	config.EncoderConfig = encoderConfig

	return config.Build(zap.AddCallerSkip(1))
}

// New returns a Reporter logging at level, with progress written to progress.
// A nil progress writer disables the progress line.
func New(level zapcore.Level, progress io.Writer) (*Reporter, error) {
	log, err := NewLogger(level)
	if err != nil {
		return nil, fmt.Errorf("failed to build logger: %w", err)
	}
	return NewWithLogger(log, progress), nil
}

// NewWithLogger wraps an existing logger.
func NewWithLogger(log *zap.Logger, progress io.Writer) *Reporter {
	return &Reporter{log: log, progress: progress}
}

// Nop returns a Reporter that discards everything. Used where stdio carries a protocol.
func Nop() *Reporter {
	return NewWithLogger(zap.NewNop(), nil)
}

// Info records a key/value fact.
func (r *Reporter) Info(key string, value any) {
	r.log.Info(key, zap.Any("value", value))
}

// Warn records a warning and keeps it for Warnings.
func (r *Reporter) Warn(msg string) {
	r.mu.Lock()
	r.warnings = append(r.warnings, msg)
	r.mu.Unlock()
	r.log.Warn(msg)
}

// Update replaces the progress line.
func (r *Reporter) Update(msg string) {
	r.log.Debug("progress", zap.String("step", msg))
	if r.progress == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	line := "⏳ " + msg
	pad := max(r.lastLen-len(line), 0)
	_, _ = fmt.Fprintf(r.progress, "\r%s%s", progressColor.Sprint(line), strings.Repeat(" ", pad))
	r.lastLen = len(line)
}

// End clears the progress line.
func (r *Reporter) End() {
	if r.progress == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.lastLen > 0 {
		_, _ = fmt.Fprintf(r.progress, "\r%s\r", strings.Repeat(" ", r.lastLen))
		r.lastLen = 0
	}
}

// Warnings returns the warnings recorded so far.
func (r *Reporter) Warnings() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.warnings...)
}

// Sync flushes any buffered log entries.
func (r *Reporter) Sync() error {
	return r.log.Sync()
}
