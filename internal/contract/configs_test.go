package contract

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/huangsam/pnps/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

// validInput returns the raw input produced by the default flag values.
func validInput() *ConfigRawInput {
	return &ConfigRawInput{
		Output:         "text",
		Precision:      DefaultPrecision,
		Color:          "yes",
		MinCoverage:    DefaultMinCoverage,
		MinDeparture:   DefaultMinDeparture,
		MinNumVariants: DefaultMinNumVariants,
		GenesBackend:   "sqlite",
	}
}

func TestProcessAndValidate(t *testing.T) {
	tests := []struct {
		name        string
		mutate      func(*ConfigRawInput)
		expectError bool
	}{
		{"valid defaults", func(*ConfigRawInput) {}, false},
		{"negative coverage", func(in *ConfigRawInput) { in.MinCoverage = -1 }, true},
		{"departure above one", func(in *ConfigRawInput) { in.MinDeparture = 1.5 }, true},
		{"departure below zero", func(in *ConfigRawInput) { in.MinDeparture = -0.1 }, true},
		{"departure of exactly one", func(in *ConfigRawInput) { in.MinDeparture = 1 }, false},
		{"negative minimum variants", func(in *ConfigRawInput) { in.MinNumVariants = -3 }, true},
		{"zero minimum variants", func(in *ConfigRawInput) { in.MinNumVariants = 0 }, false},
		{"invalid output", func(in *ConfigRawInput) { in.Output = "yaml" }, true},
		{"uppercase output", func(in *ConfigRawInput) { in.Output = "JSON" }, false},
		{"precision too small", func(in *ConfigRawInput) { in.Precision = 0 }, true},
		{"precision too large", func(in *ConfigRawInput) { in.Precision = MaxPrecision + 1 }, true},
		{"invalid color", func(in *ConfigRawInput) { in.Color = "maybe" }, true},
		{"invalid log level", func(in *ConfigRawInput) { in.LogLevel = "loud" }, true},
		{"invalid export", func(in *ConfigRawInput) { in.Export = "xlsx,pdf" }, true},
		{"invalid gene filter", func(in *ConfigRawInput) { in.Genes = "1,two" }, true},
		{"invalid genes backend", func(in *ConfigRawInput) { in.GenesBackend = "oracle" }, true},
		{"mysql without connection", func(in *ConfigRawInput) { in.GenesBackend = "mysql" }, true},
		{
			"postgres with connection",
			func(in *ConfigRawInput) {
				in.RunsBackend = "postgresql"
				in.RunsDBConnect = "host=localhost port=5432 user=postgres dbname=pnps"
			},
			false,
		},
		{
			"shared sqlite file",
			func(in *ConfigRawInput) {
				in.RunsBackend = "sqlite"
				in.GenesDBConnect = "/tmp/pnps.db"
				in.RunsDBConnect = "/tmp/pnps.db"
			},
			true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := validInput()
			tt.mutate(input)
			cfg := &Config{}
			err := ProcessAndValidate(cfg, input)
			if tt.expectError {
				require.Error(t, err)
				assert.True(t, IsConfigError(err), "validation failures are configuration errors")
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestProcessAndValidate_Fields(t *testing.T) {
	input := validInput()
	input.Export = "parquet, XLSX,parquet"
	input.Genes = "5,3,5"
	input.LogLevel = "debug"
	input.Color = "no"

	cfg := &Config{}
	require.NoError(t, ProcessAndValidate(cfg, input))

	assert.Equal(t, []schema.ExportFormat{schema.ParquetExport, schema.XLSXExport}, cfg.Exports)
	assert.True(t, cfg.HasExport(schema.XLSXExport))
	assert.False(t, cfg.HasExport(schema.JSONExport))
	assert.Equal(t, []schema.GeneID{5, 3}, cfg.GeneFilter)
	assert.Equal(t, zapcore.DebugLevel, cfg.LogLevel)
	assert.False(t, cfg.UseColors)
	assert.Equal(t, schema.SQLiteBackend, cfg.GenesBackend)
	assert.Equal(t, schema.NoneBackend, cfg.RunsBackend, "run tracking is off unless configured")
	assert.Equal(t, DefaultMinCoverage, cfg.MinCoverage)
	assert.InDelta(t, DefaultMinDeparture, cfg.MinDeparture, 1e-12)
	assert.Equal(t, DefaultMinNumVariants, cfg.MinNumVariants)
}

func TestValidateRatioInputs(t *testing.T) {
	dir := t.TempDir()
	aa := filepath.Join(dir, "aa.txt")
	cdn := filepath.Join(dir, "cdn.txt")
	require.NoError(t, os.WriteFile(aa, []byte("x\n"), 0o644))
	require.NoError(t, os.WriteFile(cdn, []byte("x\n"), 0o644))

	t.Run("complete", func(t *testing.T) {
		cfg := &Config{AATable: aa, CDNTable: cdn, OutputDir: dir}
		assert.NoError(t, ValidateRatioInputs(cfg))
	})

	t.Run("missing aa table flag", func(t *testing.T) {
		cfg := &Config{CDNTable: cdn, OutputDir: dir}
		err := ValidateRatioInputs(cfg)
		require.Error(t, err)
		assert.True(t, IsConfigError(err))
		assert.Contains(t, err.Error(), "--aa-table")
	})

	t.Run("missing output dir flag", func(t *testing.T) {
		cfg := &Config{AATable: aa, CDNTable: cdn}
		assert.True(t, IsConfigError(ValidateRatioInputs(cfg)))
	})

	t.Run("tables without output dir", func(t *testing.T) {
		cfg := &Config{AATable: aa, CDNTable: cdn}
		assert.NoError(t, ValidateVariabilityTables(cfg))
	})

	t.Run("same table twice", func(t *testing.T) {
		cfg := &Config{AATable: aa, CDNTable: aa, OutputDir: dir}
		assert.True(t, IsConfigError(ValidateRatioInputs(cfg)))
	})

	t.Run("cdn table does not exist", func(t *testing.T) {
		cfg := &Config{AATable: aa, CDNTable: filepath.Join(dir, "nope.txt"), OutputDir: dir}
		err := ValidateRatioInputs(cfg)
		require.Error(t, err)
		assert.True(t, IsPathError(err))
	})
}

func TestValidateDatabaseConnectionString(t *testing.T) {
	tests := []struct {
		name    string
		backend schema.DatabaseBackend
		conn    string
		wantErr bool
	}{
		{"sqlite empty", schema.SQLiteBackend, "", false},
		{"none empty", schema.NoneBackend, "", false},
		{"mysql ok", schema.MySQLBackend, "root:pw@tcp(localhost:3306)/pnps", false},
		{"mysql no tcp", schema.MySQLBackend, "root:pw@localhost/pnps", true},
		{"mysql no db", schema.MySQLBackend, "root:pw@tcp(localhost:3306)", true},
		{"postgres ok", schema.PostgreSQLBackend, "host=db dbname=pnps", false},
		{"postgres no host", schema.PostgreSQLBackend, "dbname=pnps", true},
		{"postgres no dbname", schema.PostgreSQLBackend, "host=db", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateDatabaseConnectionString(tt.backend, tt.conn)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestConfigClone(t *testing.T) {
	cfg := &Config{GeneFilter: []schema.GeneID{1, 2}, Exports: []schema.ExportFormat{schema.JSONExport}}
	clone := cfg.Clone()
	clone.GeneFilter[0] = 99
	clone.Exports[0] = schema.XLSXExport

	assert.Equal(t, schema.GeneID(1), cfg.GeneFilter[0])
	assert.Equal(t, schema.JSONExport, cfg.Exports[0])
}
