package config

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, []string{filepath.Join("public", "reports"), filepath.Join("public", "reports_local")}, cfg.InputDirs)
	assert.Equal(t, filepath.Join("public", "manual_reports"), cfg.OutputDir)
	assert.Equal(t, "telemetry_*.json", cfg.FilePattern)
	assert.Equal(t, runtime.NumCPU(), cfg.Workers)
	assert.True(t, cfg.WriteJSONL)
}

func TestLoad_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "telemetry_report.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
input_dirs:
  - /data/reports
output_dir: /data/out
workers: 0
log_level: debug
write_jsonl: false
`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"/data/reports"}, cfg.InputDirs)
	assert.Equal(t, "/data/out", cfg.OutputDir)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.False(t, cfg.WriteJSONL)
	assert.Equal(t, runtime.NumCPU(), cfg.Workers, "workers <= 0 falls back")
	assert.Equal(t, DefaultFilePattern, cfg.FilePattern, "unset keys keep defaults")
}

func TestLoad_ExplicitMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoad_InvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("input_dirs: [unterminated"), 0o644))

	_, err := Load(path)
	assert.ErrorContains(t, err, "failed to parse config file")
}

func TestLoad_NoDefaultFile(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestLoad_DefaultFileSearch(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "report.yaml"), []byte("output_dir: elsewhere\n"), 0o644))

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "elsewhere", cfg.OutputDir)
}

func TestValidate(t *testing.T) {
	cfg := &Config{Workers: -3}
	cfg.Validate()

	def := DefaultConfig()
	assert.Equal(t, def.InputDirs, cfg.InputDirs)
	assert.Equal(t, def.OutputDir, cfg.OutputDir)
	assert.Equal(t, def.FilePattern, cfg.FilePattern)
	assert.Equal(t, def.Workers, cfg.Workers)
	assert.Equal(t, DefaultLogLevel, cfg.LogLevel)
	assert.Equal(t, DefaultLogFormat, cfg.LogFormat)
}
