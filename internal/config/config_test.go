package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/veloroad/ridediag/internal/config"
)

func setArgs(t *testing.T, args ...string) {
	t.Helper()
	oldArgs := os.Args
	os.Args = append([]string{"ridediagd"}, args...)
	t.Cleanup(func() { os.Args = oldArgs })
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "ridediag.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad(t *testing.T) {
	setArgs(t)
	configPath := writeConfig(t, `
interval_ms = 250
log_level = "debug"
journal = true
journal_db = "/path/to/findings.db"
min_gps_hz = 0.5
max_gps_accuracy_m = 30.0
motion_min_samples = 25
motion_window_ms = 500
`)
	t.Setenv("RIDEDIAG_CONFIG", configPath)

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, 250, cfg.IntervalMs)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.True(t, cfg.Journal)
	assert.Equal(t, "/path/to/findings.db", cfg.JournalDB)
	assert.Equal(t, 0.5, cfg.MinGPSHz)
	assert.Equal(t, 30.0, cfg.MaxGPSAccuracyM)
	assert.Equal(t, 25, cfg.MotionMinSamples)
	assert.Equal(t, 500, cfg.MotionWindowMs)
}

func TestLoadDefaults(t *testing.T) {
	setArgs(t)
	t.Setenv("RIDEDIAG_CONFIG", writeConfig(t, ""))

	cfg, err := config.Load()
	require.NoError(t, err, "Failed to load config")

	assert.Equal(t, 500, cfg.IntervalMs, "Expected default interval 500ms")
	assert.Equal(t, config.DefaultLogLevel, cfg.LogLevel)
	assert.False(t, cfg.Journal, "Journal disabled by default")
	assert.True(t, cfg.AutoStartSession)
	assert.Equal(t, 1.0, cfg.MinGPSHz)
	assert.Equal(t, 25.0, cfg.MaxGPSAccuracyM)
	assert.Equal(t, 50, cfg.MotionMinSamples)
	assert.Equal(t, 1000, cfg.MotionWindowMs)
}

func TestLoadConfigFileInvalidFormat(t *testing.T) {
	setArgs(t)
	t.Setenv("RIDEDIAG_CONFIG", writeConfig(t, `
This is not a valid TOML file
`))

	_, err := config.Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Failed to read config file")
}

func TestInvalidLogLevel(t *testing.T) {
	setArgs(t)
	t.Setenv("RIDEDIAG_CONFIG", writeConfig(t, `
log_level = "noisy"
`))

	_, err := config.Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Invalid log level")
}

func TestInvalidInterval(t *testing.T) {
	setArgs(t)
	t.Setenv("RIDEDIAG_CONFIG", writeConfig(t, `
interval_ms = 0
`))

	_, err := config.Load()
	require.Error(t, err)
}

func TestLogLevelFlag(t *testing.T) {
	setArgs(t, "--log-level", "debug")
	t.Setenv("RIDEDIAG_CONFIG", writeConfig(t, `
log_level = "error"
`))

	cfg, err := config.Load()
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.LogLevel, "Expected flag to win over config file")
}

func TestDiagConfigMapping(t *testing.T) {
	setArgs(t)
	t.Setenv("RIDEDIAG_CONFIG", writeConfig(t, `
min_gps_hz = 2.0
max_gps_accuracy_m = 15.0
motion_min_samples = 30
motion_window_ms = 600
`))

	cfg, err := config.Load()
	require.NoError(t, err)

	dc := cfg.DiagConfig()
	assert.Equal(t, 2.0, dc.MinGPSHz)
	assert.Equal(t, 15.0, dc.MaxGPSAccuracyM)
	assert.Equal(t, 30, dc.MotionMinSamples)
	assert.Equal(t, 600*time.Millisecond, dc.MotionWindow)
	assert.InDelta(t, 50.0, dc.MinMotionHz(), 0.001)

	assert.Equal(t, 2500*time.Millisecond, dc.ProblemHold, "hold windows keep core defaults")
	assert.Equal(t, 1500*time.Millisecond, dc.RecoveryHold)
}
