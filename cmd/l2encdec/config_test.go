package main

import (
	"os"
	"path/filepath"
	"testing"

	log "github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
)

// Ensure NewConfig properly parses config files.
func TestNewConfigFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "l2encdec.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
protocol: 413
algorithm: blowfish
legacy: true
key_file: /keys/modern.pem
filename: l2.ini
header: Lineage2Ver413
skip_tail: true
output_dir: /out
format: json
log:
  level: debug
`), 0o600))

	config, err := NewConfig(path)
	require.NoError(t, err)

	require.Equal(t, 413, config.Protocol)
	require.Equal(t, "blowfish", config.Algorithm)
	require.True(t, config.Legacy)
	require.Equal(t, "/keys/modern.pem", config.KeyFile)
	require.Equal(t, "l2.ini", config.Filename)
	require.Equal(t, "Lineage2Ver413", config.Header)
	require.True(t, config.SkipTail)
	require.Equal(t, "/out", config.OutputDir)
	require.Equal(t, "json", config.Format)
	require.Equal(t, uint32(log.DebugLevel), config.LogLevel)
}

// Ensure that default config is loaded.
func TestNewConfigDefault(t *testing.T) {
	config, err := NewConfig("")
	require.NoError(t, err)
	require.Equal(t, 0, config.Protocol)
	require.Equal(t, "yaml", config.Format)
	require.Equal(t, uint32(log.InfoLevel), config.LogLevel)
}

// Ensure environment variables are applied.
func TestNewConfigFromEnv(t *testing.T) {
	t.Setenv("L2ENCDEC_PROTOCOL", "211")
	t.Setenv("L2ENCDEC_LOG_LEVEL", "warn")

	config, err := NewConfig("")
	require.NoError(t, err)
	require.Equal(t, 211, config.Protocol)
	require.Equal(t, uint32(log.WarnLevel), config.LogLevel)
}

// Ensure an invalid log level is rejected.
func TestNewConfigBadLogLevel(t *testing.T) {
	path := filepath.Join(t.TempDir(), "l2encdec.yaml")
	require.NoError(t, os.WriteFile(path, []byte("log:\n  level: loud\n"), 0o600))

	_, err := NewConfig(path)
	require.Error(t, err)
}

// Ensure a missing config file is an error.
func TestNewConfigMissingFile(t *testing.T) {
	_, err := NewConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}

func TestGetLogLevel(t *testing.T) {
	for name, want := range map[string]log.Level{
		"debug": log.DebugLevel,
		"INFO":  log.InfoLevel,
		"warn":  log.WarnLevel,
		"error": log.ErrorLevel,
	} {
		level, err := GetLogLevel(name)
		require.NoError(t, err)
		require.Equal(t, uint32(want), level)
	}

	_, err := GetLogLevel("trace")
	require.Error(t, err)
}
