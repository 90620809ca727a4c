package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/fiberqueue/updatequeue/config"
)

func TestLoad_OverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "fiberctl.toml")
	contents := `
[priorities.levels]
immediate = 100

[server]
addr = "0.0.0.0:9999"
`
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))

	cfg, err := config.Load(path)
	require.NoError(t, err)

	require.Equal(t, "0.0.0.0:9999", cfg.Server.Addr)
	p, ok := cfg.Priorities.Lookup("immediate")
	require.True(t, ok)
	require.EqualValues(t, 100, p)

	// Defaults not mentioned in the file (log settings) are retained.
	require.Equal(t, "info", cfg.Log.Level)
	require.Equal(t, 10, cfg.Log.MaxSizeMB)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := config.Load(filepath.Join(t.TempDir(), "missing.toml"))
	require.Error(t, err)
}

func TestPriorityConfig_LookupUnknown(t *testing.T) {
	cfg := config.Default()
	_, ok := cfg.Priorities.Lookup("does-not-exist")
	require.False(t, ok)
}
