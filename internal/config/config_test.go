package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	v, err := Load("", nil)
	require.NoError(t, err)

	require.Equal(t, "http://localhost:8080", v.GetString("url"))
	require.Equal(t, "file", v.GetString("state.backend"))
	require.False(t, v.GetBool("state.enabled"))
	require.True(t, v.GetBool("perfdata"))
	require.Equal(t, "info", v.GetString("logging.level"))
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cicheck.yaml")
	require.NoError(t, os.WriteFile(path, []byte("url: http://ci.internal:8080\nstate:\n  enabled: true\n"), 0o644))

	v, err := Load(path, nil)
	require.NoError(t, err)

	require.Equal(t, "http://ci.internal:8080", v.GetString("url"))
	require.True(t, v.GetBool("state.enabled"))
	// Untouched keys keep their defaults.
	require.Equal(t, "10s", v.GetString("timeout"))
}

func TestLoadExplicitMissingFileFails(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"), nil)
	require.Error(t, err)
}

func TestLoadFlagsOverrideFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cicheck.yaml")
	require.NoError(t, os.WriteFile(path, []byte("url: http://from-file\n"), 0o644))

	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	fs.String("url", "http://localhost:8080", "")
	require.NoError(t, fs.Parse([]string{"--url", "http://from-flag"}))

	v, err := Load(path, fs)
	require.NoError(t, err)
	require.Equal(t, "http://from-flag", v.GetString("url"))
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("CICHECK_STATE_BACKEND", "sqlite")

	v, err := Load("", nil)
	require.NoError(t, err)
	require.Equal(t, "sqlite", v.GetString("state.backend"))
}

func TestNewLogger(t *testing.T) {
	v, err := Load("", nil)
	require.NoError(t, err)

	logger, err := NewLogger(v)
	require.NoError(t, err)
	require.NotNil(t, logger)

	v.Set("logging.level", "sideways")
	_, err = NewLogger(v)
	require.Error(t, err)

	v.Set("logging.level", "debug")
	v.Set("logging.format", "xml")
	_, err = NewLogger(v)
	require.Error(t, err)
}
