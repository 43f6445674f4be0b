package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joshharrison/pathloom/internal/cpm"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{"PATHLOOM_MAX_PATHS", "PATHLOOM_MAX_STEPS", "PATHLOOM_LOG_LEVEL", "NO_COLOR"} {
		t.Setenv(k, "")
	}
}

func TestLoad_MissingFileGivesDefaults(t *testing.T) {
	clearEnv(t)
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
	assert.Equal(t, cpm.DefaultLimits(), cfg.CPMLimits())
}

func TestLoad_EmptyPath(t *testing.T) {
	clearEnv(t)
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.True(t, cfg.Output.Color)
}

func TestLoad_FileOverridesDefaults(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "pathloom.yaml")
	data := []byte("limits:\n  max_paths: 10\n  max_steps: 0\nlogging:\n  format: json\n")
	require.NoError(t, os.WriteFile(path, data, 0644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 10, cfg.Limits.MaxPaths)
	assert.Equal(t, 0, cfg.Limits.MaxSteps)
	assert.Equal(t, "json", cfg.Logging.Format)
	assert.Equal(t, "info", cfg.Logging.Level, "unset keys keep their default")
}

func TestLoad_BadYAML(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("limits: [1, 2"), 0644))

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse config")
}

func TestLoad_RejectsInvalidValues(t *testing.T) {
	clearEnv(t)
	cases := map[string]string{
		"negative paths": "limits:\n  max_paths: -1\n",
		"negative steps": "limits:\n  max_steps: -5\n",
		"bad level":      "logging:\n  level: loud\n",
		"bad format":     "logging:\n  format: xml\n",
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "c.yaml")
			require.NoError(t, os.WriteFile(path, []byte(body), 0644))
			_, err := Load(path)
			require.Error(t, err)
		})
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Run("limits", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("PATHLOOM_MAX_PATHS", "7")
		t.Setenv("PATHLOOM_MAX_STEPS", "0")

		cfg, err := Load("")
		require.NoError(t, err)
		assert.Equal(t, cpm.Limits{MaxPaths: 7, MaxSteps: 0}, cfg.CPMLimits())
	})

	t.Run("non-numeric limit", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("PATHLOOM_MAX_STEPS", "lots")

		_, err := Load("")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "PATHLOOM_MAX_STEPS")
	})

	t.Run("log level", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("PATHLOOM_LOG_LEVEL", "debug")

		cfg, err := Load("")
		require.NoError(t, err)
		assert.Equal(t, "debug", cfg.Logging.Level)
	})

	t.Run("NO_COLOR", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("NO_COLOR", "1")

		cfg, err := Load("")
		require.NoError(t, err)
		assert.False(t, cfg.Output.Color)
	})
}
