package appconf

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnvFlagToEnvironment(t *testing.T) {
	tests := []struct {
		input    string
		expected Environment
	}{
		{"development", Development},
		{"test", Test},
		{"TEST", Test},
		{"production", Production},
		{"prod", Production},
		{" production ", Production},
		{"", Development},
		{"staging", Development},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, EnvFlagToEnvironment(tt.input))
		})
	}
}

func TestEnvironmentString(t *testing.T) {
	assert.Equal(t, "development", Development.String())
	assert.Equal(t, "test", Test.String())
	assert.Equal(t, "production", Production.String())
}

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()

	require.NoError(t, cfg.Validate())
	assert.Equal(t, 4000, cfg.Port)
	assert.Equal(t, DefaultOutagesURL, cfg.OutagesURL)
	assert.Equal(t, DefaultStationPaths, cfg.StationPaths)
}

func TestDefaultStationPathsNotShared(t *testing.T) {
	cfg := Default()
	cfg.StationPaths[0] = "changed"

	assert.Equal(t, "stops.txt", DefaultStationPaths[0])
}

func TestLoad(t *testing.T) {
	t.Run("no files returns defaults", func(t *testing.T) {
		cfg, used, err := Load([]string{filepath.Join(t.TempDir(), "missing.yml")})

		require.NoError(t, err)
		assert.Empty(t, used)
		assert.Equal(t, Default(), cfg)
	})

	t.Run("first existing file wins", func(t *testing.T) {
		dir := t.TempDir()
		first := filepath.Join(dir, "first.yml")
		second := filepath.Join(dir, "second.yml")
		require.NoError(t, os.WriteFile(first, []byte("port: 8081\nenv: production\nstationPaths: [a.txt, b.zip]\n"), 0o600))
		require.NoError(t, os.WriteFile(second, []byte("port: 9999\n"), 0o600))

		cfg, used, err := Load([]string{filepath.Join(dir, "missing.yml"), first, second})

		require.NoError(t, err)
		assert.Equal(t, first, used)
		assert.Equal(t, 8081, cfg.Port)
		assert.Equal(t, Production, cfg.Env)
		assert.Equal(t, []string{"a.txt", "b.zip"}, cfg.StationPaths)
		assert.Equal(t, DefaultOutagesURL, cfg.OutagesURL, "unset keys keep defaults")
	})

	t.Run("malformed yaml is an error", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "bad.yml")
		require.NoError(t, os.WriteFile(path, []byte("port: [not an int\n"), 0o600))

		_, _, err := Load([]string{path})

		assert.Error(t, err)
	})
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero port", func(c *Config) { c.Port = 0 }},
		{"port out of range", func(c *Config) { c.Port = 70000 }},
		{"negative rate limit", func(c *Config) { c.RateLimit = -1 }},
		{"bad outages url", func(c *Config) { c.OutagesURL = "not a url" }},
		{"empty outages url", func(c *Config) { c.OutagesURL = "" }},
		{"bad cors origin", func(c *Config) { c.CORSOrigins = []string{"::"} }},
		{"empty station path", func(c *Config) { c.StationPaths = []string{""} }},
		{"unknown env", func(c *Config) { c.EnvName = "staging" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)

			assert.Error(t, cfg.Validate())
		})
	}
}
