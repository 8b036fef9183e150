package config

import (
	"os"
	"path/filepath"
	"testing"

	"gofacets/internal/errors"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	chdir(t, t.TempDir())

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 10, cfg.Stats.HistogramBuckets)
	assert.Equal(t, 0, cfg.Stats.MaxCategoricalLevels)
	assert.Equal(t, "127.0.0.1:8090", cfg.Server.Addr)
	assert.Equal(t, "INFO", cfg.Logging.Level)
	assert.Empty(t, cfg.Render.TemplatePath)
}

func TestLoad_Environment(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("FACETS_HISTOGRAM_BUCKETS", "25")
	t.Setenv("FACETS_TEMP_DIR", "/var/tmp/facets")
	t.Setenv("FACETS_LOG_LEVEL", "DEBUG")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 25, cfg.Stats.HistogramBuckets)
	assert.Equal(t, "/var/tmp/facets", cfg.Render.TempDir)
	assert.Equal(t, "DEBUG", cfg.Logging.Level)
}

func TestLoad_ConfigFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "facets.toml"), []byte("max_categorical_levels = 20\nserver_addr = \"localhost:9999\"\n"), 0o644))
	chdir(t, dir)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 20, cfg.Stats.MaxCategoricalLevels)
	assert.Equal(t, "localhost:9999", cfg.Server.Addr)
}

func TestLoadWith_Validation(t *testing.T) {
	tests := []struct {
		name string
		key  string
		val  any
	}{
		{"zero buckets", "histogram_buckets", 0},
		{"negative levels", "max_categorical_levels", -1},
		{"empty addr", "server_addr", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			chdir(t, t.TempDir())
			v := viper.New()
			v.Set(tt.key, tt.val)

			_, err := LoadWith(v)
			require.Error(t, err)
			assert.Equal(t, errors.CodeConfigInvalid, errors.GetCode(err))
		})
	}
}

// chdir changes the working directory for the duration of the test
// (equivalent to testing.T.Chdir, which requires Go 1.24).
func chdir(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(prev) })
}
