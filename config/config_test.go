package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gostore/config"
)

func TestLoadConfig_Defaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/gostore")
	t.Setenv("JWT_SECRET_KEY", "segredo")

	cfg, err := config.LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, 5*time.Second, cfg.DBTimeout)
	assert.Equal(t, 5*time.Minute, cfg.CacheTTL)
	assert.Equal(t, 60*time.Minute, cfg.TokenExpiry)
	assert.Equal(t, 100, cfg.RateLimitMaxRequests)
	assert.Empty(t, cfg.SquareLocations)
}

func TestLoadConfig_MissingRequired(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	t.Setenv("JWT_SECRET_KEY", "segredo")

	_, err := config.LoadConfig()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "DATABASE_URL")
}

func TestLoadConfig_InvalidNumberFallsBack(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/gostore")
	t.Setenv("JWT_SECRET_KEY", "segredo")
	t.Setenv("DB_TIMEOUT_SEC", "abc")

	cfg, err := config.LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, 5*time.Second, cfg.DBTimeout)
}

func TestParseSquareLocationMap(t *testing.T) {
	m := config.ParseSquareLocationMap(" loc-1=SQ1, loc-2 = SQ2 ,quebrado,=SQ3,")

	assert.Equal(t, config.SquareLocationMap{"loc-1": "SQ1", "loc-2": "SQ2"}, m)

	id, ok := m.Lookup("loc-2")
	assert.True(t, ok)
	assert.Equal(t, "SQ2", id)

	_, ok = config.SquareLocationMap(nil).Lookup("loc-1")
	assert.False(t, ok)
}

func TestLoadConfig_SquareFileAndEnvOverride(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "square.yaml")
	yamlContent := `locations:
  loc-1:
    square_location_id: FILE1
  loc-2:
    square_location_id: FILE2
  loc-3: {}
`
	require.NoError(t, os.WriteFile(path, []byte(yamlContent), 0o600))

	t.Setenv("DATABASE_URL", "postgres://localhost/gostore")
	t.Setenv("JWT_SECRET_KEY", "segredo")
	t.Setenv("SQUARE_LOCATION_FILE", path)
	t.Setenv("SQUARE_LOCATION_MAP", "loc-2=ENV2")

	cfg, err := config.LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, config.SquareLocationMap{"loc-1": "FILE1", "loc-2": "ENV2"}, cfg.SquareLocations)
}

func TestLoadSquareLocationFile_Missing(t *testing.T) {
	_, err := config.LoadSquareLocationFile(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}
