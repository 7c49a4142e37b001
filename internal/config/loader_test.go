package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}

func TestLoadFrom_DefaultsWithoutFiles(t *testing.T) {
	cfg, err := LoadFrom(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "copystudio-api", cfg.App.Name)
	assert.Equal(t, 8080, cfg.Server.HTTP.Port)
	assert.Equal(t, CatalogSourceBuiltin, cfg.Catalog.Source)
	assert.Equal(t, 5*time.Second, cfg.RunWatch.Interval)
	assert.Equal(t, 2.0, cfg.RunWatch.Backoff.Multiplier)
}

func TestLoadFrom_EnvOverlayAndPlaceholders(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "config.yaml", `
app:
  name: studio
catalog:
  source: file
  path: ${CATALOG_FILE:templates.yaml}
backend:
  base_url: ${BACKEND_URL}
`)
	writeFile(t, dir, "config.staging.yaml", `
server:
  http:
    port: 9090
`)
	t.Setenv("APP_ENV", "staging")
	t.Setenv("BACKEND_URL", "http://backend.internal")

	cfg, err := LoadFrom(dir)
	require.NoError(t, err)

	assert.Equal(t, "studio", cfg.App.Name)
	assert.Equal(t, 9090, cfg.Server.HTTP.Port)
	assert.Equal(t, "templates.yaml", cfg.Catalog.Path)
	assert.Equal(t, "http://backend.internal", cfg.Backend.BaseURL)
}

func TestLoadFrom_RejectsFileSourceWithoutPath(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "config.yaml", "catalog:\n  source: file\n")

	_, err := LoadFrom(dir)
	assert.Error(t, err)
}

func TestExpandEnv_KeepsUnknownPlaceholder(t *testing.T) {
	assert.Equal(t, "x=${COPYSTUDIO_UNSET_VAR}", expandEnv("x=${COPYSTUDIO_UNSET_VAR}"))
	assert.Equal(t, "x=fallback", expandEnv("x=${COPYSTUDIO_UNSET_VAR:fallback}"))
}

func TestValidate_ReportsAllProblems(t *testing.T) {
	cfg, err := LoadFrom(t.TempDir())
	require.NoError(t, err)

	cfg.Server.HTTP.Port = 0
	cfg.Observability.Logging.Format = "xml"
	cfg.Security.RateLimit.RequestsPerSecond = 0

	err = cfg.Validate()
	require.Error(t, err)
	for _, want := range []string{"server.http.port", "logging.format", "requests_per_second"} {
		assert.ErrorContains(t, err, want)
	}
}
