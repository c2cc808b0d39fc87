package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoad_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg := Load()
	assert.Equal(t, "meterseed", cfg.AppName)
	assert.Equal(t, "https://api.m3ter.com", cfg.APIBaseURL)
	assert.Equal(t, "https://ingest.m3ter.com", cfg.IngestURL)
	assert.Equal(t, "catalog.yaml", cfg.CatalogPath)
	assert.Equal(t, ".", cfg.CheckpointDir)
	assert.Equal(t, 30, cfg.HTTPTimeoutSeconds)
	assert.False(t, cfg.SkipExisting)
	assert.False(t, cfg.PartialCheckpoint)
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("M3TER_API_URL", "https://api.example.test/")
	t.Setenv("M3TER_ORG_ID", " org-1 ")
	t.Setenv("SKIP_EXISTING", "yes")
	t.Setenv("CHECKPOINT_PARTIAL", "1")
	t.Setenv("HTTP_TIMEOUT_SECONDS", "5")

	cfg := Load()
	assert.Equal(t, "https://api.example.test", cfg.APIBaseURL)
	assert.Equal(t, "org-1", cfg.OrgID)
	assert.True(t, cfg.SkipExisting)
	assert.True(t, cfg.PartialCheckpoint)
	assert.Equal(t, 5, cfg.HTTPTimeoutSeconds)
}
