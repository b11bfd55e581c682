package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	path := writeConfig(t, "app:\n  env: dev\n")

	cfg, err := Load(path, false)
	require.NoError(t, err)

	require.Equal(t, ":8080", cfg.Server.HTTPAddr)
	require.Equal(t, 10*time.Second, cfg.Probe.Timeout)
	require.Equal(t, 15, cfg.Health.SampleSize)
	require.Equal(t, 3, cfg.Health.BatchSize)
	require.Equal(t, 48*time.Hour, cfg.Health.Window)
	require.Equal(t, 5, cfg.Health.Tolerance)
	require.Equal(t, "/badge.svg", cfg.Badge.BadgePath)
	require.Equal(t, "https://web.archive.org/save", cfg.Archive.SaveBaseURL)
	require.Equal(t, "main", cfg.Export.Branch)
	require.Equal(t, "data/tools.json", cfg.Export.DataFilePath)
	require.Equal(t, "TOOLS.md", cfg.Export.IndexFilePath)
	require.Equal(t, 168*time.Hour, cfg.RepoMeta.Staleness)
	require.True(t, cfg.Cron.Enabled)
	require.False(t, cfg.Notify.Enabled)
}

func TestLoad_FileOverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
app:
  site_url: "https://tools.example.com"
health:
  sample_size: 30
  window: 24h
export:
  owner: acme
  repo: tool-directory
`)

	cfg, err := Load(path, false)
	require.NoError(t, err)
	require.Equal(t, "https://tools.example.com", cfg.App.SiteURL)
	require.Equal(t, 30, cfg.Health.SampleSize)
	require.Equal(t, 24*time.Hour, cfg.Health.Window)
	require.Equal(t, "acme", cfg.Export.Owner)
	// Untouched keys keep their defaults.
	require.Equal(t, 5, cfg.Health.Tolerance)
}

func TestLoad_EnvOverride(t *testing.T) {
	t.Setenv("TI_HEALTH_SAMPLE_SIZE", "7")
	t.Setenv("TI_GITHUB_TOKEN", "ghp_test")

	path := writeConfig(t, "app:\n  env: dev\n")
	cfg, err := Load(path, false)
	require.NoError(t, err)
	require.Equal(t, 7, cfg.Health.SampleSize)
	require.Equal(t, "ghp_test", cfg.GitHub.Token)
}

func TestLoad_EnvOnlySkipsFile(t *testing.T) {
	cfg, err := Load("does-not-exist.yaml", true)
	require.NoError(t, err)
	require.Equal(t, ":8080", cfg.Server.HTTPAddr)
}

func TestLoad_MissingFileFails(t *testing.T) {
	_, err := Load("does-not-exist.yaml", false)
	require.Error(t, err)
}
