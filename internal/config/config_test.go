package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestDefault_FillsWorkingValues(t *testing.T) {
	cfg := Default()
	require.Equal(t, ".", cfg.Source)
	require.Equal(t, filepath.Join(".", "site"), cfg.Destination)
	require.Equal(t, "Songbook", cfg.Site.Title)
	require.True(t, cfg.Build.IsStrict())
	require.Equal(t, 200*time.Millisecond, cfg.Serve.QuietWindow)
}

func TestLoad_YAMLValues_Parsed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "songbook.yaml")
	data := `
source: ./book
keep:
  - .git
site:
  title: Camp Songs
  base_path: /songs
serve:
  port: 9000
  rebuild_every: 1h
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "./book", cfg.Source)
	require.Equal(t, filepath.Join("./book", "site"), cfg.Destination)
	require.Equal(t, []string{".git"}, cfg.Keep)
	require.Equal(t, "Camp Songs", cfg.Site.Title)
	require.Equal(t, 9000, cfg.Serve.Port)
	require.Equal(t, time.Hour, cfg.Serve.RebuildEvery)
	require.Equal(t, filepath.Join("./book", "songs"), cfg.SongsDir())
}

func TestLoad_EnvExpansion(t *testing.T) {
	t.Setenv("SONGBOOK_TITLE", "From Env")
	path := filepath.Join(t.TempDir(), "songbook.yaml")
	require.NoError(t, os.WriteFile(path, []byte("site:\n  title: ${SONGBOOK_TITLE}\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "From Env", cfg.Site.Title)
}

func TestLoad_InvalidPort_Rejected(t *testing.T) {
	path := filepath.Join(t.TempDir(), "songbook.yaml")
	require.NoError(t, os.WriteFile(path, []byte("serve:\n  port: 70000\n"), 0o644))

	_, err := Load(path)
	require.Error(t, err)
}

func TestLoadIfPresent_MissingFile_Defaults(t *testing.T) {
	cfg, err := LoadIfPresent(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	require.Equal(t, Default(), cfg)
}

func TestBuildConfig_StrictFalse_Honored(t *testing.T) {
	path := filepath.Join(t.TempDir(), "songbook.yaml")
	require.NoError(t, os.WriteFile(path, []byte("build:\n  strict: false\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.False(t, cfg.Build.IsStrict())
}
