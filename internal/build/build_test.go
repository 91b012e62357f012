package build

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/JiBB/songbook/internal/config"
	"github.com/JiBB/songbook/internal/songbook"
	"github.com/JiBB/songbook/internal/state"
)

var fixtureTemplates = map[string]string{
	"index.html":      `<title>{{ .Site.Title }}</title><a href="{{ url "/songs/" }}">songs</a>`,
	"songs.html":      `{{ range .Book.Songs }}<a href="{{ songURL . }}">{{ .Title }}</a>{{ end }}`,
	"categories.html": `{{ range .Book.Categories }}<a href="{{ categoryURL . }}">{{ .Name }}</a>{{ end }}`,
	"song.html":       `<h1>{{ .Song.Title }}</h1>{{ .Song.LyricsHTML }}{{ range .Song.See }}{{ if .Target }}<a href="{{ songURL .Target }}">{{ .Text }}</a>{{ else }}{{ .Text }}{{ end }}{{ end }}`,
	"category.html":   `<h1>{{ .Category.Name }}</h1>{{ range .Category.Songs }}<a href="{{ songURL . }}">{{ .Title }}</a>{{ end }}`,
}

func fixtureSource(t *testing.T, songs map[string]string) *config.Config {
	t.Helper()
	src := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(src, "songs"), 0o755))
	require.NoError(t, os.MkdirAll(filepath.Join(src, "templates"), 0o755))
	for name, contents := range songs {
		require.NoError(t, os.WriteFile(filepath.Join(src, "songs", name), []byte(contents), 0o644))
	}
	for name, contents := range fixtureTemplates {
		require.NoError(t, os.WriteFile(filepath.Join(src, "templates", name), []byte(contents), 0o644))
	}
	cfg := &config.Config{Source: src, Destination: filepath.Join(src, "site"), Site: config.SiteConfig{Title: "Test Book"}}
	require.NoError(t, cfg.Validate())
	return cfg
}

func TestRun_FullPipeline_WritesSite(t *testing.T) {
	cfg := fixtureSource(t, map[string]string{
		"alouette.txt": "Title: Alouette\nAKA: The Lark\nTags: French\n\nAlouette,\ngentille alouette.\n",
		"other.txt":    "Title: Other Song\nSee: The Lark\n\nla la\n",
	})

	b := &Builder{Config: cfg}
	res, err := b.Run(context.Background())
	require.NoError(t, err)
	require.Equal(t, 2, res.Songs)
	require.Equal(t, 1, res.Categories)

	require.FileExists(t, filepath.Join(cfg.Destination, "index.html"))
	require.FileExists(t, filepath.Join(cfg.Destination, "songs", "alouette", "index.html"))
	require.FileExists(t, filepath.Join(cfg.Destination, "categories", "french", "index.html"))

	// The See: entry resolved against the AKA and links to the target song.
	page, err := os.ReadFile(filepath.Join(cfg.Destination, "songs", "other-song", "index.html"))
	require.NoError(t, err)
	require.Contains(t, string(page), `<a href="/songs/alouette/">The Lark</a>`)

	// The soft-wrapped lyrics joined by a hard break inside one paragraph.
	lyrics, err := os.ReadFile(filepath.Join(cfg.Destination, "songs", "alouette", "index.html"))
	require.NoError(t, err)
	require.Contains(t, string(lyrics), "<br")
}

func TestRun_DuplicateSlug_FailsAndKeepsPreviousOutput(t *testing.T) {
	cfg := fixtureSource(t, map[string]string{
		"a.txt": "Title: Alouette\n\nla\n",
	})

	b := &Builder{Config: cfg}
	_, err := b.Run(context.Background())
	require.NoError(t, err)

	// Introduce a colliding title and rebuild.
	require.NoError(t, os.WriteFile(filepath.Join(cfg.Source, "songs", "b.txt"),
		[]byte("Title: Alouette!\n\nla\n"), 0o644))

	_, err = b.Run(context.Background())
	require.Error(t, err)
	var dup *songbook.DuplicateSlugError
	require.True(t, errors.As(err, &dup))

	// The failure happened before synchronization, so the previous tree stands.
	require.FileExists(t, filepath.Join(cfg.Destination, "songs", "alouette", "index.html"))
}

func TestRun_UnchangedInputs_ByteIdenticalPages(t *testing.T) {
	cfg := fixtureSource(t, map[string]string{
		"a.txt": "Title: Alouette\nTags: French\n\nla\nla\n",
	})

	b := &Builder{Config: cfg}
	_, err := b.Run(context.Background())
	require.NoError(t, err)
	first, err := os.ReadFile(filepath.Join(cfg.Destination, "songs", "alouette", "index.html"))
	require.NoError(t, err)

	_, err = b.Run(context.Background())
	require.NoError(t, err)
	second, err := os.ReadFile(filepath.Join(cfg.Destination, "songs", "alouette", "index.html"))
	require.NoError(t, err)

	// No template in the fixture renders build metadata, so pages are
	// byte-identical across runs.
	require.Equal(t, first, second)
}

func TestRun_WithStore_VersionCounterIncrements(t *testing.T) {
	cfg := fixtureSource(t, map[string]string{
		"a.txt": "Title: A\n\nla\n",
	})
	store, err := state.Open(":memory:")
	require.NoError(t, err)
	defer func() { _ = store.Close() }()

	b := &Builder{Config: cfg, Store: store}
	res1, err := b.Run(context.Background())
	require.NoError(t, err)
	res2, err := b.Run(context.Background())
	require.NoError(t, err)
	require.Equal(t, res1.Meta.Version+1, res2.Meta.Version)

	recent, err := store.Recent(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, recent, 2)
	require.Equal(t, state.StatusSuccess, recent[0].Status)
}

func TestRun_BadSongSkipped_BuildContinues(t *testing.T) {
	cfg := fixtureSource(t, map[string]string{
		"good.txt": "Title: Good\n\nla\n",
		"bad.txt":  "Tags: x\n\nla\n",
	})

	b := &Builder{Config: cfg}
	res, err := b.Run(context.Background())
	require.NoError(t, err)
	require.Equal(t, 1, res.Songs)
	require.Equal(t, 1, res.Skipped)
}
