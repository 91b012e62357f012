package commands

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
)

// InitCmd scaffolds a songbook source directory: config, an example song,
// the required templates, and a stylesheet.
type InitCmd struct {
	Force bool `help:"Overwrite existing files."`
}

const initConfig = `# Songbook configuration. Every value is optional.
site:
  title: My Songbook
  # base_path: /songbook
keep:
  - .git
`

const initSong = `Title: Alouette
AKA: The Lark
Tags: French, Folk
Source: Traditional

Alouette, gentille alouette,
Alouette, je te plumerai.
`

var initTemplates = map[string]string{
	"index.html": `<!DOCTYPE html>
<html>
<head><title>{{ .Site.Title }}</title><link rel="stylesheet" href="{{ url "/style.css" }}"></head>
<body>
<h1>{{ .Site.Title }}</h1>
<nav><a href="{{ url "/songs/" }}">Songs</a> <a href="{{ url "/categories/" }}">Categories</a></nav>
<footer>{{ .Book.SongCount }} songs &middot; build {{ .Book.Meta.Version }} ({{ .Book.Meta.Commit }})</footer>
</body>
</html>
`,
	"songs.html": `<!DOCTYPE html>
<html>
<head><title>Songs - {{ .Site.Title }}</title><link rel="stylesheet" href="{{ url "/style.css" }}"></head>
<body>
<h1>Songs</h1>
<ul>{{ range .Book.Songs }}<li><a href="{{ songURL . }}">{{ .Title }}</a></li>{{ end }}</ul>
</body>
</html>
`,
	"categories.html": `<!DOCTYPE html>
<html>
<head><title>Categories - {{ .Site.Title }}</title><link rel="stylesheet" href="{{ url "/style.css" }}"></head>
<body>
<h1>Categories</h1>
<ul>{{ range .Book.Categories }}<li><a href="{{ categoryURL . }}">{{ .Name }}</a> ({{ len .Songs }})</li>{{ end }}</ul>
</body>
</html>
`,
	"song.html": `<!DOCTYPE html>
<html>
<head><title>{{ .Song.Title }} - {{ .Site.Title }}</title><link rel="stylesheet" href="{{ url "/style.css" }}"></head>
<body>
<h1>{{ .Song.Title }}</h1>
{{ if .Song.AKA }}<p class="aka">AKA: {{ range $i, $a := .Song.AKA }}{{ if $i }}, {{ end }}{{ $a }}{{ end }}</p>{{ end }}
{{ if .Song.Tune }}<p class="tune">Tune: {{ .Song.Tune }}</p>{{ end }}
<div class="lyrics">{{ .Song.LyricsHTML }}</div>
{{ if .Song.See }}<p class="see">See also: {{ range $i, $ref := .Song.See }}{{ if $i }}, {{ end }}{{ if $ref.Target }}<a href="{{ songURL $ref.Target }}">{{ $ref.Text }}</a>{{ else }}{{ $ref.Text }}{{ end }}{{ end }}</p>{{ end }}
{{ if .Song.Categories }}<p class="tags">{{ range $i, $ref := .Song.Categories }}{{ if $i }}, {{ end }}{{ if $ref.Category }}<a href="{{ categoryURL $ref.Category }}">{{ $ref.Text }}</a>{{ else }}{{ $ref.Text }}{{ end }}{{ end }}</p>{{ end }}
{{ if .Song.Source }}<p class="source">{{ .Song.Source }}</p>{{ end }}
{{ if .Song.Copyright }}<p class="copyright">{{ .Song.Copyright }}</p>{{ end }}
</body>
</html>
`,
	"category.html": `<!DOCTYPE html>
<html>
<head><title>{{ .Category.Name }} - {{ .Site.Title }}</title><link rel="stylesheet" href="{{ url "/style.css" }}"></head>
<body>
<h1>{{ .Category.Name }}</h1>
<ul>{{ range .Category.Songs }}<li><a href="{{ songURL . }}">{{ .Title }}</a></li>{{ end }}</ul>
</body>
</html>
`,
}

const initStyle = `body { font-family: Georgia, serif; max-width: 40rem; margin: 2rem auto; padding: 0 1rem; }
.lyrics p { white-space: normal; }
.aka, .tune, .source, .copyright { color: #666; font-style: italic; }
footer { margin-top: 3rem; color: #999; font-size: 0.8rem; }
`

func (i *InitCmd) Run(_ *Global, root *CLI) error {
	source := root.Source
	if source == "" {
		source = "."
	}

	files := map[string]string{
		filepath.Join(source, "songbook.yaml"):         initConfig,
		filepath.Join(source, "songs", "alouette.txt"): initSong,
		filepath.Join(source, "static", "style.css"):   initStyle,
	}
	for name, contents := range initTemplates {
		files[filepath.Join(source, "templates", name)] = contents
	}

	for path, contents := range files {
		if _, err := os.Stat(path); err == nil && !i.Force {
			return fmt.Errorf("%s already exists (use --force to overwrite)", path)
		}
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return err
		}
		if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
			return err
		}
	}

	slog.Info("Songbook scaffolded", "source", source)
	return nil
}
