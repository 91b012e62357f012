// Package render assembles page contexts and renders them through the site's
// html/template set, producing HTML keyed by destination-relative path.
package render

import (
	"bytes"
	"fmt"
	"html/template"
	"log/slog"
	"path"
	"path/filepath"
	"strings"

	"github.com/JiBB/songbook/internal/song"
	"github.com/JiBB/songbook/internal/songbook"
)

// Required templates; a build cannot proceed without them.
var requiredTemplates = []string{
	"index.html",
	"songs.html",
	"categories.html",
	"song.html",
	"category.html",
}

// Optional pages, rendered only when their template exists.
var optionalPages = []string{"about", "bytitle", "bycategory", "firstlines"}

// TemplateNotFoundError reports a missing required template. Fatal; missing
// optional templates are skipped silently instead.
type TemplateNotFoundError struct {
	Name string
}

func (e *TemplateNotFoundError) Error() string {
	return fmt.Sprintf("required template %q not found", e.Name)
}

// Site carries the per-site values every page context receives.
type Site struct {
	Title    string
	BasePath string // link prefix for hosting under a sub-path, "" or "/sub"
}

// Renderer renders a resolved Songbook into pages.
type Renderer struct {
	tmpl *template.Template
	site Site
}

// Context is the data every template executes against. Song and Category are
// set only on their respective per-entity pages.
type Context struct {
	Site     Site
	Book     *songbook.Songbook
	Song     *song.Song
	Category *song.Category
}

// New loads every *.html template from dir. Which templates are actually
// present is checked during RenderAll, so optional ones may be absent.
func New(dir string, site Site) (*Renderer, error) {
	site.BasePath = normalizeBasePath(site.BasePath)
	r := &Renderer{site: site}

	funcs := template.FuncMap{
		"url":         r.url,
		"songURL":     r.songURL,
		"categoryURL": r.categoryURL,
	}

	matches, err := filepath.Glob(filepath.Join(dir, "*.html"))
	if err != nil {
		return nil, fmt.Errorf("scan templates: %w", err)
	}
	if len(matches) == 0 {
		return nil, &TemplateNotFoundError{Name: requiredTemplates[0]}
	}
	tmpl, err := template.New("").Funcs(funcs).ParseFiles(matches...)
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	r.tmpl = tmpl
	return r, nil
}

// RenderAll renders every page of the songbook. Keys are destination-relative
// file paths (directory-style URLs backed by index.html files).
func (r *Renderer) RenderAll(book *songbook.Songbook) (map[string]string, error) {
	pages := map[string]string{}

	render := func(outPath, name string, ctx Context) error {
		ctx.Site = r.site
		ctx.Book = book
		var buf bytes.Buffer
		if err := r.tmpl.ExecuteTemplate(&buf, name, ctx); err != nil {
			return fmt.Errorf("render %s: %w", name, err)
		}
		pages[outPath] = buf.String()
		return nil
	}

	for _, name := range requiredTemplates {
		if r.tmpl.Lookup(name) == nil {
			return nil, &TemplateNotFoundError{Name: name}
		}
	}

	if err := render("index.html", "index.html", Context{}); err != nil {
		return nil, err
	}
	if err := render("songs/index.html", "songs.html", Context{}); err != nil {
		return nil, err
	}
	if err := render("categories/index.html", "categories.html", Context{}); err != nil {
		return nil, err
	}
	for _, s := range book.Songs {
		out := path.Join("songs", s.Slug, "index.html")
		if err := render(out, "song.html", Context{Song: s}); err != nil {
			return nil, err
		}
	}
	for _, c := range book.Categories {
		out := path.Join("categories", c.Slug, "index.html")
		if err := render(out, "category.html", Context{Category: c}); err != nil {
			return nil, err
		}
	}
	for _, name := range optionalPages {
		tmplName := name + ".html"
		if r.tmpl.Lookup(tmplName) == nil {
			slog.Debug("Optional template absent, skipping page", "template", tmplName)
			continue
		}
		if err := render(path.Join(name, "index.html"), tmplName, Context{}); err != nil {
			return nil, err
		}
	}

	slog.Info("Rendered pages", "count", len(pages))
	return pages, nil
}

// url prefixes a site-absolute link with the configured base path. Physical
// output paths are never prefixed; only rendered links are.
func (r *Renderer) url(p string) string {
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	return r.site.BasePath + p
}

func (r *Renderer) songURL(s *song.Song) string {
	return r.url("/songs/" + s.Slug + "/")
}

func (r *Renderer) categoryURL(c *song.Category) string {
	return r.url("/categories/" + c.Slug + "/")
}

func normalizeBasePath(p string) string {
	p = strings.TrimRight(p, "/")
	if p != "" && !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	return p
}
