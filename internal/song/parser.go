package song

import (
	"html/template"
	"log/slog"
	"path/filepath"
	"strings"
)

// Parser turns raw song file contents into Song records.
//
// In strict mode a file without a Title: tag is a parse error. Otherwise the
// title falls back to the filename with underscores as spaces, matching how
// hand-maintained songbooks name their files.
type Parser struct {
	Strict bool
}

// recognizedKeys maps tag keys to whether their value is comma-separated.
var recognizedKeys = map[string]bool{
	KeyTitle:     false,
	KeySource:    false,
	KeyCopyright: false,
	KeyTune:      false,
	KeyAKA:       true,
	KeySee:       true,
	KeyTags:      true,
}

// Parse parses one song file. filename is used for diagnostics and, in
// non-strict mode, as the title fallback.
//
// Tag lines are "key: value" pairs read from the top of the file. The lyrics
// begin at the first blank line or at the first line with no colon, whichever
// comes first; from then on nothing is reinterpreted as a tag, colons or not.
func (p *Parser) Parse(raw, filename string) (*Song, error) {
	lines := strings.Split(raw, "\n")
	s := &Song{File: filename}

	seen := map[string]bool{}
	body := len(lines)
	for i, line := range lines {
		if strings.TrimSpace(line) == "" {
			body = i + 1
			break
		}
		key, value, ok := strings.Cut(line, ":")
		if !ok {
			body = i
			break
		}
		key = strings.TrimSpace(key)
		value = strings.TrimSpace(value)

		if !isRecognized(key) {
			slog.Debug("Keeping unrecognized tag as metadata",
				"key", key, "file", filename, "line", i+1)
			s.Extra = append(s.Extra, ExtraTag{Key: key, Value: value})
			continue
		}
		if seen[key] {
			slog.Warn("Ignoring duplicate tag", "key", key, "file", filename, "line", i+1)
			continue
		}
		seen[key] = true

		switch key {
		case KeyTitle:
			s.Title = value
		case KeySource:
			s.Source = value
		case KeyCopyright:
			s.Copyright = value
		case KeyTune:
			s.Tune = value
		case KeyAKA:
			s.AKA = splitList(value)
		case KeySee:
			s.SeeRaw = splitList(value)
		case KeyTags:
			s.TagsRaw = splitList(value)
		}
	}

	s.Lyrics = strings.Trim(strings.Join(lines[body:], "\n"), "\n")

	if s.Title == "" {
		if p.Strict {
			return nil, missingTitle(filename)
		}
		s.Title = titleFromFilename(filename)
		slog.Warn("No title found, falling back on filename",
			"file", filename, "title", s.Title)
	}

	html, err := renderLyrics(s.Lyrics)
	if err != nil {
		return nil, &ParseError{File: filename, Msg: "lyrics rendering failed", Err: err}
	}
	s.LyricsHTML = template.HTML(html)
	s.FirstLine = firstLine(html)
	return s, nil
}

func isRecognized(key string) bool {
	_, ok := recognizedKeys[key]
	return ok
}

// splitList splits a comma-separated tag value, trimming each element and
// dropping empties.
func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func titleFromFilename(filename string) string {
	base := filepath.Base(filename)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	return strings.ReplaceAll(base, "_", " ")
}
