package song

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
	xhtml "golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Lyrics are soft-wrapped text: a single newline inside a paragraph is a
// deliberate line break, so the renderer emits <br> for it (hard wraps), while
// blank lines still separate paragraphs. Typographer matches the smart-quote
// handling songbooks have always had.
var lyricsMarkdown = goldmark.New(
	goldmark.WithExtensions(extension.Typographer),
	goldmark.WithRendererOptions(html.WithHardWraps()),
)

func renderLyrics(body string) (string, error) {
	var buf bytes.Buffer
	if err := lyricsMarkdown.Convert([]byte(body), &buf); err != nil {
		return "", fmt.Errorf("render lyrics: %w", err)
	}
	return buf.String(), nil
}

// firstLine extracts the first rendered line of a lyrics HTML fragment with
// all inline markup (em, strong, ...) stripped. The line ends at the first
// <br> or at the end of the first block element.
func firstLine(lyricsHTML string) string {
	tok := xhtml.NewTokenizer(strings.NewReader(lyricsHTML))
	var b strings.Builder
	depth := 0
loop:
	for {
		switch tok.Next() {
		case xhtml.ErrorToken:
			break loop
		case xhtml.TextToken:
			b.Write(tok.Text())
		case xhtml.StartTagToken, xhtml.SelfClosingTagToken:
			name, _ := tok.TagName()
			if atom.Lookup(name) == atom.Br {
				if strings.TrimSpace(b.String()) != "" {
					break loop
				}
				continue
			}
			depth++
		case xhtml.EndTagToken:
			depth--
			// Closing the outermost block ends the line even without a <br>.
			if depth <= 0 && strings.TrimSpace(b.String()) != "" {
				break loop
			}
		}
	}
	return strings.TrimSpace(b.String())
}
