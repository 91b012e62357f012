// Package song defines the song data model and the per-file parser.
//
// A song file is a block of "Key: value" tag lines followed by the lyrics as
// Markdown. Parsing produces a Song with its lyrics already rendered; the
// cross-reference fields (Slug, See, Categories) are populated later by the
// corpus resolver and are immutable afterwards.
package song

import (
	"html/template"
	"strings"
)

// Recognized tag keys. Matching is case-sensitive.
const (
	KeyTitle     = "Title"
	KeyAKA       = "AKA"
	KeySee       = "See"
	KeyTags      = "Tags"
	KeySource    = "Source"
	KeyCopyright = "Copyright"
	KeyTune      = "Tune"
)

// Song is one parsed song. Fields up to Lyrics come from the source file;
// the remainder are derived.
type Song struct {
	Title     string
	AKA       []string
	Source    string
	Copyright string
	Tune      string

	// SeeRaw and TagsRaw hold the unresolved See:/Tags: values in file order.
	SeeRaw  []string
	TagsRaw []string

	// Extra holds unrecognized tag lines, preserved in order. Rendering
	// ignores them.
	Extra []ExtraTag

	Lyrics     string        // raw Markdown body
	LyricsHTML template.HTML // rendered lyrics
	FirstLine  string        // first rendered line, inline markup stripped

	File string // source filename, for diagnostics

	// Populated by the corpus resolver.
	Slug       string
	See        []CrossRef
	Categories []CategoryRef
}

// ExtraTag is an unrecognized "key: value" line kept as opaque metadata.
type ExtraTag struct {
	Key   string
	Value string
}

// CrossRef is a See: entry. Target is nil when the text matched zero or
// several songs; such entries render as plain text.
type CrossRef struct {
	Text   string
	Target *Song
}

// CategoryRef pairs a song's tag value, in original casing and order, with
// the category it resolved to.
type CategoryRef struct {
	Text     string
	Category *Category
}

// Category is the set of songs sharing a tag value. Identity is the slug of
// the tag value; Name keeps the casing of the first occurrence. Songs is
// sorted by title (case-insensitive) once resolution finishes and holds weak
// references only.
type Category struct {
	Name  string
	Slug  string
	Songs []*Song
}

// SortKey returns the case-insensitive ordering key used for song lists.
func (s *Song) SortKey() string {
	return strings.ToLower(s.Title)
}
