package songbook

import (
	"fmt"
	"log/slog"
	"sort"

	"github.com/JiBB/songbook/internal/slug"
	"github.com/JiBB/songbook/internal/song"
)

// DuplicateSlugError reports two songs whose titles produce the same slug.
// Fatal: two songs cannot share a destination path.
type DuplicateSlugError struct {
	Slug   string
	TitleA string
	TitleB string
}

func (e *DuplicateSlugError) Error() string {
	return fmt.Sprintf("songs %q and %q both have the slug %q", e.TitleA, e.TitleB, e.Slug)
}

// Resolve builds a Songbook from parsed songs.
//
// Resolution is single-pass over a lookup index built up front: songs may
// reference songs defined later in the source tree, so no references are
// resolved until every song has been parsed.
func Resolve(songs []*song.Song, meta Meta) (*Songbook, error) {
	bySlug := make(map[string]*song.Song, len(songs))
	for _, s := range songs {
		s.Slug = slug.Make(s.Title)
		if s.Slug == "" {
			return nil, fmt.Errorf("song %q (%s) produces an empty slug", s.Title, s.File)
		}
		if prev, ok := bySlug[s.Slug]; ok {
			return nil, &DuplicateSlugError{Slug: s.Slug, TitleA: prev.Title, TitleB: s.Title}
		}
		bySlug[s.Slug] = s
	}

	// Title/AKA lookup index; matches are case-sensitive. A name may map to
	// several songs, in which case references to it stay unresolved.
	byName := make(map[string][]*song.Song)
	for _, s := range songs {
		byName[s.Title] = append(byName[s.Title], s)
		for _, aka := range s.AKA {
			byName[aka] = append(byName[aka], s)
		}
	}

	var categories []*song.Category
	catBySlug := map[string]*song.Category{}
	members := map[string]map[string]bool{}

	for _, s := range songs {
		s.See = make([]song.CrossRef, 0, len(s.SeeRaw))
		for _, text := range s.SeeRaw {
			ref := song.CrossRef{Text: text}
			switch matches := byName[text]; len(matches) {
			case 1:
				ref.Target = matches[0]
			case 0:
				slog.Info("Unresolved song reference", "song", s.Title, "see", text)
			default:
				slog.Warn("Ambiguous song reference, rendering as plain text",
					"song", s.Title, "see", text, "matches", len(matches))
			}
			s.See = append(s.See, ref)
		}

		s.Categories = make([]song.CategoryRef, 0, len(s.TagsRaw))
		for _, tag := range s.TagsRaw {
			cslug := slug.Make(tag)
			if cslug == "" {
				slog.Warn("Tag produces an empty category slug, skipping",
					"song", s.Title, "tag", tag)
				s.Categories = append(s.Categories, song.CategoryRef{Text: tag})
				continue
			}
			cat, ok := catBySlug[cslug]
			if !ok {
				// First occurrence fixes the display casing.
				cat = &song.Category{Name: tag, Slug: cslug}
				catBySlug[cslug] = cat
				categories = append(categories, cat)
				members[cslug] = map[string]bool{}
			}
			s.Categories = append(s.Categories, song.CategoryRef{Text: tag, Category: cat})
			if !members[cslug][s.Slug] {
				members[cslug][s.Slug] = true
				cat.Songs = append(cat.Songs, s)
			}
		}
	}

	sorted := make([]*song.Song, len(songs))
	copy(sorted, songs)
	sortSongs(sorted)
	for _, cat := range categories {
		sortSongs(cat.Songs)
	}

	return &Songbook{Songs: sorted, Categories: categories, Meta: meta}, nil
}

// sortSongs orders songs by title case-insensitively, with the exact title
// and then the slug as tie-breaks so ordering is deterministic.
func sortSongs(songs []*song.Song) {
	sort.Slice(songs, func(i, j int) bool {
		a, b := songs[i], songs[j]
		if ka, kb := a.SortKey(), b.SortKey(); ka != kb {
			return ka < kb
		}
		if a.Title != b.Title {
			return a.Title < b.Title
		}
		return a.Slug < b.Slug
	})
}
