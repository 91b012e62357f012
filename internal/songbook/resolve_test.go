package songbook

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/JiBB/songbook/internal/song"
)

func parseAll(t *testing.T, files map[string]string) []*song.Song {
	t.Helper()
	p := &song.Parser{Strict: true}
	var songs []*song.Song
	for name, raw := range files {
		s, err := p.Parse(raw, name)
		require.NoError(t, err)
		songs = append(songs, s)
	}
	return songs
}

func TestResolve_DistinctTitles_UniqueSlugs(t *testing.T) {
	songs := parseAll(t, map[string]string{
		"a.txt": "Title: Alouette\n\nla\n",
		"b.txt": "Title: Kookaburra\n\nla\n",
	})

	book, err := Resolve(songs, Meta{})
	require.NoError(t, err)
	require.Equal(t, 2, book.SongCount())

	seen := map[string]bool{}
	for _, s := range book.Songs {
		require.NotEmpty(t, s.Slug)
		require.False(t, seen[s.Slug])
		seen[s.Slug] = true
	}
}

func TestResolve_DuplicateSlug_FailsNamingBothTitles(t *testing.T) {
	songs := parseAll(t, map[string]string{
		"a.txt": "Title: Alouette!\n\nla\n",
		"b.txt": "Title: Alouette\n\nla\n",
	})

	_, err := Resolve(songs, Meta{})
	require.Error(t, err)

	var dup *DuplicateSlugError
	require.True(t, errors.As(err, &dup))
	require.Equal(t, "alouette", dup.Slug)
	require.ElementsMatch(t, []string{"Alouette!", "Alouette"}, []string{dup.TitleA, dup.TitleB})
}

func TestResolve_SeeMatchingAKA_ResolvesToLink(t *testing.T) {
	p := &song.Parser{Strict: true}
	alouette, err := p.Parse("Title: Alouette\nAKA: The Lark\n\nAlouette,\ngentille alouette.\n", "a.txt")
	require.NoError(t, err)
	other, err := p.Parse("Title: Other\nSee: The Lark\n\nla\n", "b.txt")
	require.NoError(t, err)

	_, err = Resolve([]*song.Song{alouette, other}, Meta{})
	require.NoError(t, err)

	require.Len(t, other.See, 1)
	require.Equal(t, "The Lark", other.See[0].Text)
	require.Same(t, alouette, other.See[0].Target)
}

func TestResolve_SeeMatchingNothing_StaysPlainText(t *testing.T) {
	songs := parseAll(t, map[string]string{
		"a.txt": "Title: A\nSee: No Such Song\n\nla\n",
	})

	book, err := Resolve(songs, Meta{})
	require.NoError(t, err)
	require.Len(t, book.Songs[0].See, 1)
	require.Nil(t, book.Songs[0].See[0].Target)
}

func TestResolve_SeeMatchingMultipleSongs_StaysPlainText(t *testing.T) {
	p := &song.Parser{Strict: true}
	a, err := p.Parse("Title: A\nAKA: Shared Name\n\nla\n", "a.txt")
	require.NoError(t, err)
	b, err := p.Parse("Title: B\nAKA: Shared Name\n\nla\n", "b.txt")
	require.NoError(t, err)
	c, err := p.Parse("Title: C\nSee: Shared Name\n\nla\n", "c.txt")
	require.NoError(t, err)

	_, err = Resolve([]*song.Song{a, b, c}, Meta{})
	require.NoError(t, err)
	require.Nil(t, c.See[0].Target)
}

func TestResolve_SeeMatchIsCaseSensitive(t *testing.T) {
	p := &song.Parser{Strict: true}
	a, err := p.Parse("Title: Alouette\n\nla\n", "a.txt")
	require.NoError(t, err)
	b, err := p.Parse("Title: B\nSee: alouette\n\nla\n", "b.txt")
	require.NoError(t, err)

	_, err = Resolve([]*song.Song{a, b}, Meta{})
	require.NoError(t, err)
	require.Nil(t, b.See[0].Target)
}

func TestResolve_Categories_SortedMembersNoDuplicates(t *testing.T) {
	p := &song.Parser{Strict: true}
	zebra, err := p.Parse("Title: Zebra Song\nTags: Folk, folk\n\nla\n", "z.txt")
	require.NoError(t, err)
	apple, err := p.Parse("Title: apple song\nTags: Folk\n\nla\n", "a.txt")
	require.NoError(t, err)

	book, err := Resolve([]*song.Song{zebra, apple}, Meta{})
	require.NoError(t, err)

	require.Len(t, book.Categories, 1)
	cat := book.Categories[0]
	require.Equal(t, "Folk", cat.Name)
	// Sorted case-insensitively, no duplicate membership for "Folk, folk".
	require.Equal(t, []*song.Song{apple, zebra}, cat.Songs)
}

func TestResolve_CategoryDisplayCasing_FirstOccurrenceWins(t *testing.T) {
	p := &song.Parser{Strict: true}
	a, err := p.Parse("Title: A\nTags: SEA shanty\n\nla\n", "a.txt")
	require.NoError(t, err)
	b, err := p.Parse("Title: B\nTags: Sea Shanty\n\nla\n", "b.txt")
	require.NoError(t, err)

	book, err := Resolve([]*song.Song{a, b}, Meta{})
	require.NoError(t, err)

	require.Len(t, book.Categories, 1)
	require.Equal(t, "SEA shanty", book.Categories[0].Name)
	// The later song's ref keeps its own display text but points at the
	// first-occurrence category.
	require.Equal(t, "Sea Shanty", b.Categories[0].Text)
	require.Same(t, book.Categories[0], b.Categories[0].Category)
}

func TestResolve_CategoryOrder_FirstOccurrence(t *testing.T) {
	p := &song.Parser{Strict: true}
	a, err := p.Parse("Title: A\nTags: Rounds, Ballads\n\nla\n", "a.txt")
	require.NoError(t, err)
	b, err := p.Parse("Title: B\nTags: Camp\n\nla\n", "b.txt")
	require.NoError(t, err)

	book, err := Resolve([]*song.Song{a, b}, Meta{})
	require.NoError(t, err)

	var names []string
	for _, c := range book.Categories {
		names = append(names, c.Name)
	}
	require.Equal(t, []string{"Rounds", "Ballads", "Camp"}, names)
}

func TestResolve_SongList_SortedByTitleCaseInsensitive(t *testing.T) {
	songs := parseAll(t, map[string]string{
		"1.txt": "Title: banana\n\nla\n",
		"2.txt": "Title: Apple\n\nla\n",
		"3.txt": "Title: Cherry\n\nla\n",
	})

	book, err := Resolve(songs, Meta{})
	require.NoError(t, err)

	var titles []string
	for _, s := range book.Songs {
		titles = append(titles, s.Title)
	}
	require.Equal(t, []string{"Apple", "banana", "Cherry"}, titles)
}
