package songbook

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/JiBB/songbook/internal/song"
)

func writeSongs(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, contents := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(contents), 0o644))
	}
	return dir
}

func TestLoadDirectory_OnlyTxtFiles_Parsed(t *testing.T) {
	dir := writeSongs(t, map[string]string{
		"a.txt":    "Title: A\n\nla\n",
		"notes.md": "not a song",
		"README":   "also not a song",
		"b.txt":    "Title: B\n\nla\n",
	})

	songs, report, err := LoadDirectory(dir, &song.Parser{Strict: true})
	require.NoError(t, err)
	require.Len(t, songs, 2)
	require.Empty(t, report.Failures)
	require.Equal(t, 2, report.Parsed)
}

func TestLoadDirectory_BadSong_SkippedAndReported(t *testing.T) {
	dir := writeSongs(t, map[string]string{
		"good.txt":     "Title: Good\n\nla\n",
		"untitled.txt": "Tags: x\n\nla\n",
	})

	songs, report, err := LoadDirectory(dir, &song.Parser{Strict: true})
	require.NoError(t, err)
	require.Len(t, songs, 1)
	require.Equal(t, "Good", songs[0].Title)
	require.Len(t, report.Failures, 1)
	require.Contains(t, report.Failures[0].File, "untitled.txt")
}

func TestLoadDirectory_MissingDirectory_Fatal(t *testing.T) {
	_, _, err := LoadDirectory(filepath.Join(t.TempDir(), "absent"), &song.Parser{Strict: true})
	require.Error(t, err)
}
