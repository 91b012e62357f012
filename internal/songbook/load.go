package songbook

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/JiBB/songbook/internal/song"
)

// SongExtension is the file extension song files must carry.
const SongExtension = ".txt"

// FileError is one song file that could not be loaded or parsed.
type FileError struct {
	File string
	Err  error
}

// LoadReport collects the per-file failures of a corpus scan. One bad song
// must not abort the whole build, so failures are batched and reported at the
// end of the scan instead of aborting on the first one.
type LoadReport struct {
	Parsed   int
	Failures []FileError
}

// Log emits one warning per failed file plus a summary. No-op when the scan
// was clean.
func (r *LoadReport) Log() {
	for _, f := range r.Failures {
		slog.Warn("Skipping song", "file", f.File, "error", f.Err)
	}
	if len(r.Failures) > 0 {
		slog.Warn("Some songs could not be loaded",
			"failed", len(r.Failures), "parsed", r.Parsed)
	}
}

// LoadDirectory parses every *.txt file directly inside dir (no recursion).
// Unreadable or malformed files are recorded in the report and skipped; a
// missing or unreadable directory is fatal.
func LoadDirectory(dir string, parser *song.Parser) ([]*song.Song, *LoadReport, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, nil, fmt.Errorf("read songs directory: %w", err)
	}

	report := &LoadReport{}
	var songs []*song.Song
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != SongExtension {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		raw, err := os.ReadFile(path)
		if err != nil {
			report.Failures = append(report.Failures, FileError{File: path, Err: err})
			continue
		}
		s, err := parser.Parse(string(raw), entry.Name())
		if err != nil {
			report.Failures = append(report.Failures, FileError{File: path, Err: err})
			continue
		}
		songs = append(songs, s)
	}
	report.Parsed = len(songs)
	slog.Info("Parsed songs", "count", len(songs), "dir", dir)
	return songs, report, nil
}
