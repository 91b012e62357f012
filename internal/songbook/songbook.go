// Package songbook aggregates parsed songs into a fully resolved corpus:
// unique slugs, the title/AKA lookup index, See cross-references, and the
// category registry.
package songbook

import (
	"time"

	"github.com/JiBB/songbook/internal/song"
)

// Meta is the build metadata rendered into every page footer.
type Meta struct {
	Version   int64  // monotonically increasing build counter
	Commit    string // short commit id of the source tree, "none" outside git
	BuildID   string
	Generated time.Time
}

// Songbook is the aggregate root for one build. Songs are sorted by title
// (case-insensitive), Categories by first occurrence. Nothing in a Songbook
// outlives the build that produced it.
type Songbook struct {
	Songs      []*song.Song
	Categories []*song.Category
	Meta       Meta
}

// SongCount returns the number of songs in the corpus.
func (b *Songbook) SongCount() int {
	return len(b.Songs)
}
