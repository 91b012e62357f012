package song

import (
	"errors"
	"fmt"
)

// ErrMissingTitle marks a song file with no Title: tag. Use errors.Is against
// the *ParseError returned by the parser.
var ErrMissingTitle = errors.New("song has no Title tag")

// ParseError reports a malformed song file. Per-song errors are recoverable:
// the corpus loader collects them and continues with the remaining songs.
type ParseError struct {
	File string
	Line int
	Msg  string
	Err  error
}

func (e *ParseError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("%s:%d: %s", e.File, e.Line, e.Msg)
	}
	return fmt.Sprintf("%s: %s", e.File, e.Msg)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

func missingTitle(file string) *ParseError {
	return &ParseError{File: file, Msg: "missing Title tag", Err: ErrMissingTitle}
}
