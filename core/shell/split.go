package shell

import (
	"errors"
	"strings"
)

// ErrTooManyStages is returned when a line has more pipeline stages than the
// configured limit allows.
var ErrTooManyStages = errors.New("too many pipeline stages")

// SplitPipeline cuts a raw line into pipeline segments on every '|'.
//
// The scan happens on the raw text before tokenization, so a pipe inside
// quotes still splits the line. This matches the historical behavior of the
// shell and is kept deliberately; see the package tests for both the quoted
// and unquoted cases.
func SplitPipeline(line string, maxStages int) ([]string, error) {
	segments := strings.Split(line, "|")
	if maxStages > 0 && len(segments) > maxStages {
		return nil, ErrTooManyStages
	}
	return segments, nil
}
