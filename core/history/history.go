// Package history keeps the in-memory command log and its file persistence.
// The flush watermark lives on the Log value itself so repeated appends stay
// additive without any process-wide state.
package history

import (
	"bufio"
	"os"
	"strings"

	"github.com/spf13/afero"
)

// Log is an ordered record of the lines entered this session plus any lines
// loaded from a history file. flushed counts the leading entries that have
// already been written out.
type Log struct {
	entries []string
	flushed int
}

// NewLog returns an empty history log.
func NewLog() *Log {
	return &Log{}
}

// Add records a line at the end of the log.
func (l *Log) Add(line string) {
	l.entries = append(l.entries, line)
}

// Len reports the number of recorded entries.
func (l *Log) Len() int {
	return len(l.entries)
}

// Entries returns a copy of the full log in order.
func (l *Log) Entries() []string {
	out := make([]string, len(l.entries))
	copy(out, l.entries)
	return out
}

// Last returns up to n trailing entries along with the zero-based absolute
// index of the first one, so callers can print stable 1-based numbering.
func (l *Log) Last(n int) (start int, entries []string) {
	if n < 0 || n > len(l.entries) {
		n = len(l.entries)
	}
	start = len(l.entries) - n
	return start, l.Entries()[start:]
}

// MarkFlushed moves the watermark past everything recorded so far, so a
// later AppendNew writes only entries added after this call.
func (l *Log) MarkFlushed() {
	l.flushed = len(l.entries)
}

// Load reads a history file and appends its lines to the log. The flush
// watermark is left alone; loaded lines count as unflushed.
func (l *Log) Load(fsys afero.Fs, path string) error {
	f, err := fsys.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		if line := scanner.Text(); line != "" {
			l.entries = append(l.entries, line)
		}
	}
	return scanner.Err()
}

// WriteAll overwrites path with the entire log and marks everything flushed.
func (l *Log) WriteAll(fsys afero.Fs, path string) error {
	var sb strings.Builder
	for _, e := range l.entries {
		sb.WriteString(e)
		sb.WriteByte('\n')
	}
	if err := afero.WriteFile(fsys, path, []byte(sb.String()), 0600); err != nil {
		return err
	}
	l.flushed = len(l.entries)
	return nil
}

// AppendNew appends only the entries recorded since the last flush, then
// advances the watermark. Calling it again without new entries is a no-op.
func (l *Log) AppendNew(fsys afero.Fs, path string) error {
	if l.flushed >= len(l.entries) {
		return nil
	}

	f, err := fsys.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0600)
	if err != nil {
		return err
	}
	defer f.Close()

	for _, e := range l.entries[l.flushed:] {
		if _, err := f.WriteString(e + "\n"); err != nil {
			return err
		}
	}
	l.flushed = len(l.entries)
	return nil
}
