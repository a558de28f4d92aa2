// Package shell turns raw input lines into pipelines of commands: it
// tokenizes quoted/escaped words, splits on pipes and extracts trailing
// redirections. It performs no execution.
package shell

import (
	"errors"
	"strings"
)

var (
	// ErrUnclosedQuote is returned when input ends inside a quoted region.
	ErrUnclosedQuote = errors.New("unclosed quote")
	// ErrTooManyArgs is returned when a segment exceeds the argument limit.
	ErrTooManyArgs = errors.New("too many arguments")
)

type tokenizeState int

const (
	stateNormal tokenizeState = iota
	stateSingleQuote
	stateDoubleQuote
)

// doubleQuoteEscapable are the only characters a backslash escapes inside
// double quotes. Before any other character the backslash is literal.
const doubleQuoteEscapable = "\"\\$`\n"

// Tokenize splits a command segment into words.
//
// Outside quotes runs of spaces and tabs delimit words and a backslash
// escapes exactly the next character. Single quotes preserve everything
// literally. Inside double quotes a backslash only escapes the characters in
// doubleQuoteEscapable; otherwise both the backslash and the following
// character pass through unchanged.
//
// Input ending inside a quote is ErrUnclosedQuote. A word count above
// maxArgs is ErrTooManyArgs; it is reported, never silently truncated.
func Tokenize(line string, maxArgs int) ([]string, error) {
	var args []string
	var buf strings.Builder
	haveToken := false

	flush := func() error {
		if !haveToken {
			return nil
		}
		if maxArgs > 0 && len(args) >= maxArgs {
			return ErrTooManyArgs
		}
		args = append(args, buf.String())
		buf.Reset()
		haveToken = false
		return nil
	}

	state := stateNormal
	runes := []rune(line)
	for i := 0; i < len(runes); i++ {
		ch := runes[i]

		switch state {
		case stateNormal:
			switch {
			case ch == ' ' || ch == '\t':
				if err := flush(); err != nil {
					return nil, err
				}
			case ch == '\'':
				state = stateSingleQuote
				haveToken = true
			case ch == '"':
				state = stateDoubleQuote
				haveToken = true
			case ch == '\\':
				// A trailing backslash has nothing to escape; drop it.
				if i+1 < len(runes) {
					i++
					buf.WriteRune(runes[i])
					haveToken = true
				}
			default:
				buf.WriteRune(ch)
				haveToken = true
			}

		case stateSingleQuote:
			if ch == '\'' {
				state = stateNormal
			} else {
				buf.WriteRune(ch)
			}

		case stateDoubleQuote:
			switch {
			case ch == '"':
				state = stateNormal
			case ch == '\\' && i+1 < len(runes):
				next := runes[i+1]
				if strings.ContainsRune(doubleQuoteEscapable, next) {
					buf.WriteRune(next)
				} else {
					buf.WriteRune('\\')
					buf.WriteRune(next)
				}
				i++
			default:
				buf.WriteRune(ch)
			}
		}
	}

	if state != stateNormal {
		return nil, ErrUnclosedQuote
	}
	if err := flush(); err != nil {
		return nil, err
	}

	return args, nil
}
