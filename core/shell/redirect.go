package shell

import "errors"

var (
	// ErrMissingRedirectTarget is returned when a redirection operator is the
	// last token of a segment.
	ErrMissingRedirectTarget = errors.New("missing redirection target")
	// ErrEmptyStage is returned when a pipeline segment has no command word.
	ErrEmptyStage = errors.New("empty pipeline stage")
)

// Mode selects how a redirection target file is opened.
type Mode int

const (
	// Truncate replaces the target file's contents.
	Truncate Mode = iota
	// Append adds to the end of the target file.
	Append
)

// Redirect binds one standard stream to a file.
type Redirect struct {
	Mode Mode
	Path string
}

// Redirections holds the per-stream redirects of a single command. A nil
// slot leaves that stream on its inherited destination.
type Redirections struct {
	Stdout *Redirect
	Stderr *Redirect
}

// Command is one pipeline stage: its argument vector and redirections.
// A non-nil Err marks a stage whose redirection extraction failed: the
// stage reports the error and never runs, but the rest of the pipeline is
// unaffected.
type Command struct {
	Argv   []string
	Redirs Redirections
	Err    error
}

// redirectOps maps operator tokens to the stream ("out"/"err") and mode they
// select. Matching is on the token text after tokenization, so an operator
// that was quoted in the source still counts; kept for compatibility.
var redirectOps = map[string]struct {
	stderr bool
	mode   Mode
}{
	">":   {false, Truncate},
	"1>":  {false, Truncate},
	">>":  {false, Append},
	"1>>": {false, Append},
	"2>":  {true, Truncate},
	"2>>": {true, Append},
}

// ExtractRedirections scans argv for the first redirection operator. The
// token after the operator becomes the target and argv is truncated right
// before the operator, so redirections are always trailing and anything
// after the first operator is dropped. Exactly this first-occurrence
// semantics is preserved for compatibility.
func ExtractRedirections(argv []string) (Command, error) {
	for i, tok := range argv {
		op, ok := redirectOps[tok]
		if !ok {
			continue
		}
		if i+1 >= len(argv) {
			return Command{}, ErrMissingRedirectTarget
		}

		redir := &Redirect{Mode: op.mode, Path: argv[i+1]}
		cmd := Command{Argv: argv[:i]}
		if op.stderr {
			cmd.Redirs.Stderr = redir
		} else {
			cmd.Redirs.Stdout = redir
		}
		return cmd, nil
	}

	return Command{Argv: argv}, nil
}

// Parse turns a raw line into its pipeline stages. An all-whitespace line
// yields zero stages; an empty segment between pipes is ErrEmptyStage.
func Parse(line string, maxArgs, maxStages int) ([]Command, error) {
	segments, err := SplitPipeline(line, maxStages)
	if err != nil {
		return nil, err
	}

	cmds := make([]Command, 0, len(segments))
	for _, seg := range segments {
		argv, err := Tokenize(seg, maxArgs)
		if err != nil {
			return nil, err
		}
		cmd, err := ExtractRedirections(argv)
		if err != nil {
			// Scoped to this segment only, unlike quoting errors which
			// reject the whole line.
			cmds = append(cmds, Command{Err: err})
			continue
		}
		if len(cmd.Argv) == 0 {
			if len(segments) == 1 && cmd.Redirs == (Redirections{}) {
				return nil, nil // blank line, nothing to run
			}
			return nil, ErrEmptyStage
		}
		cmds = append(cmds, cmd)
	}
	return cmds, nil
}
