// Package interp executes parsed command lines: it dispatches builtins,
// launches external processes and orchestrates pipelines, keeping the
// file-descriptor discipline those need.
package interp

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"

	"github.com/charmbracelet/log"
	"github.com/spf13/afero"

	"josephlewis.net/gosh/builtins"
	"josephlewis.net/gosh/core/config"
	"josephlewis.net/gosh/core/history"
	"josephlewis.net/gosh/core/shell"
)

// Interp runs command lines against a fixed set of streams. It is
// single-threaded: RunLine blocks until everything the line spawned has been
// waited for.
type Interp struct {
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer

	cfg     *config.Configuration
	history *history.Log
	histFS  afero.Fs

	exitCode      int
	exitRequested bool
}

// New returns an interpreter bound to the given streams.
func New(cfg *config.Configuration, hist *history.Log, histFS afero.Fs, stdin io.Reader, stdout, stderr io.Writer) *Interp {
	return &Interp{
		Stdin:   stdin,
		Stdout:  stdout,
		Stderr:  stderr,
		cfg:     cfg,
		history: hist,
		histFS:  histFS,
	}
}

// TakeExitRequest reports whether the last line asked the shell to stop and
// clears the request.
func (in *Interp) TakeExitRequest() (int, bool) {
	code, ok := in.exitCode, in.exitRequested
	in.exitCode, in.exitRequested = 0, false
	return code, ok
}

// RunLine parses and executes one input line, returning its exit status.
// Quoting and limit errors reject the whole line: nothing executes. A
// redirection error is scoped to its stage; the rest of the pipeline runs.
func (in *Interp) RunLine(line string) int {
	cmds, err := shell.Parse(line, in.cfg.MaxArgs, in.cfg.MaxPipelineStages)
	if err != nil {
		fmt.Fprintf(in.Stderr, "gosh: %v\n", err)
		return 1
	}

	switch len(cmds) {
	case 0:
		return 0
	case 1:
		return in.runCommand(cmds[0], in.Stdin, in.Stdout, in.Stderr, true)
	default:
		return in.runPipeline(cmds)
	}
}

// runCommand dispatches one stage on the given streams. topLevel marks the
// direct single-command path, where an exit request propagates to the shell;
// inside a pipeline it only ends the stage.
func (in *Interp) runCommand(cmd shell.Command, stdin io.Reader, stdout, stderr io.Writer, topLevel bool) int {
	if cmd.Err != nil {
		fmt.Fprintf(in.Stderr, "gosh: %v\n", cmd.Err)
		return 1
	}

	stdout, stderr, closers, err := in.openRedirects(cmd.Redirs, stdout, stderr)
	if err != nil {
		fmt.Fprintf(in.Stderr, "gosh: %v\n", err)
		return 1
	}
	defer closeAll(closers)

	if fn, ok := builtins.Lookup(cmd.Argv[0]); ok {
		p := in.newProc(cmd.Argv, stdin, stdout, stderr)
		status := fn(p)
		if code, ok := p.ExitRequest(); ok && topLevel {
			in.exitCode, in.exitRequested = code, true
		}
		return status
	}

	return in.runExternal(cmd.Argv, stdin, stdout, stderr)
}

// runExternal resolves and runs a single external command, blocking until it
// terminates. Resolution failure spawns nothing and reports on stdout.
func (in *Interp) runExternal(argv []string, stdin io.Reader, stdout, stderr io.Writer) int {
	path, err := LookPath(argv[0])
	if err != nil {
		fmt.Fprintf(stdout, "%s: command not found\n", argv[0])
		return 1
	}

	log.Debug("starting process", "path", path, "argv", argv)
	cmd := &exec.Cmd{
		Path:   path,
		Args:   argv,
		Stdin:  stdin,
		Stdout: stdout,
		Stderr: stderr,
	}
	if err := cmd.Start(); err != nil {
		fmt.Fprintf(in.Stderr, "gosh: %s: %v\n", argv[0], err)
		return 1
	}

	return exitStatus(cmd.Wait())
}

func (in *Interp) newProc(argv []string, stdin io.Reader, stdout, stderr io.Writer) *builtins.Proc {
	return &builtins.Proc{
		Args:     argv,
		Stdin:    stdin,
		Stdout:   stdout,
		Stderr:   stderr,
		LookPath: LookPath,
		History:  in.history,
		HistFS:   in.histFS,
	}
}

// openRedirects opens each redirection target and rebinds the matching
// stream. The returned closers must be closed once the stage is done.
func (in *Interp) openRedirects(r shell.Redirections, stdout, stderr io.Writer) (io.Writer, io.Writer, []io.Closer, error) {
	var closers []io.Closer

	open := func(redir *shell.Redirect) (*os.File, error) {
		flags := os.O_CREATE | os.O_WRONLY
		if redir.Mode == shell.Append {
			flags |= os.O_APPEND
		} else {
			flags |= os.O_TRUNC
		}
		f, err := os.OpenFile(redir.Path, flags, 0644)
		if err != nil {
			return nil, fmt.Errorf("cannot open %s: %w", redir.Path, err)
		}
		closers = append(closers, f)
		return f, nil
	}

	if r.Stdout != nil {
		f, err := open(r.Stdout)
		if err != nil {
			closeAll(closers)
			return nil, nil, nil, err
		}
		stdout = f
	}
	if r.Stderr != nil {
		f, err := open(r.Stderr)
		if err != nil {
			closeAll(closers)
			return nil, nil, nil, err
		}
		stderr = f
	}

	return stdout, stderr, closers, nil
}

func closeAll(closers []io.Closer) {
	for _, c := range closers {
		c.Close()
	}
}

// exitStatus maps a Wait result to an integer status: a normal exit keeps
// its code, abnormal termination becomes 1.
func exitStatus(err error) int {
	if err == nil {
		return 0
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		if code := exitErr.ExitCode(); code >= 0 {
			return code
		}
	}
	return 1
}
