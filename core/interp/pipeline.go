package interp

import (
	"fmt"
	"io"
	"os"
	"os/exec"
	"sync"

	"github.com/charmbracelet/log"

	"josephlewis.net/gosh/builtins"
	"josephlewis.net/gosh/core/shell"
)

// pipe holds one connection between adjacent stages. An end is set to nil
// once its ownership moves to a stage goroutine; whatever is left belongs to
// the orchestrator and is closed after all stages have started.
type pipe struct {
	r, w *os.File
}

// syncWriter serializes writes to a destination shared by concurrently
// running stages.
type syncWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func (s *syncWriter) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.w.Write(p)
}

// sharedWriter wraps w for concurrent use by multiple stages. An *os.File is
// passed through untouched: the kernel already handles concurrent writes, and
// wrapping it would cost external stages their directly inherited fd.
func sharedWriter(w io.Writer) io.Writer {
	if _, ok := w.(*os.File); ok {
		return w
	}
	return &syncWriter{w: w}
}

// runPipeline wires n >= 2 stages together and joins them all.
//
// Every pipe is created before anything starts, so a pipe failure spawns
// nothing. External stages get the pipe *os.File ends directly; builtin
// stages run in a goroutine that owns (and closes) the ends it was given.
// After the start loop the orchestrator closes every end it still holds;
// leaving one open would keep a reader alive forever. A start failure stops
// spawning but everything already started is still joined, never leaked.
//
// The pipeline's status is the last stage's status.
func (in *Interp) runPipeline(cmds []shell.Command) int {
	n := len(cmds)

	pipes := make([]pipe, n-1)
	for i := range pipes {
		r, w, err := os.Pipe()
		if err != nil {
			for _, p := range pipes[:i] {
				p.r.Close()
				p.w.Close()
			}
			fmt.Fprintf(in.Stderr, "gosh: pipe: %v\n", err)
			return 1
		}
		pipes[i] = pipe{r: r, w: w}
	}

	// Stage goroutines run concurrently, so the interpreter's own streams
	// are serialized before being shared across stages.
	sharedStdout := sharedWriter(in.Stdout)
	sharedStderr := sharedWriter(in.Stderr)

	waiters := make([]func() int, 0, n)
	aborted := false

	for i, cmd := range cmds {
		if cmd.Err != nil {
			// Same shape as command-not-found below: the stage reports and
			// never runs, its neighbors see EOF once the orchestrator closes
			// the pipe ends it still holds.
			fmt.Fprintf(sharedStderr, "gosh: %v\n", cmd.Err)
			waiters = append(waiters, func() int { return 1 })
			continue
		}

		var stdinFile, stdoutFile *os.File
		var stdin io.Reader = in.Stdin
		var stdout io.Writer = sharedStdout
		if i > 0 {
			stdinFile = pipes[i-1].r
			stdin = stdinFile
		}
		if i < n-1 {
			stdoutFile = pipes[i].w
			stdout = stdoutFile
		}

		stdout, stderr, closers, err := in.openRedirects(cmd.Redirs, stdout, sharedStderr)
		if err != nil {
			fmt.Fprintf(sharedStderr, "gosh: %v\n", err)
			aborted = true
			break
		}

		if fn, ok := builtins.Lookup(cmd.Argv[0]); ok {
			// The stage goroutine takes over these pipe ends.
			var owned []*os.File
			if stdinFile != nil {
				pipes[i-1].r = nil
				owned = append(owned, stdinFile)
			}
			if stdoutFile != nil {
				pipes[i].w = nil
				owned = append(owned, stdoutFile)
			}

			p := in.newProc(cmd.Argv, stdin, stdout, stderr)
			done := make(chan int, 1)
			go func(owned []*os.File, closers []io.Closer) {
				status := fn(p)
				closeAll(closers)
				for _, f := range owned {
					f.Close()
				}
				done <- status
			}(owned, closers)

			waiters = append(waiters, func() int { return <-done })
			continue
		}

		path, err := LookPath(cmd.Argv[0])
		if err != nil {
			// The stage never runs; its neighbors see EOF once the
			// orchestrator closes the pipe ends below.
			fmt.Fprintf(stdout, "%s: command not found\n", cmd.Argv[0])
			closeAll(closers)
			waiters = append(waiters, func() int { return 1 })
			continue
		}

		log.Debug("starting pipeline stage", "stage", i, "path", path)
		c := &exec.Cmd{
			Path:   path,
			Args:   cmd.Argv,
			Stdin:  stdin,
			Stdout: stdout,
			Stderr: stderr,
		}
		if err := c.Start(); err != nil {
			fmt.Fprintf(sharedStderr, "gosh: %s: %v\n", cmd.Argv[0], err)
			closeAll(closers)
			aborted = true
			break
		}
		// The child holds its own copies of the redirect fds now.
		closeAll(closers)
		waiters = append(waiters, func() int { return exitStatus(c.Wait()) })
	}

	// Mandatory cleanup: close every pipe end the orchestrator still owns.
	for _, p := range pipes {
		if p.r != nil {
			p.r.Close()
		}
		if p.w != nil {
			p.w.Close()
		}
	}

	// Joint wait, order-independent. Runs even after an abort so already
	// spawned stages are always reaped.
	statuses := make([]int, len(waiters))
	var wg sync.WaitGroup
	for idx, wait := range waiters {
		wg.Add(1)
		go func(idx int, wait func() int) {
			defer wg.Done()
			statuses[idx] = wait()
		}(idx, wait)
	}
	wg.Wait()

	if aborted || len(statuses) == 0 {
		return 1
	}
	return statuses[len(statuses)-1]
}
