// Package builtins implements the commands the shell runs in-process. Each
// builtin is a pure function from its invocation context to an exit status,
// so it behaves identically whether the interpreter calls it at the top
// level or as a pipeline stage.
package builtins

import (
	"fmt"
	"io"
	"sort"

	getopt "github.com/pborman/getopt/v2"
	"github.com/spf13/afero"

	"josephlewis.net/gosh/core/history"
)

// Func is the body of a builtin. It must only touch the streams and state on
// the Proc so it can run anywhere the interpreter needs it to.
type Func func(p *Proc) int

// registry holds all builtins keyed by name. Membership is exact and
// case-sensitive; a builtin name is never resolved against PATH.
var registry = make(map[string]Func)

func register(name string, fn Func) {
	registry[name] = fn
}

// Lookup returns the builtin registered under name.
func Lookup(name string) (Func, bool) {
	fn, ok := registry[name]
	return fn, ok
}

// IsBuiltin reports whether name is a registered builtin.
func IsBuiltin(name string) bool {
	_, ok := registry[name]
	return ok
}

// Names lists the registered builtins in sorted order.
func Names() []string {
	out := make([]string, 0, len(registry))
	for name := range registry {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// Proc carries everything a builtin invocation may use: its argument vector
// (Args[0] is the builtin name), the streams it is bound to, and the shell
// state it collaborates with.
type Proc struct {
	Args   []string
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer

	// LookPath resolves an external command name, for `type`.
	LookPath func(name string) (string, error)

	// History is the session's command log; HistFS is where the `history`
	// builtin reads and writes files.
	History *history.Log
	HistFS  afero.Fs

	exitCode      int
	exitRequested bool
}

// RequestExit asks the caller to terminate with code. At the top level the
// shell flushes history and stops; inside a pipeline only the stage ends.
func (p *Proc) RequestExit(code int) {
	p.exitCode = code
	p.exitRequested = true
}

// ExitRequest reports whether the builtin asked to terminate, and with what.
func (p *Proc) ExitRequest() (int, bool) {
	return p.exitCode, p.exitRequested
}

// SimpleCommand handles flag parsing and help for builtins that take flags.
type SimpleCommand struct {
	// Use holds a one line usage string.
	Use string
	// Short holds a one line description of the command.
	Short string

	flags *getopt.Set
}

// Flags gets the command's flag set.
func (s *SimpleCommand) Flags() *getopt.Set {
	if s.flags == nil {
		s.flags = getopt.New()
	}

	return s.flags
}

// PrintHelp writes help for the command to the given writer.
func (s *SimpleCommand) PrintHelp(w io.Writer) {
	fmt.Fprint(w, "usage: ")
	fmt.Fprintln(w, s.Use)
	fmt.Fprintln(w, s.Short)
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Flags:")
	s.Flags().PrintOptions(w)
}

// Run parses the Proc's arguments and, if that succeeds, calls the callback.
func (s *SimpleCommand) Run(p *Proc, callback func() int) int {
	opts := s.Flags()

	if err := opts.Getopt(p.Args, nil); err != nil {
		fmt.Fprintf(p.Stderr, "%s: %v\n", p.Args[0], err)
		s.PrintHelp(p.Stderr)
		return 1
	}

	return callback()
}
