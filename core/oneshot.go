package core

import (
	"os"

	"github.com/spf13/afero"

	"josephlewis.net/gosh/core/config"
	"josephlewis.net/gosh/core/history"
	"josephlewis.net/gosh/core/interp"
)

// RunOnce executes a single command line non-interactively on the process's
// standard streams and returns its exit status. Used by `gosh -c`.
func RunOnce(cfg *config.Configuration, line string) int {
	in := interp.New(cfg, history.NewLog(), afero.NewOsFs(), os.Stdin, os.Stdout, os.Stderr)

	status := in.RunLine(line)
	if code, ok := in.TakeExitRequest(); ok {
		return code
	}
	return status
}
