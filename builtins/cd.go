package builtins

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// Cd changes the working directory. With no argument or "~" it goes to
// $HOME; "~/x" is resolved under it. On failure the directory is unchanged
// and the offending path is reported with the reason.
func Cd(p *Proc) int {
	target := ""
	if len(p.Args) > 1 {
		target = p.Args[1]
	}

	switch {
	case target == "" || target == "~":
		home := os.Getenv("HOME")
		if home == "" {
			fmt.Fprintln(p.Stderr, "cd: HOME not set")
			return 1
		}
		target = home
	case strings.HasPrefix(target, "~/"):
		home := os.Getenv("HOME")
		if home == "" {
			fmt.Fprintln(p.Stderr, "cd: HOME not set")
			return 1
		}
		target = filepath.Join(home, target[2:])
	}

	if err := os.Chdir(target); err != nil {
		fmt.Fprintf(p.Stderr, "cd: %s: %s\n", target, chdirReason(err))
		return 1
	}
	return 0
}

func chdirReason(err error) string {
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return "No such file or directory"
	case errors.Is(err, fs.ErrPermission):
		return "Permission denied"
	default:
		var pathErr *fs.PathError
		if errors.As(err, &pathErr) {
			return pathErr.Err.Error()
		}
		return err.Error()
	}
}

func init() {
	register("cd", Cd)
}
