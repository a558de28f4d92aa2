package builtins

import "fmt"

// Type reports how a name would be dispatched: as a builtin, as an external
// command found on PATH, or not at all.
func Type(p *Proc) int {
	if len(p.Args) < 2 {
		fmt.Fprintln(p.Stderr, "type: missing argument")
		return 1
	}

	name := p.Args[1]
	if IsBuiltin(name) {
		fmt.Fprintf(p.Stdout, "%s is a shell builtin\n", name)
		return 0
	}

	if p.LookPath != nil {
		if path, err := p.LookPath(name); err == nil {
			fmt.Fprintf(p.Stdout, "%s is %s\n", name, path)
			return 0
		}
	}

	fmt.Fprintf(p.Stdout, "%s: not found\n", name)
	return 1
}

func init() {
	register("type", Type)
}
