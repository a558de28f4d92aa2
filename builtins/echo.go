package builtins

import (
	"fmt"
	"strings"
)

// Echo writes its arguments joined by single spaces plus a newline. It does
// no flag parsing: every argument is printed verbatim.
func Echo(p *Proc) int {
	fmt.Fprintln(p.Stdout, strings.Join(p.Args[1:], " "))
	return 0
}

func init() {
	register("echo", Echo)
}
