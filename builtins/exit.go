package builtins

import (
	"fmt"
	"strconv"
)

// Exit requests shell termination with the given status, default 0.
func Exit(p *Proc) int {
	code := 0
	if len(p.Args) > 1 {
		parsed, err := strconv.Atoi(p.Args[1])
		if err != nil {
			fmt.Fprintf(p.Stderr, "exit: %s: numeric argument required\n", p.Args[1])
			parsed = 2
		}
		code = parsed
	}

	p.RequestExit(code)
	return code
}

func init() {
	register("exit", Exit)
}
