package builtins

import (
	"fmt"
	"os"
)

// Pwd prints the absolute current working directory.
func Pwd(p *Proc) int {
	dir, err := os.Getwd()
	if err != nil {
		fmt.Fprintf(p.Stderr, "pwd: %v\n", err)
		return 1
	}

	fmt.Fprintln(p.Stdout, dir)
	return 0
}

func init() {
	register("pwd", Pwd)
}
