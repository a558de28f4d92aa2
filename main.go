package main

import (
	"os"

	"josephlewis.net/gosh/cmd"
)

func main() {
	os.Exit(cmd.Execute())
}
