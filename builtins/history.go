package builtins

import (
	"fmt"
	"strconv"
)

// History prints the session's command log or syncs it with a file. With no
// arguments it lists every entry with 1-based absolute indices; a numeric
// argument limits the listing to the last N entries without renumbering
// them. The file flags delegate to the history collaborator: -r loads a
// file into the log, -w overwrites a file with the whole log, and -a appends
// only the entries recorded since the last flush.
func History(p *Proc) int {
	cmd := &SimpleCommand{
		Use:   "history [N | -r FILE | -w FILE | -a FILE]",
		Short: "Display or persist the command history.",
	}

	opts := cmd.Flags()
	readFile := opts.StringLong("read", 'r', "", "load FILE into the history list")
	writeFile := opts.StringLong("write", 'w', "", "write the full history list to FILE")
	appendFile := opts.StringLong("append", 'a', "", "append entries added since the last flush to FILE")

	return cmd.Run(p, func() int {
		switch {
		case *readFile != "":
			if err := p.History.Load(p.HistFS, *readFile); err != nil {
				fmt.Fprintf(p.Stderr, "history: %v\n", err)
				return 1
			}
			return 0

		case *writeFile != "":
			if err := p.History.WriteAll(p.HistFS, *writeFile); err != nil {
				fmt.Fprintf(p.Stderr, "history: %v\n", err)
				return 1
			}
			return 0

		case *appendFile != "":
			if err := p.History.AppendNew(p.HistFS, *appendFile); err != nil {
				fmt.Fprintf(p.Stderr, "history: %v\n", err)
				return 1
			}
			return 0
		}

		n := -1 // full listing
		if args := opts.Args(); len(args) > 0 {
			parsed, err := strconv.Atoi(args[0])
			if err != nil || parsed < 0 {
				fmt.Fprintf(p.Stderr, "history: %s: numeric argument required\n", args[0])
				return 1
			}
			n = parsed
		}

		start, entries := p.History.Last(n)
		for i, entry := range entries {
			fmt.Fprintf(p.Stdout, "%5d  %s\n", start+i+1, entry)
		}
		return 0
	})
}

func init() {
	register("history", History)
}
