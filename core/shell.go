// Package core ties the shell together: the readline loop, prompt, history
// recording and the interpreter.
package core

import (
	"io"
	"strings"

	"github.com/abiosoft/readline"
	"github.com/charmbracelet/log"
	"github.com/spf13/afero"

	"josephlewis.net/gosh/core/config"
	"josephlewis.net/gosh/core/history"
	"josephlewis.net/gosh/core/interp"
)

// Shell is one interactive session: a readline instance feeding the
// interpreter, plus the session's history log.
type Shell struct {
	config  *config.Configuration
	history *history.Log
	histFS  afero.Fs
	interp  *interp.Interp
	rl      *readline.Instance
}

// NewShell builds an interactive shell on the process's standard streams.
// Existing history is loaded from the configured file if there is one.
func NewShell(cfg *config.Configuration, stdin io.ReadCloser, stdout, stderr io.Writer) (*Shell, error) {
	histFS := afero.NewOsFs()
	hist := history.NewLog()
	if path := cfg.HistoryPath(); path != "" {
		if err := hist.Load(histFS, path); err != nil {
			log.Debug("no history loaded", "path", path, "err", err)
		}
		// Entries already in the file must not be appended to it again when
		// the session flushes on exit.
		hist.MarkFlushed()
	}

	rl, err := readline.NewEx(&readline.Config{
		Prompt:                 renderPrompt(cfg),
		Stdin:                  stdin,
		Stdout:                 stdout,
		Stderr:                 stderr,
		DisableAutoSaveHistory: true,
	})
	if err != nil {
		return nil, err
	}

	return &Shell{
		config:  cfg,
		history: hist,
		histFS:  histFS,
		interp:  interp.New(cfg, hist, histFS, stdin, stdout, stderr),
		rl:      rl,
	}, nil
}

// Run reads and executes lines until exit or EOF, returning the status the
// shell process should terminate with. History is flushed on the way out.
func (s *Shell) Run() int {
	defer s.rl.Close()

	for {
		line, err := s.rl.Readline()
		switch {
		case err == io.EOF:
			s.flushHistory()
			return 0

		case err == readline.ErrInterrupt:
			continue

		case err != nil:
			log.Error("readline", "err", err)
			continue
		}

		if strings.TrimSpace(line) == "" {
			continue
		}

		s.history.Add(line)
		s.rl.SaveHistory(line)

		s.interp.RunLine(line)
		if code, ok := s.interp.TakeExitRequest(); ok {
			s.flushHistory()
			return code
		}
	}
}

func (s *Shell) flushHistory() {
	path := s.config.HistoryPath()
	if path == "" {
		return
	}
	if err := s.history.AppendNew(s.histFS, path); err != nil {
		log.Warn("could not flush history", "path", path, "err", err)
	}
}
