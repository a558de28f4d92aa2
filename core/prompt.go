package core

import (
	"github.com/fatih/color"

	"josephlewis.net/gosh/core/config"
)

var promptColor = color.New(color.FgGreen, color.Bold)

// renderPrompt returns the prompt string, colorized per the configuration.
// In auto mode the color package suppresses escapes when stdout is not a
// terminal.
func renderPrompt(cfg *config.Configuration) string {
	prompt := cfg.Prompt
	if prompt == "" {
		prompt = "$ "
	}

	switch cfg.Color {
	case config.ColorNever:
		return prompt
	case config.ColorAlways:
		c := *promptColor
		c.EnableColor()
		return c.Sprint(prompt)
	default:
		return promptColor.Sprint(prompt)
	}
}
