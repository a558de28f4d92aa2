// Package config loads and validates the shell's configuration.
package config

import (
	_ "embed"
	"os"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

//go:embed default/config.yaml
var defaultConfigData []byte

// Color modes for the prompt.
const (
	ColorAlways = "always"
	ColorAuto   = "auto"
	ColorNever  = "never"
)

type Configuration struct {
	// Prompt is printed before every line read.
	Prompt string `json:"prompt"`

	// Color controls prompt colorization: always, auto or never.
	Color string `json:"color" validate:"oneof=always auto never"`

	// HistoryFile is where history is persisted; empty disables it.
	// A leading "~/" expands to the user's home directory.
	HistoryFile string `json:"history_file"`

	// MaxArgs caps the argument count of a single command. Lines over the
	// cap are rejected with an error, never truncated.
	MaxArgs int `json:"max_args" validate:"gt=0"`

	// MaxPipelineStages caps the number of commands joined by pipes.
	MaxPipelineStages int `json:"max_pipeline_stages" validate:"gt=0"`
}

// Validate the configuration for basic semantic errors.
func (c *Configuration) Validate() error {
	validate := validator.New()
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		return name
	})

	return validate.Struct(c)
}

// HistoryPath returns the history file location with "~" expanded, or ""
// when persistence is disabled or the home directory can't be determined.
func (c *Configuration) HistoryPath() string {
	path := c.HistoryFile
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		return filepath.Join(home, strings.TrimPrefix(path[1:], "/"))
	}
	return path
}
