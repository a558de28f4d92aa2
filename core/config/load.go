package config

import (
	"errors"
	"io/fs"

	"github.com/spf13/afero"
	"sigs.k8s.io/yaml"
)

// Load reads the configuration at path layered over the embedded defaults.
// A missing file (or empty path) yields the defaults. The result is
// validated before being returned.
func Load(fsys afero.Fs, path string) (*Configuration, error) {
	c := &Configuration{}
	if err := yaml.Unmarshal(defaultConfigData, c); err != nil {
		return nil, err
	}

	if path != "" {
		data, err := afero.ReadFile(fsys, path)
		switch {
		case errors.Is(err, fs.ErrNotExist):
			// Fall through to defaults.
		case err != nil:
			return nil, err
		default:
			if err := yaml.Unmarshal(data, c); err != nil {
				return nil, err
			}
		}
	}

	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}
