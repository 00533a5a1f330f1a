// Package config provides YAML-based configuration loading with environment variable expansion.
package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/mitchellh/go-homedir"
	"gopkg.in/yaml.v3"
)

// Validator is an interface for configuration validation.
type Validator interface {
	Validate() error
}

// Load loads configuration from a YAML file with environment variable expansion.
func Load[T any](filename string, target *T) error {
	filename, err := homedir.Expand(filename)
	if err != nil {
		return fmt.Errorf("failed to resolve config file %s: %w", filename, err)
	}

	data, err := os.ReadFile(filename)
	if err != nil {
		return fmt.Errorf("failed to read config file %s: %w", filename, err)
	}

	expandedData := os.ExpandEnv(string(data))

	if err := yaml.Unmarshal([]byte(expandedData), target); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", filename, err)
	}

	return validate(target)
}

// LoadOrDefault loads configuration like Load, but keeps target as given
// when the file does not exist. target is validated either way.
func LoadOrDefault[T any](filename string, target *T) error {
	path, err := homedir.Expand(filename)
	if err != nil {
		return fmt.Errorf("failed to resolve config file %s: %w", filename, err)
	}
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return validate(target)
	}
	return Load(path, target)
}

func validate(target any) error {
	if validator, ok := target.(Validator); ok {
		if err := validator.Validate(); err != nil {
			return fmt.Errorf("config validation failed: %w", err)
		}
	}
	return nil
}
