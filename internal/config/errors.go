// Package config builds the Settings struct that every orchestrator
// receives. Values are layered: compiled defaults, then the optional
// setup.yaml override file under the install root, then environment
// variables. The merged result is validated before use.
package config

import "errors"

// Sentinel errors for settings construction.
var (
	// ErrInvalidSettings indicates the merged settings failed validation.
	ErrInvalidSettings = errors.New("config: invalid settings")

	// ErrInvalidYAML indicates invalid YAML syntax in the override file.
	ErrInvalidYAML = errors.New("config: invalid YAML syntax in setup.yaml")

	// ErrNoHomeDir indicates the user home directory could not be resolved.
	ErrNoHomeDir = errors.New("config: cannot resolve user home directory")
)
