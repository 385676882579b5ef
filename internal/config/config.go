package config

import (
	"fmt"
	"strings"

	"github.com/footron/foowm/internal/command"
	"github.com/footron/foowm/internal/logging"
	"github.com/footron/foowm/internal/policy"
)

// Config is the effective window manager configuration.
type Config struct {
	Scenario policy.Scenario `yaml:"scenario"`
	// Layout is the layout at startup. Empty means the scenario default.
	Layout   policy.Layout `yaml:"layout,omitempty"`
	LogLevel string        `yaml:"log_level"`
	// Endpoint is the control channel address.
	Endpoint string `yaml:"endpoint"`
	// ClearTypes is the include set used when a clear_viewport message does
	// not name one.
	ClearTypes []policy.ClientType `yaml:"clear_types"`
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() *Config {
	return &Config{
		Scenario:   policy.ScenarioCenter,
		LogLevel:   "info",
		Endpoint:   command.DefaultEndpoint,
		ClearTypes: []policy.ClientType{policy.TypeExperience, policy.TypeLoader},
	}
}

// InitialLayout returns the configured layout or the scenario default.
func (c *Config) InitialLayout() policy.Layout {
	if c.Layout != "" {
		return c.Layout
	}
	return policy.DefaultLayout(c.Scenario)
}

// Validate checks every enum value and the endpoint.
func (c *Config) Validate() error {
	if _, err := policy.ParseScenario(string(c.Scenario)); err != nil {
		return &ValidationError{Path: "scenario", Err: fmt.Errorf("scenario must be one of: %s", join(policy.Scenarios))}
	}
	if c.Layout != "" {
		if _, err := policy.ParseLayout(string(c.Layout)); err != nil {
			return &ValidationError{Path: "layout", Err: fmt.Errorf("layout must be one of: %s", join(policy.Layouts))}
		}
	}
	if _, err := logging.ParseLevel(c.LogLevel); err != nil {
		return &ValidationError{Path: "log_level", Err: fmt.Errorf("log_level must be one of: debug, info, warn, error")}
	}
	if strings.TrimSpace(c.Endpoint) == "" {
		return &ValidationError{Path: "endpoint", Err: fmt.Errorf("endpoint is required")}
	}
	for _, t := range c.ClearTypes {
		if _, err := policy.ParseClientType(string(t)); err != nil {
			return &ValidationError{Path: "clear_types", Err: fmt.Errorf("unknown client type %q, must be one of: %s", t, join(policy.ClientTypes))}
		}
	}
	return nil
}

// ValidationError reports an invalid setting, with its position in the
// config file when known.
type ValidationError struct {
	Path   string
	Source Source
	Err    error
}

func (e *ValidationError) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Source.File != "" && e.Source.Line > 0 {
		return fmt.Sprintf("%s:%d:%d: %s: %v", e.Source.File, e.Source.Line, e.Source.Column, e.Path, e.Err)
	}
	if e.Path != "" {
		return fmt.Sprintf("%s: %v", e.Path, e.Err)
	}
	return e.Err.Error()
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

func join[T ~string](values []T) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = string(v)
	}
	return strings.Join(parts, ", ")
}
