package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/footron/foowm/internal/policy"
)

// Source is the position of a setting in a config file.
type Source struct {
	File   string
	Line   int
	Column int
}

// LoadResult is a loaded config with the position of every key that was set
// in the file.
type LoadResult struct {
	Config  *Config
	Sources map[string]Source // YAML key -> position
	File    string            // empty when no file was found
}

// RawConfig mirrors the file layout. Unset keys keep their defaults.
type RawConfig struct {
	Scenario   *string  `yaml:"scenario"`
	Layout     *string  `yaml:"layout"`
	LogLevel   *string  `yaml:"log_level"`
	Endpoint   *string  `yaml:"endpoint"`
	ClearTypes []string `yaml:"clear_types"`
}

// DefaultConfigPath returns $XDG_CONFIG_HOME/foowm/config.yaml, falling back
// to ~/.config/foowm/config.yaml.
func DefaultConfigPath() (string, error) {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, "foowm", "config.yaml"), nil
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(homeDir, ".config", "foowm", "config.yaml"), nil
}

// Load reads the config from the default location. A missing file yields
// the defaults.
func Load() (*LoadResult, error) {
	path, err := DefaultConfigPath()
	if err != nil {
		return nil, err
	}
	return LoadFromPath(path)
}

// LoadFromPath reads the config at path. A missing file yields the defaults.
func LoadFromPath(path string) (*LoadResult, error) {
	cfg := DefaultConfig()
	sources := map[string]Source{}
	file := ""

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return nil, fmt.Errorf("%s: failed to read: %w", path, err)
	default:
		file = path

		var doc yaml.Node
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("%s: failed to parse yaml: %w", path, err)
		}
		var raw RawConfig
		if err := decodeStrictYAML(data, &raw); err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		raw.apply(cfg)
		sources = collectSources(&doc, path)
	}

	if err := cfg.Validate(); err != nil {
		return nil, attachSourceContext(err, sources)
	}
	return &LoadResult{Config: cfg, Sources: sources, File: file}, nil
}

func (r RawConfig) apply(cfg *Config) {
	if r.Scenario != nil {
		cfg.Scenario = policy.Scenario(*r.Scenario)
	}
	if r.Layout != nil {
		cfg.Layout = policy.Layout(*r.Layout)
	}
	if r.LogLevel != nil {
		cfg.LogLevel = *r.LogLevel
	}
	if r.Endpoint != nil {
		cfg.Endpoint = *r.Endpoint
	}
	if r.ClearTypes != nil {
		cfg.ClearTypes = make([]policy.ClientType, len(r.ClearTypes))
		for i, t := range r.ClearTypes {
			cfg.ClearTypes[i] = policy.ClientType(t)
		}
	}
}

func decodeStrictYAML(data []byte, out any) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(out); err != nil {
		if err == io.EOF {
			return nil
		}
		return err
	}
	return nil
}

// collectSources records the position of every top-level key.
func collectSources(doc *yaml.Node, file string) map[string]Source {
	out := make(map[string]Source)
	node := doc
	if node.Kind == yaml.DocumentNode && len(node.Content) > 0 {
		node = node.Content[0]
	}
	if node.Kind != yaml.MappingNode {
		return out
	}
	for i := 0; i+1 < len(node.Content); i += 2 {
		val := node.Content[i+1]
		out[node.Content[i].Value] = Source{File: file, Line: val.Line, Column: val.Column}
	}
	return out
}

func attachSourceContext(err error, sources map[string]Source) error {
	var verr *ValidationError
	if !errors.As(err, &verr) || verr.Path == "" {
		return err
	}
	if src, ok := sources[verr.Path]; ok {
		verr.Source = src
	}
	return verr
}
