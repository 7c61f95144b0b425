// Package config loads generator settings from a JSON or YAML file. Missing
// keys keep their defaults; a missing file is created with the defaults.
package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/natefinch/atomic"
	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-proposal/pkg/logger"
	"github.com/goliatone/go-proposal/pkg/output"
	"github.com/goliatone/go-proposal/pkg/presentation"
)

// DefaultFilename is looked up in the working directory when no path is
// given.
const DefaultFilename = "proposal.yaml"

// DefaultRenderer names the engine used when none is configured.
const DefaultRenderer = "stache"

// ErrInvalid is wrapped by Validate failures.
var ErrInvalid = errors.New("config: invalid")

// Config holds every setting the generator reads.
type Config struct {
	// Template is a template file path; empty selects the built-in page.
	Template string `json:"template" yaml:"template"`
	Output   string `json:"output" yaml:"output"`
	Renderer string `json:"renderer" yaml:"renderer"`
	LogLevel string `json:"logLevel" yaml:"logLevel"`
	Strict   bool   `json:"strict" yaml:"strict"`

	// Shaping overrides. Empty values keep the shaper defaults.
	PackageName   string   `json:"packageName,omitempty" yaml:"packageName,omitempty"`
	InsuranceNote string   `json:"insuranceNote,omitempty" yaml:"insuranceNote,omitempty"`
	NotIncluded   []string `json:"notIncluded,omitempty" yaml:"notIncluded,omitempty"`

	// Site enables the presentation markup in generated pages.
	Site         bool                `json:"site" yaml:"site"`
	Presentation presentation.Config `json:"presentation" yaml:"presentation"`

	IdentityDB string `json:"identityDb" yaml:"identityDb"`
	EventsDB   string `json:"eventsDb" yaml:"eventsDb"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Output:       output.DefaultFilename,
		Renderer:     DefaultRenderer,
		LogLevel:     "info",
		Presentation: presentation.DefaultConfig(""),
		IdentityDB:   "identity.db",
		EventsDB:     "events.db",
	}
}

// Load reads path over the defaults. When the file does not exist the
// defaults are written to it and returned.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			if werr := cfg.Save(path); werr != nil {
				logger.L().Warn("failed to write default config file", "path", path, "error", werr)
			}
			return cfg, nil
		}
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}

	if err := Parse(data, path, cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Parse decodes data into cfg as JSON, falling back to YAML. source only
// labels errors.
func Parse(data []byte, source string, cfg *Config) error {
	if len(bytes.TrimSpace(data)) == 0 {
		return fmt.Errorf("config: file %s is empty", source)
	}

	// decode into a copy so a failed JSON attempt leaves no partial state
	// behind for the YAML attempt
	jsonCfg := *cfg
	if err := json.Unmarshal(data, &jsonCfg); err == nil {
		*cfg = jsonCfg
		return nil
	}

	yamlCfg := *cfg
	if err := yaml.Unmarshal(data, &yamlCfg); err == nil {
		*cfg = yamlCfg
		return nil
	}

	return fmt.Errorf("config: parse %s: invalid JSON or YAML", source)
}

// Save writes cfg atomically, as YAML for .yaml/.yml paths and indented
// JSON otherwise.
func (c *Config) Save(path string) error {
	var (
		data []byte
		err  error
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		data, err = yaml.Marshal(c)
	default:
		data, err = json.MarshalIndent(c, "", "  ")
	}
	if err != nil {
		return fmt.Errorf("config: marshal: %w", err)
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("config: create %s: %w", dir, err)
		}
	}
	if err := atomic.WriteFile(path, bytes.NewReader(data)); err != nil {
		return fmt.Errorf("config: write %s: %w", path, err)
	}
	return nil
}

// Validate checks values that would otherwise fail late.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Renderer) == "" {
		return fmt.Errorf("%w: renderer is required", ErrInvalid)
	}
	switch strings.ToLower(c.LogLevel) {
	case "", "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("%w: unknown log level %q", ErrInvalid, c.LogLevel)
	}
	if _, err := output.NewWriter(".").Path(c.Output); err != nil {
		return fmt.Errorf("%w: output: %v", ErrInvalid, err)
	}
	return nil
}
