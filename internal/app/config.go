package app

import (
	"errors"
	"fmt"
	"strings"

	"github.com/vk/mustachio/internal/token"
)

// DefaultPartialExt is the file extension partials are discovered by.
const DefaultPartialExt = ".mustache"

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	TemplatePath string
	DataPath     string // .json, .hcl or .toml; empty renders against an empty object
	PartialsPath string
	PartialExt   string

	Whitespace string // lazy, strict or strip
	Compact    bool
	DumpTree   bool

	LogFormat string
	LogLevel  string
}

// NewConfig validates cfg and fills in defaults.
func NewConfig(cfg Config) (*Config, error) {
	if cfg.TemplatePath == "" {
		return nil, errors.New("TemplatePath is a required configuration field and cannot be empty")
	}
	if cfg.Compact && cfg.DumpTree {
		return nil, errors.New("compact and dump-tree cannot be combined")
	}
	if _, err := token.ParseMode(cfg.Whitespace); err != nil {
		return nil, err
	}

	if cfg.PartialExt == "" {
		cfg.PartialExt = DefaultPartialExt
	}
	if !strings.HasPrefix(cfg.PartialExt, ".") {
		return nil, fmt.Errorf("partial extension %q must start with a dot", cfg.PartialExt)
	}

	return &cfg, nil
}

// Mode returns the parsed whitespace mode.
func (c *Config) Mode() token.Mode {
	mode, _ := token.ParseMode(c.Whitespace)
	return mode
}
