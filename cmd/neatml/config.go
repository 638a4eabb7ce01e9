package main

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	markup "github.com/neatml/neatml/internal"
	"github.com/neatml/neatml/internal/attrsort"
	"gopkg.in/yaml.v3"
)

const configFileName = ".neatml.yaml"

// Config is the on-disk configuration, discovered by walking up from the
// working directory to the first .neatml.yaml.
type Config struct {
	TagNameCase        string   `yaml:"tag_name_case"`
	RawTextElements    []string `yaml:"raw_text_elements"`
	PreserveWhitespace []string `yaml:"preserve_whitespace"`
	AttributeOrder     []string `yaml:"attribute_order"`
	AttributeTrailing  []string `yaml:"attribute_trailing"`
	AllowCDATA         bool     `yaml:"allow_cdata"`
	StrictEncoding     bool     `yaml:"strict_encoding"`
	MaxBuffer          int      `yaml:"max_buffer"`
	MaxDepth           int      `yaml:"max_depth"`
}

// LoadConfig reads the nearest config file at or above dir. A missing file
// is not an error: the zero Config applies the defaults.
func LoadConfig(dir string) (Config, error) {
	var cfg Config
	for {
		data, err := os.ReadFile(filepath.Join(dir, configFileName))
		if err == nil {
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return cfg, err
			}
			return cfg, nil
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return cfg, err
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return cfg, nil
		}
		dir = parent
	}
}

func (c Config) Options() markup.Options {
	opts := markup.Options{
		RawTextElements:            c.RawTextElements,
		PreserveWhitespaceElements: c.PreserveWhitespace,
		AllowCDATA:                 c.AllowCDATA,
		StrictEncoding:             c.StrictEncoding,
		MaxBuffer:                  c.MaxBuffer,
		MaxDepth:                   c.MaxDepth,
	}
	if c.TagNameCase == "preserve" {
		opts.TagNameCase = markup.TagNamePreserve
	}
	return opts
}

func (c Config) AttrOrder() (*attrsort.Order, error) {
	if len(c.AttributeOrder) == 0 && len(c.AttributeTrailing) == 0 {
		return attrsort.Default(), nil
	}
	cfg := attrsort.DefaultConfig()
	if len(c.AttributeOrder) > 0 {
		cfg.Order = c.AttributeOrder
	}
	if len(c.AttributeTrailing) > 0 {
		cfg.Trailing = c.AttributeTrailing
	}
	return attrsort.Compile(cfg)
}
