package format

import (
	"fmt"

	"github.com/goccy/go-yaml"
)

const (
	DefaultIndent  = 2
	MaxIndent      = 9
	DefaultMaxSize = 100 << 20
)

// Config is the formatting configuration handed to the serializer.
type Config struct {
	// Indent is the width used for freshly formatted block content.
	Indent int `yaml:"indent"`
	// Preserve enables format preservation. When false every save
	// reformats the whole document.
	Preserve bool `yaml:"preserve"`
	// Strict additionally checks saved output with an independent YAML
	// decoder.
	Strict bool `yaml:"strict"`
	// MaxSize is the largest source accepted, in bytes.
	MaxSize int `yaml:"maxSize"`
}

type Option func(*Config)

func WithIndent(n int) Option {
	return func(c *Config) { c.Indent = n }
}

func WithPreserve(v bool) Option {
	return func(c *Config) { c.Preserve = v }
}

func WithStrict(v bool) Option {
	return func(c *Config) { c.Strict = v }
}

func WithMaxSize(n int) Option {
	return func(c *Config) { c.MaxSize = n }
}

func NewConfig(opts ...Option) Config {
	c := Config{
		Indent:   DefaultIndent,
		Preserve: true,
		MaxSize:  DefaultMaxSize,
	}
	for _, opt := range opts {
		opt(&c)
	}
	return c
}

func (c Config) Validate() error {
	if c.Indent < 1 || c.Indent > MaxIndent {
		return fmt.Errorf("%w: indent %d out of range [1,%d]", ErrBadFormat, c.Indent, MaxIndent)
	}
	if c.MaxSize < 0 {
		return fmt.Errorf("%w: negative max size", ErrBadFormat)
	}
	return nil
}

// ParseConfig reads a YAML configuration such as a .yedit.yaml file.
// Fields missing from d keep their defaults.
func ParseConfig(d []byte) (Config, error) {
	c := NewConfig()
	if err := yaml.UnmarshalWithOptions(d, &c, yaml.Strict()); err != nil {
		return c, fmt.Errorf("%w: %w", ErrBadFormat, err)
	}
	return c, c.Validate()
}
