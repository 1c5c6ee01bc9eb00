package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-stdlog/stdlog"
	"gopkg.in/yaml.v3"

	"github.com/alexhholmes/layoutdecl/internal/field"
	"github.com/alexhholmes/layoutdecl/internal/layout"
)

// DefaultOutput is the export path used when none is configured.
const DefaultOutput = "data.json"

type Config struct {
	// Output is where the export is written. The .json extension is added
	// when missing.
	Output string `json:"output" yaml:"output"`

	// Indent selects the indented export instead of the compact one.
	Indent bool `json:"indent" yaml:"indent"`

	// OverlapCheck rejects fields whose range overlaps an existing field.
	OverlapCheck bool `json:"overlap_check" yaml:"overlap_check"`

	// Kinds lists field types accepted in addition to Number and String.
	Kinds []string `json:"kinds" yaml:"kinds"`

	// Verbose enables logging to stderr. If unset, no logs are generated.
	Verbose bool `json:"verbose" yaml:"verbose"`
}

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{Output: DefaultOutput}
}

// Load reads a configuration file. Files ending in .json are decoded as
// JSON, everything else as YAML. An empty path yields Default().
func Load(path string) (Config, error) {
	if strings.TrimSpace(path) == "" {
		return Default(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}
	return Parse(data, path)
}

// Parse decodes data, using path to pick the format.
func Parse(data []byte, path string) (Config, error) {
	c := Default()

	if strings.EqualFold(filepath.Ext(path), ".json") {
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&c); err != nil {
			return Config{}, fmt.Errorf("config: decode %s: %w", path, err)
		}
	} else {
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		// An empty document decodes to io.EOF and leaves the defaults.
		if err := dec.Decode(&c); err != nil && err != io.EOF {
			return Config{}, fmt.Errorf("config: decode %s: %w", path, err)
		}
	}

	if err := c.normalise(); err != nil {
		return Config{}, fmt.Errorf("config: %s: %w", path, err)
	}
	return c, nil
}

func (c *Config) normalise() error {
	c.Output = strings.TrimSpace(c.Output)
	if c.Output == "" {
		c.Output = DefaultOutput
	}

	seen := make(map[string]struct{}, len(c.Kinds))
	kinds := c.Kinds[:0]
	for _, k := range c.Kinds {
		k = strings.TrimSpace(k)
		if k == "" {
			return fmt.Errorf("empty kind")
		}
		key := strings.ToLower(k)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		kinds = append(kinds, k)
	}
	c.Kinds = kinds
	return nil
}

// Logger returns the logger selected by Verbose, writing to w.
func (c Config) Logger(w io.Writer) stdlog.Logger {
	if c.Verbose {
		return stdlog.NewStd(w).Named("layoutdecl")
	}
	return stdlog.Discard
}

// Validator builds a field validator accepting the configured kinds.
func (c Config) Validator() *field.Validator {
	kinds := make([]field.Kind, len(c.Kinds))
	for i, k := range c.Kinds {
		kinds[i] = field.Kind(k)
	}
	return field.NewValidator(field.WithKinds(kinds...))
}

// ModelOptions returns the layout options selected by the configuration.
func (c Config) ModelOptions(log stdlog.Logger) []layout.Option {
	opts := []layout.Option{layout.WithLogger(log)}
	if c.OverlapCheck {
		opts = append(opts, layout.WithOverlapCheck())
	}
	return opts
}
