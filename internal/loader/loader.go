package loader

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-stdlog/stdlog"
	"gopkg.in/yaml.v3"

	"github.com/alexhholmes/layoutdecl/internal/field"
	"github.com/alexhholmes/layoutdecl/internal/layout"
)

// Loader reads exported layout documents back into a model. Every field
// is re-checked, so a hand-edited document cannot smuggle an invalid
// range into the header.
type Loader struct {
	validator *field.Validator
	log       stdlog.Logger
}

// New returns a Loader checking kinds against v. A nil logger discards.
func New(v *field.Validator, log stdlog.Logger) *Loader {
	if v == nil {
		v = field.NewValidator()
	}
	if log == nil {
		log = stdlog.Discard
	} else {
		log = log.Named("loader")
	}
	return &Loader{validator: v, log: log}
}

// ReadFile parses the document at path. Files ending in .yaml or .yml are
// decoded as YAML, everything else as JSON.
func (l *Loader) ReadFile(path string) (layout.Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return layout.Snapshot{}, fmt.Errorf("loader: read %s: %w", path, err)
	}
	return l.Parse(data, path)
}

// Parse decodes data, using path only to pick the format and for errors.
func (l *Loader) Parse(data []byte, path string) (layout.Snapshot, error) {
	var s layout.Snapshot

	if isYAML(path) {
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&s); err != nil {
			return layout.Snapshot{}, fmt.Errorf("loader: decode yaml %s: %w", path, err)
		}
	} else {
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&s); err != nil {
			return layout.Snapshot{}, fmt.Errorf("loader: decode json %s: %w", path, err)
		}
	}

	if s.Body == nil {
		s.Body = make(map[string]string)
	}
	return s, nil
}

// Restore appends every header field of s to m, in order, and copies the
// body. Either the whole document is restored or, when any field fails,
// m is left as it was.
func (l *Loader) Restore(s layout.Snapshot, m *layout.Model) error {
	for i, f := range s.Header {
		if err := l.validator.Check(f); err != nil {
			return fmt.Errorf("loader: header[%d] %q: %w", i, f.Name, err)
		}
	}
	if err := m.InsertAll(s.Header); err != nil {
		return fmt.Errorf("loader: header: %w", err)
	}
	for k, v := range s.Body {
		m.SetBody(k, v)
	}

	l.log.Debug("Layout restored", "fields", len(s.Header), "body", len(s.Body))
	return nil
}

// LoadFile reads path and restores it into m.
func (l *Loader) LoadFile(path string, m *layout.Model) error {
	s, err := l.ReadFile(path)
	if err != nil {
		return err
	}
	if err := l.Restore(s, m); err != nil {
		return fmt.Errorf("%w (file %s)", err, path)
	}
	l.log.Info("Layout loaded", "path", path, "fields", len(s.Header))
	return nil
}

func isYAML(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return true
	}
	return false
}
