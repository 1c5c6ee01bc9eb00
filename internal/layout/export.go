package layout

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Extension is appended to export paths that lack it.
const Extension = ".json"

// Export returns the compact JSON document for the current state. Header
// order is preserved and mapping keys are sorted, so equal states always
// export to the same bytes.
func (m *Model) Export() ([]byte, error) {
	data, err := json.Marshal(m.Snapshot())
	if err != nil {
		return nil, fmt.Errorf("export layout: %w", err)
	}
	return data, nil
}

// ExportIndent is Export with two-space indentation, for display.
func (m *Model) ExportIndent() ([]byte, error) {
	data, err := json.MarshalIndent(m.Snapshot(), "", "  ")
	if err != nil {
		return nil, fmt.Errorf("export layout: %w", err)
	}
	return data, nil
}

// WriteFile writes the compact export to path, appending the .json
// extension when missing, and returns the path written.
func (m *Model) WriteFile(path string) (string, error) {
	return m.write(path, m.Export)
}

// WriteFileIndent is WriteFile using the indented export.
func (m *Model) WriteFileIndent(path string) (string, error) {
	return m.write(path, m.ExportIndent)
}

// ExportPath returns the path WriteFile writes to for path: path itself
// when it already ends in .json, path with .json appended otherwise.
func ExportPath(path string) string {
	if strings.EqualFold(filepath.Ext(path), Extension) {
		return path
	}
	return path + Extension
}

func (m *Model) write(path string, export func() ([]byte, error)) (string, error) {
	if strings.TrimSpace(path) == "" {
		return "", fmt.Errorf("export layout: empty path")
	}
	path = ExportPath(path)

	data, err := export()
	if err != nil {
		return "", err
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return "", fmt.Errorf("export layout: %w", err)
	}

	m.log.Info("Layout exported", "path", path, "fields", m.Len())
	return path, nil
}
