package record

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Marshal encodes r as JSON (format "json") or YAML (format "yaml"/"yml").
func Marshal(r Record, format string) ([]byte, error) {
	switch strings.ToLower(format) {
	case "json":
		return json.MarshalIndent(r, "", "  ")
	case "yaml", "yml":
		return yaml.Marshal(map[string]any(r))
	}
	return nil, fmt.Errorf("record: unsupported format %q", format)
}

// Unmarshal is the inverse of Marshal.
func Unmarshal(data []byte, format string) (Record, error) {
	m := map[string]any{}
	switch strings.ToLower(format) {
	case "json":
		if err := json.Unmarshal(data, &m); err != nil {
			return nil, err
		}
	case "yaml", "yml":
		if err := yaml.Unmarshal(data, &m); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("record: unsupported format %q", format)
	}
	return Record(m), nil
}

// WriteFile stores r, choosing the format from the file extension.
func WriteFile(path string, r Record) error {
	data, err := Marshal(r, formatOf(path))
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// ReadFile loads a record written by WriteFile.
func ReadFile(path string) (Record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Unmarshal(data, formatOf(path))
}

func formatOf(path string) string {
	ext := strings.TrimPrefix(filepath.Ext(path), ".")
	if ext == "" {
		return "json"
	}
	return ext
}
