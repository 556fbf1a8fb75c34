package schema

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// File is a schema document: the mode it runs in and its entries.
//
//	mode: reshape
//	entries:
//	  users.$id.name: byId.$id
//	  "users.$.name=>names": list.*
type File struct {
	// Mode is "reshape", "select" or "prune". Empty defaults to reshape.
	Mode string `yaml:"mode,omitempty"`

	Raw `yaml:",inline"`
}

// LoadFile loads and parses a YAML schema file from the given path.
func LoadFile(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read schema file %s: %w", path, err)
	}

	return Parse(data)
}

// Parse parses YAML data into a File.
func Parse(data []byte) (*File, error) {
	var f File

	err := yaml.Unmarshal(data, &f)
	if err != nil {
		return nil, fmt.Errorf("failed to parse schema YAML: %w", err)
	}

	applyDefaults(&f)

	return &f, nil
}

// applyDefaults fills in default values for optional fields.
func applyDefaults(f *File) {
	if f.Mode == "" {
		f.Mode = ModeReshape.String()
	}
}

// ParsedMode resolves the file's mode name.
func (f *File) ParsedMode() (Mode, error) {
	return ParseMode(f.Mode)
}

// Marshal serializes a File to YAML.
func Marshal(f *File) ([]byte, error) {
	return yaml.Marshal(f)
}

// WriteFile writes a File to the given path.
func WriteFile(f *File, path string) error {
	data, err := Marshal(f)
	if err != nil {
		return fmt.Errorf("failed to marshal schema: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write schema file %s: %w", path, err)
	}

	return nil
}
