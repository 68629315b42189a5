package catalog

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Loader reads a catalog file from disk.
type Loader struct {
	filePath string
}

func NewLoader(filePath string) *Loader {
	return &Loader{filePath: filePath}
}

// Load reads and parses the catalog file.
func (l *Loader) Load() (CatalogConfig, error) {
	data, err := os.ReadFile(l.filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog file: %w", err)
	}

	var config CatalogConfig
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse catalog yaml: %w", err)
	}
	return config, nil
}

// LoadFile loads and maps a catalog file. An empty path yields Default().
func LoadFile(path string) (*Catalog, error) {
	if path == "" {
		return Default(), nil
	}
	config, err := NewLoader(path).Load()
	if err != nil {
		return nil, err
	}
	return NewMapper().MapTypes(config)
}
