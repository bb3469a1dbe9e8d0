// CLAUDE:SUMMARY Manifest YAML schema describing a gazetteer dataset directory (identity, source, locality, data file).
package gazetteer

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Manifest describes a dataset directory.
type Manifest struct {
	ID        string `yaml:"id" json:"id"`
	Version   string `yaml:"version" json:"version"`
	Source    string `yaml:"source" json:"source"`
	SourceURL string `yaml:"source_url,omitempty" json:"source_url,omitempty"`
	License   string `yaml:"license,omitempty" json:"license,omitempty"`
	Locality  string `yaml:"locality,omitempty" json:"locality,omitempty"`
	DataFile  string `yaml:"data_file" json:"data_file"`
}

// LoadManifest reads and parses a manifest.yaml file.
func LoadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read manifest %s: %w", path, err)
	}
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parse manifest %s: %w", path, err)
	}
	if m.ID == "" {
		return nil, fmt.Errorf("manifest %s: missing id", path)
	}
	if m.DataFile == "" {
		m.DataFile = "data.json"
	}
	return &m, nil
}

// WriteManifest writes m as YAML to path.
func WriteManifest(path string, m *Manifest) error {
	data, err := yaml.Marshal(m)
	if err != nil {
		return fmt.Errorf("marshal manifest: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write manifest %s: %w", path, err)
	}
	return nil
}
