package catalog

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Load reads a catalog document from the given YAML file.
func Load(path string) (Document, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Document{}, fmt.Errorf("read catalog %s: %w", path, err)
	}
	var doc Document
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return Document{}, fmt.Errorf("parse catalog %s: %w", path, err)
	}
	return doc, nil
}

// Save writes the document to the given path.
func Save(doc Document, path string) error {
	raw, err := yaml.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encode catalog: %w", err)
	}
	if err := os.WriteFile(path, raw, 0o644); err != nil {
		return fmt.Errorf("write catalog %s: %w", path, err)
	}
	return nil
}

// CheckpointPath names the checkpoint file written after the given stage.
func CheckpointPath(dir string, stage int) string {
	return filepath.Join(dir, fmt.Sprintf("catalog.stage%d.yaml", stage))
}

// PartialCheckpointPath names the reconciliation file written when the account
// stage fails midway and partial persistence is enabled.
func PartialCheckpointPath(dir string, stage int) string {
	return filepath.Join(dir, fmt.Sprintf("catalog.stage%d.partial.yaml", stage))
}
