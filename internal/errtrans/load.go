package errtrans

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"
)

// LoadFile merges a flat message dictionary from path into t. Files ending
// in .yaml or .yml are read as YAML; .json and .jsonc as JSON with comments.
func (t *Translator) LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read translations: %w", err)
	}

	entries, err := parseDictionary(filepath.Ext(path), data)
	if err != nil {
		return fmt.Errorf("parse translations %s: %w", filepath.Base(path), err)
	}

	t.AddTranslations(entries)
	return nil
}

func parseDictionary(ext string, data []byte) (map[string]string, error) {
	entries := map[string]string{}

	switch strings.ToLower(ext) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &entries); err != nil {
			return nil, err
		}
	case ".json", ".jsonc":
		if err := json.Unmarshal(jsonc.ToJSON(data), &entries); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("unsupported extension %q", ext)
	}

	return entries, nil
}
