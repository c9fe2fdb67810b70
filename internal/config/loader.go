package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Load reads a configuration file based on its extension.
// Supports: .yaml/.yml, .json, .toml
func Load(path string) (Config, error) {
	var cfg Config
	if path == "" {
		return cfg, fmt.Errorf("empty config path")
	}
	if err := DecodeFile(path, &cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// DecodeFile unmarshals the file at path into v, picking the codec from the
// file extension (.yaml/.yml, .json, .toml).
func DecodeFile(path string, v any) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return Decode(strings.ToLower(filepath.Ext(path)), b, v)
}

// Decode unmarshals b into v using the codec registered for ext.
func Decode(ext string, b []byte, v any) error {
	switch ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(b, v); err != nil { return err }
	case ".json":
		if err := json.Unmarshal(b, v); err != nil { return err }
	case ".toml":
		if err := toml.Unmarshal(b, v); err != nil { return err }
	default:
		return fmt.Errorf("unsupported config extension: %s", ext)
	}
	return nil
}

// Extensions lists the file extensions Decode understands, in probe order.
var Extensions = []string{".yaml", ".yml", ".json", ".toml"}
