// Package normalize turns raw spreadsheet headers, values, and addresses
// into their canonical forms. All lookup data lives in an embedded YAML
// document loaded once at startup and passed around as an immutable Tables
// value.
package normalize

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"
)

//go:embed tables.yaml
var tablesYAML []byte

// Tables holds the static lookup data driving normalization and the
// camera-validity gate.
type Tables struct {
	Headers          map[string]string `yaml:"headers"`
	Abbreviations    map[string]string `yaml:"abbreviations"`
	BrandToken       string            `yaml:"brand_token"`
	CameraModelToken string            `yaml:"camera_model_token"`
}

// LoadTables parses the embedded lookup tables.
func LoadTables() (*Tables, error) {
	var t Tables
	if err := yaml.Unmarshal(tablesYAML, &t); err != nil {
		return nil, fmt.Errorf("normalize: parse tables: %w", err)
	}
	if len(t.Headers) == 0 || len(t.Abbreviations) == 0 {
		return nil, fmt.Errorf("normalize: embedded tables are incomplete")
	}
	return &t, nil
}

// MustLoadTables is LoadTables for program startup, where a broken embedded
// table is unrecoverable.
func MustLoadTables() *Tables {
	t, err := LoadTables()
	if err != nil {
		panic(err)
	}
	return t
}
