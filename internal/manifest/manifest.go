// Package manifest reads item lists from YAML, TOML, or JSON files and
// seeds an inventory with them. A manifest is input only; nothing is ever
// written back.
//
// All three formats share one shape:
//
//	items:
//	  - id: "1"
//	    name: Widget
//	    quantity: 5
//	    properties:
//	      color: red
package manifest

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/mesh-intelligence/keeper/pkg/types"
)

// Supported manifest formats.
const (
	FormatYAML = "yaml"
	FormatTOML = "toml"
	FormatJSON = "json"
)

// ErrUnsupportedFormat is returned for a file extension or format name
// that is not one of the Format constants.
var ErrUnsupportedFormat = errors.New("unsupported manifest format")

// Manifest is the decoded content of a manifest file.
type Manifest struct {
	Items []types.Item[any] `json:"items" yaml:"items" toml:"items"`
}

// FormatFromPath maps a file extension to a format name.
func FormatFromPath(path string) (string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".toml":
		return FormatTOML, nil
	case ".json":
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, filepath.Ext(path))
	}
}

// Load reads and decodes the manifest at path, choosing the decoder from the
// file extension.
func Load(path string) (*Manifest, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open manifest: %w", err)
	}
	defer f.Close()

	m, err := Decode(f, format)
	if err != nil {
		return nil, fmt.Errorf("decode manifest %s: %w", path, err)
	}
	return m, nil
}

// Decode reads a manifest in the given format from r.
func Decode(r io.Reader, format string) (*Manifest, error) {
	var m Manifest
	switch format {
	case FormatYAML:
		if err := yaml.NewDecoder(r).Decode(&m); err != nil && !errors.Is(err, io.EOF) {
			return nil, err
		}
	case FormatTOML:
		if _, err := toml.NewDecoder(r).Decode(&m); err != nil {
			return nil, err
		}
	case FormatJSON:
		if err := json.NewDecoder(r).Decode(&m); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
	return &m, nil
}

// Seed adds every item to inv in manifest order, assigning an ID from newID
// to entries that have none. It stops at the first failure and reports the
// 1-based entry number; items added before the failure stay in inv.
func Seed(inv types.Inventory[any], items []types.Item[any], newID func() string) (int, error) {
	for i, it := range items {
		if it.ID == "" && newID != nil {
			it.ID = newID()
		}
		if err := inv.Add(it); err != nil {
			return i, fmt.Errorf("manifest entry %d: %w", i+1, err)
		}
	}
	return len(items), nil
}
