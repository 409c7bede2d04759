package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// ErrUnsupportedFormat is returned for a path whose extension is neither TOML nor YAML.
var ErrUnsupportedFormat = errors.New("unsupported config format")

// Format is a config file encoding.
type Format int

const (
	FormatTOML Format = iota
	FormatYAML
)

// String returns the format name.
func (f Format) String() string {
	switch f {
	case FormatTOML:
		return "toml"
	case FormatYAML:
		return "yaml"
	default:
		return "unknown"
	}
}

// ParseFormat maps a format name ("toml", "yaml" or "yml") to a Format.
func ParseFormat(name string) (Format, error) {
	switch strings.ToLower(strings.TrimPrefix(name, ".")) {
	case "toml":
		return FormatTOML, nil
	case "yaml", "yml":
		return FormatYAML, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnsupportedFormat, name)
	}
}

// FormatOf picks the format from a path's extension.
//
// Parameters:
//   - path: the file path
//
// Returns:
//   - Format: the format
//   - error: ErrUnsupportedFormat for any other extension
func FormatOf(path string) (Format, error) {
	return ParseFormat(filepath.Ext(path))
}

// Marshal encodes v in the given format.
func Marshal(f Format, v any) ([]byte, error) {
	var buf bytes.Buffer
	if err := Encode(&buf, f, v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Encode writes v to w in the given format.
//
// Parameters:
//   - w: the destination
//   - f: the format
//   - v: the value, typically a Config or a common.SceneState
//
// Returns:
//   - error: an encoding error
func Encode(w io.Writer, f Format, v any) error {
	switch f {
	case FormatTOML:
		return toml.NewEncoder(w).Encode(v)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	default:
		return fmt.Errorf("%w: %v", ErrUnsupportedFormat, f)
	}
}

// Unmarshal decodes data in the given format into v. Fields absent from data are left as they
// were.
func Unmarshal(f Format, data []byte, v any) error {
	switch f {
	case FormatTOML:
		return toml.Unmarshal(data, v)
	case FormatYAML:
		return yaml.Unmarshal(data, v)
	default:
		return fmt.Errorf("%w: %v", ErrUnsupportedFormat, f)
	}
}
