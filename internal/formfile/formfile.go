// Package formfile reads and writes form definitions and value maps on disk.
//
// Definitions are JSON or YAML documents shaped {sections: [...], fields: [...]};
// a bare array is read as a field list. YAML is normalised to JSON before
// decoding so both formats go through the same lenient rule node decoding.
package formfile

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/solatis/formlogic/internal/types"
)

// Format is a document encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// FormatFor picks the format from a file extension.
func FormatFor(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("%w: %q", types.ErrUnsupportedFormat, filepath.Ext(path))
	}
}

// LoadDefinition reads a definition file.
func LoadDefinition(path string) (types.Definition, error) {
	format, err := FormatFor(path)
	if err != nil {
		return types.Definition{}, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return types.Definition{}, fmt.Errorf("read definition: %w", err)
	}
	def, err := DecodeDefinition(data, format)
	if err != nil {
		return types.Definition{}, fmt.Errorf("%s: %w", path, err)
	}
	return def, nil
}

// DecodeDefinition decodes a definition document.
func DecodeDefinition(data []byte, format Format) (types.Definition, error) {
	data, err := toJSON(data, format)
	if err != nil {
		return types.Definition{}, err
	}

	var def types.Definition
	if trimmed := bytes.TrimSpace(data); len(trimmed) > 0 && trimmed[0] == '[' {
		if err := json.Unmarshal(trimmed, &def.Fields); err != nil {
			return types.Definition{}, fmt.Errorf("decode fields: %w", err)
		}
		return def, nil
	}
	if err := json.Unmarshal(data, &def); err != nil {
		return types.Definition{}, fmt.Errorf("decode definition: %w", err)
	}
	return def, nil
}

// LoadValues reads a value map file keyed by field name.
func LoadValues(path string) (types.ValueMap, error) {
	format, err := FormatFor(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read values: %w", err)
	}
	values, err := DecodeValues(data, format)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return values, nil
}

// DecodeValues decodes a value map document. An empty document is an empty map.
func DecodeValues(data []byte, format Format) (types.ValueMap, error) {
	data, err := toJSON(data, format)
	if err != nil {
		return nil, err
	}
	values := make(types.ValueMap)
	if len(bytes.TrimSpace(data)) == 0 || bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		return values, nil
	}
	if err := json.Unmarshal(data, &values); err != nil {
		return nil, fmt.Errorf("decode values: %w", err)
	}
	return values, nil
}

// WriteDefinition encodes def to w in the given format.
func WriteDefinition(w io.Writer, def types.Definition, format Format) error {
	data, err := json.MarshalIndent(def, "", "  ")
	if err != nil {
		return fmt.Errorf("encode definition: %w", err)
	}

	if format == FormatYAML {
		var generic any
		if err := json.Unmarshal(data, &generic); err != nil {
			return fmt.Errorf("encode definition: %w", err)
		}
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(generic); err != nil {
			return fmt.Errorf("encode definition: %w", err)
		}
		return enc.Close()
	}

	data = append(data, '\n')
	_, err = w.Write(data)
	return err
}

// SaveDefinition writes def to path, choosing the format from its extension.
func SaveDefinition(path string, def types.Definition) error {
	format, err := FormatFor(path)
	if err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := WriteDefinition(f, def, format); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// toJSON re-encodes a YAML document as JSON. JSON passes through.
func toJSON(data []byte, format Format) ([]byte, error) {
	if format != FormatYAML {
		return data, nil
	}
	var generic any
	if err := yaml.Unmarshal(data, &generic); err != nil {
		return nil, fmt.Errorf("parse yaml: %w", err)
	}
	out, err := json.Marshal(generic)
	if err != nil {
		return nil, fmt.Errorf("convert yaml: %w", err)
	}
	return out, nil
}
