// Package frontmatter reads and writes markdown files that carry a structured
// metadata block ahead of their body.
//
// Parsing accepts YAML (---), TOML (+++) and JSON (;;;) blocks. Serializing
// always writes YAML between --- delimiters.
package frontmatter

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"github.com/adrg/frontmatter"
	"gopkg.in/yaml.v3"
)

const delimiter = "---\n"

// ErrMalformed is returned when a metadata block is present but is not valid structured data.
var ErrMalformed = errors.New("malformed front matter")

// Parse splits raw file text into its metadata mapping and body.
// Text without a metadata block yields an empty mapping and the full text as body.
func Parse(raw string) (map[string]any, string, error) {
	var meta map[string]any

	body, err := frontmatter.Parse(strings.NewReader(raw), &meta)
	if err != nil {
		return nil, "", fmt.Errorf("%w: %v", ErrMalformed, err)
	}

	return normalizeMap(meta), string(body), nil
}

// Serialize renders metadata as a YAML block followed by body.
// Parse(Serialize(body, meta)) returns meta and body unchanged for string,
// boolean and string sequence values.
func Serialize(body string, meta map[string]any) (string, error) {
	if meta == nil {
		meta = map[string]any{}
	}

	var block bytes.Buffer
	enc := yaml.NewEncoder(&block)
	enc.SetIndent(2)
	if err := enc.Encode(meta); err != nil {
		return "", fmt.Errorf("failed to marshal front matter: %w", err)
	}
	if err := enc.Close(); err != nil {
		return "", fmt.Errorf("failed to marshal front matter: %w", err)
	}

	var buf strings.Builder
	buf.WriteString(delimiter)
	buf.Write(block.Bytes())
	buf.WriteString(delimiter)
	buf.WriteString(body)

	return buf.String(), nil
}

// normalizeMap converts the YAML decoder's map[interface{}]interface{} nodes
// into map[string]any so the mapping is uniform regardless of source format.
func normalizeMap(in map[string]any) map[string]any {
	out := make(map[string]any, len(in))
	for k, v := range in {
		out[k] = normalizeValue(v)
	}
	return out
}

func normalizeValue(v any) any {
	switch val := v.(type) {
	case map[any]any:
		m := make(map[string]any, len(val))
		for k, inner := range val {
			m[fmt.Sprint(k)] = normalizeValue(inner)
		}
		return m
	case map[string]any:
		return normalizeMap(val)
	case []any:
		s := make([]any, len(val))
		for i, inner := range val {
			s[i] = normalizeValue(inner)
		}
		return s
	default:
		return v
	}
}
