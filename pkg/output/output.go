// Package output encodes synthesized values as JSON, NDJSON, YAML or XML and
// projects them with JSONPath.
package output

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"slices"
	"strings"

	"github.com/ohler55/ojg/jp"

	"github.com/getmockd/mocktools/pkg/synth"
)

// ErrUnknownFormat is returned for an unrecognized output format.
var ErrUnknownFormat = errors.New("unknown output format")

// Format is an output encoding.
type Format string

// Output formats.
const (
	FormatJSON   Format = "json"
	FormatNDJSON Format = "ndjson"
	FormatYAML   Format = "yaml"
	FormatXML    Format = "xml"
)

// Formats lists the supported formats.
func Formats() []Format {
	return []Format{FormatJSON, FormatNDJSON, FormatYAML, FormatXML}
}

// ParseFormat validates a format name. The empty string is JSON.
func ParseFormat(s string) (Format, error) {
	if s == "" {
		return FormatJSON, nil
	}
	f := Format(strings.ToLower(s))
	if !slices.Contains(Formats(), f) {
		return "", fmt.Errorf("%w: %q (want one of %v)", ErrUnknownFormat, s, Formats())
	}
	return f, nil
}

// FormatForPath picks a format from a file extension, falling back to JSON.
func FormatForPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".ndjson", ".jsonl":
		return FormatNDJSON
	case ".yaml", ".yml":
		return FormatYAML
	case ".xml":
		return FormatXML
	}
	return FormatJSON
}

// Write encodes values to w in format f.
func Write(w io.Writer, values []any, f Format) error {
	if values == nil {
		values = []any{}
	}
	switch f {
	case FormatJSON, "":
		enc := json.NewEncoder(w)
		enc.SetEscapeHTML(false)
		enc.SetIndent("", "  ")
		if err := enc.Encode(values); err != nil {
			return fmt.Errorf("encode json: %w", err)
		}
		return nil
	case FormatNDJSON:
		enc := json.NewEncoder(w)
		enc.SetEscapeHTML(false)
		for i, v := range values {
			if err := enc.Encode(v); err != nil {
				return fmt.Errorf("encode value %d: %w", i, err)
			}
		}
		return nil
	case FormatYAML:
		return writeYAML(w, values)
	case FormatXML:
		return writeXML(w, values)
	}
	return fmt.Errorf("%w: %q", ErrUnknownFormat, f)
}

// Query evaluates a JSONPath expression against the plain form of values
// and returns every match.
func Query(values []any, expr string) ([]any, error) {
	x, err := jp.ParseString(expr)
	if err != nil {
		return nil, fmt.Errorf("invalid JSONPath %q: %w", expr, err)
	}
	matches := x.Get(synth.Plain(values))
	if matches == nil {
		matches = []any{}
	}
	return matches, nil
}
