package jsonshape

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/getmockd/mocktools/pkg/shape"
	"github.com/getmockd/mocktools/pkg/synth"
)

// Schema is a compiled JSON Schema document.
type Schema struct {
	url      string
	compiler *jsonschema.Compiler
	root     *jsonschema.Schema
	defs     map[string]string
}

// Load reads and compiles the schema file at path.
func Load(path string) (*Schema, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read schema: %w", err)
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve schema path: %w", err)
	}
	return Parse(abs, data)
}

// Parse compiles data as the schema document located at url. Relative $refs
// to other documents are resolved against url.
func Parse(url string, data []byte) (*Schema, error) {
	var doc map[string]json.RawMessage
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse schema %s: %w", url, err)
	}

	compiler := jsonschema.NewCompiler()
	compiler.Draft = jsonschema.Draft2020
	if err := compiler.AddResource(url, bytes.NewReader(data)); err != nil {
		return nil, fmt.Errorf("add schema resource: %w", err)
	}
	root, err := compiler.Compile(url)
	if err != nil {
		return nil, fmt.Errorf("compile schema %s: %w", url, err)
	}

	s := &Schema{url: url, compiler: compiler, root: root, defs: map[string]string{}}
	// $defs wins over the draft-7 definitions keyword on a name clash.
	for _, keyword := range []string{"definitions", "$defs"} {
		raw, ok := doc[keyword]
		if !ok {
			continue
		}
		var names map[string]json.RawMessage
		if err := json.Unmarshal(raw, &names); err != nil {
			return nil, fmt.Errorf("parse %s: %w", keyword, err)
		}
		for name := range names {
			s.defs[name] = "#/" + keyword + "/" + escapePointer(name)
		}
	}
	return s, nil
}

// Names returns the names under $defs and definitions, sorted.
func (s *Schema) Names() []string {
	names := make([]string, 0, len(s.defs))
	for name := range s.defs {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Source returns the named definition. The empty name selects the root
// schema.
func (s *Schema) Source(name string) (*Source, error) {
	if name == "" {
		return &Source{name: rootName(s.url), schema: s.root}, nil
	}
	ptr, ok := s.defs[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", shape.ErrUnknownType, name)
	}
	compiled, err := s.compiler.Compile(s.url + ptr)
	if err != nil {
		return nil, fmt.Errorf("compile %s: %w", name, err)
	}
	return &Source{name: name, schema: compiled}, nil
}

// Source is one compiled schema. It implements shape.Resolver.
type Source struct {
	name   string
	schema *jsonschema.Schema
}

// Name returns the definition name, or the file name for the root.
func (s *Source) Name() string { return s.name }

// Resolve translates the schema into a descriptor.
func (s *Source) Resolve() (shape.Descriptor, error) {
	c := &converter{refs: map[*jsonschema.Schema]*shape.Ref{}}
	return c.convert(s.schema)
}

// Validate checks a synthesized value against the schema.
func (s *Source) Validate(v any) error {
	doc, err := synth.JSONValue(v)
	if err != nil {
		return err
	}
	if err := s.schema.Validate(doc); err != nil {
		return fmt.Errorf("%s: %w", s.name, err)
	}
	return nil
}

func escapePointer(name string) string {
	return strings.NewReplacer("~", "~0", "/", "~1").Replace(name)
}

func rootName(url string) string {
	base := filepath.Base(url)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
