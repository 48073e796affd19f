// Package gqlshape resolves GraphQL SDL types into shape descriptors using
// vektah/gqlparser.
//
// Input object values are validated the way a server would coerce them as
// operation variables. Output types have no such entry point in gqlparser,
// so their values are checked structurally with synth.Conforms.
package gqlshape

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"slices"
	"strings"

	"github.com/vektah/gqlparser/v2"
	"github.com/vektah/gqlparser/v2/ast"
	"github.com/vektah/gqlparser/v2/validator"

	"github.com/getmockd/mocktools/pkg/shape"
	"github.com/getmockd/mocktools/pkg/synth"
)

// Schema is a parsed GraphQL schema.
type Schema struct {
	ast *ast.Schema
}

// Load parses the SDL file at path.
func Load(path string) (*Schema, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read schema file %s: %w", path, err)
	}
	return parse(path, string(data))
}

// Parse parses an SDL string.
func Parse(sdl string) (*Schema, error) {
	return parse("schema", sdl)
}

func parse(name, sdl string) (*Schema, error) {
	schema, err := gqlparser.LoadSchema(&ast.Source{Name: name, Input: sdl})
	if err != nil {
		return nil, fmt.Errorf("failed to parse GraphQL schema: %w", err)
	}
	return &Schema{ast: schema}, nil
}

// Names returns the user-defined object, input, interface, union and enum
// types, sorted. Root operation types are left out.
func (s *Schema) Names() []string {
	var names []string
	for name, def := range s.ast.Types {
		if def.BuiltIn || strings.HasPrefix(name, "__") || s.isRoot(def) {
			continue
		}
		switch def.Kind {
		case ast.Object, ast.InputObject, ast.Interface, ast.Union, ast.Enum:
			names = append(names, name)
		}
	}
	slices.Sort(names)
	return names
}

func (s *Schema) isRoot(def *ast.Definition) bool {
	return def == s.ast.Query || def == s.ast.Mutation || def == s.ast.Subscription
}

// Source returns the named type. The empty name selects the first name in
// sorted order.
func (s *Schema) Source(name string) (*Source, error) {
	if name == "" {
		names := s.Names()
		if len(names) == 0 {
			return nil, fmt.Errorf("%w: schema defines no types", shape.ErrUnknownType)
		}
		name = names[0]
	}
	def, ok := s.ast.Types[name]
	if !ok || def.Kind == ast.Scalar {
		return nil, fmt.Errorf("%w: %s", shape.ErrUnknownType, name)
	}
	return &Source{schema: s.ast, def: def}, nil
}

// Source is one named type. It implements shape.Resolver.
type Source struct {
	schema *ast.Schema
	def    *ast.Definition
}

// Name returns the type name.
func (s *Source) Name() string { return s.def.Name }

// Resolve translates the type into a descriptor.
func (s *Source) Resolve() (shape.Descriptor, error) {
	c := &converter{schema: s.schema, refs: map[string]*shape.Ref{}}
	return c.named(s.def.Name)
}

// Validate checks v against the type. Input objects are coerced as the
// value of a non-null variable of the type.
func (s *Source) Validate(v any) error {
	if s.def.Kind != ast.InputObject {
		d, err := s.Resolve()
		if err != nil {
			return err
		}
		return synth.Conforms(d, v)
	}

	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode value: %w", err)
	}
	var value any
	if err := json.Unmarshal(data, &value); err != nil {
		return fmt.Errorf("decode value: %w", err)
	}

	op := &ast.OperationDefinition{
		Operation: ast.Query,
		VariableDefinitions: ast.VariableDefinitionList{{
			Variable:   "value",
			Type:       ast.NonNullNamedType(s.def.Name, nil),
			Definition: s.def,
		}},
	}
	if _, err := validator.VariableValues(s.schema, op, map[string]any{"value": value}); err != nil {
		return fmt.Errorf("%s: %w", s.def.Name, err)
	}
	return nil
}

type converter struct {
	schema *ast.Schema
	refs   map[string]*shape.Ref
}

// fieldType maps a type reference. Nullable list elements may be null.
func (c *converter) fieldType(t *ast.Type) (shape.Descriptor, error) {
	if t.Elem != nil {
		elem, err := c.fieldType(t.Elem)
		if err != nil {
			return nil, err
		}
		if !t.Elem.NonNull {
			elem = shape.OneOf(elem, shape.Null())
		}
		return shape.ArrayOf(elem), nil
	}
	return c.named(t.NamedType)
}

func (c *converter) named(name string) (shape.Descriptor, error) {
	switch name {
	case "Int":
		return shape.Range(shape.TypeInteger, math.MinInt32, math.MaxInt32), nil
	case "Float":
		return shape.Number(), nil
	case "String":
		return shape.String(), nil
	case "Boolean":
		return shape.Boolean(), nil
	case "ID":
		return shape.Format(shape.TypeString, "uuid"), nil
	}

	def, ok := c.schema.Types[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", shape.ErrUnknownType, name)
	}

	switch def.Kind {
	case ast.Scalar:
		lower := strings.ToLower(name)
		if strings.Contains(lower, "date") || strings.Contains(lower, "time") {
			return shape.Date(), nil
		}
		return shape.String(), nil
	case ast.Enum:
		values := make([]any, len(def.EnumValues))
		for i, v := range def.EnumValues {
			values[i] = v.Name
		}
		return shape.EnumOf(values...), nil
	case ast.Union:
		return c.union(def.Types)
	case ast.Interface:
		possible := c.schema.PossibleTypes[name]
		if len(possible) > 0 {
			names := make([]string, len(possible))
			for i, p := range possible {
				names[i] = p.Name
			}
			return c.union(names)
		}
	}
	return c.object(def)
}

func (c *converter) union(names []string) (shape.Descriptor, error) {
	variants := make([]shape.Descriptor, 0, len(names))
	for _, name := range names {
		d, err := c.named(name)
		if err != nil {
			return nil, err
		}
		variants = append(variants, d)
	}
	return shape.OneOf(variants...), nil
}

func (c *converter) object(def *ast.Definition) (shape.Descriptor, error) {
	if r, ok := c.refs[def.Name]; ok {
		return r, nil
	}
	r := shape.NewRef(def.Name)
	c.refs[def.Name] = r

	obj := &shape.Object{Fields: make([]shape.Field, 0, len(def.Fields))}
	for _, f := range def.Fields {
		if strings.HasPrefix(f.Name, "__") {
			continue
		}
		d, err := c.fieldType(f.Type)
		if err != nil {
			return nil, fmt.Errorf("field %s.%s: %w", def.Name, f.Name, err)
		}
		obj.Fields = append(obj.Fields, shape.Field{Name: f.Name, Shape: d, Optional: !f.Type.NonNull})
	}
	r.Target = obj
	return r, nil
}
