// Package openapishape resolves OpenAPI 3 component schemas into shape
// descriptors using getkin/kin-openapi.
//
// A schema may pin a string faker with the x-mocktools-faker extension:
//
//	email:
//	  type: string
//	  x-mocktools-faker: email
package openapishape

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"slices"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/getmockd/mocktools/pkg/shape"
)

// FakerExtension names the vendor extension that selects a faker for a
// string schema.
const FakerExtension = "x-mocktools-faker"

// Document is a loaded and validated OpenAPI document.
type Document struct {
	doc *openapi3.T
}

// Load reads the OpenAPI document at path.
func Load(path string) (*Document, error) {
	loader := openapi3.NewLoader()
	loader.IsExternalRefsAllowed = true
	doc, err := loader.LoadFromFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load OpenAPI spec: %w", err)
	}
	return newDocument(doc)
}

// Parse loads an OpenAPI document from YAML or JSON bytes.
func Parse(data []byte) (*Document, error) {
	doc, err := openapi3.NewLoader().LoadFromData(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse OpenAPI spec: %w", err)
	}
	return newDocument(doc)
}

func newDocument(doc *openapi3.T) (*Document, error) {
	if err := doc.Validate(context.Background()); err != nil {
		return nil, fmt.Errorf("invalid OpenAPI spec: %w", err)
	}
	return &Document{doc: doc}, nil
}

// Names returns the component schema names, sorted.
func (d *Document) Names() []string {
	if d.doc.Components == nil {
		return nil
	}
	names := make([]string, 0, len(d.doc.Components.Schemas))
	for name := range d.doc.Components.Schemas {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Source returns the named component schema. The empty name selects the
// first name in sorted order.
func (d *Document) Source(name string) (*Source, error) {
	if name == "" {
		names := d.Names()
		if len(names) == 0 {
			return nil, fmt.Errorf("%w: document has no component schemas", shape.ErrUnknownType)
		}
		name = names[0]
	}
	if d.doc.Components == nil {
		return nil, fmt.Errorf("%w: %s", shape.ErrUnknownType, name)
	}
	ref, ok := d.doc.Components.Schemas[name]
	if !ok || ref.Value == nil {
		return nil, fmt.Errorf("%w: %s", shape.ErrUnknownType, name)
	}
	return &Source{name: name, schema: ref.Value}, nil
}

// Source is one component schema. It implements shape.Resolver.
type Source struct {
	name   string
	schema *openapi3.Schema
}

// Name returns the component name.
func (s *Source) Name() string { return s.name }

// Resolve translates the schema into a descriptor.
func (s *Source) Resolve() (shape.Descriptor, error) {
	c := &converter{refs: map[*openapi3.Schema]*shape.Ref{}}
	// The root is registered so a self-reference ties back to it.
	root := shape.NewRef(s.name)
	c.refs[s.schema] = root
	d, err := c.convert(s.schema)
	if err != nil {
		return nil, err
	}
	root.Target = d
	return root, nil
}

// Validate checks a synthesized value with Schema.VisitJSON.
func (s *Source) Validate(v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode value: %w", err)
	}
	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("decode value: %w", err)
	}
	if err := s.schema.VisitJSON(doc); err != nil {
		return fmt.Errorf("%s: %w", s.name, err)
	}
	return nil
}

type converter struct {
	refs map[*openapi3.Schema]*shape.Ref
}

func (c *converter) ref(sr *openapi3.SchemaRef) (shape.Descriptor, error) {
	if sr == nil || sr.Value == nil {
		return shape.String(), nil
	}
	if sr.Ref == "" {
		return c.convert(sr.Value)
	}
	if r, ok := c.refs[sr.Value]; ok {
		return r, nil
	}
	r := shape.NewRef(sr.Ref[strings.LastIndex(sr.Ref, "/")+1:])
	c.refs[sr.Value] = r
	d, err := c.convert(sr.Value)
	if err != nil {
		return nil, err
	}
	r.Target = d
	return r, nil
}

func (c *converter) convert(s *openapi3.Schema) (shape.Descriptor, error) {
	d, err := c.convertNonNull(s)
	if err != nil || !s.Nullable {
		return d, err
	}
	return shape.OneOf(d, shape.Null()), nil
}

func (c *converter) convertNonNull(s *openapi3.Schema) (shape.Descriptor, error) {
	switch {
	case len(s.Enum) > 0:
		return shape.EnumOf(s.Enum...), nil
	case len(s.AllOf) > 0:
		return c.allOf(s)
	case len(s.OneOf) > 0:
		return c.union(s.OneOf)
	case len(s.AnyOf) > 0:
		return c.union(s.AnyOf)
	}

	var types []string
	if s.Type != nil {
		types = s.Type.Slice()
	}
	if len(types) == 0 {
		types = []string{impliedType(s)}
	}
	if len(types) == 1 {
		return c.typed(s, types[0])
	}
	variants := make([]shape.Descriptor, 0, len(types))
	for _, t := range types {
		d, err := c.typed(s, t)
		if err != nil {
			return nil, err
		}
		variants = append(variants, d)
	}
	return shape.OneOf(variants...), nil
}

func (c *converter) union(refs openapi3.SchemaRefs) (shape.Descriptor, error) {
	variants := make([]shape.Descriptor, 0, len(refs))
	for _, sr := range refs {
		d, err := c.ref(sr)
		if err != nil {
			return nil, err
		}
		variants = append(variants, d)
	}
	return shape.OneOf(variants...), nil
}

func (c *converter) allOf(s *openapi3.Schema) (shape.Descriptor, error) {
	merged := &shape.Object{}
	if len(s.Properties) > 0 {
		own, err := c.object(s)
		if err != nil {
			return nil, err
		}
		merged.Fields = append(merged.Fields, own.(*shape.Object).Fields...)
	}
	for _, sr := range s.AllOf {
		d, err := c.ref(sr)
		if err != nil {
			return nil, err
		}
		obj, ok := shape.Deref(d).(*shape.Object)
		if !ok {
			return d, nil
		}
		for _, f := range obj.Fields {
			if i := slices.IndexFunc(merged.Fields, func(g shape.Field) bool { return g.Name == f.Name }); i >= 0 {
				merged.Fields[i].Optional = merged.Fields[i].Optional && f.Optional
				continue
			}
			merged.Fields = append(merged.Fields, f)
		}
	}
	return merged, nil
}

func (c *converter) typed(s *openapi3.Schema, t string) (shape.Descriptor, error) {
	switch t {
	case openapi3.TypeString:
		p := shape.Format(shape.TypeString, s.Format)
		if faker, ok := s.Extensions[FakerExtension].(string); ok {
			p.Format = faker
		}
		if s.MinLength > 0 {
			p.MinLength = intPtr(int(s.MinLength))
		}
		if s.MaxLength != nil {
			p.MaxLength = intPtr(int(*s.MaxLength))
		}
		return p, nil
	case openapi3.TypeInteger:
		p := &shape.Primitive{Type: shape.TypeInteger, Minimum: s.Min, Maximum: s.Max}
		if s.Format == "int32" {
			if p.Minimum == nil {
				p.Minimum = floatPtr(math.MinInt32)
			}
			if p.Maximum == nil {
				p.Maximum = floatPtr(math.MaxInt32)
			}
		}
		return p, nil
	case openapi3.TypeNumber:
		return &shape.Primitive{Type: shape.TypeNumber, Minimum: s.Min, Maximum: s.Max}, nil
	case openapi3.TypeBoolean:
		return shape.Boolean(), nil
	case "null":
		return shape.Null(), nil
	case openapi3.TypeArray:
		tail, err := c.ref(s.Items)
		if err != nil {
			return nil, err
		}
		arr := shape.ArrayOf(tail)
		arr.MinTail = int(s.MinItems)
		if s.MaxItems != nil {
			arr.MaxTail = intPtr(int(*s.MaxItems))
		}
		return arr, nil
	default:
		return c.object(s)
	}
}

func (c *converter) object(s *openapi3.Schema) (shape.Descriptor, error) {
	if len(s.Properties) == 0 && s.AdditionalProperties.Schema != nil {
		d, err := c.ref(s.AdditionalProperties.Schema)
		if err != nil {
			return nil, err
		}
		m := shape.MapOf(d)
		m.MinKeys = int(s.MinProps)
		if s.MaxProps != nil {
			m.MaxKeys = intPtr(int(*s.MaxProps))
		}
		return m, nil
	}

	names := make([]string, 0, len(s.Properties))
	for name := range s.Properties {
		names = append(names, name)
	}
	slices.Sort(names)

	obj := &shape.Object{Fields: make([]shape.Field, 0, len(names))}
	for _, name := range names {
		d, err := c.ref(s.Properties[name])
		if err != nil {
			return nil, err
		}
		obj.Fields = append(obj.Fields, shape.Field{
			Name:     name,
			Shape:    d,
			Optional: !slices.Contains(s.Required, name),
		})
	}
	return obj, nil
}

func impliedType(s *openapi3.Schema) string {
	switch {
	case len(s.Properties) > 0 || s.AdditionalProperties.Schema != nil:
		return openapi3.TypeObject
	case s.Items != nil:
		return openapi3.TypeArray
	case s.Min != nil || s.Max != nil:
		return openapi3.TypeNumber
	}
	return openapi3.TypeString
}

func intPtr(n int) *int { return &n }

func floatPtr(f float64) *float64 { return &f }
