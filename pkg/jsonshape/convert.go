package jsonshape

import (
	"math/big"
	"slices"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/getmockd/mocktools/pkg/shape"
)

// converter translates compiled schemas. Every $ref target is converted once
// and shared through a shape.Ref, which is what terminates recursive schemas.
type converter struct {
	refs map[*jsonschema.Schema]*shape.Ref
}

func (c *converter) convert(s *jsonschema.Schema) (shape.Descriptor, error) {
	if s.Always != nil {
		if *s.Always {
			return shape.String(), nil
		}
		return shape.Undefined(), nil
	}

	for _, target := range []*jsonschema.Schema{s.Ref, s.DynamicRef, s.RecursiveRef} {
		if target != nil {
			return c.ref(target)
		}
	}

	switch {
	case len(s.Constant) > 0:
		return shape.EnumOf(s.Constant[0]), nil
	case len(s.Enum) > 0:
		return shape.EnumOf(s.Enum...), nil
	case len(s.AllOf) > 0:
		return c.allOf(s)
	case len(s.OneOf) > 0:
		return c.union(s.OneOf)
	case len(s.AnyOf) > 0:
		return c.union(s.AnyOf)
	}

	types := s.Types
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

func (c *converter) ref(target *jsonschema.Schema) (shape.Descriptor, error) {
	if r, ok := c.refs[target]; ok {
		return r, nil
	}
	r := shape.NewRef(refName(target.Location))
	c.refs[target] = r
	d, err := c.convert(target)
	if err != nil {
		return nil, err
	}
	r.Target = d
	return r, nil
}

func (c *converter) union(schemas []*jsonschema.Schema) (shape.Descriptor, error) {
	variants := make([]shape.Descriptor, 0, len(schemas))
	for _, sub := range schemas {
		d, err := c.convert(sub)
		if err != nil {
			return nil, err
		}
		variants = append(variants, d)
	}
	return shape.OneOf(variants...), nil
}

// allOf merges the object members into one object. A non-object member wins
// outright since no merge of it is meaningful.
func (c *converter) allOf(s *jsonschema.Schema) (shape.Descriptor, error) {
	merged := &shape.Object{}
	if len(s.Properties) > 0 {
		own, err := c.object(s)
		if err != nil {
			return nil, err
		}
		merged.Fields = append(merged.Fields, own.(*shape.Object).Fields...)
	}
	for _, sub := range s.AllOf {
		d, err := c.convert(sub)
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

func (c *converter) typed(s *jsonschema.Schema, t string) (shape.Descriptor, error) {
	switch t {
	case "string":
		p := shape.Format(shape.TypeString, s.Format)
		p.MinLength = intBound(s.MinLength)
		p.MaxLength = intBound(s.MaxLength)
		return p, nil
	case "number", "integer":
		p := &shape.Primitive{Type: shape.TypeNumber}
		step := 0.01
		if t == "integer" {
			p.Type = shape.TypeInteger
			step = 1
		}
		p.Minimum = ratBound(s.Minimum, s.ExclusiveMinimum, step)
		p.Maximum = ratBound(s.Maximum, s.ExclusiveMaximum, -step)
		return p, nil
	case "boolean":
		return shape.Boolean(), nil
	case "null":
		return shape.Null(), nil
	case "array":
		return c.array(s)
	default:
		return c.object(s)
	}
}

func (c *converter) object(s *jsonschema.Schema) (shape.Descriptor, error) {
	if len(s.Properties) == 0 {
		if value, ok := s.AdditionalProperties.(*jsonschema.Schema); ok {
			d, err := c.convert(value)
			if err != nil {
				return nil, err
			}
			m := shape.MapOf(d)
			if s.MinProperties > 0 {
				m.MinKeys = s.MinProperties
			}
			m.MaxKeys = intBound(s.MaxProperties)
			return m, nil
		}
	}

	names := make([]string, 0, len(s.Properties))
	for name := range s.Properties {
		names = append(names, name)
	}
	slices.Sort(names)

	obj := &shape.Object{Fields: make([]shape.Field, 0, len(names))}
	for _, name := range names {
		d, err := c.convert(s.Properties[name])
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

func (c *converter) array(s *jsonschema.Schema) (shape.Descriptor, error) {
	var prefixSchemas []*jsonschema.Schema
	var tailSchema *jsonschema.Schema
	closed := false

	switch items := s.Items.(type) {
	case []*jsonschema.Schema:
		prefixSchemas = items
		switch extra := s.AdditionalItems.(type) {
		case *jsonschema.Schema:
			tailSchema = extra
		case bool:
			closed = !extra
		}
	case *jsonschema.Schema:
		tailSchema = items
	}
	if len(s.PrefixItems) > 0 || s.Items2020 != nil {
		prefixSchemas, tailSchema = s.PrefixItems, s.Items2020
	}
	if tailSchema != nil && tailSchema.Always != nil && !*tailSchema.Always {
		tailSchema, closed = nil, true
	}

	prefix := make([]shape.Descriptor, 0, len(prefixSchemas))
	for _, sub := range prefixSchemas {
		d, err := c.convert(sub)
		if err != nil {
			return nil, err
		}
		prefix = append(prefix, d)
	}
	if closed || (tailSchema == nil && len(prefix) > 0) {
		return shape.TupleOf(prefix...), nil
	}

	var tail shape.Descriptor = shape.String()
	if tailSchema != nil {
		d, err := c.convert(tailSchema)
		if err != nil {
			return nil, err
		}
		tail = d
	}

	arr := shape.Variadic(prefix, tail)
	arr.MinTail = max(0, s.MinItems-len(prefix))
	if s.MaxItems >= 0 {
		arr.MaxTail = intBound(max(0, s.MaxItems-len(prefix)))
	}
	return arr, nil
}

// impliedType guesses the type of a schema without a type keyword.
func impliedType(s *jsonschema.Schema) string {
	switch {
	case len(s.Properties) > 0 || s.AdditionalProperties != nil:
		return "object"
	case s.Items != nil || s.Items2020 != nil || len(s.PrefixItems) > 0:
		return "array"
	case s.Minimum != nil || s.Maximum != nil || s.ExclusiveMinimum != nil || s.ExclusiveMaximum != nil:
		return "number"
	}
	return "string"
}

// refName turns a schema location such as file:///x/user.json#/$defs/Node
// into Node.
func refName(location string) string {
	if i := strings.LastIndexAny(location, "/#"); i >= 0 && i < len(location)-1 {
		return location[i+1:]
	}
	return location
}

func intBound(n int) *int {
	if n < 0 {
		return nil
	}
	return &n
}

// ratBound prefers the inclusive bound and otherwise nudges the exclusive one
// inwards by step.
func ratBound(inclusive, exclusive *big.Rat, step float64) *float64 {
	switch {
	case inclusive != nil:
		f, _ := inclusive.Float64()
		return &f
	case exclusive != nil:
		f, _ := exclusive.Float64()
		f += step
		return &f
	}
	return nil
}
