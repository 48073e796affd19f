// Package typeshape derives shape descriptors from Go types by reflection
// and decodes synthesized values back into them.
//
//	type User struct {
//	    ID    string    `json:"id" mock:"format=uuid"`
//	    Email string    `json:"email"`
//	    Bio   *string   `json:"bio,omitempty"`
//	    Seen  time.Time `json:"seen"`
//	}
//
//	users, err := typeshape.Mock[User](nil, synth.Config{Length: 10})
//
// Struct tags:
//   - json:"name" renames a field; json:"-" skips it.
//   - mock:"optional" makes a field optional. Pointer and omitempty fields
//     are optional already.
//   - mock:"undefined" declares a field that is always absent.
//   - mock:"format=email" sets the string format.
//   - mock:"-" skips a field.
package typeshape

import (
	"encoding/json"
	"fmt"
	"math"
	"reflect"
	"strings"
	"time"

	"github.com/getmockd/mocktools/pkg/shape"
	"github.com/getmockd/mocktools/pkg/synth"
)

// UnsupportedTypeError reports a Go type with no shape equivalent.
type UnsupportedTypeError struct {
	Type reflect.Type
	Path string
}

func (e *UnsupportedTypeError) Error() string {
	return fmt.Sprintf("unsupported type %s at %s", e.Type, e.Path)
}

var (
	timeType  = reflect.TypeFor[time.Time]()
	bytesType = reflect.TypeFor[[]byte]()
)

// FromType returns the descriptor of t. Struct types become Refs named after
// the type, so recursive types are finite.
func FromType(t reflect.Type) (shape.Descriptor, error) {
	b := &builder{refs: map[reflect.Type]*shape.Ref{}}
	return b.build(t, "$")
}

// Of returns the descriptor of T.
func Of[T any]() (shape.Descriptor, error) {
	return FromType(reflect.TypeFor[T]())
}

// Infer returns an Inferred descriptor for T, resolved on first use.
func Infer[T any]() *shape.Inferred {
	t := reflect.TypeFor[T]()
	return shape.Infer(t.String(), shape.ResolverFunc(func() (shape.Descriptor, error) {
		return FromType(t)
	}))
}

// Mock synthesizes cfg.Length values of T. A nil Synthesizer uses the
// package default.
func Mock[T any](s *synth.Synthesizer, cfg synth.Config) ([]T, error) {
	d, err := Of[T]()
	if err != nil {
		return nil, err
	}
	var values []any
	if s == nil {
		values, err = synth.Synthesize(d, cfg)
	} else {
		values, err = s.Synthesize(d, cfg)
	}
	if err != nil {
		return nil, err
	}

	data, err := json.Marshal(values)
	if err != nil {
		return nil, fmt.Errorf("encode values: %w", err)
	}
	out := make([]T, 0, len(values))
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("decode into %s: %w", reflect.TypeFor[T](), err)
	}
	return out, nil
}

type builder struct {
	refs map[reflect.Type]*shape.Ref
}

//nolint:gocyclo // one case per reflect kind
func (b *builder) build(t reflect.Type, path string) (shape.Descriptor, error) {
	switch t {
	case timeType:
		return shape.Date(), nil
	case bytesType:
		return shape.Format(shape.TypeString, "byte"), nil
	}

	switch t.Kind() {
	case reflect.Bool:
		return shape.Boolean(), nil
	case reflect.Int8:
		return shape.Range(shape.TypeInteger, math.MinInt8, math.MaxInt8), nil
	case reflect.Int16:
		return shape.Range(shape.TypeInteger, math.MinInt16, math.MaxInt16), nil
	case reflect.Int32:
		return shape.Range(shape.TypeInteger, math.MinInt32, math.MaxInt32), nil
	case reflect.Int, reflect.Int64:
		return shape.Integer(), nil
	case reflect.Uint8:
		return shape.Range(shape.TypeInteger, 0, math.MaxUint8), nil
	case reflect.Uint16:
		return shape.Range(shape.TypeInteger, 0, math.MaxUint16), nil
	case reflect.Uint32:
		return shape.Range(shape.TypeInteger, 0, math.MaxUint32), nil
	case reflect.Uint, reflect.Uint64, reflect.Uintptr:
		p := shape.Integer()
		zero := 0.0
		p.Minimum = &zero
		return p, nil
	case reflect.Float32, reflect.Float64:
		return shape.Number(), nil
	case reflect.String:
		return shape.String(), nil
	case reflect.Pointer:
		return b.build(t.Elem(), path)
	case reflect.Array:
		elems := make([]shape.Descriptor, t.Len())
		for i := range elems {
			d, err := b.build(t.Elem(), fmt.Sprintf("%s[%d]", path, i))
			if err != nil {
				return nil, err
			}
			elems[i] = d
		}
		return shape.TupleOf(elems...), nil
	case reflect.Slice:
		elem, err := b.build(t.Elem(), path+"[*]")
		if err != nil {
			return nil, err
		}
		return shape.ArrayOf(elem), nil
	case reflect.Map:
		if t.Key().Kind() != reflect.String {
			return nil, &UnsupportedTypeError{Type: t, Path: path}
		}
		value, err := b.build(t.Elem(), path+"[*]")
		if err != nil {
			return nil, err
		}
		return shape.MapOf(value), nil
	case reflect.Struct:
		return b.structRef(t, path)
	default:
		return nil, &UnsupportedTypeError{Type: t, Path: path}
	}
}

func (b *builder) structRef(t reflect.Type, path string) (shape.Descriptor, error) {
	if r, ok := b.refs[t]; ok {
		return r, nil
	}
	name := t.String()
	if name == "" || t.Name() == "" {
		name = "struct"
	}
	r := shape.NewRef(name)
	b.refs[t] = r

	obj := &shape.Object{}
	if err := b.fields(t, path, obj, map[reflect.Type]bool{t: true}); err != nil {
		return nil, err
	}
	r.Target = obj
	return r, nil
}

// fields appends the fields of t to obj. Untagged embedded structs are
// flattened the way encoding/json flattens them; an embedded type already
// being flattened is skipped.
func (b *builder) fields(t reflect.Type, path string, obj *shape.Object, embedding map[reflect.Type]bool) error {
	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)
		tag := parseTag(sf)
		if tag.skip || (!sf.IsExported() && !sf.Anonymous) {
			continue
		}

		ft := sf.Type
		if sf.Anonymous && tag.name == "" {
			embedded := ft
			if embedded.Kind() == reflect.Pointer {
				embedded = embedded.Elem()
			}
			if embedded.Kind() == reflect.Struct {
				if embedding[embedded] {
					continue
				}
				embedding[embedded] = true
				err := b.fields(embedded, path, obj, embedding)
				delete(embedding, embedded)
				if err != nil {
					return err
				}
				continue
			}
			if !sf.IsExported() {
				continue
			}
		}

		name := tag.name
		if name == "" {
			name = sf.Name
		}
		fieldPath := path + "." + name

		var d shape.Descriptor
		if tag.undefined {
			d = shape.Undefined()
		} else {
			var err error
			if d, err = b.build(ft, fieldPath); err != nil {
				return err
			}
			if tag.format != "" {
				p, ok := d.(*shape.Primitive)
				if !ok || p.Type != shape.TypeString {
					return fmt.Errorf("%s: format %q needs a string field", fieldPath, tag.format)
				}
				p.Format = tag.format
			}
		}

		obj.Fields = append(obj.Fields, shape.Field{
			Name:     name,
			Shape:    d,
			Optional: tag.optional || ft.Kind() == reflect.Pointer,
		})
	}
	return nil
}

type fieldTag struct {
	name      string
	skip      bool
	optional  bool
	undefined bool
	format    string
}

func parseTag(sf reflect.StructField) fieldTag {
	var tag fieldTag

	if js, ok := sf.Tag.Lookup("json"); ok {
		name, opts, hasOpts := strings.Cut(js, ",")
		if name == "-" && !hasOpts {
			tag.skip = true
		} else {
			tag.name = name
		}
		for _, opt := range strings.Split(opts, ",") {
			if opt == "omitempty" || opt == "omitzero" {
				tag.optional = true
			}
		}
	}

	for _, opt := range strings.Split(sf.Tag.Get("mock"), ",") {
		key, value, _ := strings.Cut(strings.TrimSpace(opt), "=")
		switch key {
		case "-":
			tag.skip = true
		case "optional":
			tag.optional = true
		case "undefined":
			tag.undefined = true
		case "format":
			tag.format = value
		}
	}
	return tag
}
