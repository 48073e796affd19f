package synth

import (
	"encoding/json"
	"fmt"
	"math"
	"reflect"
	"strconv"
	"time"
	"unicode/utf8"

	"github.com/getmockd/mocktools/pkg/shape"
)

// Conforms reports whether v matches d structurally and by kind. It accepts
// both synthesized values and their Plain form, so decoded JSON can be
// checked too. It returns a *MismatchError for the first violation.
func Conforms(d shape.Descriptor, v any) error {
	c := &checker{resolved: make(map[*shape.Inferred]shape.Descriptor)}
	return c.check(d, v, "$")
}

type checker struct {
	resolved map[*shape.Inferred]shape.Descriptor
}

func mismatch(path, expected string, v any) error {
	return &MismatchError{Path: path, Expected: expected, Got: describe(v)}
}

func describe(v any) string {
	switch val := v.(type) {
	case nil:
		return "null"
	case Optional:
		if val.IsAbsent() {
			return "absent"
		}
		return describe(val.Value())
	case *Record:
		return "object"
	default:
		return fmt.Sprintf("%T", v)
	}
}

//nolint:gocyclo // one case per descriptor variant
func (c *checker) check(d shape.Descriptor, v any, path string) error {
	if o, ok := v.(Optional); ok {
		if inner, present := o.Get(); present {
			v = inner
		} else if !isUndefined(d) {
			return mismatch(path, "a value", v)
		}
	}

	switch s := d.(type) {
	case *shape.Primitive:
		return checkPrimitive(s, v, path)
	case *shape.Tuple:
		arr, ok := v.([]any)
		if !ok || len(arr) != len(s.Elements) {
			return mismatch(path, fmt.Sprintf("tuple of %d", len(s.Elements)), v)
		}
		for i, e := range s.Elements {
			if err := c.check(e, arr[i], path+"["+strconv.Itoa(i)+"]"); err != nil {
				return err
			}
		}
		return nil
	case *shape.VariadicArray:
		arr, ok := v.([]any)
		min := len(s.Prefix) + s.MinTail
		if !ok || len(arr) < min {
			return mismatch(path, fmt.Sprintf("array of at least %d", min), v)
		}
		if s.MaxTail != nil && len(arr)-len(s.Prefix) > *s.MaxTail {
			return mismatch(path, fmt.Sprintf("array of at most %d", len(s.Prefix)+*s.MaxTail), v)
		}
		for i, e := range arr {
			elem := s.Tail
			if i < len(s.Prefix) {
				elem = s.Prefix[i]
			}
			if err := c.check(elem, e, path+"["+strconv.Itoa(i)+"]"); err != nil {
				return err
			}
		}
		return nil
	case *shape.Object:
		return c.checkObject(s, v, path)
	case *shape.Mapped:
		m, ok := v.(map[string]any)
		if !ok {
			return mismatch(path, "map", v)
		}
		if len(m) < s.MinKeys || (s.MaxKeys != nil && len(m) > *s.MaxKeys) {
			return &MismatchError{Path: path, Expected: "map within key count bounds", Got: strconv.Itoa(len(m)) + " keys"}
		}
		for k, e := range m {
			if err := c.check(s.Value, e, path+"["+strconv.Quote(k)+"]"); err != nil {
				return err
			}
		}
		return nil
	case *shape.Inferred:
		resolved, ok := c.resolved[s]
		if !ok {
			var err error
			if resolved, err = s.Source.Resolve(); err != nil {
				return &ResolveError{Name: s.Name, Err: err}
			}
			c.resolved[s] = resolved
		}
		return c.check(resolved, v, path)
	case *shape.Enum:
		for _, want := range s.Values {
			if looseEqual(want, v) {
				return nil
			}
		}
		return mismatch(path, "enum member", v)
	case *shape.Union:
		for _, variant := range s.Variants {
			if c.check(variant, v, path) == nil {
				return nil
			}
		}
		return mismatch(path, "one of union", v)
	case *shape.Ref:
		if s.Target == nil {
			return &UnsupportedShapeError{Variant: "unresolved ref " + s.Name, Path: path}
		}
		return c.check(s.Target, v, path)
	case nil:
		return &UnsupportedShapeError{Variant: "nil", Path: path}
	default:
		return &UnsupportedShapeError{Variant: fmt.Sprintf("%s (%T)", d.Kind(), d), Path: path}
	}
}

func (c *checker) checkObject(s *shape.Object, v any, path string) error {
	var get func(name string) (any, bool)
	var keys []string
	switch obj := v.(type) {
	case *Record:
		get = func(name string) (any, bool) { return obj.Get(name).Get() }
		keys = obj.Keys()
	case map[string]any:
		get = func(name string) (any, bool) {
			e, ok := obj[name]
			return e, ok
		}
		for k := range obj {
			keys = append(keys, k)
		}
	default:
		return mismatch(path, "object", v)
	}

	for _, k := range keys {
		if _, declared := s.Field(k); !declared {
			return &MismatchError{Path: path + "." + k, Expected: "no field", Got: "unexpected field"}
		}
	}
	for _, f := range s.Fields {
		fieldPath := path + "." + f.Name
		e, present := get(f.Name)
		switch {
		case isUndefined(f.Shape):
			if present {
				return mismatch(fieldPath, "absent", e)
			}
		case !present:
			if !f.Optional {
				return &MismatchError{Path: fieldPath, Expected: "required field", Got: "absent"}
			}
		default:
			if err := c.check(f.Shape, e, fieldPath); err != nil {
				return err
			}
		}
	}
	return nil
}

func checkPrimitive(p *shape.Primitive, v any, path string) error {
	switch p.Type {
	case shape.TypeString:
		s, ok := v.(string)
		if !ok {
			return mismatch(path, "string", v)
		}
		n := utf8.RuneCountInString(s)
		if (p.MinLength != nil && n < *p.MinLength) || (p.MaxLength != nil && n > *p.MaxLength) {
			return &MismatchError{Path: path, Expected: "string within length bounds", Got: strconv.Itoa(n) + " characters"}
		}
		return nil
	case shape.TypeNumber, shape.TypeInteger:
		f, ok := toFloat(v)
		if !ok {
			return mismatch(path, p.Type.String(), v)
		}
		if p.Type == shape.TypeInteger && f != math.Trunc(f) {
			return &MismatchError{Path: path, Expected: "integer", Got: strconv.FormatFloat(f, 'g', -1, 64)}
		}
		if (p.Minimum != nil && f < *p.Minimum) || (p.Maximum != nil && f > *p.Maximum) {
			return &MismatchError{Path: path, Expected: "number within bounds", Got: strconv.FormatFloat(f, 'g', -1, 64)}
		}
		return nil
	case shape.TypeBoolean:
		if _, ok := v.(bool); !ok {
			return mismatch(path, "boolean", v)
		}
		return nil
	case shape.TypeDate:
		switch val := v.(type) {
		case time.Time:
			return nil
		case string:
			if _, err := time.Parse(time.RFC3339Nano, val); err == nil {
				return nil
			}
		}
		return mismatch(path, "date", v)
	case shape.TypeNull:
		if v != nil {
			return mismatch(path, "null", v)
		}
		return nil
	case shape.TypeUndefined:
		if o, ok := v.(Optional); ok && o.IsAbsent() {
			return nil
		}
		return mismatch(path, "absent", v)
	default:
		return &UnsupportedShapeError{Variant: "primitive " + p.Type.String(), Path: path}
	}
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(rv.Int()), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return float64(rv.Uint()), true
	}
	return 0, false
}

func looseEqual(a, b any) bool {
	if fa, ok := toFloat(a); ok {
		fb, ok := toFloat(b)
		return ok && fa == fb
	}
	return reflect.DeepEqual(a, b)
}
