package shape

import (
	"fmt"
	"strconv"
)

// InvalidError reports a descriptor that cannot be synthesized.
type InvalidError struct {
	Path   string
	Reason string
}

func (e *InvalidError) Error() string {
	return fmt.Sprintf("invalid shape at %s: %s", e.Path, e.Reason)
}

// Validate checks that d is finite: no nil children, every Ref resolved, and
// no cycle that bypasses a Ref. Inferred descriptors are treated as opaque.
func Validate(d Descriptor) error {
	v := &validator{
		open: make(map[Descriptor]bool),
		refs: make(map[*Ref]bool),
	}
	return v.walk(d, "$")
}

type validator struct {
	open map[Descriptor]bool
	refs map[*Ref]bool
}

func (v *validator) walk(d Descriptor, path string) error {
	if d == nil {
		return &InvalidError{Path: path, Reason: "nil descriptor"}
	}

	switch s := d.(type) {
	case *Primitive:
		if s == nil {
			return &InvalidError{Path: path, Reason: "nil primitive"}
		}
		if _, ok := typeNames[s.Type]; !ok {
			return &InvalidError{Path: path, Reason: "unknown primitive " + s.Type.String()}
		}
		if s.MinLength != nil && s.MaxLength != nil && *s.MinLength > *s.MaxLength {
			return &InvalidError{Path: path, Reason: "minLength exceeds maxLength"}
		}
		if s.Minimum != nil && s.Maximum != nil && *s.Minimum > *s.Maximum {
			return &InvalidError{Path: path, Reason: "minimum exceeds maximum"}
		}
		return nil
	case *Ref:
		if s == nil || s.Target == nil {
			return &InvalidError{Path: path, Reason: "unresolved ref"}
		}
		if v.refs[s] {
			return nil
		}
		v.refs[s] = true
		return v.walk(s.Target, path)
	case *Inferred:
		if s == nil || s.Source == nil {
			return &InvalidError{Path: path, Reason: "inferred shape without source"}
		}
		return nil
	case *Enum:
		if s == nil || len(s.Values) == 0 {
			return &InvalidError{Path: path, Reason: "empty enum"}
		}
		return nil
	case *Tuple, *VariadicArray, *Object, *Mapped, *Union:
	default:
		return &InvalidError{Path: path, Reason: fmt.Sprintf("unknown descriptor %T", d)}
	}

	if v.open[d] {
		return &InvalidError{Path: path, Reason: "cycle without ref"}
	}
	v.open[d] = true
	defer delete(v.open, d)

	switch s := d.(type) {
	case *Tuple:
		for i, e := range s.Elements {
			if err := v.walk(e, index(path, i)); err != nil {
				return err
			}
		}
	case *VariadicArray:
		for i, e := range s.Prefix {
			if err := v.walk(e, index(path, i)); err != nil {
				return err
			}
		}
		if s.MinTail < 0 || (s.MaxTail != nil && *s.MaxTail < s.MinTail) {
			return &InvalidError{Path: path, Reason: "tail bounds out of order"}
		}
		return v.walk(s.Tail, path+"[*]")
	case *Object:
		seen := make(map[string]bool, len(s.Fields))
		for _, f := range s.Fields {
			if seen[f.Name] {
				return &InvalidError{Path: path, Reason: "duplicate field " + strconv.Quote(f.Name)}
			}
			seen[f.Name] = true
			if err := v.walk(f.Shape, path+"."+f.Name); err != nil {
				return err
			}
		}
	case *Mapped:
		if s.MinKeys < 0 || (s.MaxKeys != nil && *s.MaxKeys < s.MinKeys) {
			return &InvalidError{Path: path, Reason: "key bounds out of order"}
		}
		return v.walk(s.Value, path+"[*]")
	case *Union:
		if len(s.Variants) == 0 {
			return &InvalidError{Path: path, Reason: "empty union"}
		}
		for i, variant := range s.Variants {
			if err := v.walk(variant, fmt.Sprintf("%s|%d", path, i)); err != nil {
				return err
			}
		}
	}
	return nil
}

func index(path string, i int) string {
	return path + "[" + strconv.Itoa(i) + "]"
}
