package shape

import (
	"errors"
	"fmt"
)

// ErrUnknownType is returned by schema front-ends asked for a type name the
// schema does not define.
var ErrUnknownType = errors.New("unknown type")

// Kind identifies a descriptor variant.
type Kind int

// Descriptor kinds.
const (
	KindPrimitive Kind = iota + 1
	KindTuple
	KindVariadic
	KindObject
	KindMapped
	KindInferred
	KindEnum
	KindUnion
	KindRef
)

var kindNames = map[Kind]string{
	KindPrimitive: "primitive",
	KindTuple:     "tuple",
	KindVariadic:  "variadic",
	KindObject:    "object",
	KindMapped:    "mapped",
	KindInferred:  "inferred",
	KindEnum:      "enum",
	KindUnion:     "union",
	KindRef:       "ref",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Descriptor describes a shape to mock.
type Descriptor interface {
	Kind() Kind
}

// Type is the tag of a Primitive descriptor.
type Type int

// Primitive types.
const (
	TypeString Type = iota + 1
	TypeNumber
	TypeInteger
	TypeBoolean
	TypeDate
	TypeNull
	// TypeUndefined has a single value: the absent-value marker.
	TypeUndefined
)

var typeNames = map[Type]string{
	TypeString:    "string",
	TypeNumber:    "number",
	TypeInteger:   "integer",
	TypeBoolean:   "boolean",
	TypeDate:      "date",
	TypeNull:      "null",
	TypeUndefined: "undefined",
}

func (t Type) String() string {
	if name, ok := typeNames[t]; ok {
		return name
	}
	return fmt.Sprintf("type(%d)", int(t))
}

// ParseType parses a primitive type name such as "string" or "date".
func ParseType(s string) (Type, bool) {
	for t, name := range typeNames {
		if name == s {
			return t, true
		}
	}
	return 0, false
}

// Primitive is a scalar shape.
type Primitive struct {
	Type Type

	// Format is a generation hint for strings (email, uuid, date-time, ...).
	Format string

	// String length bounds. Nil means unbounded.
	MinLength *int
	MaxLength *int

	// Numeric bounds, inclusive. Nil means the generator default.
	Minimum *float64
	Maximum *float64
}

// Kind implements Descriptor.
func (*Primitive) Kind() Kind { return KindPrimitive }

// Tuple is a fixed-length ordered sequence.
type Tuple struct {
	Elements []Descriptor
}

// Kind implements Descriptor.
func (*Tuple) Kind() Kind { return KindTuple }

// VariadicArray is a required prefix followed by a repeating tail.
type VariadicArray struct {
	Prefix []Descriptor
	Tail   Descriptor

	// MinTail is the minimum number of tail elements.
	MinTail int
	// MaxTail caps the tail. Nil defers to the generation config.
	MaxTail *int
}

// Kind implements Descriptor.
func (*VariadicArray) Kind() Kind { return KindVariadic }

// Field is a named member of an Object.
type Field struct {
	Name     string
	Shape    Descriptor
	Optional bool
}

// Object is a fixed set of named fields in declaration order.
type Object struct {
	Fields []Field
}

// Kind implements Descriptor.
func (*Object) Kind() Kind { return KindObject }

// Field returns the field with the given name.
func (o *Object) Field(name string) (Field, bool) {
	for _, f := range o.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

// Mapped is an open-ended string-keyed collection.
type Mapped struct {
	Value Descriptor

	// KeyFormat is a string format hint for generated keys ("integer",
	// "boolean", "uuid", ...). Empty means word-like keys.
	KeyFormat string

	MinKeys int
	// MaxKeys caps the key count. Nil defers to the generation config.
	MaxKeys *int
}

// Kind implements Descriptor.
func (*Mapped) Kind() Kind { return KindMapped }

// Resolver resolves an external schema into its structural shape.
type Resolver interface {
	Resolve() (Descriptor, error)
}

// ResolverFunc adapts a function to Resolver.
type ResolverFunc func() (Descriptor, error)

// Resolve implements Resolver.
func (f ResolverFunc) Resolve() (Descriptor, error) { return f() }

// Inferred is a shape derived from an external schema object.
type Inferred struct {
	Name   string
	Source Resolver
}

// Kind implements Descriptor.
func (*Inferred) Kind() Kind { return KindInferred }

// Enum is a fixed set of literal values.
type Enum struct {
	Values []any
}

// Kind implements Descriptor.
func (*Enum) Kind() Kind { return KindEnum }

// Union holds alternative shapes; a value conforms to one of them.
type Union struct {
	Variants []Descriptor
}

// Kind implements Descriptor.
func (*Union) Kind() Kind { return KindUnion }

// Ref is a named indirection. Target may be assigned after construction,
// which is how self-referential shapes are tied.
type Ref struct {
	Name   string
	Target Descriptor
}

// Kind implements Descriptor.
func (*Ref) Kind() Kind { return KindRef }

// Deref follows Refs until it reaches a non-Ref descriptor. It returns nil
// for an unresolved Ref or a Ref cycle.
func Deref(d Descriptor) Descriptor {
	seen := map[*Ref]bool{}
	for {
		r, ok := d.(*Ref)
		if !ok {
			return d
		}
		if r == nil || seen[r] {
			return nil
		}
		seen[r] = true
		d = r.Target
	}
}
