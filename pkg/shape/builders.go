package shape

// String returns a string primitive.
func String() *Primitive { return &Primitive{Type: TypeString} }

// Number returns a floating point primitive.
func Number() *Primitive { return &Primitive{Type: TypeNumber} }

// Integer returns an integer primitive.
func Integer() *Primitive { return &Primitive{Type: TypeInteger} }

// Boolean returns a boolean primitive.
func Boolean() *Primitive { return &Primitive{Type: TypeBoolean} }

// Date returns a date primitive.
func Date() *Primitive { return &Primitive{Type: TypeDate} }

// Null returns the null primitive.
func Null() *Primitive { return &Primitive{Type: TypeNull} }

// Undefined returns the primitive whose only value is absent.
func Undefined() *Primitive { return &Primitive{Type: TypeUndefined} }

// Format returns a primitive of type t carrying a format hint.
func Format(t Type, format string) *Primitive {
	return &Primitive{Type: t, Format: format}
}

// Range returns a numeric primitive bounded to [lo, hi].
func Range(t Type, lo, hi float64) *Primitive {
	return &Primitive{Type: t, Minimum: &lo, Maximum: &hi}
}

// Length returns a string primitive whose length lies in [lo, hi].
func Length(lo, hi int) *Primitive {
	return &Primitive{Type: TypeString, MinLength: &lo, MaxLength: &hi}
}

// TupleOf returns a tuple of the given slots.
func TupleOf(elems ...Descriptor) *Tuple {
	return &Tuple{Elements: elems}
}

// ArrayOf returns a homogeneous array of elem with no required prefix.
func ArrayOf(elem Descriptor) *VariadicArray {
	return &VariadicArray{Tail: elem}
}

// Variadic returns an array with a required prefix followed by tail elements.
func Variadic(prefix []Descriptor, tail Descriptor) *VariadicArray {
	return &VariadicArray{Prefix: prefix, Tail: tail}
}

// Required declares a required object field.
func Required(name string, d Descriptor) Field {
	return Field{Name: name, Shape: d}
}

// Optional declares an optional object field.
func Optional(name string, d Descriptor) Field {
	return Field{Name: name, Shape: d, Optional: true}
}

// ObjectOf returns an object with the given fields.
func ObjectOf(fields ...Field) *Object {
	return &Object{Fields: fields}
}

// MapOf returns a string-keyed map of value.
func MapOf(value Descriptor) *Mapped {
	return &Mapped{Value: value}
}

// Infer returns a descriptor resolved from src on demand.
func Infer(name string, src Resolver) *Inferred {
	return &Inferred{Name: name, Source: src}
}

// EnumOf returns an enum of the given literals.
func EnumOf(values ...any) *Enum {
	return &Enum{Values: values}
}

// OneOf returns a union of the given variants.
func OneOf(variants ...Descriptor) *Union {
	return &Union{Variants: variants}
}

// NewRef returns an unresolved named reference. Assign Target before use.
func NewRef(name string) *Ref {
	return &Ref{Name: name}
}
