// Package shape defines the structural descriptors that mocktools synthesizes
// values from.
//
// A descriptor is a closed, recursive sum type. Every variant implements
// Descriptor and reports its Kind:
//
//   - Primitive: string, number, integer, boolean, date, null and undefined
//   - Tuple: fixed-length ordered slots, each independently typed
//   - VariadicArray: a required prefix followed by a homogeneous tail
//   - Object: named fields, each required or optional
//   - Mapped: open-ended string-keyed collection sharing one value descriptor
//   - Inferred: a descriptor resolved on demand from an external schema
//   - Enum and Union: a fixed set of literals or alternative shapes
//   - Ref: a named indirection, the only legal way to express self-reference
//
// Descriptors are built by hand with the constructors in this package or by a
// front-end (jsonshape, openapishape, protoshape, gqlshape, typeshape).
//
//	user := shape.ObjectOf(
//	    shape.Required("id", shape.Format(shape.TypeString, "uuid")),
//	    shape.Required("tags", shape.ArrayOf(shape.String())),
//	    shape.Optional("nickname", shape.String()),
//	)
//
// Validate reports descriptors that cannot be synthesized: nil children,
// unresolved Refs and cycles that do not pass through a Ref.
package shape
