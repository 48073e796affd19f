package protoshape

import (
	"fmt"
	"math"

	"google.golang.org/protobuf/reflect/protoreflect"

	"github.com/getmockd/mocktools/pkg/shape"
)

type converter struct {
	refs map[protoreflect.FullName]*shape.Ref
}

// message builds an object from the regular fields. Messages with oneofs
// become a union of objects: variant k sets member k of every oneof, so no
// variant ever sets two members of one oneof.
func (c *converter) message(md protoreflect.MessageDescriptor) (shape.Descriptor, error) {
	var regular []shape.Field
	var oneofs [][]shape.Field

	fields := md.Fields()
	for i := 0; i < fields.Len(); i++ {
		fd := fields.Get(i)
		if od := fd.ContainingOneof(); od != nil && !od.IsSynthetic() {
			continue
		}
		f, err := c.field(fd)
		if err != nil {
			return nil, err
		}
		regular = append(regular, f)
	}

	ods := md.Oneofs()
	widest := 0
	for i := 0; i < ods.Len(); i++ {
		od := ods.Get(i)
		if od.IsSynthetic() {
			continue
		}
		members := make([]shape.Field, 0, od.Fields().Len())
		for j := 0; j < od.Fields().Len(); j++ {
			f, err := c.field(od.Fields().Get(j))
			if err != nil {
				return nil, err
			}
			f.Optional = false
			members = append(members, f)
		}
		oneofs = append(oneofs, members)
		widest = max(widest, len(members))
	}

	if widest == 0 {
		return &shape.Object{Fields: regular}, nil
	}
	variants := make([]shape.Descriptor, widest)
	for k := range variants {
		obj := &shape.Object{Fields: append([]shape.Field(nil), regular...)}
		for _, members := range oneofs {
			obj.Fields = append(obj.Fields, members[k%len(members)])
		}
		variants[k] = obj
	}
	return shape.OneOf(variants...), nil
}

func (c *converter) field(fd protoreflect.FieldDescriptor) (shape.Field, error) {
	f := shape.Field{
		Name:     fd.JSONName(),
		Optional: fd.HasPresence() && fd.Cardinality() != protoreflect.Required,
	}

	var err error
	switch {
	case fd.IsMap():
		var value shape.Descriptor
		if value, err = c.singular(fd.MapValue()); err == nil {
			m := shape.MapOf(value)
			m.KeyFormat = keyFormat(fd.MapKey().Kind())
			f.Shape = m
		}
	case fd.IsList():
		var elem shape.Descriptor
		if elem, err = c.singular(fd); err == nil {
			f.Shape = shape.ArrayOf(elem)
		}
	default:
		f.Shape, err = c.singular(fd)
	}
	if err != nil {
		return shape.Field{}, fmt.Errorf("field %s: %w", fd.FullName(), err)
	}
	return f, nil
}

//nolint:gocyclo // one case per scalar kind
func (c *converter) singular(fd protoreflect.FieldDescriptor) (shape.Descriptor, error) {
	switch fd.Kind() {
	case protoreflect.BoolKind:
		return shape.Boolean(), nil
	case protoreflect.Int32Kind, protoreflect.Sint32Kind, protoreflect.Sfixed32Kind:
		return shape.Range(shape.TypeInteger, math.MinInt32, math.MaxInt32), nil
	case protoreflect.Uint32Kind, protoreflect.Fixed32Kind:
		return shape.Range(shape.TypeInteger, 0, math.MaxUint32), nil
	case protoreflect.Int64Kind, protoreflect.Sint64Kind, protoreflect.Sfixed64Kind:
		return shape.Integer(), nil
	case protoreflect.Uint64Kind, protoreflect.Fixed64Kind:
		p := shape.Integer()
		zero := 0.0
		p.Minimum = &zero
		return p, nil
	case protoreflect.FloatKind, protoreflect.DoubleKind:
		return shape.Number(), nil
	case protoreflect.StringKind:
		return shape.String(), nil
	case protoreflect.BytesKind:
		return shape.Format(shape.TypeString, "byte"), nil
	case protoreflect.EnumKind:
		return enum(fd.Enum()), nil
	case protoreflect.MessageKind, protoreflect.GroupKind:
		return c.messageRef(fd.Message())
	default:
		return nil, fmt.Errorf("unsupported kind %s", fd.Kind())
	}
}

func enum(ed protoreflect.EnumDescriptor) shape.Descriptor {
	if ed.FullName() == "google.protobuf.NullValue" {
		return shape.Null()
	}
	values := ed.Values()
	names := make([]any, values.Len())
	for i := range names {
		names[i] = string(values.Get(i).Name())
	}
	return shape.EnumOf(names...)
}

// messageRef maps well-known types to their JSON form and everything else
// to a Ref shared by full name.
func (c *converter) messageRef(md protoreflect.MessageDescriptor) (shape.Descriptor, error) {
	switch md.FullName() {
	case "google.protobuf.Timestamp":
		return shape.Date(), nil
	case "google.protobuf.Duration":
		return shape.Format(shape.TypeString, "duration"), nil
	case "google.protobuf.FieldMask":
		return shape.Format(shape.TypeString, "word"), nil
	case "google.protobuf.Empty":
		return &shape.Object{}, nil
	case "google.protobuf.Value":
		return shape.String(), nil
	case "google.protobuf.Struct":
		return shape.MapOf(shape.String()), nil
	case "google.protobuf.ListValue":
		return shape.ArrayOf(shape.String()), nil
	case "google.protobuf.Any":
		return nil, fmt.Errorf("google.protobuf.Any is not supported")
	case "google.protobuf.DoubleValue", "google.protobuf.FloatValue",
		"google.protobuf.Int64Value", "google.protobuf.UInt64Value",
		"google.protobuf.Int32Value", "google.protobuf.UInt32Value",
		"google.protobuf.BoolValue", "google.protobuf.StringValue",
		"google.protobuf.BytesValue":
		return c.singular(md.Fields().ByName("value"))
	}

	if r, ok := c.refs[md.FullName()]; ok {
		return r, nil
	}
	r := shape.NewRef(string(md.FullName()))
	c.refs[md.FullName()] = r
	d, err := c.message(md)
	if err != nil {
		return nil, err
	}
	r.Target = d
	return r, nil
}

func keyFormat(k protoreflect.Kind) string {
	switch k {
	case protoreflect.StringKind:
		return ""
	case protoreflect.BoolKind:
		return "boolean"
	default:
		return "integer"
	}
}
