package synth

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/elliotchance/orderedmap/v2"
)

// Optional is a value that may be absent. The zero value is Absent.
type Optional struct {
	value   any
	present bool
}

// Absent is the absent-value marker.
var Absent = Optional{}

// Present wraps v as a present value.
func Present(v any) Optional {
	return Optional{value: v, present: true}
}

// Get returns the wrapped value and whether it is present.
func (o Optional) Get() (any, bool) {
	return o.value, o.present
}

// IsAbsent reports whether o is the absent-value marker.
func (o Optional) IsAbsent() bool {
	return !o.present
}

// Value returns the wrapped value, or nil when absent.
func (o Optional) Value() any {
	return o.value
}

func (o Optional) String() string {
	if !o.present {
		return "<absent>"
	}
	return fmt.Sprintf("%v", o.value)
}

// MarshalJSON encodes an absent value as null.
func (o Optional) MarshalJSON() ([]byte, error) {
	if !o.present {
		return []byte("null"), nil
	}
	return json.Marshal(o.value)
}

// Record is a synthesized object. Fields keep declaration order.
type Record struct {
	fields *orderedmap.OrderedMap[string, Optional]
}

// NewRecord returns an empty record.
func NewRecord() *Record {
	return &Record{fields: orderedmap.NewOrderedMap[string, Optional]()}
}

// Set stores v under name. An Optional is stored as-is; anything else is
// stored as present.
func (r *Record) Set(name string, v any) {
	if o, ok := v.(Optional); ok {
		r.fields.Set(name, o)
		return
	}
	r.fields.Set(name, Present(v))
}

// Get returns the field value. Unknown and absent fields yield Absent.
func (r *Record) Get(name string) Optional {
	if r == nil {
		return Absent
	}
	v, ok := r.fields.Get(name)
	if !ok {
		return Absent
	}
	return v
}

// Has reports whether name is present.
func (r *Record) Has(name string) bool {
	_, ok := r.Get(name).Get()
	return ok
}

// Keys returns every declared field name, absent ones included.
func (r *Record) Keys() []string {
	if r == nil {
		return nil
	}
	return r.fields.Keys()
}

// Len returns the number of declared fields.
func (r *Record) Len() int {
	if r == nil {
		return 0
	}
	return r.fields.Len()
}

// Range calls fn for each declared field in order until fn returns false.
func (r *Record) Range(fn func(name string, v Optional) bool) {
	if r == nil {
		return
	}
	for el := r.fields.Front(); el != nil; el = el.Next() {
		if !fn(el.Key, el.Value) {
			return
		}
	}
}

// MarshalJSON encodes present fields in declaration order.
func (r *Record) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	first := true
	var err error
	r.Range(func(name string, v Optional) bool {
		value, ok := v.Get()
		if !ok {
			return true
		}
		if !first {
			buf.WriteByte(',')
		}
		first = false

		var key, data []byte
		if key, err = json.Marshal(name); err != nil {
			return false
		}
		if data, err = json.Marshal(value); err != nil {
			err = fmt.Errorf("field %s: %w", name, err)
			return false
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(data)
		return true
	})
	if err != nil {
		return nil, err
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
