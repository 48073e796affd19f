package synth

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"
)

// Plain converts a synthesized value into JSON-shaped data: records become
// map[string]any without their absent fields, dates become RFC 3339 strings
// and absent values elsewhere become nil. Other values pass through.
func Plain(v any) any {
	switch val := v.(type) {
	case *Record:
		out := make(map[string]any, val.Len())
		val.Range(func(name string, o Optional) bool {
			if inner, ok := o.Get(); ok {
				out[name] = Plain(inner)
			}
			return true
		})
		return out
	case Optional:
		inner, ok := val.Get()
		if !ok {
			return nil
		}
		return Plain(inner)
	case time.Time:
		return val.UTC().Format(time.RFC3339Nano)
	case []any:
		out := make([]any, len(val))
		for i, e := range val {
			out[i] = Plain(e)
		}
		return out
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, e := range val {
			out[k] = Plain(e)
		}
		return out
	default:
		return v
	}
}

// JSONValue returns v as encoding/json would decode it, with numbers kept as
// json.Number. Validators that only accept decoded JSON consume this form.
func JSONValue(v any) (any, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode value: %w", err)
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var out any
	if err := dec.Decode(&out); err != nil {
		return nil, fmt.Errorf("decode value: %w", err)
	}
	return out, nil
}
