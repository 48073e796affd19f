// Package override rewrites fields of synthesized records with expr-lang
// expressions.
//
// Each expression sees:
//
//	index   int             position of the record in the result
//	length  int             number of values in the result
//	record  map[string]any  plain form of the record, earlier overrides applied
//
// e.g. {"id": "index + 1", "handle": `"@" + lower(record.name)`}.
package override

import (
	"fmt"
	"slices"
	"strings"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"

	"github.com/getmockd/mocktools/pkg/synth"
)

// Rules is a compiled set of field overrides.
type Rules struct {
	fields   []string
	programs map[string]*vm.Program
}

func sampleEnv() map[string]any {
	return map[string]any{
		"index":  0,
		"length": 0,
		"record": map[string]any{},
	}
}

// Compile compiles one expression per field. An empty map yields rules that
// change nothing.
func Compile(exprs map[string]string) (*Rules, error) {
	r := &Rules{programs: make(map[string]*vm.Program, len(exprs))}
	for field, source := range exprs {
		if field == "" {
			return nil, fmt.Errorf("override: empty field name")
		}
		program, err := expr.Compile(source, expr.Env(sampleEnv()))
		if err != nil {
			return nil, fmt.Errorf("override %s: %w", field, err)
		}
		r.fields = append(r.fields, field)
		r.programs[field] = program
	}
	slices.Sort(r.fields)
	return r, nil
}

// Len returns the number of overridden fields.
func (r *Rules) Len() int {
	if r == nil {
		return 0
	}
	return len(r.fields)
}

// Apply evaluates the rules against every record in values, in field-name
// order. Values that are not records are left untouched.
func (r *Rules) Apply(values []any) error {
	if r.Len() == 0 {
		return nil
	}
	for i, v := range values {
		rec, ok := v.(*synth.Record)
		if !ok {
			continue
		}
		plain, _ := synth.Plain(rec).(map[string]any)
		env := map[string]any{"index": i, "length": len(values), "record": plain}

		for _, field := range r.fields {
			out, err := expr.Run(r.programs[field], env)
			if err != nil {
				return fmt.Errorf("override %s at index %d: %w", field, i, err)
			}
			out = normalize(out)
			rec.Set(field, out)
			plain[field] = synth.Plain(out)
		}
	}
	return nil
}

// normalize maps expression results onto the synthesized value types.
func normalize(v any) any {
	switch n := v.(type) {
	case int:
		return int64(n)
	case int32:
		return int64(n)
	case float32:
		return float64(n)
	}
	return v
}

// ParseAssignments parses field=expr pairs as given on the command line.
func ParseAssignments(pairs []string) (map[string]string, error) {
	out := make(map[string]string, len(pairs))
	for _, pair := range pairs {
		field, source, ok := strings.Cut(pair, "=")
		field = strings.TrimSpace(field)
		if !ok || field == "" || strings.TrimSpace(source) == "" {
			return nil, fmt.Errorf("invalid override %q: want field=expression", pair)
		}
		out[field] = source
	}
	return out, nil
}
