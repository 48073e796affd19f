// Package synth synthesizes mock values from shape descriptors.
//
// # Usage
//
//	values, err := synth.Synthesize(shape.TupleOf(shape.String(), shape.String()), synth.Config{
//	    Length: 10,
//	})
//
// Synthesize returns exactly Config.Length values, each conforming to the
// descriptor. A call is pure apart from its random source: with Config.Seed set
// the source is a PCG generator scoped to that call and repeated calls return
// identical values; without a seed the global math/rand/v2 source is used.
//
// # Values
//
// Synthesized values use plain Go types (string, float64, int64, bool,
// time.Time, nil, []any, map[string]any) plus two of this package's:
//
//   - Record: an object in field declaration order. Record.Get never panics;
//     unknown and absent fields yield Absent.
//   - Optional: Present(v) or Absent, the absent-value marker.
//
// Plain converts a value into JSON-shaped data for external validators.
//
// # Generators
//
// Each primitive type has a pluggable Generator. Replace one with
// WithGenerator:
//
//	s := synth.New(synth.WithGenerator(shape.TypeString, synth.GeneratorFunc(
//	    func(src *synth.Source, req synth.Request) (any, error) {
//	        return "fixed", nil
//	    })))
//
// # Errors
//
// An unrecognized descriptor fails the whole call with *UnsupportedShapeError.
// Failures of an Inferred descriptor's resolver are wrapped in *ResolveError.
package synth
