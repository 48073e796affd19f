package synth

import (
	"fmt"
	"log/slog"
	"strconv"

	"github.com/getmockd/mocktools/pkg/logging"
	"github.com/getmockd/mocktools/pkg/shape"
)

// Synthesizer produces mock values from descriptors. It is immutable after
// New and safe for concurrent use.
type Synthesizer struct {
	generators map[shape.Type]Generator
	logger     *slog.Logger
}

// Option configures a Synthesizer.
type Option func(*Synthesizer)

// WithGenerator replaces the generator for primitive type t.
func WithGenerator(t shape.Type, g Generator) Option {
	return func(s *Synthesizer) {
		s.generators[t] = g
	}
}

// WithLogger sets the logger. Nil keeps the no-op logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Synthesizer) {
		if l != nil {
			s.logger = l
		}
	}
}

// New creates a Synthesizer with the default generators.
func New(opts ...Option) *Synthesizer {
	s := &Synthesizer{
		generators: DefaultGenerators(),
		logger:     logging.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

var defaultSynthesizer = New()

// Synthesize runs the default Synthesizer.
func Synthesize(d shape.Descriptor, cfg Config) ([]any, error) {
	return defaultSynthesizer.Synthesize(d, cfg)
}

// Synthesize returns cfg.Length values conforming to d. A zero length returns
// an empty slice without inspecting d.
func (s *Synthesizer) Synthesize(d shape.Descriptor, cfg Config) ([]any, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	out := make([]any, 0, cfg.Length)
	if cfg.Length == 0 {
		return out, nil
	}

	r := &run{
		s:        s,
		cfg:      cfg.withDefaults(),
		src:      NewSource(cfg.Seed),
		resolved: make(map[*shape.Inferred]shape.Descriptor),
		open:     make(map[*shape.Ref]int),
	}
	for i := 0; i < cfg.Length; i++ {
		v, err := r.value(d, "$["+strconv.Itoa(i)+"]", "")
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}

	s.logger.Debug("synthesized values", "count", len(out), "seeded", r.src.Seeded())
	return out, nil
}

// run holds the state of one Synthesize call.
type run struct {
	s        *Synthesizer
	cfg      Config
	src      *Source
	resolved map[*shape.Inferred]shape.Descriptor
	open     map[*shape.Ref]int
}

func (r *run) value(d shape.Descriptor, path, field string) (any, error) {
	switch s := d.(type) {
	case nil:
		return nil, &UnsupportedShapeError{Variant: "nil", Path: path}
	case *shape.Primitive:
		gen, ok := r.s.generators[s.Type]
		if !ok {
			return nil, &UnsupportedShapeError{Variant: "primitive " + s.Type.String(), Path: path}
		}
		return gen.Generate(r.src, Request{Primitive: s, Field: field, Config: r.cfg})
	case *shape.Tuple:
		out := make([]any, len(s.Elements))
		for i, e := range s.Elements {
			v, err := r.value(e, path+"["+strconv.Itoa(i)+"]", "")
			if err != nil {
				return nil, err
			}
			out[i] = v
		}
		return out, nil
	case *shape.VariadicArray:
		return r.variadic(s, path)
	case *shape.Object:
		return r.object(s, path)
	case *shape.Mapped:
		return r.mapped(s, path)
	case *shape.Inferred:
		resolved, err := r.resolve(s)
		if err != nil {
			return nil, err
		}
		return r.value(resolved, path, field)
	case *shape.Enum:
		if len(s.Values) == 0 {
			return nil, &UnsupportedShapeError{Variant: "empty enum", Path: path}
		}
		return s.Values[r.src.IntN(len(s.Values))], nil
	case *shape.Union:
		if len(s.Variants) == 0 {
			return nil, &UnsupportedShapeError{Variant: "empty union", Path: path}
		}
		return r.value(r.pickVariant(s), path, field)
	case *shape.Ref:
		if s.Target == nil {
			return nil, &UnsupportedShapeError{Variant: "unresolved ref " + s.Name, Path: path}
		}
		if r.exhausted(s) {
			// Only reached through a cycle of required fields.
			r.s.logger.Debug("recursion cutoff without optional ancestor", "ref", s.Name, "path", path, "depth", r.cfg.Depth)
			return nil, nil
		}
		r.open[s]++
		defer func() { r.open[s]-- }()
		return r.value(s.Target, path, field)
	default:
		return nil, &UnsupportedShapeError{Variant: fmt.Sprintf("%s (%T)", d.Kind(), d), Path: path}
	}
}

func (r *run) variadic(s *shape.VariadicArray, path string) (any, error) {
	n := 0
	if !r.blocked(s.Tail) {
		hi := r.cfg.MaxTail
		if s.MaxTail != nil {
			hi = *s.MaxTail
		}
		if hi < s.MinTail {
			hi = s.MinTail
		}
		n = r.src.Between(s.MinTail, hi)
	}

	out := make([]any, 0, len(s.Prefix)+n)
	for i, e := range s.Prefix {
		v, err := r.value(e, path+"["+strconv.Itoa(i)+"]", "")
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	for i := 0; i < n; i++ {
		v, err := r.value(s.Tail, path+"["+strconv.Itoa(len(s.Prefix)+i)+"]", "")
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

func (r *run) object(s *shape.Object, path string) (any, error) {
	rec := NewRecord()
	for _, f := range s.Fields {
		if isUndefined(f.Shape) {
			rec.Set(f.Name, Absent)
			continue
		}
		if f.Optional && (r.blocked(f.Shape) || r.src.Chance(*r.cfg.AbsentRate)) {
			rec.Set(f.Name, Absent)
			continue
		}
		v, err := r.value(f.Shape, path+"."+f.Name, f.Name)
		if err != nil {
			return nil, err
		}
		rec.Set(f.Name, v)
	}
	return rec, nil
}

func (r *run) mapped(s *shape.Mapped, path string) (any, error) {
	out := map[string]any{}
	if r.blocked(s.Value) {
		return out, nil
	}

	hi := r.cfg.MapKeys
	if s.MaxKeys != nil {
		hi = *s.MaxKeys
	}
	if hi < s.MinKeys {
		hi = s.MinKeys
	}
	n := r.src.Between(s.MinKeys, hi)

	keyShape := &shape.Primitive{Type: shape.TypeString, Format: s.KeyFormat}
	for attempts := 0; len(out) < n && attempts < n*10; attempts++ {
		k, err := r.value(keyShape, path+"{key}", "")
		if err != nil {
			return nil, err
		}
		key, ok := k.(string)
		if !ok {
			return nil, &UnsupportedShapeError{Variant: fmt.Sprintf("map key of type %T", k), Path: path}
		}
		if _, dup := out[key]; dup {
			continue
		}
		v, err := r.value(s.Value, path+"["+strconv.Quote(key)+"]", "")
		if err != nil {
			return nil, err
		}
		out[key] = v
	}
	if len(out) < s.MinKeys {
		return nil, &UnsupportedShapeError{
			Variant: fmt.Sprintf("map needing %d distinct keys, key format %q yielded %d", s.MinKeys, s.KeyFormat, len(out)),
			Path:    path,
		}
	}
	return out, nil
}

// resolve queries an Inferred descriptor's source once per call.
func (r *run) resolve(s *shape.Inferred) (shape.Descriptor, error) {
	if d, ok := r.resolved[s]; ok {
		return d, nil
	}
	if s.Source == nil {
		return nil, &ResolveError{Name: s.Name, Err: fmt.Errorf("no source")}
	}
	d, err := s.Source.Resolve()
	if err != nil {
		return nil, &ResolveError{Name: s.Name, Err: err}
	}
	r.resolved[s] = d
	return d, nil
}

// pickVariant chooses a union variant, preferring those that do not run into
// the recursion cutoff.
func (r *run) pickVariant(s *shape.Union) shape.Descriptor {
	open := make([]shape.Descriptor, 0, len(s.Variants))
	for _, v := range s.Variants {
		if !r.blocked(v) {
			open = append(open, v)
		}
	}
	if len(open) == 0 {
		open = s.Variants
	}
	return open[r.src.IntN(len(open))]
}

// blocked reports whether generating d now would reach a Ref already open
// Depth times without passing an optional field, a variadic tail, a map
// value or an alternative union variant on the way. Those are the points
// where the cutoff can be taken while keeping the value conforming.
//
//nolint:gocyclo // one case per descriptor variant
func (r *run) blocked(d shape.Descriptor) bool {
	switch s := d.(type) {
	case *shape.Ref:
		if s.Target == nil {
			return false
		}
		if r.exhausted(s) {
			return true
		}
		r.open[s]++
		defer func() { r.open[s]-- }()
		return r.blocked(s.Target)
	case *shape.Tuple:
		for _, e := range s.Elements {
			if r.blocked(e) {
				return true
			}
		}
		return false
	case *shape.VariadicArray:
		for _, e := range s.Prefix {
			if r.blocked(e) {
				return true
			}
		}
		return s.MinTail > 0 && r.blocked(s.Tail)
	case *shape.Object:
		for _, f := range s.Fields {
			if !f.Optional && !isUndefined(f.Shape) && r.blocked(f.Shape) {
				return true
			}
		}
		return false
	case *shape.Mapped:
		return s.MinKeys > 0 && r.blocked(s.Value)
	case *shape.Union:
		for _, v := range s.Variants {
			if !r.blocked(v) {
				return false
			}
		}
		return len(s.Variants) > 0
	case *shape.Inferred:
		resolved, err := r.resolve(s)
		if err != nil {
			return false
		}
		return r.blocked(resolved)
	default:
		return false
	}
}

// exhausted reports whether d is a Ref already open Depth times.
func (r *run) exhausted(d shape.Descriptor) bool {
	ref, ok := d.(*shape.Ref)
	return ok && r.open[ref] >= r.cfg.Depth
}

func isUndefined(d shape.Descriptor) bool {
	p, ok := d.(*shape.Primitive)
	return ok && p.Type == shape.TypeUndefined
}
