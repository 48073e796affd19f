package synth

import (
	"math"
	"time"
	"unicode/utf8"

	"github.com/getmockd/mocktools/pkg/shape"
)

// Request carries what a Generator needs to produce one primitive value.
type Request struct {
	// Primitive is the descriptor being generated.
	Primitive *shape.Primitive
	// Field is the enclosing object field name, if any. Generators may use
	// it as a hint.
	Field string
	// Config is the effective generation config of the call.
	Config Config
}

// Generator produces a value for one primitive type.
type Generator interface {
	Generate(src *Source, req Request) (any, error)
}

// GeneratorFunc adapts a function to Generator.
type GeneratorFunc func(src *Source, req Request) (any, error)

// Generate implements Generator.
func (f GeneratorFunc) Generate(src *Source, req Request) (any, error) {
	return f(src, req)
}

// DefaultGenerators returns the built-in generator for every primitive type.
func DefaultGenerators() map[shape.Type]Generator {
	return map[shape.Type]Generator{
		shape.TypeString:    GeneratorFunc(generateString),
		shape.TypeNumber:    GeneratorFunc(generateNumber),
		shape.TypeInteger:   GeneratorFunc(generateInteger),
		shape.TypeBoolean:   GeneratorFunc(func(src *Source, _ Request) (any, error) { return src.Bool(), nil }),
		shape.TypeDate:      GeneratorFunc(generateDate),
		shape.TypeNull:      GeneratorFunc(func(*Source, Request) (any, error) { return nil, nil }),
		shape.TypeUndefined: GeneratorFunc(func(*Source, Request) (any, error) { return Absent, nil }),
	}
}

// generateString follows this priority chain:
//  1. Format (email, uuid, date-time, ...)
//  2. Field-name heuristic
//  3. Random alphanumeric text
//
// A result outside the primitive's length bounds is replaced by random
// alphanumerics of an in-bounds length.
func generateString(src *Source, req Request) (any, error) {
	p := req.Primitive

	value, ok := stringByFormat(src, p.Format, req.Config)
	if !ok && req.Field != "" {
		if name := fakerForField(req.Field); name != "" {
			value, ok = fakers[name](src), true
		}
	}
	if !ok {
		value = randomChars(src, alnum, src.Between(6, 16))
	}

	n := utf8.RuneCountInString(value)
	if (p.MinLength != nil && n < *p.MinLength) || (p.MaxLength != nil && n > *p.MaxLength) {
		value = boundedString(src, p)
	}
	return value, nil
}

func stringByFormat(src *Source, format string, cfg Config) (string, bool) {
	switch format {
	case "":
		return "", false
	case "date-time":
		return src.Time(cfg.DateFrom, cfg.DateTo).Format(time.RFC3339), true
	case "date":
		return src.Time(cfg.DateFrom, cfg.DateTo).Format(time.DateOnly), true
	case "time":
		return src.Time(cfg.DateFrom, cfg.DateTo).Format("15:04:05Z"), true
	case "uri", "url", "iri", "uri-reference":
		return fakers["url"](src), true
	case "idn-email":
		return fakers["email"](src), true
	case "idn-hostname":
		return fakers["hostname"](src), true
	}
	if fn, ok := fakers[format]; ok {
		return fn(src), true
	}
	return "", false
}

func boundedString(src *Source, p *shape.Primitive) string {
	lo, hi := 6, 16
	if p.MinLength != nil {
		lo = *p.MinLength
		if hi < lo {
			hi = lo + 10
		}
	}
	if p.MaxLength != nil {
		hi = *p.MaxLength
		if lo > hi {
			lo = hi
		}
	}
	return randomChars(src, alnum, src.Between(lo, hi))
}

const defaultSpan = 1000

func numericBounds(p *shape.Primitive) (float64, float64) {
	lo, hi := 0.0, float64(defaultSpan)
	switch {
	case p.Minimum != nil && p.Maximum != nil:
		lo, hi = *p.Minimum, *p.Maximum
	case p.Minimum != nil:
		lo = *p.Minimum
		hi = lo + defaultSpan
	case p.Maximum != nil:
		hi = *p.Maximum
		lo = math.Min(0, hi-defaultSpan)
		if hi > 0 {
			lo = math.Max(lo, 0)
		}
	}
	return lo, hi
}

// generateNumber returns a float with two decimal places within bounds.
func generateNumber(src *Source, req Request) (any, error) {
	lo, hi := numericBounds(req.Primitive)
	if lo >= hi {
		return lo, nil
	}
	v := math.Round((lo+src.Float64()*(hi-lo))*100) / 100
	return math.Min(math.Max(v, lo), hi), nil
}

func generateInteger(src *Source, req Request) (any, error) {
	lo, hi := numericBounds(req.Primitive)
	ilo, ihi := clampInt64(math.Ceil(lo)), clampInt64(math.Floor(hi))
	if ilo > ihi {
		return ilo, nil
	}
	return src.Int64Range(ilo, ihi), nil
}

func clampInt64(f float64) int64 {
	switch {
	case f >= math.MaxInt64:
		return math.MaxInt64
	case f <= math.MinInt64:
		return math.MinInt64
	}
	return int64(f)
}

func generateDate(src *Source, req Request) (any, error) {
	return src.Time(req.Config.DateFrom, req.Config.DateTo), nil
}
