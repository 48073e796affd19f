package synth

import (
	"fmt"
	"time"
)

// Generation defaults.
const (
	DefaultDepth      = 3
	DefaultMapKeys    = 3
	DefaultMaxTail    = 3
	DefaultAbsentRate = 0.5
)

var (
	// DefaultDateFrom is the inclusive lower bound for generated dates.
	DefaultDateFrom = time.Date(2000, time.January, 1, 0, 0, 0, 0, time.UTC)
	// DefaultDateTo is the exclusive upper bound for generated dates.
	DefaultDateTo = time.Date(2030, time.January, 1, 0, 0, 0, 0, time.UTC)
)

// Config controls a single Synthesize call. Zero values select the defaults.
type Config struct {
	// Length is the number of top-level values to synthesize.
	Length int `json:"length" yaml:"length"`

	// Seed makes the call reproducible. Nil uses the global random source.
	Seed *uint64 `json:"seed,omitempty" yaml:"seed,omitempty"`

	// Depth bounds how many times one Ref may be open on a single path,
	// counting the outermost use. 1 disables recursion; 0 selects
	// DefaultDepth.
	Depth int `json:"depth,omitempty" yaml:"depth,omitempty"`

	// MapKeys is the default upper bound on keys in a mapped shape.
	MapKeys int `json:"mapKeys,omitempty" yaml:"mapKeys,omitempty"`

	// MaxTail is the default upper bound on variadic tail elements.
	MaxTail int `json:"maxTail,omitempty" yaml:"maxTail,omitempty"`

	// AbsentRate is the probability that an optional field is absent.
	AbsentRate *float64 `json:"absentRate,omitempty" yaml:"absentRate,omitempty"`

	// DateFrom and DateTo bound generated dates to [DateFrom, DateTo).
	DateFrom time.Time `json:"dateFrom,omitempty" yaml:"dateFrom,omitempty"`
	DateTo   time.Time `json:"dateTo,omitempty" yaml:"dateTo,omitempty"`
}

// Validate reports out-of-range settings. It wraps ErrInvalidConfig.
func (c Config) Validate() error {
	switch {
	case c.Length < 0:
		return fmt.Errorf("%w: length must not be negative, got %d", ErrInvalidConfig, c.Length)
	case c.Depth < 0:
		return fmt.Errorf("%w: depth must not be negative, got %d", ErrInvalidConfig, c.Depth)
	case c.MapKeys < 0:
		return fmt.Errorf("%w: mapKeys must not be negative, got %d", ErrInvalidConfig, c.MapKeys)
	case c.MaxTail < 0:
		return fmt.Errorf("%w: maxTail must not be negative, got %d", ErrInvalidConfig, c.MaxTail)
	case c.AbsentRate != nil && (*c.AbsentRate < 0 || *c.AbsentRate > 1):
		return fmt.Errorf("%w: absentRate must be within [0, 1], got %g", ErrInvalidConfig, *c.AbsentRate)
	}
	from, to := c.dateRange()
	if !to.After(from) {
		return fmt.Errorf("%w: dateTo must be after dateFrom", ErrInvalidConfig)
	}
	return nil
}

// WithSeed returns a copy of c seeded with seed.
func (c Config) WithSeed(seed uint64) Config {
	c.Seed = &seed
	return c
}

func (c Config) withDefaults() Config {
	if c.Depth == 0 {
		c.Depth = DefaultDepth
	}
	if c.MapKeys == 0 {
		c.MapKeys = DefaultMapKeys
	}
	if c.MaxTail == 0 {
		c.MaxTail = DefaultMaxTail
	}
	if c.AbsentRate == nil {
		rate := DefaultAbsentRate
		c.AbsentRate = &rate
	}
	c.DateFrom, c.DateTo = c.dateRange()
	return c
}

func (c Config) dateRange() (time.Time, time.Time) {
	from, to := c.DateFrom, c.DateTo
	if from.IsZero() {
		from = DefaultDateFrom
	}
	if to.IsZero() {
		to = DefaultDateTo
	}
	return from.UTC(), to.UTC()
}
