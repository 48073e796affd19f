package synth

import (
	"io"
	mathrand "math/rand/v2"
	"time"

	"github.com/google/uuid"
)

// Source is the random source of one Synthesize call. A nil rng falls back
// to the global math/rand/v2 source.
type Source struct {
	rng *mathrand.Rand
}

// NewSource returns a source seeded with seed, or an unseeded source when
// seed is nil.
func NewSource(seed *uint64) *Source {
	if seed == nil {
		return &Source{}
	}
	return &Source{rng: mathrand.New(mathrand.NewPCG(*seed, 0))}
}

// Seeded reports whether the source is deterministic.
func (s *Source) Seeded() bool {
	return s != nil && s.rng != nil
}

// IntN returns a random int in [0, n). It returns 0 when n <= 0.
func (s *Source) IntN(n int) int {
	if n <= 0 {
		return 0
	}
	if s.Seeded() {
		return s.rng.IntN(n)
	}
	return mathrand.IntN(n)
}

// Float64 returns a random float64 in [0, 1).
func (s *Source) Float64() float64 {
	if s.Seeded() {
		return s.rng.Float64()
	}
	return mathrand.Float64()
}

// Uint64 returns a random uint64.
func (s *Source) Uint64() uint64 {
	if s.Seeded() {
		return s.rng.Uint64()
	}
	return mathrand.Uint64()
}

// Int64Range returns a random int64 in [lo, hi]. It returns lo when hi < lo.
func (s *Source) Int64Range(lo, hi int64) int64 {
	if hi <= lo {
		return lo
	}
	span := uint64(hi-lo) + 1
	if span == 0 {
		return int64(s.Uint64())
	}
	var n uint64
	if s.Seeded() {
		n = s.rng.Uint64N(span)
	} else {
		n = mathrand.Uint64N(span)
	}
	return lo + int64(n)
}

// Between returns a random int in [lo, hi].
func (s *Source) Between(lo, hi int) int {
	return int(s.Int64Range(int64(lo), int64(hi)))
}

// Bool returns a random boolean.
func (s *Source) Bool() bool {
	return s.IntN(2) == 0
}

// Chance returns true with probability p.
func (s *Source) Chance(p float64) bool {
	switch {
	case p <= 0:
		return false
	case p >= 1:
		return true
	}
	return s.Float64() < p
}

// Pick returns a random element of items, or "" when items is empty.
func (s *Source) Pick(items []string) string {
	if len(items) == 0 {
		return ""
	}
	return items[s.IntN(len(items))]
}

// Time returns a random instant in [from, to), truncated to the second.
func (s *Source) Time(from, to time.Time) time.Time {
	span := int64(to.Sub(from) / time.Second)
	if span <= 0 {
		return from.UTC()
	}
	return from.Add(time.Duration(s.Int64Range(0, span-1)) * time.Second).UTC()
}

// Read fills p with random bytes. It never fails.
func (s *Source) Read(p []byte) (int, error) {
	for i := range p {
		p[i] = byte(s.IntN(256))
	}
	return len(p), nil
}

// UUID returns a version 4 UUID. Seeded sources draw its bytes from the PRNG
// so the result is reproducible; unseeded sources use crypto/rand.
func (s *Source) UUID() string {
	if !s.Seeded() {
		return uuid.NewString()
	}
	id, err := uuid.NewRandomFromReader(io.Reader(s))
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}
