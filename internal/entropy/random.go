// Package entropy provides the random sources that drive per-turn events.
// Seeded sources make a session reproducible; unseeded sessions fall back to crypto/rand.
package entropy

import (
	"crypto/rand"
	"encoding/binary"
	mrand "math/rand"
)

// Source is the randomness a turn needs: one uniform draw and one choice.
// *math/rand.Rand satisfies it.
type Source interface {
	Float64() float64 // Uniform in [0, 1)
	Intn(n int) int   // Uniform in [0, n)
}

// NewSeeded returns a deterministic source for the given seed.
func NewSeeded(seed int64) *mrand.Rand {
	return mrand.New(mrand.NewSource(seed))
}

// New returns a seeded source for a non-zero seed and a crypto source otherwise.
func New(seed int64) Source {
	if seed != 0 {
		return NewSeeded(seed)
	}
	return Crypto{}
}

// Crypto draws from crypto/rand. It is not reproducible.
type Crypto struct{}

// Float64 returns a uniform float64 in [0, 1).
func (Crypto) Float64() float64 {
	return cryptoRandFloat()
}

// Intn returns a uniform int in [0, n). It panics if n <= 0, like math/rand.
func (Crypto) Intn(n int) int {
	if n <= 0 {
		panic("entropy: invalid argument to Intn")
	}
	v := int(cryptoRandFloat() * float64(n))
	if v >= n {
		v = n - 1
	}
	return v
}

// cryptoRandFloat generates a random float64 using crypto/rand.
func cryptoRandFloat() float64 {
	var buf [8]byte
	_, err := rand.Read(buf[:])
	if err != nil {
		// This should never happen but return 0.5 as a safe default.
		return 0.5
	}
	// Use only 53 bits for a uniform float64 in [0, 1).
	n := binary.LittleEndian.Uint64(buf[:]) >> 11
	return float64(n) / float64(1<<53)
}

// Script replays fixed values, cycling when exhausted. Tests and replays use it
// to force specific event rolls.
type Script struct {
	Floats []float64
	Ints   []int

	fi, ii int
}

// Float64 returns the next scripted float, or 0.99 (no event) if none are set.
func (s *Script) Float64() float64 {
	if len(s.Floats) == 0 {
		return 0.99
	}
	v := s.Floats[s.fi%len(s.Floats)]
	s.fi++
	return v
}

// Intn returns the next scripted int reduced modulo n.
func (s *Script) Intn(n int) int {
	if len(s.Ints) == 0 || n <= 0 {
		return 0
	}
	v := s.Ints[s.ii%len(s.Ints)] % n
	s.ii++
	if v < 0 {
		v += n
	}
	return v
}
