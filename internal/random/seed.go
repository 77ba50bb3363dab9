// Package random provides seeds for deterministic generators.
package random

import (
	"crypto/rand"
	"encoding/binary"
	"fmt"
	mathrand "math/rand"
)

// NewSeed returns a seed read from crypto/rand.
func NewSeed() (int64, error) {
	var buf [8]byte
	if _, err := rand.Read(buf[:]); err != nil {
		return 0, fmt.Errorf("failed to read random seed: %w", err)
	}
	return int64(binary.LittleEndian.Uint64(buf[:]) &^ (1 << 63)), nil
}

// New returns a generator for seed.
func New(seed int64) *mathrand.Rand {
	return mathrand.New(mathrand.NewSource(seed))
}

// Derive returns a sub-seed for stream n of seed, so encounters can be
// replayed independently of each other.
func Derive(seed int64, n int) int64 {
	x := uint64(seed) + uint64(n)*0x9e3779b97f4a7c15
	x ^= x >> 30
	x *= 0xbf58476d1ce4e5b9
	x ^= x >> 27
	x *= 0x94d049bb133111eb
	x ^= x >> 31
	return int64(x &^ (1 << 63))
}
