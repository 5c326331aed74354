// Package random supplies the seeds and generators used by the samplers.
package random

import (
	crand "crypto/rand"
	"encoding/binary"
	"fmt"
	"math/rand"
)

// NewSeed generates a random seed using crypto/rand.
func NewSeed() (int64, error) {
	var b [8]byte
	if _, err := crand.Read(b[:]); err != nil {
		return 0, fmt.Errorf("read random seed: %w", err)
	}

	return int64(binary.LittleEndian.Uint64(b[:])), nil
}

// ResolveSeed keeps a non-zero seed and replaces zero with a fresh one.
func ResolveSeed(seed int64) (int64, error) {
	if seed != 0 {
		return seed, nil
	}
	return NewSeed()
}

// Streams returns n generators with distinct seeds derived from seed.
// The same seed and n always give the same streams.
func Streams(seed int64, n int) []*rand.Rand {
	master := rand.New(rand.NewSource(seed))
	streams := make([]*rand.Rand, n)
	for i := range streams {
		streams[i] = rand.New(rand.NewSource(master.Int63()))
	}
	return streams
}
