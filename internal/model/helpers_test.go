package model

import (
	"math"
	"math/rand"
	"testing"
)

// sequence replays fixed draws, cycling when exhausted.
type sequence struct {
	values []float64
	next   int
}

func (s *sequence) Float64() float64 {
	v := s.values[s.next%len(s.values)]
	s.next++
	return v
}

type fixedDensity float64

func (d fixedDensity) ElectronDensity() float64 { return float64(d) }

type fixedThreshold float64

func (t fixedThreshold) LowestTripletEnergy() float64 { return float64(t) }

func newRand(seed int64) *rand.Rand {
	return rand.New(rand.NewSource(seed))
}

func randomDirection(rng Rand) Vec3 {
	return isotropicDirection(rng)
}

func assertClose(t *testing.T, what string, got, want, tol float64) {
	t.Helper()
	if math.Abs(got-want) > tol {
		t.Fatalf("expected %s %v, got %v (tolerance %v)", what, want, got, tol)
	}
}

func assertVecClose(t *testing.T, what string, got, want Vec3, tol float64) {
	t.Helper()
	if got.Sub(want).Mag() > tol {
		t.Fatalf("expected %s %+v, got %+v (tolerance %v)", what, want, got, tol)
	}
}
