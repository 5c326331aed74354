package model

import "math"

// isotropicDirection draws a unit vector uniformly on the sphere (two draws).
func isotropicDirection(rng Rand) Vec3 {
	cost := 2.*rng.Float64() - 1.
	sint := math.Sqrt((1. - cost) * (1. + cost))
	phi := 2. * math.Pi * rng.Float64()
	return Vec3{sint * math.Cos(phi), sint * math.Sin(phi), cost}
}

// azimuth draws phi uniformly in [0, 2pi) and returns its cosine and sine (one draw).
func azimuth(rng Rand) (cosPhi, sinPhi float64) {
	phi := 2. * math.Pi * rng.Float64()
	return math.Cos(phi), math.Sin(phi)
}

// Counter wraps a Rand and counts the draws taken from it. Not safe for concurrent use.
type Counter struct {
	Rand
	draws int
}

func NewCounter(rng Rand) *Counter {
	return &Counter{Rand: rng}
}

func (c *Counter) Float64() float64 {
	c.draws++
	return c.Rand.Float64()
}

func (c *Counter) Draws() int {
	return c.draws
}

func (c *Counter) Reset() {
	c.draws = 0
}
