package model

import "math"

// Vec3 is a cartesian 3-vector used for directions, momenta and polarizations.
type Vec3 struct {
	X, Y, Z float64
}

func (v Vec3) Add(o Vec3) Vec3 {
	return Vec3{v.X + o.X, v.Y + o.Y, v.Z + o.Z}
}

func (v Vec3) Sub(o Vec3) Vec3 {
	return Vec3{v.X - o.X, v.Y - o.Y, v.Z - o.Z}
}

func (v Vec3) Scale(f float64) Vec3 {
	return Vec3{v.X * f, v.Y * f, v.Z * f}
}

func (v Vec3) Neg() Vec3 {
	return Vec3{-v.X, -v.Y, -v.Z}
}

func (v Vec3) Dot(o Vec3) float64 {
	return math.FMA(v.X, o.X, math.FMA(v.Y, o.Y, v.Z*o.Z))
}

func (v Vec3) Cross(o Vec3) Vec3 {
	return Vec3{
		v.Y*o.Z - v.Z*o.Y,
		v.Z*o.X - v.X*o.Z,
		v.X*o.Y - v.Y*o.X,
	}
}

func (v Vec3) Mag2() float64 {
	return v.Dot(v)
}

func (v Vec3) Mag() float64 {
	return math.Sqrt(v.Mag2())
}

// Unit returns v scaled to unit length. The zero vector is returned unchanged.
func (v Vec3) Unit() Vec3 {
	m2 := v.Mag2()
	if m2 > 0 {
		return v.Scale(1. / math.Sqrt(m2))
	}
	return v
}

// RotateUz expresses v, given in a local frame whose z axis is u, in the global frame.
// u must be a unit vector.
func (v Vec3) RotateUz(u Vec3) Vec3 {
	up := math.FMA(u.X, u.X, u.Y*u.Y)
	if up > 0 {
		up = math.Sqrt(up)
		return Vec3{
			X: (u.X*u.Z*v.X-u.Y*v.Y)/up + u.X*v.Z,
			Y: (u.Y*u.Z*v.X+u.X*v.Y)/up + u.Y*v.Z,
			Z: -up*v.X + u.Z*v.Z,
		}
	}
	if u.Z < 0 { // u is -z
		return Vec3{-v.X, v.Y, -v.Z}
	}
	return v
}
