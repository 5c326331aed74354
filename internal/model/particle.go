package model

import (
	"math"

	"go-hep.org/x/hep/fmom"

	"github.com/wildstyl3r/annihilation/internal/constants"
)

type Definition struct {
	Name   string
	Mass   float64 // [MeV]
	Charge float64 // [e]
}

var (
	Gamma    = &Definition{Name: "gamma", Mass: 0., Charge: 0.}
	Electron = &Definition{Name: "e-", Mass: constants.ElectronMassC2, Charge: -1.}
	Positron = &Definition{Name: "e+", Mass: constants.ElectronMassC2, Charge: +1.}
)

type DynamicParticle struct {
	Definition    *Definition
	Direction     Vec3    // unit
	KineticEnergy float64 // [MeV]
	Polarization  Vec3
}

func NewDynamicParticle(def *Definition, direction Vec3, kineticEnergy float64) *DynamicParticle {
	return &DynamicParticle{
		Definition:    def,
		Direction:     direction,
		KineticEnergy: kineticEnergy,
	}
}

func (p *DynamicParticle) SetPolarization(x, y, z float64) {
	p.Polarization = Vec3{x, y, z}
}

func (p *DynamicParticle) TotalEnergy() float64 {
	return p.KineticEnergy + p.Definition.Mass
}

// TotalMomentum is |p| in MeV/c.
func (p *DynamicParticle) TotalMomentum() float64 {
	return math.Sqrt(p.KineticEnergy * (p.KineticEnergy + 2.*p.Definition.Mass))
}

func (p *DynamicParticle) Momentum() Vec3 {
	return p.Direction.Scale(p.TotalMomentum())
}

func (p *DynamicParticle) P4() fmom.PxPyPzE {
	mom := p.Momentum()
	return fmom.NewPxPyPzE(mom.X, mom.Y, mom.Z, p.TotalEnergy())
}

type TrackStatus int

const (
	Alive TrackStatus = iota
	StopButAlive
	StopAndKill
)

func (s TrackStatus) String() string {
	switch s {
	case Alive:
		return "alive"
	case StopButAlive:
		return "stopped"
	case StopAndKill:
		return "killed"
	}
	return "unknown"
}

// ParticleChange collects what a model proposes for the primary and the secondaries it produced.
// One ParticleChange belongs to one caller at a time.
type ParticleChange struct {
	secondaries   []*DynamicParticle
	kineticEnergy float64
	status        TrackStatus
}

// Initialize resets the change to "nothing happened" for the given primary.
func (c *ParticleChange) Initialize(primary *DynamicParticle) {
	c.secondaries = c.secondaries[:0]
	c.kineticEnergy = primary.KineticEnergy
	c.status = Alive
}

func (c *ParticleChange) AddSecondary(p *DynamicParticle) {
	c.secondaries = append(c.secondaries, p)
}

func (c *ParticleChange) Secondaries() []*DynamicParticle {
	return c.secondaries
}

func (c *ParticleChange) NumberOfSecondaries() int {
	return len(c.secondaries)
}

func (c *ParticleChange) ProposeKineticEnergy(e float64) {
	c.kineticEnergy = e
}

func (c *ParticleChange) ProposedKineticEnergy() float64 {
	return c.kineticEnergy
}

func (c *ParticleChange) ProposeTrackStatus(s TrackStatus) {
	c.status = s
}

func (c *ParticleChange) TrackStatus() TrackStatus {
	return c.status
}
