package model

import (
	"log"
	"math"

	"github.com/wildstyl3r/annihilation/internal/constants"
)

// OKVIModel describes e+ e- annihilation into two photons: the Heitler cross section and
// the final state sampling for positrons at rest and in flight.
type OKVIModel struct {
	energyTh float64 // [MeV]
	logger   *log.Logger
}

func NewOKVIModel(logger *log.Logger) *OKVIModel {
	if logger == nil {
		logger = log.Default()
	}
	return &OKVIModel{
		energyTh: 10., // 10 MeV until Initialise
		logger:   logger,
	}
}

func (m *OKVIModel) Name() string {
	return "eplusTo2GammaOKVI"
}

func (m *OKVIModel) Initialise(params EmParameters) {
	m.energyTh = params.LowestTripletEnergy()
}

// EnergyThreshold is the lowest triplet energy read at Initialise.
// The two-photon cross section and sampling do not depend on it; it is kept for dispatchers.
func (m *OKVIModel) EnergyThreshold() float64 {
	return m.energyTh
}

// CrossSectionPerElectron returns the Heitler two-photon annihilation cross section [cm^2].
// Energies below 1 eV are evaluated at 1 eV.
func CrossSectionPerElectron(kineticEnergy float64) float64 {
	ekin := max(constants.EV, kineticEnergy)

	tau := ekin / constants.ElectronMassC2
	gam := tau + 1.
	gamma2 := gam * gam
	bg2 := tau * (tau + 2.)
	bg := math.Sqrt(bg2)

	return constants.PiRcl2 * ((gamma2+4.*gam+1.)*math.Log(gam+bg) - (gam+3.)*bg) /
		(bg2 * (gam + 1.))
}

func (m *OKVIModel) CrossSectionPerAtom(_ *Definition, kineticEnergy, Z float64) float64 {
	return Z * CrossSectionPerElectron(kineticEnergy)
}

func (m *OKVIModel) CrossSectionPerVolume(mat Material, _ *Definition, kineticEnergy float64) float64 {
	return mat.ElectronDensity() * CrossSectionPerElectron(kineticEnergy)
}

func (m *OKVIModel) SampleSecondaries(change *ParticleChange, _ Material, primary *DynamicParticle, rng Rand) {
	var gamma1, gamma2 *DynamicParticle
	if primary.KineticEnergy == 0. {
		gamma1, gamma2 = annihilateAtRest(rng)
	} else {
		gamma1, gamma2 = m.annihilateInFlight(primary, rng)
	}
	change.AddSecondary(gamma1)
	change.AddSecondary(gamma2)

	// primary positron is gone
	change.ProposeKineticEnergy(0.)
	change.ProposeTrackStatus(StopAndKill)
}

func annihilateAtRest(rng Rand) (gamma1, gamma2 *DynamicParticle) {
	dir := isotropicDirection(rng)
	cosPhi, sinPhi := azimuth(rng)

	gamma1 = NewDynamicParticle(Gamma, dir, constants.ElectronMassC2)
	gamma1.Polarization = Vec3{cosPhi, sinPhi, 0.}.RotateUz(dir)

	gamma2 = NewDynamicParticle(Gamma, dir.Neg(), constants.ElectronMassC2)
	gamma2.Polarization = Vec3{-sinPhi, cosPhi, 0.}.RotateUz(dir)
	return
}

func (m *OKVIModel) annihilateInFlight(primary *DynamicParticle, rng Rand) (gamma1, gamma2 *DynamicParticle) {
	posiKinEnergy := primary.KineticEnergy
	posiDirection := primary.Direction
	tau := posiKinEnergy / constants.ElectronMassC2

	epsil, _ := sampleEpsilon(rng, tau)

	// photon angles, z axis along the positron
	cost, clamped := photonCosTheta(epsil, tau)
	if clamped {
		m.logger.Printf("WARNING cos(theta) = %v out of range; positron T = %v MeV, epsilon = %v",
			rawPhotonCosTheta(epsil, tau), posiKinEnergy, epsil)
	}
	sint := math.Sqrt((1. + cost) * (1. - cost))
	cosPhi, sinPhi := azimuth(rng)

	totalAvailableEnergy := posiKinEnergy + 2.*constants.ElectronMassC2
	phot1Energy := epsil * totalAvailableEnergy
	phot1Direction := Vec3{sint * cosPhi, sint * sinPhi, cost}.RotateUz(posiDirection)
	gamma1 = NewDynamicParticle(Gamma, phot1Direction, phot1Energy)

	cosPhi, sinPhi = azimuth(rng)
	gamma1.Polarization = Vec3{cosPhi, sinPhi, 0.}.RotateUz(phot1Direction)

	// second photon closes the momentum balance
	phot2Energy := (1. - epsil) * totalAvailableEnergy
	posiP := math.Sqrt(posiKinEnergy * (posiKinEnergy + 2.*constants.ElectronMassC2))
	phot2Direction := posiDirection.Scale(posiP).Sub(phot1Direction.Scale(phot1Energy)).Unit()
	gamma2 = NewDynamicParticle(Gamma, phot2Direction, phot2Energy)

	pol := Vec3{-sinPhi, cosPhi, 0.}.RotateUz(phot1Direction)
	pol = pol.Sub(phot2Direction.Scale(pol.Dot(phot2Direction)))
	gamma2.Polarization = pol.Unit()
	return
}

// epsilonLimits are the kinematic bounds of the photon energy fraction.
func epsilonLimits(tau float64) (epsilMin, epsilMax float64) {
	sqgrate := math.Sqrt(tau/(tau+2.)) * 0.5
	return 0.5 - sqgrate, 0.5 + sqgrate
}

// sampleEpsilon draws the energy fraction of the first photon by rejection from a 1/epsilon
// envelope. tau must be positive.
func sampleEpsilon(rng Rand, tau float64) (epsil float64, iterations int) {
	gam := tau + 1.
	tau2 := tau + 2.
	epsilMin, epsilMax := epsilonLimits(tau)
	logEpsilQot := math.Log(epsilMax / epsilMin)

	for {
		iterations++
		epsil = epsilMin * math.Exp(logEpsilQot*rng.Float64())
		greject := 1. - epsil + (2.*gam*epsil-1.)/(epsil*tau2*tau2) // Heitler, over the 1/epsilon envelope
		if rng.Float64() <= greject {
			return
		}
	}
}

func rawPhotonCosTheta(epsil, tau float64) float64 {
	tau2 := tau + 2.
	return (epsil*tau2 - 1.) / (epsil * math.Sqrt(tau*tau2))
}

// photonCosTheta is the polar angle of the first photon relative to the positron,
// clamped into [-1, 1].
func photonCosTheta(epsil, tau float64) (cost float64, clamped bool) {
	cost = rawPhotonCosTheta(epsil, tau)
	if math.Abs(cost) > 1. {
		return math.Copysign(1., cost), true
	}
	return cost, false
}
