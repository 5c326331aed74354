package constants

import "math"

// internal units: energy in MeV, length in cm

const ElectronMassC2 float64 = 0.51099895000           // [MeV]
const ClassicElectronRadius float64 = 2.8179403262e-13 // [cm]
const Avogadro float64 = 6.02214076e23                 // [mol^-1]
const EV float64 = 1e-6                                // [MeV]

const PiRcl2 = math.Pi * ClassicElectronRadius * ClassicElectronRadius // [cm^2]

const Quantile95 = 1.96
