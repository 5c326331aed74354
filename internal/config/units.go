package config

import "github.com/wildstyl3r/annihilation/internal/utils"

var unitToInternal = map[string]float64{
	"eV":  1e-6, // [MeV]
	"keV": 1e-3, // [MeV]
	"MeV": 1,    // [MeV]
	"GeV": 1e3,  // [MeV]
	"TeV": 1e6,  // [MeV]
	"mm":  0.1,  // [cm]
	"cm":  1,    // [cm]
	"m":   1e2,  // [cm]
	"um":  1e-4, // [cm]
}

type UnitClass int

const (
	Energy UnitClass = iota
	Length
)

var unitsInClass = map[UnitClass][]string{
	Energy: {"eV", "keV", "MeV", "GeV", "TeV"},
	Length: {"um", "mm", "cm", "m"},
}

var classesOfUnits = map[string]UnitClass{
	"eV":  Energy,
	"keV": Energy,
	"MeV": Energy,
	"GeV": Energy,
	"TeV": Energy,
	"um":  Length,
	"mm":  Length,
	"cm":  Length,
	"m":   Length,
}

var defaultUnits = []string{"MeV", "cm"}

type UnitElement = struct {
	Class UnitClass
	Power int
}

// checkUnits completes units with defaults for missing classes and reports unknown units
// and units competing for one class.
func checkUnits(units []string) (extended, conflicts []string) {
	classes := map[UnitClass]struct{}{}
	for _, unit := range units {
		class, known := classesOfUnits[unit]
		if !known {
			conflicts = append(conflicts, unit)
			continue
		}
		if _, some := classes[class]; some {
			conflicts = append(conflicts, unit)
		} else {
			classes[class] = struct{}{}
		}
	}
	extended = append([]string{}, units...)
	for _, unit := range defaultUnits {
		if _, some := classes[classesOfUnits[unit]]; !some {
			extended = append(extended, unit)
		}
	}
	return
}

// Convert rescales v with dimension classes between the given units and internal units
// (MeV, cm). direct converts into internal units, otherwise out of them.
func Convert(v float64, classes []UnitElement, units []string, direct bool) float64 {
	for i := range classes {
		uc := classes[i]
		unit := utils.Intersect(unitsInClass[uc.Class], units)
		if unit == nil {
			continue
		}
		absPower := utils.IntAbs(uc.Power)
		if direct == (uc.Power > 0) {
			for range absPower {
				v *= unitToInternal[*unit]
			}
		} else {
			for range absPower {
				v /= unitToInternal[*unit]
			}
		}
	}
	return v
}

// UnitOf names the unit of the class found in units, or the internal one.
func UnitOf(class UnitClass, units []string) string {
	if unit := utils.Intersect(unitsInClass[class], units); unit != nil {
		return *unit
	}
	return defaultUnits[class]
}
