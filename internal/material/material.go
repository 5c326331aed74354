package material

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/wildstyl3r/annihilation/internal/constants"
)

type Element struct {
	Symbol string
	Z      float64
	A      float64 // [g/mol]
}

type Component struct {
	Element      Element
	MassFraction float64
}

// Material is an immutable description of a medium. Electron and atom densities are
// computed once at construction.
type Material struct {
	Name       string
	Density    float64 // [g/cm^3]
	Components []Component

	electronDensity float64   // [cm^-3]
	atomDensities   []float64 // [cm^-3]
}

var (
	ErrUnknownMaterial = errors.New("unknown material")
	ErrInvalidMaterial = errors.New("invalid material")
)

func NewMaterial(name string, density float64, components ...Component) (*Material, error) {
	if density <= 0. {
		return nil, fmt.Errorf("%w: %s: density %v g/cm3", ErrInvalidMaterial, name, density)
	}
	if len(components) == 0 {
		return nil, fmt.Errorf("%w: %s: no components", ErrInvalidMaterial, name)
	}
	total := 0.
	for _, c := range components {
		if c.MassFraction < 0. || c.Element.Z < 0. || c.Element.A <= 0. {
			return nil, fmt.Errorf("%w: %s: component %+v", ErrInvalidMaterial, name, c)
		}
		total += c.MassFraction
	}
	if math.Abs(total-1.) > 1e-3 {
		return nil, fmt.Errorf("%w: %s: mass fractions sum to %v", ErrInvalidMaterial, name, total)
	}

	m := &Material{
		Name:          name,
		Density:       density,
		Components:    components,
		atomDensities: make([]float64, len(components)),
	}
	for i, c := range components {
		m.atomDensities[i] = constants.Avogadro * density * c.MassFraction / (total * c.Element.A)
		m.electronDensity += m.atomDensities[i] * c.Element.Z
	}
	return m, nil
}

func NewSimpleMaterial(name string, Z, A, density float64) (*Material, error) {
	return NewMaterial(name, density, Component{Element{Symbol: name, Z: Z, A: A}, 1.})
}

// ElectronDensity [cm^-3]
func (m *Material) ElectronDensity() float64 {
	return m.electronDensity
}

// AtomDensity is the number of atoms of the i-th component per cm^3.
func (m *Material) AtomDensity(i int) float64 {
	return m.atomDensities[i]
}

// Medium exposes only an electron density, for media given directly by it.
type Medium struct {
	Name      string
	NElectron float64 // [cm^-3]
}

func (m Medium) ElectronDensity() float64 {
	return m.NElectron
}

var elements = map[string]Element{
	"H":  {"H", 1., 1.008},
	"C":  {"C", 6., 12.011},
	"N":  {"N", 7., 14.007},
	"O":  {"O", 8., 15.999},
	"Na": {"Na", 11., 22.98977},
	"Al": {"Al", 13., 26.98154},
	"Si": {"Si", 14., 28.0855},
	"Ar": {"Ar", 18., 39.948},
	"Cu": {"Cu", 29., 63.546},
	"I":  {"I", 53., 126.90447},
	"W":  {"W", 74., 183.84},
	"Pb": {"Pb", 82., 207.2},
}

type definition struct {
	density    float64
	components map[string]float64
}

var builtin = map[string]definition{
	"G4_WATER":         {1.0, map[string]float64{"H": 0.111894, "O": 0.888106}},
	"G4_AIR":           {0.00120479, map[string]float64{"C": 0.000124, "N": 0.755267, "O": 0.231781, "Ar": 0.012827}},
	"G4_Al":            {2.699, map[string]float64{"Al": 1.}},
	"G4_Si":            {2.33, map[string]float64{"Si": 1.}},
	"G4_Cu":            {8.96, map[string]float64{"Cu": 1.}},
	"G4_W":             {19.3, map[string]float64{"W": 1.}},
	"G4_Pb":            {11.35, map[string]float64{"Pb": 1.}},
	"G4_lAr":           {1.396, map[string]float64{"Ar": 1.}},
	"G4_PbWO4":         {8.28, map[string]float64{"Pb": 0.455347, "W": 0.404011, "O": 0.140462}},
	"G4_SODIUM_IODIDE": {3.667, map[string]float64{"Na": 0.153373, "I": 0.846627}},
}

func Lookup(name string) (*Material, error) {
	def, ok := builtin[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownMaterial, name)
	}
	symbols := make([]string, 0, len(def.components))
	for symbol := range def.components {
		symbols = append(symbols, symbol)
	}
	sort.Strings(symbols)
	components := make([]Component, 0, len(symbols))
	for _, symbol := range symbols {
		components = append(components, Component{elements[symbol], def.components[symbol]})
	}
	return NewMaterial(name, def.density, components...)
}

func Names() []string {
	names := make([]string, 0, len(builtin))
	for name := range builtin {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
