package model

import (
	"errors"
	"fmt"
	"log"
	"strings"
)

// Rand supplies independent uniform draws in [0, 1). *rand.Rand satisfies it.
type Rand interface {
	Float64() float64
}

type Material interface {
	ElectronDensity() float64 // [cm^-3]
}

type EmParameters interface {
	LowestTripletEnergy() float64 // [MeV]
}

// Model is an electromagnetic interaction model. Initialise is called once, before any
// concurrent use; afterwards every method is safe to call from several goroutines as long
// as each passes its own Rand and ParticleChange.
type Model interface {
	Name() string
	Initialise(params EmParameters)
	CrossSectionPerAtom(def *Definition, kineticEnergy, Z float64) float64      // [cm^2]
	CrossSectionPerVolume(mat Material, def *Definition, kineticEnergy float64) float64 // [cm^-1]
	SampleSecondaries(change *ParticleChange, mat Material, primary *DynamicParticle, rng Rand)
}

var ErrUnknownModel = errors.New("unknown interaction model")

const (
	OKVIModelName = "okvi"
	NullModelName = "null"
)

func New(name string, logger *log.Logger) (Model, error) {
	switch strings.ToLower(name) {
	case OKVIModelName, "":
		return NewOKVIModel(logger), nil
	case NullModelName, "dummy":
		return NewNullModel(), nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownModel, name)
}
