package model

// NullModel stands in for a disabled process: it never interacts and never produces anything.
type NullModel struct{}

func NewNullModel() *NullModel {
	return &NullModel{}
}

func (NullModel) Name() string { return "Dummy" }

func (NullModel) Initialise(EmParameters) {}

func (NullModel) CrossSectionPerAtom(*Definition, float64, float64) float64 { return 0. }

func (NullModel) CrossSectionPerVolume(Material, *Definition, float64) float64 { return 0. }

func (NullModel) SampleSecondaries(*ParticleChange, Material, *DynamicParticle, Rand) {}
