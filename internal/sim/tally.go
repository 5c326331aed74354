package sim

import (
	"math"
	"slices"

	"go-hep.org/x/hep/fmom"
	"go-hep.org/x/hep/hbook"

	"github.com/wildstyl3r/annihilation/internal/constants"
	"github.com/wildstyl3r/annihilation/internal/model"
	"github.com/wildstyl3r/annihilation/internal/utils"
)

type Photon struct {
	EnergyFraction float64 // E / (T + 2mc^2)
	CosTheta       float64 // relative to the primary direction
}

// Event is what one SampleSecondaries call left behind.
type Event struct {
	Index       int
	Draws       int
	Status      model.TrackStatus
	Secondaries int
	Photons     []Photon

	EnergyResidual     float64 // [MeV]
	MomentumResidual   float64 // [MeV/c]
	MassDeviation      float64 // [MeV]
	PolarizationDotDir float64 // max |pol . dir| over the photons
}

func observe(index int, primary *model.DynamicParticle, change *model.ParticleChange, draws int) Event {
	event := Event{
		Index:       index,
		Draws:       draws,
		Status:      change.TrackStatus(),
		Secondaries: change.NumberOfSecondaries(),
	}
	if event.Secondaries == 0 {
		return event
	}

	available := primary.KineticEnergy + 2.*constants.ElectronMassC2
	for _, p := range change.Secondaries() {
		if p.Definition == model.Gamma {
			event.Photons = append(event.Photons, Photon{
				EnergyFraction: p.TotalEnergy() / available,
				CosTheta:       p.Direction.Dot(primary.Direction),
			})
		}
		event.PolarizationDotDir = max(event.PolarizationDotDir, math.Abs(p.Polarization.Dot(p.Direction)))
	}

	initial := primary.P4()
	initial = fmom.NewPxPyPzE(initial.Px(), initial.Py(), initial.Pz(), initial.E()+constants.ElectronMassC2)
	final := sumP4(change.Secondaries())

	event.EnergyResidual = math.Abs(final.E() - initial.E())
	event.MomentumResidual = math.Sqrt(sq(final.Px()-initial.Px()) + sq(final.Py()-initial.Py()) + sq(final.Pz()-initial.Pz()))
	event.MassDeviation = math.Abs(final.M() - initial.M())
	return event
}

func sumP4(particles []*model.DynamicParticle) fmom.PxPyPzE {
	var px, py, pz, e float64
	for _, p := range particles {
		p4 := p.P4()
		px += p4.Px()
		py += p4.Py()
		pz += p4.Pz()
		e += p4.E()
	}
	return fmom.NewPxPyPzE(px, py, pz, e)
}

func sq(x float64) float64 {
	return x * x
}

// Tally accumulates events. It is owned by the single aggregating goroutine.
type Tally struct {
	Events      int
	Killed      int
	Secondaries int
	Photons     int

	EnergyFraction *hbook.H1D // over [0, 1]
	CosTheta       *hbook.H1D // over [-1, 1]
	Draws          []int      // per event index

	MaxEnergyResidual   float64
	MaxMomentumResidual float64
	MaxMassDeviation    float64
	MaxPolarizationDot  float64
}

func NewTally(nEvents, energyBins, angleBins int) *Tally {
	return &Tally{
		EnergyFraction: hbook.NewH1D(energyBins, 0., 1.),
		CosTheta:       hbook.NewH1D(angleBins, -1., 1.),
		Draws:          make([]int, nEvents),
	}
}

func (t *Tally) Add(event Event) {
	t.Events++
	if event.Status == model.StopAndKill {
		t.Killed++
	}
	t.Secondaries += event.Secondaries
	t.Draws[event.Index] = event.Draws
	for _, photon := range event.Photons {
		t.Photons++
		fill(t.EnergyFraction, photon.EnergyFraction, 1.)
		fill(t.CosTheta, photon.CosTheta, 1.)
	}
	t.MaxEnergyResidual = max(t.MaxEnergyResidual, event.EnergyResidual)
	t.MaxMomentumResidual = max(t.MaxMomentumResidual, event.MomentumResidual)
	t.MaxMassDeviation = max(t.MaxMassDeviation, event.MassDeviation)
	t.MaxPolarizationDot = max(t.MaxPolarizationDot, event.PolarizationDotDir)
}

// fill keeps the closed upper edge inside the last bin.
func fill(h *hbook.H1D, x, high float64) {
	h.Fill(math.Min(x, math.Nextafter(high, math.Inf(-1))), 1.)
}

// MeanDraws returns the mean number of random draws per event and its 95% confidence half-width.
func (t *Tally) MeanDraws() (mean, confidence float64) {
	if len(t.Draws) < 2 {
		return utils.Average(t.Draws), 0.
	}
	mean, variance := utils.MeanAndVariance(t.Draws, true)
	return mean, constants.Quantile95 * math.Sqrt(variance/float64(len(t.Draws)))
}

// Distribution returns bin centres and the normalized density of a histogram.
func Distribution(h *hbook.H1D) (centers, density []float64) {
	counts := make([]float64, len(h.Binning.Bins))
	for i, bin := range h.Binning.Bins {
		centers = append(centers, bin.XMid())
		counts[i] = bin.SumW()
	}
	if len(counts) == 0 {
		return centers, counts
	}
	return centers, utils.Normalize(counts, h.Binning.Bins[0].XWidth())
}

// Mode is the centre of the fullest bin.
func Mode(h *hbook.H1D) float64 {
	centers, density := Distribution(h)
	if len(centers) == 0 || slices.Max(density) == 0. {
		return math.NaN()
	}
	return centers[utils.Argmax(density)]
}
