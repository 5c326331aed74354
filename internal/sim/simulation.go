// Package sim drives an interaction model over many sampled events and collects tallies.
package sim

import (
	"fmt"
	"log"
	"math"
	"sync"

	"github.com/wildstyl3r/annihilation/internal/config"
	"github.com/wildstyl3r/annihilation/internal/model"
	"github.com/wildstyl3r/annihilation/internal/random"
)

type Simulation struct {
	Name       string
	Parameters config.RunParameters
	Model      model.Model
	Medium     model.Material
	MediumName string
	Seed       int64

	Primary model.DynamicParticle

	CrossSection            float64 // per electron [cm^2]
	MacroscopicCrossSection float64 // [cm^-1]
	MeanFreePath            float64 // [cm]

	Tally *Tally
}

// New prepares a run whose parameters already passed CheckAndUnify.
func New(name string, parameters config.RunParameters, logger *log.Logger) (*Simulation, error) {
	s := &Simulation{
		Name:       name,
		Parameters: parameters,
	}

	var err error
	if s.Model, err = model.New(parameters.Model, logger); err != nil {
		return nil, fmt.Errorf("run %s: %w", name, err)
	}
	s.Model.Initialise(&s.Parameters)

	if s.Medium, s.MediumName, err = parameters.Medium(); err != nil {
		return nil, fmt.Errorf("run %s: %w", name, err)
	}
	if s.Seed, err = random.ResolveSeed(parameters.Seed); err != nil {
		return nil, fmt.Errorf("run %s: %w", name, err)
	}

	s.Primary = *model.NewDynamicParticle(model.Positron, parameters.PrimaryDirection(), parameters.KineticEnergy)

	s.CrossSection = s.Model.CrossSectionPerAtom(model.Positron, parameters.KineticEnergy, 1.)
	s.MacroscopicCrossSection = s.Model.CrossSectionPerVolume(s.Medium, model.Positron, parameters.KineticEnergy)
	s.MeanFreePath = math.Inf(1)
	if s.MacroscopicCrossSection > 0. {
		s.MeanFreePath = 1. / s.MacroscopicCrossSection
	}
	if s.Parameters.Verbose() {
		fmt.Printf("Model: %s\nMedium: %s (n_e = %g cm^-3)\nMean free path: %g cm\n",
			s.Model.Name(), s.MediumName, s.Medium.ElectronDensity(), s.MeanFreePath)
	}
	return s, nil
}

// Run samples NEvents annihilations. Event i always goes to worker i mod threads, and every
// worker draws from its own stream, so a seed and a thread count fix the result.
func (s *Simulation) Run() {
	var computeWg, stateWg sync.WaitGroup
	nEvents := s.Parameters.NEvents
	s.Tally = NewTally(nEvents, s.Parameters.EnergyBins, s.Parameters.AngleBins)

	eventflow := make(chan Event, 10000)
	stateWg.Add(1)
	go func() {
		for event := range eventflow {
			s.Tally.Add(event)
		}
		stateWg.Done()
	}()

	threads := max(1, min(s.Parameters.Threads(), nEvents))
	streams := random.Streams(s.Seed, threads)
	status := []string{"//", "==", "\\\\", "||"}
	for worker := range threads {
		computeWg.Add(1)
		go func() {
			defer computeWg.Done()
			rng := model.NewCounter(streams[worker])
			var change model.ParticleChange
			for i := worker; i < nEvents; i += threads {
				primary := s.Primary
				rng.Reset()
				change.Initialize(&primary)
				s.Model.SampleSecondaries(&change, s.Medium, &primary, rng)
				eventflow <- observe(i, &primary, &change, rng.Draws())

				if worker == 0 && s.Parameters.Verbose() && (i/threads)%4096 == 0 {
					print("\r" + status[(i/threads/4096)&0b11])
				}
			}
		}()
	}
	computeWg.Wait()
	close(eventflow)
	stateWg.Wait()

	if s.Parameters.Verbose() {
		mean, confidence := s.Tally.MeanDraws()
		fmt.Printf("\rEvents: %d, photons: %d, draws per event: %.4f +- %.4f\n",
			s.Tally.Events, s.Tally.Photons, mean, confidence)
	}
}
