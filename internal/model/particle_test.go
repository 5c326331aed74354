package model

import (
	"testing"

	"github.com/wildstyl3r/annihilation/internal/constants"
)

func TestDynamicParticleKinematics(t *testing.T) {
	p := NewDynamicParticle(Positron, Vec3{0, 0.6, 0.8}, 2.)
	wantP2 := 2. * (2. + 2.*constants.ElectronMassC2)
	assertClose(t, "|p|^2", p.TotalMomentum()*p.TotalMomentum(), wantP2, 1e-12)
	assertClose(t, "E", p.TotalEnergy(), 2.+constants.ElectronMassC2, 0.)

	p4 := p.P4()
	assertClose(t, "invariant mass", p4.M(), constants.ElectronMassC2, 1e-12)
	assertClose(t, "pz", p4.Pz(), 0.8*p.TotalMomentum(), 1e-12)
	assertClose(t, "e", p4.E(), p.TotalEnergy(), 0.)
}

func TestPhotonP4IsMassless(t *testing.T) {
	g := NewDynamicParticle(Gamma, Vec3{1, 0, 0}, 0.7)
	if g.TotalMomentum() != 0.7 {
		t.Fatalf("expected |p| = E for a photon, got %v", g.TotalMomentum())
	}
	p4 := g.P4()
	assertClose(t, "photon mass", p4.M(), 0., 1e-12)
}

func TestParticleChange(t *testing.T) {
	primary := NewDynamicParticle(Positron, Vec3{0, 0, 1}, 3.)
	var change ParticleChange
	change.AddSecondary(NewDynamicParticle(Gamma, Vec3{1, 0, 0}, 1.))
	change.Initialize(primary)

	if change.NumberOfSecondaries() != 0 {
		t.Fatalf("expected no secondaries after initialize, got %d", change.NumberOfSecondaries())
	}
	if change.ProposedKineticEnergy() != 3. || change.TrackStatus() != Alive {
		t.Fatalf("expected untouched primary, got T=%v status=%v", change.ProposedKineticEnergy(), change.TrackStatus())
	}

	change.ProposeKineticEnergy(0.)
	change.ProposeTrackStatus(StopAndKill)
	if change.TrackStatus().String() != "killed" {
		t.Fatalf("expected killed, got %s", change.TrackStatus())
	}
}
