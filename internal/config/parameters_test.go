package config

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"slices"
	"testing"

	"github.com/wildstyl3r/annihilation/internal/material"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	return path
}

func loadRun(t *testing.T, config *Config, name string) RunParameters {
	t.Helper()
	run, ok := config.Runs[name]
	if !ok {
		t.Fatalf("expected run %q in %v", name, config.Runs)
	}
	if err := run.CheckAndUnify(name, config); err != nil {
		t.Fatalf("check run %q: %v", name, err)
	}
	return run
}

const tomlConfig = `
OutputDir = "out/"
Material = "G4_WATER"
NEvents = 1000
InputUnits = ["keV"]

[Runs.low]
KineticEnergy = 10.0

[Runs.lead]
KineticEnergy = 1000.0
Material = "G4_Pb"
NEvents = 50
Seed = 7
Direction = [0.0, 3.0, 4.0]
`

func TestLoadConfigTOMLPriority(t *testing.T) {
	path := writeFile(t, "runs.toml", tomlConfig)
	config, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if config.OutputDir != "out/" {
		t.Fatalf("expected output dir out/, got %q", config.OutputDir)
	}
	if !slices.Equal(config.OutputUnits, []string{"keV", "cm"}) {
		t.Fatalf("expected output units to follow input units, got %v", config.OutputUnits)
	}

	low := loadRun(t, &config, "low")
	if math.Abs(low.KineticEnergy-0.01) > 1e-15 {
		t.Fatalf("expected 10 keV = 0.01 MeV, got %v", low.KineticEnergy)
	}
	if low.Material != "G4_WATER" || low.NEvents != 1000 {
		t.Fatalf("expected global material and events, got %q %d", low.Material, low.NEvents)
	}
	if low.Model != "okvi" || low.Seed != 0 || low.EnergyBins != 100 || low.LowestTripletEnergy() != 1. {
		t.Fatalf("expected defaults, got %+v", low)
	}
	if dir := low.PrimaryDirection(); dir.Z != 1. {
		t.Fatalf("expected default direction +z, got %+v", dir)
	}

	lead := loadRun(t, &config, "lead")
	if lead.KineticEnergy != 1. || lead.Material != "G4_Pb" || lead.NEvents != 50 || lead.Seed != 7 {
		t.Fatalf("expected run values to win, got %+v", lead)
	}
	dir := lead.PrimaryDirection()
	if math.Abs(dir.Y-0.6) > 1e-15 || math.Abs(dir.Z-0.8) > 1e-15 {
		t.Fatalf("expected normalized direction (0, 0.6, 0.8), got %+v", dir)
	}
	mat, name, err := lead.Medium()
	if err != nil || name != "G4_Pb" {
		t.Fatalf("expected G4_Pb, got %q, %v", name, err)
	}
	pb, _ := material.Lookup("G4_Pb")
	if mat.ElectronDensity() != pb.ElectronDensity() {
		t.Fatalf("expected lead electron density %v, got %v", pb.ElectronDensity(), mat.ElectronDensity())
	}
}

func TestLoadConfigAppendsTOMLExtension(t *testing.T) {
	path := writeFile(t, "runs.toml", tomlConfig)
	config, err := LoadConfig(path[:len(path)-len(".toml")])
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(config.Runs) != 2 {
		t.Fatalf("expected 2 runs, got %d", len(config.Runs))
	}
}

func TestLoadConfigYAML(t *testing.T) {
	path := writeFile(t, "runs.yaml", `
Material: G4_Pb
InputUnits: [GeV]
LowestTripletEnergy: 0.002
Runs:
  fast:
    KineticEnergy: 2
    Direction: [1, 0, 0]
    AngleBins: 20
  custom:
    KineticEnergy: 0
    Z: 13
    A: 26.98
    Density: 2.699
`)
	config, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	fast := loadRun(t, &config, "fast")
	if fast.KineticEnergy != 2000. {
		t.Fatalf("expected 2 GeV = 2000 MeV, got %v", fast.KineticEnergy)
	}
	if fast.LowestTripletEnergy() != 2. {
		t.Fatalf("expected lowest triplet energy 2 MeV, got %v", fast.LowestTripletEnergy())
	}
	if fast.AngleBins != 20 || fast.EnergyBins != 100 {
		t.Fatalf("expected 20 angle bins and default energy bins, got %d %d", fast.AngleBins, fast.EnergyBins)
	}
	if dir := fast.PrimaryDirection(); dir.X != 1. {
		t.Fatalf("expected direction +x, got %+v", dir)
	}

	custom := loadRun(t, &config, "custom")
	if custom.Material != "" {
		t.Fatalf("expected global material shadowed by Z, got %q", custom.Material)
	}
	if custom.KineticEnergy != 0. {
		t.Fatalf("expected positron at rest, got %v", custom.KineticEnergy)
	}
	mat, name, err := custom.Medium()
	if err != nil {
		t.Fatalf("medium: %v", err)
	}
	al, _ := material.Lookup("G4_Al")
	if name != "Z=13" || math.Abs(mat.ElectronDensity()-al.ElectronDensity())/al.ElectronDensity() > 1e-3 {
		t.Fatalf("expected aluminium-like medium, got %q with %v", name, mat.ElectronDensity())
	}
}

func TestLoadConfigSpectrum(t *testing.T) {
	spectrum := writeFile(t, "beam.dat", "# T events\n0.5 100\n\n2 300\n")
	path := writeFile(t, "spectrum.toml", `
Spectrum = "`+filepath.ToSlash(spectrum)+`"
ElectronDensity = 1e23
`)
	config, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(config.Runs) != 2 {
		t.Fatalf("expected a run per spectrum line, got %v", config.Runs)
	}
	second := loadRun(t, &config, "beam_l2")
	if second.KineticEnergy != 2. || second.NEvents != 300 {
		t.Fatalf("expected T=2 MeV with 300 events, got %v %d", second.KineticEnergy, second.NEvents)
	}
	mat, _, err := second.Medium()
	if err != nil || mat.ElectronDensity() != 1e23 {
		t.Fatalf("expected electron density 1e23, got %v, %v", mat, err)
	}
}

func TestLoadConfigErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    error
	}{
		{"no runs", `Material = "G4_Pb"`, ErrNoRuns},
		{"unknown unit", "InputUnits = [\"furlong\"]\n[Runs.a]\nKineticEnergy = 1.0", ErrUnitsConflict},
		{"competing units", "OutputUnits = [\"keV\", \"GeV\"]\n[Runs.a]\nKineticEnergy = 1.0", ErrUnitsConflict},
		{"spectrum and runs", "Spectrum = \"x.dat\"\n[Runs.a]\nKineticEnergy = 1.0", ErrInvalidRun},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadConfig(writeFile(t, "c.toml", tt.content))
			if !errors.Is(err, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, err)
			}
		})
	}
	if _, err := LoadConfig(filepath.Join(t.TempDir(), "missing.toml")); err == nil {
		t.Fatalf("expected error for a missing file")
	}
}

func TestCheckAndUnifyRejects(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"no energy", "[Runs.a]\nMaterial = \"G4_Pb\""},
		{"negative energy", "[Runs.a]\nMaterial = \"G4_Pb\"\nKineticEnergy = -1.0"},
		{"no material", "[Runs.a]\nKineticEnergy = 1.0"},
		{"material conflict", "[Runs.a]\nKineticEnergy = 1.0\nMaterial = \"G4_Pb\"\nElectronDensity = 1e22"},
		{"Z without A", "[Runs.a]\nKineticEnergy = 1.0\nZ = 6.0\nDensity = 2.0"},
		{"zero direction", "[Runs.a]\nKineticEnergy = 1.0\nMaterial = \"G4_Pb\"\nDirection = [0.0, 0.0, 0.0]"},
		{"short direction", "[Runs.a]\nKineticEnergy = 1.0\nMaterial = \"G4_Pb\"\nDirection = [1.0, 0.0]"},
		{"no events", "[Runs.a]\nKineticEnergy = 1.0\nMaterial = \"G4_Pb\"\nNEvents = 0"},
		{"no bins", "[Runs.a]\nKineticEnergy = 1.0\nMaterial = \"G4_Pb\"\nAngleBins = -3"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config, err := LoadConfig(writeFile(t, "c.toml", tt.content))
			if err != nil {
				t.Fatalf("load: %v", err)
			}
			run := config.Runs["a"]
			if err := run.CheckAndUnify("a", &config); !errors.Is(err, ErrInvalidRun) {
				t.Fatalf("expected %v, got %v", ErrInvalidRun, err)
			}
		})
	}
}

func TestGlobalZShadowedByRunMaterial(t *testing.T) {
	config, err := LoadConfig(writeFile(t, "c.toml", `
Z = 6.0
A = 12.011
Density = 2.0

[Runs.carbon]
KineticEnergy = 1.0

[Runs.lead]
KineticEnergy = 1.0
Material = "G4_Pb"
`))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	carbon := loadRun(t, &config, "carbon")
	if carbon.Z != 6. || carbon.A != 12.011 || carbon.Density != 2. {
		t.Fatalf("expected global custom material, got %+v", carbon)
	}
	lead := loadRun(t, &config, "lead")
	if lead.Z != 0. || lead.A != 0. || lead.Density != 0. {
		t.Fatalf("expected global Z, A and Density shadowed, got %+v", lead)
	}
}
