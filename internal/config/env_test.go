package config

import "testing"

func TestParseEnv(t *testing.T) {
	t.Setenv("ANNIHILATION_OUTPUT_DIR", "/tmp/out/")
	t.Setenv("ANNIHILATION_THREADS", "3")
	t.Setenv("ANNIHILATION_SEED", "42")
	t.Setenv("ANNIHILATION_VERBOSE", "true")

	e, err := ParseEnv()
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if e.OutputDir != "/tmp/out/" || e.Threads != 3 || e.Seed != 42 || !e.Verbose {
		t.Fatalf("unexpected environment %+v", e)
	}
}

func TestParseEnvInvalid(t *testing.T) {
	t.Setenv("ANNIHILATION_THREADS", "many")
	if _, err := ParseEnv(); err == nil {
		t.Fatalf("expected error for non-numeric threads")
	}
}

func TestEnvironmentApply(t *testing.T) {
	config, err := LoadConfig(writeFile(t, "c.toml", `
OutputDir = "out/"
Material = "G4_WATER"

[Runs.seeded]
KineticEnergy = 1.0
Seed = 5

[Runs.free]
KineticEnergy = 1.0
`))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	Environment{OutputDir: "env/", Seed: 42}.Apply(&config)
	if config.OutputDir != "env/" {
		t.Fatalf("expected output dir env/, got %q", config.OutputDir)
	}
	if seeded := loadRun(t, &config, "seeded"); seeded.Seed != 5 {
		t.Fatalf("expected explicit seed 5, got %d", seeded.Seed)
	}
	if free := loadRun(t, &config, "free"); free.Seed != 42 {
		t.Fatalf("expected environment seed 42, got %d", free.Seed)
	}
}
