package config

import (
	"fmt"
	"strings"

	"github.com/caarlos0/env/v11"
)

// Environment holds overrides taken from the process environment.
type Environment struct {
	OutputDir string `env:"ANNIHILATION_OUTPUT_DIR"`
	Threads   int    `env:"ANNIHILATION_THREADS"`
	Seed      int64  `env:"ANNIHILATION_SEED"`
	Verbose   bool   `env:"ANNIHILATION_VERBOSE"`
	Database  string `env:"ANNIHILATION_DB"`
}

func ParseEnv() (Environment, error) {
	var e Environment
	if err := env.Parse(&e); err != nil {
		return e, fmt.Errorf("parse env: %w", err)
	}
	return e, nil
}

// Apply overrides the output directory, and the seed of every run without an explicit one.
func (e Environment) Apply(config *Config) {
	if e.OutputDir != "" {
		config.OutputDir = e.OutputDir
	}
	if e.Seed != 0 {
		if config.isDefinedMap == nil {
			config.isDefinedMap = map[string]struct{}{}
		}
		for name, run := range config.Runs {
			if !config.isDefined("Runs", name, "Seed") && !config.isDefined("Seed") {
				run.Seed = e.Seed
				config.Runs[name] = run
				config.isDefinedMap[strings.Join([]string{"Runs", name, "Seed"}, "#")] = struct{}{}
			}
		}
	}
}
