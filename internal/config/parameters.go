package config

import (
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"reflect"
	"slices"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/wildstyl3r/annihilation/internal/material"
	"github.com/wildstyl3r/annihilation/internal/model"
	"github.com/wildstyl3r/annihilation/internal/utils"
)

var (
	ErrNoRuns        = errors.New("no runs provided")
	ErrUnitsConflict = errors.New("units conflict")
	ErrInvalidRun    = errors.New("invalid run")
)

// metadata answers whether a key path was present in the configuration file.
// toml.MetaData implements it.
type metadata interface {
	IsDefined(key ...string) bool
}

type Config struct {
	OutputDir     string                   `yaml:"OutputDir"`
	Runs          map[string]RunParameters `yaml:"Runs"`
	RunParameters `yaml:",inline"`
	Spectrum      string `yaml:"Spectrum"` // file of "kinetic-energy events" lines, one run per line

	InputUnits  []string `yaml:"InputUnits"`
	OutputUnits []string `yaml:"OutputUnits"`

	meta         metadata
	isDefinedMap map[string]struct{}
}

func (c *Config) isDefined(path ...string) bool {
	if _, sureDefined := c.isDefinedMap[strings.Join(path, "#")]; sureDefined {
		return true
	}
	return c.meta != nil && c.meta.IsDefined(path...)
}

// LoadConfig reads a TOML (default) or YAML run configuration.
func LoadConfig(configFileName string) (Config, error) {
	var config Config
	config.isDefinedMap = map[string]struct{}{}

	switch strings.ToLower(filepath.Ext(configFileName)) {
	case ".yaml", ".yml":
		meta, err := decodeYAML(configFileName, &config)
		if err != nil {
			return config, err
		}
		config.meta = meta
	case ".toml":
		meta, err := toml.DecodeFile(configFileName, &config)
		if err != nil {
			return config, fmt.Errorf("decode %s: %w", configFileName, err)
		}
		config.meta = &meta
	default:
		meta, err := toml.DecodeFile(configFileName+".toml", &config)
		if err != nil {
			return config, fmt.Errorf("decode %s.toml: %w", configFileName, err)
		}
		config.meta = &meta
	}

	var unitsConflict []string
	config.InputUnits, unitsConflict = checkUnits(config.InputUnits)
	if len(unitsConflict) > 0 {
		return config, fmt.Errorf("%w: input units %v", ErrUnitsConflict, unitsConflict)
	}
	if len(config.OutputUnits) == 0 {
		config.OutputUnits = config.InputUnits
	}
	config.OutputUnits, unitsConflict = checkUnits(config.OutputUnits)
	if len(unitsConflict) > 0 {
		return config, fmt.Errorf("%w: output units %v", ErrUnitsConflict, unitsConflict)
	}

	if len(config.Spectrum) > 0 {
		if len(config.Runs) > 0 {
			return config, fmt.Errorf("%w: spectrum file and explicit runs are mutually exclusive", ErrInvalidRun)
		}
		spectrum, err := utils.ReadFloatPairs(config.Spectrum)
		if err != nil {
			return config, fmt.Errorf("spectrum file: %w", err)
		}
		filename := utils.GetFilename(config.Spectrum)
		config.Runs = make(map[string]RunParameters, len(spectrum))
		for line := range spectrum {
			runName := filename + "_l" + strconv.Itoa(line+1)
			config.Runs[runName] = RunParameters{
				KineticEnergy: spectrum[line][0],
				NEvents:       int(spectrum[line][1]),
			}
			config.isDefinedMap[strings.Join([]string{"Runs", runName, "KineticEnergy"}, "#")] = struct{}{}
			config.isDefinedMap[strings.Join([]string{"Runs", runName, "NEvents"}, "#")] = struct{}{}
		}
	}
	if len(config.Runs) == 0 {
		return config, ErrNoRuns
	}
	return config, nil
}

func decodeYAML(fileName string, config *Config) (metadata, error) {
	data, err := os.ReadFile(fileName)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", fileName, err)
	}
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("decode %s: %w", fileName, err)
	}
	var tree map[string]any
	if err := yaml.Unmarshal(data, &tree); err != nil {
		return nil, fmt.Errorf("decode %s: %w", fileName, err)
	}
	return yamlMeta(tree), nil
}

type yamlMeta map[string]any

func (m yamlMeta) IsDefined(path ...string) bool {
	var current any = map[string]any(m)
	for _, key := range path {
		node, ok := current.(map[string]any)
		if !ok {
			return false
		}
		if current, ok = node[key]; !ok {
			return false
		}
	}
	return true
}

type RunParameters struct {
	Model    string `yaml:"Model"`
	Material string `yaml:"Material"` // built-in material name

	// single-element custom material
	Z       float64 `yaml:"Z"`
	A       float64 `yaml:"A"`       // [g/mol]
	Density float64 `yaml:"Density"` // [g/cm^3]

	ElectronDensity float64 `yaml:"ElectronDensity"` // [cm^-3]

	KineticEnergy float64   `yaml:"KineticEnergy"` // [MeV]
	Direction     []float64 `yaml:"Direction"`
	NEvents       int       `yaml:"NEvents"`
	Seed          int64     `yaml:"Seed"`

	LowestTriplet float64 `toml:"LowestTripletEnergy" yaml:"LowestTripletEnergy"` // [MeV]

	EnergyBins int `yaml:"EnergyBins"`
	AngleBins  int `yaml:"AngleBins"`

	outputUnits []string
	verbose     bool
	threads     int
}

func (p *RunParameters) LowestTripletEnergy() float64 {
	return p.LowestTriplet
}

func (p *RunParameters) OutputUnits() []string {
	return p.outputUnits
}

func (p *RunParameters) SetOutputUnits(u []string) {
	p.outputUnits = u
}

func (p *RunParameters) Verbose() bool {
	return p.verbose
}

func (p *RunParameters) SetVerbosity(verbose bool) {
	p.verbose = verbose
}

func (p *RunParameters) Threads() int {
	return p.threads
}

func (p *RunParameters) SetThreads(threads int) {
	p.threads = threads
}

// PrimaryDirection is the configured direction normalized to unit length.
func (p *RunParameters) PrimaryDirection() model.Vec3 {
	return model.Vec3{X: p.Direction[0], Y: p.Direction[1], Z: p.Direction[2]}.Unit()
}

// Medium resolves the target: explicit electron density, then custom Z/A/Density,
// then a built-in material.
func (p *RunParameters) Medium() (model.Material, string, error) {
	switch {
	case p.ElectronDensity > 0:
		name := "n_e=" + strconv.FormatFloat(p.ElectronDensity, 'g', 6, 64)
		return material.Medium{Name: name, NElectron: p.ElectronDensity}, name, nil
	case p.Z > 0:
		name := "Z=" + strconv.FormatFloat(p.Z, 'g', -1, 64)
		m, err := material.NewSimpleMaterial(name, p.Z, p.A, p.Density)
		return m, name, err
	default:
		m, err := material.Lookup(p.Material)
		return m, p.Material, err
	}
}

var defaultValues = map[string]any{ // internal units
	"Model":         model.OKVIModelName,
	"Direction":     []float64{0., 0., 1.},
	"NEvents":       100000,
	"Seed":          int64(0),
	"LowestTriplet": 1., // [MeV]
	"EnergyBins":    100,
	"AngleBins":     100,
}

var fieldsXor = map[string][]string{
	"Material":        {"Z", "ElectronDensity"},
	"Z":               {"Material", "ElectronDensity"},
	"ElectronDensity": {"Material", "Z"},
}

var fieldsAnd = map[string][]string{
	"Z": {"A", "Density"},
}

var valueUnits = map[string][]UnitElement{
	"KineticEnergy": {
		{Class: Energy, Power: 1},
	},
	"LowestTriplet": {
		{Class: Energy, Power: 1},
	},
	"ElectronDensity": {
		{Class: Length, Power: -3},
	},
	"Density": {
		{Class: Length, Power: -3},
	},
}

// keyOf is the configuration key for a RunParameters field.
func keyOf(field reflect.StructField) string {
	if key := field.Tag.Get("toml"); key != "" {
		return key
	}
	return field.Name
}

func (p *RunParameters) toInternal(fieldNames, units []string) {
	reflected := reflect.ValueOf(p).Elem()
	for _, name := range fieldNames {
		if field := reflected.FieldByName(name); field.CanFloat() {
			field.SetFloat(Convert(field.Float(), valueUnits[name], units, true))
		}
	}
}

/*
field value priority:
1. run
2. global
3. default
*/

// CheckAndUnify fills the run's missing fields from the global section and defaults,
// converts them into internal units and validates the result.
func (p *RunParameters) CheckAndUnify(runName string, config *Config) error {
	runPath := []string{"Runs", runName}
	runType := reflect.TypeOf(*p)
	runValue := reflect.ValueOf(p).Elem()
	globalValue := reflect.ValueOf(&config.RunParameters).Elem()

	var discovered []string
	for i := range runType.NumField() {
		field := runType.Field(i)
		if !field.IsExported() {
			continue
		}
		key := keyOf(field)
		switch {
		case config.isDefined(append(runPath, key)...):
			discovered = append(discovered, field.Name)
		case config.isDefined(key) && !excludedBy(field.Name, runPath, config):
			runValue.Field(i).Set(globalValue.Field(i))
			discovered = append(discovered, field.Name)
		}
	}

	for _, name := range discovered {
		for _, conflict := range fieldsXor[name] {
			if slices.Contains(discovered, conflict) {
				return fmt.Errorf("%w: %s: %s conflicts with %s", ErrInvalidRun, runName, name, conflict)
			}
		}
		for _, requirement := range fieldsAnd[name] {
			if !slices.Contains(discovered, requirement) {
				return fmt.Errorf("%w: %s: %s requires %s", ErrInvalidRun, runName, name, requirement)
			}
		}
	}

	p.toInternal(discovered, config.InputUnits)

	for fieldName, value := range defaultValues {
		if !slices.Contains(discovered, fieldName) {
			runValue.FieldByName(fieldName).Set(reflect.ValueOf(value))
		}
	}

	if !slices.Contains(discovered, "KineticEnergy") {
		return fmt.Errorf("%w: %s: KineticEnergy not found", ErrInvalidRun, runName)
	}
	if p.KineticEnergy < 0. || math.IsNaN(p.KineticEnergy) {
		return fmt.Errorf("%w: %s: negative kinetic energy %v", ErrInvalidRun, runName, p.KineticEnergy)
	}
	if !slices.ContainsFunc(discovered, func(name string) bool {
		return name == "Material" || name == "Z" || name == "ElectronDensity"
	}) {
		return fmt.Errorf("%w: %s: no material (Material, Z or ElectronDensity)", ErrInvalidRun, runName)
	}
	if len(p.Direction) != 3 || p.PrimaryDirection().Mag2() == 0. {
		return fmt.Errorf("%w: %s: direction %v is not a non-zero 3-vector", ErrInvalidRun, runName, p.Direction)
	}
	if p.NEvents <= 0 {
		return fmt.Errorf("%w: %s: NEvents %d", ErrInvalidRun, runName, p.NEvents)
	}
	if p.EnergyBins <= 0 || p.AngleBins <= 0 {
		return fmt.Errorf("%w: %s: histogram bins must be positive", ErrInvalidRun, runName)
	}

	p.outputUnits = config.OutputUnits
	return nil
}

// excludedBy reports whether a global field is shadowed by a run-level alternative.
func excludedBy(fieldName string, runPath []string, config *Config) bool {
	runType := reflect.TypeOf(RunParameters{})
	for _, alternative := range fieldsXor[fieldName] {
		if field, ok := runType.FieldByName(alternative); ok && config.isDefined(append(runPath, keyOf(field))...) {
			return true
		}
	}
	// the global Z travels with its A and Density
	for owner, requirements := range fieldsAnd {
		if slices.Contains(requirements, fieldName) {
			return excludedBy(owner, runPath, config)
		}
	}
	return false
}
