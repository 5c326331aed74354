package sim

import (
	"encoding/csv"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/wildstyl3r/annihilation/internal/config"
	"github.com/wildstyl3r/annihilation/internal/utils"
)

type DataExtractor struct {
	sim *Simulation
}

func NewDataExtractor(s *Simulation) *DataExtractor {
	return &DataExtractor{sim: s}
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// withUnits fills the {E} and {L} placeholders of column names.
func withUnits(columns []string, units []string) []string {
	replacer := strings.NewReplacer(
		"{E}", config.UnitOf(config.Energy, units),
		"{L}", config.UnitOf(config.Length, units),
	)
	named := make([]string, len(columns))
	for i := range columns {
		named[i] = replacer.Replace(columns[i])
	}
	return named
}

// Save writes every selected output of the run. A failed output does not stop the others.
func (de *DataExtractor) Save(df DataFlags) error {
	var errs []error
	units := de.sim.Parameters.OutputUnits()
	for name, output := range df.sequentials {
		if !*output.saveFlag && !*df.all {
			continue
		}
		file, err := utils.OpenFile(*df.makeDir, df.outputPath, output.fileSuffix, de.sim.Name)
		if err != nil {
			errs = append(errs, fmt.Errorf("unable to save %s: %w", name, err))
			continue
		}
		rows := [][]string{withUnits(output.columnNames, units)}
		xColumnValue, yColumnValues, yLabels := output.values(de)
		if len(yLabels) > 0 {
			labelRow := make([]string, len(output.columnNames), len(output.columnNames)+len(yLabels))
			rows = append(rows, append(labelRow, yLabels...))
		}
		for x := range xColumnValue {
			row := []string{formatFloat(config.Convert(xColumnValue[x], output.xUnit, units, false))}
			for i := range yColumnValues[x] {
				row = append(row, formatFloat(config.Convert(yColumnValues[x][i], output.yUnit(i), units, false)))
			}
			rows = append(rows, row)
		}
		w := csv.NewWriter(file)
		if err := w.WriteAll(rows); err != nil {
			errs = append(errs, fmt.Errorf("error writing %s: %w", name, err))
		} else if de.sim.Parameters.Verbose() {
			fmt.Println(name + " saved")
		}
		file.Close()
	}
	return errors.Join(errs...)
}

var summaryColumns = []string{
	"run", "model", "medium", "T ({E})", "events", "seed",
	"sigma_e ({L}^2)", "lambda ({L})", "photons", "killed",
	"draws per event", "draws ci95", "epsilon mode",
	"max dE ({E})", "max dp ({E}/c)", "max dM ({E})", "max |pol.dir|",
}

func SummaryColumns(units []string) []string {
	return withUnits(summaryColumns, units)
}

// SummaryRow is one line of the run summary in output units.
func (de *DataExtractor) SummaryRow() []string {
	s := de.sim
	t := s.Tally
	units := s.Parameters.OutputUnits()
	energy := func(v float64) string {
		return formatFloat(config.Convert(v, energyUnit, units, false))
	}
	meanDraws, confidence := t.MeanDraws()
	return []string{
		s.Name,
		s.Model.Name(),
		s.MediumName,
		energy(s.Primary.KineticEnergy),
		strconv.Itoa(t.Events),
		strconv.FormatInt(s.Seed, 10),
		formatFloat(config.Convert(s.CrossSection, areaUnit, units, false)),
		formatFloat(config.Convert(s.MeanFreePath, lengthUnit, units, false)),
		strconv.Itoa(t.Photons),
		strconv.Itoa(t.Killed),
		formatFloat(meanDraws),
		formatFloat(confidence),
		formatFloat(Mode(t.EnergyFraction)),
		energy(t.MaxEnergyResidual),
		energy(t.MaxMomentumResidual),
		energy(t.MaxMassDeviation),
		formatFloat(t.MaxPolarizationDot),
	}
}

// SaveSummary writes summary.txt, rows ordered naturally by run name.
func SaveSummary(rows utils.CSV, units []string, df DataFlags) error {
	return utils.WriteAsCSV(rows, df.outputPath, "", "summary", SummaryColumns(units))
}
