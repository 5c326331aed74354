package sim

import (
	"flag"
	"slices"

	"github.com/wildstyl3r/annihilation/internal/config"
	"github.com/wildstyl3r/annihilation/internal/material"
	"github.com/wildstyl3r/annihilation/internal/model"
	"github.com/wildstyl3r/annihilation/internal/utils"
)

type DataItem struct {
	saveFlag   *bool
	fileSuffix string
}

type SequentialDataItem struct {
	DataItem
	columnNames []string // {E} and {L} stand for the output energy and length units
	values      func(*DataExtractor) (args []float64, values [][]float64, labels []string)
	xUnit       []config.UnitElement
	yUnits      [][]config.UnitElement // columns past the end use the last entry
}

func (item SequentialDataItem) yUnit(column int) []config.UnitElement {
	if len(item.yUnits) == 0 {
		return nil
	}
	return item.yUnits[min(column, len(item.yUnits)-1)]
}

var (
	energyUnit = []config.UnitElement{{Class: config.Energy, Power: 1}}
	lengthUnit = []config.UnitElement{{Class: config.Length, Power: 1}}
	areaUnit   = []config.UnitElement{{Class: config.Length, Power: 2}}
	inverseLen = []config.UnitElement{{Class: config.Length, Power: -1}}
)

// Cross section tables span this kinetic energy range [MeV].
const (
	tableFrom   = 1e-3
	tableTo     = 1e4
	tablePoints = 140
)

type DataFlags struct {
	all         *bool
	makeDir     *bool
	sequentials map[string]SequentialDataItem
	outputPath  string
}

func NewDataFlags(fs *flag.FlagSet) DataFlags {
	return DataFlags{
		all:     fs.Bool("all", false, "save every available metric"),
		makeDir: fs.Bool("dirs", false, "put every metric in its own directory"),
		sequentials: map[string]SequentialDataItem{
			"Energy fraction spectrum": {
				DataItem: DataItem{
					saveFlag:   fs.Bool("es", false, "save photon energy fraction spectrum"),
					fileSuffix: "es",
				},
				columnNames: []string{"epsilon", "dN/depsilon"},
				values: func(de *DataExtractor) (args []float64, values [][]float64, labels []string) {
					centers, density := Distribution(de.sim.Tally.EnergyFraction)
					for i := range centers {
						args = append(args, centers[i])
						values = append(values, []float64{density[i]})
					}
					return args, values, nil
				},
			},
			"Angular distribution": {
				DataItem: DataItem{
					saveFlag:   fs.Bool("ct", false, "save photon cos(theta) distribution"),
					fileSuffix: "ct",
				},
				columnNames: []string{"cos(theta)", "dN/dcos(theta)"},
				values: func(de *DataExtractor) (args []float64, values [][]float64, labels []string) {
					centers, density := Distribution(de.sim.Tally.CosTheta)
					for i := range centers {
						args = append(args, centers[i])
						values = append(values, []float64{density[i]})
					}
					return args, values, nil
				},
			},
			"Draws per event": {
				DataItem: DataItem{
					saveFlag:   fs.Bool("dr", false, "save distribution of random draws per event"),
					fileSuffix: "dr",
				},
				columnNames: []string{"draws", "fraction of events"},
				values: func(de *DataExtractor) (args []float64, values [][]float64, labels []string) {
					draws := de.sim.Tally.Draws
					if len(draws) == 0 {
						return nil, nil, nil
					}
					counts := make([]int, slices.Max(draws)+1)
					for _, d := range draws {
						counts[d]++
					}
					fractions := utils.Normalize(counts, 1.)
					for d := range counts {
						if counts[d] > 0 {
							args = append(args, float64(d))
							values = append(values, []float64{fractions[d]})
						}
					}
					return args, values, nil
				},
			},
			"Cross sections": {
				DataItem: DataItem{
					saveFlag:   fs.Bool("xs", false, "save cross sections and mean free path over kinetic energy"),
					fileSuffix: "xs",
				},
				columnNames: []string{"T ({E})", "lambda ({L})", "Sigma ({L}^-1)", "sigma_e ({L}^2)"},
				values: func(de *DataExtractor) (args []float64, values [][]float64, labels []string) {
					m := de.sim.Model
					var elements []material.Element
					if mat, ok := de.sim.Medium.(*material.Material); ok {
						for _, c := range mat.Components {
							elements = append(elements, c.Element)
							labels = append(labels, "sigma_"+c.Element.Symbol)
						}
					}
					for _, ekin := range utils.LogGrid(tableFrom, tableTo, tablePoints) {
						macroscopic := m.CrossSectionPerVolume(de.sim.Medium, model.Positron, ekin)
						row := []float64{1. / macroscopic, macroscopic, m.CrossSectionPerAtom(model.Positron, ekin, 1.)}
						for _, e := range elements {
							row = append(row, m.CrossSectionPerAtom(model.Positron, ekin, e.Z))
						}
						args = append(args, ekin)
						values = append(values, row)
					}
					return args, values, labels
				},
				xUnit:  energyUnit,
				yUnits: [][]config.UnitElement{lengthUnit, inverseLen, areaUnit},
			},
		},
	}
}

func (df *DataFlags) SetOutputPath(path string) {
	if path != "" && path[len(path)-1] != '/' {
		df.outputPath = path + "/"
	} else {
		df.outputPath = path
	}
}

func (df *DataFlags) GetOutputPath() string {
	return df.outputPath
}
