package utils

import (
	"encoding/csv"
	"fmt"
	"sort"

	"github.com/facette/natsort"
)

// CSV rows sort naturally by their first column, so run_l2 precedes run_l10.
type CSV [][]string

func (data CSV) Less(i, j int) bool {
	return natsort.Compare(data[i][0], data[j][0])
}

func (data CSV) Len() int {
	return len(data)
}
func (data CSV) Swap(i, j int) {
	data[i], data[j] = data[j], data[i]
}

func WriteAsCSV(data CSV, path, subpath, filename string, columns []string) error {
	file, err := OpenFile(subpath != "", path, subpath, GetFilename(filename))
	if err != nil {
		return fmt.Errorf("open %s: %w", filename, err)
	}
	defer file.Close()

	w := csv.NewWriter(file)
	if err := w.Write(columns); err != nil {
		return fmt.Errorf("write %s: %w", filename, err)
	}
	sort.Sort(data)
	if err := w.WriteAll(data); err != nil {
		return fmt.Errorf("write %s: %w", filename, err)
	}
	return nil
}
