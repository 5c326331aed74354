package utils

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// ReadFloatPairs reads two whitespace separated numbers per line. Empty lines and lines
// starting with '#' are skipped.
func ReadFloatPairs(filename string) ([][]float64, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("error opening file: %w", err)
	}
	defer file.Close()

	var result [][]float64

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := scanner.Text()
		if strings.HasPrefix(strings.TrimSpace(line), "#") {
			continue
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		if len(parts) != 2 {
			return nil, fmt.Errorf("invalid format in line: %q - expected 2 numbers, got %d", line, len(parts))
		}

		pair := make([]float64, 2)
		for i := range parts {
			pair[i], err = strconv.ParseFloat(parts[i], 64)
			if err != nil {
				return nil, fmt.Errorf("error parsing float in line %q: %w", line, err)
			}
		}
		result = append(result, pair)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading file: %w", err)
	}

	return result, nil
}

// GetFilename strips directories and the extension.
func GetFilename(filePath string) string {
	base := filepath.Base(filePath)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// OpenFile creates <outputPath><fileSuffix>/<runName>.txt when makeDir is set,
// <outputPath><runName>_<fileSuffix>.txt otherwise.
func OpenFile(makeDir bool, outputPath string, fileSuffix, runName string) (*os.File, error) {
	if makeDir && fileSuffix != "" && fileSuffix != "." {
		if err := os.MkdirAll(outputPath+fileSuffix, 0750); err != nil {
			return nil, err
		}
		return os.Create(outputPath + fileSuffix + "/" + runName + ".txt")
	}
	if fileSuffix == "" {
		return os.Create(outputPath + runName + ".txt")
	}
	return os.Create(outputPath + runName + "_" + fileSuffix + ".txt")
}
