package utils

import (
	"cmp"
	"math"
	"slices"

	"golang.org/x/exp/constraints"
)

func Argmax[T cmp.Ordered](arr []T) (argmax int) {
	for i := range arr {
		if cmp.Compare(arr[i], arr[argmax]) == 1 {
			argmax = i
		}
	}
	return
}

type Number interface {
	constraints.Float | constraints.Integer
}

func SumSlice[T Number](arr []T) (r T) {
	for i := range arr {
		r += arr[i]
	}
	return
}

func Average[T Number](s []T) (mean float64) {
	for i := range s {
		mean += float64(s[i])
	}
	mean /= float64(len(s))
	return
}

func MeanAndVariance[T Number](s []T, unbiased bool) (mean, variance float64) {
	mean = Average(s)
	for i := range s {
		variance += (float64(s[i]) - mean) * (float64(s[i]) - mean)
	}
	if unbiased {
		variance /= float64(len(s) - 1)
	} else {
		variance /= float64(len(s))
	}

	return
}

func Variance[T Number](s []T, unbiased bool) float64 {
	_, v := MeanAndVariance(s, unbiased)
	return v
}

func IntAbs(a int) int {
	if a < 0 {
		return -a
	} else {
		return a
	}

}

// Normalize scales histogram counts into a probability density over bins of width step.
func Normalize[T Number](counts []T, step float64) []float64 {
	density := make([]float64, len(counts))
	total := float64(SumSlice(counts))
	if total == 0 {
		return density
	}
	for i := range counts {
		density[i] = float64(counts[i]) / (total * step)
	}
	return density
}

// LogGrid returns n+1 points spaced evenly in log between from and to.
func LogGrid(from, to float64, n int) []float64 {
	grid := make([]float64, n+1)
	step := math.Log(to/from) / float64(n)
	for i := range grid {
		grid[i] = from * math.Exp(step*float64(i))
	}
	return grid
}

func Intersect(a, b []string) *string {
	for i := range a {
		if slices.Contains(b, a[i]) {
			return &a[i]
		}
	}
	return nil
}
