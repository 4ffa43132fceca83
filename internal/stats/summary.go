package stats

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Summary holds the five scalar statistics reported for every channel.
type Summary struct {
	Mean   float64 `json:"mean"`
	Std    float64 `json:"std"`
	Median float64 `json:"median"`
	Max    float64 `json:"max"`
	Min    float64 `json:"min"`
}

// Summarize computes a Summary of values. Std is the population standard
// deviation and Median averages the two middle values when len(values) is
// even. An empty slice yields the zero Summary.
func Summarize(values []float64) Summary {
	if len(values) == 0 {
		return Summary{}
	}
	mean, std := MeanStd(values)
	return Summary{
		Mean:   mean,
		Std:    std,
		Median: median(values),
		Max:    floats.Max(values),
		Min:    floats.Min(values),
	}
}

// MeanStd returns the mean and population standard deviation of values,
// or zeros for an empty slice.
func MeanStd(values []float64) (mean, std float64) {
	if len(values) == 0 {
		return 0, 0
	}
	mean, variance := stat.PopMeanVariance(values, nil)
	return mean, math.Sqrt(variance)
}

func median(values []float64) float64 {
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)
	n := len(sorted)
	if n%2 == 1 {
		return sorted[n/2]
	}
	return (sorted[n/2-1] + sorted[n/2]) / 2
}

// channelNames labels the planes of a buffer of the given kind.
func channelNames(channels int, kind string) []string {
	if channels == 3 {
		return []string{"B", "G", "R"}
	}
	return []string{kind}
}
