// Package stats accumulates values and reports the summary statistics used
// throughout the analysis (confidence distributions, promiscuity, similarity
// scores).
package stats

import (
	"fmt"
	"slices"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// DescriptiveStatistics is a growable sample. The zero value is empty and ready
// to use. Summary methods panic on an empty sample: asking for the mean of
// nothing is a programming error, not an input error.
type DescriptiveStatistics struct {
	values []float64
}

func New(values ...float64) *DescriptiveStatistics {
	s := &DescriptiveStatistics{}
	for _, v := range values {
		s.AddValue(v)
	}
	return s
}

func (s *DescriptiveStatistics) AddValue(v float64) {
	s.values = append(s.values, v)
}

func (s *DescriptiveStatistics) N() int {
	return len(s.values)
}

// Values returns a copy of the sample in insertion order.
func (s *DescriptiveStatistics) Values() []float64 {
	return slices.Clone(s.values)
}

func (s *DescriptiveStatistics) Sum() float64 {
	return floats.Sum(s.values)
}

func (s *DescriptiveStatistics) Min() float64 {
	s.mustHaveValues("min")
	return floats.Min(s.values)
}

func (s *DescriptiveStatistics) Max() float64 {
	s.mustHaveValues("max")
	return floats.Max(s.values)
}

func (s *DescriptiveStatistics) Mean() float64 {
	s.mustHaveValues("mean")
	return stat.Mean(s.values, nil)
}

// Median averages the two central values for an even sample size.
func (s *DescriptiveStatistics) Median() float64 {
	s.mustHaveValues("median")
	sorted := slices.Clone(s.values)
	slices.Sort(sorted)
	mid := len(sorted) / 2
	if len(sorted)%2 == 1 {
		return sorted[mid]
	}
	return (sorted[mid-1] + sorted[mid]) / 2
}

// SampleStandardDeviation uses the n-1 denominator and is 0 for a single value.
func (s *DescriptiveStatistics) SampleStandardDeviation() float64 {
	s.mustHaveValues("sample standard deviation")
	if len(s.values) < 2 {
		return 0
	}
	return stat.StdDev(s.values, nil)
}

func (s *DescriptiveStatistics) PopulationStandardDeviation() float64 {
	s.mustHaveValues("population standard deviation")
	return stat.PopStdDev(s.values, nil)
}

func (s *DescriptiveStatistics) String() string {
	if s.N() == 0 {
		return "n=0"
	}
	return fmt.Sprintf("n=%d min=%g max=%g mean=%g median=%g sd=%g",
		s.N(), s.Min(), s.Max(), s.Mean(), s.Median(), s.SampleStandardDeviation())
}

func (s *DescriptiveStatistics) mustHaveValues(what string) {
	if len(s.values) == 0 {
		panic(fmt.Sprintf("stats: %s of empty descriptive statistics", what))
	}
}
