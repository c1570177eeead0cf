package schedule

import (
	"fmt"
	"sort"
)

// Schedule is a piecewise-constant-in-time parameter: N period values
// separated by N-1 ascending time delimiters. Queries before the first
// delimiter return the first value, queries at or beyond the last
// delimiter return the last value.
type Schedule struct {
	Values []float64
	Delims []float64
}

// New validates the value/delimiter counts and ordering. A single value
// with no delimiters is the degenerate constant schedule.
func New(values, delims []float64) (*Schedule, error) {
	if len(values) == 0 {
		return nil, fmt.Errorf("schedule: no period values given")
	}
	if len(delims) != len(values)-1 {
		return nil, fmt.Errorf("schedule: %d values require %d time delimiters, got %d",
			len(values), len(values)-1, len(delims))
	}
	if !sort.Float64sAreSorted(delims) {
		return nil, fmt.Errorf("schedule: time delimiters must be ascending")
	}
	return &Schedule{Values: values, Delims: delims}, nil
}

// Constant wraps a single value as a one-period schedule.
func Constant(value float64) *Schedule {
	return &Schedule{Values: []float64{value}}
}

// Value returns the value of the period containing time t.
func (s *Schedule) Value(t float64) float64 {
	var (
		jj int
	)
	for jj = 0; jj < len(s.Delims); jj++ {
		if t < s.Delims[jj] {
			break
		}
	}
	return s.Values[jj]
}
