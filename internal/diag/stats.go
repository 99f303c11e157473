// Package diag provides solve diagnostics as observer collaborators. The
// projection core calls them with copies of each solve result; nothing in
// this package is required for solving.
package diag

import (
	"time"

	"gonum.org/v1/gonum/stat"

	"github.com/hanrud/windproj/internal/pressure"
)

// SolveRecord captures the diagnostics of one solve call.
type SolveRecord struct {
	DivBefore  float64
	DivAfter   float64
	Iterations int
	Elapsed    time.Duration
}

// Stats accumulates per-solve divergence norms and solver effort.
type Stats struct {
	records []SolveRecord
}

func NewStats() *Stats {
	return &Stats{records: make([]SolveRecord, 0)}
}

// AfterSolve implements pressure.Observer.
func (s *Stats) AfterSolve(r *pressure.Result) {
	s.records = append(s.records, SolveRecord{
		DivBefore:  r.DivBefore,
		DivAfter:   r.DivAfter,
		Iterations: r.Iterations,
		Elapsed:    r.Elapsed,
	})
}

// Count returns the number of solves observed.
func (s *Stats) Count() int {
	return len(s.records)
}

// Records returns the accumulated solve records.
func (s *Stats) Records() []SolveRecord {
	return s.records
}

// Last returns the most recent record, or a zero record before any solve.
func (s *Stats) Last() SolveRecord {
	if len(s.records) == 0 {
		return SolveRecord{}
	}
	return s.records[len(s.records)-1]
}

// MeanReduction returns the mean ratio of corrected to predictor
// divergence norms across all solves; values below 1 indicate the
// projection improves mass conservation.
func (s *Stats) MeanReduction() float64 {
	if len(s.records) == 0 {
		return 0
	}
	ratios := make([]float64, 0, len(s.records))
	for _, r := range s.records {
		if r.DivBefore > 0 {
			ratios = append(ratios, r.DivAfter/r.DivBefore)
		}
	}
	if len(ratios) == 0 {
		return 0
	}
	return stat.Mean(ratios, nil)
}

// Reset discards the accumulated records.
func (s *Stats) Reset() {
	s.records = s.records[:0]
}
