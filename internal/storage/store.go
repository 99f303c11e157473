// Package storage persists solve reports for the CLI: one JSON document
// per solve under a data directory, addressable by run id.
package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"
)

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

// Report summarizes one projection solve.
type Report struct {
	ID        string    `json:"id"`
	Timestamp time.Time `json:"timestamp"`

	Predictor string     `json:"predictor"`
	Shape     [3]int     `json:"shape"`
	Spacing   [3]float64 `json:"spacing"`

	A   float64 `json:"a"`
	Tol float64 `json:"tol"`

	Iterations int     `json:"iterations"`
	DivBefore  float64 `json:"div_before"`
	DivAfter   float64 `json:"div_after"`
	ElapsedMS  float64 `json:"elapsed_ms"`

	// centerline |divergence| along x before and after correction,
	// sampled at the domain center in y and z
	CenterlineBefore []float64 `json:"centerline_before"`
	CenterlineAfter  []float64 `json:"centerline_after"`
}

// Save writes the report and returns its generated id.
func (s *Store) Save(r *Report) (string, error) {
	if r.ID == "" {
		r.ID = fmt.Sprintf("%s_%d", r.Predictor, time.Now().Unix())
	}
	if r.Timestamp.IsZero() {
		r.Timestamp = time.Now()
	}

	runDir := filepath.Join(s.baseDir, r.ID)
	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	f, err := os.Create(filepath.Join(runDir, "report.json"))
	if err != nil {
		return "", err
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(r); err != nil {
		return "", err
	}
	return r.ID, nil
}

// List returns all stored reports, oldest first.
func (s *Store) List() ([]Report, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []Report{}, nil
		}
		return nil, err
	}

	reports := make([]Report, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		data, err := os.ReadFile(filepath.Join(s.baseDir, entry.Name(), "report.json"))
		if err != nil {
			continue
		}
		var r Report
		if err := json.Unmarshal(data, &r); err != nil {
			continue
		}
		reports = append(reports, r)
	}

	sort.Slice(reports, func(i, j int) bool {
		return reports[i].Timestamp.Before(reports[j].Timestamp)
	})
	return reports, nil
}

// Load reads one report by id.
func (s *Store) Load(id string) (*Report, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, id, "report.json"))
	if err != nil {
		return nil, err
	}
	var r Report
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, err
	}
	return &r, nil
}

// ExportJSON writes the report to stdout.
func ExportJSON(r *Report) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(r)
}
