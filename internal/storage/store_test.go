package storage

import (
	"testing"
	"time"
)

func sampleReport() *Report {
	return &Report{
		Predictor:        "gauss",
		Shape:            [3]int{16, 16, 16},
		Spacing:          [3]float64{10, 10, 10},
		A:                1,
		Tol:              1e-8,
		Iterations:       42,
		DivBefore:        0.8,
		DivAfter:         0.05,
		ElapsedMS:        12.5,
		CenterlineBefore: []float64{0.1, 0.5, 0.1},
		CenterlineAfter:  []float64{0.01, 0.05, 0.01},
	}
}

func TestSaveLoadRoundtrip(t *testing.T) {
	st := New(t.TempDir())
	if err := st.Init(); err != nil {
		t.Fatalf("init: %v", err)
	}

	id, err := st.Save(sampleReport())
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if id == "" {
		t.Fatal("expected generated id")
	}

	got, err := st.Load(id)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got.Predictor != "gauss" || got.Iterations != 42 {
		t.Errorf("report roundtrip mismatch: %+v", got)
	}
	if len(got.CenterlineBefore) != 3 {
		t.Errorf("centerline lost in roundtrip")
	}
}

func TestListOrdersByTime(t *testing.T) {
	st := New(t.TempDir())

	r1 := sampleReport()
	r1.ID = "first"
	r1.Timestamp = time.Now().Add(-time.Hour)
	r2 := sampleReport()
	r2.ID = "second"
	r2.Timestamp = time.Now()

	if _, err := st.Save(r2); err != nil {
		t.Fatal(err)
	}
	if _, err := st.Save(r1); err != nil {
		t.Fatal(err)
	}

	reports, err := st.List()
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(reports) != 2 {
		t.Fatalf("expected 2 reports, got %d", len(reports))
	}
	if reports[0].ID != "first" || reports[1].ID != "second" {
		t.Errorf("wrong order: %s, %s", reports[0].ID, reports[1].ID)
	}
}

func TestListMissingDir(t *testing.T) {
	st := New("/nonexistent/windproj-test")

	reports, err := st.List()
	if err != nil {
		t.Fatalf("missing dir should not error: %v", err)
	}
	if len(reports) != 0 {
		t.Error("expected no reports")
	}
}

func TestLoadUnknownID(t *testing.T) {
	st := New(t.TempDir())
	if _, err := st.Load("nope"); err == nil {
		t.Error("expected error for unknown id")
	}
}
