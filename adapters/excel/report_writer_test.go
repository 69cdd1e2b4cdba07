package excel

import (
	"path/filepath"
	"testing"

	"github.com/xuri/excelize/v2"

	"episbc/domain/sbc"
	engine "episbc/internal/sbc"
)

func buildTestReport(t *testing.T) *sbc.StudyReport {
	t.Helper()
	eng := engine.NewEngine([]string{"alpha", "beta"})

	samples := make([][][]float64, 4)
	truths := make([][]float64, 4)
	for m := range samples {
		base := float64(m)
		samples[m] = [][]float64{
			{base, base + 1},
			{base + 1, base + 2},
			{base + 2, base + 3},
		}
		truths[m] = []float64{base + 0.5, base + 1.5}
	}

	ranks, err := eng.Ranks(samples, truths)
	if err != nil {
		t.Fatalf("building ranks: %v", err)
	}
	hist, err := eng.Histogram(ranks, 2)
	if err != nil {
		t.Fatalf("building histogram: %v", err)
	}
	curves, err := eng.Curve(samples, truths, sbc.CurveOptions{Points: 5})
	if err != nil {
		t.Fatalf("building curves: %v", err)
	}
	diff, err := eng.Curve(samples, truths, sbc.CurveOptions{Points: 5, Difference: true})
	if err != nil {
		t.Fatalf("building difference curves: %v", err)
	}
	recovery, err := eng.Recovery(samples, truths, sbc.EstimatorMean)
	if err != nil {
		t.Fatalf("building recovery: %v", err)
	}
	uniformity, err := eng.Uniformity(ranks, 2)
	if err != nil {
		t.Fatalf("building uniformity: %v", err)
	}

	return &sbc.StudyReport{
		Manifest:         sbc.NewStudyManifest(9, 4, 3, 1000, 14, 1e-5, 2, 5, 0.95, sbc.EstimatorMean, "test"),
		Ranks:            ranks,
		Histogram:        hist,
		Curves:           curves,
		DifferenceCurves: diff,
		Recovery:         recovery,
		Uniformity:       uniformity,
		RuntimeMs:        5,
	}
}

// TestWriteStudyWorkbook writes a full report and reads the workbook back.
func TestWriteStudyWorkbook(t *testing.T) {
	report := buildTestReport(t)
	path := filepath.Join(t.TempDir(), "study.xlsx")

	if err := NewReportWriter().WriteStudy(report, path); err != nil {
		t.Fatalf("WriteStudy failed: %v", err)
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		t.Fatalf("reopening workbook: %v", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	for _, name := range []string{"Summary", "Ranks", "Histogram", "Curves", "DifferenceCurves"} {
		found := false
		for _, s := range sheets {
			if s == name {
				found = true
			}
		}
		if !found {
			t.Errorf("sheet %s missing from %v", name, sheets)
		}
	}

	if got, err := f.GetCellValue("Summary", "A1"); err != nil || got != "Study ID" {
		t.Errorf("Summary A1 = %q (%v), want Study ID", got, err)
	}
	if got, err := f.GetCellValue("Ranks", "B1"); err != nil || got != "alpha" {
		t.Errorf("Ranks B1 = %q (%v), want alpha", got, err)
	}
	// scenario 0: draws 0,1,2 against truth 0.5 ranks exactly one draw below
	if got, err := f.GetCellValue("Ranks", "B2"); err != nil || got != "1" {
		t.Errorf("Ranks B2 = %q (%v), want 1", got, err)
	}
	if got, err := f.GetCellValue("Curves", "A2"); err != nil || got != "0" {
		t.Errorf("Curves A2 = %q (%v), want 0", got, err)
	}
}

// TestWriteStudyNilReport verifies the writer rejects a nil report.
func TestWriteStudyNilReport(t *testing.T) {
	if err := NewReportWriter().WriteStudy(nil, "unused.xlsx"); err == nil {
		t.Fatal("expected error for nil report")
	}
}
