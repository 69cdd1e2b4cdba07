package sbc

import (
	"testing"

	"episbc/domain/core"
	"episbc/domain/sbc"
)

// syntheticRanks builds a deterministic rank matrix spread over [0, draws]
func syntheticRanks(scenarios, draws int, names []string) *sbc.RankMatrix {
	ranks := make([][]int, scenarios)
	for m := range ranks {
		row := make([]int, len(names))
		for k := range row {
			row[k] = (m*7 + k*3) % (draws + 1)
		}
		ranks[m] = row
	}
	return &sbc.RankMatrix{
		NumScenarios:   scenarios,
		NumSamples:     draws,
		ParameterNames: names,
		Ranks:          ranks,
	}
}

// TestCurveDifferenceMatchesRaw verifies the difference curve equals the raw
// curve minus the identity line pointwise, confidence bands included.
func TestCurveDifferenceMatchesRaw(t *testing.T) {
	engine := NewEngine(nil)
	rm := syntheticRanks(40, 50, engine.ParameterNames())
	opts := sbc.CurveOptions{Points: 21, Confidence: 0.9}

	raw, err := engine.CurveFromRanks(rm, opts)
	if err != nil {
		t.Fatalf("raw curve failed: %v", err)
	}
	opts.Difference = true
	diff, err := engine.CurveFromRanks(rm, opts)
	if err != nil {
		t.Fatalf("difference curve failed: %v", err)
	}

	if !diff.Difference || raw.Difference {
		t.Fatal("difference flags not carried through")
	}
	for k := range raw.Curves {
		for j, x := range raw.Grid {
			if diff.Grid[j] != x {
				t.Fatalf("grids differ at %d: %v vs %v", j, diff.Grid[j], x)
			}
			if got, want := diff.Curves[k].Values[j], raw.Curves[k].Values[j]-x; got != want {
				t.Errorf("%s values[%d] = %v, want %v", raw.Curves[k].Name, j, got, want)
			}
			if got, want := diff.Curves[k].Lower[j], raw.Curves[k].Lower[j]-x; got != want {
				t.Errorf("%s lower[%d] = %v, want %v", raw.Curves[k].Name, j, got, want)
			}
			if got, want := diff.Curves[k].Upper[j], raw.Curves[k].Upper[j]-x; got != want {
				t.Errorf("%s upper[%d] = %v, want %v", raw.Curves[k].Name, j, got, want)
			}
		}
	}
}

// TestCurveEndpoints pins the curve and band at the grid boundaries and at
// the tie point where a normalized rank equals the grid value.
func TestCurveEndpoints(t *testing.T) {
	ranks := make([][]int, 30)
	for i := range ranks {
		ranks[i] = []int{25}
	}
	rm := &sbc.RankMatrix{
		NumScenarios:   30,
		NumSamples:     50,
		ParameterNames: []string{"theta"},
		Ranks:          ranks,
	}
	curve, err := NewEngine([]string{"theta"}).CurveFromRanks(rm, sbc.CurveOptions{Points: 11})
	if err != nil {
		t.Fatalf("CurveFromRanks failed: %v", err)
	}
	c := curve.Curves[0]

	if c.Values[0] != 0 {
		t.Errorf("value at 0 = %v, want 0", c.Values[0])
	}
	if c.Values[10] != 1 {
		t.Errorf("value at 1 = %v, want 1", c.Values[10])
	}
	if c.Values[4] != 0 {
		t.Errorf("value below the mass = %v, want 0", c.Values[4])
	}
	if c.Values[5] != 1 {
		t.Errorf("value at the tie point = %v, want 1", c.Values[5])
	}
	if c.Lower[0] != 0 || c.Upper[0] != 0 {
		t.Errorf("band at 0 = [%v, %v], want [0, 0]", c.Lower[0], c.Upper[0])
	}
	if c.Lower[10] != 1 || c.Upper[10] != 1 {
		t.Errorf("band at 1 = [%v, %v], want [1, 1]", c.Lower[10], c.Upper[10])
	}
}

// TestCurveBandMonotoneInConfidence checks a higher confidence level widens
// the pointwise band.
func TestCurveBandMonotoneInConfidence(t *testing.T) {
	engine := NewEngine(nil)
	rm := syntheticRanks(200, 99, engine.ParameterNames())

	narrow, err := engine.CurveFromRanks(rm, sbc.CurveOptions{Points: 51, Confidence: 0.8})
	if err != nil {
		t.Fatalf("narrow curve failed: %v", err)
	}
	wide, err := engine.CurveFromRanks(rm, sbc.CurveOptions{Points: 51, Confidence: 0.99})
	if err != nil {
		t.Fatalf("wide curve failed: %v", err)
	}

	widened := false
	for j := range narrow.Grid {
		n, w := narrow.Curves[0], wide.Curves[0]
		if w.Lower[j] > n.Lower[j] || w.Upper[j] < n.Upper[j] {
			t.Errorf("0.99 band narrower than 0.8 band at x=%v", narrow.Grid[j])
		}
		if w.Lower[j] < n.Lower[j] || w.Upper[j] > n.Upper[j] {
			widened = true
		}
	}
	if !widened {
		t.Error("raising confidence never widened the band")
	}
}

// TestCurveSimultaneousBand checks the simultaneous band contains the
// pointwise band at every grid point and is strictly wider somewhere.
func TestCurveSimultaneousBand(t *testing.T) {
	engine := NewEngine(nil)
	rm := syntheticRanks(200, 99, engine.ParameterNames())
	opts := sbc.CurveOptions{Points: 51, Confidence: 0.95}

	pointwise, err := engine.CurveFromRanks(rm, opts)
	if err != nil {
		t.Fatalf("pointwise curve failed: %v", err)
	}
	opts.Simultaneous = true
	simultaneous, err := engine.CurveFromRanks(rm, opts)
	if err != nil {
		t.Fatalf("simultaneous curve failed: %v", err)
	}

	widened := false
	for j := range pointwise.Grid {
		p, s := pointwise.Curves[0], simultaneous.Curves[0]
		if s.Lower[j] > p.Lower[j] || s.Upper[j] < p.Upper[j] {
			t.Errorf("simultaneous band narrower at x=%v", pointwise.Grid[j])
		}
		if s.Lower[j] < p.Lower[j] || s.Upper[j] > p.Upper[j] {
			widened = true
		}
	}
	if !widened {
		t.Error("simultaneous band identical to pointwise band")
	}
}

// TestCurveDefaults verifies zero options fall back to the documented grid
// and confidence defaults.
func TestCurveDefaults(t *testing.T) {
	engine := NewEngine(nil)
	rm := syntheticRanks(10, 9, engine.ParameterNames())

	curve, err := engine.CurveFromRanks(rm, sbc.CurveOptions{})
	if err != nil {
		t.Fatalf("CurveFromRanks failed: %v", err)
	}
	if len(curve.Grid) != sbc.DefaultGridPoints {
		t.Errorf("grid points = %d, want %d", len(curve.Grid), sbc.DefaultGridPoints)
	}
	if curve.Grid[0] != 0 || curve.Grid[len(curve.Grid)-1] != 1 {
		t.Errorf("grid spans [%v, %v], want [0, 1]", curve.Grid[0], curve.Grid[len(curve.Grid)-1])
	}
	if curve.Confidence != sbc.DefaultConfidence {
		t.Errorf("confidence = %v, want %v", curve.Confidence, sbc.DefaultConfidence)
	}
	if curve.Difference || curve.Simultaneous {
		t.Error("default mode flags should be off")
	}
	if len(curve.Curves) != len(engine.ParameterNames()) {
		t.Errorf("curve count = %d, want %d", len(curve.Curves), len(engine.ParameterNames()))
	}
}

// TestCurveValidation checks the curve failure modes, including propagation
// from the ranking step.
func TestCurveValidation(t *testing.T) {
	engine := NewEngine(nil)

	if _, err := engine.CurveFromRanks(nil, sbc.CurveOptions{}); !core.IsInsufficientDataError(err) {
		t.Errorf("nil matrix: got %v", err)
	}
	zeroDraws := &sbc.RankMatrix{
		NumScenarios:   2,
		NumSamples:     0,
		ParameterNames: []string{"theta"},
		Ranks:          [][]int{{0}, {0}},
	}
	if _, err := engine.CurveFromRanks(zeroDraws, sbc.CurveOptions{}); !core.IsDomainError(err) {
		t.Errorf("zero draws: got %v", err)
	}
	if _, err := engine.Curve(nil, nil, sbc.CurveOptions{}); !core.IsInsufficientDataError(err) {
		t.Errorf("empty inputs: got %v", err)
	}
}
