package epi

import (
	"testing"

	"episbc/domain/core"
)

// TestNewParameterVectorValidation tests strict positivity of every field
func TestNewParameterVectorValidation(t *testing.T) {
	if _, err := NewParameterVector(0.4, 0.125, 8, 50, 5); err != nil {
		t.Fatalf("Valid parameters rejected: %v", err)
	}

	tests := []struct {
		name   string
		values [5]float64
	}{
		{"zero transmission rate", [5]float64{0, 0.125, 8, 50, 5}},
		{"negative recovery rate", [5]float64{0.4, -0.1, 8, 50, 5}},
		{"zero delay", [5]float64{0.4, 0.125, 0, 50, 5}},
		{"zero initial infected", [5]float64{0.4, 0.125, 8, 0, 5}},
		{"zero dispersion", [5]float64{0.4, 0.125, 8, 50, 0}},
	}

	for _, test := range tests {
		_, err := NewParameterVector(test.values[0], test.values[1], test.values[2], test.values[3], test.values[4])
		if err == nil {
			t.Errorf("%s: expected domain error, got none", test.name)
			continue
		}
		if !core.IsDomainError(err) {
			t.Errorf("%s: expected domain error, got %v", test.name, err)
		}
	}
}

// TestParameterVectorSliceRoundTrip tests canonical order of Slice/FromSlice
func TestParameterVectorSliceRoundTrip(t *testing.T) {
	p := MustNewParameterVector(0.4, 0.125, 8, 50, 5)

	s := p.Slice()
	if len(s) != NumParameters {
		t.Fatalf("Expected slice length %d, got %d", NumParameters, len(s))
	}
	if len(ParameterNames()) != NumParameters {
		t.Fatalf("Expected %d parameter names, got %d", NumParameters, len(ParameterNames()))
	}

	back, err := ParameterVectorFromSlice(s)
	if err != nil {
		t.Fatalf("FromSlice failed: %v", err)
	}
	if back != p {
		t.Errorf("Round trip changed vector: %+v vs %+v", back, p)
	}

	if _, err := ParameterVectorFromSlice([]float64{1, 2, 3}); !core.IsShapeMismatchError(err) {
		t.Errorf("Expected shape mismatch for short slice, got %v", err)
	}
}

// TestNewSimContextValidation tests context validation and epsilon default
func TestNewSimContextValidation(t *testing.T) {
	ctx, err := NewSimContext(83e6, 14, 0)
	if err != nil {
		t.Fatalf("Valid context rejected: %v", err)
	}
	if ctx.Epsilon != DefaultEpsilon {
		t.Errorf("Expected default epsilon %v, got %v", DefaultEpsilon, ctx.Epsilon)
	}

	if _, err := NewSimContext(-1, 14, 0); !core.IsDomainError(err) {
		t.Errorf("Expected domain error for negative population, got %v", err)
	}
	if _, err := NewSimContext(0, 14, 0); !core.IsDomainError(err) {
		t.Errorf("Expected domain error for zero population, got %v", err)
	}
	if _, err := NewSimContext(83e6, -14, 0); !core.IsDomainError(err) {
		t.Errorf("Expected domain error for negative horizon, got %v", err)
	}
	if _, err := NewSimContext(83e6, 14, -1e-5); !core.IsDomainError(err) {
		t.Errorf("Expected domain error for negative epsilon, got %v", err)
	}
}

// TestBatchLayout tests the batch-first shape contract
func TestBatchLayout(t *testing.T) {
	b, err := NewBatch(3, 42)
	if err != nil {
		t.Fatalf("NewBatch failed: %v", err)
	}

	for i := 0; i < 3; i++ {
		rec := SimulationRecord{
			Params: MustNewParameterVector(0.4+float64(i), 0.125, 8, 50, 5),
			Cases:  Trajectory{int64(i), int64(i + 1)},
		}
		b.Set(i, rec)
	}

	if got := b.Record(1).Params.TransmissionRate; got != 1.4 {
		t.Errorf("Expected row 1 transmission rate 1.4, got %v", got)
	}
	if got := b.Record(2).Cases.Len(); got != 2 {
		t.Errorf("Expected row 2 trajectory length 2, got %d", got)
	}

	cols := b.Columns()
	for _, name := range ParameterNames() {
		col, ok := cols[name]
		if !ok {
			t.Fatalf("Missing column %q", name)
		}
		if len(col) != b.Size {
			t.Errorf("Column %q length %d, want %d", name, len(col), b.Size)
		}
	}

	matrix := b.ParameterMatrix()
	if len(matrix) != 3 || len(matrix[0]) != NumParameters {
		t.Fatalf("Expected 3x%d matrix, got %dx%d", NumParameters, len(matrix), len(matrix[0]))
	}
	if matrix[2][0] != 2.4 {
		t.Errorf("Expected matrix[2][0] = 2.4, got %v", matrix[2][0])
	}

	if _, err := NewBatch(0, 42); !core.IsDomainError(err) {
		t.Errorf("Expected domain error for empty batch, got %v", err)
	}
}
