package epi

import (
	"fmt"

	"episbc/domain/core"
)

// ============================================================================
// CANONICAL PARAMETERS
// ============================================================================

// NumParameters is the dimensionality of the epidemic parameter space.
const NumParameters = 5

// ParameterVector holds one draw of the epidemic model parameters.
// Values are kept continuous as drawn; rounding of ReportingDelay and
// InitialInfected is the simulator's job, not the sampler's.
// INVARIANTS:
// - All fields strictly positive
// - Immutable once constructed
type ParameterVector struct {
	TransmissionRate float64 `json:"transmission_rate"` // lambda, new infections per infected per day
	RecoveryRate     float64 `json:"recovery_rate"`     // mu, fraction of infected recovering per day
	ReportingDelay   float64 `json:"reporting_delay"`   // D, days between infection and case report
	InitialInfected  float64 `json:"initial_infected"`  // I0, infected count at day zero
	Dispersion       float64 `json:"dispersion"`        // psi, negative binomial dispersion
}

// ParameterNames returns the canonical field order used by every
// array-shaped consumer (posterior samples, rank matrices, reports).
func ParameterNames() []string {
	return []string{
		"transmission_rate",
		"recovery_rate",
		"reporting_delay",
		"initial_infected",
		"dispersion",
	}
}

// NewParameterVector creates a validated parameter vector
func NewParameterVector(transmissionRate, recoveryRate, reportingDelay, initialInfected, dispersion float64) (ParameterVector, error) {
	p := ParameterVector{
		TransmissionRate: transmissionRate,
		RecoveryRate:     recoveryRate,
		ReportingDelay:   reportingDelay,
		InitialInfected:  initialInfected,
		Dispersion:       dispersion,
	}
	if err := p.Validate(); err != nil {
		return ParameterVector{}, err
	}
	return p, nil
}

// MustNewParameterVector creates a parameter vector (panics on invalid input)
func MustNewParameterVector(transmissionRate, recoveryRate, reportingDelay, initialInfected, dispersion float64) ParameterVector {
	p, err := NewParameterVector(transmissionRate, recoveryRate, reportingDelay, initialInfected, dispersion)
	if err != nil {
		panic(err)
	}
	return p
}

// Validate checks that every parameter lies in the support of its prior
func (p ParameterVector) Validate() error {
	checks := []struct {
		name  string
		value float64
	}{
		{"transmission_rate", p.TransmissionRate},
		{"recovery_rate", p.RecoveryRate},
		{"reporting_delay", p.ReportingDelay},
		{"initial_infected", p.InitialInfected},
		{"dispersion", p.Dispersion},
	}
	for _, c := range checks {
		if !(c.value > 0) {
			return fmt.Errorf("%w: %s got %v", core.ErrNonPositiveParameter, c.name, c.value)
		}
	}
	return nil
}

// Slice returns the vector in canonical field order
func (p ParameterVector) Slice() []float64 {
	return []float64{
		p.TransmissionRate,
		p.RecoveryRate,
		p.ReportingDelay,
		p.InitialInfected,
		p.Dispersion,
	}
}

// ParameterVectorFromSlice rebuilds a vector from canonical field order
func ParameterVectorFromSlice(values []float64) (ParameterVector, error) {
	if len(values) != NumParameters {
		return ParameterVector{}, core.NewShapeMismatchError("parameter vector length", NumParameters, len(values))
	}
	return ParameterVector{
		TransmissionRate: values[0],
		RecoveryRate:     values[1],
		ReportingDelay:   values[2],
		InitialInfected:  values[3],
		Dispersion:       values[4],
	}, nil
}

// ============================================================================
// TRAJECTORIES AND RECORDS
// ============================================================================

// Trajectory is an ordered daily sequence of reported case counts.
// Length always equals the simulation horizon, independent of the delay.
type Trajectory []int64

// Len returns the number of daily observations
func (tr Trajectory) Len() int {
	return len(tr)
}

// SimulationRecord pairs one parameter draw with the trajectory it produced.
// Records share no mutable state; each is owned by its caller.
type SimulationRecord struct {
	Params ParameterVector `json:"parameters"`
	Cases  Trajectory      `json:"cases"`
}

// ============================================================================
// SIMULATION CONTEXT
// ============================================================================

// DefaultEpsilon is the numerical floor added to observation means.
const DefaultEpsilon = 1e-5

// SimContext carries the fixed simulation configuration, validated once at
// construction and immutable afterwards.
type SimContext struct {
	Population float64 `json:"population"` // N, total population size
	Horizon    int     `json:"horizon"`    // T, number of reported days
	Epsilon    float64 `json:"epsilon"`    // numerical floor for observation means
}

// NewSimContext creates a validated simulation context. A zero epsilon
// selects DefaultEpsilon.
func NewSimContext(population float64, horizon int, epsilon float64) (SimContext, error) {
	if !(population > 0) {
		return SimContext{}, fmt.Errorf("%w: got %v", core.ErrInvalidPopulation, population)
	}
	if horizon <= 0 {
		return SimContext{}, fmt.Errorf("%w: got %d", core.ErrInvalidHorizon, horizon)
	}
	if epsilon < 0 {
		return SimContext{}, core.NewDomainError("epsilon", fmt.Sprintf("must be non-negative, got %v", epsilon))
	}
	if epsilon == 0 {
		epsilon = DefaultEpsilon
	}
	return SimContext{Population: population, Horizon: horizon, Epsilon: epsilon}, nil
}

// MustNewSimContext creates a simulation context (panics on invalid input)
func MustNewSimContext(population float64, horizon int, epsilon float64) SimContext {
	ctx, err := NewSimContext(population, horizon, epsilon)
	if err != nil {
		panic(err)
	}
	return ctx
}

// ============================================================================
// BATCH LAYOUT
// ============================================================================

// Batch is the batch-first layout of generated records: one column per
// parameter field plus the case matrix, all of length Size. This is the
// shape contract consumed by external adapters (batch dimension first,
// one entry per field).
type Batch struct {
	ID   core.BatchID `json:"id"`
	Seed uint64       `json:"seed"`
	Size int          `json:"size"`

	TransmissionRate []float64 `json:"transmission_rate"`
	RecoveryRate     []float64 `json:"recovery_rate"`
	ReportingDelay   []float64 `json:"reporting_delay"`
	InitialInfected  []float64 `json:"initial_infected"`
	Dispersion       []float64 `json:"dispersion"`
	Cases            [][]int64 `json:"cases"`
}

// NewBatch allocates a batch for size records
func NewBatch(size int, seed uint64) (*Batch, error) {
	if size < 1 {
		return nil, core.NewDomainError("batch size", fmt.Sprintf("must be >= 1, got %d", size))
	}
	return &Batch{
		ID:               core.BatchID(core.NewID()),
		Seed:             seed,
		Size:             size,
		TransmissionRate: make([]float64, size),
		RecoveryRate:     make([]float64, size),
		ReportingDelay:   make([]float64, size),
		InitialInfected:  make([]float64, size),
		Dispersion:       make([]float64, size),
		Cases:            make([][]int64, size),
	}, nil
}

// Set writes one record into row i
func (b *Batch) Set(i int, rec SimulationRecord) {
	b.TransmissionRate[i] = rec.Params.TransmissionRate
	b.RecoveryRate[i] = rec.Params.RecoveryRate
	b.ReportingDelay[i] = rec.Params.ReportingDelay
	b.InitialInfected[i] = rec.Params.InitialInfected
	b.Dispersion[i] = rec.Params.Dispersion
	b.Cases[i] = rec.Cases
}

// Record reads row i back as a SimulationRecord
func (b *Batch) Record(i int) SimulationRecord {
	return SimulationRecord{
		Params: ParameterVector{
			TransmissionRate: b.TransmissionRate[i],
			RecoveryRate:     b.RecoveryRate[i],
			ReportingDelay:   b.ReportingDelay[i],
			InitialInfected:  b.InitialInfected[i],
			Dispersion:       b.Dispersion[i],
		},
		Cases: b.Cases[i],
	}
}

// Columns maps canonical field names to their batch columns
func (b *Batch) Columns() map[string][]float64 {
	return map[string][]float64{
		"transmission_rate": b.TransmissionRate,
		"recovery_rate":     b.RecoveryRate,
		"reporting_delay":   b.ReportingDelay,
		"initial_infected":  b.InitialInfected,
		"dispersion":        b.Dispersion,
	}
}

// ParameterMatrix returns the Size x NumParameters ground-truth matrix in
// canonical field order, the shape calibration routines consume.
func (b *Batch) ParameterMatrix() [][]float64 {
	m := make([][]float64, b.Size)
	for i := 0; i < b.Size; i++ {
		m[i] = b.Record(i).Params.Slice()
	}
	return m
}
