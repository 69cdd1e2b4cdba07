package sir

import (
	"math"
	"math/rand/v2"

	"episbc/domain/epi"
	"episbc/ports"
)

// Simulator runs the discrete-time SIR recursion with a reporting delay
// window and a negative binomial observation layer. The deterministic
// dynamics and the stochastic observation model are separate stages:
// Compartments is pure, Simulate adds the count noise.
type Simulator struct {
	ctx epi.SimContext
}

// NewSimulator creates a simulator over a validated context. A zero
// epsilon in the supplied context selects the default floor.
func NewSimulator(ctx epi.SimContext) (*Simulator, error) {
	checked, err := epi.NewSimContext(ctx.Population, ctx.Horizon, ctx.Epsilon)
	if err != nil {
		return nil, err
	}
	return &Simulator{ctx: checked}, nil
}

// MustNewSimulator creates a simulator (panics on invalid context)
func MustNewSimulator(ctx epi.SimContext) *Simulator {
	sim, err := NewSimulator(ctx)
	if err != nil {
		panic(err)
	}
	return sim
}

// Context returns the simulation context in effect
func (s *Simulator) Context() epi.SimContext {
	return s.ctx
}

// CompartmentPath is the latent output of the deterministic recursion:
// the susceptible/infected/recovered series and the recorded new-infection
// flow, all of length Horizon+Delay. Flow index 0 is the synthetic initial
// report equal to the rounded initial infected count.
type CompartmentPath struct {
	Susceptible   []float64
	Infected      []float64
	Recovered     []float64
	NewInfections []float64
	Delay         int // reporting delay after rounding, in steps
}

// Window returns the reported slice of the new-infection flow: indices
// [Delay, Delay+Horizon), exactly Horizon values for any delay.
func (p *CompartmentPath) Window(horizon int) []float64 {
	return p.NewInfections[p.Delay : p.Delay+horizon]
}

// preprocess validates the draw and applies the integer rounding rules:
// initial infected rounds up, the reporting delay rounds half to even.
func (s *Simulator) preprocess(params epi.ParameterVector) (delay int, initial float64, err error) {
	if err := params.Validate(); err != nil {
		return 0, 0, err
	}
	delay = int(math.RoundToEven(params.ReportingDelay))
	initial = math.Ceil(params.InitialInfected)
	return delay, initial, nil
}

// Compartments runs the deterministic recursion for one parameter draw.
// S is updated by the raw flow; I and R are clipped into [0, N] at every
// recorded step, so the S+I+R=N identity only holds while clipping is
// inactive.
func (s *Simulator) Compartments(params epi.ParameterVector) (*CompartmentPath, error) {
	delay, initial, err := s.preprocess(params)
	if err != nil {
		return nil, err
	}

	n := s.ctx.Population
	steps := s.ctx.Horizon + delay

	path := &CompartmentPath{
		Susceptible:   make([]float64, steps),
		Infected:      make([]float64, steps),
		Recovered:     make([]float64, steps),
		NewInfections: make([]float64, steps),
		Delay:         delay,
	}

	path.Susceptible[0] = n - initial
	path.Infected[0] = clip(initial, 0, n)
	path.Recovered[0] = 0
	path.NewInfections[0] = initial

	lambda := params.TransmissionRate
	mu := params.RecoveryRate
	for t := 1; t < steps; t++ {
		inew := lambda * path.Infected[t-1] * path.Susceptible[t-1] / n
		recovering := mu * path.Infected[t-1]

		path.Susceptible[t] = path.Susceptible[t-1] - inew
		path.Infected[t] = clip(path.Infected[t-1]+inew-recovering, 0, n)
		path.Recovered[t] = clip(path.Recovered[t-1]+recovering, 0, n)
		path.NewInfections[t] = inew
	}

	return path, nil
}

// Simulate runs the recursion and draws the observed trajectory: each
// windowed flow value becomes the mean of one negative binomial count.
func (s *Simulator) Simulate(params epi.ParameterVector, rng *rand.Rand) (epi.Trajectory, error) {
	path, err := s.Compartments(params)
	if err != nil {
		return nil, err
	}

	window := path.Window(s.ctx.Horizon)
	trajectory := make(epi.Trajectory, len(window))
	for i, flow := range window {
		nb := NegBin{
			Mean:       clip(flow, 0, s.ctx.Population) + s.ctx.Epsilon,
			Dispersion: params.Dispersion,
		}
		trajectory[i] = nb.Rand(rng)
	}
	return trajectory, nil
}

func clip(x, lo, hi float64) float64 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}

// Ensure Simulator implements TrajectorySimulator
var _ ports.TrajectorySimulator = (*Simulator)(nil)
