package prior

import (
	"math"
	"math/rand/v2"

	"gonum.org/v1/gonum/stat/distuv"

	"episbc/domain/epi"
	"episbc/ports"
)

// Joint prior over the epidemic parameters:
//
//	transmission rate  ~ LogNormal(ln 0.4, 0.5)
//	recovery rate      ~ LogNormal(ln 1/8, 0.2)
//	reporting delay    ~ LogNormal(ln 8, 0.2)
//	initial infected   ~ Gamma(shape 2, scale 20)
//	dispersion         ~ Exponential(mean 5)
//
// All components are independent and strictly positive, so a draw never
// needs validation. Delay and initial-infected stay continuous here;
// rounding is the simulator's preprocessing step.

// Sampler draws parameter vectors from the joint prior. Stateless; the
// caller supplies the random stream per draw.
type Sampler struct{}

// NewSampler creates a prior sampler
func NewSampler() *Sampler {
	return &Sampler{}
}

// SampleParameters draws one parameter vector
func (s *Sampler) SampleParameters(rng *rand.Rand) epi.ParameterVector {
	return epi.ParameterVector{
		TransmissionRate: distuv.LogNormal{Mu: math.Log(0.4), Sigma: 0.5, Src: rng}.Rand(),
		RecoveryRate:     distuv.LogNormal{Mu: math.Log(1.0 / 8.0), Sigma: 0.2, Src: rng}.Rand(),
		ReportingDelay:   distuv.LogNormal{Mu: math.Log(8.0), Sigma: 0.2, Src: rng}.Rand(),
		// distuv.Gamma takes a rate; scale 20 is rate 1/20
		InitialInfected: distuv.Gamma{Alpha: 2, Beta: 1.0 / 20.0, Src: rng}.Rand(),
		Dispersion:      distuv.Exponential{Rate: 1.0 / 5.0, Src: rng}.Rand(),
	}
}

// Ensure Sampler implements PriorSampler
var _ ports.PriorSampler = (*Sampler)(nil)
