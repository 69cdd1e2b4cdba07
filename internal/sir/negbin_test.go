package sir

import (
	"math"
	"testing"

	"github.com/montanaflynn/stats"

	"episbc/internal/randx"
)

// TestNegBinRoundTrip tests that the derived (successes, probability)
// parameters recover the mean and the variance mean + mean^2/dispersion
func TestNegBinRoundTrip(t *testing.T) {
	means := []float64{0.5, 1, 10, 1000, 83e6}
	dispersions := []float64{0.1, 1, 5, 50}

	for _, m := range means {
		for _, r := range dispersions {
			nb := NegBin{Mean: m, Dispersion: r}

			pFail := nb.FailureProb()
			if pFail <= 0 || pFail >= 1 {
				t.Fatalf("mean=%v dispersion=%v: failure probability %v outside (0,1)", m, r, pFail)
			}
			if got := nb.SuccessProb() + pFail; math.Abs(got-1) > 1e-12 {
				t.Errorf("mean=%v dispersion=%v: probabilities sum to %v", m, r, got)
			}

			meanBack := nb.ImpliedMean()
			if relDiff(meanBack, m) > 1e-9 {
				t.Errorf("mean=%v dispersion=%v: recovered mean %v", m, r, meanBack)
			}

			varBack := r * pFail / ((1 - pFail) * (1 - pFail))
			wantVar := m + m*m/r
			if relDiff(varBack, wantVar) > 1e-9 {
				t.Errorf("mean=%v dispersion=%v: recovered variance %v, want %v", m, r, varBack, wantVar)
			}
		}
	}
}

// TestNegBinMoments tests sampled mean and variance against closed form
func TestNegBinMoments(t *testing.T) {
	const draws = 20000

	nb := NegBin{Mean: 10, Dispersion: 5}
	rng := randx.New(42).Stream("negbin", 0)

	sample := make([]float64, draws)
	for i := 0; i < draws; i++ {
		count := nb.Rand(rng)
		if count < 0 {
			t.Fatalf("Draw %d negative: %d", i, count)
		}
		sample[i] = float64(count)
	}

	mean, err := stats.Mean(sample)
	if err != nil {
		t.Fatalf("mean: %v", err)
	}
	if math.Abs(mean-10) > 0.3 {
		t.Errorf("Sample mean %v, want 10 +/- 0.3", mean)
	}

	variance, err := stats.SampleVariance(sample)
	if err != nil {
		t.Fatalf("variance: %v", err)
	}
	if math.Abs(variance-30) > 3 {
		t.Errorf("Sample variance %v, want 30 +/- 3", variance)
	}
}

// TestNegBinDeterminism tests that the same stream replays the same counts
func TestNegBinDeterminism(t *testing.T) {
	nb := NegBin{Mean: 25, Dispersion: 2}

	a := randx.New(7).Stream("negbin", 1)
	b := randx.New(7).Stream("negbin", 1)
	for i := 0; i < 50; i++ {
		va, vb := nb.Rand(a), nb.Rand(b)
		if va != vb {
			t.Fatalf("Draw %d diverged: %d vs %d", i, va, vb)
		}
	}
}

func relDiff(got, want float64) float64 {
	if want == 0 {
		return math.Abs(got)
	}
	return math.Abs(got-want) / math.Abs(want)
}
