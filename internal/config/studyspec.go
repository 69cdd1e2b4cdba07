package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"episbc/domain/sbc"
	"episbc/internal/errors"
	"episbc/internal/generative"
)

// StudySpec is the YAML description of one SBC study run. Zero values fall
// back to the study defaults; a zero seed selects seed 1.
type StudySpec struct {
	Name         string  `yaml:"name"`
	Seed         uint64  `yaml:"seed"`
	Scenarios    int     `yaml:"scenarios"`
	Draws        int     `yaml:"draws"`
	Population   float64 `yaml:"population"`
	Horizon      int     `yaml:"horizon"`
	Epsilon      float64 `yaml:"epsilon"`
	NumBins      int     `yaml:"num_bins"`
	GridPoints   int     `yaml:"grid_points"`
	Confidence   float64 `yaml:"confidence"`
	Simultaneous bool    `yaml:"simultaneous"`
	Estimator    string  `yaml:"estimator"`
	Workers      int     `yaml:"workers"`
	Report       string  `yaml:"report"`
	Save         bool    `yaml:"save"`
}

// LoadStudySpec reads and validates a YAML study spec file
func LoadStudySpec(path string) (*StudySpec, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, fmt.Sprintf("failed to read study spec %s", path))
	}
	return ParseStudySpec(data)
}

// ParseStudySpec parses YAML bytes into a validated study spec
func ParseStudySpec(data []byte) (*StudySpec, error) {
	spec := &StudySpec{}
	if err := yaml.Unmarshal(data, spec); err != nil {
		return nil, errors.Wrap(err, "failed to parse study spec")
	}
	spec.applyDefaults()
	if err := spec.validate(); err != nil {
		return nil, err
	}
	return spec, nil
}

func (s *StudySpec) applyDefaults() {
	if s.Seed == 0 {
		s.Seed = 1
	}
	if s.Scenarios == 0 {
		s.Scenarios = 1000
	}
	if s.Draws == 0 {
		s.Draws = 99
	}
	if s.Population == 0 {
		s.Population = 83e6
	}
	if s.Horizon == 0 {
		s.Horizon = 14
	}
	if s.NumBins == 0 {
		s.NumBins = sbc.DefaultNumBins
	}
	if s.GridPoints == 0 {
		s.GridPoints = sbc.DefaultGridPoints
	}
	if s.Confidence == 0 {
		s.Confidence = sbc.DefaultConfidence
	}
	if s.Estimator == "" {
		s.Estimator = string(sbc.EstimatorMean)
	}
	if s.Workers == 0 {
		s.Workers = generative.DefaultWorkers
	}
}

func (s *StudySpec) validate() error {
	if s.Scenarios < 1 {
		return errors.ConfigInvalid("scenarios must be >= 1")
	}
	if s.Draws < 1 {
		return errors.ConfigInvalid("draws must be >= 1")
	}
	if s.Population <= 0 {
		return errors.ConfigInvalid("population must be positive")
	}
	if s.Horizon < 1 {
		return errors.ConfigInvalid("horizon must be >= 1")
	}
	if s.Epsilon < 0 {
		return errors.ConfigInvalid("epsilon must be >= 0")
	}
	if s.NumBins < 1 {
		return errors.ConfigInvalid("num_bins must be >= 1")
	}
	if s.GridPoints < 2 {
		return errors.ConfigInvalid("grid_points must be >= 2")
	}
	if s.Confidence <= 0 || s.Confidence >= 1 {
		return errors.ConfigInvalid("confidence must be in (0, 1)")
	}
	switch sbc.PointEstimator(s.Estimator) {
	case sbc.EstimatorMean, sbc.EstimatorMedian:
	default:
		return errors.ConfigInvalid(fmt.Sprintf("unknown estimator %q", s.Estimator))
	}
	if s.Workers < 1 {
		return errors.ConfigInvalid("workers must be >= 1")
	}
	return nil
}
