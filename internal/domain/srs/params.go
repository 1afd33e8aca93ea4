package srs

import (
	"github.com/mbecker/studycoach-api/internal/domain"
)

// Params defines all configurable parameters for the spaced-repetition
// algorithm and answer scoring.
type Params struct {
	// Core limits
	MinEaseFactor float64

	// Numeric grade assigned to each review quality, on the classic
	// SM-2 0-5 scale restricted to the range a pass/fail/partial UI
	// can express.
	QualityGrade map[domain.ReviewQuality]int

	// Fixed intervals for the first two successful repetitions
	FirstInterval  int
	SecondInterval int

	// Answer scoring thresholds on token overlap
	PassThreshold    float64
	PartialThreshold float64

	// Due-item selection
	DefaultDueLimit int
}

// ParamsConfig allows overriding the default parameters when creating a new Params instance
type ParamsConfig struct {
	MinEaseFactor float64

	FailGrade    int
	PartialGrade int
	PassGrade    int

	FirstInterval  int
	SecondInterval int

	PassThreshold    float64
	PartialThreshold float64

	DefaultDueLimit int
}

// NewDefaultParams creates a new Params instance with default values
func NewDefaultParams() *Params {
	return &Params{
		MinEaseFactor: 1.3,

		QualityGrade: map[domain.ReviewQuality]int{
			domain.ReviewQualityFail:    2,
			domain.ReviewQualityPartial: 3,
			domain.ReviewQualityPass:    4,
		},

		FirstInterval:  1,
		SecondInterval: 6,

		PassThreshold:    0.7,
		PartialThreshold: 0.3,

		DefaultDueLimit: 5,
	}
}

// NewParams creates a new Params instance with custom configuration
func NewParams(config ParamsConfig) *Params {
	params := NewDefaultParams()

	if config.MinEaseFactor > 0 {
		params.MinEaseFactor = config.MinEaseFactor
	}

	if config.FailGrade > 0 {
		params.QualityGrade[domain.ReviewQualityFail] = config.FailGrade
	}
	if config.PartialGrade > 0 {
		params.QualityGrade[domain.ReviewQualityPartial] = config.PartialGrade
	}
	if config.PassGrade > 0 {
		params.QualityGrade[domain.ReviewQualityPass] = config.PassGrade
	}

	if config.FirstInterval > 0 {
		params.FirstInterval = config.FirstInterval
	}
	if config.SecondInterval > 0 {
		params.SecondInterval = config.SecondInterval
	}

	if config.PassThreshold > 0 {
		params.PassThreshold = config.PassThreshold
	}
	if config.PartialThreshold > 0 {
		params.PartialThreshold = config.PartialThreshold
	}

	if config.DefaultDueLimit > 0 {
		params.DefaultDueLimit = config.DefaultDueLimit
	}

	return params
}
