package srs

import (
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// NumWeights is the size of the forgetting-curve weight table.
const NumWeights = 17

const initialEaseFactor = 2.5

// Params is a named, versioned calibration set for both schedulers. The
// weights are empirically tuned data, not algorithmic constants, so they
// load from configuration files and recalibration never requires a
// recompile.
type Params struct {
	Version string `koanf:"version" json:"version"`

	// W is the forgetting-curve weight table:
	//   w0..w3   initial stability per grade
	//   w4, w5   initial difficulty and its grade slope
	//   w6, w7   difficulty grade nudge and mean-reversion rate
	//   w8..w10  recall stability growth
	//   w11..w14 post-lapse stability collapse
	//   w15      hard penalty (<1), w16 easy bonus (>1)
	W []float64 `koanf:"weights" json:"weights" validate:"len=17"`

	TargetRetention float64 `koanf:"target_retention" json:"target_retention" validate:"gt=0,lt=1"`
	MaximumInterval int     `koanf:"maximum_interval" json:"maximum_interval" validate:"gte=1"`
	LapseThreshold  int     `koanf:"lapse_threshold" json:"lapse_threshold" validate:"gte=1"`

	// The legacy scheduler intentionally caps intervals much lower.
	SM2MaximumInterval int `koanf:"sm2_maximum_interval" json:"sm2_maximum_interval" validate:"gte=1"`
}

// Per-weight calibration bounds. A weight table outside these is either a
// transcription error or a runaway optimizer result.
var (
	weightLowerBounds = [NumWeights]float64{
		0.01, 0.01, 0.01, 0.01,
		1, 0.1, 0.1, 0,
		0, 0, 0.01,
		0.1, 0.01, 0.01, 0.01,
		0, 1,
	}
	weightUpperBounds = [NumWeights]float64{
		100, 100, 100, 100,
		10, 5, 5, 0.75,
		4.5, 0.8, 3.5,
		5, 0.25, 0.9, 4,
		1, 6,
	}
)

// DefaultParams returns the published FSRS v4 calibration.
func DefaultParams() Params {
	return Params{
		Version: "fsrs-v4-2023",
		W: []float64{
			0.4, 0.6, 2.4, 5.8,
			4.93, 0.94, 0.86, 0.01,
			1.49, 0.14, 0.94,
			2.18, 0.05, 0.34, 1.26,
			0.29, 2.61,
		},
		TargetRetention:    0.9,
		MaximumInterval:    36500,
		LapseThreshold:     8,
		SM2MaximumInterval: 365,
	}
}

var validate = validator.New()

// Validate checks structural constraints and per-weight bounds.
func (p Params) Validate() error {
	if err := validate.Struct(p); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidParams, err)
	}
	for i := range NumWeights {
		if p.W[i] < weightLowerBounds[i] || p.W[i] > weightUpperBounds[i] {
			return fmt.Errorf("%w: w[%d] = %v, bounds [%v, %v]",
				ErrInvalidParams, i, p.W[i], weightLowerBounds[i], weightUpperBounds[i])
		}
	}
	return nil
}

// LoadParams reads a parameter set from a YAML file. Fields missing from the
// file keep their default values, so a calibration file may override only
// the weight table.
func LoadParams(path string) (Params, error) {
	p := DefaultParams()
	k := koanf.New(".")
	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		return Params{}, fmt.Errorf("loading params file: %w", err)
	}
	if err := k.Unmarshal("", &p); err != nil {
		return Params{}, fmt.Errorf("parsing params file: %w", err)
	}
	if err := p.Validate(); err != nil {
		return Params{}, err
	}
	return p, nil
}
