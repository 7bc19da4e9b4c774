package diag

import (
	"time"

	"github.com/veloroad/ridediag/internal/errors"
)

const (
	defaultGPSStaleAfter          = 5000 * time.Millisecond
	defaultGPSFirstFixGrace       = 5000 * time.Millisecond
	defaultMotionStaleAfter       = 1200 * time.Millisecond
	defaultMotionFirstSampleGrace = 200 * time.Millisecond
	defaultProblemHold            = 2500 * time.Millisecond
	defaultRecoveryHold           = 1500 * time.Millisecond
	defaultMinGPSHz               = 1.0
	defaultMaxGPSAccuracyM        = 25.0
	defaultMotionMinSamples       = 50
	defaultMotionWindow           = time.Second
)

// Config carries the evaluation thresholds and hysteresis holds. Rate
// and accuracy limits come from the host analysis configuration;
// staleness and hold windows are tuning constants.
type Config struct {
	GPSStaleAfter          time.Duration
	GPSFirstFixGrace       time.Duration
	MotionStaleAfter       time.Duration
	MotionFirstSampleGrace time.Duration
	ProblemHold            time.Duration
	RecoveryHold           time.Duration

	MinGPSHz        float64
	MaxGPSAccuracyM float64

	// Motion minimum rate is derived from the analysis requirement of
	// MotionMinSamples per MotionWindow.
	MotionMinSamples int
	MotionWindow     time.Duration
}

func DefaultConfig() Config {
	return Config{
		GPSStaleAfter:          defaultGPSStaleAfter,
		GPSFirstFixGrace:       defaultGPSFirstFixGrace,
		MotionStaleAfter:       defaultMotionStaleAfter,
		MotionFirstSampleGrace: defaultMotionFirstSampleGrace,
		ProblemHold:            defaultProblemHold,
		RecoveryHold:           defaultRecoveryHold,
		MinGPSHz:               defaultMinGPSHz,
		MaxGPSAccuracyM:        defaultMaxGPSAccuracyM,
		MotionMinSamples:       defaultMotionMinSamples,
		MotionWindow:           defaultMotionWindow,
	}
}

// MinMotionHz expresses the per-window sample requirement as a rate.
func (c Config) MinMotionHz() float64 {
	if c.MotionWindow <= 0 {
		return 0
	}
	return float64(c.MotionMinSamples) / c.MotionWindow.Seconds()
}

func (c Config) Validate() error {
	errFactory := errors.New()

	if c.GPSStaleAfter <= 0 || c.MotionStaleAfter <= 0 {
		return errFactory.WithMessage(ErrInvalidThreshold, "staleness thresholds must be positive")
	}
	if c.GPSFirstFixGrace < 0 || c.MotionFirstSampleGrace < 0 {
		return errFactory.WithMessage(ErrInvalidThreshold, "grace periods must not be negative")
	}
	if c.ProblemHold < 0 || c.RecoveryHold < 0 {
		return errFactory.WithMessage(ErrInvalidHold, "hold windows must not be negative")
	}
	if c.MinGPSHz < 0 || c.MaxGPSAccuracyM < 0 {
		return errFactory.WithMessage(ErrInvalidThreshold, "GPS rate and accuracy limits must not be negative")
	}
	if c.MotionMinSamples < 0 || c.MotionWindow <= 0 {
		return errFactory.WithMessage(ErrInvalidThreshold, "motion window requirement is invalid")
	}

	return nil
}
