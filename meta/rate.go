package meta

import (
	"fmt"

	"github.com/arloliu/sglx/errs"
	"github.com/arloliu/sglx/format"
)

// Sampling rate keys per acquisition type.
const (
	KeyNISampRate   = "niSampRate"
	KeyNIClockRate  = "niClockRate"
	KeyNIMuxFactor  = "niMuxFactor"
	KeyImecSampRate = "imSampRate"
)

// RateRule derives the per-channel sampling rate (Hz) from a parsed sidecar.
// Each acquisition type encodes its rate differently, so the rule is supplied
// by the caller per stream.
type RateRule func(m Meta) (float64, error)

// NIRate derives the sampling rate of a nidq (behavioral/sync board) stream.
//
// Most rigs write the rate directly as niSampRate. Multiplexed acquisition
// front-ends instead write the board clock rate and the per-channel mux factor;
// the effective per-channel rate is niClockRate / niMuxFactor.
func NIRate(m Meta) (float64, error) {
	if _, ok := m[KeyNISampRate]; ok {
		return validRate(m, KeyNISampRate)
	}

	clock, err := m.Float(KeyNIClockRate)
	if err != nil {
		return 0, fmt.Errorf("%w: no %q and no %q/%q pair", errs.ErrMetadataParse,
			KeyNISampRate, KeyNIClockRate, KeyNIMuxFactor)
	}
	mux, err := m.Float(KeyNIMuxFactor)
	if err != nil {
		return 0, err
	}
	if mux <= 0 {
		return 0, fmt.Errorf("%w: key %q: mux factor is not positive (%v)", errs.ErrMetadataParse, KeyNIMuxFactor, mux)
	}

	rate := clock / mux
	if rate <= 0 {
		return 0, fmt.Errorf("%w: derived sampling rate is not positive (%v)", errs.ErrMetadataParse, rate)
	}

	return rate, nil
}

// ImecRate derives the sampling rate of an imec (probe headstage) stream,
// recorded directly as imSampRate.
func ImecRate(m Meta) (float64, error) {
	return validRate(m, KeyImecSampRate)
}

// RateFor dispatches to the acquisition-type-specific rule based on typeThis.
func RateFor(m Meta) (float64, error) {
	switch m.Stream() {
	case format.StreamNIDQ:
		return NIRate(m)
	case format.StreamImec:
		return ImecRate(m)
	default:
		return 0, fmt.Errorf("%w: unrecognized acquisition type %q", errs.ErrMetadataParse, m[KeyType])
	}
}

func validRate(m Meta, key string) (float64, error) {
	rate, err := m.Float(key)
	if err != nil {
		return 0, err
	}
	if rate <= 0 {
		return 0, fmt.Errorf("%w: key %q: sampling rate is not positive (%v)", errs.ErrMetadataParse, key, rate)
	}

	return rate, nil
}
