package artifact

import (
	"fmt"
	"math"

	"github.com/arloliu/sglx/errs"
	"github.com/arloliu/sglx/internal/hash"
)

// Artifact is the synchronization result for one session. It is never mutated
// after creation; persistence belongs to the caller.
type Artifact struct {
	// PrimaryRate is the sampling rate (Hz) of the primary timing stream.
	PrimaryRate float64

	// Iterations is the canonical iteration boundary table: the sample index of
	// every rising and falling edge on the synchronization line of the primary
	// stream, strictly increasing, zero-based relative to the trace start.
	// May be empty (no behavioral iterations recorded).
	Iterations []int64

	// ProbeRates maps probe insertion numbers to the sampling rate declared in
	// each probe's own sidecar metadata.
	ProbeRates map[int]float64

	// Missing records probes whose stream files could not be processed, keyed
	// by insertion number with the failure reason. A probe appears in either
	// ProbeRates or Missing, never both and never with a substitute rate.
	Missing map[int]string
}

// Validate checks the artifact invariants: a positive primary rate, a strictly
// increasing non-negative iteration table, and probe entries representable in
// the blob encoding.
func (a *Artifact) Validate() error {
	if a.PrimaryRate <= 0 || math.IsNaN(a.PrimaryRate) || math.IsInf(a.PrimaryRate, 0) {
		return fmt.Errorf("%w: primary rate %v is not positive and finite", errs.ErrInvalidPayload, a.PrimaryRate)
	}

	prev := int64(-1)
	for i, idx := range a.Iterations {
		if idx < 0 {
			return fmt.Errorf("%w: iteration %d is negative (%d)", errs.ErrInvalidPayload, i, idx)
		}
		if idx <= prev {
			return fmt.Errorf("%w: iteration table not strictly increasing at %d (%d <= %d)",
				errs.ErrInvalidPayload, i, idx, prev)
		}
		prev = idx
	}

	for probe := range a.ProbeRates {
		if probe < 0 || probe > math.MaxUint32 {
			return fmt.Errorf("%w: probe insertion %d out of range", errs.ErrInvalidPayload, probe)
		}
		if _, dup := a.Missing[probe]; dup {
			return fmt.Errorf("%w: probe %d both resolved and missing", errs.ErrInvalidPayload, probe)
		}
	}
	for probe := range a.Missing {
		if probe < 0 || probe > math.MaxUint32 {
			return fmt.Errorf("%w: probe insertion %d out of range", errs.ErrInvalidPayload, probe)
		}
	}

	return nil
}

// Fingerprint returns the xxHash64 of the artifact's canonical encoding
// (little-endian, delta index, no compression). Equal artifacts always produce
// equal fingerprints, so callers can use it for idempotent persistence.
func (a *Artifact) Fingerprint() (uint64, error) {
	enc, err := NewEncoder()
	if err != nil {
		return 0, err
	}

	data, err := enc.Encode(a)
	if err != nil {
		return 0, err
	}

	return hash.Sum(data), nil
}
