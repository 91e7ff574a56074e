package session

import (
	"context"
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"github.com/arloliu/sglx/artifact"
	"github.com/arloliu/sglx/digital"
	"github.com/arloliu/sglx/errs"
	"github.com/arloliu/sglx/internal/hash"
	"github.com/arloliu/sglx/internal/options"
	"github.com/arloliu/sglx/meta"
	"github.com/arloliu/sglx/raw"
)

// state tracks pipeline progress for logging. Transitions are strictly forward.
type state uint8

const (
	stateMetadataPending state = iota
	stateTraceExtracted
	stateEdgesDetected
	stateProbesReconciled
)

func (s state) String() string {
	switch s {
	case stateMetadataPending:
		return "MetadataPending"
	case stateTraceExtracted:
		return "TraceExtracted"
	case stateEdgesDetected:
		return "EdgesDetected"
	case stateProbesReconciled:
		return "ProbesReconciled"
	default:
		return "Unknown"
	}
}

// DefaultSyncLine is the digital line carrying the behavioral iteration signal.
const DefaultSyncLine = 1

// Synchronizer derives one session's synchronization artifact from its
// recorded streams.
type Synchronizer struct {
	syncLine     int
	digitalWord  int
	probeWorkers int
	logger       zerolog.Logger
	primaryRate  meta.RateRule
	probeRate    meta.RateRule
}

// Option configures a Synchronizer.
type Option = options.Option[*Synchronizer]

// WithSyncLine selects the digital line whose edges mark iteration boundaries.
func WithSyncLine(line int) Option {
	return options.New(func(s *Synchronizer) error {
		if line < 0 || line >= digital.WordBits {
			return fmt.Errorf("%w: sync line %d outside [0,%d)", errs.ErrInvalidLine, line, digital.WordBits)
		}
		s.syncLine = line

		return nil
	})
}

// WithDigitalWord selects which digital word of the primary stream carries the
// sync line, for rigs recording more than one word.
func WithDigitalWord(dw int) Option {
	return options.New(func(s *Synchronizer) error {
		if dw < 0 {
			return fmt.Errorf("%w: digital word %d is negative", errs.ErrRange, dw)
		}
		s.digitalWord = dw

		return nil
	})
}

// WithProbeWorkers bounds the number of probes reconciled concurrently.
func WithProbeWorkers(n int) Option {
	return options.New(func(s *Synchronizer) error {
		if n < 1 {
			return fmt.Errorf("probe workers must be at least 1, got %d", n)
		}
		s.probeWorkers = n

		return nil
	})
}

// WithLogger attaches a zerolog logger; the default discards all output.
func WithLogger(logger zerolog.Logger) Option {
	return options.NoError(func(s *Synchronizer) {
		s.logger = logger
	})
}

// WithPrimaryRateRule overrides the sampling-rate derivation for the primary
// stream's sidecar (default meta.NIRate).
func WithPrimaryRateRule(rule meta.RateRule) Option {
	return options.NoError(func(s *Synchronizer) {
		s.primaryRate = rule
	})
}

// WithProbeRateRule overrides the sampling-rate derivation for probe sidecars
// (default meta.ImecRate).
func WithProbeRateRule(rule meta.RateRule) Option {
	return options.NoError(func(s *Synchronizer) {
		s.probeRate = rule
	})
}

// NewSynchronizer creates a Synchronizer with the given options.
func NewSynchronizer(opts ...Option) (*Synchronizer, error) {
	s := &Synchronizer{
		syncLine:     DefaultSyncLine,
		digitalWord:  0,
		probeWorkers: 4,
		logger:       zerolog.Nop(),
		primaryRate:  meta.NIRate,
		probeRate:    meta.ImecRate,
	}
	if err := options.Apply(s, opts...); err != nil {
		return nil, err
	}

	return s, nil
}

// Run processes one session directory and the probe insertion numbers recorded
// for it, producing the session's synchronization artifact.
//
// Primary-stream failures abort the run. Probe failures do not: each is
// recorded in the artifact's Missing table against its insertion number, and
// the remaining probes and the primary result are still returned.
func (s *Synchronizer) Run(ctx context.Context, dir string, probes []int) (*artifact.Artifact, error) {
	log := s.logger.With().
		Str("session_dir", dir).
		Str("session_id", fmt.Sprintf("%016x", hash.ID(dir))).
		Logger()

	log.Info().Stringer("state", stateMetadataPending).Ints("probes", probes).Msg("session sync started")

	binPath, err := LocatePrimary(dir)
	if err != nil {
		return nil, err
	}

	metaPath, err := meta.SidecarPath(binPath)
	if err != nil {
		return nil, err
	}
	m, err := meta.ReadMeta(metaPath)
	if err != nil {
		return nil, err
	}

	rate, err := s.primaryRate(m)
	if err != nil {
		return nil, err
	}
	secs, err := m.FileTimeSecs()
	if err != nil {
		return nil, err
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	rec, err := raw.Open(binPath, m)
	if err != nil {
		return nil, err
	}
	defer rec.Close()

	edges, err := s.detectIterations(rec, m, rate, secs, log)
	if err != nil {
		return nil, err
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	rates, missing := s.reconcileProbes(ctx, log, dir, probes)
	log.Info().Stringer("state", stateProbesReconciled).
		Int("probes_resolved", len(rates)).
		Int("probes_missing", len(missing)).
		Msg("probe reconciliation finished")

	art := &artifact.Artifact{
		PrimaryRate: rate,
		Iterations:  edges,
		ProbeRates:  rates,
		Missing:     missing,
	}
	if err := art.Validate(); err != nil {
		return nil, err
	}

	return art, nil
}

// detectIterations extracts the sync line over [0, rate*secs-1] and returns
// its edge table. The sample range is derived from the declared duration, like
// the acquisition software does; if it overruns the mapped file the recording
// and sidecar disagree and the run fails rather than silently shortening.
func (s *Synchronizer) detectIterations(rec *raw.Recording, m meta.Meta, rate, secs float64, log zerolog.Logger) ([]int64, error) {
	lastSample := int64(rate*secs) - 1
	if lastSample < 0 {
		// Zero-duration recording: a valid session with no iterations.
		log.Info().Stringer("state", stateEdgesDetected).Msg("zero-duration recording, no iterations")
		return []int64{}, nil
	}
	if lastSample >= rec.Samples() {
		return nil, fmt.Errorf("%w: declared duration needs %d samples, file has %d",
			errs.ErrRange, lastSample+1, rec.Samples())
	}

	mn, ma, xa, dw, err := m.NIChannelCounts()
	if err != nil {
		return nil, err
	}
	if s.digitalWord >= dw {
		return nil, fmt.Errorf("%w: digital word %d outside the stream's %d words",
			errs.ErrRange, s.digitalWord, dw)
	}
	wordChan := mn + ma + xa + s.digitalWord

	traces, err := digital.ExtractLines(rec, wordChan, 0, lastSample, []int{s.syncLine})
	if err != nil {
		return nil, err
	}
	log.Debug().Stringer("state", stateTraceExtracted).
		Int("word_channel", wordChan).
		Int("line", s.syncLine).
		Int64("samples", lastSample+1).
		Msg("sync line extracted")

	edges := digital.DetectEdges(traces[0])
	log.Info().Stringer("state", stateEdgesDetected).Int("iterations", len(edges)).Msg("iteration boundaries detected")

	return edges, nil
}

// reconcileProbes resolves each probe's declared sampling rate, fanning out
// across a bounded worker set. Results are collected per index, so no ordering
// constraint exists between probes.
func (s *Synchronizer) reconcileProbes(ctx context.Context, log zerolog.Logger, dir string, probes []int) (map[int]float64, map[int]string) {
	type result struct {
		rate float64
		err  error
	}

	results := make([]result, len(probes))
	sem := make(chan struct{}, s.probeWorkers)
	var wg sync.WaitGroup

	for i, probe := range probes {
		wg.Add(1)
		go func(i, probe int) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			if err := ctx.Err(); err != nil {
				results[i] = result{err: err}
				return
			}
			rate, err := s.probeRateOf(dir, probe)
			results[i] = result{rate: rate, err: err}
		}(i, probe)
	}
	wg.Wait()

	rates := make(map[int]float64, len(probes))
	missing := make(map[int]string)
	for i, probe := range probes {
		if err := results[i].err; err != nil {
			log.Warn().Int("probe", probe).Err(err).Msg("probe stream not reconciled")
			missing[probe] = err.Error()
			continue
		}
		rates[probe] = results[i].rate
	}

	return rates, missing
}

func (s *Synchronizer) probeRateOf(dir string, probe int) (float64, error) {
	binPath, err := LocateProbe(dir, probe)
	if err != nil {
		return 0, err
	}

	metaPath, err := meta.SidecarPath(binPath)
	if err != nil {
		return 0, err
	}
	m, err := meta.ReadMeta(metaPath)
	if err != nil {
		return 0, err
	}

	return s.probeRate(m)
}
