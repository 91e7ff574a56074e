package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/arloliu/sglx/artifact"
	"github.com/arloliu/sglx/session"
)

func newSyncCmd() *cobra.Command {
	var (
		sessionDir string
		probes     []int
	)

	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Synchronize one recorded session",
		Example: strings.TrimSpace(`
  sglx sync --session /data/run42_g0
  sglx sync --session /data/run42_g0 --probes 0,1 --out-dir /data/artifacts
`),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			return runSession(ctx, sessionDir, probes)
		},
	}

	cmd.Flags().StringVar(&sessionDir, "session", "", "session directory containing the primary stream")
	_ = cmd.MarkFlagRequired("session")
	cmd.Flags().IntSliceVar(&probes, "probes", nil, "probe insertion numbers (default: discovered from imec<N> subdirectories)")

	return cmd
}

// runSession synchronizes one session directory under a fresh run ID and
// writes the encoded artifact blob when an output directory is configured.
// A nil probe list means discover insertions from the session's imec<N>
// subdirectories.
func runSession(ctx context.Context, dir string, probes []int) error {
	runID := uuid.NewString()
	runLog := log.With().Str("run", runID).Str("session", dir).Logger()

	if probes == nil {
		discovered, err := session.DiscoverProbes(dir)
		if err != nil {
			return err
		}
		probes = discovered
	}

	s, err := session.NewSynchronizer(
		session.WithSyncLine(cfg.SyncLine),
		session.WithDigitalWord(cfg.DigitalWord),
		session.WithProbeWorkers(cfg.ProbeWorkers),
		session.WithLogger(runLog),
	)
	if err != nil {
		return err
	}

	art, err := s.Run(ctx, dir, probes)
	if err != nil {
		return fmt.Errorf("synchronize %s: %w", dir, err)
	}

	runLog.Info().
		Int("iterations", len(art.Iterations)).
		Int("probes", len(art.ProbeRates)).
		Int("missing", len(art.Missing)).
		Msg("session synchronized")

	if cfg.OutDir == "" {
		return nil
	}

	enc, err := artifact.NewEncoder(artifact.WithCompression(cfg.CompressionType()))
	if err != nil {
		return err
	}
	blob, err := enc.Encode(art)
	if err != nil {
		return fmt.Errorf("encode artifact: %w", err)
	}

	if err := os.MkdirAll(cfg.OutDir, 0o755); err != nil {
		return err
	}
	out := filepath.Join(cfg.OutDir, filepath.Base(dir)+"-"+runID+".sglx")
	if err := os.WriteFile(out, blob, 0o644); err != nil {
		return fmt.Errorf("write artifact: %w", err)
	}
	runLog.Info().Str("path", out).Int("bytes", len(blob)).Msg("artifact written")

	return nil
}
