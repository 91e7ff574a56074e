package main

import (
	"context"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"sync"
	"syscall"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/arloliu/sglx/session"
)

func newWatchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Watch a data root and synchronize sessions as their sidecars appear",
		Long: strings.TrimSpace(`
Watch a data root for new session directories. A session is enqueued once its
primary sidecar (*.nidq.meta) lands, which the acquisition software writes
after the .bin file is closed. Each session is processed at most once per
watch run.
`),
		Example: strings.TrimSpace(`
  sglx watch --data-root /data/incoming --out-dir /data/artifacts
`),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			return runWatch(ctx)
		},
	}

	cmd.Flags().StringVar(&cfg.DataRoot, "data-root", cfg.DataRoot, "directory to watch for finished sessions")
	_ = cmd.MarkFlagRequired("data-root")
	cmd.Flags().IntVar(&cfg.Workers, "workers", cfg.Workers, "concurrent session synchronizations")

	return cmd
}

func runWatch(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	if err := watcher.Add(cfg.DataRoot); err != nil {
		return err
	}

	// Session directories created before the watch started still count.
	entries, err := os.ReadDir(cfg.DataRoot)
	if err != nil {
		return err
	}

	sessions := make(chan string, 64)
	var wg sync.WaitGroup
	for range cfg.Workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for dir := range sessions {
				if err := runSession(ctx, dir, nil); err != nil {
					log.Error().Err(err).Str("session", dir).Msg("session failed")
				}
			}
		}()
	}
	defer wg.Wait()
	defer close(sessions)

	seen := map[string]bool{}
	enqueue := func(dir string) {
		if seen[dir] {
			return
		}
		if _, err := session.LocatePrimary(dir); err != nil {
			return
		}
		seen[dir] = true
		log.Info().Str("session", dir).Msg("session discovered")
		select {
		case sessions <- dir:
		case <-ctx.Done():
		}
	}

	for _, entry := range entries {
		if entry.IsDir() {
			dir := filepath.Join(cfg.DataRoot, entry.Name())
			// Watch existing directories too; their sidecar may not have
			// landed yet.
			if err := watcher.Add(dir); err != nil {
				log.Warn().Err(err).Str("dir", dir).Msg("watch failed")
			}
			enqueue(dir)
		}
	}

	log.Info().Str("data_root", cfg.DataRoot).Int("workers", cfg.Workers).Msg("watching")

	for {
		select {
		case <-ctx.Done():
			log.Info().Msg("stopping watch")
			return nil
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.Warn().Err(err).Msg("watch error")
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !event.Has(fsnotify.Create) {
				continue
			}
			if fi, err := os.Stat(event.Name); err == nil && fi.IsDir() {
				// New session directory under the root: watch it for its
				// sidecar. fsnotify does not recurse.
				if filepath.Dir(event.Name) == cfg.DataRoot {
					if err := watcher.Add(event.Name); err != nil {
						log.Warn().Err(err).Str("dir", event.Name).Msg("watch failed")
					}
				}
				continue
			}
			if strings.HasSuffix(event.Name, ".nidq.meta") {
				enqueue(filepath.Dir(event.Name))
			}
		}
	}
}
