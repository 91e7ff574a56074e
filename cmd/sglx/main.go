package main

import (
	"fmt"
	"os"
	"runtime"
	"runtime/debug"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	pflag "github.com/spf13/pflag"

	"github.com/arloliu/sglx/internal/cliconfig"
)

var (
	cfg     = cliconfig.DefaultConfig()
	cfgPath string
	log     = cliconfig.Logger()
)

func getVersion() string {
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" {
		return info.Main.Version
	}
	return "dev"
}

func main() {
	root := &cobra.Command{
		Use:          "sglx",
		Short:        "Ingest recorded acquisition sessions and reconcile their streams onto a common clock",
		Version:      fmt.Sprintf("%s %s/%s", getVersion(), runtime.GOOS, runtime.GOARCH),
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// Load config file first (default $HOME/.sglx/config.toml), then
			// let explicitly set flags win over file values.
			cfgFile := cfgPath
			if cfgFile == "" {
				cfgFile = cliconfig.DefaultConfigPath()
			}

			changed := map[string]bool{}
			cmd.Flags().Visit(func(f *pflag.Flag) { changed[f.Name] = true })

			if cfgFile != "" && cliconfig.FileExists(cfgFile) {
				fc, err := cliconfig.LoadFileConfig(cfgFile)
				if err != nil {
					return fmt.Errorf("load config: %w", err)
				}
				cliconfig.ApplyFileConfig(&cfg, fc, changed)
			}

			if err := cfg.Validate(); err != nil {
				return err
			}

			lvl, err := zerolog.ParseLevel(cfg.LogLevel)
			if err != nil {
				return err
			}
			log = log.Level(lvl)

			return nil
		},
	}

	root.PersistentFlags().StringVar(&cfgPath, "config", "", "path to config file (default: $HOME/.sglx/config.toml)")
	root.PersistentFlags().StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "log level (trace, debug, info, warn, error)")
	root.PersistentFlags().StringVar(&cfg.OutDir, "out-dir", cfg.OutDir, "directory receiving encoded artifact blobs (empty disables writing)")
	root.PersistentFlags().StringVar(&cfg.Compression, "compression", cfg.Compression, "artifact blob compression (none, zstd, s2, lz4)")
	root.PersistentFlags().IntVar(&cfg.SyncLine, "line", cfg.SyncLine, "digital line carrying the iteration signal")
	root.PersistentFlags().IntVar(&cfg.DigitalWord, "word", cfg.DigitalWord, "digital word channel within the primary stream")
	root.PersistentFlags().IntVar(&cfg.ProbeWorkers, "probe-workers", cfg.ProbeWorkers, "concurrent probe reconciliations per session")

	root.AddCommand(newSyncCmd(), newWatchCmd())

	if err := root.Execute(); err != nil {
		log.Error().Err(err).Msg("sglx")
		os.Exit(1)
	}
}
