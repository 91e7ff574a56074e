// Package cliconfig holds the sglx CLI's configuration: defaults, TOML config
// file loading, and the precedence rules between file values and explicitly
// set flags.
package cliconfig

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"

	"github.com/arloliu/sglx/format"
	"github.com/arloliu/sglx/session"
)

// Config holds the CLI configuration. Use DefaultConfig() for sensible defaults.
type Config struct {
	// DataRoot is the directory watched for finished sessions (watch command).
	DataRoot string
	// OutDir receives encoded artifact blobs; empty disables writing.
	OutDir string
	// SyncLine is the digital line carrying the iteration signal.
	SyncLine int
	// DigitalWord selects the digital word channel within the primary stream.
	DigitalWord int
	// ProbeWorkers bounds concurrent probe reconciliation within one session.
	ProbeWorkers int
	// Workers bounds concurrent session processing in watch mode.
	Workers int
	// Compression names the artifact blob compression (none, zstd, s2, lz4).
	Compression string
	// LogLevel is a zerolog level name (trace..error).
	LogLevel string
}

// DefaultConfig returns a Config with sensible default values.
func DefaultConfig() Config {
	return Config{
		SyncLine:     session.DefaultSyncLine,
		DigitalWord:  0,
		ProbeWorkers: 4,
		Workers:      2,
		Compression:  "zstd",
		LogLevel:     "info",
	}
}

// Validate checks value ranges and name validity.
func (c *Config) Validate() error {
	if _, ok := format.ParseCompression(c.Compression); !ok {
		return fmt.Errorf("unknown compression %q", c.Compression)
	}
	if _, err := zerolog.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("unknown log level %q", c.LogLevel)
	}
	if c.ProbeWorkers < 1 || c.Workers < 1 {
		return fmt.Errorf("worker counts must be at least 1")
	}

	return nil
}

// CompressionType returns the parsed compression. Call Validate first.
func (c *Config) CompressionType() format.CompressionType {
	ct, _ := format.ParseCompression(c.Compression)
	return ct
}

var logger zerolog.Logger

func init() {
	logger = logger.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
}

// Logger returns the CLI's console logger.
func Logger() zerolog.Logger {
	return logger
}

// DefaultConfigPath returns ~/.sglx/config.toml when the user home directory
// is accessible, empty otherwise.
func DefaultConfigPath() string {
	if h, err := os.UserHomeDir(); err == nil {
		return filepath.Join(h, ".sglx", "config.toml")
	}

	return ""
}

// FileExists reports whether path exists and is a regular file.
func FileExists(path string) bool {
	fi, err := os.Stat(path)
	return err == nil && fi.Mode().IsRegular()
}
