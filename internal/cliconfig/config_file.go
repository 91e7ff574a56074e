package cliconfig

import (
	"os"

	toml "github.com/pelletier/go-toml/v2"
)

// FileConfig mirrors Config with TOML tags. Pointer fields distinguish "unset"
// from zero values.
type FileConfig struct {
	DataRoot     string `toml:"data_root"`
	OutDir       string `toml:"out_dir"`
	SyncLine     *int   `toml:"sync_line"`
	DigitalWord  *int   `toml:"digital_word"`
	ProbeWorkers *int   `toml:"probe_workers"`
	Workers      *int   `toml:"workers"`
	Compression  string `toml:"compression"`
	LogLevel     string `toml:"log_level"`
}

// LoadFileConfig reads and parses a TOML config file.
func LoadFileConfig(path string) (FileConfig, error) {
	var fc FileConfig
	b, err := os.ReadFile(path)
	if err != nil {
		return fc, err
	}
	if err := toml.Unmarshal(b, &fc); err != nil {
		return fc, err
	}

	return fc, nil
}

// ApplyFileConfig applies file values to cfg, skipping any field whose flag
// was explicitly set on the command line (the changed map, keyed by flag name).
func ApplyFileConfig(cfg *Config, fc FileConfig, changed map[string]bool) {
	s := configSetter{changed: changed}

	s.setString("data-root", fc.DataRoot, &cfg.DataRoot)
	s.setString("out-dir", fc.OutDir, &cfg.OutDir)
	s.setString("compression", fc.Compression, &cfg.Compression)
	s.setString("log-level", fc.LogLevel, &cfg.LogLevel)

	s.setInt("line", fc.SyncLine, &cfg.SyncLine)
	s.setInt("word", fc.DigitalWord, &cfg.DigitalWord)
	s.setInt("probe-workers", fc.ProbeWorkers, &cfg.ProbeWorkers)
	s.setInt("workers", fc.Workers, &cfg.Workers)
}

// configSetter applies file values only where the corresponding flag was not
// explicitly set, so flags always win over the config file.
type configSetter struct {
	changed map[string]bool
}

func (s configSetter) setString(flag, value string, dst *string) {
	if value != "" && !s.changed[flag] {
		*dst = value
	}
}

func (s configSetter) setInt(flag string, value *int, dst *int) {
	if value != nil && !s.changed[flag] {
		*dst = *value
	}
}
