// Package meta parses SpikeGLX sidecar metadata files.
//
// A sidecar file is UTF-8 text, one key=value pair per line, describing the
// acquisition parameters of its paired .bin recording. Values stay strings in
// the parsed Meta map; typed accessors perform explicit, fallible conversion.
// Malformed lines, missing required keys, and non-numeric values all fail with
// errors wrapping errs.ErrMetadataParse.
//
// Sampling rate derivation differs between acquisition types: the behavioral
// sync board (nidq) writes niSampRate (or, on multiplexed rigs, a clock rate
// plus mux factor), while probe headstages (imec) write imSampRate. The
// RateRule type keeps this derivation pluggable per stream.
package meta
