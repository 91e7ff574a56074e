// Package sglx ingests raw SpikeGLX electrophysiology recordings and derives a
// common event timeline across their independently-clocked streams.
//
// A session records one behavioral/synchronization board stream (nidq, the
// primary clock) and any number of high-density probe streams (imec), each
// with its own sampling clock. The packages here parse the sidecar metadata
// format, memory-map the multi-gigabyte raw sample files, demultiplex digital
// logic lines out of the packed word channel, detect the logic transitions
// that bound behavioral iterations, and reconcile every stream's clock into a
// single synchronization artifact.
//
// # Basic Usage
//
// Synchronizing one session:
//
//	import "github.com/arloliu/sglx"
//
//	art, err := sglx.Synchronize(ctx, "/data/sessions/sess42", []int{0, 1})
//	if err != nil {
//	    return err
//	}
//	fmt.Printf("rate=%.3f Hz, %d iterations\n", art.PrimaryRate, len(art.Iterations))
//
//	// Hand the encoded blob to your persistence layer.
//	blob, err := sglx.EncodeArtifact(art)
//
// Decoding a stored artifact:
//
//	art, err := sglx.DecodeArtifact(blob)
//
// # Package Structure
//
// This package provides convenient top-level wrappers around the session and
// artifact packages, covering the common cases. For fine-grained control
// (custom sync lines, rate rules, artifact compression) use the session,
// artifact, meta, raw, and digital packages directly.
package sglx

import (
	"context"

	"github.com/arloliu/sglx/artifact"
	"github.com/arloliu/sglx/format"
	"github.com/arloliu/sglx/meta"
	"github.com/arloliu/sglx/session"
)

// Artifact is the synchronization result for one session.
// See the artifact package for the full contract.
type Artifact = artifact.Artifact

// Meta is a parsed sidecar metadata property set.
type Meta = meta.Meta

// Synchronize processes one session directory with default settings: sync line
// 1 of digital word 0, NI-rate derivation for the primary stream and imec-rate
// derivation for probes.
//
// probes lists the probe insertion numbers recorded for the session (supplied
// by the caller's session registry). A missing probe is reported in the
// artifact's Missing table rather than aborting the run.
func Synchronize(ctx context.Context, dir string, probes []int, opts ...session.Option) (*Artifact, error) {
	s, err := session.NewSynchronizer(opts...)
	if err != nil {
		return nil, err
	}

	return s.Run(ctx, dir, probes)
}

// ReadMeta parses the sidecar metadata file at path.
func ReadMeta(path string) (Meta, error) {
	return meta.ReadMeta(path)
}

// EncodeArtifact serializes an artifact with the default blob settings:
// little-endian, delta-encoded iteration index, zstd compression.
func EncodeArtifact(a *Artifact) ([]byte, error) {
	enc, err := artifact.NewEncoder(artifact.WithCompression(format.CompressionZstd))
	if err != nil {
		return nil, err
	}

	return enc.Encode(a)
}

// DecodeArtifact parses an artifact blob produced by EncodeArtifact or by a
// custom artifact.Encoder.
func DecodeArtifact(data []byte) (*Artifact, error) {
	return artifact.Decode(data)
}
