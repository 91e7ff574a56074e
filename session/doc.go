// Package session orchestrates the per-session synchronization pipeline.
//
// A run walks four states with no backward transitions:
//
//	MetadataPending -> TraceExtracted -> EdgesDetected -> ProbesReconciled
//
// The primary (nidq) stream is located, its sidecar parsed, its raw file
// memory-mapped, the synchronization line demultiplexed, and iteration
// boundaries detected. Probe streams are then reconciled concurrently: only
// each probe's declared sampling rate is captured, since probe-to-primary
// clock correction is a linear rate ratio in this system. A failure before the
// probe loop aborts the run; a failure inside it is recorded against that
// probe and the remaining work continues.
//
// Synchronizers are stateless between runs and safe to share across
// goroutines; every run owns its mappings privately and releases them before
// returning. Logging is silent by default; supply WithLogger for structured
// zerolog output.
package session
