// Package artifact defines the synchronization artifact produced for one
// session and its versioned binary blob encoding.
//
// An Artifact relates every recorded stream's local clock to the session's
// canonical iteration count: the primary (nidq) sampling rate, the ordered
// iteration boundary table detected on the synchronization line, and the
// declared sampling rate of each probe stream. Probes whose files were missing
// appear as explicit gaps, never as placeholder rates.
//
// The blob layout is a 32-byte fixed header followed by three sections:
//
//	header | iteration index payload | probe rate table | gap section
//
// The iteration index is stored either raw (fixed-width) or delta+varint
// encoded; strictly increasing indices collapse to small deltas, so regular
// behavioral loops encode to about one byte per boundary. The index payload may
// additionally be compressed (see the compress package). Encode and Decode
// round-trip exactly, and the canonical encoding is stable, making
// Fingerprint usable for caller-side idempotent inserts.
package artifact
