// Package raw exposes SpikeGLX raw binary recordings as read-only,
// memory-mapped sample matrices.
//
// A raw file is a flat stream of little-endian signed 16-bit samples,
// channel-interleaved: all channels of sample t are contiguous, so the word for
// (channel ch, sample t) sits at byte offset (t*channels + ch) * 2. Recordings
// routinely run to tens of gigabytes; the file is mapped, never loaded, and
// reads touch only the requested pages.
//
// All accessors are bounds-checked. Out-of-range requests fail with
// errs.ErrRange; they are never clamped. The mapping is private to the
// Recording that opened it and is released by Close.
package raw
