// Package digital demultiplexes logic lines from packed digital word channels
// and detects logic-level transitions.
//
// A digital word channel stores 16 logic lines per sample, one per bit. For a
// word value w, line l carries (w >> l) & 1. ExtractLines isolates any set of
// lines in a single pass over a sample range; DetectEdges scans one extracted
// trace and returns every index at which the level changes.
//
// The edge sequence of the designated synchronization line is the session's
// canonical iteration boundary table: each rising or falling edge marks the
// start or end of one behavioral cycle.
package digital
