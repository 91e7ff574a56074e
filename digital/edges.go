package digital

// DetectEdges returns every index i at which tr crosses the logic threshold in
// either direction: |tr[i] - tr[i-1]| > 0.5, which for an already-binary trace
// is any change of level. Indices are zero-based relative to the trace start
// and strictly increasing.
//
// A trace with no transitions yields an empty (non-nil) sequence. That is a
// valid result meaning no behavioral iterations were recorded, not a failure.
func DetectEdges(tr Trace) []int64 {
	edges := make([]int64, 0)
	for i := 1; i < len(tr); i++ {
		if tr[i] != tr[i-1] {
			edges = append(edges, int64(i))
		}
	}

	return edges
}
