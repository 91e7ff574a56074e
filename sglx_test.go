package sglx

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEncodeDecodeArtifact(t *testing.T) {
	want := &Artifact{
		PrimaryRate: 25000,
		Iterations:  []int64{500, 1500, 2500},
		ProbeRates:  map[int]float64{0: 30000.271},
		Missing:     map[int]string{1: "expected stream file not found"},
	}

	blob, err := EncodeArtifact(want)
	require.NoError(t, err)

	got, err := DecodeArtifact(blob)
	require.NoError(t, err)
	require.Equal(t, want.PrimaryRate, got.PrimaryRate)
	require.Equal(t, want.Iterations, got.Iterations)
	require.Equal(t, want.ProbeRates, got.ProbeRates)
	require.Equal(t, want.Missing, got.Missing)
}
