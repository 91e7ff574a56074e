package pool

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestByteBufferBasics(t *testing.T) {
	bb := NewByteBuffer(16)
	require.Equal(t, 0, bb.Len())
	require.GreaterOrEqual(t, bb.Cap(), 16)

	bb.MustWrite([]byte("abc"))
	require.Equal(t, 3, bb.Len())
	require.Equal(t, []byte("abc"), bb.Bytes())

	n, err := bb.Write([]byte("def"))
	require.NoError(t, err)
	require.Equal(t, 3, n)
	require.Equal(t, []byte("abcdef"), bb.Bytes())

	bb.Reset()
	require.Equal(t, 0, bb.Len())
}

func TestByteBufferGrow(t *testing.T) {
	bb := NewByteBuffer(8)
	bb.MustWrite([]byte{1, 2, 3, 4})

	bb.Grow(1024)
	require.GreaterOrEqual(t, bb.Cap()-bb.Len(), 1024)
	require.Equal(t, []byte{1, 2, 3, 4}, bb.Bytes(), "growth must preserve contents")
}

func TestByteBufferSetLength(t *testing.T) {
	bb := NewByteBuffer(8)
	bb.SetLength(4)
	require.Equal(t, 4, bb.Len())

	require.Panics(t, func() { bb.SetLength(-1) })
	require.Panics(t, func() { bb.SetLength(bb.Cap() + 1) })
}

func TestByteBufferWriteTo(t *testing.T) {
	bb := NewByteBuffer(8)
	bb.MustWrite([]byte("payload"))

	var out bytes.Buffer
	n, err := bb.WriteTo(&out)
	require.NoError(t, err)
	require.Equal(t, int64(7), n)
	require.Equal(t, "payload", out.String())
}

func TestByteBufferPool(t *testing.T) {
	p := NewByteBufferPool(16, 64)

	bb := p.Get()
	require.NotNil(t, bb)
	bb.MustWrite([]byte("xyz"))
	p.Put(bb)

	reused := p.Get()
	require.Equal(t, 0, reused.Len(), "pooled buffers must come back reset")

	// Oversized buffers are dropped instead of pooled.
	big := NewByteBuffer(128)
	big.SetLength(128)
	p.Put(big)

	p.Put(nil) // must not panic
}

func TestDefaultArtifactPool(t *testing.T) {
	bb := GetArtifactBuffer()
	require.NotNil(t, bb)
	require.Equal(t, 0, bb.Len())
	PutArtifactBuffer(bb)
}
