package endian

import (
	"encoding/binary"
	"testing"
	"unsafe"

	"github.com/stretchr/testify/require"
)

func TestCheckEndianness(t *testing.T) {
	require := require.New(t)

	result := CheckEndianness()

	// Verify against an independent probe of the host byte order.
	var testValue uint16 = 0x0102
	testBytes := (*[2]byte)(unsafe.Pointer(&testValue))

	switch testBytes[0] {
	case 0x01:
		require.Equal(binary.BigEndian, result)
	case 0x02:
		require.Equal(binary.LittleEndian, result)
	default:
		require.Failf("unexpected byte value", "got: %v", testBytes[0])
	}
}

func TestCheckEndiannessConsistency(t *testing.T) {
	first := CheckEndianness()
	for i := range 100 {
		result := CheckEndianness()
		if result != first {
			t.Errorf("CheckEndianness() inconsistent: first=%v, iteration %d=%v", first, i, result)
		}
	}
}

func TestNativeEndianHelpers(t *testing.T) {
	require := require.New(t)

	require.NotEqual(IsNativeLittleEndian(), IsNativeBigEndian())

	if IsNativeLittleEndian() {
		require.True(CompareNativeEndian(GetLittleEndianEngine()))
		require.False(CompareNativeEndian(GetBigEndianEngine()))
	} else {
		require.True(CompareNativeEndian(GetBigEndianEngine()))
		require.False(CompareNativeEndian(GetLittleEndianEngine()))
	}
}

func TestEngineRoundTrip(t *testing.T) {
	for _, engine := range []EndianEngine{GetLittleEndianEngine(), GetBigEndianEngine()} {
		buf := make([]byte, 8)
		engine.PutUint64(buf, 0x0102030405060708)
		require.Equal(t, uint64(0x0102030405060708), engine.Uint64(buf))

		appended := engine.AppendUint32(nil, 0xCAFEBABE)
		require.Len(t, appended, 4)
		require.Equal(t, uint32(0xCAFEBABE), engine.Uint32(appended))
	}
}
