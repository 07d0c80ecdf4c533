package mem

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAlloc(t *testing.T) {
	t.Parallel()

	region, err := Alloc(1 << 20)
	require.NoError(t, err)
	defer region.Free()

	data := region.Bytes()
	require.Len(t, data, 1<<20)

	// Zero-initialized and writable end to end.
	require.Zero(t, data[0])
	require.Zero(t, data[len(data)-1])
	data[0] = 0xff
	data[len(data)-1] = 0xff
	require.Equal(t, byte(0xff), data[0])
	require.Equal(t, byte(0xff), data[len(data)-1])
}

func TestAllocEmpty(t *testing.T) {
	t.Parallel()

	region, err := Alloc(0)
	require.NoError(t, err)
	require.Zero(t, region.Len())
	require.NoError(t, region.Free())
}

func TestFreeIdempotent(t *testing.T) {
	t.Parallel()

	region, err := Alloc(4096)
	require.NoError(t, err)

	require.NoError(t, region.Free())
	require.Nil(t, region.Bytes())
	require.NoError(t, region.Free())
}
