package shared

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestUint64MulOverflow(t *testing.T) {
	r := require.New(t)

	r.False(Uint64MulOverflow(0, 0))
	r.False(Uint64MulOverflow(0, math.MaxUint64))
	r.False(Uint64MulOverflow(math.MaxUint64, 1))
	r.False(Uint64MulOverflow(1<<32, 1<<31))

	r.True(Uint64MulOverflow(1<<32, 1<<32))
	r.True(Uint64MulOverflow(math.MaxUint64, 2))
	r.True(Uint64MulOverflow(2, math.MaxUint64))
}
