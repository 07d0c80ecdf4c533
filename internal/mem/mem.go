// Package mem allocates large zero-initialized regions of address space for
// mapping tables. On unix the region is an anonymous mapping reserved without
// up-front commit, so a table sized in the gigabytes only consumes physical
// memory where entries are actually touched. Other platforms fall back to a
// dense allocation, which commits the full region immediately.
package mem

import (
	"fmt"
	"math"
)

// Region is a contiguous zero-initialized allocation. The zero value is an
// empty, already-released region.
type Region struct {
	data []byte
}

// Alloc reserves size bytes of zero-initialized address space.
func Alloc(size uint64) (*Region, error) {
	if size == 0 {
		return &Region{}, nil
	}
	if size > math.MaxInt {
		return nil, fmt.Errorf("region size (%d) exceeds the addressable range", size)
	}

	data, err := alloc(int(size))
	if err != nil {
		return nil, err
	}
	return &Region{data: data}, nil
}

// Bytes returns the underlying region. It is nil after Free.
func (r *Region) Bytes() []byte {
	return r.data
}

// Len returns the region size in bytes.
func (r *Region) Len() int {
	return len(r.data)
}

// Free releases the region. Freeing an empty or already-released region is a
// no-op. The caller must not retain slices into the region afterwards.
func (r *Region) Free() error {
	if r.data == nil {
		return nil
	}
	data := r.data
	r.data = nil
	return free(data)
}
