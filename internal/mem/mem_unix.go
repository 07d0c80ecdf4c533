//go:build linux || darwin

package mem

import (
	"fmt"

	"golang.org/x/sys/unix"
)

// alloc reserves an anonymous private mapping. MAP_NORESERVE keeps the kernel
// from committing swap for the full region, so untouched pages cost nothing.
func alloc(size int) ([]byte, error) {
	data, err := unix.Mmap(-1, 0, size,
		unix.PROT_READ|unix.PROT_WRITE,
		unix.MAP_PRIVATE|unix.MAP_ANON|unix.MAP_NORESERVE)
	if err != nil {
		return nil, fmt.Errorf("failed to map %d bytes: %w", size, err)
	}
	return data, nil
}

func free(data []byte) error {
	if err := unix.Munmap(data); err != nil {
		return fmt.Errorf("failed to unmap region: %w", err)
	}
	return nil
}
