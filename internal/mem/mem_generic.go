//go:build !(linux || darwin)

package mem

// Dense fallback for platforms without a lazy-commit mapping primitive. The
// full region is committed up front, so very large tables cost their full size
// in physical memory here.
func alloc(size int) ([]byte, error) {
	return make([]byte, size), nil
}

func free([]byte) error {
	return nil
}
