// Package geometry derives the physical shape of a NAND device (capacities,
// block/page counts, ECC overhead) from its declarative configuration.
package geometry

import (
	"fmt"

	"github.com/nandlab/ftlplan/config"
	"github.com/nandlab/ftlplan/shared"
)

// Geometry is the derived physical shape of a device. It is computed once from
// a config.Config and never mutated; a changed configuration requires a fresh
// Derive call.
type Geometry struct {
	BytesPerPage    uint64
	EccBytesPerPage uint64
	PagesPerBlock   uint64

	BlocksTotal uint64
	PagesTotal  uint64

	// RawCapacityBytes includes per-page ECC overhead; UserCapacityBytes
	// does not.
	RawCapacityBytes  uint64
	UserCapacityBytes uint64
}

// UserCapacityGiB returns the user capacity in GiB, for reporting.
func (g Geometry) UserCapacityGiB() float64 {
	return float64(g.UserCapacityBytes) / float64(1<<30)
}

// Derive computes the geometry of a device from its physical configuration.
// It fails with config.ErrInvalidConfiguration when any multiplicity field is
// zero or the derived capacity exceeds the uint64 range.
func Derive(cfg *config.Config) (Geometry, error) {
	if err := cfg.Validate(); err != nil {
		return Geometry{}, err
	}

	g := Geometry{
		BytesPerPage:  uint64(cfg.BytesPerPage),
		PagesPerBlock: uint64(cfg.PagesPerBlock),
	}

	g.EccBytesPerPage = eccBytesPerPage(cfg)

	// Package counts times plane/die multiplicities can reach billions of
	// pages, so keep everything in uint64 and reject overflow explicitly.
	g.BlocksTotal = uint64(cfg.BlocksPerPlane)
	for _, factor := range []uint64{uint64(cfg.PlanesPerDie), uint64(cfg.DiesPerPackage), uint64(cfg.Packages)} {
		if shared.Uint64MulOverflow(g.BlocksTotal, factor) {
			return Geometry{}, fmt.Errorf("%w: total blocks exceed the uint64 range", config.ErrInvalidConfiguration)
		}
		g.BlocksTotal *= factor
	}

	if shared.Uint64MulOverflow(g.BlocksTotal, g.PagesPerBlock) {
		return Geometry{}, fmt.Errorf("%w: total pages exceed the uint64 range", config.ErrInvalidConfiguration)
	}
	g.PagesTotal = g.BlocksTotal * g.PagesPerBlock

	if shared.Uint64MulOverflow(g.PagesTotal, g.BytesPerPage+g.EccBytesPerPage) {
		return Geometry{}, fmt.Errorf("%w: raw capacity exceeds the uint64 range", config.ErrInvalidConfiguration)
	}
	g.UserCapacityBytes = g.PagesTotal * g.BytesPerPage
	g.RawCapacityBytes = g.PagesTotal * (g.BytesPerPage + g.EccBytesPerPage)

	return g, nil
}

// eccBytesPerPage estimates the per-page ECC overhead as a linear
// bits-per-1KiB scaling, rounding up at both the 1 KiB-unit boundary and the
// bit-to-byte boundary. It is a fixed, reproducible approximation; it does not
// model interleaving, per-codeword framing or parity placement.
func eccBytesPerPage(cfg *config.Config) uint64 {
	if cfg.EccKind == config.EccNone || cfg.EccBitsPer1K == 0 {
		return 0
	}

	units1k := (uint64(cfg.BytesPerPage) + 1023) / 1024
	eccBits := uint64(cfg.EccBitsPer1K) * units1k
	return (eccBits + 7) / 8
}
