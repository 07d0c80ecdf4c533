package config

import (
	"errors"
	"fmt"
)

const (
	DefaultBitsPerCell    = 3 // TLC
	DefaultBytesPerPage   = 4096
	DefaultPagesPerBlock  = 256
	DefaultBlocksPerPlane = 1024
	DefaultPlanesPerDie   = 2
	DefaultDiesPerPackage = 4
	DefaultPackages       = 2

	DefaultEccBitsPer1K = 40 // typical BCH strength

	DefaultDRAMBytes    = 2 << 30  // 2 GiB controller DRAM
	DefaultFastMapBytes = 16 << 20 // 16 MiB reserved for the fast mapping tier

	DefaultSubpagesPerPage = 4
)

var (
	// ErrInvalidConfiguration is returned when a required physical field is zero
	// or the fast-tier DRAM reservation exceeds the total DRAM budget.
	ErrInvalidConfiguration = errors.New("invalid configuration")

	// ErrInvalidGranularity is returned for an unrecognized mapping granularity,
	// or for SubPage granularity with a zero subpage count.
	ErrInvalidGranularity = errors.New("invalid granularity")
)

// Config holds the physical NAND parameters, the controller DRAM model and the
// mapping granularities of a device. It is immutable once constructed; derived
// records are recomputed from scratch after any change, never edited in place.
type Config struct {
	// Physical NAND parameters.
	BitsPerCell   uint32 `mapstructure:"bits-per-cell"`
	BytesPerPage  uint32 `mapstructure:"bytes-per-page"`
	PagesPerBlock uint32 `mapstructure:"pages-per-block"`

	// Array geometry.
	BlocksPerPlane uint32 `mapstructure:"blocks-per-plane"`
	PlanesPerDie   uint32 `mapstructure:"planes-per-die"`
	DiesPerPackage uint32 `mapstructure:"dies-per-package"`
	Packages       uint32 `mapstructure:"packages"`

	// ECC model.
	EccKind      EccKind `mapstructure:"ecc-kind"`
	EccBitsPer1K uint32  `mapstructure:"ecc-bits-per-1k"`

	// DRAM model.
	DRAMBytes    uint64 `mapstructure:"dram"`
	FastMapBytes uint64 `mapstructure:"fast-map-dram"`

	// Mapping granularities.
	BaseGranularity Granularity `mapstructure:"base-granularity"`
	FastGranularity Granularity `mapstructure:"fast-granularity"`
	SubpagesPerPage uint32      `mapstructure:"subpages-per-page"`
}

func DefaultConfig() *Config {
	return &Config{
		BitsPerCell:    DefaultBitsPerCell,
		BytesPerPage:   DefaultBytesPerPage,
		PagesPerBlock:  DefaultPagesPerBlock,
		BlocksPerPlane: DefaultBlocksPerPlane,
		PlanesPerDie:   DefaultPlanesPerDie,
		DiesPerPackage: DefaultDiesPerPackage,
		Packages:       DefaultPackages,

		EccKind:      EccBCH,
		EccBitsPer1K: DefaultEccBitsPer1K,

		DRAMBytes:    DefaultDRAMBytes,
		FastMapBytes: DefaultFastMapBytes,

		BaseGranularity: GranularityBlock,
		FastGranularity: GranularityPage,
		SubpagesPerPage: DefaultSubpagesPerPage,
	}
}

// Validate checks the invariants every derived record relies on: all
// multiplicity fields strictly positive, and the fast-tier DRAM reservation
// within the total DRAM budget.
func (cfg *Config) Validate() error {
	multiplicities := []struct {
		name  string
		value uint32
	}{
		{"bits-per-cell", cfg.BitsPerCell},
		{"bytes-per-page", cfg.BytesPerPage},
		{"pages-per-block", cfg.PagesPerBlock},
		{"blocks-per-plane", cfg.BlocksPerPlane},
		{"planes-per-die", cfg.PlanesPerDie},
		{"dies-per-package", cfg.DiesPerPackage},
		{"packages", cfg.Packages},
	}
	for _, m := range multiplicities {
		if m.value == 0 {
			return fmt.Errorf("%w: invalid `%s`; expected: > 0, given: 0", ErrInvalidConfiguration, m.name)
		}
	}

	if cfg.FastMapBytes > cfg.DRAMBytes {
		return fmt.Errorf("%w: invalid `fast-map-dram`; expected: <= `dram` (%d), given: %d",
			ErrInvalidConfiguration, cfg.DRAMBytes, cfg.FastMapBytes)
	}

	return nil
}
