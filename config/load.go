package config

import (
	"fmt"
	"strconv"

	"code.cloudfoundry.org/bytefmt"
	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
)

// fileConfig mirrors Config with the fields a human writes as text: sizes as
// strings like "4KiB" or "2GB", enumerations by name. Load resolves it to a
// typed Config.
type fileConfig struct {
	BitsPerCell   uint32 `mapstructure:"bits-per-cell"`
	BytesPerPage  string `mapstructure:"bytes-per-page"`
	PagesPerBlock uint32 `mapstructure:"pages-per-block"`

	BlocksPerPlane uint32 `mapstructure:"blocks-per-plane"`
	PlanesPerDie   uint32 `mapstructure:"planes-per-die"`
	DiesPerPackage uint32 `mapstructure:"dies-per-package"`
	Packages       uint32 `mapstructure:"packages"`

	EccKind      string `mapstructure:"ecc-kind"`
	EccBitsPer1K uint32 `mapstructure:"ecc-bits-per-1k"`

	DRAM        string `mapstructure:"dram"`
	FastMapDRAM string `mapstructure:"fast-map-dram"`

	BaseGranularity string `mapstructure:"base-granularity"`
	FastGranularity string `mapstructure:"fast-granularity"`
	SubpagesPerPage uint32 `mapstructure:"subpages-per-page"`
}

// ParseSize resolves a size string to a byte count. Plain integers are taken
// as bytes; otherwise the value is parsed as a human-readable quantity such as
// "4KiB", "16M" or "2GB" (power-of-two units).
func ParseSize(s string) (uint64, error) {
	if n, err := strconv.ParseUint(s, 10, 64); err == nil {
		return n, nil
	}
	n, err := bytefmt.ToBytes(s)
	if err != nil {
		return 0, fmt.Errorf("%w: invalid size %q: %v", ErrInvalidConfiguration, s, err)
	}
	return n, nil
}

// Load reads a device configuration file (YAML, TOML or JSON, by extension),
// resolves size strings and enumeration names, and validates the result.
// Fields absent from the file keep their defaults.
func Load(path string) (*Config, error) {
	def := DefaultConfig()

	vip := viper.New()
	vip.SetConfigFile(path)

	vip.SetDefault("bits-per-cell", def.BitsPerCell)
	vip.SetDefault("bytes-per-page", strconv.FormatUint(uint64(def.BytesPerPage), 10))
	vip.SetDefault("pages-per-block", def.PagesPerBlock)
	vip.SetDefault("blocks-per-plane", def.BlocksPerPlane)
	vip.SetDefault("planes-per-die", def.PlanesPerDie)
	vip.SetDefault("dies-per-package", def.DiesPerPackage)
	vip.SetDefault("packages", def.Packages)
	vip.SetDefault("ecc-kind", def.EccKind.String())
	vip.SetDefault("ecc-bits-per-1k", def.EccBitsPer1K)
	vip.SetDefault("dram", strconv.FormatUint(def.DRAMBytes, 10))
	vip.SetDefault("fast-map-dram", strconv.FormatUint(def.FastMapBytes, 10))
	vip.SetDefault("base-granularity", def.BaseGranularity.String())
	vip.SetDefault("fast-granularity", def.FastGranularity.String())
	vip.SetDefault("subpages-per-page", def.SubpagesPerPage)

	if err := vip.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file %v: %w", path, err)
	}

	// Size fields may be written as plain numbers or as strings like "4KiB".
	weaklyTyped := func(dc *mapstructure.DecoderConfig) { dc.WeaklyTypedInput = true }

	var fc fileConfig
	if err := vip.Unmarshal(&fc, weaklyTyped); err != nil {
		return nil, fmt.Errorf("failed to parse config file %v: %w", path, err)
	}

	return fc.resolve()
}

func (fc *fileConfig) resolve() (*Config, error) {
	cfg := &Config{
		BitsPerCell:    fc.BitsPerCell,
		PagesPerBlock:  fc.PagesPerBlock,
		BlocksPerPlane: fc.BlocksPerPlane,
		PlanesPerDie:   fc.PlanesPerDie,
		DiesPerPackage: fc.DiesPerPackage,
		Packages:       fc.Packages,
		EccBitsPer1K:   fc.EccBitsPer1K,

		SubpagesPerPage: fc.SubpagesPerPage,
	}

	pageBytes, err := ParseSize(fc.BytesPerPage)
	if err != nil {
		return nil, fmt.Errorf("invalid `bytes-per-page`: %w", err)
	}
	if pageBytes > 1<<32-1 {
		return nil, fmt.Errorf("%w: invalid `bytes-per-page`; expected: < 4GiB, given: %d",
			ErrInvalidConfiguration, pageBytes)
	}
	cfg.BytesPerPage = uint32(pageBytes)

	if cfg.EccKind, err = ParseEccKind(fc.EccKind); err != nil {
		return nil, err
	}

	if cfg.DRAMBytes, err = ParseSize(fc.DRAM); err != nil {
		return nil, fmt.Errorf("invalid `dram`: %w", err)
	}
	if cfg.FastMapBytes, err = ParseSize(fc.FastMapDRAM); err != nil {
		return nil, fmt.Errorf("invalid `fast-map-dram`: %w", err)
	}

	if cfg.BaseGranularity, err = ParseGranularity(fc.BaseGranularity); err != nil {
		return nil, fmt.Errorf("invalid `base-granularity`: %w", err)
	}
	if cfg.FastGranularity, err = ParseGranularity(fc.FastGranularity); err != nil {
		return nil, fmt.Errorf("invalid `fast-granularity`: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}
