package geometry

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/nandlab/ftlplan/config"
)

func TestDeriveRejectsZeroMultiplicity(t *testing.T) {
	t.Parallel()

	zero := func(mutate func(*config.Config)) *config.Config {
		cfg := config.DefaultConfig()
		mutate(cfg)
		return cfg
	}

	cases := map[string]*config.Config{
		"bits-per-cell":    zero(func(c *config.Config) { c.BitsPerCell = 0 }),
		"bytes-per-page":   zero(func(c *config.Config) { c.BytesPerPage = 0 }),
		"pages-per-block":  zero(func(c *config.Config) { c.PagesPerBlock = 0 }),
		"blocks-per-plane": zero(func(c *config.Config) { c.BlocksPerPlane = 0 }),
		"planes-per-die":   zero(func(c *config.Config) { c.PlanesPerDie = 0 }),
		"dies-per-package": zero(func(c *config.Config) { c.DiesPerPackage = 0 }),
		"packages":         zero(func(c *config.Config) { c.Packages = 0 }),
	}

	for name, cfg := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Derive(cfg)
			require.ErrorIs(t, err, config.ErrInvalidConfiguration)
		})
	}
}

func TestDeriveCounts(t *testing.T) {
	t.Parallel()

	cfg := config.DefaultConfig()
	cfg.BlocksPerPlane = 1024
	cfg.PlanesPerDie = 2
	cfg.DiesPerPackage = 4
	cfg.Packages = 2
	cfg.PagesPerBlock = 256
	cfg.BytesPerPage = 4096

	g, err := Derive(cfg)
	require.NoError(t, err)

	require.Equal(t, uint64(16384), g.BlocksTotal)
	require.Equal(t, g.BlocksTotal*g.PagesPerBlock, g.PagesTotal)
	require.Equal(t, uint64(4194304), g.PagesTotal)
	require.Equal(t, g.PagesTotal*g.BytesPerPage, g.UserCapacityBytes)
	require.Equal(t, g.PagesTotal*(g.BytesPerPage+g.EccBytesPerPage), g.RawCapacityBytes)
}

func TestDeriveEccOverhead(t *testing.T) {
	t.Parallel()

	t.Run("none", func(t *testing.T) {
		cfg := config.DefaultConfig()
		cfg.EccKind = config.EccNone

		g, err := Derive(cfg)
		require.NoError(t, err)
		require.Zero(t, g.EccBytesPerPage)
		require.Equal(t, g.UserCapacityBytes, g.RawCapacityBytes)
	})

	t.Run("zero bits per 1k", func(t *testing.T) {
		cfg := config.DefaultConfig()
		cfg.EccKind = config.EccLDPC
		cfg.EccBitsPer1K = 0

		g, err := Derive(cfg)
		require.NoError(t, err)
		require.Zero(t, g.EccBytesPerPage)
	})

	t.Run("bch 40 bits per 1k on 4KiB pages", func(t *testing.T) {
		cfg := config.DefaultConfig()
		cfg.EccKind = config.EccBCH
		cfg.EccBitsPer1K = 40
		cfg.BytesPerPage = 4096

		g, err := Derive(cfg)
		require.NoError(t, err)
		// ceil(40*4/8)
		require.Equal(t, uint64(20), g.EccBytesPerPage)
	})

	t.Run("rounds up at the 1k and byte boundaries", func(t *testing.T) {
		cfg := config.DefaultConfig()
		cfg.EccKind = config.EccBCH
		cfg.BytesPerPage = 1025 // 2 units of 1 KiB
		cfg.EccBitsPer1K = 3    // 6 bits -> 1 byte

		g, err := Derive(cfg)
		require.NoError(t, err)
		require.Equal(t, uint64(1), g.EccBytesPerPage)
	})
}

func TestDeriveOverflow(t *testing.T) {
	t.Parallel()

	cfg := config.DefaultConfig()
	cfg.BlocksPerPlane = math.MaxUint32
	cfg.PlanesPerDie = math.MaxUint32
	cfg.DiesPerPackage = math.MaxUint32
	cfg.Packages = 1
	cfg.PagesPerBlock = math.MaxUint32

	_, err := Derive(cfg)
	require.ErrorIs(t, err, config.ErrInvalidConfiguration)
}

func TestUserCapacityGiB(t *testing.T) {
	t.Parallel()

	g := Geometry{UserCapacityBytes: 64 << 30}
	require.InDelta(t, 64.0, g.UserCapacityGiB(), 1e-9)
}
