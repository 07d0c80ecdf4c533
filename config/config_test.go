package config

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestValidate(t *testing.T) {
	t.Parallel()

	require.NoError(t, DefaultConfig().Validate())

	t.Run("zero multiplicity", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.PlanesPerDie = 0
		require.ErrorIs(t, cfg.Validate(), ErrInvalidConfiguration)
	})

	t.Run("fast reservation exceeds dram", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.DRAMBytes = 1 << 20
		cfg.FastMapBytes = 2 << 20
		require.ErrorIs(t, cfg.Validate(), ErrInvalidConfiguration)
	})

	t.Run("fast reservation equal to dram", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.DRAMBytes = 1 << 20
		cfg.FastMapBytes = 1 << 20
		require.NoError(t, cfg.Validate())
	})
}

func TestParseEccKind(t *testing.T) {
	t.Parallel()

	for text, want := range map[string]EccKind{
		"none": EccNone,
		"None": EccNone,
		"":     EccNone,
		"BCH":  EccBCH,
		"bch":  EccBCH,
		"LDPC": EccLDPC,
		"ldpc": EccLDPC,
	} {
		kind, err := ParseEccKind(text)
		require.NoError(t, err, text)
		require.Equal(t, want, kind, text)
	}

	_, err := ParseEccKind("hamming")
	require.ErrorIs(t, err, ErrInvalidConfiguration)
}

func TestParseGranularity(t *testing.T) {
	t.Parallel()

	for text, want := range map[string]Granularity{
		"Block":    GranularityBlock,
		"block":    GranularityBlock,
		"Page":     GranularityPage,
		"SubPage":  GranularitySubPage,
		"subpage":  GranularitySubPage,
		"sub-page": GranularitySubPage,
	} {
		g, err := ParseGranularity(text)
		require.NoError(t, err, text)
		require.Equal(t, want, g, text)
	}

	_, err := ParseGranularity("sector")
	require.ErrorIs(t, err, ErrInvalidGranularity)
}

func TestEnumStrings(t *testing.T) {
	t.Parallel()

	require.Equal(t, "None", EccNone.String())
	require.Equal(t, "BCH", EccBCH.String())
	require.Equal(t, "LDPC", EccLDPC.String())

	require.Equal(t, "Block", GranularityBlock.String())
	require.Equal(t, "Page", GranularityPage.String())
	require.Equal(t, "SubPage", GranularitySubPage.String())
}
