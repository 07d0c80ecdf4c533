package config

import (
	"fmt"
	"strings"
)

// EccKind selects the error-correction model used when estimating per-page
// ECC overhead.
type EccKind int

const (
	EccNone EccKind = iota
	EccBCH
	EccLDPC
)

func (k EccKind) String() string {
	switch k {
	case EccNone:
		return "None"
	case EccBCH:
		return "BCH"
	case EccLDPC:
		return "LDPC"
	default:
		return fmt.Sprintf("EccKind(%d)", int(k))
	}
}

// ParseEccKind resolves a textual ECC kind to the closed enumeration.
func ParseEccKind(s string) (EccKind, error) {
	switch strings.ToLower(s) {
	case "none", "":
		return EccNone, nil
	case "bch":
		return EccBCH, nil
	case "ldpc":
		return EccLDPC, nil
	default:
		return 0, fmt.Errorf("%w: invalid `ecc-kind`; expected: one of None, BCH, LDPC, given: %q",
			ErrInvalidConfiguration, s)
	}
}

// Granularity selects how many mapping-table entries a mapping tier keeps per
// unit of physical storage.
type Granularity int

const (
	// GranularityBlock keeps one mapping entry per block.
	GranularityBlock Granularity = iota
	// GranularityPage keeps one mapping entry per physical page.
	GranularityPage
	// GranularitySubPage keeps multiple mapping entries per page,
	// SubpagesPerPage each.
	GranularitySubPage
)

func (g Granularity) String() string {
	switch g {
	case GranularityBlock:
		return "Block"
	case GranularityPage:
		return "Page"
	case GranularitySubPage:
		return "SubPage"
	default:
		return fmt.Sprintf("Granularity(%d)", int(g))
	}
}

// ParseGranularity resolves a textual granularity to the closed enumeration.
func ParseGranularity(s string) (Granularity, error) {
	switch strings.ToLower(s) {
	case "block":
		return GranularityBlock, nil
	case "page":
		return GranularityPage, nil
	case "subpage", "sub-page":
		return GranularitySubPage, nil
	default:
		return 0, fmt.Errorf("%w: expected: one of Block, Page, SubPage, given: %q",
			ErrInvalidGranularity, s)
	}
}
