package mapping

import (
	"fmt"

	"github.com/nandlab/ftlplan/config"
	"github.com/nandlab/ftlplan/geometry"
	"github.com/nandlab/ftlplan/shared"
)

// UnitsForGranularity returns how many addressable mapping units a device has
// at the given granularity: one per block, one per page, or subpagesPerPage
// per page. It fails with config.ErrInvalidGranularity for an unrecognized
// selector, or for SubPage granularity with a zero subpage count.
func UnitsForGranularity(g config.Granularity, geom geometry.Geometry, subpagesPerPage uint32) (uint64, error) {
	switch g {
	case config.GranularityBlock:
		return geom.BlocksTotal, nil
	case config.GranularityPage:
		return geom.PagesTotal, nil
	case config.GranularitySubPage:
		if subpagesPerPage == 0 {
			return 0, fmt.Errorf("%w: SubPage mapping requires `subpages-per-page` > 0",
				config.ErrInvalidGranularity)
		}
		if shared.Uint64MulOverflow(geom.PagesTotal, uint64(subpagesPerPage)) {
			return 0, fmt.Errorf("%w: SubPage units exceed the uint64 range",
				config.ErrInvalidGranularity)
		}
		return geom.PagesTotal * uint64(subpagesPerPage), nil
	default:
		return 0, fmt.Errorf("%w: unknown granularity (%d)", config.ErrInvalidGranularity, int(g))
	}
}
