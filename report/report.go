// Package report renders a device geometry and mapping layout for humans.
package report

import (
	"fmt"
	"io"

	"code.cloudfoundry.org/bytefmt"
	"github.com/olekukonko/tablewriter"

	"github.com/nandlab/ftlplan/config"
	"github.com/nandlab/ftlplan/geometry"
	"github.com/nandlab/ftlplan/mapping"
)

// Write renders the derived geometry and the mapping-table layout as a table:
// capacities in GiB, table sizes in MiB, coverage as a percentage.
func Write(w io.Writer, cfg *config.Config, geom geometry.Geometry, layout *mapping.Layout) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Section", "Field", "Value"})
	table.SetAutoMergeCells(true)
	table.SetRowLine(true)

	table.AppendBulk([][]string{
		{"Geometry", "User capacity", fmt.Sprintf("%.2f GiB", geom.UserCapacityGiB())},
		{"Geometry", "Raw capacity", bytefmt.ByteSize(geom.RawCapacityBytes)},
		{"Geometry", "Blocks total", fmt.Sprintf("%d", geom.BlocksTotal)},
		{"Geometry", "Pages total", fmt.Sprintf("%d", geom.PagesTotal)},
		{"Geometry", "Page size", fmt.Sprintf("%d B + %d B ECC", geom.BytesPerPage, geom.EccBytesPerPage)},
	})

	table.AppendBulk([][]string{
		{"Base mapping", "Granularity", cfg.BaseGranularity.String()},
		{"Base mapping", "Entries", fmt.Sprintf("%d", layout.BaseEntries)},
		{"Base mapping", "Table size", mib(layout.BaseBytes)},
	})

	table.AppendBulk([][]string{
		{"Fast mapping", "DRAM budget", mib(cfg.FastMapBytes)},
		{"Fast mapping", "Granularity", cfg.FastGranularity.String()},
		{"Fast mapping", "Entries requested", fmt.Sprintf("%d", layout.FastEntriesRequested)},
		{"Fast mapping", "Entries allocated", fmt.Sprintf("%d", layout.FastEntriesAllocated)},
		{"Fast mapping", "Table size", mib(layout.FastBytes)},
		{"Fast mapping", "Coverage", fmt.Sprintf("%.1f%%", layout.FastCoverage*100)},
	})

	table.Render()
}

func mib(bytes uint64) string {
	return fmt.Sprintf("%.2f MiB", float64(bytes)/float64(1<<20))
}
