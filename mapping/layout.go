// Package mapping sizes and allocates the two FTL address-mapping tables: a
// coarse base tier spanning the whole device, and a fine fast tier that must
// fit in its DRAM reservation and may cover only a prefix of the address
// space when the reservation is too small.
package mapping

import (
	"errors"
	"fmt"
	"unsafe"

	"go.uber.org/zap"

	"github.com/nandlab/ftlplan/config"
	"github.com/nandlab/ftlplan/geometry"
	"github.com/nandlab/ftlplan/internal/mem"
	"github.com/nandlab/ftlplan/shared"
)

// PPA is an opaque 64-bit physical page address.
type PPA uint64

// UnmappedPPA marks a table entry with no physical page assigned. The
// all-bits-set value doubles as the sentinel so no parallel validity bitmap is
// needed; a freshly built table reads as unmapped everywhere.
const UnmappedPPA = PPA(^uint64(0))

// EntrySize is the fixed width of one mapping-table entry, in bytes.
const EntrySize = 8

// Layout owns the two mapping tables for its lifetime. Entry counts and byte
// sizes are fixed at construction; the tables themselves are initialized to
// UnmappedPPA and never touched again by this package. Close releases both
// tables together.
type Layout struct {
	// Base tier: always built, spans the full device.
	BaseEntries uint64
	BaseBytes   uint64

	// Fast tier: built only when the DRAM reservation is > 0. Allocated
	// entries never exceed requested entries, and FastBytes never exceeds
	// the reservation.
	FastEntriesRequested uint64
	FastEntriesAllocated uint64
	FastBytes            uint64

	// FastCoverage is FastEntriesAllocated / FastEntriesRequested, in
	// (0, 1]; 0 when nothing was requested or nothing fit.
	FastCoverage float64

	baseRegion *mem.Region
	base       []PPA
	fast       []PPA
}

type option struct {
	logger *zap.Logger
}

// OptionFunc is a function that sets an option for a Layout instance.
type OptionFunc func(*option) error

// WithLogger sets the logger the layout build reports to.
func WithLogger(logger *zap.Logger) OptionFunc {
	return func(opts *option) error {
		if logger == nil {
			return errors.New("`logger` is required")
		}
		opts.logger = logger
		return nil
	}
}

// NewLayout sizes and allocates both mapping tiers for a device. Construction
// is atomic: all entry counts are computed and validated before either table
// is allocated, so a failure never leaks a partial layout. A fast tier that
// does not fully fit its DRAM reservation is not an error; it degrades to
// covering a prefix of the address space and reports the coverage fraction.
func NewLayout(cfg *config.Config, geom geometry.Geometry, opts ...OptionFunc) (*Layout, error) {
	options := &option{logger: zap.NewNop()}
	for _, opt := range opts {
		if err := opt(options); err != nil {
			return nil, err
		}
	}

	if cfg.FastMapBytes > cfg.DRAMBytes {
		return nil, fmt.Errorf("%w: invalid `fast-map-dram`; expected: <= `dram` (%d), given: %d",
			config.ErrInvalidConfiguration, cfg.DRAMBytes, cfg.FastMapBytes)
	}

	baseEntries, err := UnitsForGranularity(cfg.BaseGranularity, geom, cfg.SubpagesPerPage)
	if err != nil {
		return nil, err
	}
	if shared.Uint64MulOverflow(baseEntries, EntrySize) {
		return nil, fmt.Errorf("%w: base table size exceeds the uint64 range", config.ErrInvalidConfiguration)
	}

	var fastRequested uint64
	if cfg.FastMapBytes > 0 {
		fastRequested, err = UnitsForGranularity(cfg.FastGranularity, geom, cfg.SubpagesPerPage)
		if err != nil {
			return nil, err
		}
	}

	l := &Layout{
		BaseEntries:          baseEntries,
		BaseBytes:            baseEntries * EntrySize,
		FastEntriesRequested: fastRequested,
	}

	// Base tier: the table spans the full device and may run to gigabytes,
	// so it lives in a lazily committed region. Writing the sentinel
	// touches every page; the laziness pays off for base tiers that later
	// stay partially resident.
	l.baseRegion, err = mem.Alloc(l.BaseBytes)
	if err != nil {
		return nil, fmt.Errorf("failed to allocate base table: %w", err)
	}
	l.base = regionPPAs(l.baseRegion, baseEntries)
	fillUnmapped(l.base)

	// Fast tier: densely committed, clamped to what the DRAM reservation
	// can hold.
	if fastRequested > 0 {
		maxBySpace := cfg.FastMapBytes / EntrySize
		allocated := min(fastRequested, maxBySpace)
		if allocated > 0 {
			l.fast = make([]PPA, allocated)
			fillUnmapped(l.fast)
			l.FastEntriesAllocated = allocated
			l.FastBytes = allocated * EntrySize
			l.FastCoverage = float64(allocated) / float64(fastRequested)
		}
	}

	options.logger.Info("mapping: layout built",
		zap.Stringer("base_granularity", cfg.BaseGranularity),
		zap.Uint64("base_entries", l.BaseEntries),
		zap.Uint64("base_bytes", l.BaseBytes),
		zap.Stringer("fast_granularity", cfg.FastGranularity),
		zap.Uint64("fast_entries_requested", l.FastEntriesRequested),
		zap.Uint64("fast_entries_allocated", l.FastEntriesAllocated),
		zap.Uint64("fast_bytes", l.FastBytes),
		zap.Float64("fast_coverage", l.FastCoverage),
	)

	return l, nil
}

// BaseTable returns the base-tier table. Valid until Close.
func (l *Layout) BaseTable() []PPA {
	return l.base
}

// FastTable returns the fast-tier table, or nil when no fast tier was built.
// Valid until Close.
func (l *Layout) FastTable() []PPA {
	return l.fast
}

// Close releases both tables in one combined teardown. The owner must not use
// slices obtained from BaseTable or FastTable afterwards. Close is idempotent.
func (l *Layout) Close() error {
	l.base = nil
	l.fast = nil
	if l.baseRegion == nil {
		return nil
	}
	region := l.baseRegion
	l.baseRegion = nil
	if err := region.Free(); err != nil {
		return fmt.Errorf("failed to release base table: %w", err)
	}
	return nil
}

// regionPPAs views a region as a PPA table. Regions are page-aligned, so the
// 64-bit view is always properly aligned.
func regionPPAs(region *mem.Region, entries uint64) []PPA {
	if entries == 0 {
		return nil
	}
	data := region.Bytes()
	return unsafe.Slice((*PPA)(unsafe.Pointer(&data[0])), entries)
}

func fillUnmapped(table []PPA) {
	for i := range table {
		table[i] = UnmappedPPA
	}
}
