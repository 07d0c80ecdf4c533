package main

import (
	"fmt"
	"os"

	hostmem "github.com/shirou/gopsutil/v3/mem"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/nandlab/ftlplan/config"
	"github.com/nandlab/ftlplan/geometry"
	"github.com/nandlab/ftlplan/mapping"
	"github.com/nandlab/ftlplan/report"
)

var (
	cfgFile  string
	logLevel string

	flagDRAM         string
	flagFastMapDRAM  string
	flagBaseGran     string
	flagFastGran     string
	flagSubpages     uint32
	flagSkipHeadroom bool
)

var rootCmd = &cobra.Command{
	Use:   "ftlplan",
	Short: "Derive NAND device geometry and size the FTL mapping tables",
	Long: `ftlplan derives a consistent device geometry (capacity, page/block counts,
ECC overhead) from a declarative configuration, then sizes and allocates the
two FTL address-mapping tables: a coarse base tier spanning the full device
and a fast DRAM-resident tier that may cover only part of the address space
when its memory budget is insufficient.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return run()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "device config file (yaml/toml/json)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "logLevel", "info", "log level (debug, info, warn, error)")

	rootCmd.Flags().StringVar(&flagDRAM, "dram", "", "override total controller DRAM (e.g. \"2GiB\")")
	rootCmd.Flags().StringVar(&flagFastMapDRAM, "fastMapDram", "", "override DRAM reserved for the fast mapping tier (e.g. \"16MiB\")")
	rootCmd.Flags().StringVar(&flagBaseGran, "baseGranularity", "", "override base mapping granularity (Block, Page, SubPage)")
	rootCmd.Flags().StringVar(&flagFastGran, "fastGranularity", "", "override fast mapping granularity (Block, Page, SubPage)")
	rootCmd.Flags().Uint32Var(&flagSubpages, "subpagesPerPage", 0, "override subpages per page (SubPage granularity only)")
	rootCmd.Flags().BoolVar(&flagSkipHeadroom, "skipHeadroomCheck", false, "skip the host memory headroom check")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "ftlplan: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	logger, err := newLogger()
	if err != nil {
		return err
	}
	defer logger.Sync()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	geom, err := geometry.Derive(cfg)
	if err != nil {
		return err
	}
	logger.Info("derived geometry",
		zap.Float64("user_capacity_gib", geom.UserCapacityGiB()),
		zap.Uint64("blocks_total", geom.BlocksTotal),
		zap.Uint64("pages_total", geom.PagesTotal),
		zap.Uint64("ecc_bytes_per_page", geom.EccBytesPerPage),
	)

	if !flagSkipHeadroom {
		checkHeadroom(logger, cfg, geom)
	}

	layout, err := mapping.NewLayout(cfg, geom, mapping.WithLogger(logger))
	if err != nil {
		return err
	}
	defer layout.Close()

	report.Write(os.Stdout, cfg, geom, layout)
	return nil
}

func loadConfig() (*config.Config, error) {
	cfg := config.DefaultConfig()
	if cfgFile != "" {
		var err error
		if cfg, err = config.Load(cfgFile); err != nil {
			return nil, err
		}
	}

	// CLI flags take priority over the config file.
	var err error
	if flagDRAM != "" {
		if cfg.DRAMBytes, err = config.ParseSize(flagDRAM); err != nil {
			return nil, err
		}
	}
	if flagFastMapDRAM != "" {
		if cfg.FastMapBytes, err = config.ParseSize(flagFastMapDRAM); err != nil {
			return nil, err
		}
	}
	if flagBaseGran != "" {
		if cfg.BaseGranularity, err = config.ParseGranularity(flagBaseGran); err != nil {
			return nil, err
		}
	}
	if flagFastGran != "" {
		if cfg.FastGranularity, err = config.ParseGranularity(flagFastGran); err != nil {
			return nil, err
		}
	}
	if flagSubpages > 0 {
		cfg.SubpagesPerPage = flagSubpages
	}

	return cfg, cfg.Validate()
}

// checkHeadroom warns when the planned tables would not fit in the host's
// available memory. Advisory only: the base tier is lazily committed, so the
// build itself may still succeed.
func checkHeadroom(logger *zap.Logger, cfg *config.Config, geom geometry.Geometry) {
	baseEntries, err := mapping.UnitsForGranularity(cfg.BaseGranularity, geom, cfg.SubpagesPerPage)
	if err != nil {
		return // NewLayout will report it
	}
	need := baseEntries*mapping.EntrySize + cfg.FastMapBytes

	vm, err := hostmem.VirtualMemory()
	if err != nil {
		logger.Debug("host memory stats unavailable", zap.Error(err))
		return
	}
	if need > vm.Available {
		logger.Warn("planned tables exceed available host memory",
			zap.Uint64("needed_bytes", need),
			zap.Uint64("available_bytes", vm.Available),
		)
	}
}

func newLogger() (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(logLevel)
	if err != nil {
		return nil, fmt.Errorf("invalid `logLevel`: %w", err)
	}

	zapCfg := zap.Config{
		Level:    zap.NewAtomicLevelAt(level),
		Encoding: "console",
		EncoderConfig: zapcore.EncoderConfig{
			TimeKey:        "T",
			LevelKey:       "L",
			NameKey:        "N",
			MessageKey:     "M",
			LineEnding:     zapcore.DefaultLineEnding,
			EncodeLevel:    zapcore.CapitalLevelEncoder,
			EncodeTime:     zapcore.ISO8601TimeEncoder,
			EncodeDuration: zapcore.StringDurationEncoder,
		},
		OutputPaths:      []string{"stderr"},
		ErrorOutputPaths: []string{"stderr"},
	}
	return zapCfg.Build()
}
