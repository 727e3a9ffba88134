package config

import (
	"flag"
	"fmt"
	"os"

	"github.com/gmlewis/obj2voxel/geom"
	"gopkg.in/yaml.v3"
)

// Load builds a VoxelizationArgs with priority defaults < file < flags,
// parsing flags from args (typically os.Args[1:]).
func Load(args []string) (*VoxelizationArgs, error) {
	cfg := Default()

	fs := flag.NewFlagSet("obj2voxel", flag.ContinueOnError)
	configPath := fs.String("config", "", "path to a YAML config file")
	input := fs.String("i", "", "input mesh path (OBJ or STL)")
	output := fs.String("o", "", "output file path")
	resolution := fs.Uint("r", 0, "voxel grid resolution along the longest mesh axis")
	permutation := fs.String("p", "", "axis permutation, e.g. \"xyz\"")
	strategy := fs.String("strategy", "", "color combine strategy: BLEND or MAX")
	format := fs.String("f", "", "output format: binvox, svx, or photon")
	texture := fs.String("texture", "", "texture sampling mode: nearest or bilinear")
	workers := fs.Int("workers", 0, "worker pool size (0 = number of CPUs)")
	downscale := fs.Int("downscale", -1, "number of halving passes to apply after merge")
	logLevel := fs.String("log-level", "", "log level: debug, info, warn, or error")
	logFile := fs.String("log-file", "", "optional rotated log file path")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	if *configPath != "" {
		if err := loadFromFile(cfg, *configPath); err != nil {
			return nil, fmt.Errorf("loading config from %s: %w", *configPath, err)
		}
	}

	if *input != "" {
		cfg.Input = *input
	}
	if *output != "" {
		cfg.Output = *output
	}
	if *resolution != 0 {
		cfg.Resolution = uint32(*resolution)
	}
	if *permutation != "" {
		cfg.Permutation = *permutation
	}
	if *strategy != "" {
		cfg.Strategy = *strategy
	}
	if *format != "" {
		cfg.Format = SinkFormat(*format)
	}
	if *texture != "" {
		cfg.Texture = TextureMode(*texture)
	}
	if *workers != 0 {
		cfg.Workers = *workers
	}
	if *downscale >= 0 {
		cfg.Downscale = *downscale
	}
	if *logLevel != "" {
		cfg.Logging.Level = *logLevel
	}
	if *logFile != "" {
		cfg.Logging.LogFile = *logFile
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func loadFromFile(cfg *VoxelizationArgs, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, cfg)
}

// Validate rejects argument combinations that the pipeline cannot act on.
func (a *VoxelizationArgs) Validate() error {
	if a.Input == "" {
		return fmt.Errorf("config: input path is required")
	}
	if a.Output == "" {
		return fmt.Errorf("config: output path is required")
	}
	if a.Resolution == 0 {
		return fmt.Errorf("config: resolution must be positive")
	}
	switch a.Strategy {
	case "BLEND", "MAX":
	default:
		return fmt.Errorf("config: unknown strategy %q (want BLEND or MAX)", a.Strategy)
	}
	switch a.Format {
	case FormatBinvox, FormatSVX, FormatPhoton:
	default:
		return fmt.Errorf("config: unknown format %q (want binvox, svx, or photon)", a.Format)
	}
	switch a.Texture {
	case TextureNearest, TextureBilinear:
	default:
		return fmt.Errorf("config: unknown texture mode %q (want nearest or bilinear)", a.Texture)
	}
	if _, ok := geom.ParsePermutation(a.Permutation); !ok {
		return fmt.Errorf("config: invalid axis permutation %q (want a permutation of x, y, z)", a.Permutation)
	}
	if a.Downscale < 0 {
		return fmt.Errorf("config: downscale passes must be non-negative")
	}
	return nil
}
