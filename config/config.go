// Package config handles voxelizer configuration: sensible defaults,
// merged with an optional YAML file, merged with CLI flags.
package config

// SinkFormat names an output adapter.
type SinkFormat string

const (
	FormatBinvox SinkFormat = "binvox"
	FormatSVX    SinkFormat = "svx"
	FormatPhoton SinkFormat = "photon"
)

// TextureMode names a texture sampling mode.
type TextureMode string

const (
	TextureNearest  TextureMode = "nearest"
	TextureBilinear TextureMode = "bilinear"
)

// VoxelizationArgs holds every parameter of a single voxelization run.
type VoxelizationArgs struct {
	Input       string        `yaml:"input"`
	Output      string        `yaml:"output"`
	Resolution  uint32        `yaml:"resolution"`
	Permutation string        `yaml:"permutation"`
	Strategy    string        `yaml:"strategy"`
	Format      SinkFormat    `yaml:"format"`
	Texture     TextureMode   `yaml:"texture"`
	Workers     int           `yaml:"workers"`
	Downscale   int           `yaml:"downscale"`
	Logging     LoggingConfig `yaml:"logging"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a VoxelizationArgs with sensible default values.
func Default() *VoxelizationArgs {
	return &VoxelizationArgs{
		Resolution:  256,
		Permutation: "xyz",
		Strategy:    "MAX",
		Format:      FormatBinvox,
		Texture:     TextureNearest,
		Workers:     0,
		Downscale:   0,
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}
