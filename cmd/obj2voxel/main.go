// obj2voxel converts a triangle mesh into a voxel grid, sampling color
// from per-triangle materials or textures, and writes the result as a
// binvox, SVX, or ChiTuBox/.cbddlp file.
package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/gmlewis/obj2voxel/config"
	"github.com/gmlewis/obj2voxel/geom"
	"github.com/gmlewis/obj2voxel/logger"
	"github.com/gmlewis/obj2voxel/meshobj"
	"github.com/gmlewis/obj2voxel/meshstl"
	"github.com/gmlewis/obj2voxel/photonsink"
	"github.com/gmlewis/obj2voxel/pipeline"
	"github.com/gmlewis/obj2voxel/svxsink"
	"github.com/gmlewis/obj2voxel/texture"
	"github.com/gmlewis/obj2voxel/voxelize"
	"github.com/gmlewis/obj2voxel/voxsink"
	"go.uber.org/zap"
)

func main() {
	args, err := config.Load(os.Args[1:])
	check("parsing arguments: %v", err)

	log, err := logger.New(args.Logging.Level, args.Logging.LogFile)
	check("initializing logger: %v", err)
	defer log.Sync()

	log.Info("loaded configuration",
		zap.String("input", args.Input),
		zap.String("output", args.Output),
		zap.Uint32("resolution", args.Resolution),
		zap.String("format", string(args.Format)),
	)

	strategy, ok := voxelize.ParseStrategy(args.Strategy)
	if !ok {
		check("parsing strategy: %v", fmt.Errorf("unknown strategy %q", args.Strategy))
	}
	perm, ok := geom.ParsePermutation(args.Permutation)
	if !ok {
		check("parsing permutation: %v", fmt.Errorf("invalid permutation %q", args.Permutation))
	}

	sink, err := newSink(args)
	check("selecting output sink: %v", err)

	mesh := newMesh(args)

	opts := pipeline.Options{
		Resolution:      args.Resolution,
		Permutation:     perm,
		Strategy:        strategy,
		Workers:         args.Workers,
		DownscalePasses: args.Downscale,
		Logger:          log,
	}

	err = pipeline.Run(mesh, sink, opts)
	check("voxelizing %q: %v", args.Input, err)

	log.Info("done")
}

// newMesh selects the mesh reader by the input file's extension: OBJ
// files carry materials and textures; STL files are geometry-only.
func newMesh(args *config.VoxelizationArgs) pipeline.Mesh {
	mode := texture.Nearest
	if args.Texture == config.TextureBilinear {
		mode = texture.Bilinear
	}
	if strings.HasSuffix(strings.ToLower(args.Input), ".obj") {
		return meshobj.Open(args.Input, mode)
	}
	return meshstl.Open(args.Input)
}

func newSink(args *config.VoxelizationArgs) (pipeline.VoxelSink, error) {
	switch args.Format {
	case config.FormatBinvox:
		return voxsink.New(args.Output), nil
	case config.FormatSVX:
		return svxsink.New(args.Output), nil
	case config.FormatPhoton:
		return photonsink.New(args.Output), nil
	default:
		return nil, fmt.Errorf("unknown output format %q", args.Format)
	}
}

func check(fmtStr string, args ...any) {
	err := args[len(args)-1]
	if err != nil {
		fmt.Fprintf(os.Stderr, fmtStr+"\n", args...)
		os.Exit(1)
	}
}
