// Command nii2mesh batch-converts NIfTI label volumes into triangular
// surface meshes (VTP or STL).
//
// Each *.nii / *.nii.gz file under the input directory is treated as one
// segmentation mask. All masks are resampled to a shared isotropic grid,
// morphologically closed, and merged into a single label volume; every
// label is then extracted as a smoothed, remeshed surface and written to
// the output directory along with a config.json sidecar recording the
// parameters used.
package main

import (
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/unixpickle/essentials"

	"nii2mesh/internal/config"
	"nii2mesh/internal/pipeline"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		essentials.Die(err)
	}
}

func newRootCommand() *cobra.Command {
	flags := config.Default()
	var configFile string
	var logLevel string

	cmd := &cobra.Command{
		Use:           "nii2mesh",
		Short:         "Convert NIfTI label volumes into surface meshes",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			level, err := zerolog.ParseLevel(logLevel)
			if err != nil {
				return err
			}
			log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
				Level(level).
				With().
				Timestamp().
				Logger()

			cfg := config.Default()
			if configFile != "" {
				cfg, err = config.Load(configFile)
				if err != nil {
					return err
				}
			}
			mergeFlags(cmd, &cfg, flags)
			if err := cfg.Validate(); err != nil {
				return err
			}

			return pipeline.New(cfg, log).Run()
		},
	}

	f := cmd.Flags()
	f.StringVar(&flags.InputDir, "input_dir", flags.InputDir,
		"Root directory containing NIfTI files")
	f.StringVar(&flags.OutputDir, "output_dir", flags.OutputDir,
		"Output directory for processed files")
	f.Float64Var(&flags.VoxelResampleLength, "voxel_resample_length", flags.VoxelResampleLength,
		"Voxel edge length after resampling")
	f.IntVar(&flags.ClosingRadius, "closing_radius", flags.ClosingRadius,
		"Voxel radius of the ball kernel used for morphological closing of labels")
	f.Float64Var(&flags.SmoothingDistance, "smoothing_distance", flags.SmoothingDistance,
		"Radial distance a node can move during smoothing")
	f.Float64Var(&flags.SmoothingRelaxationFactor, "smoothing_relaxation_factor", flags.SmoothingRelaxationFactor,
		"Smoothing relaxation factor; lower is more stable but requires more iterations")
	f.IntVar(&flags.SmoothingIterations, "smoothing_iterations", flags.SmoothingIterations,
		"Smoothing iterations")
	f.Float64Var(&flags.RemeshEdgeLength, "remesh_edge_length", flags.RemeshEdgeLength,
		"Target edge length after uniform remeshing")
	f.StringVar(&flags.OutputFormat, "output_format", flags.OutputFormat,
		"Output file format (vtp or stl)")
	f.StringVar(&configFile, "config_file", "",
		"Path to a configuration file; explicitly set flags override its settings")
	f.StringVar(&logLevel, "log_level", "info",
		"Log level (trace, debug, info, warn, error)")

	return cmd
}

// mergeFlags overlays only the flags the user actually set onto the
// configuration, so a config file keeps authority over unset flags.
func mergeFlags(cmd *cobra.Command, cfg *config.Config, flags config.Config) {
	set := cmd.Flags().Changed
	if set("input_dir") {
		cfg.InputDir = flags.InputDir
	}
	if set("output_dir") {
		cfg.OutputDir = flags.OutputDir
	}
	if set("voxel_resample_length") {
		cfg.VoxelResampleLength = flags.VoxelResampleLength
	}
	if set("closing_radius") {
		cfg.ClosingRadius = flags.ClosingRadius
	}
	if set("smoothing_distance") {
		cfg.SmoothingDistance = flags.SmoothingDistance
	}
	if set("smoothing_relaxation_factor") {
		cfg.SmoothingRelaxationFactor = flags.SmoothingRelaxationFactor
	}
	if set("smoothing_iterations") {
		cfg.SmoothingIterations = flags.SmoothingIterations
	}
	if set("remesh_edge_length") {
		cfg.RemeshEdgeLength = flags.RemeshEdgeLength
	}
	if set("output_format") {
		cfg.OutputFormat = flags.OutputFormat
	}
}
