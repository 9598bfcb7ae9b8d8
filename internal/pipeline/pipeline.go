// Package pipeline runs the end-to-end conversion: discover NIfTI label
// volumes, resample and close them on a shared isotropic grid, merge
// them into one label volume, and emit one smoothed, remeshed surface
// per label.
package pipeline

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"nii2mesh/internal/config"
	"nii2mesh/internal/meshio"
	"nii2mesh/internal/niio"
	"nii2mesh/internal/surface"
	"nii2mesh/internal/volume"
)

// Pipeline converts a directory of segmentations into surface meshes.
type Pipeline struct {
	cfg config.Config
	log zerolog.Logger
}

// New creates a pipeline for the given configuration.
func New(cfg config.Config, log zerolog.Logger) *Pipeline {
	return &Pipeline{cfg: cfg, log: log}
}

// Discover lists the NIfTI files directly under dir, sorted by name.
func Discover(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, errors.Wrap(err, "discover inputs")
	}
	var files []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		if strings.HasSuffix(name, ".nii") || strings.HasSuffix(name, ".nii.gz") {
			files = append(files, filepath.Join(dir, name))
		}
	}
	sort.Strings(files)
	if len(files) == 0 {
		return nil, errors.Errorf("no NIfTI files (*.nii, *.nii.gz) in %s", dir)
	}
	return files, nil
}

// Stem strips the NIfTI extension from a file name.
func Stem(path string) string {
	name := filepath.Base(path)
	name = strings.TrimSuffix(name, ".gz")
	return strings.TrimSuffix(name, ".nii")
}

// Run executes the full conversion sequentially, one file and one label
// at a time.
func (p *Pipeline) Run() error {
	files, err := Discover(p.cfg.InputDir)
	if err != nil {
		return err
	}

	var names []string
	var originals []*volume.Grid
	for _, file := range files {
		g, err := niio.Read(file)
		if err != nil {
			return err
		}
		names = append(names, Stem(file))
		originals = append(originals, g)
		p.log.Debug().Str("file", file).
			Ints("dims", []int{g.Nx, g.Ny, g.Nz}).
			Msg("volume loaded")
	}

	ref, err := volume.ReferenceGrid(originals, p.cfg.VoxelResampleLength)
	if err != nil {
		return err
	}
	p.log.Info().
		Ints("dims", []int{ref.Nx, ref.Ny, ref.Nz}).
		Float64("voxel_length", p.cfg.VoxelResampleLength).
		Msg("reference grid computed")

	masks := make([]*volume.Grid, len(originals))
	for i, g := range originals {
		resampled := volume.Resample(g, ref)
		masks[i] = volume.Close(resampled, p.cfg.ClosingRadius)
		p.log.Info().Str("name", names[i]).Msg("volume resampled and closed")
	}

	composite, err := volume.Composite(masks)
	if err != nil {
		return err
	}
	composite = volume.Pad(composite, 1)

	if err := os.MkdirAll(p.cfg.OutputDir, 0755); err != nil {
		return errors.Wrap(err, "create output dir")
	}
	if err := p.cfg.WriteSidecar(p.cfg.OutputDir); err != nil {
		return err
	}

	params := surface.Params{
		VoxelSize:        p.cfg.VoxelResampleLength,
		SmoothIterations: p.cfg.SmoothingIterations,
		SmoothStepSize:   p.cfg.SmoothingRelaxationFactor,
		SmoothDistance:   p.cfg.SmoothingDistance,
	}
	for i, name := range names {
		label := uint8(i + 1)
		mesh := surface.Extract(composite, label, params)
		p.log.Info().Str("name", name).
			Int("triangles", len(mesh.TriangleSlice())).
			Msg("surface extracted")

		mesh = surface.Remesh(mesh, p.cfg.VoxelResampleLength, p.cfg.RemeshEdgeLength)
		stats := surface.MeshStats(mesh)
		p.log.Info().Str("name", name).
			Int("triangles", stats.Triangles).
			Float64("mean_edge", stats.MeanEdge).
			Float64("stddev_edge", stats.StddevEdge).
			Float64("target_edge", p.cfg.RemeshEdgeLength).
			Msg("mesh remeshed")

		outPath := filepath.Join(p.cfg.OutputDir, fmt.Sprintf("%s.%s", name, p.cfg.OutputFormat))
		if err := meshio.Write(outPath, p.cfg.OutputFormat, mesh); err != nil {
			return err
		}
		p.log.Info().Str("path", outPath).Msg("mesh written")
	}
	return nil
}
