package volume

import (
	"math"

	"github.com/pkg/errors"
	"github.com/unixpickle/model3d/model3d"
)

// ReferenceGrid derives the common isotropic grid all volumes are
// resampled onto. The volume with the most voxels contributes origin and
// direction, and its extent determines the target dimensions at the
// requested voxel edge length.
func ReferenceGrid(grids []*Grid, voxelLength float64) (*Grid, error) {
	if len(grids) == 0 {
		return nil, errors.New("reference grid: no volumes")
	}
	largest := grids[0]
	for _, g := range grids[1:] {
		if g.VoxelCount() > largest.VoxelCount() {
			largest = g
		}
	}
	nx := int(largest.Spacing.X/voxelLength*float64(largest.Nx) + 0.5)
	ny := int(largest.Spacing.Y/voxelLength*float64(largest.Ny) + 0.5)
	nz := int(largest.Spacing.Z/voxelLength*float64(largest.Nz) + 0.5)
	if nx < 1 || ny < 1 || nz < 1 {
		return nil, errors.Errorf("reference grid: voxel length %f larger than volume extent", voxelLength)
	}
	iso := model3d.XYZ(voxelLength, voxelLength, voxelLength)
	return NewGrid(nx, ny, nz, iso, largest.Origin, largest.Direction), nil
}

// Resample maps src onto the geometry of ref with nearest-neighbor
// interpolation. Points falling outside src become background.
func Resample(src, ref *Grid) *Grid {
	out := NewGrid(ref.Nx, ref.Ny, ref.Nz, ref.Spacing, ref.Origin, ref.Direction)
	for z := 0; z < out.Nz; z++ {
		for y := 0; y < out.Ny; y++ {
			for x := 0; x < out.Nx; x++ {
				idx := src.ContinuousIndex(out.Center(x, y, z))
				sx := int(math.Round(idx.X))
				sy := int(math.Round(idx.Y))
				sz := int(math.Round(idx.Z))
				if v := src.At(sx, sy, sz); v != 0 {
					out.Set(x, y, z, v)
				}
			}
		}
	}
	return out
}
