// Package volume stores labeled voxel volumes positioned in physical
// space and implements the volume stages of the conversion pipeline:
// isotropic resampling, morphological closing, and label compositing.
package volume

import (
	"github.com/unixpickle/model3d/model3d"
)

// A Grid is a dense 3D array of uint8 labels together with the affine
// placing it in physical space. Data is stored x-fastest, then y, then z,
// matching the NIfTI on-disk order.
type Grid struct {
	Nx, Ny, Nz int

	// Spacing holds the voxel edge length along each axis.
	Spacing model3d.Coord3D

	// Origin is the physical position of the center of voxel (0, 0, 0).
	Origin model3d.Coord3D

	// Direction columns are the unit direction cosines of the three
	// voxel axes.
	Direction *model3d.Matrix3

	Data []uint8
}

// NewGrid creates a zero-filled grid with the given geometry.
func NewGrid(nx, ny, nz int, spacing, origin model3d.Coord3D, direction *model3d.Matrix3) *Grid {
	return &Grid{
		Nx:        nx,
		Ny:        ny,
		Nz:        nz,
		Spacing:   spacing,
		Origin:    origin,
		Direction: direction,
		Data:      make([]uint8, nx*ny*nz),
	}
}

// VoxelCount returns the total number of voxels.
func (g *Grid) VoxelCount() int {
	return g.Nx * g.Ny * g.Nz
}

// At gets the value at integer coordinates.
// If a coordinate is out of bounds, 0 is returned.
func (g *Grid) At(x, y, z int) uint8 {
	if x < 0 || y < 0 || z < 0 || x >= g.Nx || y >= g.Ny || z >= g.Nz {
		return 0
	}
	return g.Data[x+g.Nx*(y+z*g.Ny)]
}

// Set stores a value at integer coordinates, which must be in bounds.
func (g *Grid) Set(x, y, z int, v uint8) {
	g.Data[x+g.Nx*(y+z*g.Ny)] = v
}

// Center returns the physical position of the center of voxel (x, y, z).
func (g *Grid) Center(x, y, z int) model3d.Coord3D {
	local := model3d.XYZ(
		float64(x)*g.Spacing.X,
		float64(y)*g.Spacing.Y,
		float64(z)*g.Spacing.Z,
	)
	return g.Origin.Add(g.Direction.MulColumn(local))
}

// ContinuousIndex maps a physical position to fractional voxel
// coordinates, the inverse of Center.
func (g *Grid) ContinuousIndex(c model3d.Coord3D) model3d.Coord3D {
	local := g.Direction.Inverse().MulColumn(c.Sub(g.Origin))
	return model3d.XYZ(local.X/g.Spacing.X, local.Y/g.Spacing.Y, local.Z/g.Spacing.Z)
}

// Bounds returns the axis-aligned physical bounding box of the grid,
// extended half a voxel past the outermost voxel centers.
func (g *Grid) Bounds() (min, max model3d.Coord3D) {
	first := true
	for _, x := range []float64{-0.5, float64(g.Nx) - 0.5} {
		for _, y := range []float64{-0.5, float64(g.Ny) - 0.5} {
			for _, z := range []float64{-0.5, float64(g.Nz) - 0.5} {
				local := model3d.XYZ(x*g.Spacing.X, y*g.Spacing.Y, z*g.Spacing.Z)
				c := g.Origin.Add(g.Direction.MulColumn(local))
				if first {
					min, max = c, c
					first = false
				} else {
					min = min.Min(c)
					max = max.Max(c)
				}
			}
		}
	}
	return
}

// MaxLabel returns the largest label value present in the grid.
func (g *Grid) MaxLabel() uint8 {
	var max uint8
	for _, v := range g.Data {
		if v > max {
			max = v
		}
	}
	return max
}

// Identity3 returns the identity direction matrix.
func Identity3() *model3d.Matrix3 {
	return &model3d.Matrix3{1, 0, 0, 0, 1, 0, 0, 0, 1}
}
