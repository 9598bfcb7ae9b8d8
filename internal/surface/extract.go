// Package surface turns labeled volumes into triangle meshes: iso-surface
// extraction, constrained smoothing, and decimation to a target edge
// length.
package surface

import (
	"math"

	"github.com/unixpickle/model3d/model3d"

	"nii2mesh/internal/volume"
)

// Params controls extraction and smoothing for one label.
type Params struct {
	// VoxelSize is the isotropic voxel edge length of the label volume,
	// which is also the sampling step of the extraction.
	VoxelSize float64

	// SmoothIterations is the number of smoothing passes; 0 disables
	// smoothing.
	SmoothIterations int

	// SmoothStepSize is the per-iteration relaxation factor. Lower is
	// more stable but needs more iterations.
	SmoothStepSize float64

	// SmoothDistance is the radial distance a vertex may move from its
	// original position during smoothing.
	SmoothDistance float64
}

// labelSolid exposes one label of a grid as a model3d.Solid in physical
// coordinates. Containment is a nearest-voxel lookup, so the solid is
// piecewise constant at voxel resolution like the volume itself.
type labelSolid struct {
	grid  *volume.Grid
	label uint8

	min model3d.Coord3D
	max model3d.Coord3D
}

func newLabelSolid(g *volume.Grid, label uint8) *labelSolid {
	min, max := g.Bounds()
	return &labelSolid{grid: g, label: label, min: min, max: max}
}

func (l *labelSolid) Min() model3d.Coord3D {
	return l.min
}

func (l *labelSolid) Max() model3d.Coord3D {
	return l.max
}

func (l *labelSolid) Contains(c model3d.Coord3D) bool {
	if !model3d.InBounds(l, c) {
		return false
	}
	idx := l.grid.ContinuousIndex(c)
	x := int(math.Round(idx.X))
	y := int(math.Round(idx.Y))
	z := int(math.Round(idx.Z))
	return l.grid.At(x, y, z) == l.label
}

// Extract produces the surface mesh of one label, smoothed according to
// the params. The mesh is in physical coordinates.
func Extract(g *volume.Grid, label uint8, p Params) *model3d.Mesh {
	solid := newLabelSolid(g, label)
	mesh := model3d.MarchingCubesSearch(solid, p.VoxelSize, 8)
	if p.SmoothIterations > 0 {
		smoother := &model3d.MeshSmoother{
			StepSize:           p.SmoothStepSize,
			Iterations:         p.SmoothIterations,
			ConstraintDistance: p.SmoothDistance,
			ConstraintWeight:   1,
		}
		mesh = smoother.Smooth(mesh)
	}
	return mesh
}
