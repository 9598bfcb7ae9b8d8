package volume

import (
	"github.com/pkg/errors"
	"github.com/unixpickle/model3d/model3d"
)

// Composite merges mask volumes sharing one grid geometry into a single
// label volume. Mask i contributes label value i+1; where masks overlap
// the highest label wins.
func Composite(masks []*Grid) (*Grid, error) {
	if len(masks) == 0 {
		return nil, errors.New("composite: no volumes")
	}
	if len(masks) > 255 {
		return nil, errors.Errorf("composite: %d volumes exceed the uint8 label range", len(masks))
	}
	first := masks[0]
	out := NewGrid(first.Nx, first.Ny, first.Nz, first.Spacing, first.Origin, first.Direction)
	for i, m := range masks {
		if m.Nx != first.Nx || m.Ny != first.Ny || m.Nz != first.Nz {
			return nil, errors.Errorf("composite: volume %d has mismatched dimensions", i)
		}
		label := uint8(i + 1)
		for j, v := range m.Data {
			if v != 0 {
				out.Data[j] = label
			}
		}
	}
	return out, nil
}

// Pad surrounds the grid with a shell of background voxels so that
// regions touching the volume boundary still produce closed surfaces.
// The origin shifts so existing voxels keep their physical positions.
func Pad(g *Grid, width int) *Grid {
	if width <= 0 {
		return g
	}
	shift := model3d.XYZ(
		-float64(width)*g.Spacing.X,
		-float64(width)*g.Spacing.Y,
		-float64(width)*g.Spacing.Z,
	)
	origin := g.Origin.Add(g.Direction.MulColumn(shift))
	out := NewGrid(g.Nx+2*width, g.Ny+2*width, g.Nz+2*width, g.Spacing, origin, g.Direction)
	for z := 0; z < g.Nz; z++ {
		for y := 0; y < g.Ny; y++ {
			for x := 0; x < g.Nx; x++ {
				out.Set(x+width, y+width, z+width, g.At(x, y, z))
			}
		}
	}
	return out
}
