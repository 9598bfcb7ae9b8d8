package volume

import (
	"testing"

	"github.com/unixpickle/model3d/model3d"
)

func TestCompositeHighestLabelWins(t *testing.T) {
	a := cube(6, 0, 3, 1)
	b := cube(6, 2, 5, 1)

	comp, err := Composite([]*Grid{a, b})
	if err != nil {
		t.Fatalf("Composite: %v", err)
	}
	if got := comp.At(0, 0, 0); got != 1 {
		t.Errorf("voxel only in the first mask = %d, want 1", got)
	}
	if got := comp.At(5, 5, 5); got != 2 {
		t.Errorf("voxel only in the second mask = %d, want 2", got)
	}
	if got := comp.At(3, 3, 3); got != 2 {
		t.Errorf("overlapping voxel = %d, want the later label 2", got)
	}
	if comp.MaxLabel() != 2 {
		t.Errorf("MaxLabel = %d, want 2", comp.MaxLabel())
	}
}

func TestCompositeIgnoresMaskValue(t *testing.T) {
	// Mask voxels may carry any nonzero value; membership is what counts.
	a := cube(4, 1, 2, 255)
	comp, err := Composite([]*Grid{a})
	if err != nil {
		t.Fatalf("Composite: %v", err)
	}
	if got := comp.At(1, 1, 1); got != 1 {
		t.Errorf("voxel = %d, want label 1", got)
	}
}

func TestCompositeErrors(t *testing.T) {
	if _, err := Composite(nil); err == nil {
		t.Error("expected an error for no volumes")
	}

	a := cube(4, 0, 1, 1)
	b := cube(5, 0, 1, 1)
	if _, err := Composite([]*Grid{a, b}); err == nil {
		t.Error("expected an error for mismatched dimensions")
	}

	many := make([]*Grid, 256)
	for i := range many {
		many[i] = NewGrid(1, 1, 1, model3d.XYZ(1, 1, 1), model3d.Coord3D{}, Identity3())
	}
	if _, err := Composite(many); err == nil {
		t.Error("expected an error for more volumes than uint8 labels")
	}
}

func TestPadShiftsOrigin(t *testing.T) {
	g := NewGrid(2, 2, 2, model3d.XYZ(0.5, 0.5, 0.5), model3d.XYZ(10, 10, 10), Identity3())
	g.Set(0, 0, 0, 3)

	p := Pad(g, 1)
	if p.Nx != 4 || p.Ny != 4 || p.Nz != 4 {
		t.Fatalf("padded dims = %dx%dx%d, want 4x4x4", p.Nx, p.Ny, p.Nz)
	}
	if got := p.At(1, 1, 1); got != 3 {
		t.Errorf("shifted voxel = %d, want 3", got)
	}
	// The voxel keeps its physical position.
	if c := p.Center(1, 1, 1); c.Dist(g.Center(0, 0, 0)) > 1e-9 {
		t.Errorf("physical position moved: %v != %v", c, g.Center(0, 0, 0))
	}
	// The new shell is background.
	if got := p.At(0, 0, 0); got != 0 {
		t.Errorf("padding voxel = %d, want 0", got)
	}
}

func TestPadZeroWidthIsNoop(t *testing.T) {
	g := NewGrid(2, 2, 2, model3d.XYZ(1, 1, 1), model3d.Coord3D{}, Identity3())
	if Pad(g, 0) != g {
		t.Error("width 0 should return the input grid")
	}
}
