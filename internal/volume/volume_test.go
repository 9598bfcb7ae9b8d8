package volume

import (
	"math"
	"testing"

	"github.com/unixpickle/model3d/model3d"
)

// 90 degree rotation about z: x axis maps to y.
func rotZ90() *model3d.Matrix3 {
	return model3d.NewMatrix3Columns(
		model3d.Y(1),
		model3d.X(-1),
		model3d.Z(1),
	)
}

func TestAtOutOfBounds(t *testing.T) {
	g := NewGrid(2, 2, 2, model3d.XYZ(1, 1, 1), model3d.Coord3D{}, Identity3())
	g.Set(1, 1, 1, 9)

	if got := g.At(1, 1, 1); got != 9 {
		t.Errorf("At(1,1,1) = %d, want 9", got)
	}
	for _, c := range [][3]int{{-1, 0, 0}, {0, -1, 0}, {0, 0, -1}, {2, 0, 0}, {0, 2, 0}, {0, 0, 2}} {
		if got := g.At(c[0], c[1], c[2]); got != 0 {
			t.Errorf("At(%v) = %d, want 0", c, got)
		}
	}
}

func TestCenterContinuousIndexRoundTrip(t *testing.T) {
	g := NewGrid(4, 5, 6,
		model3d.XYZ(0.5, 1, 2),
		model3d.XYZ(-3, 7, 1),
		rotZ90())

	for _, idx := range [][3]int{{0, 0, 0}, {3, 4, 5}, {1, 2, 3}} {
		c := g.Center(idx[0], idx[1], idx[2])
		back := g.ContinuousIndex(c)
		want := model3d.XYZ(float64(idx[0]), float64(idx[1]), float64(idx[2]))
		if back.Dist(want) > 1e-9 {
			t.Errorf("round trip %v: got %v", idx, back)
		}
	}
}

func TestCenterAppliesDirection(t *testing.T) {
	g := NewGrid(4, 4, 4, model3d.XYZ(1, 1, 1), model3d.Coord3D{}, rotZ90())
	// One step along the voxel x axis moves along physical y.
	c := g.Center(1, 0, 0)
	if c.Dist(model3d.Y(1)) > 1e-9 {
		t.Errorf("Center(1,0,0) = %v, want (0,1,0)", c)
	}
}

func TestBounds(t *testing.T) {
	g := NewGrid(10, 20, 30, model3d.XYZ(1, 1, 1), model3d.XYZ(5, 5, 5), Identity3())
	min, max := g.Bounds()
	wantMin := model3d.XYZ(4.5, 4.5, 4.5)
	wantMax := model3d.XYZ(14.5, 24.5, 34.5)
	if min.Dist(wantMin) > 1e-9 || max.Dist(wantMax) > 1e-9 {
		t.Errorf("Bounds = %v..%v, want %v..%v", min, max, wantMin, wantMax)
	}
}

func TestMaxLabel(t *testing.T) {
	g := NewGrid(3, 3, 3, model3d.XYZ(1, 1, 1), model3d.Coord3D{}, Identity3())
	if g.MaxLabel() != 0 {
		t.Errorf("empty grid MaxLabel = %d", g.MaxLabel())
	}
	g.Set(0, 1, 2, 3)
	g.Set(2, 2, 2, 1)
	if g.MaxLabel() != 3 {
		t.Errorf("MaxLabel = %d, want 3", g.MaxLabel())
	}
}

func TestIdentity3(t *testing.T) {
	id := Identity3()
	if math.Abs(id.Det()-1) > 1e-12 {
		t.Errorf("Det = %v, want 1", id.Det())
	}
}
