package surface

import (
	"math"
	"testing"

	"github.com/unixpickle/model3d/model3d"
)

func TestRemeshReducesTriangles(t *testing.T) {
	g := sphereGrid(24, 8, 1)
	mesh := Extract(g, 1, Params{VoxelSize: 1})
	before := len(mesh.TriangleSlice())

	out := Remesh(mesh, 1, 4)
	after := len(out.TriangleSlice())
	if after == 0 {
		t.Fatal("remeshed mesh is empty")
	}
	if after >= before/2 {
		t.Errorf("expected a strong reduction, got %d -> %d", before, after)
	}
}

func TestRemeshSkipsWhenTargetIsFiner(t *testing.T) {
	g := sphereGrid(12, 4, 1)
	mesh := Extract(g, 1, Params{VoxelSize: 1})

	if out := Remesh(mesh, 1, 0.5); out != mesh {
		t.Error("a target edge finer than the voxel size should be a no-op")
	}
	if out := Remesh(mesh, 1, 1); out != mesh {
		t.Error("a target edge equal to the voxel size should be a no-op")
	}
}

func TestMeshStats(t *testing.T) {
	m := model3d.NewMesh()
	m.Add(&model3d.Triangle{
		model3d.XYZ(0, 0, 0),
		model3d.XYZ(1, 0, 0),
		model3d.XYZ(0, 1, 0),
	})

	s := MeshStats(m)
	if s.Triangles != 1 {
		t.Fatalf("Triangles = %d, want 1", s.Triangles)
	}
	wantMean := (1 + 1 + math.Sqrt2) / 3
	if math.Abs(s.MeanEdge-wantMean) > 1e-9 {
		t.Errorf("MeanEdge = %v, want %v", s.MeanEdge, wantMean)
	}
	if s.StddevEdge <= 0 {
		t.Errorf("StddevEdge = %v, want positive", s.StddevEdge)
	}
}

func TestMeshStatsEmpty(t *testing.T) {
	s := MeshStats(model3d.NewMesh())
	if s.Triangles != 0 || s.MeanEdge != 0 || s.StddevEdge != 0 {
		t.Errorf("empty mesh stats = %+v, want zeros", s)
	}
}
