package surface

import (
	"github.com/fogleman/simplify"
	"github.com/unixpickle/model3d/model3d"
	"gonum.org/v1/gonum/stat"
)

// Remesh decimates a mesh extracted at voxelSize toward a target edge
// length. A clustering remesher with cells·(L/edge)²/2 clusters emits
// about cells·(L/edge)² triangles, so that triangle count is the
// decimation target; when the target edge is finer than the voxel grid
// the mesh is returned unchanged.
func Remesh(mesh *model3d.Mesh, voxelSize, edgeLength float64) *model3d.Mesh {
	ratio := (voxelSize / edgeLength) * (voxelSize / edgeLength)
	if ratio >= 1 {
		return mesh
	}
	tris := mesh.TriangleSlice()
	in := make([]*simplify.Triangle, len(tris))
	for i, t := range tris {
		in[i] = simplify.NewTriangle(vec(t[0]), vec(t[1]), vec(t[2]))
	}
	out := simplify.NewMesh(in).Simplify(ratio)
	result := model3d.NewMesh()
	for _, t := range out.Triangles {
		result.Add(&model3d.Triangle{coord(t.V1), coord(t.V2), coord(t.V3)})
	}
	return result
}

func vec(c model3d.Coord3D) simplify.Vector {
	return simplify.Vector{X: c.X, Y: c.Y, Z: c.Z}
}

func coord(v simplify.Vector) model3d.Coord3D {
	return model3d.XYZ(v.X, v.Y, v.Z)
}

// Stats summarizes mesh quality after remeshing.
type Stats struct {
	Triangles  int
	MeanEdge   float64
	StddevEdge float64
}

// MeshStats measures the triangle count and edge length distribution.
// Interior edges are counted once per adjacent triangle, which leaves
// the mean and spread unchanged.
func MeshStats(m *model3d.Mesh) Stats {
	tris := m.TriangleSlice()
	lengths := make([]float64, 0, 3*len(tris))
	for _, t := range tris {
		lengths = append(lengths,
			t[0].Dist(t[1]),
			t[1].Dist(t[2]),
			t[2].Dist(t[0]),
		)
	}
	s := Stats{Triangles: len(tris)}
	if len(lengths) > 0 {
		s.MeanEdge = stat.Mean(lengths, nil)
		s.StddevEdge = stat.StdDev(lengths, nil)
	}
	return s
}
