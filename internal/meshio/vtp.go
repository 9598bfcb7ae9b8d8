package meshio

import (
	"bufio"
	"fmt"
	"os"

	"github.com/pkg/errors"
	"github.com/unixpickle/model3d/model3d"
)

// WriteVTP stores the mesh as an ascii VTK PolyData XML file. Shared
// vertices are merged so the point list matches the mesh connectivity.
func WriteVTP(path string, m *model3d.Mesh) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, "write vtp")
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	if err := encodeVTP(w, m); err != nil {
		return errors.Wrapf(err, "write vtp %s", path)
	}
	if err := w.Flush(); err != nil {
		return errors.Wrapf(err, "write vtp %s", path)
	}
	return nil
}

func encodeVTP(w *bufio.Writer, m *model3d.Mesh) error {
	tris := m.TriangleSlice()

	indices := map[model3d.Coord3D]int{}
	var points []model3d.Coord3D
	connectivity := make([]int, 0, 3*len(tris))
	for _, t := range tris {
		for _, c := range t {
			idx, ok := indices[c]
			if !ok {
				idx = len(points)
				indices[c] = idx
				points = append(points, c)
			}
			connectivity = append(connectivity, idx)
		}
	}

	fmt.Fprintf(w, "<?xml version=\"1.0\"?>\n")
	fmt.Fprintf(w, "<VTKFile type=\"PolyData\" version=\"1.0\" byte_order=\"LittleEndian\" header_type=\"UInt64\">\n")
	fmt.Fprintf(w, "  <PolyData>\n")
	fmt.Fprintf(w, "    <Piece NumberOfPoints=\"%d\" NumberOfVerts=\"0\" NumberOfLines=\"0\" NumberOfStrips=\"0\" NumberOfPolys=\"%d\">\n",
		len(points), len(tris))

	fmt.Fprintf(w, "      <Points>\n")
	fmt.Fprintf(w, "        <DataArray type=\"Float32\" Name=\"Points\" NumberOfComponents=\"3\" format=\"ascii\">\n")
	for _, p := range points {
		fmt.Fprintf(w, "          %g %g %g\n", float32(p.X), float32(p.Y), float32(p.Z))
	}
	fmt.Fprintf(w, "        </DataArray>\n")
	fmt.Fprintf(w, "      </Points>\n")

	fmt.Fprintf(w, "      <Polys>\n")
	fmt.Fprintf(w, "        <DataArray type=\"Int64\" Name=\"connectivity\" format=\"ascii\">\n")
	for i := 0; i < len(connectivity); i += 3 {
		fmt.Fprintf(w, "          %d %d %d\n", connectivity[i], connectivity[i+1], connectivity[i+2])
	}
	fmt.Fprintf(w, "        </DataArray>\n")
	fmt.Fprintf(w, "        <DataArray type=\"Int64\" Name=\"offsets\" format=\"ascii\">\n")
	for i := range tris {
		fmt.Fprintf(w, "          %d\n", 3*(i+1))
	}
	fmt.Fprintf(w, "        </DataArray>\n")
	fmt.Fprintf(w, "      </Polys>\n")

	fmt.Fprintf(w, "    </Piece>\n")
	fmt.Fprintf(w, "  </PolyData>\n")
	_, err := fmt.Fprintf(w, "</VTKFile>\n")
	return err
}
