// Package meshio writes triangle meshes as binary STL or VTK PolyData
// XML (VTP) files.
package meshio

import (
	"os"

	"github.com/pkg/errors"
	"github.com/unixpickle/model3d/model3d"

	"nii2mesh/internal/config"
)

// Write stores the mesh at path in the given format (config.FormatSTL or
// config.FormatVTP).
func Write(path, format string, m *model3d.Mesh) error {
	switch format {
	case config.FormatSTL:
		return WriteSTL(path, m)
	case config.FormatVTP:
		return WriteVTP(path, m)
	default:
		return errors.Errorf("unknown mesh format %q", format)
	}
}

// WriteSTL stores the mesh as a binary STL file.
func WriteSTL(path string, m *model3d.Mesh) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, "write stl")
	}
	defer f.Close()
	if err := model3d.WriteSTL(f, m.TriangleSlice()); err != nil {
		return errors.Wrapf(err, "write stl %s", path)
	}
	return nil
}
