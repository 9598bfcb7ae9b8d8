package niio

import (
	"bytes"
	"encoding/binary"

	"github.com/pkg/errors"

	"nii2mesh/internal/volume"
)

// Encode serializes a grid as an uncompressed single-file NIfTI-1 volume
// (uint8 data, sform affine). The counterpart of ReadFrom, used for
// fixtures and for dumping intermediate volumes while debugging.
func Encode(g *volume.Grid) ([]byte, error) {
	h := header{
		SizeofHdr: minHeaderSize,
		Dim:       [8]int16{3, int16(g.Nx), int16(g.Ny), int16(g.Nz), 1, 1, 1, 1},
		Datatype:  dtUint8,
		Bitpix:    8,
		Pixdim: [8]float32{
			1,
			float32(g.Spacing.X),
			float32(g.Spacing.Y),
			float32(g.Spacing.Z),
			0, 0, 0, 0,
		},
		// Header plus the 4-byte extension indicator.
		VoxOffset: minHeaderSize + 4,
		SformCode: 1,
		Magic:     [4]int8{'n', '+', '1', 0},
	}
	spacing := []float64{g.Spacing.X, g.Spacing.Y, g.Spacing.Z}
	for j := 0; j < 3; j++ {
		col := g.Direction.MulColumn(axisUnit(j)).Scale(spacing[j])
		h.SrowX[j] = float32(col.X)
		h.SrowY[j] = float32(col.Y)
		h.SrowZ[j] = float32(col.Z)
	}
	h.SrowX[3] = float32(g.Origin.X)
	h.SrowY[3] = float32(g.Origin.Y)
	h.SrowZ[3] = float32(g.Origin.Z)

	var buf bytes.Buffer
	if err := binary.Write(&buf, binary.LittleEndian, &h); err != nil {
		return nil, errors.Wrap(err, "encode nifti")
	}
	// No header extensions.
	buf.Write([]byte{0, 0, 0, 0})
	buf.Write(g.Data)
	return buf.Bytes(), nil
}
