// Package niio reads NIfTI-1 label volumes, from plain .nii files or
// gzip-compressed .nii.gz files.
//
// Header layout follows the official nifti1.h definition,
// https://nifti.nimh.nih.gov/pub/dist/src/niftilib/nifti1.h
package niio

import (
	"bytes"
	"compress/gzip"
	"encoding/binary"
	"io"
	"math"
	"os"
	"strings"

	"github.com/pkg/errors"
	"github.com/unixpickle/model3d/model3d"

	"nii2mesh/internal/volume"
)

// header is the fixed 348-byte NIfTI-1 header.
type header struct {
	SizeofHdr          int32
	UnusedDataType     [10]int8
	UnusedDbName       [18]int8
	UnusedExtents      int32
	UnusedSessionError int16
	UnusedRegular      int8
	DimInfo            int8
	Dim                [8]int16
	IntentP1           float32
	IntentP2           float32
	IntentP3           float32
	IntentCode         int16
	Datatype           int16
	Bitpix             int16
	SliceStart         int16
	Pixdim             [8]float32
	VoxOffset          float32
	SclSlope           float32
	SclInter           float32
	SliceEnd           int16
	SliceCode          int8
	XyztUnits          int8
	CalMax             float32
	CalMin             float32
	SliceDuration      float32
	Toffset            float32
	UnusedGlmax        int32
	UnusedGlmin        int32
	Descrip            [80]int8
	AuxFile            [24]int8
	QformCode          int16
	SformCode          int16
	QuaternB           float32
	QuaternC           float32
	QuaternD           float32
	QoffsetX           float32
	QoffsetY           float32
	QoffsetZ           float32
	SrowX              [4]float32
	SrowY              [4]float32
	SrowZ              [4]float32
	IntentName         [16]int8
	Magic              [4]int8
}

const minHeaderSize = 348

// NIfTI-1 datatype codes.
const (
	dtUint8   = 2
	dtInt16   = 4
	dtInt32   = 8
	dtFloat32 = 16
	dtFloat64 = 64
	dtInt8    = 256
	dtUint16  = 512
	dtUint32  = 768
)

// Read loads a NIfTI-1 file as a uint8 label grid. Files ending in .gz
// are decompressed transparently. Only the first timepoint of a 4D file
// is read.
func Read(path string) (*volume.Grid, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "read nifti")
	}
	defer f.Close()

	var r io.Reader = f
	if strings.HasSuffix(path, ".gz") {
		gz, err := gzip.NewReader(f)
		if err != nil {
			return nil, errors.Wrapf(err, "read nifti %s", path)
		}
		defer gz.Close()
		r = gz
	}
	g, err := ReadFrom(r)
	return g, errors.Wrapf(err, "read nifti %s", path)
}

// ReadFrom decodes an uncompressed NIfTI-1 stream.
func ReadFrom(r io.Reader) (*volume.Grid, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	// The header carries no byte-order mark; probe with little-endian
	// first and fall back to big-endian if the size field disagrees.
	var h header
	var order binary.ByteOrder = binary.LittleEndian
	if err := binary.Read(bytes.NewReader(raw), order, &h); err != nil {
		return nil, err
	}
	if h.SizeofHdr != minHeaderSize {
		order = binary.BigEndian
		if err := binary.Read(bytes.NewReader(raw), order, &h); err != nil {
			return nil, err
		}
	}
	if h.SizeofHdr != minHeaderSize {
		return nil, errors.New("not a NIfTI-1 file: bad header size")
	}
	if h.Magic != [4]int8{'n', '+', '1', 0} {
		return nil, errors.New("data must be stored in the same file as the header (magic n+1)")
	}
	if h.Dim[0] < 3 || h.Dim[0] > 7 {
		return nil, errors.Errorf("expected a 3D volume, got dim[0]=%d", h.Dim[0])
	}

	nx, ny, nz := int(h.Dim[1]), int(h.Dim[2]), int(h.Dim[3])
	if nx < 1 || ny < 1 || nz < 1 {
		return nil, errors.Errorf("degenerate dimensions %dx%dx%d", nx, ny, nz)
	}

	offset := int(h.VoxOffset)
	if offset < minHeaderSize {
		offset = minHeaderSize
	}
	bytesPerVoxel := int(h.Bitpix) / 8
	need := offset + nx*ny*nz*bytesPerVoxel
	if len(raw) < need {
		return nil, errors.Errorf("truncated voxel data: have %d bytes, need %d", len(raw), need)
	}
	data, err := decodeVoxels(raw[offset:need], h.Datatype, order)
	if err != nil {
		return nil, err
	}

	spacing, origin, direction := affine(&h)
	g := volume.NewGrid(nx, ny, nz, spacing, origin, direction)
	copy(g.Data, data)
	return g, nil
}

// decodeVoxels converts raw voxel bytes of any supported datatype into
// uint8 labels, clamping to [0, 255].
func decodeVoxels(raw []byte, datatype int16, order binary.ByteOrder) ([]uint8, error) {
	switch datatype {
	case dtUint8:
		return raw, nil
	case dtInt8:
		out := make([]uint8, len(raw))
		for i, b := range raw {
			out[i] = clampLabel(float64(int8(b)))
		}
		return out, nil
	case dtInt16:
		out := make([]uint8, len(raw)/2)
		for i := range out {
			out[i] = clampLabel(float64(int16(order.Uint16(raw[2*i:]))))
		}
		return out, nil
	case dtUint16:
		out := make([]uint8, len(raw)/2)
		for i := range out {
			out[i] = clampLabel(float64(order.Uint16(raw[2*i:])))
		}
		return out, nil
	case dtInt32:
		out := make([]uint8, len(raw)/4)
		for i := range out {
			out[i] = clampLabel(float64(int32(order.Uint32(raw[4*i:]))))
		}
		return out, nil
	case dtUint32:
		out := make([]uint8, len(raw)/4)
		for i := range out {
			out[i] = clampLabel(float64(order.Uint32(raw[4*i:])))
		}
		return out, nil
	case dtFloat32:
		out := make([]uint8, len(raw)/4)
		for i := range out {
			out[i] = clampLabel(float64(math.Float32frombits(order.Uint32(raw[4*i:]))))
		}
		return out, nil
	case dtFloat64:
		out := make([]uint8, len(raw)/8)
		for i := range out {
			out[i] = clampLabel(math.Float64frombits(order.Uint64(raw[8*i:])))
		}
		return out, nil
	default:
		return nil, errors.Errorf("unsupported NIfTI datatype %d", datatype)
	}
}

func clampLabel(v float64) uint8 {
	if v <= 0 || math.IsNaN(v) {
		return 0
	}
	if v >= 255 {
		return 255
	}
	return uint8(math.Round(v))
}

// affine derives voxel spacing, origin, and direction cosines from the
// header, preferring the sform, then the qform, then a pixdim-scaled
// identity.
func affine(h *header) (spacing, origin model3d.Coord3D, direction *model3d.Matrix3) {
	switch {
	case h.SformCode > 0:
		cols := [3]model3d.Coord3D{}
		for j := 0; j < 3; j++ {
			cols[j] = model3d.XYZ(
				float64(h.SrowX[j]),
				float64(h.SrowY[j]),
				float64(h.SrowZ[j]),
			)
		}
		spacing = model3d.XYZ(cols[0].Norm(), cols[1].Norm(), cols[2].Norm())
		for j, n := range []float64{spacing.X, spacing.Y, spacing.Z} {
			if n == 0 {
				cols[j] = axisUnit(j)
			} else {
				cols[j] = cols[j].Scale(1 / n)
			}
		}
		spacing = nonZeroSpacing(spacing)
		origin = model3d.XYZ(float64(h.SrowX[3]), float64(h.SrowY[3]), float64(h.SrowZ[3]))
		direction = model3d.NewMatrix3Columns(cols[0], cols[1], cols[2])
	case h.QformCode > 0:
		spacing = nonZeroSpacing(model3d.XYZ(
			float64(h.Pixdim[1]),
			float64(h.Pixdim[2]),
			float64(h.Pixdim[3]),
		))
		origin = model3d.XYZ(float64(h.QoffsetX), float64(h.QoffsetY), float64(h.QoffsetZ))
		direction = quaternToMatrix(
			float64(h.QuaternB), float64(h.QuaternC), float64(h.QuaternD),
			float64(h.Pixdim[0]),
		)
	default:
		spacing = nonZeroSpacing(model3d.XYZ(
			float64(h.Pixdim[1]),
			float64(h.Pixdim[2]),
			float64(h.Pixdim[3]),
		))
		origin = model3d.Coord3D{}
		direction = volume.Identity3()
	}
	return
}

func axisUnit(j int) model3d.Coord3D {
	switch j {
	case 0:
		return model3d.X(1)
	case 1:
		return model3d.Y(1)
	default:
		return model3d.Z(1)
	}
}

func nonZeroSpacing(s model3d.Coord3D) model3d.Coord3D {
	if s.X == 0 {
		s.X = 1
	}
	if s.Y == 0 {
		s.Y = 1
	}
	if s.Z == 0 {
		s.Z = 1
	}
	return s
}

// quaternToMatrix expands the qform quaternion (b, c, d) into a rotation
// matrix, with qfac flipping the third column for left-handed grids.
func quaternToMatrix(b, c, d, qfac float64) *model3d.Matrix3 {
	a := 1 - b*b - c*c - d*d
	if a < 0 {
		// Accumulated rounding in stored quaternions.
		a = 0
	}
	a = math.Sqrt(a)
	if qfac == 0 {
		qfac = 1
	} else if qfac < 0 {
		qfac = -1
	} else {
		qfac = 1
	}
	col0 := model3d.XYZ(a*a+b*b-c*c-d*d, 2*(b*c+a*d), 2*(b*d-a*c))
	col1 := model3d.XYZ(2*(b*c-a*d), a*a+c*c-b*b-d*d, 2*(c*d+a*b))
	col2 := model3d.XYZ(2*(b*d+a*c), 2*(c*d-a*b), a*a+d*d-c*c-b*b).Scale(qfac)
	return model3d.NewMatrix3Columns(col0, col1, col2)
}
