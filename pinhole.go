package camgeom

import (
	"math"
	"time"

	"github.com/golang/geo/r2"
	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
)

// PinholeCameraModel is an idealized monocular camera built from a calibration
// snapshot. K and P are adjusted for the calibration's binning and region of
// interest so that all projection math operates in the coordinates of the
// transmitted image; the full-resolution originals are kept alongside. The
// model is immutable once constructed: a new calibration means a new model.
type PinholeCameraModel struct {
	k          Mat3x3
	rot        Mat3x3
	p          Mat3x4
	fullK      Mat3x3
	fullP      Mat3x4
	d          []float64
	distortion Distorter
	width      int
	height     int
	binningX   int
	binningY   int
	roi        RegionOfInterest
	frameID    string
	timestamp  time.Time

	// rectification maps, built on first use, not projection state
	mapX []float64
	mapY []float64
}

// NewPinholeCameraModel builds a model from raw calibration. Binning factors
// are clamped to at least 1 and an all-zero ROI resolves to the full image.
// Numeric content is trusted as calibrated; only matrix dimensions are
// checked.
func NewPinholeCameraModel(info *CameraInfo) (*PinholeCameraModel, error) {
	if info == nil {
		return nil, NewNoIntrinsicsError("no CameraInfo provided")
	}
	fullK, err := NewMat3x3(info.K)
	if err != nil {
		return nil, errors.Wrap(err, "camera matrix K")
	}
	rot, err := NewMat3x3(info.R)
	if err != nil {
		return nil, errors.Wrap(err, "rectification matrix R")
	}
	fullP, err := NewMat3x4(info.P)
	if err != nil {
		return nil, errors.Wrap(err, "projection matrix P")
	}

	var d []float64
	var distortion Distorter
	if len(info.D) != 0 {
		d = make([]float64, len(info.D))
		copy(d, info.D)
		model := info.DistortionModel
		if model == "" {
			model = BrownConradyDistortionType
		}
		distortion, err = NewDistorter(model, d)
		if err != nil {
			return nil, err
		}
	}

	binningX := info.BinningX
	if binningX < 1 {
		binningX = 1
	}
	binningY := info.BinningY
	if binningY < 1 {
		binningY = 1
	}
	// ROI all zeros is considered the same as full resolution
	roi := info.ROI
	if roi.XOffset == 0 && roi.YOffset == 0 && roi.Width == 0 && roi.Height == 0 {
		roi.Width = info.Width
		roi.Height = info.Height
	}

	// Adjust K and P for binning and ROI
	bx, by := float64(binningX), float64(binningY)
	k := fullK
	k[0][0] /= bx
	k[1][1] /= by
	k[0][2] = (k[0][2] - float64(roi.XOffset)) / bx
	k[1][2] = (k[1][2] - float64(roi.YOffset)) / by
	p := fullP
	p[0][0] /= bx
	p[1][1] /= by
	p[0][2] = (p[0][2] - float64(roi.XOffset)) / bx
	p[1][2] = (p[1][2] - float64(roi.YOffset)) / by

	return &PinholeCameraModel{
		k:          k,
		rot:        rot,
		p:          p,
		fullK:      fullK,
		fullP:      fullP,
		d:          d,
		distortion: distortion,
		width:      info.Width,
		height:     info.Height,
		binningX:   binningX,
		binningY:   binningY,
		roi:        roi,
		frameID:    info.FrameID,
		timestamp:  info.Timestamp,
	}, nil
}

// Project3DToPixel returns the rectified pixel coordinates of a 3D point in
// the camera frame, projected through P. A point on the camera plane (w == 0)
// projects to (NaN, NaN).
// This is the inverse of ProjectPixelTo3DRay.
func (m *PinholeCameraModel) Project3DToPixel(point r3.Vector) r2.Point {
	x := m.p.At(0, 0)*point.X + m.p.At(0, 1)*point.Y + m.p.At(0, 2)*point.Z + m.p.At(0, 3)
	y := m.p.At(1, 0)*point.X + m.p.At(1, 1)*point.Y + m.p.At(1, 2)*point.Z + m.p.At(1, 3)
	w := m.p.At(2, 0)*point.X + m.p.At(2, 1)*point.Y + m.p.At(2, 2)*point.Z + m.p.At(2, 3)
	if w == 0 {
		return r2.Point{X: math.NaN(), Y: math.NaN()}
	}
	return r2.Point{X: x / w, Y: y / w}
}

// ProjectPixelTo3DRay returns the unit vector passing from the camera center
// through rectified pixel (u, v). Depth along the ray is unknowable from one
// camera, so only the direction comes back.
// This is the inverse of Project3DToPixel.
func (m *PinholeCameraModel) ProjectPixelTo3DRay(uv r2.Point) r3.Vector {
	return r3.Vector{
		X: (uv.X - m.Cx()) / m.Fx(),
		Y: (uv.Y - m.Cy()) / m.Fy(),
		Z: 1,
	}.Normalize()
}

// DeltaU computes the pixel column displacement for a displacement deltaX in
// cartesian space at depth z. Returns +Inf at z == 0.
// For given z, this is the inverse of DeltaX.
func (m *PinholeCameraModel) DeltaU(deltaX, z float64) float64 {
	if z == 0 {
		return math.Inf(1)
	}
	return m.Fx() * deltaX / z
}

// DeltaV computes the pixel row displacement for a displacement deltaY in
// cartesian space at depth z. Returns +Inf at z == 0.
// For given z, this is the inverse of DeltaY.
func (m *PinholeCameraModel) DeltaV(deltaY, z float64) float64 {
	if z == 0 {
		return math.Inf(1)
	}
	return m.Fy() * deltaY / z
}

// DeltaX computes the cartesian displacement for a pixel column displacement
// deltaU at depth z.
// For given z, this is the inverse of DeltaU.
func (m *PinholeCameraModel) DeltaX(deltaU, z float64) float64 {
	return z * deltaU / m.Fx()
}

// DeltaY computes the cartesian displacement for a pixel row displacement
// deltaV at depth z.
// For given z, this is the inverse of DeltaV.
func (m *PinholeCameraModel) DeltaY(deltaV, z float64) float64 {
	return z * deltaV / m.Fy()
}

// IntrinsicMatrix returns K, adjusted for binning and ROI.
func (m *PinholeCameraModel) IntrinsicMatrix() Mat3x3 {
	return m.k
}

// DistortionCoeffs returns a copy of D, or nil when the camera reported none.
func (m *PinholeCameraModel) DistortionCoeffs() []float64 {
	if m.d == nil {
		return nil
	}
	out := make([]float64, len(m.d))
	copy(out, m.d)
	return out
}

// Distorter returns the lens distortion model, or nil when the camera
// reported no distortion.
func (m *PinholeCameraModel) Distorter() Distorter {
	return m.distortion
}

// RotationMatrix returns the rectification rotation R.
func (m *PinholeCameraModel) RotationMatrix() Mat3x3 {
	return m.rot
}

// ProjectionMatrix returns P, adjusted for binning and ROI.
func (m *PinholeCameraModel) ProjectionMatrix() Mat3x4 {
	return m.p
}

// FullIntrinsicMatrix returns the original camera matrix for full resolution.
func (m *PinholeCameraModel) FullIntrinsicMatrix() Mat3x3 {
	return m.fullK
}

// FullProjectionMatrix returns the projection matrix for full resolution.
func (m *PinholeCameraModel) FullProjectionMatrix() Mat3x4 {
	return m.fullP
}

// Cx returns the x center.
func (m *PinholeCameraModel) Cx() float64 {
	return m.p.At(0, 2)
}

// Cy returns the y center.
func (m *PinholeCameraModel) Cy() float64 {
	return m.p.At(1, 2)
}

// Fx returns the x focal length.
func (m *PinholeCameraModel) Fx() float64 {
	return m.p.At(0, 0)
}

// Fy returns the y focal length.
func (m *PinholeCameraModel) Fy() float64 {
	return m.p.At(1, 1)
}

// Tx returns the x-translation term of the projection matrix.
func (m *PinholeCameraModel) Tx() float64 {
	return m.p.At(0, 3)
}

// Ty returns the y-translation term of the projection matrix.
func (m *PinholeCameraModel) Ty() float64 {
	return m.p.At(1, 3)
}

// Width returns the full sensor resolution width, before any ROI or binning.
func (m *PinholeCameraModel) Width() int {
	return m.width
}

// Height returns the full sensor resolution height, before any ROI or binning.
func (m *PinholeCameraModel) Height() int {
	return m.height
}

// BinningX returns the horizontal binning factor, at least 1.
func (m *PinholeCameraModel) BinningX() int {
	return m.binningX
}

// BinningY returns the vertical binning factor, at least 1.
func (m *PinholeCameraModel) BinningY() int {
	return m.binningY
}

// ROI returns the effective region of interest, with the all-zero sentinel
// already resolved to the full image.
func (m *PinholeCameraModel) ROI() RegionOfInterest {
	return m.roi
}

// TFFrame returns the tf frame name of the camera.
func (m *PinholeCameraModel) TFFrame() string {
	return m.frameID
}

// Timestamp returns the time of the calibration this model was built from.
func (m *PinholeCameraModel) Timestamp() time.Time {
	return m.timestamp
}
