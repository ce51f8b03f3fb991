package camgeom

import (
	"math"

	"github.com/golang/geo/r2"
	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
)

// StereoCameraModel is an idealized stereo pair: two pinhole models over
// rectified images plus the 4x4 reprojection matrix Q that triangulates a
// left pixel and a disparity into a 3D point. 3D points are expressed in the
// left camera's frame.
type StereoCameraModel struct {
	left  *PinholeCameraModel
	right *PinholeCameraModel
	q     Mat4x4
}

// NewStereoCameraModel builds both camera models from their calibrations and
// derives Q from the right camera's projection matrix. A degenerate baseline
// or focal length shows up as infinite entries in Q, propagated rather than
// trapped; Z and Disparity have their own zero handling.
func NewStereoCameraModel(left, right *CameraInfo) (*StereoCameraModel, error) {
	l, err := NewPinholeCameraModel(left)
	if err != nil {
		return nil, errors.Wrap(err, "left camera")
	}
	r, err := NewPinholeCameraModel(right)
	if err != nil {
		return nil, errors.Wrap(err, "right camera")
	}

	fx := r.Fx()
	cx := r.Cx()
	cy := r.Cy()
	tx := -r.Tx() / fx

	var q Mat4x4
	q[0][0] = 1
	q[0][3] = -cx
	q[1][1] = 1
	q[1][3] = -cy
	q[2][3] = fx
	q[3][2] = 1 / tx

	return &StereoCameraModel{left: l, right: r, q: q}, nil
}

// Left returns the left camera model.
func (sm *StereoCameraModel) Left() *PinholeCameraModel {
	return sm.left
}

// Right returns the right camera model.
func (sm *StereoCameraModel) Right() *PinholeCameraModel {
	return sm.right
}

// ReprojectionMatrix returns Q, which maps (u, v, disparity, 1) to a
// homogeneous 3D point.
func (sm *StereoCameraModel) ReprojectionMatrix() Mat4x4 {
	return sm.q
}

// TFFrame returns the tf frame name of the 3D points, the left camera's frame.
func (sm *StereoCameraModel) TFFrame() string {
	return sm.left.TFFrame()
}

// Baseline returns the distance between the two camera centers, derived from
// the right camera's x-translation term.
func (sm *StereoCameraModel) Baseline() float64 {
	return -sm.right.Tx() / sm.right.Fx()
}

// Project3DToPixel returns the rectified pixel coordinates of a 3D point in
// each camera, (left, right).
// This is the inverse of ProjectPixelTo3D.
func (sm *StereoCameraModel) Project3DToPixel(point r3.Vector) (r2.Point, r2.Point) {
	return sm.left.Project3DToPixel(point), sm.right.Project3DToPixel(point)
}

// ProjectPixelTo3D triangulates the 3D point seen at the given left pixel
// with the given disparity, through Q. A disparity of zero puts the point at
// infinity and comes back as the zero vector.
// This is the inverse of Project3DToPixel.
func (sm *StereoCameraModel) ProjectPixelTo3D(leftUV r2.Point, disparity float64) r3.Vector {
	u, v, d := leftUV.X, leftUV.Y, disparity
	x := sm.q.At(0, 0)*u + sm.q.At(0, 1)*v + sm.q.At(0, 2)*d + sm.q.At(0, 3)
	y := sm.q.At(1, 0)*u + sm.q.At(1, 1)*v + sm.q.At(1, 2)*d + sm.q.At(1, 3)
	z := sm.q.At(2, 0)*u + sm.q.At(2, 1)*v + sm.q.At(2, 2)*d + sm.q.At(2, 3)
	w := sm.q.At(3, 0)*u + sm.q.At(3, 1)*v + sm.q.At(3, 2)*d + sm.q.At(3, 3)
	if w == 0 {
		return r3.Vector{}
	}
	return r3.Vector{X: x / w, Y: y / w, Z: z / w}
}

// Z returns the depth at which a point is observed with the given disparity.
// A disparity of zero means the point is at infinity.
// This is the inverse of Disparity.
func (sm *StereoCameraModel) Z(disparity float64) float64 {
	if disparity == 0 {
		return math.Inf(1)
	}
	tx := -sm.right.Tx()
	return tx / disparity
}

// Disparity returns the disparity observed for a point at depth z.
// This is the inverse of Z.
func (sm *StereoCameraModel) Disparity(z float64) float64 {
	if z == 0 {
		return math.Inf(1)
	}
	tx := -sm.right.Tx()
	return tx / z
}
