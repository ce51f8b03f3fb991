package camgeom

import (
	"fmt"
	"time"

	"github.com/pkg/errors"
)

// ErrNoIntrinsics is when a camera does not have intrinsics parameters or other parameters.
var ErrNoIntrinsics = errors.New("camera intrinsic parameters are not available")

// NewNoIntrinsicsError is used when the intrinsics are not defined.
func NewNoIntrinsicsError(msg string) error {
	return errors.Wrapf(ErrNoIntrinsics, "%s", msg)
}

// ErrDimensionMismatch is when a calibration matrix does not have the expected dimensions.
var ErrDimensionMismatch = errors.New("calibration matrix dimensions do not match")

// NewDimensionMismatchError is used when a calibration matrix has the wrong number of elements.
func NewDimensionMismatchError(msg string) error {
	return errors.Wrapf(ErrDimensionMismatch, "%s", msg)
}

// RegionOfInterest is the sub-rectangle of the full sensor resolution that was
// actually captured and transmitted. All fields zero is a sentinel meaning the
// entire image.
type RegionOfInterest struct {
	XOffset int `json:"x_offset_px"`
	YOffset int `json:"y_offset_px"`
	Width   int `json:"width_px"`
	Height  int `json:"height_px"`
}

// CameraInfo holds one camera's raw calibration as delivered by a driver, a
// config file, or a recorded camera_info message. K, R and P are row-major
// 3x3, 3x3 and 3x4 matrices. D may be empty when the lens is modeled as
// distortion free. The camera models adjust K and P for binning and ROI at
// construction; CameraInfo itself always holds the full-resolution values.
type CameraInfo struct {
	Width           int              `json:"width_px"`
	Height          int              `json:"height_px"`
	K               []float64        `json:"camera_matrix"`
	D               []float64        `json:"distortion_coefficients,omitempty"`
	DistortionModel DistortionType   `json:"distortion_model,omitempty"`
	R               []float64        `json:"rectification_matrix"`
	P               []float64        `json:"projection_matrix"`
	BinningX        int              `json:"binning_x,omitempty"`
	BinningY        int              `json:"binning_y,omitempty"`
	ROI             RegionOfInterest `json:"roi,omitempty"`
	FrameID         string           `json:"frame_id,omitempty"`
	Timestamp       time.Time        `json:"-"`
}

// CheckValid checks if the fields for CameraInfo have valid inputs.
func (ci *CameraInfo) CheckValid() error {
	if ci == nil {
		return NewNoIntrinsicsError("CameraInfo is nil")
	}
	if ci.Width == 0 || ci.Height == 0 {
		return NewNoIntrinsicsError(fmt.Sprintf("Invalid size (%#v, %#v)", ci.Width, ci.Height))
	}
	if len(ci.K) != 9 {
		return NewDimensionMismatchError(fmt.Sprintf("camera matrix K has %d elements, expected 9", len(ci.K)))
	}
	if len(ci.R) != 9 {
		return NewDimensionMismatchError(fmt.Sprintf("rectification matrix R has %d elements, expected 9", len(ci.R)))
	}
	if len(ci.P) != 12 {
		return NewDimensionMismatchError(fmt.Sprintf("projection matrix P has %d elements, expected 12", len(ci.P)))
	}
	return nil
}
