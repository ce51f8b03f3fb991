package camgeom

import (
	"testing"

	"github.com/pkg/errors"
	"go.viam.com/test"
)

func TestCheckValid(t *testing.T) {
	t.Run("nil", func(t *testing.T) {
		var info *CameraInfo
		err := info.CheckValid()
		test.That(t, errors.Is(err, ErrNoIntrinsics), test.ShouldBeTrue)
		test.That(t, err.Error(), test.ShouldContainSubstring, "CameraInfo is nil")
	})
	t.Run("zero size", func(t *testing.T) {
		info := testCameraInfo()
		info.Width = 0
		err := info.CheckValid()
		test.That(t, errors.Is(err, ErrNoIntrinsics), test.ShouldBeTrue)
		test.That(t, err.Error(), test.ShouldContainSubstring, "Invalid size (0, 480)")
	})
	t.Run("short camera matrix", func(t *testing.T) {
		info := testCameraInfo()
		info.K = info.K[:8]
		err := info.CheckValid()
		test.That(t, errors.Is(err, ErrDimensionMismatch), test.ShouldBeTrue)
		test.That(t, err.Error(), test.ShouldContainSubstring, "camera matrix K has 8 elements")
	})
	t.Run("short rectification matrix", func(t *testing.T) {
		info := testCameraInfo()
		info.R = nil
		err := info.CheckValid()
		test.That(t, errors.Is(err, ErrDimensionMismatch), test.ShouldBeTrue)
		test.That(t, err.Error(), test.ShouldContainSubstring, "rectification matrix R has 0 elements")
	})
	t.Run("short projection matrix", func(t *testing.T) {
		info := testCameraInfo()
		info.P = info.P[:11]
		err := info.CheckValid()
		test.That(t, errors.Is(err, ErrDimensionMismatch), test.ShouldBeTrue)
		test.That(t, err.Error(), test.ShouldContainSubstring, "projection matrix P has 11 elements")
	})
	t.Run("valid", func(t *testing.T) {
		test.That(t, testCameraInfo().CheckValid(), test.ShouldBeNil)
	})
}
