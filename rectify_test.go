package camgeom

import (
	"image"
	"image/color"
	"testing"

	"github.com/golang/geo/r2"
	"go.viam.com/test"
)

// smallCameraInfo is a 64x48 camera with dyadic intrinsics so that the
// rectification math stays exact on an undistorted lens.
func smallCameraInfo() *CameraInfo {
	return &CameraInfo{
		Width:  64,
		Height: 48,
		K:      []float64{64, 0, 32, 0, 64, 24, 0, 0, 1},
		R:      []float64{1, 0, 0, 0, 1, 0, 0, 0, 1},
		P:      []float64{64, 0, 32, 0, 0, 64, 24, 0, 0, 0, 1, 0},
	}
}

func patternImage(width, height int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x * 3), G: uint8(y * 5), B: uint8((x + y) % 256), A: 255})
		}
	}
	return img
}

func assertSameColor(t *testing.T, c1, c2 color.Color) {
	t.Helper()
	r1, g1, b1, a1 := c1.RGBA()
	r2c, g2, b2, a2 := c2.RGBA()
	// one count of 65535 absorbs blend rounding
	test.That(t, float64(r1), test.ShouldAlmostEqual, float64(r2c), 1)
	test.That(t, float64(g1), test.ShouldAlmostEqual, float64(g2), 1)
	test.That(t, float64(b1), test.ShouldAlmostEqual, float64(b2), 1)
	test.That(t, float64(a1), test.ShouldAlmostEqual, float64(a2), 1)
}

func TestInitUndistortRectifyMap(t *testing.T) {
	t.Run("undistorted camera maps to itself", func(t *testing.T) {
		model, err := NewPinholeCameraModel(smallCameraInfo())
		test.That(t, err, test.ShouldBeNil)
		mapX, mapY, err := model.InitUndistortRectifyMap()
		test.That(t, err, test.ShouldBeNil)
		test.That(t, len(mapX), test.ShouldEqual, 64*48)
		test.That(t, len(mapY), test.ShouldEqual, 64*48)
		for _, uv := range [][2]int{{0, 0}, {10, 20}, {32, 24}, {63, 47}} {
			u, v := uv[0], uv[1]
			test.That(t, mapX[v*64+u], test.ShouldAlmostEqual, float64(u), 1e-9)
			test.That(t, mapY[v*64+u], test.ShouldAlmostEqual, float64(v), 1e-9)
		}
	})
	t.Run("singular projection", func(t *testing.T) {
		info := smallCameraInfo()
		info.P = []float64{64, 0, 32, 0, 0, 64, 24, 0, 0, 0, 0, 0}
		model, err := NewPinholeCameraModel(info)
		test.That(t, err, test.ShouldBeNil)
		_, _, err = model.InitUndistortRectifyMap()
		test.That(t, err, test.ShouldNotBeNil)
		test.That(t, err.Error(), test.ShouldContainSubstring, "not invertible")
	})
	t.Run("maps invert RectifyPoint", func(t *testing.T) {
		info := smallCameraInfo()
		info.D = []float64{0.1, 0.01, 0.001, 0.002}
		model, err := NewPinholeCameraModel(info)
		test.That(t, err, test.ShouldBeNil)
		mapX, mapY, err := model.InitUndistortRectifyMap()
		test.That(t, err, test.ShouldBeNil)
		for _, uv := range [][2]int{{20, 10}, {40, 30}, {32, 24}} {
			u, v := uv[0], uv[1]
			raw := r2.Point{X: mapX[v*64+u], Y: mapY[v*64+u]}
			rectified := model.RectifyPoint(raw)
			test.That(t, rectified.X, test.ShouldAlmostEqual, float64(u), 1e-6)
			test.That(t, rectified.Y, test.ShouldAlmostEqual, float64(v), 1e-6)
		}
	})
}

func TestRectifyPoint(t *testing.T) {
	t.Run("undistorted camera is the identity", func(t *testing.T) {
		model, err := NewPinholeCameraModel(smallCameraInfo())
		test.That(t, err, test.ShouldBeNil)
		pt := model.RectifyPoint(r2.Point{X: 10.5, Y: 20.25})
		test.That(t, pt.X, test.ShouldAlmostEqual, 10.5, 1e-9)
		test.That(t, pt.Y, test.ShouldAlmostEqual, 20.25, 1e-9)
	})
	t.Run("recovers the ideal pixel from a distorted one", func(t *testing.T) {
		info := smallCameraInfo()
		info.D = []float64{0.1, 0.01, 0.001, 0.002}
		model, err := NewPinholeCameraModel(info)
		test.That(t, err, test.ShouldBeNil)

		// distort the ideal pixel (40, 30) the way the lens would
		d, err := NewBrownConrady(info.D)
		test.That(t, err, test.ShouldBeNil)
		xd, yd := d.Transform((40.0-32.0)/64.0, (30.0-24.0)/64.0)
		raw := r2.Point{X: 64*xd + 32, Y: 64*yd + 24}
		test.That(t, raw.X, test.ShouldBeGreaterThan, 40.01)

		rectified := model.RectifyPoint(raw)
		test.That(t, rectified.X, test.ShouldAlmostEqual, 40, 1e-6)
		test.That(t, rectified.Y, test.ShouldAlmostEqual, 30, 1e-6)
	})
}

func TestRectifyImage(t *testing.T) {
	t.Run("nil image", func(t *testing.T) {
		model, err := NewPinholeCameraModel(smallCameraInfo())
		test.That(t, err, test.ShouldBeNil)
		_, err = model.RectifyImage(nil)
		test.That(t, err, test.ShouldNotBeNil)
		test.That(t, err.Error(), test.ShouldContainSubstring, "input image is nil")
	})
	t.Run("dimension mismatch", func(t *testing.T) {
		model, err := NewPinholeCameraModel(smallCameraInfo())
		test.That(t, err, test.ShouldBeNil)
		_, err = model.RectifyImage(patternImage(32, 32))
		test.That(t, err, test.ShouldNotBeNil)
		test.That(t, err.Error(), test.ShouldContainSubstring,
			"img dimension and intrinsics don't match Image(32,32) != Intrinsics(64,48)")
	})
	t.Run("undistorted camera preserves the image", func(t *testing.T) {
		model, err := NewPinholeCameraModel(smallCameraInfo())
		test.That(t, err, test.ShouldBeNil)
		raw := patternImage(64, 48)
		rectified, err := model.RectifyImage(raw)
		test.That(t, err, test.ShouldBeNil)
		test.That(t, rectified.Bounds().Dx(), test.ShouldEqual, 64)
		test.That(t, rectified.Bounds().Dy(), test.ShouldEqual, 48)
		for _, uv := range [][2]int{{0, 0}, {10, 20}, {32, 24}, {63, 47}} {
			assertSameColor(t, rectified.At(uv[0], uv[1]), raw.At(uv[0], uv[1]))
		}

		// maps are cached after the first call
		again, err := model.RectifyImage(raw)
		test.That(t, err, test.ShouldBeNil)
		assertSameColor(t, again.At(10, 20), raw.At(10, 20))
	})
}
