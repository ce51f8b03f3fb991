package camgeom

import (
	"image"
	"image/color"
	"math"

	"github.com/golang/geo/r2"
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

// InitUndistortRectifyMap computes the per-pixel lookup from rectified image
// coordinates back to raw image coordinates, at the model's full resolution.
// Each rectified pixel is back-rotated through the inverse of P'R (P' being
// the left 3x3 of P), pushed through the distortion model, and projected with
// K; sampling the raw image at (mapX[v*width+u], mapY[v*width+u]) for every
// rectified (u, v) undistorts and rectifies it. Fails when P'R is singular.
func (m *PinholeCameraModel) InitUndistortRectifyMap() ([]float64, []float64, error) {
	pr := mat.NewDense(3, 3, nil)
	pr.Mul(m.p.Left3x3().Dense(), m.rot.Dense())
	var inv mat.Dense
	if err := inv.Inverse(pr); err != nil {
		return nil, nil, errors.Wrap(err, "rectified projection is not invertible")
	}

	mapX := make([]float64, m.width*m.height)
	mapY := make([]float64, m.width*m.height)
	for v := 0; v < m.height; v++ {
		for u := 0; u < m.width; u++ {
			// back-rotate the rectified pixel into the raw camera frame
			x := inv.At(0, 0)*float64(u) + inv.At(0, 1)*float64(v) + inv.At(0, 2)
			y := inv.At(1, 0)*float64(u) + inv.At(1, 1)*float64(v) + inv.At(1, 2)
			w := inv.At(2, 0)*float64(u) + inv.At(2, 1)*float64(v) + inv.At(2, 2)
			x /= w
			y /= w
			if m.distortion != nil {
				x, y = m.distortion.Transform(x, y)
			}
			mapX[v*m.width+u] = m.k.At(0, 0)*x + m.k.At(0, 2)
			mapY[v*m.width+u] = m.k.At(1, 1)*y + m.k.At(1, 2)
		}
	}
	return mapX, mapY, nil
}

// RectifyImage applies the rectification specified by camera parameters K, D,
// R and P to a raw full-resolution image, sampling with bilinear
// interpolation. Pixels that map outside the raw image come back black. The
// maps are built on the first call and reused; callers sharing a model across
// goroutines must serialize the first rectification against other calls.
func (m *PinholeCameraModel) RectifyImage(raw image.Image) (image.Image, error) {
	if raw == nil {
		return nil, errors.New("input image is nil")
	}
	b := raw.Bounds()
	if b.Dx() != m.width || b.Dy() != m.height {
		return nil, errors.Errorf("img dimension and intrinsics don't match Image(%d,%d) != Intrinsics(%d,%d)",
			b.Dx(), b.Dy(), m.width, m.height)
	}
	if m.mapX == nil || m.mapY == nil {
		mapX, mapY, err := m.InitUndistortRectifyMap()
		if err != nil {
			return nil, err
		}
		m.mapX, m.mapY = mapX, mapY
	}
	rectified := image.NewRGBA(image.Rect(0, 0, m.width, m.height))
	for v := 0; v < m.height; v++ {
		for u := 0; u < m.width; u++ {
			rectified.Set(u, v, bilinearSample(raw, m.mapX[v*m.width+u], m.mapY[v*m.width+u]))
		}
	}
	return rectified, nil
}

// RectifyPoint applies the rectification specified by camera parameters K, D,
// R and P to a raw pixel and returns where it lands on the rectified image.
func (m *PinholeCameraModel) RectifyPoint(uvRaw r2.Point) r2.Point {
	// normalize through K
	x := (uvRaw.X - m.k.At(0, 2)) / m.k.At(0, 0)
	y := (uvRaw.Y - m.k.At(1, 2)) / m.k.At(1, 1)
	x, y = undistort(m.distortion, x, y)
	// rotate into the rectified frame
	rx := m.rot.At(0, 0)*x + m.rot.At(0, 1)*y + m.rot.At(0, 2)
	ry := m.rot.At(1, 0)*x + m.rot.At(1, 1)*y + m.rot.At(1, 2)
	rw := m.rot.At(2, 0)*x + m.rot.At(2, 1)*y + m.rot.At(2, 2)
	x = rx / rw
	y = ry / rw
	// reproject through the rectified projection
	return r2.Point{
		X: m.p.At(0, 0)*x + m.p.At(0, 1)*y + m.p.At(0, 2),
		Y: m.p.At(1, 0)*x + m.p.At(1, 1)*y + m.p.At(1, 2),
	}
}

// undistort inverts the distortion model for a normalized coordinate pair.
// Models without a native inverse, and no model at all, pass through.
func undistort(d Distorter, x, y float64) (float64, float64) {
	if bc, ok := d.(*BrownConrady); ok {
		return bc.Undistort(x, y)
	}
	return x, y
}

// bilinearSample reads an image at a fractional pixel position, blending the
// four surrounding pixels. Positions outside the image come back black.
func bilinearSample(img image.Image, x, y float64) color.Color {
	b := img.Bounds()
	x += float64(b.Min.X)
	y += float64(b.Min.Y)
	x0 := int(math.Floor(x))
	y0 := int(math.Floor(y))
	if x0 < b.Min.X || y0 < b.Min.Y || x0 >= b.Max.X || y0 >= b.Max.Y {
		return color.RGBA64{}
	}
	x1, y1 := x0+1, y0+1
	if x1 >= b.Max.X {
		x1 = b.Max.X - 1
	}
	if y1 >= b.Max.Y {
		y1 = b.Max.Y - 1
	}
	fx := x - float64(x0)
	fy := y - float64(y0)

	r00, g00, b00, a00 := img.At(x0, y0).RGBA()
	r10, g10, b10, a10 := img.At(x1, y0).RGBA()
	r01, g01, b01, a01 := img.At(x0, y1).RGBA()
	r11, g11, b11, a11 := img.At(x1, y1).RGBA()

	w00 := (1 - fx) * (1 - fy)
	w10 := fx * (1 - fy)
	w01 := (1 - fx) * fy
	w11 := fx * fy

	return color.RGBA64{
		R: uint16(w00*float64(r00) + w10*float64(r10) + w01*float64(r01) + w11*float64(r11)),
		G: uint16(w00*float64(g00) + w10*float64(g10) + w01*float64(g01) + w11*float64(g11)),
		B: uint16(w00*float64(b00) + w10*float64(b10) + w01*float64(b01) + w11*float64(b11)),
		A: uint16(w00*float64(a00) + w10*float64(a10) + w01*float64(a01) + w11*float64(a11)),
	}
}
