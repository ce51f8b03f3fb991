package camgeom

import (
	"image"

	"github.com/disintegration/imaging"
	"github.com/pkg/errors"
	"golang.org/x/image/draw"
)

// ApplyROIAndBinning reduces a full-resolution frame to the sensor window this
// model's adjusted matrices describe: crop to the region of interest, then
// decimate by the binning factors. Nearest-neighbor decimation stands in for
// the sensor's own pixel binning. The result is the image that
// Project3DToPixel coordinates land on.
func (m *PinholeCameraModel) ApplyROIAndBinning(full image.Image) (image.Image, error) {
	if full == nil {
		return nil, errors.New("input image is nil")
	}
	b := full.Bounds()
	if b.Dx() != m.width || b.Dy() != m.height {
		return nil, errors.Errorf("img dimension and intrinsics don't match Image(%d,%d) != Intrinsics(%d,%d)",
			b.Dx(), b.Dy(), m.width, m.height)
	}
	window := image.Rect(m.roi.XOffset, m.roi.YOffset, m.roi.XOffset+m.roi.Width, m.roi.YOffset+m.roi.Height)
	cropped := imaging.Crop(full, window)
	if cropped.Bounds().Dx() == 0 || cropped.Bounds().Dy() == 0 {
		return nil, errors.New("roi crops image to 0 pixels")
	}
	if m.binningX <= 1 && m.binningY <= 1 {
		return cropped, nil
	}
	width := m.roi.Width / m.binningX
	height := m.roi.Height / m.binningY
	if width == 0 || height == 0 {
		return nil, errors.Errorf("binning (%d,%d) reduces the roi window (%d,%d) to 0 pixels",
			m.binningX, m.binningY, m.roi.Width, m.roi.Height)
	}
	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.NearestNeighbor.Scale(dst, dst.Bounds(), cropped, cropped.Bounds(), draw.Over, nil)
	return dst, nil
}
