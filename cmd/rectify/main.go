// Package main is a command that undistorts and rectifies raw camera frames
// using a calibration file.
//
// Usage: rectify --calib=camera.json raw.png rectified.png
package main

import (
	"context"
	"image"

	// for decoding raw frames saved as jpeg.
	_ "image/jpeg"
	"image/png"
	"os"

	"github.com/edaniels/golog"
	"github.com/pkg/errors"
	"go.uber.org/multierr"
	"go.viam.com/utils"

	"go.viam.com/camgeom"
)

var logger = golog.NewDevelopmentLogger("rectify")

func main() {
	utils.ContextualMain(mainWithArgs, logger)
}

// Arguments for the command.
type Arguments struct {
	CalibFile string `flag:"calib,required,usage=camera calibration JSON file"`
	InFile    string `flag:"0,required,usage=raw input image (png or jpeg)"`
	OutFile   string `flag:"1,required,usage=rectified output image (png)"`
}

func mainWithArgs(ctx context.Context, args []string, logger golog.Logger) error {
	var argsParsed Arguments
	if err := utils.ParseFlags(args, &argsParsed); err != nil {
		return err
	}

	info, err := camgeom.ReadCameraInfoFromJSONFile(argsParsed.CalibFile)
	if err != nil {
		return err
	}
	model, err := camgeom.NewPinholeCameraModel(info)
	if err != nil {
		return err
	}
	logger.Infow("calibration loaded",
		"frame", model.TFFrame(),
		"width", model.Width(),
		"height", model.Height(),
		"fx", model.Fx(),
		"fy", model.Fy(),
		"cx", model.Cx(),
		"cy", model.Cy(),
		"distortion", model.DistortionCoeffs(),
	)

	raw, err := readImage(argsParsed.InFile)
	if err != nil {
		return err
	}
	rectified, err := model.RectifyImage(raw)
	if err != nil {
		return err
	}
	if err := writePNG(argsParsed.OutFile, rectified); err != nil {
		return err
	}
	logger.Infow("rectified image written", "file", argsParsed.OutFile)
	return nil
}

func readImage(path string) (image.Image, error) {
	//nolint:gosec
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "error opening image file")
	}
	defer utils.UncheckedErrorFunc(f.Close)
	img, _, err := image.Decode(f)
	if err != nil {
		return nil, errors.Wrap(err, "error decoding image")
	}
	return img, nil
}

func writePNG(path string, img image.Image) (err error) {
	//nolint:gosec
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, "error creating image file")
	}
	defer func() {
		err = multierr.Combine(err, f.Close())
	}()
	return png.Encode(f, img)
}
