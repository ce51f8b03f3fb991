// Package main is a command that summarizes the camera calibration recorded
// in a rosbag's camera_info topics.
//
// Usage: baginfo [--left=/left/camera_info --right=/right/camera_info] recording.bag
package main

import (
	"context"
	"fmt"
	"sort"

	"github.com/edaniels/golog"
	"github.com/pkg/errors"
	"go.viam.com/utils"

	"go.viam.com/camgeom"
	"go.viam.com/camgeom/ros"
)

var logger = golog.NewDevelopmentLogger("baginfo")

func main() {
	utils.ContextualMain(mainWithArgs, logger)
}

// Arguments for the command.
type Arguments struct {
	BagFile    string `flag:"0,required,usage=rosbag file with camera_info topics"`
	LeftTopic  string `flag:"left,usage=left camera_info topic of a stereo pair"`
	RightTopic string `flag:"right,usage=right camera_info topic of a stereo pair"`
}

func mainWithArgs(ctx context.Context, args []string, logger golog.Logger) error {
	var argsParsed Arguments
	if err := utils.ParseFlags(args, &argsParsed); err != nil {
		return err
	}
	if (argsParsed.LeftTopic == "") != (argsParsed.RightTopic == "") {
		return errors.New("a stereo pair needs both --left and --right topics")
	}

	rb, err := ros.ReadBag(argsParsed.BagFile)
	if err != nil {
		return err
	}
	byTopic, err := ros.ReadAllCameraInfo(rb)
	if err != nil {
		return err
	}
	if len(byTopic) == 0 {
		return errors.New("no camera_info topics in bag")
	}

	topics := make([]string, 0, len(byTopic))
	for topic := range byTopic {
		topics = append(topics, topic)
	}
	sort.Strings(topics)

	infos := map[string]*camgeom.CameraInfo{}
	for _, topic := range topics {
		msgs := byTopic[topic]
		if len(msgs) == 0 {
			continue
		}
		// the last message carries the current calibration
		info, err := msgs[len(msgs)-1].CameraInfo()
		if err != nil {
			return errors.Wrapf(err, "camera_info on topic %s", topic)
		}
		infos[topic] = info
		model, err := camgeom.NewPinholeCameraModel(info)
		if err != nil {
			return errors.Wrapf(err, "camera_info on topic %s", topic)
		}
		logger.Infow("camera",
			"topic", topic,
			"frame", model.TFFrame(),
			"width", model.Width(),
			"height", model.Height(),
			"fx", model.Fx(),
			"fy", model.Fy(),
			"cx", model.Cx(),
			"cy", model.Cy(),
			"binning_x", model.BinningX(),
			"binning_y", model.BinningY(),
			"roi", model.ROI(),
			"messages", len(msgs),
		)
	}

	if argsParsed.LeftTopic == "" {
		return nil
	}
	left := infos[ros.TopicKey(argsParsed.LeftTopic)]
	if left == nil {
		return errors.Errorf("no messages for topic %s", argsParsed.LeftTopic)
	}
	right := infos[ros.TopicKey(argsParsed.RightTopic)]
	if right == nil {
		return errors.Errorf("no messages for topic %s", argsParsed.RightTopic)
	}
	stereo, err := camgeom.NewStereoCameraModel(left, right)
	if err != nil {
		return err
	}
	logger.Infow("stereo pair",
		"frame", stereo.TFFrame(),
		"baseline", stereo.Baseline(),
	)

	q := stereo.ReprojectionMatrix()
	fmt.Println("reprojection matrix Q:")
	for i := 0; i < 4; i++ {
		fmt.Printf("  [%12.4f %12.4f %12.4f %12.4f]\n", q.At(i, 0), q.At(i, 1), q.At(i, 2), q.At(i, 3))
	}
	fmt.Println("disparity -> depth:")
	for _, d := range []float64{1, 2, 5, 10, 20, 50, 100} {
		fmt.Printf("  %6.1f px -> %12.2f\n", d, stereo.Z(d))
	}
	return nil
}
