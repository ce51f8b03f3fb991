package ros

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/pkg/errors"
	"go.viam.com/test"

	"go.viam.com/camgeom"
)

// recordedCameraInfo is one camera_info message as gobag delivers it, bag
// record metadata wrapping the ROS message fields.
const recordedCameraInfo = `{
	"meta": {"secs": 1620000001, "nsecs": 0},
	"data": {
		"header": {"seq": 42, "stamp": {"secs": 1620000000, "nsecs": 500000000}, "frame_id": "left_camera"},
		"height": 480,
		"width": 640,
		"distortion_model": "plumb_bob",
		"D": [0.1, 0.01, 0.001, 0.002, 0],
		"K": [500, 0, 320, 0, 500, 240, 0, 0, 1],
		"R": [1, 0, 0, 0, 1, 0, 0, 0, 1],
		"P": [500, 0, 320, 0, 0, 500, 240, 0, 0, 0, 1, 0],
		"binning_x": 2,
		"binning_y": 2,
		"roi": {"x_offset": 100, "y_offset": 50, "height": 200, "width": 200, "do_rectify": true}
	}
}`

func TestCameraInfoMessage(t *testing.T) {
	var message CameraInfoMessage
	test.That(t, json.Unmarshal([]byte(recordedCameraInfo), &message), test.ShouldBeNil)
	test.That(t, message.Meta.Secs, test.ShouldEqual, 1620000001)
	test.That(t, message.Data.Header.Seq, test.ShouldEqual, 42)

	info, err := message.CameraInfo()
	test.That(t, err, test.ShouldBeNil)
	test.That(t, info.Width, test.ShouldEqual, 640)
	test.That(t, info.Height, test.ShouldEqual, 480)
	test.That(t, info.K, test.ShouldResemble, []float64{500, 0, 320, 0, 500, 240, 0, 0, 1})
	test.That(t, info.D, test.ShouldResemble, []float64{0.1, 0.01, 0.001, 0.002, 0})
	test.That(t, info.DistortionModel, test.ShouldEqual, camgeom.PlumbBobDistortionType)
	test.That(t, info.BinningX, test.ShouldEqual, 2)
	test.That(t, info.BinningY, test.ShouldEqual, 2)
	test.That(t, info.ROI, test.ShouldResemble, camgeom.RegionOfInterest{XOffset: 100, YOffset: 50, Width: 200, Height: 200})
	test.That(t, info.FrameID, test.ShouldEqual, "left_camera")
	test.That(t, info.Timestamp.Equal(time.Unix(1620000000, 500000000)), test.ShouldBeTrue)

	model, err := camgeom.NewPinholeCameraModel(info)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, model.TFFrame(), test.ShouldEqual, "left_camera")
	test.That(t, model.Fx(), test.ShouldEqual, 250)
}

func TestCameraInfoMessageZeroROI(t *testing.T) {
	var message CameraInfoMessage
	test.That(t, json.Unmarshal([]byte(recordedCameraInfo), &message), test.ShouldBeNil)
	message.Data.Roi.XOffset = 0
	message.Data.Roi.YOffset = 0
	message.Data.Roi.Width = 0
	message.Data.Roi.Height = 0
	message.Data.BinningX = 0
	message.Data.BinningY = 0

	info, err := message.CameraInfo()
	test.That(t, err, test.ShouldBeNil)
	test.That(t, info.ROI, test.ShouldResemble, camgeom.RegionOfInterest{})

	model, err := camgeom.NewPinholeCameraModel(info)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, model.ROI(), test.ShouldResemble, camgeom.RegionOfInterest{Width: 640, Height: 480})
	test.That(t, model.Fx(), test.ShouldEqual, 500)
}

func TestCameraInfoMessageValidation(t *testing.T) {
	var message CameraInfoMessage
	test.That(t, json.Unmarshal([]byte(recordedCameraInfo), &message), test.ShouldBeNil)
	message.Data.K = message.Data.K[:3]

	_, err := message.CameraInfo()
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, errors.Is(err, camgeom.ErrDimensionMismatch), test.ShouldBeTrue)
}
