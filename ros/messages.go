package ros

import (
	"time"

	"go.viam.com/camgeom"
)

// CameraInfoMessage reflects the JSON data format for rosbag sensor_msgs/CameraInfo messages.
type CameraInfoMessage struct {
	Meta struct {
		Secs  int
		Nsecs int
	}
	Data struct {
		Header struct {
			Seq   int
			Stamp struct {
				Secs  int
				Nsecs int
			}
			FrameId string `json:"frame_id"`
		}
		Height          int
		Width           int
		DistortionModel string `json:"distortion_model"`
		D               []float64
		K               []float64
		R               []float64
		P               []float64
		BinningX        int `json:"binning_x"`
		BinningY        int `json:"binning_y"`
		Roi             struct {
			XOffset   int `json:"x_offset"`
			YOffset   int `json:"y_offset"`
			Height    int
			Width     int
			DoRectify bool `json:"do_rectify"`
		}
	}
}

// CameraInfo converts the recorded message into calibration the camera models
// accept, validating matrix dimensions at this trust boundary. The message
// header's stamp and frame carry over; the bag record time in Meta does not.
func (m *CameraInfoMessage) CameraInfo() (*camgeom.CameraInfo, error) {
	info := &camgeom.CameraInfo{
		Width:           m.Data.Width,
		Height:          m.Data.Height,
		K:               m.Data.K,
		D:               m.Data.D,
		DistortionModel: camgeom.DistortionType(m.Data.DistortionModel),
		R:               m.Data.R,
		P:               m.Data.P,
		BinningX:        m.Data.BinningX,
		BinningY:        m.Data.BinningY,
		ROI: camgeom.RegionOfInterest{
			XOffset: m.Data.Roi.XOffset,
			YOffset: m.Data.Roi.YOffset,
			Width:   m.Data.Roi.Width,
			Height:  m.Data.Roi.Height,
		},
		FrameID:   m.Data.Header.FrameId,
		Timestamp: time.Unix(int64(m.Data.Header.Stamp.Secs), int64(m.Data.Header.Stamp.Nsecs)),
	}
	if err := info.CheckValid(); err != nil {
		return nil, err
	}
	return info, nil
}
