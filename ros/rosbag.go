// Package ros bridges recorded ROS data into the camera models, pulling
// sensor_msgs/CameraInfo calibration out of rosbags.
package ros

import (
	"encoding/json"
	"io"
	"os"
	"strings"

	"github.com/edaniels/gobag/rosbag"
	"github.com/pkg/errors"
	"go.viam.com/utils"
)

// ReadBag reads the contents of a rosbag into a gobag data structure.
func ReadBag(filename string) (*rosbag.RosBag, error) {
	//nolint:gosec
	f, err := os.Open(filename)
	defer utils.UncheckedErrorFunc(f.Close)
	if err != nil {
		return nil, errors.Wrapf(err, "unable to open input file")
	}

	rb := rosbag.NewRosBag()

	if err := rb.Read(f); err != nil {
		return nil, errors.Wrapf(err, "unable to create ros bag, error")
	}

	return rb, nil
}

// TopicKey returns the key gobag files a topic's parsed messages under:
// lowercased, leading slash stripped, remaining slashes replaced with
// underscores.
func TopicKey(topic string) string {
	return strings.ToLower(strings.ReplaceAll(strings.TrimPrefix(topic, "/"), "/", "_"))
}

// ReadAllCameraInfo parses and decodes every camera_info topic in the bag,
// keyed by the topic's TopicKey. Reading consumes the parsed message streams,
// so call it once per bag.
func ReadAllCameraInfo(rb *rosbag.RosBag) (map[string][]CameraInfoMessage, error) {
	if err := rb.ParseTopicsToJSON(
		"",
		func(int64) bool { return true },
		func(t string) bool { return strings.HasSuffix(t, "camera_info") },
		false,
	); err != nil {
		return nil, errors.Wrapf(err, "error while parsing bag to JSON")
	}

	all := map[string][]CameraInfoMessage{}
	for topic := range rb.TopicsAsJSON {
		msgs, err := drainCameraInfo(rb, topic)
		if err != nil {
			return nil, err
		}
		all[topic] = msgs
	}
	return all, nil
}

// ReadCameraInfo returns all camera_info messages recorded under one topic,
// given in its original form ("/left/camera_info"). Reading consumes the
// parsed message stream, so a second read of the same topic comes back empty.
func ReadCameraInfo(rb *rosbag.RosBag, topic string) ([]CameraInfoMessage, error) {
	if err := rb.ParseTopicsToJSON(
		"",
		func(int64) bool { return true },
		func(t string) bool { return t == topic },
		false,
	); err != nil {
		return nil, errors.Wrapf(err, "error while parsing bag to JSON")
	}
	return drainCameraInfo(rb, topic)
}

// drainCameraInfo decodes and empties the parsed message stream for a topic.
func drainCameraInfo(rb *rosbag.RosBag, topic string) ([]CameraInfoMessage, error) {
	msgs := rb.TopicsAsJSON[TopicKey(topic)]
	if msgs == nil {
		return nil, errors.Errorf("no messages for topic %s", topic)
	}

	all := []CameraInfoMessage{}

	for {
		data, err := msgs.ReadBytes('\n')
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, err
		}
		var message CameraInfoMessage
		if err := json.Unmarshal(data, &message); err != nil {
			return nil, err
		}

		all = append(all, message)
	}

	return all, nil
}
