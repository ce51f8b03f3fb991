package camgeom

import (
	"encoding/json"
	"os"

	"github.com/a8m/envsubst"
	"github.com/pkg/errors"
	"go.uber.org/multierr"
)

// ReadCameraInfoFromJSONFile reads calibration from a JSON file, substituting
// ${ENV} references in the file before parsing.
func ReadCameraInfoFromJSONFile(jsonPath string) (*CameraInfo, error) {
	byteValue, err := envsubst.ReadFile(jsonPath)
	if err != nil {
		return nil, errors.Wrap(err, "error reading JSON file")
	}
	info := &CameraInfo{}
	if err := json.Unmarshal(byteValue, info); err != nil {
		return nil, errors.Wrap(err, "error parsing JSON string")
	}
	if err := info.CheckValid(); err != nil {
		return nil, err
	}
	return info, nil
}

// WriteCameraInfoToJSONFile writes calibration out as indented JSON, the same
// shape ReadCameraInfoFromJSONFile reads.
func WriteCameraInfoToJSONFile(jsonPath string, info *CameraInfo) (err error) {
	if err := info.CheckValid(); err != nil {
		return err
	}
	byteValue, err := json.MarshalIndent(info, "", "  ")
	if err != nil {
		return errors.Wrap(err, "error encoding JSON")
	}
	//nolint:gosec
	jsonFile, err := os.Create(jsonPath)
	if err != nil {
		return errors.Wrap(err, "error creating JSON file")
	}
	defer func() {
		err = multierr.Combine(err, jsonFile.Close())
	}()
	if _, err := jsonFile.Write(byteValue); err != nil {
		return errors.Wrap(err, "error writing JSON data")
	}
	return nil
}
