package camgeom

import (
	pb "go.viam.com/api/component/camera/v1"
)

// IntrinsicsToProto exposes the adjusted camera matrix in the camera
// service's intrinsics message shape. The projection, rectification, binning
// and ROI parameters have no proto counterpart and are not carried over.
func (m *PinholeCameraModel) IntrinsicsToProto() *pb.IntrinsicParameters {
	return &pb.IntrinsicParameters{
		WidthPx:   uint32(m.width),
		HeightPx:  uint32(m.height),
		FocalXPx:  m.k.At(0, 0),
		FocalYPx:  m.k.At(1, 1),
		CenterXPx: m.k.At(0, 2),
		CenterYPx: m.k.At(1, 2),
	}
}

// DistortionToProto exposes the distortion model in the camera service's
// message shape, or nil when the model carries no distortion.
func (m *PinholeCameraModel) DistortionToProto() *pb.DistortionParameters {
	if m.distortion == nil {
		return nil
	}
	return &pb.DistortionParameters{
		Model:      string(m.distortion.ModelType()),
		Parameters: m.distortion.Parameters(),
	}
}

// CameraInfoFromProto rebuilds calibration from camera service properties.
// The proto carries no rectification or projection, so the result is full
// resolution with identity R and P = [K|0], which is exact for a monocular
// camera already operating on rectified images.
func CameraInfoFromProto(intrinsics *pb.IntrinsicParameters, distortion *pb.DistortionParameters) (*CameraInfo, error) {
	if intrinsics == nil {
		return nil, NewNoIntrinsicsError("no intrinsic parameters in properties")
	}
	fx, fy := intrinsics.FocalXPx, intrinsics.FocalYPx
	cx, cy := intrinsics.CenterXPx, intrinsics.CenterYPx
	info := &CameraInfo{
		Width:  int(intrinsics.WidthPx),
		Height: int(intrinsics.HeightPx),
		K:      []float64{fx, 0, cx, 0, fy, cy, 0, 0, 1},
		R:      []float64{1, 0, 0, 0, 1, 0, 0, 0, 1},
		P:      []float64{fx, 0, cx, 0, 0, fy, cy, 0, 0, 0, 1, 0},
	}
	if distortion == nil || distortion.Model == "" { // same as if nil
		return info, nil
	}
	info.DistortionModel = DistortionType(distortion.Model)
	info.D = distortion.Parameters
	return info, nil
}
