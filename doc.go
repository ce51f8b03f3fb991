// Package camgeom implements the calibrated pinhole camera model used to move
// between 3D scene coordinates and 2D image coordinates, for a single camera
// and for a rectified stereo pair.
//
// Calibration arrives as a CameraInfo, whether read from a JSON file, received
// from a camera service, or recorded in a rosbag (see the ros subpackage). A
// CameraInfo compiles once into an immutable PinholeCameraModel or
// StereoCameraModel snapshot; recalibrating means building a new snapshot and
// swapping it in, so projection calls never race a calibration update.
package camgeom
