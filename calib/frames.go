// Package calib resolves and holds the fixed per-session geometry of
// the device: sensor extrinsics, color camera intrinsics, and the
// composition of per-frame world transforms from device poses.
package calib

// ReferenceFrame identifies one of the coordinate frames a pose query
// can relate.
type ReferenceFrame int

// The frames the pose-tracking service reports against.
const (
	FrameStartOfService ReferenceFrame = iota
	FrameDevice
	FrameIMU
	FrameCameraDepth
	FrameCameraColor
)

func (f ReferenceFrame) String() string {
	switch f {
	case FrameStartOfService:
		return "start_of_service"
	case FrameDevice:
		return "device"
	case FrameIMU:
		return "imu"
	case FrameCameraDepth:
		return "camera_depth"
	case FrameCameraColor:
		return "camera_color"
	default:
		return "unknown"
	}
}
