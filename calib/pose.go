package calib

import (
	"github.com/golang/geo/r3"
	"gonum.org/v1/gonum/num/quat"

	"github.com/WOSOMTECH/TangoColoredPointCloud/spatialmath"
)

// Pose is a timestamped rigid relation between a base and a target
// frame as reported by the pose-tracking service. Only poses with
// Valid set may be used for geometry; everything downstream drops the
// frame otherwise.
type Pose struct {
	// Timestamp is in seconds since service start; 0 addresses the
	// startup reference used for extrinsic queries.
	Timestamp   float64
	Translation r3.Vector
	Orientation quat.Number
	Valid       bool
}

// Transform converts the pose into a rigid transform. Only call on
// valid poses.
func (p Pose) Transform() spatialmath.RigidTransform {
	return spatialmath.NewRigidTransform(p.Translation, p.Orientation)
}

// PoseSource is the pose-tracking collaborator. Implementations are
// expected to answer synchronously from their latest estimate.
type PoseSource interface {
	// PoseAtTime returns the pose of target relative to base at the
	// given timestamp.
	PoseAtTime(timestamp float64, base, target ReferenceFrame) (Pose, error)
}

// IntrinsicsSource exposes camera intrinsics for a connected session.
type IntrinsicsSource interface {
	Intrinsics(camera ReferenceFrame) (CameraIntrinsics, error)
}
