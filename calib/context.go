package calib

import (
	"github.com/edaniels/golog"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/multierr"

	"github.com/WOSOMTECH/TangoColoredPointCloud/spatialmath"
)

// worldTStartService converts the tracking service's coordinate
// convention (right-handed, Z up) into the render world convention
// (Y up) by swapping the Y and Z axes. Fixed configuration constant,
// never derived at runtime.
var worldTStartService = spatialmath.NewRigidTransformFromRows([16]float64{
	1, 0, 0, 0,
	0, 0, 1, 0,
	0, 1, 0, 0,
	0, 0, 0, 1,
})

// WorldTStartOfService returns the fixed axis remap between the
// tracking service frame and the render world frame.
func WorldTStartOfService() spatialmath.RigidTransform {
	return worldTStartService
}

// CalibrationContext is the fixed geometry of one session: the
// extrinsics between the IMU, device and camera frames, plus the
// color camera intrinsics. Built once at session connect by Resolve
// and immutable afterwards; the per-frame pipeline takes it by
// reference instead of reading ambient state.
type CalibrationContext struct {
	SessionID uuid.UUID

	imuTDevice      spatialmath.RigidTransform
	imuTDepthCamera spatialmath.RigidTransform
	imuTColorCamera spatialmath.RigidTransform
	colorTDepth     spatialmath.RigidTransform

	intrinsics CameraIntrinsics
}

// Resolve queries the three fixed rigid relations (IMU to device, IMU
// to depth camera, IMU to color camera) and the color camera
// intrinsics, and derives the depth-to-color transform
// inverse(imuTColorCamera) · imuTDepthCamera.
//
// Any invalid extrinsic pose is a fatal configuration error; a
// default transform would silently corrupt every frame afterwards, so
// none is ever substituted.
func Resolve(poses PoseSource, intrinsics IntrinsicsSource, logger golog.Logger) (*CalibrationContext, error) {
	var err error
	imuTDevice, e := resolveExtrinsic(poses, FrameIMU, FrameDevice)
	err = multierr.Append(err, e)
	imuTDepth, e := resolveExtrinsic(poses, FrameIMU, FrameCameraDepth)
	err = multierr.Append(err, e)
	imuTColor, e := resolveExtrinsic(poses, FrameIMU, FrameCameraColor)
	err = multierr.Append(err, e)
	if err != nil {
		return nil, errors.Wrap(err, "failed to resolve sensor extrinsics")
	}

	intr, e := intrinsics.Intrinsics(FrameCameraColor)
	if e != nil {
		return nil, errors.Wrap(e, "failed to query color camera intrinsics")
	}
	if e := intr.CheckValid(); e != nil {
		return nil, e
	}

	ctx := &CalibrationContext{
		SessionID:       uuid.New(),
		imuTDevice:      imuTDevice,
		imuTDepthCamera: imuTDepth,
		imuTColorCamera: imuTColor,
		colorTDepth:     imuTColor.Inverse().Compose(imuTDepth),
		intrinsics:      intr,
	}
	logger.Infow("session calibration resolved",
		"session", ctx.SessionID,
		"fx", intr.Fx, "fy", intr.Fy, "ppx", intr.Ppx, "ppy", intr.Ppy,
	)
	return ctx, nil
}

func resolveExtrinsic(poses PoseSource, base, target ReferenceFrame) (spatialmath.RigidTransform, error) {
	p, err := poses.PoseAtTime(0, base, target)
	if err != nil {
		return spatialmath.NewZeroRigidTransform(), errors.Wrapf(err, "querying %s to %s extrinsic", base, target)
	}
	if !p.Valid {
		return spatialmath.NewZeroRigidTransform(), errors.Errorf("%s to %s extrinsic pose reported invalid", base, target)
	}
	return p.Transform(), nil
}

// ColorTDepth returns the fixed depth-camera to color-camera
// transform.
func (c *CalibrationContext) ColorTDepth() spatialmath.RigidTransform {
	return c.colorTDepth
}

// Intrinsics returns the color camera intrinsics.
func (c *CalibrationContext) Intrinsics() CameraIntrinsics {
	return c.intrinsics
}

// WorldTDepthCamera composes the world transform of the depth camera
// for one frame from the time-varying device pose:
//
//	worldTStartService · startServiceTDevice · inverse(imuTDevice) · imuTDepthCamera
//
// Returns false when the device pose is not valid; callers must then
// skip the frame entirely.
func (c *CalibrationContext) WorldTDepthCamera(devicePose Pose) (spatialmath.RigidTransform, bool) {
	if !devicePose.Valid {
		return spatialmath.NewZeroRigidTransform(), false
	}
	world := worldTStartService.
		Compose(devicePose.Transform()).
		Compose(c.imuTDevice.Inverse()).
		Compose(c.imuTDepthCamera)
	return world, true
}
