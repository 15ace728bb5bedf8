// Package cloudbuilder sequences the per-frame pipeline: throttle,
// pose fetch, world transform, color reprojection, publish. It is
// driven serially by the host event loop; nothing here is safe for
// concurrent use across frames.
package cloudbuilder

import (
	"github.com/benbjohnson/clock"
	"github.com/edaniels/golog"
	"github.com/golang/geo/r3"
	"github.com/pkg/errors"

	"github.com/WOSOMTECH/TangoColoredPointCloud/calib"
	"github.com/WOSOMTECH/TangoColoredPointCloud/pointcloud"
	"github.com/WOSOMTECH/TangoColoredPointCloud/projection"
	"github.com/WOSOMTECH/TangoColoredPointCloud/rimage"
)

// DepthFrame is one depth sensor callback's payload. Points are in
// the depth camera's own frame. Consumed immediately; the builder
// never retains the slice.
type DepthFrame struct {
	Timestamp float64
	Count     int
	Points    []r3.Vector
}

// DepthFrameFromRaw adapts the sensor service's flat xyz triplet
// layout into a DepthFrame.
func DepthFrameFromRaw(timestamp float64, count int, xyz []float64) DepthFrame {
	if count > len(xyz)/3 {
		count = len(xyz) / 3
	}
	pts := make([]r3.Vector, count)
	for i := 0; i < count; i++ {
		pts[i] = r3.Vector{X: xyz[3*i], Y: xyz[3*i+1], Z: xyz[3*i+2]}
	}
	return DepthFrame{Timestamp: timestamp, Count: count, Points: pts}
}

// FrameOutcome reports what happened to one incoming depth frame.
type FrameOutcome int

// A frame is either fully processed or dropped at one of the early
// gates; there are no partial updates and no retries.
const (
	FrameProcessed FrameOutcome = iota
	FrameThrottled
	FrameDroppedEmpty
	FrameDroppedPose
)

func (o FrameOutcome) String() string {
	switch o {
	case FrameProcessed:
		return "processed"
	case FrameThrottled:
		return "throttled"
	case FrameDroppedEmpty:
		return "dropped_empty"
	case FrameDroppedPose:
		return "dropped_pose"
	default:
		return "unknown"
	}
}

// Builder owns the point cloud buffer and runs the geometric pipeline
// for each accepted depth frame.
type Builder struct {
	conf     Config
	settings RenderSettings
	cal      *calib.CalibrationContext
	poses    calib.PoseSource
	capturer rimage.FrameCapturer
	proj     *projection.DepthColorProjector
	cloud    *pointcloud.ColoredCloud
	clock    clock.Clock
	logger   golog.Logger

	frameIndex     uint64
	lastAcceptedTS float64
	everAccepted   bool
}

// NewBuilder wires the pipeline against a resolved calibration
// context and the pose and render collaborators.
func NewBuilder(
	conf Config,
	cal *calib.CalibrationContext,
	poses calib.PoseSource,
	capturer rimage.FrameCapturer,
	logger golog.Logger,
) (*Builder, error) {
	conf.ApplyDefaults()
	if err := conf.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid cloud builder config")
	}
	proj, err := projection.NewDepthColorProjector(cal.Intrinsics(), cal.ColorTDepth())
	if err != nil {
		return nil, err
	}
	return &Builder{
		conf:     conf,
		settings: conf.renderSettings(),
		cal:      cal,
		poses:    poses,
		capturer: capturer,
		proj:     proj,
		cloud:    pointcloud.NewColoredCloud(conf.MaxPoints),
		clock:    clock.New(),
		logger:   logger,
	}, nil
}

// ProcessDepthFrame runs the state machine for one incoming frame.
// Exactly one of publish or drop happens; a dropped frame leaves the
// published cloud untouched and the next frame is evaluated
// independently.
func (b *Builder) ProcessDepthFrame(frame DepthFrame) FrameOutcome {
	idx := b.frameIndex
	b.frameIndex++

	if b.everAccepted {
		// diagnostic only, control flow never depends on it
		b.logger.Debugw("depth frame received",
			"index", idx,
			"since_last_accepted_s", frame.Timestamp-b.lastAcceptedTS,
		)
	}

	if idx%uint64(b.conf.DepthFrameRateDivisor) != 0 {
		return FrameThrottled
	}
	if frame.Count <= 0 {
		b.logger.Debugw("dropping empty depth frame", "index", idx)
		return FrameDroppedEmpty
	}

	devicePose, err := b.poses.PoseAtTime(frame.Timestamp, calib.FrameStartOfService, calib.FrameDevice)
	if err != nil {
		b.logger.Debugw("dropping frame, pose query failed",
			"index", idx, "timestamp", frame.Timestamp, "error", err)
		return FrameDroppedPose
	}
	worldTDepth, ok := b.cal.WorldTDepthCamera(devicePose)
	if !ok {
		b.logger.Debugw("dropping frame, device pose invalid",
			"index", idx, "timestamp", frame.Timestamp)
		return FrameDroppedPose
	}

	start := b.clock.Now()
	img := b.capturer.CaptureCurrentFrame()

	count := frame.Count
	if count > len(frame.Points) {
		count = len(frame.Points)
	}
	if count > b.cloud.Capacity() {
		// over-capacity frames keep their first Capacity points
		count = b.cloud.Capacity()
	}
	for i := 0; i < count; i++ {
		p := frame.Points[i]
		b.cloud.SetAt(i, worldTDepth.TransformPoint(p), b.proj.ColorFor(p, img))
	}
	b.cloud.Publish(count, b.settings.UpdateMesh)

	b.lastAcceptedTS = frame.Timestamp
	b.everAccepted = true
	b.logger.Debugw("published point cloud",
		"index", idx, "points", count, "took", b.clock.Since(start))
	return FrameProcessed
}

// Cloud returns the latest published cloud. Readers may only touch it
// between frames.
func (b *Builder) Cloud() *pointcloud.ColoredCloud {
	return b.cloud
}

// RenderSettings returns the material knobs for the collaborator,
// with occlusion overrides already applied.
func (b *Builder) RenderSettings() RenderSettings {
	return b.settings
}
