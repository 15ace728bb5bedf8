package cloudbuilder

import (
	"github.com/pkg/errors"

	"github.com/WOSOMTECH/TangoColoredPointCloud/pointcloud"
)

const (
	// DefaultPointSize is the splat size the render collaborator uses
	// when occlusion mode is off.
	DefaultPointSize = 2.0
	// OcclusionPointSize upsamples points enough to close gaps when
	// the cloud is rendered as a depth mask for virtual content.
	OcclusionPointSize = 5.0
	// OcclusionRenderQueueOffset orders the occlusion cloud ahead of
	// regular geometry in the collaborator's render queue.
	OcclusionRenderQueueOffset = -2000
)

// Config holds the builder knobs. The zero value is completed by
// ApplyDefaults; Validate rejects anything the pipeline cannot run
// with.
type Config struct {
	// DepthFrameRateDivisor K processes every Kth incoming depth
	// frame; 1 processes all of them.
	DepthFrameRateDivisor int `json:"depth_frame_rate_divisor"`
	// PointSize is the render point size passed through to the
	// collaborator.
	PointSize float64 `json:"point_size"`
	// UpdateMesh regenerates the renderable index list on every
	// published frame.
	UpdateMesh bool `json:"update_mesh"`
	// EnableOcclusion makes the cloud usable for depth-testing
	// virtual content; it forces mesh updates on and overrides the
	// point size and render-queue offset.
	EnableOcclusion bool `json:"enable_occlusion"`
	// MaxPoints is the fixed cloud capacity.
	MaxPoints int `json:"max_points"`
}

// ApplyDefaults fills unset fields.
func (c *Config) ApplyDefaults() {
	if c.DepthFrameRateDivisor == 0 {
		c.DepthFrameRateDivisor = 1
	}
	if c.PointSize == 0 {
		c.PointSize = DefaultPointSize
	}
	if c.MaxPoints == 0 {
		c.MaxPoints = pointcloud.DefaultMaxPoints
	}
}

// Validate checks the config is runnable.
func (c *Config) Validate() error {
	if c.DepthFrameRateDivisor < 1 {
		return errors.Errorf("depth_frame_rate_divisor must be >= 1, got %d", c.DepthFrameRateDivisor)
	}
	if c.PointSize <= 0 {
		return errors.Errorf("point_size must be positive, got %v", c.PointSize)
	}
	if c.MaxPoints < 1 {
		return errors.Errorf("max_points must be >= 1, got %d", c.MaxPoints)
	}
	return nil
}

// RenderSettings are the material knobs the render collaborator
// applies to the published cloud.
type RenderSettings struct {
	PointSize         float64
	RenderQueueOffset int
	UpdateMesh        bool
}

func (c *Config) renderSettings() RenderSettings {
	rs := RenderSettings{PointSize: c.PointSize, UpdateMesh: c.UpdateMesh}
	if c.EnableOcclusion {
		rs.UpdateMesh = true
		rs.PointSize = OcclusionPointSize
		rs.RenderQueueOffset = OcclusionRenderQueueOffset
	}
	return rs
}
