// Package pointcloud provides the fixed-capacity colored point cloud
// buffer shared between the frame pipeline and the renderer.
package pointcloud

import (
	"image/color"

	"github.com/golang/geo/r3"
)

// DefaultMaxPoints bounds the number of points in one depth frame
// from the sensor service.
const DefaultMaxPoints = 61440

// ColoredCloud is an arena reused across frames: position and color
// storage is allocated once to capacity and overwritten in place,
// with an explicit active count distinct from capacity. The builder
// is the sole writer; the renderer reads only between frames, the two
// being serialized by the host event loop.
type ColoredCloud struct {
	positions []r3.Vector
	colors    []color.NRGBA
	indices   []int32
	count     int
}

// NewColoredCloud preallocates a cloud with the given capacity.
func NewColoredCloud(capacity int) *ColoredCloud {
	return &ColoredCloud{
		positions: make([]r3.Vector, capacity),
		colors:    make([]color.NRGBA, capacity),
		indices:   make([]int32, 0, capacity),
	}
}

// Capacity returns the fixed point capacity.
func (c *ColoredCloud) Capacity() int {
	return len(c.positions)
}

// Size returns the active point count of the latest published frame.
func (c *ColoredCloud) Size() int {
	return c.count
}

// SetAt overwrites the point at index i. i must be below Capacity;
// the write is not visible to readers until Publish.
func (c *ColoredCloud) SetAt(i int, p r3.Vector, col color.NRGBA) {
	c.positions[i] = p
	c.colors[i] = col
}

// Publish sets the active count for the frame just written and, when
// updateIndices is on, regenerates the identity index list the
// renderer uploads as a flat point mesh.
func (c *ColoredCloud) Publish(count int, updateIndices bool) {
	c.count = count
	if updateIndices {
		c.indices = c.indices[:0]
		for i := 0; i < count; i++ {
			c.indices = append(c.indices, int32(i))
		}
	}
}

// Positions returns the active world positions. The slice aliases the
// internal buffer; callers must not retain it across frames.
func (c *ColoredCloud) Positions() []r3.Vector {
	return c.positions[:c.count]
}

// Colors returns the active point colors, aliased like Positions.
func (c *ColoredCloud) Colors() []color.NRGBA {
	return c.colors[:c.count]
}

// Indices returns the index list from the last publish that had mesh
// updates enabled.
func (c *ColoredCloud) Indices() []int32 {
	return c.indices
}
