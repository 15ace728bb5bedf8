package projection

import (
	"image/color"
	"testing"

	"github.com/golang/geo/r3"
	"go.viam.com/test"
	"gonum.org/v1/gonum/num/quat"

	"github.com/WOSOMTECH/TangoColoredPointCloud/calib"
	"github.com/WOSOMTECH/TangoColoredPointCloud/rimage"
	"github.com/WOSOMTECH/TangoColoredPointCloud/spatialmath"
)

var testIntrinsics = calib.CameraIntrinsics{Fx: 500, Fy: 500, Ppx: 320, Ppy: 240}

func TestNewDepthColorProjector(t *testing.T) {
	t.Run("rejects invalid intrinsics", func(t *testing.T) {
		_, err := NewDepthColorProjector(calib.CameraIntrinsics{}, spatialmath.NewZeroRigidTransform())
		test.That(t, err, test.ShouldNotBeNil)
	})

	t.Run("identity transform projects through the pinhole model", func(t *testing.T) {
		proj, err := NewDepthColorProjector(testIntrinsics, spatialmath.NewZeroRigidTransform())
		test.That(t, err, test.ShouldBeNil)

		px, py, pz := proj.Project(r3.Vector{X: 0, Y: 0, Z: 1})
		test.That(t, px, test.ShouldAlmostEqual, 320)
		test.That(t, py, test.ShouldAlmostEqual, 240)
		test.That(t, pz, test.ShouldAlmostEqual, 1)

		x, y := proj.PixelFor(r3.Vector{X: 0.1, Y: -0.2, Z: 2})
		test.That(t, x, test.ShouldAlmostEqual, 500*0.1/2+320)
		test.That(t, y, test.ShouldAlmostEqual, 500*-0.2/2+240)
	})

	t.Run("translation is folded into the matrix", func(t *testing.T) {
		colorTDepth := spatialmath.NewRigidTransform(r3.Vector{X: 0.1, Y: 0, Z: 0}, quat.Number{Real: 1})
		proj, err := NewDepthColorProjector(testIntrinsics, colorTDepth)
		test.That(t, err, test.ShouldBeNil)

		x, y := proj.PixelFor(r3.Vector{X: 0, Y: 0, Z: 1})
		test.That(t, x, test.ShouldAlmostEqual, 500*0.1+320)
		test.That(t, y, test.ShouldAlmostEqual, 240)
	})
}

func TestPixelForDegenerateDepth(t *testing.T) {
	proj, err := NewDepthColorProjector(testIntrinsics, spatialmath.NewZeroRigidTransform())
	test.That(t, err, test.ShouldBeNil)

	// z of zero means pz is exactly zero; the divide must be skipped
	// and the un-divided pair returned exactly
	x, y := proj.PixelFor(r3.Vector{X: 0.4, Y: -0.3, Z: 0})
	test.That(t, x, test.ShouldEqual, 500*0.4)
	test.That(t, y, test.ShouldEqual, 500*-0.3)
}

func TestColorFor(t *testing.T) {
	proj, err := NewDepthColorProjector(testIntrinsics, spatialmath.NewZeroRigidTransform())
	test.That(t, err, test.ShouldBeNil)

	img := rimage.NewColorImage(640, 240)
	want := color.NRGBA{R: 200, G: 100, B: 50, A: 255}
	// flat offset 320 in a 640-wide buffer is (x=320, y=0)
	img.SetXY(320, 0, want)

	t.Run("point at the optical axis samples offset 320", func(t *testing.T) {
		// (0,0,1) projects to pixel (320, 240); the row flip gives
		// (240-240)*640 + 320 = 320
		got := proj.ColorFor(r3.Vector{X: 0, Y: 0, Z: 1}, img)
		test.That(t, got, test.ShouldResemble, want)
	})

	t.Run("off-image projection gets the sentinel", func(t *testing.T) {
		got := proj.ColorFor(r3.Vector{X: 10, Y: 10, Z: 1}, img)
		test.That(t, got, test.ShouldResemble, rimage.Sentinel)
	})

	t.Run("behind-camera projection gets the sentinel", func(t *testing.T) {
		got := proj.ColorFor(r3.Vector{X: 0, Y: 2, Z: -1}, img)
		test.That(t, got, test.ShouldResemble, rimage.Sentinel)
	})
}
