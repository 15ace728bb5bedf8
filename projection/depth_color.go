// Package projection maps depth-camera-space points into color image
// pixels. The pinhole intrinsic matrix is folded algebraically into
// the depth-to-color rigid transform once, so the per-point cost is a
// single 3x4 multiply.
package projection

import (
	"image/color"

	"github.com/golang/geo/r3"
	"gonum.org/v1/gonum/mat"

	"github.com/WOSOMTECH/TangoColoredPointCloud/calib"
	"github.com/WOSOMTECH/TangoColoredPointCloud/rimage"
	"github.com/WOSOMTECH/TangoColoredPointCloud/spatialmath"
)

// DepthColorProjector carries the fused projection matrix
// A = K · [R|t] for the depth-to-color transform. Build once per
// session; Project is pure.
type DepthColorProjector struct {
	// a is A flattened row-major; per point the work is three dot
	// products.
	a [12]float64
}

// NewDepthColorProjector folds the color camera intrinsics into the
// colorTDepth rigid transform.
func NewDepthColorProjector(
	intr calib.CameraIntrinsics,
	colorTDepth spatialmath.RigidTransform,
) (*DepthColorProjector, error) {
	if err := intr.CheckValid(); err != nil {
		return nil, err
	}
	k := mat.NewDense(3, 3, []float64{
		intr.Fx, 0, intr.Ppx,
		0, intr.Fy, intr.Ppy,
		0, 0, 1,
	})
	tr := colorTDepth.Translation()
	var rt mat.Dense
	rt.Augment(colorTDepth.Rotation(), mat.NewDense(3, 1, []float64{tr.X, tr.Y, tr.Z}))
	var a mat.Dense
	a.Mul(k, &rt)

	proj := &DepthColorProjector{}
	copy(proj.a[:], a.RawMatrix().Data)
	return proj, nil
}

// Project applies the fused matrix to a point in the depth camera's
// own frame, returning homogeneous image coordinates.
func (p *DepthColorProjector) Project(pt r3.Vector) (px, py, pz float64) {
	px = p.a[0]*pt.X + p.a[1]*pt.Y + p.a[2]*pt.Z + p.a[3]
	py = p.a[4]*pt.X + p.a[5]*pt.Y + p.a[6]*pt.Z + p.a[7]
	pz = p.a[8]*pt.X + p.a[9]*pt.Y + p.a[10]*pt.Z + p.a[11]
	return px, py, pz
}

// PixelFor reduces the homogeneous coordinates for a point to pixel
// coordinates. A zero pz skips the divide and returns (px, py)
// unchanged; the un-normalized pair is a long-standing quirk kept for
// compatibility, not a crash.
func (p *DepthColorProjector) PixelFor(pt r3.Vector) (float64, float64) {
	px, py, pz := p.Project(pt)
	if pz != 0 {
		return px / pz, py / pz
	}
	return px, py
}

// ColorFor samples the color for a depth-camera-space point from the
// captured frame. The captured buffer's rows run bottom-up relative
// to pixel space, hence the row flip in the offset. Points projecting
// outside the image get rimage.Sentinel.
func (p *DepthColorProjector) ColorFor(pt r3.Vector, img *rimage.ColorImage) color.NRGBA {
	x, y := p.PixelFor(pt)
	offset := (img.Height-int(y))*img.Width + int(x)
	return img.AtFlat(offset)
}
