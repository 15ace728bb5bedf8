// Package spatialmath implements the rigid-body math the colored
// point cloud pipeline runs on: 4x4 homogeneous transforms relating
// sensor coordinate frames.
package spatialmath

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/golang/geo/r3"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/num/quat"
)

// RigidTransform is a rigid relation between two coordinate frames,
// an orthonormal rotation plus a translation stored as a 4x4
// homogeneous matrix. The zero value is NOT a valid transform; use
// one of the constructors.
type RigidTransform struct {
	m mgl64.Mat4
}

// NewZeroRigidTransform returns the identity transform.
func NewZeroRigidTransform() RigidTransform {
	return RigidTransform{m: mgl64.Ident4()}
}

// NewRigidTransform builds a transform from a translation and a unit
// quaternion orientation. The quaternion is normalized so the
// rotation block stays orthonormal even for slightly drifted sensor
// quaternions.
func NewRigidTransform(t r3.Vector, q quat.Number) RigidTransform {
	mq := mgl64.Quat{W: q.Real, V: mgl64.Vec3{q.Imag, q.Jmag, q.Kmag}}.Normalize()
	m := mq.Mat4()
	m.SetCol(3, mgl64.Vec4{t.X, t.Y, t.Z, 1})
	return RigidTransform{m: m}
}

// NewRigidTransformFromRows builds a transform from row-major 4x4
// data. The caller is responsible for the rotation block being
// orthonormal; this is meant for fixed axis-remap constants.
func NewRigidTransformFromRows(rows [16]float64) RigidTransform {
	return RigidTransform{m: mgl64.Mat4FromRows(
		mgl64.Vec4{rows[0], rows[1], rows[2], rows[3]},
		mgl64.Vec4{rows[4], rows[5], rows[6], rows[7]},
		mgl64.Vec4{rows[8], rows[9], rows[10], rows[11]},
		mgl64.Vec4{rows[12], rows[13], rows[14], rows[15]},
	)}
}

// Compose chains two transforms: the result maps a point through
// other first and then through t, i.e. the matrix product t · other.
func (t RigidTransform) Compose(other RigidTransform) RigidTransform {
	return RigidTransform{m: t.m.Mul4(other.m)}
}

// Inverse returns the transform mapping in the opposite direction.
func (t RigidTransform) Inverse() RigidTransform {
	return RigidTransform{m: t.m.Inv()}
}

// TransformPoint applies t to a point with an implicit w of 1. Rigid
// transforms keep w at 1, so there is no perspective divide.
func (t RigidTransform) TransformPoint(p r3.Vector) r3.Vector {
	v := t.m.Mul4x1(mgl64.Vec4{p.X, p.Y, p.Z, 1})
	return r3.Vector{X: v.X(), Y: v.Y(), Z: v.Z()}
}

// Translation returns the translation column.
func (t RigidTransform) Translation() r3.Vector {
	return r3.Vector{X: t.m.At(0, 3), Y: t.m.At(1, 3), Z: t.m.At(2, 3)}
}

// Rotation returns a copy of the 3x3 rotation block.
func (t RigidTransform) Rotation() *mat.Dense {
	rot := mat.NewDense(3, 3, nil)
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			rot.Set(i, j, t.m.At(i, j))
		}
	}
	return rot
}

// ApproxEqual reports whether two transforms agree elementwise within
// tol.
func (t RigidTransform) ApproxEqual(other RigidTransform, tol float64) bool {
	for i := range t.m {
		if math.Abs(t.m[i]-other.m[i]) > tol {
			return false
		}
	}
	return true
}
