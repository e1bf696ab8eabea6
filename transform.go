package arbor

import (
	"github.com/go-gl/mathgl/mgl32"
)

// Matrices are column-major and act on column vectors. Every composition
// site in arbor follows the same convention:
//
//	local = Translate · Rotate · Scale   (scale applied first)
//	model = parentModel · local

// Identity returns the 4×4 identity matrix.
func Identity() mgl32.Mat4 {
	return mgl32.Ident4()
}

// Translate returns a translation matrix.
func Translate(v mgl32.Vec3) mgl32.Mat4 {
	return mgl32.Translate3D(v[0], v[1], v[2])
}

// Scale returns a non-uniform scale matrix.
func Scale(v mgl32.Vec3) mgl32.Mat4 {
	return mgl32.Scale3D(v[0], v[1], v[2])
}

// UniformScale returns a scale matrix with the same factor on every axis.
func UniformScale(s float32) mgl32.Mat4 {
	return mgl32.Scale3D(s, s, s)
}

// Rotate returns a rotation of angle degrees around axis.
// The axis does not need to be normalized; a zero axis yields the identity.
func Rotate(axis mgl32.Vec3, angle float32) mgl32.Mat4 {
	if axis.Len() == 0 {
		return mgl32.Ident4()
	}
	return mgl32.HomogRotate3D(mgl32.DegToRad(angle), axis.Normalize())
}

// Quaternion returns the rotation of angle degrees around axis as a
// unit quaternion.
func Quaternion(axis mgl32.Vec3, angle float32) mgl32.Quat {
	if axis.Len() == 0 {
		return mgl32.QuatIdent()
	}
	return mgl32.QuatRotate(mgl32.DegToRad(angle), axis.Normalize())
}

// QuaternionFromEuler builds a rotation from Euler angles in degrees,
// applied as yaw around Z, then pitch around Y, then roll around X.
func QuaternionFromEuler(yaw, pitch, roll float32) mgl32.Quat {
	return mgl32.AnglesToQuat(
		mgl32.DegToRad(yaw),
		mgl32.DegToRad(pitch),
		mgl32.DegToRad(roll),
		mgl32.ZYX,
	)
}

// Compose builds the local matrix T · R · S from its components.
func Compose(translation mgl32.Vec3, rotation mgl32.Quat, scale mgl32.Vec3) mgl32.Mat4 {
	return Translate(translation).Mul4(rotation.Normalize().Mat4()).Mul4(Scale(scale))
}

// TransformPoint applies m to a point (w = 1) and returns the result after
// the perspective divide.
func TransformPoint(m mgl32.Mat4, p mgl32.Vec3) mgl32.Vec3 {
	return mgl32.TransformCoordinate(p, m)
}

// NormalMatrix returns the inverse-transpose of the upper 3×3 of model,
// used to carry normals into world space under non-uniform scale.
func NormalMatrix(model mgl32.Mat4) mgl32.Mat3 {
	return model.Mat3().Inv().Transpose()
}
