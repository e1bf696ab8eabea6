package arbor

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

const epsilon = 1e-5

func assertNear(t *testing.T, name string, got, want float64) {
	t.Helper()
	if math.Abs(got-want) > epsilon {
		t.Errorf("%s = %v, want %v", name, got, want)
	}
}

func assertVec3(t *testing.T, name string, got, want mgl32.Vec3) {
	t.Helper()
	if !got.ApproxEqualThreshold(want, epsilon) {
		t.Errorf("%s = %v, want %v", name, got, want)
	}
}

func assertMat4(t *testing.T, name string, got, want mgl32.Mat4) {
	t.Helper()
	for i := range got {
		if math.Abs(float64(got[i]-want[i])) > epsilon {
			t.Errorf("%s[%d] = %v, want %v (full: %v vs %v)", name, i, got[i], want[i], got, want)
			return
		}
	}
}

// --- Basic matrices ---

func TestTranslateMovesPoint(t *testing.T) {
	got := TransformPoint(Translate(mgl32.Vec3{1, 2, 3}), mgl32.Vec3{1, 1, 1})
	assertVec3(t, "translated", got, mgl32.Vec3{2, 3, 4})
}

func TestScaleStretchesPoint(t *testing.T) {
	got := TransformPoint(Scale(mgl32.Vec3{2, 3, 4}), mgl32.Vec3{1, 1, 1})
	assertVec3(t, "scaled", got, mgl32.Vec3{2, 3, 4})
	assertMat4(t, "uniform", UniformScale(2), Scale(mgl32.Vec3{2, 2, 2}))
}

func TestRotate90AroundZ(t *testing.T) {
	got := TransformPoint(Rotate(mgl32.Vec3{0, 0, 1}, 90), mgl32.Vec3{1, 0, 0})
	assertVec3(t, "rot90", got, mgl32.Vec3{0, 1, 0})
}

func TestRotateZeroAxisIsIdentity(t *testing.T) {
	assertMat4(t, "zero axis", Rotate(mgl32.Vec3{}, 45), Identity())
}

func TestRotateNormalizesAxis(t *testing.T) {
	assertMat4(t, "long axis", Rotate(mgl32.Vec3{0, 5, 0}, 30), Rotate(mgl32.Vec3{0, 1, 0}, 30))
}

func TestQuaternionMatchesRotate(t *testing.T) {
	axis := mgl32.Vec3{1, 1, 0}
	assertMat4(t, "quat", Quaternion(axis, 60).Mat4(), Rotate(axis, 60))
}

func TestQuaternionFromEulerYaw(t *testing.T) {
	q := QuaternionFromEuler(90, 0, 0)
	assertVec3(t, "yaw 90", q.Rotate(mgl32.Vec3{1, 0, 0}), mgl32.Vec3{0, 1, 0})
}

// --- Composition ---

func TestComposeScalesThenRotatesThenTranslates(t *testing.T) {
	m := Compose(mgl32.Vec3{10, 0, 0}, Quaternion(mgl32.Vec3{0, 0, 1}, 90), mgl32.Vec3{2, 2, 2})
	// (1,0,0) → scale (2,0,0) → rotate (0,2,0) → translate (10,2,0)
	assertVec3(t, "composed", TransformPoint(m, mgl32.Vec3{1, 0, 0}), mgl32.Vec3{10, 2, 0})
}

func TestComposeNormalizesRotation(t *testing.T) {
	q := Quaternion(mgl32.Vec3{0, 1, 0}, 45)
	scaled := mgl32.Quat{W: q.W * 3, V: q.V.Mul(3)}
	one := mgl32.Vec3{1, 1, 1}
	assertMat4(t, "normalized", Compose(mgl32.Vec3{}, scaled, one), Compose(mgl32.Vec3{}, q, one))
}

func TestNormalMatrixKeepsNormalsPerpendicular(t *testing.T) {
	model := Scale(mgl32.Vec3{2, 1, 1})
	tangent := TransformPoint(model, mgl32.Vec3{1, -1, 0})
	normal := NormalMatrix(model).Mul3x1(mgl32.Vec3{1, 1, 0})
	assertNear(t, "dot", float64(tangent.Dot(normal)), 0)
}
