package arbor

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"
)

// TransformSampler turns translation, rotation and scale keyframes into a
// single time-varying transform. Each channel is sampled independently and
// the results are composed as T · R · S.
type TransformSampler struct {
	translation *Track[mgl32.Vec3]
	rotation    *Track[mgl32.Quat]
	scale       *Track[mgl32.Vec3]
}

// NewTransformSampler builds the three channel tracks. Translation and scale
// are blended linearly, rotation along the shortest arc. The options apply
// to all three tracks.
func NewTransformSampler(translate []Key[mgl32.Vec3], rotate []Key[mgl32.Quat], scale []Key[mgl32.Vec3], opts ...TrackOption) (*TransformSampler, error) {
	t, err := NewTrack(translate, LerpVec3, opts...)
	if err != nil {
		return nil, errors.Wrap(err, "translation keys")
	}
	r, err := NewTrack(rotate, Slerp, opts...)
	if err != nil {
		return nil, errors.Wrap(err, "rotation keys")
	}
	s, err := NewTrack(scale, LerpVec3, opts...)
	if err != nil {
		return nil, errors.Wrap(err, "scale keys")
	}
	return &TransformSampler{translation: t, rotation: r, scale: s}, nil
}

// Value returns the transform at time t.
func (s *TransformSampler) Value(t float64) mgl32.Mat4 {
	return Compose(s.Translation(t), s.Rotation(t), s.Scale(t))
}

// Translation samples the translation channel alone.
func (s *TransformSampler) Translation(t float64) mgl32.Vec3 {
	return s.translation.Value(t)
}

// Rotation samples the rotation channel alone.
func (s *TransformSampler) Rotation(t float64) mgl32.Quat {
	return s.rotation.Value(t)
}

// Scale samples the scale channel alone.
func (s *TransformSampler) Scale(t float64) mgl32.Vec3 {
	return s.scale.Value(t)
}

// Duration returns the time of the latest key across all channels.
func (s *TransformSampler) Duration() float64 {
	return math.Max(s.translation.End(), math.Max(s.rotation.End(), s.scale.End()))
}

// UniformScaleKeys turns scalar scale keys into vector keys.
func UniformScaleKeys(keys []Key[float32]) []Key[mgl32.Vec3] {
	out := make([]Key[mgl32.Vec3], len(keys))
	for i, k := range keys {
		out[i] = Key[mgl32.Vec3]{Time: k.Time, Value: mgl32.Vec3{k.Value, k.Value, k.Value}}
	}
	return out
}
