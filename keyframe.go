package arbor

import (
	"math"
	"sort"
	"strconv"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"
	"github.com/tanema/gween/ease"
)

// Key is one time/value sample of a Track.
type Key[V any] struct {
	Time  float64
	Value V
}

// InterpolateFunc blends a and b; fraction is in [0, 1].
type InterpolateFunc[V any] func(a, b V, fraction float64) V

// EmptyTrackError is returned when a track is built from zero keys.
type EmptyTrackError struct{}

func (*EmptyTrackError) Error() string {
	return "keyframe track has no keys"
}

// DuplicateKeyError is returned when two keys share a time. A repeated time
// would create a zero-length interval.
type DuplicateKeyError struct {
	Time float64
}

func (e *DuplicateKeyError) Error() string {
	return "keyframe track has duplicate key time " + formatFloat(e.Time)
}

// InvalidKeyTimeError is returned for NaN or infinite key times.
type InvalidKeyTimeError struct {
	Time float64
}

func (e *InvalidKeyTimeError) Error() string {
	return "keyframe track has invalid key time " + formatFloat(e.Time)
}

// Track stores keyframes for one channel and interpolates between them.
// A Track is immutable after construction; Value has no side effects.
type Track[V any] struct {
	times       []float64
	values      []V
	interpolate InterpolateFunc[V]
	ease        ease.TweenFunc
}

// TrackOption configures a Track at construction.
type TrackOption func(*trackConfig)

type trackConfig struct {
	ease ease.TweenFunc
}

// WithEasing reshapes the fraction between two keys with a gween easing
// function before interpolation. Linear easing leaves it unchanged.
func WithEasing(fn ease.TweenFunc) TrackOption {
	return func(c *trackConfig) {
		c.ease = fn
	}
}

// NewTrack builds a track from keys in any order. Keys are sorted by time.
// It fails when keys is empty, when two keys share a time, when a time is
// NaN or infinite, or when interpolate is nil.
func NewTrack[V any](keys []Key[V], interpolate InterpolateFunc[V], opts ...TrackOption) (*Track[V], error) {
	if len(keys) == 0 {
		return nil, &EmptyTrackError{}
	}
	if interpolate == nil {
		return nil, errors.New("keyframe track needs an interpolation function")
	}
	var cfg trackConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	sorted := make([]Key[V], len(keys))
	copy(sorted, keys)
	for _, k := range sorted {
		if math.IsNaN(k.Time) || math.IsInf(k.Time, 0) {
			return nil, &InvalidKeyTimeError{Time: k.Time}
		}
	}
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Time < sorted[j].Time })

	tr := &Track[V]{
		times:       make([]float64, len(sorted)),
		values:      make([]V, len(sorted)),
		interpolate: interpolate,
		ease:        cfg.ease,
	}
	for i, k := range sorted {
		if i > 0 && k.Time == sorted[i-1].Time {
			return nil, &DuplicateKeyError{Time: k.Time}
		}
		tr.times[i] = k.Time
		tr.values[i] = k.Value
	}
	return tr, nil
}

// Value returns the interpolated value at t. Times before the first key
// return the first value; times after the last key return the last value.
func (tr *Track[V]) Value(t float64) V {
	last := len(tr.times) - 1
	if t <= tr.times[0] {
		return tr.values[0]
	}
	if t >= tr.times[last] {
		return tr.values[last]
	}
	// times[i-1] < t <= times[i]
	i := sort.SearchFloat64s(tr.times, t)
	if tr.times[i] == t {
		return tr.values[i]
	}
	t0, t1 := tr.times[i-1], tr.times[i]
	fraction := (t - t0) / (t1 - t0)
	if tr.ease != nil {
		fraction = float64(tr.ease(float32(fraction), 0, 1, 1))
	}
	return tr.interpolate(tr.values[i-1], tr.values[i], fraction)
}

// Len returns the number of keys.
func (tr *Track[V]) Len() int {
	return len(tr.times)
}

// Start returns the time of the first key.
func (tr *Track[V]) Start() float64 {
	return tr.times[0]
}

// End returns the time of the last key.
func (tr *Track[V]) End() float64 {
	return tr.times[len(tr.times)-1]
}

// Duration returns End - Start.
func (tr *Track[V]) Duration() float64 {
	return tr.End() - tr.Start()
}

// KeysFromMap converts a time→value map into keys, sorted by time.
func KeysFromMap[V any](m map[float64]V) []Key[V] {
	keys := make([]Key[V], 0, len(m))
	for t, v := range m {
		keys = append(keys, Key[V]{Time: t, Value: v})
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i].Time < keys[j].Time })
	return keys
}

// --- Interpolators ---

// LerpFloat linearly blends two scalars.
func LerpFloat(a, b, fraction float64) float64 {
	return a + (b-a)*fraction
}

// LerpFloat32 linearly blends two float32 scalars.
func LerpFloat32(a, b float32, fraction float64) float32 {
	return a + (b-a)*float32(fraction)
}

// LerpVec3 linearly blends two vectors component-wise.
func LerpVec3(a, b mgl32.Vec3, fraction float64) mgl32.Vec3 {
	return a.Add(b.Sub(a).Mul(float32(fraction)))
}

// Slerp blends two rotations along the shortest arc. q and -q encode the
// same rotation; b is negated when it lies in the opposite hemisphere of a
// so the blend never takes the long way round.
func Slerp(a, b mgl32.Quat, fraction float64) mgl32.Quat {
	if a.Dot(b) < 0 {
		b = b.Scale(-1)
	}
	return mgl32.QuatSlerp(a, b, float32(fraction)).Normalize()
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}
