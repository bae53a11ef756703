package shutterscene

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func twoKeys(t *testing.T, interp Interpolation) *Animated {
	a := newAnimated(Vec3{})
	a.Keyframes.Interpolation = interp
	require.NoError(t, a.KeyframeInsert("position", 0))
	a.Position = Vec3{2, 4, 0}
	require.NoError(t, a.KeyframeInsert("position", 2))
	return &a
}

func TestKeyframesLinear(t *testing.T) {
	a := twoKeys(t, InterpolationLinear)
	p, ok := a.Keyframes.PositionAt(1)
	require.True(t, ok)
	assert.True(t, p.ApproxEqualThreshold(Vec3{1, 2, 0}, 1e-6), "midpoint %v", p)

	// outside the keyed range the nearest key holds
	p, _ = a.Keyframes.PositionAt(-3)
	assert.Equal(t, Vec3{}, p)
	p, _ = a.Keyframes.PositionAt(10)
	assert.Equal(t, Vec3{2, 4, 0}, p)

	tr := a.TransformAt(0.5)
	assert.True(t, tr.Position.ApproxEqualThreshold(Vec3{0.5, 1, 0}, 1e-6))
}

func TestKeyframesLinearWeightIsExact(t *testing.T) {
	a := newAnimated(Vec3{})
	require.NoError(t, a.KeyframeInsert("position", 0))
	a.Position = Vec3{3, 0, 0}
	require.NoError(t, a.KeyframeInsert("position", 3))
	p, _ := a.Keyframes.PositionAt(1)
	assert.Equal(t, 1.0, p.X(), "linear blend is computed in float64")
}

func TestKeyframesNaNFrameHoldsFirstKey(t *testing.T) {
	a := twoKeys(t, InterpolationLinear)
	require.NoError(t, a.KeyframeInsert("quaternion", 0))
	require.NoError(t, a.KeyframeInsert("quaternion", 2))
	assert.NotPanics(t, func() {
		p, ok := a.Keyframes.PositionAt(math.NaN())
		assert.True(t, ok)
		assert.Equal(t, Vec3{}, p)
		_, ok = a.Keyframes.QuaternionAt(math.NaN())
		assert.True(t, ok)
	})
}

func TestKeyframesBezierAndConstant(t *testing.T) {
	b := twoKeys(t, InterpolationBezier)
	p, _ := b.Keyframes.PositionAt(0.5)
	// in-out cubic at u=0.25 is 4u^3
	assert.InDelta(t, 2*0.0625, p.X(), 1e-6)
	p, _ = b.Keyframes.PositionAt(1)
	assert.InDelta(t, 1, p.X(), 1e-6)

	c := twoKeys(t, InterpolationConstant)
	p, _ = c.Keyframes.PositionAt(1.9)
	assert.Equal(t, Vec3{}, p)
}

func TestKeyframeInsertSortsAndReplaces(t *testing.T) {
	a := newAnimated(Vec3{5, 0, 0})
	require.NoError(t, a.KeyframeInsert("position", 5))
	a.Position = Vec3{1, 0, 0}
	require.NoError(t, a.KeyframeInsert("position", 1))
	a.Position = Vec3{7, 0, 0}
	require.NoError(t, a.KeyframeInsert("position", 5))

	require.Len(t, a.Keyframes.Position, 2)
	assert.Equal(t, 1, a.Keyframes.Position[0].Frame)
	assert.Equal(t, 5, a.Keyframes.Position[1].Frame)
	assert.Equal(t, Vec3{7, 0, 0}, a.Keyframes.Position[1].Value)

	assert.Error(t, a.KeyframeInsert("scale", 1))
	assert.True(t, a.IsAnimated())
	assert.False(t, (&Animated{}).IsAnimated())
}

func TestQuaternionSlerp(t *testing.T) {
	a := newAnimated(Vec3{})
	require.NoError(t, a.KeyframeInsert("quaternion", 0))
	a.Quaternion = mgl64.QuatRotate(math.Pi/2, axisZ)
	require.NoError(t, a.KeyframeInsert("quaternion", 10))

	q, ok := a.Keyframes.QuaternionAt(5)
	require.True(t, ok)
	assert.InDelta(t, math.Pi/4, yaw(q), 1e-6)
}

func TestParseInterpolation(t *testing.T) {
	for in, want := range map[string]Interpolation{"": InterpolationLinear, "bezier": InterpolationBezier, " Constant ": InterpolationConstant} {
		got, err := ParseInterpolation(in)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
	_, err := ParseInterpolation("cubic")
	assert.Error(t, err)
}
