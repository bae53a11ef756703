package shutterscene

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestScene(t *testing.T, w, h, frameEnd int, opts Options) (*Scene, *Scenario) {
	t.Helper()
	s, err := NewScene(w, h, 0, frameEnd, FrameRate, StepRate)
	require.NoError(t, err)
	s.Ambient = MustGetColor("white").Mul(0.05)
	s.Background = RGBA{A: 1}
	sc, err := BuildScenario(s, opts, rand.New(rand.NewSource(1)))
	require.NoError(t, err)
	return s, sc
}

func newTestRenderer(s *Scene, spp int) *Renderer {
	r := NewRenderer(s)
	r.Settings.Spp = spp
	r.Settings.Seed = 1
	return r
}

func TestBuildScenario(t *testing.T) {
	opts := DefaultOptions()
	s, sc := newTestScene(t, 32, 24, 1, opts)
	assert.Equal(t, Vec3{}, sc.Pole.AngularVelocity, "rotate_pole=0 leaves the pole still")
	assert.True(t, sc.Pole.Static)
	assert.Equal(t, 2, sc.Pole.SegmentationID)
	assert.Equal(t, Vec3{0.1, 5, 0.1}, sc.Pole.Scale)
	assert.True(t, sc.Floor.Background)
	assert.Equal(t, 1, sc.Floor.SegmentationID)
	assert.Equal(t, Vec3{0, 0, 5}, sc.Camera.Position)
	assert.Equal(t, 1.5, sc.Sun.Intensity)
	assert.Same(t, sc.Camera, s.Camera)
	assert.Len(t, s.Objects, 2)

	opts.RotatePole = 1
	_, sc = newTestScene(t, 32, 24, 1, opts)
	assert.Equal(t, Vec3{0, 0, opts.AngularVel}, sc.Pole.AngularVelocity)
	assert.True(t, sc.Pole.Kinematic())
}

func TestRenderLayers(t *testing.T) {
	s, _ := newTestScene(t, 32, 24, 1, DefaultOptions())
	r := newTestRenderer(s, 1)
	layers, err := r.Render()
	require.NoError(t, err)

	assert.Equal(t, []string{
		LayerBackwardFlow, LayerDepth, LayerForwardFlow, LayerNormal,
		LayerObjectCoordinates, LayerRGBA, LayerSegmentation,
	}, layers.Names())
	for _, name := range layers.Names() {
		require.Len(t, layers[name].Frames, 2, name)
	}

	seg := layers[LayerSegmentation]
	assert.Equal(t, float32(2), seg.At(0, 16, 12, 0), "pole in the image center")
	assert.Equal(t, float32(1), seg.At(0, 0, 12, 0), "floor at the border")
	assert.InDelta(t, 4.9, layers[LayerDepth].At(0, 16, 12, 0), 1e-2)
	assert.InDelta(t, 1, layers[LayerNormal].At(0, 16, 12, 2), 1e-6)
	assert.Equal(t, float32(1), layers[LayerRGBA].At(1, 0, 0, ChA))

	hits, misses := r.Stats.Count(RayHit), r.Stats.Count(RayMiss)
	assert.Equal(t, int64(32*24*2), hits+misses)
	assert.Zero(t, misses)
}

func TestRenderDeterministicAcrossWorkers(t *testing.T) {
	opts := DefaultOptions()
	opts.RotatePole = 1
	s, _ := newTestScene(t, 16, 12, 2, opts)
	_, err := NewSimulator(s).Run()
	require.NoError(t, err)

	render := func(workers int) Layers {
		r := newTestRenderer(s, 3)
		r.Settings.Workers = workers
		r.Settings.Shutter = blur(MotionBlurCenter, RollingShutterTop, 0.2)
		layers, err := r.Render()
		require.NoError(t, err)
		return layers
	}
	a, b := render(1), render(4)
	assert.Equal(t, a[LayerRGBA].Frames, b[LayerRGBA].Frames)
}

func TestRenderFlowFollowsCamera(t *testing.T) {
	s, sc := newTestScene(t, 32, 24, 1, DefaultOptions())
	_, err := TranslateCamera(s, 0.5)
	require.NoError(t, err)
	layers, err := newTestRenderer(s, 1).Render()
	require.NoError(t, err)

	// the floor sits 5 units below the camera; a 0.5 step moves it fx*0.5/5 pixels
	fx := sc.Camera.Intrinsics(32, 24).At(0, 0)
	want := fx * 0.5 / 5
	fwd, bwd := layers[LayerForwardFlow], layers[LayerBackwardFlow]
	assert.InDelta(t, -want, fwd.At(0, 0, 12, 0), 1e-4)
	assert.InDelta(t, 0, fwd.At(0, 0, 12, 1), 1e-4)
	assert.InDelta(t, want, bwd.At(1, 0, 12, 0), 1e-4)
	assert.Zero(t, fwd.At(1, 0, 12, 0), "no forward flow on the last frame")
	assert.Zero(t, bwd.At(0, 0, 12, 0), "no backward flow on the first frame")
}

func TestRenderErrors(t *testing.T) {
	s, err := NewScene(8, 6, 0, 0, FrameRate, StepRate)
	require.NoError(t, err)
	_, err = NewRenderer(s).Render()
	assert.Error(t, err, "no camera")

	s, _ = newTestScene(t, 8, 6, 0, DefaultOptions())
	r := newTestRenderer(s, 0)
	_, err = r.Render()
	assert.Error(t, err)

	r = newTestRenderer(s, 1)
	r.Settings.Shutter.MotionBlurShutter = 2
	_, err = r.Render()
	assert.Error(t, err)
}

func TestRenderRejectsNaNShutter(t *testing.T) {
	opts := DefaultOptions()
	opts.RotatePole = 1
	s, _ := newTestScene(t, 8, 6, 1, opts)
	_, err := NewSimulator(s).Run()
	require.NoError(t, err)

	r := newTestRenderer(s, 2)
	r.Settings.Shutter = blur(MotionBlurCenter, RollingShutterNone, 0.1)
	r.Settings.Shutter.MotionBlurShutter = math.NaN()
	assert.NotPanics(t, func() {
		_, err = r.Render()
	})
	assert.Error(t, err)

	r.Settings.Shutter = blur(MotionBlurCenter, RollingShutterTop, math.NaN())
	_, err = r.Render()
	assert.Error(t, err)
}

func TestRenderSupersample(t *testing.T) {
	s, _ := newTestScene(t, 8, 6, 0, DefaultOptions())
	r := newTestRenderer(s, 1)
	r.Settings.Supersample = 2
	layers, err := r.Render()
	require.NoError(t, err)
	assert.Len(t, layers[LayerRGBA].Frames[0], 8*6*4)
}

func TestDownsampleConstant(t *testing.T) {
	src := make([]float32, 8*8*4)
	for i := 0; i < len(src); i += 4 {
		src[i+ChR], src[i+ChG], src[i+ChB], src[i+ChA] = 0.5, 1.5, 0, 1
	}
	out := downsample(src, 8, 8, 4, 4)
	require.Len(t, out, 4*4*4)
	for i := 0; i < len(out); i += 4 {
		assert.InDelta(t, 0.5, out[i+ChR], 1e-3)
		assert.InDelta(t, 1.5, out[i+ChG], 1e-3)
		assert.InDelta(t, 0, out[i+ChB], 1e-3)
		assert.InDelta(t, 1, out[i+ChA], 1e-3)
	}
}
