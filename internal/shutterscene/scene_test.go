package shutterscene

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSceneValidation(t *testing.T) {
	s, err := NewScene(640, 480, 0, 6, 24, 240)
	require.NoError(t, err)
	assert.Equal(t, 7, s.NumFrames())
	assert.Equal(t, 10, s.StepsPerFrame())
	assert.InDelta(t, 0.5, s.FrameTime(12), 1e-12)

	for _, tc := range []struct {
		name                 string
		w, h, fs, fe, fr, sr int
	}{
		{"step rate not a multiple", 640, 480, 0, 6, 24, 250},
		{"zero frame rate", 640, 480, 0, 6, 0, 240},
		{"frame end before start", 640, 480, 5, 4, 24, 240},
		{"zero resolution", 0, 480, 0, 6, 24, 240},
	} {
		_, err := NewScene(tc.w, tc.h, tc.fs, tc.fe, tc.fr, tc.sr)
		assert.Error(t, err, tc.name)
	}
}

func TestSceneAdd(t *testing.T) {
	s, err := NewScene(64, 48, 0, 2, 24, 240)
	require.NoError(t, err)

	box, err := CubeCfg{Name: "thing"}.Build()
	require.NoError(t, err)
	sun, err := NewDirectionalLight("thing", Vec3{0, 0, 6}, Vec3{}, 1)
	require.NoError(t, err)
	require.NoError(t, s.Add(box))
	assert.Error(t, s.Add(sun), "duplicate names are rejected")
	assert.Error(t, s.Add(nil))
	assert.Same(t, box, s.Object("thing"))
	assert.Nil(t, s.Object("missing"))

	cam1, err := NewPerspectiveCamera("cam1", Vec3{0, 0, 5}, Vec3{}, 0, 0)
	require.NoError(t, err)
	cam2, err := NewPerspectiveCamera("cam2", Vec3{0, 0, 5}, Vec3{}, 0, 0)
	require.NoError(t, err)
	require.NoError(t, s.Add(cam1, cam2))
	assert.Same(t, cam2, s.Camera)

	// the replaced camera's name is free again
	other, err := CubeCfg{Name: "cam1"}.Build()
	require.NoError(t, err)
	assert.NoError(t, s.Add(other))

	invalid := &Cube{Name: "broken"}
	assert.Error(t, s.Add(invalid))
}
