package shutterscene

import (
	"encoding/binary"
	"image"
	"image/gif"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/tiff"
)

func tinyLayers() Layers {
	w, h, n := 4, 3, 2
	ls := Layers{
		LayerRGBA:              newLayer(LayerRGBA, w, h, 4, n),
		LayerSegmentation:      newLayer(LayerSegmentation, w, h, 1, n),
		LayerObjectCoordinates: newLayer(LayerObjectCoordinates, w, h, 3, n),
		LayerForwardFlow:       newLayer(LayerForwardFlow, w, h, 2, n),
		LayerBackwardFlow:      newLayer(LayerBackwardFlow, w, h, 2, n),
		LayerNormal:            newLayer(LayerNormal, w, h, 3, n),
		LayerDepth:             newLayer(LayerDepth, w, h, 1, n),
	}
	rgba := ls[LayerRGBA]
	for f := range rgba.Frames {
		for i := 0; i < w*h; i++ {
			rgba.Frames[f][i*4+ChA] = 1
		}
		// one bright pixel and one mid-gray pixel
		copy(rgba.Frames[f][rgba.idx(1, 1, 0):], []float32{1, 0.5, 0.25, 1})
		copy(rgba.Frames[f][rgba.idx(2, 1, 0):], []float32{0.5, 0.5, 0.5, 1})
		ls[LayerSegmentation].Frames[f][ls[LayerSegmentation].idx(1, 1, 0)] = 2
		ls[LayerDepth].Frames[f][ls[LayerDepth].idx(3, 2, 0)] = 4.9
		ls[LayerDepth].Frames[f][ls[LayerDepth].idx(0, 0, 0)] = 2.45
	}
	return ls
}

func TestWriteImageDict(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")
	require.NoError(t, WriteImageDict(tinyLayers(), dir, 3, 0))

	for _, name := range []string{
		"rgba_00003.png", "rgba_00004.png",
		"segmentation_00004.png", "object_coordinates_00003.png",
		"forward_flow_00003.png", "backward_flow_00004.png",
		"normal_00003.png", "depth_00004.tiff",
	} {
		_, err := os.Stat(filepath.Join(dir, name))
		assert.NoError(t, err, name)
	}

	f, err := os.Open(filepath.Join(dir, "rgba_00003.png"))
	require.NoError(t, err)
	defer f.Close()
	img, err := png.Decode(f)
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 4, 3), img.Bounds())
	r, _, _, a := img.At(1, 1).RGBA()
	assert.Equal(t, uint32(0xffff), r)
	assert.Equal(t, uint32(0xffff), a)
	g, _, _, _ := img.At(2, 1).RGBA()
	assert.InDelta(t, 188, g>>8, 1, "linear 0.5 is written sRGB encoded")

	sf, err := os.Open(filepath.Join(dir, "segmentation_00003.png"))
	require.NoError(t, err)
	defer sf.Close()
	seg, err := png.Decode(sf)
	require.NoError(t, err)
	assert.Equal(t, uint8(2), seg.(*image.Gray).GrayAt(1, 1).Y)

	df, err := os.Open(filepath.Join(dir, "depth_00003.tiff"))
	require.NoError(t, err)
	defer df.Close()
	depth, err := tiff.Decode(df)
	require.NoError(t, err)
	d16 := depth.(*image.Gray16)
	assert.Equal(t, uint16(0xffff), d16.Gray16At(3, 2).Y)
	assert.InDelta(t, 0x8000, d16.Gray16At(0, 0).Y, 1)
	assert.Equal(t, uint16(0), d16.Gray16At(1, 1).Y, "background depth")
}

func TestWriteImageDictUnknownLayer(t *testing.T) {
	ls := Layers{"albedo": newLayer("albedo", 2, 2, 3, 1)}
	assert.Error(t, WriteImageDict(ls, t.TempDir(), 0, 0))
}

func TestPopDiscardedLayers(t *testing.T) {
	ls := tinyLayers()
	for _, name := range DiscardedLayers {
		l, err := ls.Pop(name)
		require.NoError(t, err)
		assert.Equal(t, name, l.Name)
	}
	assert.Equal(t, []string{LayerRGBA}, ls.Names())
	_, err := ls.Pop(LayerDepth)
	assert.Error(t, err, "popping twice")

	dir := t.TempDir()
	require.NoError(t, WriteImageDict(ls, dir, 0, 2.2))
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 2)
}

func TestSaveAnimatedGIF(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.gif")
	require.NoError(t, SaveAnimatedGIF(tinyLayers()[LayerRGBA], path, 5, 0))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	g, err := gif.DecodeAll(f)
	require.NoError(t, err)
	assert.Len(t, g.Image, 2)
	assert.Equal(t, []int{5, 5}, g.Delay)

	assert.Error(t, SaveAnimatedGIF(nil, path, 5, 0))
}

func TestSaveRawFrames(t *testing.T) {
	dir := t.TempDir()
	l := tinyLayers()[LayerRGBA]
	require.NoError(t, SaveRawFrames(l, dir, 7))

	path := filepath.Join(dir, "rgba_00008.raw")
	st, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, int64(3*4+4*3*4*8), st.Size())

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	var hdr [3]int32
	require.NoError(t, binary.Read(f, binary.LittleEndian, &hdr))
	assert.Equal(t, [3]int32{4, 3, 4}, hdr)

	l.Frames[0] = l.Frames[0][:5]
	assert.Error(t, SaveRawFrames(l, dir, 0))
}
