package shutterscene

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"math"
	"os"
	"path/filepath"

	"golang.org/x/image/tiff"
)

// WriteImageDict writes every frame of every layer into dir as <layer>_<frame>.<ext>.
// Color is written as 8-bit PNG (gamma 0 selects the sRGB curve), segmentation as
// 8-bit gray PNG, depth as 16-bit TIFF and the vector layers as 16-bit PNG.
func WriteImageDict(layers Layers, dir string, frameStart int, gamma Real) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	for _, name := range layers.Names() {
		l := layers[name]
		for fi := range l.Frames {
			var (
				img image.Image
				ext = "png"
			)
			switch name {
			case LayerRGBA:
				img = colorImage(l, fi, gamma)
			case LayerSegmentation:
				img = segmentationImage(l, fi)
			case LayerDepth:
				img, ext = depthImage(l, fi), "tiff"
			case LayerNormal:
				img = vectorImage(l, fi, func(v float32) Real { return (Real(v) + 1) * 0.5 })
			case LayerObjectCoordinates:
				img = vectorImage(l, fi, func(v float32) Real { return Real(v) })
			case LayerForwardFlow, LayerBackwardFlow:
				m := maxAbs(l.Frames[fi])
				img = vectorImage(l, fi, func(v float32) Real { return (Real(v)/m + 1) * 0.5 })
			default:
				return fmt.Errorf("don't know how to write layer %q", name)
			}
			path := filepath.Join(dir, fmt.Sprintf("%s_%05d.%s", name, frameStart+fi, ext))
			if err := writeImage(path, img, ext); err != nil {
				return fmt.Errorf("write %s: %w", path, err)
			}
		}
		DebugLog("Wrote %d %s frames to %s", len(l.Frames), name, dir)
	}
	return nil
}

func writeImage(path string, img image.Image, ext string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := encodeImage(f, img, ext); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func encodeImage(w io.Writer, img image.Image, ext string) error {
	if ext == "tiff" {
		return tiff.Encode(w, img, &tiff.Options{Compression: tiff.Deflate, Predictor: true})
	}
	enc := png.Encoder{CompressionLevel: png.BestSpeed} // lossless either way
	return enc.Encode(w, img)
}

// encodeTransfer maps a linear value to display space.
func encodeTransfer(c RGBA, gamma Real) RGBA {
	if gamma <= 0 {
		return c.SRGB()
	}
	g := func(v Real) Real { return math.Pow(clamp01(v), 1/gamma) }
	return RGBA{g(c.R), g(c.G), g(c.B), clamp01(c.A)}
}

func colorImage(l *Layer, fi int, gamma Real) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, l.Width, l.Height))
	buf := l.Frames[fi]
	for y := 0; y < l.Height; y++ {
		rowOff := y * img.Stride
		for x := 0; x < l.Width; x++ {
			b := l.idx(x, y, 0)
			c := encodeTransfer(RGBA{Real(buf[b+ChR]), Real(buf[b+ChG]), Real(buf[b+ChB]), Real(buf[b+ChA])}, gamma)
			p := rowOff + x*4
			img.Pix[p+0] = toU8(c.R)
			img.Pix[p+1] = toU8(c.G)
			img.Pix[p+2] = toU8(c.B)
			img.Pix[p+3] = toU8(c.A)
		}
	}
	return img
}

func segmentationImage(l *Layer, fi int) *image.Gray {
	img := image.NewGray(image.Rect(0, 0, l.Width, l.Height))
	for y := 0; y < l.Height; y++ {
		for x := 0; x < l.Width; x++ {
			id := l.At(fi, x, y, 0)
			if id > 255 {
				id = 255
			}
			img.SetGray(x, y, color.Gray{Y: uint8(id)})
		}
	}
	return img
}

// depthImage normalizes by the frame's farthest hit; background (0) stays 0.
func depthImage(l *Layer, fi int) *image.Gray16 {
	img := image.NewGray16(image.Rect(0, 0, l.Width, l.Height))
	m := maxAbs(l.Frames[fi])
	for y := 0; y < l.Height; y++ {
		for x := 0; x < l.Width; x++ {
			img.SetGray16(x, y, color.Gray16{Y: toU16(Real(l.At(fi, x, y, 0)) / m)})
		}
	}
	return img
}

// vectorImage packs up to three channels into a 16-bit RGB image via norm.
func vectorImage(l *Layer, fi int, norm func(float32) Real) *image.NRGBA64 {
	img := image.NewNRGBA64(image.Rect(0, 0, l.Width, l.Height))
	for y := 0; y < l.Height; y++ {
		for x := 0; x < l.Width; x++ {
			var ch [3]uint16
			for c := 0; c < l.Channels && c < 3; c++ {
				ch[c] = toU16(norm(l.At(fi, x, y, c)))
			}
			img.SetNRGBA64(x, y, color.NRGBA64{R: ch[0], G: ch[1], B: ch[2], A: 0xffff})
		}
	}
	return img
}

func maxAbs(buf []float32) Real {
	m := 0.0
	for _, v := range buf {
		if a := math.Abs(Real(v)); a > m && isFinite(a) {
			m = a
		}
	}
	if m == 0 {
		m = 1 // avoid div-by-zero; the frame is uniform anyway
	}
	return m
}

func toU8(v Real) uint8 {
	return uint8(math.Round(clamp01(v) * 255))
}

func toU16(v Real) uint16 {
	return uint16(math.Round(clamp01(v) * 65535))
}
