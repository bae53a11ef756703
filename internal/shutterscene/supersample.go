package shutterscene

import (
	"image"
	"image/color"

	"golang.org/x/image/draw"
)

// hdrHeadroom is the largest linear value preserved through the 16-bit resampling.
const hdrHeadroom = 4.0

// downsample resizes a linear RGBA float buffer from sw x sh to dw x dh with a
// Catmull-Rom filter.
func downsample(src []float32, sw, sh, dw, dh int) []float32 {
	enc := func(v float32) uint16 {
		return uint16(clamp01(Real(v)/hdrHeadroom)*0xffff + 0.5)
	}
	in := image.NewNRGBA64(image.Rect(0, 0, sw, sh))
	for y := 0; y < sh; y++ {
		for x := 0; x < sw; x++ {
			b := (y*sw + x) * 4
			in.SetNRGBA64(x, y, color.NRGBA64{
				R: enc(src[b+ChR]),
				G: enc(src[b+ChG]),
				B: enc(src[b+ChB]),
				A: uint16(clamp01(Real(src[b+ChA]))*0xffff + 0.5),
			})
		}
	}

	out := image.NewRGBA64(image.Rect(0, 0, dw, dh))
	draw.CatmullRom.Scale(out, out.Bounds(), in, in.Bounds(), draw.Src, nil)

	buf := make([]float32, dw*dh*4)
	for y := 0; y < dh; y++ {
		for x := 0; x < dw; x++ {
			c := out.RGBA64At(x, y)
			b := (y*dw + x) * 4
			if c.A == 0 {
				continue
			}
			a := Real(c.A) / 0xffff
			// un-premultiply, then undo the headroom scaling
			k := hdrHeadroom / (a * 0xffff)
			buf[b+ChR] = float32(Real(c.R) * k)
			buf[b+ChG] = float32(Real(c.G) * k)
			buf[b+ChB] = float32(Real(c.B) * k)
			buf[b+ChA] = float32(a)
		}
	}
	return buf
}
