package shutterscene

import (
	"errors"
	"image"
	"image/color/palette"
	"image/draw"
	"image/gif"
	"os"
)

// SaveAnimatedGIF writes a looping preview with one GIF frame per color frame.
// delay is in 100ths of a second (e.g., 8 => 12.5 fps).
func SaveAnimatedGIF(rgba *Layer, path string, delay int, gamma Real) error {
	if rgba == nil || len(rgba.Frames) == 0 {
		return errors.New("no color frames to animate")
	}
	n := len(rgba.Frames)
	out := &gif.GIF{
		Image:     make([]*image.Paletted, 0, n),
		Delay:     make([]int, 0, n),
		LoopCount: 0,
	}
	for fi := 0; fi < n; fi++ {
		if fi%imax(1, n/10) == 0 {
			progressLog("GIF", Real(fi+1)*100/Real(n))
		}
		img := colorImage(rgba, fi, gamma)

		// Quantize to paletted for GIF
		pimg := image.NewPaletted(img.Bounds(), palette.Plan9)
		draw.FloydSteinberg.Draw(pimg, pimg.Bounds(), img, image.Point{})

		out.Image = append(out.Image, pimg)
		out.Delay = append(out.Delay, delay)
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := gif.EncodeAll(f, out); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
