package shutterscene

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"os"
	"path/filepath"
)

// SaveRawFrames dumps each frame of a layer as <dir>/<name>_<frame>.raw:
// header W, H, C as int32 (little-endian), body W*H*C float64 linear values.
func SaveRawFrames(l *Layer, dir string, frameStart int) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	exp := l.Width * l.Height * l.Channels
	for fi, buf := range l.Frames {
		if len(buf) != exp {
			return fmt.Errorf("frame %d length mismatch: got %d, expected %d (W*H*C)", fi, len(buf), exp)
		}
		path := filepath.Join(dir, fmt.Sprintf("%s_%05d.raw", l.Name, frameStart+fi))
		if err := saveRaw(path, l, buf); err != nil {
			return err
		}
	}
	return nil
}

func saveRaw(path string, l *Layer, buf []float32) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := encodeRaw(f, l, buf); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func encodeRaw(f *os.File, l *Layer, buf []float32) error {
	w := bufio.NewWriter(f)
	for _, v := range []int{l.Width, l.Height, l.Channels} {
		if err := binary.Write(w, binary.LittleEndian, int32(v)); err != nil {
			return err
		}
	}
	body := make([]float64, len(buf))
	for i, v := range buf {
		body[i] = float64(v)
	}
	if err := binary.Write(w, binary.LittleEndian, body); err != nil {
		return err
	}
	if err := w.Flush(); err != nil {
		return err
	}
	return f.Sync()
}
