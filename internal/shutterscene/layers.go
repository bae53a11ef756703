package shutterscene

import (
	"fmt"
	"sort"
)

// Layer is one rendered output channel: Frames[f] is a W*H*Channels row-major buffer.
type Layer struct {
	Name     string
	Width    int
	Height   int
	Channels int
	Frames   [][]float32
}

func newLayer(name string, w, h, channels, frames int) *Layer {
	l := &Layer{Name: name, Width: w, Height: h, Channels: channels, Frames: make([][]float32, frames)}
	for f := range l.Frames {
		l.Frames[f] = make([]float32, w*h*channels)
	}
	return l
}

func (l *Layer) idx(x, y, c int) int {
	return (y*l.Width+x)*l.Channels + c
}

// At returns channel c of pixel (x, y) in frame f (f indexes Frames, not scene frames).
func (l *Layer) At(f, x, y, c int) float32 {
	return l.Frames[f][l.idx(x, y, c)]
}

// Layers maps a channel name to its rendered frames.
type Layers map[string]*Layer

// Pop removes and returns a layer; a missing layer is an error.
func (ls Layers) Pop(name string) (*Layer, error) {
	l, ok := ls[name]
	if !ok {
		return nil, fmt.Errorf("render output has no %q layer", name)
	}
	delete(ls, name)
	return l, nil
}

// Names returns the layer names in sorted order.
func (ls Layers) Names() []string {
	names := make([]string, 0, len(ls))
	for k := range ls {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}
