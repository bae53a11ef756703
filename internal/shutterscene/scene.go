package shutterscene

import (
	"errors"
	"fmt"
)

// Asset is anything that can be added to a Scene.
type Asset interface {
	AssetName() string
	Validate() error
}

// Scene holds the render settings and every asset of the scenario.
type Scene struct {
	ResolutionX int                 `json:"resolution_x"`
	ResolutionY int                 `json:"resolution_y"`
	FrameStart  int                 `json:"frame_start"`
	FrameEnd    int                 `json:"frame_end"`
	FrameRate   int                 `json:"frame_rate"`
	StepRate    int                 `json:"step_rate"`
	Ambient     RGBA                `json:"ambient_illumination"`
	Background  RGBA                `json:"background"`
	Objects     []*Cube             `json:"objects"`
	Lights      []*DirectionalLight `json:"lights"`
	Camera      *PerspectiveCamera  `json:"camera"`

	names map[string]struct{}
}

// NewScene validates the settings and returns an empty scene.
func NewScene(resX, resY, frameStart, frameEnd, frameRate, stepRate int) (*Scene, error) {
	s := &Scene{
		ResolutionX: resX,
		ResolutionY: resY,
		FrameStart:  frameStart,
		FrameEnd:    frameEnd,
		FrameRate:   frameRate,
		StepRate:    stepRate,
		names:       make(map[string]struct{}),
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	DebugLog("Created scene resolution=(%d, %d), frames=[%d, %d], frameRate=%d, stepRate=%d", resX, resY, frameStart, frameEnd, frameRate, stepRate)
	return s, nil
}

// Validate checks the settings; it is re-run by the simulator and renderer since fields are exported.
func (s *Scene) Validate() error {
	if s.ResolutionX <= 0 || s.ResolutionY <= 0 {
		return fmt.Errorf("resolution must be positive, got %dx%d", s.ResolutionX, s.ResolutionY)
	}
	if s.FrameEnd < s.FrameStart {
		return fmt.Errorf("frame_end (%d) must be >= frame_start (%d)", s.FrameEnd, s.FrameStart)
	}
	if s.FrameRate <= 0 || s.StepRate <= 0 {
		return fmt.Errorf("frame_rate and step_rate must be positive, got %d / %d", s.FrameRate, s.StepRate)
	}
	if s.StepRate%s.FrameRate != 0 {
		return fmt.Errorf("step_rate (%d) must be a multiple of frame_rate (%d)", s.StepRate, s.FrameRate)
	}
	return nil
}

// Add validates an asset and attaches it; names must be unique across the scene.
// Adding a camera makes it the active camera.
func (s *Scene) Add(assets ...Asset) error {
	for _, a := range assets {
		if a == nil {
			return errors.New("cannot add a nil asset")
		}
		if err := a.Validate(); err != nil {
			return err
		}
		if s.names == nil {
			s.names = make(map[string]struct{})
		}
		name := a.AssetName()
		if _, dup := s.names[name]; dup {
			return fmt.Errorf("scene already has an asset named %q", name)
		}
		switch v := a.(type) {
		case *Cube:
			s.Objects = append(s.Objects, v)
		case *DirectionalLight:
			s.Lights = append(s.Lights, v)
		case *PerspectiveCamera:
			if s.Camera != nil {
				delete(s.names, s.Camera.Name)
			}
			s.Camera = v
		default:
			return fmt.Errorf("unsupported asset type %T", a)
		}
		s.names[name] = struct{}{}
		DebugLog("Added %T %q to the scene", a, name)
	}
	return nil
}

// Object returns the cube with the given name, or nil.
func (s *Scene) Object(name string) *Cube {
	for _, o := range s.Objects {
		if o.Name == name {
			return o
		}
	}
	return nil
}

// NumFrames counts frames in [FrameStart, FrameEnd].
func (s *Scene) NumFrames() int {
	return s.FrameEnd - s.FrameStart + 1
}

// FrameTime converts a (fractional) frame index to seconds since FrameStart.
func (s *Scene) FrameTime(frame Real) Real {
	return (frame - Real(s.FrameStart)) / Real(s.FrameRate)
}

// StepsPerFrame is the number of simulation steps between two frames.
func (s *Scene) StepsPerFrame() int {
	return s.StepRate / s.FrameRate
}
