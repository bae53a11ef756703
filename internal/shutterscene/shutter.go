package shutterscene

import (
	"fmt"
	"strings"
)

// RollingShutterType selects how scanlines are exposed.
type RollingShutterType string

const (
	RollingShutterNone RollingShutterType = "NONE"
	RollingShutterTop  RollingShutterType = "TOP"
)

// ParseRollingShutterType accepts NONE or TOP, case-insensitively.
func ParseRollingShutterType(s string) (RollingShutterType, error) {
	switch t := RollingShutterType(strings.ToUpper(strings.TrimSpace(s))); t {
	case RollingShutterNone, RollingShutterTop:
		return t, nil
	}
	return "", fmt.Errorf("unknown rolling shutter type %q (want NONE or TOP)", s)
}

// MotionBlurPosition places the shutter interval relative to the frame.
type MotionBlurPosition string

const (
	MotionBlurStart  MotionBlurPosition = "START"
	MotionBlurCenter MotionBlurPosition = "CENTER"
	MotionBlurEnd    MotionBlurPosition = "END"
)

// ParseMotionBlurPosition accepts START, CENTER or END, case-insensitively.
func ParseMotionBlurPosition(s string) (MotionBlurPosition, error) {
	switch p := MotionBlurPosition(strings.ToUpper(strings.TrimSpace(s))); p {
	case MotionBlurStart, MotionBlurCenter, MotionBlurEnd:
		return p, nil
	}
	return "", fmt.Errorf("unknown motion blur position %q (want START, CENTER or END)", s)
}

// ShutterSettings are the camera exposure settings of the renderer.
// Durations are fractions of a frame. Rolling shutter only applies with motion blur on.
type ShutterSettings struct {
	UseMotionBlur          bool               `json:"use_motion_blur"`
	MotionBlurShutter      Real               `json:"motion_blur_shutter"`
	MotionBlurPosition     MotionBlurPosition `json:"motion_blur_position"`
	RollingShutterType     RollingShutterType `json:"rolling_shutter_type"`
	RollingShutterDuration Real               `json:"rolling_shutter_duration"`
}

func (s ShutterSettings) Validate() error {
	if S := s.MotionBlurShutter; !(isFinite(S) && S > 0 && S <= 1) {
		return fmt.Errorf("motion blur shutter must be in (0,1], got %.6g", s.MotionBlurShutter)
	}
	if d := s.RollingShutterDuration; !(isFinite(d) && d >= 0 && d <= 1) {
		return fmt.Errorf("rolling shutter duration must be in [0,1], got %.6g", s.RollingShutterDuration)
	}
	if _, err := ParseMotionBlurPosition(string(s.MotionBlurPosition)); err != nil {
		return err
	}
	if _, err := ParseRollingShutterType(string(s.RollingShutterType)); err != nil {
		return err
	}
	return nil
}

// window is the shutter interval [start, start+length] relative to the frame, in frames.
func (s ShutterSettings) window() (start, length Real) {
	S := s.MotionBlurShutter
	switch s.MotionBlurPosition {
	case MotionBlurStart:
		return 0, S
	case MotionBlurEnd:
		return -S, S
	default:
		return -S / 2, S
	}
}

// RowWindow is the exposure interval of scanline y (0 = top) of an h-row image,
// relative to the frame. Without motion blur every row is exposed at the frame instant.
func (s ShutterSettings) RowWindow(y, h int) (start, length Real) {
	if !s.UseMotionBlur {
		return 0, 0
	}
	start, length = s.window()
	if s.RollingShutterType != RollingShutterTop {
		return start, length
	}
	d := s.RollingShutterDuration
	rowLen := length * d
	frac := 0.0
	if h > 1 {
		frac = Real(y) / Real(h-1)
	}
	return start + frac*length*(1-d), rowLen
}

// SampleFrame maps a uniform u in [0,1) to the (fractional) frame a sample of row y sees.
func (s ShutterSettings) SampleFrame(frame, y, h int, u Real) Real {
	start, length := s.RowWindow(y, h)
	return Real(frame) + start + u*length
}
