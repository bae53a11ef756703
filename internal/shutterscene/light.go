package shutterscene

import (
	"errors"
	"fmt"
)

// DirectionalLight is a sun-like light: parallel rays along its local -Z axis.
type DirectionalLight struct {
	Animated
	Name      string `json:"name"`
	Color     RGBA   `json:"color"`
	Intensity Real   `json:"intensity"`
}

// NewDirectionalLight places a light at position and aims it at lookAt.
func NewDirectionalLight(name string, position, lookAt Vec3, intensity Real) (*DirectionalLight, error) {
	if intensity < 0 {
		return nil, errors.New("intensity must be >= 0")
	}
	q, err := LookAtQuat(position, lookAt, axisZ)
	if err != nil {
		return nil, fmt.Errorf("light %q: %w", name, err)
	}
	L := &DirectionalLight{
		Animated:  newAnimated(position),
		Name:      name,
		Color:     MustGetColor("white"),
		Intensity: intensity,
	}
	L.Quaternion = q
	if err := L.Validate(); err != nil {
		return nil, err
	}
	DebugLog("Created light %s position=%v direction=%v intensity=%.3f", L.Name, L.Position, L.Direction(L.Transform), L.Intensity)
	return L, nil
}

func (l *DirectionalLight) AssetName() string { return l.Name }

func (l *DirectionalLight) Validate() error {
	if l.Name == "" {
		return errors.New("light must have a name")
	}
	if l.Intensity < 0 {
		return fmt.Errorf("light %q intensity must be >= 0, got %.6g", l.Name, l.Intensity)
	}
	return nil
}

// Direction is the unit direction light travels in, for the given transform.
func (l *DirectionalLight) Direction(tr Transform) Vec3 {
	return tr.Quaternion.Rotate(Vec3{0, 0, -1}).Normalize()
}

// Radiance is the light color scaled by intensity.
func (l *DirectionalLight) Radiance() RGBA {
	return l.Color.Mul(l.Intensity)
}
