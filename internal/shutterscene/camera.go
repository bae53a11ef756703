package shutterscene

import (
	"errors"
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// PerspectiveCamera is a pinhole camera looking down its local -Z axis with +Y up.
// Focal length and sensor width are in millimeters; the sensor is fit horizontally.
type PerspectiveCamera struct {
	Animated
	Name        string `json:"name"`
	FocalLength Real   `json:"focal_length"`
	SensorWidth Real   `json:"sensor_width"`
}

// NewPerspectiveCamera places a camera at position aimed at lookAt.
// Zero focal length or sensor width fall back to 50mm / 36mm.
func NewPerspectiveCamera(name string, position, lookAt Vec3, focalLength, sensorWidth Real) (*PerspectiveCamera, error) {
	if focalLength == 0 {
		focalLength = FocalLength
	}
	if sensorWidth == 0 {
		sensorWidth = SensorWidth
	}
	q, err := LookAtQuat(position, lookAt, axisZ)
	if err != nil {
		return nil, fmt.Errorf("camera %q: %w", name, err)
	}
	c := &PerspectiveCamera{
		Animated:    newAnimated(position),
		Name:        name,
		FocalLength: focalLength,
		SensorWidth: sensorWidth,
	}
	c.Quaternion = q
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *PerspectiveCamera) AssetName() string { return c.Name }

func (c *PerspectiveCamera) Validate() error {
	if c.Name == "" {
		return errors.New("camera must have a name")
	}
	if c.FocalLength <= 0 || c.SensorWidth <= 0 {
		return fmt.Errorf("camera %q focal length and sensor width must be > 0, got %.6g / %.6g", c.Name, c.FocalLength, c.SensorWidth)
	}
	return nil
}

// FieldOfView is the horizontal field of view in radians.
func (c *PerspectiveCamera) FieldOfView() Real {
	return 2 * math.Atan(c.SensorWidth/(2*c.FocalLength))
}

// SensorHeight derives the vertical sensor size from the image aspect.
func (c *PerspectiveCamera) SensorHeight(w, h int) Real {
	return c.SensorWidth * Real(h) / Real(w)
}

// Intrinsics returns the pixel-space calibration matrix K for a w x h image.
func (c *PerspectiveCamera) Intrinsics(w, h int) mgl64.Mat3 {
	fx := c.FocalLength / c.SensorWidth * Real(w)
	fy := c.FocalLength / c.SensorHeight(w, h) * Real(h)
	cx, cy := Real(w)*0.5, Real(h)*0.5
	return mgl64.Mat3FromRows(
		Vec3{fx, 0, cx},
		Vec3{0, fy, cy},
		Vec3{0, 0, 1},
	)
}

// Ray returns origin and unit direction through continuous pixel coords (px, py),
// where (0,0) is the top-left image corner.
func (c *PerspectiveCamera) Ray(tr Transform, px, py Real, w, h int) (Vec3, Vec3) {
	K := c.Intrinsics(w, h)
	fx, fy, cx, cy := K.At(0, 0), K.At(1, 1), K.At(0, 2), K.At(1, 2)
	dl := Vec3{(px - cx) / fx, -(py - cy) / fy, -1}
	return tr.Position, tr.Quaternion.Rotate(dl).Normalize()
}

// Project maps a world point to continuous pixel coords; ok is false behind the camera.
func (c *PerspectiveCamera) Project(tr Transform, p Vec3, w, h int) (px, py Real, ok bool) {
	local := tr.ToLocal(p)
	if local.Z() > -epsDist {
		return 0, 0, false
	}
	K := c.Intrinsics(w, h)
	depth := -local.Z()
	px = K.At(0, 2) + K.At(0, 0)*local.X()/depth
	py = K.At(1, 2) - K.At(1, 1)*local.Y()/depth
	return px, py, true
}
