package shutterscene

import (
	"errors"
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Vec3 is a position or direction in world space (Z up).
type Vec3 = mgl64.Vec3

// Quat is a rotation stored as (W, X, Y, Z).
type Quat = mgl64.Quat

var (
	axisX = Vec3{1, 0, 0}
	axisY = Vec3{0, 1, 0}
	axisZ = Vec3{0, 0, 1}
)

// Transform is the animatable placement shared by objects, lights and the camera.
type Transform struct {
	Position   Vec3 `json:"position"`
	Quaternion Quat `json:"quaternion"`
}

// NewTransform creates an identity transform at the given position.
func NewTransform(position Vec3) Transform {
	return Transform{Position: position, Quaternion: mgl64.QuatIdent()}
}

// Inverse returns the world->local rotation.
func (t Transform) Inverse() Quat {
	return t.Quaternion.Inverse()
}

// ToWorld maps a local point to world space.
func (t Transform) ToWorld(p Vec3) Vec3 {
	return t.Quaternion.Rotate(p).Add(t.Position)
}

// ToLocal maps a world point to local space.
func (t Transform) ToLocal(p Vec3) Vec3 {
	return t.Quaternion.Inverse().Rotate(p.Sub(t.Position))
}

// LookAtQuat returns the orientation pointing the local -Z axis from position to
// target, with local +Y as close to up as possible. When the view direction is
// parallel to up, world +Y (or +X) is used as the up hint instead.
func LookAtQuat(position, target, up Vec3) (Quat, error) {
	forward := target.Sub(position)
	if forward.Len() < epsDist {
		return mgl64.QuatIdent(), errors.New("look_at target coincides with position")
	}
	if up.Len() < epsDist {
		return mgl64.QuatIdent(), errors.New("up vector must be non-zero")
	}
	forward = forward.Normalize()
	up = up.Normalize()
	const par = 1 - 1e-9
	if math.Abs(forward.Dot(up)) > par {
		up = axisY
		if math.Abs(forward.Dot(up)) > par {
			up = axisX
		}
	}
	right := forward.Cross(up).Normalize()
	camUp := right.Cross(forward)
	m := mgl64.Mat3FromCols(right, camUp, forward.Mul(-1))
	return mgl64.Mat4ToQuat(m.Mat4()).Normalize(), nil
}

// integrateRotation advances q by a world-frame angular velocity w (rad/s) over dt.
// The rotation is applied exactly, so a constant w never drifts.
func integrateRotation(q Quat, w Vec3, dt Real) Quat {
	speed := w.Len()
	if speed < epsDist || dt == 0 {
		return q
	}
	dq := mgl64.QuatRotate(speed*dt, w.Mul(1/speed))
	return dq.Mul(q).Normalize()
}

// yaw returns the heading of the rotated local X axis around world Z, in radians.
func yaw(q Quat) Real {
	v := q.Rotate(axisX)
	return math.Atan2(v.Y(), v.X())
}
