package shutterscene

import (
	"errors"

	"github.com/go-gl/mathgl/mgl64"
)

// CameraParams is one per-frame camera record:
// [focal_length, x, y, quat_w, quat_x, quat_y, quat_z, z].
type CameraParams [8]Real

func newCameraParams(focal Real, pos Vec3, q Quat) CameraParams {
	x, y, z := pos.Elem()
	return CameraParams{focal, x, y, q.W, q.V[0], q.V[1], q.V[2], z}
}

func (p CameraParams) FocalLength() Real { return p[0] }

func (p CameraParams) Position() Vec3 { return Vec3{p[1], p[2], p[7]} }

func (p CameraParams) Quaternion() Quat {
	return mgl64.Quat{W: p[3], V: Vec3{p[4], p[5], p[6]}}
}

// TranslateCamera moves the scene camera by velocity along X once per frame, for every
// frame from FrameStart to FrameEnd inclusive. Each frame the new position and the
// current orientation are keyframed and a CameraParams record is appended.
func TranslateCamera(scene *Scene, velocity Real) ([]CameraParams, error) {
	if scene.Camera == nil {
		return nil, errors.New("scene has no camera to translate")
	}
	cam := scene.Camera
	params := make([]CameraParams, 0, scene.NumFrames())
	for frame := scene.FrameStart; frame <= scene.FrameEnd; frame++ {
		x, y, z := cam.Position.Elem()
		x += velocity
		cam.Position = Vec3{x, y, z}

		if err := cam.KeyframeInsert("position", frame); err != nil {
			return nil, err
		}
		if err := cam.KeyframeInsert("quaternion", frame); err != nil {
			return nil, err
		}

		params = append(params, newCameraParams(cam.FocalLength, cam.Position, cam.Quaternion))
		DebugLog("Camera keyframe %d: position=%v quaternion=%v", frame, cam.Position, cam.Quaternion)
	}
	return params, nil
}
