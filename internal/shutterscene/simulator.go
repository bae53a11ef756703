package shutterscene

import (
	"errors"
	"math"
)

// BodyState is the simulated state of one moving object after a run.
type BodyState struct {
	Name            string `json:"name"`
	Position        Vec3   `json:"position"`
	Quaternion      Quat   `json:"quaternion"`
	Velocity        Vec3   `json:"velocity"`
	AngularVelocity Vec3   `json:"angular_velocity"`
	Kinematic       bool   `json:"kinematic"`
}

// Simulator steps rigid boxes at the scene step rate and keyframes them at every frame.
//
// Fixed bodies (static, no velocity) never move. Kinematic bodies (static with a
// velocity or angular velocity) follow their own velocities and ignore gravity and
// contacts. Dynamic bodies fall under gravity and rest on fixed or kinematic boxes
// below them; restitution and friction combine multiplicatively.
type Simulator struct {
	scene   *Scene
	Gravity Vec3
	// RestSpeed is the vertical speed under which a bounce is treated as resting contact.
	RestSpeed Real
}

type body struct {
	obj  *Cube
	pos  Vec3
	q    Quat
	v, w Vec3
	kin  bool
}

// NewSimulator attaches a simulator to the scene.
func NewSimulator(scene *Scene) *Simulator {
	return &Simulator{
		scene:     scene,
		Gravity:   Vec3{0, 0, Gravity},
		RestSpeed: 0.05,
	}
}

// Run simulates [FrameStart, FrameEnd] and inserts "position" and "quaternion"
// keyframes for every non-fixed object at every frame.
func (sm *Simulator) Run() ([]BodyState, error) {
	if sm.scene == nil {
		return nil, errors.New("simulator has no scene")
	}
	if err := sm.scene.Validate(); err != nil {
		return nil, err
	}
	var bodies []*body
	var colliders []*body
	for _, o := range sm.scene.Objects {
		if o.Fixed() {
			colliders = append(colliders, &body{obj: o, pos: o.Position, q: o.Quaternion})
			continue
		}
		b := &body{obj: o, pos: o.Position, q: o.Quaternion, v: o.Velocity, w: o.AngularVelocity, kin: o.Kinematic()}
		if b.kin {
			colliders = append(colliders, b)
		}
		bodies = append(bodies, b)
	}
	steps := sm.scene.StepsPerFrame()
	dt := 1 / Real(sm.scene.StepRate)
	InfoLog("Simulating %d moving bodies over %d frames (%d steps/frame, dt=%.5fs)", len(bodies), sm.scene.NumFrames(), steps, dt)

	for frame := sm.scene.FrameStart; frame <= sm.scene.FrameEnd; frame++ {
		if frame > sm.scene.FrameStart {
			for s := 0; s < steps; s++ {
				sm.step(bodies, colliders, dt)
			}
		}
		for _, b := range bodies {
			b.obj.Position, b.obj.Quaternion = b.pos, b.q
			if err := b.obj.KeyframeInsert("position", frame); err != nil {
				return nil, err
			}
			if err := b.obj.KeyframeInsert("quaternion", frame); err != nil {
				return nil, err
			}
		}
	}

	out := make([]BodyState, 0, len(bodies))
	for _, b := range bodies {
		b.obj.Velocity, b.obj.AngularVelocity = b.v, b.w
		out = append(out, BodyState{
			Name:            b.obj.Name,
			Position:        b.pos,
			Quaternion:      b.q,
			Velocity:        b.v,
			AngularVelocity: b.w,
			Kinematic:       b.kin,
		})
		DebugLog("Simulated %s: position=%v quaternion=%v yaw=%.4f", b.obj.Name, b.pos, b.q, yaw(b.q))
	}
	return out, nil
}

// step moves kinematic bodies first so dynamic bodies collide with their current pose.
func (sm *Simulator) step(bodies, colliders []*body, dt Real) {
	for _, b := range bodies {
		if b.kin {
			b.pos = b.pos.Add(b.v.Mul(dt))
			b.q = integrateRotation(b.q, b.w, dt)
		}
	}
	for _, b := range bodies {
		if b.kin {
			continue
		}
		b.v = b.v.Add(sm.Gravity.Mul(dt))
		b.pos = b.pos.Add(b.v.Mul(dt))
		b.q = integrateRotation(b.q, b.w, dt)
		for _, c := range colliders {
			if c == b {
				continue
			}
			sm.resolveContact(b, c, dt)
		}
	}
}

// resolveContact pushes b on top of c when their boxes overlap from above.
func (sm *Simulator) resolveContact(b, c *body, dt Real) {
	bb := b.obj.Bounds(Transform{Position: b.pos, Quaternion: b.q})
	cb := c.obj.Bounds(Transform{Position: c.pos, Quaternion: c.q})
	if !bb.Overlaps(cb) || b.pos.Z() < c.pos.Z() {
		return
	}
	pen := cb.Max.Z() - bb.Min.Z()
	if pen <= 0 {
		return
	}
	b.pos[2] += pen

	if b.v.Z() < 0 {
		vz := -b.v.Z() * b.obj.Restitution * c.obj.Restitution
		if vz < sm.RestSpeed {
			vz = 0
		}
		b.v[2] = vz
	}

	// Coulomb friction on the horizontal velocity.
	mu := b.obj.Friction * c.obj.Friction
	vh := Vec3{b.v.X(), b.v.Y(), 0}
	speed := vh.Len()
	if speed > 0 {
		dv := mu * math.Abs(sm.Gravity.Z()) * dt
		if speed <= dv {
			b.v[0], b.v[1] = 0, 0
		} else {
			vh = vh.Mul((speed - dv) / speed)
			b.v[0], b.v[1] = vh.X(), vh.Y()
		}
	}
	b.w = b.w.Mul(math.Max(0, 1-mu*dt))
}
