package shutterscene

import (
	"fmt"
	"math"
)

// Cube is a box primitive: the unit cube [-1,1]^3 scaled by Scale (half extents),
// rotated by Quaternion and translated to Position.
type Cube struct {
	Animated
	Name            string                  `json:"name"`
	Scale           Vec3                    `json:"scale"`
	Velocity        Vec3                    `json:"velocity"`
	AngularVelocity Vec3                    `json:"angular_velocity"`
	Mass            Real                    `json:"mass"`
	Friction        Real                    `json:"friction"`
	Restitution     Real                    `json:"restitution"`
	Static          bool                    `json:"static"`
	Background      bool                    `json:"background"`
	SegmentationID  int                     `json:"segmentation_id"`
	Material        *PrincipledBSDFMaterial `json:"material"`
}

// CubeCfg mirrors the keyword arguments a cube is created with.
type CubeCfg struct {
	Name            string
	Scale           Vec3 // half extents; zero axes default to 1
	Position        Vec3
	LookAt          *Vec3
	Velocity        Vec3
	AngularVelocity Vec3
	Mass            Real // defaults to 1 when zero
	Friction        Real
	Restitution     Real
	Static          bool
	Background      bool
	SegmentationID  int
	Material        *PrincipledBSDFMaterial
}

// Build validates and constructs the cube.
func (cc CubeCfg) Build() (*Cube, error) {
	sc := cc.Scale
	for a := 0; a < 3; a++ {
		if sc[a] == 0 {
			sc[a] = 1
		}
	}
	mass := cc.Mass
	if mass == 0 {
		mass = 1
	}
	mat := cc.Material
	if mat == nil {
		mat = NewPrincipledBSDFMaterial(MustGetColor("gray"))
	}
	c := &Cube{
		Animated:        newAnimated(cc.Position),
		Name:            cc.Name,
		Scale:           sc,
		Velocity:        cc.Velocity,
		AngularVelocity: cc.AngularVelocity,
		Mass:            mass,
		Friction:        cc.Friction,
		Restitution:     cc.Restitution,
		Static:          cc.Static,
		Background:      cc.Background,
		SegmentationID:  cc.SegmentationID,
		Material:        mat,
	}
	if cc.LookAt != nil {
		q, err := LookAtQuat(cc.Position, *cc.LookAt, axisZ)
		if err != nil {
			return nil, fmt.Errorf("cube %q: %w", cc.Name, err)
		}
		c.Quaternion = q
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	DebugLog("Created cube: %s scale=%v position=%v static=%v", c.Name, c.Scale, c.Position, c.Static)
	return c, nil
}

func (c *Cube) AssetName() string { return c.Name }

func (c *Cube) Validate() error {
	if c.Name == "" {
		return fmt.Errorf("cube must have a name")
	}
	if !(c.Scale.X() > 0 && c.Scale.Y() > 0 && c.Scale.Z() > 0) {
		return fmt.Errorf("cube %q scale must be >0 on all axes, got %v", c.Name, c.Scale)
	}
	if c.Mass < 0 {
		return fmt.Errorf("cube %q mass must be >= 0, got %.6g", c.Name, c.Mass)
	}
	in01 := func(x Real) bool { return x >= 0 && x <= 1 }
	if !in01(c.Friction) || !in01(c.Restitution) {
		return fmt.Errorf("cube %q friction/restitution must be in [0,1]; got friction=%.6g restitution=%.6g", c.Name, c.Friction, c.Restitution)
	}
	if c.SegmentationID < 0 {
		return fmt.Errorf("cube %q segmentation id must be >= 0, got %d", c.Name, c.SegmentationID)
	}
	if c.Material == nil {
		return fmt.Errorf("cube %q has no material", c.Name)
	}
	return c.Material.Validate()
}

// Kinematic reports a static body that still moves under its own velocities.
func (c *Cube) Kinematic() bool {
	return c.Static && (c.Velocity.Len() > 0 || c.AngularVelocity.Len() > 0)
}

// Fixed reports a body the simulator never moves.
func (c *Cube) Fixed() bool {
	return c.Static && !c.Kinematic()
}

// Bounds projects the rotated extents onto the world axes.
func (c *Cube) Bounds(tr Transform) AABB {
	m := tr.Quaternion.Mat4()
	var lo, hi Vec3
	for row := 0; row < 3; row++ {
		off := math.Abs(m.At(row, 0))*c.Scale.X() + math.Abs(m.At(row, 1))*c.Scale.Y() + math.Abs(m.At(row, 2))*c.Scale.Z()
		lo[row] = tr.Position[row] - off
		hi[row] = tr.Position[row] + off
	}
	return AABB{Min: lo, Max: hi}
}

// ObjectCoordinates maps a local point to [0,1]^3 over the cube's extent.
func (c *Cube) ObjectCoordinates(local Vec3) Vec3 {
	var uvw Vec3
	for a := 0; a < 3; a++ {
		uvw[a] = clamp01((local[a]/c.Scale[a] + 1) * 0.5)
	}
	return uvw
}

func intersectRayCube(O, D Vec3, tr Transform, c *Cube) (hit objectHit, ok bool) {
	// world -> local
	inv := tr.Inverse()
	Ol := inv.Rotate(O.Sub(tr.Position))
	Dl := inv.Rotate(D)

	ninf, inf := math.Inf(-1), math.Inf(1)
	tmin, tmax := ninf, inf
	enterAxis, enterSign := -1, 0
	exitAxis, exitSign := -1, 0

	const eps = 1e-12
	for ax := 0; ax < 3; ax++ {
		o, d, half := Ol[ax], Dl[ax], c.Scale[ax]
		if math.Abs(d) < eps {
			if math.Abs(o) > half {
				return objectHit{}, false
			}
			continue
		}
		t1 := (-half - o) / d
		t2 := (half - o) / d
		sgnEnter, sgnExit := -1, +1
		if t1 > t2 {
			t1, t2 = t2, t1
			sgnEnter, sgnExit = +1, -1
		}
		if t1 > tmin {
			tmin, enterAxis, enterSign = t1, ax, sgnEnter
		}
		if t2 < tmax {
			tmax, exitAxis, exitSign = t2, ax, sgnExit
		}
	}
	if tmax < 0 || tmin > tmax {
		return objectHit{}, false
	}

	inside := tmin < eps && tmax > eps
	var t Real
	ax, sg := 0, 0
	if !inside {
		t, ax, sg = tmin, enterAxis, enterSign
	} else {
		t, ax, sg = tmax, exitAxis, exitSign
	}
	if ax < 0 {
		return objectHit{}, false
	}

	var nl Vec3
	nl[ax] = Real(sg)
	Nw := tr.Quaternion.Rotate(nl)
	local := Ol.Add(Dl.Mul(t))
	return objectHit{t: t, N: Nw, local: local, obj: c, inside: inside}, true
}
