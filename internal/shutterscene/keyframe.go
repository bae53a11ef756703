package shutterscene

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/tanema/gween/ease"
)

// Interpolation selects the curve used between two keyframes.
type Interpolation string

const (
	InterpolationLinear   Interpolation = "LINEAR"
	InterpolationBezier   Interpolation = "BEZIER"
	InterpolationConstant Interpolation = "CONSTANT"
)

// ParseInterpolation accepts the names above case-insensitively; "" means LINEAR.
func ParseInterpolation(s string) (Interpolation, error) {
	switch Interpolation(strings.ToUpper(strings.TrimSpace(s))) {
	case "", InterpolationLinear:
		return InterpolationLinear, nil
	case InterpolationBezier:
		return InterpolationBezier, nil
	case InterpolationConstant:
		return InterpolationConstant, nil
	}
	return "", fmt.Errorf("unknown interpolation %q (want LINEAR, BEZIER or CONSTANT)", s)
}

func (i Interpolation) easing() ease.TweenFunc {
	if i == InterpolationBezier {
		return ease.InOutCubic
	}
	return ease.Linear
}

// PositionKey is a recorded position at a frame.
type PositionKey struct {
	Frame int  `json:"frame"`
	Value Vec3 `json:"value"`
}

// QuaternionKey is a recorded orientation at a frame.
type QuaternionKey struct {
	Frame int  `json:"frame"`
	Value Quat `json:"value"`
}

// Keyframes holds the animated transform tracks of one asset, sorted by frame.
type Keyframes struct {
	Interpolation Interpolation   `json:"interpolation"`
	Position      []PositionKey   `json:"position,omitempty"`
	Quaternion    []QuaternionKey `json:"quaternion,omitempty"`
}

func (k *Keyframes) insertPosition(frame int, v Vec3) {
	i := sort.Search(len(k.Position), func(i int) bool { return k.Position[i].Frame >= frame })
	if i < len(k.Position) && k.Position[i].Frame == frame {
		k.Position[i].Value = v
		return
	}
	k.Position = append(k.Position, PositionKey{})
	copy(k.Position[i+1:], k.Position[i:])
	k.Position[i] = PositionKey{Frame: frame, Value: v}
}

func (k *Keyframes) insertQuaternion(frame int, q Quat) {
	i := sort.Search(len(k.Quaternion), func(i int) bool { return k.Quaternion[i].Frame >= frame })
	if i < len(k.Quaternion) && k.Quaternion[i].Frame == frame {
		k.Quaternion[i].Value = q
		return
	}
	k.Quaternion = append(k.Quaternion, QuaternionKey{})
	copy(k.Quaternion[i+1:], k.Quaternion[i:])
	k.Quaternion[i] = QuaternionKey{Frame: frame, Value: q}
}

// weight maps the linear segment parameter u in [0,1] through the easing curve.
func (k *Keyframes) weight(u Real) Real {
	switch k.Interpolation {
	case InterpolationConstant:
		return 0
	case InterpolationBezier:
		return Real(k.Interpolation.easing()(float32(u), 0, 1, 1))
	}
	return u
}

// segment finds the keys around frame; a == b when frame is on a key or outside the keyed range.
func segment(n int, frameOf func(int) int, frame Real) (a, b int, u Real) {
	if math.IsNaN(frame) || frame <= Real(frameOf(0)) {
		return 0, 0, 0
	}
	if frame >= Real(frameOf(n-1)) {
		return n - 1, n - 1, 0
	}
	b = sort.Search(n, func(i int) bool { return Real(frameOf(i)) >= frame })
	if Real(frameOf(b)) == frame {
		return b, b, 0
	}
	a = b - 1
	fa, fb := Real(frameOf(a)), Real(frameOf(b))
	return a, b, (frame - fa) / (fb - fa)
}

// PositionAt evaluates the position track at a (possibly fractional) frame.
func (k *Keyframes) PositionAt(frame Real) (Vec3, bool) {
	n := len(k.Position)
	if n == 0 {
		return Vec3{}, false
	}
	a, b, u := segment(n, func(i int) int { return k.Position[i].Frame }, frame)
	pa := k.Position[a].Value
	if a == b {
		return pa, true
	}
	pb := k.Position[b].Value
	return pa.Add(pb.Sub(pa).Mul(k.weight(u))), true
}

// QuaternionAt evaluates the orientation track at a (possibly fractional) frame.
func (k *Keyframes) QuaternionAt(frame Real) (Quat, bool) {
	n := len(k.Quaternion)
	if n == 0 {
		return Quat{}, false
	}
	a, b, u := segment(n, func(i int) int { return k.Quaternion[i].Frame }, frame)
	qa := k.Quaternion[a].Value
	if a == b {
		return qa, true
	}
	qb := k.Quaternion[b].Value
	if qa.Dot(qb) < 0 {
		qb = qb.Scale(-1)
	}
	w := k.weight(u)
	if math.Abs(w) < epsDist {
		return qa, true
	}
	return mgl64.QuatSlerp(qa, qb, w).Normalize(), true
}

// Animated is embedded by every scene asset that can be keyframed.
type Animated struct {
	Transform
	Keyframes Keyframes `json:"keyframes"`
}

func newAnimated(position Vec3) Animated {
	return Animated{
		Transform: NewTransform(position),
		Keyframes: Keyframes{Interpolation: InterpolationLinear},
	}
}

// KeyframeInsert records the current value of property ("position" or "quaternion") at frame.
func (a *Animated) KeyframeInsert(property string, frame int) error {
	switch property {
	case "position":
		a.Keyframes.insertPosition(frame, a.Position)
	case "quaternion":
		a.Keyframes.insertQuaternion(frame, a.Quaternion)
	default:
		return fmt.Errorf("cannot keyframe property %q", property)
	}
	return nil
}

// TransformAt evaluates the animated transform; unkeyed tracks keep the current value.
func (a *Animated) TransformAt(frame Real) Transform {
	t := a.Transform
	if p, ok := a.Keyframes.PositionAt(frame); ok {
		t.Position = p
	}
	if q, ok := a.Keyframes.QuaternionAt(frame); ok {
		t.Quaternion = q
	}
	return t
}

// IsAnimated reports whether any track holds a key.
func (a *Animated) IsAnimated() bool {
	return len(a.Keyframes.Position) > 0 || len(a.Keyframes.Quaternion) > 0
}
