package shutterscene

import "math"

type objectHit struct {
	t      Real
	N      Vec3 // world-space unit normal of the face that was hit
	local  Vec3 // hit point in object space
	obj    *Cube
	inside bool
}

// sceneAt holds every object transform evaluated at one (fractional) frame.
// Workers keep one each and re-evaluate it in place per sample.
type sceneAt struct {
	frame Real
	objs  []*Cube
	trs   []Transform
	boxes []AABB
}

func newSceneAt(scene *Scene) *sceneAt {
	n := len(scene.Objects)
	return &sceneAt{
		frame: math.NaN(),
		objs:  scene.Objects,
		trs:   make([]Transform, n),
		boxes: make([]AABB, n),
	}
}

func (sa *sceneAt) eval(frame Real) *sceneAt {
	if sa.frame == frame {
		return sa
	}
	sa.frame = frame
	for i, o := range sa.objs {
		tr := o.TransformAt(frame)
		sa.trs[i] = tr
		sa.boxes[i] = o.Bounds(tr)
	}
	return sa
}

// transformOf returns the evaluated transform of obj.
func (sa *sceneAt) transformOf(obj *Cube) Transform {
	for i, o := range sa.objs {
		if o == obj {
			return sa.trs[i]
		}
	}
	return obj.Transform
}

func (sa *sceneAt) nearestHit(O, D Vec3, tMax Real) (objectHit, bool) {
	best := objectHit{}
	okAny := false
	bestT := tMax
	if !isFinite(bestT) {
		bestT = 1e300
	}
	rr := newRayRecips(D)
	for i, o := range sa.objs {
		if ok, tNear := rayAABB(O, sa.boxes[i], rr); !ok || tNear > bestT {
			continue
		}
		if hit, ok := intersectRayCube(O, D, sa.trs[i], o); ok && hit.t > epsDist && hit.t < bestT {
			bestT, best, okAny = hit.t, hit, true
		}
	}
	return best, okAny
}

// occluded reports whether anything blocks the ray before tMax.
func (sa *sceneAt) occluded(O, D Vec3, tMax Real) bool {
	_, ok := sa.nearestHit(O, D, tMax)
	return ok
}
