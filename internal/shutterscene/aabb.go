package shutterscene

import "math"

// AABB is an axis-aligned world-space box.
type AABB struct {
	Min, Max Vec3
}

// Overlaps reports whether two boxes intersect (touching counts).
func (b AABB) Overlaps(o AABB) bool {
	return b.Min.X() <= o.Max.X() && b.Max.X() >= o.Min.X() &&
		b.Min.Y() <= o.Max.Y() && b.Max.Y() >= o.Min.Y() &&
		b.Min.Z() <= o.Max.Z() && b.Max.Z() >= o.Min.Z()
}

type rayRecips struct {
	inv [3]Real
	par [3]bool // parallel flags (|D| < eps)
}

func newRayRecips(D Vec3) rayRecips {
	const eps = 1e-12
	var rr rayRecips
	for a := 0; a < 3; a++ {
		if math.Abs(D[a]) < eps {
			rr.par[a] = true
			continue
		}
		rr.inv[a] = 1 / D[a]
	}
	return rr
}

func rayAABB(O Vec3, box AABB, rr rayRecips) (bool, Real) {
	tmin, tmax := -1e300, 1e300
	for a := 0; a < 3; a++ {
		if rr.par[a] {
			if O[a] < box.Min[a] || O[a] > box.Max[a] {
				return false, 0
			}
			continue
		}
		t1 := (box.Min[a] - O[a]) * rr.inv[a]
		t2 := (box.Max[a] - O[a]) * rr.inv[a]
		if t1 > t2 {
			t1, t2 = t2, t1
		}
		if t1 > tmin {
			tmin = t1
		}
		if t2 < tmax {
			tmax = t2
		}
	}
	if tmax < 0 || tmin > tmax {
		return false, 0
	}
	return true, tmin
}
