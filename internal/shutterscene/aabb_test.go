package shutterscene

import "testing"

func TestRayAABB_HitAndMiss(t *testing.T) {
	box := AABB{Min: Vec3{-1, -1, -1}, Max: Vec3{1, 1, 1}}

	O := Vec3{-2, 0, 0}
	ok, tnear := rayAABB(O, box, newRayRecips(Vec3{1, 0, 0}))
	if !ok || tnear < 1 || tnear > 3 {
		t.Fatalf("expected hit with tnear in [1,3], got ok=%v tnear=%.6g", ok, tnear)
	}

	// Ray parallel outside
	ok2, _ := rayAABB(Vec3{-2, 2, 0}, box, newRayRecips(Vec3{1, 0, 0}))
	if ok2 {
		t.Fatal("expected no hit for parallel outside slab")
	}

	// Box behind the origin
	ok3, _ := rayAABB(Vec3{2, 0, 0}, box, newRayRecips(Vec3{1, 0, 0}))
	if ok3 {
		t.Fatal("expected no hit for box behind ray")
	}
}

func TestAABBOverlaps(t *testing.T) {
	a := AABB{Min: Vec3{0, 0, 0}, Max: Vec3{1, 1, 1}}
	b := AABB{Min: Vec3{1, 0.5, 0.5}, Max: Vec3{2, 2, 2}}
	c := AABB{Min: Vec3{1.1, 0, 0}, Max: Vec3{2, 1, 1}}
	if !a.Overlaps(b) || !b.Overlaps(a) {
		t.Fatal("touching boxes must overlap")
	}
	if a.Overlaps(c) {
		t.Fatal("separated boxes must not overlap")
	}
}
