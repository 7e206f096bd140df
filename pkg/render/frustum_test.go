package render

import (
	"math"
	"testing"

	"github.com/go-specular/specular/pkg/math3d"
)

func TestPlaneDistanceToPoint(t *testing.T) {
	// Plane at Z=0, normal pointing +Z
	plane := Plane{Normal: math3d.V3(0, 0, 1), D: 0}

	tests := []struct {
		name     string
		point    math3d.Vec3
		expected float64
	}{
		{"origin", math3d.V3(0, 0, 0), 0},
		{"in front", math3d.V3(0, 0, 5), 5},
		{"behind", math3d.V3(0, 0, -3), -3},
		{"offset XY", math3d.V3(10, -5, 2), 2},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			dist := plane.DistanceToPoint(tc.point)
			if math.Abs(dist-tc.expected) > 1e-9 {
				t.Errorf("got %v, want %v", dist, tc.expected)
			}
		})
	}
}

func TestPlaneNormalize(t *testing.T) {
	plane := Plane{Normal: math3d.V3(0, 3, 4), D: 10}
	plane.Normalize()

	if math.Abs(plane.Normal.Len()-1.0) > 1e-9 {
		t.Errorf("normalized normal length = %v, want 1.0", plane.Normal.Len())
	}
	if math.Abs(plane.Normal.Y-0.6) > 1e-9 {
		t.Errorf("normal.Y = %v, want 0.6", plane.Normal.Y)
	}
	if math.Abs(plane.Normal.Z-0.8) > 1e-9 {
		t.Errorf("normal.Z = %v, want 0.8", plane.Normal.Z)
	}
	if math.Abs(plane.D-2.0) > 1e-9 {
		t.Errorf("D = %v, want 2.0", plane.D)
	}
}

func TestAABBBasics(t *testing.T) {
	box := NewAABB(math3d.V3(-1, -2, -3), math3d.V3(1, 2, 3))

	center := box.Center()
	if center.X != 0 || center.Y != 0 || center.Z != 0 {
		t.Errorf("center = %v, want (0, 0, 0)", center)
	}

	size := box.Size()
	if size.X != 2 || size.Y != 4 || size.Z != 6 {
		t.Errorf("size = %v, want (2, 4, 6)", size)
	}
}

func TestAABBContainsPoint(t *testing.T) {
	box := NewAABB(math3d.V3(0, 0, 0), math3d.V3(10, 10, 10))

	tests := []struct {
		name   string
		point  math3d.Vec3
		inside bool
	}{
		{"center", math3d.V3(5, 5, 5), true},
		{"corner min", math3d.V3(0, 0, 0), true},
		{"corner max", math3d.V3(10, 10, 10), true},
		{"outside X", math3d.V3(11, 5, 5), false},
		{"outside negative", math3d.V3(-1, 5, 5), false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := box.ContainsPoint(tc.point); got != tc.inside {
				t.Errorf("ContainsPoint(%v) = %v, want %v", tc.point, got, tc.inside)
			}
		})
	}
}

func TestAABBTransform(t *testing.T) {
	box := NewAABB(math3d.V3(-1, -1, -1), math3d.V3(1, 1, 1))

	moved := box.Transform(math3d.Translate(math3d.V3(5, 0, 0)))
	if moved.Min.X != 4 || moved.Max.X != 6 {
		t.Errorf("translated box X = [%v, %v], want [4, 6]", moved.Min.X, moved.Max.X)
	}

	// A 45 degree Y rotation grows the XZ extent to sqrt(2)
	rotated := box.Transform(math3d.RotateY(math.Pi / 4))
	want := math.Sqrt2
	if math.Abs(rotated.Max.X-want) > 1e-9 {
		t.Errorf("rotated box Max.X = %v, want %v", rotated.Max.X, want)
	}
}

func lookDownZFrustum() Frustum {
	view := math3d.LookAt(math3d.V3(0, 0, 0), math3d.V3(0, 0, -1), math3d.Up())
	proj := math3d.Perspective(math3d.Radians(90), 1, 0.1, 100)
	return ExtractFrustum(proj.Mul(view))
}

func TestFrustumContainsPoint(t *testing.T) {
	f := lookDownZFrustum()

	tests := []struct {
		name   string
		point  math3d.Vec3
		inside bool
	}{
		{"in front", math3d.V3(0, 0, -10), true},
		{"behind camera", math3d.V3(0, 0, 10), false},
		{"too close", math3d.V3(0, 0, -0.05), false},
		{"too far", math3d.V3(0, 0, -200), false},
		{"inside left edge", math3d.V3(-9, 0, -10), true},
		{"outside left edge", math3d.V3(-11, 0, -10), false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := f.ContainsPoint(tc.point); got != tc.inside {
				t.Errorf("ContainsPoint(%v) = %v, want %v", tc.point, got, tc.inside)
			}
		})
	}
}

func TestFrustumIntersectsAABB(t *testing.T) {
	f := lookDownZFrustum()

	tests := []struct {
		name    string
		box     AABB
		visible bool
	}{
		{"fully inside", NewAABB(math3d.V3(-1, -1, -11), math3d.V3(1, 1, -9)), true},
		{"straddles near plane", NewAABB(math3d.V3(-1, -1, -1), math3d.V3(1, 1, 1)), true},
		{"behind camera", NewAABB(math3d.V3(-1, -1, 5), math3d.V3(1, 1, 7)), false},
		{"beyond far plane", NewAABB(math3d.V3(-1, -1, -300), math3d.V3(1, 1, -250)), false},
		{"far to the side", NewAABB(math3d.V3(100, 0, -10), math3d.V3(102, 2, -8)), false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := f.IntersectsFrustum(tc.box); got != tc.visible {
				t.Errorf("IntersectsFrustum(%v) = %v, want %v", tc.box, got, tc.visible)
			}
		})
	}
}

func TestFrustumContainsAABB(t *testing.T) {
	f := lookDownZFrustum()

	inside := NewAABB(math3d.V3(-1, -1, -11), math3d.V3(1, 1, -9))
	if !f.ContainsAABB(inside) {
		t.Error("box fully inside frustum reported as not contained")
	}

	straddling := NewAABB(math3d.V3(-1, -1, -1), math3d.V3(1, 1, 1))
	if f.ContainsAABB(straddling) {
		t.Error("box straddling near plane reported as contained")
	}
}

func TestFrustumIntersectsSphere(t *testing.T) {
	f := lookDownZFrustum()

	if !f.IntersectsSphere(math3d.V3(0, 0, -10), 1) {
		t.Error("sphere in front of camera reported as not visible")
	}
	if f.IntersectsSphere(math3d.V3(0, 0, 10), 1) {
		t.Error("sphere behind camera reported as visible")
	}
	// A sphere centered behind the near plane but large enough to poke
	// through should still intersect.
	if !f.IntersectsSphere(math3d.V3(0, 0, 1), 2) {
		t.Error("sphere overlapping near plane reported as not visible")
	}
}
