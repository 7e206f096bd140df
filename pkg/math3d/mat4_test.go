package math3d

import (
	"math"
	"testing"
)

func TestMat4Identity(t *testing.T) {
	v := V3(1, 2, 3)
	if got := Identity().MulVec3(v); got != v {
		t.Errorf("Identity().MulVec3(%v) = %v", v, got)
	}
}

func TestMat4TranslateAndScale(t *testing.T) {
	v := V3(1, 1, 1)

	if got := Translate(V3(10, 20, 30)).MulVec3(v); got != V3(11, 21, 31) {
		t.Errorf("Translate = %v, want (11, 21, 31)", got)
	}
	if got := Scale(V3(2, 3, 4)).MulVec3(v); got != V3(2, 3, 4) {
		t.Errorf("Scale = %v, want (2, 3, 4)", got)
	}

	// Directions ignore translation.
	if got := Translate(V3(10, 20, 30)).MulVec3Dir(v); got != v {
		t.Errorf("MulVec3Dir through translation = %v, want %v", got, v)
	}
}

func TestMat4LookAt(t *testing.T) {
	// Camera at (0,0,5) looking at the origin: a point at the origin
	// ends up on the -Z axis in view space, 5 units out.
	view := LookAt(V3(0, 0, 5), V3(0, 0, 0), V3(0, 1, 0))
	got := view.MulVec3(V3(0, 0, 0))

	if got.Distance(V3(0, 0, -5)) > 1e-9 {
		t.Errorf("view * origin = %v, want (0, 0, -5)", got)
	}

	// The eye itself maps to the view-space origin.
	if got := view.MulVec3(V3(0, 0, 5)); got.Len() > 1e-9 {
		t.Errorf("view * eye = %v, want origin", got)
	}
}

func TestMat4Perspective(t *testing.T) {
	proj := Perspective(math.Pi/2, 1.0, 1.0, 100.0)

	// A point on the near plane straight ahead projects to NDC z=-1.
	clip := proj.MulVec4(V4(0, 0, -1, 1))
	ndc := clip.PerspectiveDivide()
	if math.Abs(ndc.Z-(-1)) > 1e-9 {
		t.Errorf("near-plane NDC z = %v, want -1", ndc.Z)
	}

	// With fov 90 and aspect 1, a point at 45 degrees lands on the
	// NDC boundary x=1.
	clip = proj.MulVec4(V4(2, 0, -2, 1))
	ndc = clip.PerspectiveDivide()
	if math.Abs(ndc.X-1) > 1e-9 {
		t.Errorf("45-degree NDC x = %v, want 1", ndc.X)
	}
}

func TestLensProjection(t *testing.T) {
	// A 12mm focal length against the 24mm reference sensor gives a
	// 90-degree vertical field of view, so the two constructions agree.
	lens := LensProjection(12, 1.0, 0.1, 100.0)
	persp := Perspective(math.Pi/2, 1.0, 0.1, 100.0)

	for i := range lens {
		if math.Abs(lens[i]-persp[i]) > 1e-9 {
			t.Fatalf("element %d: lens %v != perspective %v", i, lens[i], persp[i])
		}
	}
}

func TestLensProjectionZoom(t *testing.T) {
	// A longer focal length must produce a narrower frustum: the same
	// off-axis point projects further from the center.
	wide := LensProjection(20, 1.0, 0.1, 100.0)
	tele := LensProjection(50, 1.0, 0.1, 100.0)

	p := V4(1, 1, -10, 1)
	wx := wide.MulVec4(p).PerspectiveDivide().X
	tx := tele.MulVec4(p).PerspectiveDivide().X

	if tx <= wx {
		t.Errorf("telephoto NDC x %v should exceed wide NDC x %v", tx, wx)
	}
}

func TestMat4Inverse(t *testing.T) {
	m := Translate(V3(1, 2, 3)).Mul(RotateY(0.7)).Mul(ScaleUniform(2))
	inv := m.Inverse()

	id := m.Mul(inv)
	want := Identity()
	for i := range id {
		if math.Abs(id[i]-want[i]) > 1e-9 {
			t.Fatalf("m * m^-1 element %d = %v, want %v", i, id[i], want[i])
		}
	}
}

func BenchmarkMat4Mul(b *testing.B) {
	m1 := Translate(V3(1, 2, 3)).Mul(RotateY(0.5))
	m2 := Perspective(math.Pi/3, 16.0/9.0, 0.1, 100)

	for b.Loop() {
		_ = m2.Mul(m1)
	}
}
