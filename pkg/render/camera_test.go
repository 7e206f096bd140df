package render

import (
	"math"
	"testing"

	"github.com/go-specular/specular/pkg/math3d"
)

func TestCameraDefaults(t *testing.T) {
	cam := NewCamera(1)

	if cam.Eye() != math3d.Zero3() {
		t.Errorf("eye = %v, want origin", cam.Eye())
	}
	if cam.ForwardVec() != math3d.Forward() {
		t.Errorf("forward = %v, want -Z", cam.ForwardVec())
	}
}

func TestCameraSetPoseNormalizes(t *testing.T) {
	cam := NewCamera(1)
	cam.SetPose(math3d.V3(1, 2, 3), math3d.V3(0, 0, -10), math3d.V3(0, 5, 0))

	if math.Abs(cam.ForwardVec().Len()-1) > 1e-9 {
		t.Errorf("forward not normalized: len = %v", cam.ForwardVec().Len())
	}
	if math.Abs(cam.UpVec().Len()-1) > 1e-9 {
		t.Errorf("up not normalized: len = %v", cam.UpVec().Len())
	}
}

func TestCameraSetLookAt(t *testing.T) {
	cam := NewCamera(1)
	cam.SetLookAt(math3d.V3(0, 0, 5), math3d.V3(0, 0, 0), math3d.Up())

	want := math3d.V3(0, 0, -1)
	got := cam.ForwardVec()
	if got.Distance(want) > 1e-9 {
		t.Errorf("forward = %v, want %v", got, want)
	}
}

func TestCameraViewMatrixCaching(t *testing.T) {
	cam := NewCamera(1)
	cam.SetLookAt(math3d.V3(0, 0, 5), math3d.V3(0, 0, 0), math3d.Up())

	v1 := cam.ViewMatrix()
	v2 := cam.ViewMatrix()
	if v1 != v2 {
		t.Error("repeated ViewMatrix calls returned different matrices")
	}

	cam.SetPose(math3d.V3(1, 0, 5), math3d.Forward(), math3d.Up())
	v3 := cam.ViewMatrix()
	if v1 == v3 {
		t.Error("ViewMatrix unchanged after SetPose")
	}
}

func TestCameraLensProjection(t *testing.T) {
	cam := NewCamera(1)
	cam.SetLensProjection(12, 1, 0.1, 100)

	// A 12mm lens on a 24mm sensor gives a 90 degree vertical fov,
	// identical to an explicit perspective projection.
	want := math3d.Perspective(math3d.Radians(90), 1, 0.1, 100)
	got := cam.ProjectionMatrix()
	for i := range got {
		if math.Abs(got[i]-want[i]) > 1e-9 {
			t.Fatalf("proj[%d] = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestCameraWorldToScreen(t *testing.T) {
	cam := NewCamera(1)
	cam.SetLookAt(math3d.V3(0, 0, 0), math3d.V3(0, 0, -1), math3d.Up())
	cam.SetPerspective(math3d.Radians(90), 1, 0.1, 100)

	tests := []struct {
		name   string
		point  math3d.Vec3
		wantX  int
		wantY  int
		wantOK bool
	}{
		{"center", math3d.V3(0, 0, -10), 50, 50, true},
		{"right edge", math3d.V3(10, 0, -10), 100, 50, true},
		{"top edge", math3d.V3(0, 10, -10), 50, 0, true},
		{"behind camera", math3d.V3(0, 0, 10), 0, 0, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			x, y, _, ok := cam.WorldToScreen(tc.point, 100, 100)
			if ok != tc.wantOK {
				t.Fatalf("ok = %v, want %v", ok, tc.wantOK)
			}
			if !ok {
				return
			}
			if x != tc.wantX || y != tc.wantY {
				t.Errorf("screen = (%d, %d), want (%d, %d)", x, y, tc.wantX, tc.wantY)
			}
		})
	}
}
