package render

import (
	"github.com/go-specular/specular/pkg/math3d"
)

// Camera produces view and projection matrices from a pose (eye,
// forward, up) and a lens. Matrices are cached and only rebuilt when
// the pose or lens changes.
type Camera struct {
	eye     math3d.Vec3
	forward math3d.Vec3
	up      math3d.Vec3

	fovY   float64
	aspect float64
	near   float64
	far    float64

	viewDirty bool
	projDirty bool
	view      math3d.Mat4
	proj      math3d.Mat4
}

// NewCamera creates a camera at the origin looking down -Z with a
// 60 degree vertical field of view.
func NewCamera(aspect float64) *Camera {
	return &Camera{
		eye:       math3d.Zero3(),
		forward:   math3d.Forward(),
		up:        math3d.Up(),
		fovY:      math3d.Radians(60),
		aspect:    aspect,
		near:      0.1,
		far:       100,
		viewDirty: true,
		projDirty: true,
	}
}

// SetPose places the camera at eye oriented along forward. Forward and
// up are normalized; callers must not pass a zero forward vector.
func (c *Camera) SetPose(eye, forward, up math3d.Vec3) {
	c.eye = eye
	c.forward = forward.Normalize()
	c.up = up.Normalize()
	c.viewDirty = true
}

// SetLookAt places the camera at eye looking toward target.
func (c *Camera) SetLookAt(eye, target, up math3d.Vec3) {
	c.SetPose(eye, target.Sub(eye), up)
}

// SetPerspective sets the projection from an explicit vertical field of
// view in radians.
func (c *Camera) SetPerspective(fovY, aspect, near, far float64) {
	c.fovY = fovY
	c.aspect = aspect
	c.near = near
	c.far = far
	c.projDirty = true
}

// SetLensProjection sets the projection from a focal length in
// millimeters, as a physical camera lens would.
func (c *Camera) SetLensProjection(focalLength, aspect, near, far float64) {
	c.SetPerspective(math3d.LensFovY(focalLength), aspect, near, far)
}

// Eye returns the camera position.
func (c *Camera) Eye() math3d.Vec3 { return c.eye }

// ForwardVec returns the normalized view direction.
func (c *Camera) ForwardVec() math3d.Vec3 { return c.forward }

// UpVec returns the normalized up vector.
func (c *Camera) UpVec() math3d.Vec3 { return c.up }

// ViewMatrix returns the world-to-camera transform.
func (c *Camera) ViewMatrix() math3d.Mat4 {
	if c.viewDirty {
		target := c.eye.Add(c.forward)
		c.view = math3d.LookAt(c.eye, target, c.up)
		c.viewDirty = false
	}
	return c.view
}

// ProjectionMatrix returns the camera-to-clip transform.
func (c *Camera) ProjectionMatrix() math3d.Mat4 {
	if c.projDirty {
		c.proj = math3d.Perspective(c.fovY, c.aspect, c.near, c.far)
		c.projDirty = false
	}
	return c.proj
}

// ViewProjectionMatrix returns projection * view.
func (c *Camera) ViewProjectionMatrix() math3d.Mat4 {
	return c.ProjectionMatrix().Mul(c.ViewMatrix())
}

// WorldToScreen projects a world-space point to pixel coordinates.
// The returned Z is the NDC depth; ok is false when the point is
// behind the camera.
func (c *Camera) WorldToScreen(p math3d.Vec3, width, height int) (x, y int, z float64, ok bool) {
	clip := c.ViewProjectionMatrix().MulVec4(math3d.V4FromV3(p, 1))
	if clip.W <= 0 {
		return 0, 0, 0, false
	}
	ndc := clip.PerspectiveDivide()
	x = int((ndc.X + 1) * 0.5 * float64(width))
	y = int((1 - ndc.Y) * 0.5 * float64(height))
	return x, y, ndc.Z, true
}
