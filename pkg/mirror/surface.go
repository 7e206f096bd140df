package mirror

import (
	"fmt"

	"github.com/go-specular/specular/pkg/render"
)

// Scene is anything the offscreen pass can draw. Implementations draw
// world-space geometry through the supplied rasterizer; the mirror
// quad itself must not be part of the scene.
type Scene interface {
	Draw(r *render.Rasterizer)
}

// Animator is an optional Scene extension for hosts that want the
// mirror to advance scene animation with the frame clock.
type Animator interface {
	Animate(now float64)
}

// OffscreenSurface owns the reflection render target: a square
// framebuffer, a texture aliasing its pixels, and the mirrored camera
// that renders into it. The texture needs no copy after a render pass
// since it shares the framebuffer's storage.
type OffscreenSurface struct {
	fb         *render.Framebuffer
	tex        *render.Texture
	cam        *render.Camera
	rst        *render.Rasterizer
	clearColor render.Color
	closed     bool
}

// NewOffscreenSurface allocates a square resolution x resolution
// render target cleared to clearColor between frames.
func NewOffscreenSurface(resolution int, aspect float64, clearColor render.Color) (*OffscreenSurface, error) {
	if resolution <= 0 {
		return nil, fmt.Errorf("offscreen framebuffer: resolution must be positive, got %d", resolution)
	}
	if aspect <= 0 {
		return nil, fmt.Errorf("offscreen camera: aspect must be positive, got %v", aspect)
	}

	fb := render.NewFramebuffer(resolution, resolution)
	cam := render.NewCamera(aspect)
	s := &OffscreenSurface{
		fb:         fb,
		tex:        render.TargetTexture(fb),
		cam:        cam,
		rst:        render.NewRasterizer(cam, fb),
		clearColor: clearColor,
	}

	render.Logger().Info("offscreen surface created",
		"resolution", resolution, "aspect", aspect)
	return s, nil
}

// Texture returns the texture view of the render target. Its contents
// change every Render call.
func (s *OffscreenSurface) Texture() *render.Texture { return s.tex }

// Framebuffer returns the underlying framebuffer, for inspection and
// debugging dumps.
func (s *OffscreenSurface) Framebuffer() *render.Framebuffer { return s.fb }

// Render draws the scene from the given pose and lens into the render
// target. When Render returns, the texture holds the finished image.
func (s *OffscreenSurface) Render(scene Scene, pose Pose, lens Lens) error {
	if s.closed {
		return fmt.Errorf("offscreen surface: render after close")
	}

	s.cam.SetPose(pose.Eye, pose.Forward, pose.Up)
	s.cam.SetLensProjection(lens.FocalLength, lens.Aspect, lens.Near, lens.Far)
	s.rst.InvalidateFrustum()

	s.fb.Clear(s.clearColor)
	if scene != nil {
		scene.Draw(s.rst)
	}
	return nil
}

// Close releases the render target. The texture binding is invalidated
// so later samples read an empty texture rather than stale memory.
func (s *OffscreenSurface) Close() {
	if s.closed {
		return
	}
	s.closed = true
	s.tex.Pixels = nil
	s.tex.Width = 0
	s.tex.Height = 0
	s.fb = nil
	render.Logger().Info("offscreen surface closed")
}
