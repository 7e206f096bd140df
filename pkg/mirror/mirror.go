package mirror

import (
	"fmt"

	"github.com/go-specular/specular/pkg/math3d"
	"github.com/go-specular/specular/pkg/render"
)

// Defaults for Config fields left at their zero value.
const (
	DefaultResolution = 1024
	DefaultAspect     = 1.0
	DefaultNear       = 0.1
	DefaultFar        = 100.0
)

// DefaultClearColor is the offscreen background, a deep blue.
var DefaultClearColor = render.RGB(26, 51, 102)

// Config describes a mirror. Center, Normal, and Extent place the
// mirror rectangle in the world; the remaining fields configure the
// offscreen pass and default when zero.
type Config struct {
	Center math3d.Vec3
	Normal math3d.Vec3
	Extent float64

	Resolution int
	Aspect     float64
	Near       float64
	Far        float64
	ClearColor render.Color
}

// withDefaults fills zero-valued fields.
func (c Config) withDefaults() Config {
	if c.Resolution == 0 {
		c.Resolution = DefaultResolution
	}
	if c.Aspect == 0 {
		c.Aspect = DefaultAspect
	}
	if c.Near == 0 {
		c.Near = DefaultNear
	}
	if c.Far == 0 {
		c.Far = DefaultFar
	}
	if c.ClearColor == (render.Color{}) {
		c.ClearColor = DefaultClearColor
	}
	return c
}

// Mirror owns one planar reflection: the plane geometry, the solver
// for the mirrored camera, the offscreen surface, and the composite
// quad the host draws in its main pass. All methods are meant for a
// single render goroutine; there is no internal locking.
type Mirror struct {
	cfg     Config
	plane   Plane
	solver  *Solver
	surface *OffscreenSurface
	quad    *CompositeQuad
	scene   Scene
}

// New creates a mirror from the config. The scene is everything the
// mirror should reflect; it must not include the mirror quad itself,
// which would otherwise feed back into its own reflection.
func New(cfg Config, scene Scene) (*Mirror, error) {
	cfg = cfg.withDefaults()

	plane, err := NewPlane(cfg.Center, cfg.Normal, cfg.Extent)
	if err != nil {
		return nil, err
	}

	surface, err := NewOffscreenSurface(cfg.Resolution, cfg.Aspect, cfg.ClearColor)
	if err != nil {
		return nil, err
	}

	quad, err := NewCompositeQuad(plane, surface.Texture())
	if err != nil {
		surface.Close()
		return nil, err
	}

	render.Logger().Info("mirror created",
		"center", cfg.Center, "normal", plane.Normal, "extent", cfg.Extent)
	return &Mirror{
		cfg:     cfg,
		plane:   plane,
		solver:  NewSolver(plane),
		surface: surface,
		quad:    quad,
		scene:   scene,
	}, nil
}

// Plane returns the mirror plane geometry.
func (m *Mirror) Plane() Plane { return m.plane }

// Quad returns the composite quad for the host's main pass.
func (m *Mirror) Quad() *CompositeQuad { return m.quad }

// Texture returns the offscreen reflection texture.
func (m *Mirror) Texture() *render.Texture { return m.surface.Texture() }

// Surface returns the offscreen surface, for inspection and debugging.
func (m *Mirror) Surface() *OffscreenSurface { return m.surface }

// OnFrame runs the reflection pass for one frame: animate the scene if
// it supports it, solve the mirrored pose from the main camera, and
// render the scene offscreen. When OnFrame returns the reflection
// texture is ready for the main pass; the host must call it before
// drawing the quad.
func (m *Mirror) OnFrame(main Pose, focalLength, now float64) error {
	if a, ok := m.scene.(Animator); ok {
		a.Animate(now)
	}

	mirrored := m.solver.Solve(main)
	lens := Lens{
		FocalLength: focalLength,
		Aspect:      m.cfg.Aspect,
		Near:        m.cfg.Near,
		Far:         m.cfg.Far,
	}
	if err := m.surface.Render(m.scene, mirrored, lens); err != nil {
		return fmt.Errorf("reflection pass: %w", err)
	}
	return nil
}

// Shutdown releases the mirror's resources in reverse creation order:
// the quad's texture binding first, then the offscreen surface.
func (m *Mirror) Shutdown() {
	m.quad.Release()
	m.surface.Close()
	render.Logger().Info("mirror shut down")
}
