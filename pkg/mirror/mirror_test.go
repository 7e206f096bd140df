package mirror

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/go-specular/specular/pkg/math3d"
	"github.com/go-specular/specular/pkg/models"
	"github.com/go-specular/specular/pkg/render"
)

// cubeScene draws a cube at a fixed position, optionally sliding on Z
// when animated.
type cubeScene struct {
	mesh     *models.Mesh
	position math3d.Vec3
	slide    float64
	animated bool
}

func newCubeScene(pos math3d.Vec3) *cubeScene {
	return &cubeScene{mesh: models.NewCube(1), position: pos}
}

func (s *cubeScene) Draw(r *render.Rasterizer) {
	transform := math3d.Translate(s.position.Add(math3d.V3(0, 0, s.slide)))
	r.DrawMesh(s.mesh, transform, render.ColorWhite, math3d.V3(0, 0, -1))
}

func (s *cubeScene) Animate(now float64) {
	s.animated = true
	s.slide = now
}

func testConfig() Config {
	return Config{
		Center:     math3d.V3(0, 0, -5),
		Normal:     math3d.V3(0, 0, 1),
		Extent:     1.5,
		Resolution: 64,
	}
}

func TestNewAppliesDefaults(t *testing.T) {
	m, err := New(testConfig(), nil)
	require.NoError(t, err)
	defer m.Shutdown()

	assert.Equal(t, DefaultAspect, m.cfg.Aspect)
	assert.Equal(t, DefaultNear, m.cfg.Near)
	assert.Equal(t, DefaultFar, m.cfg.Far)
	assert.Equal(t, DefaultClearColor, m.cfg.ClearColor)
	assert.Equal(t, 64, m.Texture().Width)
}

func TestNewRejectsBadPlane(t *testing.T) {
	cfg := testConfig()
	cfg.Normal = math3d.Up()
	_, err := New(cfg, nil)
	assert.Error(t, err)
}

func TestOnFrameRendersReflection(t *testing.T) {
	// Camera at the origin faces the mirror head on; a cube sits at
	// (0,0,-8), behind the mirror plane from the camera's side of the
	// world. The mirrored camera at (0,0,-10) looks straight at it, so
	// the center of the reflection texture must show the cube, not the
	// clear color.
	scene := newCubeScene(math3d.V3(0, 0, -8))
	m, err := New(testConfig(), scene)
	require.NoError(t, err)
	defer m.Shutdown()

	main := Pose{
		Eye:     math3d.Zero3(),
		Forward: math3d.V3(0, 0, -1),
		Up:      math3d.Up(),
	}
	require.NoError(t, m.OnFrame(main, 28, 0))

	fb := m.Surface().Framebuffer()
	center := fb.GetPixel(fb.Width/2, fb.Height/2)
	assert.NotEqual(t, DefaultClearColor, center, "reflection texture center should show the scene object")

	corner := fb.GetPixel(1, 1)
	assert.Equal(t, DefaultClearColor, corner, "texture corner should be background")
}

func TestOnFrameAnimatesScene(t *testing.T) {
	scene := newCubeScene(math3d.V3(0, 0, -8))
	m, err := New(testConfig(), scene)
	require.NoError(t, err)
	defer m.Shutdown()

	main := Pose{Eye: math3d.Zero3(), Forward: math3d.V3(0, 0, -1), Up: math3d.Up()}
	require.NoError(t, m.OnFrame(main, 28, 1.5))

	assert.True(t, scene.animated)
	assert.Equal(t, 1.5, scene.slide)
}

func TestQuadCompositesTexture(t *testing.T) {
	// Full two-pass frame: reflection pass, then a main pass drawing
	// the quad. The quad pixel at the screen center must carry the
	// reflected cube color rather than the main pass background.
	scene := newCubeScene(math3d.V3(0, 0, -8))
	m, err := New(testConfig(), scene)
	require.NoError(t, err)
	defer m.Shutdown()

	main := Pose{Eye: math3d.Zero3(), Forward: math3d.V3(0, 0, -1), Up: math3d.Up()}
	require.NoError(t, m.OnFrame(main, 28, 0))

	cam := render.NewCamera(1)
	cam.SetPose(main.Eye, main.Forward, main.Up)
	cam.SetLensProjection(28, 1, 0.1, 100)
	fb := render.NewFramebuffer(64, 64)
	fb.Clear(render.ColorBlack)
	rst := render.NewRasterizer(cam, fb)

	m.Quad().Draw(rst)

	center := fb.GetPixel(32, 32)
	assert.NotEqual(t, render.ColorBlack, center, "quad should cover the screen center")
	assert.NotEqual(t, DefaultClearColor, center, "screen center should show the reflected object")
}

func TestQuadDrawRestoresCullingMode(t *testing.T) {
	m, err := New(testConfig(), nil)
	require.NoError(t, err)
	defer m.Shutdown()

	cam := render.NewCamera(1)
	cam.SetLensProjection(28, 1, 0.1, 100)
	fb := render.NewFramebuffer(16, 16)
	fb.Clear(render.ColorBlack)
	rst := render.NewRasterizer(cam, fb)

	m.Quad().Draw(rst)
	assert.False(t, rst.DisableBackfaceCulling, "quad draw must restore the culling mode")
}

func TestQuadCulledWhenOffscreen(t *testing.T) {
	m, err := New(testConfig(), nil)
	require.NoError(t, err)
	defer m.Shutdown()

	// Camera faces away from the mirror: the quad is outside the
	// frustum and must not touch the framebuffer.
	cam := render.NewCamera(1)
	cam.SetPose(math3d.Zero3(), math3d.V3(0, 0, 1), math3d.Up())
	cam.SetLensProjection(28, 1, 0.1, 100)
	fb := render.NewFramebuffer(16, 16)
	fb.Clear(render.ColorBlack)
	rst := render.NewRasterizer(cam, fb)

	m.Quad().Draw(rst)
	for _, p := range fb.Pixels {
		require.Equal(t, render.ColorBlack, p)
	}
}

func TestNewCompositeQuadRejectsNilTexture(t *testing.T) {
	p, err := NewPlane(math3d.V3(0, 0, -5), math3d.V3(0, 0, 1), 1.5)
	require.NoError(t, err)

	_, err = NewCompositeQuad(p, nil)
	assert.Error(t, err)
}

func TestShutdownReleasesResources(t *testing.T) {
	m, err := New(testConfig(), nil)
	require.NoError(t, err)

	m.Shutdown()

	assert.Nil(t, m.Quad().Texture())
	main := Pose{Eye: math3d.Zero3(), Forward: math3d.V3(0, 0, -1), Up: math3d.Up()}
	assert.Error(t, m.OnFrame(main, 28, 0), "rendering after shutdown must fail")
}

func TestOffscreenSurfaceValidation(t *testing.T) {
	_, err := NewOffscreenSurface(0, 1, DefaultClearColor)
	assert.Error(t, err)

	_, err = NewOffscreenSurface(64, 0, DefaultClearColor)
	assert.Error(t, err)
}
