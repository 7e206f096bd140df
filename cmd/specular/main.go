// specular - terminal planar reflection demo
//
// Renders a scene object in front of a mirror. Each frame the main
// camera is reflected across the mirror plane, the scene is rendered
// offscreen from the mirrored pose, and the resulting texture is
// composited onto the mirror quad.
//
// Controls:
//
//	Mouse drag  - Orbit the camera
//	Scroll      - Zoom (focal length)
//	W/S         - Pitch up/down
//	A/D         - Yaw left/right
//	+/-         - Zoom in/out
//	R           - Reset view
//	P           - Pause/resume animation
//	Esc         - Quit
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"math"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/harmonica"
	uv "github.com/charmbracelet/ultraviolet"

	"github.com/go-specular/specular/pkg/math3d"
	"github.com/go-specular/specular/pkg/mirror"
	"github.com/go-specular/specular/pkg/models"
	"github.com/go-specular/specular/pkg/render"
)

var (
	modelPath  = flag.String("model", "", "Path to a GLB model to reflect (default: cube)")
	targetFPS  = flag.Int("fps", 60, "Target FPS")
	bgColor    = flag.String("bg", "26,51,102", "Background color (R,G,B)")
	resolution = flag.Int("res", 1024, "Offscreen reflection resolution")
	verbose    = flag.Bool("v", false, "Log lifecycle events to stderr")
)

// Scene layout constants
var (
	mirrorCenter = math3d.V3(-2, 0, -5)
	mirrorNormal = math3d.V3(1, 0, 2)
	objectBase   = math3d.V3(0, 0, -4)
	lightDir     = math3d.V3(0.7, -1, -0.8)
)

const (
	mirrorExtent = 1.5
	orbitTarget  = -4.0 // Z of the orbit center
	minFocal     = 16.0
	maxFocal     = 90.0
)

func main() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "specular - terminal planar reflection demo\n\n")
		fmt.Fprintf(os.Stderr, "Usage: specular [options]\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nControls:\n")
		fmt.Fprintf(os.Stderr, "  Mouse drag  - Orbit camera\n")
		fmt.Fprintf(os.Stderr, "  Scroll      - Zoom (focal length)\n")
		fmt.Fprintf(os.Stderr, "  W/S/A/D     - Pitch and yaw\n")
		fmt.Fprintf(os.Stderr, "  +/-         - Zoom in/out\n")
		fmt.Fprintf(os.Stderr, "  R           - Reset view\n")
		fmt.Fprintf(os.Stderr, "  P           - Pause animation\n")
		fmt.Fprintf(os.Stderr, "  Esc         - Quit\n")
	}
	flag.Parse()

	if *verbose {
		render.SetLogger(slog.Default())
	}

	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// OrbitAxis tracks position and velocity for one orbit angle with
// spring decay.
type OrbitAxis struct {
	Position  float64
	Velocity  float64
	velSpring harmonica.Spring
	velAccel  float64
}

// NewOrbitAxis creates an axis with a critically damped spring for
// smooth velocity decay.
func NewOrbitAxis(fps int) OrbitAxis {
	return OrbitAxis{
		velSpring: harmonica.NewSpring(harmonica.FPS(fps), 4.0, 1.0),
	}
}

// Update applies velocity to position and decays velocity toward 0.
func (a *OrbitAxis) Update() {
	a.Position += a.Velocity
	a.Velocity, a.velAccel = a.velSpring.Update(a.Velocity, a.velAccel, 0)
}

// OrbitState holds the orbit camera angles with spring physics.
type OrbitState struct {
	Yaw, Pitch OrbitAxis
	fps        int
}

func NewOrbitState(fps int) *OrbitState {
	return &OrbitState{
		Yaw:   NewOrbitAxis(fps),
		Pitch: NewOrbitAxis(fps),
		fps:   fps,
	}
}

func (o *OrbitState) Update() {
	o.Yaw.Update()
	o.Pitch.Update()

	// Keep the camera above the floor and below the zenith
	limit := math.Pi/2 - 0.05
	if o.Pitch.Position > limit {
		o.Pitch.Position = limit
		o.Pitch.Velocity = 0
	}
	if o.Pitch.Position < -limit {
		o.Pitch.Position = -limit
		o.Pitch.Velocity = 0
	}
}

func (o *OrbitState) ApplyImpulse(yaw, pitch float64) {
	o.Yaw.Velocity += yaw
	o.Pitch.Velocity += pitch
}

func (o *OrbitState) Reset() {
	o.Yaw = NewOrbitAxis(o.fps)
	o.Pitch = NewOrbitAxis(o.fps)
}

// Pose computes the camera pose orbiting the scene center at the
// given radius.
func (o *OrbitState) Pose(radius float64) mirror.Pose {
	target := math3d.V3(0, 0, orbitTarget)
	offset := math3d.V3(
		math.Sin(o.Yaw.Position)*math.Cos(o.Pitch.Position),
		math.Sin(o.Pitch.Position),
		math.Cos(o.Yaw.Position)*math.Cos(o.Pitch.Position),
	).Scale(radius)
	eye := target.Add(offset)
	return mirror.Pose{
		Eye:     eye,
		Forward: target.Sub(eye).Normalize(),
		Up:      math3d.Up(),
	}
}

// demoScene is the reflected content: one mesh rotating about Y and
// sliding along Z with the frame clock.
type demoScene struct {
	mesh   *models.Mesh
	tex    *render.Texture
	yaw    float64
	slide  float64
	paused bool
}

// Animate advances the animation to the given time in seconds.
// Implements mirror.Animator.
func (s *demoScene) Animate(now float64) {
	if s.paused {
		return
	}
	s.yaw = now
	s.slide = 0.5 + math.Sin(now)
}

func (s *demoScene) transform() math3d.Mat4 {
	return math3d.Translate(objectBase.Add(math3d.V3(0, 0, s.slide))).
		Mul(math3d.RotateY(s.yaw))
}

// Draw renders the scene object. Implements mirror.Scene; the mirror
// quad itself is deliberately not part of the scene.
func (s *demoScene) Draw(r *render.Rasterizer) {
	if s.tex != nil {
		r.DrawMeshTexturedGouraud(s.mesh, s.transform(), s.tex, lightDir)
	} else {
		r.DrawMeshGouraud(s.mesh, s.transform(), render.RGB(200, 200, 200), lightDir)
	}
}

// loadScene builds the demo scene from the -model flag, falling back
// to a procedural cube.
func loadScene() (*demoScene, error) {
	if *modelPath == "" {
		return &demoScene{mesh: models.NewCube(1.5)}, nil
	}

	mesh, img, err := models.LoadGLBWithTexture(*modelPath)
	if err != nil {
		return nil, fmt.Errorf("load model: %w", err)
	}

	// Normalize the model to roughly unit size at the origin so any
	// GLB fits the fixed scene layout.
	size := mesh.Size()
	maxDim := math.Max(size.X, math.Max(size.Y, size.Z))
	if maxDim > 0 {
		scale := 2.0 / maxDim
		mesh.Transform(math3d.ScaleUniform(scale).
			Mul(math3d.Translate(mesh.Center().Scale(-1))))
	}

	scene := &demoScene{mesh: mesh}
	if img != nil {
		scene.tex = render.TextureFromImage(img)
	}
	return scene, nil
}

func run() error {
	var bgR, bgG, bgB uint8 = 26, 51, 102
	fmt.Sscanf(*bgColor, "%d,%d,%d", &bgR, &bgG, &bgB)
	bg := render.RGB(bgR, bgG, bgB)

	scene, err := loadScene()
	if err != nil {
		return err
	}

	m, err := mirror.New(mirror.Config{
		Center:     mirrorCenter,
		Normal:     mirrorNormal,
		Extent:     mirrorExtent,
		Resolution: *resolution,
		ClearColor: bg,
	}, scene)
	if err != nil {
		return fmt.Errorf("create mirror: %w", err)
	}
	defer m.Shutdown()

	term := uv.DefaultTerminal()
	width, height, err := term.GetSize()
	if err != nil {
		return fmt.Errorf("get terminal size: %w", err)
	}
	if err := term.Start(); err != nil {
		return fmt.Errorf("start terminal: %w", err)
	}

	term.EnterAltScreen()
	term.HideCursor()
	term.Resize(width, height)

	// Mouse tracking (any-event + SGR extended)
	fmt.Fprint(os.Stdout, "\x1b[?1003h")
	fmt.Fprint(os.Stdout, "\x1b[?1006h")

	termRenderer := render.NewTerminalRenderer(term, width, height)
	fbWidth, fbHeight := termRenderer.FramebufferSize()
	fb := render.NewFramebuffer(fbWidth, fbHeight)

	camera := render.NewCamera(float64(fbWidth) / float64(fbHeight))
	rasterizer := render.NewRasterizer(camera, fb)

	orbit := NewOrbitState(*targetFPS)
	focalLength := 28.0
	const radius = 4.0

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		cancel()
	}()

	inputTorque := struct{ yaw, pitch float64 }{}
	const torqueStrength = 1.5

	var mouseDown bool
	var lastMouseX, lastMouseY int

	go func() {
		for ev := range term.Events() {
			switch ev := ev.(type) {
			case uv.WindowSizeEvent:
				width, height = ev.Width, ev.Height
				term.Erase()
				term.Resize(width, height)
				termRenderer = render.NewTerminalRenderer(term, width, height)
				fbWidth, fbHeight = termRenderer.FramebufferSize()
				fb = render.NewFramebuffer(fbWidth, fbHeight)
				rasterizer = render.NewRasterizer(camera, fb)
				camera.SetLensProjection(focalLength,
					float64(fbWidth)/float64(fbHeight), mirror.DefaultNear, mirror.DefaultFar)

			case uv.KeyPressEvent:
				switch {
				case ev.MatchString("escape"), ev.MatchString("ctrl+c"):
					cancel()
					return
				case ev.MatchString("r"):
					orbit.Reset()
					focalLength = 28.0
				case ev.MatchString("p"):
					scene.paused = !scene.paused
				case ev.MatchString("w", "up"):
					inputTorque.pitch = torqueStrength
				case ev.MatchString("s", "down"):
					inputTorque.pitch = -torqueStrength
				case ev.MatchString("a", "left"):
					inputTorque.yaw = -torqueStrength
				case ev.MatchString("d", "right"):
					inputTorque.yaw = torqueStrength
				case ev.MatchString("+", "="):
					focalLength = math.Min(maxFocal, focalLength+4)
				case ev.MatchString("-", "_"):
					focalLength = math.Max(minFocal, focalLength-4)
				}

			case uv.KeyReleaseEvent:
				switch {
				case ev.MatchString("w"), ev.MatchString("up"), ev.MatchString("s"), ev.MatchString("down"):
					inputTorque.pitch = 0
				case ev.MatchString("a"), ev.MatchString("left"), ev.MatchString("d"), ev.MatchString("right"):
					inputTorque.yaw = 0
				}

			case uv.MouseClickEvent:
				mouseDown = true
				lastMouseX, lastMouseY = ev.X, ev.Y

			case uv.MouseReleaseEvent:
				mouseDown = false

			case uv.MouseMotionEvent:
				if mouseDown {
					dx := ev.X - lastMouseX
					dy := ev.Y - lastMouseY
					orbit.ApplyImpulse(float64(dx)*0.02, float64(dy)*0.02)
					lastMouseX, lastMouseY = ev.X, ev.Y
				}

			case uv.MouseWheelEvent:
				switch ev.Button {
				case uv.MouseWheelUp:
					focalLength = math.Min(maxFocal, focalLength+4)
				case uv.MouseWheelDown:
					focalLength = math.Max(minFocal, focalLength-4)
				}
			}
		}
	}()

	cleanup := func() {
		fmt.Fprint(os.Stdout, "\x1b[?1003l")
		fmt.Fprint(os.Stdout, "\x1b[?1006l")
		term.ExitAltScreen()
		term.ShowCursor()
		term.Shutdown(context.Background())
	}

	targetDuration := time.Second / time.Duration(*targetFPS)
	start := time.Now()

	for {
		select {
		case <-ctx.Done():
			cleanup()
			return nil
		default:
		}

		frameStart := time.Now()
		now := frameStart.Sub(start).Seconds()

		// Apply input torque and decay it (key release events unreliable)
		orbit.ApplyImpulse(inputTorque.yaw*0.05, inputTorque.pitch*0.05)
		inputTorque.yaw *= 0.9
		inputTorque.pitch *= 0.9
		orbit.Update()

		mainPose := orbit.Pose(radius)

		// Reflection pass: when OnFrame returns the mirror texture is
		// ready for compositing.
		if err := m.OnFrame(mainPose, focalLength, now); err != nil {
			cleanup()
			return err
		}

		// Main pass
		camera.SetPose(mainPose.Eye, mainPose.Forward, mainPose.Up)
		camera.SetLensProjection(focalLength,
			float64(fbWidth)/float64(fbHeight), mirror.DefaultNear, mirror.DefaultFar)
		rasterizer.InvalidateFrustum()

		fb.Clear(bg)
		rasterizer.DrawGrid(-1.5, 10, 1, render.RGB(60, 75, 110))
		scene.Draw(rasterizer)
		m.Quad().Draw(rasterizer)

		termRenderer.Render(fb)
		if err := termRenderer.Flush(); err != nil {
			cleanup()
			return fmt.Errorf("flush: %w", err)
		}

		elapsed := time.Since(frameStart)
		if elapsed < targetDuration {
			time.Sleep(targetDuration - elapsed)
		}
	}
}
