package render

import (
	"math"

	"github.com/go-specular/specular/pkg/math3d"
)

// Vertex carries the attributes needed for rasterization.
type Vertex struct {
	Position math3d.Vec3 // World position
	Normal   math3d.Vec3 // Normal vector (for lighting)
	UV       math3d.Vec2 // Texture coordinates
	Color    Color       // Vertex color
}

// Triangle is a triangle to be rasterized.
type Triangle struct {
	V [3]Vertex
}

// Rasterizer draws triangles into a framebuffer through a camera.
// Depth testing uses the framebuffer's depth buffer, so multiple
// rasterizers targeting the same framebuffer share occlusion.
type Rasterizer struct {
	camera       *Camera
	fb           *Framebuffer
	frustum      Frustum
	frustumDirty bool
	CullingStats CullingStats
	// DisableBackfaceCulling renders both sides of triangles. The
	// mirror quad needs this since it may be viewed from either side.
	DisableBackfaceCulling bool
}

// CullingStats tracks frustum culling per frame.
type CullingStats struct {
	MeshesTested int
	MeshesCulled int
	MeshesDrawn  int
}

// NewRasterizer creates a rasterizer targeting fb through camera.
func NewRasterizer(camera *Camera, fb *Framebuffer) *Rasterizer {
	return &Rasterizer{
		camera:       camera,
		fb:           fb,
		frustumDirty: true,
	}
}

// Camera returns the rasterizer's camera.
func (r *Rasterizer) Camera() *Camera { return r.camera }

// Framebuffer returns the rasterizer's target.
func (r *Rasterizer) Framebuffer() *Framebuffer { return r.fb }

// Width returns the framebuffer width.
func (r *Rasterizer) Width() int {
	if r.fb == nil {
		return 0
	}
	return r.fb.Width
}

// Height returns the framebuffer height.
func (r *Rasterizer) Height() int {
	if r.fb == nil {
		return 0
	}
	return r.fb.Height
}

// InvalidateFrustum marks the frustum as needing recalculation.
// Call this when the camera moves or rotates.
func (r *Rasterizer) InvalidateFrustum() {
	r.frustumDirty = true
}

// UpdateFrustum recalculates the frustum planes from the camera.
func (r *Rasterizer) UpdateFrustum() {
	if r.frustumDirty {
		r.frustum = ExtractFrustum(r.camera.ViewProjectionMatrix())
		r.frustumDirty = false
	}
}

// GetFrustum returns the current frustum (updating if needed).
func (r *Rasterizer) GetFrustum() Frustum {
	r.UpdateFrustum()
	return r.frustum
}

// ResetCullingStats resets the culling statistics (call once per frame).
func (r *Rasterizer) ResetCullingStats() {
	r.CullingStats = CullingStats{}
}

// IsVisible tests if a world-space AABB is visible in the frustum.
func (r *Rasterizer) IsVisible(worldBounds AABB) bool {
	r.UpdateFrustum()
	return r.frustum.IntersectsFrustum(worldBounds)
}

// IsVisibleTransformed tests if a local-space AABB is visible after transformation.
func (r *Rasterizer) IsVisibleTransformed(localBounds AABB, transform math3d.Mat4) bool {
	return r.IsVisible(TransformAABB(localBounds, transform))
}

// screenVertex holds a vertex transformed to screen space.
type screenVertex struct {
	X, Y  float64 // Screen coordinates
	Z     float64 // Depth (for the depth test)
	W     float64 // Clip-space W (for perspective-correct interpolation)
	Color Color
	UV    math3d.Vec2
}

// project transforms a triangle's vertices to screen space. ok is
// false when every vertex is behind the camera or the triangle faces
// away (unless back-face culling is disabled).
func (r *Rasterizer) project(tri Triangle) (sv [3]screenVertex, ok bool) {
	viewProj := r.camera.ViewProjectionMatrix()
	w := float64(r.Width())
	h := float64(r.Height())

	allBehind := true
	for i := range 3 {
		clip := viewProj.MulVec4(math3d.V4FromV3(tri.V[i].Position, 1))
		if clip.W > 0 {
			allBehind = false
		}
		if clip.W != 0 {
			sv[i].X = clip.X / clip.W
			sv[i].Y = clip.Y / clip.W
			sv[i].Z = clip.Z / clip.W
		}
		sv[i].W = clip.W

		// NDC to screen, Y flipped
		sv[i].X = (sv[i].X + 1) * 0.5 * w
		sv[i].Y = (1 - sv[i].Y) * 0.5 * h

		sv[i].Color = tri.V[i].Color
		sv[i].UV = tri.V[i].UV
	}
	if allBehind {
		return sv, false
	}

	// Back-face test via screen-space winding
	cross := (sv[1].X-sv[0].X)*(sv[2].Y-sv[0].Y) - (sv[1].Y-sv[0].Y)*(sv[2].X-sv[0].X)
	if cross < 0 && !r.DisableBackfaceCulling {
		return sv, false
	}
	return sv, true
}

// shadeFunc computes the color of a pixel from its barycentric weights.
type shadeFunc func(bc math3d.Vec3, w0, w1, w2, oneOverW float64) Color

// fill rasterizes the projected triangle, running the depth test per
// pixel and calling shade for pixels that pass.
func (r *Rasterizer) fill(sv [3]screenVertex, shade shadeFunc) {
	minX := int(math.Max(0, math.Floor(min3(sv[0].X, sv[1].X, sv[2].X))))
	maxX := int(math.Min(float64(r.Width()-1), math.Ceil(max3(sv[0].X, sv[1].X, sv[2].X))))
	minY := int(math.Max(0, math.Floor(min3(sv[0].Y, sv[1].Y, sv[2].Y))))
	maxY := int(math.Min(float64(r.Height()-1), math.Ceil(max3(sv[0].Y, sv[1].Y, sv[2].Y))))

	// 1/w per vertex for perspective-correct attribute interpolation
	var invW [3]float64
	for i := range 3 {
		if sv[i].W != 0 {
			invW[i] = 1 / sv[i].W
		}
	}

	for y := minY; y <= maxY; y++ {
		for x := minX; x <= maxX; x++ {
			px, py := float64(x)+0.5, float64(y)+0.5
			bc := barycentric(
				sv[0].X, sv[0].Y,
				sv[1].X, sv[1].Y,
				sv[2].X, sv[2].Y,
				px, py,
			)
			if bc.X < 0 || bc.Y < 0 || bc.Z < 0 {
				continue
			}

			z := bc.X*sv[0].Z + bc.Y*sv[1].Z + bc.Z*sv[2].Z
			i := y*r.fb.Width + x
			if z >= r.fb.Depth[i] {
				continue
			}

			w0, w1, w2 := bc.X*invW[0], bc.Y*invW[1], bc.Z*invW[2]
			oneOverW := w0 + w1 + w2
			if oneOverW == 0 {
				continue
			}

			r.fb.Depth[i] = z
			r.fb.Pixels[i] = shade(bc, w0, w1, w2, oneOverW)
		}
	}
}

// DrawTriangle rasterizes a triangle with interpolated vertex colors.
func (r *Rasterizer) DrawTriangle(tri Triangle) {
	sv, ok := r.project(tri)
	if !ok {
		return
	}
	r.fill(sv, func(bc math3d.Vec3, _, _, _, _ float64) Color {
		return interpolateColor3(sv[0].Color, sv[1].Color, sv[2].Color, bc)
	})
}

// DrawTriangleFlat draws a triangle in a single color.
func (r *Rasterizer) DrawTriangleFlat(v0, v1, v2 math3d.Vec3, color Color) {
	r.DrawTriangle(Triangle{
		V: [3]Vertex{
			{Position: v0, Color: color},
			{Position: v1, Color: color},
			{Position: v2, Color: color},
		},
	})
}

// DrawTriangleLit draws a triangle with simple directional lighting.
func (r *Rasterizer) DrawTriangleLit(v0, v1, v2 math3d.Vec3, baseColor Color, lightDir math3d.Vec3) {
	normal := v1.Sub(v0).Cross(v2.Sub(v0)).Normalize()
	intensity := math.Max(0, normal.Dot(lightDir.Normalize()))
	intensity = 0.3 + 0.7*intensity // ambient + diffuse
	r.DrawTriangleFlat(v0, v1, v2, MultiplyColor(baseColor, intensity))
}

// DrawTriangleTextured rasterizes a textured triangle with
// perspective-correct UVs and flat directional lighting.
func (r *Rasterizer) DrawTriangleTextured(tri Triangle, tex *Texture, lightDir math3d.Vec3) {
	sv, ok := r.project(tri)
	if !ok {
		return
	}

	faceNormal := tri.V[1].Position.Sub(tri.V[0].Position).
		Cross(tri.V[2].Position.Sub(tri.V[0].Position)).Normalize()
	intensity := math.Max(0.2, faceNormal.Dot(lightDir.Normalize()))
	intensity = 0.3 + 0.7*intensity

	r.fill(sv, func(_ math3d.Vec3, w0, w1, w2, oneOverW float64) Color {
		u := (w0*sv[0].UV.X + w1*sv[1].UV.X + w2*sv[2].UV.X) / oneOverW
		v := (w0*sv[0].UV.Y + w1*sv[1].UV.Y + w2*sv[2].UV.Y) / oneOverW
		return MultiplyColor(tex.Sample(u, v), intensity)
	})
}

// DrawTriangleTexturedUnlit rasterizes a textured triangle without any
// lighting. Mirror surfaces use this: the sampled texture already holds
// a fully lit image, so shading it again would darken the reflection.
func (r *Rasterizer) DrawTriangleTexturedUnlit(tri Triangle, tex *Texture) {
	sv, ok := r.project(tri)
	if !ok {
		return
	}
	r.fill(sv, func(_ math3d.Vec3, w0, w1, w2, oneOverW float64) Color {
		u := (w0*sv[0].UV.X + w1*sv[1].UV.X + w2*sv[2].UV.X) / oneOverW
		v := (w0*sv[0].UV.Y + w1*sv[1].UV.Y + w2*sv[2].UV.Y) / oneOverW
		return tex.Sample(u, v)
	})
}

// DrawTriangleGouraud rasterizes a triangle with per-vertex lighting
// interpolated across the surface.
func (r *Rasterizer) DrawTriangleGouraud(tri Triangle, lightDir math3d.Vec3) {
	normLight := lightDir.Normalize()
	lit := tri
	for i := range 3 {
		intensity := math.Max(0, tri.V[i].Normal.Dot(normLight))
		intensity = 0.3 + 0.7*intensity
		lit.V[i].Color = MultiplyColor(tri.V[i].Color, intensity)
	}

	sv, ok := r.project(lit)
	if !ok {
		return
	}
	r.fill(sv, func(bc math3d.Vec3, _, _, _, _ float64) Color {
		return interpolateColor3(sv[0].Color, sv[1].Color, sv[2].Color, bc)
	})
}

// DrawTriangleTexturedGouraud rasterizes a textured triangle with
// per-vertex lighting modulating the sampled texture.
func (r *Rasterizer) DrawTriangleTexturedGouraud(tri Triangle, tex *Texture, lightDir math3d.Vec3) {
	sv, ok := r.project(tri)
	if !ok {
		return
	}

	normLight := lightDir.Normalize()
	var vertexIntensity [3]float64
	for i := range 3 {
		intensity := math.Max(0, tri.V[i].Normal.Dot(normLight))
		vertexIntensity[i] = 0.3 + 0.7*intensity
	}

	r.fill(sv, func(_ math3d.Vec3, w0, w1, w2, oneOverW float64) Color {
		u := (w0*sv[0].UV.X + w1*sv[1].UV.X + w2*sv[2].UV.X) / oneOverW
		v := (w0*sv[0].UV.Y + w1*sv[1].UV.Y + w2*sv[2].UV.Y) / oneOverW
		intensity := (w0*vertexIntensity[0] + w1*vertexIntensity[1] + w2*vertexIntensity[2]) / oneOverW
		return MultiplyColor(tex.Sample(u, v), intensity)
	})
}

// barycentric calculates barycentric coordinates for point (px, py) in triangle.
func barycentric(x0, y0, x1, y1, x2, y2, px, py float64) math3d.Vec3 {
	v0x, v0y := x2-x0, y2-y0
	v1x, v1y := x1-x0, y1-y0
	v2x, v2y := px-x0, py-y0

	dot00 := v0x*v0x + v0y*v0y
	dot01 := v0x*v1x + v0y*v1y
	dot02 := v0x*v2x + v0y*v2y
	dot11 := v1x*v1x + v1y*v1y
	dot12 := v1x*v2x + v1y*v2y

	invDenom := 1.0 / (dot00*dot11 - dot01*dot01)
	u := (dot11*dot02 - dot01*dot12) * invDenom
	v := (dot00*dot12 - dot01*dot02) * invDenom

	return math3d.V3(1-u-v, v, u)
}

// interpolateColor3 interpolates between 3 colors using barycentric coords.
func interpolateColor3(c0, c1, c2 Color, bc math3d.Vec3) Color {
	return RGB(
		uint8(float64(c0.R)*bc.X+float64(c1.R)*bc.Y+float64(c2.R)*bc.Z),
		uint8(float64(c0.G)*bc.X+float64(c1.G)*bc.Y+float64(c2.G)*bc.Z),
		uint8(float64(c0.B)*bc.X+float64(c1.B)*bc.Y+float64(c2.B)*bc.Z),
	)
}

func min3(a, b, c float64) float64 {
	return math.Min(a, math.Min(b, c))
}

func max3(a, b, c float64) float64 {
	return math.Max(a, math.Max(b, c))
}

// MeshRenderer lets the rasterizer draw meshes without importing the
// models package.
type MeshRenderer interface {
	VertexCount() int
	TriangleCount() int
	GetVertex(i int) (pos, normal math3d.Vec3, uv math3d.Vec2)
	GetFace(i int) [3]int
}

// BoundedMeshRenderer extends MeshRenderer with bounds for frustum culling.
type BoundedMeshRenderer interface {
	MeshRenderer
	GetBounds() (min, max math3d.Vec3)
}

// tryFrustumCull culls a mesh using its bounds if available. Returns
// true if the mesh is not visible.
func (r *Rasterizer) tryFrustumCull(mesh MeshRenderer, transform math3d.Mat4) bool {
	bounded, ok := mesh.(BoundedMeshRenderer)
	if !ok {
		return false
	}

	r.CullingStats.MeshesTested++
	minBounds, maxBounds := bounded.GetBounds()
	if !r.IsVisibleTransformed(AABB{Min: minBounds, Max: maxBounds}, transform) {
		r.CullingStats.MeshesCulled++
		return true
	}
	r.CullingStats.MeshesDrawn++
	return false
}

// DrawMesh renders a mesh with flat per-face lighting.
func (r *Rasterizer) DrawMesh(mesh MeshRenderer, transform math3d.Mat4, color Color, lightDir math3d.Vec3) {
	if r.tryFrustumCull(mesh, transform) {
		return
	}

	// Light direction moves into local space so per-face shading is
	// consistent under rotation.
	localLight := transform.Inverse().MulVec3Dir(lightDir).Normalize()

	for i := 0; i < mesh.TriangleCount(); i++ {
		face := mesh.GetFace(i)
		p0, _, _ := mesh.GetVertex(face[0])
		p1, _, _ := mesh.GetVertex(face[1])
		p2, _, _ := mesh.GetVertex(face[2])
		r.DrawTriangleLit(
			transform.MulVec3(p0),
			transform.MulVec3(p1),
			transform.MulVec3(p2),
			color, localLight,
		)
	}
}

// meshTriangle builds a world-space triangle from mesh vertex i0,i1,i2.
func meshTriangle(mesh MeshRenderer, transform math3d.Mat4, face [3]int, color Color) Triangle {
	var tri Triangle
	for i, vi := range face {
		p, n, uv := mesh.GetVertex(vi)
		tri.V[i] = Vertex{
			Position: transform.MulVec3(p),
			Normal:   transform.MulVec3Dir(n).Normalize(),
			UV:       uv,
			Color:    color,
		}
	}
	return tri
}

// DrawMeshGouraud renders a mesh with smooth per-vertex lighting.
func (r *Rasterizer) DrawMeshGouraud(mesh MeshRenderer, transform math3d.Mat4, color Color, lightDir math3d.Vec3) {
	if r.tryFrustumCull(mesh, transform) {
		return
	}
	for i := 0; i < mesh.TriangleCount(); i++ {
		r.DrawTriangleGouraud(meshTriangle(mesh, transform, mesh.GetFace(i), color), lightDir)
	}
}

// DrawMeshTextured renders a textured mesh with flat per-face lighting.
func (r *Rasterizer) DrawMeshTextured(mesh MeshRenderer, transform math3d.Mat4, tex *Texture, lightDir math3d.Vec3) {
	if r.tryFrustumCull(mesh, transform) {
		return
	}
	for i := 0; i < mesh.TriangleCount(); i++ {
		r.DrawTriangleTextured(meshTriangle(mesh, transform, mesh.GetFace(i), ColorWhite), tex, lightDir)
	}
}

// DrawMeshTexturedGouraud renders a textured mesh with smooth
// per-vertex lighting.
func (r *Rasterizer) DrawMeshTexturedGouraud(mesh MeshRenderer, transform math3d.Mat4, tex *Texture, lightDir math3d.Vec3) {
	if r.tryFrustumCull(mesh, transform) {
		return
	}
	for i := 0; i < mesh.TriangleCount(); i++ {
		r.DrawTriangleTexturedGouraud(meshTriangle(mesh, transform, mesh.GetFace(i), ColorWhite), tex, lightDir)
	}
}

// DrawMeshWireframe renders a mesh's edges.
func (r *Rasterizer) DrawMeshWireframe(mesh MeshRenderer, transform math3d.Mat4, color Color) {
	if r.tryFrustumCull(mesh, transform) {
		return
	}
	for i := 0; i < mesh.TriangleCount(); i++ {
		face := mesh.GetFace(i)
		p0, _, _ := mesh.GetVertex(face[0])
		p1, _, _ := mesh.GetVertex(face[1])
		p2, _, _ := mesh.GetVertex(face[2])

		v0 := transform.MulVec3(p0)
		v1 := transform.MulVec3(p1)
		v2 := transform.MulVec3(p2)

		r.DrawLine3D(v0, v1, color)
		r.DrawLine3D(v1, v2, color)
		r.DrawLine3D(v2, v0, color)
	}
}

// DrawLine3D draws a world-space line projected to the screen.
func (r *Rasterizer) DrawLine3D(a, b math3d.Vec3, color Color) {
	viewProj := r.camera.ViewProjectionMatrix()

	clipA := viewProj.MulVec4(math3d.V4FromV3(a, 1))
	clipB := viewProj.MulVec4(math3d.V4FromV3(b, 1))
	if clipA.W <= 0 && clipB.W <= 0 {
		return
	}

	if clipA.W > 0 {
		clipA.X /= clipA.W
		clipA.Y /= clipA.W
	}
	if clipB.W > 0 {
		clipB.X /= clipB.W
		clipB.Y /= clipB.W
	}

	x0 := int((clipA.X + 1) * 0.5 * float64(r.Width()))
	y0 := int((1 - clipA.Y) * 0.5 * float64(r.Height()))
	x1 := int((clipB.X + 1) * 0.5 * float64(r.Width()))
	y1 := int((1 - clipB.Y) * 0.5 * float64(r.Height()))

	r.fb.DrawLine(x0, y0, x1, y1, color)
}

// DrawGrid draws a square wireframe grid on the Y=y plane centered at
// the origin, spanning [-halfExtent, halfExtent] with the given step.
func (r *Rasterizer) DrawGrid(y, halfExtent, step float64, color Color) {
	for d := -halfExtent; d <= halfExtent; d += step {
		r.DrawLine3D(math3d.V3(d, y, -halfExtent), math3d.V3(d, y, halfExtent), color)
		r.DrawLine3D(math3d.V3(-halfExtent, y, d), math3d.V3(halfExtent, y, d), color)
	}
}
