package mirror

import (
	"fmt"

	"github.com/go-specular/specular/pkg/math3d"
	"github.com/go-specular/specular/pkg/render"
)

// quadIndices winds the two triangles of the mirror rectangle so both
// cover the full quad regardless of view side.
var quadIndices = [6]int{0, 1, 2, 3, 2, 1}

// quadUVs maps the rectangle corners to the full texture.
var quadUVs = [4]math3d.Vec2{
	math3d.V2(0, 0),
	math3d.V2(1, 0),
	math3d.V2(0, 1),
	math3d.V2(1, 1),
}

// CompositeQuad is the visible mirror surface: a static two-triangle
// rectangle in the mirror plane that displays the offscreen texture.
// It is drawn unlit (the texture already holds a lit image) and
// two-sided, and culled against an explicit bounding box built from
// its corners.
type CompositeQuad struct {
	corners [4]math3d.Vec3
	bounds  render.AABB
	tex     *render.Texture
}

// NewCompositeQuad builds the mirror quad for a plane, bound to the
// offscreen texture it will display. The texture sampler is forced to
// bilinear filtering with edge clamp, set once here.
func NewCompositeQuad(plane Plane, tex *render.Texture) (*CompositeQuad, error) {
	if tex == nil {
		return nil, fmt.Errorf("mirror quad: nil texture binding")
	}
	tex.Filter = render.FilterBilinear
	tex.Wrap = render.WrapClamp

	min, max := plane.Bounds()
	return &CompositeQuad{
		corners: plane.Corners(),
		bounds:  render.NewAABB(min, max),
		tex:     tex,
	}, nil
}

// Corners returns the quad's world-space corners in UV order.
func (q *CompositeQuad) Corners() [4]math3d.Vec3 { return q.corners }

// Bounds returns the quad's world-space bounding box.
func (q *CompositeQuad) Bounds() render.AABB { return q.bounds }

// Texture returns the bound texture.
func (q *CompositeQuad) Texture() *render.Texture { return q.tex }

// Draw renders the quad into the main pass. The quad is skipped when
// its bounding box falls outside the camera frustum.
func (q *CompositeQuad) Draw(r *render.Rasterizer) {
	if q.tex == nil {
		return
	}
	if !r.IsVisible(q.bounds) {
		return
	}

	// Both sides of the mirror are drawable
	wasCulling := r.DisableBackfaceCulling
	r.DisableBackfaceCulling = true
	defer func() { r.DisableBackfaceCulling = wasCulling }()

	for t := 0; t < len(quadIndices); t += 3 {
		var tri render.Triangle
		for i := range 3 {
			vi := quadIndices[t+i]
			tri.V[i] = render.Vertex{
				Position: q.corners[vi],
				UV:       quadUVs[vi],
				Color:    render.ColorWhite,
			}
		}
		r.DrawTriangleTexturedUnlit(tri, q.tex)
	}
}

// Release drops the texture binding.
func (q *CompositeQuad) Release() {
	q.tex = nil
}
