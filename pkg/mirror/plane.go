package mirror

import (
	"fmt"
	"math"

	"github.com/go-specular/specular/pkg/math3d"
)

// parallelEpsilon bounds |dot(dir, normal)| below which a ray is
// treated as parallel to the plane.
const parallelEpsilon = 1e-9

// Plane describes a finite rectangular mirror surface. U and V span
// the rectangle from its center: each corner is Center ± U ± V.
type Plane struct {
	Center math3d.Vec3
	Normal math3d.Vec3
	U      math3d.Vec3
	V      math3d.Vec3
}

// NewPlane builds a mirror plane centered at center facing along
// normal, extending extent world units from the center along both
// in-plane axes. The in-plane axes derive from world up, so a normal
// parallel to world up has no stable basis and is rejected.
func NewPlane(center, normal math3d.Vec3, extent float64) (Plane, error) {
	if normal.Len() < parallelEpsilon {
		return Plane{}, fmt.Errorf("mirror plane: zero-length normal")
	}
	if extent <= 0 {
		return Plane{}, fmt.Errorf("mirror plane: extent must be positive, got %v", extent)
	}

	n := normal.Normalize()
	uDir := n.Cross(math3d.Up())
	if uDir.Len() < parallelEpsilon {
		return Plane{}, fmt.Errorf("mirror plane: normal %v is parallel to world up", n)
	}
	uDir = uDir.Normalize()
	vDir := n.Cross(uDir)

	return Plane{
		Center: center,
		Normal: n,
		U:      uDir.Scale(extent),
		V:      vDir.Scale(extent),
	}, nil
}

// Corners returns the four corners of the mirror rectangle in UV
// order (0,0), (1,0), (0,1), (1,1).
func (p Plane) Corners() [4]math3d.Vec3 {
	return [4]math3d.Vec3{
		p.Center.Sub(p.U).Sub(p.V),
		p.Center.Add(p.U).Sub(p.V),
		p.Center.Sub(p.U).Add(p.V),
		p.Center.Add(p.U).Add(p.V),
	}
}

// Intersect returns the point where the ray from origin along dir
// meets the infinite plane. ok is false when the ray is parallel to
// the plane.
func (p Plane) Intersect(origin, dir math3d.Vec3) (point math3d.Vec3, ok bool) {
	denom := dir.Dot(p.Normal)
	if math.Abs(denom) < parallelEpsilon {
		return math3d.Zero3(), false
	}
	t := p.Center.Sub(origin).Dot(p.Normal) / denom
	return origin.Add(dir.Scale(t)), true
}

// Bounds returns the axis-aligned bounding box of the mirror
// rectangle, for frustum culling.
func (p Plane) Bounds() (min, max math3d.Vec3) {
	corners := p.Corners()
	min, max = corners[0], corners[0]
	for _, c := range corners[1:] {
		min = min.Min(c)
		max = max.Max(c)
	}
	return min, max
}
