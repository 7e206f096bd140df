package models

import (
	"github.com/go-specular/specular/pkg/math3d"
)

// NewCube builds a unit-centered cube mesh with the given edge size.
// Faces carry outward normals and full-face UVs, wound front-facing
// for the rasterizer.
func NewCube(size float64) *Mesh {
	h := size / 2

	corners := [8]math3d.Vec3{
		{X: -h, Y: -h, Z: -h},
		{X: h, Y: -h, Z: -h},
		{X: h, Y: h, Z: -h},
		{X: -h, Y: h, Z: -h},
		{X: -h, Y: -h, Z: h},
		{X: h, Y: -h, Z: h},
		{X: h, Y: h, Z: h},
		{X: -h, Y: h, Z: h},
	}

	// Each face lists its four corners bottom-left first
	faces := [6][4]int{
		{0, 1, 2, 3}, // back
		{5, 4, 7, 6}, // front
		{4, 0, 3, 7}, // left
		{1, 5, 6, 2}, // right
		{3, 2, 6, 7}, // top
		{4, 5, 1, 0}, // bottom
	}
	normals := [6]math3d.Vec3{
		{X: 0, Y: 0, Z: -1},
		{X: 0, Y: 0, Z: 1},
		{X: -1, Y: 0, Z: 0},
		{X: 1, Y: 0, Z: 0},
		{X: 0, Y: 1, Z: 0},
		{X: 0, Y: -1, Z: 0},
	}
	uvs := [4]math3d.Vec2{
		math3d.V2(0, 0),
		math3d.V2(1, 0),
		math3d.V2(1, 1),
		math3d.V2(0, 1),
	}

	mesh := NewMesh("cube")
	for fi, f := range faces {
		base := len(mesh.Vertices)
		for ci, corner := range f {
			mesh.Vertices = append(mesh.Vertices, MeshVertex{
				Position: corners[corner],
				Normal:   normals[fi],
				UV:       uvs[ci],
			})
		}
		mesh.Faces = append(mesh.Faces,
			Face{V: [3]int{base, base + 1, base + 2}},
			Face{V: [3]int{base, base + 2, base + 3}},
		)
	}

	mesh.CalculateBounds()
	return mesh
}

// NewPlaneMesh builds a flat rectangular mesh on the XZ plane centered
// at the origin, facing +Y.
func NewPlaneMesh(width, depth float64) *Mesh {
	hw, hd := width/2, depth/2

	mesh := NewMesh("plane")
	mesh.Vertices = []MeshVertex{
		{Position: math3d.V3(-hw, 0, hd), Normal: math3d.Up(), UV: math3d.V2(0, 0)},
		{Position: math3d.V3(hw, 0, hd), Normal: math3d.Up(), UV: math3d.V2(1, 0)},
		{Position: math3d.V3(hw, 0, -hd), Normal: math3d.Up(), UV: math3d.V2(1, 1)},
		{Position: math3d.V3(-hw, 0, -hd), Normal: math3d.Up(), UV: math3d.V2(0, 1)},
	}
	mesh.Faces = []Face{
		{V: [3]int{0, 1, 2}},
		{V: [3]int{0, 2, 3}},
	}
	mesh.CalculateBounds()
	return mesh
}
