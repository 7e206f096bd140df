package mirror

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/go-specular/specular/pkg/math3d"
)

func TestNewPlaneBasis(t *testing.T) {
	p, err := NewPlane(math3d.V3(-2, 0, -5), math3d.V3(1, 0, 2), 1.5)
	require.NoError(t, err)

	assert.InDelta(t, 1.0, p.Normal.Len(), 1e-9, "normal must be unit length")
	assert.InDelta(t, 0, p.U.Dot(p.Normal), 1e-9, "U must be perpendicular to normal")
	assert.InDelta(t, 0, p.V.Dot(p.Normal), 1e-9, "V must be perpendicular to normal")
	assert.InDelta(t, 0, p.U.Dot(p.V), 1e-9, "U and V must be perpendicular")
	assert.InDelta(t, 1.5, p.U.Len(), 1e-9, "U length must match extent")
	assert.InDelta(t, 1.5, p.V.Len(), 1e-9, "V length must match extent")
}

func TestNewPlaneRejectsDegenerateNormals(t *testing.T) {
	tests := []struct {
		name   string
		normal math3d.Vec3
		extent float64
	}{
		{"zero normal", math3d.Zero3(), 1},
		{"up-parallel normal", math3d.V3(0, 1, 0), 1},
		{"down-parallel normal", math3d.V3(0, -3, 0), 1},
		{"zero extent", math3d.V3(0, 0, 1), 0},
		{"negative extent", math3d.V3(0, 0, 1), -2},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewPlane(math3d.Zero3(), tc.normal, tc.extent)
			assert.Error(t, err)
		})
	}
}

func TestPlaneCornersCoplanar(t *testing.T) {
	// The demo mirror placement: every corner must lie exactly in the
	// plane through the center.
	p, err := NewPlane(math3d.V3(-2, 0, -5), math3d.V3(1, 0, 2), 1.5)
	require.NoError(t, err)

	wantDist := 1.5 * math.Sqrt2
	for i, c := range p.Corners() {
		offset := c.Sub(p.Center).Dot(p.Normal)
		assert.InDelta(t, 0, offset, 1e-9, "corner %d off plane", i)
		assert.InDelta(t, wantDist, p.Center.Distance(c), 1e-9, "corner %d distance from center", i)
	}
}

func TestPlaneIntersect(t *testing.T) {
	p, err := NewPlane(math3d.V3(0, 0, -5), math3d.V3(0, 0, 1), 1.5)
	require.NoError(t, err)

	t.Run("head on", func(t *testing.T) {
		q, ok := p.Intersect(math3d.Zero3(), math3d.V3(0, 0, -1))
		require.True(t, ok)
		assert.InDelta(t, 0, q.Distance(math3d.V3(0, 0, -5)), 1e-9)
	})

	t.Run("origin on plane", func(t *testing.T) {
		origin := math3d.V3(1, 0.5, -5)
		q, ok := p.Intersect(origin, math3d.V3(0, 0, -1))
		require.True(t, ok)
		assert.InDelta(t, 0, q.Distance(origin), 1e-9, "ray starting on the plane must intersect at its origin")
	})

	t.Run("parallel ray", func(t *testing.T) {
		_, ok := p.Intersect(math3d.Zero3(), math3d.V3(1, 0, 0))
		assert.False(t, ok)
	})

	t.Run("behind origin", func(t *testing.T) {
		// The infinite plane intersects even when the hit is behind
		// the ray origin; the solver relies on the signed t.
		q, ok := p.Intersect(math3d.V3(0, 0, -10), math3d.V3(0, 0, -1))
		require.True(t, ok)
		assert.InDelta(t, -5, q.Z, 1e-9)
	})
}

func TestPlaneBounds(t *testing.T) {
	p, err := NewPlane(math3d.V3(0, 0, -5), math3d.V3(0, 0, 1), 1.5)
	require.NoError(t, err)

	min, max := p.Bounds()
	assert.InDelta(t, -1.5, min.X, 1e-9)
	assert.InDelta(t, 1.5, max.X, 1e-9)
	assert.InDelta(t, -1.5, min.Y, 1e-9)
	assert.InDelta(t, 1.5, max.Y, 1e-9)
	assert.InDelta(t, -5, min.Z, 1e-9)
	assert.InDelta(t, -5, max.Z, 1e-9)
}
