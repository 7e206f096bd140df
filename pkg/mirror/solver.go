package mirror

import (
	"github.com/go-specular/specular/pkg/math3d"
)

// Pose is a camera placement: eye position plus normalized forward and
// up directions.
type Pose struct {
	Eye     math3d.Vec3
	Forward math3d.Vec3
	Up      math3d.Vec3
}

// Lens describes the projection shared by the main and mirrored
// cameras. FocalLength is a 35mm-equivalent focal length in
// millimeters.
type Lens struct {
	FocalLength float64
	Aspect      float64
	Near        float64
	Far         float64
}

// Solver derives the mirrored camera pose from the main camera pose.
// It remembers the last valid mirrored pose so that a degenerate frame
// (gaze parallel to the plane) holds the previous reflection instead
// of producing a broken one.
type Solver struct {
	plane   Plane
	prev    Pose
	hasPrev bool
}

// NewSolver creates a solver for the given mirror plane.
func NewSolver(plane Plane) *Solver {
	return &Solver{plane: plane}
}

// Solve returns the mirrored camera pose for the given main camera
// pose. The mirrored camera sits behind the plane at the same distance
// the main camera has from its gaze point on the plane, looking along
// the reflected gaze direction. The result is always finite.
func (s *Solver) Solve(main Pose) Pose {
	forward := main.Forward.Normalize()

	q, ok := s.plane.Intersect(main.Eye, forward)
	if !ok {
		// Gaze parallel to the plane. Hold the last mirrored pose;
		// before any valid frame, pass the main pose through.
		if s.hasPrev {
			return s.prev
		}
		return main
	}

	n := s.plane.Normal
	rf := forward.Reflect(n)
	re := q.Sub(rf.Scale(q.Distance(main.Eye)))
	ru := main.Up.Reflect(n)

	mirrored := Pose{Eye: re, Forward: rf, Up: ru}
	if !re.IsFinite() || !rf.IsFinite() || !ru.IsFinite() {
		if s.hasPrev {
			return s.prev
		}
		return main
	}

	s.prev = mirrored
	s.hasPrev = true
	return mirrored
}
