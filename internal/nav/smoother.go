package nav

import (
	"github.com/warhelm/navcore/pkg/math"
)

// Smoother reduces a raw grid path to fewer waypoints using sampled
// line-of-sight checks against the grid. The result is visually
// smoother but not re-optimized against cost-weighted cells.
type Smoother struct {
	grid *Grid
	// sampleStep is the sampling interval as a fraction of cell size.
	sampleStep float64
}

const defaultSampleStep = 0.25

// NewSmoother creates a smoother bound to the given grid.
func NewSmoother(grid *Grid) *Smoother {
	return &Smoother{
		grid:       grid,
		sampleStep: defaultSampleStep,
	}
}

// SetSampleStep sets the line-of-sight sampling interval as a fraction
// of cell size. Values outside (0, 1] restore the default.
func (s *Smoother) SetSampleStep(step float64) {
	if step <= 0 || step > 1 {
		step = defaultSampleStep
	}
	s.sampleStep = step
}

// Smooth removes waypoints that are redundant under line of sight:
// from each retained waypoint it keeps the furthest waypoint still
// visible, then repeats from there. First and last waypoints are always
// preserved; the output is never longer than the input. Paths with
// fewer than 3 waypoints pass through unchanged.
func (s *Smoother) Smooth(path Path) Path {
	if !path.Valid || len(path.Waypoints) < 3 {
		return path
	}

	wp := path.Waypoints

	s.grid.mu.RLock()
	defer s.grid.mu.RUnlock()

	smoothed := make([]math.Vec2, 0, len(wp))
	smoothed = append(smoothed, wp[0])

	i := 0
	for i < len(wp)-1 {
		furthest := i + 1
		for j := i + 2; j < len(wp); j++ {
			if s.lineOfSightLocked(wp[i], wp[j]) {
				furthest = j
			}
		}
		smoothed = append(smoothed, wp[furthest])
		i = furthest
	}

	return Path{Waypoints: smoothed, Valid: true}
}

// LineOfSight reports whether the straight segment between two world
// positions crosses only walkable cells.
func (s *Smoother) LineOfSight(a, b math.Vec2) bool {
	s.grid.mu.RLock()
	defer s.grid.mu.RUnlock()
	return s.lineOfSightLocked(a, b)
}

// lineOfSightLocked samples the segment at sub-cell steps; the caller
// must hold the grid's read lock.
func (s *Smoother) lineOfSightLocked(a, b math.Vec2) bool {
	step := s.sampleStep * s.grid.cellSize
	dist := a.Distance(b)

	steps := int(dist / step)
	if steps < 1 {
		steps = 1
	}

	delta := b.Sub(a)
	for k := 0; k <= steps; k++ {
		t := float64(k) / float64(steps)
		p := a.Add(delta.Scale(t))
		x, y := s.grid.WorldToGrid(p)
		if !s.grid.walkableAt(x, y) {
			return false
		}
	}
	return true
}
