package game

import (
	"github.com/warhelm/navcore/internal/entity"
	"github.com/warhelm/navcore/internal/nav"
	"github.com/warhelm/navcore/pkg/math"
)

// MovementController walks one unit along a planned path. When the unit
// is a formation member the terminal slot pose overrides the last
// waypoint as the final goal.
type MovementController struct {
	planner *Planner
	unit    *entity.Unit

	path      nav.Path
	pathIndex int

	IsFollowingPath bool

	finalPos     math.Vec2
	finalAngle   float64
	hasFinalPose bool
}

// NewMovementController creates a controller for the given unit.
func NewMovementController(planner *Planner, unit *entity.Unit) *MovementController {
	return &MovementController{
		planner: planner,
		unit:    unit,
	}
}

// MoveTo plans and starts following a path to a world position.
// Returns false when no path exists.
func (mc *MovementController) MoveTo(goal math.Vec2) bool {
	path := mc.planner.PlanMove(mc.unit.Pos, goal)
	if !path.Valid {
		return false
	}
	mc.FollowPath(path)
	return true
}

// FollowPath starts following an externally planned path.
func (mc *MovementController) FollowPath(path nav.Path) {
	if !path.Valid || path.Length() == 0 {
		return
	}
	// Skip the first waypoint: it is the unit's current cell.
	if path.Length() > 1 {
		mc.path = nav.Path{Waypoints: path.Waypoints[1:], Valid: true}
	} else {
		mc.path = path
	}
	mc.pathIndex = 0
	mc.IsFollowingPath = true
	mc.hasFinalPose = false
	mc.setNextWaypoint()
}

// SetFormationPose sets the terminal slot pose. The unit heads there
// after the last waypoint and takes the slot angle on arrival.
func (mc *MovementController) SetFormationPose(pos math.Vec2, angle float64) {
	mc.finalPos = pos
	mc.finalAngle = angle
	mc.hasFinalPose = true
}

// Update advances path following. deltaMs is the time since the last
// update in milliseconds.
func (mc *MovementController) Update(deltaMs float64) {
	mc.unit.Update(deltaMs)

	if !mc.IsFollowingPath || mc.unit.HasDestination {
		return
	}

	if mc.pathIndex < mc.path.Length() {
		mc.setNextWaypoint()
		return
	}

	if mc.hasFinalPose {
		if mc.unit.Pos.Distance(mc.finalPos) > 1e-3 {
			mc.unit.SetDestination(mc.finalPos)
			return
		}
		mc.unit.Heading = mc.finalAngle
		mc.hasFinalPose = false
	}

	mc.IsFollowingPath = false
}

// ClearPath stops path following.
func (mc *MovementController) ClearPath() {
	mc.path = nav.Path{}
	mc.pathIndex = 0
	mc.IsFollowingPath = false
	mc.hasFinalPose = false
	mc.unit.ClearDestination()
}

// Path returns the path being followed.
func (mc *MovementController) Path() nav.Path {
	return mc.path
}

func (mc *MovementController) setNextWaypoint() {
	if mc.pathIndex >= mc.path.Length() {
		return
	}
	mc.unit.SetDestination(mc.path.Waypoints[mc.pathIndex])
	mc.pathIndex++
}
