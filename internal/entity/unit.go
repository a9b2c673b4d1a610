// Package entity provides simulation entities shared across the engine.
package entity

import (
	gomath "math"

	"github.com/warhelm/navcore/pkg/math"
)

// ID identifies a unit. Zero is reserved for "no unit".
type ID uint64

// Unit represents a mobile unit with position and movement state.
type Unit struct {
	ID      ID
	Pos     math.Vec2
	Heading float64 // radians
	// MoveSpeed is in world units per second.
	MoveSpeed float64

	// Waypoint-chasing destination
	Dest           math.Vec2
	HasDestination bool
	IsMoving       bool
}

// NewUnit creates a unit at the given position.
func NewUnit(id ID, pos math.Vec2) *Unit {
	return &Unit{
		ID:        id,
		Pos:       pos,
		MoveSpeed: 4.0,
	}
}

// SetDestination sets the current movement destination.
func (u *Unit) SetDestination(dest math.Vec2) {
	u.Dest = dest
	u.HasDestination = true
}

// ClearDestination clears the current destination.
func (u *Unit) ClearDestination() {
	u.HasDestination = false
	u.IsMoving = false
}

// Update advances the unit towards its destination.
// deltaMs is the time since last update in milliseconds.
// Returns true if the unit's state changed.
func (u *Unit) Update(deltaMs float64) bool {
	if !u.HasDestination {
		return false
	}

	delta := u.Dest.Sub(u.Pos)
	dist := delta.Length()

	const arrivalThreshold = 1e-3
	if dist < arrivalThreshold {
		u.Pos = u.Dest
		u.HasDestination = false
		u.IsMoving = false
		return true
	}

	moveAmount := u.MoveSpeed * deltaMs / 1000.0
	if moveAmount > dist {
		moveAmount = dist
	}
	u.Pos = u.Pos.Add(delta.Normalize().Scale(moveAmount))
	u.IsMoving = true
	u.Heading = math.NormalizeAngle(gomath.Atan2(delta.Y, delta.X))
	return true
}
