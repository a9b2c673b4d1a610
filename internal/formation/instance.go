package formation

import (
	"github.com/warhelm/navcore/internal/entity"
	"github.com/warhelm/navcore/pkg/math"
)

// Slot is one reserved position within a live formation. UnitID zero
// means the slot is free.
type Slot struct {
	Index      int
	UnitID     entity.ID
	WorldPos   math.Vec2
	WorldAngle float64
}

// Instance is a template placed at a world center and heading, with
// per-slot unit bindings. The template is borrowed from the manager's
// table, never copied or owned.
type Instance struct {
	ID       uint64
	Center   math.Vec2
	Heading  float64
	Slots    []Slot
	template *Template
}

func newInstance(id uint64, tmpl *Template, center math.Vec2, heading float64) *Instance {
	inst := &Instance{
		ID:       id,
		template: tmpl,
		Slots:    make([]Slot, len(tmpl.Entries)),
	}
	for i := range inst.Slots {
		inst.Slots[i].Index = i
	}
	inst.UpdatePosition(center, heading)
	return inst
}

// Template returns the shared template this instance was created from.
func (in *Instance) Template() *Template {
	return in.template
}

// AssignUnit binds a unit to the free slot nearest its current world
// position. Returns the slot index, or ok=false when every slot is
// taken — an expected outcome the caller recovers from, typically by
// spawning an overflow formation.
func (in *Instance) AssignUnit(unit entity.ID, unitPos math.Vec2) (int, bool) {
	best := -1
	bestDist := 0.0
	for i := range in.Slots {
		if in.Slots[i].UnitID != 0 {
			continue
		}
		d := unitPos.Distance(in.Slots[i].WorldPos)
		if best == -1 || d < bestDist {
			best = i
			bestDist = d
		}
	}
	if best == -1 {
		return 0, false
	}
	in.Slots[best].UnitID = unit
	return best, true
}

// RemoveUnit frees the first slot bound to the unit. Returns false when
// the unit holds no slot.
func (in *Instance) RemoveUnit(unit entity.ID) bool {
	for i := range in.Slots {
		if in.Slots[i].UnitID == unit {
			in.Slots[i].UnitID = 0
			return true
		}
	}
	return false
}

// SlotFor returns the slot index bound to the unit.
func (in *Instance) SlotFor(unit entity.ID) (int, bool) {
	for i := range in.Slots {
		if in.Slots[i].UnitID == unit {
			return i, true
		}
	}
	return 0, false
}

// Slot returns a copy of the slot at the given index.
func (in *Instance) Slot(index int) (Slot, bool) {
	if index < 0 || index >= len(in.Slots) {
		return Slot{}, false
	}
	return in.Slots[index], true
}

// UnitCount returns the number of bound slots.
func (in *Instance) UnitCount() int {
	count := 0
	for i := range in.Slots {
		if in.Slots[i].UnitID != 0 {
			count++
		}
	}
	return count
}

// UpdatePosition moves the formation: every slot's world position and
// angle is recomputed from the template offsets. Unit-slot bindings are
// untouched; only poses change.
func (in *Instance) UpdatePosition(center math.Vec2, heading float64) {
	in.Center = center
	in.Heading = heading
	for i := range in.Slots {
		entry := &in.template.Entries[i]
		in.Slots[i].WorldPos = center.Add(entry.Offset.Rotate(heading))
		in.Slots[i].WorldAngle = math.NormalizeAngle(heading + entry.Angle)
	}
}
