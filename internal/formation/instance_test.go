package formation

import (
	gomath "math"
	"testing"

	"github.com/warhelm/navcore/pkg/math"
)

func lineInstance(t *testing.T, maxUnits int, center math.Vec2, heading float64) *Instance {
	t.Helper()
	tmpl, err := NewTemplate("line", ShapeLine, 2.0, maxUnits)
	if err != nil {
		t.Fatalf("NewTemplate: %v", err)
	}
	return newInstance(1, tmpl, center, heading)
}

func TestInstance_AssignNearestFreeSlot(t *testing.T) {
	// Line of 3 at origin: slot world positions x = -2, 0, 2.
	inst := lineInstance(t, 3, math.Vec2{}, 0)

	idx, ok := inst.AssignUnit(10, math.Vec2{X: 2.1, Y: 0})
	if !ok {
		t.Fatal("expected free slot")
	}
	if idx != 2 {
		t.Errorf("unit near x=2 got slot %d, want 2", idx)
	}

	// Same spot again: slot 2 is taken, the next nearest is the center.
	idx, ok = inst.AssignUnit(11, math.Vec2{X: 2.1, Y: 0})
	if !ok {
		t.Fatal("expected free slot")
	}
	if idx != 1 {
		t.Errorf("second unit got slot %d, want 1", idx)
	}
}

func TestInstance_AssignFull(t *testing.T) {
	inst := lineInstance(t, 2, math.Vec2{}, 0)

	if _, ok := inst.AssignUnit(1, math.Vec2{}); !ok {
		t.Fatal("expected slot for unit 1")
	}
	if _, ok := inst.AssignUnit(2, math.Vec2{}); !ok {
		t.Fatal("expected slot for unit 2")
	}
	if _, ok := inst.AssignUnit(3, math.Vec2{}); ok {
		t.Error("expected no free slot in full instance")
	}
	if inst.UnitCount() != 2 {
		t.Errorf("UnitCount() = %d, want 2", inst.UnitCount())
	}
}

func TestInstance_RemoveUnit(t *testing.T) {
	inst := lineInstance(t, 3, math.Vec2{}, 0)

	idx, _ := inst.AssignUnit(7, math.Vec2{X: -2, Y: 0})
	if !inst.RemoveUnit(7) {
		t.Fatal("expected removal of assigned unit")
	}
	if inst.UnitCount() != 0 {
		t.Errorf("UnitCount() = %d after removal, want 0", inst.UnitCount())
	}
	if slot, _ := inst.Slot(idx); slot.UnitID != 0 {
		t.Errorf("slot %d still bound to %d", idx, slot.UnitID)
	}

	if inst.RemoveUnit(99) {
		t.Error("expected false for unknown unit")
	}
}

func TestInstance_UpdatePositionKeepsBindings(t *testing.T) {
	inst := lineInstance(t, 4, math.Vec2{X: 10, Y: 10}, 0)

	a, _ := inst.AssignUnit(1, math.Vec2{X: 5, Y: 10})
	b, _ := inst.AssignUnit(2, math.Vec2{X: 15, Y: 10})

	inst.UpdatePosition(math.Vec2{X: 50, Y: -20}, gomath.Pi/3)

	if idx, ok := inst.SlotFor(1); !ok || idx != a {
		t.Errorf("unit 1 binding moved: got %d, want %d", idx, a)
	}
	if idx, ok := inst.SlotFor(2); !ok || idx != b {
		t.Errorf("unit 2 binding moved: got %d, want %d", idx, b)
	}
	if inst.UnitCount() != 2 {
		t.Errorf("UnitCount() = %d after update, want 2", inst.UnitCount())
	}
}

func TestInstance_UpdatePositionRotatesOffsets(t *testing.T) {
	inst := lineInstance(t, 3, math.Vec2{}, 0)

	// Slot 2's template offset is (+2, 0). Rotated a quarter turn it
	// lands at (0, +2) relative to the new center.
	center := math.Vec2{X: 100, Y: 100}
	inst.UpdatePosition(center, gomath.Pi/2)

	slot, _ := inst.Slot(2)
	want := math.Vec2{X: 100, Y: 102}
	if gomath.Abs(slot.WorldPos.X-want.X) > 1e-9 || gomath.Abs(slot.WorldPos.Y-want.Y) > 1e-9 {
		t.Errorf("slot 2 world pos = %v, want ~%v", slot.WorldPos, want)
	}
	if gomath.Abs(slot.WorldAngle-gomath.Pi/2) > 1e-9 {
		t.Errorf("slot 2 world angle = %v, want %v", slot.WorldAngle, gomath.Pi/2)
	}
}

func TestInstance_SlotBounds(t *testing.T) {
	inst := lineInstance(t, 2, math.Vec2{}, 0)

	if _, ok := inst.Slot(-1); ok {
		t.Error("expected no slot at -1")
	}
	if _, ok := inst.Slot(2); ok {
		t.Error("expected no slot at 2")
	}
	if _, ok := inst.Slot(0); !ok {
		t.Error("expected slot at 0")
	}
}
