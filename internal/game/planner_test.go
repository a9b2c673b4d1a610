package game

import (
	"testing"

	"github.com/warhelm/navcore/internal/config"
	"github.com/warhelm/navcore/internal/formation"
	"github.com/warhelm/navcore/internal/nav"
	"github.com/warhelm/navcore/pkg/math"
)

func testPlanner(t *testing.T, width, height int) *Planner {
	t.Helper()
	grid, err := nav.NewGrid(width, height, 1.0)
	if err != nil {
		t.Fatalf("NewGrid: %v", err)
	}
	p, err := NewPlanner(grid, config.Default())
	if err != nil {
		t.Fatalf("NewPlanner: %v", err)
	}
	return p
}

func TestPlanner_PlanMove(t *testing.T) {
	p := testPlanner(t, 20, 20)

	path := p.PlanMove(math.Vec2{X: 0.5, Y: 0.5}, math.Vec2{X: 18.5, Y: 0.5})
	if !path.Valid {
		t.Fatal("expected valid path")
	}
	// Smoothing is on by default; the straight run collapses.
	if path.Length() != 2 {
		t.Errorf("expected smoothed path of 2 waypoints, got %d", path.Length())
	}
}

func TestPlanner_PlanMoveNoPath(t *testing.T) {
	p := testPlanner(t, 10, 10)
	for y := 0; y < 10; y++ {
		p.Grid().SetWalkable(5, y, false)
	}

	path := p.PlanMove(math.Vec2{X: 0.5, Y: 5.5}, math.Vec2{X: 9.5, Y: 5.5})
	if path.Valid {
		t.Error("expected no path through solid wall")
	}
}

func TestPlanner_PlanGroupMove(t *testing.T) {
	p := testPlanner(t, 30, 30)

	units := []UnitMove{
		{Unit: 1, Pos: math.Vec2{X: 2.5, Y: 2.5}},
		{Unit: 2, Pos: math.Vec2{X: 4.5, Y: 2.5}},
		{Unit: 3, Pos: math.Vec2{X: 3.5, Y: 4.5}},
	}
	goal := math.Vec2{X: 20.5, Y: 20.5}

	plans, instID, err := p.PlanGroupMove(units, goal, 0, formation.TemplateWedge)
	if err != nil {
		t.Fatalf("PlanGroupMove: %v", err)
	}

	inst, ok := p.Formations().Get(instID)
	if !ok {
		t.Fatal("expected live formation instance")
	}
	if inst.UnitCount() != 3 {
		t.Errorf("UnitCount() = %d, want 3", inst.UnitCount())
	}

	seen := make(map[int]bool)
	for i, plan := range plans {
		if plan.Unit != units[i].Unit {
			t.Errorf("plan %d: unit order %d, want %d", i, plan.Unit, units[i].Unit)
		}
		if !plan.HasSlot {
			t.Errorf("plan %d: expected slot", i)
			continue
		}
		if seen[plan.SlotIndex] {
			t.Errorf("plan %d: slot %d assigned twice", i, plan.SlotIndex)
		}
		seen[plan.SlotIndex] = true

		if !plan.Path.Valid {
			t.Errorf("plan %d: expected valid path", i)
			continue
		}
		// The path ends in the slot's cell; the slot pose is the
		// locomotion layer's final goal past that.
		last := plan.Path.Waypoints[plan.Path.Length()-1]
		lx, ly := p.Grid().WorldToGrid(last)
		sx, sy := p.Grid().WorldToGrid(plan.Goal)
		if lx != sx || ly != sy {
			t.Errorf("plan %d: path ends in cell (%d,%d), slot in (%d,%d)", i, lx, ly, sx, sy)
		}
	}
}

func TestPlanner_PlanGroupMoveDeterministic(t *testing.T) {
	units := []UnitMove{
		{Unit: 1, Pos: math.Vec2{X: 2.5, Y: 2.5}},
		{Unit: 2, Pos: math.Vec2{X: 4.5, Y: 2.5}},
		{Unit: 3, Pos: math.Vec2{X: 3.5, Y: 4.5}},
		{Unit: 4, Pos: math.Vec2{X: 5.5, Y: 5.5}},
	}
	goal := math.Vec2{X: 20.5, Y: 20.5}

	run := func() []GroupPlan {
		p := testPlanner(t, 30, 30)
		plans, _, err := p.PlanGroupMove(units, goal, 0.5, formation.TemplateCircle)
		if err != nil {
			t.Fatalf("PlanGroupMove: %v", err)
		}
		return plans
	}

	first := run()
	second := run()
	for i := range first {
		if first[i].SlotIndex != second[i].SlotIndex {
			t.Errorf("plan %d: slot %d vs %d across runs", i, first[i].SlotIndex, second[i].SlotIndex)
		}
		if len(first[i].Path.Waypoints) != len(second[i].Path.Waypoints) {
			t.Errorf("plan %d: path lengths differ across runs", i)
			continue
		}
		for j := range first[i].Path.Waypoints {
			if first[i].Path.Waypoints[j] != second[i].Path.Waypoints[j] {
				t.Errorf("plan %d: waypoint %d differs across runs", i, j)
			}
		}
	}
}

func TestPlanner_PlanGroupMoveOverflow(t *testing.T) {
	grid, err := nav.NewGrid(30, 30, 1.0)
	if err != nil {
		t.Fatalf("NewGrid: %v", err)
	}
	cfg := config.Default()
	cfg.Formation.MaxUnits = 2
	p, err := NewPlanner(grid, cfg)
	if err != nil {
		t.Fatalf("NewPlanner: %v", err)
	}

	units := []UnitMove{
		{Unit: 1, Pos: math.Vec2{X: 2.5, Y: 2.5}},
		{Unit: 2, Pos: math.Vec2{X: 4.5, Y: 2.5}},
		{Unit: 3, Pos: math.Vec2{X: 6.5, Y: 2.5}},
	}
	plans, _, err := p.PlanGroupMove(units, math.Vec2{X: 15.5, Y: 15.5}, 0, formation.TemplateLine)
	if err != nil {
		t.Fatalf("PlanGroupMove: %v", err)
	}

	withSlot := 0
	for _, plan := range plans {
		if plan.HasSlot {
			withSlot++
		} else if plan.Path.Valid {
			t.Error("slotless unit should have no planned path")
		}
	}
	if withSlot != 2 {
		t.Errorf("expected 2 units with slots, got %d", withSlot)
	}
}

func TestPlanner_TickSweepsEmptyFormations(t *testing.T) {
	p := testPlanner(t, 20, 20)

	units := []UnitMove{{Unit: 1, Pos: math.Vec2{X: 2.5, Y: 2.5}}}
	_, instID, err := p.PlanGroupMove(units, math.Vec2{X: 10.5, Y: 10.5}, 0, formation.TemplateColumn)
	if err != nil {
		t.Fatalf("PlanGroupMove: %v", err)
	}

	inst, _ := p.Formations().Get(instID)
	inst.RemoveUnit(1)

	// Removal alone never sweeps.
	if _, ok := p.Formations().Get(instID); !ok {
		t.Fatal("instance swept before tick")
	}

	p.Tick()
	if _, ok := p.Formations().Get(instID); ok {
		t.Error("empty instance survived tick")
	}
}
