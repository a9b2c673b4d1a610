// Package game ties the navigation and formation layers together for
// the command layer: single-unit and group move planning, and per-unit
// path following.
package game

import (
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/warhelm/navcore/internal/config"
	"github.com/warhelm/navcore/internal/entity"
	"github.com/warhelm/navcore/internal/formation"
	"github.com/warhelm/navcore/internal/logger"
	"github.com/warhelm/navcore/internal/nav"
	"github.com/warhelm/navcore/pkg/math"
)

// UnitMove names one group member and its current position.
type UnitMove struct {
	Unit entity.ID
	Pos  math.Vec2
}

// GroupPlan is the per-unit result of a group move order: a path to the
// unit's formation slot plus the terminal slot pose the locomotion
// layer treats as the final goal. HasSlot is false when the formation
// was full; such units get no path and the caller decides the fallback
// (typically an overflow formation).
type GroupPlan struct {
	Unit      entity.ID
	Path      nav.Path
	SlotIndex int
	HasSlot   bool
	Goal      math.Vec2
	GoalAngle float64
}

// Planner serves path and formation requests for the command layer.
// All methods are driven from the single simulation thread; only the
// path searches inside PlanGroupMove fan out to goroutines, and those
// touch nothing but the read-locked grid and their own results.
type Planner struct {
	grid       *nav.Grid
	pathfinder *nav.Pathfinder
	smoother   *nav.Smoother
	formations *formation.Manager

	workers   int
	smoothing bool
}

// NewPlanner wires a planner against a grid using the given config.
func NewPlanner(grid *nav.Grid, cfg *config.Config) (*Planner, error) {
	formations, err := formation.NewManager(cfg.Formation.Spacing, cfg.Formation.MaxUnits)
	if err != nil {
		return nil, fmt.Errorf("formation manager: %w", err)
	}

	p := &Planner{
		grid:       grid,
		pathfinder: nav.NewPathfinder(grid),
		smoother:   nav.NewSmoother(grid),
		formations: formations,
	}
	p.ApplyConfig(cfg)
	return p, nil
}

// ApplyConfig applies runtime-tunable settings. Safe to call from a
// config reload between ticks.
func (p *Planner) ApplyConfig(cfg *config.Config) {
	p.pathfinder.SetMaxIterations(cfg.Pathfinding.MaxIterations)
	p.pathfinder.SetOccupancyPenalty(cfg.Pathfinding.OccupancyPenalty)
	p.smoother.SetSampleStep(cfg.Smoothing.SampleStep)
	p.smoothing = cfg.Smoothing.Enabled
	p.workers = cfg.Planner.Workers
}

// Grid returns the planner's navigation grid.
func (p *Planner) Grid() *nav.Grid { return p.grid }

// Formations returns the formation manager.
func (p *Planner) Formations() *formation.Manager { return p.formations }

// PlanMove computes a (smoothed) path between two world positions.
func (p *Planner) PlanMove(from, to math.Vec2) nav.Path {
	path := p.pathfinder.FindPath(from, to)
	if path.Valid && p.smoothing {
		path = p.smoother.Smooth(path)
	}
	return path
}

// PlanGroupMove creates a formation of the named template at the goal
// and plans a path for every member to its assigned slot. Plans are
// returned in input order; slot assignment also runs in input order so
// lockstep peers bind identically.
func (p *Planner) PlanGroupMove(units []UnitMove, goal math.Vec2, heading float64, templateName string) ([]GroupPlan, uint64, error) {
	instID, err := p.formations.Create(templateName, goal, heading)
	if err != nil {
		return nil, 0, err
	}
	inst, _ := p.formations.Get(instID)

	plans := make([]GroupPlan, len(units))
	for i, um := range units {
		plans[i] = GroupPlan{Unit: um.Unit}
		idx, ok := inst.AssignUnit(um.Unit, um.Pos)
		if !ok {
			logger.Debug("formation full",
				zap.Uint64("formation", instID),
				zap.Uint64("unit", uint64(um.Unit)))
			continue
		}
		slot, _ := inst.Slot(idx)
		plans[i].SlotIndex = idx
		plans[i].HasSlot = true
		plans[i].Goal = slot.WorldPos
		plans[i].GoalAngle = slot.WorldAngle
	}

	p.planPaths(units, plans)

	logger.Debug("group move planned",
		zap.Uint64("formation", instID),
		zap.Int("units", len(units)),
		zap.Int("assigned", inst.UnitCount()))

	return plans, instID, nil
}

// planPaths computes member paths concurrently. Each search only reads
// the shared grid and writes its own plan entry.
func (p *Planner) planPaths(units []UnitMove, plans []GroupPlan) {
	workers := p.workers
	if workers <= 0 || workers > len(units) {
		workers = len(units)
	}
	if workers == 0 {
		return
	}

	jobs := make(chan int)
	var wg sync.WaitGroup
	wg.Add(workers)
	for w := 0; w < workers; w++ {
		go func() {
			defer wg.Done()
			for i := range jobs {
				if !plans[i].HasSlot {
					continue
				}
				plans[i].Path = p.PlanMove(units[i].Pos, plans[i].Goal)
			}
		}()
	}
	for i := range units {
		jobs <- i
	}
	close(jobs)
	wg.Wait()
}

// Tick runs the planner's periodic maintenance: currently the empty
// formation sweep.
func (p *Planner) Tick() {
	if removed := p.formations.CleanupEmpty(); removed > 0 {
		logger.Debug("formations swept", zap.Int("removed", removed))
	}
}
