// Package main runs a scripted navigation scenario: it loads a map,
// plans a group move into formation and walks the units there. Useful
// for eyeballing path and formation behavior without a full game shell.
package main

import (
	"flag"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/warhelm/navcore/internal/config"
	"github.com/warhelm/navcore/internal/entity"
	"github.com/warhelm/navcore/internal/formation"
	"github.com/warhelm/navcore/internal/game"
	"github.com/warhelm/navcore/internal/logger"
	"github.com/warhelm/navcore/internal/mapfile"
	"github.com/warhelm/navcore/internal/nav"
	"github.com/warhelm/navcore/pkg/math"
)

var (
	flagMap      = flag.String("map", "", "Path to a map file (default: built-in demo map)")
	flagTemplate = flag.String("formation", formation.TemplateWedge, "Formation template name")
	flagUnits    = flag.Int("units", 6, "Number of units in the group")
	flagWatchCfg = flag.Bool("watch-config", false, "Hot-reload the config file on change")
)

func main() {
	config.ParseFlags()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}

	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		fmt.Fprintf(os.Stderr, "Logger error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("=== navsim ===")
	logger.Sugar.Debugf("Config: %+v", cfg)

	grid, err := buildGrid()
	if err != nil {
		logger.Error("failed to build grid", zap.Error(err))
		os.Exit(1)
	}

	planner, err := game.NewPlanner(grid, cfg)
	if err != nil {
		logger.Error("failed to create planner", zap.Error(err))
		os.Exit(1)
	}

	if *flagWatchCfg {
		if path := config.ConfigPath(); path != "" {
			stop, err := config.Watch(path, planner.ApplyConfig)
			if err != nil {
				logger.Warn("config watch unavailable", zap.Error(err))
			} else {
				defer stop()
			}
		} else {
			logger.Warn("-watch-config requires -config")
		}
	}

	if err := run(planner, grid); err != nil {
		logger.Error("scenario failed", zap.Error(err))
		os.Exit(1)
	}

	logger.Info("scenario finished")
}

func buildGrid() (*nav.Grid, error) {
	if *flagMap != "" {
		f, err := mapfile.Load(*flagMap)
		if err != nil {
			return nil, err
		}
		logger.Info("map loaded",
			zap.String("name", f.Name),
			zap.Int("width", f.Width),
			zap.Int("height", f.Height))
		return f.BuildGrid()
	}

	// Built-in demo: 40x40 with a wall across the middle and a gap.
	grid, err := nav.NewGrid(40, 40, 1.0)
	if err != nil {
		return nil, err
	}
	for x := 5; x < 35; x++ {
		if x == 20 || x == 21 {
			continue
		}
		grid.SetWalkable(x, 20, false)
	}
	return grid, nil
}

func run(planner *game.Planner, grid *nav.Grid) error {
	n := *flagUnits
	units := make([]game.UnitMove, n)
	ents := make(map[entity.ID]*entity.Unit, n)
	for i := 0; i < n; i++ {
		id := entity.ID(i + 1)
		pos := math.Vec2{X: 3.5 + float64(i)*1.5, Y: 3.5}
		units[i] = game.UnitMove{Unit: id, Pos: pos}
		ents[id] = entity.NewUnit(id, pos)
	}

	goal := grid.GridToWorld(grid.Width()-8, grid.Height()-8)
	plans, instID, err := planner.PlanGroupMove(units, goal, 0, *flagTemplate)
	if err != nil {
		return err
	}
	logger.Info("group move planned",
		zap.Uint64("formation", instID),
		zap.Int("units", n))

	controllers := make([]*game.MovementController, 0, n)
	for _, plan := range plans {
		unit := ents[plan.Unit]
		if !plan.HasSlot {
			logger.Warn("unit without slot", zap.Uint64("unit", uint64(plan.Unit)))
			continue
		}
		if !plan.Path.Valid {
			logger.Warn("unit slot unreachable",
				zap.Uint64("unit", uint64(plan.Unit)),
				zap.Bool("aborted", plan.Path.Aborted))
			continue
		}
		mc := game.NewMovementController(planner, unit)
		mc.FollowPath(plan.Path)
		mc.SetFormationPose(plan.Goal, plan.GoalAngle)
		controllers = append(controllers, mc)

		logger.Sugar.Infof("unit %d: %d waypoints to slot %d at (%.1f, %.1f)",
			plan.Unit, plan.Path.Length(), plan.SlotIndex, plan.Goal.X, plan.Goal.Y)
	}

	// Fixed-step ticks until everyone settles.
	const tickMs = 50
	for tick := 0; tick < 100000; tick++ {
		moving := 0
		for _, mc := range controllers {
			mc.Update(tickMs)
			if mc.IsFollowingPath {
				moving++
			}
		}
		planner.Tick()
		if moving == 0 {
			logger.Info("all units in formation", zap.Int("ticks", tick+1))
			return nil
		}
	}
	return fmt.Errorf("units failed to settle")
}
