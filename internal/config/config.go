// Package config handles engine configuration loading and management.
package config

// Config holds all engine tunables.
type Config struct {
	Pathfinding PathfindingConfig `yaml:"pathfinding"`
	Smoothing   SmoothingConfig   `yaml:"smoothing"`
	Formation   FormationConfig   `yaml:"formation"`
	Planner     PlannerConfig     `yaml:"planner"`
	Logging     LoggingConfig     `yaml:"logging"`
}

// PathfindingConfig holds A* search settings.
type PathfindingConfig struct {
	// MaxIterations bounds a single search. 0 means width*height of the
	// grid the search runs against.
	MaxIterations int `yaml:"max_iterations"`
	// OccupancyPenalty is added to a cell's step cost while another unit
	// occupies it. 0 disables occupancy awareness.
	OccupancyPenalty float64 `yaml:"occupancy_penalty"`
}

// SmoothingConfig holds path smoothing settings.
type SmoothingConfig struct {
	Enabled bool `yaml:"enabled"`
	// SampleStep is the line-of-sight sampling interval as a fraction of
	// the grid cell size.
	SampleStep float64 `yaml:"sample_step"`
}

// FormationConfig holds formation template settings.
type FormationConfig struct {
	Spacing  float64 `yaml:"spacing"`
	MaxUnits int     `yaml:"max_units"`
}

// PlannerConfig holds group move planning settings.
type PlannerConfig struct {
	// Workers is the number of goroutines used for group path requests.
	// 0 means one worker per group member.
	Workers int `yaml:"workers"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Pathfinding: PathfindingConfig{
			MaxIterations:    0,
			OccupancyPenalty: 0,
		},
		Smoothing: SmoothingConfig{
			Enabled:    true,
			SampleStep: 0.25,
		},
		Formation: FormationConfig{
			Spacing:  2.0,
			MaxUnits: 12,
		},
		Planner: PlannerConfig{
			Workers: 0,
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}
