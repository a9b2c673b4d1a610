package config

import "flag"

var (
	flagConfig  = flag.String("config", "", "Path to config file")
	flagDebug   = flag.Bool("debug", false, "Enable debug logging")
	flagLogFile = flag.String("log-file", "", "Write logs to file")
	flagMaxIter = flag.Int("max-iterations", 0, "A* iteration budget (0 = grid size)")
	flagWorkers = flag.Int("workers", 0, "Group planner workers (0 = one per unit)")
)

// ParseFlags parses command-line flags. Call this early in main().
func ParseFlags() {
	flag.Parse()
}

// ConfigPath returns the explicit config path if provided via --config flag.
func ConfigPath() string {
	return *flagConfig
}

// applyFlags applies CLI flag overrides to the config.
func applyFlags(cfg *Config) {
	if *flagDebug {
		cfg.Logging.Level = "debug"
	}
	if *flagLogFile != "" {
		cfg.Logging.LogFile = *flagLogFile
	}
	if *flagMaxIter > 0 {
		cfg.Pathfinding.MaxIterations = *flagMaxIter
	}
	if *flagWorkers > 0 {
		cfg.Planner.Workers = *flagWorkers
	}
}
