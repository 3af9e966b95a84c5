package config

import "flag"

var (
	flagConfig     = flag.String("config", "", "Path to config file")
	flagDebug      = flag.Bool("debug", false, "Enable debug logging")
	flagSeed       = flag.Int64("seed", 0, "Noise seed (0 keeps the configured seed)")
	flagDensity    = flag.Float64("density", -1, "Solid threshold in [0,1]")
	flagInvert     = flag.Bool("invert", false, "Invert the solid threshold")
	flagCellScale  = flag.Float64("cell-scale", 0, "World units per grid cell")
	flagPatchCap   = flag.Int("patch-cap", 0, "Max cells per patch edge")
	flagWorkers    = flag.Int("workers", -1, "Patch build workers (0 = all CPUs)")
	flagWindowed   = flag.Bool("windowed", false, "Run the viewer in windowed mode")
	flagFullscreen = flag.Bool("fullscreen", false, "Run the viewer in fullscreen mode")
	flagWidth      = flag.Int("width", 0, "Viewer window width")
	flagHeight     = flag.Int("height", 0, "Viewer window height")
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
	if *flagSeed != 0 {
		cfg.Noise.Seed = *flagSeed
	}
	if *flagDensity >= 0 {
		cfg.Sampler.Density = float32(*flagDensity)
	}
	if *flagInvert {
		cfg.Sampler.Invert = true
	}
	if *flagCellScale > 0 {
		cfg.Terrain.CellScale = float32(*flagCellScale)
	}
	if *flagPatchCap > 0 {
		cfg.Terrain.PatchCellCap = *flagPatchCap
	}
	if *flagWorkers >= 0 {
		cfg.Terrain.Workers = *flagWorkers
	}
	if *flagWindowed {
		cfg.Viewer.Fullscreen = false
	}
	if *flagFullscreen {
		cfg.Viewer.Fullscreen = true
	}
	if *flagWidth > 0 {
		cfg.Viewer.Width = *flagWidth
	}
	if *flagHeight > 0 {
		cfg.Viewer.Height = *flagHeight
	}
}
