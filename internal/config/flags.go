package config

import (
	"flag"
	"fmt"
	"strings"

	"github.com/Faultbox/stylistic-fog/internal/engine/fog"
)

var (
	flagConfig      = flag.String("config", "", "Path to config file")
	flagDebug       = flag.Bool("debug", false, "Enable debug logging")
	flagLogFile     = flag.String("log-file", "", "Write logs to this file as well")
	flagWindowed    = flag.Bool("windowed", false, "Run in windowed mode")
	flagFullscreen  = flag.Bool("fullscreen", false, "Run in fullscreen mode")
	flagWidth       = flag.Int("width", 0, "Window width")
	flagHeight      = flag.Int("height", 0, "Window height")
	flagDistanceFog = flag.String("distance-fog", "", "Distance fog: off, or a colour source (gradient, ramp, copy)")
	flagHeightFog   = flag.String("height-fog", "", "Height fog: off, or a colour source (gradient, ramp, copy)")
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
func applyFlags(cfg *Config) error {
	if *flagDebug {
		cfg.Logging.Level = "debug"
	}
	if *flagLogFile != "" {
		cfg.Logging.LogFile = *flagLogFile
	}
	if *flagWindowed {
		cfg.Graphics.Fullscreen = false
	}
	if *flagFullscreen {
		cfg.Graphics.Fullscreen = true
	}
	if *flagWidth > 0 {
		cfg.Graphics.Width = *flagWidth
	}
	if *flagHeight > 0 {
		cfg.Graphics.Height = *flagHeight
	}
	if err := applyFogFlag(*flagDistanceFog, &cfg.Fog.DistanceFog.Enabled, &cfg.Fog.DistanceFog.ColorSelection); err != nil {
		return fmt.Errorf("-distance-fog: %w", err)
	}
	if err := applyFogFlag(*flagHeightFog, &cfg.Fog.HeightFog.Enabled, &cfg.Fog.HeightFog.ColorSelection); err != nil {
		return fmt.Errorf("-height-fog: %w", err)
	}
	return nil
}

// applyFogFlag turns a fog term off, or on with the named colour source.
func applyFogFlag(v string, enabled *bool, sel *fog.ColorSelectionType) error {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "":
		return nil
	case "off", "false", "0":
		*enabled = false
		return nil
	case "on", "true", "1":
		*enabled = true
		return nil
	}
	s, err := fog.ParseColorSelectionType(v)
	if err != nil {
		return err
	}
	*enabled = true
	*sel = s
	return nil
}
