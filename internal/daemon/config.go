// Package daemon manages the Spiral daemon lifecycle and configuration.
package daemon

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/spiral-app/spiral/internal/app/monitor"
	"github.com/spiral-app/spiral/internal/domain"
)

// Config holds all daemon configuration.
type Config struct {
	Detection    DetectionConfig    `toml:"detection"`
	Intervention InterventionConfig `toml:"intervention"`
	Roast        RoastConfig        `toml:"roast"`
	Monitor      MonitorConfig      `toml:"monitor"`
	API          APIConfig          `toml:"api"`
	Telemetry    TelemetryConfig    `toml:"telemetry"`
	Logging      LoggingConfig      `toml:"logging"`
}

// DetectionConfig tunes the doom-scroll classifier gates.
type DetectionConfig struct {
	MinDuration         string  `toml:"min_duration"`
	MaxInteractionRatio float64 `toml:"max_interaction_ratio"`
	MinScrollVelocity   float64 `toml:"min_scroll_velocity"`
	MaxAppSwitches      int     `toml:"max_app_switches"`
}

// InterventionConfig tunes the intervention state machine.
type InterventionConfig struct {
	Mode                string `toml:"mode"`
	AccountabilityWait  string `toml:"accountability_wait"`
	MaxDismissalsPerDay int    `toml:"max_dismissals_per_day"`
	LockdownWait        string `toml:"lockdown_wait"`
	LockdownCooldown    string `toml:"lockdown_cooldown"`
	ChallengeMin        int    `toml:"challenge_min"`
	ChallengeMax        int    `toml:"challenge_max"`
}

// RoastConfig selects the message style.
type RoastConfig struct {
	Style string `toml:"style"`
}

// MonitorConfig controls the background detection loop.
type MonitorConfig struct {
	CheckInterval string   `toml:"check_interval"`
	Apps          []string `toml:"apps"`
}

// APIConfig controls the HTTP API server.
type APIConfig struct {
	Host string `toml:"host"`
	Port int    `toml:"port"`
}

// TelemetryConfig controls observability endpoints.
type TelemetryConfig struct {
	Prometheus bool `toml:"prometheus"`
}

// LoggingConfig controls logging behavior.
type LoggingConfig struct {
	Level string `toml:"level"`
	File  string `toml:"file"`
}

// DefaultConfig returns the stock configuration.
func DefaultConfig() Config {
	homeDir := spiralHome()
	return Config{
		Detection: DetectionConfig{
			MinDuration:         "25m",
			MaxInteractionRatio: 0.10,
			MinScrollVelocity:   50.0,
			MaxAppSwitches:      5,
		},
		Intervention: InterventionConfig{
			Mode:                "accountability",
			AccountabilityWait:  "10s",
			MaxDismissalsPerDay: 3,
			LockdownWait:        "60s",
			LockdownCooldown:    "15m",
			ChallengeMin:        10,
			ChallengeMax:        50,
		},
		Roast: RoastConfig{
			Style: "mixed",
		},
		Monitor: MonitorConfig{
			CheckInterval: "30s",
			Apps: []string{
				"com.burbn.instagram",
				"com.zhiliaoapp.musically",
				"com.atebits.Tweetie2",
				"com.reddit.Reddit",
				"com.google.ios.youtube",
			},
		},
		API: APIConfig{
			Host: "127.0.0.1",
			Port: 7979,
		},
		Telemetry: TelemetryConfig{
			Prometheus: true,
		},
		Logging: LoggingConfig{
			Level: "info",
			File:  filepath.Join(homeDir, "spiral.log"),
		},
	}
}

// LoadConfig reads config from ~/.spiral/config.toml, falling back to defaults.
func LoadConfig() (Config, error) {
	cfg := DefaultConfig()
	path := filepath.Join(spiralHome(), "config.toml")

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil // No config file yet — use defaults
	}

	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config: %w", err)
	}
	return cfg, nil
}

// SaveConfig writes the config to ~/.spiral/config.toml.
func SaveConfig(cfg Config) error {
	path := filepath.Join(spiralHome(), "config.toml")
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	encoder := toml.NewEncoder(f)
	return encoder.Encode(cfg)
}

// EngineConfig translates the TOML-facing config into the monitor's
// runtime configuration, validating mode and style names.
func (c Config) EngineConfig() (monitor.Config, error) {
	out := monitor.DefaultConfig()

	mode := domain.InterventionMode(c.Intervention.Mode)
	switch mode {
	case domain.ModeGentle, domain.ModeAccountability, domain.ModeLockdown:
		out.Mode = mode
	case "":
	default:
		return out, fmt.Errorf("intervention.mode %q: %w", c.Intervention.Mode, domain.ErrUnknownMode)
	}

	style := domain.MessageStyle(c.Roast.Style)
	switch style {
	case domain.StyleFunny, domain.StyleMotivational, domain.StyleBrutal, domain.StyleMixed:
		out.Style = style
	case "":
	default:
		return out, fmt.Errorf("roast.style %q: %w", c.Roast.Style, domain.ErrUnknownStyle)
	}

	out.Thresholds.MinDuration = parseDuration(c.Detection.MinDuration, out.Thresholds.MinDuration)
	if c.Detection.MaxInteractionRatio > 0 {
		out.Thresholds.MaxInteractionRatio = c.Detection.MaxInteractionRatio
	}
	if c.Detection.MinScrollVelocity > 0 {
		out.Thresholds.MinScrollVelocity = c.Detection.MinScrollVelocity
	}
	if c.Detection.MaxAppSwitches > 0 {
		out.Thresholds.MaxAppSwitches = c.Detection.MaxAppSwitches
	}

	out.Intervention.AccountabilityWait = parseDuration(c.Intervention.AccountabilityWait, out.Intervention.AccountabilityWait)
	out.Intervention.LockdownWait = parseDuration(c.Intervention.LockdownWait, out.Intervention.LockdownWait)
	if c.Intervention.MaxDismissalsPerDay > 0 {
		out.Intervention.MaxDismissalsPerDay = c.Intervention.MaxDismissalsPerDay
	}
	if c.Intervention.ChallengeMin > 0 && c.Intervention.ChallengeMax >= c.Intervention.ChallengeMin {
		out.Intervention.ChallengeMin = c.Intervention.ChallengeMin
		out.Intervention.ChallengeMax = c.Intervention.ChallengeMax
	}
	out.LockdownCooldown = parseDuration(c.Intervention.LockdownCooldown, out.LockdownCooldown)
	out.CheckInterval = parseDuration(c.Monitor.CheckInterval, out.CheckInterval)
	out.MonitoredApps = c.Monitor.Apps

	return out, nil
}

// parseDuration parses a duration string, returning a fallback on error.
func parseDuration(s string, fallback time.Duration) time.Duration {
	if s == "" {
		return fallback
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return fallback
	}
	return d
}

// spiralHome returns the Spiral data directory.
func spiralHome() string {
	if env := os.Getenv("SPIRAL_HOME"); env != "" {
		return env
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".spiral")
}

// SpiralHome is exported for use by other packages.
func SpiralHome() string {
	return spiralHome()
}
