package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// EnvOverrides lists the runtime knobs that may be set from the environment.
// Zero values mean "not set" and leave the loaded config untouched.
type EnvOverrides struct {
	TickIntervalMS int    `env:"MENAGERIE_TICK_INTERVAL_MS"`
	ReportInterval int    `env:"MENAGERIE_REPORT_INTERVAL"`
	OutputDir      string `env:"MENAGERIE_OUTPUT_DIR"`
	LogStats       bool   `env:"MENAGERIE_LOG_STATS"`
}

// ParseEnv loads overrides from environment variables.
func ParseEnv() (EnvOverrides, error) {
	var o EnvOverrides
	if err := env.Parse(&o); err != nil {
		return EnvOverrides{}, fmt.Errorf("parse env: %w", err)
	}
	return o, nil
}

// ApplyEnv parses the environment and applies any overrides to c.
func (c *Config) ApplyEnv() error {
	o, err := ParseEnv()
	if err != nil {
		return err
	}
	c.Apply(o)
	return c.Validate()
}

// Apply copies the set fields of o into c.
func (c *Config) Apply(o EnvOverrides) {
	if o.TickIntervalMS > 0 {
		c.Shell.IntervalMS = o.TickIntervalMS
	}
	if o.ReportInterval > 0 {
		c.Interaction.ReportInterval = o.ReportInterval
	}
	if o.OutputDir != "" {
		c.Telemetry.OutputDir = o.OutputDir
	}
	if o.LogStats {
		c.Telemetry.LogStats = true
	}
}
