// Package config provides configuration loading and access for the simulation.
package config

import (
	_ "embed"
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds all simulation configuration parameters.
type Config struct {
	Interaction InteractionConfig `yaml:"interaction"`
	Mutation    MutationConfig    `yaml:"mutation"`
	Species     []SpeciesConfig   `yaml:"species"`
	Population  PopulationConfig  `yaml:"population"`
	Shell       ShellConfig       `yaml:"shell"`
	Telemetry   TelemetryConfig   `yaml:"telemetry"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// InteractionConfig holds the per-tick action bands.
// Bands are checked in order; only the first matching band fires.
type InteractionConfig struct {
	AbilityBand    float64  `yaml:"ability_band"`    // r < this: invoke a random ability
	BreedBand      float64  `yaml:"breed_band"`      // r < this: breed (if capable)
	MutationBand   float64  `yaml:"mutation_band"`   // r >= this: mutate
	ReportInterval int      `yaml:"report_interval"` // Ticks between population tallies
	Excluded       []string `yaml:"excluded"`        // Never picked as a random action
	Targeted       []string `yaml:"targeted"`        // Invoked with the second animal as target
}

// MutationConfig holds cross-species synthesis parameters.
type MutationConfig struct {
	InheritFirst  float64  `yaml:"inherit_first"`  // m < this: trait from first parent
	InheritSecond float64  `yaml:"inherit_second"` // m < this: trait from second parent, else pool
	HealthJitter  int      `yaml:"health_jitter"`  // floor(U*jitter) - offset is added to max health
	JitterOffset  int      `yaml:"jitter_offset"`
	NameSuffix    string   `yaml:"name_suffix"` // Founder display name = species + suffix
	MinGrafts     int      `yaml:"min_grafts"`
	MaxGrafts     int      `yaml:"max_grafts"`
	Sounds        []string `yaml:"sounds"`
	Foods         []string `yaml:"foods"`

	Eat ForageConfig `yaml:"eat"` // Foraging action every mutant gets

	// Synthesized ability catalog
	BiteDamage       int `yaml:"bite_damage"`
	EviscerateDamage int `yaml:"eviscerate_damage"`
	RegenerateAmount int `yaml:"regenerate_amount"`
}

// SpeciesConfig defines a static species available to the factory.
type SpeciesConfig struct {
	Keyword   string          `yaml:"keyword"` // Lowercase factory keyword (dog, cat, ...)
	Name      string          `yaml:"name"`    // Display species (empty = title-cased keyword)
	Sound     string          `yaml:"sound"`
	Food      string          `yaml:"food"`
	MaxHealth int             `yaml:"max_health"`
	Eat       ForageConfig    `yaml:"eat"`
	Abilities []AbilityConfig `yaml:"abilities"`
}

// ForageConfig holds the heal-or-XP amounts of a foraging action.
type ForageConfig struct {
	Heal int `yaml:"heal"`
	XP   int `yaml:"xp"`
}

// AbilityConfig describes one species-specific ability.
// Kind selects the behavior: forage, strike, move, or devour.
type AbilityConfig struct {
	Name     string `yaml:"name"`
	Kind     string `yaml:"kind"`
	Heal     int    `yaml:"heal,omitempty"`     // forage, devour
	XP       int    `yaml:"xp,omitempty"`       // forage
	Damage   int    `yaml:"damage,omitempty"`   // strike, devour (base damage, scaled by level)
	Distance int    `yaml:"distance,omitempty"` // move
}

// PopulationConfig holds the starting population.
type PopulationConfig struct {
	Initial []SeedConfig `yaml:"initial"`
}

// SeedConfig names one animal created at startup.
type SeedConfig struct {
	Species string `yaml:"species"`
	Name    string `yaml:"name"`
}

// ShellConfig holds interactive shell settings.
type ShellConfig struct {
	IntervalMS    int    `yaml:"interval_ms"`     // Default tick interval for "start"
	LogBufferSize int    `yaml:"log_buffer_size"` // Lines retained by the log ring buffer
	Prompt        string `yaml:"prompt"`
}

// TelemetryConfig holds telemetry parameters.
type TelemetryConfig struct {
	LogStats  bool   `yaml:"log_stats"`  // Emit window stats via slog
	OutputDir string `yaml:"output_dir"` // CSV output directory (empty = disabled)
}

// DerivedConfig holds computed values derived from the loaded config.
type DerivedConfig struct {
	ExcludedSet map[string]bool // interaction.excluded as a set
	TargetedSet map[string]bool // interaction.targeted as a set
}

// global holds the loaded configuration.
var global *Config

// Init loads configuration from the given path, or uses embedded defaults if path is empty.
// Must be called before Cfg().
func Init(path string) error {
	cfg, err := Load(path)
	if err != nil {
		return err
	}
	global = cfg
	return nil
}

// MustInit is like Init but panics on error.
func MustInit(path string) {
	if err := Init(path); err != nil {
		panic(fmt.Sprintf("config: failed to initialize: %v", err))
	}
}

// Cfg returns the global configuration. Panics if Init was not called.
func Cfg() *Config {
	if global == nil {
		panic("config: Cfg() called before Init()")
	}
	return global
}

// Load loads configuration from a YAML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used.
func Load(path string) (*Config, error) {
	// Start with embedded defaults
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	// Load user config if provided
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Unmarshal into same struct - only overwrites fields present in file
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	cfg.ComputeDerived()

	return cfg, nil
}

// Validate checks that bands and pools are usable.
func (c *Config) Validate() error {
	in := c.Interaction
	if in.AbilityBand < 0 || in.AbilityBand > in.BreedBand || in.BreedBand > in.MutationBand || in.MutationBand > 1 {
		return fmt.Errorf("interaction bands must satisfy 0 <= ability <= breed <= mutation <= 1 (got %v, %v, %v)",
			in.AbilityBand, in.BreedBand, in.MutationBand)
	}
	if in.ReportInterval < 1 {
		return errors.New("interaction.report_interval must be at least 1")
	}

	mu := c.Mutation
	if mu.InheritFirst < 0 || mu.InheritFirst > mu.InheritSecond || mu.InheritSecond > 1 {
		return fmt.Errorf("mutation inherit thresholds must satisfy 0 <= first <= second <= 1 (got %v, %v)",
			mu.InheritFirst, mu.InheritSecond)
	}
	if len(mu.Sounds) == 0 || len(mu.Foods) == 0 {
		return errors.New("mutation sound and food pools must not be empty")
	}
	if mu.MinGrafts < 1 || mu.MaxGrafts < mu.MinGrafts {
		return fmt.Errorf("mutation graft counts must satisfy 1 <= min <= max (got %d, %d)", mu.MinGrafts, mu.MaxGrafts)
	}
	if mu.HealthJitter < 1 {
		return errors.New("mutation.health_jitter must be at least 1")
	}

	if len(c.Species) == 0 {
		return errors.New("at least one species must be defined")
	}
	for _, sp := range c.Species {
		if sp.Keyword == "" {
			return errors.New("species entry without keyword")
		}
		if sp.MaxHealth < 1 {
			return fmt.Errorf("species %q: max_health must be positive", sp.Keyword)
		}
	}

	if c.Shell.IntervalMS < 1 {
		return errors.New("shell.interval_ms must be positive")
	}
	return nil
}

// ComputeDerived calculates lookup tables from the loaded config.
// Call it again after mutating the config in place.
func (c *Config) ComputeDerived() {
	c.Derived.ExcludedSet = make(map[string]bool, len(c.Interaction.Excluded))
	for _, name := range c.Interaction.Excluded {
		c.Derived.ExcludedSet[name] = true
	}
	c.Derived.TargetedSet = make(map[string]bool, len(c.Interaction.Targeted))
	for _, name := range c.Interaction.Targeted {
		c.Derived.TargetedSet[name] = true
	}
}

// Clone returns a deep copy with derived tables recomputed.
// Used by batch tools that tweak parameters per run.
func (c *Config) Clone() *Config {
	data, err := yaml.Marshal(c)
	if err != nil {
		panic(fmt.Sprintf("config: marshaling for clone: %v", err))
	}
	out := &Config{}
	if err := yaml.Unmarshal(data, out); err != nil {
		panic(fmt.Sprintf("config: unmarshaling clone: %v", err))
	}
	out.ComputeDerived()
	return out
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
