package main

import (
	"github.com/pthm-cable/menagerie/config"
)

// ParamSpec defines a single optimizable parameter.
type ParamSpec struct {
	Name    string  // Human-readable name
	Path    string  // Config path for logging
	Min     float64 // Lower bound
	Max     float64 // Upper bound
	Default float64 // Default value
}

// ParamVector holds the set of all optimizable parameters.
type ParamVector struct {
	Specs []ParamSpec
}

// NewParamVector creates the standard set of optimizable parameters.
// Bands are expressed as widths so any vector maps to ordered thresholds.
func NewParamVector() *ParamVector {
	return &ParamVector{
		Specs: []ParamSpec{
			// Interaction bands
			{Name: "ability_band", Path: "interaction.ability_band", Min: 0.05, Max: 0.60, Default: 0.30},
			{Name: "breed_width", Path: "interaction.breed_band", Min: 0.0, Max: 0.60, Default: 0.40},
			{Name: "mutation_rate", Path: "interaction.mutation_band", Min: 0.001, Max: 0.05, Default: 0.005},
			// Mutation
			{Name: "inherit_first", Path: "mutation.inherit_first", Min: 0.1, Max: 0.6, Default: 0.4},
			{Name: "inherit_width", Path: "mutation.inherit_second", Min: 0.0, Max: 0.6, Default: 0.4},
			{Name: "health_jitter", Path: "mutation.health_jitter", Min: 1, Max: 20, Default: 10},
			{Name: "jitter_offset", Path: "mutation.jitter_offset", Min: 0, Max: 10, Default: 5},
		},
	}
}

// Dim returns the number of parameters.
func (pv *ParamVector) Dim() int {
	return len(pv.Specs)
}

// DefaultVector returns the default parameter values as a slice.
func (pv *ParamVector) DefaultVector() []float64 {
	v := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		v[i] = spec.Default
	}
	return v
}

// Normalize converts raw parameter values to [0,1] range.
func (pv *ParamVector) Normalize(raw []float64) []float64 {
	normalized := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		normalized[i] = (raw[i] - spec.Min) / (spec.Max - spec.Min)
	}
	return normalized
}

// Denormalize converts [0,1] values back to raw parameter values.
func (pv *ParamVector) Denormalize(normalized []float64) []float64 {
	raw := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		raw[i] = spec.Min + normalized[i]*(spec.Max-spec.Min)
	}
	return raw
}

// Clamp ensures all values are within bounds.
func (pv *ParamVector) Clamp(v []float64) []float64 {
	clamped := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		clamped[i] = min(max(v[i], spec.Min), spec.Max)
	}
	return clamped
}

// ApplyToConfig applies parameter values to a Config struct.
// Order must match Specs order.
func (pv *ParamVector) ApplyToConfig(cfg *config.Config, values []float64) {
	c := pv.Clamp(values)

	mutationBand := 1 - c[2]
	cfg.Interaction.AbilityBand = c[0]
	cfg.Interaction.BreedBand = min(c[0]+c[1], mutationBand)
	cfg.Interaction.MutationBand = mutationBand

	cfg.Mutation.InheritFirst = c[3]
	cfg.Mutation.InheritSecond = min(c[3]+c[4], 1)
	cfg.Mutation.HealthJitter = int(c[5])
	cfg.Mutation.JitterOffset = int(c[6])

	cfg.ComputeDerived()
}

// ExtractFromConfig extracts current parameter values from a Config struct.
func (pv *ParamVector) ExtractFromConfig(cfg *config.Config) []float64 {
	in, mu := cfg.Interaction, cfg.Mutation
	return []float64{
		in.AbilityBand,
		in.BreedBand - in.AbilityBand,
		1 - in.MutationBand,
		mu.InheritFirst,
		mu.InheritSecond - mu.InheritFirst,
		float64(mu.HealthJitter),
		float64(mu.JitterOffset),
	}
}

// EvalRecord is one row of optimize_log.csv. Parameter columns hold clamped values.
type EvalRecord struct {
	Eval         int     `csv:"eval"`
	Fitness      float64 `csv:"fitness"`
	Quality      float64 `csv:"quality"`
	AbilityBand  float64 `csv:"ability_band"`
	BreedWidth   float64 `csv:"breed_width"`
	MutationRate float64 `csv:"mutation_rate"`
	InheritFirst float64 `csv:"inherit_first"`
	InheritWidth float64 `csv:"inherit_width"`
	HealthJitter float64 `csv:"health_jitter"`
	JitterOffset float64 `csv:"jitter_offset"`
}

// Record builds a log row from clamped parameter values.
func (pv *ParamVector) Record(eval int, fitness, quality float64, clamped []float64) EvalRecord {
	return EvalRecord{
		Eval:         eval,
		Fitness:      fitness,
		Quality:      quality,
		AbilityBand:  clamped[0],
		BreedWidth:   clamped[1],
		MutationRate: clamped[2],
		InheritFirst: clamped[3],
		InheritWidth: clamped[4],
		HealthJitter: clamped[5],
		JitterOffset: clamped[6],
	}
}
