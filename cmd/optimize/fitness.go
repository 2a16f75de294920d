package main

import (
	"math"
	"sync"

	"gonum.org/v1/gonum/stat"

	"github.com/pthm-cable/menagerie/config"
	"github.com/pthm-cable/menagerie/game"
	"github.com/pthm-cable/menagerie/systems"
	"github.com/pthm-cable/menagerie/telemetry"
)

// FitnessEvaluator runs headless simulations and computes fitness.
type FitnessEvaluator struct {
	params     *ParamVector
	maxTicks   int32
	seeds      []int64
	baseConfig *config.Config

	mu          sync.Mutex
	lastQuality float64 // quality from most recent Evaluate call
}

// NewFitnessEvaluator creates a new evaluator.
func NewFitnessEvaluator(params *ParamVector, maxTicks int32, seeds []int64, baseCfg *config.Config) *FitnessEvaluator {
	return &FitnessEvaluator{
		params:     params,
		maxTicks:   maxTicks,
		seeds:      seeds,
		baseConfig: baseCfg,
	}
}

// LastQuality returns the quality score from the most recent evaluation.
func (fe *FitnessEvaluator) LastQuality() float64 {
	fe.mu.Lock()
	defer fe.mu.Unlock()
	return fe.lastQuality
}

// A run collapses once fewer than minViablePop animals are alive at a window end.
const minViablePop = 2

// runResult holds the results from a single simulation run.
type runResult struct {
	survivalTicks int32                   // ticks before collapse (or maxTicks if survived)
	windowStats   []telemetry.WindowStats // collected via OnStats each window
}

// seedResult holds the result from one seed evaluation.
type seedResult struct {
	fitness float64
	quality float64
}

// Evaluate computes fitness for a parameter vector (lower = better).
func (fe *FitnessEvaluator) Evaluate(x []float64) float64 {
	results := make([]seedResult, len(fe.seeds))
	var wg sync.WaitGroup

	for i, seed := range fe.seeds {
		wg.Add(1)
		go func(idx int, s int64) {
			defer wg.Done()
			result := fe.runSimulation(x, s)
			quality := computeQuality(result.windowStats)
			results[idx] = seedResult{
				fitness: computeFitness(result.survivalTicks, quality),
				quality: quality,
			}
		}(i, seed)
	}
	wg.Wait()

	var totalFitness, totalQuality float64
	for _, r := range results {
		totalFitness += r.fitness
		totalQuality += r.quality
	}

	n := float64(len(fe.seeds))
	fe.mu.Lock()
	fe.lastQuality = totalQuality / n
	fe.mu.Unlock()

	return totalFitness / n
}

// runSimulation executes a single headless run until collapse or maxTicks.
func (fe *FitnessEvaluator) runSimulation(x []float64, seed int64) *runResult {
	cfg := fe.baseConfig.Clone()
	fe.params.ApplyToConfig(cfg, x)
	cfg.Telemetry.LogStats = false

	result := &runResult{survivalTicks: fe.maxTicks}
	collapsed := false

	w, err := game.NewWorld(cfg, game.Options{
		Rand: systems.NewSeededRand(seed),
		OnStats: func(stats telemetry.WindowStats) {
			result.windowStats = append(result.windowStats, stats)
			if !collapsed && stats.Alive < minViablePop {
				collapsed = true
				result.survivalTicks = stats.WindowEndTick
			}
		},
	})
	if err != nil {
		result.survivalTicks = 0
		return result
	}
	if err := w.SeedInitial(cfg.Population.Initial); err != nil || w.Size() < 2 {
		result.survivalTicks = 0
		return result
	}

	for w.Tick() < fe.maxTicks && !collapsed {
		w.RunOneTick()
	}
	return result
}

// computeFitness calculates the scalar fitness (lower = better).
// Formula: -(survivalTicks × (1.0 + quality))
func computeFitness(survivalTicks int32, quality float64) float64 {
	return -(float64(survivalTicks) * (1.0 + quality))
}

// Quality component weights.
const (
	qualityWeightDiversity = 0.50
	qualityWeightStability = 0.30
	qualityWeightMutants   = 0.20

	qualityWarmupWindows = 3 // skip first N windows (warmup)
)

// computeQuality computes ecosystem quality ∈ [0, 1] from window stats.
func computeQuality(windows []telemetry.WindowStats) float64 {
	if len(windows) <= qualityWarmupWindows {
		return 0
	}
	valid := windows[qualityWarmupWindows:]

	species := make([]float64, len(valid))
	alive := make([]float64, len(valid))
	for i, w := range valid {
		species[i] = float64(w.Species)
		alive[i] = float64(w.Alive)
	}

	// 1. Diversity: saturating in the mean number of living species
	diversityScore := 1 - math.Exp(-stat.Mean(species, nil)/3.0)

	// 2. Stability: coefficient of variation of the alive count
	stabilityScore := 0.0
	if len(alive) >= 2 {
		c := cv(alive)
		stabilityScore = math.Exp(-c * c)
	}

	// 3. Mutant lineages founded by the end of the run
	last := valid[len(valid)-1]
	mutantScore := 1 - math.Exp(-float64(last.MutantLineages)/2.0)

	quality := qualityWeightDiversity*diversityScore +
		qualityWeightStability*stabilityScore +
		qualityWeightMutants*mutantScore

	return clamp01(quality)
}

// cv computes the coefficient of variation (std/mean) for a slice of values.
func cv(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	mean, std := stat.PopMeanStdDev(values, nil)
	if mean == 0 {
		return 0
	}
	return std / mean
}

// clamp01 clamps x to [0, 1].
func clamp01(x float64) float64 {
	return min(max(x, 0), 1)
}
