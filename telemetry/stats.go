package telemetry

import (
	"log/slog"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// WindowStats holds aggregated statistics for a report window.
type WindowStats struct {
	WindowStartTick int32 `csv:"-"`
	WindowEndTick   int32 `csv:"window_end"`

	// Population at window end
	Total   int `csv:"total"`
	Alive   int `csv:"alive"`
	Dead    int `csv:"dead"`
	Species int `csv:"species"` // Species with at least one alive member

	// Lineage tracking
	Lineages       int `csv:"lineages"`
	MutantLineages int `csv:"mutant_lineages"`

	// Events during window
	Abilities     int     `csv:"abilities"`
	BreedAttempts int     `csv:"breed_attempts"` // Breed band rolls by a breeder, mismatched pairs included
	Births        int     `csv:"births"`
	Mutations     int     `csv:"mutations"`
	Deaths        int     `csv:"deaths"`
	Kills         int     `csv:"kills"`
	LevelUps      int     `csv:"level_ups"`
	BreedRate     float64 `csv:"breed_rate"` // Births per breed attempt

	// Health distribution of alive animals (sampled at window end)
	HealthMean float64 `csv:"health_mean"`
	HealthStd  float64 `csv:"health_std"`
	HealthP10  float64 `csv:"health_p10"`
	HealthP50  float64 `csv:"health_p50"`
	HealthP90  float64 `csv:"health_p90"`

	LevelMean float64 `csv:"level_mean"`
}

// ComputeHealthStats calculates mean, population std, and empirical percentiles.
func ComputeHealthStats(values []float64) (mean, std, p10, p50, p90 float64) {
	if len(values) == 0 {
		return 0, 0, 0, 0, 0
	}

	mean, std = stat.PopMeanStdDev(values, nil)

	// Quantile requires sorted input
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	p10 = stat.Quantile(0.10, stat.Empirical, sorted, nil)
	p50 = stat.Quantile(0.50, stat.Empirical, sorted, nil)
	p90 = stat.Quantile(0.90, stat.Empirical, sorted, nil)

	return mean, std, p10, p50, p90
}

// LogValue implements slog.LogValuer for structured logging.
func (s WindowStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("window_start", int(s.WindowStartTick)),
		slog.Int("window_end", int(s.WindowEndTick)),
		slog.Int("total", s.Total),
		slog.Int("alive", s.Alive),
		slog.Int("dead", s.Dead),
		slog.Int("species", s.Species),
		slog.Int("lineages", s.Lineages),
		slog.Int("mutant_lineages", s.MutantLineages),
		slog.Int("abilities", s.Abilities),
		slog.Int("breed_attempts", s.BreedAttempts),
		slog.Int("births", s.Births),
		slog.Int("mutations", s.Mutations),
		slog.Int("deaths", s.Deaths),
		slog.Int("kills", s.Kills),
		slog.Int("level_ups", s.LevelUps),
		slog.Float64("breed_rate", s.BreedRate),
		slog.Float64("health_mean", s.HealthMean),
		slog.Float64("health_std", s.HealthStd),
		slog.Float64("health_p10", s.HealthP10),
		slog.Float64("health_p50", s.HealthP50),
		slog.Float64("health_p90", s.HealthP90),
		slog.Float64("level_mean", s.LevelMean),
	)
}

// LogStats logs the window stats using slog.
func (s WindowStats) LogStats() {
	slog.Info("stats",
		"window_end", s.WindowEndTick,
		"alive", s.Alive,
		"dead", s.Dead,
		"species", s.Species,
		"lineages", s.Lineages,
		"mutant_lineages", s.MutantLineages,
		"births", s.Births,
		"mutations", s.Mutations,
		"deaths", s.Deaths,
		"kills", s.Kills,
		"level_ups", s.LevelUps,
		"breed_rate", s.BreedRate,
		"health_mean", s.HealthMean,
		"health_p50", s.HealthP50,
		"level_mean", s.LevelMean,
	)
}

// PopulationRow is one species count in population.csv.
type PopulationRow struct {
	WindowEnd int32  `csv:"window_end"`
	Species   string `csv:"species"`
	Alive     int    `csv:"alive"`
}

// PopulationRows flattens a tally into rows sorted by species.
func PopulationRows(windowEnd int32, tally map[string]int) []PopulationRow {
	rows := make([]PopulationRow, 0, len(tally))
	for species, n := range tally {
		rows = append(rows, PopulationRow{WindowEnd: windowEnd, Species: species, Alive: n})
	}
	sort.Slice(rows, func(i, j int) bool {
		return rows[i].Species < rows[j].Species
	})
	return rows
}
