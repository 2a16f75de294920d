package telemetry

// Collector accumulates events within report windows and produces WindowStats.
type Collector struct {
	windowDurationTicks int32

	// Current window tracking
	windowStartTick int32

	// Event counters for current window
	abilities     int
	breedAttempts int
	births        int
	mutations     int
	deaths        int
	kills         int
	levelUps      int
}

// NewCollector creates a new stats collector.
// windowTicks: how many ticks each stats window lasts.
func NewCollector(windowTicks int32) *Collector {
	if windowTicks < 1 {
		windowTicks = 1
	}
	return &Collector{windowDurationTicks: windowTicks}
}

// Record counts an event in the current window.
func (c *Collector) Record(ev Event) {
	switch ev.Type {
	case EventAbility:
		c.abilities++
	case EventBreed:
		c.breedAttempts++
	case EventBirth:
		c.births++
	case EventMutation:
		c.mutations++
	case EventDeath:
		c.deaths++
	case EventKill:
		c.kills++
	case EventLevelUp:
		c.levelUps++
	}
}

// ShouldFlush returns true if enough ticks have passed to flush the window.
func (c *Collector) ShouldFlush(currentTick int32) bool {
	return currentTick-c.windowStartTick >= c.windowDurationTicks
}

// Population is the population snapshot the caller samples at window end.
type Population struct {
	Total          int
	Tally          map[string]int // Alive animals per species
	Healths        []float64      // Health of every alive animal
	Levels         []float64      // Level of every alive animal
	Lineages       int
	MutantLineages int
}

// Flush produces a WindowStats and resets counters for the next window.
func (c *Collector) Flush(currentTick int32, pop Population) WindowStats {
	var breedRate float64
	if c.breedAttempts > 0 {
		breedRate = float64(c.births) / float64(c.breedAttempts)
	}

	alive := len(pop.Healths)
	healthMean, healthStd, healthP10, healthP50, healthP90 := ComputeHealthStats(pop.Healths)
	levelMean, _, _, _, _ := ComputeHealthStats(pop.Levels)

	stats := WindowStats{
		WindowStartTick: c.windowStartTick,
		WindowEndTick:   currentTick,

		Total:   pop.Total,
		Alive:   alive,
		Dead:    pop.Total - alive,
		Species: len(pop.Tally),

		Lineages:       pop.Lineages,
		MutantLineages: pop.MutantLineages,

		Abilities:     c.abilities,
		BreedAttempts: c.breedAttempts,
		Births:        c.births,
		Mutations:     c.mutations,
		Deaths:        c.deaths,
		Kills:         c.kills,
		LevelUps:      c.levelUps,
		BreedRate:     breedRate,

		HealthMean: healthMean,
		HealthStd:  healthStd,
		HealthP10:  healthP10,
		HealthP50:  healthP50,
		HealthP90:  healthP90,
		LevelMean:  levelMean,
	}

	c.windowStartTick = currentTick
	c.abilities = 0
	c.breedAttempts = 0
	c.births = 0
	c.mutations = 0
	c.deaths = 0
	c.kills = 0
	c.levelUps = 0

	return stats
}
