package game

import (
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/menagerie/components"
	"github.com/pthm-cable/menagerie/config"
	"github.com/pthm-cable/menagerie/systems"
	"github.com/pthm-cable/menagerie/telemetry"
)

// Options configures a World. Zero values select defaults.
type Options struct {
	Logger  components.Logger           // Event sink, Discard when nil
	Rand    systems.Rand                // Random source, time-seeded when nil
	Output  *telemetry.OutputManager    // CSV output, disabled when nil
	OnStats func(telemetry.WindowStats) // Called after every report window
}

// World owns the population and runs interaction ticks.
// Every exported method serializes on one mutex.
type World struct {
	mu  sync.Mutex
	cfg *config.Config

	// ECS storage
	world      *ecs.World
	orgMap     *ecs.Map1[components.Organism]
	founderMap *ecs.Map[components.Founder]
	orgFilter  *ecs.Filter1[components.Organism]
	order      []ecs.Entity // Insertion order, never compacted

	log      components.Logger
	rng      systems.Rand
	registry *systems.CapabilityRegistry
	book     *systems.SpeciesBook
	mutation *systems.MutationEngine
	lineages *systems.LineageLedger

	// Telemetry
	collector *telemetry.Collector
	perf      *telemetry.PerfCollector
	bookmarks *telemetry.BookmarkDetector
	output    *telemetry.OutputManager
	onStats   func(telemetry.WindowStats)

	// State
	tick          int32
	reportCounter int
}

// NewWorld creates an empty world from cfg.
func NewWorld(cfg *config.Config, opts Options) (*World, error) {
	book, err := systems.NewSpeciesBook(cfg.Species)
	if err != nil {
		return nil, fmt.Errorf("building species: %w", err)
	}

	log := opts.Logger
	if log == nil {
		log = components.Discard
	}
	rng := opts.Rand
	if rng == nil {
		rng = systems.NewRand()
	}

	world := ecs.NewWorld()

	w := &World{
		cfg:        cfg,
		world:      world,
		orgMap:     ecs.NewMap1[components.Organism](world),
		founderMap: ecs.NewMap[components.Founder](world),
		orgFilter:  ecs.NewFilter1[components.Organism](world),

		log:      log,
		rng:      rng,
		registry: systems.NewCapabilityRegistry(cfg.Derived),
		book:     book,
		mutation: systems.NewMutationEngine(cfg.Mutation, rng),
		lineages: systems.NewLineageLedger(),

		collector: telemetry.NewCollector(int32(cfg.Interaction.ReportInterval)),
		perf:      telemetry.NewPerfCollector(cfg.Interaction.ReportInterval),
		bookmarks: telemetry.NewBookmarkDetector(10),
		output:    opts.Output,
		onStats:   opts.OnStats,
	}

	return w, nil
}

// SeedInitial spawns the configured starting population.
func (w *World) SeedInitial(seeds []config.SeedConfig) error {
	for _, s := range seeds {
		if _, err := w.Spawn(s.Species, s.Name); err != nil {
			return err
		}
	}
	return nil
}

// AddEntity appends a to the population as a founder.
func (w *World) AddEntity(a *components.Animal) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.add(a, true, [2]string{})
}

// Spawn creates an animal through the species factory and adds it.
// On failure the population is unchanged.
func (w *World) Spawn(keyword, name string) (*components.Animal, error) {
	a, err := w.book.New(keyword, name)
	if err != nil {
		return nil, fmt.Errorf("spawn: %w", err)
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	w.add(a, true, [2]string{})
	return a, nil
}

// add stores a in the ECS world and the lineage ledger.
// Caller must hold w.mu.
func (w *World) add(a *components.Animal, founder bool, parents [2]string) {
	a.SetLogger(w.log)

	org := components.Organism{Animal: a, Index: len(w.order)}
	entity := w.orgMap.NewEntity(&org)
	if founder {
		w.founderMap.Add(entity, &components.Founder{})
		w.lineages.Found(a.Species, a.Kind, parents, w.tick)
	} else {
		w.lineages.RecordBirth(a.Kind, a.Species)
	}
	w.order = append(w.order, entity)
}

// animal returns the animal at insertion index i.
func (w *World) animal(i int) *components.Animal {
	return w.orgMap.Get(w.order[i]).Animal
}

// Size returns the population size, dead animals included.
func (w *World) Size() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.order)
}

// Tick returns the number of ticks run so far.
func (w *World) Tick() int32 {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.tick
}

// Species returns the factory keywords.
func (w *World) Species() []string {
	return w.book.Keywords()
}

// Lineages returns every species that has appeared, in founding order.
func (w *World) Lineages() []systems.Lineage {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.lineages.All()
}

// PopulationTally counts alive animals per species.
func (w *World) PopulationTally() map[string]int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.tally()
}

// LogPopulation writes the current tally to the event sink.
func (w *World) LogPopulation() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.logPopulation(w.tally())
}

// tally walks the ECS world. Caller must hold w.mu.
func (w *World) tally() map[string]int {
	counts := make(map[string]int)
	query := w.orgFilter.Query()
	for query.Next() {
		org := query.Get()
		if org.Animal.Dead() {
			continue
		}
		counts[org.Animal.Species]++
	}
	return counts
}

// Entities lists the population in insertion order, dead animals included.
func (w *World) Entities() []EntityStatus {
	w.mu.Lock()
	defer w.mu.Unlock()

	out := make([]EntityStatus, len(w.order))
	for i, e := range w.order {
		a := w.orgMap.Get(e).Animal
		out[i] = EntityStatus{
			Index:       i,
			Name:        a.Name,
			Species:     a.Species,
			Kind:        a.Kind,
			Alive:       !a.Dead(),
			Founder:     w.founderMap.Has(e),
			Health:      a.Health,
			MaxHealth:   a.MaxHealth,
			Level:       a.Level,
			XP:          a.XP,
			NextLevelXP: a.NextLevelXP,
			Position:    a.Position,
			Abilities:   w.registry.Names(a),
		}
	}
	return out
}

// Status summarizes the world.
func (w *World) Status() Status {
	w.mu.Lock()
	defer w.mu.Unlock()

	s := Status{
		Tick:     w.tick,
		Total:    len(w.order),
		Lineages: w.lineages.Count(),
	}
	tally := w.tally()
	for _, n := range tally {
		s.Alive += n
	}
	s.Dead = s.Total - s.Alive
	s.Species = len(tally)
	return s
}

// RunOneTick runs a single interaction.
func (w *World) RunOneTick() Outcome {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.step()
}

// step is RunOneTick without locking.
func (w *World) step() Outcome {
	n := len(w.order)
	if n < 2 {
		return Outcome{Tick: w.tick, Skipped: true}
	}

	w.perf.StartTick()
	w.perf.StartPhase(telemetry.PhaseSelect)

	w.tick++
	out := Outcome{Tick: w.tick}

	i := w.rng.Intn(n)
	j := w.rng.Intn(n - 1)
	if j >= i {
		j++
	}
	a1, a2 := w.animal(i), w.animal(j)
	out.Actor, out.Target = a1, a2

	switch {
	case a1 == a2:
		out.Skipped = true
	case a1.Dead():
		out.Skipped = true
	default:
		r := w.rng.Float64()
		w.perf.StartPhase(telemetry.PhaseDispatch)
		w.dispatch(&out, r)
	}

	w.perf.StartPhase(telemetry.PhaseReport)
	w.reportCounter++
	if w.reportCounter >= w.cfg.Interaction.ReportInterval {
		w.report()
		w.reportCounter = 0
		out.Reported = true
	}
	w.perf.EndTick()

	return out
}

// dispatch classifies r into a band and runs the matching action.
func (w *World) dispatch(out *Outcome, r float64) {
	a1, a2 := out.Actor, out.Target
	bands := w.cfg.Interaction

	before := observe(a1, a2)

	switch {
	case r < bands.AbilityBand:
		w.useAbility(out)
	case r < bands.BreedBand && w.registry.CanBreed(a1):
		w.breed(out)
	case r >= bands.MutationBand:
		w.mutate(out)
	}

	w.recordEffects(before, a1, a2)
}

// useAbility invokes a random eligible ability of the actor.
func (w *World) useAbility(out *Outcome) {
	a1, a2 := out.Actor, out.Target
	actions := w.registry.Actions(a1)
	if len(actions) == 0 {
		return
	}

	name := actions[w.rng.Intn(len(actions))]
	var target *components.Animal
	if w.registry.RequiresTarget(a1, name) {
		target = a2
	}

	if err := a1.Use(name, target); err != nil {
		slog.Debug("ability failed", "actor", a1.DisplayName(), "ability", name, "error", err)
		return
	}

	out.Action = ActionAbility
	out.Ability = name
	targetName := ""
	if target != nil {
		targetName = target.DisplayName()
	}
	w.collector.Record(telemetry.NewAbilityEvent(w.tick, a1.DisplayName(), a1.Species, name, targetName))
}

// breed attempts same-species breeding. Every attempt is recorded; only
// compatible pairs record a birth.
func (w *World) breed(out *Outcome) {
	a1, a2 := out.Actor, out.Target
	w.collector.Record(telemetry.NewBreedEvent(w.tick, a1.DisplayName(), a1.Species, a2.DisplayName()))

	child, ok := a1.Breed(a2)
	if !ok {
		return
	}

	out.Action = ActionBreed
	out.Offspring = child
	w.add(child, false, [2]string{})
	w.log.Logf("%s and %s bred. Welcome %s the %s!", a1.DisplayName(), a2.DisplayName(), child.DisplayName(), child.Species)
	w.collector.Record(telemetry.NewBirthEvent(w.tick, child.DisplayName(), child.Species))
}

// mutate founds a new species from the pair.
func (w *World) mutate(out *Outcome) {
	a1, a2 := out.Actor, out.Target
	mutant := w.mutation.Mutate(a1, a2)

	out.Action = ActionMutate
	out.Offspring = mutant
	w.add(mutant, true, [2]string{a1.Species, a2.Species})
	w.log.Logf("MUTATION! %s and %s produced a new species: %s", a1.DisplayName(), a2.DisplayName(), mutant.Species)
	w.log.Logf("%s emerges with %d health and grafted abilities: %v", mutant.DisplayName(), mutant.MaxHealth, mutant.Grafts())
	w.collector.Record(telemetry.NewMutationEvent(w.tick, mutant.DisplayName(), mutant.Species))
}

// vitals is the per-tick state used to derive deaths and level-ups.
type vitals struct {
	actorAlive  bool
	actorLevel  int
	targetAlive bool
}

func observe(a1, a2 *components.Animal) vitals {
	return vitals{
		actorAlive:  !a1.Dead(),
		actorLevel:  a1.Level,
		targetAlive: !a2.Dead(),
	}
}

// recordEffects emits death, kill and level-up events for the tick.
func (w *World) recordEffects(before vitals, a1, a2 *components.Animal) {
	if before.targetAlive && a2.Dead() {
		w.collector.Record(telemetry.NewDeathEvent(w.tick, a2.DisplayName(), a2.Species))
		w.collector.Record(telemetry.NewKillEvent(w.tick, a1.DisplayName(), a1.Species, a2.DisplayName()))
	}
	if before.actorAlive && a1.Dead() {
		w.collector.Record(telemetry.NewDeathEvent(w.tick, a1.DisplayName(), a1.Species))
	}
	for lvl := before.actorLevel; lvl < a1.Level; lvl++ {
		w.collector.Record(telemetry.NewLevelUpEvent(w.tick, a1.DisplayName(), a1.Species))
	}
}

// report emits the population tally and flushes a telemetry window.
func (w *World) report() {
	tally := w.tally()
	w.logPopulation(tally)

	if !w.collector.ShouldFlush(w.tick) {
		return
	}

	pop := telemetry.Population{
		Total:          len(w.order),
		Tally:          tally,
		Lineages:       w.lineages.Count(),
		MutantLineages: w.lineages.MutantCount(),
	}
	for _, e := range w.order {
		a := w.orgMap.Get(e).Animal
		if a.Dead() {
			continue
		}
		pop.Healths = append(pop.Healths, float64(a.Health))
		pop.Levels = append(pop.Levels, float64(a.Level))
	}

	stats := w.collector.Flush(w.tick, pop)
	perf := w.perf.Stats()

	if w.cfg.Telemetry.LogStats {
		stats.LogStats()
		perf.LogStats()
	}
	if err := w.output.WriteTelemetry(stats); err != nil {
		slog.Error("failed to write telemetry", "error", err)
	}
	if err := w.output.WritePopulation(w.tick, tally); err != nil {
		slog.Error("failed to write population", "error", err)
	}
	if err := w.output.WritePerf(perf, w.tick); err != nil {
		slog.Error("failed to write perf", "error", err)
	}
	for _, b := range w.bookmarks.Check(stats) {
		if w.cfg.Telemetry.LogStats {
			b.LogBookmark()
		}
		if err := w.output.WriteBookmark(b); err != nil {
			slog.Error("failed to write bookmark", "error", err)
		}
	}

	if w.onStats != nil {
		w.onStats(stats)
	}
}

// logPopulation writes the tally to the event sink, sorted by species.
func (w *World) logPopulation(tally map[string]int) {
	species := make([]string, 0, len(tally))
	for s := range tally {
		species = append(species, s)
	}
	sort.Strings(species)

	w.log.Logf("=== POPULATION ===")
	for _, s := range species {
		w.log.Logf("%s: %d", s, tally[s])
	}
	w.log.Logf("")
}
