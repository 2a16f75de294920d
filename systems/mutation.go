package systems

import (
	"github.com/pthm-cable/menagerie/components"
	"github.com/pthm-cable/menagerie/config"
	"github.com/pthm-cable/menagerie/traits"
)

// Synthesized ability names.
const (
	GraftBite       = "bite"
	GraftRegenerate = "regenerate"
	GraftEviscerate = "eviscerate"
	GraftSacrifice  = "sacrifice"
)

// graft is one entry of the synthesized ability catalog.
type graft struct {
	name    string
	ability components.Ability
}

// MutationEngine synthesizes new species from two parents of any species.
type MutationEngine struct {
	cfg     config.MutationConfig
	rng     Rand
	catalog []graft
}

// NewMutationEngine creates an engine drawing from rng.
func NewMutationEngine(cfg config.MutationConfig, rng Rand) *MutationEngine {
	e := &MutationEngine{cfg: cfg, rng: rng}
	e.catalog = e.buildCatalog()
	return e
}

// buildCatalog creates the synthesized abilities. Damage is flat, not level-scaled.
func (e *MutationEngine) buildCatalog() []graft {
	bite := e.cfg.BiteDamage
	eviscerate := e.cfg.EviscerateDamage
	regen := e.cfg.RegenerateAmount

	return []graft{
		{GraftBite, components.TargetedAbility(func(self, target *components.Animal) {
			self.Logger().Logf("%s bites %s with mutated fangs!", self.DisplayName(), target.DisplayName())
			target.TakeDamage(bite)
		})},
		{GraftRegenerate, components.SelfAbility(func(self *components.Animal) {
			self.Logger().Logf("%s regenerates tissue", self.DisplayName())
			self.Heal(regen, true)
		})},
		{GraftEviscerate, components.TargetedAbility(func(self, target *components.Animal) {
			self.Logger().Logf("%s eviscerates %s!", self.DisplayName(), target.DisplayName())
			target.TakeDamage(eviscerate)
		})},
		{GraftSacrifice, components.TargetedAbility(func(self, target *components.Animal) {
			self.Logger().Logf("%s sacrifices itself, taking %s with it!", self.DisplayName(), target.DisplayName())
			self.Health = 0
			target.Health = 0
		})},
	}
}

// Catalog returns the names of the synthesized abilities.
func (e *MutationEngine) Catalog() []string {
	names := make([]string, len(e.catalog))
	for i, g := range e.catalog {
		names[i] = g.name
	}
	return names
}

// Mutate synthesizes a founder of a new species from a and b. It always succeeds.
//
// Random draws happen in a fixed order: sound, food, health jitter, graft count,
// then one draw per graft.
func (e *MutationEngine) Mutate(a, b *components.Animal) *components.Animal {
	species := BlendName(a.Species, b.Species)
	sound := e.blendTrait(a.Sound, b.Sound, e.cfg.Sounds)
	food := e.blendTrait(a.Food, b.Food, e.cfg.Foods)

	jitter := int(e.rng.Float64()*float64(e.cfg.HealthJitter)) - e.cfg.JitterOffset
	maxHealth := floorDiv(a.MaxHealth+b.MaxHealth, 2) + jitter
	if maxHealth < 1 {
		maxHealth = 1
	}

	mutant := e.newMutant(species, species+e.cfg.NameSuffix, sound, food, maxHealth)
	mutant.SetLogger(a.Logger())

	count := e.cfg.MinGrafts + e.rng.Intn(e.cfg.MaxGrafts-e.cfg.MinGrafts+1)
	for i := 0; i < count; i++ {
		g := e.catalog[e.rng.Intn(len(e.catalog))]
		mutant.Graft(g.name, g.ability)
	}

	return mutant
}

// blendTrait picks a trait from the first parent, the second parent, or the pool.
func (e *MutationEngine) blendTrait(first, second string, pool []string) string {
	m := e.rng.Float64()
	switch {
	case m < e.cfg.InheritFirst:
		return first
	case m < e.cfg.InheritSecond:
		return second
	default:
		return pool[e.rng.Intn(len(pool))]
	}
}

// newMutant builds a mutant with the base capability set and its own breedWith.
func (e *MutationEngine) newMutant(species, name, sound, food string, maxHealth int) *components.Animal {
	m := components.NewAnimal(traits.Mutant, species, name, sound, food, maxHealth)
	eat := e.cfg.Eat
	m.Learn(components.AbilityEat, components.SelfAbility(func(self *components.Animal) {
		self.Forage(eat.Heal, eat.XP)
	}))
	m.Learn(components.AbilityBreed, components.BreedAbility(e.breedMutant))
	return m
}

// breedMutant is the synthesized breedWith of every mutant species.
// Offspring carry the breeding parent's grafts so the lineage keeps its abilities.
func (e *MutationEngine) breedMutant(self, mate *components.Animal) (*components.Animal, bool) {
	return Breed(self, mate, func(childName string) *components.Animal {
		child := e.newMutant(self.Species, childName, self.Sound, self.Food, self.MaxHealth)
		child.InheritGrafts(self)
		return child
	})
}
