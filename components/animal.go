// Package components defines the animal entity model and the ECS components the world stores.
package components

import (
	"fmt"

	"github.com/pthm-cable/menagerie/traits"
)

// Logger receives human-readable simulation events.
type Logger interface {
	Logf(format string, args ...any)
}

// discard drops every event.
type discard struct{}

func (discard) Logf(string, ...any) {}

// Discard is a Logger that drops all events.
var Discard Logger = discard{}

// Animal is a simulated creature: shared state plus a per-instance capability table.
type Animal struct {
	Kind    traits.Kind
	Species string
	Name    string // Empty until named
	Sound   string
	Food    string

	Health    int
	MaxHealth int

	Level       int
	XP          int
	NextLevelXP int

	Position int // 1-D displacement, never decreases

	abilities AbilityTable
	grafts    []string // Names grafted by mutation, in graft order
	log       Logger
}

// NewAnimal creates a level-1 animal at full health with the base capability set.
// Species definitions add their own abilities afterwards.
func NewAnimal(kind traits.Kind, species, name, sound, food string, maxHealth int) *Animal {
	a := &Animal{
		Kind:        kind,
		Species:     species,
		Name:        name,
		Sound:       sound,
		Food:        food,
		Health:      maxHealth,
		MaxHealth:   maxHealth,
		Level:       1,
		NextLevelXP: InitialNextLevelXP,
		abilities:   NewAbilityTable(),
		log:         Discard,
	}
	a.installBase()
	return a
}

// installBase seeds the abilities every animal has.
func (a *Animal) installBase() {
	a.abilities.Set(AbilityMakeSound, SelfAbility(func(self *Animal) { self.MakeSound() }))
	a.abilities.Set(AbilityMove, SelfAbility(func(self *Animal) { self.Move(1) }))
	a.abilities.Set(AbilityHeal, SelfAbility(func(self *Animal) { self.Heal(1, true) }))
	a.abilities.Set(AbilityAttack, TargetedAbility(func(self, target *Animal) { self.Attack(target, 1, true) }))
	a.abilities.Set(AbilityTakeDamage, SelfAbility(func(self *Animal) { self.TakeDamage(1) }))
	a.abilities.Set(AbilityGainXP, SelfAbility(func(self *Animal) { self.GainXP(1, true) }))
	a.abilities.Set(AbilityLevelUp, SelfAbility(func(self *Animal) { self.LevelUp() }))
}

// DisplayName returns the name, or the species for unnamed animals.
func (a *Animal) DisplayName() string {
	if a.Name != "" {
		return a.Name
	}
	return a.Species
}

// String implements fmt.Stringer.
func (a *Animal) String() string {
	if a.Name == "" {
		return a.Species
	}
	return fmt.Sprintf("%s (%s)", a.Name, a.Species)
}

// Dead reports whether health has dropped to zero or below.
func (a *Animal) Dead() bool {
	return a.Health <= 0
}

// SetLogger routes this animal's events to l. Nil selects Discard.
func (a *Animal) SetLogger(l Logger) {
	if l == nil {
		l = Discard
	}
	a.log = l
}

// Logger returns the animal's event sink.
func (a *Animal) Logger() Logger {
	return a.log
}

// Learn adds or replaces an ability in this animal's own table.
func (a *Animal) Learn(name string, ab Ability) {
	a.abilities.Set(name, ab)
}

// Graft attaches a mutation-synthesized ability to this instance and records it
// so mutant offspring can inherit it.
func (a *Animal) Graft(name string, ab Ability) {
	if !a.abilities.Has(name) {
		a.grafts = append(a.grafts, name)
	}
	a.abilities.Set(name, ab)
}

// Grafts returns the grafted ability names.
func (a *Animal) Grafts() []string {
	out := make([]string, len(a.grafts))
	copy(out, a.grafts)
	return out
}

// InheritGrafts copies every grafted ability of parent onto a.
func (a *Animal) InheritGrafts(parent *Animal) {
	for _, name := range parent.grafts {
		if ab, ok := parent.abilities.Get(name); ok {
			a.Graft(name, ab)
		}
	}
}

// Ability looks up an entry of the capability table.
func (a *Animal) Ability(name string) (Ability, bool) {
	return a.abilities.Get(name)
}

// AbilityNames returns the capability table's names in insertion order.
func (a *Animal) AbilityNames() []string {
	return a.abilities.Names()
}

// Use invokes a named ability. Target is ignored by self abilities.
func (a *Animal) Use(name string, target *Animal) error {
	ab, ok := a.abilities.Get(name)
	if !ok {
		return fmt.Errorf("%s: %w", name, ErrUnknownAbility)
	}
	switch fn := ab.(type) {
	case SelfAbility:
		fn(a)
	case TargetedAbility:
		if target == nil {
			return fmt.Errorf("%s: %w", name, ErrNoTarget)
		}
		fn(a, target)
	default:
		return fmt.Errorf("%s: %w", name, ErrNotAction)
	}
	return nil
}

// CanBreed reports whether the animal has a breedWith capability.
func (a *Animal) CanBreed() bool {
	ab, ok := a.abilities.Get(AbilityBreed)
	if !ok {
		return false
	}
	_, ok = ab.(BreedAbility)
	return ok
}

// Breed invokes breedWith against mate.
// Returns false if the animal cannot breed or the pair is incompatible.
func (a *Animal) Breed(mate *Animal) (*Animal, bool) {
	ab, ok := a.abilities.Get(AbilityBreed)
	if !ok || mate == nil {
		return nil, false
	}
	fn, ok := ab.(BreedAbility)
	if !ok {
		return nil, false
	}
	return fn(a, mate)
}

// MakeSound emits the animal's sound.
func (a *Animal) MakeSound() {
	a.log.Logf("%s: %s", a.DisplayName(), a.Sound)
}

// Move advances the position counter. Negative distances are ignored.
func (a *Animal) Move(distance int) {
	if distance <= 0 {
		return
	}
	a.Position += distance
	a.log.Logf("%s (%s) moved. New position: %d", a.DisplayName(), a.Species, a.Position)
}

// Forage heals when hurt, otherwise converts the meal into experience.
func (a *Animal) Forage(heal, xp int) {
	if a.Health < a.MaxHealth {
		a.Heal(heal, false)
		a.log.Logf("%s ate %s. Current health: %d/%d", a.DisplayName(), a.Food, a.Health, a.MaxHealth)
		return
	}
	a.log.Logf("%s is already at max health: %d", a.DisplayName(), a.Health)
	a.GainXP(xp, true)
}
