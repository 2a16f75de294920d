package components

import "errors"

// Ability names shared by every animal.
const (
	AbilityMakeSound  = "makeSound"
	AbilityEat        = "eat"
	AbilityMove       = "move"
	AbilityHeal       = "heal"
	AbilityAttack     = "attack"
	AbilityTakeDamage = "takeDamage"
	AbilityGainXP     = "gainXP"
	AbilityLevelUp    = "levelUp"
	AbilityBreed      = "breedWith"
)

// Errors returned by Animal.Use.
var (
	ErrUnknownAbility = errors.New("unknown ability")
	ErrNoTarget       = errors.New("ability requires a target")
	ErrNotAction      = errors.New("ability cannot be used as an action")
)

// Ability is one entry of an animal's capability table.
// The concrete variants are SelfAbility, TargetedAbility and BreedAbility.
type Ability interface {
	Targeted() bool
}

// SelfAbility acts on its owner only.
type SelfAbility func(self *Animal)

// Targeted reports false.
func (SelfAbility) Targeted() bool { return false }

// TargetedAbility acts on another animal.
type TargetedAbility func(self, target *Animal)

// Targeted reports true.
func (TargetedAbility) Targeted() bool { return true }

// BreedAbility produces offspring with a mate.
// It returns false when the pair cannot breed.
type BreedAbility func(self, mate *Animal) (*Animal, bool)

// Targeted reports true; breeding always needs a mate.
func (BreedAbility) Targeted() bool { return true }

// AbilityTable is an insertion-ordered map from ability name to behavior.
// Order is kept so random selection over Names is reproducible under a fixed source.
type AbilityTable struct {
	names  []string
	byName map[string]Ability
}

// NewAbilityTable creates an empty table.
func NewAbilityTable() AbilityTable {
	return AbilityTable{byName: make(map[string]Ability)}
}

// Set adds or replaces an ability. Replacing keeps the original position.
func (t *AbilityTable) Set(name string, ab Ability) {
	if t.byName == nil {
		t.byName = make(map[string]Ability)
	}
	if _, exists := t.byName[name]; !exists {
		t.names = append(t.names, name)
	}
	t.byName[name] = ab
}

// Get looks up an ability by name.
func (t *AbilityTable) Get(name string) (Ability, bool) {
	ab, ok := t.byName[name]
	return ab, ok
}

// Has reports whether the table holds name.
func (t *AbilityTable) Has(name string) bool {
	_, ok := t.byName[name]
	return ok
}

// Names returns ability names in insertion order.
func (t *AbilityTable) Names() []string {
	out := make([]string, len(t.names))
	copy(out, t.names)
	return out
}
