package systems

import (
	"github.com/pthm-cable/menagerie/components"
	"github.com/pthm-cable/menagerie/config"
)

// CapabilityRegistry answers which abilities an animal can use.
// The exclusion and target sets come from config.DerivedConfig and are read-only.
type CapabilityRegistry struct {
	excluded map[string]bool
	targeted map[string]bool
}

// NewCapabilityRegistry creates a registry from the derived interaction sets.
// Nil sets behave as empty.
func NewCapabilityRegistry(d config.DerivedConfig) *CapabilityRegistry {
	return &CapabilityRegistry{
		excluded: d.ExcludedSet,
		targeted: d.TargetedSet,
	}
}

// Names returns every invocable ability of a, static and grafted.
// The capability table keys by name, so the result has no duplicates.
func (r *CapabilityRegistry) Names(a *components.Animal) []string {
	return a.AbilityNames()
}

// Actions returns the abilities eligible for random selection, in table order.
func (r *CapabilityRegistry) Actions(a *components.Animal) []string {
	var actions []string
	for _, name := range r.Names(a) {
		if r.excluded[name] {
			continue
		}
		actions = append(actions, name)
	}
	return actions
}

// RequiresTarget reports whether name is invoked against a second animal.
// The configured target set and the ability's own tag both count.
func (r *CapabilityRegistry) RequiresTarget(a *components.Animal, name string) bool {
	if r.targeted[name] {
		return true
	}
	ab, ok := a.Ability(name)
	return ok && ab.Targeted()
}

// CanBreed reports whether a exposes a breedWith capability.
func (r *CapabilityRegistry) CanBreed(a *components.Animal) bool {
	return a.CanBreed()
}
