package game

import (
	"fmt"
	"strings"

	"github.com/pthm-cable/menagerie/components"
	"github.com/pthm-cable/menagerie/traits"
)

// ActionKind classifies what a tick did.
type ActionKind uint8

const (
	ActionNone    ActionKind = iota // No effect
	ActionAbility                   // An ability was invoked
	ActionBreed                     // Same-species offspring was added
	ActionMutate                    // A new species founder was added
)

func (k ActionKind) String() string {
	switch k {
	case ActionAbility:
		return "ability"
	case ActionBreed:
		return "breed"
	case ActionMutate:
		return "mutate"
	default:
		return "none"
	}
}

// Outcome describes one RunOneTick call.
type Outcome struct {
	Tick     int32
	Action   ActionKind
	Skipped  bool // Population too small, or the actor was dead
	Reported bool // The population tally was emitted

	Actor     *components.Animal
	Target    *components.Animal
	Ability   string             // Set for ActionAbility
	Offspring *components.Animal // Set for ActionBreed and ActionMutate
}

// EntityStatus is a listing row for one animal.
type EntityStatus struct {
	Index       int
	Name        string
	Species     string
	Kind        traits.Kind
	Alive       bool
	Founder     bool
	Health      int
	MaxHealth   int
	Level       int
	XP          int
	NextLevelXP int
	Position    int
	Abilities   []string
}

// DisplayName returns the name, or the species for unnamed animals.
func (s EntityStatus) DisplayName() string {
	if s.Name == "" {
		return s.Species
	}
	return s.Name
}

func (s EntityStatus) String() string {
	mark := "✓"
	if !s.Alive {
		mark = "✗"
	}
	return fmt.Sprintf("%d. %s %s (%s) - Lv %d - HP: %d/%d - XP: %d/%d",
		s.Index, mark, s.DisplayName(), s.Species, s.Level, s.Health, s.MaxHealth, s.XP, s.NextLevelXP)
}

// AbilityList joins the ability names for display.
func (s EntityStatus) AbilityList() string {
	return strings.Join(s.Abilities, ", ")
}

// Status summarizes the world.
type Status struct {
	Tick     int32
	Total    int
	Alive    int
	Dead     int
	Species  int // Species with at least one alive member
	Lineages int // Species that have ever appeared
}
