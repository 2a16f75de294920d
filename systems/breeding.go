package systems

import (
	"github.com/pthm-cable/menagerie/components"
)

// OffspringBuilder constructs a fresh level-1 animal of the parents' species.
type OffspringBuilder func(name string) *components.Animal

// BlendName joins the first half of a with the second half of b.
// Halves split at floor(len/2) runes.
func BlendName(a, b string) string {
	ra, rb := []rune(a), []rune(b)
	return string(ra[:len(ra)/2]) + string(rb[len(rb)/2:])
}

// Compatible reports whether two animals belong to the same species.
func Compatible(a, b *components.Animal) bool {
	return a != nil && b != nil && a.Kind == b.Kind && a.Species == b.Species
}

// Breed produces same-species offspring of a and b.
// The child gets a blended name and the floored mean of the parents' health,
// capped at its own max health. Level and XP are never inherited.
// Returns false when the parents are different species.
func Breed(a, b *components.Animal, build OffspringBuilder) (*components.Animal, bool) {
	if !Compatible(a, b) {
		return nil, false
	}

	child := build(BlendName(a.Name, b.Name))
	child.Health = floorDiv(a.Health+b.Health, 2)
	if child.Health > child.MaxHealth {
		child.Health = child.MaxHealth
	}
	child.SetLogger(a.Logger())

	return child, true
}

// floorDiv divides rounding toward negative infinity.
func floorDiv(n, d int) int {
	q := n / d
	if (n%d != 0) && ((n < 0) != (d < 0)) {
		q--
	}
	return q
}
