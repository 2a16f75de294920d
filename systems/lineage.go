package systems

import (
	"sort"

	"github.com/pthm-cable/menagerie/traits"
)

// Lineage records one species present in the world.
type Lineage struct {
	ID          int
	Species     string
	Kind        traits.Kind
	Parents     [2]string // Parent species of a mutant lineage, empty for founders
	FoundedTick int32
	Members     int // Animals added to the world, founders included
	Births      int // Offspring produced by breeding
}

// Mutant reports whether the lineage was founded by mutation.
func (l *Lineage) Mutant() bool {
	return l.Kind == traits.Mutant
}

// lineageKey separates a mutant species from a static one of the same name.
// BlendName(x, x) == x, so Dog x Dog mutants are still named "Dog".
type lineageKey struct {
	kind    traits.Kind
	species string
}

// LineageLedger tracks every species that has appeared in the world.
type LineageLedger struct {
	lineages map[lineageKey]*Lineage
	nextID   int
}

// NewLineageLedger creates an empty ledger.
func NewLineageLedger() *LineageLedger {
	return &LineageLedger{
		lineages: make(map[lineageKey]*Lineage),
		nextID:   1,
	}
}

// Found registers the (kind, species) lineage if it is new and counts one member.
// Returns the lineage and whether it was created by this call.
func (l *LineageLedger) Found(species string, kind traits.Kind, parents [2]string, tick int32) (*Lineage, bool) {
	key := lineageKey{kind, species}
	if lin, ok := l.lineages[key]; ok {
		lin.Members++
		return lin, false
	}
	lin := &Lineage{
		ID:          l.nextID,
		Species:     species,
		Kind:        kind,
		Parents:     parents,
		FoundedTick: tick,
		Members:     1,
	}
	l.nextID++
	l.lineages[key] = lin
	return lin, true
}

// RecordBirth counts an offspring of the (kind, species) lineage.
func (l *LineageLedger) RecordBirth(kind traits.Kind, species string) {
	if lin, ok := l.lineages[lineageKey{kind, species}]; ok {
		lin.Births++
		lin.Members++
	}
}

// Get returns the (kind, species) lineage.
func (l *LineageLedger) Get(kind traits.Kind, species string) (*Lineage, bool) {
	lin, ok := l.lineages[lineageKey{kind, species}]
	return lin, ok
}

// All returns copies of every lineage ordered by ID.
func (l *LineageLedger) All() []Lineage {
	out := make([]Lineage, 0, len(l.lineages))
	for _, lin := range l.lineages {
		out = append(out, *lin)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].ID < out[j].ID
	})
	return out
}

// Count returns the number of lineages.
func (l *LineageLedger) Count() int {
	return len(l.lineages)
}

// MutantCount returns the number of lineages founded by mutation.
func (l *LineageLedger) MutantCount() int {
	n := 0
	for _, lin := range l.lineages {
		if lin.Mutant() {
			n++
		}
	}
	return n
}
