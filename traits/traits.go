// Package traits defines the species tags animals are classified by.
package traits

import "strings"

// Kind tags the concrete species variant of an animal.
type Kind uint8

const (
	KindUnknown Kind = iota
	Dog
	Cat
	Cow
	Falcon
	Lizard
	Mutant // Runtime-synthesized species
)

// kindNames maps each kind to its factory keyword.
var kindNames = [...]string{
	KindUnknown: "unknown",
	Dog:         "dog",
	Cat:         "cat",
	Cow:         "cow",
	Falcon:      "falcon",
	Lizard:      "lizard",
	Mutant:      "mutant",
}

// String returns the lowercase keyword of the kind.
func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return kindNames[KindUnknown]
}

// Static reports whether the kind has a factory-defined species table.
// Mutants are only ever produced by the mutation engine.
func (k Kind) Static() bool {
	return k >= Dog && k <= Lizard
}

// ParseKind resolves a factory keyword to its kind.
// Matching ignores case and surrounding whitespace. Only static kinds parse.
func ParseKind(keyword string) (Kind, bool) {
	kw := strings.ToLower(strings.TrimSpace(keyword))
	for k := Dog; k <= Lizard; k++ {
		if kindNames[k] == kw {
			return k, true
		}
	}
	return KindUnknown, false
}

// StaticKinds returns all factory-constructible kinds in declaration order.
func StaticKinds() []Kind {
	return []Kind{Dog, Cat, Cow, Falcon, Lizard}
}
