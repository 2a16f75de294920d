package systems

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/pthm-cable/menagerie/components"
	"github.com/pthm-cable/menagerie/config"
	"github.com/pthm-cable/menagerie/traits"
)

// Ability kinds accepted in species definitions.
const (
	KindForage = "forage" // Heal when hurt, else gain XP
	KindStrike = "strike" // Level-scaled attack
	KindMove   = "move"   // Advance the position counter
	KindDevour = "devour" // Level-scaled attack, then heal
)

// UnknownSpeciesError is returned when a factory keyword names no species.
type UnknownSpeciesError struct {
	Keyword string
}

func (e *UnknownSpeciesError) Error() string {
	return fmt.Sprintf("unknown species %q", e.Keyword)
}

// speciesDef is a resolved static species table.
type speciesDef struct {
	kind      traits.Kind
	keyword   string
	name      string
	sound     string
	food      string
	maxHealth int
	eat       config.ForageConfig
	abilities []config.AbilityConfig
}

// SpeciesBook is the factory for static species.
type SpeciesBook struct {
	defs     map[string]*speciesDef
	keywords []string
}

// NewSpeciesBook resolves the configured species.
// Every keyword must name a static traits.Kind and every ability kind must be known.
func NewSpeciesBook(species []config.SpeciesConfig) (*SpeciesBook, error) {
	book := &SpeciesBook{defs: make(map[string]*speciesDef, len(species))}
	title := cases.Title(language.English)

	for _, sp := range species {
		kw := strings.ToLower(strings.TrimSpace(sp.Keyword))
		kind, ok := traits.ParseKind(kw)
		if !ok {
			return nil, fmt.Errorf("species %q: keyword does not name a known kind", sp.Keyword)
		}
		if _, dup := book.defs[kw]; dup {
			return nil, fmt.Errorf("species %q defined twice", kw)
		}
		for _, ab := range sp.Abilities {
			if err := validateAbility(ab); err != nil {
				return nil, fmt.Errorf("species %q: %w", kw, err)
			}
		}

		name := sp.Name
		if name == "" {
			name = title.String(kw)
		}
		book.defs[kw] = &speciesDef{
			kind:      kind,
			keyword:   kw,
			name:      name,
			sound:     sp.Sound,
			food:      sp.Food,
			maxHealth: sp.MaxHealth,
			eat:       sp.Eat,
			abilities: sp.Abilities,
		}
		book.keywords = append(book.keywords, kw)
	}
	sort.Strings(book.keywords)

	return book, nil
}

// validateAbility checks an ability definition.
func validateAbility(ab config.AbilityConfig) error {
	if ab.Name == "" {
		return errors.New("ability without name")
	}
	switch ab.Kind {
	case KindForage, KindStrike, KindMove, KindDevour:
		return nil
	default:
		return fmt.Errorf("ability %q: unknown kind %q", ab.Name, ab.Kind)
	}
}

// New creates a named animal of the species identified by keyword.
func (b *SpeciesBook) New(keyword, name string) (*components.Animal, error) {
	kw := strings.ToLower(strings.TrimSpace(keyword))
	def, ok := b.defs[kw]
	if !ok {
		return nil, &UnknownSpeciesError{Keyword: keyword}
	}
	return b.build(def, name), nil
}

// Keywords returns the known factory keywords, sorted.
func (b *SpeciesBook) Keywords() []string {
	out := make([]string, len(b.keywords))
	copy(out, b.keywords)
	return out
}

// Species returns the display species name for keyword.
func (b *SpeciesBook) Species(keyword string) (string, bool) {
	def, ok := b.defs[strings.ToLower(strings.TrimSpace(keyword))]
	if !ok {
		return "", false
	}
	return def.name, true
}

// build constructs an animal from its species table.
func (b *SpeciesBook) build(def *speciesDef, name string) *components.Animal {
	a := components.NewAnimal(def.kind, def.name, name, def.sound, def.food, def.maxHealth)

	eat := def.eat
	a.Learn(components.AbilityEat, components.SelfAbility(func(self *components.Animal) {
		self.Forage(eat.Heal, eat.XP)
	}))
	for _, ab := range def.abilities {
		a.Learn(ab.Name, speciesAbility(ab))
	}

	a.Learn(components.AbilityBreed, components.BreedAbility(func(self, mate *components.Animal) (*components.Animal, bool) {
		return Breed(self, mate, func(childName string) *components.Animal {
			return b.build(def, childName)
		})
	}))

	return a
}

// speciesAbility turns an ability definition into a behavior.
func speciesAbility(ab config.AbilityConfig) components.Ability {
	name := ab.Name
	switch ab.Kind {
	case KindForage:
		return components.SelfAbility(func(self *components.Animal) {
			self.Forage(ab.Heal, ab.XP)
		})
	case KindMove:
		return components.SelfAbility(func(self *components.Animal) {
			self.Move(ab.Distance)
		})
	case KindDevour:
		return components.TargetedAbility(func(self, target *components.Animal) {
			self.Logger().Logf("%s used %s on %s", self.DisplayName(), name, target.DisplayName())
			self.Attack(target, ab.Damage, false)
			self.Heal(ab.Heal, true)
		})
	default: // KindStrike
		return components.TargetedAbility(func(self, target *components.Animal) {
			self.Logger().Logf("%s used %s on %s", self.DisplayName(), name, target.DisplayName())
			self.Attack(target, ab.Damage, false)
		})
	}
}
