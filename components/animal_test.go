package components

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/pthm-cable/menagerie/traits"
)

// recorder collects logged lines.
type recorder struct {
	lines []string
}

func (r *recorder) Logf(format string, args ...any) {
	r.lines = append(r.lines, fmt.Sprintf(format, args...))
}

func (r *recorder) contains(sub string) bool {
	for _, l := range r.lines {
		if strings.Contains(l, sub) {
			return true
		}
	}
	return false
}

func newDog(name string) *Animal {
	return NewAnimal(traits.Dog, "Dog", name, "Bark!", "Kibble", 20)
}

func TestNewAnimalDefaults(t *testing.T) {
	a := newDog("Fido")

	if a.Level != 1 || a.XP != 0 || a.NextLevelXP != 10 {
		t.Errorf("level/xp/next = %d/%d/%d, want 1/0/10", a.Level, a.XP, a.NextLevelXP)
	}
	if a.Health != 20 || a.MaxHealth != 20 {
		t.Errorf("health = %d/%d, want 20/20", a.Health, a.MaxHealth)
	}
	if a.Dead() {
		t.Error("new animal should be alive")
	}
	for _, name := range []string{AbilityMakeSound, AbilityMove, AbilityHeal, AbilityAttack, AbilityTakeDamage, AbilityGainXP, AbilityLevelUp} {
		if _, ok := a.Ability(name); !ok {
			t.Errorf("base ability %q missing", name)
		}
	}
	if a.CanBreed() {
		t.Error("bare animal should not breed")
	}
}

func TestDisplayName(t *testing.T) {
	a := newDog("")
	if a.DisplayName() != "Dog" {
		t.Errorf("unnamed display = %q, want Dog", a.DisplayName())
	}
	a.Name = "Rex"
	if a.DisplayName() != "Rex" {
		t.Errorf("named display = %q, want Rex", a.DisplayName())
	}
}

func TestHealClamps(t *testing.T) {
	tests := []struct {
		name   string
		health int
		amount int
		want   int
	}{
		{"below max", 10, 5, 15},
		{"overshoot", 18, 5, 20},
		{"already full", 20, 3, 20},
		{"negative health floors at zero", -7, 2, 0},
		{"negative amount floors at zero", 3, -10, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := newDog("Fido")
			a.Health = tt.health
			a.Heal(tt.amount, false)
			if a.Health != tt.want {
				t.Errorf("health = %d, want %d", a.Health, tt.want)
			}
			if a.Health < 0 || a.Health > a.MaxHealth {
				t.Errorf("health %d outside [0, %d]", a.Health, a.MaxHealth)
			}
		})
	}
}

func TestAttackScalesWithLevel(t *testing.T) {
	for level := 1; level <= 4; level++ {
		attacker := newDog("A")
		attacker.Level = level
		target := NewAnimal(traits.Cow, "Cow", "B", "Moo!", "Grass", 100)

		dealt := attacker.Attack(target, 3, false)
		if dealt != 3*level {
			t.Errorf("level %d: dealt %d, want %d", level, dealt, 3*level)
		}
		if target.Health != 100-3*level {
			t.Errorf("level %d: target health %d, want %d", level, target.Health, 100-3*level)
		}
	}
}

func TestAttackKillAwardsXP(t *testing.T) {
	attacker := newDog("A")
	target := newDog("B")
	target.Level = 3
	target.Health = 2

	attacker.Attack(target, 2, false)

	if target.Health != 0 {
		t.Fatalf("target health = %d, want 0", target.Health)
	}
	if attacker.XP != 6 {
		t.Errorf("attacker XP = %d, want %d", attacker.XP, 6)
	}
}

func TestAttackWithoutKillAwardsNothing(t *testing.T) {
	attacker := newDog("A")
	target := newDog("B")
	attacker.Attack(target, 1, false)
	if attacker.XP != 0 {
		t.Errorf("attacker XP = %d, want 0", attacker.XP)
	}
}

func TestGainXPScenario(t *testing.T) {
	a := newDog("Fido")
	a.XP = 8

	if !a.GainXP(5, false) {
		t.Fatal("GainXP(5) should be accepted")
	}
	if a.XP != 13 || a.Level != 2 || a.NextLevelXP != 20 {
		t.Errorf("xp/level/next = %d/%d/%d, want 13/2/20", a.XP, a.Level, a.NextLevelXP)
	}
}

func TestGainXPRejectsNonPositive(t *testing.T) {
	a := newDog("Fido")
	for _, amount := range []int{0, -3} {
		if a.GainXP(amount, false) {
			t.Errorf("GainXP(%d) should be rejected", amount)
		}
	}
	if a.XP != 0 || a.Level != 1 {
		t.Errorf("state changed: xp=%d level=%d", a.XP, a.Level)
	}
}

func TestGainXPLevelsOncePerCrossing(t *testing.T) {
	a := newDog("Fido")

	a.GainXP(9, false)
	if a.Level != 1 {
		t.Fatalf("level = %d before crossing", a.Level)
	}
	a.GainXP(1, false) // XP 10 >= 10
	if a.Level != 2 || a.NextLevelXP != 20 {
		t.Fatalf("after first crossing: level %d next %d", a.Level, a.NextLevelXP)
	}
	a.GainXP(5, false) // XP 15 < 20
	if a.Level != 2 {
		t.Fatalf("leveled without crossing: %d", a.Level)
	}
	a.GainXP(30, false) // XP 45 crosses 20 and 40
	if a.Level != 4 || a.NextLevelXP != 80 {
		t.Errorf("after double crossing: level %d next %d, want 4/80", a.Level, a.NextLevelXP)
	}
}

func TestTakeDamageLogsDeath(t *testing.T) {
	rec := &recorder{}
	a := newDog("Fido")
	a.SetLogger(rec)

	a.TakeDamage(5)
	if !rec.contains("took 5 damage") {
		t.Errorf("missing damage line: %v", rec.lines)
	}
	a.TakeDamage(30)
	if !a.Dead() || a.Health != -15 {
		t.Errorf("health = %d, want -15 and dead", a.Health)
	}
	if !rec.contains("has died") {
		t.Errorf("missing death line: %v", rec.lines)
	}
}

func TestForage(t *testing.T) {
	a := newDog("Fido")
	a.Health = 10
	a.Forage(5, 2)
	if a.Health != 15 || a.XP != 0 {
		t.Errorf("hurt forage: health %d xp %d", a.Health, a.XP)
	}

	a.Health = a.MaxHealth
	a.Forage(5, 2)
	if a.Health != 20 || a.XP != 2 {
		t.Errorf("full forage: health %d xp %d", a.Health, a.XP)
	}
}

func TestMoveIsMonotonic(t *testing.T) {
	a := newDog("Fido")
	a.Move(2)
	a.Move(-5)
	a.Move(0)
	if a.Position != 2 {
		t.Errorf("position = %d, want 2", a.Position)
	}
}

func TestUse(t *testing.T) {
	a := newDog("A")
	b := newDog("B")

	if err := a.Use(AbilityAttack, b); err != nil {
		t.Fatalf("attack: %v", err)
	}
	if b.Health != 19 {
		t.Errorf("target health = %d, want 19", b.Health)
	}

	if err := a.Use(AbilityMove, b); err != nil {
		t.Fatalf("move: %v", err)
	}
	if a.Position != 1 {
		t.Errorf("position = %d, want 1", a.Position)
	}

	if err := a.Use("fly", nil); !errors.Is(err, ErrUnknownAbility) {
		t.Errorf("unknown ability error = %v", err)
	}
	if err := a.Use(AbilityAttack, nil); !errors.Is(err, ErrNoTarget) {
		t.Errorf("missing target error = %v", err)
	}

	a.Learn(AbilityBreed, BreedAbility(func(self, mate *Animal) (*Animal, bool) { return nil, false }))
	if err := a.Use(AbilityBreed, b); !errors.Is(err, ErrNotAction) {
		t.Errorf("breed via Use error = %v", err)
	}
}

func TestBreedDispatch(t *testing.T) {
	a := newDog("A")
	b := newDog("B")

	if _, ok := a.Breed(b); ok {
		t.Error("animal without breedWith bred")
	}

	child := newDog("C")
	a.Learn(AbilityBreed, BreedAbility(func(self, mate *Animal) (*Animal, bool) { return child, true }))
	if !a.CanBreed() {
		t.Fatal("CanBreed should be true")
	}
	got, ok := a.Breed(b)
	if !ok || got != child {
		t.Errorf("Breed = %v, %v", got, ok)
	}
	if _, ok := a.Breed(nil); ok {
		t.Error("breeding with nil mate succeeded")
	}
}

func TestGraftAndInherit(t *testing.T) {
	parent := NewAnimal(traits.Mutant, "Docat", "Docat-Alpha", "Roar!", "Seeds", 18)
	hits := 0
	parent.Graft("bite", TargetedAbility(func(self, target *Animal) { hits++ }))
	parent.Graft("bite", TargetedAbility(func(self, target *Animal) { hits += 10 }))
	parent.Graft("regenerate", SelfAbility(func(self *Animal) {}))

	if got := parent.Grafts(); len(got) != 2 || got[0] != "bite" || got[1] != "regenerate" {
		t.Fatalf("grafts = %v", got)
	}

	child := NewAnimal(traits.Mutant, "Docat", "", "Roar!", "Seeds", 18)
	child.InheritGrafts(parent)
	if got := child.Grafts(); len(got) != 2 {
		t.Fatalf("child grafts = %v", got)
	}
	if err := child.Use("bite", parent); err != nil {
		t.Fatal(err)
	}
	if hits != 10 {
		t.Errorf("inherited bite should be the replacing graft, hits=%d", hits)
	}
}

func TestAbilityTableOrder(t *testing.T) {
	tbl := NewAbilityTable()
	tbl.Set("b", SelfAbility(func(*Animal) {}))
	tbl.Set("a", SelfAbility(func(*Animal) {}))
	tbl.Set("b", TargetedAbility(func(*Animal, *Animal) {}))

	names := tbl.Names()
	if len(names) != 2 || names[0] != "b" || names[1] != "a" {
		t.Errorf("names = %v, want [b a]", names)
	}
	ab, _ := tbl.Get("b")
	if !ab.Targeted() {
		t.Error("replaced entry should be targeted")
	}

	if tbl.Has("c") || !tbl.Has("a") {
		t.Errorf("Has(c)=%v Has(a)=%v, want false true", tbl.Has("c"), tbl.Has("a"))
	}
}

func TestMakeSoundLogs(t *testing.T) {
	rec := &recorder{}
	a := newDog("Fido")
	a.SetLogger(rec)
	hp := a.Health
	a.MakeSound()
	if !rec.contains("Fido: Bark!") {
		t.Errorf("lines = %v", rec.lines)
	}
	if a.Health != hp {
		t.Error("MakeSound changed state")
	}

	a.SetLogger(nil)
	if a.Logger() != Discard {
		t.Error("nil logger should select Discard")
	}
}
