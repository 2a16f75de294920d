package components

// Leveling and combat contracts.
const (
	InitialNextLevelXP = 10 // XP needed for the first level-up
	LevelXPMultiplier  = 2  // Threshold growth per level-up
	KillXPPerLevel     = 2  // Attacker XP per level of a killed target
)

// Heal raises health by amount, clamped to [0, MaxHealth].
func (a *Animal) Heal(amount int, report bool) {
	a.Health += amount
	if a.Health > a.MaxHealth {
		a.Health = a.MaxHealth
	}
	if a.Health < 0 {
		a.Health = 0
	}
	if report {
		a.log.Logf("%s healed. Current health: %d/%d", a.DisplayName(), a.Health, a.MaxHealth)
	}
}

// TakeDamage subtracts amount from health. Health below 1 means death.
func (a *Animal) TakeDamage(amount int) {
	a.Health -= amount
	if a.Health < 1 {
		a.log.Logf("Damage taken, health reduced to zero. %s has died", a.DisplayName())
		return
	}
	a.log.Logf("%s took %d damage. Current health: %d", a.DisplayName(), amount, a.Health)
}

// Attack deals base*Level damage to target and returns the damage dealt.
// Killing the target awards target.Level*KillXPPerLevel experience.
func (a *Animal) Attack(target *Animal, base int, report bool) int {
	if target == nil {
		return 0
	}
	damage := base * a.Level
	if report {
		a.log.Logf("%s attacked %s for %d damage", a.DisplayName(), target.DisplayName(), damage)
	}
	target.TakeDamage(damage)
	if target.Health <= 0 {
		a.GainXP(target.Level*KillXPPerLevel, report)
	}
	return damage
}

// GainXP adds experience, leveling up once per threshold crossed.
// Non-positive amounts are ignored and reported as false.
func (a *Animal) GainXP(amount int, report bool) bool {
	if amount <= 0 {
		return false
	}
	a.XP += amount
	if report {
		a.log.Logf("%s gained %d XP (%d/%d)", a.DisplayName(), amount, a.XP, a.NextLevelXP)
	}
	for a.NextLevelXP > 0 && a.XP >= a.NextLevelXP {
		a.LevelUp()
	}
	return true
}

// LevelUp increments the level and doubles the next threshold.
func (a *Animal) LevelUp() {
	a.Level++
	a.NextLevelXP *= LevelXPMultiplier
	a.log.Logf("%s leveled up! Now level %d (next at %d XP)", a.DisplayName(), a.Level, a.NextLevelXP)
}
