// Package telemetry provides population health tracking per report window.
package telemetry

// EventType identifies telemetry events.
type EventType uint8

const (
	EventAbility EventType = iota
	EventBreed
	EventBirth
	EventMutation
	EventDeath
	EventKill
	EventLevelUp
)

var eventNames = [...]string{
	EventAbility:  "ability",
	EventBreed:    "breed",
	EventBirth:    "birth",
	EventMutation: "mutation",
	EventDeath:    "death",
	EventKill:     "kill",
	EventLevelUp:  "level_up",
}

func (t EventType) String() string {
	if int(t) < len(eventNames) {
		return eventNames[t]
	}
	return "unknown"
}

// Event represents a single telemetry event.
type Event struct {
	Type    EventType
	Tick    int32
	Actor   string
	Species string

	// Optional fields depending on event type
	Target  string // for ability/kill events
	Ability string // for ability events
}

// NewAbilityEvent creates an ability use event.
func NewAbilityEvent(tick int32, actor, species, ability, target string) Event {
	return Event{
		Type:    EventAbility,
		Tick:    tick,
		Actor:   actor,
		Species: species,
		Ability: ability,
		Target:  target,
	}
}

// NewBreedEvent creates a breeding attempt event.
func NewBreedEvent(tick int32, actor, species, mate string) Event {
	return Event{
		Type:    EventBreed,
		Tick:    tick,
		Actor:   actor,
		Species: species,
		Target:  mate,
	}
}

// NewBirthEvent creates a birth event.
func NewBirthEvent(tick int32, child, species string) Event {
	return Event{
		Type:    EventBirth,
		Tick:    tick,
		Actor:   child,
		Species: species,
	}
}

// NewMutationEvent creates an event for a new species founder.
func NewMutationEvent(tick int32, founder, species string) Event {
	return Event{
		Type:    EventMutation,
		Tick:    tick,
		Actor:   founder,
		Species: species,
	}
}

// NewDeathEvent creates a death event.
func NewDeathEvent(tick int32, victim, species string) Event {
	return Event{
		Type:    EventDeath,
		Tick:    tick,
		Actor:   victim,
		Species: species,
	}
}

// NewKillEvent creates a kill event.
func NewKillEvent(tick int32, killer, species, victim string) Event {
	return Event{
		Type:    EventKill,
		Tick:    tick,
		Actor:   killer,
		Species: species,
		Target:  victim,
	}
}

// NewLevelUpEvent creates a level-up event.
func NewLevelUpEvent(tick int32, actor, species string) Event {
	return Event{
		Type:    EventLevelUp,
		Tick:    tick,
		Actor:   actor,
		Species: species,
	}
}
