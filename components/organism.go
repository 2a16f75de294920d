package components

// Organism is the ECS component linking a world entity to its animal.
// The animal lives outside ark storage so pointers stay stable as the world grows.
type Organism struct {
	Animal *Animal
	Index  int // Insertion position in the population
}

// Founder tags animals created by the species factory rather than born in a tick.
type Founder struct{}
