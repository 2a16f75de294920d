// Package shell implements the interactive command line around a World.
package shell

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/pthm-cable/menagerie/config"
	"github.com/pthm-cable/menagerie/game"
	"github.com/pthm-cable/menagerie/systems"
)

// ErrInvalidInterval is returned for a non-numeric or non-positive tick interval.
var ErrInvalidInterval = errors.New("invalid tick interval")

const helpText = `Available commands:
  start [ms]     - Start the simulation (default interval %dms)
  stop           - Stop the simulation
  step [n]       - Run n ticks now (default 1)
  status         - Show simulation status
  pop            - Show the population tally
  list           - List all animals
  species        - List every species that has appeared
  add <type> <name> - Add a new animal (types: %s)
  clear          - Clear the screen
  help           - Show this help
  exit, quit     - Exit the program`

// Shell reads commands and drives the world through a Scheduler.
type Shell struct {
	world    *game.World
	sched    *Scheduler
	log      *LogBuffer
	prompt   string
	interval time.Duration
}

// New creates a shell. Event lines and command output go through log.
func New(world *game.World, cfg config.ShellConfig, log *LogBuffer) *Shell {
	prompt := cfg.Prompt
	if prompt == "" {
		prompt = "> "
	}
	return &Shell{
		world:    world,
		sched:    NewScheduler(world),
		log:      log,
		prompt:   prompt,
		interval: time.Duration(cfg.IntervalMS) * time.Millisecond,
	}
}

// Running reports whether the scheduler is ticking.
func (s *Shell) Running() bool {
	return s.sched.Running()
}

// Run reads commands from in until exit or EOF. The scheduler is stopped on return.
func (s *Shell) Run(in io.Reader) error {
	s.log.Logf("=== ANIMAL SIMULATION ===")
	s.log.Logf(`Type "help" for available commands`)
	s.showPrompt()

	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		if s.Execute(scanner.Text()) {
			return nil
		}
		if !s.sched.Running() {
			s.showPrompt()
		}
	}

	s.shutdown()
	return scanner.Err()
}

func (s *Shell) showPrompt() {
	fmt.Fprint(s.log, s.prompt)
}

func (s *Shell) shutdown() {
	_ = s.sched.Stop()
	s.log.Logf("\nGoodbye!")
}

// Execute runs one command line and reports whether the shell should exit.
func (s *Shell) Execute(line string) bool {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return false
	}
	cmd, args := strings.ToLower(fields[0]), fields[1:]

	switch cmd {
	case "start":
		s.start(args)
	case "stop":
		s.stop()
	case "step":
		s.step(args)
	case "status":
		s.status()
	case "pop", "population":
		s.world.LogPopulation()
	case "list":
		s.list()
	case "species":
		s.species()
	case "add":
		s.add(args)
	case "clear":
		fmt.Fprint(s.log, "\033[H\033[2J")
	case "help":
		s.log.Logf(helpText, s.interval.Milliseconds(), strings.Join(s.world.Species(), ", "))
	case "exit", "quit":
		s.shutdown()
		return true
	default:
		s.log.Logf("Unknown command: %s. Type 'help' for available commands", cmd)
	}
	return false
}

// ParseInterval parses a millisecond interval argument.
func ParseInterval(arg string) (time.Duration, error) {
	ms, err := strconv.Atoi(arg)
	if err != nil || ms <= 0 {
		return 0, ErrInvalidInterval
	}
	return time.Duration(ms) * time.Millisecond, nil
}

func (s *Shell) start(args []string) {
	if s.sched.Running() {
		s.log.Logf("Simulation is already running!")
		return
	}

	interval := s.interval
	if len(args) > 0 {
		d, err := ParseInterval(args[0])
		if err != nil {
			s.log.Logf("Invalid speed. Usage: start [milliseconds]")
			return
		}
		interval = d
	}

	if err := s.sched.Start(interval); err != nil {
		s.log.Logf("%v", err)
		return
	}
	s.log.Logf("Starting simulation... (speed: %dms)", interval.Milliseconds())
}

func (s *Shell) stop() {
	if err := s.sched.Stop(); errors.Is(err, ErrNotRunning) {
		s.log.Logf("Simulation is not running.")
		return
	}
	s.log.Logf("Simulation stopped.")
}

func (s *Shell) step(args []string) {
	n := 1
	if len(args) > 0 {
		v, err := strconv.Atoi(args[0])
		if err != nil || v <= 0 {
			s.log.Logf("Invalid count. Usage: step [n]")
			return
		}
		n = v
	}
	for range n {
		s.world.RunOneTick()
	}
}

func (s *Shell) status() {
	st := s.world.Status()
	state := "STOPPED"
	if s.sched.Running() {
		state = "RUNNING"
	}
	s.log.Logf("Simulation: %s", state)
	s.log.Logf("Tick: %d", st.Tick)
	s.log.Logf("Total animals: %d", st.Total)
	s.log.Logf("Alive animals: %d", st.Alive)
	s.log.Logf("Dead animals: %d", st.Dead)
	s.log.Logf("Species alive: %d (%d ever seen)", st.Species, st.Lineages)
}

func (s *Shell) list() {
	s.log.Logf("\n=== ANIMALS ===")
	for _, e := range s.world.Entities() {
		s.log.Logf("%s", e)
		s.log.Logf("   Abilities: %s", e.AbilityList())
	}
	s.log.Logf("")
}

func (s *Shell) species() {
	s.log.Logf("\n=== SPECIES ===")
	for _, l := range s.world.Lineages() {
		line := fmt.Sprintf("#%d %s (%s) - members: %d, births: %d", l.ID, l.Species, l.Kind, l.Members, l.Births)
		if l.Mutant() {
			line += fmt.Sprintf(" - from %s x %s at tick %d", l.Parents[0], l.Parents[1], l.FoundedTick)
		}
		s.log.Logf("%s", line)
	}
	s.log.Logf("")
}

func (s *Shell) add(args []string) {
	if len(args) < 2 {
		s.log.Logf("Usage: add <type> <name>")
		s.log.Logf("Example: add dog Fido")
		return
	}
	kind, name := strings.ToLower(args[0]), strings.Join(args[1:], " ")

	s.log.Logf("Adding %s named %s...", kind, name)
	if _, err := s.world.Spawn(kind, name); err != nil {
		var unknown *systems.UnknownSpeciesError
		if errors.As(err, &unknown) {
			s.log.Logf("Unknown animal type: %s. Available types: %s", unknown.Keyword, strings.Join(s.world.Species(), ", "))
			return
		}
		s.log.Logf("Failed to add animal: %v", err)
	}
}
