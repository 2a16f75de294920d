package shell

import (
	"bytes"
	"errors"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/pthm-cable/menagerie/config"
	"github.com/pthm-cable/menagerie/game"
	"github.com/pthm-cable/menagerie/systems"
)

func init() {
	config.MustInit("")
}

func newTestShell(t *testing.T) (*Shell, *LogBuffer, *game.World) {
	t.Helper()
	cfg := config.Cfg()
	buf := NewLogBuffer(cfg.Shell.LogBufferSize, nil)
	w, err := game.NewWorld(cfg, game.Options{Logger: buf, Rand: systems.NewRand()})
	if err != nil {
		t.Fatalf("NewWorld: %v", err)
	}
	return New(w, cfg.Shell, buf), buf, w
}

func contains(lines []string, want string) bool {
	for _, l := range lines {
		if strings.Contains(l, want) {
			return true
		}
	}
	return false
}

func TestLogBuffer_KeepsLastLines(t *testing.T) {
	var out bytes.Buffer
	b := NewLogBuffer(3, &out)
	for i := range 5 {
		b.Logf("line %d", i)
	}

	got := b.Lines()
	want := []string{"line 2", "line 3", "line 4"}
	if len(got) != len(want) {
		t.Fatalf("Lines() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Lines()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
	if !strings.Contains(out.String(), "line 0\n") {
		t.Errorf("echo missing early line: %q", out.String())
	}
}

func TestLogBuffer_Partial(t *testing.T) {
	b := NewLogBuffer(10, nil)
	b.Logf("a")
	b.Logf("b")
	got := b.Lines()
	if len(got) != 2 || got[0] != "a" || got[1] != "b" {
		t.Errorf("Lines() = %v, want [a b]", got)
	}
}

func TestParseInterval(t *testing.T) {
	tests := []struct {
		arg     string
		want    time.Duration
		wantErr bool
	}{
		{"500", 500 * time.Millisecond, false},
		{"1", time.Millisecond, false},
		{"abc", 0, true},
		{"0", 0, true},
		{"-20", 0, true},
		{"", 0, true},
	}
	for _, tt := range tests {
		got, err := ParseInterval(tt.arg)
		if tt.wantErr {
			if !errors.Is(err, ErrInvalidInterval) {
				t.Errorf("ParseInterval(%q) error = %v, want ErrInvalidInterval", tt.arg, err)
			}
			continue
		}
		if err != nil || got != tt.want {
			t.Errorf("ParseInterval(%q) = %v, %v; want %v", tt.arg, got, err, tt.want)
		}
	}
}

type countingTicker struct {
	n atomic.Int32
}

func (c *countingTicker) RunOneTick() game.Outcome {
	c.n.Add(1)
	return game.Outcome{}
}

func TestScheduler_StartStop(t *testing.T) {
	target := &countingTicker{}
	s := NewScheduler(target)

	if err := s.Start(0); !errors.Is(err, ErrInvalidInterval) {
		t.Fatalf("Start(0) = %v, want ErrInvalidInterval", err)
	}
	if err := s.Stop(); !errors.Is(err, ErrNotRunning) {
		t.Fatalf("Stop() before start = %v, want ErrNotRunning", err)
	}

	if err := s.Start(time.Millisecond); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if err := s.Start(time.Millisecond); !errors.Is(err, ErrAlreadyRunning) {
		t.Errorf("second Start = %v, want ErrAlreadyRunning", err)
	}
	if !s.Running() {
		t.Error("Running() = false after Start")
	}
	if s.Interval() != time.Millisecond {
		t.Errorf("Interval() = %v, want 1ms", s.Interval())
	}

	deadline := time.Now().Add(2 * time.Second)
	for target.n.Load() < 3 && time.Now().Before(deadline) {
		time.Sleep(time.Millisecond)
	}
	if target.n.Load() < 3 {
		t.Fatalf("ticks = %d after 2s, want >= 3", target.n.Load())
	}

	if err := s.Stop(); err != nil {
		t.Fatalf("Stop: %v", err)
	}
	after := target.n.Load()
	time.Sleep(10 * time.Millisecond)
	if got := target.n.Load(); got != after {
		t.Errorf("ticks advanced after Stop: %d -> %d", after, got)
	}
	if s.Running() {
		t.Error("Running() = true after Stop")
	}
}

func TestExecute_UnknownCommand(t *testing.T) {
	sh, buf, _ := newTestShell(t)
	sh.Execute("Dance now")
	if !contains(buf.Lines(), "Unknown command: dance. Type 'help' for available commands") {
		t.Errorf("lines = %v", buf.Lines())
	}
}

func TestExecute_StartInvalidSpeed(t *testing.T) {
	sh, buf, _ := newTestShell(t)
	sh.Execute("start abc")
	if sh.Running() {
		t.Fatal("scheduler running after invalid start")
	}
	if !contains(buf.Lines(), "Invalid speed. Usage: start [milliseconds]") {
		t.Errorf("lines = %v", buf.Lines())
	}
}

func TestExecute_StartStop(t *testing.T) {
	sh, buf, _ := newTestShell(t)

	sh.Execute("stop")
	if !contains(buf.Lines(), "Simulation is not running.") {
		t.Errorf("missing not-running message: %v", buf.Lines())
	}

	sh.Execute("start 50")
	if !sh.Running() {
		t.Fatal("scheduler not running after start")
	}
	if !contains(buf.Lines(), "Starting simulation... (speed: 50ms)") {
		t.Errorf("missing start message: %v", buf.Lines())
	}

	sh.Execute("start")
	if !contains(buf.Lines(), "Simulation is already running!") {
		t.Errorf("missing already-running message: %v", buf.Lines())
	}

	sh.Execute("status")
	if !contains(buf.Lines(), "Simulation: RUNNING") {
		t.Errorf("missing RUNNING status: %v", buf.Lines())
	}

	sh.Execute("stop")
	if sh.Running() {
		t.Error("scheduler running after stop")
	}
}

func TestExecute_AddAndList(t *testing.T) {
	sh, buf, w := newTestShell(t)

	sh.Execute("add")
	if !contains(buf.Lines(), "Usage: add <type> <name>") {
		t.Errorf("missing usage: %v", buf.Lines())
	}

	sh.Execute("add zebra Zed")
	if w.Size() != 0 {
		t.Fatalf("Size() = %d after unknown add, want 0", w.Size())
	}
	if !contains(buf.Lines(), "Unknown animal type: zebra") {
		t.Errorf("missing unknown type message: %v", buf.Lines())
	}

	sh.Execute("ADD Dog Fido")
	if w.Size() != 1 {
		t.Fatalf("Size() = %d, want 1", w.Size())
	}
	if !contains(buf.Lines(), "Adding dog named Fido...") {
		t.Errorf("missing adding message: %v", buf.Lines())
	}

	sh.Execute("list")
	lines := buf.Lines()
	if !contains(lines, "=== ANIMALS ===") || !contains(lines, "0. ✓ Fido (Dog)") {
		t.Errorf("list output = %v", lines)
	}
	if !contains(lines, "   Abilities: ") {
		t.Errorf("list missing abilities line: %v", lines)
	}
}

func TestExecute_StepAndStatus(t *testing.T) {
	sh, buf, w := newTestShell(t)
	sh.Execute("add dog Fido")
	sh.Execute("add cat Whiskers")

	sh.Execute("step 3")
	if w.Tick() != 3 {
		t.Errorf("Tick() = %d after step 3, want 3", w.Tick())
	}

	sh.Execute("step x")
	if !contains(buf.Lines(), "Invalid count. Usage: step [n]") {
		t.Errorf("missing step usage: %v", buf.Lines())
	}

	sh.Execute("status")
	lines := buf.Lines()
	for _, want := range []string{"Simulation: STOPPED", "Tick: 3", "Total animals:", "Alive animals:", "Dead animals:"} {
		if !contains(lines, want) {
			t.Errorf("status missing %q: %v", want, lines)
		}
	}
}

func TestExecute_PopAndSpecies(t *testing.T) {
	sh, buf, _ := newTestShell(t)
	sh.Execute("add dog Fido")
	sh.Execute("add dog Rex")

	sh.Execute("pop")
	if !contains(buf.Lines(), "Dog: 2") {
		t.Errorf("pop output = %v", buf.Lines())
	}

	sh.Execute("species")
	if !contains(buf.Lines(), "#1 Dog (dog) - members: 2, births: 0") {
		t.Errorf("species output = %v", buf.Lines())
	}
}

func TestRun_ExitsOnQuit(t *testing.T) {
	sh, buf, w := newTestShell(t)

	err := sh.Run(strings.NewReader("add dog Rex\n\nquit\nadd dog Never\n"))
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if w.Size() != 1 {
		t.Errorf("Size() = %d, want 1", w.Size())
	}
	lines := buf.Lines()
	if !contains(lines, "=== ANIMAL SIMULATION ===") || !contains(lines, "Goodbye!") {
		t.Errorf("lines = %v", lines)
	}
}

func TestRun_EOFStopsScheduler(t *testing.T) {
	sh, _, _ := newTestShell(t)
	if err := sh.Run(strings.NewReader("start 10\n")); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if sh.Running() {
		t.Error("scheduler still running after EOF")
	}
}
