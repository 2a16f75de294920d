package telemetry

import (
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pthm-cable/menagerie/config"
)

func init() {
	config.MustInit("")
}

func TestComputeHealthStats(t *testing.T) {
	values := []float64{10, 9, 8, 7, 6, 5, 4, 3, 2, 1}
	mean, std, p10, p50, p90 := ComputeHealthStats(values)

	if math.Abs(mean-5.5) > 0.001 {
		t.Errorf("mean = %v, want 5.5", mean)
	}
	// Population std of 1..10
	if math.Abs(std-2.8723) > 0.001 {
		t.Errorf("std = %v, want ~2.872", std)
	}
	if p10 != 1 || p50 != 5 || p90 != 9 {
		t.Errorf("p10/p50/p90 = %v/%v/%v, want 1/5/9", p10, p50, p90)
	}
	if values[0] != 10 {
		t.Error("input slice was reordered")
	}
}

func TestComputeHealthStatsEmpty(t *testing.T) {
	mean, std, p10, p50, p90 := ComputeHealthStats(nil)
	if mean != 0 || std != 0 || p10 != 0 || p50 != 0 || p90 != 0 {
		t.Error("expected all zeros for empty input")
	}
}

func TestCollectorFlush(t *testing.T) {
	c := NewCollector(5)

	if c.ShouldFlush(4) {
		t.Error("flush before window end")
	}
	if !c.ShouldFlush(5) {
		t.Error("no flush at window end")
	}

	events := []Event{
		NewAbilityEvent(1, "Fido", "Dog", "bite", "Bessie"),
		NewAbilityEvent(2, "Fido", "Dog", "leap", ""),
		NewBreedEvent(3, "Fido", "Dog", "Bella"),
		NewBreedEvent(3, "Fido", "Dog", "Whiskers"),
		NewBirthEvent(3, "Filla", "Dog"),
		NewMutationEvent(4, "Dat-Alpha", "Dat"),
		NewDeathEvent(5, "Bessie", "Cow"),
		NewKillEvent(5, "Fido", "Dog", "Bessie"),
		NewLevelUpEvent(5, "Fido", "Dog"),
	}
	for _, ev := range events {
		c.Record(ev)
	}

	stats := c.Flush(5, Population{
		Total:          6,
		Tally:          map[string]int{"Dog": 3, "Dat": 1},
		Healths:        []float64{20, 10, 15, 12},
		Levels:         []float64{2, 1, 1, 1},
		Lineages:       3,
		MutantLineages: 1,
	})

	if stats.Alive != 4 || stats.Dead != 2 || stats.Species != 2 {
		t.Errorf("alive/dead/species = %d/%d/%d", stats.Alive, stats.Dead, stats.Species)
	}
	if stats.Abilities != 2 || stats.BreedAttempts != 2 || stats.Births != 1 || stats.Mutations != 1 {
		t.Errorf("event counts = %+v", stats)
	}
	if stats.Deaths != 1 || stats.Kills != 1 || stats.LevelUps != 1 {
		t.Errorf("death/kill/level counts = %+v", stats)
	}
	if stats.BreedRate != 0.5 {
		t.Errorf("breed rate = %v, want 0.5", stats.BreedRate)
	}
	if stats.LevelMean != 1.25 {
		t.Errorf("level mean = %v, want 1.25", stats.LevelMean)
	}

	next := c.Flush(10, Population{})
	if next.WindowStartTick != 5 || next.Births != 0 || next.Abilities != 0 {
		t.Errorf("counters not reset: %+v", next)
	}
}

func TestEventTypeString(t *testing.T) {
	if EventLevelUp.String() != "level_up" || EventType(200).String() != "unknown" {
		t.Error("unexpected event names")
	}
}

func TestPopulationRowsSorted(t *testing.T) {
	rows := PopulationRows(5, map[string]int{"Dog": 2, "Cat": 1, "Dat": 1})
	if len(rows) != 3 || rows[0].Species != "Cat" || rows[2].Species != "Dog" {
		t.Errorf("rows = %+v", rows)
	}
}

func TestOutputManager(t *testing.T) {
	dir := t.TempDir()
	om, err := NewOutputManager(dir)
	if err != nil {
		t.Fatal(err)
	}

	if err := om.WriteConfig(config.Cfg()); err != nil {
		t.Fatalf("WriteConfig: %v", err)
	}
	for tick := int32(5); tick <= 10; tick += 5 {
		if err := om.WriteTelemetry(WindowStats{WindowEndTick: tick, Alive: 3}); err != nil {
			t.Fatal(err)
		}
		if err := om.WritePopulation(tick, map[string]int{"Dog": 2, "Cat": 1}); err != nil {
			t.Fatal(err)
		}
	}
	if err := om.WritePerf(PerfStats{}, 10); err != nil {
		t.Fatal(err)
	}
	if err := om.Close(); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(filepath.Join(dir, "telemetry.csv"))
	if err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 3 {
		t.Fatalf("telemetry.csv has %d lines, want header + 2", len(lines))
	}
	if !strings.HasPrefix(lines[0], "window_end,total,alive") {
		t.Errorf("header = %q", lines[0])
	}

	data, err = os.ReadFile(filepath.Join(dir, "population.csv"))
	if err != nil {
		t.Fatal(err)
	}
	lines = strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 5 || lines[0] != "window_end,species,alive" || lines[1] != "5,Cat,1" {
		t.Errorf("population.csv = %q", lines)
	}

	if _, err := os.Stat(filepath.Join(dir, "config.yaml")); err != nil {
		t.Errorf("config.yaml missing: %v", err)
	}
}

func TestOutputManagerDisabled(t *testing.T) {
	om, err := NewOutputManager("")
	if err != nil || om != nil {
		t.Fatalf("disabled output = %v, %v", om, err)
	}
	// Nil manager methods are no-ops
	if err := om.WriteTelemetry(WindowStats{}); err != nil {
		t.Error(err)
	}
	if om.Dir() != "" || om.Close() != nil {
		t.Error("nil manager should be inert")
	}
}
