package telemetry

import (
	"log/slog"
	"time"
)

// Phase is one timed stage of an interaction tick.
type Phase int

// Phases of one interaction tick, in execution order.
const (
	PhaseSelect   Phase = iota // Pick the interacting pair and roll the band
	PhaseDispatch              // Run the ability, breeding or mutation
	PhaseReport                // Tally and telemetry flush
	numPhases
)

var phaseNames = [numPhases]string{"select", "dispatch", "report"}

func (p Phase) String() string {
	if p < 0 || p >= numPhases {
		return "unknown"
	}
	return phaseNames[p]
}

// phaseTimes holds per-phase durations of one tick.
type phaseTimes [numPhases]time.Duration

type tickTiming struct {
	total  time.Duration
	phases phaseTimes
}

// PerfCollector keeps tick timings for the last report window.
// Not safe for concurrent use; World calls it under its lock.
type PerfCollector struct {
	now func() time.Time

	ring  []tickTiming
	next  int
	count int

	cur        phaseTimes
	tickStart  time.Time
	phaseStart time.Time
	active     Phase
	inPhase    bool
}

// NewPerfCollector creates a collector averaging over the last window ticks.
func NewPerfCollector(window int) *PerfCollector {
	if window < 1 {
		window = 5
	}
	return &PerfCollector{
		now:  time.Now,
		ring: make([]tickTiming, window),
	}
}

// StartTick begins timing a tick, discarding any unfinished one.
func (p *PerfCollector) StartTick() {
	p.tickStart = p.now()
	p.cur = phaseTimes{}
	p.inPhase = false
}

// StartPhase closes the running phase and opens the next.
func (p *PerfCollector) StartPhase(ph Phase) {
	t := p.now()
	p.closePhase(t)
	p.phaseStart = t
	p.active = ph
	p.inPhase = true
}

func (p *PerfCollector) closePhase(t time.Time) {
	if p.inPhase {
		p.cur[p.active] += t.Sub(p.phaseStart)
	}
}

// EndTick records the finished tick, overwriting the oldest once the window is full.
func (p *PerfCollector) EndTick() {
	t := p.now()
	p.closePhase(t)
	p.inPhase = false

	p.ring[p.next] = tickTiming{total: t.Sub(p.tickStart), phases: p.cur}
	p.next = (p.next + 1) % len(p.ring)
	if p.count < len(p.ring) {
		p.count++
	}
}

// PerfStats summarizes the ticks in the window.
type PerfStats struct {
	Ticks   int
	AvgTick time.Duration
	MinTick time.Duration
	MaxTick time.Duration

	PhaseAvg phaseTimes
	PhasePct [numPhases]float64 // Share of average tick time, 0-100

	TicksPerSecond float64
}

// Stats aggregates the recorded window. Zero value when nothing was recorded.
func (p *PerfCollector) Stats() PerfStats {
	s := PerfStats{Ticks: p.count}
	if p.count == 0 {
		return s
	}

	var total time.Duration
	var sums phaseTimes
	for i, tt := range p.ring[:p.count] {
		total += tt.total
		if i == 0 || tt.total < s.MinTick {
			s.MinTick = tt.total
		}
		s.MaxTick = max(s.MaxTick, tt.total)
		for ph, d := range tt.phases {
			sums[ph] += d
		}
	}

	n := time.Duration(p.count)
	s.AvgTick = total / n
	for ph := range sums {
		s.PhaseAvg[ph] = sums[ph] / n
		if s.AvgTick > 0 {
			s.PhasePct[ph] = 100 * float64(s.PhaseAvg[ph]) / float64(s.AvgTick)
		}
	}
	if s.AvgTick > 0 {
		s.TicksPerSecond = float64(time.Second) / float64(s.AvgTick)
	}
	return s
}

// LogStats emits the summary at info level. Phases under 0.1% are omitted.
func (s PerfStats) LogStats() {
	attrs := []any{
		"ticks", s.Ticks,
		"avg_tick_us", s.AvgTick.Microseconds(),
		"max_tick_us", s.MaxTick.Microseconds(),
		"ticks_per_sec", int(s.TicksPerSecond),
	}
	for ph := range numPhases {
		if pct := s.PhasePct[ph]; pct > 0.1 {
			attrs = append(attrs, ph.String()+"_pct", float64(int(pct*10))/10)
		}
	}
	slog.Info("perf", attrs...)
}

// PerfStatsCSV is one perf.csv row.
type PerfStatsCSV struct {
	WindowEnd   int32   `csv:"window_end"`
	Ticks       int     `csv:"ticks"`
	AvgTickUS   int64   `csv:"avg_tick_us"`
	MinTickUS   int64   `csv:"min_tick_us"`
	MaxTickUS   int64   `csv:"max_tick_us"`
	TicksPerSec float64 `csv:"ticks_per_sec"`
	SelectPct   float64 `csv:"select_pct"`
	DispatchPct float64 `csv:"dispatch_pct"`
	ReportPct   float64 `csv:"report_pct"`
}

// ToCSV flattens the summary for the window ending at windowEnd.
func (s PerfStats) ToCSV(windowEnd int32) PerfStatsCSV {
	return PerfStatsCSV{
		WindowEnd:   windowEnd,
		Ticks:       s.Ticks,
		AvgTickUS:   s.AvgTick.Microseconds(),
		MinTickUS:   s.MinTick.Microseconds(),
		MaxTickUS:   s.MaxTick.Microseconds(),
		TicksPerSec: s.TicksPerSecond,
		SelectPct:   s.PhasePct[PhaseSelect],
		DispatchPct: s.PhasePct[PhaseDispatch],
		ReportPct:   s.PhasePct[PhaseReport],
	}
}
