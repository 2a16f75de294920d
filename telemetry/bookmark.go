package telemetry

import (
	"fmt"
	"log/slog"

	"gonum.org/v1/gonum/stat"
)

// BookmarkType identifies the type of bookmark.
type BookmarkType string

const (
	BookmarkNewSpecies      BookmarkType = "new_species"
	BookmarkExtinction      BookmarkType = "extinction"
	BookmarkBabyBoom        BookmarkType = "baby_boom"
	BookmarkPopulationCrash BookmarkType = "population_crash"
	BookmarkStableEcosystem BookmarkType = "stable_ecosystem"
)

// Bookmark represents an automatically triggered bookmark.
type Bookmark struct {
	Type        BookmarkType `csv:"type"`
	Tick        int32        `csv:"tick"`
	Description string       `csv:"description"`
}

// LogBookmark logs the bookmark using slog.
func (b Bookmark) LogBookmark() {
	slog.Info("bookmark",
		"type", string(b.Type),
		"tick", b.Tick,
		"description", b.Description,
	)
}

// BookmarkDetector detects interesting moments in the simulation.
type BookmarkDetector struct {
	// Rolling history (circular buffer)
	history     []WindowStats
	historySize int
	historyIdx  int
	historyFull bool

	// State tracking
	lastSpecies        int // alive species at the previous window
	recentAlivePeak    int // peak alive count since the last crash
	stableWindowsCount int // consecutive windows with stable populations
}

// NewBookmarkDetector creates a detector with the given history size.
func NewBookmarkDetector(historySize int) *BookmarkDetector {
	if historySize < 5 {
		historySize = 5 // minimum for stable ecosystem detection
	}
	return &BookmarkDetector{
		history:     make([]WindowStats, historySize),
		historySize: historySize,
	}
}

// Check analyzes the latest stats and returns any triggered bookmarks.
func (bd *BookmarkDetector) Check(stats WindowStats) []Bookmark {
	var bookmarks []Bookmark

	if stats.Mutations > 0 {
		bookmarks = append(bookmarks, Bookmark{
			Type:        BookmarkNewSpecies,
			Tick:        stats.WindowEndTick,
			Description: fmt.Sprintf("%d new species founded (%d lineages)", stats.Mutations, stats.Lineages),
		})
	}

	if bd.historyFull || bd.historyIdx > 0 {
		if b := bd.checkExtinction(stats); b != nil {
			bookmarks = append(bookmarks, *b)
		}
		if b := bd.checkBabyBoom(stats); b != nil {
			bookmarks = append(bookmarks, *b)
		}
		if b := bd.checkPopulationCrash(stats); b != nil {
			bookmarks = append(bookmarks, *b)
		}
		if b := bd.checkStableEcosystem(stats); b != nil {
			bookmarks = append(bookmarks, *b)
		}
	}

	bd.addToHistory(stats)

	bd.lastSpecies = stats.Species
	if stats.Alive > bd.recentAlivePeak {
		bd.recentAlivePeak = stats.Alive
	}

	return bookmarks
}

func (bd *BookmarkDetector) addToHistory(stats WindowStats) {
	bd.history[bd.historyIdx] = stats
	bd.historyIdx = (bd.historyIdx + 1) % bd.historySize
	if bd.historyIdx == 0 {
		bd.historyFull = true
	}
}

func (bd *BookmarkDetector) getHistory() []WindowStats {
	if bd.historyFull {
		return bd.history
	}
	return bd.history[:bd.historyIdx]
}

func (bd *BookmarkDetector) checkExtinction(stats WindowStats) *Bookmark {
	if stats.Species >= bd.lastSpecies {
		return nil
	}
	return &Bookmark{
		Type:        BookmarkExtinction,
		Tick:        stats.WindowEndTick,
		Description: fmt.Sprintf("Alive species fell from %d to %d", bd.lastSpecies, stats.Species),
	}
}

func (bd *BookmarkDetector) checkBabyBoom(stats WindowStats) *Bookmark {
	history := bd.getHistory()
	if len(history) < 3 {
		return nil
	}

	births := make([]float64, len(history))
	for i, h := range history {
		births[i] = float64(h.Births)
	}
	avgBirths := stat.Mean(births, nil)
	if avgBirths == 0 {
		return nil
	}

	if float64(stats.Births) > avgBirths*2.0 && stats.Births >= 3 {
		return &Bookmark{
			Type:        BookmarkBabyBoom,
			Tick:        stats.WindowEndTick,
			Description: fmt.Sprintf("%d births is %.1fx average (%.2f)", stats.Births, float64(stats.Births)/avgBirths, avgBirths),
		}
	}
	return nil
}

func (bd *BookmarkDetector) checkPopulationCrash(stats WindowStats) *Bookmark {
	if bd.recentAlivePeak == 0 {
		return nil
	}

	dropPercent := 1.0 - float64(stats.Alive)/float64(bd.recentAlivePeak)
	if dropPercent > 0.30 && stats.Alive <= bd.recentAlivePeak-3 {
		// Reset peak after crash
		oldPeak := bd.recentAlivePeak
		bd.recentAlivePeak = stats.Alive

		return &Bookmark{
			Type:        BookmarkPopulationCrash,
			Tick:        stats.WindowEndTick,
			Description: fmt.Sprintf("Alive population crashed %.0f%% from peak %d to %d", dropPercent*100, oldPeak, stats.Alive),
		}
	}
	return nil
}

func (bd *BookmarkDetector) checkStableEcosystem(stats WindowStats) *Bookmark {
	// Need a mixed population
	if stats.Alive < 5 || stats.Species < 2 {
		bd.stableWindowsCount = 0
		return nil
	}

	history := bd.getHistory()
	if len(history) < 4 {
		return nil
	}

	alive := make([]float64, 4)
	for i, h := range history[len(history)-4:] {
		alive[i] = float64(h.Alive)
	}
	mean, variance := stat.PopMeanVariance(alive, nil)

	// Low variance: coefficient of variation < 20%
	cv2 := 0.0
	if mean > 0 {
		cv2 = variance / (mean * mean)
	}

	if cv2 < 0.04 { // CV^2 < 0.04 means CV < 0.2
		bd.stableWindowsCount++
	} else {
		bd.stableWindowsCount = 0
	}

	if bd.stableWindowsCount == 5 { // trigger exactly once at 5 windows
		return &Bookmark{
			Type:        BookmarkStableEcosystem,
			Tick:        stats.WindowEndTick,
			Description: fmt.Sprintf("Stable ecosystem with %d alive across %d species over 5+ windows", stats.Alive, stats.Species),
		}
	}
	return nil
}
