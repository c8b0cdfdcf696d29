package simulator

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/lox/fillorbust/internal/fileutil"
	"github.com/lox/fillorbust/internal/statistics"
)

// PlayerResult is one seat's tally across a batch.
type PlayerResult struct {
	Name      string  `json:"name"`
	Threshold int     `json:"threshold,omitempty"`
	Wins      int     `json:"wins"`
	WinRate   float64 `json:"win_rate"`
}

// Results aggregates a finished batch.
type Results struct {
	GamesPlayed   int                `json:"games_played"`
	Seed          int64              `json:"seed"`
	Target        int                `json:"target"`
	Variant       string             `json:"variant"`
	Players       []PlayerResult     `json:"players"`
	WinningTotals *statistics.Sample `json:"winning_totals"`
	TurnsPerGame  *statistics.Sample `json:"turns_per_game"`
	Elapsed       time.Duration      `json:"elapsed_ns"`
}

func newResults(cfg Config, elapsed time.Duration) *Results {
	players := make([]PlayerResult, len(cfg.Players))
	for i, spec := range cfg.Players {
		players[i] = PlayerResult{Name: spec.Name, Threshold: spec.Threshold}
	}
	return &Results{
		Seed:          cfg.Seed,
		Target:        cfg.TargetPoints,
		Variant:       cfg.Variant.String(),
		Players:       players,
		WinningTotals: &statistics.Sample{},
		TurnsPerGame:  &statistics.Sample{},
		Elapsed:       elapsed,
	}
}

func (r *Results) add(outcome gameOutcome) {
	r.GamesPlayed++
	r.Players[outcome.winner].Wins++
	r.WinningTotals.Add(float64(outcome.winningTotal))
	r.TurnsPerGame.Add(float64(outcome.turns))
	for i := range r.Players {
		r.Players[i].WinRate = float64(r.Players[i].Wins) / float64(r.GamesPlayed)
	}
}

// String renders the win-count report.
func (r *Results) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Simulated %d games to %d points (%s scoring, seed %d) in %s\n",
		r.GamesPlayed, r.Target, r.Variant, r.Seed, r.Elapsed.Round(time.Millisecond))
	for _, p := range r.Players {
		fmt.Fprintf(&sb, "  %-12s %6d wins (%.1f%%)", p.Name, p.Wins, p.WinRate*100)
		if p.Threshold > 0 {
			fmt.Fprintf(&sb, "  banks at %d", p.Threshold)
		}
		sb.WriteByte('\n')
	}

	lowT, highT := r.WinningTotals.ConfidenceInterval95()
	fmt.Fprintf(&sb, "Winning total: mean %.0f, median %.0f, stddev %.0f, 95%% CI [%.0f, %.0f]\n",
		r.WinningTotals.Mean(), r.WinningTotals.Median(), r.WinningTotals.StdDev(), lowT, highT)
	lowN, highN := r.TurnsPerGame.ConfidenceInterval95()
	fmt.Fprintf(&sb, "Turns per game: mean %.1f, median %.1f, stddev %.1f, 95%% CI [%.1f, %.1f]",
		r.TurnsPerGame.Mean(), r.TurnsPerGame.Median(), r.TurnsPerGame.StdDev(), lowN, highN)
	return sb.String()
}

// WriteJSON exports the results atomically to path.
func (r *Results) WriteJSON(path string) error {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling results: %w", err)
	}
	return fileutil.WriteFileAtomic(path, append(data, '\n'), 0o644)
}
