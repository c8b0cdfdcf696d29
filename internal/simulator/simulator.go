// Package simulator plays many all-AI games and aggregates win
// statistics per seat.
package simulator

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/lox/fillorbust/dice"
	"github.com/lox/fillorbust/internal/game"
	"github.com/lox/fillorbust/internal/randutil"
)

// Config holds configuration for a simulation batch. Every seat must
// be AI driven; the simulator never prompts.
type Config struct {
	Games        int
	Players      []game.PlayerSpec
	TargetPoints int
	Variant      dice.Variant
	Seed         int64
	Workers      int // Defaults to runtime.NumCPU()
}

// Validate rejects batches that cannot run.
func (c *Config) Validate() error {
	if c.Games < 1 {
		return fmt.Errorf("games must be positive, got %d", c.Games)
	}
	if len(c.Players) < 2 {
		return fmt.Errorf("at least 2 players required, got %d", len(c.Players))
	}
	for i, spec := range c.Players {
		if spec.Kind != game.AI {
			return fmt.Errorf("player %d (%s) is not AI; simulations are all-AI", i+1, spec.Name)
		}
	}
	return nil
}

// Simulator runs batches of games.
type Simulator struct {
	cfg    Config
	logger *log.Logger
}

// New creates a simulator. The config is validated on Run.
func New(cfg Config, logger *log.Logger) *Simulator {
	if cfg.Workers <= 0 {
		cfg.Workers = runtime.NumCPU()
	}
	return &Simulator{cfg: cfg, logger: logger}
}

// gameOutcome is what one finished game contributes to the batch.
type gameOutcome struct {
	winner       int
	winningTotal int
	turns        int
}

// Run plays the configured number of games across a worker pool and
// aggregates the results. Every game gets its own seed derived up
// front from the master seed, so results are identical at any worker
// count.
func (s *Simulator) Run(ctx context.Context) (*Results, error) {
	if err := s.cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid simulation config: %w", err)
	}

	start := time.Now()
	seeds := randutil.DeriveSeeds(s.cfg.Seed, s.cfg.Games)
	outcomes := make([]gameOutcome, s.cfg.Games)

	s.logger.Info("simulation started",
		"games", s.cfg.Games, "players", len(s.cfg.Players),
		"target", s.cfg.TargetPoints, "variant", s.cfg.Variant,
		"seed", s.cfg.Seed, "workers", s.cfg.Workers)

	var completed atomic.Int64
	progressEvery := s.cfg.Games / 4
	g, ctx := errgroup.WithContext(ctx)
	for w := 0; w < s.cfg.Workers; w++ {
		worker := w
		g.Go(func() error {
			for i := worker; i < s.cfg.Games; i += s.cfg.Workers {
				select {
				case <-ctx.Done():
					return ctx.Err()
				default:
				}
				outcome, err := s.playGame(seeds[i])
				if err != nil {
					return fmt.Errorf("game %d (seed %d): %w", i+1, seeds[i], err)
				}
				outcomes[i] = outcome

				done := completed.Add(1)
				if progressEvery > 0 && done%int64(progressEvery) == 0 {
					s.logger.Info("simulation progress",
						"completed", done, "total", s.cfg.Games)
				}
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	results := newResults(s.cfg, time.Since(start))
	for _, outcome := range outcomes {
		results.add(outcome)
	}
	s.logger.Info("simulation finished",
		"games", results.GamesPlayed, "elapsed", results.Elapsed)
	return results, nil
}

// playGame runs a single game with an independent RNG stream.
func (s *Simulator) playGame(seed int64) (gameOutcome, error) {
	engine, err := game.NewEngine(game.Config{
		Players:      s.cfg.Players,
		TargetPoints: s.cfg.TargetPoints,
		Variant:      s.cfg.Variant,
	}, game.WithRNG(randutil.New(seed)))
	if err != nil {
		return gameOutcome{}, err
	}

	winner, err := engine.Run()
	if err != nil {
		return gameOutcome{}, err
	}
	if winner < 0 || winner >= len(s.cfg.Players) {
		return gameOutcome{}, errors.New("engine returned an out-of-range winner")
	}
	return gameOutcome{
		winner:       winner,
		winningTotal: engine.Players()[winner].Points,
		turns:        engine.Turns(),
	}, nil
}
