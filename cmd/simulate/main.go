package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/alecthomas/kong"
	"github.com/charmbracelet/log"

	"github.com/lox/fillorbust/dice"
	"github.com/lox/fillorbust/internal/game"
	"github.com/lox/fillorbust/internal/simulator"
)

type CLI struct {
	Games       int    `default:"1000" help:"Number of games to simulate"`
	Players     int    `short:"p" default:"2" help:"Number of AI seats"`
	AIThreshold int    `name:"ai-threshold" default:"500" help:"Turn total at which seats bank"`
	PointsToWin int    `name:"points-to-win" default:"2000" help:"Total needed to win"`
	Variant     string `default:"card" enum:"card,classic" help:"Scoring variant"`
	Seed        int64  `help:"Master RNG seed (0 for random); every game derives its own stream"`
	Workers     int    `help:"Parallel workers (0 for one per CPU)"`
	Output      string `short:"o" help:"Write JSON results to this file" type:"path" placeholder:"FILE"`
	Verbose     bool   `short:"v" help:"Debug logging"`
}

func main() {
	var cli CLI
	kctx := kong.Parse(&cli,
		kong.Name("simulate"),
		kong.Description("Batch Fill or Bust games between AI strategies."))

	level := log.InfoLevel
	if cli.Verbose {
		level = log.DebugLevel
	}
	logger := log.NewWithOptions(os.Stderr, log.Options{Level: level})

	if cli.Seed == 0 {
		cli.Seed = time.Now().UnixNano()
	}
	variant, err := dice.ParseVariant(cli.Variant)
	kctx.FatalIfErrorf(err)

	players := make([]game.PlayerSpec, cli.Players)
	for i := range players {
		players[i] = game.PlayerSpec{
			Name:      fmt.Sprintf("P%d", i+1),
			Kind:      game.AI,
			Threshold: cli.AIThreshold,
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	sim := simulator.New(simulator.Config{
		Games:        cli.Games,
		Players:      players,
		TargetPoints: cli.PointsToWin,
		Variant:      variant,
		Seed:         cli.Seed,
		Workers:      cli.Workers,
	}, logger)

	results, err := sim.Run(ctx)
	kctx.FatalIfErrorf(err)

	fmt.Println(results)

	if cli.Output != "" {
		kctx.FatalIfErrorf(results.WriteJSON(cli.Output))
		logger.Info("results written", "path", cli.Output)
	}
}
