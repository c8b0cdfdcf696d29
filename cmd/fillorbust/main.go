package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/alecthomas/kong"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/coder/quartz"

	"github.com/lox/fillorbust/internal/config"
	"github.com/lox/fillorbust/internal/console"
	"github.com/lox/fillorbust/internal/game"
	"github.com/lox/fillorbust/internal/randutil"
	"github.com/lox/fillorbust/internal/tui"
)

// aiDelay paces AI decisions in interactive play so humans can read
// the table log.
const aiDelay = 600 * time.Millisecond

type CLI struct {
	Players     *int    `short:"p" help:"Number of players" placeholder:"N"`
	AI          bool    `help:"Every seat is AI (watch a game)"`
	AICount     *int    `name:"ai-count" help:"Make the last N seats AI" placeholder:"N"`
	AIThreshold *int    `name:"ai-threshold" help:"Turn total at which AI seats bank" placeholder:"POINTS"`
	PointsToWin *int    `name:"points-to-win" help:"Total needed to win" placeholder:"POINTS"`
	Variant     *string `help:"Scoring variant: card or classic" enum:"card,classic,"`
	Config      string  `help:"HCL game config file" type:"path" placeholder:"FILE"`
	TUI         bool    `help:"Full-screen table interface"`
	Seed        int64   `help:"RNG seed for a reproducible game (0 for random)"`
	Verbose     bool    `short:"v" help:"Debug logging"`
	Quiet       bool    `short:"q" help:"Errors only"`
}

func main() {
	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("fillorbust"),
		kong.Description("Fill or Bust: a push-your-luck dice game."))

	level := log.InfoLevel
	if cli.Verbose {
		level = log.DebugLevel
	}
	if cli.Quiet {
		level = log.ErrorLevel
	}
	logger := log.NewWithOptions(os.Stderr, log.Options{Level: level})

	cfg, err := resolveConfig(&cli)
	ctx.FatalIfErrorf(err)

	seed := cli.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	logger.Debug("configuration resolved",
		"players", len(cfg.Game.Players), "target", cfg.Game.PointsToWin,
		"variant", cfg.Game.Variant, "seed", seed)

	if cli.TUI {
		err = runTUI(cfg, seed, logger)
	} else {
		err = runConsole(cfg, seed, logger)
	}
	ctx.FatalIfErrorf(err)
}

// resolveConfig loads the file config (or defaults) and applies any
// flags the user set on top.
func resolveConfig(cli *CLI) (*config.GameConfig, error) {
	var cfg *config.GameConfig
	var err error
	if cli.Config != "" {
		cfg, err = config.LoadGameConfig(cli.Config)
		if err != nil {
			return nil, err
		}
	} else {
		cfg = config.DefaultGameConfig()
	}

	if cli.PointsToWin != nil {
		cfg.Game.PointsToWin = *cli.PointsToWin
	}
	if cli.Variant != nil && *cli.Variant != "" {
		cfg.Game.Variant = *cli.Variant
	}
	if cli.AIThreshold != nil {
		cfg.Game.AIThreshold = *cli.AIThreshold
	}
	if cli.Players != nil {
		players := make([]config.PlayerConfig, *cli.Players)
		for i := range players {
			players[i] = config.PlayerConfig{Name: fmt.Sprintf("P%d", i+1), Type: "human"}
		}
		cfg.Game.Players = players
	}

	// --ai flips every seat; --ai-count flips the last N.
	if cli.AI {
		for i := range cfg.Game.Players {
			cfg.Game.Players[i].Type = "ai"
		}
	} else if cli.AICount != nil {
		n := *cli.AICount
		if n > len(cfg.Game.Players) {
			return nil, fmt.Errorf("--ai-count %d exceeds the %d players", n, len(cfg.Game.Players))
		}
		for i := len(cfg.Game.Players) - n; i < len(cfg.Game.Players); i++ {
			cfg.Game.Players[i].Type = "ai"
		}
	} else if cli.Players != nil {
		// Fresh flag-built seats default to one AI opponent.
		if n := len(cfg.Game.Players); n > 1 {
			for i := 1; i < n; i++ {
				cfg.Game.Players[i].Type = "ai"
			}
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// buildSpecs turns the file config into engine player specs, asking
// humans for their names.
func buildSpecs(cfg *config.GameConfig, prompter game.Prompter) []game.PlayerSpec {
	specs := make([]game.PlayerSpec, len(cfg.Game.Players))
	for i, pc := range cfg.Game.Players {
		spec := game.PlayerSpec{Name: pc.Name}
		if pc.IsAI() {
			spec.Kind = game.AI
			spec.Threshold = cfg.ThresholdFor(pc)
		} else {
			spec.Kind = game.Human
			spec.Agent = game.NewHumanAgent(prompter)
			if name, err := prompter.Prompt(fmt.Sprintf("Name for %s (enter keeps it): ", pc.Name)); err == nil {
				if name = strings.TrimSpace(name); name != "" {
					spec.Name = name
				}
			}
		}
		specs[i] = spec
	}
	return specs
}

func runConsole(cfg *config.GameConfig, seed int64, logger *log.Logger) error {
	prompter := console.NewStdinPrompter(os.Stdin, os.Stdout)
	specs := buildSpecs(cfg, prompter)

	perspective := ""
	if humans(specs) == 1 {
		for _, spec := range specs {
			if spec.Kind == game.Human {
				perspective = spec.Name
			}
		}
	}

	bus := game.NewEventBus()
	bus.Subscribe(console.NewRenderer(os.Stdout, perspective))

	engine, err := game.NewEngine(game.Config{
		Players:      specs,
		TargetPoints: cfg.Game.PointsToWin,
		Variant:      cfg.ScoringVariant(),
	},
		game.WithRNG(randutil.New(seed)),
		game.WithEventBus(bus),
		game.WithLogger(logger.WithPrefix("game")),
		game.WithAIDelay(aiDelay, quartz.NewReal()),
	)
	if err != nil {
		return err
	}

	_, err = engine.Run()
	return err
}

func runTUI(cfg *config.GameConfig, seed int64, logger *log.Logger) error {
	model := tui.NewModel(logger, false)
	program := tea.NewProgram(model, tea.WithAltScreen())

	bridge := tui.NewBridge(func(msg any) { program.Send(msg) }, "")
	specs := buildSpecs(cfg, bridge)

	bus := game.NewEventBus()
	bus.Subscribe(bridge)

	engine, err := game.NewEngine(game.Config{
		Players:      specs,
		TargetPoints: cfg.Game.PointsToWin,
		Variant:      cfg.ScoringVariant(),
	},
		game.WithRNG(randutil.New(seed)),
		game.WithEventBus(bus),
		game.WithLogger(logger.WithPrefix("game")),
		game.WithAIDelay(aiDelay, quartz.NewReal()),
	)
	if err != nil {
		return err
	}

	go func() {
		if _, err := engine.Run(); err != nil {
			logger.Debug("game loop ended", "error", err)
		}
	}()

	if _, err := program.Run(); err != nil {
		return fmt.Errorf("running tui: %w", err)
	}
	return nil
}

func humans(specs []game.PlayerSpec) int {
	n := 0
	for _, spec := range specs {
		if spec.Kind == game.Human {
			n++
		}
	}
	return n
}
