// Package config loads game configuration from HCL files.
package config

import (
	"fmt"
	"os"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"

	"github.com/lox/fillorbust/dice"
)

// GameConfig is the root of a game configuration file:
//
//	game {
//	  points_to_win = 5000
//	  variant       = "classic"
//	  ai_threshold  = 650
//
//	  player "Alice" { type = "human" }
//	  player "Bot 1" { type = "ai" }
//	  player "Bot 2" {
//	    type      = "ai"
//	    threshold = 400
//	  }
//	}
type GameConfig struct {
	Game GameSettings `hcl:"game,block"`
}

// GameSettings contains game-level configuration.
type GameSettings struct {
	PointsToWin int            `hcl:"points_to_win,optional"`
	Variant     string         `hcl:"variant,optional"`
	AIThreshold int            `hcl:"ai_threshold,optional"`
	Players     []PlayerConfig `hcl:"player,block"`
}

// PlayerConfig defines one seat. Threshold overrides the game-level
// ai_threshold for this seat only.
type PlayerConfig struct {
	Name      string `hcl:"name,label"`
	Type      string `hcl:"type"`
	Threshold int    `hcl:"threshold,optional"`
}

// IsAI reports whether the seat is machine driven.
func (p PlayerConfig) IsAI() bool {
	return p.Type == "ai"
}

// DefaultGameConfig returns the two-seat game the binaries start with
// when no file is given: one human against one AI.
func DefaultGameConfig() *GameConfig {
	return &GameConfig{
		Game: GameSettings{
			PointsToWin: 2000,
			Variant:     "card",
			AIThreshold: 500,
			Players: []PlayerConfig{
				{Name: "P1", Type: "human"},
				{Name: "P2", Type: "ai"},
			},
		},
	}
}

// LoadGameConfig loads game configuration from an HCL file. A missing
// file yields the defaults.
func LoadGameConfig(filename string) (*GameConfig, error) {
	if _, err := os.Stat(filename); os.IsNotExist(err) {
		return DefaultGameConfig(), nil
	}

	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}
	return ParseGameConfig(data, filename)
}

// ParseGameConfig decodes HCL bytes, applies defaults and validates.
func ParseGameConfig(data []byte, filename string) (*GameConfig, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL(data, filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file: %s", diags.Error())
	}

	var cfg GameConfig
	diags = gohcl.DecodeBody(file.Body, nil, &cfg)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL: %s", diags.Error())
	}

	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// applyDefaults fills unset values from the default config.
func (c *GameConfig) applyDefaults() {
	defaults := DefaultGameConfig()
	if c.Game.PointsToWin == 0 {
		c.Game.PointsToWin = defaults.Game.PointsToWin
	}
	if c.Game.Variant == "" {
		c.Game.Variant = defaults.Game.Variant
	}
	if c.Game.AIThreshold == 0 {
		c.Game.AIThreshold = defaults.Game.AIThreshold
	}
	if len(c.Game.Players) == 0 {
		c.Game.Players = defaults.Game.Players
	}
	for i := range c.Game.Players {
		if c.Game.Players[i].Name == "" {
			c.Game.Players[i].Name = fmt.Sprintf("P%d", i+1)
		}
	}
}

// Validate rejects configurations no playable game can be built from.
func (c *GameConfig) Validate() error {
	if len(c.Game.Players) < 2 {
		return fmt.Errorf("at least 2 players required, got %d", len(c.Game.Players))
	}
	if c.Game.PointsToWin <= 0 {
		return fmt.Errorf("points_to_win must be positive, got %d", c.Game.PointsToWin)
	}
	if c.Game.AIThreshold <= 0 {
		return fmt.Errorf("ai_threshold must be positive, got %d", c.Game.AIThreshold)
	}
	if _, err := dice.ParseVariant(c.Game.Variant); err != nil {
		return err
	}
	for i, player := range c.Game.Players {
		if player.Type != "human" && player.Type != "ai" {
			return fmt.Errorf("player %d (%s): type must be \"human\" or \"ai\", got %q",
				i+1, player.Name, player.Type)
		}
		if player.Threshold < 0 {
			return fmt.Errorf("player %d (%s): threshold must be non-negative, got %d",
				i+1, player.Name, player.Threshold)
		}
	}
	return nil
}

// ScoringVariant returns the parsed variant. Validate has already
// checked it parses.
func (c *GameConfig) ScoringVariant() dice.Variant {
	v, _ := dice.ParseVariant(c.Game.Variant)
	return v
}

// ThresholdFor resolves a seat's AI bank threshold: the per-player
// value when set, otherwise the game-level one.
func (c *GameConfig) ThresholdFor(player PlayerConfig) int {
	if player.Threshold > 0 {
		return player.Threshold
	}
	return c.Game.AIThreshold
}
