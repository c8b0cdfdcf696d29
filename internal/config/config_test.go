package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/fillorbust/dice"
)

func TestParseGameConfig(t *testing.T) {
	hcl := `
game {
  points_to_win = 5000
  variant       = "classic"
  ai_threshold  = 650

  player "Alice" {
    type = "human"
  }

  player "Bot 1" {
    type = "ai"
  }

  player "Bot 2" {
    type      = "ai"
    threshold = 400
  }
}
`
	cfg, err := ParseGameConfig([]byte(hcl), "game.hcl")
	require.NoError(t, err)

	assert.Equal(t, 5000, cfg.Game.PointsToWin)
	assert.Equal(t, dice.VariantClassic, cfg.ScoringVariant())
	assert.Equal(t, 650, cfg.Game.AIThreshold)
	require.Len(t, cfg.Game.Players, 3)

	assert.Equal(t, "Alice", cfg.Game.Players[0].Name)
	assert.False(t, cfg.Game.Players[0].IsAI())
	assert.True(t, cfg.Game.Players[1].IsAI())

	// Per-player threshold wins over the game-level one.
	assert.Equal(t, 650, cfg.ThresholdFor(cfg.Game.Players[1]))
	assert.Equal(t, 400, cfg.ThresholdFor(cfg.Game.Players[2]))
}

func TestParseGameConfigDefaults(t *testing.T) {
	hcl := `
game {
  player "A" { type = "ai" }
  player "B" { type = "ai" }
}
`
	cfg, err := ParseGameConfig([]byte(hcl), "game.hcl")
	require.NoError(t, err)

	assert.Equal(t, 2000, cfg.Game.PointsToWin)
	assert.Equal(t, dice.VariantCard, cfg.ScoringVariant())
	assert.Equal(t, 500, cfg.Game.AIThreshold)
}

func TestParseGameConfigErrors(t *testing.T) {
	cases := []struct {
		name string
		hcl  string
	}{
		{
			name: "one player",
			hcl: `game {
  player "A" { type = "ai" }
}`,
		},
		{
			name: "bad variant",
			hcl: `game {
  variant = "triple"
  player "A" { type = "ai" }
  player "B" { type = "ai" }
}`,
		},
		{
			name: "bad player type",
			hcl: `game {
  player "A" { type = "robot" }
  player "B" { type = "ai" }
}`,
		},
		{
			name: "negative target",
			hcl: `game {
  points_to_win = -100
  player "A" { type = "ai" }
  player "B" { type = "ai" }
}`,
		},
		{
			name: "not hcl",
			hcl:  `{"game": true}`,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ParseGameConfig([]byte(tc.hcl), "game.hcl")
			assert.Error(t, err)
		})
	}
}

func TestLoadGameConfigMissingFileUsesDefaults(t *testing.T) {
	cfg, err := LoadGameConfig(filepath.Join(t.TempDir(), "nope.hcl"))
	require.NoError(t, err)
	assert.Equal(t, DefaultGameConfig(), cfg)
}

func TestLoadGameConfigFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "game.hcl")
	content := `
game {
  points_to_win = 3000

  player "A" { type = "ai" }
  player "B" { type = "ai" }
}
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := LoadGameConfig(path)
	require.NoError(t, err)
	assert.Equal(t, 3000, cfg.Game.PointsToWin)
}

func TestDefaultGameConfigIsValid(t *testing.T) {
	assert.NoError(t, DefaultGameConfig().Validate())
}
