// Package game implements the Fill or Bust game: the turn state
// machine, the special-card deck, human and AI agents and the game
// loop that cycles seats until a player reaches the target total.
//
// The main types are Turn, which drives one player's turn through
// rolling, keeping and banking, and Engine, which plays whole games:
//
//	engine, err := game.NewEngine(game.Config{
//	    Players: []game.PlayerSpec{
//	        {Name: "Alice", Kind: game.Human, Agent: humanAgent},
//	        {Name: "Bot", Kind: game.AI, Threshold: 500},
//	    },
//	    TargetPoints: 2000,
//	}, game.WithRNG(rng))
//	winner, err := engine.Run()
//
// Randomness is always injected: pass game.WithRNG a seeded *rand.Rand
// for deterministic games. Scoring rules live in the dice package; the
// engine never interprets faces itself.
package game
