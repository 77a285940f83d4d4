// Package autoplay drives an engine with simple bots for headless
// simulations and smoke tests.
package autoplay

import (
	"context"
	"fmt"
	"math/rand"
	"sort"

	"github.com/vovakirdan/tui-2048/internal/games/t2048"
	"github.com/vovakirdan/tui-2048/internal/games/t2048/board"
)

// Strategy picks the next move. ok is false when no move is left.
type Strategy interface {
	Next(e *t2048.Engine) (d board.Direction, ok bool)
}

// StrategyFunc adapts a function to Strategy.
type StrategyFunc func(e *t2048.Engine) (board.Direction, bool)

func (f StrategyFunc) Next(e *t2048.Engine) (board.Direction, bool) { return f(e) }

// First plays the first legal move in canonical order.
var First = StrategyFunc(func(e *t2048.Engine) (board.Direction, bool) {
	moves := e.PossibleMoves()
	if len(moves) == 0 {
		return 0, false
	}
	return moves[0], true
})

// Corner prefers down, then left, then right, and goes up only when forced.
var Corner = StrategyFunc(func(e *t2048.Engine) (board.Direction, bool) {
	return preferred(e, board.Down, board.Left, board.Right, board.Up)
})

// Greedy plays the move with the largest immediate score, breaking ties
// by the number of empty cells left.
var Greedy = StrategyFunc(func(e *t2048.Engine) (board.Direction, bool) {
	best, found := board.Direction(0), false
	bestDelta, bestEmpty := -1, -1
	for _, d := range board.Directions() {
		p, err := e.PreviewMove(d)
		if err != nil || !p.Moved {
			continue
		}
		empty := len(board.EmptyCells(p.Grid))
		if p.ScoreDelta > bestDelta || (p.ScoreDelta == bestDelta && empty > bestEmpty) {
			best, found = d, true
			bestDelta, bestEmpty = p.ScoreDelta, empty
		}
	}
	return best, found
})

// Random plays a uniformly chosen legal move.
func Random(r *rand.Rand) Strategy {
	return StrategyFunc(func(e *t2048.Engine) (board.Direction, bool) {
		moves := e.PossibleMoves()
		if len(moves) == 0 {
			return 0, false
		}
		return moves[r.Intn(len(moves))], true
	})
}

func preferred(e *t2048.Engine, order ...board.Direction) (board.Direction, bool) {
	legal := e.PossibleMoves()
	for _, d := range order {
		for _, m := range legal {
			if m == d {
				return d, true
			}
		}
	}
	return 0, false
}

var strategies = map[string]func(seed int64) Strategy{
	"first":  func(int64) Strategy { return First },
	"corner": func(int64) Strategy { return Corner },
	"greedy": func(int64) Strategy { return Greedy },
	"random": func(seed int64) Strategy { return Random(rand.New(rand.NewSource(seed))) },
}

// Names returns the registered strategy names, sorted.
func Names() []string {
	names := make([]string, 0, len(strategies))
	for name := range strategies {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ByName returns a registered strategy. seed is used by random.
func ByName(name string, seed int64) (Strategy, error) {
	mk, ok := strategies[name]
	if !ok {
		return nil, fmt.Errorf("autoplay: unknown strategy %q (available: %v)", name, Names())
	}
	return mk(seed), nil
}

// Result summarizes one automated game.
type Result struct {
	Moves   int
	Score   int
	MaxTile int
	Won     bool
	Over    bool // False if the move limit or context stopped the game
}

// Play runs moves until the game is over, the strategy gives up, maxMoves
// is reached (0 means no limit) or ctx is done. The engine must already
// be initialized.
func Play(ctx context.Context, e *t2048.Engine, s Strategy, maxMoves int) (Result, error) {
	for maxMoves <= 0 || e.Moves() < maxMoves {
		if err := ctx.Err(); err != nil {
			return result(e), err
		}
		if e.Snapshot().Over {
			break
		}
		d, ok := s.Next(e)
		if !ok {
			break
		}
		if !e.Move(d) {
			return result(e), fmt.Errorf("autoplay: move %s was rejected", d)
		}
	}
	return result(e), nil
}

func result(e *t2048.Engine) Result {
	st := e.Stats()
	return Result{
		Moves:   st.Moves,
		Score:   st.Score,
		MaxTile: st.MaxTile,
		Won:     st.Won,
		Over:    st.Over,
	}
}
