package t2048

import "github.com/vovakirdan/tui-2048/internal/games/t2048/board"

// Status is the outcome of a status evaluation.
type Status string

const (
	StatusContinue Status = "continue"
	StatusWon      Status = "won"
	StatusGameOver Status = "game_over"
)

// CheckStatus evaluates win and loss against the current grid.
//
// The win is a one-time edge: the first evaluation that sees a tile at or
// above the win tile reports StatusWon, later ones report StatusContinue.
// Loss is a full grid with no legal move and takes precedence when both
// fire in the same evaluation. Once over, the result stays StatusGameOver.
func (e *Engine) CheckStatus() Status {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.checkStatus()
}

func (e *Engine) checkStatus() Status {
	if e.state.Over() {
		return StatusGameOver
	}

	g := e.state.Grid()
	maxTile := board.MaxTile(g)

	wonNow := !e.state.Won() && maxTile >= e.rules.WinTile
	if wonNow {
		e.state.SetWon(true)
	}

	if board.IsFull(g) && !board.CanMoveAnyDirection(g) {
		e.state.SetOver(true)
		e.scores.EndGame(e.state.Won(), maxTile)
		e.logger.Info("game over", "score", e.state.Score(), "max_tile", maxTile, "moves", e.moves, "won", e.state.Won())
		return StatusGameOver
	}

	if wonNow {
		e.scores.EndGame(true, maxTile)
		e.logger.Info("win", "score", e.state.Score(), "max_tile", maxTile, "moves", e.moves)
		return StatusWon
	}
	return StatusContinue
}

// Stats summarizes the current game.
type Stats struct {
	Score      int
	BestScore  int
	MaxTile    int
	EmptyTiles int
	TotalTiles int // Non-empty cells
	Moves      int
	Started    bool
	Over       bool
	Won        bool
	CanMove    bool
}

// Stats returns a summary of the current game.
func (e *Engine) Stats() Stats {
	e.mu.Lock()
	defer e.mu.Unlock()

	g := e.state.Grid()
	empty := len(board.EmptyCells(g))
	return Stats{
		Score:      e.state.Score(),
		BestScore:  e.state.BestScore(),
		MaxTile:    board.MaxTile(g),
		EmptyTiles: empty,
		TotalTiles: board.Size*board.Size - empty,
		Moves:      e.moves,
		Started:    e.state.Started(),
		Over:       e.state.Over(),
		Won:        e.state.Won(),
		CanMove:    board.CanMoveAnyDirection(g),
	}
}
