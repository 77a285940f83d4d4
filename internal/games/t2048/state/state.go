// Package state holds the canonical snapshot of a 2048 session.
// Every mutator validates its argument and rejects bad input with
// ErrInvalidArgument instead of coercing it.
package state

import (
	"errors"
	"fmt"

	"github.com/vovakirdan/tui-2048/internal/games/t2048/board"
)

// ErrInvalidArgument is returned by setters when the value would break
// a snapshot invariant.
var ErrInvalidArgument = errors.New("invalid argument")

// Snapshot is a plain copy of the game state for renderers and persistence.
type Snapshot struct {
	Grid          board.Grid
	Score         int
	BestScore     int
	Started       bool
	Over          bool
	Won           bool
	CanContinue   bool
	LastMoveValid bool
}

// State owns the grid, scores and lifecycle flags of a single game.
type State struct {
	grid          board.Grid
	score         int
	bestScore     int
	started       bool
	over          bool
	won           bool
	canContinue   bool
	lastMoveValid bool
}

// New returns an empty state: all-zero grid, zero score, flags cleared.
func New() *State {
	return &State{canContinue: true}
}

// Grid returns a copy of the current grid.
func (s *State) Grid() board.Grid {
	return s.grid
}

// SetGrid replaces the grid after validating every cell.
func (s *State) SetGrid(g board.Grid) error {
	if err := board.Validate(g); err != nil {
		return fmt.Errorf("state: set grid: %w: %w", ErrInvalidArgument, err)
	}
	s.grid = g
	return nil
}

// Tile returns the value at (row, col).
func (s *State) Tile(row, col int) (int, error) {
	if !inBounds(row, col) {
		return 0, fmt.Errorf("state: position (%d,%d): %w", row, col, ErrInvalidArgument)
	}
	return s.grid[row][col], nil
}

// SetTile stores v at (row, col).
func (s *State) SetTile(row, col, v int) error {
	if !inBounds(row, col) {
		return fmt.Errorf("state: position (%d,%d): %w", row, col, ErrInvalidArgument)
	}
	if !board.IsTileValue(v) {
		return fmt.Errorf("state: tile value %d: %w", v, ErrInvalidArgument)
	}
	s.grid[row][col] = v
	return nil
}

func inBounds(row, col int) bool {
	return row >= 0 && row < board.Size && col >= 0 && col < board.Size
}

// EmptyCells returns the coordinates of all empty cells.
func (s *State) EmptyCells() []board.Cell {
	return board.EmptyCells(s.grid)
}

// IsFull returns true when no cell is empty.
func (s *State) IsFull() bool {
	return board.IsFull(s.grid)
}

// Score returns the current score.
func (s *State) Score() int {
	return s.score
}

// SetScore sets the current score.
func (s *State) SetScore(score int) error {
	if score < 0 {
		return fmt.Errorf("state: score %d: %w", score, ErrInvalidArgument)
	}
	s.score = score
	return nil
}

// AddScore adds points to the current score.
func (s *State) AddScore(points int) error {
	if points < 0 {
		return fmt.Errorf("state: add score %d: %w", points, ErrInvalidArgument)
	}
	s.score += points
	return nil
}

// BestScore returns the best score carried across resets.
func (s *State) BestScore() int {
	return s.bestScore
}

// SetBestScore sets the best score.
func (s *State) SetBestScore(best int) error {
	if best < 0 {
		return fmt.Errorf("state: best score %d: %w", best, ErrInvalidArgument)
	}
	s.bestScore = best
	return nil
}

func (s *State) Started() bool       { return s.started }
func (s *State) Over() bool          { return s.over }
func (s *State) Won() bool           { return s.won }
func (s *State) CanContinue() bool   { return s.canContinue }
func (s *State) LastMoveValid() bool { return s.lastMoveValid }

func (s *State) SetStarted(v bool)       { s.started = v }
func (s *State) SetOver(v bool)          { s.over = v }
func (s *State) SetWon(v bool)           { s.won = v }
func (s *State) SetCanContinue(v bool)   { s.canContinue = v }
func (s *State) SetLastMoveValid(v bool) { s.lastMoveValid = v }

// Reset restores the initial snapshot. The best score is kept.
func (s *State) Reset() {
	best := s.bestScore
	*s = *New()
	s.bestScore = best
}

// Clone returns an independent copy.
func (s *State) Clone() *State {
	c := *s
	return &c
}

// Snapshot returns a value copy of every field.
func (s *State) Snapshot() Snapshot {
	return Snapshot{
		Grid:          s.grid,
		Score:         s.score,
		BestScore:     s.bestScore,
		Started:       s.started,
		Over:          s.over,
		Won:           s.won,
		CanContinue:   s.canContinue,
		LastMoveValid: s.lastMoveValid,
	}
}
