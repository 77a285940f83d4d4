// Package board implements the pure grid transforms of the 2048 puzzle:
// slide-and-merge in four directions, move legality and grid validation.
//
// Every function in this package takes a Grid by value and returns a new
// one, so callers never observe a partially transformed grid.
package board

import (
	"errors"
	"fmt"
	"strings"
)

// Size is the board dimension.
const Size = 4

// MaxTileValue is the largest tile a grid may hold. Merging two of them
// is rejected by Transform instead of overflowing.
const MaxTileValue = 1 << 30

// Grid is a 4x4 board. Zero is an empty cell, every other value is a power of two.
type Grid [Size][Size]int

// Cell is a (row, col) coordinate on the grid.
type Cell struct {
	Row int
	Col int
}

var (
	// ErrInvalidGrid is returned when a grid has the wrong shape or holds
	// a negative or non-power-of-two value.
	ErrInvalidGrid = errors.New("invalid grid")

	// ErrInvalidDirection is returned for a direction outside the four moves.
	ErrInvalidDirection = errors.New("invalid direction")
)

// Validate checks that every cell is zero or a positive power of two.
func Validate(g Grid) error {
	for row := range Size {
		for col := range Size {
			if !IsTileValue(g[row][col]) {
				return fmt.Errorf("board: cell (%d,%d) holds %d: %w", row, col, g[row][col], ErrInvalidGrid)
			}
		}
	}
	return nil
}

// IsTileValue reports whether v is 0 or a power of two no larger than MaxTileValue.
func IsTileValue(v int) bool {
	if v < 0 || v > MaxTileValue {
		return false
	}
	return v&(v-1) == 0
}

// FromRows builds a Grid from untyped row data, checking shape and values.
func FromRows(rows [][]int) (Grid, error) {
	var g Grid
	if len(rows) != Size {
		return g, fmt.Errorf("board: expected %d rows, got %d: %w", Size, len(rows), ErrInvalidGrid)
	}
	for row, line := range rows {
		if len(line) != Size {
			return Grid{}, fmt.Errorf("board: row %d has %d columns, want %d: %w", row, len(line), Size, ErrInvalidGrid)
		}
		copy(g[row][:], line)
	}
	if err := Validate(g); err != nil {
		return Grid{}, err
	}
	return g, nil
}

// Rows returns the grid as a slice of rows, the inverse of FromRows.
func (g Grid) Rows() [][]int {
	rows := make([][]int, Size)
	for row := range Size {
		rows[row] = append([]int(nil), g[row][:]...)
	}
	return rows
}

// EmptyCells returns coordinates of all empty cells in row-major order.
func EmptyCells(g Grid) []Cell {
	var cells []Cell
	for row := range Size {
		for col := range Size {
			if g[row][col] == 0 {
				cells = append(cells, Cell{Row: row, Col: col})
			}
		}
	}
	return cells
}

// IsFull returns true if no cell is empty.
func IsFull(g Grid) bool {
	for row := range Size {
		for col := range Size {
			if g[row][col] == 0 {
				return false
			}
		}
	}
	return true
}

// CountTiles returns the number of non-empty cells.
func CountTiles(g Grid) int {
	n := 0
	for row := range Size {
		for col := range Size {
			if g[row][col] != 0 {
				n++
			}
		}
	}
	return n
}

// MaxTile returns the maximum tile value on the board.
func MaxTile(g Grid) int {
	maxVal := 0
	for row := range Size {
		for col := range Size {
			if g[row][col] > maxVal {
				maxVal = g[row][col]
			}
		}
	}
	return maxVal
}

// HasValue returns true if any cell equals v.
func HasValue(g Grid, v int) bool {
	for row := range Size {
		for col := range Size {
			if g[row][col] == v {
				return true
			}
		}
	}
	return false
}

// String renders the grid as right-aligned columns, one row per line.
func (g Grid) String() string {
	var sb strings.Builder
	for row := range Size {
		if row > 0 {
			sb.WriteByte('\n')
		}
		for col := range Size {
			if col > 0 {
				sb.WriteByte(' ')
			}
			fmt.Fprintf(&sb, "%5d", g[row][col])
		}
	}
	return sb.String()
}
