package board

import "fmt"

// MoveResult is the outcome of a single transform.
type MoveResult struct {
	Grid       Grid
	ScoreDelta int
	Moved      bool
}

// ProcessLine slides and merges a single line to the left.
// Returns the collapsed line and the score gained from merges.
// A tile produced by a merge never merges again in the same pass.
func ProcessLine(line [Size]int) (result [Size]int, score int) {
	var tiles [Size]int
	n := 0
	for _, v := range line {
		if v != 0 {
			tiles[n] = v
			n++
		}
	}

	writePos := 0
	for i := 0; i < n; i++ {
		if i+1 < n && tiles[i] == tiles[i+1] {
			merged := tiles[i] * 2
			result[writePos] = merged
			score += merged
			i++ // skip the consumed partner
		} else {
			result[writePos] = tiles[i]
		}
		writePos++
	}

	return result, score
}

// Reverse mirrors each row of the grid horizontally.
func Reverse(g Grid) Grid {
	var result Grid
	for row := range Size {
		for col := range Size {
			result[row][col] = g[row][Size-1-col]
		}
	}
	return result
}

// Transpose returns the matrix transpose.
func Transpose(g Grid) Grid {
	var result Grid
	for row := range Size {
		for col := range Size {
			result[row][col] = g[col][row]
		}
	}
	return result
}

// orient maps the grid so that direction d becomes a left move.
func orient(g Grid, d Direction) Grid {
	switch d {
	case Right:
		return Reverse(g)
	case Up:
		return Transpose(g)
	case Down:
		return Reverse(Transpose(g))
	default:
		return g
	}
}

// restore undoes orient.
func restore(g Grid, d Direction) Grid {
	switch d {
	case Right:
		return Reverse(g)
	case Up:
		return Transpose(g)
	case Down:
		return Transpose(Reverse(g))
	default:
		return g
	}
}

// Transform applies a move in direction d.
// Invalid grids and directions are rejected, never repaired.
func Transform(g Grid, d Direction) (MoveResult, error) {
	if !d.Valid() {
		return MoveResult{Grid: g}, fmt.Errorf("board: transform %v: %w", d, ErrInvalidDirection)
	}
	if err := Validate(g); err != nil {
		return MoveResult{Grid: g}, err
	}
	res := transform(g, d)
	if Validate(res.Grid) != nil {
		return MoveResult{Grid: g}, fmt.Errorf("board: transform %v: merge exceeds %d: %w", d, MaxTileValue, ErrInvalidGrid)
	}
	return res, nil
}

// transform assumes a validated grid and direction.
func transform(g Grid, d Direction) MoveResult {
	lines := orient(g, d)
	var out Grid
	res := MoveResult{}

	for i := range Size {
		collapsed, score := ProcessLine(lines[i])
		if collapsed != lines[i] {
			res.Moved = true
		}
		out[i] = collapsed
		res.ScoreDelta += score
	}

	res.Grid = restore(out, d)
	return res
}

// MustTransform is Transform for grids already known to be valid.
// It panics on a precondition violation.
func MustTransform(g Grid, d Direction) MoveResult {
	res, err := Transform(g, d)
	if err != nil {
		panic(err)
	}
	return res
}

// CanMove reports whether a move in direction d would change the grid.
// Invalid input can never move.
func CanMove(g Grid, d Direction) bool {
	res, err := Transform(g, d)
	return err == nil && res.Moved
}

// CanMoveAnyDirection reports whether at least one of the four moves is legal.
// It is the authoritative loss check.
func CanMoveAnyDirection(g Grid) bool {
	for _, d := range Directions() {
		if CanMove(g, d) {
			return true
		}
	}
	return false
}

// PossibleMoves returns every direction that would change the grid.
func PossibleMoves(g Grid) []Direction {
	var moves []Direction
	for _, d := range Directions() {
		if CanMove(g, d) {
			moves = append(moves, d)
		}
	}
	return moves
}
