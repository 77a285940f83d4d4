package board

import (
	"fmt"
	"strings"
)

// Direction represents a move direction.
type Direction int

const (
	Left Direction = iota
	Right
	Up
	Down
)

var directionNames = [...]string{
	Left:  "left",
	Right: "right",
	Up:    "up",
	Down:  "down",
}

// Directions returns the four moves in canonical order.
func Directions() []Direction {
	return []Direction{Left, Right, Up, Down}
}

// Valid reports whether d is one of the four moves.
func (d Direction) Valid() bool {
	return d >= Left && d <= Down
}

// String returns the lowercase token for the direction.
func (d Direction) String() string {
	if !d.Valid() {
		return fmt.Sprintf("Direction(%d)", int(d))
	}
	return directionNames[d]
}

// ParseDirection converts a token such as "left" or "UP" into a Direction.
func ParseDirection(s string) (Direction, error) {
	token := strings.ToLower(strings.TrimSpace(s))
	for i, name := range directionNames {
		if name == token {
			return Direction(i), nil
		}
	}
	return 0, fmt.Errorf("board: %q: %w", s, ErrInvalidDirection)
}
