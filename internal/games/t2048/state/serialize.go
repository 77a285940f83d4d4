package state

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/vovakirdan/tui-2048/internal/games/t2048/board"
)

// document is the persisted JSON layout.
type document struct {
	Grid          [][]int `json:"grid"`
	Score         int     `json:"score"`
	BestScore     int     `json:"bestScore"`
	GameOver      bool    `json:"gameOver"`
	Won           bool    `json:"won"`
	CanContinue   bool    `json:"canContinue"`
	GameStarted   bool    `json:"gameStarted"`
	LastMoveValid bool    `json:"lastMoveValid"`
}

// Serialize encodes the full snapshot as JSON.
func (s *State) Serialize() ([]byte, error) {
	doc := document{
		Grid:          s.grid.Rows(),
		Score:         s.score,
		BestScore:     s.bestScore,
		GameOver:      s.over,
		Won:           s.won,
		CanContinue:   s.canContinue,
		GameStarted:   s.started,
		LastMoveValid: s.lastMoveValid,
	}
	data, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("state: serialize: %w", err)
	}
	return data, nil
}

// Deserialize loads a snapshot produced by Serialize.
//
// Fields are applied one at a time: a missing, null or invalid field keeps its
// current value and the rest of the document is still loaded. Only input
// that is not a JSON object at all is an error, and then nothing changes.
// The returned slice names the fields that were skipped.
func (s *State) Deserialize(data []byte) (skipped []string, err error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return nil, fmt.Errorf("state: deserialize: %w", err)
	}
	if fields == nil {
		return nil, errors.New("state: deserialize: document is not an object")
	}

	apply := func(name string, fn func(json.RawMessage) bool) {
		raw, ok := fields[name]
		if !ok {
			return
		}
		if string(raw) == "null" || !fn(raw) {
			skipped = append(skipped, name)
		}
	}

	apply("grid", func(raw json.RawMessage) bool {
		var rows [][]int
		if json.Unmarshal(raw, &rows) != nil {
			return false
		}
		g, err := board.FromRows(rows)
		if err != nil {
			return false
		}
		s.grid = g
		return true
	})
	apply("score", intField(func(v int) error { return s.SetScore(v) }))
	apply("bestScore", intField(func(v int) error { return s.SetBestScore(v) }))
	apply("gameOver", boolField(s.SetOver))
	apply("won", boolField(s.SetWon))
	apply("canContinue", boolField(s.SetCanContinue))
	apply("gameStarted", boolField(s.SetStarted))
	apply("lastMoveValid", boolField(s.SetLastMoveValid))

	return skipped, nil
}

// intField decodes an integer and hands it to a validating setter.
func intField(set func(int) error) func(json.RawMessage) bool {
	return func(raw json.RawMessage) bool {
		var v int
		if json.Unmarshal(raw, &v) != nil {
			return false
		}
		return set(v) == nil
	}
}

func boolField(set func(bool)) func(json.RawMessage) bool {
	return func(raw json.RawMessage) bool {
		var v bool
		if json.Unmarshal(raw, &v) != nil {
			return false
		}
		set(v)
		return true
	}
}
