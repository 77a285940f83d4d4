package t2048

import (
	"fmt"

	"github.com/vovakirdan/tui-2048/internal/games/t2048/board"
)

// Save serializes the current state so it can be resumed later.
func (e *Engine) Save() ([]byte, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state.Serialize()
}

// Resume loads a state produced by Save and validates it.
// Fields that could not be decoded are returned in skipped and keep the
// values of a fresh state. A document without a valid grid starts a new game,
// and a document that is not a JSON object leaves the current game in place.
func (e *Engine) Resume(data []byte) (skipped []string, err error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	prev, err := e.state.Serialize()
	if err != nil {
		return nil, fmt.Errorf("t2048: resume: %w", err)
	}

	keeperBest := e.scores.BestScore()
	e.state.Reset()
	skipped, err = e.state.Deserialize(data)
	if err != nil {
		// Put the previous game back
		e.state.Reset()
		_, _ = e.state.Deserialize(prev)
		return nil, fmt.Errorf("t2048: resume: %w", err)
	}
	if len(skipped) > 0 {
		e.logger.Warn("resume skipped fields", "fields", skipped)
	}

	if board.CountTiles(e.state.Grid()) == 0 {
		e.initGame()
		return skipped, nil
	}

	if _, err := e.validate(); err != nil {
		return skipped, fmt.Errorf("t2048: resume: %w", err)
	}
	if keeperBest > e.state.BestScore() {
		if err := e.state.SetBestScore(keeperBest); err != nil {
			e.logger.Warn("ignoring best score", "best", keeperBest, "err", err)
		}
	}

	e.state.SetStarted(true)
	e.moves = 0
	if r, ok := e.scores.(resumer); ok {
		r.ResumeGame(e.state.Score())
	} else {
		e.scores.StartNewGame()
	}
	e.logger.Debug("resumed", "score", e.state.Score(), "best", e.state.BestScore())

	// A saved grid can already be locked; no move would ever run the check
	e.checkStatus()
	return skipped, nil
}
