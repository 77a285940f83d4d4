package t2048

// ScoreKeeper receives score events from the engine.
//
// BestScore and StartNewGame are called by InitGame, AddScore after every
// committed move, and EndGame when the game reaches a terminal edge.
// All calls happen while the engine lock is held.
type ScoreKeeper interface {
	BestScore() int
	StartNewGame()
	AddScore(delta int)
	EndGame(won bool, maxTile int)
}

// resumer is implemented by keepers that can pick up a restored session
// instead of opening a fresh game.
type resumer interface {
	ResumeGame(score int)
}

// NopScoreKeeper ignores every event.
type NopScoreKeeper struct{}

func (NopScoreKeeper) BestScore() int    { return 0 }
func (NopScoreKeeper) StartNewGame()     {}
func (NopScoreKeeper) AddScore(int)      {}
func (NopScoreKeeper) EndGame(bool, int) {}
