// Package scoring tracks the current and best score and records finished
// games through a Recorder.
package scoring

import (
	"io"
	"math"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/vovakirdan/tui-2048/internal/storage"
)

// DefaultHistorySize is the number of games returned by History when no
// size is configured.
const DefaultHistorySize = 100

// Tracker implements t2048.ScoreKeeper on top of a Recorder.
//
// A game gets one record for its whole life: reaching the win tile and
// later losing updates the same record, and the won flag stays set.
type Tracker struct {
	mu sync.Mutex

	rec         Recorder
	logger      *log.Logger
	historySize int
	now         func() time.Time

	best    int
	current *storage.GameRecord // Open game, nil before StartNewGame
	lastErr error
}

// Option configures a Tracker.
type Option func(*Tracker)

// WithHistorySize caps the number of games returned by History.
func WithHistorySize(n int) Option {
	return func(t *Tracker) {
		if n > 0 {
			t.historySize = n
		}
	}
}

// WithLogger sets the logger for persistence errors.
func WithLogger(l *log.Logger) Option {
	return func(t *Tracker) { t.logger = l }
}

// WithClock overrides time.Now.
func WithClock(now func() time.Time) Option {
	return func(t *Tracker) { t.now = now }
}

// NewTracker creates a tracker and loads the best score from rec.
func NewTracker(rec Recorder, opts ...Option) (*Tracker, error) {
	t := &Tracker{
		rec:         rec,
		historySize: DefaultHistorySize,
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(t)
	}
	if t.logger == nil {
		t.logger = log.New(io.Discard)
	}

	best, err := rec.BestScore()
	if err != nil {
		return nil, err
	}
	t.best = best
	return t, nil
}

// BestScore returns the best score seen, including the running game.
func (t *Tracker) BestScore() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.best
}

// CurrentScore returns the score of the open game.
func (t *Tracker) CurrentScore() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.current == nil {
		return 0
	}
	return t.current.Score
}

// CurrentID returns the record ID of the open game, or "".
func (t *Tracker) CurrentID() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.current == nil {
		return ""
	}
	return t.current.ID
}

// StartNewGame opens a new record.
func (t *Tracker) StartNewGame() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.open(0)
}

// ResumeGame opens a new record for a restored session that already has points.
func (t *Tracker) ResumeGame(score int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.open(score)
	t.best = max(t.best, score)
}

func (t *Tracker) open(score int) {
	t.current = &storage.GameRecord{
		ID:        uuid.NewString(),
		Score:     score,
		StartedAt: t.now(),
	}
}

// AddScore adds the points of one committed move.
func (t *Tracker) AddScore(delta int) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.current == nil {
		t.open(0)
	}
	if delta > 0 {
		t.current.Score += delta
	}
	t.current.Moves++
	t.best = max(t.best, t.current.Score)
}

// EndGame records the open game. It may be called twice for one game,
// once on the win and once on the loss.
func (t *Tracker) EndGame(won bool, maxTile int) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.current == nil {
		t.open(0)
	}
	c := t.current
	c.Won = c.Won || won
	c.MaxTile = max(c.MaxTile, maxTile)
	c.EndedAt = t.now()

	if err := t.rec.SaveGame(*c); err != nil {
		t.lastErr = err
		t.logger.Error("cannot record game", "id", c.ID, "score", c.Score, "err", err)
		return
	}
	t.logger.Debug("game recorded", "id", c.ID, "score", c.Score, "won", c.Won, "max_tile", c.MaxTile)
}

// Err returns the last persistence error, if any.
func (t *Tracker) Err() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.lastErr
}

// Statistics summarizes all recorded games.
type Statistics struct {
	CurrentScore int `json:"currentScore"`
	BestScore    int `json:"bestScore"`
	GamesPlayed  int `json:"gamesPlayed"`
	GamesWon     int `json:"gamesWon"`
	WinRate      int `json:"winRate"` // Percent, rounded
	TotalScore   int `json:"totalScore"`
	AverageScore int `json:"averageScore"` // Rounded
	HistoryCount int `json:"historyCount"`
}

// Statistics returns aggregate statistics from the recorder.
func (t *Tracker) Statistics() (Statistics, error) {
	stats, err := t.rec.Stats()
	if err != nil {
		return Statistics{}, err
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	s := Statistics{
		BestScore:    max(t.best, stats.BestScore),
		GamesPlayed:  stats.GamesPlayed,
		GamesWon:     stats.GamesWon,
		TotalScore:   stats.TotalScore,
		HistoryCount: min(stats.GamesPlayed, t.historySize),
	}
	if t.current != nil {
		s.CurrentScore = t.current.Score
	}
	if stats.GamesPlayed > 0 {
		s.WinRate = int(math.Round(float64(stats.GamesWon) / float64(stats.GamesPlayed) * 100))
		s.AverageScore = int(math.Round(float64(stats.TotalScore) / float64(stats.GamesPlayed)))
	}
	return s, nil
}

// History returns up to limit recorded games, newest first.
// The limit is capped at the history size.
func (t *Tracker) History(limit int) ([]storage.GameRecord, error) {
	if limit <= 0 || limit > t.historySize {
		limit = t.historySize
	}
	return t.rec.RecentGames(limit)
}

// BestRecord returns the highest scoring game, or nil if none is recorded.
func (t *Tracker) BestRecord() (*storage.GameRecord, error) {
	top, err := t.rec.TopGames(1)
	if err != nil {
		return nil, err
	}
	if len(top) == 0 {
		return nil, nil
	}
	return &top[0], nil
}

// Clear deletes all recorded games and resets the best score.
func (t *Tracker) Clear() error {
	if err := t.rec.ClearGames(); err != nil {
		return err
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	t.best = 0
	if t.current != nil {
		t.best = t.current.Score
	}
	return nil
}
