package scoring

import (
	"cmp"
	"slices"
	"sync"

	"github.com/vovakirdan/tui-2048/internal/storage"
)

// Recorder persists game records. *storage.Store implements it.
type Recorder interface {
	SaveGame(rec storage.GameRecord) error
	RecentGames(limit int) ([]storage.GameRecord, error)
	TopGames(limit int) ([]storage.GameRecord, error)
	BestScore() (int, error)
	Stats() (storage.Stats, error)
	ClearGames() error
}

var _ Recorder = (*storage.Store)(nil)

// MemoryRecorder keeps records in memory. Used when no database is configured.
type MemoryRecorder struct {
	mu    sync.Mutex
	games []storage.GameRecord // Insertion order
}

// NewMemoryRecorder creates an empty in-memory recorder.
func NewMemoryRecorder() *MemoryRecorder {
	return &MemoryRecorder{}
}

func (m *MemoryRecorder) SaveGame(rec storage.GameRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i := range m.games {
		if m.games[i].ID == rec.ID {
			m.games[i] = rec
			return nil
		}
	}
	m.games = append(m.games, rec)
	return nil
}

func (m *MemoryRecorder) RecentGames(limit int) ([]storage.GameRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	games := slices.Clone(m.games)
	slices.Reverse(games)
	slices.SortStableFunc(games, func(a, b storage.GameRecord) int {
		return b.EndedAt.Compare(a.EndedAt)
	})
	return head(games, limit), nil
}

func (m *MemoryRecorder) TopGames(limit int) ([]storage.GameRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	games := slices.Clone(m.games)
	slices.SortStableFunc(games, func(a, b storage.GameRecord) int {
		return cmp.Compare(b.Score, a.Score)
	})
	return head(games, limit), nil
}

func (m *MemoryRecorder) BestScore() (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	best := 0
	for _, g := range m.games {
		best = max(best, g.Score)
	}
	return best, nil
}

func (m *MemoryRecorder) Stats() (storage.Stats, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var s storage.Stats
	for _, g := range m.games {
		s.GamesPlayed++
		if g.Won {
			s.GamesWon++
		}
		s.TotalScore += g.Score
		s.BestScore = max(s.BestScore, g.Score)
		if g.EndedAt.After(s.LastPlayed) {
			s.LastPlayed = g.EndedAt
		}
	}
	return s, nil
}

func (m *MemoryRecorder) ClearGames() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.games = nil
	return nil
}

func head(games []storage.GameRecord, limit int) []storage.GameRecord {
	if limit > 0 && len(games) > limit {
		return games[:limit]
	}
	return games
}
