package tui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/tui-2048/internal/games/t2048"
	"github.com/vovakirdan/tui-2048/internal/games/t2048/board"
	"github.com/vovakirdan/tui-2048/internal/games/t2048/state"
	"github.com/vovakirdan/tui-2048/internal/scoring"
	"github.com/vovakirdan/tui-2048/internal/storage"
)

// firstCell always spawns a 2 in the first empty cell.
type firstCell struct{}

func (firstCell) Intn(int) int     { return 0 }
func (firstCell) Float64() float64 { return 0.5 }

type memSessions struct {
	saved   map[string][]byte
	deleted []string
}

func newMemSessions() *memSessions {
	return &memSessions{saved: make(map[string][]byte)}
}

func (s *memSessions) SaveState(slot string, data []byte) error {
	s.saved[slot] = data
	return nil
}

func (s *memSessions) LoadState(slot string) ([]byte, error) {
	return s.saved[slot], nil
}

func (s *memSessions) DeleteState(slot string) error {
	delete(s.saved, slot)
	s.deleted = append(s.deleted, slot)
	return nil
}

func newTestEngine(t *testing.T, g board.Grid, winTile int) *t2048.Engine {
	t.Helper()
	st := state.New()
	if err := st.SetGrid(g); err != nil {
		t.Fatal(err)
	}
	st.SetStarted(true)

	rules := t2048.DefaultRules()
	rules.WinTile = winTile
	return t2048.New(t2048.WithState(st), t2048.WithRand(firstCell{}), t2048.WithRules(rules))
}

func keyPress(s string) tea.KeyMsg {
	switch s {
	case "left":
		return tea.KeyMsg{Type: tea.KeyLeft}
	case "right":
		return tea.KeyMsg{Type: tea.KeyRight}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func send(t *testing.T, m Model, keys ...string) (Model, tea.Cmd) {
	t.Helper()
	var cmd tea.Cmd
	for _, k := range keys {
		var next tea.Model
		next, cmd = m.Update(keyPress(k))
		m = next.(Model)
	}
	return m, cmd
}

func TestGameKeyMapDirections(t *testing.T) {
	keys := DefaultGameKeyMap()
	tests := []struct {
		key  string
		want board.Direction
	}{
		{"left", board.Left},
		{"a", board.Left},
		{"h", board.Left},
		{"right", board.Right},
		{"d", board.Right},
		{"up", board.Up},
		{"w", board.Up},
		{"k", board.Up},
		{"down", board.Down},
		{"s", board.Down},
		{"j", board.Down},
	}
	for _, tt := range tests {
		got, ok := keys.Direction(keyPress(tt.key))
		if !ok || got != tt.want {
			t.Errorf("Direction(%q) = %v, %v; want %v", tt.key, got, ok, tt.want)
		}
	}
	if _, ok := keys.Direction(keyPress("r")); ok {
		t.Error("Direction(r) should not map to a move")
	}
}

func TestModelMove(t *testing.T) {
	e := newTestEngine(t, board.Grid{{2, 2, 0, 0}}, 2048)
	m, _ := send(t, NewModel(e), "left")

	if got := e.Snapshot().Grid[0]; got != [4]int{4, 2, 0, 0} {
		t.Errorf("row 0 = %v, want [4 2 0 0]", got)
	}
	if e.Snapshot().Score != 4 {
		t.Errorf("score = %d, want 4", e.Snapshot().Score)
	}

	m, _ = send(t, m, "up")
	if !strings.Contains(m.message, "Nothing moves") {
		t.Errorf("message = %q, want no-op notice", m.message)
	}
}

func TestModelWinHoldsMovesUntilContinue(t *testing.T) {
	e := newTestEngine(t, board.Grid{{4, 4, 0, 0}}, 8)
	m, _ := send(t, NewModel(e), "left")

	snap := e.Snapshot()
	if !snap.Won || snap.CanContinue {
		t.Fatalf("won/canContinue = %v/%v, want true/false", snap.Won, snap.CanContinue)
	}
	if !strings.Contains(m.View(), "YOU REACHED 8") {
		t.Error("win overlay not rendered")
	}

	before := e.Snapshot().Grid
	m, _ = send(t, m, "right")
	if e.Snapshot().Grid != before {
		t.Error("move applied while win overlay is shown")
	}

	m, _ = send(t, m, "c")
	if !e.Snapshot().CanContinue {
		t.Error("continue did not release the game")
	}
	send(t, m, "right")
	if e.Snapshot().Grid == before {
		t.Error("move after continue was not applied")
	}
}

func TestModelGameOverClearsSession(t *testing.T) {
	locked := board.Grid{
		{2, 4, 2, 4},
		{4, 2, 4, 2},
		{2, 4, 2, 4},
		{4, 2, 0, 8},
	}
	e := newTestEngine(t, locked, 2048)
	sessions := newMemSessions()
	sessions.saved["slot"] = []byte("{}")

	m, _ := send(t, NewModel(e, WithSessionStore(sessions, "slot")), "left")
	if !e.Snapshot().Over {
		t.Fatal("game should be over")
	}
	if _, ok := sessions.saved["slot"]; ok {
		t.Error("finished game left a save behind")
	}
	if !strings.Contains(m.View(), "GAME OVER") {
		t.Error("game over overlay not rendered")
	}

	send(t, m, "r")
	if e.Snapshot().Over || board.CountTiles(e.Snapshot().Grid) != 2 {
		t.Error("restart did not start a fresh game")
	}
}

func TestModelQuitSavesSession(t *testing.T) {
	e := newTestEngine(t, board.Grid{{2, 0, 0, 4}}, 2048)
	sessions := newMemSessions()

	m, cmd := send(t, NewModel(e, WithSessionStore(sessions, DefaultSlot)), "q")
	if cmd == nil {
		t.Error("quit returned no command")
	}
	if m.View() != "" {
		t.Error("view should be empty after quit")
	}
	if sessions.saved[DefaultSlot] == nil {
		t.Fatal("quit did not save the session")
	}

	resumed := t2048.New(t2048.WithRand(firstCell{}))
	if !StartSession(resumed, sessions, DefaultSlot, nil) {
		t.Fatal("StartSession did not resume the save")
	}
	if resumed.Snapshot().Grid != e.Snapshot().Grid {
		t.Errorf("resumed grid = %v, want %v", resumed.Snapshot().Grid, e.Snapshot().Grid)
	}
}

func TestStartSessionFallsBackToNewGame(t *testing.T) {
	sessions := newMemSessions()
	sessions.saved["broken"] = []byte("not json")

	tests := []struct {
		name     string
		sessions SessionStore
		slot     string
	}{
		{"no store", nil, DefaultSlot},
		{"empty slot", sessions, "missing"},
		{"broken save", sessions, "broken"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := t2048.New(t2048.WithSeed(1))
			if StartSession(e, tt.sessions, tt.slot, nil) {
				t.Error("StartSession reported a resume")
			}
			if board.CountTiles(e.Snapshot().Grid) != 2 {
				t.Error("new game was not started")
			}
		})
	}
}

func TestScoreboardTabs(t *testing.T) {
	rec := scoring.NewMemoryRecorder()
	_ = rec.SaveGame(storage.GameRecord{ID: "a", Score: 100, MaxTile: 64})
	_ = rec.SaveGame(storage.GameRecord{ID: "b", Score: 900, MaxTile: 256, Won: true})

	m := NewScoreboardModel(rec, 100, 30)
	if len(m.table.Rows()) != 2 {
		t.Fatalf("rows = %d, want 2", len(m.table.Rows()))
	}
	if m.table.Rows()[0][1] != "900" {
		t.Errorf("top row score = %s, want 900", m.table.Rows()[0][1])
	}

	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyTab})
	m = next.(ScoreboardModel)
	if m.tab != tabRecent {
		t.Errorf("tab = %d, want recent", m.tab)
	}

	next, _ = m.Update(keyPress("b"))
	if !next.(ScoreboardModel).IsGoingBack() {
		t.Error("back key did not leave the scoreboard")
	}
}
