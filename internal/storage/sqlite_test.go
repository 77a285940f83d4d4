package storage

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

var baseTime = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func record(id string, score int, won bool, endedAfter time.Duration) GameRecord {
	return GameRecord{
		ID:        id,
		Score:     score,
		MaxTile:   256,
		Won:       won,
		Moves:     score / 4,
		StartedAt: baseTime,
		EndedAt:   baseTime.Add(endedAfter),
	}
}

func TestStoreOpenClose(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "nested", "test.db")

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer store.Close()

	// Check that the file was created
	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("Database file was not created")
	}
}

func TestStoreSaveAndGet(t *testing.T) {
	store := openTestStore(t)

	want := record("a", 1200, true, 90*time.Second+500*time.Millisecond)
	if err := store.SaveGame(want); err != nil {
		t.Fatalf("SaveGame() failed: %v", err)
	}

	got, err := store.Game("a")
	if err != nil {
		t.Fatalf("Game() failed: %v", err)
	}
	if got == nil {
		t.Fatal("Game() returned nil for saved record")
	}
	if got.Score != want.Score || got.MaxTile != want.MaxTile || got.Won != want.Won || got.Moves != want.Moves {
		t.Errorf("Game() = %+v, want %+v", *got, want)
	}
	if !got.StartedAt.Equal(want.StartedAt) || !got.EndedAt.Equal(want.EndedAt) {
		t.Errorf("times = %v..%v, want %v..%v", got.StartedAt, got.EndedAt, want.StartedAt, want.EndedAt)
	}
	if got.Duration() != 90*time.Second+500*time.Millisecond {
		t.Errorf("Duration() = %v", got.Duration())
	}

	missing, err := store.Game("nope")
	if err != nil || missing != nil {
		t.Errorf("Game(missing) = %v, %v; want nil, nil", missing, err)
	}
}

func TestStoreSaveGameUpserts(t *testing.T) {
	store := openTestStore(t)

	first := record("g1", 500, true, time.Minute)
	if err := store.SaveGame(first); err != nil {
		t.Fatal(err)
	}
	second := record("g1", 800, true, 2*time.Minute)
	if err := store.SaveGame(second); err != nil {
		t.Fatal(err)
	}

	stats, err := store.Stats()
	if err != nil {
		t.Fatalf("Stats() failed: %v", err)
	}
	if stats.GamesPlayed != 1 {
		t.Errorf("GamesPlayed = %d, want 1 after upsert", stats.GamesPlayed)
	}
	got, _ := store.Game("g1")
	if got == nil || got.Score != 800 {
		t.Errorf("Game(g1) = %+v, want score 800", got)
	}

	if err := store.SaveGame(GameRecord{}); err == nil {
		t.Error("SaveGame(empty id) should fail")
	}
}

func TestStoreRecentAndTop(t *testing.T) {
	store := openTestStore(t)

	games := []GameRecord{
		record("old", 300, false, time.Minute),
		record("mid", 900, true, 2*time.Minute),
		record("new", 100, false, 3*time.Minute),
	}
	for _, g := range games {
		if err := store.SaveGame(g); err != nil {
			t.Fatal(err)
		}
	}

	recent, err := store.RecentGames(2)
	if err != nil {
		t.Fatalf("RecentGames() failed: %v", err)
	}
	if len(recent) != 2 || recent[0].ID != "new" || recent[1].ID != "mid" {
		t.Errorf("RecentGames(2) = %v, want [new mid]", ids(recent))
	}

	top, err := store.TopGames(10)
	if err != nil {
		t.Fatalf("TopGames() failed: %v", err)
	}
	if len(top) != 3 || top[0].Score != 900 || top[1].Score != 300 || top[2].Score != 100 {
		t.Errorf("TopGames = %v", ids(top))
	}
}

func TestStoreBestScoreAndStats(t *testing.T) {
	store := openTestStore(t)

	best, err := store.BestScore()
	if err != nil {
		t.Fatalf("BestScore() failed: %v", err)
	}
	if best != 0 {
		t.Errorf("empty BestScore = %d, want 0", best)
	}

	empty, err := store.Stats()
	if err != nil {
		t.Fatalf("Stats() failed: %v", err)
	}
	if empty.GamesPlayed != 0 || !empty.LastPlayed.IsZero() {
		t.Errorf("empty Stats = %+v", empty)
	}

	_ = store.SaveGame(record("a", 400, true, time.Minute))
	_ = store.SaveGame(record("b", 1000, false, 2*time.Minute))
	_ = store.SaveGame(record("c", 100, true, 3*time.Minute))

	best, _ = store.BestScore()
	if best != 1000 {
		t.Errorf("BestScore = %d, want 1000", best)
	}

	stats, err := store.Stats()
	if err != nil {
		t.Fatal(err)
	}
	want := Stats{GamesPlayed: 3, GamesWon: 2, TotalScore: 1500, BestScore: 1000}
	if stats.GamesPlayed != want.GamesPlayed || stats.GamesWon != want.GamesWon ||
		stats.TotalScore != want.TotalScore || stats.BestScore != want.BestScore {
		t.Errorf("Stats = %+v, want %+v", stats, want)
	}
	if !stats.LastPlayed.Equal(baseTime.Add(3 * time.Minute)) {
		t.Errorf("LastPlayed = %v", stats.LastPlayed)
	}
}

func TestStorePruneAndClear(t *testing.T) {
	store := openTestStore(t)

	for i, id := range []string{"a", "b", "c", "d", "e"} {
		_ = store.SaveGame(record(id, 10*(i+1), false, time.Duration(i)*time.Minute))
	}

	n, err := store.PruneGames(2)
	if err != nil {
		t.Fatalf("PruneGames() failed: %v", err)
	}
	if n != 3 {
		t.Errorf("PruneGames deleted %d, want 3", n)
	}
	recent, _ := store.RecentGames(10)
	if len(recent) != 2 || recent[0].ID != "e" || recent[1].ID != "d" {
		t.Errorf("after prune = %v, want [e d]", ids(recent))
	}

	if err := store.ClearGames(); err != nil {
		t.Fatalf("ClearGames() failed: %v", err)
	}
	stats, _ := store.Stats()
	if stats.GamesPlayed != 0 {
		t.Errorf("GamesPlayed after clear = %d", stats.GamesPlayed)
	}
}

func TestStoreSaves(t *testing.T) {
	store := openTestStore(t)

	data, err := store.LoadState("default")
	if err != nil || data != nil {
		t.Errorf("LoadState(empty) = %q, %v; want nil, nil", data, err)
	}

	if err := store.SaveState("default", []byte(`{"score":4}`)); err != nil {
		t.Fatalf("SaveState() failed: %v", err)
	}
	if err := store.SaveState("default", []byte(`{"score":8}`)); err != nil {
		t.Fatalf("SaveState() overwrite failed: %v", err)
	}

	data, err = store.LoadState("default")
	if err != nil {
		t.Fatalf("LoadState() failed: %v", err)
	}
	if string(data) != `{"score":8}` {
		t.Errorf("LoadState = %s, want latest save", data)
	}

	if err := store.DeleteState("default"); err != nil {
		t.Fatalf("DeleteState() failed: %v", err)
	}
	if data, _ := store.LoadState("default"); data != nil {
		t.Errorf("state still present after delete: %s", data)
	}
}

func TestStorePersistence(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "test.db")

	store1, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	_ = store1.SaveGame(record("keep", 2048, true, time.Minute))
	store1.Close()

	store2, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() second time failed: %v", err)
	}
	defer store2.Close()

	best, _ := store2.BestScore()
	if best != 2048 {
		t.Errorf("BestScore after reopen = %d, want 2048", best)
	}
}

func ids(games []GameRecord) []string {
	out := make([]string, len(games))
	for i, g := range games {
		out[i] = g.ID
	}
	return out
}
