package scoring

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/vovakirdan/tui-2048/internal/games/t2048/board"
	"github.com/vovakirdan/tui-2048/internal/storage"
)

// ExportVersion identifies the export document layout.
const ExportVersion = "1.0.0"

// ErrInvalidExport is returned by Import for documents it cannot read.
var ErrInvalidExport = errors.New("invalid export document")

type exportDocument struct {
	Statistics  Statistics           `json:"statistics"`
	GameHistory []storage.GameRecord `json:"gameHistory"`
	ExportDate  time.Time            `json:"exportDate"`
	Version     string               `json:"version"`
}

// Export returns statistics and history as indented JSON.
func (t *Tracker) Export() ([]byte, error) {
	stats, err := t.Statistics()
	if err != nil {
		return nil, fmt.Errorf("scoring: export: %w", err)
	}
	history, err := t.History(0)
	if err != nil {
		return nil, fmt.Errorf("scoring: export: %w", err)
	}
	if history == nil {
		history = []storage.GameRecord{}
	}

	doc := exportDocument{
		Statistics:  stats,
		GameHistory: history,
		ExportDate:  t.now().UTC(),
		Version:     ExportVersion,
	}
	return json.MarshalIndent(doc, "", "  ")
}

// ImportResult counts the records processed by Import.
type ImportResult struct {
	Imported int
	Skipped  int
}

// Import reads a document produced by Export and saves its history records.
// Each record is validated on its own: records with a negative score or
// move count, or a max tile that is not a power of two, are skipped.
// A record without an ID gets a fresh one. Statistics are recomputed from
// the recorder, so the document's statistics block is informational.
func (t *Tracker) Import(data []byte) (ImportResult, error) {
	var doc struct {
		GameHistory []json.RawMessage `json:"gameHistory"`
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		return ImportResult{}, fmt.Errorf("scoring: import: %w: %w", ErrInvalidExport, err)
	}
	if doc.GameHistory == nil {
		return ImportResult{}, fmt.Errorf("scoring: import: missing gameHistory: %w", ErrInvalidExport)
	}

	var res ImportResult
	for _, raw := range doc.GameHistory {
		rec, ok := decodeRecord(raw)
		if !ok {
			res.Skipped++
			continue
		}
		if err := t.rec.SaveGame(rec); err != nil {
			return res, fmt.Errorf("scoring: import: %w", err)
		}
		res.Imported++

		t.mu.Lock()
		t.best = max(t.best, rec.Score)
		t.mu.Unlock()
	}

	t.logger.Info("imported history", "imported", res.Imported, "skipped", res.Skipped)
	return res, nil
}

func decodeRecord(raw json.RawMessage) (storage.GameRecord, bool) {
	var rec storage.GameRecord
	if err := json.Unmarshal(raw, &rec); err != nil {
		return storage.GameRecord{}, false
	}
	if rec.Score < 0 || rec.Moves < 0 || !board.IsTileValue(rec.MaxTile) {
		return storage.GameRecord{}, false
	}
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	return rec, true
}
