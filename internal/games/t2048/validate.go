package t2048

import (
	"errors"
	"fmt"

	"github.com/vovakirdan/tui-2048/internal/games/t2048/board"
)

// ErrRepairFailed is returned by Validate when a detected corruption
// could not be fixed.
var ErrRepairFailed = errors.New("repair failed")

// IssueKind classifies a validation finding.
type IssueKind string

const (
	IssueInvalidGrid      IssueKind = "invalid_grid"
	IssueInvalidScore     IssueKind = "invalid_score"
	IssueInvalidBestScore IssueKind = "invalid_best_score"
	IssueLogicError       IssueKind = "logic_error"           // Over while a move exists
	IssueSuspiciousTile   IssueKind = "suspicious_tile_value" // Warning only
)

// Issue is one finding of Validate.
type Issue struct {
	Kind     IssueKind
	Detail   string
	Warning  bool // Reported but not repaired
	Repaired bool
}

// Report is the outcome of Validate.
type Report struct {
	Issues []Issue
}

// OK reports whether the state was consistent, ignoring warnings.
func (r Report) OK() bool {
	for _, is := range r.Issues {
		if !is.Warning {
			return false
		}
	}
	return true
}

// Has reports whether an issue of the given kind was found.
func (r Report) Has(kind IssueKind) bool {
	for _, is := range r.Issues {
		if is.Kind == kind {
			return true
		}
	}
	return false
}

// Validate checks the state for corruption and repairs what it can:
// negative scores are clamped to zero, a spurious over flag is cleared
// and a malformed grid restarts the game. Tiles above MaxSaneTile are
// reported as warnings.
func (e *Engine) Validate() (Report, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.validate()
}

func (e *Engine) validate() (Report, error) {
	var rep Report

	if err := board.Validate(e.state.Grid()); err != nil {
		is := Issue{Kind: IssueInvalidGrid, Detail: err.Error()}
		e.logIssue(is)

		e.initGame()
		if err := board.Validate(e.state.Grid()); err != nil {
			return rep, fmt.Errorf("t2048: %s: %w: %w", is.Kind, ErrRepairFailed, err)
		}
		is.Repaired = true
		rep.Issues = append(rep.Issues, is)
		// A fresh game has nothing else to check
		return rep, nil
	}

	if score := e.state.Score(); score < 0 {
		is := Issue{Kind: IssueInvalidScore, Detail: fmt.Sprintf("score %d", score)}
		e.logIssue(is)
		if err := e.state.SetScore(0); err != nil {
			return rep, fmt.Errorf("t2048: %s: %w: %w", is.Kind, ErrRepairFailed, err)
		}
		is.Repaired = true
		rep.Issues = append(rep.Issues, is)
	}

	if best := e.state.BestScore(); best < 0 {
		is := Issue{Kind: IssueInvalidBestScore, Detail: fmt.Sprintf("best score %d", best)}
		e.logIssue(is)
		if err := e.state.SetBestScore(0); err != nil {
			return rep, fmt.Errorf("t2048: %s: %w: %w", is.Kind, ErrRepairFailed, err)
		}
		is.Repaired = true
		rep.Issues = append(rep.Issues, is)
	}

	g := e.state.Grid()
	if e.state.Over() && board.CanMoveAnyDirection(g) {
		is := Issue{Kind: IssueLogicError, Detail: "marked over but a move is available"}
		e.logIssue(is)
		e.state.SetOver(false)
		is.Repaired = true
		rep.Issues = append(rep.Issues, is)
	}

	if maxTile := board.MaxTile(g); maxTile > e.rules.MaxSaneTile {
		is := Issue{
			Kind:    IssueSuspiciousTile,
			Detail:  fmt.Sprintf("max tile %d above %d", maxTile, e.rules.MaxSaneTile),
			Warning: true,
		}
		e.logIssue(is)
		rep.Issues = append(rep.Issues, is)
	}

	return rep, nil
}

func (e *Engine) logIssue(is Issue) {
	e.logger.Warn("state validation",
		"kind", is.Kind,
		"detail", is.Detail,
		"score", e.state.Score(),
		"best", e.state.BestScore(),
		"started", e.state.Started(),
		"over", e.state.Over(),
		"won", e.state.Won(),
	)
}
