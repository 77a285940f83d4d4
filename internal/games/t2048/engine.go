// Package t2048 implements the 2048 rule engine: it sequences a move through
// the board transform, commits the result into the game state, spawns a
// random tile and evaluates win and loss.
package t2048

import (
	"io"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-2048/internal/games/t2048/board"
	"github.com/vovakirdan/tui-2048/internal/games/t2048/state"
)

// StateStore is the game state the engine drives. *state.State implements it.
type StateStore interface {
	Grid() board.Grid
	SetGrid(g board.Grid) error
	SetTile(row, col, v int) error
	EmptyCells() []board.Cell

	Score() int
	SetScore(score int) error
	AddScore(points int) error
	BestScore() int
	SetBestScore(best int) error

	Started() bool
	Over() bool
	Won() bool
	CanContinue() bool
	LastMoveValid() bool
	SetStarted(v bool)
	SetOver(v bool)
	SetWon(v bool)
	SetCanContinue(v bool)
	SetLastMoveValid(v bool)

	Reset()
	Snapshot() state.Snapshot
	Serialize() ([]byte, error)
	Deserialize(data []byte) ([]string, error)
}

// Engine runs one game session. All exported methods are safe for
// concurrent use; a move and its spawn and status check run under one lock.
type Engine struct {
	mu sync.Mutex

	state  StateStore
	scores ScoreKeeper
	rng    Rand
	rules  Rules
	logger *log.Logger

	moves int // Committed moves since InitGame
}

// Option configures an Engine.
type Option func(*Engine)

// WithState sets the state the engine drives. Defaults to state.New().
func WithState(s StateStore) Option {
	return func(e *Engine) { e.state = s }
}

// WithScoreKeeper sets the scoring collaborator. Defaults to NopScoreKeeper.
func WithScoreKeeper(k ScoreKeeper) Option {
	return func(e *Engine) { e.scores = k }
}

// WithRand sets the random source used for tile spawning.
func WithRand(r Rand) Option {
	return func(e *Engine) { e.rng = r }
}

// WithSeed uses a deterministic random source.
func WithSeed(seed int64) Option {
	return func(e *Engine) { e.rng = NewRand(seed) }
}

// WithRules overrides the default rules.
func WithRules(r Rules) Option {
	return func(e *Engine) { e.rules = r }
}

// WithLogger sets the diagnostics logger. The default discards output.
func WithLogger(l *log.Logger) Option {
	return func(e *Engine) { e.logger = l }
}

// New creates an engine. The game is not started until InitGame is called.
func New(opts ...Option) *Engine {
	e := &Engine{
		rules: DefaultRules(),
	}
	for _, opt := range opts {
		opt(e)
	}

	if e.state == nil {
		e.state = state.New()
	}
	if e.scores == nil {
		e.scores = NopScoreKeeper{}
	}
	if e.rng == nil {
		e.rng = defaultRand()
	}
	if e.logger == nil {
		e.logger = log.New(io.Discard)
	}
	return e
}

// Rules returns the rules the engine plays by.
func (e *Engine) Rules() Rules {
	return e.rules
}

// InitGame resets the state, loads the best score and places the initial tiles.
func (e *Engine) InitGame() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.initGame()
}

// Restart starts a new game. The best score is kept.
func (e *Engine) Restart() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.logger.Debug("restart", "score", e.state.Score(), "moves", e.moves)
	e.initGame()
}

func (e *Engine) initGame() {
	e.state.Reset()

	best := max(e.state.BestScore(), e.scores.BestScore())
	if err := e.state.SetBestScore(best); err != nil {
		e.logger.Warn("ignoring best score", "best", best, "err", err)
	}
	e.scores.StartNewGame()
	e.moves = 0

	for range e.rules.InitialTiles {
		e.addRandomTile()
	}
	e.state.SetStarted(true)

	e.logger.Debug("game initialized", "best", e.state.BestScore(), "grid", e.state.Grid().String())
}

// Move applies a move in direction d. It returns false, without spawning
// a tile or touching the score, when d is invalid, the game is over or
// nothing on the board would move.
func (e *Engine) Move(d board.Direction) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.move(d)
}

// MoveToken parses a direction name ("left", "up", ...) and applies it.
func (e *Engine) MoveToken(token string) bool {
	d, err := board.ParseDirection(token)
	if err != nil {
		e.logger.Warn("rejected move", "token", token, "err", err)
		return false
	}
	return e.Move(d)
}

func (e *Engine) move(d board.Direction) bool {
	if !d.Valid() {
		e.logger.Warn("rejected move", "direction", int(d))
		return false
	}
	if e.state.Over() {
		e.logger.Debug("move after game over", "direction", d)
		return false
	}

	res, err := board.Transform(e.state.Grid(), d)
	if err != nil {
		e.logger.Error("transform failed", "direction", d, "err", err)
		return false
	}
	if !res.Moved {
		e.state.SetLastMoveValid(false)
		return false
	}

	if err := e.state.SetGrid(res.Grid); err != nil {
		e.logger.Error("commit grid", "err", err)
		return false
	}
	if err := e.state.AddScore(res.ScoreDelta); err != nil {
		e.logger.Error("commit score", "err", err)
		return false
	}
	e.state.SetLastMoveValid(true)
	e.moves++

	if score := e.state.Score(); score > e.state.BestScore() {
		if err := e.state.SetBestScore(score); err != nil {
			e.logger.Warn("ignoring best score", "best", score, "err", err)
		}
	}
	e.scores.AddScore(res.ScoreDelta)

	e.addRandomTile()
	e.checkStatus()
	return true
}

// AddRandomTile places a 2 or a 4 on a random empty cell.
// It returns false when the grid is full.
func (e *Engine) AddRandomTile() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.addRandomTile()
}

func (e *Engine) addRandomTile() bool {
	cells := e.state.EmptyCells()
	if len(cells) == 0 {
		return false
	}

	// Pick random empty cell
	cell := cells[e.rng.Intn(len(cells))]

	value := 2
	if e.rng.Float64() < e.rules.Spawn4Probability {
		value = 4
	}

	if err := e.state.SetTile(cell.Row, cell.Col, value); err != nil {
		e.logger.Error("spawn tile", "row", cell.Row, "col", cell.Col, "err", err)
		return false
	}
	return true
}

// CanMove reports whether any direction would change the board.
func (e *Engine) CanMove() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return board.CanMoveAnyDirection(e.state.Grid())
}

// PossibleMoves returns the directions that would change the board,
// in Left, Right, Up, Down order.
func (e *Engine) PossibleMoves() []board.Direction {
	e.mu.Lock()
	defer e.mu.Unlock()
	return board.PossibleMoves(e.state.Grid())
}

// Preview is the outcome of a move that has not been committed.
type Preview struct {
	Direction  board.Direction
	Grid       board.Grid
	ScoreDelta int
	Moved      bool
	NewScore   int // Score after the move, before any spawn
}

// PreviewMove computes the result of moving in direction d without
// changing any state.
func (e *Engine) PreviewMove(d board.Direction) (Preview, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	res, err := board.Transform(e.state.Grid(), d)
	if err != nil {
		return Preview{}, err
	}
	return Preview{
		Direction:  d,
		Grid:       res.Grid,
		ScoreDelta: res.ScoreDelta,
		Moved:      res.Moved,
		NewScore:   e.state.Score() + res.ScoreDelta,
	}, nil
}

// Snapshot returns a copy of the current state for renderers.
func (e *Engine) Snapshot() state.Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state.Snapshot()
}

// Moves returns the number of committed moves in the current game.
func (e *Engine) Moves() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.moves
}

// SetCanContinue records whether the host lets play go on after a win.
// The engine stores the flag but does not act on it.
func (e *Engine) SetCanContinue(v bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.state.SetCanContinue(v)
}
