package board

import (
	"errors"
	"math/rand"
	"slices"
	"testing"
)

func TestProcessLine(t *testing.T) {
	tests := []struct {
		name     string
		input    [Size]int
		expected [Size]int
		score    int
	}{
		{
			name:     "simple merge",
			input:    [Size]int{2, 2, 0, 0},
			expected: [Size]int{4, 0, 0, 0},
			score:    4,
		},
		{
			name:     "merge with trailing tile",
			input:    [Size]int{2, 2, 2, 0},
			expected: [Size]int{4, 2, 0, 0},
			score:    4,
		},
		{
			name:     "no chained merge",
			input:    [Size]int{2, 2, 2, 2},
			expected: [Size]int{4, 4, 0, 0},
			score:    8,
		},
		{
			name:     "greedy leftmost",
			input:    [Size]int{2, 2, 4, 4},
			expected: [Size]int{4, 8, 0, 0},
			score:    12,
		},
		{
			name:     "merged tile does not merge again",
			input:    [Size]int{4, 2, 2, 0},
			expected: [Size]int{4, 4, 0, 0},
			score:    4,
		},
		{
			name:     "no merge possible",
			input:    [Size]int{2, 4, 8, 16},
			expected: [Size]int{2, 4, 8, 16},
			score:    0,
		},
		{
			name:     "slide with gap",
			input:    [Size]int{0, 0, 2, 2},
			expected: [Size]int{4, 0, 0, 0},
			score:    4,
		},
		{
			name:     "slide with multiple gaps",
			input:    [Size]int{2, 0, 0, 2},
			expected: [Size]int{4, 0, 0, 0},
			score:    4,
		},
		{
			name:     "empty row",
			input:    [Size]int{0, 0, 0, 0},
			expected: [Size]int{0, 0, 0, 0},
			score:    0,
		},
		{
			name:     "single tile",
			input:    [Size]int{0, 4, 0, 0},
			expected: [Size]int{4, 0, 0, 0},
			score:    0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, score := ProcessLine(tt.input)
			if result != tt.expected {
				t.Errorf("ProcessLine(%v) = %v, want %v", tt.input, result, tt.expected)
			}
			if score != tt.score {
				t.Errorf("ProcessLine(%v) score = %d, want %d", tt.input, score, tt.score)
			}
		})
	}
}

func TestTransformDirections(t *testing.T) {
	start := Grid{
		{2, 2, 0, 0},
		{4, 0, 4, 0},
		{2, 2, 2, 2},
		{0, 0, 0, 2},
	}

	tests := []struct {
		dir      Direction
		expected Grid
		score    int
	}{
		{
			dir: Left,
			expected: Grid{
				{4, 0, 0, 0},
				{8, 0, 0, 0},
				{4, 4, 0, 0},
				{2, 0, 0, 0},
			},
			score: 20,
		},
		{
			dir: Right,
			expected: Grid{
				{0, 0, 0, 4},
				{0, 0, 0, 8},
				{0, 0, 4, 4},
				{0, 0, 0, 2},
			},
			score: 20,
		},
		{
			dir: Up,
			expected: Grid{
				{2, 4, 4, 4},
				{4, 0, 2, 0},
				{2, 0, 0, 0},
				{0, 0, 0, 0},
			},
			score: 8,
		},
		{
			dir: Down,
			expected: Grid{
				{0, 0, 0, 0},
				{2, 0, 0, 0},
				{4, 0, 4, 0},
				{2, 4, 2, 4},
			},
			score: 8,
		},
	}

	for _, tt := range tests {
		t.Run(tt.dir.String(), func(t *testing.T) {
			res, err := Transform(start, tt.dir)
			if err != nil {
				t.Fatalf("Transform(%v) error: %v", tt.dir, err)
			}
			if res.Grid != tt.expected {
				t.Errorf("Transform(%v): got\n%v\nwant\n%v", tt.dir, res.Grid, tt.expected)
			}
			if res.ScoreDelta != tt.score {
				t.Errorf("Transform(%v) score = %d, want %d", tt.dir, res.ScoreDelta, tt.score)
			}
			if !res.Moved {
				t.Errorf("Transform(%v) should report moved", tt.dir)
			}
		})
	}
}

func TestTransformLeftScenario(t *testing.T) {
	g := Grid{{2, 0, 2, 0}}

	res, err := Transform(g, Left)
	if err != nil {
		t.Fatalf("Transform error: %v", err)
	}
	if res.Grid[0] != [Size]int{4, 0, 0, 0} {
		t.Errorf("row 0 = %v, want [4 0 0 0]", res.Grid[0])
	}
	if res.ScoreDelta != 4 {
		t.Errorf("score = %d, want 4", res.ScoreDelta)
	}
	if !res.Moved {
		t.Error("move should be reported")
	}
}

func TestTransformLockedGrid(t *testing.T) {
	g := Grid{
		{2, 4, 8, 16},
		{32, 64, 128, 256},
		{512, 1024, 2048, 4096},
		{8192, 16384, 32768, 65536},
	}

	for _, d := range Directions() {
		res, err := Transform(g, d)
		if err != nil {
			t.Fatalf("Transform(%v) error: %v", d, err)
		}
		if res.Moved {
			t.Errorf("Transform(%v) moved a locked grid", d)
		}
		if res.Grid != g {
			t.Errorf("Transform(%v) changed a locked grid", d)
		}
	}

	if CanMoveAnyDirection(g) {
		t.Error("locked grid should have no legal move")
	}
}

func TestTransformDoesNotAliasInput(t *testing.T) {
	g := Grid{{2, 2, 0, 0}}
	orig := g

	if _, err := Transform(g, Left); err != nil {
		t.Fatal(err)
	}
	if g != orig {
		t.Errorf("input grid mutated: %v", g)
	}
}

func TestTransformRejectsInvalidInput(t *testing.T) {
	bad := Grid{{3, 0, 0, 0}}
	if _, err := Transform(bad, Left); !errors.Is(err, ErrInvalidGrid) {
		t.Errorf("Transform(non power of two) err = %v, want ErrInvalidGrid", err)
	}

	neg := Grid{{-2, 0, 0, 0}}
	if _, err := Transform(neg, Left); !errors.Is(err, ErrInvalidGrid) {
		t.Errorf("Transform(negative) err = %v, want ErrInvalidGrid", err)
	}

	if _, err := Transform(Grid{}, Direction(9)); !errors.Is(err, ErrInvalidDirection) {
		t.Errorf("Transform(bad direction) err = %v, want ErrInvalidDirection", err)
	}

	if CanMove(bad, Left) {
		t.Error("CanMove should be false for an invalid grid")
	}
}

func TestPossibleMoves(t *testing.T) {
	g := Grid{
		{2, 0, 0, 0},
		{0, 0, 0, 0},
		{0, 0, 0, 0},
		{0, 0, 0, 0},
	}

	got := PossibleMoves(g)
	want := []Direction{Right, Down}
	if !slices.Equal(got, want) {
		t.Errorf("PossibleMoves = %v, want %v", got, want)
	}
}

// randomGrid builds a valid grid with a mix of empty cells and small tiles.
func randomGrid(rng *rand.Rand) Grid {
	var g Grid
	for row := range Size {
		for col := range Size {
			if rng.Intn(3) == 0 {
				continue
			}
			g[row][col] = 1 << (1 + rng.Intn(5))
		}
	}
	return g
}

// randomFullGrid builds a grid without empty cells.
func randomFullGrid(rng *rand.Rand) Grid {
	var g Grid
	for row := range Size {
		for col := range Size {
			g[row][col] = 1 << (1 + rng.Intn(6))
		}
	}
	return g
}

func tileSum(g Grid) int {
	sum := 0
	for row := range Size {
		for col := range Size {
			sum += g[row][col]
		}
	}
	return sum
}

func TestPropertyConservation(t *testing.T) {
	rng := rand.New(rand.NewSource(1))

	for i := 0; i < 2000; i++ {
		g := randomGrid(rng)
		for _, d := range Directions() {
			res := MustTransform(g, d)

			if tileSum(res.Grid) != tileSum(g) {
				t.Fatalf("Transform(%v) changed tile sum: %d -> %d\n%v", d, tileSum(g), tileSum(res.Grid), g)
			}

			merges := CountTiles(g) - CountTiles(res.Grid)
			if merges < 0 {
				t.Fatalf("Transform(%v) increased tile count\n%v", d, g)
			}
			if merges == 0 && res.ScoreDelta != 0 {
				t.Fatalf("Transform(%v) scored %d without merging\n%v", d, res.ScoreDelta, g)
			}
			if merges > 0 && res.ScoreDelta == 0 {
				t.Fatalf("Transform(%v) merged without scoring\n%v", d, g)
			}
			if err := Validate(res.Grid); err != nil {
				t.Fatalf("Transform(%v) produced invalid grid: %v", d, err)
			}
		}
	}
}

func TestRepeatedMoveOnlyMergesAgain(t *testing.T) {
	tests := []struct {
		name       string
		grid       Grid
		d          Direction
		wantOnce   Grid
		wantTwice  Grid
		wantMoved2 bool
	}{
		{
			name:       "merged column merges again",
			grid:       Grid{{0, 8}, {0, 8}, {0, 0}, {0, 16}},
			d:          Up,
			wantOnce:   Grid{{0, 16}, {0, 16}, {0, 0}, {0, 0}},
			wantTwice:  Grid{{0, 32}, {0, 0}, {0, 0}, {0, 0}},
			wantMoved2: true,
		},
		{
			name:      "slide only is stable",
			grid:      Grid{{0, 2, 0, 4}},
			d:         Left,
			wantOnce:  Grid{{2, 4, 0, 0}},
			wantTwice: Grid{{2, 4, 0, 0}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			once := MustTransform(tt.grid, tt.d)
			if once.Grid != tt.wantOnce {
				t.Fatalf("first %v = %v, want %v", tt.d, once.Grid, tt.wantOnce)
			}
			twice := MustTransform(once.Grid, tt.d)
			if twice.Grid != tt.wantTwice || twice.Moved != tt.wantMoved2 {
				t.Errorf("second %v = %v (moved %v), want %v (moved %v)",
					tt.d, twice.Grid, twice.Moved, tt.wantTwice, tt.wantMoved2)
			}
		})
	}
}

func TestPropertyRepeatedDirection(t *testing.T) {
	rng := rand.New(rand.NewSource(2))

	for i := 0; i < 2000; i++ {
		g := randomGrid(rng)
		for _, d := range Directions() {
			once := MustTransform(g, d)
			twice := MustTransform(once.Grid, d)
			if once.ScoreDelta == 0 && twice.Moved {
				t.Fatalf("second %v move changed a grid the first move did not merge\nstart:\n%v\nafter one:\n%v", d, g, once.Grid)
			}
			// Tiles are packed after one move, so only a merge can move them
			if twice.Moved && twice.ScoreDelta == 0 {
				t.Fatalf("second %v move slid without merging\nstart:\n%v\nafter one:\n%v", d, g, once.Grid)
			}
		}
	}
}

func TestTransformRejectsOverflowingMerge(t *testing.T) {
	g := Grid{{MaxTileValue, MaxTileValue, 0, 0}}

	res, err := Transform(g, Left)
	if !errors.Is(err, ErrInvalidGrid) {
		t.Fatalf("Transform() err = %v, want ErrInvalidGrid", err)
	}
	if res.Grid != g {
		t.Errorf("Transform() grid = %v, want input unchanged", res.Grid)
	}
	if CanMove(g, Left) {
		t.Error("CanMove(Left) = true for an overflowing merge")
	}
	if !CanMove(g, Down) {
		t.Error("CanMove(Down) = false, sliding is still legal")
	}

	if _, err := Transform(Grid{{1 << 62, 1 << 62}}, Left); !errors.Is(err, ErrInvalidGrid) {
		t.Errorf("Transform(1<<62 pair) err = %v, want ErrInvalidGrid", err)
	}
}

func TestPropertySymmetry(t *testing.T) {
	rng := rand.New(rand.NewSource(3))

	for i := 0; i < 2000; i++ {
		g := randomGrid(rng)

		right := MustTransform(g, Right)
		mirrored := MustTransform(Reverse(g), Left)
		if right.Grid != Reverse(mirrored.Grid) || right.ScoreDelta != mirrored.ScoreDelta {
			t.Fatalf("right/left symmetry broken for\n%v", g)
		}

		up := MustTransform(g, Up)
		upViaLeft := MustTransform(Transpose(g), Left)
		if up.Grid != Transpose(upViaLeft.Grid) || up.ScoreDelta != upViaLeft.ScoreDelta {
			t.Fatalf("up/left transpose relation broken for\n%v", g)
		}

		down := MustTransform(g, Down)
		downViaRight := MustTransform(Transpose(g), Right)
		if down.Grid != Transpose(downViaRight.Grid) || down.ScoreDelta != downViaRight.ScoreDelta {
			t.Fatalf("down/right transpose relation broken for\n%v", g)
		}
	}
}

func TestPropertyLossDetectionConsistency(t *testing.T) {
	rng := rand.New(rand.NewSource(4))

	for i := 0; i < 2000; i++ {
		g := randomFullGrid(rng)

		anyMoved := false
		for _, d := range Directions() {
			if MustTransform(g, d).Moved {
				anyMoved = true
			}
		}
		if CanMoveAnyDirection(g) != anyMoved {
			t.Fatalf("CanMoveAnyDirection = %v, transforms moved = %v\n%v", !anyMoved, anyMoved, g)
		}
	}
}
