package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/tui-2048/internal/games/t2048/board"
	"github.com/vovakirdan/tui-2048/internal/games/t2048/state"
)

const (
	tileWidth  = 7
	tileHeight = 3
)

// tileColors maps tile values to foreground/background colors (256-color palette).
var tileColors = map[int][2]string{
	0:    {"240", "236"},
	2:    {"235", "255"},
	4:    {"235", "230"},
	8:    {"255", "215"},
	16:   {"255", "209"},
	32:   {"255", "203"},
	64:   {"255", "196"},
	128:  {"235", "228"},
	256:  {"235", "227"},
	512:  {"235", "226"},
	1024: {"235", "220"},
	2048: {"235", "214"},
}

// bigTileColors is used for tiles above 2048.
var bigTileColors = [2]string{"255", "57"}

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("229"))

	scoreBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(0, 1)

	boardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240"))

	overlayStyle = lipgloss.NewStyle().
			Border(lipgloss.DoubleBorder()).
			BorderForeground(lipgloss.Color("229")).
			Padding(1, 3).
			Align(lipgloss.Center)

	messageStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			Italic(true)

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))
)

func tileStyle(v int) lipgloss.Style {
	colors, ok := tileColors[v]
	if !ok {
		colors = bigTileColors
	}
	return lipgloss.NewStyle().
		Width(tileWidth).
		Height(tileHeight).
		Align(lipgloss.Center, lipgloss.Center).
		Bold(v >= 8).
		Foreground(lipgloss.Color(colors[0])).
		Background(lipgloss.Color(colors[1]))
}

// renderTile draws a single cell. Empty cells are blank tiles.
func renderTile(v int) string {
	label := ""
	if v != 0 {
		label = strconv.Itoa(v)
	}
	return tileStyle(v).Render(label)
}

// renderBoard draws the grid inside a rounded border.
func renderBoard(g board.Grid) string {
	rows := make([]string, board.Size)
	for r := range board.Size {
		cells := make([]string, 0, board.Size*2-1)
		for c := range board.Size {
			if c > 0 {
				cells = append(cells, " ")
			}
			cells = append(cells, renderTile(g[r][c]))
		}
		rows[r] = lipgloss.JoinHorizontal(lipgloss.Top, cells...)
	}
	return boardStyle.Render(strings.Join(rows, "\n"))
}

// renderHUD draws the title and score boxes.
func renderHUD(snap state.Snapshot, winTile int) string {
	score := scoreBoxStyle.Render(fmt.Sprintf("SCORE\n%d", snap.Score))
	best := scoreBoxStyle.Render(fmt.Sprintf("BEST\n%d", snap.BestScore))
	title := titleStyle.Render(strconv.Itoa(winTile))
	return lipgloss.JoinHorizontal(lipgloss.Center, title, "   ", score, " ", best)
}

// renderOverlay draws a centered message box.
func renderOverlay(lines ...string) string {
	return overlayStyle.Render(strings.Join(lines, "\n"))
}

// centerText centers text in the given width.
func centerText(text string, width int) string {
	return lipgloss.PlaceHorizontal(width, lipgloss.Center, text)
}
