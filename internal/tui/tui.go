// Package tui is a terminal front end for a single game. The keyboard plays
// the human side; a bot, when present, can be asked for one move or left to
// play on its own.
package tui

import (
	"errors"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vancomm/probasweeper/internal/mines"
	"github.com/vancomm/probasweeper/internal/solver"
)

const progressWidth = 30

var (
	hiddenStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	flagStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Bold(true)
	mineStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
	clueStyles    = [9]lipgloss.Style{}
	statusStyle   = lipgloss.NewStyle().Bold(true)
	helpStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	progressStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
)

func init() {
	colors := [9]string{"7", "12", "10", "9", "4", "1", "6", "0", "8"}
	for i, c := range colors {
		clueStyles[i] = lipgloss.NewStyle().Foreground(lipgloss.Color(c))
	}
}

type tickMsg time.Time

func tick(delay time.Duration) tea.Cmd {
	return tea.Tick(delay, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

type Model struct {
	game     *mines.Game
	bot      solver.Player
	delay    time.Duration
	x, y     int
	autoplay bool
	status   string
}

// New returns a model for game. bot may be nil, in which case only the
// keyboard plays. With autoplay set the bot starts playing right away.
func New(game *mines.Game, bot solver.Player, delay time.Duration, autoplay bool) Model {
	return Model{
		game:     game,
		bot:      bot,
		delay:    delay,
		autoplay: autoplay && bot != nil,
	}
}

func (m Model) Game() *mines.Game {
	return m.game
}

func (m Model) Init() tea.Cmd {
	if m.autoplay {
		return tick(m.delay)
	}
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.key(msg)
	case tickMsg:
		if !m.autoplay || m.game.IsOver() {
			m.autoplay = false
			return m, nil
		}
		m.botStep()
		if m.game.IsOver() {
			m.autoplay = false
			return m, nil
		}
		return m, tick(m.delay)
	}
	return m, nil
}

func (m Model) key(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c", "esc":
		return m, tea.Quit
	case "up", "k":
		m.y = max(m.y-1, 0)
	case "down", "j":
		m.y = min(m.y+1, m.game.Height-1)
	case "left", "h":
		m.x = max(m.x-1, 0)
	case "right", "l":
		m.x = min(m.x+1, m.game.Width-1)
	case "enter", " ", "r":
		m.apply(mines.Move{X: m.x, Y: m.y, Action: mines.Reveal})
	case "f":
		m.apply(mines.Move{X: m.x, Y: m.y, Action: mines.Flag})
	case "b":
		m.botStep()
	case "a":
		if m.bot == nil {
			m.status = "no bot in this game"
			return m, nil
		}
		m.autoplay = !m.autoplay && !m.game.IsOver()
		if m.autoplay {
			return m, tick(m.delay)
		}
	}
	return m, nil
}

func (m *Model) apply(move mines.Move) {
	if err := m.game.Apply(move); err != nil {
		if errors.Is(err, mines.ErrGameOver) {
			m.status = "game is over, press q to quit"
		} else {
			m.status = err.Error()
		}
		return
	}
	m.status = move.String()
}

func (m *Model) botStep() {
	if m.bot == nil {
		m.status = "no bot in this game"
		return
	}
	if m.game.IsOver() {
		m.status = "game is over, press q to quit"
		return
	}
	move, ok := m.bot.NextMove(&m.game.Grid)
	if !ok {
		m.status = m.bot.Name() + " has no move"
		m.autoplay = false
		return
	}
	m.x, m.y = move.X, move.Y
	if err := m.game.Apply(move); err != nil {
		m.status = err.Error()
		m.autoplay = false
		return
	}
	m.status = fmt.Sprintf("%s: %s", m.bot.Name(), move)
}

func glyph(s mines.CellState) (string, lipgloss.Style) {
	switch {
	case s == mines.Unknown:
		return ".", hiddenStyle
	case s == mines.Flagged, s == mines.CorrectlyFlagged:
		return "F", flagStyle
	case s == mines.FalselyFlagged:
		return "f", mineStyle
	case s == mines.ExplodedMine:
		return "X", mineStyle
	case s == mines.UnflaggedMine:
		return "*", mineStyle
	case s == 0:
		return " ", clueStyles[0]
	default:
		return s.String(), clueStyles[s]
	}
}

func progressBar(p float64) string {
	filled := int(p * progressWidth)
	return "[" + progressStyle.Render(strings.Repeat("#", filled)) +
		strings.Repeat("-", progressWidth-filled) + "]" +
		fmt.Sprintf(" %3.0f%%", 100*p)
}

func (m Model) View() string {
	var b strings.Builder

	view := m.game.View()
	for y := range m.game.Height {
		for x := range m.game.Width {
			text, style := glyph(view[y*m.game.Width+x])
			if x == m.x && y == m.y && !m.game.IsOver() {
				style = style.Reverse(true)
			}
			b.WriteString(style.Render(" " + text + " "))
		}
		b.WriteByte('\n')
	}
	b.WriteByte('\n')

	b.WriteString(progressBar(m.game.Grid.Progress()))
	fmt.Fprintf(&b, "  flags %d/%d  moves %d\n",
		m.game.Grid.FlaggedCount(), m.game.MineCount, m.game.Moves)

	switch {
	case m.game.IsWon():
		b.WriteString(statusStyle.Render("You won!"))
	case m.game.IsOver():
		b.WriteString(statusStyle.Render("Boom, game over."))
	default:
		b.WriteString(m.status)
	}
	b.WriteString("\n\n")

	help := "arrows/hjkl move  enter reveal  f flag  q quit"
	if m.bot != nil {
		help += "  b bot move  a autoplay"
	}
	b.WriteString(helpStyle.Render(help))
	b.WriteByte('\n')
	return b.String()
}

// Run plays the model in the terminal and returns it once the user quits.
func Run(m Model, opts ...tea.ProgramOption) (Model, error) {
	final, err := tea.NewProgram(m, opts...).Run()
	if err != nil {
		return m, err
	}
	return final.(Model), nil
}
