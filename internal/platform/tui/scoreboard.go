package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/keyfall/internal/storage"
)

// Scoreboard layout constants
const (
	minWidthForAllColumns = 78  // Narrower terminals drop the date and seed columns
	maxRuns               = 100 // Max runs to load
)

// scoreboardView selects which runs the table lists.
type scoreboardView int

const (
	viewTop scoreboardView = iota
	viewRecent
	viewMine
)

func (v scoreboardView) title() string {
	switch v {
	case viewRecent:
		return "RECENT RUNS"
	case viewMine:
		return "MY BEST RUNS"
	default:
		return "HIGH SCORES"
	}
}

// ScoreboardKeyMap defines the key bindings for the scoreboard.
type ScoreboardKeyMap struct {
	Up       key.Binding
	Down     key.Binding
	NextView key.Binding
	PrevView key.Binding
	Back     key.Binding
	Quit     key.Binding
}

// ShortHelp returns key bindings for the short help view.
func (k ScoreboardKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.NextView, k.Back}
}

// FullHelp returns key bindings for the full help view.
func (k ScoreboardKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.NextView, k.PrevView},
		{k.Back, k.Quit},
	}
}

// DefaultScoreboardKeyMap returns default key bindings.
func DefaultScoreboardKeyMap() ScoreboardKeyMap {
	return ScoreboardKeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("up/k", "scroll up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("down/j", "scroll down"),
		),
		NextView: key.NewBinding(
			key.WithKeys("tab", "right", "l"),
			key.WithHelp("tab", "next view"),
		),
		PrevView: key.NewBinding(
			key.WithKeys("shift+tab", "left", "h"),
			key.WithHelp("S-tab", "prev view"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc", "b"),
			key.WithHelp("esc/b", "back"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// ScoreboardModel is the Bubble Tea model for the scoreboard screen.
type ScoreboardModel struct {
	store      *storage.Store
	player     string // Enables the "mine" view when set
	view       scoreboardView
	runs       []storage.RunEntry
	table      table.Model
	help       help.Model
	keys       ScoreboardKeyMap
	width      int
	height     int
	standalone bool // Back quits the program instead of returning to a game
	quitting   bool
	goingBack  bool // True if user pressed back (not quit)
}

// NewScoreboardModel creates a new scoreboard model.
func NewScoreboardModel(store *storage.Store, player string, width, height int) ScoreboardModel {
	h := help.New()
	h.ShowAll = false

	m := ScoreboardModel{
		store:  store,
		player: player,
		keys:   DefaultScoreboardKeyMap(),
		help:   h,
		width:  width,
		height: height,
	}
	m.table = m.createTable()
	m.loadRuns()
	return m
}

func (m *ScoreboardModel) views() []scoreboardView {
	if m.player == "" {
		return []scoreboardView{viewTop, viewRecent}
	}
	return []scoreboardView{viewTop, viewRecent, viewMine}
}

func (m *ScoreboardModel) cycleView(delta int) {
	views := m.views()
	idx := 0
	for i, v := range views {
		if v == m.view {
			idx = i
		}
	}
	idx = (idx + delta + len(views)) % len(views)
	m.view = views[idx]
	m.loadRuns()
}

func (m *ScoreboardModel) wide() bool {
	return m.width >= minWidthForAllColumns
}

// createTable creates a new table with columns fitted to the width.
func (m *ScoreboardModel) createTable() table.Model {
	columns := []table.Column{
		{Title: "Rank", Width: 5},
		{Title: "Player", Width: 12},
		{Title: "Score", Width: 8},
		{Title: "Stage", Width: 16},
		{Title: "Letters", Width: 7},
		{Title: "Combo", Width: 5},
	}
	if m.wide() {
		columns = append(columns,
			table.Column{Title: "Time", Width: 6},
			table.Column{Title: "Date", Width: 12},
		)
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(max(3, m.height-8)), // Leave room for header, help, and margins
	)

	// Table styles
	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	t.SetStyles(s)

	return t
}

// loadRuns loads the runs of the current view.
func (m *ScoreboardModel) loadRuns() {
	m.runs = nil
	if m.store != nil {
		var runs []storage.RunEntry
		var err error
		switch m.view {
		case viewRecent:
			runs, err = m.store.RecentRuns(maxRuns)
		case viewMine:
			runs, err = m.store.PlayerRuns(m.player, maxRuns)
		default:
			runs, err = m.store.TopRuns(maxRuns)
		}
		if err == nil {
			m.runs = runs
		}
	}
	m.updateTableRows()
}

// updateTableRows updates the table with current runs.
func (m *ScoreboardModel) updateTableRows() {
	rows := make([]table.Row, len(m.runs))
	for i, r := range m.runs {
		row := table.Row{
			fmt.Sprintf("#%d", i+1),
			r.Player,
			fmt.Sprintf("%d", r.Score),
			fmt.Sprintf("%d %s", r.Stage+1, r.StageName),
			fmt.Sprintf("%d", r.Letters),
			fmt.Sprintf("%d", r.BestCombo),
		}
		if m.wide() {
			row = append(row, formatDuration(r.Duration.Seconds()), r.CreatedAt.Format("Jan 02 15:04"))
		}
		rows[i] = row
	}
	m.table.SetRows(rows)

	// Reset cursor to top
	m.table.GotoTop()
}

func formatDuration(seconds float64) string {
	s := int(seconds)
	return fmt.Sprintf("%d:%02d", s/60, s%60)
}

// Init initializes the scoreboard model.
func (m ScoreboardModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the scoreboard.
func (m ScoreboardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit

		case key.Matches(msg, m.keys.Back):
			m.goingBack = true
			if m.standalone {
				return m, tea.Quit
			}
			return m, nil

		case key.Matches(msg, m.keys.NextView):
			m.cycleView(1)
			return m, nil

		case key.Matches(msg, m.keys.PrevView):
			m.cycleView(-1)
			return m, nil

		case key.Matches(msg, m.keys.Up), key.Matches(msg, m.keys.Down):
			// Pass to table for scrolling
			m.table, cmd = m.table.Update(msg)
			return m, cmd
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.table = m.createTable()
		m.updateTableRows()
		m.help.Width = msg.Width
		return m, nil
	}

	// Pass other messages to table
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

// View renders the scoreboard.
func (m ScoreboardModel) View() string {
	if m.quitting || (m.goingBack && m.standalone) {
		return ""
	}

	var b strings.Builder

	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("229")).
		MarginBottom(1)

	b.WriteString(titleStyle.Render(centerText(m.view.title(), m.width)))
	b.WriteString("\n\n")

	tableStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")).
		Padding(0, 1)

	b.WriteString(tableStyle.Render(m.renderTableContent()))

	// Help bar
	b.WriteString("\n")
	helpStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("241"))
	b.WriteString(helpStyle.Render(m.help.View(m.keys)))

	return b.String()
}

// renderTableContent renders the table or empty message.
func (m ScoreboardModel) renderTableContent() string {
	if len(m.runs) == 0 {
		emptyStyle := lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			Italic(true).
			Padding(2, 4)
		return emptyStyle.Render("No runs recorded yet.\nPlay a game to set a high score!")
	}

	return m.table.View()
}

// IsGoingBack returns true if user wants to go back to the game.
func (m ScoreboardModel) IsGoingBack() bool {
	return m.goingBack
}

// IsQuitting returns true if user wants to quit entirely.
func (m ScoreboardModel) IsQuitting() bool {
	return m.quitting
}

// centerText pads text so it is centered within width.
func centerText(text string, width int) string {
	n := lipgloss.Width(text)
	if n >= width {
		return text
	}
	return strings.Repeat(" ", (width-n)/2) + text
}

// RunScoreboard runs the scoreboard as its own program.
func RunScoreboard(store *storage.Store, player string, width, height int) error {
	model := NewScoreboardModel(store, player, width, height)
	model.standalone = true

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
	)

	_, err := p.Run()
	return err
}
