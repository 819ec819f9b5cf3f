package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/sumblocks/internal/registry"
	"github.com/vovakirdan/sumblocks/internal/storage"
)

// Scoreboard layout constants
const (
	statsPanelWidth  = 26
	minWidthForPanel = 72  // below this the stats go under the table
	maxScores        = 100 // rows loaded per mode
)

var (
	boardTitleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("229"))
	tabStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Padding(0, 1)
	activeTabStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("229")).
			Background(lipgloss.Color("57")).Padding(0, 1)
	panelStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).Padding(0, 1)
	dimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	noticeStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
)

// ScoreboardKeyMap defines the key bindings for the scoreboard.
type ScoreboardKeyMap struct {
	Up       key.Binding
	Down     key.Binding
	NextMode key.Binding
	PrevMode key.Binding
	Clear    key.Binding
	Confirm  key.Binding
	Back     key.Binding
	Quit     key.Binding
}

// ShortHelp returns key bindings for the short help view.
func (k ScoreboardKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.NextMode, k.Clear, k.Back, k.Quit}
}

// FullHelp returns key bindings for the full help view.
func (k ScoreboardKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.NextMode, k.PrevMode},
		{k.Clear, k.Back, k.Quit},
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
		NextMode: key.NewBinding(
			key.WithKeys("tab", "right", "l"),
			key.WithHelp("tab", "next mode"),
		),
		PrevMode: key.NewBinding(
			key.WithKeys("shift+tab", "left", "h"),
			key.WithHelp("S-tab", "prev mode"),
		),
		Clear: key.NewBinding(
			key.WithKeys("x"),
			key.WithHelp("x", "clear mode"),
		),
		Confirm: key.NewBinding(
			key.WithKeys("y"),
			key.WithHelp("y", "confirm"),
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

// ScoreboardModel shows the score history of one mode at a time.
type ScoreboardModel struct {
	modes      []registry.GameInfo
	current    int
	opts       Options
	scores     []storage.ScoreEntry
	stats      *storage.GameStats
	table      table.Model
	help       help.Model
	keys       ScoreboardKeyMap
	width      int
	height     int
	confirming bool   // waiting for y after x
	notice     string // one-line feedback under the tabs
	quitting   bool
	goingBack  bool
}

// NewScoreboardModel creates a scoreboard opened on gameID,
// or on the first mode when gameID is empty or unknown.
func NewScoreboardModel(opts Options, width, height int, gameID string) ScoreboardModel {
	keys := DefaultScoreboardKeyMap()
	keys.Clear.SetEnabled(opts.AllowClear && opts.Store != nil)

	m := ScoreboardModel{
		modes:  registry.List(),
		opts:   opts,
		keys:   keys,
		help:   help.New(),
		width:  width,
		height: height,
	}
	for i, g := range m.modes {
		if g.ID == gameID {
			m.current = i
		}
	}

	m.table = m.newTable()
	m.reload()
	return m
}

func (m ScoreboardModel) wide() bool {
	return m.width >= minWidthForPanel
}

// newTable builds the score table sized for the current window.
func (m *ScoreboardModel) newTable() table.Model {
	dateWidth := 14
	if m.wide() {
		dateWidth = min(max(m.width-statsPanelWidth-40, 14), 20)
	}
	columns := []table.Column{
		{Title: "Rank", Width: 5},
		{Title: "Score", Width: 8},
		{Title: "Level", Width: 6},
		{Title: "Date", Width: dateWidth},
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(max(m.height-11, 3)),
	)

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

func (m ScoreboardModel) currentID() string {
	if len(m.modes) == 0 {
		return ""
	}
	return m.modes[m.current].ID
}

// reload fetches scores and stats of the current mode.
func (m *ScoreboardModel) reload() {
	m.scores, m.stats = nil, nil
	id := m.currentID()
	if m.opts.Store != nil && id != "" {
		scores, err := m.opts.Store.TopScores(id, maxScores)
		if err != nil {
			m.opts.logger().Warn("could not load scores", "game", id, "error", err)
		}
		m.scores = scores

		stats, err := m.opts.Store.GetGameStats(id)
		if err != nil {
			m.opts.logger().Warn("could not load stats", "game", id, "error", err)
		}
		m.stats = stats
	}

	rows := make([]table.Row, len(m.scores))
	for i, s := range m.scores {
		rows[i] = table.Row{
			fmt.Sprintf("#%d", i+1),
			fmt.Sprintf("%d", s.Score),
			fmt.Sprintf("%d", s.Level),
			s.CreatedAt.Format("Jan 02 15:04"),
		}
	}
	m.table.SetRows(rows)
	m.table.GotoTop()
}

func (m *ScoreboardModel) switchMode(step int) {
	if len(m.modes) == 0 {
		return
	}
	m.current = (m.current + step + len(m.modes)) % len(m.modes)
	m.notice = ""
	m.reload()
}

// clear wipes the current mode's scores.
func (m *ScoreboardModel) clear() {
	id := m.currentID()
	if err := m.opts.Store.ClearScores(id); err != nil {
		m.opts.logger().Error("could not clear scores", "game", id, "error", err)
		m.notice = "Could not clear scores."
		return
	}
	m.opts.logger().Info("scores cleared", "game", id)
	m.notice = "Scores cleared."
	m.reload()
}

// Init initializes the scoreboard model.
func (m ScoreboardModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the scoreboard.
func (m ScoreboardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.confirming {
			m.confirming = false
			m.notice = ""
			if key.Matches(msg, m.keys.Confirm) {
				m.clear()
			}
			return m, nil
		}

		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.Back):
			m.goingBack = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.NextMode):
			m.switchMode(1)
			return m, nil
		case key.Matches(msg, m.keys.PrevMode):
			m.switchMode(-1)
			return m, nil
		case key.Matches(msg, m.keys.Clear):
			if len(m.modes) > 0 {
				m.confirming = true
				m.notice = fmt.Sprintf("Clear all %s scores? y to confirm", m.modes[m.current].Title)
			}
			return m, nil
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.table = m.newTable()
		m.reload()
		return m, nil
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

// View renders the scoreboard.
func (m ScoreboardModel) View() string {
	if m.quitting || m.goingBack {
		return ""
	}

	var b strings.Builder
	b.WriteString(boardTitleStyle.Render(centerText("HIGH SCORES", m.width)))
	b.WriteString("\n\n")
	b.WriteString(centerText(m.tabs(), m.width))
	b.WriteString("\n")
	b.WriteString(centerText(noticeStyle.Render(m.notice), m.width))
	b.WriteString("\n")

	board := panelStyle.Render(m.tableContent())
	if m.wide() {
		board = lipgloss.JoinHorizontal(lipgloss.Top, board, "  ", m.statsPanel())
	} else if line := m.statsLine(); line != "" {
		board = lipgloss.JoinVertical(lipgloss.Left, board, dimStyle.Render(line))
	}
	b.WriteString(centerBlock(board, m.width))

	b.WriteString("\n")
	b.WriteString(dimStyle.Render(m.help.View(m.keys)))
	return b.String()
}

// tabs renders one tab per mode with the current one highlighted.
func (m ScoreboardModel) tabs() string {
	tabs := make([]string, len(m.modes))
	for i, g := range m.modes {
		if i == m.current {
			tabs[i] = activeTabStyle.Render(g.Title)
		} else {
			tabs[i] = tabStyle.Render(g.Title)
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

func (m ScoreboardModel) tableContent() string {
	if len(m.scores) == 0 {
		empty := lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Italic(true).Padding(1, 2)
		return empty.Render("No scores recorded yet.\nClear some blocks to set a high score!")
	}
	return m.table.View()
}

// statsPanel renders the aggregate numbers of the current mode.
func (m ScoreboardModel) statsPanel() string {
	lines := []string{boardTitleStyle.Render("Stats"), ""}
	if m.stats == nil || m.stats.GamesCount == 0 {
		lines = append(lines, dimStyle.Render("no games yet"))
	} else {
		lines = append(lines,
			fmt.Sprintf("Games      %d", m.stats.GamesCount),
			fmt.Sprintf("Best       %d", m.stats.HighScore),
			fmt.Sprintf("Average    %.0f", m.stats.AvgScore),
			fmt.Sprintf("Top level  %d", m.stats.BestLevel),
			fmt.Sprintf("Total      %d", m.stats.TotalScore),
			"",
			dimStyle.Render("last "+m.stats.LastPlayed.Format("Jan 02 15:04")),
		)
	}
	return panelStyle.Width(statsPanelWidth).Render(strings.Join(lines, "\n"))
}

// statsLine is the narrow layout's one-line summary, "" without games.
func (m ScoreboardModel) statsLine() string {
	if m.stats == nil || m.stats.GamesCount == 0 {
		return ""
	}
	return fmt.Sprintf("games %d  best %d  avg %.0f  top level %d",
		m.stats.GamesCount, m.stats.HighScore, m.stats.AvgScore, m.stats.BestLevel)
}

// IsGoingBack returns true if user wants to go back to menu.
func (m ScoreboardModel) IsGoingBack() bool {
	return m.goingBack
}

// IsQuitting returns true if user wants to quit entirely.
func (m ScoreboardModel) IsQuitting() bool {
	return m.quitting
}

// RunScoreboard runs the scoreboard screen opened on gameID.
// Returns true if user wants to go back to menu, false if quitting.
func RunScoreboard(opts Options, width, height int, gameID string) (goBack bool, err error) {
	model := NewScoreboardModel(opts, width, height, gameID)

	finalModel, err := tea.NewProgram(model, tea.WithAltScreen()).Run()
	if err != nil {
		return false, err
	}

	m, ok := finalModel.(ScoreboardModel)
	if !ok {
		return false, nil
	}
	return m.IsGoingBack(), nil
}
