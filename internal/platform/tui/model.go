package tui

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/sumblocks/internal/clock"
	"github.com/vovakirdan/sumblocks/internal/core"
	"github.com/vovakirdan/sumblocks/internal/registry"
	"github.com/vovakirdan/sumblocks/internal/storage"
)

// Options holds what the models share across screens.
type Options struct {
	Store        *storage.Store // nil runs without persistence
	Logger       *log.Logger
	Mouse        bool          // map mouse clicks to board cells
	AllowClear   bool          // scoreboard may wipe a mode's scores
	TickInterval time.Duration // game clock period
}

// defaultTickInterval is used when Options.TickInterval is unset.
const defaultTickInterval = 100 * time.Millisecond

func (o Options) tickInterval() time.Duration {
	if o.TickInterval <= 0 {
		return defaultTickInterval
	}
	return o.TickInterval
}

func (o Options) logger() *log.Logger {
	if o.Logger == nil {
		return log.New(io.Discard)
	}
	return o.Logger
}

// runtimeConfig attaches the store as the game's score keeper.
func (o Options) runtimeConfig(cfg core.RuntimeConfig) core.RuntimeConfig {
	cfg.Scores = nil
	if o.Store != nil {
		cfg.Scores = o.Store
	}
	return cfg
}

// GameModel is the Bubble Tea model for running a single game.
// Keys and clicks are applied immediately; clock ticks are collected on
// every frame and the clock runs only while the game asks for it.
type GameModel struct {
	game       registry.Game
	screen     *core.Screen
	opts       Options
	config     core.RuntimeConfig
	clock      Clock
	run        uint64
	keyMapper  *KeyMapper
	gameState  core.GameState
	quitting   bool
	backToMenu bool
	quitOnBack bool // no menu to return to
	scoreSaved bool
}

// NewGameModel creates a game model driven by clk.
func NewGameModel(game registry.Game, opts Options, cfg core.RuntimeConfig, clk Clock) GameModel {
	// Use time-based seed if not specified
	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}

	return GameModel{
		game:      game,
		screen:    core.NewScreen(cfg.ScreenW, cfg.ScreenH),
		opts:      opts,
		config:    opts.runtimeConfig(cfg),
		clock:     clk,
		run:       nextRun(),
		keyMapper: NewKeyMapper(),
	}
}

// Init starts the game and the frame loop.
func (m GameModel) Init() tea.Cmd {
	// Drop ticks left over from a previous game on a shared clock.
	for pending := true; pending; {
		select {
		case <-m.clock.C():
		default:
			pending = false
		}
	}

	m.game.Reset(m.config)
	m.syncClock()
	return frameCmd(m.config.TickRate, m.run)
}

// Update handles messages and updates the model state.
func (m GameModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		return m.handleMouse(msg)

	case tea.WindowSizeMsg:
		m.config.ScreenW = msg.Width
		m.config.ScreenH = msg.Height
		m.screen.Resize(msg.Width, msg.Height)
		return m, nil

	case FrameMsg:
		if msg.Run != m.run {
			return m, nil
		}
		return m.handleFrame()
	}

	return m, nil
}

// handleKey processes keyboard input.
func (m GameModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+s" {
		m.saveScreenshot()
		return m, nil
	}

	action, isQuit := m.keyMapper.MapKey(msg)
	if isQuit {
		m.quitting = true
		m.clock.Stop()
		return m, tea.Quit
	}

	switch action {
	case core.ActionNone:
		return m, nil

	case core.ActionBack:
		if !m.gameState.GameOver && !m.gameState.Paused {
			return m, nil
		}
		m.clock.Stop()
		if m.quitOnBack {
			m.quitting = true
			return m, tea.Quit
		}
		m.backToMenu = true
		return m, nil

	case core.ActionRestart:
		if m.gameState.GameOver {
			m.restart()
		}
		return m, nil
	}

	m.collectTicks()
	in := core.NewInputFrame()
	in.Set(action)
	m.apply(m.game.Step(in))
	return m, nil
}

// handleMouse turns a left click into a board click.
func (m GameModel) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	if !m.opts.Mouse || msg.Action != tea.MouseActionPress || msg.Button != tea.MouseButtonLeft {
		return m, nil
	}

	m.collectTicks()
	in := core.NewInputFrame()
	in.SetClick(msg.X, msg.Y)
	m.apply(m.game.Step(in))
	return m, nil
}

// handleFrame applies pending clock ticks and schedules the next frame.
func (m GameModel) handleFrame() (tea.Model, tea.Cmd) {
	if m.quitting || m.backToMenu {
		return m, nil
	}

	m.collectTicks()
	return m, frameCmd(m.config.TickRate, m.run)
}

// collectTicks advances the game once for every tick waiting on the clock,
// so the countdown keeps the clock's period whatever the frame rate.
// Ticks that arrive after the clock was stopped are ignored by the game.
func (m *GameModel) collectTicks() {
	for {
		select {
		case <-m.clock.C():
			m.apply(m.game.Advance())
		default:
			return
		}
	}
}

// apply records a step result, saves the score once the game ends and
// keeps the clock in line with the game.
func (m *GameModel) apply(result core.StepResult) {
	m.gameState = result.State
	m.syncClock()

	if !m.gameState.GameOver || m.scoreSaved {
		return
	}
	m.scoreSaved = true

	logger := m.opts.logger()
	logger.Info("game finished", "game", m.game.ID(), "score", m.gameState.Score, "level", m.gameState.Level)
	if m.opts.Store == nil || m.gameState.Score <= 0 {
		return
	}
	if _, err := m.opts.Store.SaveScore(m.game.ID(), m.gameState.Score, m.gameState.Level); err != nil {
		logger.Warn("could not save score", "game", m.game.ID(), "error", err)
	}
}

// restart begins a new game with a fresh seed.
func (m *GameModel) restart() {
	m.config.Seed = time.Now().UnixNano()
	m.game.Reset(m.config)
	m.gameState = m.game.State()
	m.scoreSaved = false
	m.syncClock()
}

// syncClock starts the clock only while the game is counting down.
func (m *GameModel) syncClock() {
	if m.game.TimerActive() {
		m.clock.Start()
	} else {
		m.clock.Stop()
	}
}

// saveScreenshot saves the current screen to a file.
func (m *GameModel) saveScreenshot() {
	m.game.Render(m.screen)

	home, err := os.UserHomeDir()
	if err != nil {
		return
	}
	dir := filepath.Join(home, ".sumblocks", "screenshots")
	//nolint:errcheck // Best-effort directory creation
	os.MkdirAll(dir, 0o755)

	timestamp := time.Now().Format("20060102_150405")
	path := filepath.Join(dir, fmt.Sprintf("%s_%s.txt", m.game.ID(), timestamp))

	if err := os.WriteFile(path, []byte(m.screen.String()), 0o600); err != nil {
		m.opts.logger().Warn("could not save screenshot", "path", path, "error", err)
	}
}

// View renders the current state to a string for display.
func (m GameModel) View() string {
	if m.quitting {
		return ""
	}

	m.game.Render(m.screen)
	return RenderScreen(m.screen)
}

// IsQuitting returns true if user requested to quit entirely.
func (m GameModel) IsQuitting() bool {
	return m.quitting
}

// BackToMenu returns true if user requested to go back to menu.
func (m GameModel) BackToMenu() bool {
	return m.backToMenu
}

// GameState returns the last observed game state.
func (m GameModel) GameState() core.GameState {
	return m.gameState
}

// programOptions returns the Bubble Tea options for a full-screen game.
func programOptions(opts Options) []tea.ProgramOption {
	po := []tea.ProgramOption{tea.WithAltScreen()}
	if opts.Mouse {
		po = append(po, tea.WithMouseCellMotion())
	}
	return po
}

// Run starts the Bubble Tea program with the given game.
func Run(game registry.Game, opts Options, cfg core.RuntimeConfig) error {
	sched := clock.NewScheduler(opts.tickInterval())
	defer sched.Close()

	model := NewGameModel(game, opts, cfg, sched)
	model.quitOnBack = true
	_, err := tea.NewProgram(model, programOptions(opts)...).Run()
	return err
}
