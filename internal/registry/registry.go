// Package registry maps game mode ids to factories. Modes register from
// init(), so the CLI, menus and SSH sessions find them by id alone.
package registry

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/vovakirdan/sumblocks/internal/core"
)

// Game is the interface every registered game mode implements.
// Games contain pure logic with no external dependencies (especially no Bubble Tea).
// The platform handles input mapping, timing, and rendering.
type Game interface {
	// ID is the mode's unique id ("sumblocks", "sumblocks_time"), also the
	// key its scores are stored under.
	ID() string

	// Title is the name shown in menus and score tables.
	Title() string

	// Reset starts a new game. The platform calls it on start and on restart;
	// cfg carries the screen size, seed and score keeper.
	Reset(cfg core.RuntimeConfig)

	// Step applies one frame of player input: actions and an optional click.
	Step(in core.InputFrame) core.StepResult

	// Advance applies one clock tick. The platform calls it only while
	// TimerActive reports true.
	Advance() core.StepResult

	// TimerActive reports whether the game currently needs clock ticks.
	TimerActive() bool

	// Render draws the game into a cleared screen.
	Render(dst *core.Screen)

	// State reports score, level and phase for the platform.
	State() core.GameState
}

// GameInfo describes a registered game mode.
type GameInfo struct {
	ID    string
	Title string
}

// Factory creates a fresh game instance.
type Factory func() Game

// ErrUnknownGame is returned by Create for ids nobody registered.
var ErrUnknownGame = errors.New("registry: unknown game")

type entry struct {
	title   string
	factory Factory
}

var (
	mu      sync.RWMutex
	entries = make(map[string]entry)
)

// Register adds a game mode, usually from the game package's init().
// The title is read once from a throwaway instance.
// Registering the same id twice panics.
func Register(id string, f Factory) {
	mu.Lock()
	defer mu.Unlock()

	if _, exists := entries[id]; exists {
		panic(fmt.Sprintf("registry: game %q already registered", id))
	}
	entries[id] = entry{title: f().Title(), factory: f}
}

// List returns every registered mode sorted by id.
func List() []GameInfo {
	mu.RLock()
	defer mu.RUnlock()

	result := make([]GameInfo, 0, len(entries))
	for id, e := range entries {
		result = append(result, GameInfo{ID: id, Title: e.title})
	}
	slices.SortFunc(result, func(a, b GameInfo) int {
		return strings.Compare(a.ID, b.ID)
	})
	return result
}

// Create returns a new instance of the mode registered as id.
func Create(id string) (Game, error) {
	mu.RLock()
	e, ok := entries[id]
	mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("%w %q", ErrUnknownGame, id)
	}
	return e.factory(), nil
}

// Exists reports whether id is registered.
func Exists(id string) bool {
	mu.RLock()
	defer mu.RUnlock()

	_, ok := entries[id]
	return ok
}
