package tui

import (
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/sumblocks/internal/storage"
)

func openScoreStore(t *testing.T) *storage.Store {
	t.Helper()
	store, err := storage.Open(filepath.Join(t.TempDir(), "scores.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func updateBoard(t *testing.T, m ScoreboardModel, msg tea.Msg) ScoreboardModel {
	t.Helper()
	next, _ := m.Update(msg)
	sb, ok := next.(ScoreboardModel)
	if !ok {
		t.Fatalf("Update returned %T", next)
	}
	return sb
}

func TestScoreboardShowsModeScores(t *testing.T) {
	store := openScoreStore(t)
	if _, err := store.SaveScore("sumblocks", 4321, 5); err != nil {
		t.Fatal(err)
	}
	if _, err := store.SaveScore("sumblocks_time", 777, 2); err != nil {
		t.Fatal(err)
	}

	m := NewScoreboardModel(Options{Store: store}, 100, 30, "sumblocks")
	view := m.View()
	if !strings.Contains(view, "4321") {
		t.Error("classic view should list the classic score")
	}
	if strings.Contains(view, "777") {
		t.Error("classic view should not list time scores")
	}
	if !strings.Contains(view, "Stats") {
		t.Error("wide layout should show the stats panel")
	}

	m = updateBoard(t, m, tea.KeyMsg{Type: tea.KeyTab})
	if m.currentID() != "sumblocks_time" {
		t.Fatalf("tab should switch mode, current = %q", m.currentID())
	}
	if !strings.Contains(m.View(), "777") {
		t.Error("time view should list the time score")
	}

	m = updateBoard(t, m, tea.KeyMsg{Type: tea.KeyShiftTab})
	if m.currentID() != "sumblocks" {
		t.Errorf("shift+tab should switch back, current = %q", m.currentID())
	}
}

func TestScoreboardOpensOnRequestedMode(t *testing.T) {
	m := NewScoreboardModel(Options{}, 60, 20, "sumblocks_time")
	if m.currentID() != "sumblocks_time" {
		t.Errorf("current = %q, want sumblocks_time", m.currentID())
	}
	if !strings.Contains(m.View(), "No scores recorded yet") {
		t.Error("without a store the table should be empty")
	}

	m = NewScoreboardModel(Options{}, 60, 20, "unknown")
	if m.currentID() != "sumblocks" {
		t.Errorf("unknown id should open the first mode, got %q", m.currentID())
	}
}

func TestScoreboardClearNeedsConfirmation(t *testing.T) {
	store := openScoreStore(t)
	if _, err := store.SaveScore("sumblocks", 500, 1); err != nil {
		t.Fatal(err)
	}

	m := NewScoreboardModel(Options{Store: store, AllowClear: true}, 100, 30, "sumblocks")

	m = updateBoard(t, m, runeKey('x'))
	if !m.confirming {
		t.Fatal("x should ask for confirmation")
	}
	m = updateBoard(t, m, runeKey('n'))
	if m.confirming || len(m.scores) != 1 {
		t.Fatal("any key but y should cancel")
	}

	m = updateBoard(t, m, runeKey('x'))
	m = updateBoard(t, m, runeKey('y'))
	if len(m.scores) != 0 {
		t.Errorf("scores after clear = %d, want 0", len(m.scores))
	}
	if best, _ := store.HighScore("sumblocks"); best != 0 {
		t.Errorf("best after clear = %d, want 0", best)
	}
}

func TestScoreboardClearDisabled(t *testing.T) {
	store := openScoreStore(t)
	if _, err := store.SaveScore("sumblocks", 500, 1); err != nil {
		t.Fatal(err)
	}

	m := NewScoreboardModel(Options{Store: store}, 100, 30, "sumblocks")
	m = updateBoard(t, m, runeKey('x'))
	m = updateBoard(t, m, runeKey('y'))
	if m.confirming || len(m.scores) != 1 {
		t.Error("clear should be ignored unless allowed")
	}
}

func TestScoreboardBackAndQuit(t *testing.T) {
	m := NewScoreboardModel(Options{}, 80, 24, "")
	back := updateBoard(t, m, runeKey('b'))
	if !back.IsGoingBack() || back.IsQuitting() {
		t.Error("b should go back")
	}
	quit := updateBoard(t, m, runeKey('q'))
	if !quit.IsQuitting() {
		t.Error("q should quit")
	}
}
