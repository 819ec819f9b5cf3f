// Package tui provides the Bubble Tea integration for Sum Blocks.
// It handles the terminal UI loop, input mapping, and game orchestration.
package tui

import (
	"sync/atomic"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// FrameMsg is sent to trigger a redraw and to collect pending clock ticks.
// Run is the frame loop that produced it; frames from a finished game are dropped.
type FrameMsg struct {
	Run  uint64
	Time time.Time
}

var runSeq atomic.Uint64

// nextRun returns a new frame loop id.
func nextRun() uint64 {
	return runSeq.Add(1)
}

// Clock delivers game ticks while started. *clock.Scheduler and
// *clock.Manual both satisfy it.
type Clock interface {
	Start()
	Stop()
	C() <-chan time.Time
}

// frameCmd returns a Bubble Tea command that sends frame messages at the specified rate.
func frameCmd(fps int, run uint64) tea.Cmd {
	interval := time.Second / time.Duration(max(fps, 1))
	return tea.Tick(interval, func(t time.Time) tea.Msg {
		return FrameMsg{Run: run, Time: t}
	})
}
