package tui

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
)

// Message types for the TUI

// ScanStartMsg is sent when the scan knows how many users it will visit
type ScanStartMsg struct {
	Total int
}

// UserStartMsg is sent when a user scan starts
type UserStartMsg struct {
	ID       int64
	Nickname string
}

// UserDoneMsg is sent when a user's videos are stored
type UserDoneMsg struct {
	ID       int64
	Nickname string
	Videos   int
	Source   string
	Status   string
}

// ScanDoneMsg is sent when the whole scan completes
type ScanDoneMsg struct {
	Users        int
	Skipped      int
	VideosStored int
	Duration     time.Duration
}

// LogMsg is sent to add a log message
type LogMsg struct {
	Level   string
	Message string
}

// TickMsg is sent periodically to update the UI
type TickMsg time.Time

// Update handles all messages and updates the model
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyPress(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case TickMsg:
		return m, tickCmd()

	case ScanStartMsg:
		m.StartScan(msg.Total)
		return m, nil

	case UserStartMsg:
		m.StartUser(msg.ID, msg.Nickname)
		return m, nil

	case UserDoneMsg:
		m.FinishUser(msg.ID, msg.Videos, msg.Source, msg.Status)
		m.AddLogMessage("SUCCESS", fmt.Sprintf("%s: %d videos (%s)", msg.Nickname, msg.Videos, msg.Source))
		return m, nil

	case ScanDoneMsg:
		m.FinishScan(msg.Skipped, msg.Duration)
		return m, nil

	case LogMsg:
		m.AddLogMessage(msg.Level, msg.Message)
		return m, nil
	}

	return m, nil
}

// handleKeyPress handles keyboard input
func (m *Model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "Q", "ctrl+c":
		return m, tea.Quit

	case "?":
		m.showHelp = !m.showHelp
		return m, nil

	case "ctrl+l":
		m.logMessages = nil
		return m, nil
	}

	return m, nil
}

// tickCmd returns a command that sends a tick message
func tickCmd() tea.Cmd {
	return tea.Tick(time.Millisecond*250, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}
