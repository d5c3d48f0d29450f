package tui

import (
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// UserState is the scan state of one user
type UserState int

const (
	UserActive UserState = iota
	UserDone
	UserSkipped
)

// UserRow is one user shown on the dashboard
type UserRow struct {
	ID        int64
	Nickname  string
	Videos    int
	Source    string
	Status    string
	State     UserState
	StartTime time.Time
	Duration  time.Duration
}

// Model is the scan dashboard state. It is only touched from the bubbletea
// event loop.
type Model struct {
	spinner  spinner.Model
	progress progress.Model

	users   []*UserRow
	current *UserRow

	totalUsers       int
	doneUsers        int
	skippedUsers     int
	videosStored     int
	sessionStartTime time.Time
	finished         bool
	finishedIn       time.Duration

	width          int
	height         int
	showHelp       bool
	logMessages    []LogMessage
	maxLogMessages int
	maxRecentUsers int
}

// LogMessage represents a log entry
type LogMessage struct {
	Time    time.Time
	Level   string
	Message string
	Color   lipgloss.Color
}

// NewModel creates an empty dashboard
func NewModel() *Model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(vkBlue)

	p := progress.New(progress.WithDefaultGradient())
	p.Width = 40

	return &Model{
		spinner:          s,
		progress:         p,
		sessionStartTime: time.Now(),
		maxLogMessages:   50,
		maxRecentUsers:   8,
	}
}

// Init starts the spinner and the refresh tick
func (m *Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, tickCmd())
}

// StartScan records the number of users to scan
func (m *Model) StartScan(total int) {
	m.totalUsers = total
	m.sessionStartTime = time.Now()
	m.AddLogMessage("INFO", "Scanning users...")
}

// StartUser marks a user as being scanned
func (m *Model) StartUser(id int64, nickname string) {
	row := &UserRow{
		ID:        id,
		Nickname:  nickname,
		State:     UserActive,
		StartTime: time.Now(),
	}
	m.users = append(m.users, row)
	m.current = row
}

// FinishUser marks a user as done with the number of stored videos
func (m *Model) FinishUser(id int64, videos int, source, status string) {
	row := m.findUser(id)
	if row == nil {
		row = &UserRow{ID: id, StartTime: time.Now()}
		m.users = append(m.users, row)
	}
	row.State = UserDone
	row.Videos = videos
	row.Source = source
	row.Status = status
	row.Duration = time.Since(row.StartTime)

	m.doneUsers++
	m.videosStored += videos
	if m.current == row {
		m.current = nil
	}
}

// FinishScan marks the whole scan as complete
func (m *Model) FinishScan(skipped int, elapsed time.Duration) {
	m.finished = true
	m.skippedUsers = skipped
	m.finishedIn = elapsed
	m.current = nil
	m.AddLogMessage("SUCCESS", "Scan completed, press q to exit")
}

// AddLogMessage adds a log message
func (m *Model) AddLogMessage(level, message string) {
	color := dimWhite
	switch level {
	case "ERROR":
		color = errorRed
	case "WARN":
		color = warnOrange
	case "SUCCESS":
		color = okGreen
	case "INFO":
		color = vkBlue
	}

	m.logMessages = append(m.logMessages, LogMessage{
		Time:    time.Now(),
		Level:   level,
		Message: message,
		Color:   color,
	})

	if len(m.logMessages) > m.maxLogMessages {
		m.logMessages = m.logMessages[len(m.logMessages)-m.maxLogMessages:]
	}
}

// Percent returns the share of users finished or skipped
func (m *Model) Percent() float64 {
	if m.totalUsers == 0 {
		if m.finished {
			return 1
		}
		return 0
	}
	p := float64(m.doneUsers+m.skippedUsers) / float64(m.totalUsers)
	if p > 1 {
		p = 1
	}
	return p
}

// RecentUsers returns the last finished users, newest first
func (m *Model) RecentUsers() []*UserRow {
	var recent []*UserRow
	for i := len(m.users) - 1; i >= 0 && len(recent) < m.maxRecentUsers; i-- {
		if m.users[i].State == UserDone {
			recent = append(recent, m.users[i])
		}
	}
	return recent
}

// Stats returns users finished, users total and videos stored
func (m *Model) Stats() (done, total, videos int) {
	return m.doneUsers, m.totalUsers, m.videosStored
}

// ETA estimates the time left from the average time per user
func (m *Model) ETA() time.Duration {
	remaining := m.totalUsers - m.doneUsers - m.skippedUsers
	if m.doneUsers == 0 || remaining <= 0 {
		return 0
	}
	perUser := time.Since(m.sessionStartTime) / time.Duration(m.doneUsers)
	return perUser * time.Duration(remaining)
}

func (m *Model) findUser(id int64) *UserRow {
	for i := len(m.users) - 1; i >= 0; i-- {
		if m.users[i].ID == id {
			return m.users[i]
		}
	}
	return nil
}
