package tui

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"vkscan/pkg/models"
	"vkscan/pkg/scraper"
)

// TUI is a full-screen scan dashboard. It implements scraper.Reporter.
type TUI struct {
	program *tea.Program
	model   *Model
}

// NewTUI creates a new TUI instance
func NewTUI(opts ...tea.ProgramOption) *TUI {
	model := NewModel()
	if len(opts) == 0 {
		opts = []tea.ProgramOption{tea.WithAltScreen()}
	}
	return &TUI{
		program: tea.NewProgram(model, opts...),
		model:   model,
	}
}

// Start runs the TUI until the user quits or Stop is called
func (t *TUI) Start() error {
	_, err := t.program.Run()
	return err
}

// Stop stops the TUI gracefully
func (t *TUI) Stop() {
	t.program.Quit()
}

// Send sends a message to the TUI
func (t *TUI) Send(msg tea.Msg) {
	if t.program != nil {
		t.program.Send(msg)
	}
}

// ScanStarted implements scraper.Reporter
func (t *TUI) ScanStarted(totalUsers int) {
	t.Send(ScanStartMsg{Total: totalUsers})
}

// UserStarted implements scraper.Reporter
func (t *TUI) UserStarted(user models.User) {
	t.Send(UserStartMsg{ID: user.ID, Nickname: user.Nickname})
}

// UserFinished implements scraper.Reporter
func (t *TUI) UserFinished(scan scraper.UserScan) {
	t.Send(UserDoneMsg{
		ID:       scan.UserID,
		Nickname: scan.Nickname,
		Videos:   scan.Videos,
		Source:   string(scan.Source),
		Status:   string(scan.ListingStatus),
	})
}

// ScanFinished implements scraper.Reporter
func (t *TUI) ScanFinished(summary *scraper.ScanSummary) {
	t.Send(ScanDoneMsg{
		Users:        len(summary.Users),
		Skipped:      summary.Skipped,
		VideosStored: summary.VideosStored,
		Duration:     summary.Duration,
	})
}

// LogError shows an error in the log panel
func (t *TUI) LogError(format string, args ...interface{}) {
	t.Send(LogMsg{Level: "ERROR", Message: fmt.Sprintf(format, args...)})
}
