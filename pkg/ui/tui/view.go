package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
)

const logo = `█░█ █▄▀ █▀ █▀▀ ▄▀█ █▄░█
▀▄▀ █░█ ▄█ █▄▄ █▀█ █░▀█`

// View renders the dashboard
func (m *Model) View() string {
	if m.width == 0 || m.height == 0 {
		return "Initializing..."
	}

	columnWidth := (m.width - 4) / 2

	left := lipgloss.JoinVertical(lipgloss.Left,
		m.renderStatsPanel(columnWidth),
		m.renderCurrentPanel(columnWidth),
	)
	right := lipgloss.JoinVertical(lipgloss.Left,
		m.renderRecentPanel(columnWidth),
		m.renderLogsPanel(columnWidth),
	)

	sections := []string{
		logoStyle.Render(logo),
		lipgloss.JoinHorizontal(lipgloss.Top, left, "  ", right),
	}
	if m.showHelp {
		sections = append(sections, m.renderHelp())
	} else {
		sections = append(sections, helpStyle.Render("Press ? for help, q to quit"))
	}

	return baseStyle.Width(m.width).Render(lipgloss.JoinVertical(lipgloss.Left, sections...))
}

// renderStatsPanel renders totals and the overall progress bar
func (m *Model) renderStatsPanel(width int) string {
	title := titleStyle.Render(" SCAN ")
	done, total, videos := m.Stats()

	elapsed := time.Since(m.sessionStartTime)
	if m.finished {
		elapsed = m.finishedIn
	}

	m.progress.Width = width - 6
	if m.progress.Width < 10 {
		m.progress.Width = 10
	}

	lines := []string{
		fmt.Sprintf("%s %s", statsLabelStyle.Render("Users:"), statsValueStyle.Render(fmt.Sprintf("%d/%d", done+m.skippedUsers, total))),
		fmt.Sprintf("%s %s", statsLabelStyle.Render("Videos stored:"), statsValueStyle.Render(fmt.Sprintf("%d", videos))),
		fmt.Sprintf("%s %s", statsLabelStyle.Render("Elapsed:"), statsValueStyle.Render(formatDuration(elapsed))),
		fmt.Sprintf("%s %s", statsLabelStyle.Render("ETA:"), statsValueStyle.Render(formatDuration(m.ETA()))),
		m.progress.ViewAs(m.Percent()),
	}
	if m.skippedUsers > 0 {
		lines = append(lines, dimStyle.Render(fmt.Sprintf("%d users skipped from checkpoint", m.skippedUsers)))
	}
	if m.finished {
		lines = append(lines, successStyle.Render("✓ COMPLETE"))
	}

	return panelStyle.Width(width).Render(lipgloss.JoinVertical(lipgloss.Left, title, strings.Join(lines, "\n")))
}

// renderCurrentPanel renders the user being scanned
func (m *Model) renderCurrentPanel(width int) string {
	title := titleStyle.Render(" CURRENT USER ")

	content := dimStyle.Render("Idle")
	if m.current != nil {
		content = fmt.Sprintf("%s %s %s",
			m.spinner.View(),
			statsValueStyle.Render(m.current.Nickname),
			dimStyle.Render(fmt.Sprintf("(id %d, %s)", m.current.ID, formatDuration(time.Since(m.current.StartTime)))),
		)
	}

	return panelStyle.Width(width).Render(lipgloss.JoinVertical(lipgloss.Left, title, content))
}

// renderRecentPanel renders the last finished users
func (m *Model) renderRecentPanel(width int) string {
	title := titleStyle.Render(" RECENT ")

	recent := m.RecentUsers()
	if len(recent) == 0 {
		return panelStyle.Width(width).Render(lipgloss.JoinVertical(lipgloss.Left, title, dimStyle.Render("No users scanned yet")))
	}

	var items []string
	for _, u := range recent {
		items = append(items, userItemStyle.Render(fmt.Sprintf("✓ %-20s %5d %s",
			truncate(u.Nickname, 20),
			u.Videos,
			SourceStyle(u.Source).Render(u.Source),
		)))
	}

	return panelStyle.Width(width).Render(lipgloss.JoinVertical(lipgloss.Left, title, strings.Join(items, "\n")))
}

// renderLogsPanel renders the logs panel
func (m *Model) renderLogsPanel(width int) string {
	title := titleStyle.Render(" LOG ")

	start := len(m.logMessages) - 10
	if start < 0 {
		start = 0
	}

	var logs []string
	for _, log := range m.logMessages[start:] {
		timestamp := logTimestampStyle.Render(log.Time.Format("15:04:05"))
		level := lipgloss.NewStyle().Foreground(log.Color).Bold(true).Render(fmt.Sprintf("[%-7s]", log.Level))
		logs = append(logs, fmt.Sprintf("%s %s %s", timestamp, level, logMessageStyle.Render(truncate(log.Message, width-25))))
	}

	content := strings.Join(logs, "\n")
	if content == "" {
		content = dimStyle.Render("No logs yet...")
	}

	return panelStyle.Width(width).Render(lipgloss.JoinVertical(lipgloss.Left, title, content))
}

// renderHelp renders the help panel
func (m *Model) renderHelp() string {
	help := `
  Keys:
    q/Q      - Quit (the scan stops after the current request)
    ctrl+l   - Clear the log
    ?        - Toggle this help

  Sources:
    ` + successStyle.Render("api") + `      - Listed by video.get
    ` + warningStyle.Render("scrape") + `   - Read from the video page
    ` + dimStyle.Render("none") + `     - No videos found
    ` + errorStyle.Render("red") + `      - Errors
`

	return panelStyle.Width(m.width - 2).Render(help)
}

// truncate shortens s to at most n runes
func truncate(s string, n int) string {
	r := []rune(s)
	if n <= 3 || len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}

// formatDuration formats a duration as mm:ss or hh:mm:ss
func formatDuration(d time.Duration) string {
	if d < 0 {
		d = 0
	}

	h := int(d.Hours())
	m := int(d.Minutes()) % 60
	s := int(d.Seconds()) % 60

	if h > 0 {
		return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%02d:%02d", m, s)
}
