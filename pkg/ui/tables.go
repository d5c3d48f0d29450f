package ui

import (
	"fmt"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"vkscan/pkg/models"
	"vkscan/pkg/storage"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#71AAEB")).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	tableBorder = lipgloss.NewStyle().Foreground(lipgloss.Color("#4A76A8"))
)

func newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(tableBorder).
		Headers(headers...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})
}

// VideoTable renders videos as a table. A missing URL is shown as "-".
func VideoTable(videos []models.Video) string {
	t := newTable("ID", "TITLE", "URL")
	for _, v := range videos {
		url := v.URLOrEmpty()
		if url == "" {
			url = "-"
		}
		t.Row(strconv.FormatInt(v.ID, 10), v.Title, url)
	}
	return t.Render()
}

// UserTable renders stored users as a table
func UserTable(users []models.User) string {
	t := newTable("ID", "NICKNAME")
	for _, u := range users {
		t.Row(strconv.FormatInt(u.ID, 10), u.Nickname)
	}
	return t.Render()
}

// StatsTable renders database totals
func StatsTable(stats *storage.Stats) string {
	t := newTable("TABLE", "ROWS")
	t.Row("users", fmt.Sprint(stats.Users))
	t.Row("videos", fmt.Sprint(stats.Videos))
	t.Row("uservideo", fmt.Sprint(stats.Links))
	return t.Render()
}

// PrintTable writes a rendered table unless quiet mode is on
func PrintTable(rendered string) {
	printf("%s\n", rendered)
}
