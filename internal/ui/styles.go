package ui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/huaducdat/daily-task-planner/internal/task"
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#1677FF"))
	labelStyle = lipgloss.NewStyle().Bold(true)
	mutedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	errorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	warnStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#FA8C16"))
	okStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#52C41A"))

	selectedStyle = lipgloss.NewStyle().Reverse(true)
	headerStyle   = lipgloss.NewStyle().Bold(true).Underline(true)

	dialogStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#FF4D4F")).
			Padding(0, 2)

	formStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#1677FF")).
			Padding(0, 2)

	yesTag = lipgloss.NewStyle().Foreground(lipgloss.Color("#2F54EB")).Bold(true)
	noTag  = mutedStyle

	categoryStyles = map[task.Category]lipgloss.Style{
		task.CategoryWork:     lipgloss.NewStyle().Foreground(lipgloss.Color("#1677FF")),
		task.CategoryPersonal: lipgloss.NewStyle().Foreground(lipgloss.Color("#52C41A")),
		task.CategoryStudy:    lipgloss.NewStyle().Foreground(lipgloss.Color("#722ED1")),
	}
)

func categoryTag(c task.Category) string {
	style, ok := categoryStyles[c]
	if !ok {
		style = mutedStyle
	}
	return style.Render(string(c))
}

func completedTag(done bool) string {
	if done {
		return yesTag.Render("Yes")
	}
	return noTag.Render("No")
}
