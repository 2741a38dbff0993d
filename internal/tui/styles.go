package tui

import "github.com/charmbracelet/lipgloss"

var (
	colorAccent  = lipgloss.Color("#89b4fa")
	colorMuted   = lipgloss.Color("#7f849c")
	colorIncome  = lipgloss.Color("#a6e3a1")
	colorExpense = lipgloss.Color("#f38ba8")

	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(colorAccent).MarginBottom(1)
	labelStyle    = lipgloss.NewStyle().Width(10).Foreground(colorMuted)
	focusedLabel  = labelStyle.Foreground(colorAccent).Bold(true)
	inputStyle    = lipgloss.NewStyle().Width(28).Border(lipgloss.NormalBorder(), false, false, true, false).BorderForeground(colorMuted)
	focusedInput  = inputStyle.BorderForeground(colorAccent)
	headerStyle   = lipgloss.NewStyle().Bold(true).Foreground(colorMuted)
	selectedStyle = lipgloss.NewStyle().Foreground(colorAccent).Bold(true)
	incomeStyle   = lipgloss.NewStyle().Foreground(colorIncome)
	expenseStyle  = lipgloss.NewStyle().Foreground(colorExpense)
	errorStyle    = lipgloss.NewStyle().Foreground(colorExpense)
	okStyle       = lipgloss.NewStyle().Foreground(colorIncome)
	helpStyle     = lipgloss.NewStyle().Foreground(colorMuted).MarginTop(1)
	summaryStyle  = lipgloss.NewStyle().Bold(true).MarginTop(1)
)
