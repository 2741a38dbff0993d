// Package tui is the terminal front end of the ledger: an input form, the
// transaction table with a cursor, a category filter and the summary line.
package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/ansi"

	"fintrack/internal/core"
	"fintrack/internal/ledger"
	applog "fintrack/internal/log"
	"fintrack/internal/ports"
)

const windowTitle = "Personal Finance Tracker"

type focus int

const (
	focusCategory focus = iota
	focusAmount
	focusDate
	focusKind
	focusTable
	focusCount
)

var fieldLabels = [...]string{"Category", "Amount", "Date"}

// Model is the bubbletea model. Every ledger call happens inside Update,
// so the ledger sees one event at a time.
type Model struct {
	ctx    context.Context
	ledger ports.Ledger
	logger *applog.Logger

	inputs [3]string
	kind   core.Kind
	focus  focus

	rows      []core.Transaction
	cursor    int
	filters   []string // "" (no filter) followed by the sorted categories
	filterIdx int
	summary   core.Summary

	status    string
	statusErr bool
	width     int
}

// New builds the model and loads the current ledger state.
func New(ctx context.Context, l ports.Ledger, logger *applog.Logger) Model {
	if logger == nil {
		logger = applog.Discard()
	}
	m := Model{
		ctx:     ctx,
		ledger:  l,
		logger:  logger.WithComponent(applog.ComponentTUI),
		kind:    core.Income,
		cursor:  ledger.NoSelection,
		filters: []string{""},
	}
	m.refresh()
	return m
}

func (m Model) Init() tea.Cmd {
	return tea.SetWindowTitle(windowTitle)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil
	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "esc":
		return m, tea.Quit
	case "tab":
		m.focus = (m.focus + 1) % focusCount
		return m, nil
	case "shift+tab":
		m.focus = (m.focus + focusCount - 1) % focusCount
		return m, nil
	case "ctrl+f":
		m.cycleFilter()
		return m, nil
	case "ctrl+d":
		m.deleteSelected()
		return m, nil
	}

	switch m.focus {
	case focusCategory, focusAmount, focusDate:
		m.editField(msg)
	case focusKind:
		m.editKind(msg)
	case focusTable:
		m.navigateTable(msg)
	}
	return m, nil
}

func (m *Model) editField(msg tea.KeyMsg) {
	field := &m.inputs[m.focus]
	switch msg.Type {
	case tea.KeyEnter:
		m.addTransaction()
	case tea.KeyBackspace:
		if r := []rune(*field); len(r) > 0 {
			*field = string(r[:len(r)-1])
		}
	case tea.KeyCtrlU:
		*field = ""
	case tea.KeySpace:
		*field += " "
	case tea.KeyRunes:
		*field += string(msg.Runes)
	}
}

func (m *Model) editKind(msg tea.KeyMsg) {
	switch msg.String() {
	case "enter":
		m.addTransaction()
	case "left", "right", "h", "l", " ":
		if m.kind == core.Income {
			m.kind = core.Expense
		} else {
			m.kind = core.Income
		}
	case "i", "I":
		m.kind = core.Income
	case "e", "E":
		m.kind = core.Expense
	}
}

func (m *Model) navigateTable(msg tea.KeyMsg) {
	switch msg.String() {
	case "up", "k":
		switch {
		case m.cursor == ledger.NoSelection && len(m.rows) > 0:
			m.cursor = len(m.rows) - 1
		case m.cursor > 0:
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.rows)-1 {
			m.cursor++
		}
	case "home", "g":
		if len(m.rows) > 0 {
			m.cursor = 0
		}
	case "end", "G":
		if len(m.rows) > 0 {
			m.cursor = len(m.rows) - 1
		}
	case "d", "x", "delete":
		m.deleteSelected()
	case "f":
		m.cycleFilter()
	}
}

func (m *Model) addTransaction() {
	t, err := m.ledger.AddTransaction(m.ctx, core.TransactionInput{
		Category: m.inputs[focusCategory],
		Amount:   m.inputs[focusAmount],
		Date:     m.inputs[focusDate],
		Kind:     m.kind.String(),
	})
	if err != nil {
		m.setError(err)
		return
	}

	// the type selection is kept for the next entry
	m.inputs = [3]string{}
	m.focus = focusCategory
	m.setStatus(fmt.Sprintf("Added %s %s (%s)", t.Kind, core.FormatDollars(t.Amount), t.Category))
	m.refresh()
}

// deleteSelected removes the row under the cursor, then clears the selection.
// With a filter active the row is resolved to its id, since view and ledger
// positions differ.
func (m *Model) deleteSelected() {
	var (
		t   core.Transaction
		err error
	)
	switch {
	case m.cursor < 0 || m.cursor >= len(m.rows):
		_, err = m.ledger.RemoveAt(m.ctx, ledger.NoSelection)
	case m.filter() != "":
		t, err = m.ledger.RemoveByID(m.ctx, m.rows[m.cursor].ID)
	default:
		t, err = m.ledger.RemoveAt(m.ctx, m.cursor)
	}
	if err != nil {
		m.setError(err)
		return
	}

	m.cursor = ledger.NoSelection
	m.setStatus(fmt.Sprintf("Deleted %s %s (%s)", t.Kind, core.FormatDollars(t.Amount), t.Category))
	m.refresh()
}

func (m *Model) cycleFilter() {
	m.filterIdx = (m.filterIdx + 1) % len(m.filters)
	m.cursor = ledger.NoSelection
	m.refresh()
}

func (m Model) filter() string {
	if m.filterIdx < 0 || m.filterIdx >= len(m.filters) {
		return ""
	}
	return m.filters[m.filterIdx]
}

// refresh reloads every derived view from the ledger.
func (m *Model) refresh() {
	current := m.filter()

	cats, err := m.ledger.Categories(m.ctx)
	if err != nil {
		m.setError(err)
		return
	}
	m.filters = append([]string{""}, cats...)
	m.filterIdx = 0
	for i, c := range m.filters {
		if c == current {
			m.filterIdx = i
		}
	}

	rows, err := m.ledger.ListTransactions(m.ctx, m.filter())
	if err != nil {
		m.setError(err)
		return
	}
	m.rows = rows

	summary, err := m.ledger.Summary(m.ctx)
	if err != nil {
		m.setError(err)
		return
	}
	m.summary = summary

	// a row is selected only by moving through the table
	if m.cursor >= len(m.rows) {
		m.cursor = ledger.NoSelection
	}
}

func (m *Model) setStatus(s string) {
	m.status = s
	m.statusErr = false
}

func (m *Model) setError(err error) {
	m.statusErr = true

	var ve *core.ValidationError
	var nf *core.NotFoundError
	switch {
	case errors.As(err, &ve):
		m.status = ve.Error()
	case errors.As(err, &nf):
		m.status = nf.Error()
	default:
		m.status = err.Error()
		m.logger.ErrorContext(m.ctx, "Ledger call failed", applog.FieldError, err)
	}
}

func (m Model) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render(windowTitle))
	b.WriteString("\n")

	for i, label := range fieldLabels {
		b.WriteString(m.renderField(focus(i), label, m.inputs[i]))
		b.WriteString("\n")
	}
	b.WriteString(m.renderField(focusKind, "Type", "< "+m.kind.String()+" >"))
	b.WriteString("\n\n")

	filter := m.filter()
	if filter == "" {
		filter = "All categories"
	}
	b.WriteString(headerStyle.Render("Filter by Category: " + filter))
	b.WriteString("\n")
	b.WriteString(m.renderTable())

	b.WriteString(summaryStyle.Render(fmt.Sprintf("Total Income: %s | Total Expenses: %s | Balance: %s",
		core.FormatDollars(m.summary.Income),
		core.FormatDollars(m.summary.Expenses),
		core.FormatDollars(m.summary.Balance))))
	b.WriteString("\n")

	if m.status != "" {
		style := okStyle
		if m.statusErr {
			style = errorStyle
		}
		b.WriteString(style.Render(m.status))
		b.WriteString("\n")
	}

	b.WriteString(helpStyle.Render("tab: next field • enter: add • ctrl+d: delete • ctrl+f: filter • ↑/↓: select (table) • esc: quit"))
	b.WriteString("\n")
	return b.String()
}

func (m Model) renderField(f focus, label, value string) string {
	ls, is := labelStyle, inputStyle
	if m.focus == f {
		ls, is = focusedLabel, focusedInput
	}
	return ls.Render(label+":") + " " + is.Render(value)
}

const (
	colCategory = 18
	colAmount   = 14
	colDate     = 12
	colKind     = 8
)

func (m Model) renderTable() string {
	var b strings.Builder
	b.WriteString(headerStyle.Render(fmt.Sprintf("  %-*s %*s  %-*s %-*s", colCategory, "Category", colAmount, "Amount", colDate, "Date", colKind, "Type")))
	b.WriteString("\n")

	if len(m.rows) == 0 {
		b.WriteString(headerStyle.Render("  No transactions."))
		b.WriteString("\n")
		return b.String()
	}

	for i, t := range m.rows {
		prefix := "  "
		if i == m.cursor {
			prefix = "> "
		}
		line := fmt.Sprintf("%s%-*s %*s  %-*s %-*s", prefix,
			colCategory, ansi.Truncate(t.Category, colCategory, "…"),
			colAmount, core.FormatDollars(t.Amount),
			colDate, ansi.Truncate(t.Date, colDate, "…"),
			colKind, t.Kind)

		style := incomeStyle
		if t.Kind == core.Expense {
			style = expenseStyle
		}
		if i == m.cursor && m.focus == focusTable {
			style = selectedStyle
		}
		b.WriteString(style.Render(line))
		b.WriteString("\n")
	}
	return b.String()
}
