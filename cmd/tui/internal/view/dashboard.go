package view

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/budgie/internal/summary"
	"github.com/MrJamesThe3rd/budgie/internal/tracker"
	"github.com/MrJamesThe3rd/budgie/internal/undo"
)

type dashState int

const (
	dashStateBrowse dashState = iota
	dashStateAdd
	dashStateEdit
	dashStateBudget
)

// breakdownRows caps how many categories the breakdown panel lists.
const breakdownRows = 6

// OpenCategoriesMsg and OpenTransferMsg ask the root model to switch screens.
type (
	OpenCategoriesMsg struct{}
	OpenTransferMsg   struct{ Filter tracker.Filter }
)

type DashboardModel struct {
	CommonModel
	svc    *tracker.Service
	undoer *undo.Undoer
	buf    *undo.Buffer
	now    func() time.Time

	state    dashState
	table    table.Model
	progress progress.Model
	form     *huh.Form

	snapshot tracker.State
	visible  []tracker.Expense

	categoryIdx int
	datePreset  DatePreset

	editingID string
	expense   *expenseFields
	budget    *budgetFields

	status string
	err    error
}

func NewDashboardModel(svc *tracker.Service, buf *undo.Buffer) DashboardModel {
	columns := []table.Column{
		{Title: "Date", Width: 12},
		{Title: "Category", Width: 15},
		{Title: "Amount", Width: 12},
		{Title: "Name", Width: 36},
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(12),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(false)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	t.SetStyles(s)

	m := DashboardModel{
		svc:      svc,
		undoer:   undo.NewUndoer(svc, buf),
		buf:      buf,
		now:      time.Now,
		table:    t,
		progress: progress.New(progress.WithDefaultGradient(), progress.WithWidth(40)),
		snapshot: svc.Snapshot(),
	}
	m.refresh()

	return m
}

func (m DashboardModel) Title() string { return "Budget" }

func (m DashboardModel) ShortHelp() string {
	if m.state != dashStateBrowse {
		return "Navigate form | Esc: cancel"
	}

	return "a: add | e: edit | d: delete | u: undo | b: budget | f: category | t: dates | c: categories | x: export/import | q: quit"
}

func (m DashboardModel) Init() tea.Cmd {
	return nil
}

// Filter is the filter currently applied to the expense table.
func (m DashboardModel) Filter() tracker.Filter {
	options := m.categoryOptions()

	f := tracker.Filter{Category: options[m.categoryIdx%len(options)]}
	f.StartDate, f.EndDate = m.datePreset.Range(m.now())

	return f
}

// Editing reports whether a form has the keyboard.
func (m DashboardModel) Editing() bool {
	return m.state != dashStateBrowse
}

func (m DashboardModel) categoryOptions() []string {
	return append([]string{tracker.AllCategories}, m.svc.Categories()...)
}

func (m DashboardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case StateMsg:
		m.snapshot = msg.State
		m.refresh()

		return m, nil

	case opResultMsg:
		m.state = dashStateBrowse
		m.form = nil
		m.table.Focus()
		m.status, m.err = msg.status, msg.err
		m.snapshot = m.svc.Snapshot()
		m.refresh()

		if msg.deleted {
			return m, undoTick()
		}

		return m, nil

	case undoTickMsg:
		if _, _, pending := m.buf.Pending(); pending {
			return m, undoTick()
		}

		return m, nil

	case tea.WindowSizeMsg:
		m.Width, m.Height = msg.Width, msg.Height
		m.table.SetHeight(max(msg.Height-20, 5))

		return m, nil
	}

	if m.state == dashStateBrowse {
		return m.updateBrowse(msg)
	}

	return m.updateForm(msg)
}

func (m DashboardModel) updateBrowse(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "a":
			m.expense = newExpenseFields(m.now())
			return m.openForm(dashStateAdd, newExpenseForm(m.expense, m.svc.Categories()))
		case "e", "enter":
			e, ok := m.selected()
			if !ok {
				return m, nil
			}

			m.editingID = e.ID
			m.expense = fieldsFromExpense(e)

			return m.openForm(dashStateEdit, newExpenseForm(m.expense, m.svc.Categories()))
		case "b":
			m.budget = &budgetFields{Amount: m.snapshot.Budget.MonthlyBalance.String()}
			return m.openForm(dashStateBudget, newBudgetForm(m.budget, tracker.CurrentMonth(m.now())))
		case "d", "delete":
			e, ok := m.selected()
			if !ok {
				return m, nil
			}

			return m, m.deleteCmd(e.ID)
		case "u":
			return m, m.undoCmd()
		case "f":
			m.categoryIdx = (m.categoryIdx + 1) % len(m.categoryOptions())
			m.refresh()

			return m, nil
		case "t":
			m.datePreset = m.datePreset.Next()
			m.refresh()

			return m, nil
		case "c":
			return m, func() tea.Msg { return OpenCategoriesMsg{} }
		case "x":
			filter := m.Filter()
			return m, func() tea.Msg { return OpenTransferMsg{Filter: filter} }
		case "r":
			m.snapshot = m.svc.Snapshot()
			m.refresh()

			return m, nil
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)

	return m, cmd
}

func (m DashboardModel) openForm(state dashState, form *huh.Form) (tea.Model, tea.Cmd) {
	m.state = state
	m.form = form
	m.status, m.err = "", nil
	m.table.Blur()

	return m, m.form.Init()
}

func (m DashboardModel) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc {
		m.state = dashStateBrowse
		m.form = nil
		m.table.Focus()

		return m, nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State != huh.StateCompleted {
		return m, cmd
	}

	switch m.state {
	case dashStateAdd:
		return m, m.addCmd(*m.expense)
	case dashStateEdit:
		return m, m.editCmd(m.editingID, *m.expense)
	case dashStateBudget:
		return m, m.budgetCmd(*m.budget)
	}

	return m, nil
}

func (m DashboardModel) selected() (tracker.Expense, bool) {
	idx := m.table.Cursor()
	if idx < 0 || idx >= len(m.visible) {
		return tracker.Expense{}, false
	}

	return m.visible[idx], true
}

func (m *DashboardModel) refresh() {
	if options := m.categoryOptions(); m.categoryIdx >= len(options) {
		m.categoryIdx = 0
	}

	m.visible = tracker.FilterExpenses(m.snapshot.Expenses, m.Filter())

	rows := make([]table.Row, 0, len(m.visible))
	for _, e := range m.visible {
		rows = append(rows, table.Row{
			FormatDate(e.Date),
			e.Category,
			FormatAmount(e.Amount),
			e.Name,
		})
	}

	m.table.SetRows(rows)

	if c := m.table.Cursor(); c >= len(rows) && len(rows) > 0 {
		m.table.SetCursor(len(rows) - 1)
	}
}

func (m DashboardModel) View() string {
	sum := summary.Of(m.snapshot)

	content := lipgloss.JoinVertical(lipgloss.Left,
		m.viewSummary(sum),
		"",
		m.viewFilter(),
		lipgloss.NewStyle().
			BorderStyle(lipgloss.NormalBorder()).
			BorderForeground(lipgloss.Color("240")).
			Render(m.table.View()),
	)

	side := m.viewBreakdown(sum)
	if m.state != dashStateBrowse && m.form != nil {
		side = panelStyle.Render(m.formTitle() + "\n\n" + m.form.View())
	}

	content = lipgloss.JoinHorizontal(lipgloss.Top, content, "  ", side)

	if toast := m.viewUndoToast(); toast != "" {
		content += "\n" + toast
	}

	switch {
	case m.err != nil:
		content += "\n" + errorStyle.Render(fmt.Sprintf("Error: %v", m.err))
	case m.status != "":
		content += "\n" + faintStyle.Render(m.status)
	}

	return lipgloss.NewStyle().Padding(1).Render(content)
}

func (m DashboardModel) formTitle() string {
	switch m.state {
	case dashStateAdd:
		return "Add Expense"
	case dashStateEdit:
		return "Edit Expense"
	case dashStateBudget:
		return "Set Budget"
	}

	return ""
}

func (m DashboardModel) viewSummary(sum summary.Summary) string {
	remaining := summary.FormatCurrency(sum.Remaining)
	if sum.OverBudget {
		remaining = errorStyle.Render(remaining + " over budget")
	} else {
		remaining = okStyle.Render(remaining)
	}

	month := sum.Month
	if t, err := time.Parse(tracker.MonthLayout, sum.Month); err == nil {
		month = t.Format("January 2006")
	}

	lines := []string{
		lipgloss.NewStyle().Bold(true).Render(month),
		fmt.Sprintf("Budget %s | Spent %s | Remaining %s",
			summary.FormatCurrency(sum.Budget),
			summary.FormatCurrency(sum.Total),
			remaining,
		),
		fmt.Sprintf("%s %s", m.progress.ViewAs(sum.Progress/100), summary.FormatPercentage(sum.Percentage, sum.PercentageOK)),
	}

	return strings.Join(lines, "\n")
}

func (m DashboardModel) viewFilter() string {
	f := m.Filter()

	return lipgloss.NewStyle().PaddingBottom(1).Render(fmt.Sprintf(
		"Filter: [f] Category: %s | [t] Date: %s | %d of %d expenses",
		activeStyle(f.Category),
		activeStyle(m.datePreset.String()),
		len(m.visible),
		len(m.snapshot.Expenses),
	))
}

func (m DashboardModel) viewBreakdown(sum summary.Summary) string {
	if len(sum.Breakdown) == 0 {
		return faintStyle.Render("No expenses yet.")
	}

	var sb strings.Builder

	sb.WriteString(lipgloss.NewStyle().Bold(true).Render("By category"))
	sb.WriteString("\n\n")

	for i, c := range sum.Breakdown {
		if i == breakdownRows {
			sb.WriteString(faintStyle.Render(fmt.Sprintf("+%d more", len(sum.Breakdown)-breakdownRows)))
			break
		}

		share := c.Amount.Div(sum.Total).InexactFloat64()
		sb.WriteString(fmt.Sprintf("%-14s %s %s\n", c.Category, bar(share, 12), summary.FormatCurrency(c.Amount)))
	}

	return sb.String()
}

func (m DashboardModel) viewUndoToast() string {
	e, until, ok := m.buf.Pending()
	if !ok {
		return ""
	}

	left := max(until.Sub(m.now()).Round(time.Second), 0)

	return activeStyle(fmt.Sprintf("Deleted %q (%s). Press u to undo (%s)", e.Name, FormatAmount(e.Amount), left))
}

// Messages

// StateMsg carries a state published by the tracker service.
type StateMsg struct {
	State tracker.State
}

type opResultMsg struct {
	status  string
	err     error
	deleted bool
}

type undoTickMsg time.Time

func undoTick() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg { return undoTickMsg(t) })
}

func (m DashboardModel) addCmd(f expenseFields) tea.Cmd {
	return func() tea.Msg {
		d, err := f.draft()
		if err != nil {
			return opResultMsg{err: err}
		}

		ctx, cancel := OpCtx()
		defer cancel()

		e, err := m.svc.AddExpense(ctx, d)
		if err != nil {
			return opResultMsg{err: err}
		}

		return opResultMsg{status: fmt.Sprintf("Added %q.", e.Name)}
	}
}

func (m DashboardModel) editCmd(id string, f expenseFields) tea.Cmd {
	return func() tea.Msg {
		d, err := f.draft()
		if err != nil {
			return opResultMsg{err: err}
		}

		ctx, cancel := OpCtx()
		defer cancel()

		_, found, err := m.svc.EditExpense(ctx, tracker.Expense{
			ID:       id,
			Name:     d.Name,
			Amount:   d.Amount,
			Date:     d.Date,
			Category: d.Category,
		})
		if err != nil {
			return opResultMsg{err: err}
		}

		if !found {
			return opResultMsg{status: "Expense no longer exists."}
		}

		return opResultMsg{status: "Saved."}
	}
}

func (m DashboardModel) budgetCmd(f budgetFields) tea.Cmd {
	return func() tea.Msg {
		amount, err := f.amount()
		if err != nil {
			return opResultMsg{err: err}
		}

		ctx, cancel := OpCtx()
		defer cancel()

		if _, err := m.svc.SetMonthlyBalance(ctx, amount); err != nil {
			return opResultMsg{err: err}
		}

		return opResultMsg{status: "Budget updated."}
	}
}

func (m DashboardModel) deleteCmd(id string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := OpCtx()
		defer cancel()

		if _, ok := m.undoer.Delete(ctx, id); !ok {
			return opResultMsg{status: "Expense no longer exists."}
		}

		return opResultMsg{deleted: true}
	}
}

func (m DashboardModel) undoCmd() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := OpCtx()
		defer cancel()

		e, ok := m.undoer.Undo(ctx)
		if !ok {
			return opResultMsg{status: "Nothing to undo."}
		}

		return opResultMsg{status: fmt.Sprintf("Restored %q.", e.Name)}
	}
}
