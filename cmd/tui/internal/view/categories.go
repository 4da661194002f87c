package view

import (
	"errors"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/budgie/internal/category"
	"github.com/MrJamesThe3rd/budgie/internal/tracker"
)

type catState int

const (
	catStateBrowse catState = iota
	catStateAdd
	catStateConfirmDelete
)

// CategoriesModel lists the built-in and custom categories and manages the
// custom ones.
type CategoriesModel struct {
	CommonModel
	svc *tracker.Service

	state  catState
	cursor int
	form   *huh.Form

	snapshot tracker.State
	fields   *categoryFields

	status string
	err    error
}

type categoryFields struct {
	Name    string
	Confirm bool
}

func NewCategoriesModel(svc *tracker.Service) CategoriesModel {
	return CategoriesModel{
		svc:      svc,
		snapshot: svc.Snapshot(),
	}
}

func (m CategoriesModel) Title() string { return "Categories" }

func (m CategoriesModel) ShortHelp() string {
	if m.state != catStateBrowse {
		return "Navigate form | Esc: cancel"
	}

	return "Esc: back | n: new | d: delete custom"
}

func (m CategoriesModel) Init() tea.Cmd {
	return nil
}

func (m CategoriesModel) all() []string {
	return category.List(m.snapshot.CustomCategories)
}

func (m CategoriesModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if res, ok := msg.(categoryResultMsg); ok {
		m.state = catStateBrowse
		m.form = nil
		m.status, m.err = res.status, res.err
		m.snapshot = m.svc.Snapshot()
		m.cursor = min(m.cursor, len(m.all())-1)

		return m, nil
	}

	if m.state != catStateBrowse {
		return m.updateForm(msg)
	}

	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch keyMsg.String() {
	case "esc", "q":
		return m, Back
	case "up", "k":
		m.cursor = max(m.cursor-1, 0)
	case "down", "j":
		m.cursor = min(m.cursor+1, len(m.all())-1)
	case "n":
		m.fields = &categoryFields{}
		m.state = catStateAdd
		m.form = m.buildAddForm()

		return m, m.form.Init()
	case "d":
		name := m.all()[m.cursor]
		if category.IsBuiltin(name) {
			m.status, m.err = "Built-in categories cannot be deleted.", nil
			return m, nil
		}

		m.fields = &categoryFields{Name: name}
		m.state = catStateConfirmDelete
		m.form = m.buildDeleteForm(name)

		return m, m.form.Init()
	}

	return m, nil
}

func (m CategoriesModel) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc {
		m.state = catStateBrowse
		m.form = nil

		return m, nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State != huh.StateCompleted {
		return m, cmd
	}

	if m.state == catStateAdd {
		return m, m.addCmd(m.fields.Name)
	}

	if !m.fields.Confirm {
		m.state = catStateBrowse
		m.form = nil

		return m, nil
	}

	return m, m.deleteCmd(m.fields.Name)
}

func (m CategoriesModel) buildAddForm() *huh.Form {
	taken := m.all()

	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Key("name").
				Title("New category").
				Value(&m.fields.Name).
				Validate(func(s string) error {
					name := category.Normalize(s)
					if name == "" {
						return errors.New("name cannot be empty")
					}

					for _, t := range taken {
						if t == name {
							return fmt.Errorf("%q already exists", name)
						}
					}

					return nil
				}),
		),
	).WithWidth(44).WithShowHelp(false)
}

func (m CategoriesModel) buildDeleteForm(name string) *huh.Form {
	moved := 0

	for _, e := range m.snapshot.Expenses {
		if e.Category == name {
			moved++
		}
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(fmt.Sprintf("Delete %q?", name)).
				Description(fmt.Sprintf("%d expense(s) will move to %q.", moved, category.Other)).
				Value(&m.fields.Confirm),
		),
	).WithWidth(44).WithShowHelp(false)
}

func (m CategoriesModel) View() string {
	var sb strings.Builder

	sb.WriteString(lipgloss.NewStyle().Bold(true).Render("Categories"))
	sb.WriteString("\n\n")

	counts := make(map[string]int)
	for _, e := range m.snapshot.Expenses {
		counts[e.Category]++
	}

	for i, name := range m.all() {
		cursor := " "
		if i == m.cursor {
			cursor = ">"
		}

		kind := faintStyle.Render("built-in")
		if !category.IsBuiltin(name) {
			kind = activeStyle("custom")
		}

		sb.WriteString(fmt.Sprintf("%s %-16s %-10s %d\n", cursor, name, kind, counts[name]))
	}

	content := sb.String()

	if m.state != catStateBrowse && m.form != nil {
		content = lipgloss.JoinHorizontal(lipgloss.Top, content, "  ", panelStyle.Render(m.form.View()))
	}

	switch {
	case m.err != nil:
		content += "\n" + errorStyle.Render(fmt.Sprintf("Error: %v", m.err))
	case m.status != "":
		content += "\n" + faintStyle.Render(m.status)
	}

	return lipgloss.NewStyle().Padding(1).Render(content)
}

type categoryResultMsg struct {
	status string
	err    error
}

func (m CategoriesModel) addCmd(name string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := OpCtx()
		defer cancel()

		if _, added := m.svc.AddCategory(ctx, name); !added {
			return categoryResultMsg{status: fmt.Sprintf("%q was not added.", name)}
		}

		return categoryResultMsg{status: fmt.Sprintf("Added %q.", category.Normalize(name))}
	}
}

func (m CategoriesModel) deleteCmd(name string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := OpCtx()
		defer cancel()

		if _, removed := m.svc.DeleteCategory(ctx, name); !removed {
			return categoryResultMsg{status: fmt.Sprintf("%q is not a custom category.", name)}
		}

		return categoryResultMsg{status: fmt.Sprintf("Deleted %q.", name)}
	}
}
