package view

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/budgie/internal/export"
	"github.com/MrJamesThe3rd/budgie/internal/tracker"
)

type transferState int

const (
	transferStateForm transferState = iota
	transferStateRunning
	transferStateResult
)

const (
	modeExport = "export"
	modeImport = "import"
)

const transferTimeout = 30 * time.Second

// TransferModel exports the filtered expenses to a CSV file or imports one.
type TransferModel struct {
	CommonModel
	exportService *export.Service
	filter        tracker.Filter

	state   transferState
	form    *huh.Form
	fields  *transferFields
	spinner spinner.Model

	result string
	err    error
}

type transferFields struct {
	Mode string
	Path string
}

func NewTransferModel(svc *export.Service, filter tracker.Filter) TransferModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	m := TransferModel{
		exportService: svc,
		filter:        filter,
		fields: &transferFields{
			Mode: modeExport,
			Path: filepath.Join(".", "exports", export.FileName(time.Now())),
		},
		spinner: s,
	}
	m.form = m.buildForm()

	return m
}

func (m TransferModel) Title() string { return "Export / Import" }

func (m TransferModel) ShortHelp() string {
	switch m.state {
	case transferStateRunning:
		return "Working..."
	case transferStateResult:
		return "Esc: back"
	}

	return "Esc: back | Enter: confirm"
}

func (m TransferModel) Init() tea.Cmd {
	return m.form.Init()
}

func (m TransferModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc && m.state != transferStateRunning {
		return m, Back
	}

	switch m.state {
	case transferStateForm:
		form, cmd := m.form.Update(msg)
		if f, ok := form.(*huh.Form); ok {
			m.form = f
		}

		if m.form.State != huh.StateCompleted {
			return m, cmd
		}

		m.state = transferStateRunning

		return m, tea.Batch(m.spinner.Tick, m.runCmd(*m.fields))

	case transferStateRunning:
		if res, ok := msg.(transferResultMsg); ok {
			m.state = transferStateResult
			m.result, m.err = res.body, res.err

			return m, nil
		}

		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)

		return m, cmd
	}

	return m, nil
}

func (m TransferModel) buildForm() *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Key("mode").
				Title("Action").
				Options(
					huh.NewOption("Export the expenses shown on the dashboard", modeExport),
					huh.NewOption("Import expenses from a CSV file", modeImport),
				).
				Value(&m.fields.Mode),

			huh.NewInput().
				Key("path").
				Title("File").
				Description("Exports create missing directories").
				Value(&m.fields.Path),
		),
	).WithWidth(60).WithShowHelp(false)
}

func (m TransferModel) View() string {
	switch m.state {
	case transferStateForm:
		return lipgloss.NewStyle().Padding(1).Render(m.form.View())
	case transferStateRunning:
		return lipgloss.NewStyle().Padding(1).Render(fmt.Sprintf("%s Working...", m.spinner.View()))
	}

	if m.err != nil {
		return lipgloss.NewStyle().Padding(1).Render(errorStyle.Render(fmt.Sprintf("Error: %v", m.err)))
	}

	return lipgloss.NewStyle().Padding(1).Render(
		lipgloss.JoinVertical(lipgloss.Left,
			okStyle.Bold(true).Render("Done!"),
			"",
			m.result,
		),
	)
}

type transferResultMsg struct {
	body string
	err  error
}

func (m TransferModel) runCmd(f transferFields) tea.Cmd {
	return func() tea.Msg {
		if f.Mode == modeImport {
			return m.importFile(f.Path)
		}

		return m.exportFile(f.Path)
	}
}

func (m TransferModel) exportFile(path string) transferResultMsg {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return transferResultMsg{err: fmt.Errorf("creating output directory: %w", err)}
	}

	out, err := os.Create(path)
	if err != nil {
		return transferResultMsg{err: fmt.Errorf("creating file: %w", err)}
	}

	n, err := m.exportService.Export(out, m.filter)
	if closeErr := out.Close(); err == nil {
		err = closeErr
	}

	if err != nil {
		return transferResultMsg{err: err}
	}

	return transferResultMsg{body: fmt.Sprintf("Exported %d expense(s) to %s", n, path)}
}

func (m TransferModel) importFile(path string) transferResultMsg {
	in, err := os.Open(path)
	if err != nil {
		return transferResultMsg{err: fmt.Errorf("opening file: %w", err)}
	}
	defer in.Close()

	ctx, cancel := context.WithTimeout(context.Background(), transferTimeout)
	defer cancel()

	added, err := m.exportService.Import(ctx, in)
	if err != nil {
		return transferResultMsg{err: err}
	}

	return transferResultMsg{body: fmt.Sprintf("Imported %d expense(s) from %s", len(added), path)}
}
