package main

import (
	"context"
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/joho/godotenv"

	"github.com/MrJamesThe3rd/budgie/cmd/tui/internal/view"
	"github.com/MrJamesThe3rd/budgie/internal/config"
	"github.com/MrJamesThe3rd/budgie/internal/export"
	"github.com/MrJamesThe3rd/budgie/internal/logging"
	"github.com/MrJamesThe3rd/budgie/internal/storage"
	"github.com/MrJamesThe3rd/budgie/internal/tracker"
	"github.com/MrJamesThe3rd/budgie/internal/tracker/store"
	"github.com/MrJamesThe3rd/budgie/internal/undo"
)

// defaultLogFile keeps log output off the terminal the TUI draws on.
const defaultLogFile = "budgie-tui.log"

type model struct {
	trackerService *tracker.Service
	exportService  *export.Service

	currentView View

	dashboard  view.DashboardModel
	categories view.CategoriesModel
	transfer   view.TransferModel
}

type View int

const (
	ViewDashboard View = iota
	ViewCategories
	ViewTransfer
)

func newModel(svc *tracker.Service, buf *undo.Buffer) model {
	return model{
		trackerService: svc,
		exportService:  export.NewService(svc),
		currentView:    ViewDashboard,
		dashboard:      view.NewDashboardModel(svc, buf),
	}
}

func (m model) Init() tea.Cmd {
	return m.dashboard.Init()
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}

		if msg.String() == "q" && m.currentView == ViewDashboard && !m.dashboard.Editing() {
			return m, tea.Quit
		}
	case view.OpenCategoriesMsg:
		m.currentView = ViewCategories
		m.categories = view.NewCategoriesModel(m.trackerService)

		return m, m.categories.Init()
	case view.OpenTransferMsg:
		m.currentView = ViewTransfer
		m.transfer = view.NewTransferModel(m.exportService, msg.Filter)

		return m, m.transfer.Init()
	case view.BackMsg:
		m.currentView = ViewDashboard
		return m.updateDashboard(view.StateMsg{State: m.trackerService.Snapshot()})
	}

	switch m.currentView {
	case ViewCategories:
		newModel, cmd := m.categories.Update(msg)
		m.categories = newModel.(view.CategoriesModel)

		return m, cmd
	case ViewTransfer:
		newModel, cmd := m.transfer.Update(msg)
		m.transfer = newModel.(view.TransferModel)

		return m, cmd
	}

	return m.updateDashboard(msg)
}

func (m model) updateDashboard(msg tea.Msg) (tea.Model, tea.Cmd) {
	newModel, cmd := m.dashboard.Update(msg)
	m.dashboard = newModel.(view.DashboardModel)

	return m, cmd
}

func (m model) View() string {
	var current view.View

	switch m.currentView {
	case ViewCategories:
		current = m.categories
	case ViewTransfer:
		current = m.transfer
	default:
		current = m.dashboard
	}

	header := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("205")).
		Render("Budgie · " + current.Title())
	help := lipgloss.NewStyle().Faint(true).Render(current.ShortHelp())

	return lipgloss.JoinVertical(lipgloss.Left, header, current.View(), help)
}

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logFile := cfg.Log.File
	if logFile == "" {
		logFile = defaultLogFile
	}

	logger, closeLog, err := logging.New(logging.Options{Level: cfg.Log.Level, Format: cfg.Log.Format, File: logFile})
	if err != nil {
		slog.Error("failed to set up logging", "error", err)
		os.Exit(1)
	}
	defer closeLog()

	slog.SetDefault(logger)

	kvStore, closeStore, err := storage.Open(cfg.Storage.Backend, cfg.Storage.Path, logger)
	if err != nil {
		logger.Error("failed to open storage", "error", err)
		os.Exit(1)
	}
	defer closeStore()

	svc := tracker.NewService(context.Background(), store.New(kvStore, cfg.Storage.Key, store.WithLogger(logger)), tracker.WithLogger(logger))

	buf := undo.NewBuffer(undo.WithWindow(cfg.Undo.Window))
	defer buf.Clear()

	p := tea.NewProgram(newModel(svc, buf), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		logger.Error("failed to run TUI", "error", err)
		os.Exit(1)
	}
}
