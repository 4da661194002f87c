package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"github.com/MrJamesThe3rd/budgie/internal/config"
	"github.com/MrJamesThe3rd/budgie/internal/export"
	budgieHttp "github.com/MrJamesThe3rd/budgie/internal/http"
	budgetHandler "github.com/MrJamesThe3rd/budgie/internal/http/budget"
	categoryHandler "github.com/MrJamesThe3rd/budgie/internal/http/category"
	expenseHandler "github.com/MrJamesThe3rd/budgie/internal/http/expense"
	exportHandler "github.com/MrJamesThe3rd/budgie/internal/http/export"
	"github.com/MrJamesThe3rd/budgie/internal/logging"
	"github.com/MrJamesThe3rd/budgie/internal/storage"
	"github.com/MrJamesThe3rd/budgie/internal/tracker"
	"github.com/MrJamesThe3rd/budgie/internal/tracker/store"
	"github.com/MrJamesThe3rd/budgie/internal/undo"
)

const shutdownTimeout = 10 * time.Second

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger, closeLog, err := logging.New(logging.Options{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		File:   cfg.Log.File,
	})
	if err != nil {
		slog.Error("failed to set up logging", "error", err)
		os.Exit(1)
	}
	defer closeLog()

	slog.SetDefault(logger)

	if err := run(cfg, logger); err != nil {
		logger.Error("server failed", "error", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	kvStore, closeStore, err := storage.Open(cfg.Storage.Backend, cfg.Storage.Path, logger)
	if err != nil {
		return err
	}
	defer closeStore()

	var (
		trackerService = tracker.NewService(ctx, store.New(kvStore, cfg.Storage.Key, store.WithLogger(logger)), tracker.WithLogger(logger))
		exportService  = export.NewService(trackerService)
		undoBuffer     = undo.NewBuffer(
			undo.WithWindow(cfg.Undo.Window),
			undo.OnExpire(func(e tracker.Expense) {
				logger.Debug("undo window closed", "id", e.ID)
			}),
		)
	)
	defer undoBuffer.Clear()

	unsubscribe := trackerService.Subscribe(func(s tracker.State) {
		logger.Debug("state changed", "expenses", len(s.Expenses), "month", s.Budget.Month)
	})
	defer unsubscribe()

	var (
		budgetH   = budgetHandler.NewHandler(trackerService)
		expenseH  = expenseHandler.NewHandler(trackerService, undoBuffer)
		categoryH = categoryHandler.NewHandler(trackerService)
		exportH   = exportHandler.NewHandler(exportService)
	)

	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      budgieHttp.New(cfg.CORS.Origins, budgetH, expenseH, categoryH, exportH),
		ReadTimeout:  cfg.Server.Timeout,
		WriteTimeout: cfg.Server.Timeout,
		IdleTimeout:  2 * cfg.Server.Timeout,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("starting server", "app", cfg.App.Name, "addr", srv.Addr)

		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}

		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
