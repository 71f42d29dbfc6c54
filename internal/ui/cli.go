// Package ui provides the mirrorcrm command line.
package ui

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Versuscsdota/MirrorCRM/internal/config"
	"github.com/Versuscsdota/MirrorCRM/internal/dateutil"
	"github.com/Versuscsdota/MirrorCRM/internal/db"
	"github.com/Versuscsdota/MirrorCRM/internal/logging"
	"github.com/Versuscsdota/MirrorCRM/internal/schedule"
	"github.com/Versuscsdota/MirrorCRM/internal/tui"
	"github.com/Versuscsdota/MirrorCRM/internal/tui/commands"
)

var (
	// Version is set at build time
	Version = "dev"
	// Commit is set at build time
	Commit = "none"
)

// App holds the CLI application state.
type App struct {
	svc     schedule.Service
	store   *db.SQLite
	config  *config.Config
	logger  *zap.Logger
	root    *cobra.Command
	now     func() time.Time
	debug   bool // Enable debug logging
	noColor bool
}

// NewApp creates the CLI application. svc may be nil, in which case a REST
// client is built from the [api] config section on first use.
func NewApp(svc schedule.Service, cfg *config.Config) *App {
	a := &App{svc: svc, config: cfg, now: time.Now}

	a.root = &cobra.Command{
		Use:   "mirrorcrm",
		Short: "Schedule console for MirrorCRM",
		Long: `mirrorcrm edits the MirrorCRM booking schedule from the terminal.

Without a subcommand it opens the day grid: employees are rows, the
working day runs left to right, and slots can be dragged with the mouse
to another time or employee.`,
		SilenceUsage: true,
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			if a.noColor {
				DisableColor()
			}
		},
		RunE: func(_ *cobra.Command, _ []string) error {
			return a.runTUI()
		},
	}

	a.root.PersistentFlags().BoolVar(&a.debug, "debug", false, "Enable debug logging (logs to "+logging.DebugLogPath+")")
	a.root.PersistentFlags().BoolVar(&a.noColor, "no-color", false, "Disable color output")

	a.root.AddCommand(a.versionCmd())
	a.root.AddCommand(a.configCmd())
	a.root.AddCommand(a.dayCmd())
	a.root.AddCommand(a.monthCmd())
	a.root.AddCommand(a.addCmd())
	a.root.AddCommand(a.moveCmd())
	a.root.AddCommand(a.deleteCmd())
	a.root.AddCommand(a.undoCmd())
	a.root.AddCommand(a.themeCmd())

	return a
}

func (a *App) versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version number",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "mirrorcrm %s (commit: %s)\n", Version, Commit)
		},
	}
}

// runTUI opens the day grid.
func (a *App) runTUI() error {
	logger, err := logging.ForTUI(a.config.Log, a.debug)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()
	a.logger = logger

	svc, err := a.service()
	if err != nil {
		return err
	}

	opts := []tui.ModelOption{tui.WithLogger(logger)}

	// The TUI works without local state; it only loses undo and the saved theme.
	var store commands.Store
	if s, err := a.openStore(); err != nil {
		logger.Warn("local store unavailable", zap.Error(err))
	} else {
		store = s
		ctx := context.Background()
		if name, err := s.GetPreference(ctx, db.KeyTheme); err == nil {
			opts = append(opts, tui.WithTheme(name))
		}
		if n, err := s.PruneDeleted(ctx, a.now().Add(-db.UndoWindow)); err == nil && n > 0 {
			logger.Debug("pruned expired undo snapshots", zap.Int64("rows", n))
		}
	}

	return tui.Run(svc, store, a.config, opts...)
}

// resolveDate turns a --date value into YYYY-MM-DD. Besides absolute dates
// it accepts today, tomorrow, yesterday and weekday names.
func (a *App) resolveDate(s string) (string, error) {
	t, err := dateutil.ParseRelativeDate(s, a.now())
	if err != nil {
		return "", fmt.Errorf("date %q: %w", s, err)
	}
	return dateutil.FormatDate(t), nil
}

// service returns the Schedule Service, building the REST client on first use.
func (a *App) service() (schedule.Service, error) {
	if a.svc != nil {
		return a.svc, nil
	}
	timeout, err := a.config.API.TimeoutDuration()
	if err != nil {
		return nil, err
	}
	a.svc = schedule.NewClient(schedule.Options{
		BaseURL: a.config.API.BaseURL,
		Token:   a.config.API.Token,
		Timeout: timeout,
		Logger:  a.log(),
	})
	return a.svc, nil
}

// openStore opens the local database on first use.
func (a *App) openStore() (*db.SQLite, error) {
	if a.store != nil {
		return a.store, nil
	}
	s, err := db.New(a.config.Storage.DBPath)
	if err != nil {
		return nil, fmt.Errorf("opening local store: %w", err)
	}
	a.store = s
	return s, nil
}

// log returns the CLI logger, writing to stderr at the configured level.
func (a *App) log() *zap.Logger {
	if a.logger != nil {
		return a.logger
	}
	cfg := a.config.Log
	if a.debug {
		cfg.Level = "debug"
	}
	logger, err := logging.New(cfg)
	if err != nil {
		logger = zap.NewNop()
	}
	a.logger = logger
	return logger
}

// Close releases the local store.
func (a *App) Close() error {
	var errs []error
	if a.logger != nil {
		_ = a.logger.Sync()
	}
	if a.store != nil {
		errs = append(errs, a.store.Close())
	}
	return errors.Join(errs...)
}

// Execute runs the CLI application.
func (a *App) Execute() error {
	return a.root.Execute()
}
