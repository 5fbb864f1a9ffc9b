// Command browse is a terminal browser for the initiative directory.
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"

	"github.com/JonMunkholm/directory/internal/app"
	"github.com/JonMunkholm/directory/internal/config"
	"github.com/JonMunkholm/directory/internal/logging"
	"github.com/JonMunkholm/directory/internal/tui"
)

// logFileEnv names a file for log output; the terminal belongs to the UI.
const logFileEnv = "BROWSE_LOG_FILE"

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "browse:", err)
		os.Exit(1)
	}
}

func run() error {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}

	var logOut io.Writer = io.Discard
	if path := os.Getenv(logFileEnv); path != "" {
		f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return fmt.Errorf("open log file: %w", err)
		}
		defer f.Close()
		logOut = f
	}
	logging.SetupWriter(logOut, cfg.Logging.Level, cfg.Logging.Format)

	a, err := app.New(context.Background(), cfg)
	if err != nil {
		return err
	}
	defer a.Close()

	slog.Info("browser starting", "sheet", cfg.Sheet.CSVURL, "cache_backend", cfg.Cache.Backend)

	m := tui.New(a.Service, a.Presenter, cfg.App.PageSize, cfg.App.SearchDebounce)
	if _, err := tea.NewProgram(m, tea.WithAltScreen()).Run(); err != nil {
		return fmt.Errorf("run browser: %w", err)
	}
	return nil
}
