package main

import (
	"fmt"
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sadopc/dailycommit/internal/activity"
	"github.com/sadopc/dailycommit/internal/commit"
	"github.com/sadopc/dailycommit/internal/config"
	"github.com/sadopc/dailycommit/internal/github"
	"github.com/sadopc/dailycommit/internal/logging"
	"github.com/sadopc/dailycommit/internal/store"
	"github.com/sadopc/dailycommit/internal/tui"
)

func main() {
	logPath, err := logging.DefaultPath()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	level := slog.LevelInfo
	if os.Getenv("DAILYCOMMIT_DEBUG") != "" {
		level = slog.LevelDebug
	}
	logger, closer, err := logging.New(logPath, level)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error opening log: %v\n", err)
		os.Exit(1)
	}
	defer closer.Close()

	dbPath, err := store.DefaultDBPath()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	s, err := store.New(dbPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error opening database: %v\n", err)
		os.Exit(1)
	}
	defer s.Close()

	activityPath, err := activity.DefaultPath()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	log := activity.Open(activityPath, logger)
	logger.Info("starting", "activity", activityPath, "entries", log.Len())

	cfg := config.Load(s)
	committer := commit.New(log, github.NewClient(nil, logger))

	app := tui.NewApp(s, log, committer, cfg)
	p := tea.NewProgram(app, tea.WithAltScreen())

	if _, err := p.Run(); err != nil {
		logger.Error("program exited", "err", err)
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
