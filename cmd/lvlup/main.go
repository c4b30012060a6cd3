package main

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/lvlup-app/lvlup/internal/session"
	"github.com/lvlup-app/lvlup/internal/storage"
	"github.com/lvlup-app/lvlup/internal/update"
)

func main() {
	var (
		dbPath    = flag.String("db", defaultDBPath(), "path to the sqlite snapshot store")
		accountID = flag.String("account", "", "account id; empty runs a guest session that is never saved")
		overdue   = flag.String("overdue-sweep", "30s", "period of the overdue task sweep")
		rollover  = flag.String("rollover-sweep", "1m", "period of the day-rollover sweep")
		logPath   = flag.String("log", "", "append logs to this file; default is silent")
	)
	flag.Parse()

	if err := run(*dbPath, *accountID, *overdue, *rollover, *logPath); err != nil {
		fmt.Fprintf(os.Stderr, "lvlup failed: %v\n", err)
		os.Exit(1)
	}
}

func run(dbPath, accountID, overdue, rollover, logPath string) error {
	overduePeriod, err := time.ParseDuration(overdue)
	if err != nil {
		return fmt.Errorf("parse overdue-sweep: %w", err)
	}
	rolloverPeriod, err := time.ParseDuration(rollover)
	if err != nil {
		return fmt.Errorf("parse rollover-sweep: %w", err)
	}

	logger, closeLog, err := openLogger(logPath)
	if err != nil {
		return err
	}
	defer closeLog()

	cfg := session.Config{
		AccountID:      accountID,
		Logger:         logger,
		OverduePeriod:  overduePeriod,
		RolloverPeriod: rolloverPeriod,
	}

	if accountID != "" {
		if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
			return fmt.Errorf("create data dir: %w", err)
		}
		gateway, err := storage.OpenSQLite(dbPath)
		if err != nil {
			return err
		}
		defer func() { _ = gateway.Close() }()
		cfg.Gateway = gateway
	}

	sess, err := session.New(cfg)
	if err != nil {
		return err
	}
	sess.Start()
	defer sess.Close()

	program := tea.NewProgram(update.NewModel(sess))
	if _, err := program.Run(); err != nil {
		return err
	}
	return nil
}

func defaultDBPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "lvlup.db"
	}
	return filepath.Join(home, ".lvlup", "lvlup.db")
}

func openLogger(path string) (*slog.Logger, func(), error) {
	if path == "" {
		return slog.New(slog.NewTextHandler(io.Discard, nil)), func() {}, nil
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}
	return slog.New(slog.NewTextHandler(f, nil)), func() { _ = f.Close() }, nil
}
