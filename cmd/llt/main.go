// Package main is the entry point for laborlog, a terminal contraction timer
// and push counter. It loads configuration, opens the store and runs the
// Bubble Tea program.
package main

import (
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/pflag"

	"github.com/j-veylop/laborlog-tui/internal/app"
	"github.com/j-veylop/laborlog-tui/internal/config"
	"github.com/j-veylop/laborlog-tui/internal/logger"
	"github.com/j-veylop/laborlog-tui/internal/services"
	"github.com/j-veylop/laborlog-tui/internal/ui/tabs/contractions"
	"github.com/j-veylop/laborlog-tui/internal/ui/tabs/info"
	"github.com/j-veylop/laborlog-tui/internal/ui/tabs/pushes"
	"github.com/j-veylop/laborlog-tui/internal/version"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// run contains the main application logic, separated for cleaner error handling.
func run(args []string) error {
	cfg, flags, err := config.Load(args)
	if err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			printUsage(cfg)
			return nil
		}
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	switch {
	case flags.Version:
		fmt.Println(version.Info())
		return nil
	case flags.Help:
		printUsage(cfg)
		return nil
	}

	closer, err := logger.Init(cfg.LogPath, cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}
	defer closer.Close()

	logger.Info("starting", "version", version.GetVersion(), "backend", cfg.StoreBackend, "store", cfg.StorePath)

	svcManager, err := services.NewManager(cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize services: %w", err)
	}

	defer func() {
		if closeErr := svcManager.Close(); closeErr != nil {
			fmt.Fprintf(os.Stderr, "Warning: error closing store: %v\n", closeErr)
		}
	}()

	model := app.NewModel(svcManager)

	state := model.GetState()
	timer := contractions.New(state, svcManager)
	model.SetTabs([]app.Tab{
		timer,
		pushes.New(state, svcManager),
		info.New(state, cfg, svcManager),
	})

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
	)

	go func() {
		<-sigChan
		p.Send(tea.Quit())
	}()

	_, err = p.Run()
	timer.Stop()
	if err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}

	logger.Info("stopped")
	return nil
}

// printUsage prints the command-line usage information.
func printUsage(cfg *config.Config) {
	if cfg == nil {
		cfg = &config.Config{}
	}
	var flags config.Flags

	fmt.Printf(`laborlog - contraction timer and push counter

Usage:
  llt [flags]

Flags:
%s
Keyboard Shortcuts:
  1-3             Switch between tabs (Contractions, Pushes, Info)
  Tab/Shift+Tab   Navigate between tabs
  Space/Enter     Record a tap (Contractions)
  p               Record a push for the current hour (Pushes)
  c               Open the calendar (Pushes)
  r               Reload from the store
  ?               Toggle help
  q, Ctrl+C       Quit

Environment Variables:
  STORE_BACKEND        sqlite, json or memory (default: sqlite)
  STORE_PATH           store file path
  LOG_PATH             log file path
  LOG_LEVEL            debug, info, warn or error
  LIVE_TICK_INTERVAL   live timer refresh interval (default: 1s)
  NOTIFY_TRANSITION    desktop notification on transition-phase intervals

Configuration:
  The application looks for .env files in the following locations:
  - Current directory
  - ~/.config/laborlog/.env
`, cfg.FlagSet(&flags).FlagUsages())
}
