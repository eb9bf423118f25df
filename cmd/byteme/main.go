// Command byteme is the interactive terminal reader for ByteMe.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/abelbrown/byteme/internal/app"
	"github.com/abelbrown/byteme/internal/config"
	"github.com/abelbrown/byteme/internal/logging"
	"github.com/abelbrown/byteme/internal/ui"
)

func main() {
	configPath := flag.String("config", config.ConfigPath(), "path to config.json")
	apiURL := flag.String("api", "", "backend base URL (overrides config)")
	noMouse := flag.Bool("no-mouse", false, "disable mouse gestures")
	version := flag.Bool("version", false, "print version and exit")
	debug := flag.Bool("debug", false, "log at debug level")
	flag.Parse()

	if *version {
		fmt.Println("byteme", logging.Version)
		return
	}

	cfg, err := config.LoadFrom(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "byteme: load config: %v\n", err)
		os.Exit(1)
	}
	if *apiURL != "" {
		cfg.API.BaseURL = *apiURL
	}
	if *noMouse {
		cfg.UI.Mouse = false
	}
	if *debug {
		cfg.LogLevel = "debug"
	}

	if err := run(cfg); err != nil {
		fmt.Fprintf(os.Stderr, "byteme: %v\n", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config) error {
	if err := logging.Init(cfg.DataDir, cfg.LogLevel); err != nil {
		return fmt.Errorf("init logging: %w", err)
	}
	defer logging.Close()

	rt, err := app.Open(cfg)
	if err != nil {
		logging.Error("Startup failed", "error", err)
		return err
	}
	defer rt.Close()

	// Setup context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := rt.Bootstrap(ctx); err != nil {
		logging.Warn("Bootstrap incomplete", "error", err)
	}

	opts := []tea.ProgramOption{tea.WithAltScreen(), tea.WithContext(ctx)}
	if cfg.UI.Mouse {
		opts = append(opts, tea.WithMouseCellMotion())
	}
	program := tea.NewProgram(ui.NewApp(ctx, rt.UIDeps()), opts...)

	// Run UI (blocks until quit)
	if _, err := program.Run(); err != nil {
		logging.Error("Program exited with error", "error", err)
		return err
	}
	return nil
}
