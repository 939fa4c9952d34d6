package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/hochfrequenz/cycle-timer/internal/config"
	"github.com/hochfrequenz/cycle-timer/internal/countdown"
	"github.com/hochfrequenz/cycle-timer/internal/cycles"
	"github.com/hochfrequenz/cycle-timer/internal/history"
	"github.com/hochfrequenz/cycle-timer/internal/notify"
	"github.com/hochfrequenz/cycle-timer/tui"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

const logEnv = "CYCLE_TIMER_LOG"

var (
	startMinutes int
	initForce    bool
)

func init() {
	// tui command
	tuiCmd := &cobra.Command{
		Use:   "tui",
		Short: "Launch the timer TUI (default)",
		RunE:  runTUI,
	}
	rootCmd.AddCommand(tuiCmd)

	// start command
	startCmd := &cobra.Command{
		Use:   "start TASK...",
		Short: "Run a single cycle without the TUI",
		Args:  cobra.MinimumNArgs(1),
		RunE:  runStart,
	}
	startCmd.Flags().IntVar(&startMinutes, "minutes", 0, "cycle length in minutes (default from config)")
	rootCmd.AddCommand(startCmd)

	// config command
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect or create the config file",
	}
	configShowCmd := &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration",
		RunE:  runConfigShow,
	}
	configInitCmd := &cobra.Command{
		Use:   "init",
		Short: "Write the default configuration",
		RunE:  runConfigInit,
	}
	configInitCmd.Flags().BoolVar(&initForce, "force", false, "overwrite an existing config file")
	configCmd.AddCommand(configShowCmd, configInitCmd)
	rootCmd.AddCommand(configCmd)
}

func resolvedConfigPath() string {
	if configPath == "" {
		return config.DefaultConfigPath()
	}
	return config.ExpandPath(configPath)
}

func loadConfig() (*config.Config, error) {
	return config.Load(resolvedConfigPath())
}

func runTUI(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	// Logging must never reach the terminal the TUI draws on
	if path := os.Getenv(logEnv); path != "" {
		f, err := tea.LogToFile(path, "cycle-timer")
		if err != nil {
			return fmt.Errorf("opening log file: %w", err)
		}
		defer f.Close()
	} else {
		log.SetOutput(io.Discard)
	}

	ledger, err := history.New(history.MemoryDSN)
	if err != nil {
		return fmt.Errorf("failed to open history: %w", err)
	}
	defer ledger.Close()

	manager := cycles.NewManager(cycles.Options{})
	ledger.Attach(manager)

	model := tui.NewModel(tui.ModelConfig{
		Manager:        manager,
		Ledger:         ledger,
		Notifier:       notify.FromConfig(cfg.Notifications),
		DefaultMinutes: cfg.Timer.DefaultMinutes,
		TickInterval:   cfg.Timer.TickInterval.Duration,
		HistoryLimit:   cfg.UI.HistoryLimit,
	})

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	opts := []tea.ProgramOption{tea.WithContext(ctx)}
	if cfg.UI.AltScreen {
		opts = append(opts, tea.WithAltScreen())
	}
	p := tea.NewProgram(model, opts...)

	g, gctx := errgroup.WithContext(ctx)

	watcher, err := config.NewWatcher(resolvedConfigPath(), func(c *config.Config, err error) {
		p.Send(tui.ConfigReloadedMsg{Config: c, Err: err})
	})
	if err != nil {
		log.Printf("config watcher disabled: %v", err)
	} else {
		g.Go(func() error {
			return watcher.Run(gctx)
		})
	}

	g.Go(func() error {
		defer cancel()
		_, err := p.Run()
		if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
			return nil
		}
		return err
	})

	if err := g.Wait(); err != nil {
		return err
	}

	stats, err := ledger.Stats()
	if err != nil {
		return err
	}
	if stats.Total > 0 {
		fmt.Printf("Session: %d cycles | %d finished | %d interrupted | %d min focused\n",
			stats.Total, stats.Finished, stats.Interrupted, stats.FocusedMinutes)
	}
	return nil
}

func runStart(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	minutes := startMinutes
	if !cmd.Flags().Changed("minutes") {
		minutes = cfg.Timer.DefaultMinutes
	}

	manager := cycles.NewManager(cycles.Options{})
	c, err := manager.CreateCycle(strings.Join(args, " "), minutes)
	if err != nil {
		return err
	}

	notifier := notify.FromConfig(cfg.Notifications)
	manager.Subscribe(func(ch cycles.Change) {
		n, ok := notify.ForChange(ch)
		if !ok {
			return
		}
		ctx, cancel := context.WithTimeout(context.Background(), notify.DeliveryTimeout)
		defer cancel()
		if err := notify.Deliver(ctx, notifier, n); err != nil {
			log.Printf("notification for cycle %s failed: %v", ch.Cycle.ID, err)
		}
	})

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fmt.Printf("Working on %q for %d min (ctrl+c to interrupt)\n", c.Task, c.MinutesAmount)

	ticker := time.NewTicker(cfg.Timer.TickInterval.Duration)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			if interrupted, ok := manager.InterruptActiveCycle(); ok {
				elapsed := interrupted.EndedAt().Sub(interrupted.StartDate)
				fmt.Printf("\nInterrupted %q after %s\n", interrupted.Task, countdown.Format(int(elapsed/time.Second)))
			}
			return nil

		case now := <-ticker.C:
			switch countdown.Tick(manager, now) {
			case countdown.Finished:
				fmt.Printf("\r%s  %s\n", countdown.Format(0), c.Task)
				fmt.Printf("Finished %q (%d min)\n", c.Task, c.MinutesAmount)
				return nil
			case countdown.Running:
				fmt.Printf("\r%s  %s", countdown.Format(countdown.RemainingSeconds(manager)), c.Task)
			}
		}
	}
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	path := resolvedConfigPath()
	data, err := cfg.Marshal(path)
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "# %s\n%s", path, data)
	return nil
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	path := resolvedConfigPath()

	if _, err := os.Stat(path); err == nil && !initForce {
		return fmt.Errorf("%s already exists (use --force to overwrite)", path)
	}

	if err := config.Default().Save(path); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Wrote default config to %s\n", path)
	return nil
}
