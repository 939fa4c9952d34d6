package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	configPath string
	rootCmd    = &cobra.Command{
		Use:   "cycle-timer",
		Short: "Cycle Timer - focus cycles in your terminal",
		Long: `Cycle Timer runs Pomodoro-style focus cycles in the terminal.
Name a task, pick a duration between 1 and 60 minutes and start the
countdown. Cycles can be interrupted at any time and are listed in the
history tab for the rest of the session.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runTUI,
	}
)

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file path (.toml, .yaml or .yml)")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
