// Package main provides the CLI entrypoint for hyprkit.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/hyprkit/internal/config"
	"github.com/jmylchreest/hyprkit/internal/notify"
	"github.com/jmylchreest/hyprkit/internal/proc"
	"github.com/jmylchreest/hyprkit/internal/waybar"
)

// Build-time variables (set via ldflags)
var (
	version   = "dev"
	commit    = "unknown"
	buildTime = "unknown"
)

// Global configuration and state
var (
	cfg        *config.Config
	globalOpts struct {
		verbose    bool
		configPath string
	}
	logger *slog.Logger
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "hyprkit",
	Short: "Desktop automation for Hyprland",
	Long: `hyprkit drives a Hyprland desktop: media keys, Waybar modules, the rofi
launchers, themes, wallpapers, game mode and a Wi-Fi hotspot.

Every subcommand is meant to be bound to a key or used as a Waybar
custom module. Module output is written to stdout as JSON; logs go to
stderr.`,
	Version:       fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, buildTime),
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		setupLogger()

		var err error
		cfg, err = config.LoadConfig(globalOpts.configPath)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		return nil
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		stop()
		os.Exit(1)
	}
}

func main() {
	Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&globalOpts.verbose, "verbose", "v", false,
		"Enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&globalOpts.configPath, "config", "",
		"Path to config file (default: ~/.config/hyprkit/config.toml)")
}

// setupLogger configures the global slog logger.
func setupLogger() {
	level := slog.LevelWarn
	if globalOpts.verbose {
		level = slog.LevelDebug
	}

	opts := &slog.HandlerOptions{
		Level: level,
	}

	// Log to stderr so stdout is clean for output
	handler := slog.NewTextHandler(os.Stderr, opts)
	logger = slog.New(handler)
	slog.SetDefault(logger)
}

// newRunner returns the process runner shared by a command.
func newRunner() proc.Runner {
	return proc.NewExec(logger)
}

// newSink returns the notification sink for the current session.
func newSink(r proc.Runner) notify.Sink {
	return notify.New(r, logger)
}

// outputStatus writes a Waybar module line to stdout.
func outputStatus(s waybar.Status) error {
	return waybar.Write(os.Stdout, s)
}
