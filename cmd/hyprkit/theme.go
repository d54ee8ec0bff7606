package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/hyprkit/internal/theme"
)

var themeCmd = &cobra.Command{
	Use:   "theme",
	Short: "List and activate desktop themes",
}

var themeListCmd = &cobra.Command{
	Use:   "list",
	Short: "List installed themes",
	Args:  cobra.NoArgs,
	RunE:  runThemeList,
}

var themeActivateCmd = &cobra.Command{
	Use:   "activate <name>",
	Short: "Switch to a theme",
	Long: `Point Hyprland at the theme, export HYPR_THEME_DIR and
KITTY_CONFIG_DIRECTORY, and restart swaync and Waybar with the theme's
configuration.

The theme is also recorded in ThemeLoader.conf so it is applied again at
login.`,
	Args: cobra.ExactArgs(1),
	RunE: runThemeActivate,
}

func init() {
	rootCmd.AddCommand(themeCmd)
	themeCmd.AddCommand(themeListCmd, themeActivateCmd)
}

func runThemeList(cmd *cobra.Command, args []string) error {
	themes, err := theme.List(cfg.ThemesDir())
	if err != nil {
		return err
	}
	active, _ := theme.Active(cfg.ThemesDir())

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	for _, t := range themes {
		mark := " "
		if t.Name == active {
			mark = "*"
		}
		fmt.Fprintf(w, "%s %s\t%s\n", mark, t.Name, t.DisplayName)
	}
	return w.Flush()
}

func runThemeActivate(cmd *cobra.Command, args []string) error {
	t, err := theme.Find(cfg.ThemesDir(), args[0])
	if err != nil {
		return err
	}
	if missing := theme.Check(t); len(missing) > 0 {
		logger.Warn("theme is incomplete", "theme", t.Name, "missing", missing)
	}
	return newActivator().Activate(cmd.Context(), t.Name)
}
