package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/jmylchreest/hyprkit/internal/doctor"
)

var doctorOpts struct {
	output string
}

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check that required tools and theme files are installed",
	Args:  cobra.NoArgs,
	RunE:  runDoctor,
}

func init() {
	rootCmd.AddCommand(doctorCmd)

	doctorCmd.Flags().StringVarP(&doctorOpts.output, "output", "o", "table",
		"Output format (table, json, yaml)")
}

var (
	okStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	missingStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("1")).Bold(true)
	dimStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	headerStyle  = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle    = lipgloss.NewStyle().Padding(0, 1)
)

func runDoctor(cmd *cobra.Command, args []string) error {
	rep := doctor.Run(cfg.ThemesDir(), nil)

	switch doctorOpts.output {
	case "table":
		renderDoctor(rep)
	case "json":
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(rep); err != nil {
			return err
		}
	case "yaml":
		enc := yaml.NewEncoder(os.Stdout)
		enc.SetIndent(2)
		if err := enc.Encode(rep); err != nil {
			return err
		}
		if err := enc.Close(); err != nil {
			return err
		}
	default:
		return fmt.Errorf("unknown output format %q", doctorOpts.output)
	}

	if missing := doctor.Missing(rep.Tools); len(missing) > 0 {
		return fmt.Errorf("missing required tools: %s", strings.Join(missing, ", "))
	}
	return nil
}

func renderDoctor(rep doctor.Report) {
	rows := make([][]string, len(rep.Tools))
	for i, r := range rep.Tools {
		status := okStyle.Render("ok")
		switch {
		case !r.Found && r.Optional:
			status = dimStyle.Render("optional")
		case !r.Found:
			status = missingStyle.Render("missing")
		}
		rows[i] = []string{r.Tool, status, r.Path, strings.Join(r.UsedBy, ", ")}
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(dimStyle).
		Headers("TOOL", "STATUS", "PATH", "USED BY").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})
	fmt.Println(t)

	fmt.Printf("Themes: %s\n", rep.ThemesDir)
	if rep.ActiveTheme == "" {
		fmt.Println(dimStyle.Render("No active theme in ThemeLoader.conf"))
		return
	}
	fmt.Printf("Active theme: %s\n", rep.ActiveTheme)
	for _, f := range rep.MissingFiles {
		fmt.Printf("  %s %s\n", missingStyle.Render("missing"), f)
	}
}
