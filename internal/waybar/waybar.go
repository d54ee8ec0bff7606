// Package waybar formats custom module output and manages the bar process.
package waybar

import (
	"context"
	"encoding/json"
	"io"

	"github.com/jmylchreest/hyprkit/internal/proc"
)

// Status represents the Waybar custom module JSON format.
type Status struct {
	Text       string `json:"text"`
	Alt        string `json:"alt,omitempty"`
	Tooltip    string `json:"tooltip,omitempty"`
	Class      string `json:"class,omitempty"`
	Percentage int    `json:"percentage,omitempty"`
}

// Write encodes status as a single JSON line.
func Write(w io.Writer, status Status) error {
	return json.NewEncoder(w).Encode(status)
}

const process = "waybar"

// Kill stops every running bar.
func Kill(ctx context.Context, r proc.Runner) {
	proc.KillAll(ctx, r, process)
}

// Run starts the bar unless it is already running. Extra args such as
// -c/-s are passed through.
func Run(ctx context.Context, r proc.Runner, args ...string) error {
	if proc.Running(ctx, r, process) {
		return nil
	}
	_, err := r.Start(process, args...)
	return err
}
