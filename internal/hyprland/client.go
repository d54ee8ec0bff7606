// Package hyprland talks to the Hyprland compositor through hyprctl and
// its event socket.
package hyprland

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/jmylchreest/hyprkit/internal/proc"
)

const unknownRequest = "unknown request"

// ErrUnknownRequest is returned when hyprctl does not understand a command.
var ErrUnknownRequest = errors.New(unknownRequest)

// Monitor is one entry of `hyprctl monitors -j`.
type Monitor struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Width       int     `json:"width"`
	Height      int     `json:"height"`
	Scale       float64 `json:"scale"`
	Focused     bool    `json:"focused"`
}

// Window is the subset of `hyprctl activewindow -j` we use.
type Window struct {
	Address    string `json:"address"`
	Class      string `json:"class"`
	Title      string `json:"title"`
	Fullscreen int    `json:"fullscreen"`
}

// FullscreenMode values reported in Window.Fullscreen.
const (
	FullscreenNone      = 0
	FullscreenMaximized = 1
	FullscreenFull      = 2
)

// Client runs hyprctl.
type Client struct {
	runner proc.Runner
}

// NewClient creates a Client.
func NewClient(runner proc.Runner) *Client {
	return &Client{runner: runner}
}

// Command runs hyprctl with args and returns its output.
func (c *Client) Command(ctx context.Context, args ...string) (string, error) {
	res := c.runner.Capture(ctx, "hyprctl", args...)
	if res.Err != nil {
		return "", fmt.Errorf("failed to run hyprctl %s: %w", strings.Join(args, " "), res.Err)
	}
	if strings.TrimSpace(res.Stdout) == unknownRequest {
		return "", ErrUnknownRequest
	}
	return res.Stdout, nil
}

func (c *Client) unmarshal(ctx context.Context, v any, args ...string) error {
	out, err := c.Command(ctx, append([]string{"-j"}, args...)...)
	if err != nil {
		return err
	}
	if err := json.Unmarshal([]byte(out), v); err != nil {
		return fmt.Errorf("failed to parse hyprctl %s output: %w", args[0], err)
	}
	return nil
}

// Keyword sets a config keyword at runtime.
func (c *Client) Keyword(ctx context.Context, key string, value string) error {
	_, err := c.Command(ctx, "keyword", key, value)
	return err
}

// Batch runs several hyprctl commands in one call, joined with ";".
func (c *Client) Batch(ctx context.Context, commands ...string) error {
	_, err := c.Command(ctx, "--batch", strings.Join(commands, "; "))
	return err
}

// Reload reloads the Hyprland configuration.
func (c *Client) Reload(ctx context.Context) error {
	_, err := c.Command(ctx, "reload")
	return err
}

// Dispatch runs a dispatcher such as "exit".
func (c *Client) Dispatch(ctx context.Context, dispatcher string, args ...string) error {
	_, err := c.Command(ctx, append([]string{"dispatch", dispatcher}, args...)...)
	return err
}

// Monitors lists the connected monitors.
func (c *Client) Monitors(ctx context.Context) ([]Monitor, error) {
	var monitors []Monitor
	if err := c.unmarshal(ctx, &monitors, "monitors"); err != nil {
		return nil, err
	}
	return monitors, nil
}

// ActiveWindow returns the focused window. An empty desktop yields a zero Window.
func (c *Client) ActiveWindow(ctx context.Context) (Window, error) {
	var w Window
	if err := c.unmarshal(ctx, &w, "activewindow"); err != nil {
		return Window{}, err
	}
	return w, nil
}
