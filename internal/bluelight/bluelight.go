// Package bluelight controls the hyprsunset screen temperature filter.
package bluelight

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/jmylchreest/hyprkit/internal/notify"
	"github.com/jmylchreest/hyprkit/internal/proc"
	"github.com/jmylchreest/hyprkit/internal/state"
	"github.com/jmylchreest/hyprkit/internal/waybar"
)

const process = "hyprsunset"

var (
	presetNames = []string{"Off", "Low", "Medium", "High", "Extreme"}
	presetIcons = []string{"󰖙", "󰖚", "󰖛", "󰖔", "󰖕"}
)

// Preset is a named temperature in Kelvin.
type Preset struct {
	Name string
	Temp int
}

// Presets names temps, coolest (off) first.
func Presets(temps []int) []Preset {
	out := make([]Preset, len(temps))
	for i, t := range temps {
		name := fmt.Sprintf("Level %d", i)
		if i < len(presetNames) {
			name = presetNames[i]
		}
		out[i] = Preset{Name: name, Temp: t}
	}
	return out
}

// Controller runs hyprsunset and remembers the applied temperature in a
// state file, which is the source of truth for toggle and cycle.
type Controller struct {
	runner  proc.Runner
	sink    notify.Sink
	presets []Preset
	temp    state.Int
	logger  *slog.Logger
}

// NewController creates a Controller. temps must be non-empty and
// strictly decreasing, as enforced by config validation.
func NewController(runner proc.Runner, sink notify.Sink, temps []int, statePath string, logger *slog.Logger) *Controller {
	if logger == nil {
		logger = slog.Default()
	}
	return &Controller{
		runner:  runner,
		sink:    sink,
		presets: Presets(temps),
		temp:    state.Int(statePath),
		logger:  logger,
	}
}

// Off is the neutral temperature at which no filter runs.
func (c *Controller) Off() int {
	return c.presets[0].Temp
}

// Default is the temperature used by "on" and toggle.
func (c *Controller) Default() int {
	return c.presets[len(c.presets)/2].Temp
}

// Clamp limits temp to the preset range.
func (c *Controller) Clamp(temp int) int {
	return max(c.presets[len(c.presets)-1].Temp, min(c.Off(), temp))
}

// Preset looks up a preset temperature by case-insensitive name.
func (c *Controller) Preset(name string) (int, bool) {
	for _, p := range c.presets {
		if strings.EqualFold(p.Name, name) {
			return p.Temp, true
		}
	}
	return 0, false
}

func (c *Controller) saved() (int, bool) {
	v := c.temp.Read(-1)
	return v, v > 0
}

// Current reports whether the filter runs and at which temperature.
func (c *Controller) Current(ctx context.Context) (bool, int) {
	pids := proc.Pidof(ctx, c.runner, process)
	if len(pids) == 0 {
		return false, c.Off()
	}
	if t, ok := c.saved(); ok {
		return true, t
	}

	// Started outside hyprkit: read -t from its command line.
	res := c.runner.Capture(ctx, "ps", "-p", strconv.Itoa(pids[0]), "-o", "args=")
	fields := strings.Fields(res.Stdout)
	for i, f := range fields {
		if f == "-t" && i+1 < len(fields) {
			if t, err := strconv.Atoi(fields[i+1]); err == nil {
				return true, t
			}
		}
	}
	return true, c.Default()
}

// Set applies temp. Temperatures at or above Off stop the filter.
func (c *Controller) Set(ctx context.Context, temp int) error {
	proc.KillAll(ctx, c.runner, process)

	if temp >= c.Off() {
		if err := c.temp.Clear(); err != nil {
			c.logger.Warn("failed to clear state", "error", err)
		}
		c.send(ctx, "weather-clear", "Blue Light Filter: Off")
		return nil
	}

	if err := c.temp.Write(temp); err != nil {
		c.logger.Warn("failed to save state", "error", err)
	}
	if _, err := c.runner.Start(process, "-t", strconv.Itoa(temp)); err != nil {
		return fmt.Errorf("failed to start %s: %w", process, err)
	}

	c.logger.Info("blue light filter set", "temp", temp)
	c.send(ctx, "weather-clear-night", fmt.Sprintf("Blue Light Filter: %s (%dK)", c.name(temp, "Custom"), temp))
	return nil
}

func (c *Controller) name(temp int, fallback string) string {
	for _, p := range c.presets {
		if p.Temp == temp {
			return p.Name
		}
	}
	return fallback
}

// Toggle turns the filter off when on, and on at Default when off.
func (c *Controller) Toggle(ctx context.Context) error {
	if _, ok := c.saved(); ok {
		return c.Set(ctx, c.Off())
	}
	return c.Set(ctx, c.Default())
}

// Cycle moves to the preset after the one nearest the current temperature,
// wrapping from the warmest back to off.
func (c *Controller) Cycle(ctx context.Context) error {
	t, ok := c.saved()
	if !ok {
		return c.Set(ctx, c.presets[min(1, len(c.presets)-1)].Temp)
	}

	nearest := 0
	for i, p := range c.presets {
		if abs(t-p.Temp) < abs(t-c.presets[nearest].Temp) {
			nearest = i
		}
	}
	return c.Set(ctx, c.presets[(nearest+1)%len(c.presets)].Temp)
}

// Increase moves one preset warmer.
func (c *Controller) Increase(ctx context.Context) error {
	_, t := c.Current(ctx)
	for i, p := range c.presets {
		if t >= p.Temp {
			if i+1 < len(c.presets) {
				return c.Set(ctx, c.presets[i+1].Temp)
			}
			return nil
		}
	}
	return nil
}

// Decrease moves one preset cooler. Nothing happens when the filter is off.
func (c *Controller) Decrease(ctx context.Context) error {
	active, t := c.Current(ctx)
	if !active {
		return nil
	}
	for i := len(c.presets) - 1; i >= 0; i-- {
		if t <= c.presets[i].Temp {
			if i > 0 {
				return c.Set(ctx, c.presets[i-1].Temp)
			}
			break
		}
	}
	return c.Set(ctx, c.Off())
}

func (c *Controller) level(temp int) int {
	for i, p := range c.presets {
		if temp >= p.Temp {
			return i
		}
	}
	return len(c.presets) - 1
}

// Status returns the Waybar module output.
func (c *Controller) Status(ctx context.Context) waybar.Status {
	active, t := c.Current(ctx)
	if !active {
		t = c.Off()
	}

	i := c.level(t)
	st := waybar.Status{
		Text:    presetIcons[min(i, len(presetIcons)-1)],
		Class:   strings.ToLower(strings.ReplaceAll(c.presets[i].Name, " ", "-")),
		Tooltip: "Blue Light Filter: " + c.name(t, "Custom"),
	}
	if t < c.Off() {
		st.Tooltip += fmt.Sprintf(" (%dK)", t)
	} else {
		st.Tooltip = "Blue Light Filter: Off"
	}
	return st
}

func (c *Controller) send(ctx context.Context, icon, msg string) {
	if err := c.sink.Send(ctx, notify.Message(icon, msg)); err != nil {
		c.logger.Warn("failed to send notification", "error", err)
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
