package battery

import (
	"fmt"

	"github.com/jmylchreest/hyprkit/internal/state"
	"github.com/jmylchreest/hyprkit/internal/waybar"
)

// Charging animation frames, empty to full.
var chargingIcons = []string{"󰢟", "󰢜", "󰂆", "󰂇", "󰂈", "󰢝", "󰂉", "󰢞", "󰂊", "󰂋", "󰂅"}

// Discharging level icons, empty to full.
var levelIcons = []string{"󰂎", "󰁺", "󰁻", "󰁼", "󰁽", "󰁾", "󰁿", "󰂀", "󰂁", "󰂂", "󰁹"}

const fullIcon = "󰂅"

// SimulatedLevel is shown by `battery bar sim` without an explicit level.
const SimulatedLevel = 20

// Bar renders the battery module. While charging each call advances an
// animation frame stored in Frame, starting from the current level.
type Bar struct {
	Frame state.Int
}

// CSSClass returns the module class for r.
func CSSClass(r Reading) string {
	switch {
	case r.Status == StatusCharging:
		return "charging"
	case r.Status == StatusFull:
		return "full"
	case r.Capacity <= 20:
		return "critical"
	case r.Capacity <= 40:
		return "warning"
	}
	return "normal"
}

func levelIndex(capacity int) int {
	return max(0, min(capacity/10, 10))
}

// Render returns the module output for r.
func (b *Bar) Render(r Reading) waybar.Status {
	st := waybar.Status{Class: CSSClass(r), Percentage: r.Capacity}

	switch r.Status {
	case StatusCharging:
		st.Text = b.nextFrame(r.Capacity)
		st.Tooltip = fmt.Sprintf("Charging %d%%", r.Capacity)
	case StatusFull:
		st.Text = fullIcon
		st.Tooltip = "Fully Charged"
		b.reset()
	default:
		st.Text = levelIcons[levelIndex(r.Capacity)]
		st.Tooltip = fmt.Sprintf("Battery %d%%", r.Capacity)
		b.reset()
	}
	return st
}

func (b *Bar) nextFrame(capacity int) string {
	start := levelIndex(capacity)
	frame := max(b.Frame.Read(start), start)
	frame = min(frame, len(chargingIcons)-1)

	next := start
	if frame < len(chargingIcons)-1 {
		next = frame + 1
	}
	_ = b.Frame.Write(next)

	return chargingIcons[frame]
}

func (b *Bar) reset() {
	_ = b.Frame.Clear()
}

// ReadOrUnknown reads the battery, reporting Unknown at 0% when it cannot.
func ReadOrUnknown(r *Reader) Reading {
	reading, err := r.Read()
	if err != nil {
		return Reading{Status: StatusUnknown}
	}
	return reading
}
