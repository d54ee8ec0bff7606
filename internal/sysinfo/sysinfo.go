// Package sysinfo renders system statistics into the swaync sysinfo label.
package sysinfo

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
	"golang.org/x/sys/unix"

	"github.com/jmylchreest/hyprkit/internal/state"
)

// CPUPrevFile is the runtime file name for the previous CPU sample.
const CPUPrevFile = "cpu_prev"

// Collector gathers the statistics. Root is prepended to every /proc and
// /sys path so tests can supply a fake tree.
type Collector struct {
	Root     string
	Disk     string // mount point measured for disk usage
	CPUPrev  string // file holding the previous idle and total jiffies
	BarWidth int
}

// NewCollector returns a Collector for the live system.
func NewCollector(cpuPrevPath string, barWidth int) *Collector {
	return &Collector{Root: "/", Disk: "/", CPUPrev: cpuPrevPath, BarWidth: barWidth}
}

func (c *Collector) path(p string) string {
	return filepath.Join(c.Root, p)
}

// ProgressBar draws percent as a bar of width cells.
func ProgressBar(percent, width int) string {
	percent = max(0, min(100, percent))
	filled := width * percent / 100
	return strings.Repeat("━", filled) + strings.Repeat("─", width-filled)
}

// Uptime returns the uptime line.
func (c *Collector) Uptime() string {
	data, err := os.ReadFile(c.path("proc/uptime"))
	if err != nil {
		return "  Uptime: N/A"
	}
	fields := strings.Fields(string(data))
	if len(fields) == 0 {
		return "  Uptime: N/A"
	}
	secs, err := strconv.ParseFloat(fields[0], 64)
	if err != nil {
		return "  Uptime: N/A"
	}
	s := int(secs)
	return fmt.Sprintf("  Uptime: %dh %dm", s/3600, s%3600/60)
}

// Temp returns the CPU temperature line.
func (c *Collector) Temp() string {
	data, err := os.ReadFile(c.path("sys/class/thermal/thermal_zone0/temp"))
	if err != nil {
		return "  Temp: N/A"
	}
	milli, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil {
		return "  Temp: N/A"
	}
	return fmt.Sprintf("  Temp: %d°C", milli/1000)
}

// cpuSample reads idle and total jiffies from the first line of /proc/stat.
func (c *Collector) cpuSample() (idle, total uint64, err error) {
	f, err := os.Open(c.path("proc/stat"))
	if err != nil {
		return 0, 0, err
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	if !scanner.Scan() {
		return 0, 0, fmt.Errorf("empty /proc/stat")
	}
	fields := strings.Fields(scanner.Text())
	if len(fields) < 5 {
		return 0, 0, fmt.Errorf("short cpu line %q", scanner.Text())
	}
	for i, f := range fields[1:] {
		v, err := strconv.ParseUint(f, 10, 64)
		if err != nil {
			return 0, 0, err
		}
		if i == 3 {
			idle = v
		}
		total += v
	}
	return idle, total, nil
}

// CPU returns the CPU usage line, measured since the previous call. The
// first call reports 0%.
func (c *Collector) CPU() string {
	idle, total, err := c.cpuSample()
	if err != nil {
		return "  CPU\t N/A"
	}

	percent := 0
	if prev, err := os.ReadFile(c.CPUPrev); err == nil {
		var pIdle, pTotal uint64
		if _, err := fmt.Sscan(string(prev), &pIdle, &pTotal); err == nil && total > pTotal && idle >= pIdle {
			percent = int(100 * (1 - float64(idle-pIdle)/float64(total-pTotal)))
		}
	}
	if err := state.WriteFile(c.CPUPrev, []byte(fmt.Sprintf("%d %d", idle, total)), 0644); err != nil {
		percent = 0
	}

	return fmt.Sprintf("  CPU\t%s %d%%", ProgressBar(percent, c.BarWidth), percent)
}

// meminfo returns the /proc/meminfo values in KiB.
func (c *Collector) meminfo() (map[string]uint64, error) {
	f, err := os.Open(c.path("proc/meminfo"))
	if err != nil {
		return nil, err
	}
	defer f.Close()

	info := make(map[string]uint64)
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		key, rest, ok := strings.Cut(scanner.Text(), ":")
		if !ok {
			continue
		}
		fields := strings.Fields(rest)
		if len(fields) == 0 {
			continue
		}
		if v, err := strconv.ParseUint(fields[0], 10, 64); err == nil {
			info[key] = v
		}
	}
	return info, scanner.Err()
}

func (c *Collector) usage(label string, used, total uint64) string {
	percent := 0
	if total > 0 {
		percent = int(used * 100 / total)
	}
	return fmt.Sprintf("%s\t%s %s/%s", label, ProgressBar(percent, c.BarWidth), humanize.IBytes(used), humanize.IBytes(total))
}

// RAM returns the memory usage line.
func (c *Collector) RAM() string {
	info, err := c.meminfo()
	total, avail := info["MemTotal"], info["MemAvailable"]
	if err != nil || total == 0 || avail > total {
		return "  RAM\t N/A"
	}
	return c.usage("  RAM", (total-avail)*1024, total*1024)
}

// Swap returns the swap usage line.
func (c *Collector) Swap() string {
	info, err := c.meminfo()
	total, free := info["SwapTotal"], info["SwapFree"]
	if err != nil || free > total {
		return "󰓡  Swap\t N/A"
	}
	return c.usage("󰓡  Swap", (total-free)*1024, total*1024)
}

// DiskUsage returns the disk usage line for c.Disk.
func (c *Collector) DiskUsage() string {
	var st unix.Statfs_t
	if err := unix.Statfs(c.Disk, &st); err != nil {
		return "󰋊  Disk\t N/A"
	}
	total := st.Blocks * uint64(st.Frsize)
	free := st.Bavail * uint64(st.Frsize)
	if total == 0 || free > total {
		return "󰋊  Disk\t N/A"
	}
	return c.usage("󰋊  Disk", total-free, total)
}

// Render returns every line joined for the label.
func (c *Collector) Render() string {
	return strings.Join([]string{
		c.Uptime(),
		c.Temp(),
		c.CPU(),
		c.RAM(),
		c.Swap(),
		c.DiskUsage(),
	}, "\n")
}
