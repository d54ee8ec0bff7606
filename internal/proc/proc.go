// Package proc runs the external tools the desktop scripts are built on.
//
// Every component talks to the outside world through a Runner so that tests
// can substitute a scripted fake. Captured calls never fail with a Go error
// just because the tool exited non-zero; callers branch on Result instead.
package proc

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"strconv"
	"strings"
	"syscall"
)

// Result holds everything a captured command produced.
type Result struct {
	Stdout   string
	Stderr   string
	ExitCode int
	// Err is set when the command could not be run at all (missing binary,
	// context cancelled) or exited non-zero.
	Err error
}

// OK reports whether the command ran and exited zero.
func (r Result) OK() bool {
	return r.Err == nil && r.ExitCode == 0
}

// ExitError describes an external tool that exited non-zero or could not start.
type ExitError struct {
	Command string
	Code    int
	Stderr  string
	Err     error
}

func (e *ExitError) Error() string {
	msg := fmt.Sprintf("%s exited with code %d", e.Command, e.Code)
	if s := strings.TrimSpace(e.Stderr); s != "" {
		msg += ": " + s
	}
	if e.Err != nil && e.Code < 0 {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

// Runner executes external commands.
type Runner interface {
	// Run executes the command, discarding its output, and waits for it.
	Run(ctx context.Context, name string, args ...string) error

	// Capture executes the command and returns its output and exit code.
	Capture(ctx context.Context, name string, args ...string) Result

	// Pipe executes the command with stdin as its standard input and
	// captures the output. Used for selector tools like rofi -dmenu.
	Pipe(ctx context.Context, stdin string, name string, args ...string) Result

	// Start launches the command detached in its own session with output
	// discarded and returns its PID without waiting.
	Start(name string, args ...string) (int, error)
}

// Exec is the Runner backed by os/exec.
type Exec struct {
	// Env is appended to the current process environment.
	Env    []string
	logger *slog.Logger
}

// NewExec creates an Exec runner.
func NewExec(logger *slog.Logger) *Exec {
	if logger == nil {
		logger = slog.Default()
	}
	return &Exec{logger: logger}
}

func (e *Exec) command(ctx context.Context, name string, args ...string) *exec.Cmd {
	c := exec.CommandContext(ctx, name, args...)
	if len(e.Env) > 0 {
		c.Env = append(os.Environ(), e.Env...)
	}
	return c
}

// Run implements Runner.
func (e *Exec) Run(ctx context.Context, name string, args ...string) error {
	return e.Capture(ctx, name, args...).Err
}

// Capture implements Runner.
func (e *Exec) Capture(ctx context.Context, name string, args ...string) Result {
	return e.run(e.command(ctx, name, args...))
}

// Pipe implements Runner.
func (e *Exec) Pipe(ctx context.Context, stdin string, name string, args ...string) Result {
	c := e.command(ctx, name, args...)
	c.Stdin = strings.NewReader(stdin)
	return e.run(c)
}

func (e *Exec) run(c *exec.Cmd) Result {
	var outBuf, errBuf bytes.Buffer
	c.Stdout = &outBuf
	c.Stderr = &errBuf

	err := c.Run()
	res := Result{Stdout: outBuf.String(), Stderr: errBuf.String()}
	if err != nil {
		var ee *exec.ExitError
		if errors.As(err, &ee) {
			res.ExitCode = ee.ExitCode()
		} else {
			// binary missing, context cancelled before start, ...
			res.ExitCode = -1
		}
		res.Err = &ExitError{
			Command: commandLine(c.Path, c.Args),
			Code:    res.ExitCode,
			Stderr:  res.Stderr,
			Err:     err,
		}
	}

	e.logger.Debug("command finished", "cmd", commandLine(c.Path, c.Args), "exit", res.ExitCode)
	return res
}

// Start implements Runner.
func (e *Exec) Start(name string, args ...string) (int, error) {
	c := exec.Command(name, args...)
	if len(e.Env) > 0 {
		c.Env = append(os.Environ(), e.Env...)
	}
	c.SysProcAttr = &syscall.SysProcAttr{Setsid: true}

	if err := c.Start(); err != nil {
		return 0, &ExitError{Command: commandLine(name, c.Args), Code: -1, Err: err}
	}

	pid := c.Process.Pid
	e.logger.Debug("started background process", "cmd", commandLine(name, c.Args), "pid", pid)

	// Reap the child if we outlive it.
	go func() { _ = c.Wait() }()
	return pid, nil
}

func commandLine(path string, args []string) string {
	if len(args) == 0 {
		return path
	}
	return strings.Join(args, " ")
}

// Running reports whether a process with exactly this name exists.
func Running(ctx context.Context, r Runner, name string) bool {
	return r.Capture(ctx, "pgrep", "-x", name).OK()
}

// Pidof returns the PIDs of processes with exactly this name.
func Pidof(ctx context.Context, r Runner, name string) []int {
	res := r.Capture(ctx, "pgrep", "-x", name)
	if !res.OK() {
		return nil
	}

	var pids []int
	for _, field := range strings.Fields(res.Stdout) {
		if pid, err := strconv.Atoi(field); err == nil {
			pids = append(pids, pid)
		}
	}
	return pids
}

// KillAll terminates every process with this name. Absence is not an error.
func KillAll(ctx context.Context, r Runner, name string) {
	_ = r.Run(ctx, "killall", name)
}
