package notify

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/jmylchreest/hyprkit/internal/proc"
)

// CommandSink shells out to notify-send.
type CommandSink struct {
	runner  proc.Runner
	session *SessionEnv
	logger  *slog.Logger
}

// NewCommandSink creates a CommandSink. When session is non-nil every call
// runs as that user with its session bus environment.
func NewCommandSink(runner proc.Runner, session *SessionEnv, logger *slog.Logger) *CommandSink {
	if logger == nil {
		logger = slog.Default()
	}
	return &CommandSink{runner: runner, session: session, logger: logger}
}

// Send implements Sink.
func (s *CommandSink) Send(ctx context.Context, n Notification) error {
	name, args := s.command(n, false)
	if err := s.runner.Run(ctx, name, args...); err != nil {
		return fmt.Errorf("failed to send notification: %w", err)
	}
	return nil
}

// Ask implements Sink.
func (s *CommandSink) Ask(ctx context.Context, n Notification) (string, error) {
	name, args := s.command(n, true)
	res := s.runner.Capture(ctx, name, args...)
	if res.Err != nil {
		return "", fmt.Errorf("failed to send notification: %w", res.Err)
	}
	return strings.TrimSpace(res.Stdout), nil
}

func (s *CommandSink) command(n Notification, wait bool) (string, []string) {
	args := Args(n)
	if wait {
		for _, a := range n.Actions {
			args = append(args, "--action="+a.Key+"="+a.Label)
		}
		args = append(args, "--wait")
	}
	args = append(args, "--", n.Summary)
	if n.Body != "" {
		args = append(args, n.Body)
	}

	if s.session == nil {
		return "notify-send", args
	}

	sudo := []string{"-u", s.session.User, "env"}
	sudo = append(sudo, s.session.Environ()...)
	sudo = append(sudo, "notify-send")
	return "sudo", append(sudo, args...)
}

// Args returns the notify-send options for n, excluding actions and text.
func Args(n Notification) []string {
	var args []string
	if n.Transient {
		args = append(args, "-e")
	}
	if n.AppName != "" {
		args = append(args, "-a", n.AppName)
	}
	if n.Progress != nil {
		args = append(args, "-h", "int:value:"+strconv.Itoa(*n.Progress))
	}
	if n.SyncTag != "" {
		args = append(args, "-h", "string:x-canonical-private-synchronous:"+n.SyncTag)
	}
	if n.Category != "" {
		args = append(args, "-c", n.Category)
	}
	args = append(args, "-u", n.Urgency.String())
	if n.Icon != "" {
		args = append(args, "-i", n.Icon)
	}
	return args
}
