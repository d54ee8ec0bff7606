package hyprland

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"os"
	"path/filepath"
	"strings"
)

// ErrMissingEnv is returned outside a Hyprland session.
var ErrMissingEnv = errors.New("XDG_RUNTIME_DIR or HYPRLAND_INSTANCE_SIGNATURE not set")

// Event is one line of the socket2 event stream, e.g. "fullscreen>>1".
type Event struct {
	Name    string
	Payload string
}

// ParseEvent splits a raw event line on the first ">>".
func ParseEvent(line string) Event {
	name, payload, _ := strings.Cut(line, ">>")
	return Event{Name: name, Payload: payload}
}

// SocketPath returns the event socket of the running Hyprland instance.
func SocketPath() (string, error) {
	runtime := os.Getenv("XDG_RUNTIME_DIR")
	sig := os.Getenv("HYPRLAND_INSTANCE_SIGNATURE")
	if runtime == "" || sig == "" {
		return "", ErrMissingEnv
	}
	return filepath.Join(runtime, "hypr", sig, ".socket2.sock"), nil
}

// Subscribe connects to the event socket at path and streams events until
// ctx is cancelled or the compositor closes the socket. The channel is
// closed when the stream ends.
func Subscribe(ctx context.Context, path string, logger *slog.Logger) (<-chan Event, error) {
	if logger == nil {
		logger = slog.Default()
	}

	var d net.Dialer
	conn, err := d.DialContext(ctx, "unix", path)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to event socket: %w", err)
	}

	// Unblock the scanner on cancellation
	stop := context.AfterFunc(ctx, func() { _ = conn.Close() })

	events := make(chan Event)
	go func() {
		defer close(events)
		defer stop()
		defer conn.Close()

		scanner := bufio.NewScanner(conn)
		for scanner.Scan() {
			select {
			case events <- ParseEvent(scanner.Text()):
			case <-ctx.Done():
				return
			}
		}
		if err := scanner.Err(); err != nil && ctx.Err() == nil {
			logger.Warn("event stream error", "error", err)
		}
	}()

	return events, nil
}
