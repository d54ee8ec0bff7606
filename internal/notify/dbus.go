package notify

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/godbus/dbus/v5"
)

// D-Bus names of the notification service.
const (
	DBusInterface = "org.freedesktop.Notifications"
	DBusPath      = dbus.ObjectPath("/org/freedesktop/Notifications")
)

// DBusSink calls org.freedesktop.Notifications.Notify on the session bus.
type DBusSink struct {
	conn   *dbus.Conn
	logger *slog.Logger
}

// NewDBusSink connects to the session bus.
func NewDBusSink(logger *slog.Logger) (*DBusSink, error) {
	if logger == nil {
		logger = slog.Default()
	}
	conn, err := dbus.ConnectSessionBus()
	if err != nil {
		return nil, fmt.Errorf("failed to connect to session bus: %w", err)
	}
	return &DBusSink{conn: conn, logger: logger}, nil
}

// Close closes the bus connection.
func (s *DBusSink) Close() error {
	return s.conn.Close()
}

// Send implements Sink.
func (s *DBusSink) Send(ctx context.Context, n Notification) error {
	_, err := s.notify(ctx, n, false)
	return err
}

// Ask implements Sink.
func (s *DBusSink) Ask(ctx context.Context, n Notification) (string, error) {
	// Subscribe before sending so a fast click is not missed
	matches := []dbus.MatchOption{
		dbus.WithMatchInterface(DBusInterface),
		dbus.WithMatchObjectPath(DBusPath),
	}
	if err := s.conn.AddMatchSignalContext(ctx, matches...); err != nil {
		return "", fmt.Errorf("failed to subscribe to notification signals: %w", err)
	}
	defer func() { _ = s.conn.RemoveMatchSignal(matches...) }()

	signals := make(chan *dbus.Signal, 16)
	s.conn.Signal(signals)
	defer s.conn.RemoveSignal(signals)

	id, err := s.notify(ctx, n, true)
	if err != nil {
		return "", err
	}

	for {
		select {
		case sig, ok := <-signals:
			if !ok {
				return "", nil
			}
			if key, done := matchSignal(sig, id); done {
				return key, nil
			}
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
}

// matchSignal interprets a notification signal for id. done is true once
// the notification has been acted on or closed.
func matchSignal(sig *dbus.Signal, id uint32) (key string, done bool) {
	if len(sig.Body) < 2 {
		return "", false
	}
	sigID, ok := sig.Body[0].(uint32)
	if !ok || sigID != id {
		return "", false
	}

	switch sig.Name {
	case DBusInterface + ".ActionInvoked":
		key, _ := sig.Body[1].(string)
		return key, true
	case DBusInterface + ".NotificationClosed":
		return "", true
	}
	return "", false
}

func (s *DBusSink) notify(ctx context.Context, n Notification, withActions bool) (uint32, error) {
	var actions []string
	if withActions {
		for _, a := range n.Actions {
			actions = append(actions, a.Key, a.Label)
		}
	}

	obj := s.conn.Object(DBusInterface, DBusPath)
	call := obj.CallWithContext(ctx, DBusInterface+".Notify", 0,
		n.AppName,
		uint32(0),
		n.Icon,
		n.Summary,
		n.Body,
		actions,
		Hints(n),
		int32(-1),
	)
	if call.Err != nil {
		return 0, fmt.Errorf("failed to send notification: %w", call.Err)
	}

	var id uint32
	if err := call.Store(&id); err != nil {
		return 0, fmt.Errorf("failed to read notification id: %w", err)
	}

	s.logger.Debug("notification sent", "id", id, "summary", n.Summary, "urgency", n.Urgency.String())
	return id, nil
}

// Hints builds the D-Bus hint map for n.
func Hints(n Notification) map[string]dbus.Variant {
	hints := map[string]dbus.Variant{
		"urgency": dbus.MakeVariant(byte(n.Urgency)),
	}
	if n.Progress != nil {
		hints["value"] = dbus.MakeVariant(int32(*n.Progress))
	}
	if n.SyncTag != "" {
		hints["x-canonical-private-synchronous"] = dbus.MakeVariant(n.SyncTag)
	}
	if n.Category != "" {
		hints["category"] = dbus.MakeVariant(n.Category)
	}
	if n.Transient {
		hints["transient"] = dbus.MakeVariant(true)
	}
	return hints
}
