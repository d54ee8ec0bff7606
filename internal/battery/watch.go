package battery

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/godbus/dbus/v5"
)

const (
	upowerDevicePrefix = "/org/freedesktop/UPower/devices/battery_"
	propertiesIface    = "org.freedesktop.DBus.Properties"
)

// Watch subscribes to UPower PropertiesChanged signals for the battery on
// the system bus and emits a fresh Reading for each. The channel closes
// when ctx is cancelled.
func Watch(ctx context.Context, reader *Reader, logger *slog.Logger) (<-chan Reading, error) {
	if logger == nil {
		logger = slog.Default()
	}

	conn, err := dbus.ConnectSystemBus()
	if err != nil {
		return nil, fmt.Errorf("failed to connect to system bus: %w", err)
	}

	device := reader.Device
	if device == "" {
		device = "BAT0"
	}
	path := dbus.ObjectPath(upowerDevicePrefix + device)

	if err := conn.AddMatchSignalContext(ctx,
		dbus.WithMatchInterface(propertiesIface),
		dbus.WithMatchMember("PropertiesChanged"),
		dbus.WithMatchObjectPath(path),
	); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to subscribe to %s: %w", path, err)
	}

	signals := make(chan *dbus.Signal, 16)
	conn.Signal(signals)
	logger.Debug("watching battery", "path", path)

	out := readings(ctx, signals, reader, logger)

	go func() {
		<-ctx.Done()
		conn.RemoveSignal(signals)
		_ = conn.Close()
	}()
	return out, nil
}

// readings turns PropertiesChanged signals into battery readings.
func readings(ctx context.Context, signals <-chan *dbus.Signal, reader *Reader, logger *slog.Logger) <-chan Reading {
	out := make(chan Reading)
	go func() {
		defer close(out)
		for {
			select {
			case sig, ok := <-signals:
				if !ok {
					return
				}
				if sig.Name != propertiesIface+".PropertiesChanged" {
					continue
				}
				r, err := reader.Read()
				if err != nil {
					logger.Warn("failed to read battery", "error", err)
					continue
				}
				select {
				case out <- r:
				case <-ctx.Done():
					return
				}
			case <-ctx.Done():
				return
			}
		}
	}()
	return out
}
