//go:build linux

package devices

import (
	"context"
	"time"

	"github.com/smazurov/mjpeggrab/internal/events"
	"github.com/smazurov/mjpeggrab/internal/logging"
	"github.com/smazurov/mjpeggrab/pkg/linuxav/hotplug"
	"github.com/smazurov/mjpeggrab/pkg/linuxav/v4l2"
)

// swappable for tests
var v4l2FindDevices = v4l2.FindDevices

// Watcher monitors video4linux hotplug events and republishes them on the
// event bus as DeviceChangeEvents.
type Watcher struct {
	bus    *events.Bus
	logger logging.Logger
}

// NewWatcher creates a watcher publishing to the given bus.
func NewWatcher(bus *events.Bus) *Watcher {
	return &Watcher{
		bus:    bus,
		logger: logging.GetLogger("devices"),
	}
}

// Run blocks watching for device changes until the context is cancelled.
func (w *Watcher) Run(ctx context.Context) error {
	monitor, err := hotplug.NewMonitor(hotplug.SubsystemVideo4Linux)
	if err != nil {
		return err
	}
	defer monitor.Close()

	hotplugEvents := make(chan hotplug.Event, 16)
	errc := make(chan error, 1)
	go func() {
		errc <- monitor.Run(ctx, hotplugEvents)
	}()

	for {
		select {
		case ev, ok := <-hotplugEvents:
			if !ok {
				return <-errc
			}
			if ev.DevName == "" {
				continue
			}
			devicePath := "/dev/" + ev.DevName
			w.logger.Debug("device change", "action", ev.Action, "device", devicePath)

			var stableID string
			// After removal there is no sysfs entry left to derive an ID from
			if ev.Action == hotplug.ActionAdd || ev.Action == hotplug.ActionChange {
				stableID = lookupStableID(devicePath)
			}

			w.bus.Publish(events.DeviceChangeEvent{
				Action:     ev.Action,
				DevicePath: devicePath,
				StableID:   stableID,
				Timestamp:  time.Now().UTC().Format(time.RFC3339),
			})
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// lookupStableID finds the stable identifier for a freshly added device.
// Udev may still be creating symlinks when the uevent arrives, so a missing
// ID is not an error.
func lookupStableID(devicePath string) string {
	found, err := v4l2FindDevices()
	if err != nil {
		return ""
	}
	for _, dev := range found {
		if dev.DevicePath == devicePath {
			return dev.DeviceID
		}
	}
	return ""
}
