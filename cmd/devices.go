package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/smazurov/mjpeggrab/internal/devices"
	"github.com/smazurov/mjpeggrab/internal/events"
	"github.com/smazurov/mjpeggrab/internal/logging"
	"github.com/smazurov/mjpeggrab/pkg/linuxav/v4l2"
)

// CreateDevicesCmd creates the devices command.
func CreateDevicesCmd() *cobra.Command {
	var watch bool

	cmd := &cobra.Command{
		Use:   "devices",
		Short: "List video capture devices",
		Long: `Lists V4L2 capture devices with their stable identifiers. ` +
			`Stable IDs survive reboots and re-enumeration, unlike /dev/videoN paths.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			found, err := v4l2.FindDevices()
			if err != nil {
				return fmt.Errorf("enumerating devices: %w", err)
			}

			if len(found) == 0 {
				fmt.Println("No capture devices found")
			}
			for _, dev := range found {
				fmt.Printf("%-14s %-32s %s\n", dev.DevicePath, dev.DeviceName, dev.DeviceID)
			}

			if !watch {
				return nil
			}
			return watchDevices(cmd.Context())
		},
	}

	cmd.Flags().BoolVarP(&watch, "watch", "w", false, "keep running and report hotplug events")
	return cmd
}

// watchDevices blocks printing device changes until interrupted.
func watchDevices(parent context.Context) error {
	logger := logging.GetLogger("devices")

	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	bus := events.New()
	unsub := bus.Subscribe(func(e events.DeviceChangeEvent) {
		fmt.Printf("%-7s %-14s %s\n", e.Action, e.DevicePath, e.StableID)
	})
	defer unsub()

	fmt.Println("Watching for device changes, Ctrl-C to stop")
	watcher := devices.NewWatcher(bus)
	if err := watcher.Run(ctx); err != nil && ctx.Err() == nil {
		logger.Error("Device watch failed", "error", err)
		return err
	}
	return nil
}
