//go:build linux

// Package devices resolves capture device identifiers to /dev paths and
// watches for devices appearing and disappearing.
package devices

import (
	"fmt"
	"os"
	"strings"

	"github.com/smazurov/mjpeggrab/pkg/linuxav/v4l2"
)

// ResolvePath converts a device identifier to a usable device path.
// Full /dev paths pass through unchanged; stable IDs are resolved via the
// /dev/v4l symlink trees and finally by enumerating devices.
func ResolvePath(deviceID string) (string, error) {
	// If it's already a full path, use it directly
	if strings.HasPrefix(deviceID, "/dev/") {
		return deviceID, nil
	}

	// Try by-id first (for USB devices)
	if strings.HasPrefix(deviceID, "usb-") {
		devicePath := "/dev/v4l/by-id/" + deviceID
		if _, err := os.Stat(devicePath); err == nil {
			return devicePath, nil
		}
	}

	// Try by-path (for platform devices and USB devices without by-id)
	if strings.HasPrefix(deviceID, "platform-") || strings.HasPrefix(deviceID, "usb-") {
		devicePath := "/dev/v4l/by-path/" + deviceID
		if _, err := os.Stat(devicePath); err == nil {
			return devicePath, nil
		}
	}

	// Synthetic IDs (no symlink on disk) need a full enumeration
	found, err := v4l2.FindDevices()
	if err == nil {
		for _, dev := range found {
			if dev.DeviceID == deviceID {
				return dev.DevicePath, nil
			}
		}
	}

	return "", fmt.Errorf("no device found for ID: %s", deviceID)
}
