//go:build linux

package devices

import (
	"strings"
	"testing"
)

func TestResolvePathPassthrough(t *testing.T) {
	tests := []string{
		"/dev/video0",
		"/dev/video12",
		"/dev/v4l/by-id/usb-Logitech_C920-video-index0",
	}

	for _, path := range tests {
		t.Run(path, func(t *testing.T) {
			got, err := ResolvePath(path)
			if err != nil {
				t.Fatalf("ResolvePath(%q) error: %v", path, err)
			}
			if got != path {
				t.Errorf("ResolvePath(%q) = %q, want passthrough", path, got)
			}
		})
	}
}

func TestResolvePathUnknownID(t *testing.T) {
	_, err := ResolvePath("usb-Nonexistent_Device_0000-video-index0")
	if err == nil {
		t.Fatal("expected error for unknown device ID")
	}
	if !strings.Contains(err.Error(), "no device found") {
		t.Errorf("unexpected error: %v", err)
	}
}
