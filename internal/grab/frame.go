//go:build linux

package grab

import (
	"bytes"
	"fmt"
	"os"
)

// jpegEOI is the JPEG End-Of-Image marker.
var jpegEOI = []byte{0xFF, 0xD9}

// trimEOI returns the effective length of b: up to and including the
// first End-Of-Image marker, or the whole slice when no marker is
// present. A captured read can return the full buffer even when the
// JPEG payload is shorter, and concatenated output must not carry that
// padding.
func trimEOI(b []byte) int {
	if i := bytes.Index(b, jpegEOI); i >= 0 {
		return i + 2
	}
	return len(b)
}

// appendFrame appends one frame to the output file. The file is opened
// and closed per frame so an external rotation between frames picks up
// cleanly on the next write.
func appendFrame(path string, frame []byte) error {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("opening output %s: %w", path, err)
	}
	if _, err := f.Write(frame); err != nil {
		f.Close()
		return fmt.Errorf("writing frame to %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("closing output %s: %w", path, err)
	}
	return nil
}
