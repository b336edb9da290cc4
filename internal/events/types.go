package events

// Event type constants for kelindar/event.
const (
	TypeFrameCaptured uint32 = iota + 1
	TypeCaptureFinished
	TypeDeviceChange
)

// Event interface required by kelindar/event.
type Event interface {
	Type() uint32
}

// FrameCapturedEvent is published after each frame is written to disk.
type FrameCapturedEvent struct {
	DevicePath string // Path to the video device
	OutputPath string // File the frame was appended to
	Bytes      int    // Frame size written, after trimming
	Trimmed    int    // Bytes removed past the JPEG end marker
	Remaining  uint   // Frames left to capture, 0 when finishing
	Timestamp  string // RFC 3339 capture time
}

// Type returns the event type identifier for FrameCapturedEvent.
func (e FrameCapturedEvent) Type() uint32 { return TypeFrameCaptured }

// CaptureFinishedEvent is published once when a capture session ends.
type CaptureFinishedEvent struct {
	DevicePath string // Path to the video device
	Frames     uint   // Frames successfully written
	Error      string // Empty on clean completion
	Timestamp  string // RFC 3339 completion time
}

// Type returns the event type identifier for CaptureFinishedEvent.
func (e CaptureFinishedEvent) Type() uint32 { return TypeCaptureFinished }

// DeviceChangeEvent represents a capture device appearing or disappearing.
type DeviceChangeEvent struct {
	Action     string // "add", "remove", "change"
	DevicePath string // Path under /dev, e.g. /dev/video0
	StableID   string // Persistent device identifier when known
	Timestamp  string // RFC 3339 event time
}

// Type returns the event type identifier for DeviceChangeEvent.
func (e DeviceChangeEvent) Type() uint32 { return TypeDeviceChange }
