//go:build linux

// Package grab drives a capture session against a V4L2 device using the
// read/write I/O model: negotiate an MJPEG format, then read frames one at
// a time and append them to an output file.
package grab

import (
	"context"
	"errors"
	"fmt"
	"syscall"
	"time"

	"github.com/smazurov/mjpeggrab/internal/events"
	"github.com/smazurov/mjpeggrab/internal/logging"
	"github.com/smazurov/mjpeggrab/pkg/linuxav/v4l2"
)

// Device is the subset of device operations a capture session needs.
// *v4l2.Device satisfies it.
type Device interface {
	Path() string
	QueryCap() (v4l2.Capability, error)
	ResetCrop() error
	SetFormat(req v4l2.PixFormat) (v4l2.PixFormat, error)
	SetInterval(num, den uint32) error
	WaitRead(ctx context.Context) error
	Read(p []byte) (int, error)
	Close() error
}

// Config holds the capture parameters. Width and Height are updated with
// the device-accepted values during negotiation.
type Config struct {
	DevicePath string
	OutputPath string
	Width      uint32
	Height     uint32
	FPS        uint32
	Count      uint
	TrimEOI    bool
}

// Session owns an open device and a reusable frame buffer for the
// duration of one capture run.
type Session struct {
	cfg    Config
	dev    Device
	buf    []byte
	bus    *events.Bus
	logger logging.Logger
}

// Open opens the configured device and prepares a session. The bus may be
// nil when no listeners care about per-frame events.
func Open(cfg Config, bus *events.Bus) (*Session, error) {
	dev, err := v4l2.Open(cfg.DevicePath)
	if err != nil {
		return nil, err
	}
	return NewWithDevice(cfg, dev, bus), nil
}

// NewWithDevice wraps an already-open device in a session. The session
// takes ownership of the device and closes it when Run returns.
func NewWithDevice(cfg Config, dev Device, bus *events.Bus) *Session {
	return &Session{
		cfg:    cfg,
		dev:    dev,
		bus:    bus,
		logger: logging.GetLogger("grab"),
	}
}

// Config returns the session configuration, reflecting any dimensions the
// device substituted during negotiation.
func (s *Session) Config() Config {
	return s.cfg
}

// Run negotiates the capture format and then captures the configured
// number of frames. The device is closed on every exit path.
func (s *Session) Run(ctx context.Context) (err error) {
	defer func() {
		if cerr := s.dev.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("closing %s: %w", s.cfg.DevicePath, cerr)
		}
		s.buf = nil
	}()

	if err := s.negotiate(); err != nil {
		s.finish(0, err)
		return err
	}

	frames, err := s.capture(ctx)
	s.finish(frames, err)
	return err
}

// negotiate runs the fixed setup sequence: capability check, best-effort
// crop reset, MJPEG format set, frame interval, buffer sizing.
func (s *Session) negotiate() error {
	cap, err := s.dev.QueryCap()
	if err != nil {
		if errors.Is(err, syscall.EINVAL) {
			return fmt.Errorf("%s is not a V4L2 device", s.cfg.DevicePath)
		}
		return fmt.Errorf("querying capabilities of %s: %w", s.cfg.DevicePath, err)
	}

	caps := cap.Capabilities
	if cap.Has(v4l2.V4L2_CAP_DEVICE_CAPS) {
		caps = cap.DeviceCaps
	}
	if caps&v4l2.V4L2_CAP_VIDEO_CAPTURE == 0 {
		return fmt.Errorf("%s is not a video capture device", s.cfg.DevicePath)
	}
	if caps&v4l2.V4L2_CAP_READWRITE == 0 {
		return fmt.Errorf("%s does not support read i/o", s.cfg.DevicePath)
	}

	// Some drivers come up cropped; reset to the default rectangle when
	// the device supports cropping at all.
	if err := s.dev.ResetCrop(); err != nil {
		s.logger.Debug("crop reset not supported", "device", s.cfg.DevicePath, "error", err)
	}

	got, err := s.dev.SetFormat(v4l2.PixFormat{
		Width:       s.cfg.Width,
		Height:      s.cfg.Height,
		PixelFormat: v4l2.V4L2_PIX_FMT_MJPEG,
		Field:       v4l2.V4L2_FIELD_INTERLACED,
	})
	if err != nil {
		return fmt.Errorf("setting format on %s: %w", s.cfg.DevicePath, err)
	}
	if got.PixelFormat != v4l2.V4L2_PIX_FMT_MJPEG {
		return fmt.Errorf("MJPEG not accepted by %s, got format %s",
			s.cfg.DevicePath, v4l2.FormatFourCC(got.PixelFormat))
	}
	if got.Width != s.cfg.Width || got.Height != s.cfg.Height {
		s.logger.Warn("driver substituted image dimensions",
			"requested_width", s.cfg.Width, "requested_height", s.cfg.Height,
			"width", got.Width, "height", got.Height)
		s.cfg.Width = got.Width
		s.cfg.Height = got.Height
	}

	if s.cfg.FPS > 0 {
		if err := s.dev.SetInterval(1, s.cfg.FPS); err != nil {
			s.logger.Warn("driver rejected frame interval",
				"fps", s.cfg.FPS, "error", err)
		}
	}

	s.buf = make([]byte, frameBufferSize(got))
	s.logger.Debug("format negotiated",
		"width", got.Width, "height", got.Height,
		"sizeimage", got.SizeImage, "buffer", len(s.buf))
	return nil
}

// frameBufferSize derives the per-frame buffer size from the accepted
// format. A few drivers under-report sizeimage, which would truncate
// frames, so the reported value is floored against the image dimensions.
func frameBufferSize(f v4l2.PixFormat) uint32 {
	min := 2 * f.Width
	bpl := f.BytesPerLine
	if bpl < min {
		bpl = min
	}
	size := f.SizeImage
	if size < bpl*f.Height {
		size = bpl * f.Height
	}
	return size
}

// capture runs the wait-read-write loop until the configured number of
// frames has been appended to the output. It returns the number of frames
// written, which on error is fewer than configured.
func (s *Session) capture(ctx context.Context) (uint, error) {
	var written uint
	remaining := s.cfg.Count

	for remaining > 0 {
		if err := ctx.Err(); err != nil {
			return written, err
		}

		if err := s.dev.WaitRead(ctx); err != nil {
			if cerr := ctx.Err(); cerr != nil {
				return written, cerr
			}
			return written, fmt.Errorf("waiting for frame: %w", err)
		}

		n, err := s.dev.Read(s.buf)
		if err != nil {
			if errors.Is(err, syscall.EAGAIN) || errors.Is(err, syscall.EWOULDBLOCK) {
				// Spurious readiness; the frame slot is not consumed.
				continue
			}
			if errors.Is(err, syscall.EIO) {
				return written, fmt.Errorf("read i/o error on %s: %w", s.cfg.DevicePath, err)
			}
			return written, fmt.Errorf("reading frame from %s: %w", s.cfg.DevicePath, err)
		}

		frame := s.buf[:n]
		trimmed := 0
		if s.cfg.TrimEOI {
			end := trimEOI(frame)
			trimmed = len(frame) - end
			frame = frame[:end]
		}

		if err := appendFrame(s.cfg.OutputPath, frame); err != nil {
			return written, err
		}

		written++
		remaining--
		if s.bus != nil {
			s.bus.Publish(events.FrameCapturedEvent{
				DevicePath: s.cfg.DevicePath,
				OutputPath: s.cfg.OutputPath,
				Bytes:      len(frame),
				Trimmed:    trimmed,
				Remaining:  remaining,
				Timestamp:  time.Now().UTC().Format(time.RFC3339),
			})
		}
	}

	return written, nil
}

func (s *Session) finish(frames uint, err error) {
	if s.bus == nil {
		return
	}
	ev := events.CaptureFinishedEvent{
		DevicePath: s.cfg.DevicePath,
		Frames:     frames,
		Timestamp:  time.Now().UTC().Format(time.RFC3339),
	}
	if err != nil {
		ev.Error = err.Error()
	}
	s.bus.Publish(ev)
}
