// Command mjpeggrab captures MJPEG frames from a V4L2 device and appends
// them, concatenated, to an output file.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/smazurov/mjpeggrab/cmd"
	"github.com/smazurov/mjpeggrab/internal/config"
	"github.com/smazurov/mjpeggrab/internal/devices"
	"github.com/smazurov/mjpeggrab/internal/events"
	"github.com/smazurov/mjpeggrab/internal/grab"
	"github.com/smazurov/mjpeggrab/internal/logging"
	"github.com/smazurov/mjpeggrab/internal/version"
	"github.com/smazurov/mjpeggrab/pkg/linuxav/hotplug"
)

// Options for the CLI - flat structure with toml mapping.
type Options struct {
	Config string

	Device     string `toml:"capture.device" env:"DEVICE"`
	Output     string `toml:"capture.output" env:"OUTPUT"`
	Resolution string `toml:"capture.resolution" env:"RESOLUTION"`
	Width      int    `toml:"capture.width" env:"WIDTH"`
	Height     int    `toml:"capture.height" env:"HEIGHT"`
	Interval   int    `toml:"capture.interval" env:"INTERVAL"`
	Count      int    `toml:"capture.count" env:"COUNT"`
	Single     bool   `env:"SINGLE"`
	NoTrim     bool   `toml:"capture.no_trim" env:"NO_TRIM"`
	WaitDevice bool   `toml:"capture.wait_device" env:"WAIT_DEVICE"`

	LogLevel  string `toml:"logging.level" env:"LOG_LEVEL"`
	LogFormat string `toml:"logging.format" env:"LOG_FORMAT"`
}

func main() {
	opts := &Options{}

	root := &cobra.Command{
		Use:   "mjpeggrab",
		Short: "Capture MJPEG frames from a V4L2 device",
		Long: `mjpeggrab negotiates an MJPEG capture format with a V4L2 device and
appends the requested number of frames to a single output file. Frames are
read through the read() I/O model and trimmed at the JPEG End-Of-Image
marker so the output is a clean concatenation of JPEG payloads.`,
		Version:      version.String(),
		SilenceUsage: true,
		RunE: func(c *cobra.Command, _ []string) error {
			return runCapture(c, opts)
		},
	}

	fl := root.Flags()
	fl.StringVarP(&opts.Device, "device", "d", "/dev/video0", "device path or stable ID")
	fl.StringVarP(&opts.Output, "output", "o", "", "output file, appended to once per frame (required)")
	fl.StringVarP(&opts.Resolution, "resolution", "r", "", "capture resolution as WxH, overrides --width/--height")
	fl.IntVar(&opts.Width, "width", 1280, "requested capture width")
	fl.IntVar(&opts.Height, "height", 720, "requested capture height")
	fl.IntVarP(&opts.Interval, "interval", "i", 30, "requested frames per second")
	fl.IntVarP(&opts.Count, "count", "c", 1, "number of frames to capture")
	fl.BoolVarP(&opts.Single, "single", "s", false, "capture exactly one frame, same as --count 1")
	fl.BoolVar(&opts.NoTrim, "no-trim", false, "write full reads without trimming past the JPEG end marker")
	fl.BoolVar(&opts.WaitDevice, "wait-device", false, "wait for the device to appear before capturing")
	fl.BoolP("version", "v", false, "print the version and exit")
	_ = root.MarkFlagRequired("output")

	pf := root.PersistentFlags()
	pf.StringVar(&opts.Config, "config", "mjpeggrab.toml", "path to configuration file")
	pf.StringVar(&opts.LogLevel, "log-level", "info", "global log level (debug, info, warn, error)")
	pf.StringVar(&opts.LogFormat, "log-format", "auto", "log output format (auto, text, json)")

	root.AddCommand(
		cmd.CreateDevicesCmd(),
		cmd.CreateFormatsCmd(),
		cmd.CreateUpdateCmd(),
		cmd.CreateVersionCmd(),
	)

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func runCapture(c *cobra.Command, opts *Options) error {
	if err := config.LoadConfig(opts, c); err != nil {
		return err
	}

	logCfg := config.LoadLoggingConfig(opts.Config)
	logCfg.Level = opts.LogLevel
	logCfg.Format = opts.LogFormat
	logging.Initialize(logCfg)
	logger := logging.GetLogger("main")

	width, height := opts.Width, opts.Height
	if opts.Resolution != "" {
		var err error
		width, height, err = parseResolution(opts.Resolution)
		if err != nil {
			return err
		}
	}
	if width < 1 || height < 1 {
		return fmt.Errorf("invalid resolution %dx%d", width, height)
	}
	if opts.Single {
		opts.Count = 1
	}
	if opts.Count < 1 {
		return fmt.Errorf("count must be at least 1, got %d", opts.Count)
	}
	if opts.Interval < 1 {
		return fmt.Errorf("interval must be at least 1 fps, got %d", opts.Interval)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	path, err := resolveDevice(ctx, opts, logger)
	if err != nil {
		return err
	}

	bus := events.New()
	var framesLogged atomic.Uint64
	unsub := bus.Subscribe(func(e events.FrameCapturedEvent) {
		logger.Info("frame captured",
			"bytes", e.Bytes, "trimmed", e.Trimmed, "remaining", e.Remaining)
		framesLogged.Add(1)
	})
	defer unsub()

	finished := make(chan events.CaptureFinishedEvent, 1)
	unsubFin := bus.Subscribe(func(e events.CaptureFinishedEvent) {
		select {
		case finished <- e:
		default:
		}
	})
	defer unsubFin()

	session, err := grab.Open(grab.Config{
		DevicePath: path,
		OutputPath: opts.Output,
		Width:      uint32(width),
		Height:     uint32(height),
		FPS:        uint32(opts.Interval),
		Count:      uint(opts.Count),
		TrimEOI:    !opts.NoTrim,
	}, bus)
	if err != nil {
		return err
	}

	logger.Info("capture starting",
		"device", path, "output", opts.Output,
		"resolution", fmt.Sprintf("%dx%d", width, height),
		"fps", opts.Interval, "count", opts.Count)

	runErr := session.Run(ctx)
	logFinish(finished, &framesLogged, logger, opts.Output)
	return runErr
}

// logFinish reports the completion summary from the session's finish
// event. The bus delivers asynchronously, so it also waits for trailing
// per-frame lines to land before the process exits.
func logFinish(finished <-chan events.CaptureFinishedEvent, framesLogged *atomic.Uint64, logger logging.Logger, output string) {
	var fin events.CaptureFinishedEvent
	select {
	case fin = <-finished:
	case <-time.After(2 * time.Second):
		logger.Warn("capture finished without a completion event")
		return
	}

	deadline := time.Now().Add(time.Second)
	for framesLogged.Load() < uint64(fin.Frames) && time.Now().Before(deadline) {
		time.Sleep(time.Millisecond)
	}

	if fin.Error != "" {
		logger.Error("capture failed", "frames", fin.Frames, "error", fin.Error)
		return
	}
	logger.Info("capture complete", "frames", fin.Frames, "output", output)
}

// resolveDevice turns the configured device identifier into an existing
// /dev path, optionally blocking until the device is plugged in.
func resolveDevice(ctx context.Context, opts *Options, logger logging.Logger) (string, error) {
	path, err := devices.ResolvePath(opts.Device)
	if err == nil {
		if _, statErr := os.Stat(path); statErr == nil {
			return path, nil
		} else if !opts.WaitDevice {
			return "", fmt.Errorf("cannot identify %s: %w", path, statErr)
		}
	} else if !opts.WaitDevice {
		return "", err
	}

	// Only a /dev/videoN identifier maps directly to a uevent DEVNAME;
	// for stable IDs any new capture device triggers a re-resolve.
	devName := ""
	if strings.HasPrefix(opts.Device, "/dev/") && !strings.Contains(strings.TrimPrefix(opts.Device, "/dev/"), "/") {
		devName = strings.TrimPrefix(opts.Device, "/dev/")
	}

	logger.Info("waiting for device", "device", opts.Device)
	for {
		if _, err := hotplug.WaitForDevice(ctx, devName); err != nil {
			return "", fmt.Errorf("waiting for device %s: %w", opts.Device, err)
		}
		path, err := devices.ResolvePath(opts.Device)
		if err != nil {
			continue
		}
		if _, statErr := os.Stat(path); statErr == nil {
			logger.Info("device appeared", "device", path)
			return path, nil
		}
	}
}

// parseResolution parses a "WxH" string such as "1280x720".
func parseResolution(s string) (int, int, error) {
	ws, hs, ok := strings.Cut(strings.ToLower(s), "x")
	if !ok {
		return 0, 0, fmt.Errorf("invalid resolution %q, expected WxH", s)
	}
	w, err := strconv.Atoi(ws)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid width in resolution %q", s)
	}
	h, err := strconv.Atoi(hs)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid height in resolution %q", s)
	}
	if w < 1 || h < 1 {
		return 0, 0, fmt.Errorf("resolution %q must be positive", s)
	}
	return w, h, nil
}
