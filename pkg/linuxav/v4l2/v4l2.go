//go:build linux

// Package v4l2 provides pure Go bindings to the Video4Linux2 (V4L2) API
// for device enumeration, format negotiation, and read()-based frame
// capture.
//
// This package does not use cgo, enabling simple cross-compilation for
// different Linux architectures (amd64, arm64, arm).
//
// # Capture
//
// Open a device, negotiate an MJPEG format, and read frames:
//
//	dev, err := v4l2.Open("/dev/video0")
//	accepted, err := dev.SetFormat(v4l2.PixFormat{
//	    Width:       1280,
//	    Height:      720,
//	    PixelFormat: v4l2.V4L2_PIX_FMT_MJPEG,
//	    Field:       v4l2.V4L2_FIELD_INTERLACED,
//	})
//	buf := make([]byte, accepted.SizeImage)
//	dev.WaitRead(ctx)
//	n, err := dev.Read(buf)
//
// Only the read/write I/O model is implemented; streaming (mmap/userptr)
// buffer modes are not.
//
// # Device Enumeration
//
// Use FindDevices to discover all V4L2 video capture devices:
//
//	devices, err := v4l2.FindDevices()
//	for _, dev := range devices {
//	    fmt.Printf("%s: %s\n", dev.DevicePath, dev.DeviceName)
//	}
//
// # Format Queries
//
// Query supported formats, resolutions, and framerates:
//
//	formats, _ := v4l2.GetFormats("/dev/video0")
//	for _, f := range formats {
//	    resolutions, _ := v4l2.GetResolutions("/dev/video0", f.PixelFormat)
//	    for _, res := range resolutions {
//	        framerates, _ := v4l2.GetFramerates("/dev/video0", f.PixelFormat, res.Width, res.Height)
//	    }
//	}
package v4l2
