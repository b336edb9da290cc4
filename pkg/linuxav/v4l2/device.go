//go:build linux

package v4l2

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"
	"time"
	"unsafe"
)

// Device is an open V4L2 capture device driven through the read/write
// I/O model. The descriptor is opened non-blocking; callers pair Read
// with WaitRead.
type Device struct {
	fd   int
	path string
}

// Open validates that path refers to a character device and opens it in
// read/write non-blocking mode.
func Open(path string) (*Device, error) {
	fi, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("cannot identify %s: %w", path, err)
	}
	if fi.Mode()&os.ModeCharDevice == 0 {
		return nil, fmt.Errorf("%s is not a character device", path)
	}

	fd, err := open(path)
	if err != nil {
		return nil, fmt.Errorf("cannot open %s: %w", path, err)
	}

	return &Device{fd: fd, path: path}, nil
}

// Path returns the device path the Device was opened with.
func (d *Device) Path() string {
	return d.path
}

// Close releases the device descriptor.
func (d *Device) Close() error {
	return close(d.fd)
}

// QueryCap issues VIDIOC_QUERYCAP and decodes the result.
func (d *Device) QueryCap() (Capability, error) {
	cap := v4l2_capability{}
	if err := xioctl(d.fd, VIDIOC_QUERYCAP, unsafe.Pointer(&cap)); err != nil {
		return Capability{}, err
	}

	return Capability{
		Driver:       cstr(cap.driver[:]),
		Card:         cstr(cap.card[:]),
		BusInfo:      cstr(cap.bus_info[:]),
		Version:      cap.version,
		Capabilities: cap.capabilities,
		DeviceCaps:   cap.device_caps,
	}, nil
}

// ResetCrop queries the default capture rectangle and sets the crop back
// to it. Some drivers come up in an oddly cropped state; callers treat
// any failure here as non-fatal because cropping support is optional.
func (d *Device) ResetCrop() error {
	cropcap := v4l2_cropcap{typ: V4L2_BUF_TYPE_VIDEO_CAPTURE}
	if err := xioctl(d.fd, VIDIOC_CROPCAP, unsafe.Pointer(&cropcap)); err != nil {
		return err
	}

	crop := v4l2_crop{
		typ: V4L2_BUF_TYPE_VIDEO_CAPTURE,
		c:   cropcap.defrect,
	}
	return xioctl(d.fd, VIDIOC_S_CROP, unsafe.Pointer(&crop))
}

// SetFormat issues VIDIOC_S_FMT for the requested capture format and
// returns the format the driver actually accepted. The driver may adjust
// width, height, and the derived bytesperline/sizeimage fields.
func (d *Device) SetFormat(req PixFormat) (PixFormat, error) {
	format := v4l2_format{typ: V4L2_BUF_TYPE_VIDEO_CAPTURE}
	format.pix.width = req.Width
	format.pix.height = req.Height
	format.pix.pixelformat = req.PixelFormat
	format.pix.field = req.Field

	if err := xioctl(d.fd, VIDIOC_S_FMT, unsafe.Pointer(&format)); err != nil {
		return PixFormat{}, err
	}

	return PixFormat{
		Width:        format.pix.width,
		Height:       format.pix.height,
		PixelFormat:  format.pix.pixelformat,
		Field:        format.pix.field,
		BytesPerLine: format.pix.bytesperline,
		SizeImage:    format.pix.sizeimage,
	}, nil
}

// SetInterval requests a capture time-per-frame of num/den seconds via
// VIDIOC_S_PARM. Many drivers ignore this knob; callers warn on failure
// rather than aborting.
func (d *Device) SetInterval(num, den uint32) error {
	parm := v4l2_streamparm{typ: V4L2_BUF_TYPE_VIDEO_CAPTURE}
	parm.capture.timeperframe = v4l2_fract{numerator: num, denominator: den}
	return xioctl(d.fd, VIDIOC_S_PARM, unsafe.Pointer(&parm))
}

// waitReadTick bounds how long a readiness wait can outlive its context.
// select(2) has no way to observe a context, so the wait is re-armed at
// this interval with the context checked in between.
const waitReadTick = 100 * time.Millisecond

// WaitRead blocks until the descriptor is readable or ctx is done. A
// readable descriptor never produces an error; EINTR re-arms the wait
// after a context check so signal delivery cancels a stalled device.
func (d *Device) WaitRead(ctx context.Context) error {
	tick := syscall.NsecToTimeval(int64(waitReadTick))
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		var fds syscall.FdSet
		fdSet(d.fd, &fds)
		tv := tick
		n, err := syscall.Select(d.fd+1, &fds, nil, nil, &tv)
		if err != nil {
			if err == syscall.EINTR {
				continue
			}
			return err
		}
		if n > 0 {
			return nil
		}
	}
}

// Read reads up to len(p) bytes of frame data into p. It returns the
// error unwrapped so callers can classify errno values (EAGAIN, EIO)
// with errors.Is.
func (d *Device) Read(p []byte) (int, error) {
	n, err := syscall.Read(d.fd, p)
	if err != nil {
		return 0, err
	}
	return n, nil
}

// fdSet marks fd in set, accounting for the per-arch FdSet word size.
func fdSet(fd int, set *syscall.FdSet) {
	bits := 8 * int(unsafe.Sizeof(set.Bits[0]))
	set.Bits[fd/bits] |= 1 << (uint(fd) % uint(bits))
}

// FindDevices finds all V4L2 video capture devices on the system.
func FindDevices() ([]DeviceInfo, error) {
	entries, err := os.ReadDir("/sys/class/video4linux")
	if err != nil {
		if os.IsNotExist(err) {
			return []DeviceInfo{}, nil
		}
		return nil, fmt.Errorf("failed to read video4linux directory: %w", err)
	}

	var devices []DeviceInfo

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		devicePath := "/dev/" + entry.Name()

		fd, err := open(devicePath)
		if err != nil {
			slog.With("component", "linuxav").Debug("failed to open video device", "path", devicePath, "error", err)
			continue
		}

		cap := v4l2_capability{}
		if err := ioctl(fd, VIDIOC_QUERYCAP, unsafe.Pointer(&cap)); err != nil {
			slog.With("component", "linuxav").Debug("failed to query device capabilities", "path", devicePath, "error", err)
			close(fd)
			continue
		}
		close(fd)

		// Get the effective capabilities
		caps := cap.capabilities
		if caps&V4L2_CAP_DEVICE_CAPS != 0 {
			caps = cap.device_caps
		}

		// Only include video capture devices
		if caps&V4L2_CAP_VIDEO_CAPTURE == 0 {
			continue
		}

		// Get device index from sysfs
		indexPath := filepath.Join("/sys/class/video4linux", entry.Name(), "index")
		indexValue := readSysfsInt(indexPath)

		// Find stable ID from /dev/v4l/by-id/
		stableID := findStableID(entry.Name(), indexValue)
		if stableID == "" {
			// Fallback: synthetic ID from bus_info + index
			busInfo := cstr(cap.bus_info[:])
			if strings.HasPrefix(busInfo, "usb-") {
				stableID = fmt.Sprintf("%s-video-index%d", busInfo, indexValue)
			} else {
				stableID = fmt.Sprintf("platform-%s-video-index%d", busInfo, indexValue)
			}
		}

		devices = append(devices, DeviceInfo{
			DevicePath: devicePath,
			DeviceName: cstr(cap.card[:]),
			DeviceID:   stableID,
			Caps:       caps,
		})
	}

	return devices, nil
}

// findStableID looks for a stable ID symlink in /dev/v4l/by-id/
func findStableID(deviceName string, indexValue int) string {
	byIDDir := "/dev/v4l/by-id"
	entries, err := os.ReadDir(byIDDir)
	if err != nil {
		return ""
	}

	expectedSuffix := fmt.Sprintf("-video-index%d", indexValue)

	for _, entry := range entries {
		if entry.Type()&os.ModeSymlink == 0 {
			continue
		}

		linkPath := filepath.Join(byIDDir, entry.Name())
		target, err := os.Readlink(linkPath)
		if err != nil {
			continue
		}

		// Get the video device name from the target
		targetBase := filepath.Base(target)
		if targetBase == deviceName && strings.HasSuffix(entry.Name(), expectedSuffix) {
			return entry.Name()
		}
	}

	return ""
}

// readSysfsInt reads an integer value from a sysfs file.
func readSysfsInt(path string) int {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0
	}
	val, _ := strconv.Atoi(strings.TrimSpace(string(data)))
	return val
}

// cstr converts a null-terminated byte slice to a Go string.
func cstr(b []byte) string {
	if i := bytes.IndexByte(b, 0); i >= 0 {
		return string(b[:i])
	}
	return string(b)
}
