//go:build linux

package v4l2

import (
	"errors"
	"syscall"
	"unsafe"
)

func ioctl(fd int, req uint, arg unsafe.Pointer) error {
	_, _, errno := syscall.Syscall(syscall.SYS_IOCTL, uintptr(fd), uintptr(req), uintptr(arg))
	if errno != 0 {
		return errno
	}
	return nil
}

// xioctl issues an ioctl and retries it while the call reports it was
// interrupted by a signal, matching the classic V4L2 capture loop idiom.
func xioctl(fd int, req uint, arg unsafe.Pointer) error {
	return retryEINTR(func() error {
		return ioctl(fd, req, arg)
	})
}

// retryEINTR reissues fn until it returns an outcome other than EINTR.
func retryEINTR(fn func() error) error {
	for {
		err := fn()
		if !errors.Is(err, syscall.EINTR) {
			return err
		}
	}
}

func open(path string) (int, error) {
	return syscall.Open(path, syscall.O_RDWR|syscall.O_NONBLOCK, 0)
}

func close(fd int) error {
	return syscall.Close(fd)
}
