//go:build linux && (386 || arm) && !arm64

package v4l2

import "unsafe"

// On 32-bit targets the v4l2_format union is 4-byte aligned: no padding
// after the type field, and the request codes encode 204 bytes.
const (
	VIDIOC_G_FMT = 0xc0cc5604
	VIDIOC_S_FMT = 0xc0cc5605
)

var _ [204]byte = [unsafe.Sizeof(v4l2_format{})]byte{}

// v4l2_format - size 204 bytes on 32-bit.
type v4l2_format struct {
	typ uint32
	pix v4l2_pix_format
	_   [152]byte // union padding past the pix member
}
