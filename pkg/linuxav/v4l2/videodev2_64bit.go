//go:build linux && (amd64 || arm64)

package v4l2

import "unsafe"

// struct v4l2_format has a 200-byte union whose alignment is 8 on 64-bit
// targets, so 4 bytes of padding follow the type field and the request
// codes encode the larger 208-byte size.
const (
	VIDIOC_G_FMT = 0xc0d05604
	VIDIOC_S_FMT = 0xc0d05605
)

var _ [208]byte = [unsafe.Sizeof(v4l2_format{})]byte{}

// v4l2_format - size 208 bytes on 64-bit.
type v4l2_format struct {
	typ uint32
	_   [4]byte // union alignment
	pix v4l2_pix_format
	_   [152]byte // union padding past the pix member
}
