//go:build linux

package v4l2

import "unsafe"

// Kernel struct layouts shared by all supported architectures. Everything
// here is 4-byte aligned, so the layouts match the kernel headers on both
// 32-bit and 64-bit targets. struct v4l2_format is the exception (its
// union is 8-byte aligned on 64-bit) and lives in the per-arch files.
//
// https://github.com/torvalds/linux/blob/master/include/uapi/linux/videodev2.h

// Compile-time struct size assertions.
// These will cause build failures if struct sizes don't match kernel expectations.
var (
	_ [104]byte = [unsafe.Sizeof(v4l2_capability{})]byte{}
	_ [8]byte   = [unsafe.Sizeof(v4l2_fract{})]byte{}
	_ [16]byte  = [unsafe.Sizeof(v4l2_rect{})]byte{}
	_ [44]byte  = [unsafe.Sizeof(v4l2_cropcap{})]byte{}
	_ [20]byte  = [unsafe.Sizeof(v4l2_crop{})]byte{}
	_ [48]byte  = [unsafe.Sizeof(v4l2_pix_format{})]byte{}
	_ [40]byte  = [unsafe.Sizeof(v4l2_captureparm{})]byte{}
	_ [204]byte = [unsafe.Sizeof(v4l2_streamparm{})]byte{}
	_ [64]byte  = [unsafe.Sizeof(v4l2_fmtdesc{})]byte{}
	_ [8]byte   = [unsafe.Sizeof(v4l2_frmsize_discrete{})]byte{}
	_ [24]byte  = [unsafe.Sizeof(v4l2_frmsize_stepwise{})]byte{}
	_ [44]byte  = [unsafe.Sizeof(v4l2_frmsizeenum{})]byte{}
	_ [52]byte  = [unsafe.Sizeof(v4l2_frmivalenum{})]byte{}
)

// IOCTL request codes whose argument structs have identical size on all
// supported architectures.
const (
	VIDIOC_QUERYCAP            = 0x80685600
	VIDIOC_CROPCAP             = 0xc02c563a
	VIDIOC_S_CROP              = 0x4014563c
	VIDIOC_S_PARM              = 0xc0cc5616
	VIDIOC_ENUM_FMT            = 0xc0405602
	VIDIOC_ENUM_FRAMESIZES     = 0xc02c564a
	VIDIOC_ENUM_FRAMEINTERVALS = 0xc034564b
)

// v4l2_capability - size 104 bytes.
type v4l2_capability struct {
	driver       [16]byte
	card         [32]byte
	bus_info     [32]byte
	version      uint32
	capabilities uint32
	device_caps  uint32
	reserved     [3]uint32
}

// v4l2_fract - size 8 bytes.
type v4l2_fract struct {
	numerator   uint32
	denominator uint32
}

// v4l2_rect - size 16 bytes.
type v4l2_rect struct {
	left   int32
	top    int32
	width  uint32
	height uint32
}

// v4l2_cropcap - size 44 bytes.
type v4l2_cropcap struct {
	typ         uint32
	bounds      v4l2_rect
	defrect     v4l2_rect
	pixelaspect v4l2_fract
}

// v4l2_crop - size 20 bytes.
type v4l2_crop struct {
	typ uint32
	c   v4l2_rect
}

// v4l2_pix_format - size 48 bytes (single-planar).
type v4l2_pix_format struct {
	width        uint32
	height       uint32
	pixelformat  uint32
	field        uint32
	bytesperline uint32
	sizeimage    uint32
	colorspace   uint32
	priv         uint32
	flags        uint32
	ycbcr_enc    uint32
	quantization uint32
	xfer_func    uint32
}

// v4l2_captureparm - size 40 bytes.
type v4l2_captureparm struct {
	capability   uint32
	capturemode  uint32
	timeperframe v4l2_fract
	extendedmode uint32
	readbuffers  uint32
	reserved     [4]uint32
}

// v4l2_streamparm - size 204 bytes. The parm union is padded to 200
// bytes; only the capture member is used here.
type v4l2_streamparm struct {
	typ     uint32
	capture v4l2_captureparm
	_       [160]byte
}

// v4l2_fmtdesc - size 64 bytes.
type v4l2_fmtdesc struct {
	index       uint32
	typ         uint32
	flags       uint32
	description [32]byte
	pixelformat uint32
	mbus_code   uint32
	reserved    [3]uint32
}

// v4l2_frmsize_discrete - size 8 bytes.
type v4l2_frmsize_discrete struct {
	width  uint32
	height uint32
}

// v4l2_frmsize_stepwise - size 24 bytes.
type v4l2_frmsize_stepwise struct {
	min_width   uint32
	max_width   uint32
	step_width  uint32
	min_height  uint32
	max_height  uint32
	step_height uint32
}

// v4l2_frmsizeenum - size 44 bytes.
type v4l2_frmsizeenum struct {
	index        uint32
	pixel_format uint32
	typ          uint32
	discrete     v4l2_frmsize_discrete // union with stepwise
	_            [16]byte              // padding for stepwise
	reserved     [2]uint32
}

// v4l2_frmivalenum - size 52 bytes.
type v4l2_frmivalenum struct {
	index        uint32
	pixel_format uint32
	width        uint32
	height       uint32
	typ          uint32
	discrete     v4l2_fract // union with stepwise
	_            [16]byte   // padding for stepwise
	reserved     [2]uint32
}
