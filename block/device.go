// Package block implements the fixed-size block device abstraction and the
// bitmap allocator simdisk uses to manage a disk image file.
package block

import (
	"io"

	simdiskerrors "simdisk/errors"
)

const (
	// Size is the fixed block size in bytes.
	Size = 1024
	// Count is the fixed number of blocks in a disk image.
	Count = 102400
	// Sentinel marks an unused block-pointer slot.
	Sentinel = ID(^uint32(0))
)

// ID identifies a block by its position in the image.
type ID uint32

// Device provides whole-block random access to a disk image stored behind
// an io.ReadWriteSeeker, mirroring the teacher's BlockDevice: one seek plus
// one read/write syscall per block, with bounds checking ahead of any I/O.
type Device struct {
	stream      io.ReadWriteSeeker
	blockSize   int
	totalBlocks uint32
}

// NewDevice wraps stream as a block device with the fixed simdisk geometry.
func NewDevice(stream io.ReadWriteSeeker) *Device {
	return &Device{stream: stream, blockSize: Size, totalBlocks: Count}
}

func (d *Device) checkBounds(id ID) error {
	if uint32(id) >= d.totalBlocks {
		return simdiskerrors.ErrExceeded.WithMessage("block id out of range")
	}
	return nil
}

func (d *Device) seekTo(id ID) error {
	offset := int64(id) * int64(d.blockSize)
	_, err := d.stream.Seek(offset, io.SeekStart)
	if err != nil {
		return simdiskerrors.ErrIO.WrapError(err)
	}
	return nil
}

// Read returns the full contents of block id.
func (d *Device) Read(id ID) ([]byte, error) {
	if err := d.checkBounds(id); err != nil {
		return nil, err
	}
	if err := d.seekTo(id); err != nil {
		return nil, err
	}
	buf := make([]byte, d.blockSize)
	if _, err := io.ReadFull(d.stream, buf); err != nil {
		return nil, simdiskerrors.ErrIO.WrapError(err)
	}
	return buf, nil
}

// Write stores data (which must be exactly one block long) at block id.
func (d *Device) Write(id ID, data []byte) error {
	if err := d.checkBounds(id); err != nil {
		return err
	}
	if len(data) != d.blockSize {
		return simdiskerrors.ErrInvalidArgument.WithMessage("block write must be exactly one block")
	}
	if err := d.seekTo(id); err != nil {
		return err
	}
	if _, err := d.stream.Write(data); err != nil {
		return simdiskerrors.ErrIO.WrapError(err)
	}
	return nil
}

// BlockSize returns the fixed block size in bytes.
func (d *Device) BlockSize() int { return d.blockSize }

// TotalBlocks returns the fixed number of blocks in the image.
func (d *Device) TotalBlocks() uint32 { return d.totalBlocks }

// Format calls truncate with exactly Count*Size bytes (fs.Format passes a
// freshly created file's Truncate, giving an all-zero image), the same role
// the teacher's resize-via-Truncate callback plays in blockcache.WrapStream.
func Format(truncate func(size int64) error) error {
	return truncate(int64(Count) * int64(Size))
}
