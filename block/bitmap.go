package block

import (
	"math/bits"

	bitmap "github.com/boljen/go-bitmap"

	simdiskerrors "simdisk/errors"
)

// Bitmap tracks allocation of a fixed range of IDs (block IDs or inode
// numbers) backed by a github.com/boljen/go-bitmap bit vector, the same
// library the teacher's Allocator uses. It keeps a running population
// counter so Count() is O(1); the counter is rebuilt by popcount only when
// a bitmap is loaded from a persisted image, never on every mutation.
type Bitmap struct {
	bits  bitmap.Bitmap
	total uint32
	used  uint32
}

// NewBitmap allocates a zeroed bitmap covering total IDs, as when
// formatting a fresh image.
func NewBitmap(total uint32) *Bitmap {
	return &Bitmap{
		bits:  bitmap.New(int(total)),
		total: total,
	}
}

// LoadBitmap wraps an existing byte buffer (read from the image) as a
// bitmap covering total IDs and recomputes the population counter by
// popcount, mirroring the reference Bitmap constructor's behavior when
// `state` indicates the disk already exists.
func LoadBitmap(raw []byte, total uint32) *Bitmap {
	bm := &Bitmap{
		bits:  bitmap.Bitmap(raw),
		total: total,
	}
	var used uint32
	for _, b := range raw {
		used += uint32(bits.OnesCount8(b))
	}
	bm.used = used
	return bm
}

// Bytes returns the raw backing buffer, for flushing to disk.
func (b *Bitmap) Bytes() []byte {
	return []byte(b.bits)
}

// Count returns the number of currently-allocated IDs.
func (b *Bitmap) Count() uint32 {
	return b.used
}

// Total returns the number of IDs this bitmap covers.
func (b *Bitmap) Total() uint32 {
	return b.total
}

// Allocate finds the lowest-index clear bit, marks it set, and returns its
// index, always scanning from 0 — the same linear from-the-start scan the
// reference Bitmap::_new() performs.
func (b *Bitmap) Allocate() (uint32, error) {
	if b.used >= b.total {
		return 0, simdiskerrors.ErrNoSpace
	}
	for idx := uint32(0); idx < b.total; idx++ {
		if !b.bits.Get(int(idx)) {
			b.bits.Set(int(idx), true)
			b.used++
			return idx, nil
		}
	}
	return 0, simdiskerrors.ErrNoSpace
}

// Free clears the bit for id. Freeing an already-clear bit is a no-op,
// matching the reference Bitmap::reset behavior.
func (b *Bitmap) Free(id uint32) {
	if id >= b.total {
		return
	}
	if b.bits.Get(int(id)) {
		b.bits.Set(int(id), false)
		b.used--
	}
}

// IsSet reports whether id is currently allocated.
func (b *Bitmap) IsSet(id uint32) bool {
	if id >= b.total {
		return false
	}
	return b.bits.Get(int(id))
}

// MarkUsed force-sets a range of IDs as allocated without touching the
// population counter logic beyond incrementing it, used during format to
// reserve the superblock/bitmap/inode-table region the way the reference
// bootstrap marks [0, offset) used up front.
func (b *Bitmap) MarkUsed(from, to uint32) {
	for i := from; i < to && i < b.total; i++ {
		if !b.bits.Get(int(i)) {
			b.bits.Set(int(i), true)
			b.used++
		}
	}
}
