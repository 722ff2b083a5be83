package inode_test

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/xaionaro-go/bytesextra"

	"simdisk/block"
	"simdisk/inode"
)

// newTestDevice backs a Device with an in-memory buffer instead of a real
// temp file, the same fixed-size-buffer-as-stream trick the wider example
// corpus uses for fast, disk-free block device tests.
func newTestDevice(t *testing.T) *block.Device {
	t.Helper()
	buf := make([]byte, int64(block.Count)*int64(block.Size))
	stream := bytesextra.NewReadWriteSeeker(buf)
	return block.NewDevice(stream)
}

func freshRecord() inode.Record {
	rec := inode.Record{Valid: true, Type: inode.TypeFile}
	for i := range rec.Blocks {
		rec.Blocks[i] = uint32(block.Sentinel)
	}
	return rec
}

func TestSetBlocksDirectOnly(t *testing.T) {
	device := newTestDevice(t)
	bm := block.NewBitmap(block.Count)
	rec := freshRecord()

	ids := []block.ID{1, 2, 3}
	require.NoError(t, inode.SetBlocks(device, bm, &rec, ids))

	got, err := inode.BlocksOf(device, &rec)
	require.NoError(t, err)
	require.Equal(t, ids, got)
}

func TestSetBlocksSingleIndirect(t *testing.T) {
	device := newTestDevice(t)
	bm := block.NewBitmap(block.Count)
	rec := freshRecord()

	var ids []block.ID
	for i := block.ID(1); i <= block.ID(6+256); i++ {
		ids = append(ids, i)
	}
	require.NoError(t, inode.SetBlocks(device, bm, &rec, ids))

	got, err := inode.BlocksOf(device, &rec)
	require.NoError(t, err)
	require.Equal(t, ids, got)
}

func TestSetBlocksDoubleIndirect(t *testing.T) {
	device := newTestDevice(t)
	bm := block.NewBitmap(block.Count)
	rec := freshRecord()

	count := inode.DirectBlocks + inode.PointersPerBlock + 10
	var ids []block.ID
	for i := 0; i < count; i++ {
		ids = append(ids, block.ID(i+1))
	}
	require.NoError(t, inode.SetBlocks(device, bm, &rec, ids))

	got, err := inode.BlocksOf(device, &rec)
	require.NoError(t, err)
	require.Equal(t, ids, got)
}

func TestSetBlocksRejectsOverflow(t *testing.T) {
	device := newTestDevice(t)
	bm := block.NewBitmap(block.Count)
	rec := freshRecord()

	ids := make([]block.ID, inode.MaxDataBlocks+1)
	for i := range ids {
		ids[i] = block.ID(i)
	}
	err := inode.SetBlocks(device, bm, &rec, ids)
	require.Error(t, err)
}

func TestSetBlocksShrinkFreesIndirectTier(t *testing.T) {
	device := newTestDevice(t)
	bm := block.NewBitmap(block.Count)
	rec := freshRecord()

	var ids []block.ID
	for i := block.ID(1); i <= block.ID(6+50); i++ {
		ids = append(ids, i)
	}
	require.NoError(t, inode.SetBlocks(device, bm, &rec, ids))
	require.NoError(t, inode.SetBlocks(device, bm, &rec, ids[:3]))

	got, err := inode.BlocksOf(device, &rec)
	require.NoError(t, err)
	require.Equal(t, ids[:3], got)
	require.Equal(t, uint32(0), bm.Count())
}
