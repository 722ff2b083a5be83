package block_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"simdisk/block"
)

func TestBitmapAllocateAndFree(t *testing.T) {
	bm := block.NewBitmap(8)
	require.Equal(t, uint32(0), bm.Count())

	a, err := bm.Allocate()
	require.NoError(t, err)
	require.Equal(t, uint32(0), a)

	b, err := bm.Allocate()
	require.NoError(t, err)
	require.Equal(t, uint32(1), b)
	require.Equal(t, uint32(2), bm.Count())

	bm.Free(a)
	require.Equal(t, uint32(1), bm.Count())

	// Allocate always rescans from bit 0, so the freed low bit is reused
	// before any higher index.
	c, err := bm.Allocate()
	require.NoError(t, err)
	require.Equal(t, uint32(0), c)
}

func TestBitmapExhaustion(t *testing.T) {
	bm := block.NewBitmap(2)
	_, err := bm.Allocate()
	require.NoError(t, err)
	_, err = bm.Allocate()
	require.NoError(t, err)
	_, err = bm.Allocate()
	require.Error(t, err)
}

func TestLoadBitmapRebuildsCountByPopcount(t *testing.T) {
	raw := []byte{0b00000101} // bits 0 and 2 set
	bm := block.LoadBitmap(raw, 8)
	require.Equal(t, uint32(2), bm.Count())
	require.True(t, bm.IsSet(0))
	require.False(t, bm.IsSet(1))
	require.True(t, bm.IsSet(2))
}

func TestMarkUsedRange(t *testing.T) {
	bm := block.NewBitmap(16)
	bm.MarkUsed(0, 5)
	require.Equal(t, uint32(5), bm.Count())
	require.True(t, bm.IsSet(4))
	require.False(t, bm.IsSet(5))
}
