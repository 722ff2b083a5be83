package inode_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"simdisk/inode"
)

func TestEncodeDecodeRoundTrip(t *testing.T) {
	rec := &inode.Record{
		Valid:     true,
		LinkCount: 2,
		Size:      2048,
		Capacity:  4096,
		Mode:      0o755,
		Type:      inode.TypeDirectory,
	}
	rec.SetOwner("root")
	rec.Blocks[0] = 10

	buf := inode.Encode(rec)
	require.Len(t, buf, inode.Size)

	got, err := inode.Decode(buf)
	require.NoError(t, err)
	require.Equal(t, *rec, *got)
	require.Equal(t, "root", got.OwnerName())
}

func TestOwnerNameTruncatesAtNUL(t *testing.T) {
	rec := &inode.Record{}
	rec.SetOwner("root")
	require.Equal(t, "root", rec.OwnerName())
}

func TestIsDirectoryAndIsFile(t *testing.T) {
	dir := inode.Record{Type: inode.TypeDirectory}
	file := inode.Record{Type: inode.TypeFile}
	require.True(t, dir.IsDirectory())
	require.False(t, dir.IsFile())
	require.True(t, file.IsFile())
	require.False(t, file.IsDirectory())
}
