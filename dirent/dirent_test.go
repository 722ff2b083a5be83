package dirent_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"simdisk/dirent"
	"simdisk/inode"
)

func TestEncodeDecodeRoundTrip(t *testing.T) {
	e := &dirent.Entry{Valid: true, Inode: inode.Number(42), Name: "lost+found"}
	buf := dirent.Encode(e)
	require.Len(t, buf, dirent.Size)

	got, err := dirent.Decode(buf)
	require.NoError(t, err)
	require.Equal(t, *e, *got)
}

func TestDecodeRejectsShortBuffer(t *testing.T) {
	_, err := dirent.Decode(make([]byte, dirent.Size-1))
	require.Error(t, err)
}

func TestValidName(t *testing.T) {
	require.True(t, dirent.ValidName("home"))
	require.False(t, dirent.ValidName("."))
	require.False(t, dirent.ValidName(".."))
	require.False(t, dirent.ValidName(""))
	require.False(t, dirent.ValidName("this-name-is-definitely-too-long-for-the-field"))
}

func TestBlockRoundTripAndFind(t *testing.T) {
	entries := []dirent.Entry{
		{Valid: true, Inode: 1, Name: "."},
		{Valid: true, Inode: 1, Name: ".."},
		{Valid: true, Inode: 7, Name: "home"},
	}
	raw := dirent.EncodeBlock(entries)
	require.Len(t, raw, dirent.PerBlock*dirent.Size)

	decoded, err := dirent.DecodeBlock(raw)
	require.NoError(t, err)
	require.Len(t, decoded, dirent.PerBlock)

	found, ok := dirent.Find(decoded, "home")
	require.True(t, ok)
	require.Equal(t, inode.Number(7), found.Inode)

	_, ok = dirent.Find(decoded, "missing")
	require.False(t, ok)

	require.Equal(t, 3, dirent.FirstFreeSlot(decoded))
	require.ElementsMatch(t, []string{"home"}, dirent.Names(decoded, true))
}
