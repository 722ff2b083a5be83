package fs_test

import (
	"bytes"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	simdiskerrors "simdisk/errors"
	"simdisk/fs"
)

func newFormattedImage(t *testing.T) *fs.FileSystem {
	t.Helper()
	path := filepath.Join(t.TempDir(), "image.img")
	fsys, err := fs.Format(path)
	require.NoError(t, err)
	t.Cleanup(func() { fsys.Close() })
	return fsys
}

func TestFormatBootstrapsCanonicalSubtree(t *testing.T) {
	fsys := newFormattedImage(t)
	rootSess, ok := fsys.Sessions.Get(0)
	require.True(t, ok)

	names, err := fsys.List(rootSess, "/", false, false)
	require.NoError(t, err)
	require.ElementsMatch(t, []string{"home", "lost+found", "proc", "root", "usr"}, names)

	usrNames, err := fsys.List(rootSess, "/usr", false, false)
	require.NoError(t, err)
	require.Contains(t, usrNames, "lock")
	require.Contains(t, usrNames, "user.log")
}

func TestMakeDirectoryRejectsDuplicateAndBadName(t *testing.T) {
	fsys := newFormattedImage(t)
	rootSess, _ := fsys.Sessions.Get(0)

	require.NoError(t, fsys.MakeDirectory(rootSess, "/tmp"))
	require.Error(t, fsys.MakeDirectory(rootSess, "/tmp"))
	require.Error(t, fsys.MakeDirectory(rootSess, "/."))
}

func TestFileWriteReadRoundTrip(t *testing.T) {
	fsys := newFormattedImage(t)
	rootSess, _ := fsys.Sessions.Get(0)

	require.NoError(t, fsys.CreateFile(rootSess, "/root/greeting.txt"))
	payload := bytes.Repeat([]byte("hello from the data region, spanning more than one block of content to exercise growth\n"), 30)
	require.NoError(t, fsys.WriteWhole(rootSess, "/root/greeting.txt", payload))

	got, err := fsys.ReadWhole(rootSess, "/root/greeting.txt")
	require.NoError(t, err)
	require.Equal(t, payload, got)

	smaller := []byte("shrunk")
	require.NoError(t, fsys.WriteWhole(rootSess, "/root/greeting.txt", smaller))
	got, err = fsys.ReadWhole(rootSess, "/root/greeting.txt")
	require.NoError(t, err)
	require.Equal(t, smaller, got)
}

func TestRemoveDirectoryRequiresConfirmationWhenNonEmpty(t *testing.T) {
	fsys := newFormattedImage(t)
	rootSess, _ := fsys.Sessions.Get(0)

	require.NoError(t, fsys.MakeDirectory(rootSess, "/tmp"))
	require.NoError(t, fsys.CreateFile(rootSess, "/tmp/a.txt"))

	err := fsys.RemoveDirectory(rootSess, "/tmp", false)
	require.Error(t, err)

	require.NoError(t, fsys.RemoveDirectory(rootSess, "/tmp", true))

	_, _, err = fsys.Resolve(rootSess, "/tmp")
	require.Error(t, err)
}

func TestChangeDirectoryAndBack(t *testing.T) {
	fsys := newFormattedImage(t)
	rootSess, _ := fsys.Sessions.Get(0)

	require.NoError(t, fsys.ChangeDirectory(rootSess, "/usr"))
	require.NoError(t, fsys.ChangeDirectory(rootSess, "lock"))
	require.NoError(t, fsys.ChangeDirectory(rootSess, "-"))

	names, err := fsys.List(rootSess, "", false, false)
	require.NoError(t, err)
	require.Contains(t, names, "lock")
}

func TestChmodRequiresOwnership(t *testing.T) {
	fsys := newFormattedImage(t)
	rootSess, _ := fsys.Sessions.Get(0)

	require.NoError(t, fsys.UserAdd("alice", "secret"))
	aliceSess := rootSess.Clone()
	require.NoError(t, fsys.Su(aliceSess, "alice", "secret"))

	err := fsys.Chmod(aliceSess, "a-w", "/usr")
	require.Error(t, err)
}

func TestLockPreventsSecondWriteLock(t *testing.T) {
	fsys := newFormattedImage(t)
	rootSess, _ := fsys.Sessions.Get(0)

	require.NoError(t, fsys.CreateFile(rootSess, "/root/locked.txt"))
	_, entry, err := fsys.Resolve(rootSess, "/root/locked.txt")
	require.NoError(t, err)

	require.NoError(t, fsys.AcquireLock(entry.Inode, fs.WriteLock))
	require.Error(t, fsys.AcquireLock(entry.Inode, fs.WriteLock))

	require.NoError(t, fsys.ReleaseLock(entry.Inode, fs.WriteLock))
	require.NoError(t, fsys.AcquireLock(entry.Inode, fs.WriteLock))
}

func TestWriteWholeRefusesWhileLocked(t *testing.T) {
	fsys := newFormattedImage(t)
	rootSess, _ := fsys.Sessions.Get(0)

	require.NoError(t, fsys.CreateFile(rootSess, "/root/contended.txt"))
	_, entry, err := fsys.Resolve(rootSess, "/root/contended.txt")
	require.NoError(t, err)

	require.NoError(t, fsys.AcquireLock(entry.Inode, fs.WriteLock))
	err = fsys.WriteWhole(rootSess, "/root/contended.txt", []byte("blocked"))
	require.True(t, errors.Is(err, simdiskerrors.ErrLocked))

	require.NoError(t, fsys.ReleaseLock(entry.Inode, fs.WriteLock))
	require.NoError(t, fsys.WriteWhole(rootSess, "/root/contended.txt", []byte("now ok")))
}

func TestListHidesDotfilesAndSupportsLongForm(t *testing.T) {
	fsys := newFormattedImage(t)
	rootSess, _ := fsys.Sessions.Get(0)

	require.NoError(t, fsys.CreateFile(rootSess, "/root/.profile"))
	require.NoError(t, fsys.CreateFile(rootSess, "/root/visible.txt"))

	names, err := fsys.List(rootSess, "/root", false, false)
	require.NoError(t, err)
	require.Contains(t, names, "visible.txt")
	require.NotContains(t, names, ".profile")

	// A hidden dotfile is still a real entry: removing its parent without
	// confirmation must still see the directory as non-empty.
	require.Error(t, fsys.RemoveDirectory(rootSess, "/root", false))

	long, err := fsys.List(rootSess, "/root", false, true)
	require.NoError(t, err)
	require.Len(t, long, 1)
	require.Contains(t, long[0], "visible.txt")
}
