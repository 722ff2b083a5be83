package session_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"simdisk/dirent"
	"simdisk/session"
)

func TestNewSessionRootsAtGivenEntry(t *testing.T) {
	root := dirent.Entry{Valid: true, Inode: 1, Name: "/"}
	sess := session.New("root", root)

	require.Equal(t, "root", sess.Username)
	require.Equal(t, root, sess.Current)
	require.Equal(t, root, sess.Root)
	require.False(t, sess.HasPrevious)
}

func TestSetCurrentTracksPrevious(t *testing.T) {
	root := dirent.Entry{Valid: true, Inode: 1, Name: "/"}
	sess := session.New("root", root)

	usr := dirent.Entry{Valid: true, Inode: 5, Name: "usr"}
	sess.SetCurrent(usr)

	require.Equal(t, usr, sess.Current)
	require.Equal(t, root, sess.Previous)
	require.True(t, sess.HasPrevious)
}

func TestSwapToPreviousRequiresHistory(t *testing.T) {
	root := dirent.Entry{Valid: true, Inode: 1, Name: "/"}
	sess := session.New("root", root)

	require.False(t, sess.SwapToPrevious())

	usr := dirent.Entry{Valid: true, Inode: 5, Name: "usr"}
	sess.SetCurrent(usr)

	require.True(t, sess.SwapToPrevious())
	require.Equal(t, root, sess.Current)
	require.Equal(t, usr, sess.Previous)
}

func TestCloneIsIndependentCopy(t *testing.T) {
	root := dirent.Entry{Valid: true, Inode: 1, Name: "/"}
	sess := session.New("root", root)

	clone := sess.Clone()
	clone.Username = "alice"
	clone.SetCurrent(dirent.Entry{Valid: true, Inode: 9, Name: "home"})

	require.Equal(t, "root", sess.Username)
	require.Equal(t, root, sess.Current)
}

func TestTablePutGetDelete(t *testing.T) {
	tbl := session.NewTable()
	root := dirent.Entry{Valid: true, Inode: 1, Name: "/"}
	sess := session.New("root", root)

	tbl.Put(0, sess)
	got, ok := tbl.Get(0)
	require.True(t, ok)
	require.Same(t, sess, got)

	tbl.Delete(0)
	_, ok = tbl.Get(0)
	require.False(t, ok)
}
