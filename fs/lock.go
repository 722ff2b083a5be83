package fs

import (
	"fmt"
	"strconv"

	simdiskerrors "simdisk/errors"
	"simdisk/inode"
)

// LockKind distinguishes an exclusive write lock from a shared read lock.
type LockKind int

const (
	WriteLock LockKind = iota
	ReadLock
)

func lockPaths(n inode.Number) (wlock, rlock string) {
	return fmt.Sprintf("/usr/lock/%d.wlock", n), fmt.Sprintf("/usr/lock/%d.rlock", n)
}

func (fs *FileSystem) exists(path string) bool {
	rootSess, _ := fs.Sessions.Get(0)
	_, _, err := fs.Resolve(rootSess, path)
	return err == nil
}

// AcquireLock materializes an advisory lock on inode n as a file under
// /usr/lock, the same scheme the reference lock() uses: a write lock is
// refused if either a write or a read lock already exists, a read lock is
// refused only if a write lock exists and otherwise increments an ASCII
// reader count stored in the lock file's contents.
func (fs *FileSystem) AcquireLock(n inode.Number, kind LockKind) error {
	rootSess, _ := fs.Sessions.Get(0)
	wlock, rlock := lockPaths(n)

	if fs.exists(wlock) {
		return simdiskerrors.ErrLocked
	}

	switch kind {
	case WriteLock:
		if fs.exists(rlock) {
			return simdiskerrors.ErrLocked
		}
		if err := fs.CreateFile(rootSess, wlock); err != nil {
			return err
		}
		return nil
	case ReadLock:
		if fs.exists(rlock) {
			data, err := fs.ReadWhole(rootSess, rlock)
			if err != nil {
				return err
			}
			count, _ := strconv.Atoi(string(data))
			count++
			return fs.writeWholeUnlocked(rootSess, rlock, []byte(strconv.Itoa(count)))
		}
		if err := fs.CreateFile(rootSess, rlock); err != nil {
			return err
		}
		return fs.writeWholeUnlocked(rootSess, rlock, []byte("1"))
	default:
		return simdiskerrors.ErrInvalidArgument
	}
}

// ReleaseLock undoes one AcquireLock call. A write lock's file is deleted
// outright; a read lock's reader count is decremented, and the file is
// deleted once it reaches zero.
func (fs *FileSystem) ReleaseLock(n inode.Number, kind LockKind) error {
	rootSess, _ := fs.Sessions.Get(0)
	wlock, rlock := lockPaths(n)

	switch kind {
	case WriteLock:
		if !fs.exists(wlock) {
			return nil
		}
		return fs.RemoveFile(rootSess, wlock)
	case ReadLock:
		if !fs.exists(rlock) {
			return nil
		}
		data, err := fs.ReadWhole(rootSess, rlock)
		if err != nil {
			return err
		}
		count, _ := strconv.Atoi(string(data))
		count--
		if count <= 0 {
			return fs.RemoveFile(rootSess, rlock)
		}
		return fs.writeWholeUnlocked(rootSess, rlock, []byte(strconv.Itoa(count)))
	default:
		return simdiskerrors.ErrInvalidArgument
	}
}
