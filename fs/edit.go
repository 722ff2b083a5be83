package fs

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	simdiskerrors "simdisk/errors"
	"simdisk/session"
)

// BeginEdit implements the GET step of the `cat -r|-w` external-editor
// pipeline: it acquires a read or write advisory lock on the file at path
// and materializes its current contents into a host-side scratch file,
// returning that file's path for the client to hand to an external
// editor. The scratch name embeds a random uuid so two sessions checking
// out files that share a base name never collide on the host filesystem,
// while still ending in the entry's own name for readability.
func (fs *FileSystem) BeginEdit(sess *session.Session, path string, writeLock bool) (string, error) {
	if sess.EditTarget != "" {
		return "", simdiskerrors.ErrFailure.WithMessage("an edit session is already open")
	}
	rec, entry, err := fs.Resolve(sess, path)
	if err != nil {
		return "", err
	}
	if !rec.IsFile() {
		return "", simdiskerrors.ErrFileNotMatch
	}
	if !CheckPermission(sess, &rec, ActionRead) {
		return "", simdiskerrors.ErrPermissionDenied
	}

	kind := ReadLock
	if writeLock {
		kind = WriteLock
	}
	if err := fs.AcquireLock(entry.Inode, kind); err != nil {
		return "", err
	}

	data, err := fs.ReadWhole(sess, path)
	if err != nil {
		fs.ReleaseLock(entry.Inode, kind)
		return "", err
	}

	hostPath := filepath.Join(os.TempDir(), fmt.Sprintf("simdisk-%s-%s", uuid.NewString(), entry.Name))
	if err := os.WriteFile(hostPath, data, 0o600); err != nil {
		fs.ReleaseLock(entry.Inode, kind)
		return "", simdiskerrors.ErrIO.WrapError(err)
	}

	sess.EditTarget = path
	sess.EditHost = hostPath
	sess.EditInode = entry.Inode
	sess.EditWriteLock = writeLock
	return hostPath, nil
}

// ViewEdit implements the READ step: it returns the scratch path of the
// session's already-checked-out file, for re-viewing without acquiring a
// fresh lock.
func (fs *FileSystem) ViewEdit(sess *session.Session) (string, error) {
	if sess.EditTarget == "" {
		return "", simdiskerrors.ErrFailure.WithMessage("no edit session is open")
	}
	return sess.EditHost, nil
}

// FinishEdit closes the session's open edit. With commit set (the WRITE
// step) the scratch file's contents are imported back into the checked-out
// path; with commit unset (the EXIT step) the edit is discarded. Either
// way the lock is released and the scratch file removed.
func (fs *FileSystem) FinishEdit(sess *session.Session, commit bool) error {
	if sess.EditTarget == "" {
		return simdiskerrors.ErrFailure.WithMessage("no edit session is open")
	}

	kind := ReadLock
	if sess.EditWriteLock {
		kind = WriteLock
	}

	var writeErr error
	if commit {
		data, err := os.ReadFile(sess.EditHost)
		if err != nil {
			writeErr = simdiskerrors.ErrIO.WrapError(err)
		} else {
			writeErr = fs.writeWholeUnlocked(sess, sess.EditTarget, data)
		}
	}

	os.Remove(sess.EditHost)
	releaseErr := fs.ReleaseLock(sess.EditInode, kind)

	sess.EditTarget = ""
	sess.EditHost = ""
	sess.EditInode = 0
	sess.EditWriteLock = false

	if writeErr != nil {
		return writeErr
	}
	return releaseErr
}
