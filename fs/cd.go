package fs

import (
	simdiskerrors "simdisk/errors"
	"simdisk/session"
)

// ChangeDirectory implements `cd`. An empty path returns to the session's
// root (home); "-" swaps to the previous directory, failing if none is
// set; otherwise it resolves path, requires execute permission on the
// target, and rejects targets that are not directories, all matching the
// reference cd.
func (fs *FileSystem) ChangeDirectory(sess *session.Session, path string) error {
	if path == "" {
		sess.SetCurrent(sess.Root)
		return nil
	}
	if path == "-" {
		if !sess.SwapToPrevious() {
			return simdiskerrors.ErrFailure.WithMessage("OLDPWD not set")
		}
		return nil
	}

	rec, entry, err := fs.Resolve(sess, path)
	if err != nil {
		return err
	}
	if !rec.IsDirectory() {
		return simdiskerrors.ErrNotADirectory
	}
	if !CheckPermission(sess, &rec, ActionExecute) {
		return simdiskerrors.ErrPermissionDenied
	}
	sess.SetCurrent(entry)
	return nil
}
