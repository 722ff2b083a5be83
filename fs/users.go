package fs

import (
	"fmt"
	"strings"

	simdiskerrors "simdisk/errors"
	"simdisk/session"
)

const userLogPath = "/usr/user.log"

// UserAdd appends a user row to /usr/user.log. Unlike the reference's
// inconsistent std::setw(8) padding, the row format is fixed: the
// username, four literal spaces, the password, and a newline.
func (fs *FileSystem) UserAdd(username, password string) error {
	rootSess, ok := fs.Sessions.Get(0)
	if !ok {
		return simdiskerrors.ErrFailure.WithMessage("no root session available")
	}
	data, err := fs.ReadWhole(rootSess, userLogPath)
	if err != nil {
		return err
	}
	row := fmt.Sprintf("%s    %s\n", username, password)
	data = append(data, []byte(row)...)
	return fs.WriteWhole(rootSess, userLogPath, data)
}

// Authenticate reports whether username/password is a row in the user
// database.
func (fs *FileSystem) Authenticate(username, password string) bool {
	rootSess, ok := fs.Sessions.Get(0)
	if !ok {
		return false
	}
	data, err := fs.ReadWhole(rootSess, userLogPath)
	if err != nil {
		return false
	}
	lines := strings.Split(string(data), "\n")
	for _, line := range lines[1:] {
		fields := strings.Fields(line)
		if len(fields) == 2 && fields[0] == username && fields[1] == password {
			return true
		}
	}
	return false
}

// Su authenticates username/password and, on success, switches sess to
// that user, resetting its current and previous directory to root — the
// reference su always rebuilds a fresh Info with current_entry/root_entry
// cloned from root, discarding wherever the prior user had navigated to.
func (fs *FileSystem) Su(sess *session.Session, username, password string) error {
	if !fs.Authenticate(username, password) {
		return simdiskerrors.ErrPermissionDenied.WithMessage("invalid username or password")
	}
	sess.Username = username
	sess.Current = sess.Root
	sess.Previous = sess.Root
	sess.HasPrevious = false
	return nil
}
