package fs

import (
	"os"
	"strings"

	simdiskerrors "simdisk/errors"
	"simdisk/session"
)

// hostPrefix marks a copy endpoint as a host filesystem path rather than
// one inside the image, matching the reference copy command's `<host>`
// convention.
const hostPrefix = "<host>"

// Copy copies bytes from src to dst. Either endpoint may be prefixed with
// hostPrefix to read from or write to the host filesystem instead of the
// image, so `copy <host>/etc/motd /etc/motd` imports a host file and
// `copy /etc/motd <host>/tmp/motd` exports one.
func (fs *FileSystem) Copy(sess *session.Session, src, dst string) error {
	srcHost := strings.HasPrefix(src, hostPrefix)
	dstHost := strings.HasPrefix(dst, hostPrefix)
	srcPath := strings.TrimPrefix(src, hostPrefix)
	dstPath := strings.TrimPrefix(dst, hostPrefix)

	var data []byte
	var err error
	if srcHost {
		data, err = os.ReadFile(srcPath)
		if err != nil {
			return simdiskerrors.ErrIO.WrapError(err)
		}
	} else {
		data, err = fs.ReadWhole(sess, srcPath)
		if err != nil {
			return err
		}
	}

	if dstHost {
		return os.WriteFile(dstPath, data, 0o644)
	}
	if !fs.exists(dstPath) {
		if err := fs.CreateFile(sess, dstPath); err != nil {
			return err
		}
	}
	return fs.WriteWhole(sess, dstPath, data)
}
