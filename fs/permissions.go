package fs

import (
	"strings"

	simdiskerrors "simdisk/errors"
	"simdisk/inode"
	"simdisk/session"
)

// Mode bit layout, low 9 bits of inode.Record.Mode: rwxrwxrwx. Group bits
// are stored for completeness but, per the reference check_entry, are
// never consulted — only the owner and other triads matter.
const (
	modeExecOther  = 1 << 0
	modeWriteOther = 1 << 1
	modeReadOther  = 1 << 2
	modeExecGroup  = 1 << 3
	modeWriteGroup = 1 << 4
	modeReadGroup  = 1 << 5
	modeExecOwner  = 1 << 6
	modeWriteOwner = 1 << 7
	modeReadOwner  = 1 << 8
)

// Action identifies which permission a caller needs.
type Action byte

const (
	ActionRead    Action = 'r'
	ActionWrite   Action = 'w'
	ActionExecute Action = 'x'
)

// CheckPermission reports whether sess's user may perform action on rec,
// consulting only the owner triad if sess owns the object, and only the
// other triad otherwise — group bits are never read, matching the
// reference check_entry exactly.
func CheckPermission(sess *session.Session, rec *inode.Record, action Action) bool {
	isOwner := sess.Username == rec.OwnerName()
	mode := rec.Mode
	switch action {
	case ActionRead:
		if isOwner {
			return mode&modeReadOwner != 0
		}
		return mode&modeReadOther != 0
	case ActionWrite:
		if isOwner {
			return mode&modeWriteOwner != 0
		}
		return mode&modeWriteOther != 0
	case ActionExecute:
		if isOwner {
			return mode&modeExecOwner != 0
		}
		return mode&modeExecOther != 0
	default:
		return false
	}
}

// ParsePermissionString converts a "rwxr-xr-x"-style 9-character
// permission string into a mode value, used by Format to set up the root
// directory's initial permissions.
func ParsePermissionString(s string) uint16 {
	var mode uint16
	bits := [9]uint16{
		modeReadOwner, modeWriteOwner, modeExecOwner,
		modeReadGroup, modeWriteGroup, modeExecGroup,
		modeReadOther, modeWriteOther, modeExecOther,
	}
	for i := 0; i < len(s) && i < 9; i++ {
		if s[i] != '-' {
			mode |= bits[i]
		}
	}
	return mode
}

// ModeString renders mode's rwxrwxrwx bits plus a leading type marker
// ("d" for a directory, "-" otherwise), the same column layout `ll` uses.
func ModeString(mode uint16, entryType byte) string {
	bits := [9]uint16{
		modeReadOwner, modeWriteOwner, modeExecOwner,
		modeReadGroup, modeWriteGroup, modeExecGroup,
		modeReadOther, modeWriteOther, modeExecOther,
	}
	letters := [9]byte{'r', 'w', 'x', 'r', 'w', 'x', 'r', 'w', 'x'}

	out := make([]byte, 10)
	if entryType == inode.TypeDirectory {
		out[0] = 'd'
	} else {
		out[0] = '-'
	}
	for i, bit := range bits {
		if mode&bit != 0 {
			out[i+1] = letters[i]
		} else {
			out[i+1] = '-'
		}
	}
	return string(out)
}

// ApplyChmod applies a chmod expression of the form "[ugoa][+-][rwx]+" to
// mode and returns the updated value. Unlike the reference (which
// substitutes the read bit for the wrong group when the 'x' selector is
// combined with certain letters), the execute bit always maps to the
// execute bit regardless of which selector it is applied under.
func ApplyChmod(mode uint16, expr string) (uint16, error) {
	if len(expr) < 2 {
		return 0, simdiskerrors.ErrInvalidArgument.WithMessage("malformed chmod expression")
	}

	who := expr[:1]
	op := expr[1]
	if op != '+' && op != '-' {
		return 0, simdiskerrors.ErrInvalidArgument.WithMessage("chmod operator must be + or -")
	}
	rest := expr[2:]

	var selectors []string
	switch who {
	case "a":
		selectors = []string{"u", "g", "o"}
	case "u", "g", "o":
		selectors = []string{who}
	default:
		return 0, simdiskerrors.ErrInvalidArgument.WithMessage("unknown chmod selector")
	}

	var readBit, writeBit, execBit uint16
	for _, sel := range selectors {
		switch sel {
		case "u":
			readBit, writeBit, execBit = modeReadOwner, modeWriteOwner, modeExecOwner
		case "g":
			readBit, writeBit, execBit = modeReadGroup, modeWriteGroup, modeExecGroup
		case "o":
			readBit, writeBit, execBit = modeReadOther, modeWriteOther, modeExecOther
		}
		for _, c := range rest {
			var bit uint16
			switch c {
			case 'r':
				bit = readBit
			case 'w':
				bit = writeBit
			case 'x':
				bit = execBit
			default:
				return 0, simdiskerrors.ErrInvalidArgument.WithMessage("unknown chmod permission letter")
			}
			if op == '+' {
				mode |= bit
			} else {
				mode &^= bit
			}
		}
	}
	return mode, nil
}

// Chmod applies a chmod expression to the object at path, requiring the
// caller to own it (the reference never allows non-owners to chmod).
func (fs *FileSystem) Chmod(sess *session.Session, expr, path string) error {
	rec, entry, err := fs.Resolve(sess, path)
	if err != nil {
		return err
	}
	if strings.TrimSpace(sess.Username) != rec.OwnerName() {
		return simdiskerrors.ErrPermissionDenied
	}
	newMode, err := ApplyChmod(rec.Mode, expr)
	if err != nil {
		return err
	}
	rec.Mode = newMode
	return fs.saveInode(entry.Inode, rec)
}
