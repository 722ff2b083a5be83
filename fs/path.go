package fs

import (
	"strings"

	"simdisk/dirent"
	simdiskerrors "simdisk/errors"
	"simdisk/inode"
	"simdisk/session"
)

// splitPath breaks path into its non-empty components. A leading "~" is
// rewritten to "/home" before splitting, the convenience shorthand this
// spec carries for the home directory.
func splitPath(path string) (absolute bool, parts []string) {
	if path == "~" || strings.HasPrefix(path, "~/") {
		path = "/home" + strings.TrimPrefix(path, "~")
	}
	absolute = strings.HasPrefix(path, "/")
	raw := strings.Split(path, "/")
	for _, p := range raw {
		if p != "" {
			parts = append(parts, p)
		}
	}
	return absolute, parts
}

// splitPathAndName splits path into its parent directory path and final
// component name, mirroring the reference split_path_and_name.
func splitPathAndName(path string) (parentPath string, name string) {
	absolute, parts := splitPath(path)
	if len(parts) == 0 {
		return "/", ""
	}
	name = parts[len(parts)-1]
	rest := parts[:len(parts)-1]
	prefix := ""
	if absolute {
		prefix = "/"
	}
	parentPath = prefix + strings.Join(rest, "/")
	if parentPath == "" {
		parentPath = "."
	}
	return parentPath, name
}

// resolveFrom walks parts starting at start, returning the inode record
// and directory entry of the final component.
func (fs *FileSystem) resolveFrom(start dirent.Entry, parts []string) (inode.Record, dirent.Entry, error) {
	current := start
	rec := fs.getInode(current.Inode)
	for _, name := range parts {
		if !rec.IsDirectory() {
			return inode.Record{}, dirent.Entry{}, simdiskerrors.ErrNotADirectory
		}
		entries, err := fs.readDirEntries(&rec)
		if err != nil {
			return inode.Record{}, dirent.Entry{}, err
		}
		found, ok := dirent.Find(entries, name)
		if !ok {
			return inode.Record{}, dirent.Entry{}, simdiskerrors.ErrFileNotFound
		}
		current = found
		rec = fs.getInode(current.Inode)
	}
	return rec, current, nil
}

// Resolve resolves path against sess's current directory (or root for an
// absolute path) and returns the target inode record and its directory
// entry.
func (fs *FileSystem) Resolve(sess *session.Session, path string) (inode.Record, dirent.Entry, error) {
	absolute, parts := splitPath(path)
	start := sess.Current
	if absolute {
		start = sess.Root
	}
	return fs.resolveFrom(start, parts)
}

// ResolveParent resolves path's parent directory and returns it along
// with the final component's name, for create/delete operations that need
// to mutate the parent's entry block.
func (fs *FileSystem) ResolveParent(sess *session.Session, path string) (inode.Record, dirent.Entry, string, error) {
	parentPath, name := splitPathAndName(path)
	if !dirent.ValidName(name) {
		return inode.Record{}, dirent.Entry{}, "", simdiskerrors.ErrInvalidArgument.WithMessage("invalid name")
	}
	parentRec, parentEntry, err := fs.Resolve(sess, parentPath)
	if err != nil {
		return inode.Record{}, dirent.Entry{}, "", err
	}
	if !parentRec.IsDirectory() {
		return inode.Record{}, dirent.Entry{}, "", simdiskerrors.ErrNotADirectory
	}
	return parentRec, parentEntry, name, nil
}
