package fs

import (
	"fmt"
	"strconv"
	"strings"

	"simdisk/block"
	"simdisk/dirent"
	simdiskerrors "simdisk/errors"
	"simdisk/inode"
	"simdisk/session"
)

// MakeDirectory creates a new, empty directory at path. The parent must
// exist, must not already contain an entry with this name, and the
// caller must have write permission on it — mirroring the reference
// new_directory exactly, including rejecting "." and ".." as a name via
// dirent.ValidName.
func (fs *FileSystem) MakeDirectory(sess *session.Session, path string) error {
	parentRec, parentEntry, name, err := fs.ResolveParent(sess, path)
	if err != nil {
		return err
	}
	if !CheckPermission(sess, &parentRec, ActionWrite) {
		return simdiskerrors.ErrPermissionDenied
	}

	entries, err := fs.readDirEntries(&parentRec)
	if err != nil {
		return err
	}
	if _, exists := dirent.Find(entries, name); exists {
		return simdiskerrors.ErrExists
	}
	slot := dirent.FirstFreeSlot(entries)
	if slot == -1 {
		return simdiskerrors.ErrExceeded
	}

	childInodeNum, err := fs.allocateInode()
	if err != nil {
		return err
	}
	childBlockID, err := fs.allocateBlock()
	if err != nil {
		return err
	}

	childRec := inode.Record{
		Valid:     true,
		LinkCount: 2,
		Size:      uint32(2 * dirent.Size),
		Capacity:  block.Size,
		Mode:      rootMode,
		Type:      inode.TypeDirectory,
	}
	childRec.SetOwner(sess.Username)
	for i := range childRec.Blocks {
		childRec.Blocks[i] = uint32(block.Sentinel)
	}
	childRec.Blocks[0] = uint32(childBlockID)

	childEntries := []dirent.Entry{
		{Valid: true, Inode: childInodeNum, Name: "."},
		{Valid: true, Inode: parentEntry.Inode, Name: ".."},
	}
	if err := fs.writeDirEntries(&childRec, childEntries); err != nil {
		return err
	}
	if err := fs.saveInode(childInodeNum, childRec); err != nil {
		return err
	}

	if slot < len(entries) {
		entries[slot] = dirent.Entry{Valid: true, Inode: childInodeNum, Name: name}
	} else {
		entries = append(entries, dirent.Entry{Valid: true, Inode: childInodeNum, Name: name})
	}
	parentRec.Size += uint32(dirent.Size)
	if err := fs.writeDirEntries(&parentRec, entries); err != nil {
		return err
	}
	return fs.saveInode(parentEntry.Inode, parentRec)
}

// isHidden reports whether name should be hidden from a listing, the same
// rule the reference dir() applies via `file.name[0] != '.'`.
func isHidden(name string) bool {
	return strings.HasPrefix(name, ".")
}

// List returns a directory's entries as display lines. If dirsOnly is set,
// only subdirectories are returned (the reference dir command's -s flag).
// If long is set (the `ll` command), each line additionally carries the
// entry's mode bits, owner, first block address, size, and capacity,
// mirroring the reference dir -l column layout.
func (fs *FileSystem) List(sess *session.Session, path string, dirsOnly, long bool) ([]string, error) {
	rec, _, err := fs.Resolve(sess, path)
	if err != nil {
		return nil, err
	}
	if !rec.IsDirectory() {
		return nil, simdiskerrors.ErrNotADirectory
	}
	entries, err := fs.readDirEntries(&rec)
	if err != nil {
		return nil, err
	}
	var lines []string
	for _, e := range entries {
		if !e.Valid || isHidden(e.Name) {
			continue
		}
		child := fs.getInode(e.Inode)
		if dirsOnly && !child.IsDirectory() {
			continue
		}
		if !long {
			lines = append(lines, e.Name)
			continue
		}
		lines = append(lines, formatLongEntry(e.Name, &child))
	}
	return lines, nil
}

// formatLongEntry renders one `ll` line: mode bits, owner, first block
// address, size, capacity, and name, space-separated.
func formatLongEntry(name string, rec *inode.Record) string {
	firstBlock := rec.Blocks[0]
	blockCol := "-"
	if firstBlock != uint32(block.Sentinel) {
		blockCol = strconv.FormatUint(uint64(firstBlock), 10)
	}
	return fmt.Sprintf("%s %-8s %-6s %8d %8d %s",
		ModeString(rec.Mode, rec.Type), rec.OwnerName(), blockCol, rec.Size, rec.Capacity, name)
}

// RemoveDirectory deletes the (empty) directory at path. A non-empty
// directory returns ErrWaitRequest on the first call — the caller (the
// dispatch layer) is expected to re-invoke with confirmed=true once the
// client has confirmed the recursive delete, the same two-phase protocol
// the reference rd implements via Option::REQUEST/RESPONSE.
func (fs *FileSystem) RemoveDirectory(sess *session.Session, path string, confirmed bool) error {
	parentRec, parentEntry, name, err := fs.ResolveParent(sess, path)
	if err != nil {
		return err
	}
	if !CheckPermission(sess, &parentRec, ActionWrite) {
		return simdiskerrors.ErrPermissionDenied
	}

	entries, err := fs.readDirEntries(&parentRec)
	if err != nil {
		return err
	}
	target, ok := dirent.Find(entries, name)
	if !ok {
		return simdiskerrors.ErrFileNotFound
	}
	targetRec := fs.getInode(target.Inode)
	if !targetRec.IsDirectory() {
		return simdiskerrors.ErrFileNotMatch
	}

	childEntries, err := fs.readDirEntries(&targetRec)
	if err != nil {
		return err
	}
	if len(dirent.Names(childEntries, true)) > 0 && !confirmed {
		return simdiskerrors.ErrWaitRequest
	}

	if err := fs.removeDirectoryRecursive(sess, target.Inode, targetRec); err != nil {
		return err
	}

	for i := range entries {
		if entries[i].Valid && entries[i].Name == name {
			entries[i] = dirent.Entry{}
		}
	}
	parentRec.Size -= uint32(dirent.Size)
	if err := fs.writeDirEntries(&parentRec, entries); err != nil {
		return err
	}
	return fs.saveInode(parentEntry.Inode, parentRec)
}

// removeDirectoryRecursive deletes every child of dirInode depth-first,
// then the directory's own inode, mirroring the reference
// delete_directory and the teacher's driver.removeDirectory walk.
func (fs *FileSystem) removeDirectoryRecursive(sess *session.Session, dirInodeNum inode.Number, dirRec inode.Record) error {
	entries, err := fs.readDirEntries(&dirRec)
	if err != nil {
		return err
	}
	for _, e := range entries {
		// "." and ".." are self-references, not real children, and are
		// skipped here regardless of isHidden — a dotfile that is a real
		// entry still gets deleted even though List hides it from view.
		if !e.Valid || e.Name == "." || e.Name == ".." {
			continue
		}
		childRec := fs.getInode(e.Inode)
		if childRec.IsDirectory() {
			if err := fs.removeDirectoryRecursive(sess, e.Inode, childRec); err != nil {
				return err
			}
		} else {
			if err := fs.deleteInode(e.Inode); err != nil {
				return err
			}
		}
	}
	return fs.deleteInode(dirInodeNum)
}
