package fs

import (
	"simdisk/block"
	"simdisk/dirent"
	simdiskerrors "simdisk/errors"
	"simdisk/inode"
	"simdisk/session"
)

// patchChunkSize is the size of one paginated CAT slice, matching the
// reference's `data.substr(i * 1024, 1024)` pagination step.
const patchChunkSize = 1024

// CreateFile creates a new, empty regular file at path.
func (fs *FileSystem) CreateFile(sess *session.Session, path string) error {
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
	childRec := inode.Record{
		Valid:     true,
		LinkCount: 1,
		Mode:      ParsePermissionString("rw-r--r--"),
		Type:      inode.TypeFile,
	}
	childRec.SetOwner(sess.Username)
	for i := range childRec.Blocks {
		childRec.Blocks[i] = uint32(block.Sentinel)
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

// RemoveFile deletes the regular file at path.
func (fs *FileSystem) RemoveFile(sess *session.Session, path string) error {
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
	if targetRec.IsDirectory() {
		return simdiskerrors.ErrFileNotMatch
	}
	if err := fs.deleteInode(target.Inode); err != nil {
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

// ReadWhole returns the full contents of the regular file at path.
func (fs *FileSystem) ReadWhole(sess *session.Session, path string) ([]byte, error) {
	rec, _, err := fs.Resolve(sess, path)
	if err != nil {
		return nil, err
	}
	if !rec.IsFile() {
		return nil, simdiskerrors.ErrFileNotMatch
	}
	if !CheckPermission(sess, &rec, ActionRead) {
		return nil, simdiskerrors.ErrPermissionDenied
	}
	blocks, err := inode.BlocksOf(fs.device, &rec)
	if err != nil {
		return nil, err
	}
	data := make([]byte, 0, len(blocks)*block.Size)
	for _, b := range blocks {
		raw, err := fs.device.Read(b)
		if err != nil {
			return nil, err
		}
		data = append(data, raw...)
	}
	if uint32(len(data)) > rec.Size {
		data = data[:rec.Size]
	}
	return data, nil
}

// WriteWhole replaces the full contents of the regular file at path,
// taking a write lock on it for the duration, matching the reference
// write_data's LOCK/unlock bracket around the mutation.
func (fs *FileSystem) WriteWhole(sess *session.Session, path string, data []byte) error {
	_, entry, err := fs.Resolve(sess, path)
	if err != nil {
		return err
	}
	if err := fs.AcquireLock(entry.Inode, WriteLock); err != nil {
		return err
	}
	defer fs.ReleaseLock(entry.Inode, WriteLock)
	return fs.writeWholeUnlocked(sess, path, data)
}

// writeWholeUnlocked does the actual block-map rebuild and data write
// without touching the advisory lock, reserved for callers that already
// hold the file's lock themselves (the cat-editor WRITE step) or that
// maintain lock bookkeeping files directly (fs/lock.go).
func (fs *FileSystem) writeWholeUnlocked(sess *session.Session, path string, data []byte) error {
	rec, entry, err := fs.Resolve(sess, path)
	if err != nil {
		return err
	}
	if !rec.IsFile() {
		return simdiskerrors.ErrFileNotMatch
	}
	if !CheckPermission(sess, &rec, ActionWrite) {
		return simdiskerrors.ErrPermissionDenied
	}

	existing, err := inode.BlocksOf(fs.device, &rec)
	if err != nil {
		return err
	}
	needed := (len(data) + block.Size - 1) / block.Size

	var newBlocks []block.ID
	switch {
	case needed <= len(existing):
		for _, b := range existing[needed:] {
			fs.freeBlock(b)
		}
		newBlocks = existing[:needed]
	default:
		newBlocks = append(newBlocks, existing...)
		for i := 0; i < needed-len(existing); i++ {
			id, err := fs.allocateBlock()
			if err != nil {
				return err
			}
			newBlocks = append(newBlocks, id)
		}
	}

	if err := inode.SetBlocks(fs.device, fs.blockBitmap, &rec, newBlocks); err != nil {
		return err
	}

	for i, b := range newBlocks {
		lo := i * block.Size
		hi := lo + block.Size
		buf := make([]byte, block.Size)
		if lo < len(data) {
			end := hi
			if end > len(data) {
				end = len(data)
			}
			copy(buf, data[lo:end])
		}
		if err := fs.device.Write(b, buf); err != nil {
			return err
		}
	}

	rec.Size = uint32(len(data))
	rec.Capacity = uint32(needed * block.Size)
	return fs.saveInode(entry.Inode, rec)
}

// CatFile returns the first paginated chunk of a file's contents and
// stashes the full body in the session's scratch buffer, so that
// subsequent PATCH requests can fetch the remaining 1024-byte slices
// without re-reading the file, mirroring the reference cat_data.
func (fs *FileSystem) CatFile(sess *session.Session, path string) (chunk []byte, total int, err error) {
	data, err := fs.ReadWhole(sess, path)
	if err != nil {
		return nil, 0, err
	}
	sess.Scratch = string(data)
	return Patch(sess, 0), len(data), nil
}

// Patch returns the i-th 1024-byte slice of the session's scratch buffer.
func Patch(sess *session.Session, i int) []byte {
	lo := i * patchChunkSize
	if lo >= len(sess.Scratch) {
		return nil
	}
	hi := lo + patchChunkSize
	if hi > len(sess.Scratch) {
		hi = len(sess.Scratch)
	}
	return []byte(sess.Scratch[lo:hi])
}
