package fs

import (
	"os"

	"simdisk/block"
	"simdisk/dirent"
	"simdisk/inode"
	"simdisk/session"
)

// canonicalDirectories is the subtree every fresh image gets, mirroring
// the reference _new's sequence of `md` calls.
var canonicalDirectories = []string{
	"/home", "/lost+found", "/proc", "/root", "/usr", "/usr/lock",
}

const userLogHeader = "username    password\n"

// Format creates a brand-new image at path, lays out the superblock,
// both bitmaps, and the inode table, builds the root directory, then
// bootstraps the canonical subtree, the root user, and a read-only root
// directory, the same sequence as the reference Filesystem::_new.
func Format(path string) (*FileSystem, error) {
	file, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return nil, err
	}
	if err := block.Format(file.Truncate); err != nil {
		file.Close()
		return nil, err
	}

	device := block.NewDevice(file)
	fsys := &FileSystem{
		device:      device,
		file:        file,
		blockBitmap: block.NewBitmap(block.Count),
		inodeBitmap: block.NewBitmap(inode.Count),
		inodeTable:  inode.NewTable(device, inodeTableStart()),
		Sessions:    session.NewTable(),
	}

	fsys.blockBitmap.MarkUsed(0, reservedBlockCount())

	rootInodeNum, err := fsys.allocateInode()
	if err != nil {
		return nil, err
	}
	rootBlockID, err := fsys.allocateBlock()
	if err != nil {
		return nil, err
	}

	rootRec := inode.Record{
		Valid:     true,
		LinkCount: 2,
		Size:      uint32(2 * dirent.Size),
		Capacity:  block.Size,
		Mode:      rootMode,
		Type:      inode.TypeDirectory,
	}
	rootRec.SetOwner(rootOwner)
	for i := range rootRec.Blocks {
		rootRec.Blocks[i] = uint32(block.Sentinel)
	}
	rootRec.Blocks[0] = uint32(rootBlockID)

	rootEntries := []dirent.Entry{
		{Valid: true, Inode: rootInodeNum, Name: "."},
		{Valid: true, Inode: rootInodeNum, Name: ".."},
	}
	if err := fsys.device.Write(rootBlockID, dirent.EncodeBlock(rootEntries)); err != nil {
		return nil, err
	}
	if err := fsys.saveInode(rootInodeNum, rootRec); err != nil {
		return nil, err
	}

	fsys.super = &Superblock{Magic: superblockMagic, RootInode: rootInodeNum}
	if err := fsys.device.Write(superblockBlock, encodeSuperblock(fsys.super)); err != nil {
		return nil, err
	}
	if err := fsys.flushBlockBitmap(); err != nil {
		return nil, err
	}
	if err := fsys.flushInodeBitmap(); err != nil {
		return nil, err
	}

	rootEntry := dirent.Entry{Valid: true, Inode: rootInodeNum, Name: "/"}
	rootSession := session.New(rootOwner, rootEntry)
	fsys.Sessions.Put(0, rootSession)

	for _, path := range canonicalDirectories {
		if err := fsys.MakeDirectory(rootSession, path); err != nil {
			return nil, err
		}
	}

	if err := fsys.CreateFile(rootSession, "/usr/user.log"); err != nil {
		return nil, err
	}
	if err := fsys.WriteWhole(rootSession, "/usr/user.log", []byte(userLogHeader)); err != nil {
		return nil, err
	}

	if err := fsys.UserAdd(rootOwner, rootOwner); err != nil {
		return nil, err
	}

	if err := fsys.Chmod(rootSession, "a-w", "/"); err != nil {
		return nil, err
	}

	if err := fsys.Save(); err != nil {
		return nil, err
	}

	return fsys, nil
}
