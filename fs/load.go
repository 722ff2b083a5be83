package fs

import (
	"os"

	"simdisk/block"
	"simdisk/dirent"
	"simdisk/inode"
	"simdisk/session"
)

// Load mounts an existing image at path. Bitmap population counters are
// rebuilt by popcount over the persisted bytes; backup/restore is a
// deliberate no-op here, matching the reference load (its backup/restore
// logic is commented out).
func Load(path string) (*FileSystem, error) {
	file, err := os.OpenFile(path, os.O_RDWR, 0o644)
	if err != nil {
		return nil, err
	}

	device := block.NewDevice(file)

	rawSB, err := device.Read(superblockBlock)
	if err != nil {
		file.Close()
		return nil, err
	}
	super, err := decodeSuperblock(rawSB)
	if err != nil {
		file.Close()
		return nil, err
	}

	rawBlockBitmap, err := readBitmapRegion(device, blockBitmapStart(), blockBitmapBlocks(), (block.Count+7)/8)
	if err != nil {
		file.Close()
		return nil, err
	}
	rawInodeBitmap, err := readBitmapRegion(device, inodeBitmapStart(), inodeBitmapBlocks(), (inode.Count+7)/8)
	if err != nil {
		file.Close()
		return nil, err
	}

	inodeTable, err := inode.LoadTable(device, inodeTableStart())
	if err != nil {
		file.Close()
		return nil, err
	}

	fsys := &FileSystem{
		device:      device,
		file:        file,
		blockBitmap: block.LoadBitmap(rawBlockBitmap, block.Count),
		inodeBitmap: block.LoadBitmap(rawInodeBitmap, inode.Count),
		inodeTable:  inodeTable,
		super:       super,
		Sessions:    session.NewTable(),
	}

	rootEntry := dirent.Entry{Valid: true, Inode: super.RootInode, Name: "/"}
	fsys.Sessions.Put(0, session.New(rootOwner, rootEntry))

	return fsys, nil
}
