// Package fs implements the simdisk filesystem engine: the single
// process-wide structure that owns the block device, both bitmaps, the
// inode table, and every namespace/file/permission/lock operation the
// dispatcher's command table drives. Callers are responsible for
// serializing access (see package dispatch) — FileSystem itself holds no
// internal lock, the same thin-struct-over-shared-state shape the
// teacher's BaseDriver uses.
package fs

import (
	"os"

	"simdisk/block"
	"simdisk/dirent"
	simdiskerrors "simdisk/errors"
	"simdisk/inode"
	"simdisk/session"
)

const (
	rootOwner = "root"
	rootMode  = 0o755 // rwxr-xr-x
)

// FileSystem is the mounted simdisk image.
type FileSystem struct {
	device      *block.Device
	file        *os.File
	blockBitmap *block.Bitmap
	inodeBitmap *block.Bitmap
	inodeTable  *inode.Table
	super       *Superblock
	Sessions    *session.Table
}

// Close flushes nothing further (every mutating operation already flushes
// the structures it touches) and releases the underlying file handle.
func (fs *FileSystem) Close() error {
	if fs.file != nil {
		return fs.file.Close()
	}
	return nil
}

func (fs *FileSystem) allocateBlock() (block.ID, error) {
	id, err := fs.blockBitmap.Allocate()
	if err != nil {
		return 0, err
	}
	return block.ID(id), nil
}

func (fs *FileSystem) freeBlock(id block.ID) {
	fs.blockBitmap.Free(uint32(id))
}

func (fs *FileSystem) allocateInode() (inode.Number, error) {
	id, err := fs.inodeBitmap.Allocate()
	if err != nil {
		return 0, err
	}
	return inode.Number(id), nil
}

func (fs *FileSystem) freeInode(n inode.Number) {
	fs.inodeBitmap.Free(uint32(n))
}

// readFirstDataBlock reads the first data block addressed by rec, the
// block every directory keeps its entries in (simdisk directories never
// grow past one block of entries, matching the reference's list_directory
// and new_directory, which only ever touch i_block[0]).
func (fs *FileSystem) readFirstDataBlock(rec *inode.Record) ([]byte, error) {
	blocks, err := inode.BlocksOf(fs.device, rec)
	if err != nil {
		return nil, err
	}
	if len(blocks) == 0 {
		return nil, simdiskerrors.ErrCorrupted.WithMessage("directory has no data block")
	}
	scoped, err := block.Open(fs.device, blocks[0])
	if err != nil {
		return nil, err
	}
	defer scoped.Close()
	return scoped.Data(), nil
}

func (fs *FileSystem) writeFirstDataBlock(rec *inode.Record, raw []byte) error {
	blocks, err := inode.BlocksOf(fs.device, rec)
	if err != nil {
		return err
	}
	if len(blocks) == 0 {
		return simdiskerrors.ErrCorrupted.WithMessage("directory has no data block")
	}

	scoped, err := block.Open(fs.device, blocks[0])
	if err != nil {
		return err
	}
	copy(scoped.Data(), raw)
	scoped.MarkDirty()
	return scoped.Close()
}

func (fs *FileSystem) readDirEntries(rec *inode.Record) ([]dirent.Entry, error) {
	raw, err := fs.readFirstDataBlock(rec)
	if err != nil {
		return nil, err
	}
	return dirent.DecodeBlock(raw)
}

func (fs *FileSystem) writeDirEntries(rec *inode.Record, entries []dirent.Entry) error {
	return fs.writeFirstDataBlock(rec, dirent.EncodeBlock(entries))
}

func (fs *FileSystem) getInode(n inode.Number) inode.Record {
	return fs.inodeTable.Get(n)
}

// saveInode stores rec and flushes the inode table and both bitmaps, so
// any allocation or free made on the way here is persisted too.
func (fs *FileSystem) saveInode(n inode.Number, rec inode.Record) error {
	fs.inodeTable.Set(n, rec)
	if err := fs.inodeTable.Flush(); err != nil {
		return err
	}
	if err := fs.flushBlockBitmap(); err != nil {
		return err
	}
	return fs.flushInodeBitmap()
}

// deleteInode marks the inode free, frees every data block (and indirect
// management block) it owns, and flushes the table and bitmaps.
func (fs *FileSystem) deleteInode(n inode.Number) error {
	rec := fs.inodeTable.Get(n)
	blocks, err := inode.BlocksOf(fs.device, &rec)
	if err != nil {
		return err
	}
	if err := inode.SetBlocks(fs.device, fs.blockBitmap, &rec, nil); err != nil {
		return err
	}
	for _, b := range blocks {
		fs.freeBlock(b)
	}
	rec.Valid = false
	rec.Type = inode.TypeNone
	fs.freeInode(n)
	return fs.saveInode(n, rec)
}

