// Package dirent implements the fixed-size directory entry record and the
// directory-block scan/insert helpers the filesystem engine uses to
// resolve names within a directory's data.
package dirent

import (
	"bytes"
	"encoding/binary"

	"github.com/noxer/bytewriter"

	"simdisk/block"
	simdiskerrors "simdisk/errors"
	"simdisk/inode"
)

const (
	// Size is the fixed on-disk size of one directory entry, in bytes.
	Size = 32
	// MaxName is the longest name (excluding the terminating NUL) a
	// directory entry can hold.
	MaxName = 24
	// PerBlock is how many directory entries fit in one block.
	PerBlock = block.Size / Size
)

// Entry is the in-memory form of one 32-byte directory entry.
type Entry struct {
	Valid bool
	Inode inode.Number
	Name  string
}

// Encode serializes e into a fixed Size-byte buffer.
func Encode(e *Entry) []byte {
	buf := make([]byte, Size)
	w := bytewriter.New(buf)

	var validByte byte
	if e.Valid {
		validByte = 1
	}
	binary.Write(w, binary.LittleEndian, validByte)
	binary.Write(w, binary.LittleEndian, uint32(e.Inode))

	var nameBuf [MaxName]byte
	copy(nameBuf[:], e.Name)
	binary.Write(w, binary.LittleEndian, nameBuf)

	return buf
}

// Decode parses a Size-byte buffer into an Entry.
func Decode(buf []byte) (*Entry, error) {
	if len(buf) < Size {
		return nil, simdiskerrors.ErrCorrupted.WithMessage("short directory entry")
	}
	e := &Entry{}
	r := bytes.NewReader(buf)

	var validByte byte
	if err := binary.Read(r, binary.LittleEndian, &validByte); err != nil {
		return nil, simdiskerrors.ErrCorrupted.WrapError(err)
	}
	e.Valid = validByte != 0

	var inodeNum uint32
	if err := binary.Read(r, binary.LittleEndian, &inodeNum); err != nil {
		return nil, simdiskerrors.ErrCorrupted.WrapError(err)
	}
	e.Inode = inode.Number(inodeNum)

	var nameBuf [MaxName]byte
	if err := binary.Read(r, binary.LittleEndian, &nameBuf); err != nil {
		return nil, simdiskerrors.ErrCorrupted.WrapError(err)
	}
	n := 0
	for n < len(nameBuf) && nameBuf[n] != 0 {
		n++
	}
	e.Name = string(nameBuf[:n])

	return e, nil
}

// ValidName reports whether name can be used as a new directory entry:
// non-empty, within MaxName, and not "." or "..".
func ValidName(name string) bool {
	if name == "" || name == "." || name == ".." {
		return false
	}
	return len(name) <= MaxName
}
