package fs

import (
	"bytes"
	"encoding/binary"

	"github.com/noxer/bytewriter"

	"simdisk/block"
	simdiskerrors "simdisk/errors"
	"simdisk/inode"
)

const superblockMagic = uint32(0x73696d64) // "simd"

// Superblock is the first block of the image: a magic number plus the
// root inode number. Region sizes themselves are fixed by the geometry
// constants in layout.go rather than stored, since this format never
// varies block/inode counts at runtime.
type Superblock struct {
	Magic     uint32
	RootInode inode.Number
}

func encodeSuperblock(sb *Superblock) []byte {
	buf := make([]byte, block.Size)
	w := bytewriter.New(buf)
	binary.Write(w, binary.LittleEndian, sb.Magic)
	binary.Write(w, binary.LittleEndian, uint32(sb.RootInode))
	return buf
}

func decodeSuperblock(raw []byte) (*Superblock, error) {
	r := bytes.NewReader(raw)
	sb := &Superblock{}
	if err := binary.Read(r, binary.LittleEndian, &sb.Magic); err != nil {
		return nil, simdiskerrors.ErrCorrupted.WrapError(err)
	}
	var rootInode uint32
	if err := binary.Read(r, binary.LittleEndian, &rootInode); err != nil {
		return nil, simdiskerrors.ErrCorrupted.WrapError(err)
	}
	sb.RootInode = inode.Number(rootInode)
	if sb.Magic != superblockMagic {
		return nil, simdiskerrors.ErrCorrupted.WithMessage("bad superblock magic")
	}
	return sb, nil
}
