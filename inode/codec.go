package inode

import (
	"bytes"
	"encoding/binary"

	"github.com/noxer/bytewriter"

	simdiskerrors "simdisk/errors"
)

// Encode serializes r into a fixed Size-byte buffer, using the same
// bytewriter-over-a-preallocated-slice plus encoding/binary idiom the
// teacher's unixv1 format.go uses to build on-disk records.
func Encode(r *Record) []byte {
	buf := make([]byte, Size)
	w := bytewriter.New(buf)

	binary.Write(w, binary.LittleEndian, boolToByte(r.Valid))
	binary.Write(w, binary.LittleEndian, r.LinkCount)
	binary.Write(w, binary.LittleEndian, r.Size)
	binary.Write(w, binary.LittleEndian, r.Capacity)
	binary.Write(w, binary.LittleEndian, r.Mode)
	binary.Write(w, binary.LittleEndian, r.Type)
	binary.Write(w, binary.LittleEndian, r.Owner)
	binary.Write(w, binary.LittleEndian, r.Blocks)

	return buf
}

// Decode parses a Size-byte buffer into a Record.
func Decode(buf []byte) (*Record, error) {
	if len(buf) < Size {
		return nil, simdiskerrors.ErrCorrupted.WithMessage("short inode record")
	}
	r := &Record{}
	reader := bytes.NewReader(buf)

	var validByte byte
	if err := binary.Read(reader, binary.LittleEndian, &validByte); err != nil {
		return nil, simdiskerrors.ErrCorrupted.WrapError(err)
	}
	r.Valid = validByte != 0

	if err := binary.Read(reader, binary.LittleEndian, &r.LinkCount); err != nil {
		return nil, simdiskerrors.ErrCorrupted.WrapError(err)
	}
	if err := binary.Read(reader, binary.LittleEndian, &r.Size); err != nil {
		return nil, simdiskerrors.ErrCorrupted.WrapError(err)
	}
	if err := binary.Read(reader, binary.LittleEndian, &r.Capacity); err != nil {
		return nil, simdiskerrors.ErrCorrupted.WrapError(err)
	}
	if err := binary.Read(reader, binary.LittleEndian, &r.Mode); err != nil {
		return nil, simdiskerrors.ErrCorrupted.WrapError(err)
	}
	if err := binary.Read(reader, binary.LittleEndian, &r.Type); err != nil {
		return nil, simdiskerrors.ErrCorrupted.WrapError(err)
	}
	if err := binary.Read(reader, binary.LittleEndian, &r.Owner); err != nil {
		return nil, simdiskerrors.ErrCorrupted.WrapError(err)
	}
	if err := binary.Read(reader, binary.LittleEndian, &r.Blocks); err != nil {
		return nil, simdiskerrors.ErrCorrupted.WrapError(err)
	}
	return r, nil
}

func boolToByte(b bool) byte {
	if b {
		return 1
	}
	return 0
}
