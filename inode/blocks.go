package inode

import (
	"encoding/binary"

	"simdisk/block"
	simdiskerrors "simdisk/errors"
)

const (
	singleIndirectSlot = 6
	doubleIndirectSlot = 7
	reservedSlot       = 8

	// MaxDataBlocks is the largest number of data blocks a file can
	// address: 6 direct + 256 single-indirect + 256*256 double-indirect.
	// The reference implementation treats slot 8 ("triple-indirect") as
	// dead code identical to the double-indirect branch; simdisk instead
	// rejects anything past this ceiling with ErrFileTooLarge rather than
	// reproducing that bug.
	MaxDataBlocks = DirectBlocks + PointersPerBlock + PointersPerBlock*PointersPerBlock
)

// BlocksOf returns the ordered list of data block IDs addressed by rec,
// walking direct pointers, then the single-indirect block, then the
// double-indirect block of blocks, stopping at the first Sentinel entry it
// encounters at each tier — mirroring the reference get_blocks.
func BlocksOf(device *block.Device, rec *Record) ([]block.ID, error) {
	var result []block.ID

	for i := 0; i < DirectBlocks; i++ {
		if rec.Blocks[i] == uint32(block.Sentinel) {
			return result, nil
		}
		result = append(result, block.ID(rec.Blocks[i]))
	}

	if rec.Blocks[singleIndirectSlot] == uint32(block.Sentinel) {
		return result, nil
	}
	single, err := readPointerBlock(device, block.ID(rec.Blocks[singleIndirectSlot]))
	if err != nil {
		return nil, err
	}
	for _, ptr := range single {
		if ptr == uint32(block.Sentinel) {
			return result, nil
		}
		result = append(result, block.ID(ptr))
	}

	if rec.Blocks[doubleIndirectSlot] == uint32(block.Sentinel) {
		return result, nil
	}
	outer, err := readPointerBlock(device, block.ID(rec.Blocks[doubleIndirectSlot]))
	if err != nil {
		return nil, err
	}
	for _, leafID := range outer {
		if leafID == uint32(block.Sentinel) {
			return result, nil
		}
		leaf, err := readPointerBlock(device, block.ID(leafID))
		if err != nil {
			return nil, err
		}
		for _, ptr := range leaf {
			if ptr == uint32(block.Sentinel) {
				return result, nil
			}
			result = append(result, block.ID(ptr))
		}
	}

	return result, nil
}

func readPointerBlock(device *block.Device, id block.ID) ([]uint32, error) {
	scoped, err := block.Open(device, id)
	if err != nil {
		return nil, err
	}
	defer scoped.Close()

	raw := scoped.Data()
	ptrs := make([]uint32, PointersPerBlock)
	for i := range ptrs {
		ptrs[i] = binary.LittleEndian.Uint32(raw[i*4 : i*4+4])
	}
	return ptrs, nil
}

func writePointerBlock(device *block.Device, id block.ID, ptrs []uint32) error {
	scoped := block.OpenNew(device, id)
	raw := scoped.Data()
	for i := 0; i < PointersPerBlock; i++ {
		v := uint32(block.Sentinel)
		if i < len(ptrs) {
			v = ptrs[i]
		}
		binary.LittleEndian.PutUint32(raw[i*4:i*4+4], v)
	}
	scoped.MarkDirty()
	return scoped.Close()
}

// freeIndirectTier frees the indirect/double-indirect management blocks
// (not the data blocks they point to, which the caller already owns
// separately) and clears the corresponding inode slot.
func freeIndirectTier(device *block.Device, bm *block.Bitmap, rec *Record) error {
	if rec.Blocks[doubleIndirectSlot] != uint32(block.Sentinel) {
		outer, err := readPointerBlock(device, block.ID(rec.Blocks[doubleIndirectSlot]))
		if err != nil {
			return err
		}
		for _, leafID := range outer {
			if leafID == uint32(block.Sentinel) {
				break
			}
			bm.Free(leafID)
		}
		bm.Free(rec.Blocks[doubleIndirectSlot])
		rec.Blocks[doubleIndirectSlot] = uint32(block.Sentinel)
	}
	if rec.Blocks[singleIndirectSlot] != uint32(block.Sentinel) {
		bm.Free(rec.Blocks[singleIndirectSlot])
		rec.Blocks[singleIndirectSlot] = uint32(block.Sentinel)
	}
	return nil
}

// SetBlocks rebuilds rec's block map so it addresses exactly the data
// blocks in dataBlocks, in order. Any previously-allocated indirect
// management blocks are freed and rebuilt from scratch, matching the
// reference's "free and rebuild on write" behavior for indirect tiers
// rather than patching individual pointer slots in place.
func SetBlocks(device *block.Device, bm *block.Bitmap, rec *Record, dataBlocks []block.ID) error {
	if len(dataBlocks) > MaxDataBlocks {
		return simdiskerrors.ErrFileTooLarge.WithMessage("exceeds maximum addressable blocks")
	}

	if err := freeIndirectTier(device, bm, rec); err != nil {
		return err
	}

	for i := 0; i < DirectBlocks; i++ {
		if i < len(dataBlocks) {
			rec.Blocks[i] = uint32(dataBlocks[i])
		} else {
			rec.Blocks[i] = uint32(block.Sentinel)
		}
	}
	if len(dataBlocks) <= DirectBlocks {
		rec.Blocks[singleIndirectSlot] = uint32(block.Sentinel)
		rec.Blocks[doubleIndirectSlot] = uint32(block.Sentinel)
		rec.Blocks[reservedSlot] = uint32(block.Sentinel)
		return nil
	}

	rest := dataBlocks[DirectBlocks:]

	singleID, err := bm.Allocate()
	if err != nil {
		return err
	}
	rec.Blocks[singleIndirectSlot] = singleID
	singleCount := len(rest)
	if singleCount > PointersPerBlock {
		singleCount = PointersPerBlock
	}
	singlePtrs := make([]uint32, singleCount)
	for i := 0; i < singleCount; i++ {
		singlePtrs[i] = uint32(rest[i])
	}
	if err := writePointerBlock(device, block.ID(singleID), singlePtrs); err != nil {
		return err
	}

	if len(rest) <= PointersPerBlock {
		rec.Blocks[doubleIndirectSlot] = uint32(block.Sentinel)
		rec.Blocks[reservedSlot] = uint32(block.Sentinel)
		return nil
	}

	rest = rest[PointersPerBlock:]

	outerID, err := bm.Allocate()
	if err != nil {
		return err
	}
	rec.Blocks[doubleIndirectSlot] = outerID

	var outerPtrs []uint32
	for len(rest) > 0 {
		leafCount := len(rest)
		if leafCount > PointersPerBlock {
			leafCount = PointersPerBlock
		}
		leafID, err := bm.Allocate()
		if err != nil {
			return err
		}
		leafPtrs := make([]uint32, leafCount)
		for i := 0; i < leafCount; i++ {
			leafPtrs[i] = uint32(rest[i])
		}
		if err := writePointerBlock(device, block.ID(leafID), leafPtrs); err != nil {
			return err
		}
		outerPtrs = append(outerPtrs, leafID)
		rest = rest[leafCount:]
	}
	if err := writePointerBlock(device, block.ID(outerID), outerPtrs); err != nil {
		return err
	}
	rec.Blocks[reservedSlot] = uint32(block.Sentinel)
	return nil
}
