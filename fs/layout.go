package fs

import (
	"simdisk/block"
	"simdisk/inode"
)

// On-disk layout: one superblock block, followed by the block bitmap,
// the inode bitmap, the inode table, then the data region. All regions
// are sized to the fixed simdisk geometry (102400 blocks, 102400 inodes).
const (
	superblockBlock = block.ID(0)
)

func bitmapBlocks(totalBits int) int {
	bytesNeeded := (totalBits + 7) / 8
	return (bytesNeeded + block.Size - 1) / block.Size
}

func blockBitmapStart() block.ID {
	return superblockBlock + 1
}

func blockBitmapBlocks() int {
	return bitmapBlocks(block.Count)
}

func inodeBitmapStart() block.ID {
	return blockBitmapStart() + block.ID(blockBitmapBlocks())
}

func inodeBitmapBlocks() int {
	return bitmapBlocks(inode.Count)
}

func inodeTableStart() block.ID {
	return inodeBitmapStart() + block.ID(inodeBitmapBlocks())
}

func inodeTableBlocks() int {
	return inode.BlocksNeeded()
}

func dataRegionStart() block.ID {
	return inodeTableStart() + block.ID(inodeTableBlocks())
}

// reservedBlockCount is the number of blocks occupied by the superblock,
// both bitmaps, and the inode table, i.e. everything before the data
// region — these are marked used in the block bitmap up front during
// format, mirroring the reference bootstrap's "mark [0, offset) used".
func reservedBlockCount() uint32 {
	return uint32(dataRegionStart())
}
