package fs

import (
	"fmt"

	"simdisk/block"
	"simdisk/inode"
)

// Info reports filesystem usage, mirroring the reference info command's
// default/-h (human-readable)/-i (inode-focused) output modes.
type Info struct {
	TotalBlocks uint32
	FreeBlocks  uint32
	TotalInodes uint32
	FreeInodes  uint32
}

// Stat returns current usage counters.
func (fs *FileSystem) Stat() Info {
	return Info{
		TotalBlocks: block.Count,
		FreeBlocks:  block.Count - fs.blockBitmap.Count(),
		TotalInodes: inode.Count,
		FreeInodes:  inode.Count - fs.inodeBitmap.Count(),
	}
}

// String renders the default (non-human-readable, non-inode) info report.
func (i Info) String() string {
	return fmt.Sprintf(
		"blocks: %d/%d free\ninodes: %d/%d free\n",
		i.FreeBlocks, i.TotalBlocks, i.FreeInodes, i.TotalInodes,
	)
}

// Human renders sizes in kibibytes, the -h report mode.
func (i Info) Human() string {
	return fmt.Sprintf(
		"blocks: %dK/%dK free\ninodes: %d/%d free\n",
		i.FreeBlocks*block.Size/1024, i.TotalBlocks*block.Size/1024, i.FreeInodes, i.TotalInodes,
	)
}

// InodeFocused renders only the inode counters, the -i report mode.
func (i Info) InodeFocused() string {
	return fmt.Sprintf("inodes: %d/%d free\n", i.FreeInodes, i.TotalInodes)
}
