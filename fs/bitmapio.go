package fs

import (
	"simdisk/block"
)

func writeBitmapRegion(device *block.Device, start block.ID, blocks int, data []byte) error {
	for b := 0; b < blocks; b++ {
		buf := make([]byte, block.Size)
		lo := b * block.Size
		hi := lo + block.Size
		if lo < len(data) {
			if hi > len(data) {
				hi = len(data)
			}
			copy(buf, data[lo:hi])
		}
		if err := device.Write(start+block.ID(b), buf); err != nil {
			return err
		}
	}
	return nil
}

func readBitmapRegion(device *block.Device, start block.ID, blocks, byteLen int) ([]byte, error) {
	out := make([]byte, 0, blocks*block.Size)
	for b := 0; b < blocks; b++ {
		buf, err := device.Read(start + block.ID(b))
		if err != nil {
			return nil, err
		}
		out = append(out, buf...)
	}
	return out[:byteLen], nil
}

func (fs *FileSystem) flushBlockBitmap() error {
	byteLen := (block.Count + 7) / 8
	return writeBitmapRegion(fs.device, blockBitmapStart(), blockBitmapBlocks(), fs.blockBitmap.Bytes()[:byteLen])
}

func (fs *FileSystem) flushInodeBitmap() error {
	return writeBitmapRegion(fs.device, inodeBitmapStart(), inodeBitmapBlocks(), fs.inodeBitmap.Bytes())
}
