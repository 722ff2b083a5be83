package inode

import (
	"simdisk/block"
)

// Table is the flat, block-backed array of inode records, analogous to the
// teacher's RawInode array read in one pass at mount time. It keeps the
// whole table in memory and flushes the full range back on Flush, the same
// simplification the teacher's bitmaps use rather than tracking individual
// dirty inodes.
type Table struct {
	device     *block.Device
	startBlock block.ID
	records    []Record
}

// NewTable builds an all-invalid table of Count records, to be persisted
// starting at startBlock.
func NewTable(device *block.Device, startBlock block.ID) *Table {
	records := make([]Record, Count)
	for i := range records {
		records[i].Type = TypeNone
	}
	return &Table{device: device, startBlock: startBlock, records: records}
}

// LoadTable reads Count inode records back from the image, starting at
// startBlock.
func LoadTable(device *block.Device, startBlock block.ID) (*Table, error) {
	t := &Table{device: device, startBlock: startBlock, records: make([]Record, Count)}
	blocksNeeded := (Count + PerBlock - 1) / PerBlock
	for b := 0; b < blocksNeeded; b++ {
		buf, err := device.Read(startBlock + block.ID(b))
		if err != nil {
			return nil, err
		}
		for slot := 0; slot < PerBlock; slot++ {
			idx := b*PerBlock + slot
			if idx >= Count {
				break
			}
			rec, err := Decode(buf[slot*Size : (slot+1)*Size])
			if err != nil {
				return nil, err
			}
			t.records[idx] = *rec
		}
	}
	return t, nil
}

// Get returns a copy of the inode record at number n.
func (t *Table) Get(n Number) Record {
	return t.records[n]
}

// Set stores rec at number n. The caller is responsible for calling Flush
// to persist it.
func (t *Table) Set(n Number, rec Record) {
	t.records[n] = rec
}

// Flush writes the entire table back to disk, one block at a time.
func (t *Table) Flush() error {
	blocksNeeded := (Count + PerBlock - 1) / PerBlock
	for b := 0; b < blocksNeeded; b++ {
		buf := make([]byte, block.Size)
		for slot := 0; slot < PerBlock; slot++ {
			idx := b*PerBlock + slot
			if idx >= Count {
				break
			}
			copy(buf[slot*Size:(slot+1)*Size], Encode(&t.records[idx]))
		}
		if err := t.device.Write(t.startBlock+block.ID(b), buf); err != nil {
			return err
		}
	}
	return nil
}

// BlocksNeeded returns how many blocks the full table occupies.
func BlocksNeeded() int {
	return (Count + PerBlock - 1) / PerBlock
}
