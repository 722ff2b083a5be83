package block

// Scoped is the Go substitute for the reference implementation's AutoBlock
// RAII wrapper (spec's "design notes" call for exactly this: a handle that
// keeps a mutable buffer and a dirty flag, and whose release path writes
// back unconditionally when a write was performed). Go has no destructors,
// so callers must `defer scoped.Close()` instead of relying on scope exit.
//
// This is grounded on the teacher's blockcache.BlockCache dirty-bitmap
// bookkeeping, narrowed to a single block instead of a whole cached range.
type Scoped struct {
	device *Device
	id     ID
	data   []byte
	dirty  bool
}

// Open reads block id through device and returns a handle over its bytes.
func Open(device *Device, id ID) (*Scoped, error) {
	data, err := device.Read(id)
	if err != nil {
		return nil, err
	}
	return &Scoped{device: device, id: id, data: data}, nil
}

// OpenNew returns a handle over a freshly zeroed block, for callers that
// are about to populate an allocated-but-never-written block (the
// reference's AutoBlock NEW mode).
func OpenNew(device *Device, id ID) *Scoped {
	return &Scoped{device: device, id: id, data: make([]byte, device.BlockSize())}
}

// ID returns the block ID this handle is scoped to.
func (s *Scoped) ID() ID { return s.id }

// Data returns the mutable buffer backing this block. Callers that mutate
// it must call MarkDirty.
func (s *Scoped) Data() []byte { return s.data }

// MarkDirty flags this block for write-back on Close.
func (s *Scoped) MarkDirty() { s.dirty = true }

// Close writes the block back if it was marked dirty, then releases the
// handle. The write-back is unconditional once dirty is set, matching the
// reference AutoBlock destructor's "if WRITE_MODE, save" rule.
func (s *Scoped) Close() error {
	if !s.dirty {
		return nil
	}
	return s.device.Write(s.id, s.data)
}
