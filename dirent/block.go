package dirent

// DecodeBlock splits a raw block buffer into its PerBlock directory
// entries.
func DecodeBlock(raw []byte) ([]Entry, error) {
	entries := make([]Entry, 0, PerBlock)
	for i := 0; i < PerBlock; i++ {
		e, err := Decode(raw[i*Size : (i+1)*Size])
		if err != nil {
			return nil, err
		}
		entries = append(entries, *e)
	}
	return entries, nil
}

// EncodeBlock serializes up to PerBlock entries into a raw block buffer,
// padding any remaining slots as invalid.
func EncodeBlock(entries []Entry) []byte {
	raw := make([]byte, 0, PerBlock*Size)
	for i := 0; i < PerBlock; i++ {
		var e Entry
		if i < len(entries) {
			e = entries[i]
		}
		raw = append(raw, Encode(&e)...)
	}
	return raw
}

// Find scans entries for a valid one with the given name.
func Find(entries []Entry, name string) (Entry, bool) {
	for _, e := range entries {
		if e.Valid && e.Name == name {
			return e, true
		}
	}
	return Entry{}, false
}

// FirstFreeSlot returns the index of the first invalid entry, or -1 if the
// block is full.
func FirstFreeSlot(entries []Entry) int {
	for i, e := range entries {
		if !e.Valid {
			return i
		}
	}
	return -1
}

// Names returns the names of all valid entries, optionally skipping "."
// and "..".
func Names(entries []Entry, skipDots bool) []string {
	var names []string
	for _, e := range entries {
		if !e.Valid {
			continue
		}
		if skipDots && (e.Name == "." || e.Name == "..") {
			continue
		}
		names = append(names, e.Name)
	}
	return names
}
