// Package session implements the per-shell session table: the username,
// current/previous/root directory context, and the scratch buffer used to
// paginate large `cat` responses across the 2048-byte wire limit.
package session

import (
	"simdisk/dirent"
	"simdisk/inode"
)

// PID identifies a connected shell by its client process id.
type PID int32

// Session holds one shell's working context. Directory entries are stored
// by value and cloned on copy, not shared by pointer, mirroring the
// reference Info struct's AutoEntry fields (deep-copied, not aliased).
type Session struct {
	Username    string
	Current     dirent.Entry
	Previous    dirent.Entry
	HasPrevious bool
	Root        dirent.Entry

	// Scratch holds the full result of a paginated CAT request until the
	// client has fetched every 1024-byte slice via PATCH.
	Scratch string

	// Edit* track the one outstanding external-editor checkout this
	// session may hold at a time, opened by a GET request and closed by
	// a subsequent WRITE (import) or EXIT (discard).
	EditTarget    string
	EditHost      string
	EditInode     inode.Number
	EditWriteLock bool
}

// New creates a session rooted at root, with current directory also at
// root, matching the bootstrap session the reference sets up for pid 0.
func New(username string, root dirent.Entry) *Session {
	return &Session{
		Username: username,
		Current:  root,
		Root:     root,
	}
}

// Clone returns a deep copy of s.
func (s *Session) Clone() *Session {
	cp := *s
	return &cp
}

// SwapToPrevious exchanges Current and Previous, the Go equivalent of the
// reference's AutoEntry::swap used to implement `cd -`.
func (s *Session) SwapToPrevious() bool {
	if !s.HasPrevious {
		return false
	}
	s.Current, s.Previous = s.Previous, s.Current
	return true
}

// SetCurrent updates the working directory, preserving the prior one as
// Previous for a subsequent `cd -`.
func (s *Session) SetCurrent(e dirent.Entry) {
	s.Previous = s.Current
	s.HasPrevious = true
	s.Current = e
}

// Table is the map of connected sessions keyed by client PID.
type Table struct {
	sessions map[PID]*Session
}

// NewTable returns an empty session table.
func NewTable() *Table {
	return &Table{sessions: make(map[PID]*Session)}
}

// Get returns the session for pid, if any.
func (t *Table) Get(pid PID) (*Session, bool) {
	s, ok := t.sessions[pid]
	return s, ok
}

// Put installs (or replaces) the session for pid.
func (t *Table) Put(pid PID, s *Session) {
	t.sessions[pid] = s
}

// Delete removes the session for pid, as `exit` does in the reference.
func (t *Table) Delete(pid PID) {
	delete(t.sessions, pid)
}
