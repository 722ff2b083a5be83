// Package mailbox defines the Request/Response wire contract and an
// in-process transport implementing it. The shared-memory/semaphore
// transport the reference uses is out of scope; only the record shapes are
// carried over, and the in-process transport does not limit how many
// requests a session has outstanding.
package mailbox

import (
	"simdisk/session"
)

// Option identifies the kind of request or response being carried,
// mirroring the reference Option enum.
type Option int

const (
	OptionNone Option = iota
	OptionNew
	OptionGet
	OptionRead
	OptionWrite
	OptionExit
	OptionCat
	OptionPatch
	OptionRequest
	OptionResponse
	OptionSwitch
	OptionTab
)

// Code is the wire error code, mirroring the reference ErrorCode enum.
type Code int

const (
	Success Code = iota
	Failure
	Exists
	Exceeded
	WaitRequest
	FileNotFound
	FileNotMatch
	PermissionDenied
	Locked
)

// DataSize is the fixed payload size of a Request or Response, matching
// the reference's `char data[2048]`.
const DataSize = 2048

// Request is one client command.
type Request struct {
	PID    session.PID
	Data   string
	ID     uint32
	Option Option
}

// Response is the dispatcher's reply to one Request.
type Response struct {
	Data   string
	ID     uint32
	Code   Code
	Option Option
}

// Message is the internal queue record the ingress task builds from a
// Request before handing it to the worker task, mirroring the reference
// Message struct (pid, id, command text, option).
type Message struct {
	PID     session.PID
	ID      uint32
	Command string
	Option  Option
}
