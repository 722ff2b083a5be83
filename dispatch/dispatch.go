// Package dispatch implements the request dispatcher: a FIFO queue shared
// between an ingress goroutine (pulling Requests off the transport) and a
// single worker goroutine (the only goroutine ever allowed to call into
// fs.FileSystem), with a counting-semaphore handoff between them standing
// in for the reference implementation's POSIX semaphore pair.
package dispatch

import (
	"context"
	"log"
	"sync"

	"golang.org/x/sync/semaphore"

	"simdisk/fs"
	"simdisk/mailbox"
)

// unboundedWeight is large enough that Release is never refused; the
// reference's counting semaphore has no practical ceiling either.
const unboundedWeight = 1 << 62

// Dispatcher owns the single mounted filesystem and serializes every
// mutating call onto one worker goroutine.
type Dispatcher struct {
	fsys      *fs.FileSystem
	transport *mailbox.Transport
	commands  CommandTable

	mu    sync.Mutex
	queue []mailbox.Message

	available *semaphore.Weighted
}

// New builds a dispatcher over fsys, reading requests from transport.
func New(fsys *fs.FileSystem, transport *mailbox.Transport) *Dispatcher {
	// Start with every unit held, so the semaphore counts queued messages:
	// Ingress releases one unit per message and Worker acquires one.
	available := semaphore.NewWeighted(unboundedWeight)
	available.TryAcquire(unboundedWeight)
	return &Dispatcher{
		fsys:      fsys,
		transport: transport,
		commands:  DefaultCommandTable(),
		available: available,
	}
}

// Ingress reads Requests off the transport, translates each into a
// Message, and pushes it onto the FIFO queue, then signals the worker —
// the Go analog of the reference Server::get_request.
func (d *Dispatcher) Ingress(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case req, ok := <-d.transport.Requests():
			if !ok {
				return nil
			}
			msg := mailbox.Message{
				PID:     req.PID,
				ID:      req.ID,
				Command: req.Data,
				Option:  req.Option,
			}
			d.mu.Lock()
			d.queue = append(d.queue, msg)
			d.mu.Unlock()
			d.available.Release(1)
			log.Printf("dispatch: queued request id=%d pid=%d", msg.ID, msg.PID)
		}
	}
}

// Worker blocks until a Message is available, pops it, executes it
// against the filesystem, and delivers a Response — the Go analog of the
// reference Cooker::get_request plus simdisk().
func (d *Dispatcher) Worker(ctx context.Context) error {
	for {
		if err := d.available.Acquire(ctx, 1); err != nil {
			return err
		}
		d.mu.Lock()
		msg := d.queue[0]
		d.queue = d.queue[1:]
		d.mu.Unlock()

		log.Printf("dispatch: executing request id=%d pid=%d", msg.ID, msg.PID)
		resp := d.execute(msg)
		log.Printf("dispatch: completed request id=%d code=%d", msg.ID, resp.Code)
		d.transport.Deliver(resp)
	}
}
