package harness

import (
	"sync/atomic"

	"github.com/google/uuid"
)

// Handle refers to a spawned worker. It is owned by the caller of Spawn and
// must be passed to Join of the same harness exactly once.
type Handle struct {
	id    uint64
	owner uuid.UUID
	item  WorkItem

	state  atomic.Int32
	joined atomic.Bool

	// launched is closed once the spawn has been reported to observers.
	launched chan struct{}
	// done is closed after result has been written.
	done   chan struct{}
	result Result
}

func newHandle(owner uuid.UUID, id uint64, item WorkItem) *Handle {
	return &Handle{
		id:       id,
		owner:    owner,
		item:     item,
		launched: make(chan struct{}),
		done:     make(chan struct{}),
	}
}

// ID returns the worker's sequence number within its harness.
func (h *Handle) ID() uint64 { return h.id }

// Item returns the work item the worker was given.
func (h *Handle) Item() WorkItem { return h.item }

// State returns the worker's current lifecycle state.
func (h *Handle) State() State { return State(h.state.Load()) }

// Done returns a channel closed when the worker has terminated.
func (h *Handle) Done() <-chan struct{} { return h.done }

// Joined reports whether the handle has already been consumed by Join.
func (h *Handle) Joined() bool { return h.joined.Load() }

func (h *Handle) setState(s State) { h.state.Store(int32(s)) }
