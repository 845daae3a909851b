package kernel

import (
	"github.com/arcadekernel/naomikernel/internal/constants"
	"github.com/arcadekernel/naomikernel/internal/irq"
	"github.com/arcadekernel/naomikernel/internal/logging"
)

// ThreadState is a descriptor's position in its lifecycle.
type ThreadState int

const (
	Stopped ThreadState = iota
	Running
	Finished
	Zombie
	Waiting
)

func (s ThreadState) String() string {
	switch s {
	case Stopped:
		return "stopped"
	case Running:
		return "running"
	case Finished:
		return "finished"
	case Zombie:
		return "zombie"
	case Waiting:
		return "waiting"
	default:
		return "unknown"
	}
}

// EntryFunc is a thread's entry point: it receives the opaque argument
// passed to Create and returns an opaque result stored in the
// descriptor's result slot for later retrieval.
type EntryFunc func(arg any) any

// descriptor is one slot in the thread table. Context is the saved
// register frame this thread resumes into; it is owned by the descriptor
// (allocated via a ContextAllocator) unless Main is set, in which case the
// caller that bootstrapped the table owns it.
type descriptor struct {
	occupied bool

	name     string
	id       uint32
	priority int32
	state    ThreadState

	waitingOn SemaphoreHandle // non-zero iff state == Waiting on a semaphore
	joining   uint32          // id of a thread this one is joining, 0 if none
	main      bool

	context *Context
	stack   []byte
	result  any
}

// Info is the public, copy-out view of a descriptor returned by
// ThreadTable.GetInfo.
type Info struct {
	Name     string
	Priority int32
	Alive    bool
	Running  bool
}

// maxNameLen bounds a thread's name to 63 characters; names longer than
// this are truncated at Create.
const maxNameLen = 63

// ThreadTable is the fixed-capacity, process-wide table of thread
// descriptors. Every method that inspects or mutates it acquires irqGate,
// a scoped interrupt-disable region around every table-touching helper.
type ThreadTable struct {
	irqGate irq.Gate
	slots   [constants.MaxThreads]descriptor
	nextID  uint32
	idleID  uint32
	alloc   ContextAllocator
	logger  *logging.Logger
}

// SetLogger replaces t's logger. Intended for wiring a Runtime's
// configured logger down into the table it drives; unset tables log
// through logging.Default().
func (t *ThreadTable) SetLogger(l *logging.Logger) {
	t.logger = l
}

// ContextAllocator allocates and frees saved-register contexts, standing
// in for whatever saved-frame allocator the target platform's interrupt
// substrate provides. Production code backs this with the real thing;
// tests use a fake.
type ContextAllocator interface {
	NewContext(entry func(), stackTop uintptr) *Context
	FreeContext(c *Context)
}

// Context is an opaque saved-register frame sufficient to resume a
// thread. Gp holds the general-purpose argument/return register slots the
// syscall dispatcher reads and writes: slot 0 is the return value, slots
// 4 and 5 are arguments.
type Context struct {
	Gp [8]uint32
}

// NewThreadTable builds an empty table backed by alloc, then installs the
// main thread (id 1, priority 0, state Running, Main=true, externally
// owned context) and the idle thread (minimum priority, state Running
// forever).
func NewThreadTable(alloc ContextAllocator, mainContext *Context) *ThreadTable {
	t := &ThreadTable{alloc: alloc, nextID: 1, logger: logging.Default()}

	mainSlot := &t.slots[0]
	mainSlot.occupied = true
	mainSlot.name = "main"
	mainSlot.id = t.allocID()
	mainSlot.state = Running
	mainSlot.main = true
	mainSlot.context = mainContext

	idleSlot := &t.slots[1]
	idleSlot.occupied = true
	idleSlot.name = "idle"
	idleSlot.id = t.allocID()
	idleSlot.priority = constants.MinPriority
	idleSlot.state = Running
	idleSlot.context = alloc.NewContext(idleLoop, 0)
	t.idleID = idleSlot.id

	return t
}

// idleLoop is installed as the idle thread's entry; real platforms point
// the allocated context's PC at a tight yield loop instead of calling this
// directly, but it documents the intended behavior.
func idleLoop() {
	for {
	}
}

func (t *ThreadTable) allocID() uint32 {
	id := t.nextID
	t.nextID++
	if t.nextID == 0 {
		t.nextID = 1 // 0 is the "absent" sentinel; skip it on wrap.
	}
	return id
}

// findByID returns the slot holding id, or nil. Caller must hold irqGate.
func (t *ThreadTable) findByID(id uint32) *descriptor {
	if id == 0 {
		return nil
	}
	for i := range t.slots {
		if t.slots[i].occupied && t.slots[i].id == id {
			return &t.slots[i]
		}
	}
	return nil
}

// findByContext returns the slot whose context pointer equals c, or nil.
// Used by the scheduler to resolve "the current thread".
func (t *ThreadTable) findByContext(c *Context) *descriptor {
	for i := range t.slots {
		if t.slots[i].occupied && t.slots[i].context == c {
			return &t.slots[i]
		}
	}
	return nil
}

// findEmptySlot returns the first unoccupied slot, or nil if the table is
// full.
func (t *ThreadTable) findEmptySlot() *descriptor {
	for i := range t.slots {
		if !t.slots[i].occupied {
			return &t.slots[i]
		}
	}
	return nil
}

// trampoline wraps entry so that, on return, the descriptor records the
// result and transitions to Finished. The wrapper then returns to its
// caller; it does not yield. Being Finished alone keeps the thread from
// being scheduled again.
func trampoline(d *descriptor, entry EntryFunc, arg any) func() {
	return func() {
		d.result = entry(arg)
		d.state = Finished
	}
}

// Create allocates a descriptor in state Stopped with a freshly allocated
// stack and saved context. It returns 0 (the absent sentinel) if the
// table has no free slot.
func (t *ThreadTable) Create(name string, entry EntryFunc, arg any) uint32 {
	tok := t.irqGate.Disable()
	defer t.irqGate.Restore(tok)

	d := t.findEmptySlot()
	if d == nil {
		return 0
	}

	if len(name) > maxNameLen {
		name = name[:maxNameLen]
	}

	stack := make([]byte, constants.ThreadStackSize)
	*d = descriptor{
		occupied: true,
		name:     name,
		id:       t.allocID(),
		state:    Stopped,
		stack:    stack,
	}
	stackTop := uintptr(len(stack))
	d.context = t.alloc.NewContext(trampoline(d, entry, arg), stackTop)
	t.logger.WithThread(d.id).Info("thread created", "name", name)
	return d.id
}

// Start transitions id from Stopped to Running if found, a no-op
// otherwise. Returns true iff the transition happened; callers that need
// a subsequent reschedule do so via the syscall dispatcher, not here.
func (t *ThreadTable) Start(id uint32) bool {
	tok := t.irqGate.Disable()
	defer t.irqGate.Restore(tok)

	d := t.findByID(id)
	if d == nil || d.state != Stopped {
		return false
	}
	d.state = Running
	t.logger.WithThread(id).Info("thread started")
	return true
}

// Stop transitions id from Running to Stopped if found.
func (t *ThreadTable) Stop(id uint32) bool {
	tok := t.irqGate.Disable()
	defer t.irqGate.Restore(tok)

	d := t.findByID(id)
	if d == nil || d.state != Running {
		return false
	}
	d.state = Stopped
	t.logger.WithThread(id).Info("thread stopped")
	return true
}

// SetPriority updates id's priority if found.
func (t *ThreadTable) SetPriority(id uint32, priority int32) bool {
	tok := t.irqGate.Disable()
	defer t.irqGate.Restore(tok)

	d := t.findByID(id)
	if d == nil {
		return false
	}
	d.priority = priority
	return true
}

// GetInfo returns {name, priority, alive, running} for id, or a
// zero-filled Info if id is unknown.
func (t *ThreadTable) GetInfo(id uint32) Info {
	tok := t.irqGate.Disable()
	defer t.irqGate.Restore(tok)

	d := t.findByID(id)
	if d == nil {
		return Info{}
	}
	return Info{
		Name:     d.name,
		Priority: d.priority,
		Alive:    d.state == Stopped || d.state == Running || d.state == Waiting,
		Running:  d.state == Running,
	}
}

// IDOf returns the id of the thread owning context c, or 0 if none.
func (t *ThreadTable) IDOf(c *Context) uint32 {
	tok := t.irqGate.Disable()
	defer t.irqGate.Restore(tok)

	d := t.findByContext(c)
	if d == nil {
		return 0
	}
	return d.id
}

// Destroy frees id's descriptor outright: no join, no Waiting/Finished
// bookkeeping — a thread destroyed while another depends on it is the
// caller's responsibility. Owned stack and context are released unless
// the descriptor is main.
func (t *ThreadTable) Destroy(id uint32) {
	tok := t.irqGate.Disable()
	defer t.irqGate.Restore(tok)

	d := t.findByID(id)
	if d == nil {
		return
	}
	if !d.main && d.context != nil {
		t.alloc.FreeContext(d.context)
	}
	*d = descriptor{}
}

// IdleThreadID returns the id of the distinguished idle thread.
func (t *ThreadTable) IdleThreadID() uint32 {
	return t.idleID
}
