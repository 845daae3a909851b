package kernel

import "github.com/arcadekernel/naomikernel/internal/constants"

// SemaphoreHandle is an opaque identity for a semaphore, 1-based with 0
// reserved for "unknown", the same convention CounterHandle uses.
type SemaphoreHandle uint32

// semaphoreRecord is a {max, current} pair.
type semaphoreRecord struct {
	max     uint32
	current uint32
}

// SemaphoreTable is the fixed-capacity table of semaphores. Acquire and
// Release mutate thread state as well as the semaphore itself, so —
// unlike CounterTable — they take the owning ThreadTable and run under
// its critical section.
type SemaphoreTable struct {
	occupied [constants.MaxSemaphores]bool
	records  [constants.MaxSemaphores]semaphoreRecord
}

// Init allocates a semaphore with the given max and initial count,
// returning its handle, or 0 if the table is full.
func (s *SemaphoreTable) Init(max, initial uint32) SemaphoreHandle {
	for i := range s.occupied {
		if !s.occupied[i] {
			s.occupied[i] = true
			s.records[i] = semaphoreRecord{max: max, current: initial}
			return SemaphoreHandle(i + 1)
		}
	}
	return 0
}

// Free releases h's slot.
func (s *SemaphoreTable) Free(h SemaphoreHandle) {
	i, ok := s.index(h)
	if !ok {
		return
	}
	s.occupied[i] = false
	s.records[i] = semaphoreRecord{}
}

func (s *SemaphoreTable) index(h SemaphoreHandle) (int, bool) {
	if h == 0 || int(h) > len(s.occupied) {
		return 0, false
	}
	i := int(h) - 1
	if !s.occupied[i] {
		return 0, false
	}
	return i, true
}

// Acquire attempts to take one unit of h on behalf of the thread owning
// current. If h has spare capacity, it is taken immediately and the
// caller keeps running. Otherwise the caller transitions Running→Waiting
// with waitingOn set to h, and Acquire reschedules with ANY, returning
// the context of whichever thread the scheduler picks next — the caller
// is not resumed until a matching Release wakes it.
//
// Acquire and Release are host-side helpers like ThreadTable.Create, not
// numbered syscalls; they acquire t's critical section themselves.
func (s *SemaphoreTable) Acquire(t *ThreadTable, current *Context, h SemaphoreHandle) *Context {
	tok := t.irqGate.Disable()
	defer t.irqGate.Restore(tok)

	i, ok := s.index(h)
	if !ok {
		return current
	}
	if s.records[i].current > 0 {
		s.records[i].current--
		return current
	}

	d := t.findByContext(current)
	if d == nil {
		return current
	}
	d.state = Waiting
	d.waitingOn = h
	return Schedule(t, current, ANY)
}

// Release returns one unit of h to the semaphore and, if a thread is
// Waiting on h, transitions the first such thread (in slot order) back to
// Running. Waking a waiter consumes the returned unit on its behalf —
// current is left unchanged in that case, since the unit passes directly
// from releaser to waiter without ever becoming available to a third
// party. Only when no thread is waiting does the unit actually increment
// current, capped at max. It does not itself force a reschedule; the
// woken thread becomes eligible the next time Schedule runs.
func (s *SemaphoreTable) Release(t *ThreadTable, h SemaphoreHandle) {
	tok := t.irqGate.Disable()
	defer t.irqGate.Restore(tok)

	i, ok := s.index(h)
	if !ok {
		return
	}
	for j := range t.slots {
		d := &t.slots[j]
		if d.occupied && d.state == Waiting && d.waitingOn == h {
			d.state = Running
			d.waitingOn = 0
			return
		}
	}
	if s.records[i].current < s.records[i].max {
		s.records[i].current++
	}
}
