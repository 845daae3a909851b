package kernel

// Request is a scheduling request, passed to Schedule alongside the
// currently-running context.
type Request int

const (
	// CURRENT keeps the current thread running if it still can.
	CURRENT Request = iota
	// OTHER prefers any other Running thread in the current priority band.
	OTHER
	// ANY re-evaluates the table without favoring the current thread; the
	// band walk still starts just after the current thread's slot.
	ANY
)

// Schedule is a pure function from (table, current context, request) to
// the context that should run next. It performs no allocation, no I/O,
// and no interrupt manipulation — callers must already hold the table's
// critical section.
func Schedule(t *ThreadTable, current *Context, req Request) *Context {
	cur := t.findByContext(current)
	if cur == nil {
		// Unreachable in practice: every live Context belongs to some
		// slot. Defensive fallback rather than a crash.
		return current
	}

	excludeCurrent := req == OTHER

	p := maxRunningPriority(t, cur, excludeCurrent)

	// CURRENT only keeps the current thread if nothing outranks it — a
	// CURRENT request still yields to a strictly higher-priority Running
	// thread, since it is also the preemption path driven by the timer
	// tick.
	if req == CURRENT && cur.state == Running && cur.priority == p {
		return current
	}

	// Round robin within the band starting just after cur's slot.
	curIdx := slotIndex(t, cur)
	if n := nextInBand(t, p, curIdx); n != nil {
		return n.context
	}
	// Wrap: first band member from the start, which may be cur itself
	// only if it is the band's sole member.
	if n := firstInBand(t, p); n != nil {
		return n.context
	}

	// Unreachable: the idle thread is always Running, so some band always
	// has a member.
	return current
}

func slotIndex(t *ThreadTable, d *descriptor) int {
	for i := range t.slots {
		if &t.slots[i] == d {
			return i
		}
	}
	return -1
}

// maxRunningPriority returns the maximum priority among Running threads,
// optionally excluding cur. If exclusion leaves no candidate, it falls
// through to the idle thread's priority (the idle thread is always
// Running, so this always succeeds).
func maxRunningPriority(t *ThreadTable, cur *descriptor, excludeCurrent bool) int32 {
	best := int32(0)
	found := false
	for i := range t.slots {
		d := &t.slots[i]
		if !d.occupied || d.state != Running {
			continue
		}
		if excludeCurrent && d == cur {
			continue
		}
		if !found || d.priority > best {
			best = d.priority
			found = true
		}
	}
	if !found {
		return t.slots[slotIndexByID(t, t.idleID)].priority
	}
	return best
}

func slotIndexByID(t *ThreadTable, id uint32) int {
	for i := range t.slots {
		if t.slots[i].occupied && t.slots[i].id == id {
			return i
		}
	}
	return -1
}

// nextInBand walks the table starting just after startIdx, returning the
// first Running descriptor at priority p.
func nextInBand(t *ThreadTable, p int32, startIdx int) *descriptor {
	n := len(t.slots)
	for step := 1; step <= n; step++ {
		i := (startIdx + step) % n
		d := &t.slots[i]
		if d.occupied && d.state == Running && d.priority == p && i != startIdx {
			return d
		}
	}
	return nil
}

// firstInBand returns the first Running descriptor at priority p in slot
// order.
func firstInBand(t *ThreadTable, p int32) *descriptor {
	for i := range t.slots {
		d := &t.slots[i]
		if d.occupied && d.state == Running && d.priority == p {
			return d
		}
	}
	return nil
}
