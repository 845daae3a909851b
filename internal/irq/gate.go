// Package irq provides the scoped critical-section primitive that stands
// in for a hardware interrupt-disable/restore pair (irq_disable/
// irq_restore) as an external collaborator. On real hardware this masks
// the interrupt controller; here it is a mutex, since the property that
// matters — every table mutation is serialized against scheduling — is
// what the mutex actually gives us.
package irq

import "sync"

// Gate is the scoped interrupt-disable critical section. Every path that
// inspects or mutates the thread table, counter table, or semaphore table
// must hold a Gate for the duration.
type Gate struct {
	mu sync.Mutex
}

// Token is the "saved mask" returned by Disable. It carries no state of
// its own (there is nothing to nest — see Disable) but keeps the
// disable/restore pairing explicit at call sites, the way a hardware
// irq_disable()/irq_restore(mask) pair does.
type Token struct{}

// Disable acquires the gate and returns a token to pass to Restore.
// Callers must call Restore on every exit path, including error returns.
func (g *Gate) Disable() Token {
	g.mu.Lock()
	return Token{}
}

// Restore releases the gate. The token parameter exists only to mirror
// the hardware irq_restore(mask) signature and to make call sites read as
// disable/restore pairs rather than bare Lock/Unlock.
func (g *Gate) Restore(Token) {
	g.mu.Unlock()
}
