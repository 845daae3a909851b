package kernel

import "sync"

// FakeContextAllocator is a ContextAllocator backed by ordinary heap
// allocation, standing in for the platform's real saved-frame allocator
// in tests and in the simulator binary. It also tracks call counts so
// tests can assert allocator usage directly.
type FakeContextAllocator struct {
	mu sync.Mutex

	allocCalls int
	freeCalls  int
	live       map[*Context]bool
}

// NewFakeContextAllocator returns a ready-to-use FakeContextAllocator.
func NewFakeContextAllocator() *FakeContextAllocator {
	return &FakeContextAllocator{live: make(map[*Context]bool)}
}

// NewContext implements ContextAllocator. entry and stackTop are recorded
// nowhere — the fake has no real CPU to resume onto — but the returned
// Context is a distinct, comparable identity suitable for table lookups.
func (f *FakeContextAllocator) NewContext(entry func(), stackTop uintptr) *Context {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.allocCalls++
	c := &Context{}
	f.live[c] = true
	return c
}

// FreeContext implements ContextAllocator.
func (f *FakeContextAllocator) FreeContext(c *Context) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.freeCalls++
	delete(f.live, c)
}

// AllocCalls returns the number of NewContext calls observed.
func (f *FakeContextAllocator) AllocCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.allocCalls
}

// FreeCalls returns the number of FreeContext calls observed.
func (f *FakeContextAllocator) FreeCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.freeCalls
}

// Live returns the number of contexts allocated but not yet freed.
func (f *FakeContextAllocator) Live() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.live)
}

// NewTestKernel builds a Kernel with a fresh ThreadTable backed by a
// FakeContextAllocator, suitable for unit tests that don't need a real
// interrupt substrate. The returned main context is the one a test should
// pass as "current" when it starts out as the main thread.
func NewTestKernel() (k *Kernel, mainContext *Context, alloc *FakeContextAllocator) {
	alloc = NewFakeContextAllocator()
	mainContext = &Context{}
	table := NewThreadTable(alloc, mainContext)
	return NewKernel(table), mainContext, alloc
}
