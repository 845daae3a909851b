package kernel

import "github.com/arcadekernel/naomikernel/internal/constants"

// CounterHandle is an opaque identity for a global counter: a 1-based
// table index, with 0 reserved as "unknown/absent". Opaque integer
// handles fit the syscall surface's uint32 register slots directly and
// avoid aliasing hazards that raw pointer identity would carry.
type CounterHandle uint32

// CounterTable is the fixed-capacity table of global counters. All
// operations run inside the syscall dispatcher, which already serializes
// them against scheduling; CounterTable itself adds no locking of its
// own.
type CounterTable struct {
	occupied [constants.MaxGlobalCounters]bool
	values   [constants.MaxGlobalCounters]uint32
}

// Init locates the first empty slot, stores v, and returns its handle.
// Returns 0 (unknown) if the table is full.
func (c *CounterTable) Init(v uint32) CounterHandle {
	for i := range c.occupied {
		if !c.occupied[i] {
			c.occupied[i] = true
			c.values[i] = v
			return CounterHandle(i + 1)
		}
	}
	return 0
}

// Free releases h's slot. Unknown handles are ignored.
func (c *CounterTable) Free(h CounterHandle) {
	i, ok := c.index(h)
	if !ok {
		return
	}
	c.occupied[i] = false
	c.values[i] = 0
}

// Increment adds 1 to the counter at h. Unknown handles are a no-op.
func (c *CounterTable) Increment(h CounterHandle) {
	if i, ok := c.index(h); ok {
		c.values[i]++
	}
}

// Decrement subtracts 1 from the counter at h, saturating at 0.
func (c *CounterTable) Decrement(h CounterHandle) {
	i, ok := c.index(h)
	if !ok {
		return
	}
	if c.values[i] > 0 {
		c.values[i]--
	}
}

// Value reads the counter at h, or 0 if h is unknown.
func (c *CounterTable) Value(h CounterHandle) uint32 {
	i, ok := c.index(h)
	if !ok {
		return 0
	}
	return c.values[i]
}

func (c *CounterTable) index(h CounterHandle) (int, bool) {
	if h == 0 || int(h) > len(c.occupied) {
		return 0, false
	}
	i := int(h) - 1
	if !c.occupied[i] {
		return 0, false
	}
	return i, true
}
