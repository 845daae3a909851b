package kernel

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCounterS4IncDecValue(t *testing.T) {
	var c CounterTable
	h := c.Init(7)
	c.Increment(h)
	c.Increment(h)
	c.Decrement(h)
	assert.Equal(t, uint32(8), c.Value(h))
}

func TestCounterSaturatesAtZero(t *testing.T) {
	var c CounterTable
	h := c.Init(0)
	for i := 0; i < 10; i++ {
		c.Decrement(h)
	}
	assert.Equal(t, uint32(0), c.Value(h))
	c.Increment(h)
	assert.Equal(t, uint32(1), c.Value(h))
}

func TestCounterUnknownHandleIsNoop(t *testing.T) {
	var c CounterTable
	assert.Equal(t, uint32(0), c.Value(0))
	c.Increment(0) // must not panic
	c.Decrement(999)
}

func TestCounterFreeThenUnknown(t *testing.T) {
	var c CounterTable
	h := c.Init(5)
	c.Free(h)
	assert.Equal(t, uint32(0), c.Value(h))
	c.Increment(h)
	assert.Equal(t, uint32(0), c.Value(h))
}

func TestCounterInitReturnsZeroWhenFull(t *testing.T) {
	var c CounterTable
	var last CounterHandle
	for {
		h := c.Init(0)
		if h == 0 {
			break
		}
		last = h
	}
	assert.NotZero(t, last)
}
