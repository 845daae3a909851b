package kernel

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arcadekernel/naomikernel/internal/constants"
)

func noopEntry(arg any) any { return arg }

func TestNewThreadTableInstallsMainAndIdle(t *testing.T) {
	alloc := NewFakeContextAllocator()
	mainCtx := &Context{}
	table := NewThreadTable(alloc, mainCtx)

	idleID := table.IdleThreadID()
	require.NotZero(t, idleID)

	idleInfo := table.GetInfo(idleID)
	assert.True(t, idleInfo.Running)
	assert.Equal(t, constants.MinPriority, idleInfo.Priority)
}

func TestCreateStartStopDestroyLifecycle(t *testing.T) {
	alloc := NewFakeContextAllocator()
	table := NewThreadTable(alloc, &Context{})

	id := table.Create("worker", noopEntry, nil)
	require.NotZero(t, id)

	info := table.GetInfo(id)
	assert.True(t, info.Alive)
	assert.False(t, info.Running)

	require.True(t, table.Start(id))
	info = table.GetInfo(id)
	assert.True(t, info.Running)

	require.True(t, table.Stop(id))
	info = table.GetInfo(id)
	assert.True(t, info.Alive)
	assert.False(t, info.Running)

	table.Destroy(id)
	info = table.GetInfo(id)
	assert.Equal(t, Info{}, info)
}

func TestStartFailsWhenNotStopped(t *testing.T) {
	alloc := NewFakeContextAllocator()
	table := NewThreadTable(alloc, &Context{})
	id := table.Create("worker", noopEntry, nil)
	require.True(t, table.Start(id))
	assert.False(t, table.Start(id)) // already Running
}

func TestCreateReturnsZeroWhenTableFull(t *testing.T) {
	alloc := NewFakeContextAllocator()
	table := NewThreadTable(alloc, &Context{})

	var last uint32
	for {
		id := table.Create("w", noopEntry, nil)
		if id == 0 {
			break
		}
		last = id
	}
	assert.NotZero(t, last)
}

func TestDestroyFreesNonMainContext(t *testing.T) {
	alloc := NewFakeContextAllocator()
	table := NewThreadTable(alloc, &Context{})
	id := table.Create("worker", noopEntry, nil)

	before := alloc.FreeCalls()
	table.Destroy(id)
	assert.Equal(t, before+1, alloc.FreeCalls())
}

func TestGetInfoUnknownIDIsZeroValue(t *testing.T) {
	alloc := NewFakeContextAllocator()
	table := NewThreadTable(alloc, &Context{})
	assert.Equal(t, Info{}, table.GetInfo(99999))
}

func TestIDOfReturnsZeroForUnknownContext(t *testing.T) {
	alloc := NewFakeContextAllocator()
	table := NewThreadTable(alloc, &Context{})
	assert.Equal(t, uint32(0), table.IDOf(&Context{}))
}
