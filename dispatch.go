package kernel

import (
	"time"

	"github.com/arcadekernel/naomikernel/internal/logging"
)

// Syscall numbers. #4 starts a stopped thread; #5 stops a running one.
const (
	SyscallCounterIncrement = 0
	SyscallCounterDecrement = 1
	SyscallCounterValue     = 2
	SyscallThreadYield      = 3
	SyscallThreadStart      = 4
	SyscallThreadStop       = 5
	SyscallThreadPriority   = 6
	SyscallThreadID         = 7
)

// Kernel ties a ThreadTable, CounterTable, and SemaphoreTable together
// and implements the syscall dispatcher and timer-tick preemption path.
type Kernel struct {
	Threads    *ThreadTable
	Counters   *CounterTable
	Semaphores *SemaphoreTable
	Metrics    *Metrics

	logger *logging.Logger
}

// NewKernel wires a Kernel around an already-constructed ThreadTable.
func NewKernel(threads *ThreadTable) *Kernel {
	return &Kernel{
		Threads:    threads,
		Counters:   &CounterTable{},
		Semaphores: &SemaphoreTable{},
		Metrics:    NewMetrics(),
		logger:     logging.Default(),
	}
}

// SetLogger replaces k's logger, and the ThreadTable's, so dispatch-loop
// tracing and thread lifecycle logging share one configured destination.
func (k *Kernel) SetLogger(l *logging.Logger) {
	k.logger = l
	k.Threads.SetLogger(l)
}

// Tick is the timer-tick handler's entry point: the preemption path. It
// always requests CURRENT scheduling — the current thread keeps running
// if it still can, otherwise another is selected.
func (k *Kernel) Tick(current *Context) *Context {
	next := Schedule(k.Threads, current, CURRENT)
	switched := next != current
	k.Metrics.RecordTick(switched)
	k.logger.Debug("tick", "switched", switched)
	return next
}

// Trap is the software-trap handler's entry point: dispatches on a
// syscall number in 0..7 against frame, mutates thread/counter state,
// and returns the context the dispatcher should resume. Unknown syscall
// numbers are no-ops scheduled with CURRENT.
//
// frame.Gp[0] is the return-value slot; frame.Gp[4] and frame.Gp[5] are
// the first two arguments.
func (k *Kernel) Trap(current *Context, frame *Context, num int) *Context {
	req := CURRENT
	known := true
	start := time.Now()

	switch num {
	case SyscallCounterIncrement:
		k.Counters.Increment(CounterHandle(frame.Gp[4]))

	case SyscallCounterDecrement:
		k.Counters.Decrement(CounterHandle(frame.Gp[4]))

	case SyscallCounterValue:
		frame.Gp[0] = k.Counters.Value(CounterHandle(frame.Gp[4]))

	case SyscallThreadYield:
		req = OTHER

	case SyscallThreadStart:
		k.Threads.Start(frame.Gp[4])
		req = ANY

	case SyscallThreadStop:
		k.Threads.Stop(frame.Gp[4])
		req = ANY

	case SyscallThreadPriority:
		k.Threads.SetPriority(frame.Gp[4], int32(frame.Gp[5]))
		req = ANY

	case SyscallThreadID:
		frame.Gp[0] = k.Threads.IDOf(current)

	default:
		// unknown trap number: no-op, CURRENT scheduling.
		known = false
	}

	next := Schedule(k.Threads, current, req)
	switched := next != current
	k.Metrics.RecordTrap(num, known, switched, time.Since(start))
	k.logger.WithSyscall(num).Debug("trap dispatched", "known", known, "switched", switched)
	return next
}
