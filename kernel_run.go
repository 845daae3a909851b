package kernel

import (
	"context"
	"runtime"
	"time"

	"golang.org/x/sys/unix"

	"github.com/arcadekernel/naomikernel/internal/constants"
	"github.com/arcadekernel/naomikernel/internal/logging"
)

// Params configures a Runtime's dispatch loop.
type Params struct {
	// TickInterval is the simulated timer-tick period driving preemption.
	TickInterval time.Duration

	// CPUAffinity, if non-empty, pins the dispatch loop's OS thread to the
	// first of these CPUs.
	CPUAffinity []int

	// Logger receives dispatch-loop diagnostics. Defaults to the package
	// default logger if nil.
	Logger *logging.Logger
}

// DefaultParams returns a tick interval of constants.DispatchTickInterval
// and no CPU pinning.
func DefaultParams() Params {
	return Params{TickInterval: constants.DispatchTickInterval}
}

// Runtime drives a Kernel's dispatch loop: it owns the "current context"
// state a real interrupt handler would carry in a register, advancing it
// on every timer tick and exposing Trap for software-triggered syscalls.
type Runtime struct {
	kernel *Kernel
	params Params
	logger *logging.Logger

	current *Context
}

// NewRuntime builds a Runtime around k, starting from mainContext as the
// currently-running thread.
func NewRuntime(k *Kernel, mainContext *Context, params Params) *Runtime {
	logger := params.Logger
	if logger == nil {
		logger = logging.Default()
	}
	if params.TickInterval == 0 {
		params.TickInterval = constants.DispatchTickInterval
	}
	k.SetLogger(logger)
	return &Runtime{kernel: k, params: params, logger: logger, current: mainContext}
}

// Current returns the context the Runtime believes is presently running.
func (rt *Runtime) Current() *Context {
	return rt.current
}

// Trap forwards to the Kernel's dispatcher using the Runtime's notion of
// "current", updating it with the result.
func (rt *Runtime) Trap(num int, frame *Context) *Context {
	rt.current = rt.kernel.Trap(rt.current, frame, num)
	return rt.current
}

// Run pins the calling goroutine to its OS thread — optionally to a
// specific CPU — and drives Kernel.Tick on every TickInterval until ctx
// is cancelled. It is meant to be run in its own goroutine, owning that
// OS thread for its lifetime.
func (rt *Runtime) Run(ctx context.Context) error {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	if len(rt.params.CPUAffinity) > 0 {
		var mask unix.CPUSet
		mask.Set(rt.params.CPUAffinity[0])
		if err := unix.SchedSetaffinity(0, &mask); err != nil {
			rt.logger.Warnf("failed to set CPU affinity: %v", err)
		}
	}

	ticker := time.NewTicker(rt.params.TickInterval)
	defer ticker.Stop()

	rt.logger.Info("dispatch loop starting")
	for {
		select {
		case <-ctx.Done():
			rt.logger.Info("dispatch loop stopping")
			return ctx.Err()
		case <-ticker.C:
			rt.current = rt.kernel.Tick(rt.current)
		}
	}
}
