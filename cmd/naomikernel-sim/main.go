// Command naomikernel-sim runs a small in-process demonstration of the
// kernel: it creates two worker threads at the same priority, drives the
// dispatch loop against a simulated timer for -duration (or until
// interrupted), and exchanges a few messages over a loopback transport,
// printing one line of metrics when the loop ends.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	kernel "github.com/arcadekernel/naomikernel"
	"github.com/arcadekernel/naomikernel/internal/logging"
	"github.com/arcadekernel/naomikernel/internal/transport"
)

func main() {
	var (
		verbose  = flag.Bool("v", false, "verbose output")
		duration = flag.Duration("duration", 3*time.Second, "how long to run the dispatch loop")
		slots    = flag.Int("slots", 32, "transport receive-window slots")
	)
	flag.Parse()

	logConfig := logging.DefaultConfig()
	if *verbose {
		logConfig.Level = logging.LevelDebug
	}
	logger := logging.NewLogger(logConfig)
	logging.SetDefault(logger)

	alloc := kernel.NewFakeContextAllocator()
	mainContext := &kernel.Context{}
	threads := kernel.NewThreadTable(alloc, mainContext)
	k := kernel.NewKernel(threads)

	workerA := threads.Create("worker-a", func(arg any) any {
		return nil
	}, nil)
	workerB := threads.Create("worker-b", func(arg any) any {
		return nil
	}, nil)
	threads.SetPriority(workerA, 1)
	threads.SetPriority(workerB, 1)
	threads.Start(workerA)
	threads.Start(workerB)

	logger.Info("threads created", "worker_a", workerA, "worker_b", workerB)

	loop := transport.NewLoopback(*slots)
	messenger := kernel.NewMessenger(loop, k.Metrics)

	rt := kernel.NewRuntime(k, mainContext, kernel.DefaultParams())

	ctx, cancel := context.WithTimeout(context.Background(), *duration)
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		cancel()
	}()

	go func() {
		ticker := time.NewTicker(200 * time.Millisecond)
		defer ticker.Stop()
		seq := 0
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				payload := []byte(fmt.Sprintf("tick-%d", seq))
				if err := messenger.Send(1, payload); err != nil {
					logger.Warnf("send failed: %v", err)
				}
				if _, data, err := messenger.Recv(); err == nil {
					logger.Debugf("received %d bytes", len(data))
					messenger.Release(data)
				}
				seq++
			}
		}
	}()

	if err := rt.Run(ctx); err != nil && !errors.Is(err, context.DeadlineExceeded) && !errors.Is(err, context.Canceled) {
		logger.Error("dispatch loop exited with error", "error", err)
	}

	snap := k.Metrics.Snapshot()
	fmt.Printf("syscalls=%d ticks=%d context_switches=%d sent=%d received=%d\n",
		snap.SyscallCount, snap.TickCount, snap.ContextSwitches, snap.MessagesSent, snap.MessagesReceived)
}
