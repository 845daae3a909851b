// Package constants holds the compile-time tunables of the kernel core.
package constants

import "time"

// Table capacities.
const (
	// MaxThreads is the fixed capacity of the thread table.
	MaxThreads = 64

	// MaxGlobalCounters is the fixed capacity of the global counter table.
	MaxGlobalCounters = 32

	// MaxSemaphores is the fixed capacity of the semaphore table.
	MaxSemaphores = 32

	// MaxOutstandingPackets is a receive-window size for transports. The
	// codec does not read it: wire.Recv scans as many slots as the
	// transport's Slots method reports.
	MaxOutstandingPackets = 32

	// ThreadStackSize is the size in bytes of a thread's owned stack buffer.
	ThreadStackSize = 16 * 1024

	// MaxPacketLength is the transport MTU: the maximum bytes per packet,
	// header included.
	MaxPacketLength = 256
)

// FragmentHeaderSize is the on-wire size of a message fragment header
// (type, sequence, total_length, offset; 2 bytes each, little-endian).
const FragmentHeaderSize = 8

// FragmentPayloadSize is the payload capacity of a single fragment:
// MaxPacketLength - FragmentHeaderSize.
const FragmentPayloadSize = MaxPacketLength - FragmentHeaderSize

// MaxMessageLength is the largest message the codec will fragment: the
// on-wire total_length field is a u16.
const MaxMessageLength = 65535

// MinPriority is the idle thread's priority: no ordinary thread may use it.
const MinPriority = int32(-1 << 31)

// DispatchTickInterval is the default period of the simulated timer tick
// driving preemptive rescheduling in Runtime.Run.
const DispatchTickInterval = 2 * time.Millisecond
