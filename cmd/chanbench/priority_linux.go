//go:build linux

package main

import (
	"runtime"

	"golang.org/x/sys/unix"
)

// lockToOSThreadWithPriority pins the calling goroutine to its current
// OS thread and nudges that thread's scheduling priority, making the
// spec's "preemptive OS threads sharing an address space" model
// concrete rather than just goroutines multiplexed by the Go runtime.
// The priority nudge is best-effort: a non-root caller typically can't
// raise priority, and that failure is not fatal to the benchmark.
func lockToOSThreadWithPriority() {
	runtime.LockOSThread()
	_ = unix.Setpriority(unix.PRIO_PROCESS, 0, 0)
}

func unlockOSThread() {
	runtime.UnlockOSThread()
}
