//go:build !linux

package main

// lockToOSThreadWithPriority is a no-op outside Linux: the
// unix.Setpriority demonstration only applies where golang.org/x/sys/unix
// exposes it.
func lockToOSThreadWithPriority() {}

func unlockOSThread() {}
