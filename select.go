package chanlib

import "math/rand/v2"

// Selectable is the type accepted by Select, TrySend, and TryReceive.
// Every *Channel[T], for any T, implements it automatically. The
// methods are unexported, so only this package can produce a
// Selectable, the same way chan_select only ever ranges over its own
// chan_t* (chan.h). This lets Select range over a heterogeneous mix of
// differently-typed channels in one call.
type Selectable interface {
	canRecv() bool
	canSend() bool
	recvAny() (any, error)
	sendAny(any) error
}

// Select implements the one-shot, non-blocking-in-intent multi-way
// selection primitive: it probes every candidate receive in recvChans
// and every candidate send in sendChans (paired positionally with
// sendValues), picks one ready candidate uniformly at random, and
// commits to it.
//
// The returned index identifies the chosen operation's position in the
// combined sequence (receives first, then sends), or -1 if no candidate
// was ready, or if the chosen candidate's commit failed. For a chosen
// receive that succeeds, the received value is also returned.
//
// Known liveness caveat: probing and committing are not atomic. A
// candidate observed ready during the probe phase may have stopped
// being ready by the time Select commits to it, since another
// goroutine may have raced in between. When that happens the commit
// can itself block, and if it ultimately fails (e.g. the channel
// closed while Select was blocked inside the commit), Select returns
// -1. Callers that need a truly non-blocking select must not rely on
// this primitive's commit phase being non-blocking; chan_select
// carries the same caveat as a documented "TODO: Add support for
// blocking selects."
func Select(recvChans []Selectable, sendChans []Selectable, sendValues []any) (int, any) {
	if len(sendChans) != len(sendValues) {
		panic("chanlib: Select: sendChans and sendValues must be the same length")
	}

	type candidate struct {
		idx  int
		recv bool
	}

	candidates := make([]candidate, 0, len(recvChans)+len(sendChans))
	for i, c := range recvChans {
		if c.canRecv() {
			candidates = append(candidates, candidate{idx: i, recv: true})
		}
	}
	for i, c := range sendChans {
		if c.canSend() {
			candidates = append(candidates, candidate{idx: len(recvChans) + i, recv: false})
		}
	}

	if len(candidates) == 0 {
		return -1, nil
	}

	// Selection phase: uniform random draw. math/rand/v2's top-level
	// generator is auto-seeded and safe for concurrent use, unlike
	// chan_select, which reseeds a single process-global generator from
	// the wall clock on every call. This keeps the same observable
	// uniform-random behavior without that shared mutable state.
	chosen := candidates[rand.IntN(len(candidates))]

	// Commit phase.
	if chosen.recv {
		value, err := recvChans[chosen.idx].recvAny()
		if err != nil {
			return -1, nil
		}
		return chosen.idx, value
	}

	sendIdx := chosen.idx - len(recvChans)
	if err := sendChans[sendIdx].sendAny(sendValues[sendIdx]); err != nil {
		return -1, nil
	}
	return chosen.idx, nil
}

// TrySend attempts a non-blocking send, generalized from chan_can_send
// (previously usable only inside chan_select) into a standalone public
// operation. It reports false, nil if the channel was not immediately
// ready to accept value. It carries the same probe/commit race as
// Select: a channel observed sendable can stop being so before the
// commit, in which case this call blocks until it resolves.
func TrySend[T any](c *Channel[T], value T) (bool, error) {
	if !c.canSend() {
		return false, nil
	}
	if err := c.Send(value); err != nil {
		return false, err
	}
	return true, nil
}

// TryReceive attempts a non-blocking receive, generalized from the
// source's chan_can_recv probe. It reports false, nil if the channel
// had nothing immediately available to receive.
func TryReceive[T any](c *Channel[T]) (T, bool, error) {
	var zero T
	if !c.canRecv() {
		return zero, false, nil
	}
	value, err := c.Receive()
	if err != nil {
		return zero, false, err
	}
	return value, true, nil
}
