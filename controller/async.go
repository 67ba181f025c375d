package controller

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/go-mclib/mcio/types"
)

// defaultMaxSkip bounds SendAndRecvMatch's discard loop when the caller
// doesn't specify one.
const defaultMaxSkip = 5

// AsyncController keeps only the most recently received observation,
// fed by a background receiver goroutine, while still letting a caller
// wait for an observation known to postdate a given action.
type AsyncController struct {
	c      conn
	logger Logger

	sequence    int64
	modeChecked atomic.Bool

	slot chan *types.Observation

	stopCh    chan struct{}
	closeOnce sync.Once
	wg        sync.WaitGroup
}

// NewAsyncController wraps c with async-mode sequencing, a single-slot
// latest-observation queue, and a background receiver.
func NewAsyncController(c conn, logger Logger) *AsyncController {
	a := &AsyncController{
		c:      c,
		logger: defaultLogger(logger),
		slot:   make(chan *types.Observation, 1),
		stopCh: make(chan struct{}),
	}
	a.wg.Add(1)
	go a.receive()
	return a
}

func (a *AsyncController) receive() {
	defer a.wg.Done()
	for {
		select {
		case <-a.stopCh:
			return
		default:
		}
		obs, ok := a.c.RecvObservation(true)
		if !ok {
			return
		}
		if a.modeChecked.CompareAndSwap(false, true) && obs.Mode != types.ModeAsync {
			a.logger.Printf("[WARN] mcio: async controller received observation in mode %q, expected %q", obs.Mode, types.ModeAsync)
		}
		a.replace(obs)
	}
}

// replace pushes obs into the single slot, displacing (and logging at
// debug severity) whatever was there.
func (a *AsyncController) replace(obs *types.Observation) {
	select {
	case displaced := <-a.slot:
		a.logger.Printf("[DEBUG] mcio: async controller dropped observation seq=%d for seq=%d", displaced.Sequence, obs.Sequence)
	default:
	}
	select {
	case a.slot <- obs:
	default:
	}
}

// SendAction assigns the next sequence number and forwards the action.
// Never blocks.
func (a *AsyncController) SendAction(act *types.Action) {
	act.Sequence = int(atomic.AddInt64(&a.sequence, 1))
	a.c.SendAction(act)
}

// RecvObservation retrieves the most recent observation from the slot.
// Non-blocking (block == false): returns (nil, false) immediately if the slot
// is empty. Blocking (timeout > 0): waits up to timeout. A zero-or-negative
// timeout with block=true waits indefinitely (until the controller closes).
func (a *AsyncController) RecvObservation(block bool, timeout time.Duration) (*types.Observation, bool) {
	if !block {
		select {
		case obs := <-a.slot:
			return obs, true
		default:
			return nil, false
		}
	}

	if timeout <= 0 {
		select {
		case obs := <-a.slot:
			return obs, true
		case <-a.stopCh:
			return nil, false
		}
	}

	timer := time.NewTimer(timeout)
	defer timer.Stop()
	select {
	case obs := <-a.slot:
		return obs, true
	case <-timer.C:
		return nil, false
	case <-a.stopCh:
		return nil, false
	}
}

// SendAndRecvMatchDefault calls SendAndRecvMatch with the default max_skip
// of 5, matching the original controller's keyword-argument default.
func (a *AsyncController) SendAndRecvMatchDefault(act *types.Action) *types.Observation {
	return a.SendAndRecvMatch(act, defaultMaxSkip)
}

// SendAndRecvMatch sends act (assigning its sequence), then waits for an
// observation whose LastActionSequence is at least the one just sent,
// discarding any earlier ones queued ahead of it. Gives up after exactly
// maxSkip discards, returning the last (non-matching) observation seen.
// maxSkip == 0 is honored literally: the first observation received after
// send is returned even if it precedes the action causally (spec boundary
// case).
func (a *AsyncController) SendAndRecvMatch(act *types.Action, maxSkip int) *types.Observation {
	a.SendAction(act)
	sentSeq := act.Sequence

	var latest *types.Observation
	for skipped := 0; ; {
		obs, ok := a.RecvObservation(true, 0)
		if !ok {
			return latest
		}
		latest = obs
		if obs.LastActionSequence >= sentSeq {
			return obs
		}
		skipped++
		if skipped >= maxSkip {
			a.logger.Printf("[WARN] mcio: send_and_recv_match exceeded max_skip=%d waiting for seq=%d, returning latest (last_action_sequence=%d)", maxSkip, sentSeq, obs.LastActionSequence)
			return obs
		}
	}
}

// Recv blocks indefinitely on the single slot, returning an empty
// (non-nil) sentinel observation once the controller has closed, so a
// generic caller (e.g. the base environment) can treat sync and async
// controllers uniformly.
func (a *AsyncController) Recv() *types.Observation {
	obs, ok := a.RecvObservation(true, 0)
	if !ok {
		return types.EmptyObservation()
	}
	return obs
}

// SendStop forwards a stop request.
func (a *AsyncController) SendStop() {
	a.c.SendStop()
}

// Close stops the receiver goroutine and tears down the underlying
// connection. Idempotent.
func (a *AsyncController) Close() error {
	var err error
	a.closeOnce.Do(func() {
		close(a.stopCh)
		err = a.c.Close()
		a.wg.Wait()
	})
	return err
}
