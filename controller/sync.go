package controller

import (
	"sync/atomic"

	"github.com/go-mclib/mcio/types"
)

// SyncController enforces exactly-one-observation-per-action, in order.
type SyncController struct {
	c      conn
	logger Logger

	sequence    int64
	modeChecked atomic.Bool
}

// NewSyncController wraps c with sync-mode sequencing and mode assertion.
func NewSyncController(c conn, logger Logger) *SyncController {
	return &SyncController{c: c, logger: defaultLogger(logger)}
}

// SendAction assigns the next sequence number and forwards the action.
// Never blocks.
func (s *SyncController) SendAction(a *types.Action) {
	a.Sequence = int(atomic.AddInt64(&s.sequence, 1))
	s.c.SendAction(a)
}

// RecvObservation blocks until an observation arrives, or returns an empty
// (non-nil) sentinel observation once the transport has torn down, so a
// step loop built on top of this can always complete.
func (s *SyncController) RecvObservation() *types.Observation {
	obs, ok := s.c.RecvObservation(true)
	if !ok {
		return types.EmptyObservation()
	}
	if s.modeChecked.CompareAndSwap(false, true) && obs.Mode != types.ModeSync {
		s.logger.Printf("[WARN] mcio: sync controller received observation in mode %q, expected %q", obs.Mode, types.ModeSync)
	}
	return obs
}

// Recv is an alias for RecvObservation, satisfying the controller interface
// the base environment (env.Base) uses alongside AsyncController.
func (s *SyncController) Recv() *types.Observation {
	return s.RecvObservation()
}

// SendStop forwards a stop request.
func (s *SyncController) SendStop() {
	s.c.SendStop()
}

// Close tears down the underlying connection.
func (s *SyncController) Close() error {
	return s.c.Close()
}
