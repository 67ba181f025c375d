// Package controller implements C3/C4: the sync and async send/receive
// disciplines layered over a connection.Connection, each responsible for
// assigning outbound sequence numbers and checking the mod's reported mode
// against what the caller expects.
package controller

import (
	"log"

	"github.com/go-mclib/mcio/types"
)

// Logger is satisfied by *log.Logger.
type Logger interface {
	Printf(format string, args ...any)
}

// conn is the subset of *connection.Connection both controllers need. A
// narrow interface, rather than a direct dependency on connection.Connection,
// keeps the two packages decoupled and makes both controllers trivially
// testable against a fake.
type conn interface {
	SendAction(a *types.Action)
	RecvObservation(block bool) (*types.Observation, bool)
	SendStop()
	Close() error
}

func defaultLogger(l Logger) Logger {
	if l != nil {
		return l
	}
	return log.Default()
}
