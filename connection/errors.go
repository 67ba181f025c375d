package connection

import (
	"errors"

	"github.com/go-mclib/mcio/transport"
)

// ErrConnectTimeout surfaces transport.ErrConnectTimeout from blocking
// connection construction. Fatal to the controller that requested it.
var ErrConnectTimeout = transport.ErrConnectTimeout

// ErrTransportClosed indicates the connection (or one of its channels) is
// closed; RecvObservation treats this as end-of-stream and returns
// (nil, false) rather than propagating it as an error.
var ErrTransportClosed = errors.New("connection: transport closed")
