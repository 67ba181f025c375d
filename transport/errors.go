package transport

import "errors"

// ErrClosed is returned (wrapped) by ReadFrame/WriteFrame once the channel
// has observed the underlying socket close, and by DialWithRetry when the
// caller's stop signal fires before a connection is established.
var ErrClosed = errors.New("transport: channel closed")

// ErrConnectTimeout is returned by DialWithRetry when the configured
// timeout elapses before the dial succeeds.
var ErrConnectTimeout = errors.New("transport: connect timeout")
