package transport

import (
	"fmt"
	"log"
	"net"
	"time"
)

// DialOptions configures DialWithRetry.
type DialOptions struct {
	// Timeout bounds the whole retry loop. Zero means retry forever (until
	// Stop fires).
	Timeout time.Duration
	// Stop, if non-nil, is polled between attempts; closing it aborts the
	// dial early with ErrClosed.
	Stop <-chan struct{}
	// Logger receives the once-per-second "still waiting" progress lines
	// mirroring the original connection's logged wait loop.
	Logger Logger
}

const dialRetryInterval = 50 * time.Millisecond

// DialWithRetry repeatedly attempts a TCP dial to addr until it succeeds,
// the timeout elapses (-> ErrConnectTimeout), or stop fires (-> ErrClosed).
// This is the Go realization of the original connection's blocking
// construction: where the Python implementation waits on zmq's own
// reconnecting PUSH/PULL sockets and a monitor thread's connected-event
// flags, a plain net.Dial has no automatic retry, so this loop supplies it
// directly.
func DialWithRetry(addr string, opts DialOptions) (net.Conn, error) {
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}

	dialer := net.Dialer{Timeout: dialRetryInterval, Control: tuneBuffers}

	start := time.Now()
	lastLog := start
	for {
		conn, err := dialer.Dial("tcp", addr)
		if err == nil {
			return conn, nil
		}

		now := time.Now()
		if now.Sub(lastLog) >= time.Second {
			logger.Printf("mcio: waiting for connection to %s... %ds", addr, int(now.Sub(start).Seconds()))
			lastLog = now
		}

		if opts.Timeout > 0 && now.Sub(start) >= opts.Timeout {
			return nil, fmt.Errorf("%w: %s after %s", ErrConnectTimeout, addr, opts.Timeout)
		}

		if opts.Stop != nil {
			select {
			case <-opts.Stop:
				return nil, fmt.Errorf("dial %s: %w", addr, ErrClosed)
			default:
			}
		}
	}
}
