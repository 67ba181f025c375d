//go:build unix

package transport

import (
	"syscall"

	"golang.org/x/sys/unix"
)

// tuneBuffers raises the socket's send/receive buffers past the kernel
// default, since MCio frames are routinely hundreds of kilobytes of PNG/
// JPEG video data rather than the small messages TCP_NODELAY-era defaults
// were sized for. Matches the original connection's low-latency
// localhost-socket intent without needing a zmq-style tuning knob.
const tunedBufferBytes = 1 << 20 // 1MiB

func tuneBuffers(network, address string, c syscall.RawConn) error {
	var sockErr error
	err := c.Control(func(fd uintptr) {
		sockErr = unix.SetsockoptInt(int(fd), unix.SOL_SOCKET, unix.SO_SNDBUF, tunedBufferBytes)
		if sockErr != nil {
			return
		}
		sockErr = unix.SetsockoptInt(int(fd), unix.SOL_SOCKET, unix.SO_RCVBUF, tunedBufferBytes)
	})
	if err != nil {
		return err
	}
	return sockErr
}
