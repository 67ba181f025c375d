//go:build !unix

package transport

import "syscall"

// tuneBuffers is a no-op on non-unix platforms; the dialer still functions
// with kernel-default socket buffer sizes.
func tuneBuffers(network, address string, c syscall.RawConn) error {
	return nil
}
