// Package transport implements the raw framed byte-stream each of the two
// unidirectional MCio channels rides on: a single TCP connection per
// direction, each message prefixed with a fixed-width big-endian length.
//
// This generalizes the length-prefixed WirePacket framing pattern the
// Minecraft Java protocol itself uses (see the vendored-in-spirit
// java_protocol.Packet type this module was adapted from) from a 3-byte
// VarInt length to a 4-byte fixed length: MCio frames are PNG/JPEG video
// frames plus structured state, routinely into the hundreds of kilobytes,
// well past VarInt's comfortable range, and there is no protocol reason
// here (unlike vanilla Minecraft) to bound frames at 2MiB.
package transport

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"log"
	"net"
	"sync"
	"sync/atomic"
)

// maxFrameSize bounds a single frame to guard against a corrupt length
// prefix turning into an enormous allocation.
const maxFrameSize = 64 << 20 // 64MiB

// Logger is satisfied by *log.Logger.
type Logger interface {
	Printf(format string, args ...any)
}

// Channel wraps a single net.Conn with length-prefixed framing and tracks
// whether the underlying socket is currently connected.
//
// A Channel is directional only in spirit: Dial-based channels are used
// write-only (action channel) or read-only (observation channel) by their
// owning connection.Connection, but the type itself supports both.
type Channel struct {
	mu        sync.Mutex
	conn      net.Conn
	reader    *bufio.Reader
	connected atomic.Bool
	debug     bool
	logger    Logger
}

// NewChannel wraps an already-established net.Conn.
func NewChannel(conn net.Conn) *Channel {
	c := &Channel{
		conn:   conn,
		reader: bufio.NewReaderSize(conn, 64*1024),
		logger: log.Default(),
	}
	c.connected.Store(true)
	return c
}

// SetLogger overrides the logger used for debug tracing.
func (c *Channel) SetLogger(l Logger) {
	if l != nil {
		c.logger = l
	}
}

// EnableDebug turns on per-frame tracing, mirroring BaseTCP.EnableDebug.
func (c *Channel) EnableDebug(enabled bool) {
	c.debug = enabled
}

func (c *Channel) debugf(format string, args ...any) {
	if c.debug {
		c.logger.Printf(format, args...)
	}
}

// Connected reports whether the channel believes its socket is live.
func (c *Channel) Connected() bool {
	return c.connected.Load()
}

// WriteFrame writes a single length-prefixed frame. Safe for concurrent use.
func (c *Channel) WriteFrame(payload []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.connected.Load() {
		return fmt.Errorf("transport: write on closed channel: %w", ErrClosed)
	}

	var header [4]byte
	binary.BigEndian.PutUint32(header[:], uint32(len(payload)))

	if _, err := c.conn.Write(header[:]); err != nil {
		c.markClosed()
		return fmt.Errorf("transport: write frame header: %w", err)
	}
	if _, err := c.conn.Write(payload); err != nil {
		c.markClosed()
		return fmt.Errorf("transport: write frame payload: %w", err)
	}
	c.debugf("transport: wrote frame len=%d", len(payload))
	return nil
}

// ReadFrame blocks until a full frame is available, the channel is closed,
// or the underlying read fails. Returns ErrClosed when the channel has been
// (or becomes) closed.
func (c *Channel) ReadFrame() ([]byte, error) {
	var header [4]byte
	if _, err := io.ReadFull(c.reader, header[:]); err != nil {
		c.markClosed()
		return nil, fmt.Errorf("transport: read frame header: %w", ErrClosed)
	}
	n := binary.BigEndian.Uint32(header[:])
	if n > maxFrameSize {
		c.markClosed()
		return nil, fmt.Errorf("transport: frame length %d exceeds max %d", n, maxFrameSize)
	}

	payload := make([]byte, n)
	if _, err := io.ReadFull(c.reader, payload); err != nil {
		c.markClosed()
		return nil, fmt.Errorf("transport: read frame payload: %w", ErrClosed)
	}
	c.debugf("transport: read frame len=%d", n)
	return payload, nil
}

func (c *Channel) markClosed() {
	c.connected.Store(false)
}

// Close tears down the underlying socket. Idempotent.
func (c *Channel) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.connected.CompareAndSwap(true, false) {
		return nil
	}
	return c.conn.Close()
}
