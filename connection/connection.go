// Package connection implements C2: the pair of TCP channels between agent
// and mod, with monitored connect state, a non-blocking/drop-on-stall send
// path, and a poll-or-push-driven receive path.
//
// Two sockets, from the agent's point of view: the agent dials out to the
// mod's action port to push ActionPackets, and dials out to the mod's
// observation port to pull ObservationPackets. Both are plain TCP rather
// than a push/pull messaging library (see DESIGN.md for why this module
// does not vendor a zmq-equivalent), framed by transport.Channel.
package connection

import (
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/go-mclib/mcio/codec"
	"github.com/go-mclib/mcio/transport"
	"github.com/go-mclib/mcio/types"
)

// sendQueueCapacity bounds the outbound action queue. A full queue means
// the mod has stalled; SendAction drops and logs rather than block.
const sendQueueCapacity = 8

// obsQueueCapacity bounds the inbound observation queue. Under normal
// operation (an agent reading as fast as it sends) this almost never
// fills; if it does, the oldest queued observation is dropped to make
// room for the newest, since a stale observation is never useful.
const obsQueueCapacity = 64

// Connection owns the two unidirectional channels to the mod.
type Connection struct {
	cfg Config

	chMu   sync.RWMutex
	actionCh *transport.Channel
	obsCh    *transport.Channel

	sendQueue chan *types.Action
	obsQueue  chan *types.Observation

	stopCh    chan struct{}
	closeOnce sync.Once
	wg        sync.WaitGroup

	started atomic.Bool
}

// New constructs a Connection per cfg. When cfg.WaitForConnection is true
// (the default), it blocks until both channels connect or ErrConnectTimeout
// fires; otherwise it returns immediately and both channels come up in the
// background (actions sent before the action channel is ready wait in the
// bounded outbound queue; once that queue is full, further actions are
// dropped and logged, exactly as if the mod had stalled).
func New(cfg Config) (*Connection, error) {
	cfg = cfg.withDefaults()

	c := &Connection{
		cfg:       cfg,
		sendQueue: make(chan *types.Action, sendQueueCapacity),
		obsQueue:  make(chan *types.Observation, obsQueueCapacity),
		stopCh:    make(chan struct{}),
	}

	type dialResult = struct {
		ch  *transport.Channel
		err error
	}
	actionResCh := make(chan dialResult, 1)
	obsResCh := make(chan dialResult, 1)

	dial := func(port int, resCh chan dialResult) {
		addr := fmt.Sprintf("%s:%d", cfg.Host, port)
		conn, err := transport.DialWithRetry(addr, transport.DialOptions{
			Timeout: cfg.ConnectTimeout,
			Stop:    c.stopCh,
			Logger:  cfg.Logger,
		})
		if err != nil {
			resCh <- dialResult{nil, err}
			return
		}
		ch := transport.NewChannel(conn)
		ch.SetLogger(cfg.Logger)
		ch.EnableDebug(cfg.Debug)
		resCh <- dialResult{ch, nil}
	}

	go dial(cfg.ActionPort, actionResCh)
	go dial(cfg.ObservationPort, obsResCh)

	if !cfg.WaitForConnection {
		go c.adoptWhenReady(actionResCh, obsResCh)
		return c, nil
	}

	actionRes := <-actionResCh
	if actionRes.err != nil {
		close(c.stopCh)
		return nil, fmt.Errorf("connection: action channel: %w", actionRes.err)
	}
	obsRes := <-obsResCh
	if obsRes.err != nil {
		close(c.stopCh)
		_ = actionRes.ch.Close()
		return nil, fmt.Errorf("connection: observation channel: %w", obsRes.err)
	}

	c.setActionChannel(actionRes.ch)
	c.setObservationChannel(obsRes.ch)
	cfg.Logger.Printf("mcio: connections established")
	return c, nil
}

// adoptWhenReady wires up each channel as its dial completes, for the
// non-blocking (WaitForConnection=false) construction path.
func (c *Connection) adoptWhenReady(actionResCh, obsResCh chan struct {
	ch  *transport.Channel
	err error
}) {
	for i := 0; i < 2; i++ {
		select {
		case res := <-actionResCh:
			if res.err == nil {
				c.setActionChannel(res.ch)
			}
			actionResCh = nil
		case res := <-obsResCh:
			if res.err == nil {
				c.setObservationChannel(res.ch)
			}
			obsResCh = nil
		}
		if actionResCh == nil && obsResCh == nil {
			return
		}
	}
}

func (c *Connection) setActionChannel(ch *transport.Channel) {
	c.chMu.Lock()
	c.actionCh = ch
	c.chMu.Unlock()

	c.wg.Add(1)
	go c.runActionWriter(ch)
}

func (c *Connection) setObservationChannel(ch *transport.Channel) {
	c.chMu.Lock()
	c.obsCh = ch
	c.chMu.Unlock()

	c.wg.Add(1)
	go c.runObservationReader(ch)
}

func (c *Connection) runActionWriter(ch *transport.Channel) {
	defer c.wg.Done()
	for {
		select {
		case <-c.stopCh:
			return
		case a := <-c.sendQueue:
			data, err := codec.EncodeAction(a)
			if err != nil {
				c.cfg.Logger.Printf("[ERROR] mcio: encode action (seq=%d): %v", a.Sequence, err)
				continue
			}
			if err := ch.WriteFrame(data); err != nil {
				c.cfg.Logger.Printf("[ERROR] mcio: write action frame (seq=%d): %v", a.Sequence, err)
				return
			}
		}
	}
}

func (c *Connection) runObservationReader(ch *transport.Channel) {
	defer c.wg.Done()
	for {
		data, err := ch.ReadFrame()
		if err != nil {
			return
		}
		obs, err := codec.DecodeObservation(data)
		if err != nil {
			// Per-packet DecodeError/VersionMismatch: already logged by
			// codec. The connection stays open; just drop this packet.
			continue
		}
		c.enqueueObservation(obs)
	}
}

func (c *Connection) enqueueObservation(obs *types.Observation) {
	select {
	case c.obsQueue <- obs:
		return
	default:
	}
	// Queue full: drop the oldest to make room for the newest.
	select {
	case <-c.obsQueue:
	default:
	}
	select {
	case c.obsQueue <- obs:
	default:
	}
}

// SendAction forwards a already-sequenced action to the mod. Never blocks:
// the action is queued for the writer (which starts once the action channel
// connects), and if that queue is full (the mod has stalled, or the channel
// has not connected yet) the action is dropped and logged at error severity.
func (c *Connection) SendAction(a *types.Action) {
	select {
	case c.sendQueue <- a:
	default:
		c.cfg.Logger.Printf("[ERROR] mcio: send_action dropped (seq=%d), outbound queue full", a.Sequence)
	}
}

// SendStop transmits an action with Stop set, asking Minecraft to exit
// cleanly.
func (c *Connection) SendStop() {
	a := types.NewAction()
	a.Stop = true
	c.SendAction(a)
}

// RecvObservation retrieves the next observation. Non-blocking: returns
// (nil, false) immediately if none is queued. Blocking: waits until one
// arrives or the connection is closed, at which point it also returns
// (nil, false) — callers that need the sync controller's "empty sentinel,
// never nil" contract handle that distinction one layer up.
//
// This blocks via channel select rather than the original's short polling
// loop: a Go channel select wakes immediately when Close() closes stopCh,
// which delivers the same "close() reliably and promptly unblocks any
// waiter" guarantee the polling design existed for, without a busy-wait.
func (c *Connection) RecvObservation(block bool) (*types.Observation, bool) {
	if !block {
		select {
		case obs := <-c.obsQueue:
			return obs, true
		default:
			return nil, false
		}
	}
	select {
	case obs := <-c.obsQueue:
		return obs, true
	case <-c.stopCh:
		return nil, false
	}
}

// ActionConnected reports whether the action channel's socket is currently
// established.
func (c *Connection) ActionConnected() bool {
	c.chMu.RLock()
	ch := c.actionCh
	c.chMu.RUnlock()
	return ch != nil && ch.Connected()
}

// ObservationConnected reports whether the observation channel's socket is
// currently established.
func (c *Connection) ObservationConnected() bool {
	c.chMu.RLock()
	ch := c.obsCh
	c.chMu.RUnlock()
	return ch != nil && ch.Connected()
}

// Close tears down both channels and stops the reader/writer goroutines.
// Idempotent: a second call is a no-op.
func (c *Connection) Close() error {
	c.closeOnce.Do(func() {
		close(c.stopCh)
		c.chMu.RLock()
		action, obs := c.actionCh, c.obsCh
		c.chMu.RUnlock()
		if action != nil {
			_ = action.Close()
		}
		if obs != nil {
			_ = obs.Close()
		}
		c.wg.Wait()
	})
	return nil
}
