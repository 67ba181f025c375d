package connection_test

import (
	"log"
	"net"
	"testing"
	"time"

	"github.com/go-mclib/mcio/codec"
	"github.com/go-mclib/mcio/connection"
	"github.com/go-mclib/mcio/types"
)

// fakeMod stands in for the Minecraft mod side of the bridge: it listens on
// two TCP ports (matching the agent's dial-out design) and lets a test
// script accept actions and feed observations over the real framed wire
// protocol, rather than through an in-memory stand-in.
type fakeMod struct {
	actionLn, obsLn     net.Listener
	actionPort, obsPort int
}

func newFakeMod(t *testing.T) *fakeMod {
	t.Helper()

	actionLn, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen action port: %v", err)
	}
	obsLn, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen observation port: %v", err)
	}

	return &fakeMod{
		actionLn:   actionLn,
		obsLn:      obsLn,
		actionPort: actionLn.Addr().(*net.TCPAddr).Port,
		obsPort:    obsLn.Addr().(*net.TCPAddr).Port,
	}
}

func (m *fakeMod) close() {
	m.actionLn.Close()
	m.obsLn.Close()
}

// acceptActions accepts the agent's action-channel dial and decodes every
// frame it sends onto the returned channel.
func (m *fakeMod) acceptActions(t *testing.T) <-chan *types.Action {
	t.Helper()
	out := make(chan *types.Action, 16)
	go func() {
		conn, err := m.actionLn.Accept()
		if err != nil {
			close(out)
			return
		}
		defer conn.Close()
		for {
			var header [4]byte
			if _, err := readFull(conn, header[:]); err != nil {
				close(out)
				return
			}
			n := beUint32(header[:])
			payload := make([]byte, n)
			if _, err := readFull(conn, payload); err != nil {
				close(out)
				return
			}
			act, err := codec.DecodeAction(payload)
			if err != nil {
				continue
			}
			out <- act
		}
	}()
	return out
}

// acceptAndServeObservations accepts the agent's observation-channel dial
// and writes each queued observation as a length-prefixed frame.
func (m *fakeMod) acceptAndServeObservations(t *testing.T, observations []*types.Observation) {
	t.Helper()
	go func() {
		conn, err := m.obsLn.Accept()
		if err != nil {
			return
		}
		defer conn.Close()
		for _, obs := range observations {
			data, err := codec.EncodeObservation(obs)
			if err != nil {
				t.Errorf("encode observation: %v", err)
				return
			}
			var header [4]byte
			putBeUint32(header[:], uint32(len(data)))
			if _, err := conn.Write(header[:]); err != nil {
				return
			}
			if _, err := conn.Write(data); err != nil {
				return
			}
		}
	}()
}

func readFull(conn net.Conn, buf []byte) (int, error) {
	total := 0
	for total < len(buf) {
		n, err := conn.Read(buf[total:])
		total += n
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

func beUint32(b []byte) uint32 {
	return uint32(b[0])<<24 | uint32(b[1])<<16 | uint32(b[2])<<8 | uint32(b[3])
}

func putBeUint32(b []byte, v uint32) {
	b[0] = byte(v >> 24)
	b[1] = byte(v >> 16)
	b[2] = byte(v >> 8)
	b[3] = byte(v)
}

func sampleObservation(seq int) *types.Observation {
	return &types.Observation{
		Version:  types.ProtocolVersion,
		Sequence: seq,
		Mode:     types.ModeSync,
		Health:   20,
		Frame:    []byte("frame"),
	}
}

func TestConnectionSendsActionsAndReceivesObservations(t *testing.T) {
	mod := newFakeMod(t)
	defer mod.close()

	actionsCh := mod.acceptActions(t)
	mod.acceptAndServeObservations(t, []*types.Observation{sampleObservation(1), sampleObservation(2)})

	cfg := connection.Config{
		Host:              "127.0.0.1",
		ActionPort:        mod.actionPort,
		ObservationPort:   mod.obsPort,
		WaitForConnection: true,
		ConnectTimeout:    2 * time.Second,
		Logger:            log.Default(),
	}
	conn, err := connection.New(cfg)
	if err != nil {
		t.Fatalf("connection.New: %v", err)
	}
	defer conn.Close()

	act := types.NewAction()
	act.Sequence = 1
	act.Commands = []string{"time set day"}
	conn.SendAction(act)

	select {
	case got := <-actionsCh:
		if got == nil || len(got.Commands) != 1 || got.Commands[0] != "time set day" {
			t.Fatalf("unexpected action received by fake mod: %+v", got)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for fake mod to receive the action")
	}

	obs, ok := conn.RecvObservation(true)
	if !ok || obs.Sequence != 1 {
		t.Fatalf("expected first observation (seq=1), got %+v, ok=%v", obs, ok)
	}
	obs, ok = conn.RecvObservation(true)
	if !ok || obs.Sequence != 2 {
		t.Fatalf("expected second observation (seq=2), got %+v, ok=%v", obs, ok)
	}
}

func TestConnectionReportsChannelConnectedState(t *testing.T) {
	mod := newFakeMod(t)
	defer mod.close()

	mod.acceptActions(t)
	mod.acceptAndServeObservations(t, nil)

	cfg := connection.Config{
		Host:              "127.0.0.1",
		ActionPort:        mod.actionPort,
		ObservationPort:   mod.obsPort,
		WaitForConnection: true,
		ConnectTimeout:    2 * time.Second,
		Logger:            log.Default(),
	}
	conn, err := connection.New(cfg)
	if err != nil {
		t.Fatalf("connection.New: %v", err)
	}
	defer conn.Close()

	if !conn.ActionConnected() || !conn.ObservationConnected() {
		t.Fatal("expected both channels connected after a successful blocking New")
	}

	if err := conn.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if conn.ActionConnected() || conn.ObservationConnected() {
		t.Fatal("expected both channels disconnected after Close")
	}
	// Idempotent.
	if err := conn.Close(); err != nil {
		t.Fatalf("second Close: %v", err)
	}
}

func TestConnectionNewFailsWhenNothingListens(t *testing.T) {
	// Grab two free ports, then let them go unused.
	ln1, _ := net.Listen("tcp", "127.0.0.1:0")
	ln2, _ := net.Listen("tcp", "127.0.0.1:0")
	actionPort := ln1.Addr().(*net.TCPAddr).Port
	obsPort := ln2.Addr().(*net.TCPAddr).Port
	ln1.Close()
	ln2.Close()

	cfg := connection.Config{
		Host:              "127.0.0.1",
		ActionPort:        actionPort,
		ObservationPort:   obsPort,
		WaitForConnection: true,
		ConnectTimeout:    100 * time.Millisecond,
		Logger:            log.Default(),
	}
	if _, err := connection.New(cfg); err == nil {
		t.Fatal("expected connection.New to fail when nothing is listening")
	}
}
