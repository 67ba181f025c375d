package transport_test

import (
	"encoding/binary"
	"net"
	"testing"
	"time"

	"github.com/go-mclib/mcio/transport"
)

// listenerPipe stands up a real TCP listener/dialer pair and hands back both
// ends wrapped in Channels, so framing is exercised over an actual socket
// rather than an in-memory buffer.
func listenerPipe(t *testing.T) (server, client *transport.Channel) {
	t.Helper()

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	defer ln.Close()

	acceptCh := make(chan net.Conn, 1)
	go func() {
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		acceptCh <- conn
	}()

	clientConn, err := net.DialTimeout("tcp", ln.Addr().String(), time.Second)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}

	select {
	case serverConn := <-acceptCh:
		return transport.NewChannel(serverConn), transport.NewChannel(clientConn)
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for accept")
		return nil, nil
	}
}

func TestChannelWriteReadFrameRoundTrip(t *testing.T) {
	server, client := listenerPipe(t)
	defer server.Close()
	defer client.Close()

	payload := []byte("hello from the mod")
	errCh := make(chan error, 1)
	go func() { errCh <- server.WriteFrame(payload) }()

	got, err := client.ReadFrame()
	if err != nil {
		t.Fatalf("ReadFrame: %v", err)
	}
	if err := <-errCh; err != nil {
		t.Fatalf("WriteFrame: %v", err)
	}
	if string(got) != string(payload) {
		t.Fatalf("got %q, want %q", got, payload)
	}
}

func TestChannelReadFrameRejectsOversizedLength(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	defer ln.Close()

	acceptCh := make(chan net.Conn, 1)
	go func() {
		conn, err := ln.Accept()
		if err == nil {
			acceptCh <- conn
		}
	}()

	rawConn, err := net.DialTimeout("tcp", ln.Addr().String(), time.Second)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer rawConn.Close()

	var serverConn net.Conn
	select {
	case serverConn = <-acceptCh:
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for accept")
	}
	defer serverConn.Close()

	var header [4]byte
	binary.BigEndian.PutUint32(header[:], 1<<31) // far past maxFrameSize
	if _, err := rawConn.Write(header[:]); err != nil {
		t.Fatalf("write corrupt header: %v", err)
	}

	client := transport.NewChannel(serverConn)
	defer client.Close()
	if _, err := client.ReadFrame(); err == nil {
		t.Fatal("expected ReadFrame to reject an oversized length prefix")
	}
}

func TestChannelConnectedReflectsClose(t *testing.T) {
	server, client := listenerPipe(t)
	defer client.Close()

	if !server.Connected() {
		t.Fatal("expected a freshly wrapped channel to report connected")
	}
	if err := server.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if server.Connected() {
		t.Fatal("expected Connected() to report false after Close")
	}
	// Idempotent.
	if err := server.Close(); err != nil {
		t.Fatalf("second Close: %v", err)
	}
}

func TestChannelReadFrameReturnsErrClosedOnPeerHangup(t *testing.T) {
	server, client := listenerPipe(t)
	defer client.Close()

	if err := server.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if _, err := client.ReadFrame(); err == nil {
		t.Fatal("expected ReadFrame to fail once the peer has closed")
	}
}
