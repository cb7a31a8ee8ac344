package lscp

import (
	"bufio"
	"net"
	"sync"
	"testing"
)

// mockServer speaks the control protocol on a loopback TCP socket. The
// handler receives each command line (line break stripped) and returns the
// full wire response; returning "" sends nothing, which is how tests
// provoke a timeout.
type mockServer struct {
	listener net.Listener
	handler  func(line string) string

	mu    sync.Mutex
	conns []net.Conn
	lines []string

	wg sync.WaitGroup
}

// startMockServer starts a mock control server that is torn down with the
// test. A nil handler answers everything with a plain OK.
func startMockServer(t *testing.T, handler func(line string) string) *mockServer {
	t.Helper()

	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("failed to start mock server: %v", err)
	}
	if handler == nil {
		handler = defaultMockHandler
	}

	ms := &mockServer{listener: listener, handler: handler}
	ms.wg.Add(1)
	go ms.acceptLoop()

	t.Cleanup(ms.stop)
	return ms
}

func (ms *mockServer) addr() string {
	return ms.listener.Addr().String()
}

// requests returns a copy of the command lines received so far
func (ms *mockServer) requests() []string {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	return append([]string(nil), ms.lines...)
}

func (ms *mockServer) acceptLoop() {
	defer ms.wg.Done()

	for {
		conn, err := ms.listener.Accept()
		if err != nil {
			return
		}

		ms.mu.Lock()
		ms.conns = append(ms.conns, conn)
		ms.mu.Unlock()

		ms.wg.Add(1)
		go ms.handleConnection(conn)
	}
}

func (ms *mockServer) handleConnection(conn net.Conn) {
	defer ms.wg.Done()

	scanner := bufio.NewScanner(conn)
	for scanner.Scan() {
		line := scanner.Text()

		ms.mu.Lock()
		ms.lines = append(ms.lines, line)
		ms.mu.Unlock()

		if response := ms.handler(line); response != "" {
			if _, err := conn.Write([]byte(response)); err != nil {
				return
			}
		}
	}
}

func (ms *mockServer) stop() {
	ms.listener.Close()

	ms.mu.Lock()
	for _, conn := range ms.conns {
		conn.Close()
	}
	ms.conns = nil
	ms.mu.Unlock()

	ms.wg.Wait()
}

func defaultMockHandler(line string) string {
	switch line {
	case "GET CHANNELS":
		return "2\r\n"
	case "ADD CHANNEL":
		return "OK[2]\r\n"
	default:
		return "OK\r\n"
	}
}

// dialTestClient connects a client to the mock server, pinned to IPv4 so
// the notification socket has a deterministic loopback address. The client
// is closed with the test.
func dialTestClient(t *testing.T, ms *mockServer, handler EventHandler, opts ...Option) *Client {
	t.Helper()

	opts = append([]Option{WithNetwork("tcp4")}, opts...)
	c, err := Dial(ms.addr(), handler, opts...)
	if err != nil {
		t.Fatalf("failed to dial mock server: %v", err)
	}
	t.Cleanup(func() { c.Close() })
	return c
}

// udpPeer opens a loopback UDP socket playing the server's notification
// role: it sends liveness probes and event datagrams at the client.
func udpPeer(t *testing.T) *net.UDPConn {
	t.Helper()

	conn, err := net.ListenUDP("udp4", &net.UDPAddr{IP: net.IPv4(127, 0, 0, 1)})
	if err != nil {
		t.Fatalf("failed to open udp peer: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

// notifyAddr is the loopback address of the client's notification socket
func notifyAddr(c *Client) *net.UDPAddr {
	return &net.UDPAddr{IP: net.IPv4(127, 0, 0, 1), Port: c.notificationPort()}
}
