package lscp

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLivenessProbeAdoptsSessionAndAnswers(t *testing.T) {
	ms := startMockServer(t, nil)
	c := dialTestClient(t, ms, nil)
	peer := udpPeer(t)

	_, err := peer.WriteToUDP([]byte("PING 12345 abc\r\n"), notifyAddr(c))
	require.NoError(t, err)

	require.NoError(t, peer.SetReadDeadline(time.Now().Add(2*time.Second)))
	buf := make([]byte, 64)
	n, _, err := peer.ReadFromUDP(buf)
	require.NoError(t, err)
	assert.Equal(t, "PONG abc\r\n", string(buf[:n]))
	assert.Equal(t, "abc", c.SessionID())
}

func TestForeignLivenessProbeUnanswered(t *testing.T) {
	ms := startMockServer(t, nil)
	c := dialTestClient(t, ms, nil)
	peer := udpPeer(t)

	_, err := peer.WriteToUDP([]byte("PING 12345 abc\r\n"), notifyAddr(c))
	require.NoError(t, err)
	require.NoError(t, peer.SetReadDeadline(time.Now().Add(2*time.Second)))
	buf := make([]byte, 64)
	_, _, err = peer.ReadFromUDP(buf)
	require.NoError(t, err)

	// a probe for somebody else's session gets no answer and no adoption
	_, err = peer.WriteToUDP([]byte("PING 12345 xyz\r\n"), notifyAddr(c))
	require.NoError(t, err)
	require.NoError(t, peer.SetReadDeadline(time.Now().Add(150*time.Millisecond)))
	_, _, err = peer.ReadFromUDP(buf)
	require.Error(t, err)
	assert.Equal(t, "abc", c.SessionID())
}

func TestEventsDispatchedInOrder(t *testing.T) {
	var mu sync.Mutex
	var got []string
	done := make(chan struct{})
	handler := func(ev Event) error {
		mu.Lock()
		got = append(got, ev.String())
		n := len(got)
		mu.Unlock()
		if n == 3 {
			close(done)
		}
		return nil
	}

	ms := startMockServer(t, nil)
	c := dialTestClient(t, ms, handler)
	peer := udpPeer(t)

	payloads := []string{"NOTIFY:channels:1\r\n", "NOTIFY:channels:2\r\n", "NOTIFY:voices:64\r\n"}
	for _, payload := range payloads {
		_, err := peer.WriteToUDP([]byte(payload), notifyAddr(c))
		require.NoError(t, err)
	}

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("events were not delivered")
	}

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []string{"NOTIFY:channels:1", "NOTIFY:channels:2", "NOTIFY:voices:64"}, got)
}

func TestSlowHandlerDoesNotStallLiveness(t *testing.T) {
	release := make(chan struct{})
	started := make(chan struct{})
	var once sync.Once
	handler := func(Event) error {
		once.Do(func() { close(started) })
		<-release
		return nil
	}
	defer close(release)

	ms := startMockServer(t, nil)
	c := dialTestClient(t, ms, handler)
	peer := udpPeer(t)

	_, err := peer.WriteToUDP([]byte("EVENT one\r\n"), notifyAddr(c))
	require.NoError(t, err)
	select {
	case <-started:
	case <-time.After(2 * time.Second):
		t.Fatal("first event never reached the handler")
	}

	_, err = peer.WriteToUDP([]byte("PING 9 s1\r\n"), notifyAddr(c))
	require.NoError(t, err)
	require.NoError(t, peer.SetReadDeadline(time.Now().Add(2*time.Second)))
	buf := make([]byte, 64)
	n, _, err := peer.ReadFromUDP(buf)
	require.NoError(t, err, "liveness must be answered while the handler is busy")
	assert.Equal(t, "PONG s1\r\n", string(buf[:n]))
}

func TestHandlerErrorStopsDelivery(t *testing.T) {
	var delivered atomic.Int32
	handler := func(Event) error {
		delivered.Add(1)
		return errors.New("handler rejects events")
	}

	ms := startMockServer(t, nil)
	c := dialTestClient(t, ms, handler)
	peer := udpPeer(t)

	_, err := peer.WriteToUDP([]byte("EVENT one\r\n"), notifyAddr(c))
	require.NoError(t, err)

	joined := make(chan struct{})
	go func() {
		c.Join()
		close(joined)
	}()
	select {
	case <-joined:
	case <-time.After(2 * time.Second):
		t.Fatal("Join did not return after the handler stopped delivery")
	}

	_, err = peer.WriteToUDP([]byte("EVENT two\r\n"), notifyAddr(c))
	require.NoError(t, err)
	time.Sleep(100 * time.Millisecond)
	assert.Equal(t, int32(1), delivered.Load(), "delivery must stay stopped")

	// the control connection survives a notification stop
	_, err = c.Query("GET CHANNELS")
	require.NoError(t, err)
}

func TestNilHandlerDiscardsEvents(t *testing.T) {
	ms := startMockServer(t, nil)
	c := dialTestClient(t, ms, nil)
	peer := udpPeer(t)

	for i := 0; i < 5; i++ {
		_, err := peer.WriteToUDP([]byte("EVENT noise\r\n"), notifyAddr(c))
		require.NoError(t, err)
	}

	// the queue keeps draining: liveness still answered afterwards
	_, err := peer.WriteToUDP([]byte("PING 9 s2\r\n"), notifyAddr(c))
	require.NoError(t, err)
	require.NoError(t, peer.SetReadDeadline(time.Now().Add(2*time.Second)))
	buf := make([]byte, 64)
	n, _, err := peer.ReadFromUDP(buf)
	require.NoError(t, err)
	assert.Equal(t, "PONG s2\r\n", string(buf[:n]))

	require.NoError(t, c.Close())
}

func TestEventStringTrimsLineBreak(t *testing.T) {
	ev := Event{Data: []byte("CHANNEL_COUNT 4\r\n")}
	assert.Equal(t, "CHANNEL_COUNT 4", ev.String())
}
