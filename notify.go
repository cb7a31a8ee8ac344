package lscp

import (
	"errors"
	"net"
	"strings"
)

// Event is one server notification received on the UDP channel
type Event struct {
	Data []byte
	Addr *net.UDPAddr
}

// String returns the notification text with the trailing line break trimmed
func (e Event) String() string {
	return strings.TrimRight(string(e.Data), "\r\n")
}

// EventHandler consumes server notifications. Handlers run on a single
// dispatch goroutine, in arrival order. Returning a non-nil error stops
// notification delivery for good; the control connection stays usable.
type EventHandler func(Event) error

// receiveLoop reads datagrams off the UDP socket until the socket is
// closed. Liveness pings are answered in place; everything else is queued
// for the dispatch goroutine so a slow handler cannot stall the handshake.
func (c *Client) receiveLoop() {
	defer c.wg.Done()
	defer c.stopNotify() // a dead receive loop must release the dispatcher too

	buf := make([]byte, wireBufSize)
	for {
		n, addr, err := c.udp.ReadFromUDP(buf)
		if err != nil {
			if c.queueCtx.Err() == nil && !errors.Is(err, net.ErrClosed) {
				c.log.Error(err, "failed to receive notification")
			}
			return
		}
		if n == 0 {
			continue
		}

		text := string(buf[:n])
		if hasFoldPrefix(text, "PING ") {
			c.answerPing(text, addr)
			continue
		}

		select {
		case c.events.In <- Event{Data: []byte(text), Addr: addr}:
		case <-c.queueCtx.Done():
			return
		}
	}
}

// answerPing handles a "PING <udp-port> <session-id>" liveness probe. The
// first session id seen is adopted if none is known yet; the probe is
// answered with PONG only when the id matches ours, so a stray probe for
// some other session goes unanswered.
func (c *Client) answerPing(text string, addr *net.UDPAddr) {
	tok := &tokenizer{s: text}
	tok.next(" \r\n") // the PING tag
	tok.next(" \r\n") // advertised port, same socket we received on
	sess, ok := tok.next(" \r\n")
	if !ok {
		return
	}

	if c.adoptSessionID(sess) != sess {
		return
	}
	if _, err := c.udp.WriteToUDP([]byte("PONG "+sess+"\r\n"), addr); err != nil {
		c.log.Error(err, "failed to answer liveness ping")
	}
}

// dispatchLoop hands queued notifications to the event handler one at a
// time. A handler error tears down the notification path only.
func (c *Client) dispatchLoop() {
	defer c.wg.Done()

	for ev := range c.events.Out {
		if c.handler == nil {
			continue
		}
		if err := c.handler(ev); err != nil {
			c.log.Error(err, "event handler failed, stopping notification delivery")
			c.stopNotify()
			return
		}
	}
}

// stopNotify shuts the notification path down: the UDP socket unblocks the
// receive loop and the queue context releases the dispatcher. Safe to call
// more than once.
func (c *Client) stopNotify() {
	c.stopOnce.Do(func() {
		c.udp.Close()
		c.queueCancel()
	})
}

// adoptSessionID records id as the session id if none is set yet and
// returns the id in effect afterwards. First writer wins; later candidates
// just observe the established id.
func (c *Client) adoptSessionID(id string) string {
	c.sessMu.Lock()
	defer c.sessMu.Unlock()
	if c.sessionID == "" {
		c.sessionID = id
	}
	return c.sessionID
}

// SessionID returns the notification session id, or the empty string when
// the client is not subscribed.
func (c *Client) SessionID() string {
	c.sessMu.Lock()
	defer c.sessMu.Unlock()
	return c.sessionID
}

// clearSessionID drops the stored session id if it still equals id
func (c *Client) clearSessionID(id string) {
	c.sessMu.Lock()
	defer c.sessMu.Unlock()
	if c.sessionID == id {
		c.sessionID = ""
	}
}
