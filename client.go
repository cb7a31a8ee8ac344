package lscp

import (
	"context"
	"fmt"
	"net"
	"strings"
	"sync"
	"time"

	"github.com/go-logr/logr"
	"github.com/smallnest/chanx"
)

// DefaultPort is the port a stock LinuxSampler server listens on
const DefaultPort = 8888

// DefaultTimeout bounds a control transaction unless SetTimeout or
// WithTimeout says otherwise
const DefaultTimeout = 200 * time.Millisecond

// Client is a handle to one sampler server. It owns the TCP control
// connection, the UDP notification socket, and the background goroutines
// receiving and dispatching notifications. All methods are safe for
// concurrent use; control transactions are serialized internally.
type Client struct {
	conn    net.Conn
	udp     *net.UDPConn
	network string

	// mu serializes control transactions and guards the last-answer slot
	mu         sync.Mutex
	timeout    time.Duration
	lastResult string
	lastErrno  int
	rbuf       []byte
	closed     bool

	sessMu    sync.Mutex
	sessionID string

	handler EventHandler
	log     logr.Logger

	events      *chanx.UnboundedChan[Event]
	queueCtx    context.Context
	queueCancel context.CancelFunc
	stopOnce    sync.Once
	closeOnce   sync.Once
	wg          sync.WaitGroup

	fillMu      sync.Mutex
	streamCount int
	bufferFill  []BufferFill
}

// Option customizes the client handle
type Option func(*Client)

// WithTimeout overrides the default transaction timeout. Negative
// durations are ignored.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d >= 0 {
			c.timeout = d
		}
	}
}

// WithLogger installs the diagnostic logger. Tolerated protocol oddities
// (unknown info keys, foreign liveness probes, oversize fill replies) are
// reported here at V(1); nothing is logged by default.
func WithLogger(log logr.Logger) Option {
	return func(c *Client) {
		c.log = log
	}
}

// WithNetwork pins the dial network, "tcp4" or "tcp6"; the notification
// socket follows the same address family. Default "tcp".
func WithNetwork(network string) Option {
	return func(c *Client) {
		c.network = network
	}
}

// Dial connects to a sampler server at addr ("host:port") and starts the
// notification goroutines. handler receives server-pushed events and may
// be nil to discard them.
func Dial(addr string, handler EventHandler, opts ...Option) (*Client, error) {
	return DialContext(context.Background(), addr, handler, opts...)
}

// DialContext is Dial with the control-channel connect bounded by ctx
func DialContext(ctx context.Context, addr string, handler EventHandler, opts ...Option) (*Client, error) {
	c := &Client{
		network:   "tcp",
		timeout:   DefaultTimeout,
		lastErrno: -1,
		rbuf:      make([]byte, wireBufSize),
		handler:   handler,
		log:       logr.Discard(),
	}
	for _, opt := range opts {
		opt(c)
	}

	var dialer net.Dialer
	conn, err := dialer.DialContext(ctx, c.network, addr)
	if err != nil {
		return nil, fmt.Errorf("failed to connect control channel: %w", err)
	}
	c.conn = conn

	udp, err := net.ListenUDP(strings.Replace(c.network, "tcp", "udp", 1), nil)
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to bind notification socket: %w", err)
	}
	c.udp = udp

	c.queueCtx, c.queueCancel = context.WithCancel(context.Background())
	c.events = chanx.NewUnboundedChan[Event](c.queueCtx, 16)

	c.wg.Add(2)
	go c.receiveLoop()
	go c.dispatchLoop()

	return c, nil
}

// notificationPort is the local UDP port the server should send events to
func (c *Client) notificationPort() int {
	return c.udp.LocalAddr().(*net.UDPAddr).Port
}

// Subscribe registers the notification channel with the server by sending
// SUBSCRIBE NOTIFICATION <udp-port>. The session id is adopted from the
// OK[<session-id>] acknowledgment, unless a liveness probe raced ahead and
// established one already. ErrAlreadySubscribed when a session exists.
func (c *Client) Subscribe() error {
	if c.SessionID() != "" {
		return ErrAlreadySubscribed
	}

	resp, err := c.Query(fmt.Sprintf("SUBSCRIBE NOTIFICATION %d", c.notificationPort()))
	if err != nil {
		return err
	}
	if err := resp.Err(); err != nil {
		return err
	}
	if !resp.Bracketed || resp.Text == "" {
		return fmt.Errorf("subscribe acknowledgment carried no session id")
	}

	if adopted := c.adoptSessionID(resp.Text); adopted != resp.Text {
		c.log.V(1).Info("session id already established by liveness probe",
			"established", adopted, "acknowledged", resp.Text)
	}
	return nil
}

// Unsubscribe cancels the notification session by sending UNSUBSCRIBE
// NOTIFICATION <session-id> and clears the session id on success, so the
// handle may subscribe again. ErrNotSubscribed without a session.
func (c *Client) Unsubscribe() error {
	id := c.SessionID()
	if id == "" {
		return ErrNotSubscribed
	}

	resp, err := c.Query("UNSUBSCRIBE NOTIFICATION " + id)
	if err != nil {
		return err
	}
	if err := resp.Err(); err != nil {
		return err
	}

	c.clearSessionID(id)
	return nil
}

// Close stops and joins the notification goroutines and releases both
// sockets. Idempotent, and safe while notifications are arriving; later
// operations on the handle return ErrClosed.
func (c *Client) Close() error {
	c.closeOnce.Do(func() {
		c.mu.Lock()
		c.closed = true
		c.mu.Unlock()

		c.stopNotify()
		c.wg.Wait()
		c.conn.Close()

		c.fillMu.Lock()
		c.bufferFill = nil
		c.streamCount = 0
		c.fillMu.Unlock()
	})
	return nil
}

// Join blocks until the notification goroutines end, whether through a
// receive failure, a handler stop, or Close from another goroutine
func (c *Client) Join() {
	c.wg.Wait()
}

// Timeout returns the current transaction timeout
func (c *Client) Timeout() time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.timeout
}

// SetTimeout replaces the transaction timeout. Negative durations are
// rejected with ErrInvalidArg.
func (c *Client) SetTimeout(d time.Duration) error {
	if d < 0 {
		return fmt.Errorf("%w: negative timeout %v", ErrInvalidArg, d)
	}
	c.mu.Lock()
	c.timeout = d
	c.mu.Unlock()
	return nil
}

// LastResult returns the result text of the most recent transaction: the
// bracketed OK value, the plain response body, the error or warning
// message, or the timeout diagnostic. Overwritten by every transaction.
func (c *Client) LastResult() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastResult
}

// LastErrno returns the numeric code of the most recent transaction: 0
// after a success, the server code after an error or warning, and -1
// after a transport failure, a timeout, or before the first transaction.
func (c *Client) LastErrno() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastErrno
}
