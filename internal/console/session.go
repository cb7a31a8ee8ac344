package console

import (
	"context"
	"errors"
	"fmt"
	"net"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/go-logr/logr"

	lscp "github.com/noisegate/go-lscp"
	"github.com/noisegate/go-lscp/internal/config"
)

// Session wraps a client connection together with the polled channel model
type Session struct {
	cfg    *config.Config
	log    logr.Logger
	client *lscp.Client

	mu       sync.Mutex
	channels []ChannelState
}

// Connect dials the sampler, retrying transient failures with exponential
// backoff until the server accepts or the policy gives up
func Connect(ctx context.Context, cfg *config.Config, handler lscp.EventHandler, log logr.Logger) (*Session, error) {
	policy := backoff.NewExponentialBackOff(
		backoff.WithInitialInterval(200*time.Millisecond),
		backoff.WithMaxInterval(5*time.Second),
		backoff.WithMaxElapsedTime(30*time.Second),
	)

	var client *lscp.Client
	operation := func() error {
		var err error
		client, err = lscp.DialContext(ctx, cfg.Server, handler,
			lscp.WithTimeout(cfg.Timeout),
			lscp.WithLogger(log),
		)
		if err != nil {
			var addrErr *net.AddrError
			if errors.As(err, &addrErr) {
				// a malformed address never becomes dialable
				return backoff.Permanent(err)
			}
		}
		return err
	}
	notify := func(err error, wait time.Duration) {
		log.V(1).Info("connect attempt failed",
			"server", cfg.Server, "retryIn", wait.String(), "reason", err.Error())
	}
	if err := backoff.RetryNotify(operation, backoff.WithContext(policy, ctx), notify); err != nil {
		return nil, fmt.Errorf("failed to connect to %s: %w", cfg.Server, err)
	}

	return &Session{cfg: cfg, log: log, client: client}, nil
}

// Client exposes the underlying protocol client for raw transactions
func (s *Session) Client() *lscp.Client {
	return s.client
}

// Close releases the connection
func (s *Session) Close() error {
	return s.client.Close()
}

// Refresh polls the channel model: channel count, then per-channel setup and
// voice/stream activity. Channels the server refuses to describe are skipped,
// matching the sparse numbering REMOVE CHANNEL leaves behind.
func (s *Session) Refresh() ([]ChannelState, error) {
	count, err := s.client.GetChannels()
	if err != nil {
		return nil, err
	}

	states := make([]ChannelState, 0, count)
	for ch := 0; ch < count; ch++ {
		info, err := s.client.GetChannelInfo(ch)
		if err != nil {
			var perr *lscp.ProtocolError
			if errors.As(err, &perr) {
				s.log.V(1).Info("skipping channel", "channel", ch, "reason", perr.Message)
				continue
			}
			return nil, err
		}
		state := ChannelState{ID: ch, Info: info}
		if n, err := s.client.GetChannelVoiceCount(ch); err == nil {
			state.Voices = n
		}
		if n, err := s.client.GetChannelStreamCount(ch); err == nil {
			state.Streams = n
		}
		states = append(states, state)
	}

	s.mu.Lock()
	s.channels = states
	s.mu.Unlock()
	return states, nil
}

// Channels returns a copy of the last polled channel model
func (s *Session) Channels() []ChannelState {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]ChannelState, len(s.channels))
	copy(out, s.channels)
	return out
}

// Poll refreshes the channel model every interval and hands each snapshot to
// fn until the context ends
func (s *Session) Poll(ctx context.Context, interval time.Duration, fn func([]ChannelState)) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		states, err := s.Refresh()
		if err != nil {
			return err
		}
		fn(states)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}
