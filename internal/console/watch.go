package console

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/go-logr/logr"

	lscp "github.com/noisegate/go-lscp"
	"github.com/noisegate/go-lscp/internal/config"
)

// RunWatch subscribes to server notifications and streams them to out until
// the context ends, redialing with exponential backoff whenever the
// notification path stops
func RunWatch(ctx context.Context, cfg *config.Config, out io.Writer, log logr.Logger) error {
	policy := backoff.NewExponentialBackOff(
		backoff.WithInitialInterval(500*time.Millisecond),
		backoff.WithMaxInterval(30*time.Second),
		backoff.WithMaxElapsedTime(0), // keep retrying until the context ends
	)

	for {
		err := watchOnce(ctx, cfg, out, log)
		if ctx.Err() != nil {
			return nil
		}
		if err != nil {
			log.V(1).Info("watch session ended", "reason", err.Error())
		}
		wait := policy.NextBackOff()
		fmt.Fprintf(out, "reconnecting in %s\n", wait.Round(time.Millisecond))
		select {
		case <-ctx.Done():
			return nil
		case <-time.After(wait):
		}
	}
}

// watchOnce runs one subscribe-and-stream session, returning when the
// context ends or the notification goroutines stop
func watchOnce(ctx context.Context, cfg *config.Config, out io.Writer, log logr.Logger) error {
	handler := func(ev lscp.Event) error {
		fmt.Fprintf(out, "%s  %s\n", time.Now().Format("15:04:05.000"), ev.String())
		return nil
	}

	client, err := lscp.DialContext(ctx, cfg.Server, handler,
		lscp.WithTimeout(cfg.Timeout),
		lscp.WithLogger(log),
	)
	if err != nil {
		return err
	}
	defer client.Close()

	// a liveness probe may have established the session already
	if err := client.Subscribe(); err != nil && !errors.Is(err, lscp.ErrAlreadySubscribed) {
		return err
	}
	fmt.Fprintf(out, "subscribed with session %s, waiting for events\n", client.SessionID())

	stopped := make(chan struct{})
	go func() {
		client.Join()
		close(stopped)
	}()

	select {
	case <-ctx.Done():
		if err := client.Unsubscribe(); err != nil {
			log.V(1).Info("unsubscribe failed", "reason", err.Error())
		}
		return nil
	case <-stopped:
		return errors.New("notification stream stopped")
	}
}
