package lscp

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"
	"time"
)

// wireBufSize is the fixed receive buffer size for both channels.
const wireBufSize = 4096

// timeoutResult is the diagnostic stored in the last-answer slot when a
// transaction times out.
const timeoutResult = "Timeout during receive operation"

// Response is the classified reply to one control-connection transaction.
type Response struct {
	// Status is OK for any non-error reply, including warnings' absence.
	Status Status
	// Text is the bracketed value of an OK[<value>] reply, the whole
	// trimmed body of a plain reply, or the message of an error/warning.
	Text string
	// Code is the numeric error/warning code, 0 on success.
	Code int
	// Bracketed reports that the reply had the OK[<value>] form.
	Bracketed bool
}

// Err returns the server error or warning carried by the response, nil for
// a plain success.
func (r Response) Err() error {
	switch r.Status {
	case StatusError:
		return &ProtocolError{Code: r.Code, Message: r.Text}
	case StatusWarning:
		return &ProtocolError{Code: r.Code, Message: r.Text, Warning: true}
	default:
		return nil
	}
}

// Query sends one command line on the control connection and waits for the
// server reply, bounded by the client timeout. The line is CRLF-terminated
// automatically. Server errors and warnings are reported in the Response,
// not as an error; the error covers transport failures and ErrTimeout.
func (c *Client) Query(line string) (Response, error) {
	return c.QueryContext(context.Background(), line)
}

// QueryContext is Query with the wait additionally bounded by the context
// deadline. The transaction still runs to completion once the command is
// sent; cancellation is only observed between and at the read bound.
func (c *Client) QueryContext(ctx context.Context, line string) (Response, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return Response{}, ErrClosed
	}
	if err := ctx.Err(); err != nil {
		return Response{}, err
	}

	deadline := time.Now().Add(c.timeout)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}

	request := strings.TrimRight(line, "\r\n") + "\r\n"
	raw, err := c.call(deadline, []byte(request))
	if err != nil {
		if errors.Is(err, ErrTimeout) {
			if ctxErr := ctx.Err(); ctxErr != nil {
				c.lastResult, c.lastErrno = "", -1
				return Response{}, ctxErr
			}
			c.lastResult, c.lastErrno = timeoutResult, -1
			return Response{}, ErrTimeout
		}
		c.lastResult, c.lastErrno = "", -1
		return Response{}, err
	}

	resp := classify(raw)
	c.lastResult, c.lastErrno = resp.Text, resp.Code
	return resp, nil
}

// call writes one request and performs a single deadline-bounded read of
// the reply. A read deadline expiry is the distinct ErrTimeout outcome so
// that callers may retry; every other failure is terminal for the call but
// leaves the client usable.
func (c *Client) call(deadline time.Time, request []byte) ([]byte, error) {
	if err := c.conn.SetWriteDeadline(deadline); err != nil {
		return nil, fmt.Errorf("failed to arm send deadline: %w", err)
	}
	if _, err := c.conn.Write(request); err != nil {
		return nil, fmt.Errorf("failed to send command: %w", err)
	}

	if err := c.conn.SetReadDeadline(deadline); err != nil {
		return nil, fmt.Errorf("failed to arm receive deadline: %w", err)
	}
	n, err := c.conn.Read(c.rbuf)
	if err != nil {
		var netErr net.Error
		if errors.As(err, &netErr) && netErr.Timeout() {
			return nil, ErrTimeout
		}
		return nil, fmt.Errorf("failed to receive response: %w", err)
	}
	return c.rbuf[:n], nil
}

// classify strips the trailing CRLF run and sorts the reply into the OK,
// OK[<value>], ERR: or WRN: shapes, extracting the value or the numeric
// code and message.
func classify(raw []byte) Response {
	body := strings.TrimRight(string(raw), "\r\n")

	switch {
	case hasFoldPrefix(body, "ERR:"):
		code, message := decodeDiagnostic(body)
		return Response{Status: StatusError, Text: message, Code: code}
	case hasFoldPrefix(body, "WRN:"):
		code, message := decodeDiagnostic(body)
		return Response{Status: StatusWarning, Text: message, Code: code}
	case hasFoldPrefix(body, "OK["):
		tok := &tokenizer{s: body}
		tok.next(":[]") // the OK tag
		value, _ := tok.next(":[]")
		return Response{Status: StatusOK, Text: value, Bracketed: true}
	default:
		return Response{Status: StatusOK, Text: ltrim(body)}
	}
}

// decodeDiagnostic extracts the numeric code and message from an
// ERR:<code>:<message> or WRN:<code>:<message> body. A malformed code
// yields 0; the message is cut at the next separator, as the tokenizer
// dictates.
func decodeDiagnostic(body string) (int, string) {
	tok := &tokenizer{s: body}
	tok.next(":[]") // the ERR/WRN tag
	code, _ := tok.next(":[]")
	message, _ := tok.next(":[]")
	return atoi(code), message
}

// hasFoldPrefix reports whether s begins with prefix, ASCII case-insensitively.
func hasFoldPrefix(s, prefix string) bool {
	return len(s) >= len(prefix) && strings.EqualFold(s[:len(prefix)], prefix)
}
