package relay

import (
	"context"
	"fmt"
	"time"

	"github.com/gorilla/websocket"

	"github.com/graminsta/storysync/internal/common"
)

const defaultRequestTimeout = 3 * time.Second

// Client is the worker-side end of the relay. Token never blocks
// indefinitely: an unreachable app instance, a timed-out reply, or a null
// token all surface as common.ErrAuthUnavailable so the sync run can abort
// cleanly without touching any queue entry.
type Client struct {
	url     string
	timeout time.Duration
}

// NewClient builds a relay client for the given websocket URL
// (e.g. "ws://127.0.0.1:4917/relay"). A non-positive timeout falls back
// to the default.
func NewClient(url string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = defaultRequestTimeout
	}
	return &Client{url: url, timeout: timeout}
}

// Token requests the current credential from the app instance and awaits a
// single reply.
func (c *Client) Token(ctx context.Context) (string, error) {
	dialCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	conn, _, err := websocket.DefaultDialer.DialContext(dialCtx, c.url, nil)
	if err != nil {
		return "", fmt.Errorf("%w: no app instance reachable at %s: %v", common.ErrAuthUnavailable, c.url, err)
	}
	defer conn.Close()

	deadline := time.Now().Add(c.timeout)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}
	_ = conn.SetWriteDeadline(deadline)
	_ = conn.SetReadDeadline(deadline)

	if err := conn.WriteJSON(request{Type: MessageTypeGetToken}); err != nil {
		return "", fmt.Errorf("%w: sending token request: %v", common.ErrAuthUnavailable, err)
	}

	var resp response
	if err := conn.ReadJSON(&resp); err != nil {
		return "", fmt.Errorf("%w: awaiting token reply: %v", common.ErrAuthUnavailable, err)
	}

	if resp.Token == nil || *resp.Token == "" {
		return "", common.ErrAuthUnavailable
	}
	return *resp.Token, nil
}
