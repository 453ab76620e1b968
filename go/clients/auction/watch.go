package auction

import (
	"context"
	"fmt"
	"strings"

	"github.com/gorilla/websocket"
	"github.com/mcdev12/auction/go/internal/auction/gateway"
)

// Watch opens a session on the server's /ws endpoint and calls fn for every
// event, starting with the join snapshot. It returns when ctx is cancelled,
// the connection drops, or fn returns an error.
func Watch(ctx context.Context, baseURL string, fn func(*gateway.AuctionEvent) error) error {
	wsURL := strings.TrimRight(baseURL, "/") + "/ws"
	switch {
	case strings.HasPrefix(wsURL, "https://"):
		wsURL = "wss://" + strings.TrimPrefix(wsURL, "https://")
	case strings.HasPrefix(wsURL, "http://"):
		wsURL = "ws://" + strings.TrimPrefix(wsURL, "http://")
	}

	conn, _, err := websocket.DefaultDialer.DialContext(ctx, wsURL, nil)
	if err != nil {
		return fmt.Errorf("failed to connect to %s: %w", wsURL, err)
	}
	defer conn.Close()

	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			conn.Close()
		case <-done:
		}
	}()

	for {
		var event gateway.AuctionEvent
		if err := conn.ReadJSON(&event); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("failed to read event: %w", err)
		}
		if err := fn(&event); err != nil {
			return err
		}
	}
}
