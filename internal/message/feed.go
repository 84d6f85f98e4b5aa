// AngelaMos | 2026
// feed.go

package message

import (
	"context"
	"log/slog"
	"net/http"
	"slices"
	"time"

	"github.com/gorilla/websocket"
	"github.com/redis/go-redis/v9"

	"github.com/mentorcamp/backend/internal/authz"
	"github.com/mentorcamp/backend/internal/middleware"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = pongWait * 9 / 10
)

// Subscriber opens a pub/sub subscription. *redis.Client satisfies it.
type Subscriber interface {
	Subscribe(ctx context.Context, channels ...string) *redis.PubSub
}

// Feed streams a user's inbox events over a websocket. Each connection
// holds its own Redis subscription on the user's inbox channel.
type Feed struct {
	sub      Subscriber
	upgrader websocket.Upgrader
}

// NewFeed accepts browser connections only from allowedOrigins. Requests
// without an Origin header, such as from the mobile app, are always allowed.
func NewFeed(sub Subscriber, allowedOrigins []string) *Feed {
	return &Feed{
		sub: sub,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				return origin == "" || slices.Contains(allowedOrigins, origin)
			},
		},
	}
}

func (f *Feed) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	p := middleware.GetPrincipal(r.Context())
	if err := authz.RequireAuthenticated(p); err != nil {
		middleware.Deny(w, r, err)
		return
	}

	ctx := r.Context()
	pubsub := f.sub.Subscribe(ctx, InboxChannel(p.UserID))
	defer pubsub.Close()

	if _, err := pubsub.Receive(ctx); err != nil {
		slog.ErrorContext(ctx, "inbox subscribe failed", "user_id", p.UserID, "error", err)
		http.Error(w, "live feed unavailable", http.StatusServiceUnavailable)
		return
	}

	conn, err := f.upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.DebugContext(ctx, "websocket upgrade failed", "error", err)
		return
	}
	defer conn.Close()

	closed := make(chan struct{})
	go readPump(conn, closed)

	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	events := pubsub.Channel()
	for {
		select {
		case msg, ok := <-events:
			if !ok {
				return
			}
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.TextMessage, []byte(msg.Payload)); err != nil {
				return
			}
		case <-ticker.C:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-closed:
			return
		case <-ctx.Done():
			return
		}
	}
}

// readPump discards client frames and closes done when the peer goes away
// or stops answering pings.
func readPump(conn *websocket.Conn, done chan<- struct{}) {
	defer close(done)

	conn.SetReadLimit(512)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}
