package ws

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"

	"antforage/internal/domain/world"
)

const (
	clientBuffer = 4
	writeTimeout       = 5 * time.Second
	defaultReadTimeout = 60 * time.Second
)

// TickMessage is the frame pushed to observers after every tick.
type TickMessage struct {
	Type string `json:"type"`
	world.Snapshot
}

// Hub fans tick snapshots out to websocket observers. Slow observers lose
// older frames; they always end up with the newest one.
type Hub struct {
	log      *log.Logger
	upgrader websocket.Upgrader
	nextID   atomic.Uint64

	// readTimeout bounds the silence allowed from an observer. Pings go out
	// every 9/10 of it and each pong pushes the deadline forward.
	readTimeout time.Duration

	mu      sync.Mutex
	clients map[uint64]chan []byte
	last    []byte
}

type Option func(*Hub)

// WithCheckOrigin replaces the default allow-all origin check.
func WithCheckOrigin(fn func(r *http.Request) bool) Option {
	return func(h *Hub) {
		if fn != nil {
			h.upgrader.CheckOrigin = fn
		}
	}
}

func NewHub(logger *log.Logger, opts ...Option) *Hub {
	if logger == nil {
		logger = log.Default()
	}
	h := &Hub{
		log: logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4 * 1024,
			WriteBufferSize: 64 * 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
		readTimeout: defaultReadTimeout,
		clients:     map[uint64]chan []byte{},
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

func (h *Hub) OnTick(_ context.Context, _ world.TickReport, snap world.Snapshot) error {
	b, err := json.Marshal(TickMessage{Type: "TICK", Snapshot: snap})
	if err != nil {
		return err
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	h.last = b
	for _, ch := range h.clients {
		sendLatest(ch, b)
	}
	return nil
}

func (h *Hub) ClientCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

func (h *Hub) join() (uint64, chan []byte) {
	id := h.nextID.Add(1)
	ch := make(chan []byte, clientBuffer)
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.last != nil {
		ch <- h.last
	}
	h.clients[id] = ch
	return id, ch
}

func (h *Hub) leave(id uint64) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.clients, id)
}

func (h *Hub) Handler() http.HandlerFunc {
	return func(rw http.ResponseWriter, r *http.Request) {
		conn, err := h.upgrader.Upgrade(rw, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()

		id, out := h.join()
		defer h.leave(id)

		ctx, cancel := context.WithCancel(r.Context())
		defer cancel()

		readTimeout := h.readTimeout
		_ = conn.SetReadDeadline(time.Now().Add(readTimeout))
		conn.SetPongHandler(func(string) error {
			return conn.SetReadDeadline(time.Now().Add(readTimeout))
		})

		writeErr := make(chan error, 1)
		go func() {
			ping := time.NewTicker(readTimeout * 9 / 10)
			defer ping.Stop()
			for {
				select {
				case <-ctx.Done():
					writeErr <- ctx.Err()
					return
				case <-ping.C:
					if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeTimeout)); err != nil {
						writeErr <- err
						return
					}
				case b := <-out:
					_ = conn.SetWriteDeadline(time.Now().Add(writeTimeout))
					if err := conn.WriteMessage(websocket.TextMessage, b); err != nil {
						writeErr <- err
						return
					}
				}
			}
		}()

		// Observers never send data frames; reading dispatches their pongs
		// and notices disconnects.
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				break
			}
			_ = conn.SetReadDeadline(time.Now().Add(readTimeout))
		}

		cancel()
		_ = conn.WriteControl(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, "bye"), time.Now().Add(time.Second))

		select {
		case err := <-writeErr:
			if err != nil && !errors.Is(err, context.Canceled) {
				h.log.Printf("stream client %d write: %v", id, err)
			}
		case <-time.After(500 * time.Millisecond):
		}
	}
}

func sendLatest(ch chan []byte, b []byte) {
	select {
	case ch <- b:
		return
	default:
	}
	// Drop one.
	select {
	case <-ch:
	default:
	}
	select {
	case ch <- b:
	default:
	}
}
