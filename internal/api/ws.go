package api

import (
	"context"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"truck-trading-service/internal/domain"
	"truck-trading-service/internal/protocol"
	"truck-trading-service/internal/services"
)

// ViewerHandler upgrades viewer connections to websocket, registers them
// with the engine and pumps commands in and events out. A fault in one
// frame or one connection is isolated to it: malformed frames are dropped,
// command errors are logged, and the connection stays up.
type ViewerHandler struct {
	engine   *services.Engine
	upgrader websocket.Upgrader
}

func NewViewerHandler(engine *services.Engine) *ViewerHandler {
	return &ViewerHandler{
		engine: engine,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  16 * 1024,
			WriteBufferSize: 16 * 1024,
			CheckOrigin:     func(r *http.Request) bool { return true }, // dev default
		},
	}
}

// wsSession is the registry-facing handle for one connection. Send is
// non-blocking: events queue on a buffered channel and a slow viewer drops
// events instead of stalling the broadcast.
type wsSession struct {
	id  string
	out chan []byte

	closeOnce sync.Once
	closed    chan struct{}
}

func newWSSession() *wsSession {
	return &wsSession{
		id:     uuid.NewString(),
		out:    make(chan []byte, 64),
		closed: make(chan struct{}),
	}
}

func (s *wsSession) ID() string { return s.id }

func (s *wsSession) Send(message []byte) error {
	select {
	case <-s.closed:
		return errSessionClosed
	case s.out <- message:
		return nil
	default:
		return errSessionBackpressure
	}
}

func (s *wsSession) close() {
	s.closeOnce.Do(func() { close(s.closed) })
}

var (
	errSessionClosed       = &sessionError{"session closed"}
	errSessionBackpressure = &sessionError{"session queue full, event dropped"}
)

type sessionError struct{ msg string }

func (e *sessionError) Error() string { return e.msg }

func (h *ViewerHandler) Handle(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	defer conn.Close()

	sess := newWSSession()
	defer sess.close()

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	// Writer goroutine.
	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case b := <-sess.out:
				_ = conn.SetWriteDeadline(time.Now().Add(5 * time.Second))
				if err := conn.WriteMessage(websocket.TextMessage, b); err != nil {
					cancel()
					return
				}
			}
		}
	}()

	log.Printf("viewer connected session=%s", sess.id)
	h.engine.ConnectViewer(sess)
	defer func() {
		h.engine.DisconnectViewer(sess.id)
		log.Printf("viewer disconnected session=%s", sess.id)
	}()

	// Reader loop.
	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			cancel()
			return
		}

		cmd, err := protocol.DecodeCommand(raw)
		if err != nil {
			log.Printf("session=%s dropped frame: %v", sess.id, err)
			continue
		}
		h.dispatch(ctx, sess.id, cmd)
	}
}

func (h *ViewerHandler) dispatch(ctx context.Context, sessionID string, cmd any) {
	switch c := cmd.(type) {
	case protocol.TravelRequest:
		if err := h.engine.Travel(ctx, c.TruckID, c.DestinationCityID); err != nil {
			log.Printf("session=%s travel rejected: %v", sessionID, err)
		}
	case protocol.BuyResourceRequest:
		h.engine.Buy(ctx, c.TruckID, c.DepotID, domain.Resource(c.Resource), c.Count)
	case protocol.SellResourceRequest:
		h.engine.Sell(ctx, c.TruckID, c.DepotID, domain.Resource(c.Resource), c.Count)
	case protocol.DumpContentRequest:
		if err := h.engine.DiscardContents(ctx, c.TruckID); err != nil {
			log.Printf("session=%s dump rejected: %v", sessionID, err)
		}
	default:
		log.Printf("session=%s dropped command of unexpected type %T", sessionID, cmd)
	}
}
