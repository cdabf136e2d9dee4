package services

import (
	"log"
	"sync"

	"truck-trading-service/internal/protocol"
)

// Session is one connected viewer: an opaque delivery target owned by the
// transport layer. Send must not block indefinitely.
type Session interface {
	ID() string
	Send(message []byte) error
}

// SessionRegistry holds live viewer sessions and delivers push events.
// It is safe for concurrent use; delivery is fire-and-forget, so one failed
// session never blocks or fails delivery to the others.
type SessionRegistry struct {
	mu       sync.RWMutex
	sessions map[string]Session
}

func NewSessionRegistry() *SessionRegistry {
	return &SessionRegistry{sessions: make(map[string]Session)}
}

// Add stores the session. The caller replays current state to it afterwards.
func (r *SessionRegistry) Add(s Session) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[s.ID()] = s
}

// Remove drops the session; no further events are delivered to it.
func (r *SessionRegistry) Remove(sessionID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, sessionID)
}

// Count returns the number of live sessions.
func (r *SessionRegistry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

// SendTo delivers one event to one session. Used for replay-on-connect.
func (r *SessionRegistry) SendTo(s Session, event any) {
	raw, err := protocol.EncodeEvent(event)
	if err != nil {
		log.Printf("registry: encode event failed: %v", err)
		return
	}
	if err := s.Send(raw); err != nil {
		log.Printf("registry: send to session=%s failed: %v", s.ID(), err)
	}
}

// Broadcast delivers the event to every registered session.
func (r *SessionRegistry) Broadcast(event any) {
	raw, err := protocol.EncodeEvent(event)
	if err != nil {
		log.Printf("registry: encode event failed: %v", err)
		return
	}

	r.mu.RLock()
	targets := make([]Session, 0, len(r.sessions))
	for _, s := range r.sessions {
		targets = append(targets, s)
	}
	r.mu.RUnlock()

	for _, s := range targets {
		if err := s.Send(raw); err != nil {
			log.Printf("registry: broadcast to session=%s failed: %v", s.ID(), err)
		}
	}
}
