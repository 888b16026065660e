package ws

import (
	"encoding/json"
	"sync"
)

// Event is the envelope pushed to clients for simulated server activity:
// request.arrived, match.found, chat.message, lounge.message, badge.
type Event struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
}

// Client represents a single WebSocket connection bound to a session.
type Client struct {
	SessionID string
	Send      chan []byte
	hub       *Hub
	mu        sync.Mutex
	closed    bool
}

func (c *Client) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.closed = true
	close(c.Send)
	if c.hub != nil {
		c.hub.unregister(c)
	}
}

// Hub maintains the set of active clients keyed by session ID. It implements
// the session engine's Notifier so simulated events reach the client without
// polling.
type Hub struct {
	mu        sync.RWMutex
	clients   map[*Client]struct{}
	bySession map[string]map[*Client]struct{}
}

func NewHub() *Hub {
	return &Hub{
		clients:   make(map[*Client]struct{}),
		bySession: make(map[string]map[*Client]struct{}),
	}
}

func (h *Hub) Register(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	c.hub = h
	h.clients[c] = struct{}{}
	if h.bySession[c.SessionID] == nil {
		h.bySession[c.SessionID] = make(map[*Client]struct{})
	}
	h.bySession[c.SessionID][c] = struct{}{}
}

func (h *Hub) unregister(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.clients, c)
	if m := h.bySession[c.SessionID]; m != nil {
		delete(m, c)
		if len(m) == 0 {
			delete(h.bySession, c.SessionID)
		}
	}
}

// Notify pushes one event to every connection of the session. Slow clients
// are skipped rather than blocked on.
func (h *Hub) Notify(sessionID, event string, payload interface{}) {
	data, _ := json.Marshal(Event{Type: event, Payload: payload})
	h.mu.RLock()
	m := h.bySession[sessionID]
	clients := make([]*Client, 0, len(m))
	for c := range m {
		clients = append(clients, c)
	}
	h.mu.RUnlock()
	for _, c := range clients {
		select {
		case c.Send <- data:
		default:
		}
	}
}

func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}
