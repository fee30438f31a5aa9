package api

import (
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"deepfake-defender/backend/internal/metrics"
)

// AnalysisEvent describes websocket payloads emitted after each analysis.
type AnalysisEvent struct {
	Type      string       `json:"type"`
	Analysis  *AnalysisDTO `json:"analysis,omitempty"`
	Message   string       `json:"message,omitempty"`
	Timestamp time.Time    `json:"timestamp"`
}

// wsClient wraps a websocket connection with write locking.
type wsClient struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

// AnalysisNotifier keeps track of active websocket clients and broadcasts analysis events.
type AnalysisNotifier struct {
	mu        sync.Mutex
	clients   map[*wsClient]struct{}
	lastEvent *AnalysisEvent
}

// NewAnalysisNotifier constructs a notifier instance.
func NewAnalysisNotifier() *AnalysisNotifier {
	return &AnalysisNotifier{clients: make(map[*wsClient]struct{})}
}

// Register attaches a websocket connection and replays the most recent event to it.
func (n *AnalysisNotifier) Register(conn *websocket.Conn) *wsClient {
	client := &wsClient{conn: conn}
	n.mu.Lock()
	defer n.mu.Unlock()
	n.clients[client] = struct{}{}
	metrics.WebSocketConnections.Inc()

	if n.lastEvent != nil {
		if err := client.writeJSON(*n.lastEvent); err == nil {
			metrics.WebSocketMessagesSent.WithLabelValues(n.lastEvent.Type).Inc()
		}
	}
	return client
}

// Unregister removes the websocket client from the notifier and closes the socket.
func (n *AnalysisNotifier) Unregister(client *wsClient) {
	if client == nil {
		return
	}
	n.mu.Lock()
	n.drop(client)
	n.mu.Unlock()
}

// Broadcast sends the supplied event to all registered websocket clients.
func (n *AnalysisNotifier) Broadcast(event AnalysisEvent) {
	event.Timestamp = time.Now().UTC()

	n.mu.Lock()
	defer n.mu.Unlock()
	snapshot := event
	n.lastEvent = &snapshot

	for client := range n.clients {
		if err := client.writeJSON(event); err != nil {
			n.drop(client)
			continue
		}
		metrics.WebSocketMessagesSent.WithLabelValues(event.Type).Inc()
	}
}

// ClientCount reports the number of connected clients.
func (n *AnalysisNotifier) ClientCount() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.clients)
}

// LastEvent returns a copy of the most recent broadcast, if any.
func (n *AnalysisNotifier) LastEvent() *AnalysisEvent {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.lastEvent == nil {
		return nil
	}
	copy := *n.lastEvent
	return &copy
}

// drop must be called with n.mu held.
func (n *AnalysisNotifier) drop(client *wsClient) {
	if _, ok := n.clients[client]; !ok {
		return
	}
	delete(n.clients, client)
	metrics.WebSocketConnections.Dec()
	_ = client.conn.Close()
}

func (c *wsClient) writeJSON(payload interface{}) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.conn == nil {
		return nil
	}
	c.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
	return c.conn.WriteJSON(payload)
}
