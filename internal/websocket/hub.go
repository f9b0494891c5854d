package websocket

import (
	"encoding/json"
	"log"
	"sync"

	"github.com/crmforge/orderbench/internal/workbench"
)

// Hub maintains the set of connected UI clients and fans toast
// notifications out to all of them.
type Hub struct {
	clients    map[string]*Client
	register   chan *Client
	unregister chan *Client
	broadcast  chan []byte

	mu sync.RWMutex
}

// NewHub creates a new Hub instance
func NewHub() *Hub {
	return &Hub{
		clients:    make(map[string]*Client),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan []byte, 64),
	}
}

// Run starts the hub's main loop
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			if old, ok := h.clients[client.ID]; ok {
				close(old.send)
			}
			h.clients[client.ID] = client
			h.mu.Unlock()
			log.Printf("🔔 Client connected: %s", client.ID)

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client.ID]; ok {
				delete(h.clients, client.ID)
				close(client.send)
				log.Printf("🔕 Client disconnected: %s", client.ID)
			}
			h.mu.Unlock()

		case message := <-h.broadcast:
			h.mu.RLock()
			for _, client := range h.clients {
				select {
				case client.send <- message:
				default:
					// Buffer full or client dead; drop the toast
				}
			}
			h.mu.RUnlock()
		}
	}
}

// Broadcast sends a JSON message to every connected client
func (h *Hub) Broadcast(v interface{}) {
	msg, err := json.Marshal(v)
	if err != nil {
		log.Printf("Error marshaling broadcast: %v", err)
		return
	}
	select {
	case h.broadcast <- msg:
	default:
		log.Println("⚠️ Broadcast queue full, dropping message")
	}
}

type toastMessage struct {
	Type     string `json:"type"`
	Title    string `json:"title"`
	Message  string `json:"message"`
	Severity string `json:"severity"`
}

// Notify implements workbench.Notifier by pushing a toast to every
// connected client and logging the event.
func (h *Hub) Notify(n workbench.Notification) {
	log.Printf("🔔 [%s] %s: %s", n.Severity, n.Title, n.Message)
	h.Broadcast(toastMessage{
		Type:     "toast",
		Title:    n.Title,
		Message:  n.Message,
		Severity: string(n.Severity),
	})
}
