package ws

import (
	"context"
	"encoding/json"
	"log"
)

// Message is the JSON envelope pushed to every connected client.
type Message struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

// Hub fans out feed events to connected clients.
type Hub struct {
	clients    map[*Client]bool
	Broadcast  chan []byte
	register   chan *Client
	unregister chan *Client
	done       chan struct{}
}

func NewHub() *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		Broadcast:  make(chan []byte, 256),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
	}
}

// Run owns the client set until ctx is cancelled.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case <-ctx.Done():
			for client := range h.clients {
				close(client.send)
				delete(h.clients, client)
			}
			return
		case client := <-h.register:
			h.clients[client] = true
		case client := <-h.unregister:
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
			}
		case message := <-h.Broadcast:
			for client := range h.clients {
				select {
				case client.send <- message:
				default:
					// Slow consumer; drop it rather than stall the feed.
					close(client.send)
					delete(h.clients, client)
				}
			}
		}
	}
}

// add registers c. It reports false once the hub has stopped.
func (h *Hub) add(c *Client) bool {
	select {
	case h.register <- c:
		return true
	case <-h.done:
		return false
	}
}

// remove unregisters c; a stopped hub has already closed every client.
func (h *Hub) remove(c *Client) {
	select {
	case h.unregister <- c:
	case <-h.done:
	}
}

// Publish queues an event for broadcast. It never blocks: if the queue is
// full the event is dropped and logged.
func (h *Hub) Publish(eventType string, data interface{}) {
	payload, err := json.Marshal(Message{Type: eventType, Data: data})
	if err != nil {
		log.Printf("Error marshalling WS message: %v", err)
		return
	}

	select {
	case h.Broadcast <- payload:
	default:
		log.Printf("[WS] broadcast queue full, dropping %s event", eventType)
	}
}
