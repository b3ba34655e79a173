package websocket

import (
	"encoding/json"
	"sync"

	"github.com/gofiber/websocket/v2"
)

// Client is one connected websocket subscriber.
type Client struct {
	Conn *websocket.Conn
	Mu   sync.Mutex
}

// TaskEvent is pushed to subscribers when a task changes status.
type TaskEvent struct {
	TaskID int    `json:"task_id"`
	Status string `json:"status"`
}

// Hub fans task events out to connected clients.
type Hub struct {
	Clients    map[*Client]bool
	Broadcast  chan []byte
	Register   chan *Client
	Unregister chan *Client
}

func NewHub() *Hub {
	return &Hub{
		Clients:    make(map[*Client]bool),
		Broadcast:  make(chan []byte),
		Register:   make(chan *Client),
		Unregister: make(chan *Client),
	}
}

// BroadcastEvent encodes the event and queues it for all clients.
func (h *Hub) BroadcastEvent(event TaskEvent) {
	payload, err := json.Marshal(event)
	if err != nil {
		return
	}
	h.Broadcast <- payload
}

// Run drives the register/unregister/broadcast loop.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.Register:
			h.Clients[client] = true
		case client := <-h.Unregister:
			if _, ok := h.Clients[client]; ok {
				delete(h.Clients, client)
				client.Conn.Close()
			}
		case message := <-h.Broadcast:
			for client := range h.Clients {
				client.Mu.Lock()
				err := client.Conn.WriteMessage(websocket.TextMessage, message)
				client.Mu.Unlock()
				if err != nil {
					// Drop inline; sending to Unregister from here would
					// block the loop on itself.
					client.Conn.Close()
					delete(h.Clients, client)
				}
			}
		}
	}
}
