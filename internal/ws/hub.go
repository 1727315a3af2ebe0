// Package ws pushes newly submitted letters to connected browsers so
// the browse page updates without polling.
package ws

import (
	"encoding/json"
	"log"

	"github.com/pliu/unsent/internal/models"
)

type Hub struct {
	// Registered clients.
	clients map[*Client]bool

	// Letters accepted by the store, fanned out to every client.
	broadcast chan models.Letter

	// Register requests from the clients.
	register chan *Client

	// Unregister requests from clients.
	unregister chan *Client
}

func NewHub() *Hub {
	return &Hub{
		broadcast:  make(chan models.Letter),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		clients:    make(map[*Client]bool),
	}
}

func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.clients[client] = true
		case client := <-h.unregister:
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
			}
		case letter := <-h.broadcast:
			msg, err := json.Marshal(letter)
			if err != nil {
				log.Printf("Error marshaling letter: %v", err)
				continue
			}
			for client := range h.clients {
				select {
				case client.send <- msg:
				default:
					close(client.send)
					delete(h.clients, client)
				}
			}
		}
	}
}

// BroadcastLetter fans the letter (decrypted form, as the public GET
// returns it) out to all connected clients.
func (h *Hub) BroadcastLetter(letter models.Letter) {
	h.broadcast <- letter
}
