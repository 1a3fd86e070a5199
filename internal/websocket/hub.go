package websocket

import "github.com/rs/zerolog/log"

// targeted is a message addressed to one user's connections.
type targeted struct {
	userID  string
	message []byte
}

// clientMessage is a message addressed to a single connection.
type clientMessage struct {
	client  *Client
	message []byte
}

// Hub maintains the set of active clients and fans messages out to them.
// Record events go to the owning user's connections; dashboard snapshots go
// to administrator connections only.
type Hub struct {
	// Registered clients.
	clients map[*Client]bool

	// Messages for global broadcast.
	Broadcast chan []byte

	// Register requests from the clients.
	Register chan *Client

	// Unregister requests from clients.
	Unregister chan *Client

	// Messages addressed to a single user's connections.
	direct chan targeted

	// Replies addressed to a single connection.
	reply chan clientMessage

	// Messages for administrator connections only.
	adminCast chan []byte

	// A map of user IDs to their connected clients.
	byUser map[string]map[*Client]bool
}

// NewHub creates a new Hub.
func NewHub() *Hub {
	return &Hub{
		Broadcast:  make(chan []byte),
		Register:   make(chan *Client),
		Unregister: make(chan *Client),
		direct:     make(chan targeted),
		reply:      make(chan clientMessage),
		adminCast:  make(chan []byte),
		clients:    make(map[*Client]bool),
		byUser:     make(map[string]map[*Client]bool),
	}
}

// Run starts the Hub's message processing loop.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.Register:
			h.clients[client] = true
			if h.byUser[client.UserID] == nil {
				h.byUser[client.UserID] = make(map[*Client]bool)
			}
			h.byUser[client.UserID][client] = true
			log.Info().Int("total_clients", len(h.clients)).Str("user_id", client.UserID).Msg("Client connected")

		case client := <-h.Unregister:
			if _, ok := h.clients[client]; ok {
				h.drop(client)
				log.Info().Int("total_clients", len(h.clients)).Msg("Client disconnected")
			}

		case message := <-h.Broadcast:
			for client := range h.clients {
				h.send(client, message)
			}

		case t := <-h.direct:
			for client := range h.byUser[t.userID] {
				h.send(client, t.message)
			}

		case m := <-h.reply:
			// A reply may race the connection being dropped; a dropped
			// client's Send channel is closed and must not be written.
			if _, ok := h.clients[m.client]; ok {
				h.send(m.client, m.message)
			}

		case message := <-h.adminCast:
			for client := range h.clients {
				if client.IsAdmin {
					h.send(client, message)
				}
			}
		}
	}
}

// BroadcastToUser sends a message to all of one user's connections.
func (h *Hub) BroadcastToUser(userID string, message []byte) {
	h.direct <- targeted{userID: userID, message: message}
}

// BroadcastAdmins sends a message to all administrator connections.
func (h *Hub) BroadcastAdmins(message []byte) {
	h.adminCast <- message
}

// SendTo sends a message to one connection. Only the hub loop writes to a
// client's Send channel, so a reply to a just-dropped connection is
// discarded instead of hitting its closed channel.
func (h *Hub) SendTo(client *Client, message []byte) {
	h.reply <- clientMessage{client: client, message: message}
}

func (h *Hub) send(client *Client, message []byte) {
	select {
	case client.Send <- message:
	default:
		h.drop(client)
	}
}

func (h *Hub) drop(client *Client) {
	delete(h.clients, client)
	close(client.Send)
	if subs, ok := h.byUser[client.UserID]; ok {
		delete(subs, client)
		if len(subs) == 0 {
			delete(h.byUser, client.UserID)
		}
	}
}
