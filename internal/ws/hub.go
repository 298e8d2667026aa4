package ws

import (
	"encoding/json"
	"sync"

	"compta-pme-api/pkg/logger"

	"github.com/gofiber/contrib/websocket"
)

// broadcastBuffer bounds the events waiting for the hub loop. Publish drops
// events once it is full.
const broadcastBuffer = 256

// Event is the JSON envelope pushed to connected clients.
type Event struct {
	Type      string `json:"type"`
	SocieteID string `json:"societe_id"`
	Message   string `json:"message,omitempty"`
	Data      any    `json:"data,omitempty"`
}

// Conn is the part of a websocket connection the hub writes to.
type Conn interface {
	WriteMessage(messageType int, data []byte) error
	Close() error
}

// Client is one authenticated connection and the sociétés it receives events for.
type Client struct {
	Conn     Conn
	societes map[string]bool
}

func NewClient(conn Conn, societeIDs []string) *Client {
	societes := make(map[string]bool, len(societeIDs))
	for _, id := range societeIDs {
		societes[id] = true
	}
	return &Client{Conn: conn, societes: societes}
}

func (c *Client) Watches(societeID string) bool {
	return c.societes[societeID]
}

type outbound struct {
	societeID string
	payload   []byte
}

type Hub struct {
	Clients    map[*Client]bool
	Register   chan *Client
	Unregister chan *Client
	broadcast  chan outbound
	mutex      sync.Mutex
	log        *logger.Logger
}

func NewHub(log *logger.Logger) *Hub {
	return &Hub{
		Clients:    make(map[*Client]bool),
		Register:   make(chan *Client),
		Unregister: make(chan *Client),
		broadcast:  make(chan outbound, broadcastBuffer),
		log:        log.WithComponent("ws"),
	}
}

func (h *Hub) Run() {
	for {
		select {
		case client := <-h.Register:
			h.mutex.Lock()
			h.Clients[client] = true
			h.mutex.Unlock()
			h.log.Debugw("client connected", "clients", len(h.Clients))

		case client := <-h.Unregister:
			h.mutex.Lock()
			if _, ok := h.Clients[client]; ok {
				delete(h.Clients, client)
				client.Conn.Close()
			}
			h.mutex.Unlock()

		case msg := <-h.broadcast:
			h.mutex.Lock()
			for client := range h.Clients {
				if !client.Watches(msg.societeID) {
					continue
				}
				if err := client.Conn.WriteMessage(websocket.TextMessage, msg.payload); err != nil {
					client.Conn.Close()
					delete(h.Clients, client)
				}
			}
			h.mutex.Unlock()
		}
	}
}

// Publish queues the event for the clients watching its société without
// blocking the caller. A nil hub, or a full queue, drops the event.
func (h *Hub) Publish(event Event) {
	if h == nil {
		return
	}
	msg, err := json.Marshal(event)
	if err != nil {
		h.log.Warnw("drop unencodable event", "type", event.Type, "error", err)
		return
	}

	select {
	case h.broadcast <- outbound{societeID: event.SocieteID, payload: msg}:
	default:
		h.log.Warnw("drop event, hub queue full", "type", event.Type, "societe_id", event.SocieteID)
	}
}
