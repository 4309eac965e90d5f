package ws

import (
	"encoding/json"
	"sync"

	"github.com/gofiber/contrib/websocket"
	"github.com/sirupsen/logrus"
)

// Event is one message pushed to the dashboards of a store.
type Event struct {
	Type    string      `json:"type"`
	Action  string      `json:"action"`
	StoreID string      `json:"store_id,omitempty"`
	Data    interface{} `json:"data,omitempty"`
	User    interface{} `json:"user,omitempty"`
	Message string      `json:"message"`
}

// Conn is the part of a websocket connection the hub writes to.
type Conn interface {
	WriteMessage(messageType int, data []byte) error
	Close() error
}

// Client is an authenticated connection. AllStores clients (super admins)
// receive every store's events; the rest only their own store's.
type Client struct {
	Conn      Conn
	StoreID   string
	AllStores bool
}

func (c *Client) wants(storeID string) bool {
	if c.AllStores {
		return true
	}
	return storeID != "" && storeID == c.StoreID
}

type message struct {
	storeID string
	payload []byte
}

type Hub struct {
	clients    map[*Client]bool
	Register   chan *Client
	Unregister chan *Client
	broadcast  chan message
	mutex      sync.Mutex
	log        *logrus.Logger
}

func NewHub(log *logrus.Logger) *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		Register:   make(chan *Client),
		Unregister: make(chan *Client),
		broadcast:  make(chan message, 64),
		log:        log,
	}
}

func (h *Hub) Run() {
	for {
		select {
		case client := <-h.Register:
			h.mutex.Lock()
			h.clients[client] = true
			count := len(h.clients)
			h.mutex.Unlock()
			h.log.WithFields(logrus.Fields{"clients": count, "store_id": client.StoreID}).Debug("websocket client connected")

		case client := <-h.Unregister:
			h.mutex.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				client.Conn.Close()
			}
			h.mutex.Unlock()

		case msg := <-h.broadcast:
			h.mutex.Lock()
			for client := range h.clients {
				if !client.wants(msg.storeID) {
					continue
				}
				if err := client.Conn.WriteMessage(websocket.TextMessage, msg.payload); err != nil {
					client.Conn.Close()
					delete(h.clients, client)
				}
			}
			h.mutex.Unlock()
		}
	}
}

// ClientCount reports the connected clients.
func (h *Hub) ClientCount() int {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	return len(h.clients)
}

// Publish queues event for the clients of event.StoreID without blocking
// the caller.
func (h *Hub) Publish(event Event) {
	payload, err := json.Marshal(event)
	if err != nil {
		h.log.WithError(err).WithField("action", event.Action).Error("failed to encode websocket event")
		return
	}
	go func() {
		h.broadcast <- message{storeID: event.StoreID, payload: payload}
	}()
}
