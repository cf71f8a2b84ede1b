package kds

import (
	"context"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/mesarest/comanda-app/notifier"
	"github.com/mesarest/comanda-app/utils"
)

// Event types pushed to kitchen display clients.
const (
	EventOrderCreated = "order_created"
	EventOrderStatus  = "order_status"
)

type Message struct {
	Event string      `json:"event"`
	Data  interface{} `json:"data"`
}

// Hub holds every connected kitchen/display client and broadcasts order
// snapshots to them. It satisfies notifier.Publisher so the dispatcher can
// treat the websocket fan-out like any other downstream.
type Hub struct {
	clients map[*websocket.Conn]string // conn -> role
	mutex   sync.Mutex
}

func NewHub() *Hub {
	return &Hub{clients: make(map[*websocket.Conn]string)}
}

func (h *Hub) Register(conn *websocket.Conn, role string) {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	h.clients[conn] = role
}

func (h *Hub) Unregister(conn *websocket.Conn) {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	delete(h.clients, conn)
	conn.Close()
}

func (h *Hub) PublishOrderCreated(_ context.Context, snap *notifier.OrderSnapshot) error {
	h.broadcast(Message{Event: EventOrderCreated, Data: snap})
	return nil
}

func (h *Hub) PublishOrderStatus(_ context.Context, snap *notifier.OrderSnapshot) error {
	h.broadcast(Message{Event: EventOrderStatus, Data: snap})
	return nil
}

func (h *Hub) broadcast(msg Message) {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	for conn := range h.clients {
		if err := conn.WriteJSON(msg); err != nil {
			utils.ErrorLogger.Errorf("kds write failed, dropping client: %v", err)
			delete(h.clients, conn)
			conn.Close()
		}
	}
}
