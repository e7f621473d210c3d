package websocket

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/storefront-labs/storefront-backend/internal/app/model"
	"github.com/storefront-labs/storefront-backend/pkg/logger"
)

const (
	EventOrderPlaced   = "order_placed"
	EventPaymentStatus = "payment_status"
)

// OrderEvent is the payload pushed to connected admin dashboards.
type OrderEvent struct {
	Type          string    `json:"type"`
	OrderID       uint      `json:"order_id"`
	CustomerID    uint      `json:"customer_id"`
	PaymentStatus string    `json:"payment_status"`
	ItemCount     int       `json:"item_count"`
	PlacedAt      time.Time `json:"placed_at"`
}

// Client is one websocket session. A user can hold several at once.
type Client struct {
	Hub    *Hub
	Conn   *Conn
	UserID uint
	Send   chan []byte
}

// Hub tracks connected admin sessions and fans order events out to them.
type Hub struct {
	clients    map[uint][]*Client
	register   chan *Client
	unregister chan *Client
	broadcast  chan []byte
	mu         sync.RWMutex
}

func NewHub() *Hub {
	return &Hub{
		clients:    make(map[uint][]*Client),
		register:   make(chan *Client, 256),
		unregister: make(chan *Client, 256),
		broadcast:  make(chan []byte, 1024),
	}
}

func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client.UserID] = append(h.clients[client.UserID], client)
			h.mu.Unlock()
			logger.Info("WebSocket client registered", map[string]interface{}{
				"user_id":        client.UserID,
				"total_sessions": len(h.clients[client.UserID]),
			})

		case client := <-h.unregister:
			h.mu.Lock()
			if clientList, ok := h.clients[client.UserID]; ok {
				newList := make([]*Client, 0, len(clientList))
				for _, c := range clientList {
					if c != client {
						newList = append(newList, c)
					}
				}
				if len(newList) == 0 {
					delete(h.clients, client.UserID)
				} else {
					h.clients[client.UserID] = newList
				}
				close(client.Send)
			}
			h.mu.Unlock()
			logger.Info("WebSocket client unregistered", map[string]interface{}{
				"user_id": client.UserID,
			})

		case message := <-h.broadcast:
			h.mu.RLock()
			for userID, clientList := range h.clients {
				for _, client := range clientList {
					select {
					case client.Send <- message:
					default:
						// Send buffer is stuck, drop the session
						go h.Unregister(client)
						logger.Warn("Client send buffer full, disconnecting", map[string]interface{}{
							"user_id": userID,
						})
					}
				}
			}
			h.mu.RUnlock()
		}
	}
}

func (h *Hub) Register(client *Client) {
	h.register <- client
}

func (h *Hub) Unregister(client *Client) {
	h.unregister <- client
}

// Broadcast pushes an event to every connected session. Events are
// best-effort: if the broadcast buffer is full the event is dropped
// rather than blocking order processing.
func (h *Hub) Broadcast(event *OrderEvent) {
	data, err := json.Marshal(event)
	if err != nil {
		logger.Error("Failed to marshal order event", err, nil)
		return
	}

	select {
	case h.broadcast <- data:
	default:
		logger.Warn("Broadcast channel full, event dropped", map[string]interface{}{
			"type":     event.Type,
			"order_id": event.OrderID,
		})
	}
}

// NotifyOrderPlaced announces a freshly checked-out order.
func (h *Hub) NotifyOrderPlaced(order *model.Order) {
	h.Broadcast(&OrderEvent{
		Type:          EventOrderPlaced,
		OrderID:       order.ID,
		CustomerID:    order.CustomerID,
		PaymentStatus: string(order.PaymentStatus),
		ItemCount:     len(order.Items),
		PlacedAt:      order.PlacedAt,
	})
}

// NotifyPaymentStatus announces a payment status transition.
func (h *Hub) NotifyPaymentStatus(order *model.Order) {
	h.Broadcast(&OrderEvent{
		Type:          EventPaymentStatus,
		OrderID:       order.ID,
		CustomerID:    order.CustomerID,
		PaymentStatus: string(order.PaymentStatus),
		ItemCount:     len(order.Items),
		PlacedAt:      order.PlacedAt,
	})
}
