package ws

import (
	"context"
	"encoding/json"
	"log"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"localit/internal/models"
	"localit/internal/observability"
)

// Hub maintains active websocket subscribers per composite room key.
type Hub struct {
	rooms map[string]map[*websocket.Conn]ConnInfo
	mu    sync.RWMutex
}

// NewHub creates an empty hub.
func NewHub() *Hub {
	return &Hub{rooms: make(map[string]map[*websocket.Conn]ConnInfo)}
}

// AddClient registers a websocket connection under a room key.
func (h *Hub) AddClient(roomKey string, conn *websocket.Conn, info ConnInfo) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.rooms[roomKey]; !ok {
		h.rooms[roomKey] = make(map[*websocket.Conn]ConnInfo)
	}
	h.rooms[roomKey][conn] = info
}

// RemoveClient removes a websocket connection.
func (h *Hub) RemoveClient(roomKey string, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if conns, ok := h.rooms[roomKey]; ok {
		delete(conns, conn)
		if len(conns) == 0 {
			delete(h.rooms, roomKey)
		}
	}
}

// RoomCount reports how many rooms currently have subscribers.
func (h *Hub) RoomCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms)
}

// BroadcastMessage sends a message event to every subscriber of the room.
func (h *Hub) BroadcastMessage(roomKey string, msg models.ChatMessage) {
	h.broadcast(roomKey, models.ChatEvent{Type: "message", Message: &msg, RoomKey: roomKey})
}

// BroadcastClosed notifies subscribers that the room's session was closed.
func (h *Hub) BroadcastClosed(roomKey string) {
	h.broadcast(roomKey, models.ChatEvent{Type: "closed", RoomKey: roomKey})
}

func (h *Hub) broadcast(roomKey string, event models.ChatEvent) {
	h.mu.RLock()
	conns := make([]*websocket.Conn, 0, len(h.rooms[roomKey]))
	for conn := range h.rooms[roomKey] {
		conns = append(conns, conn)
	}
	h.mu.RUnlock()

	payload, _ := json.Marshal(event)
	for _, conn := range conns {
		if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
			log.Printf("websocket write error: %v", err)
			conn.Close()
			h.publishWSError(roomKey, conn, err)
			h.RemoveClient(roomKey, conn)
		}
	}
}

func (h *Hub) publishWSError(roomKey string, conn *websocket.Conn, err error) {
	h.mu.RLock()
	info, ok := h.rooms[roomKey][conn]
	h.mu.RUnlock()
	if !ok {
		return
	}

	payload := map[string]interface{}{
		"ws": map[string]interface{}{
			"room_key":    roomKey,
			"event":       "ws_error",
			"conn_id":     info.ConnID,
			"duration_ms": time.Since(info.ConnectedAt).Milliseconds(),
			"reason":      err.Error(),
		},
		"identity": map[string]interface{}{
			"user_id":   info.UserID,
			"device_id": info.DeviceID,
			"ip":        info.IP,
		},
	}

	headers := observability.BuildHeaders(info.RequestID, info.TraceID)
	_ = observability.PublishEvent(context.Background(), "ws_events.chats",
		observability.NewEventEnvelope("ws_events", "ws_error", payload), headers)
	observability.IncWSEvent("ws_error")
}
