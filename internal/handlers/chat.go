package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"localit/internal/chatstate"
	"localit/internal/models"
	"localit/internal/observability"
	"localit/internal/telemetry"
	"localit/internal/ws"
)

// ChatHandler exposes the in-memory chat state over HTTP.
type ChatHandler struct {
	store *chatstate.Store
	hub   *ws.Hub
	audit *telemetry.AuditEmitter
}

// NewChatHandler builds a ChatHandler.
func NewChatHandler(store *chatstate.Store, hub *ws.Hub, audit *telemetry.AuditEmitter) *ChatHandler {
	return &ChatHandler{store: store, hub: hub, audit: audit}
}

// ListChats returns open sessions, most recent message first.
func (h *ChatHandler) ListChats(c *gin.Context) {
	sessions := h.store.OpenChats()
	observability.SetChatSessionsOpen(len(sessions))
	c.JSON(http.StatusOK, gin.H{"chats": sessions})
}

// ListContacts returns the static direct-chat candidates.
func (h *ChatHandler) ListContacts(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"contacts": h.store.DirectContacts()})
}

// OpenChat opens (or refreshes) a room of the routed kind. Event and group
// rooms take a title and optional member list; group rooms additionally
// accept a members_count override; direct rooms take the counterpart's name
// and avatar.
func (h *ChatHandler) OpenChat(c *gin.Context) {
	kind, id, ok := parseRoomRef(c)
	if !ok {
		return
	}

	var req struct {
		Title        string              `json:"title"`
		Name         string              `json:"name"`
		AvatarURL    string              `json:"avatar_url"`
		MembersCount *int                `json:"members_count"`
		Members      []models.ChatMember `json:"members"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var sess models.ChatSession
	switch kind {
	case models.RoomEvent:
		if req.Title == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "title is required"})
			return
		}
		sess = h.store.OpenEventChat(chatstate.OpenEventParams{
			EventID: id,
			Title:   req.Title,
			Members: req.Members,
		})
	case models.RoomGroup:
		if req.Title == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "title is required"})
			return
		}
		sess = h.store.OpenGroupChat(chatstate.OpenGroupParams{
			GroupID:      id,
			Title:        req.Title,
			MembersCount: req.MembersCount,
			Members:      req.Members,
		})
	default:
		if req.Name == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "name is required"})
			return
		}
		sess = h.store.OpenDirectChat(chatstate.OpenDirectParams{
			UserID:    id,
			Name:      req.Name,
			AvatarURL: req.AvatarURL,
		})
	}

	h.audit.Emit(c.Request.Context(), "INFO", "chat opened", requestIDFromContext(c), auditUserID(c))
	c.JSON(http.StatusOK, sess)
}

// GetMessages returns the room's history; unknown rooms read as empty.
func (h *ChatHandler) GetMessages(c *gin.Context) {
	kind, id, ok := parseRoomRef(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{"messages": h.store.Messages(kind, id)})
}

// GetMembers returns the room's member list; unknown rooms read as empty.
func (h *ChatHandler) GetMembers(c *gin.Context) {
	kind, id, ok := parseRoomRef(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{"members": h.store.RoomMembers(kind, id)})
}

// PostMessage appends a message as the viewer and broadcasts it.
func (h *ChatHandler) PostMessage(c *gin.Context) {
	kind, id, ok := parseRoomRef(c)
	if !ok {
		return
	}

	var req struct {
		Text         string `json:"text" binding:"required"`
		Announcement bool   `json:"is_announcement"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	msg := h.store.SendMessage(chatstate.SendParams{
		Kind:         kind,
		RoomID:       id,
		Text:         req.Text,
		FromMe:       true,
		Announcement: req.Announcement,
	})

	observability.IncChatMessage(string(kind))
	h.hub.BroadcastMessage(models.RoomKey(kind, id), msg)
	c.JSON(http.StatusCreated, msg)
}

// MarkRead resets the room's unread counter.
func (h *ChatHandler) MarkRead(c *gin.Context) {
	kind, id, ok := parseRoomRef(c)
	if !ok {
		return
	}
	h.store.MarkAsRead(kind, id)
	c.Status(http.StatusNoContent)
}

// CloseChat removes the session; history survives for a later reopen.
func (h *ChatHandler) CloseChat(c *gin.Context) {
	kind, id, ok := parseRoomRef(c)
	if !ok {
		return
	}
	h.store.CloseChat(kind, id)
	h.hub.BroadcastClosed(models.RoomKey(kind, id))
	h.audit.Emit(c.Request.Context(), "INFO", "chat closed", requestIDFromContext(c), auditUserID(c))
	c.Status(http.StatusNoContent)
}
