package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"localit/internal/models"
	"localit/internal/repositories"
	"localit/internal/telemetry"
)

// EventHandler manages event and series endpoints.
type EventHandler struct {
	events repositories.EventRepository
	audit  *telemetry.AuditEmitter
}

// NewEventHandler builds an EventHandler.
func NewEventHandler(events repositories.EventRepository, audit *telemetry.AuditEmitter) *EventHandler {
	return &EventHandler{events: events, audit: audit}
}

// ListEvents returns upcoming events.
func (h *EventHandler) ListEvents(c *gin.Context) {
	events, err := h.events.ListUpcoming(c.Request.Context(), time.Now())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load events"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"events": events})
}

// GetEvent returns one event.
func (h *EventHandler) GetEvent(c *gin.Context) {
	eventID, err := strconv.Atoi(c.Param("event_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid event id"})
		return
	}

	event, err := h.events.GetEvent(c.Request.Context(), eventID)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, repositories.ErrEventNotFound) {
			status = http.StatusNotFound
		}
		c.JSON(status, gin.H{"error": "event not found"})
		return
	}
	c.JSON(http.StatusOK, event)
}

// CreateEvent stores a single event owned by the caller.
func (h *EventHandler) CreateEvent(c *gin.Context) {
	var req struct {
		Title       string    `json:"title" binding:"required"`
		Description string    `json:"description"`
		RoomID      *int      `json:"room_id"`
		StartsAt    time.Time `json:"starts_at" binding:"required"`
		EndsAt      time.Time `json:"ends_at" binding:"required"`
		Capacity    int       `json:"capacity"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !req.EndsAt.After(req.StartsAt) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "event must end after it starts"})
		return
	}

	event, err := h.events.CreateEvent(c.Request.Context(), models.Event{
		Title:       req.Title,
		Description: req.Description,
		OwnerID:     c.GetInt("userID"),
		RoomID:      req.RoomID,
		StartsAt:    req.StartsAt,
		EndsAt:      req.EndsAt,
		Capacity:    req.Capacity,
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not create event"})
		return
	}

	h.audit.Emit(c.Request.Context(), "INFO", "event created", requestIDFromContext(c), auditUserID(c))
	c.JSON(http.StatusCreated, event)
}

// CreateSeries stores a recurring series and its expanded occurrences.
func (h *EventHandler) CreateSeries(c *gin.Context) {
	var req struct {
		Title           string    `json:"title" binding:"required"`
		Description     string    `json:"description"`
		RoomID          *int      `json:"room_id"`
		FirstStart      time.Time `json:"first_start" binding:"required"`
		DurationMinutes int       `json:"duration_minutes" binding:"required"`
		IntervalDays    int       `json:"interval_days"`
		Occurrences     int       `json:"occurrences" binding:"required"`
		Capacity        int       `json:"capacity"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.DurationMinutes <= 0 || req.Occurrences <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "duration and occurrences must be positive"})
		return
	}
	if req.IntervalDays <= 0 {
		req.IntervalDays = 7
	}

	series, events, err := h.events.CreateSeries(c.Request.Context(), models.EventSeries{
		Title:           req.Title,
		Description:     req.Description,
		OwnerID:         c.GetInt("userID"),
		RoomID:          req.RoomID,
		FirstStart:      req.FirstStart,
		DurationMinutes: req.DurationMinutes,
		IntervalDays:    req.IntervalDays,
		Occurrences:     req.Occurrences,
		Capacity:        req.Capacity,
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not create series"})
		return
	}

	h.audit.Emit(c.Request.Context(), "INFO", "event series created", requestIDFromContext(c), auditUserID(c))
	c.JSON(http.StatusCreated, gin.H{"series": series, "events": events})
}

// Apply records the caller's application to attend an event.
func (h *EventHandler) Apply(c *gin.Context) {
	eventID, err := strconv.Atoi(c.Param("event_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid event id"})
		return
	}

	if _, err := h.events.GetEvent(c.Request.Context(), eventID); err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, repositories.ErrEventNotFound) {
			status = http.StatusNotFound
		}
		c.JSON(status, gin.H{"error": "event not found"})
		return
	}

	app, err := h.events.Apply(c.Request.Context(), eventID, c.GetInt("userID"))
	if err != nil {
		if errors.Is(err, repositories.ErrAlreadyApplied) {
			c.JSON(http.StatusConflict, gin.H{"error": "already applied"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not apply"})
		return
	}

	c.JSON(http.StatusCreated, app)
}

// Participants lists the event's applications.
func (h *EventHandler) Participants(c *gin.Context) {
	eventID, err := strconv.Atoi(c.Param("event_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid event id"})
		return
	}

	apps, err := h.events.ListParticipants(c.Request.Context(), eventID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load participants"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"participants": apps})
}

// CheckIn marks a participant as present. Only the event owner may check
// people in.
func (h *EventHandler) CheckIn(c *gin.Context) {
	eventID, err := strconv.Atoi(c.Param("event_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid event id"})
		return
	}
	var req struct {
		UserID int `json:"user_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	event, err := h.events.GetEvent(c.Request.Context(), eventID)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, repositories.ErrEventNotFound) {
			status = http.StatusNotFound
		}
		c.JSON(status, gin.H{"error": "event not found"})
		return
	}
	if event.OwnerID != c.GetInt("userID") {
		c.JSON(http.StatusForbidden, gin.H{"error": "only the event owner can check in participants"})
		return
	}

	if err := h.events.CheckIn(c.Request.Context(), eventID, req.UserID); err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, repositories.ErrEventNotFound) {
			status = http.StatusNotFound
		}
		c.JSON(status, gin.H{"error": "could not check in"})
		return
	}

	c.Status(http.StatusNoContent)
}
