package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"localit/internal/cache"
	"localit/internal/models"
	"localit/internal/observability"
	"localit/internal/repositories"
	"localit/internal/telemetry"
	"localit/internal/timeslot"
)

// RoomHandler manages room listing, availability and reservations.
type RoomHandler struct {
	rooms repositories.RoomRepository
	cache cache.AvailabilityCache
	audit *telemetry.AuditEmitter
}

// NewRoomHandler builds a RoomHandler.
func NewRoomHandler(rooms repositories.RoomRepository, availability cache.AvailabilityCache, audit *telemetry.AuditEmitter) *RoomHandler {
	return &RoomHandler{rooms: rooms, cache: availability, audit: audit}
}

// ListRooms returns all reservable rooms.
func (h *RoomHandler) ListRooms(c *gin.Context) {
	rooms, err := h.rooms.ListRooms(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load rooms"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"rooms": rooms})
}

type slotView struct {
	At       time.Time `json:"at"`
	Clock    string    `json:"clock"`
	Disabled bool      `json:"disabled"`
}

type slotsResponse struct {
	RoomID       int        `json:"room_id"`
	Date         string     `json:"date"`
	StepMinutes  int        `json:"step_minutes"`
	Duration     int        `json:"duration_minutes"`
	MarkersCount int        `json:"markers_count"`
	Slots        []slotView `json:"slots"`
}

// GetSlots enumerates the room's bookable time points for one day.
// Existing reservations mark the slots they cover as disabled.
func (h *RoomHandler) GetSlots(c *gin.Context) {
	roomID, err := strconv.Atoi(c.Param("room_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid room id"})
		return
	}
	date := c.DefaultQuery("date", time.Now().Format("2006-01-02"))
	day, err := time.Parse("2006-01-02", date)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid date, expected YYYY-MM-DD"})
		return
	}
	duration, err := strconv.Atoi(c.DefaultQuery("duration", strconv.Itoa(timeslot.DefaultDurationMinutes)))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid duration"})
		return
	}

	cacheKey := cache.SlotsKey(roomID, date) + ":" + strconv.Itoa(duration)
	if payload, ok := h.cache.Get(c.Request.Context(), cacheKey); ok {
		observability.IncAvailabilityCache("hit")
		c.Data(http.StatusOK, "application/json", payload)
		return
	}
	observability.IncAvailabilityCache("miss")

	room, err := h.rooms.GetRoom(c.Request.Context(), roomID)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, repositories.ErrRoomNotFound) {
			status = http.StatusNotFound
		}
		c.JSON(status, gin.H{"error": "room not found"})
		return
	}

	picker, reservations, err := h.buildPicker(c, room, day, duration)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load reservations"})
		return
	}
	if picker.Err() != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": picker.Err().Error()})
		return
	}

	disabled := reservedPredicate(reservations)
	resp := slotsResponse{
		RoomID:       room.ID,
		Date:         date,
		StepMinutes:  room.SlotStepMinutes,
		Duration:     duration,
		MarkersCount: picker.MarkersCount(),
	}
	for _, at := range picker.Slots() {
		resp.Slots = append(resp.Slots, slotView{At: at, Clock: at.Format("15:04"), Disabled: disabled(at)})
	}

	payload, err := json.Marshal(resp)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to encode slots"})
		return
	}
	h.cache.Set(c.Request.Context(), cacheKey, payload, 30*time.Second)
	c.Data(http.StatusOK, "application/json", payload)
}

// CreateReservation validates a picked slot against the room's day and
// books the window.
func (h *RoomHandler) CreateReservation(c *gin.Context) {
	roomID, err := strconv.Atoi(c.Param("room_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid room id"})
		return
	}

	var req struct {
		Date            string `json:"date" binding:"required"`
		Start           string `json:"start" binding:"required"`
		DurationMinutes int    `json:"duration_minutes"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	day, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid date, expected YYYY-MM-DD"})
		return
	}
	if req.DurationMinutes == 0 {
		req.DurationMinutes = timeslot.DefaultDurationMinutes
	}

	room, err := h.rooms.GetRoom(c.Request.Context(), roomID)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, repositories.ErrRoomNotFound) {
			status = http.StatusNotFound
		}
		c.JSON(status, gin.H{"error": "room not found"})
		return
	}

	picker, _, err := h.buildPicker(c, room, day, req.DurationMinutes)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load reservations"})
		return
	}
	if picker.Err() != nil {
		observability.IncSlotPick("invalid")
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": picker.Err().Error()})
		return
	}

	start, ok := timeslot.ParseClock(day, req.Start)
	if !ok {
		observability.IncSlotPick("invalid")
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid start, expected HH:mm"})
		return
	}
	index := -1
	for i, at := range picker.Slots() {
		if at.Equal(start) {
			index = i
			break
		}
	}
	if index == -1 {
		observability.IncSlotPick("rejected")
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "start is not a bookable slot"})
		return
	}

	selection, ok := picker.Pick(index)
	if !ok {
		observability.IncSlotPick("rejected")
		c.JSON(http.StatusConflict, gin.H{"error": "slot not available"})
		return
	}

	reservation, err := h.rooms.CreateReservation(c.Request.Context(), roomID, c.GetInt("userID"), selection.Start, selection.End)
	if err != nil {
		if errors.Is(err, repositories.ErrSlotTaken) {
			observability.IncSlotPick("conflict")
			c.JSON(http.StatusConflict, gin.H{"error": "slot already reserved"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not create reservation"})
		return
	}

	observability.IncSlotPick("accepted")
	h.cache.Invalidate(c.Request.Context(), cache.SlotsKey(roomID, req.Date)+":"+strconv.Itoa(req.DurationMinutes))
	h.audit.Emit(c.Request.Context(), "INFO", "room reserved", requestIDFromContext(c), auditUserID(c))
	c.JSON(http.StatusCreated, reservation)
}

func (h *RoomHandler) buildPicker(c *gin.Context, room models.Room, day time.Time, durationMinutes int) (*timeslot.Picker, []models.Reservation, error) {
	reservations, err := h.rooms.ListReservationsOn(c.Request.Context(), room.ID, day)
	if err != nil {
		return nil, nil, err
	}

	picker := timeslot.New(room.OpensAt, room.ClosesAt,
		timeslot.WithAnchor(day),
		timeslot.WithStep(room.SlotStepMinutes),
		timeslot.WithDuration(durationMinutes),
		timeslot.WithDisabled(reservedPredicate(reservations)),
	)
	return picker, reservations, nil
}

// reservedPredicate marks a slot disabled when it falls inside an existing
// reservation's half-open window.
func reservedPredicate(reservations []models.Reservation) func(time.Time) bool {
	return func(at time.Time) bool {
		for _, r := range reservations {
			if !at.Before(r.StartsAt) && at.Before(r.EndsAt) {
				return true
			}
		}
		return false
	}
}
