package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"localit/internal/mocks"
	"localit/internal/models"
	"localit/internal/repositories"
)

func setupEventRouter(handler *EventHandler) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set("userID", 1)
		c.Next()
	})
	r.GET("/events", handler.ListEvents)
	r.POST("/events", handler.CreateEvent)
	r.GET("/events/:event_id", handler.GetEvent)
	r.POST("/series", handler.CreateSeries)
	r.POST("/events/:event_id/apply", handler.Apply)
	r.GET("/events/:event_id/participants", handler.Participants)
	r.POST("/events/:event_id/checkin", handler.CheckIn)
	return r
}

func TestCreateEventRejectsInvertedWindow(t *testing.T) {
	eventRepo := new(mocks.EventRepositoryMock)
	handler := NewEventHandler(eventRepo, nil)
	router := setupEventRouter(handler)

	body := bytes.NewBufferString(`{"title":"Picnic","starts_at":"2026-07-01T12:00:00Z","ends_at":"2026-07-01T11:00:00Z"}`)
	req := httptest.NewRequest(http.MethodPost, "/events", body)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	eventRepo.AssertNotCalled(t, "CreateEvent", mock.Anything, mock.Anything)
}

func TestCreateEventSuccess(t *testing.T) {
	eventRepo := new(mocks.EventRepositoryMock)
	handler := NewEventHandler(eventRepo, nil)
	router := setupEventRouter(handler)

	eventRepo.On("CreateEvent", mock.Anything, mock.MatchedBy(func(e models.Event) bool {
		return e.Title == "Picnic" && e.OwnerID == 1
	})).Return(models.Event{ID: 5, Title: "Picnic", OwnerID: 1}, nil).Once()

	body := bytes.NewBufferString(`{"title":"Picnic","starts_at":"2026-07-01T11:00:00Z","ends_at":"2026-07-01T13:00:00Z"}`)
	req := httptest.NewRequest(http.MethodPost, "/events", body)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)
	var created models.Event
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&created))
	assert.Equal(t, 5, created.ID)
	eventRepo.AssertExpectations(t)
}

func TestCreateSeriesDefaultsIntervalToWeekly(t *testing.T) {
	eventRepo := new(mocks.EventRepositoryMock)
	handler := NewEventHandler(eventRepo, nil)
	router := setupEventRouter(handler)

	first := time.Date(2026, 7, 5, 10, 0, 0, 0, time.UTC)
	eventRepo.On("CreateSeries", mock.Anything, mock.MatchedBy(func(s models.EventSeries) bool {
		return s.IntervalDays == 7 && s.Occurrences == 3
	})).Return(
		models.EventSeries{ID: 2, Title: "Weekly Run", IntervalDays: 7, Occurrences: 3},
		[]models.Event{
			{ID: 10, StartsAt: first},
			{ID: 11, StartsAt: first.AddDate(0, 0, 7)},
			{ID: 12, StartsAt: first.AddDate(0, 0, 14)},
		}, nil).Once()

	body := bytes.NewBufferString(`{"title":"Weekly Run","first_start":"2026-07-05T10:00:00Z","duration_minutes":60,"occurrences":3}`)
	req := httptest.NewRequest(http.MethodPost, "/series", body)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)
	var resp struct {
		Series models.EventSeries `json:"series"`
		Events []models.Event     `json:"events"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Len(t, resp.Events, 3)
	eventRepo.AssertExpectations(t)
}

func TestApplyTwiceConflicts(t *testing.T) {
	eventRepo := new(mocks.EventRepositoryMock)
	handler := NewEventHandler(eventRepo, nil)
	router := setupEventRouter(handler)

	eventRepo.On("GetEvent", mock.Anything, 5).Return(models.Event{ID: 5, OwnerID: 2}, nil).Twice()
	eventRepo.On("Apply", mock.Anything, 5, 1).
		Return(models.EventApplication{ID: 1, EventID: 5, UserID: 1}, nil).Once()
	eventRepo.On("Apply", mock.Anything, 5, 1).
		Return(models.EventApplication{}, repositories.ErrAlreadyApplied).Once()

	req := httptest.NewRequest(http.MethodPost, "/events/5/apply", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusCreated, rec.Code)

	req = httptest.NewRequest(http.MethodPost, "/events/5/apply", nil)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusConflict, rec.Code)

	eventRepo.AssertExpectations(t)
}

func TestApplyUnknownEvent(t *testing.T) {
	eventRepo := new(mocks.EventRepositoryMock)
	handler := NewEventHandler(eventRepo, nil)
	router := setupEventRouter(handler)

	eventRepo.On("GetEvent", mock.Anything, 404).Return(models.Event{}, repositories.ErrEventNotFound).Once()

	req := httptest.NewRequest(http.MethodPost, "/events/404/apply", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	eventRepo.AssertNotCalled(t, "Apply", mock.Anything, mock.Anything, mock.Anything)
}

func TestCheckInOwnerOnly(t *testing.T) {
	eventRepo := new(mocks.EventRepositoryMock)
	handler := NewEventHandler(eventRepo, nil)
	router := setupEventRouter(handler)

	eventRepo.On("GetEvent", mock.Anything, 5).Return(models.Event{ID: 5, OwnerID: 2}, nil).Once()

	body := bytes.NewBufferString(`{"user_id":9}`)
	req := httptest.NewRequest(http.MethodPost, "/events/5/checkin", body)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
	eventRepo.AssertNotCalled(t, "CheckIn", mock.Anything, mock.Anything, mock.Anything)
}

func TestCheckInSuccess(t *testing.T) {
	eventRepo := new(mocks.EventRepositoryMock)
	handler := NewEventHandler(eventRepo, nil)
	router := setupEventRouter(handler)

	eventRepo.On("GetEvent", mock.Anything, 5).Return(models.Event{ID: 5, OwnerID: 1}, nil).Once()
	eventRepo.On("CheckIn", mock.Anything, 5, 9).Return(nil).Once()

	body := bytes.NewBufferString(`{"user_id":9}`)
	req := httptest.NewRequest(http.MethodPost, "/events/5/checkin", body)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	eventRepo.AssertExpectations(t)
}
