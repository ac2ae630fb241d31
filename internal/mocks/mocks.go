package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"localit/internal/models"
	"localit/internal/repositories"
)

type UserRepositoryMock struct {
	mock.Mock
}

func (m *UserRepositoryMock) CreateUser(ctx context.Context, email, name, passwordHash string) (models.User, error) {
	args := m.Called(ctx, email, name, passwordHash)
	var user models.User
	if val := args.Get(0); val != nil {
		user = val.(models.User)
	}
	return user, args.Error(1)
}

func (m *UserRepositoryMock) GetUserByEmail(ctx context.Context, email string) (models.User, error) {
	args := m.Called(ctx, email)
	var user models.User
	if val := args.Get(0); val != nil {
		user = val.(models.User)
	}
	return user, args.Error(1)
}

func (m *UserRepositoryMock) GetUser(ctx context.Context, userID int) (models.User, error) {
	args := m.Called(ctx, userID)
	var user models.User
	if val := args.Get(0); val != nil {
		user = val.(models.User)
	}
	return user, args.Error(1)
}

type EventRepositoryMock struct {
	mock.Mock
}

func (m *EventRepositoryMock) CreateEvent(ctx context.Context, event models.Event) (models.Event, error) {
	args := m.Called(ctx, event)
	var created models.Event
	if val := args.Get(0); val != nil {
		created = val.(models.Event)
	}
	return created, args.Error(1)
}

func (m *EventRepositoryMock) GetEvent(ctx context.Context, eventID int) (models.Event, error) {
	args := m.Called(ctx, eventID)
	var event models.Event
	if val := args.Get(0); val != nil {
		event = val.(models.Event)
	}
	return event, args.Error(1)
}

func (m *EventRepositoryMock) ListUpcoming(ctx context.Context, after time.Time) ([]models.Event, error) {
	args := m.Called(ctx, after)
	var events []models.Event
	if val := args.Get(0); val != nil {
		events = val.([]models.Event)
	}
	return events, args.Error(1)
}

func (m *EventRepositoryMock) CreateSeries(ctx context.Context, series models.EventSeries) (models.EventSeries, []models.Event, error) {
	args := m.Called(ctx, series)
	var created models.EventSeries
	if val := args.Get(0); val != nil {
		created = val.(models.EventSeries)
	}
	var events []models.Event
	if val := args.Get(1); val != nil {
		events = val.([]models.Event)
	}
	return created, events, args.Error(2)
}

func (m *EventRepositoryMock) Apply(ctx context.Context, eventID, userID int) (models.EventApplication, error) {
	args := m.Called(ctx, eventID, userID)
	var app models.EventApplication
	if val := args.Get(0); val != nil {
		app = val.(models.EventApplication)
	}
	return app, args.Error(1)
}

func (m *EventRepositoryMock) ListParticipants(ctx context.Context, eventID int) ([]models.EventApplication, error) {
	args := m.Called(ctx, eventID)
	var apps []models.EventApplication
	if val := args.Get(0); val != nil {
		apps = val.([]models.EventApplication)
	}
	return apps, args.Error(1)
}

func (m *EventRepositoryMock) CheckIn(ctx context.Context, eventID, userID int) error {
	args := m.Called(ctx, eventID, userID)
	return args.Error(0)
}

type RoomRepositoryMock struct {
	mock.Mock
}

func (m *RoomRepositoryMock) ListRooms(ctx context.Context) ([]models.Room, error) {
	args := m.Called(ctx)
	var rooms []models.Room
	if val := args.Get(0); val != nil {
		rooms = val.([]models.Room)
	}
	return rooms, args.Error(1)
}

func (m *RoomRepositoryMock) GetRoom(ctx context.Context, roomID int) (models.Room, error) {
	args := m.Called(ctx, roomID)
	var room models.Room
	if val := args.Get(0); val != nil {
		room = val.(models.Room)
	}
	return room, args.Error(1)
}

func (m *RoomRepositoryMock) ListReservationsOn(ctx context.Context, roomID int, day time.Time) ([]models.Reservation, error) {
	args := m.Called(ctx, roomID, day)
	var reservations []models.Reservation
	if val := args.Get(0); val != nil {
		reservations = val.([]models.Reservation)
	}
	return reservations, args.Error(1)
}

func (m *RoomRepositoryMock) CreateReservation(ctx context.Context, roomID, userID int, startsAt, endsAt time.Time) (models.Reservation, error) {
	args := m.Called(ctx, roomID, userID, startsAt, endsAt)
	var reservation models.Reservation
	if val := args.Get(0); val != nil {
		reservation = val.(models.Reservation)
	}
	return reservation, args.Error(1)
}

type SubscriptionRepositoryMock struct {
	mock.Mock
}

func (m *SubscriptionRepositoryMock) Subscribe(ctx context.Context, userID int, kind models.SubscriptionTarget, targetID int) (models.Subscription, error) {
	args := m.Called(ctx, userID, kind, targetID)
	var sub models.Subscription
	if val := args.Get(0); val != nil {
		sub = val.(models.Subscription)
	}
	return sub, args.Error(1)
}

func (m *SubscriptionRepositoryMock) Unsubscribe(ctx context.Context, userID int, kind models.SubscriptionTarget, targetID int) error {
	args := m.Called(ctx, userID, kind, targetID)
	return args.Error(0)
}

func (m *SubscriptionRepositoryMock) ListForUser(ctx context.Context, userID int) ([]models.Subscription, error) {
	args := m.Called(ctx, userID)
	var subs []models.Subscription
	if val := args.Get(0); val != nil {
		subs = val.([]models.Subscription)
	}
	return subs, args.Error(1)
}

var _ repositories.UserRepository = (*UserRepositoryMock)(nil)
var _ repositories.EventRepository = (*EventRepositoryMock)(nil)
var _ repositories.RoomRepository = (*RoomRepositoryMock)(nil)
var _ repositories.SubscriptionRepository = (*SubscriptionRepositoryMock)(nil)
