package repositories

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"

	"localit/internal/models"
)

var (
	ErrRoomNotFound = errors.New("room not found")
	ErrSlotTaken    = errors.New("slot already reserved")
)

// RoomRepository abstracts room and reservation persistence.
type RoomRepository interface {
	ListRooms(ctx context.Context) ([]models.Room, error)
	GetRoom(ctx context.Context, roomID int) (models.Room, error)
	ListReservationsOn(ctx context.Context, roomID int, day time.Time) ([]models.Reservation, error)
	CreateReservation(ctx context.Context, roomID, userID int, startsAt, endsAt time.Time) (models.Reservation, error)
}

// RoomRepo is a sqlx implementation of RoomRepository.
type RoomRepo struct {
	db *sqlx.DB
}

// NewRoomRepo constructs a RoomRepo.
func NewRoomRepo(db *sqlx.DB) *RoomRepo {
	return &RoomRepo{db: db}
}

const roomColumns = `id, name, location, capacity, opens_at, closes_at, slot_step_minutes, created_at`

// ListRooms returns all rooms.
func (r *RoomRepo) ListRooms(ctx context.Context) ([]models.Room, error) {
	var rooms []models.Room
	err := r.db.SelectContext(ctx, &rooms, `SELECT `+roomColumns+` FROM rooms ORDER BY id ASC`)
	return rooms, err
}

// GetRoom fetches a room by id.
func (r *RoomRepo) GetRoom(ctx context.Context, roomID int) (models.Room, error) {
	var room models.Room
	err := r.db.GetContext(ctx, &room, `SELECT `+roomColumns+` FROM rooms WHERE id=$1`, roomID)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Room{}, ErrRoomNotFound
	}
	return room, err
}

// ListReservationsOn returns the room's reservations overlapping the given
// calendar day, earliest first.
func (r *RoomRepo) ListReservationsOn(ctx context.Context, roomID int, day time.Time) ([]models.Reservation, error) {
	dayStart := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
	dayEnd := dayStart.Add(24 * time.Hour)

	var reservations []models.Reservation
	err := r.db.SelectContext(ctx, &reservations, `SELECT id, room_id, user_id, starts_at, ends_at, created_at
        FROM room_reservations
        WHERE room_id=$1 AND starts_at < $3 AND ends_at > $2
        ORDER BY starts_at ASC`, roomID, dayStart, dayEnd)
	return reservations, err
}

// CreateReservation books a window unless it overlaps an existing one.
// Half-open overlap check: [a,b) intersects [c,d) iff a < d && c < b.
func (r *RoomRepo) CreateReservation(ctx context.Context, roomID, userID int, startsAt, endsAt time.Time) (models.Reservation, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return models.Reservation{}, err
	}
	defer tx.Rollback()

	var conflict bool
	err = tx.GetContext(ctx, &conflict, `SELECT EXISTS(SELECT 1 FROM room_reservations
        WHERE room_id=$1 AND starts_at < $3 AND ends_at > $2)`, roomID, startsAt, endsAt)
	if err != nil {
		return models.Reservation{}, err
	}
	if conflict {
		return models.Reservation{}, ErrSlotTaken
	}

	var reservation models.Reservation
	err = tx.QueryRowxContext(ctx, `INSERT INTO room_reservations (room_id, user_id, starts_at, ends_at)
        VALUES ($1, $2, $3, $4) RETURNING id, room_id, user_id, starts_at, ends_at, created_at`,
		roomID, userID, startsAt, endsAt).
		StructScan(&reservation)
	if err != nil {
		return models.Reservation{}, err
	}

	if err := tx.Commit(); err != nil {
		return models.Reservation{}, err
	}
	return reservation, nil
}
