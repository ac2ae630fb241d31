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
	ErrEventNotFound  = errors.New("event not found")
	ErrAlreadyApplied = errors.New("already applied to event")
)

// EventRepository abstracts event and series persistence.
type EventRepository interface {
	CreateEvent(ctx context.Context, event models.Event) (models.Event, error)
	GetEvent(ctx context.Context, eventID int) (models.Event, error)
	ListUpcoming(ctx context.Context, after time.Time) ([]models.Event, error)
	CreateSeries(ctx context.Context, series models.EventSeries) (models.EventSeries, []models.Event, error)
	Apply(ctx context.Context, eventID, userID int) (models.EventApplication, error)
	ListParticipants(ctx context.Context, eventID int) ([]models.EventApplication, error)
	CheckIn(ctx context.Context, eventID, userID int) error
}

// EventRepo is a sqlx implementation of EventRepository.
type EventRepo struct {
	db *sqlx.DB
}

// NewEventRepo constructs an EventRepo.
func NewEventRepo(db *sqlx.DB) *EventRepo {
	return &EventRepo{db: db}
}

const eventColumns = `id, title, description, owner_id, room_id, series_id, starts_at, ends_at, capacity, created_at`

// CreateEvent stores a single event.
func (r *EventRepo) CreateEvent(ctx context.Context, event models.Event) (models.Event, error) {
	var created models.Event
	err := r.db.QueryRowxContext(ctx, `INSERT INTO events (title, description, owner_id, room_id, series_id, starts_at, ends_at, capacity)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8) RETURNING `+eventColumns,
		event.Title, event.Description, event.OwnerID, event.RoomID, event.SeriesID, event.StartsAt, event.EndsAt, event.Capacity).
		StructScan(&created)
	return created, err
}

// GetEvent fetches an event by id.
func (r *EventRepo) GetEvent(ctx context.Context, eventID int) (models.Event, error) {
	var event models.Event
	err := r.db.GetContext(ctx, &event, `SELECT `+eventColumns+` FROM events WHERE id=$1`, eventID)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Event{}, ErrEventNotFound
	}
	return event, err
}

// ListUpcoming returns events starting after the given time, soonest first.
func (r *EventRepo) ListUpcoming(ctx context.Context, after time.Time) ([]models.Event, error) {
	var events []models.Event
	err := r.db.SelectContext(ctx, &events, `SELECT `+eventColumns+` FROM events WHERE starts_at > $1 ORDER BY starts_at ASC`, after)
	return events, err
}

// CreateSeries stores a series and expands its occurrences into events.
func (r *EventRepo) CreateSeries(ctx context.Context, series models.EventSeries) (models.EventSeries, []models.Event, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return models.EventSeries{}, nil, err
	}
	defer tx.Rollback()

	var created models.EventSeries
	err = tx.QueryRowxContext(ctx, `INSERT INTO event_series (title, description, owner_id, room_id, first_start, duration_minutes, interval_days, occurrences, capacity)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
        RETURNING id, title, description, owner_id, room_id, first_start, duration_minutes, interval_days, occurrences, capacity, created_at`,
		series.Title, series.Description, series.OwnerID, series.RoomID, series.FirstStart,
		series.DurationMinutes, series.IntervalDays, series.Occurrences, series.Capacity).
		StructScan(&created)
	if err != nil {
		return models.EventSeries{}, nil, err
	}

	duration := time.Duration(created.DurationMinutes) * time.Minute
	interval := time.Duration(created.IntervalDays) * 24 * time.Hour
	events := make([]models.Event, 0, created.Occurrences)
	for i := 0; i < created.Occurrences; i++ {
		start := created.FirstStart.Add(time.Duration(i) * interval)
		var event models.Event
		err = tx.QueryRowxContext(ctx, `INSERT INTO events (title, description, owner_id, room_id, series_id, starts_at, ends_at, capacity)
            VALUES ($1, $2, $3, $4, $5, $6, $7, $8) RETURNING `+eventColumns,
			created.Title, created.Description, created.OwnerID, created.RoomID, created.ID,
			start, start.Add(duration), created.Capacity).
			StructScan(&event)
		if err != nil {
			return models.EventSeries{}, nil, err
		}
		events = append(events, event)
	}

	if err := tx.Commit(); err != nil {
		return models.EventSeries{}, nil, err
	}
	return created, events, nil
}

// Apply records a pending application unless one already exists.
func (r *EventRepo) Apply(ctx context.Context, eventID, userID int) (models.EventApplication, error) {
	var app models.EventApplication
	err := r.db.QueryRowxContext(ctx, `INSERT INTO event_applications (event_id, user_id)
        VALUES ($1, $2) ON CONFLICT (event_id, user_id) DO NOTHING
        RETURNING id, event_id, user_id, status, checked_in, checked_in_at, created_at`, eventID, userID).
		StructScan(&app)
	if errors.Is(err, sql.ErrNoRows) {
		return models.EventApplication{}, ErrAlreadyApplied
	}
	return app, err
}

// ListParticipants returns all applications for an event, oldest first.
func (r *EventRepo) ListParticipants(ctx context.Context, eventID int) ([]models.EventApplication, error) {
	var apps []models.EventApplication
	err := r.db.SelectContext(ctx, &apps, `SELECT id, event_id, user_id, status, checked_in, checked_in_at, created_at
        FROM event_applications WHERE event_id=$1 ORDER BY created_at ASC`, eventID)
	return apps, err
}

// CheckIn marks an approved participant as present.
func (r *EventRepo) CheckIn(ctx context.Context, eventID, userID int) error {
	res, err := r.db.ExecContext(ctx, `UPDATE event_applications SET checked_in = TRUE, checked_in_at = NOW()
        WHERE event_id=$1 AND user_id=$2`, eventID, userID)
	if err != nil {
		return err
	}
	count, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if count == 0 {
		return ErrEventNotFound
	}
	return nil
}
