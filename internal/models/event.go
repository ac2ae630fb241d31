package models

import "time"

// Event represents a single scheduled event, optionally part of a series.
type Event struct {
	ID          int       `db:"id" json:"id"`
	Title       string    `db:"title" json:"title"`
	Description string    `db:"description" json:"description"`
	OwnerID     int       `db:"owner_id" json:"owner_id"`
	RoomID      *int      `db:"room_id" json:"room_id,omitempty"`
	SeriesID    *int      `db:"series_id" json:"series_id,omitempty"`
	StartsAt    time.Time `db:"starts_at" json:"starts_at"`
	EndsAt      time.Time `db:"ends_at" json:"ends_at"`
	Capacity    int       `db:"capacity" json:"capacity"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}

// EventSeries describes a weekly recurring run of events.
type EventSeries struct {
	ID              int       `db:"id" json:"id"`
	Title           string    `db:"title" json:"title"`
	Description     string    `db:"description" json:"description"`
	OwnerID         int       `db:"owner_id" json:"owner_id"`
	RoomID          *int      `db:"room_id" json:"room_id,omitempty"`
	FirstStart      time.Time `db:"first_start" json:"first_start"`
	DurationMinutes int       `db:"duration_minutes" json:"duration_minutes"`
	IntervalDays    int       `db:"interval_days" json:"interval_days"`
	Occurrences     int       `db:"occurrences" json:"occurrences"`
	Capacity        int       `db:"capacity" json:"capacity"`
	CreatedAt       time.Time `db:"created_at" json:"created_at"`
}

// ApplicationStatus is the moderation state of an event application.
type ApplicationStatus string

const (
	ApplicationPending  ApplicationStatus = "PENDING"
	ApplicationApproved ApplicationStatus = "APPROVED"
	ApplicationRejected ApplicationStatus = "REJECTED"
)

// EventApplication represents a user's application to attend an event.
type EventApplication struct {
	ID          int               `db:"id" json:"id"`
	EventID     int               `db:"event_id" json:"event_id"`
	UserID      int               `db:"user_id" json:"user_id"`
	Status      ApplicationStatus `db:"status" json:"status"`
	CheckedIn   bool              `db:"checked_in" json:"checked_in"`
	CheckedInAt *time.Time        `db:"checked_in_at" json:"checked_in_at,omitempty"`
	CreatedAt   time.Time         `db:"created_at" json:"created_at"`
}
