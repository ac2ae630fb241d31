package models

import "time"

// Room is a reservable physical space.
type Room struct {
	ID              int       `db:"id" json:"id"`
	Name            string    `db:"name" json:"name"`
	Location        string    `db:"location" json:"location"`
	Capacity        int       `db:"capacity" json:"capacity"`
	OpensAt         string    `db:"opens_at" json:"opens_at"`   // "HH:mm"
	ClosesAt        string    `db:"closes_at" json:"closes_at"` // "HH:mm"
	SlotStepMinutes int       `db:"slot_step_minutes" json:"slot_step_minutes"`
	CreatedAt       time.Time `db:"created_at" json:"created_at"`
}

// Reservation is a booked window in a room.
type Reservation struct {
	ID        int       `db:"id" json:"id"`
	RoomID    int       `db:"room_id" json:"room_id"`
	UserID    int       `db:"user_id" json:"user_id"`
	StartsAt  time.Time `db:"starts_at" json:"starts_at"`
	EndsAt    time.Time `db:"ends_at" json:"ends_at"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}
