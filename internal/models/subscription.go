package models

import "time"

// SubscriptionTarget is what a subscription points at.
type SubscriptionTarget string

const (
	SubscribeSeries SubscriptionTarget = "SERIES"
	SubscribeGroup  SubscriptionTarget = "GROUP"
)

// Subscription links a user to an event series or a group.
type Subscription struct {
	ID         int                `db:"id" json:"id"`
	UserID     int                `db:"user_id" json:"user_id"`
	TargetKind SubscriptionTarget `db:"target_kind" json:"target_kind"`
	TargetID   int                `db:"target_id" json:"target_id"`
	CreatedAt  time.Time          `db:"created_at" json:"created_at"`
}
