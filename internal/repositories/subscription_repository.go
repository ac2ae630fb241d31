package repositories

import (
	"context"
	"errors"

	"github.com/jmoiron/sqlx"

	"localit/internal/models"
)

var ErrSubscriptionNotFound = errors.New("subscription not found")

// SubscriptionRepository abstracts series/group subscriptions.
type SubscriptionRepository interface {
	Subscribe(ctx context.Context, userID int, kind models.SubscriptionTarget, targetID int) (models.Subscription, error)
	Unsubscribe(ctx context.Context, userID int, kind models.SubscriptionTarget, targetID int) error
	ListForUser(ctx context.Context, userID int) ([]models.Subscription, error)
}

// SubscriptionRepo is a sqlx implementation of SubscriptionRepository.
type SubscriptionRepo struct {
	db *sqlx.DB
}

// NewSubscriptionRepo constructs a SubscriptionRepo.
func NewSubscriptionRepo(db *sqlx.DB) *SubscriptionRepo {
	return &SubscriptionRepo{db: db}
}

// Subscribe upserts a subscription; resubscribing is a no-op returning the
// existing row.
func (r *SubscriptionRepo) Subscribe(ctx context.Context, userID int, kind models.SubscriptionTarget, targetID int) (models.Subscription, error) {
	var sub models.Subscription
	err := r.db.QueryRowxContext(ctx, `INSERT INTO subscriptions (user_id, target_kind, target_id)
        VALUES ($1, $2, $3)
        ON CONFLICT (user_id, target_kind, target_id) DO UPDATE SET target_id = EXCLUDED.target_id
        RETURNING id, user_id, target_kind, target_id, created_at`, userID, kind, targetID).
		StructScan(&sub)
	return sub, err
}

// Unsubscribe removes a subscription.
func (r *SubscriptionRepo) Unsubscribe(ctx context.Context, userID int, kind models.SubscriptionTarget, targetID int) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM subscriptions WHERE user_id=$1 AND target_kind=$2 AND target_id=$3`,
		userID, kind, targetID)
	if err != nil {
		return err
	}
	count, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if count == 0 {
		return ErrSubscriptionNotFound
	}
	return nil
}

// ListForUser returns the user's subscriptions, newest first.
func (r *SubscriptionRepo) ListForUser(ctx context.Context, userID int) ([]models.Subscription, error) {
	var subs []models.Subscription
	err := r.db.SelectContext(ctx, &subs, `SELECT id, user_id, target_kind, target_id, created_at
        FROM subscriptions WHERE user_id=$1 ORDER BY created_at DESC`, userID)
	return subs, err
}
