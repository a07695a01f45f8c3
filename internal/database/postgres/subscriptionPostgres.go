package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dlotsss/brondau-server/internal/entity"
)

type subscriptionRepository struct {
	db *sql.DB
}

func NewSubscriptionRepository(db *sql.DB) SubscriptionRepository {
	return &subscriptionRepository{db: db}
}

func (r *subscriptionRepository) Upsert(ctx context.Context, sub *entity.PushSubscription) error {
	query := `
		INSERT INTO push_subscriptions (endpoint, chat_id, role, restaurant_id, guest_phone)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (endpoint) DO UPDATE SET
			chat_id = EXCLUDED.chat_id,
			role = EXCLUDED.role,
			restaurant_id = EXCLUDED.restaurant_id,
			guest_phone = EXCLUDED.guest_phone
	`
	_, err := r.db.ExecContext(ctx, query,
		sub.Endpoint, sub.ChatID, sub.Role, sub.RestaurantID, nullString(sub.GuestPhone))
	if err != nil {
		return fmt.Errorf("failed to upsert subscription: %w", mapTxError(err))
	}
	return nil
}

func (r *subscriptionRepository) Delete(ctx context.Context, endpoint string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM push_subscriptions WHERE endpoint = $1`, endpoint)
	if err != nil {
		return fmt.Errorf("failed to delete subscription: %w", mapTxError(err))
	}
	return nil
}

func (r *subscriptionRepository) GetAdminsByRestaurant(ctx context.Context, restaurantID int64) ([]*entity.PushSubscription, error) {
	query := `
		SELECT endpoint, chat_id, role, restaurant_id, guest_phone, created_at
		FROM push_subscriptions
		WHERE role = 'ADMIN' AND restaurant_id = $1
	`
	return r.querySubscriptions(ctx, query, restaurantID)
}

func (r *subscriptionRepository) GetGuestsByPhone(ctx context.Context, normalizedPhone string) ([]*entity.PushSubscription, error) {
	query := `
		SELECT endpoint, chat_id, role, restaurant_id, guest_phone, created_at
		FROM push_subscriptions
		WHERE role = 'GUEST' AND guest_phone = $1
	`
	return r.querySubscriptions(ctx, query, normalizedPhone)
}

func (r *subscriptionRepository) querySubscriptions(ctx context.Context, query string, args ...interface{}) ([]*entity.PushSubscription, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query subscriptions: %w", mapTxError(err))
	}
	defer rows.Close()

	var subs []*entity.PushSubscription
	for rows.Next() {
		var sub entity.PushSubscription
		var restaurantID sql.NullInt64
		var phone sql.NullString

		err := rows.Scan(&sub.Endpoint, &sub.ChatID, &sub.Role, &restaurantID, &phone, &sub.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan subscription: %w", err)
		}

		if restaurantID.Valid {
			sub.RestaurantID = &restaurantID.Int64
		}
		sub.GuestPhone = phone.String
		subs = append(subs, &sub)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating subscriptions: %w", err)
	}

	return subs, nil
}
