package entity

import "time"

type SubscriberRole string

const (
	SubscriberRoleAdmin SubscriberRole = "ADMIN"
	SubscriberRoleGuest SubscriberRole = "GUEST"
)

// PushSubscription связывает получателя уведомлений с каналом доставки.
// Админы подписаны на ресторан, гости — на свой нормализованный телефон.
type PushSubscription struct {
	Endpoint     string         `json:"endpoint" db:"endpoint"`
	ChatID       string         `json:"chat_id" db:"chat_id"`
	Role         SubscriberRole `json:"role" db:"role"`
	RestaurantID *int64         `json:"restaurant_id,omitempty" db:"restaurant_id"`
	GuestPhone   string         `json:"guest_phone,omitempty" db:"guest_phone"`
	CreatedAt    time.Time      `json:"created_at" db:"created_at"`
}
