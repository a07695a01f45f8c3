package entity

import (
	"strings"
	"time"
)

type BookingStatus string

const (
	BookingStatusPending   BookingStatus = "PENDING"
	BookingStatusConfirmed BookingStatus = "CONFIRMED"
	BookingStatusDeclined  BookingStatus = "DECLINED"
	BookingStatusOccupied  BookingStatus = "OCCUPIED"
	BookingStatusCompleted BookingStatus = "COMPLETED"
)

// DeclineReasonExpired записывается при автоматической отмене
// просроченных PENDING-броней.
const DeclineReasonExpired = "Automatic cancellation"

func (s BookingStatus) IsActive() bool {
	switch s {
	case BookingStatusPending, BookingStatusConfirmed, BookingStatusOccupied:
		return true
	}
	return false
}

func (s BookingStatus) IsTerminal() bool {
	return s == BookingStatusDeclined || s == BookingStatusCompleted
}

func (s BookingStatus) Valid() bool {
	switch s {
	case BookingStatusPending, BookingStatusConfirmed, BookingStatusDeclined,
		BookingStatusOccupied, BookingStatusCompleted:
		return true
	}
	return false
}

// CanTransitionTo проверяет допустимость перехода статуса.
// Из терминальных статусов переходов нет; любую активную бронь
// персонал может отклонить.
func (s BookingStatus) CanTransitionTo(next BookingStatus) bool {
	switch s {
	case BookingStatusPending:
		return next == BookingStatusConfirmed || next == BookingStatusDeclined
	case BookingStatusConfirmed:
		return next == BookingStatusOccupied || next == BookingStatusCompleted || next == BookingStatusDeclined
	case BookingStatusOccupied:
		return next == BookingStatusCompleted || next == BookingStatusDeclined
	}
	return false
}

type Booking struct {
	ID            int64         `json:"id" db:"id"`
	RestaurantID  int64         `json:"restaurant_id" db:"restaurant_id"`
	TableID       string        `json:"table_id" db:"table_id"`
	TableLabel    string        `json:"table_label" db:"table_label"`
	GuestName     string        `json:"guest_name" db:"guest_name"`
	GuestPhone    string        `json:"guest_phone" db:"guest_phone"`
	GuestEmail    string        `json:"guest_email,omitempty" db:"guest_email"`
	GuestCount    int           `json:"guest_count" db:"guest_count"`
	DateTime      time.Time     `json:"date_time" db:"date_time"`
	Status        BookingStatus `json:"status" db:"status"`
	DeclineReason *string       `json:"decline_reason,omitempty" db:"decline_reason"`
	CreatedAt     time.Time     `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time     `json:"updated_at" db:"updated_at"`
}

// StatusPatch явно перечисляет поля, изменяемые при смене статуса.
type StatusPatch struct {
	Status        BookingStatus `json:"status"`
	DeclineReason *string       `json:"decline_reason,omitempty"`
}

// NormalizePhone отбрасывает из телефона все символы, кроме цифр.
// Сравнение телефонов выполняется только по нормализованной форме.
func NormalizePhone(phone string) string {
	var b strings.Builder
	for _, r := range phone {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
