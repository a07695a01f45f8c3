package entity

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestCanTransitionTo тестирует матрицу переходов жизненного цикла
func TestCanTransitionTo(t *testing.T) {
	tests := []struct {
		name string
		from BookingStatus
		to   BookingStatus
		want bool
	}{
		{name: "pending to confirmed", from: BookingStatusPending, to: BookingStatusConfirmed, want: true},
		{name: "pending to declined", from: BookingStatusPending, to: BookingStatusDeclined, want: true},
		{name: "pending to occupied is forbidden", from: BookingStatusPending, to: BookingStatusOccupied, want: false},
		{name: "pending to completed is forbidden", from: BookingStatusPending, to: BookingStatusCompleted, want: false},
		{name: "confirmed to occupied", from: BookingStatusConfirmed, to: BookingStatusOccupied, want: true},
		{name: "confirmed to completed", from: BookingStatusConfirmed, to: BookingStatusCompleted, want: true},
		{name: "confirmed to declined", from: BookingStatusConfirmed, to: BookingStatusDeclined, want: true},
		{name: "occupied to completed", from: BookingStatusOccupied, to: BookingStatusCompleted, want: true},
		{name: "occupied to declined", from: BookingStatusOccupied, to: BookingStatusDeclined, want: true},
		{name: "occupied to confirmed is forbidden", from: BookingStatusOccupied, to: BookingStatusConfirmed, want: false},
		{name: "declined is terminal", from: BookingStatusDeclined, to: BookingStatusPending, want: false},
		{name: "completed is terminal", from: BookingStatusCompleted, to: BookingStatusOccupied, want: false},
		{name: "self transition is forbidden", from: BookingStatusPending, to: BookingStatusPending, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.from.CanTransitionTo(tt.to))
		})
	}
}

// TestStatusPredicates тестирует разбиение статусов на активные и терминальные
func TestStatusPredicates(t *testing.T) {
	active := []BookingStatus{BookingStatusPending, BookingStatusConfirmed, BookingStatusOccupied}
	terminal := []BookingStatus{BookingStatusDeclined, BookingStatusCompleted}

	for _, s := range active {
		assert.True(t, s.IsActive(), "status %s", s)
		assert.False(t, s.IsTerminal(), "status %s", s)
		assert.True(t, s.Valid(), "status %s", s)
	}
	for _, s := range terminal {
		assert.False(t, s.IsActive(), "status %s", s)
		assert.True(t, s.IsTerminal(), "status %s", s)
		assert.True(t, s.Valid(), "status %s", s)
	}

	assert.False(t, BookingStatus("CANCELLED").Valid())
	assert.False(t, BookingStatus("pending").Valid())
}

// TestNormalizePhone тестирует нормализацию телефона до цифр
func TestNormalizePhone(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "formatted number", input: "+7 (700) 111-22-33", want: "77001112233"},
		{name: "digits only", input: "77001112233", want: "77001112233"},
		{name: "spaces and dots", input: "8 700.111.22.33", want: "87001112233"},
		{name: "empty", input: "", want: ""},
		{name: "no digits at all", input: "abc-def", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizePhone(tt.input))
		})
	}
}

// TestAdmissionError тестирует извлечение бизнес-отказа из цепочки ошибок
func TestAdmissionError(t *testing.T) {
	base := NewAdmissionError(ReasonTableHeld, "table is held")
	wrapped := errors.Join(errors.New("submit failed"), base)

	ae, ok := AsAdmissionError(wrapped)
	require.True(t, ok)
	assert.Equal(t, ReasonTableHeld, ae.Reason)
	assert.Equal(t, "table is held", ae.Error())

	_, ok = AsAdmissionError(errors.New("plain error"))
	assert.False(t, ok)
}
