package queue

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// TestShouldRetry тестирует решение о повторе задачи
func TestShouldRetry(t *testing.T) {
	rm := NewRetryManager(3, time.Second)

	tests := []struct {
		name     string
		attempts int
		err      error
		want     bool
	}{
		{name: "transient error is retried", attempts: 0, err: errors.New("connection refused"), want: true},
		{name: "attempts exhausted", attempts: 3, err: errors.New("connection refused"), want: false},
		{name: "dead recipient is not retried", attempts: 0, err: errors.New("recipient is gone"), want: false},
		{name: "validation failure is not retried", attempts: 1, err: errors.New("validation failed: bad payload"), want: false},
		{name: "not found is not retried", attempts: 0, err: errors.New("booking not found"), want: false},
		{name: "nil error is not retried", attempts: 0, err: nil, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			task := &Task{ID: "t", Type: TaskTypeBookingRequested, Attempts: tt.attempts, MaxRetries: 3}
			got, delay := rm.ShouldRetry(task, tt.err)
			assert.Equal(t, tt.want, got)
			if got {
				assert.Greater(t, delay, time.Duration(0))
			}
		})
	}
}

// TestCalculateBackoff: задержка растет с номером попытки и не выходит
// за максимум.
func TestCalculateBackoff(t *testing.T) {
	rm := NewRetryManager(5, time.Second)

	for attempt := 0; attempt < 10; attempt++ {
		delay := rm.calculateBackoff(attempt)
		assert.Greater(t, delay, time.Duration(0), "attempt %d", attempt)
		assert.LessOrEqual(t, delay, 16*time.Second, "attempt %d", attempt)
	}
}

// TestTaskDataHelpers тестирует типизированный доступ к данным задачи
func TestTaskDataHelpers(t *testing.T) {
	moment := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	task := &Task{
		ID:   NewTaskID(TaskTypeBookingConfirmed),
		Type: TaskTypeBookingConfirmed,
		Data: map[string]interface{}{
			"booking_id":    int64(42),
			"restaurant_id": float64(7), // после JSON-раунда числа приходят как float64
			"guest_name":    "Aruzhan",
			"date_time":     moment.Format(time.RFC3339),
		},
	}

	assert.Equal(t, int64(42), task.GetInt64("booking_id"))
	assert.Equal(t, int64(7), task.GetInt64("restaurant_id"))
	assert.Equal(t, "Aruzhan", task.GetString("guest_name"))
	assert.Equal(t, moment, task.GetTime("date_time"))

	assert.Zero(t, task.GetInt64("missing"))
	assert.Empty(t, task.GetString("missing"))
	assert.True(t, task.GetTime("missing").IsZero())
}

// TestTaskValidate тестирует валидацию задачи перед публикацией
func TestTaskValidate(t *testing.T) {
	valid := &Task{ID: "id", Type: TaskTypeBookingRequested}
	assert.NoError(t, valid.Validate())
	assert.NotNil(t, valid.Data, "Validate инициализирует пустые данные")

	assert.Error(t, (&Task{Type: TaskTypeBookingRequested}).Validate())
	assert.Error(t, (&Task{ID: "id"}).Validate())
}
