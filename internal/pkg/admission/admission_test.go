package admission

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dlotsss/brondau-server/internal/entity"
	"github.com/dlotsss/brondau-server/internal/pkg/shift"
)

func ts(t *testing.T, value string) time.Time {
	t.Helper()
	parsed, err := time.Parse(time.RFC3339, value)
	require.NoError(t, err)
	return parsed
}

func activeBooking(t *testing.T, tableID, dateTime string) *entity.Booking {
	t.Helper()
	return &entity.Booking{
		TableID:  tableID,
		DateTime: ts(t, dateTime),
		Status:   entity.BookingStatusConfirmed,
	}
}

func candidate(t *testing.T, dateTime string) Candidate {
	t.Helper()
	moment := ts(t, dateTime)
	return Candidate{
		RestaurantID:    1,
		TableID:         "t1",
		NormalizedPhone: "77001112233",
		RequestedAt:     moment,
		ValidationAt:    moment,
	}
}

// TestCheckClosingBuffer тестирует отсечку за час до закрытия
func TestCheckClosingBuffer(t *testing.T) {
	win := shift.Window{
		Start: ts(t, "2026-03-10T10:00:00Z"),
		End:   ts(t, "2026-03-10T23:00:00Z"),
	}

	tests := []struct {
		name       string
		at         string
		wantReason entity.RejectReason
	}{
		{name: "midday is fine", at: "2026-03-10T12:00:00Z"},
		{name: "exactly one hour before closing is allowed", at: "2026-03-10T22:00:00Z"},
		{name: "inside the buffer is rejected", at: "2026-03-10T22:30:00Z", wantReason: entity.ReasonOutOfHours},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Check(candidate(t, tt.at), win, nil, nil)
			if tt.wantReason == "" {
				assert.Nil(t, err)
				return
			}
			require.NotNil(t, err)
			assert.Equal(t, tt.wantReason, err.Reason)
		})
	}
}

// TestCheckDuplicateGuest тестирует правило одной живой брони на гостя
func TestCheckDuplicateGuest(t *testing.T) {
	win := shift.Window{
		Start: ts(t, "2026-03-10T10:00:00Z"),
		End:   ts(t, "2026-03-10T23:00:00Z"),
	}
	c := candidate(t, "2026-03-10T12:00:00Z")

	err := Check(c, win, nil, []*entity.Booking{activeBooking(t, "t7", "2026-03-10T18:00:00Z")})
	require.NotNil(t, err)
	assert.Equal(t, entity.ReasonDuplicateGuest, err.Reason)

	// Пустой активный набор по телефону — правило не срабатывает
	assert.Nil(t, Check(c, win, nil, nil))
}

// TestCheckTableConflicts тестирует правила удержания стола: блок до
// конца смены ранней бронью и часовой буфер вокруг запрошенного времени.
func TestCheckTableConflicts(t *testing.T) {
	win := shift.Window{
		Start: ts(t, "2026-03-10T10:00:00Z"),
		End:   ts(t, "2026-03-10T23:00:00Z"),
	}

	tests := []struct {
		name       string
		requested  string
		existing   string
		wantReason entity.RejectReason
	}{
		{
			name:       "earlier booking holds table for the rest of the day",
			requested:  "2026-03-10T14:00:00Z",
			existing:   "2026-03-10T12:00:00Z",
			wantReason: entity.ReasonTableHeld,
		},
		{
			name:       "booking at the same instant holds the table",
			requested:  "2026-03-10T12:00:00Z",
			existing:   "2026-03-10T12:00:00Z",
			wantReason: entity.ReasonTableHeld,
		},
		{
			name:       "later booking within an hour conflicts",
			requested:  "2026-03-10T11:30:00Z",
			existing:   "2026-03-10T12:00:00Z",
			wantReason: entity.ReasonTimeConflict,
		},
		{
			name:      "later booking exactly an hour away is allowed",
			requested: "2026-03-10T11:00:00Z",
			existing:  "2026-03-10T12:00:00Z",
		},
		{
			name:      "later booking beyond an hour is allowed",
			requested: "2026-03-10T10:00:00Z",
			existing:  "2026-03-10T12:00:00Z",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Check(candidate(t, tt.requested), win,
				[]*entity.Booking{activeBooking(t, "t1", tt.existing)}, nil)
			if tt.wantReason == "" {
				assert.Nil(t, err)
				return
			}
			require.NotNil(t, err)
			assert.Equal(t, tt.wantReason, err.Reason)
		})
	}
}

// TestCheckOrderOfRules: при нескольких нарушениях сразу побеждает
// более раннее правило — здесь дубль гостя старше конфликта по столу.
func TestCheckOrderOfRules(t *testing.T) {
	win := shift.Window{
		Start: ts(t, "2026-03-10T10:00:00Z"),
		End:   ts(t, "2026-03-10T23:00:00Z"),
	}
	c := candidate(t, "2026-03-10T14:00:00Z")
	held := []*entity.Booking{activeBooking(t, "t1", "2026-03-10T12:00:00Z")}
	dup := []*entity.Booking{activeBooking(t, "t9", "2026-03-10T18:00:00Z")}

	err := Check(c, win, held, dup)
	require.NotNil(t, err)
	assert.Equal(t, entity.ReasonDuplicateGuest, err.Reason)
}

// TestCheckValidationFrame: буфер закрытия считается в системе отсчёта
// ресторана, конфликты по столу — по исходным моментам.
func TestCheckValidationFrame(t *testing.T) {
	win := shift.Window{
		Start: ts(t, "2026-03-10T10:00:00Z"),
		End:   ts(t, "2026-03-10T23:00:00Z"),
	}

	c := Candidate{
		RestaurantID:    1,
		TableID:         "t1",
		NormalizedPhone: "77001112233",
		RequestedAt:     ts(t, "2026-03-10T19:30:00Z"),
		ValidationAt:    ts(t, "2026-03-10T22:30:00Z"), // сдвинут в кадр ресторана
	}

	err := Check(c, win, nil, nil)
	require.NotNil(t, err)
	assert.Equal(t, entity.ReasonOutOfHours, err.Reason)
}

// TestOutOfHours тестирует отказ вне смены
func TestOutOfHours(t *testing.T) {
	hours, err := shift.ParseWorkHours("10:00", "23:00")
	require.NoError(t, err)

	rejection := OutOfHours(hours)
	require.NotNil(t, rejection)
	assert.Equal(t, entity.ReasonOutOfHours, rejection.Reason)
	assert.Contains(t, rejection.Message, "10:00")
	assert.Contains(t, rejection.Message, "23:00")
}
