package shift

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustHours(t *testing.T, starts, ends string) WorkHours {
	t.Helper()
	h, err := ParseWorkHours(starts, ends)
	require.NoError(t, err)
	return h
}

func at(t *testing.T, value string) time.Time {
	t.Helper()
	ts, err := time.Parse(time.RFC3339, value)
	require.NoError(t, err)
	return ts
}

// TestParseTimeOfDay тестирует разбор времени суток
func TestParseTimeOfDay(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    TimeOfDay
		wantErr bool
	}{
		{name: "standard time", input: "10:00", want: TimeOfDay{Hour: 10, Minute: 0}},
		{name: "leading zero", input: "09:30", want: TimeOfDay{Hour: 9, Minute: 30}},
		{name: "midnight", input: "00:00", want: TimeOfDay{}},
		{name: "end of day", input: "23:59", want: TimeOfDay{Hour: 23, Minute: 59}},
		{name: "hour out of range", input: "24:00", wantErr: true},
		{name: "minute out of range", input: "10:60", wantErr: true},
		{name: "no separator", input: "1000", wantErr: true},
		{name: "garbage", input: "ab:cd", wantErr: true},
		{name: "empty", input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseTimeOfDay(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

// TestParseWorkHoursDefaults тестирует подстановку дефолтных часов
func TestParseWorkHoursDefaults(t *testing.T) {
	h, err := ParseWorkHours("", "")
	require.NoError(t, err)
	assert.Equal(t, TimeOfDay{Hour: 10}, h.Starts)
	assert.Equal(t, TimeOfDay{Hour: 23}, h.Ends)

	h, err = ParseWorkHours("08:00", "")
	require.NoError(t, err)
	assert.Equal(t, TimeOfDay{Hour: 8}, h.Starts)
	assert.Equal(t, TimeOfDay{Hour: 23}, h.Ends)
}

// TestResolveDayShift тестирует резолв обычной дневной смены
func TestResolveDayShift(t *testing.T) {
	hours := mustHours(t, "10:00", "23:00")

	tests := []struct {
		name      string
		at        string
		wantOpen  bool
		wantStart string
		wantEnd   string
	}{
		{
			name:      "midday is inside",
			at:        "2026-03-10T12:00:00Z",
			wantOpen:  true,
			wantStart: "2026-03-10T10:00:00Z",
			wantEnd:   "2026-03-10T23:00:00Z",
		},
		{
			name:      "opening minute is inside",
			at:        "2026-03-10T10:00:00Z",
			wantOpen:  true,
			wantStart: "2026-03-10T10:00:00Z",
			wantEnd:   "2026-03-10T23:00:00Z",
		},
		{
			name:     "closing minute is outside",
			at:       "2026-03-10T23:00:00Z",
			wantOpen: false,
		},
		{
			name:     "before opening",
			at:       "2026-03-10T09:00:00Z",
			wantOpen: false,
		},
		{
			name:     "small hours are closed",
			at:       "2026-03-10T03:00:00Z",
			wantOpen: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			win, ok := Resolve(hours, at(t, tt.at))
			assert.Equal(t, tt.wantOpen, ok)
			if tt.wantOpen {
				assert.Equal(t, at(t, tt.wantStart), win.Start)
				assert.Equal(t, at(t, tt.wantEnd), win.End)
			}
		})
	}
}

// TestResolveOvernightShift тестирует смену через полночь: момент после
// полуночи должен попадать в окно, начавшееся накануне.
func TestResolveOvernightShift(t *testing.T) {
	hours := mustHours(t, "22:00", "03:00")

	tests := []struct {
		name      string
		at        string
		wantOpen  bool
		wantStart string
		wantEnd   string
	}{
		{
			name:      "late evening belongs to today's window",
			at:        "2026-03-10T22:30:00Z",
			wantOpen:  true,
			wantStart: "2026-03-10T22:00:00Z",
			wantEnd:   "2026-03-11T03:00:00Z",
		},
		{
			name:      "after midnight belongs to yesterday's window",
			at:        "2026-03-11T01:00:00Z",
			wantOpen:  true,
			wantStart: "2026-03-10T22:00:00Z",
			wantEnd:   "2026-03-11T03:00:00Z",
		},
		{
			name:     "closing instant is outside",
			at:       "2026-03-11T03:00:00Z",
			wantOpen: false,
		},
		{
			name:     "afternoon gap is closed",
			at:       "2026-03-10T15:00:00Z",
			wantOpen: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			win, ok := Resolve(hours, at(t, tt.at))
			assert.Equal(t, tt.wantOpen, ok)
			if tt.wantOpen {
				assert.Equal(t, at(t, tt.wantStart), win.Start)
				assert.Equal(t, at(t, tt.wantEnd), win.End)
			}
		})
	}
}

// TestResolveRoundTheClock тестирует вырожденный случай: равные часы
// открытия и закрытия трактуются как круглосуточная смена.
func TestResolveRoundTheClock(t *testing.T) {
	hours := mustHours(t, "10:00", "10:00")

	win, ok := Resolve(hours, at(t, "2026-03-10T10:00:00Z"))
	require.True(t, ok)
	assert.Equal(t, at(t, "2026-03-10T10:00:00Z"), win.Start)
	assert.Equal(t, at(t, "2026-03-11T10:00:00Z"), win.End)

	// Момент перед стартом принадлежит вчерашнему окну
	win, ok = Resolve(hours, at(t, "2026-03-10T09:59:00Z"))
	require.True(t, ok)
	assert.Equal(t, at(t, "2026-03-09T10:00:00Z"), win.Start)
}

// TestResolveIsPure проверяет, что резолв не мутирует входной момент
// и дважды на одном входе даёт одинаковый результат.
func TestResolveIsPure(t *testing.T) {
	hours := mustHours(t, "22:00", "03:00")
	moment := at(t, "2026-03-11T01:00:00Z")
	before := moment

	win1, ok1 := Resolve(hours, moment)
	win2, ok2 := Resolve(hours, moment)

	assert.Equal(t, before, moment)
	assert.Equal(t, ok1, ok2)
	assert.Equal(t, win1, win2)
}

// TestApplyCallerOffset тестирует перевод момента в систему отсчёта
// вызывающего: положительный offset — запад от UTC.
func TestApplyCallerOffset(t *testing.T) {
	moment := at(t, "2026-03-10T12:00:00Z")

	assert.Equal(t, at(t, "2026-03-10T12:00:00Z"), ApplyCallerOffset(moment, 0))
	// UTC-5: offset = 300, локальное время на 5 часов меньше
	assert.Equal(t, at(t, "2026-03-10T07:00:00Z"), ApplyCallerOffset(moment, 300))
	// UTC+3: offset = -180
	assert.Equal(t, at(t, "2026-03-10T15:00:00Z"), ApplyCallerOffset(moment, -180))
}

// TestWindowContains тестирует полуинтервал [Start, End)
func TestWindowContains(t *testing.T) {
	win := Window{
		Start: at(t, "2026-03-10T10:00:00Z"),
		End:   at(t, "2026-03-10T23:00:00Z"),
	}

	assert.True(t, win.Contains(at(t, "2026-03-10T10:00:00Z")))
	assert.True(t, win.Contains(at(t, "2026-03-10T22:59:59Z")))
	assert.False(t, win.Contains(at(t, "2026-03-10T23:00:00Z")))
	assert.False(t, win.Contains(at(t, "2026-03-10T09:59:59Z")))
}
